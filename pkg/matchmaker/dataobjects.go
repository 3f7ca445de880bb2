// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

// OpenInstance is a running match that can take more participants.
type OpenInstance struct {
	MatchID   string                `json:"matchID"`
	Bracket   models.BracketID      `json:"bracket"`
	FreeSlots [models.TeamCount]int `json:"freeSlots"` // indexed by models.Team
}

// Free returns the open slots of one side.
func (o OpenInstance) Free(team models.Team) int {
	return o.FreeSlots[team]
}

// Notification is one queue event as published by notifiers that serialize
// events, such as the redis outbox.
type Notification struct {
	Type     string          `json:"type"`
	Identity models.Identity `json:"identity"`
	MatchID  string          `json:"matchID,omitempty"`
	Deadline int64           `json:"deadline,omitempty"` // unix milliseconds
	Reason   string          `json:"reason,omitempty"`
}

const (
	NotificationInvited = "invited"
	NotificationRemoved = "removed"
)
