// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/matchmaker"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

// LogNotifier only logs. It is used when no redis is configured.
type LogNotifier struct{}

var _ matchmaker.SessionNotifier = LogNotifier{}

func (LogNotifier) NotifyInvited(scope *envelope.Scope, identity models.Identity, matchID string, deadline time.Time) {
	scope.Log.
		WithField("identity", identity).
		WithField("matchID", matchID).
		WithField("deadline", deadline).
		Info("notify invited")
}

func (LogNotifier) NotifyRemovedFromQueue(scope *envelope.Scope, identity models.Identity, reason string) {
	scope.Log.
		WithField("identity", identity).
		WithField("reason", reason).
		Info("notify removed from queue")
}
