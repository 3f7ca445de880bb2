// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"errors"
	"fmt"
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/matchmaker"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

var ErrNoInstance = errors.New("no match instance available")

type Invite struct {
	Identity models.Identity
	MatchID  string
	Deadline time.Time
}

type Removal struct {
	Identity models.Identity
	Reason   string
}

// RecordingNotifier keeps every notification in order of delivery.
type RecordingNotifier struct {
	Invites  []Invite
	Removals []Removal
}

func (n *RecordingNotifier) NotifyInvited(scope *envelope.Scope, identity models.Identity, matchID string, deadline time.Time) {
	n.Invites = append(n.Invites, Invite{Identity: identity, MatchID: matchID, Deadline: deadline})
}

func (n *RecordingNotifier) NotifyRemovedFromQueue(scope *envelope.Scope, identity models.Identity, reason string) {
	n.Removals = append(n.Removals, Removal{Identity: identity, Reason: reason})
}

// InvitesFor returns the invites delivered to one participant.
func (n *RecordingNotifier) InvitesFor(identity models.Identity) []Invite {
	var invites []Invite
	for _, invite := range n.Invites {
		if invite.Identity == identity {
			invites = append(invites, invite)
		}
	}
	return invites
}

func (n *RecordingNotifier) Reset() {
	n.Invites = nil
	n.Removals = nil
}

// StubMatchInstances hands out sequential match ids. Open instances are
// returned as configured; Fail makes instance creation fail.
type StubMatchInstances struct {
	Created []string
	Open    map[models.BracketID][]matchmaker.OpenInstance
	Fail    bool
}

func (s *StubMatchInstances) CreateOrReuseMatchInstance(scope *envelope.Scope, bracket models.BracketID) (string, error) {
	if s.Fail {
		return "", ErrNoInstance
	}
	matchID := fmt.Sprintf("match-%d-%d", bracket, len(s.Created)+1)
	s.Created = append(s.Created, matchID)
	return matchID, nil
}

func (s *StubMatchInstances) OpenInstances(scope *envelope.Scope, bracket models.BracketID) []matchmaker.OpenInstance {
	return s.Open[bracket]
}
