// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package matchmaker provides the interfaces between the bracket queue engine
// and the services around it: session notification and match instances.
package matchmaker

import (
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

/*
SessionNotifier delivers queue events to participants. Calls are fire and
forget: the engine does not retry a failed delivery and the notifier must not
call back into the engine. Any reaction is deferred to a later engine call.
*/
type SessionNotifier interface {
	// NotifyInvited tells a participant a match is ready. The deadline is the
	// token the session layer passes back to IsInvited before admitting entry.
	NotifyInvited(scope *envelope.Scope, identity models.Identity, matchID string, deadline time.Time)

	// NotifyRemovedFromQueue tells a participant their queue membership ended.
	NotifyRemovedFromQueue(scope *envelope.Scope, identity models.Identity, reason string)
}

// MatchInstanceService owns the match instances participants are invited to.
type MatchInstanceService interface {
	// CreateOrReuseMatchInstance returns the id of an instance that can host a
	// new match for the bracket.
	CreateOrReuseMatchInstance(scope *envelope.Scope, bracket models.BracketID) (matchID string, err error)

	// OpenInstances lists running, non-rated instances of the bracket that still have free slots.
	OpenInstances(scope *envelope.Scope, bracket models.BracketID) []OpenInstance
}

// QueueEngine is what the orchestration layer drives. One engine owns every
// bracket of a process; it is not safe for concurrent use.
type QueueEngine interface {
	JoinQueue(scope *envelope.Scope, request models.JoinRequest) (models.GroupHandle, error)
	LeaveQueue(scope *envelope.Scope, identity models.Identity, decreaseInviteCounters bool) bool
	IsInvited(identity models.Identity, matchID string, deadline time.Time) bool
	EstimatedWait(team models.Team, bracket models.BracketID) time.Duration

	// Tick advances the logical clock by delta, fires due timers, runs
	// housekeeping, then makes one matchmaking attempt for the bracket.
	Tick(scope *envelope.Scope, delta time.Duration, bracket models.BracketID, minRating int)

	// Update advances the logical clock and makes one attempt per active bracket.
	Update(scope *envelope.Scope, delta time.Duration)

	PlayerEntered(scope *envelope.Scope, identity models.Identity, matchID string) bool
	NotifyInstanceDestroyed(scope *envelope.Scope, matchID string)

	// Touch marks a queued participant as online. When OFFLINE_GRACE_SECOND is
	// set the session layer must call it as a heartbeat, otherwise every
	// participant queued longer than the grace period is removed as offline.
	Touch(identity models.Identity) bool
}
