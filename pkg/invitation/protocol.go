// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package invitation moves queued groups through Queued, Invited, Entered and
// Removed. Timers are logical: they fire when Advance is called with a clock
// at or past their fire time.
package invitation

import (
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/config"
	"github.com/AccelByte/extend-bracket-queue/pkg/constants"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/matchmaker"
	"github.com/AccelByte/extend-bracket-queue/pkg/metrics"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/queue"
	"github.com/AccelByte/extend-bracket-queue/pkg/waittime"
)

type Protocol struct {
	store    *queue.Store
	notifier matchmaker.SessionNotifier
	tracker  *waittime.Tracker
	metrics  metrics.QueueMetrics
	timers   TimerQueue

	remind        time.Duration
	acceptWait    time.Duration
	reinviteLimit int
}

func NewProtocol(cfg *config.Config, store *queue.Store, notifier matchmaker.SessionNotifier, tracker *waittime.Tracker, metrics metrics.QueueMetrics) *Protocol {
	return &Protocol{
		store:         store,
		notifier:      notifier,
		tracker:       tracker,
		metrics:       metrics,
		remind:        cfg.InviteRemind(),
		acceptWait:    cfg.InviteAcceptWait(),
		reinviteLimit: cfg.ReinviteLimit,
	}
}

// InviteGroup invites every member of record to matchID on the given side and
// starts their confirm and removal timers. A pending invite is overwritten.
func (p *Protocol) InviteGroup(rootScope *envelope.Scope, record *models.GroupRecord, matchID string, side models.Team, now time.Time) {
	scope := rootScope.NewChildScope("Protocol.InviteGroup")
	defer scope.Finish()

	scope.SetAttributes(envelope.MatchIDTag, matchID)
	scope.SetAttributes(envelope.HeadcountTag, record.Size())

	if record.IsInvited() {
		for range record.Members {
			p.store.DecreaseInvitedCount(record.InvitedMatchID, record.InvitedSide)
		}
	}
	record.Reinvites = 0
	p.issue(scope, record, matchID, side, now, true)

	scope.Log.
		WithField("ticketID", record.TicketID).
		WithField("matchID", matchID).
		WithField("side", side).
		WithField("deadline", record.RemoveInviteTime).
		Info("group invited")
}

// issue stores a fresh deadline on the group, notifies its members and
// schedules their timers against the new deadline. Invite counters are only
// increased for a first invite.
func (p *Protocol) issue(scope *envelope.Scope, record *models.GroupRecord, matchID string, side models.Team, now time.Time, count bool) {
	deadline := now.Add(p.acceptWait)
	record.Invite(matchID, side, deadline)

	for _, id := range record.Identities() {
		if count {
			p.store.IncreaseInvitedCount(matchID, side)
			p.metrics.AddInvite(record.Bracket.String(), side.String())
		}
		p.notifier.NotifyInvited(scope, id, matchID, deadline)

		p.timers.Schedule(Timer{
			Kind:     TimerReinvite,
			Identity: id,
			MatchID:  matchID,
			Token:    deadline,
			FireAt:   now.Add(p.remind),
		})
		p.timers.Schedule(Timer{
			Kind:     TimerRemove,
			Identity: id,
			MatchID:  matchID,
			Token:    deadline,
			FireAt:   deadline,
		})
	}
}

// Advance fires every timer due at now, in fire order. A timer acts at its own
// fire time, so a large step behaves like several small ones.
func (p *Protocol) Advance(rootScope *envelope.Scope, now time.Time) int {
	scope := rootScope.NewChildScope("Protocol.Advance")
	defer scope.Finish()

	fired := 0
	for {
		timer, ok := p.timers.PopDue(now)
		if !ok {
			return fired
		}
		if p.fire(scope, timer) {
			fired++
		}
	}
}

func (p *Protocol) fire(scope *envelope.Scope, timer Timer) bool {
	record, ok := p.current(timer)
	if !ok {
		p.metrics.AddStaleTimer(timer.Kind.String())
		scope.Log.
			WithField("identity", timer.Identity).
			WithField("matchID", timer.MatchID).
			WithField("kind", timer.Kind).
			Debug("stale timer ignored")
		return false
	}

	switch timer.Kind {
	case TimerReinvite:
		if record.Reinvites < p.reinviteLimit {
			record.Reinvites++
			p.issue(scope, record, record.InvitedMatchID, record.InvitedSide, timer.FireAt, false)
			scope.Log.
				WithField("ticketID", record.TicketID).
				WithField("deadline", record.RemoveInviteTime).
				WithField("reinvites", record.Reinvites).
				Info("invite re-issued")
			return true
		}
		p.notifier.NotifyInvited(scope, timer.Identity, record.InvitedMatchID, record.RemoveInviteTime)
	case TimerRemove:
		p.store.RemoveParticipant(scope, timer.Identity, true)
		p.metrics.AddRemoval(record.Bracket.String(), constants.RemovalReasonInviteExpired)
		p.notifier.NotifyRemovedFromQueue(scope, timer.Identity, constants.RemovalReasonInviteExpired)
		scope.Log.
			WithField("identity", timer.Identity).
			WithField("matchID", timer.MatchID).
			Info("invite expired, participant removed from queue")
	}
	return true
}

// current resolves the group a timer refers to, if the timer still applies.
func (p *Protocol) current(timer Timer) (*models.GroupRecord, bool) {
	record, ok := p.store.Lookup(timer.Identity)
	if !ok {
		return nil, false
	}
	if record.InvitedMatchID != timer.MatchID || !record.RemoveInviteTime.Equal(timer.Token) {
		return nil, false
	}
	return record, true
}

// IsInvited reports whether identity holds the invite to matchID issued with deadline.
func (p *Protocol) IsInvited(identity models.Identity, matchID string, deadline time.Time) bool {
	record, ok := p.store.Lookup(identity)
	if !ok || !record.IsInvited() {
		return false
	}
	return record.InvitedMatchID == matchID && record.RemoveInviteTime.Equal(deadline)
}

// PlayerEntered records the participant's wait and hands it over to the match.
// It returns false when the participant holds no invite to matchID.
func (p *Protocol) PlayerEntered(rootScope *envelope.Scope, identity models.Identity, matchID string, now time.Time) bool {
	scope := rootScope.NewChildScope("Protocol.PlayerEntered")
	defer scope.Finish()

	record, ok := p.store.Lookup(identity)
	if !ok || !record.IsInvited() || record.InvitedMatchID != matchID {
		scope.Log.
			WithField("identity", identity).
			WithField("matchID", matchID).
			Debug("entry without a matching invite")
		return false
	}

	wait := record.WaitedSince(now)
	p.tracker.RecordSample(record.Team, record.Bracket, wait)
	p.metrics.SetAverageWait(record.Bracket.String(), record.Team.String(), p.tracker.AverageWait(record.Team, record.Bracket))

	// the entered participant now occupies a slot the instance reports itself
	p.store.DecreaseInvitedCount(record.InvitedMatchID, record.InvitedSide)
	p.store.RemoveParticipant(scope, identity, false)
	p.metrics.AddRemoval(record.Bracket.String(), constants.RemovalReasonEntered)

	scope.Log.
		WithField("identity", identity).
		WithField("matchID", matchID).
		WithField("wait", wait).
		Info("participant entered match")
	return true
}

// AbortMatch cancels every pending invite to matchID. The groups go back to
// plain queued with their original join time and the match's timers are dropped.
func (p *Protocol) AbortMatch(rootScope *envelope.Scope, matchID string) int {
	scope := rootScope.NewChildScope("Protocol.AbortMatch")
	defer scope.Finish()

	dropped := p.timers.DropMatch(matchID)
	records := p.store.InvitedGroups(matchID)
	for _, record := range records {
		record.ClearInvite()
	}
	p.store.ForgetMatch(matchID)

	scope.Log.
		WithField("matchID", matchID).
		WithField("groups", len(records)).
		WithField("timers", dropped).
		Info("pending invites aborted")
	return len(records)
}

// PendingTimers returns the number of scheduled timers, stale ones included.
func (p *Protocol) PendingTimers() int {
	return p.timers.Len()
}
