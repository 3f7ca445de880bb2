// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package defaultmatchmaker

import (
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/config"
	"github.com/AccelByte/extend-bracket-queue/pkg/constants"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/invitation"
	"github.com/AccelByte/extend-bracket-queue/pkg/matchmaker"
	"github.com/AccelByte/extend-bracket-queue/pkg/metrics"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/queue"
	"github.com/AccelByte/extend-bracket-queue/pkg/waittime"
)

// Engine is the queue engine of one process. It owns every bracket and runs
// on a logical clock advanced by Tick and Update.
type Engine struct {
	cfg       *config.Config
	store     *queue.Store
	formation *Formation
	invites   *invitation.Protocol
	tracker   *waittime.Tracker
	instances matchmaker.MatchInstanceService
	notifier  matchmaker.SessionNotifier
	metrics   metrics.QueueMetrics

	now time.Time
}

var _ matchmaker.QueueEngine = (*Engine)(nil)

// NewEngine creates an engine whose logical clock starts at start.
func NewEngine(cfg *config.Config, notifier matchmaker.SessionNotifier, instances matchmaker.MatchInstanceService, metrics metrics.QueueMetrics, start time.Time) *Engine {
	e := &Engine{
		cfg:       cfg,
		store:     queue.NewStore(),
		tracker:   waittime.NewTracker(cfg.WaitSampleSize),
		instances: instances,
		notifier:  notifier,
		metrics:   metrics,
		now:       start,
	}
	e.formation = NewFormation(cfg, e.store, metrics, e.Now)
	e.invites = invitation.NewProtocol(cfg, e.store, notifier, e.tracker, metrics)
	return e
}

// Now returns the logical clock.
func (e *Engine) Now() time.Time {
	return e.now
}

// JoinQueue registers the bracket's rules on first use and queues the group.
func (e *Engine) JoinQueue(rootScope *envelope.Scope, request models.JoinRequest) (models.GroupHandle, error) {
	scope := rootScope.NewChildScope("Engine.JoinQueue")
	defer scope.Finish()

	scope.SetAttributes(envelope.BracketTag, request.Rules.ID)
	scope.SetAttributes(envelope.IdentityTag, string(request.Leader))

	if err := e.formation.RegisterBracket(request.Rules); err != nil {
		scope.Log.WithError(err).WithField("bracket", request.Rules.ID).Warn("join rejected")
		return models.GroupHandle{}, err
	}

	record, err := e.store.Enqueue(scope, request, e.now)
	if err != nil {
		scope.Log.WithError(err).WithField("leader", request.Leader).Warn("join rejected")
		return models.GroupHandle{}, err
	}

	scope.Log.
		WithField("ticketID", record.TicketID).
		WithField("leader", request.Leader).
		WithField("team", record.Team).
		WithField("bucket", record.Kind).
		Info("group joined queue")
	return record.Handle, nil
}

// LeaveQueue removes a participant. It is a no-op returning false when the
// participant is not queued.
func (e *Engine) LeaveQueue(rootScope *envelope.Scope, identity models.Identity, decreaseInviteCounters bool) bool {
	scope := rootScope.NewChildScope("Engine.LeaveQueue")
	defer scope.Finish()

	record, ok := e.store.RemoveParticipant(scope, identity, decreaseInviteCounters)
	if !ok {
		return false
	}
	if record != nil {
		e.metrics.AddRemoval(record.Bracket.String(), constants.RemovalReasonLeftQueue)
	}
	e.notifier.NotifyRemovedFromQueue(scope, identity, constants.RemovalReasonLeftQueue)

	scope.Log.WithField("identity", identity).Info("participant left queue")
	return true
}

func (e *Engine) IsInvited(identity models.Identity, matchID string, deadline time.Time) bool {
	return e.invites.IsInvited(identity, matchID, deadline)
}

// EstimatedWait returns the average realized wait of the team in the bracket.
func (e *Engine) EstimatedWait(team models.Team, bracket models.BracketID) time.Duration {
	return e.tracker.AverageWait(team, bracket)
}

// Tick advances the clock by delta, then makes one matchmaking attempt for bracket.
func (e *Engine) Tick(rootScope *envelope.Scope, delta time.Duration, bracket models.BracketID, minRating int) {
	scope := rootScope.NewChildScope("Engine.Tick")
	defer scope.Finish()

	scope.SetAttributes(envelope.BracketTag, bracket)

	e.advance(scope, delta)
	e.match(scope, bracket, minRating)
}

// Update advances the clock by delta, then makes one attempt per active bracket.
func (e *Engine) Update(rootScope *envelope.Scope, delta time.Duration) {
	scope := rootScope.NewChildScope("Engine.Update")
	defer scope.Finish()

	e.advance(scope, delta)
	for _, bracket := range e.store.Brackets() {
		e.match(scope, bracket, 0)
	}
}

func (e *Engine) advance(scope *envelope.Scope, delta time.Duration) {
	if delta > 0 {
		e.now = e.now.Add(delta)
	}
	e.invites.Advance(scope, e.now)
	e.housekeeping(scope)
}

// housekeeping evicts participants not seen online within the grace period
// and demotes premades that waited too long or shrank below the bracket's
// minimum to the front of their pickup bucket.
func (e *Engine) housekeeping(rootScope *envelope.Scope) {
	scope := rootScope.NewChildScope("Engine.housekeeping")
	defer scope.Finish()

	if grace := e.cfg.OfflineGrace(); grace > 0 {
		for _, identity := range e.store.StaleParticipants(e.now.Add(-grace)) {
			record, ok := e.store.RemoveParticipant(scope, identity, true)
			if !ok {
				continue
			}
			if record != nil {
				e.metrics.AddRemoval(record.Bracket.String(), constants.RemovalReasonOffline)
			}
			e.notifier.NotifyRemovedFromQueue(scope, identity, constants.RemovalReasonOffline)
			scope.Log.WithField("identity", identity).Info("offline participant removed from queue")
		}
	}

	waitLimit := e.cfg.PremadeGroupWaitForMatch()
	for _, bracket := range e.store.Brackets() {
		rules, ok := e.formation.Rules(bracket)
		if ok && !rules.Rated {
			for _, team := range models.Teams {
				e.demotePremade(scope, rules, team, waitLimit)
			}
		}
		for kind := models.BucketKind(0); kind < models.BucketKindCount; kind++ {
			e.metrics.GroupsInQueue(bracket.String(), kind.String(), e.store.BucketLen(bracket, kind))
		}
	}
}

func (e *Engine) demotePremade(scope *envelope.Scope, rules models.BracketRules, team models.Team, waitLimit time.Duration) {
	groups, err := e.store.Groups(rules.ID, models.BucketKindFor(team, true))
	if err != nil {
		scope.Log.WithError(err).WithField("bracket", rules.ID).Error("skipping premade demotion")
		e.metrics.AddUnmatchedReason(rules.ID.String(), constants.HousekeepingFunction, constants.ReasonInvariantViolation)
		return
	}
	if len(groups) == 0 {
		return
	}

	front := groups[0]
	if front.IsInvited() {
		return
	}
	expired := waitLimit > 0 && front.WaitedSince(e.now) > waitLimit
	if !expired && front.Size() >= rules.MinPlayersPerTeam {
		return
	}

	e.store.MoveToFront(front, models.BucketKindFor(team, false))
	scope.Log.
		WithField("ticketID", front.TicketID).
		WithField("bracket", rules.ID).
		WithField("size", front.Size()).
		Info("premade moved to pickup")
}

// match makes one attempt for a bracket. Open matches are topped up first;
// then at most one new match is formed, preferring premade over pickup over
// skirmish. Rated brackets only form rated matches.
func (e *Engine) match(scope *envelope.Scope, bracket models.BracketID, minRating int) {
	rules, ok := e.formation.Rules(bracket)
	if !ok || e.store.IsEmpty(bracket) {
		return
	}

	if rules.Rated {
		if e.formation.CheckRatedMatch(scope, bracket, minRating) {
			e.launch(scope, bracket, constants.CheckRatedMatchFunction)
		}
		return
	}

	for _, instance := range e.instances.OpenInstances(scope, bracket) {
		if e.formation.FillOpenMatch(scope, bracket, instance) {
			e.inviteSelection(scope, instance.MatchID)
		}
	}

	switch {
	case e.formation.CheckPremadeMatch(scope, bracket, rules.MinPlayersPerTeam, rules.MaxPlayersPerTeam):
		e.launch(scope, bracket, constants.CheckPremadeMatchFunction)
	case e.formation.CheckNormalMatch(scope, bracket, rules.MinPlayersPerTeam, rules.MaxPlayersPerTeam):
		e.launch(scope, bracket, constants.CheckNormalMatchFunction)
	case rules.AllowSkirmish && e.formation.CheckSkirmishForSameFaction(scope, bracket, rules.MinPlayersPerTeam):
		e.launch(scope, bracket, constants.CheckSkirmishFunction)
	}
}

// launch asks for a match instance and invites the selected groups into it.
func (e *Engine) launch(scope *envelope.Scope, bracket models.BracketID, function string) bool {
	matchID, err := e.instances.CreateOrReuseMatchInstance(scope, bracket)
	if err != nil {
		scope.Log.WithError(err).WithField("bracket", bracket).Warn("unable to get a match instance")
		e.metrics.AddUnmatchedReason(bracket.String(), function, constants.ReasonInstanceUnavailable)
		e.formation.Reset()
		return false
	}
	e.inviteSelection(scope, matchID)
	return true
}

func (e *Engine) inviteSelection(scope *envelope.Scope, matchID string) {
	for _, side := range models.Teams {
		for _, group := range e.formation.Selection(side).Groups() {
			e.invites.InviteGroup(scope, group, matchID, side, e.now)
		}
	}
	e.formation.Reset()
}

// PlayerEntered hands an invited participant over to its match.
func (e *Engine) PlayerEntered(rootScope *envelope.Scope, identity models.Identity, matchID string) bool {
	scope := rootScope.NewChildScope("Engine.PlayerEntered")
	defer scope.Finish()

	return e.invites.PlayerEntered(scope, identity, matchID, e.now)
}

// NotifyInstanceDestroyed aborts every pending invite to the match.
func (e *Engine) NotifyInstanceDestroyed(rootScope *envelope.Scope, matchID string) {
	scope := rootScope.NewChildScope("Engine.NotifyInstanceDestroyed")
	defer scope.Finish()

	e.invites.AbortMatch(scope, matchID)
}

// Touch marks a participant as seen online.
func (e *Engine) Touch(identity models.Identity) bool {
	return e.store.Touch(identity, e.now)
}

// Lookup returns a copy of the participant's group.
func (e *Engine) Lookup(identity models.Identity) (*models.GroupRecord, bool) {
	record, ok := e.store.Lookup(identity)
	if !ok {
		return nil, false
	}
	copied := record.Copy()
	return copied, copied != nil
}

func (e *Engine) PlayersInQueue(bracket models.BracketID, team models.Team) int {
	return e.store.PlayersInQueue(bracket, team)
}

func (e *Engine) InvitedCount(matchID string, side models.Team) int {
	return e.store.InvitedCount(matchID, side)
}

func (e *Engine) CheckInvariants() error {
	return e.store.CheckInvariants()
}
