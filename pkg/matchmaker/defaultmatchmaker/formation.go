// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package defaultmatchmaker

import (
	"fmt"
	"time"

	"gopkg.in/typ.v4/slices"

	"github.com/AccelByte/extend-bracket-queue/pkg/config"
	"github.com/AccelByte/extend-bracket-queue/pkg/constants"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/metrics"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/queue"
)

// Formation decides which match shape can be formed from a bracket's queue.
// Every check leaves the chosen groups in the two selection pools on success
// and empty pools on failure; none of them changes the store.
type Formation struct {
	store   *queue.Store
	cfg     *config.Config
	metrics metrics.QueueMetrics
	pool    *models.Pool
	clock   func() time.Time

	rules     map[models.BracketID]models.BracketRules
	selection [models.TeamCount]*SelectionPool
}

func NewFormation(cfg *config.Config, store *queue.Store, metrics metrics.QueueMetrics, clock func() time.Time) *Formation {
	return &Formation{
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		pool:    models.NewPool(),
		clock:   clock,
		rules:   make(map[models.BracketID]models.BracketRules),
		selection: [models.TeamCount]*SelectionPool{
			NewSelectionPool(FitExact, 0, 0),
			NewSelectionPool(FitExact, 0, 0),
		},
	}
}

// RegisterBracket records the rules of a bracket. A bracket keeps the rules it
// was first registered with.
func (f *Formation) RegisterBracket(rules models.BracketRules) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	if registered, ok := f.rules[rules.ID]; ok {
		if registered != rules {
			return fmt.Errorf("%w: bracket %d", models.ErrBracketRulesConflict, rules.ID)
		}
		return nil
	}
	f.rules[rules.ID] = rules
	return nil
}

func (f *Formation) Rules(bracket models.BracketID) (models.BracketRules, bool) {
	rules, ok := f.rules[bracket]
	return rules, ok
}

// Selection returns the pool of one side.
func (f *Formation) Selection(side models.Team) *SelectionPool {
	return f.selection[side]
}

func (f *Formation) Reset() {
	for _, pool := range f.selection {
		pool.Reset()
	}
}

func (f *Formation) configure(fit FitPolicy, overflow int, capacity int) {
	for _, pool := range f.selection {
		pool.Configure(fit, overflow, capacity)
	}
}

func (f *Formation) headcounts() (int, int) {
	return f.selection[models.TeamA].Headcount(), f.selection[models.TeamB].Headcount()
}

func (f *Formation) policy(bracket models.BracketID) models.InvitationType {
	return f.rules[bracket].InvitationType
}

// candidates returns the uninvited groups of a bucket, oldest first. An
// invariant violation aborts the attempt.
func (f *Formation) candidates(scope *envelope.Scope, bracket models.BracketID, kind models.BucketKind, function string) ([]*models.GroupRecord, bool) {
	records, err := f.store.Groups(bracket, kind)
	if err != nil {
		scope.Log.
			WithError(err).
			WithField("bracket", bracket).
			WithField("bucket", kind).
			Error("aborting match formation")
		f.metrics.AddUnmatchedReason(bracket.String(), function, constants.ReasonInvariantViolation)
		f.Reset()
		return nil, false
	}
	return slices.Filter(records, func(record *models.GroupRecord) bool {
		return !record.IsInvited()
	}), true
}

// fill adds groups of one bucket to the side's pool until it reaches desired.
func (f *Formation) fill(scope *envelope.Scope, bracket models.BracketID, kind models.BucketKind, side models.Team, desired int, function string) bool {
	groups, ok := f.candidates(scope, bracket, kind, function)
	if !ok {
		return false
	}
	pool := f.selection[side]
	for _, group := range groups {
		if pool.Headcount() >= desired {
			break
		}
		if pool.Contains(group) {
			continue
		}
		pool.TryAddGroup(group, desired)
	}
	return true
}

func (f *Formation) unmatched(scope *envelope.Scope, bracket models.BracketID, function string, reason string) bool {
	teamA, teamB := f.headcounts()
	scope.Log.
		WithField("bracket", bracket).
		WithField("teamA", teamA).
		WithField("teamB", teamB).
		WithField("reason", reason).
		Debug("no match formed")
	f.metrics.AddUnmatchedReason(bracket.String(), function, reason)
	f.Reset()
	return false
}

func (f *Formation) matched(scope *envelope.Scope, bracket models.BracketID, function string) bool {
	teamA, teamB := f.headcounts()
	scope.SetAttributes(envelope.BracketTag, bracket)
	scope.SetAttributes(envelope.HeadcountTag, teamA+teamB)
	scope.Log.
		WithField("bracket", bracket).
		WithField("teamA", teamA).
		WithField("teamB", teamB).
		Info("match formed")
	f.metrics.AddMatchFormed(bracket.String(), function)
	return true
}

func (f *Formation) observe(bracket models.BracketID, function string, start time.Time) {
	f.metrics.AddFormationElapsedTimeMs(bracket.String(), function, time.Since(start))
}
