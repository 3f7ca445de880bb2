// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package defaultmatchmaker

import (
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/constants"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/mathutil"
	"github.com/AccelByte/extend-bracket-queue/pkg/matchmaker"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/rebalance"
)

// FillOpenMatch selects pickup groups for the free slots of a running match.
// Slots already promised to invited participants are not free. Each side is
// filled up to its vacancy; under a bounded policy the sides are then trimmed
// until the vacancies left unfilled differ by at most the policy's allowance,
// which balances the match totals rather than the additions.
func (f *Formation) FillOpenMatch(rootScope *envelope.Scope, bracket models.BracketID, instance matchmaker.OpenInstance) bool {
	scope := rootScope.NewChildScope("Formation.FillOpenMatch")
	defer scope.Finish()
	defer f.observe(bracket, constants.FillOpenMatchFunction, time.Now())

	const function = constants.FillOpenMatchFunction
	scope.SetAttributes(envelope.MatchIDTag, instance.MatchID)

	var free [models.TeamCount]int
	for _, team := range models.Teams {
		free[team] = mathutil.Max(0, instance.Free(team)-f.store.InvitedCount(instance.MatchID, team))
	}
	if free[models.TeamA] == 0 && free[models.TeamB] == 0 {
		f.Reset()
		return false
	}

	for _, team := range models.Teams {
		f.selection[team].Configure(FitOverflowOneGroup, f.cfg.PickupOverflowTolerance, free[team])
		if free[team] == 0 {
			continue
		}
		if !f.fill(scope, bracket, models.BucketKindFor(team, false), team, free[team], function) {
			return false
		}
	}

	allowance, bounded := rebalance.Allowance(f.policy(bracket), f.cfg.NoBalanceMaxSurplus)
	if bounded {
		sides := [models.TeamCount]rebalance.Side{f.selection[models.TeamA], f.selection[models.TeamB]}
		baseline := [models.TeamCount]int{-free[models.TeamA], -free[models.TeamB]}
		if !rebalance.MemberCount(scope, sides, baseline, allowance) {
			return f.unmatched(scope, bracket, function, constants.ReasonUnbalancedTeams)
		}
	}

	teamA, teamB := f.headcounts()
	if teamA+teamB == 0 {
		return f.unmatched(scope, bracket, function, constants.ReasonNotEnoughPlayers)
	}

	return f.matched(scope, bracket, function)
}
