// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package defaultmatchmaker

import (
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/constants"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/rebalance"
)

// CheckNormalMatch fills both sides from the pickup buckets, oldest first, up
// to maxPlayers each, then trims the larger side to the bracket's invitation
// policy. Both sides must keep at least minPlayers.
func (f *Formation) CheckNormalMatch(rootScope *envelope.Scope, bracket models.BracketID, minPlayers, maxPlayers int) bool {
	scope := rootScope.NewChildScope("Formation.CheckNormalMatch")
	defer scope.Finish()
	defer f.observe(bracket, constants.CheckNormalMatchFunction, time.Now())

	const function = constants.CheckNormalMatchFunction
	f.configure(FitOverflowOneGroup, f.cfg.PickupOverflowTolerance, maxPlayers)

	for _, team := range models.Teams {
		if !f.fill(scope, bracket, models.BucketKindFor(team, false), team, maxPlayers, function) {
			return false
		}
	}

	teamA, teamB := f.headcounts()
	if teamA < minPlayers || teamB < minPlayers {
		return f.unmatched(scope, bracket, function, constants.ReasonNotEnoughPlayers)
	}

	allowance, bounded := rebalance.Allowance(f.policy(bracket), f.cfg.NoBalanceMaxSurplus)
	if bounded {
		sides := [models.TeamCount]rebalance.Side{f.selection[models.TeamA], f.selection[models.TeamB]}
		if !rebalance.MemberCount(scope, sides, [models.TeamCount]int{}, allowance) {
			return f.unmatched(scope, bracket, function, constants.ReasonUnbalancedTeams)
		}
	}

	teamA, teamB = f.headcounts()
	if teamA < minPlayers || teamB < minPlayers {
		return f.unmatched(scope, bracket, function, constants.ReasonUnbalancedTeams)
	}

	return f.matched(scope, bracket, function)
}
