// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package defaultmatchmaker

import (
	"time"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-bracket-queue/pkg/constants"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/mathutil"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/rebalance"
)

// CheckPremadeMatch looks for a premade of minPerTeam..maxPerTeam on either
// side. Two premades face each other, the smaller topped up from its pickup
// bucket. A lone premade sets the team size the other side is filled to,
// from that side's premade bucket first and its pickup bucket after.
func (f *Formation) CheckPremadeMatch(rootScope *envelope.Scope, bracket models.BracketID, minPerTeam, maxPerTeam int) bool {
	scope := rootScope.NewChildScope("Formation.CheckPremadeMatch")
	defer scope.Finish()
	defer f.observe(bracket, constants.CheckPremadeMatchFunction, time.Now())

	const function = constants.CheckPremadeMatchFunction
	f.configure(FitExact, 0, maxPerTeam)

	var premade [models.TeamCount]*models.GroupRecord
	for _, team := range models.Teams {
		groups, ok := f.candidates(scope, bracket, models.BucketKindFor(team, true), function)
		if !ok {
			return false
		}
		index := pie.FindFirstUsing(groups, func(group *models.GroupRecord) bool {
			return group.Size() >= minPerTeam && group.Size() <= maxPerTeam
		})
		if index >= 0 {
			premade[team] = groups[index]
		}
	}

	switch {
	case premade[models.TeamA] != nil && premade[models.TeamB] != nil:
		target := mathutil.Max(premade[models.TeamA].Size(), premade[models.TeamB].Size())
		for _, team := range models.Teams {
			f.selection[team].TryAddGroup(premade[team], target)
			if f.selection[team].Headcount() < target {
				if !f.fill(scope, bracket, models.BucketKindFor(team, false), team, target, function) {
					return false
				}
			}
		}

	case premade[models.TeamA] != nil || premade[models.TeamB] != nil:
		team := models.TeamA
		if premade[team] == nil {
			team = models.TeamB
		}
		other := team.Other()
		target := premade[team].Size()

		f.selection[team].TryAddGroup(premade[team], target)
		for _, kind := range []models.BucketKind{models.BucketKindFor(other, true), models.BucketKindFor(other, false)} {
			if !f.fill(scope, bracket, kind, other, target, function) {
				return false
			}
		}

	default:
		return f.unmatched(scope, bracket, function, constants.ReasonNotEnoughPlayers)
	}

	teamA, teamB := f.headcounts()
	if teamA < minPerTeam || teamB < minPerTeam {
		return f.unmatched(scope, bracket, function, constants.ReasonNoOpponent)
	}
	if !rebalance.Within(teamA, teamB, f.policy(bracket), f.cfg.NoBalanceMaxSurplus) {
		return f.unmatched(scope, bracket, function, constants.ReasonUnbalancedTeams)
	}

	return f.matched(scope, bracket, function)
}
