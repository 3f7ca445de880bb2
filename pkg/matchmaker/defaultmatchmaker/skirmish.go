// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package defaultmatchmaker

import (
	"time"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-bracket-queue/pkg/constants"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

// CheckSkirmishForSameFaction splits one faction into two sides of
// minPerTeam each when the other faction cannot field minPerTeam and the
// faction's oldest group has waited at least the skirmish wait. Groups are
// kept whole: each one lands on exactly one side. Team tags are unchanged;
// the side a group plays on is the pool it was selected into.
func (f *Formation) CheckSkirmishForSameFaction(rootScope *envelope.Scope, bracket models.BracketID, minPerTeam int) bool {
	scope := rootScope.NewChildScope("Formation.CheckSkirmishForSameFaction")
	defer scope.Finish()
	defer f.observe(bracket, constants.CheckSkirmishFunction, time.Now())

	const function = constants.CheckSkirmishFunction
	rules, ok := f.rules[bracket]
	if !ok || !rules.AllowSkirmish {
		f.Reset()
		return false
	}
	f.configure(FitExact, 0, rules.MaxPlayersPerTeam)

	var groups [models.TeamCount][]*models.GroupRecord
	var headcount [models.TeamCount]int
	for _, team := range models.Teams {
		for _, premade := range []bool{true, false} {
			candidates, ok := f.candidates(scope, bracket, models.BucketKindFor(team, premade), function)
			if !ok {
				return false
			}
			groups[team] = append(groups[team], candidates...)
		}
		for _, group := range groups[team] {
			headcount[team] += group.Size()
		}
	}

	faction, found := models.TeamA, false
	for _, team := range models.Teams {
		if headcount[team] >= 2*minPerTeam && headcount[team.Other()] < minPerTeam {
			faction, found = team, true
			break
		}
	}
	if !found {
		return f.unmatched(scope, bracket, function, constants.ReasonNotEnoughPlayers)
	}

	ordered := pie.SortStableUsing(groups[faction], func(a, b *models.GroupRecord) bool {
		return a.JoinTime.Before(b.JoinTime)
	})
	if ordered[0].WaitedSince(f.clock()) < f.cfg.SkirmishWait() {
		return f.unmatched(scope, bracket, function, constants.ReasonNoOpponent)
	}

	first, second := f.selection[models.TeamA], f.selection[models.TeamB]
	remaining := f.pool.Groups.Get()
	defer func() {
		clear(remaining)
		f.pool.Groups.Put(remaining[:0])
	}()

	for _, group := range ordered {
		if first.Headcount() < minPerTeam && first.TryAddGroup(group, minPerTeam) {
			continue
		}
		remaining = append(remaining, group)
	}
	for _, group := range remaining {
		if second.Headcount() >= minPerTeam {
			break
		}
		second.TryAddGroup(group, minPerTeam)
	}

	if first.Headcount() != minPerTeam || second.Headcount() != minPerTeam {
		return f.unmatched(scope, bracket, function, constants.ReasonUnbalancedTeams)
	}

	scope.Log.
		WithField("faction", faction).
		Info("same-faction skirmish formed")
	return f.matched(scope, bracket, function)
}
