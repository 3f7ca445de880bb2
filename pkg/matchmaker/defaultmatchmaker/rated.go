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
)

// CheckRatedMatch pairs two rated teams whose matchmaking rating is within
// the configured distance of rating. A rating of 0 takes the rating of the
// longest waiting team. Teams that waited past the rating discard time match
// regardless of rating. Both teams may come from one faction; they never
// share a rated team id.
func (f *Formation) CheckRatedMatch(rootScope *envelope.Scope, bracket models.BracketID, rating int) bool {
	scope := rootScope.NewChildScope("Formation.CheckRatedMatch")
	defer scope.Finish()
	defer f.observe(bracket, constants.CheckRatedMatchFunction, time.Now())

	const function = constants.CheckRatedMatchFunction
	f.configure(FitExact, 0, f.rules[bracket].MaxPlayersPerTeam)

	var teams [models.TeamCount][]*models.GroupRecord
	for _, team := range models.Teams {
		candidates, ok := f.candidates(scope, bracket, models.BucketKindFor(team, true), function)
		if !ok {
			return false
		}
		teams[team] = candidates
	}

	if rating == 0 {
		var oldest *models.GroupRecord
		for _, team := range models.Teams {
			if len(teams[team]) > 0 && (oldest == nil || teams[team][0].JoinTime.Before(oldest.JoinTime)) {
				oldest = teams[team][0]
			}
		}
		if oldest == nil {
			return f.unmatched(scope, bracket, function, constants.ReasonNotEnoughPlayers)
		}
		rating = oldest.MatchmakingRating
	}

	discard := f.clock().Add(-f.cfg.RatingDiscard())
	eligible := func(group *models.GroupRecord) bool {
		return f.cfg.ArenaMaxRatingDifference == 0 ||
			mathutil.Abs(group.MatchmakingRating-rating) <= f.cfg.ArenaMaxRatingDifference ||
			group.JoinTime.Before(discard)
	}

	var picked [models.TeamCount]*models.GroupRecord
	for _, team := range models.Teams {
		if index := pie.FindFirstUsing(teams[team], eligible); index >= 0 {
			picked[team] = teams[team][index]
		}
	}
	if picked[models.TeamA] != nil && picked[models.TeamB] != nil && picked[models.TeamA].RatedTeamID == picked[models.TeamB].RatedTeamID {
		picked[models.TeamB] = nil
	}

	// one side found: look for a second team in the same bucket
	for _, team := range models.Teams {
		other := team.Other()
		if picked[team] == nil || picked[other] != nil {
			continue
		}
		first := picked[team]
		index := pie.FindFirstUsing(teams[team], func(group *models.GroupRecord) bool {
			return group != first && group.RatedTeamID != first.RatedTeamID && eligible(group)
		})
		if index >= 0 {
			picked[other] = teams[team][index]
		}
	}

	if picked[models.TeamA] == nil || picked[models.TeamB] == nil {
		return f.unmatched(scope, bracket, function, constants.ReasonNoOpponent)
	}

	for _, side := range models.Teams {
		if !f.selection[side].TryAddGroup(picked[side], picked[side].Size()) {
			return f.unmatched(scope, bracket, function, constants.ReasonNotEnoughPlayers)
		}
	}

	a, b := picked[models.TeamA], picked[models.TeamB]
	a.OpponentRating, a.OpponentMatchmakingRating = b.Rating, b.MatchmakingRating
	b.OpponentRating, b.OpponentMatchmakingRating = a.Rating, a.MatchmakingRating

	scope.Log.
		WithField("rating", rating).
		WithField("teamA", a.RatedTeamID).
		WithField("teamB", b.RatedTeamID).
		Debug("rated teams paired")
	return f.matched(scope, bracket, function)
}
