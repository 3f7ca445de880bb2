// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package defaultmatchmaker

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-bracket-queue/pkg/config"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/testsetup"
)

var start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		InviteRemindSecond:             20,
		InviteAcceptWaitSecond:         80,
		ReinviteLimit:                  1,
		PremadeGroupWaitForMatchSecond: 1800,
		OfflineGraceSecond:             300,
		SkirmishWaitSecond:             60,
		ArenaMaxRatingDifference:       150,
		RatingDiscardSecond:            600,
		WaitSampleSize:                 10,
	}
}

type testEngine struct {
	*Engine
	notifier  *testsetup.RecordingNotifier
	instances *testsetup.StubMatchInstances
}

func newTestEngine(cfg *config.Config) *testEngine {
	notifier := &testsetup.RecordingNotifier{}
	instances := &testsetup.StubMatchInstances{}
	return &testEngine{
		Engine:    NewEngine(cfg, notifier, instances, testsetup.NewMetrics(), start),
		notifier:  notifier,
		instances: instances,
	}
}

func bracketRules(id models.BracketID, minPerTeam, maxPerTeam int, policy models.InvitationType) models.BracketRules {
	return models.BracketRules{
		ID:                id,
		MinPlayersPerTeam: minPerTeam,
		MaxPlayersPerTeam: maxPerTeam,
		InvitationType:    policy,
	}
}

// joinSolos queues n one-member groups named prefix1..prefixN.
func (e *testEngine) joinSolos(t *testing.T, scope *envelope.Scope, rules models.BracketRules, team models.Team, prefix string, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := e.JoinQueue(scope, models.JoinRequest{
			Leader: models.Identity(fmt.Sprintf("%s%d", prefix, i)),
			Team:   team,
			Rules:  rules,
		})
		require.NoError(t, err)
	}
}

// joinParty queues leader and members as one group.
func (e *testEngine) joinParty(t *testing.T, scope *envelope.Scope, rules models.BracketRules, team models.Team, premade bool, leader models.Identity, members ...models.Identity) *models.GroupRecord {
	t.Helper()
	_, err := e.JoinQueue(scope, models.JoinRequest{
		Leader:    leader,
		Members:   members,
		Team:      team,
		Rules:     rules,
		IsPremade: premade,
	})
	require.NoError(t, err)
	record, ok := e.store.Lookup(leader)
	require.True(t, ok)
	return record
}

// joinRated queues a rated team of the given size.
func (e *testEngine) joinRated(t *testing.T, scope *envelope.Scope, rules models.BracketRules, team models.Team, ratedTeamID string, mmr int, size int) *models.GroupRecord {
	t.Helper()
	var members []models.Identity
	for i := 2; i <= size; i++ {
		members = append(members, models.Identity(fmt.Sprintf("%s-%d", ratedTeamID, i)))
	}
	leader := models.Identity(ratedTeamID + "-1")
	_, err := e.JoinQueue(scope, models.JoinRequest{
		Leader:            leader,
		Members:           members,
		Team:              team,
		Rules:             rules,
		Rating:            swag.Int(mmr),
		MatchmakingRating: swag.Int(mmr),
		RatedTeamID:       swag.String(ratedTeamID),
	})
	require.NoError(t, err)
	record, ok := e.store.Lookup(leader)
	require.True(t, ok)
	return record
}

func identitiesOf(groups []*models.GroupRecord) []models.Identity {
	var ids []models.Identity
	for _, group := range groups {
		ids = append(ids, group.Identities()...)
	}
	return ids
}
