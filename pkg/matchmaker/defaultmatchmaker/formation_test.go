// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package defaultmatchmaker

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/elliotchance/pie/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-bracket-queue/pkg/matchmaker"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/testsetup"
)

func TestCheckNormalMatch_BalancePolicies(t *testing.T) {
	testCases := []struct {
		name   string
		policy models.InvitationType
		teamA  int
		teamB  int
	}{
		{name: "even", policy: models.InvitationEven, teamA: 8, teamB: 8},
		{name: "balanced", policy: models.InvitationBalanced, teamA: 9, teamB: 8},
		{name: "no_balance", policy: models.InvitationNoBalance, teamA: 12, teamB: 8},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			scope := testsetup.NewTestScope()
			e := newTestEngine(testConfig())
			rules := bracketRules(1, 5, 15, testCase.policy)
			e.joinSolos(t, scope, rules, models.TeamA, "a", 12)
			e.joinSolos(t, scope, rules, models.TeamB, "b", 8)

			ok := e.formation.CheckNormalMatch(scope, rules.ID, rules.MinPlayersPerTeam, rules.MaxPlayersPerTeam)

			require.True(t, ok)
			assert.Equal(t, testCase.teamA, e.formation.Selection(models.TeamA).Headcount())
			assert.Equal(t, testCase.teamB, e.formation.Selection(models.TeamB).Headcount())

			// oldest groups are kept
			assert.Equal(t, models.Identity("a1"), e.formation.Selection(models.TeamA).Groups()[0].Identities()[0])
			assert.Equal(t, 12, e.PlayersInQueue(rules.ID, models.TeamA), "formation does not touch the store")
		})
	}
}

func TestCheckNormalMatch_NotEnoughPlayers(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	e := newTestEngine(testConfig())
	rules := bracketRules(1, 5, 10, models.InvitationEven)
	e.joinSolos(t, g.TestScope, rules, models.TeamA, "a", 6)
	e.joinSolos(t, g.TestScope, rules, models.TeamB, "b", 4)

	g.Expect(e.formation.CheckNormalMatch(g.TestScope, rules.ID, 5, 10)).To(BeFalse())
	g.Expect(e.formation.Selection(models.TeamA).Headcount()).To(Equal(0))
	g.Expect(e.formation.Selection(models.TeamB).Headcount()).To(Equal(0))
}

func TestCheckNormalMatch_SkipsInvitedGroups(t *testing.T) {
	scope := testsetup.NewTestScope()
	e := newTestEngine(testConfig())
	rules := bracketRules(1, 2, 2, models.InvitationEven)
	e.joinSolos(t, scope, rules, models.TeamA, "a", 3)
	e.joinSolos(t, scope, rules, models.TeamB, "b", 2)

	invited, _ := e.store.Lookup("a1")
	invited.Invite("m1", models.TeamA, start.Add(time.Minute))

	require.True(t, e.formation.CheckNormalMatch(scope, rules.ID, 2, 2))
	assert.ElementsMatch(t, []models.Identity{"a2", "a3"}, identitiesOf(e.formation.Selection(models.TeamA).Groups()))
}

func TestCheckNormalMatch_SkipsGroupTooLargeForRemainingRoom(t *testing.T) {
	scope := testsetup.NewTestScope()
	e := newTestEngine(testConfig())
	rules := bracketRules(1, 3, 5, models.InvitationEven)
	e.joinParty(t, scope, rules, models.TeamA, false, "a1", "a2", "a3")
	e.joinParty(t, scope, rules, models.TeamA, false, "a4", "a5", "a6")
	e.joinSolos(t, scope, rules, models.TeamB, "b", 4)

	require.True(t, e.formation.CheckNormalMatch(scope, rules.ID, 3, 5))
	assert.Equal(t, 3, e.formation.Selection(models.TeamA).Headcount())
	assert.Equal(t, 3, e.formation.Selection(models.TeamB).Headcount())
}

func TestCheckPremadeMatch(t *testing.T) {
	testCases := []struct {
		name    string
		policy  models.InvitationType
		premade int
		pickupB int
		ok      bool
		teamB   int
	}{
		{name: "lone_premade_filled_from_pickup", policy: models.InvitationEven, premade: 5, pickupB: 6, ok: true, teamB: 5},
		{name: "even_requires_full_side", policy: models.InvitationEven, premade: 5, pickupB: 4, ok: false},
		{name: "balanced_accepts_one_short", policy: models.InvitationBalanced, premade: 5, pickupB: 4, ok: true, teamB: 4},
		{name: "other_side_below_minimum", policy: models.InvitationNoBalance, premade: 5, pickupB: 2, ok: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			scope := testsetup.NewTestScope()
			e := newTestEngine(testConfig())
			rules := bracketRules(2, 3, 5, testCase.policy)
			members := []models.Identity{"a2", "a3", "a4", "a5"}[:testCase.premade-1]
			e.joinParty(t, scope, rules, models.TeamA, true, "a1", members...)
			e.joinSolos(t, scope, rules, models.TeamB, "b", testCase.pickupB)

			ok := e.formation.CheckPremadeMatch(scope, rules.ID, 3, 5)

			require.Equal(t, testCase.ok, ok)
			if ok {
				assert.Equal(t, testCase.premade, e.formation.Selection(models.TeamA).Headcount())
				assert.Equal(t, testCase.teamB, e.formation.Selection(models.TeamB).Headcount())
			} else {
				assert.Empty(t, e.formation.Selection(models.TeamA).Groups())
				assert.Empty(t, e.formation.Selection(models.TeamB).Groups())
			}
		})
	}
}

func TestCheckPremadeMatch_BothSidesTopUpSmaller(t *testing.T) {
	scope := testsetup.NewTestScope()
	e := newTestEngine(testConfig())
	rules := bracketRules(2, 3, 5, models.InvitationEven)
	e.joinParty(t, scope, rules, models.TeamA, true, "a1", "a2", "a3", "a4", "a5")
	e.joinParty(t, scope, rules, models.TeamB, true, "b1", "b2", "b3")
	e.joinSolos(t, scope, rules, models.TeamB, "s", 3)

	require.True(t, e.formation.CheckPremadeMatch(scope, rules.ID, 3, 5))
	assert.Equal(t, 5, e.formation.Selection(models.TeamA).Headcount())
	assert.Equal(t, 5, e.formation.Selection(models.TeamB).Headcount())
	assert.ElementsMatch(t,
		[]models.Identity{"b1", "b2", "b3", "s1", "s2"},
		identitiesOf(e.formation.Selection(models.TeamB).Groups()))
}

func TestCheckPremadeMatch_NoPremade(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	e := newTestEngine(testConfig())
	rules := bracketRules(2, 3, 5, models.InvitationEven)
	e.joinSolos(t, g.TestScope, rules, models.TeamA, "a", 5)
	e.joinSolos(t, g.TestScope, rules, models.TeamB, "b", 5)

	g.Expect(e.formation.CheckPremadeMatch(g.TestScope, rules.ID, 3, 5)).To(BeFalse())
}

func TestCheckSkirmishForSameFaction(t *testing.T) {
	testCases := []struct {
		name  string
		sizes []int
		wait  time.Duration
		ok    bool
	}{
		{name: "split_without_breaking_groups", sizes: []int{2, 1, 2, 1}, wait: time.Minute, ok: true},
		{name: "sizes_cannot_split_evenly", sizes: []int{2, 2, 2}, wait: time.Minute, ok: false},
		{name: "oldest_has_not_waited_long_enough", sizes: []int{2, 1, 2, 1}, wait: 59 * time.Second, ok: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			scope := testsetup.NewTestScope()
			e := newTestEngine(testConfig())
			rules := bracketRules(3, 3, 5, models.InvitationEven)
			rules.AllowSkirmish = true

			var all []models.Identity
			for i, size := range testCase.sizes {
				leader := models.Identity(string(rune('a'+i)) + "0")
				var members []models.Identity
				for j := 1; j < size; j++ {
					members = append(members, models.Identity(string(rune('a'+i))+string(rune('0'+j))))
				}
				record := e.joinParty(t, scope, rules, models.TeamA, false, leader, members...)
				all = append(all, record.Identities()...)
			}
			e.now = e.now.Add(testCase.wait)

			ok := e.formation.CheckSkirmishForSameFaction(scope, rules.ID, 3)
			require.Equal(t, testCase.ok, ok)
			if !ok {
				return
			}

			first := e.formation.Selection(models.TeamA).Groups()
			second := e.formation.Selection(models.TeamB).Groups()
			assert.Equal(t, 3, e.formation.Selection(models.TeamA).Headcount())
			assert.Equal(t, 3, e.formation.Selection(models.TeamB).Headcount())

			for _, group := range first {
				assert.False(t, pie.Contains(second, group), spew.Sdump(group.Identities()))
				assert.Equal(t, models.TeamA, group.Team)
			}
			assert.ElementsMatch(t, all, append(identitiesOf(first), identitiesOf(second)...))
		})
	}
}

func TestCheckSkirmishForSameFaction_RequiresOptIn(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	e := newTestEngine(testConfig())
	rules := bracketRules(3, 2, 5, models.InvitationEven)
	e.joinSolos(t, g.TestScope, rules, models.TeamA, "a", 6)
	e.now = e.now.Add(time.Hour)

	g.Expect(e.formation.CheckSkirmishForSameFaction(g.TestScope, rules.ID, 2)).To(BeFalse())
}

func TestCheckRatedMatch(t *testing.T) {
	scope := testsetup.NewTestScope()
	e := newTestEngine(testConfig())
	rules := bracketRules(4, 2, 2, models.InvitationEven)
	rules.Rated = true

	first := e.joinRated(t, scope, rules, models.TeamA, "red", 1500, 2)
	e.now = e.now.Add(time.Second)
	far := e.joinRated(t, scope, rules, models.TeamB, "blue", 2000, 2)
	e.now = e.now.Add(time.Second)
	near := e.joinRated(t, scope, rules, models.TeamA, "green", 1600, 2)

	require.True(t, e.formation.CheckRatedMatch(scope, rules.ID, 0))
	assert.Equal(t, []*models.GroupRecord{first}, e.formation.Selection(models.TeamA).Groups())
	assert.Equal(t, []*models.GroupRecord{near}, e.formation.Selection(models.TeamB).Groups())
	assert.Equal(t, 1600, first.OpponentMatchmakingRating)
	assert.Equal(t, 1500, near.OpponentMatchmakingRating)
	assert.Equal(t, 0, far.OpponentMatchmakingRating)

	// the distant team only matches once the rating window is discarded
	e.formation.Reset()
	first.Invite("m1", models.TeamA, e.now.Add(time.Minute))
	near.Invite("m1", models.TeamB, e.now.Add(time.Minute))
	other := e.joinRated(t, scope, rules, models.TeamA, "gold", 1500, 2)

	assert.False(t, e.formation.CheckRatedMatch(scope, rules.ID, 1500))

	e.now = e.now.Add(11 * time.Minute)
	require.True(t, e.formation.CheckRatedMatch(scope, rules.ID, 1500))
	assert.Equal(t, []*models.GroupRecord{other}, e.formation.Selection(models.TeamA).Groups())
	assert.Equal(t, []*models.GroupRecord{far}, e.formation.Selection(models.TeamB).Groups())
}

func TestFillOpenMatch(t *testing.T) {
	testCases := []struct {
		name     string
		policy   models.InvitationType
		free     [models.TeamCount]int
		invitedB int
		teamA    int
		teamB    int
		ok       bool
	}{
		{name: "balanced_fills_vacancies", policy: models.InvitationBalanced, free: [models.TeamCount]int{2, 2}, teamA: 2, teamB: 1, ok: true},
		{name: "even_fills_both_vacancies", policy: models.InvitationEven, free: [models.TeamCount]int{3, 1}, teamA: 3, teamB: 1, ok: true},
		{name: "even_trims_to_equal_totals", policy: models.InvitationEven, free: [models.TeamCount]int{3, 2}, teamA: 2, teamB: 1, ok: true},
		{name: "balanced_allows_one_open_slot", policy: models.InvitationBalanced, free: [models.TeamCount]int{3, 3}, teamA: 2, teamB: 1, ok: true},
		{name: "invited_participants_hold_slots", policy: models.InvitationNoBalance, free: [models.TeamCount]int{1, 1}, invitedB: 1, teamA: 1, teamB: 0, ok: true},
		{name: "no_vacancy", policy: models.InvitationNoBalance, free: [models.TeamCount]int{0, 0}, ok: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			scope := testsetup.NewTestScope()
			e := newTestEngine(testConfig())
			rules := bracketRules(5, 3, 5, testCase.policy)
			e.joinSolos(t, scope, rules, models.TeamA, "a", 3)
			e.joinSolos(t, scope, rules, models.TeamB, "b", 1)
			for i := 0; i < testCase.invitedB; i++ {
				e.store.IncreaseInvitedCount("open-1", models.TeamB)
			}

			ok := e.formation.FillOpenMatch(scope, rules.ID, matchmaker.OpenInstance{
				MatchID:   "open-1",
				Bracket:   rules.ID,
				FreeSlots: testCase.free,
			})

			require.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.teamA, e.formation.Selection(models.TeamA).Headcount())
			assert.Equal(t, testCase.teamB, e.formation.Selection(models.TeamB).Headcount())
		})
	}
}

func TestFillOpenMatch_EvenPolicyBalancesMatchTotals(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	e := newTestEngine(testConfig())
	rules := bracketRules(5, 3, 5, models.InvitationEven)
	e.joinSolos(t, g.TestScope, rules, models.TeamA, "a", 3)
	e.joinSolos(t, g.TestScope, rules, models.TeamB, "b", 1)

	// running match holds 2 vs 4 out of 5 per side
	instance := matchmaker.OpenInstance{MatchID: "open-1", Bracket: rules.ID, FreeSlots: [models.TeamCount]int{3, 1}}

	g.Expect(e.formation.FillOpenMatch(g.TestScope, rules.ID, instance)).To(BeTrue())

	totalA := 2 + e.formation.Selection(models.TeamA).Headcount()
	totalB := 4 + e.formation.Selection(models.TeamB).Headcount()
	g.Expect(totalA).To(Equal(totalB))
}

func TestFormation_RegisterBracket(t *testing.T) {
	e := newTestEngine(testConfig())
	rules := bracketRules(6, 2, 4, models.InvitationEven)

	assert.NoError(t, e.formation.RegisterBracket(rules))
	assert.NoError(t, e.formation.RegisterBracket(rules))

	changed := rules
	changed.InvitationType = models.InvitationBalanced
	assert.ErrorIs(t, e.formation.RegisterBracket(changed), models.ErrBracketRulesConflict)

	invalid := bracketRules(7, 4, 2, models.InvitationEven)
	assert.ErrorIs(t, e.formation.RegisterBracket(invalid), models.ErrMinAboveMax)
}

func TestFormation_InvariantViolationAbortsAttempt(t *testing.T) {
	scope := testsetup.NewTestScope()
	e := newTestEngine(testConfig())
	rules := bracketRules(1, 1, 1, models.InvitationEven)
	e.joinSolos(t, scope, rules, models.TeamA, "a", 1)
	e.joinSolos(t, scope, rules, models.TeamB, "b", 1)

	broken, _ := e.store.Lookup("b1")
	delete(broken.Members, "b1")

	assert.False(t, e.formation.CheckNormalMatch(scope, rules.ID, 1, 1))
	assert.Empty(t, e.formation.Selection(models.TeamA).Groups())
}
