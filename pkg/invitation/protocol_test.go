// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package invitation

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-bracket-queue/pkg/config"
	"github.com/AccelByte/extend-bracket-queue/pkg/constants"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/queue"
	"github.com/AccelByte/extend-bracket-queue/pkg/testsetup"
	"github.com/AccelByte/extend-bracket-queue/pkg/waittime"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *queue.Store
	notifier *testsetup.RecordingNotifier
	tracker  *waittime.Tracker
	protocol *Protocol
}

func newFixture() *fixture {
	cfg := &config.Config{
		InviteRemindSecond:     20,
		InviteAcceptWaitSecond: 80,
		ReinviteLimit:          1,
	}
	f := &fixture{
		store:    queue.NewStore(),
		notifier: &testsetup.RecordingNotifier{},
		tracker:  waittime.NewTracker(10),
	}
	f.protocol = NewProtocol(cfg, f.store, f.notifier, f.tracker, testsetup.NewMetrics())
	return f
}

func (f *fixture) enqueue(t *testing.T, scope *envelope.Scope, at time.Time, leader models.Identity, members ...models.Identity) *models.GroupRecord {
	t.Helper()
	record, err := f.store.Enqueue(scope, models.JoinRequest{
		Leader:  leader,
		Members: members,
		Team:    models.TeamA,
		Rules: models.BracketRules{
			ID:                1,
			MinPlayersPerTeam: 1,
			MaxPlayersPerTeam: 5,
		},
	}, at)
	require.NoError(t, err)
	return record
}

func TestInviteGroup_ReinviteThenReminderThenExpiry(t *testing.T) {
	scope := testsetup.NewTestScope()
	f := newFixture()
	record := f.enqueue(t, scope, t0, "a1", "a2")

	f.protocol.InviteGroup(scope, record, "m1", models.TeamA, t0)

	require.Len(t, f.notifier.Invites, 2)
	assert.Equal(t, t0.Add(80*time.Second), f.notifier.Invites[0].Deadline)
	assert.Equal(t, 2, f.store.InvitedCount("m1", models.TeamA))
	assert.True(t, f.protocol.IsInvited("a1", "m1", t0.Add(80*time.Second)))
	assert.False(t, f.protocol.IsInvited("a1", "m2", t0.Add(80*time.Second)))

	// confirm window: the group is re-invited once with a fresh deadline
	fired := f.protocol.Advance(scope, t0.Add(20*time.Second))
	assert.Equal(t, 1, fired)
	require.Len(t, f.notifier.Invites, 4, spew.Sdump(f.notifier.Invites))
	assert.Equal(t, t0.Add(100*time.Second), record.RemoveInviteTime)
	assert.False(t, f.protocol.IsInvited("a1", "m1", t0.Add(80*time.Second)))
	assert.True(t, f.protocol.IsInvited("a2", "m1", t0.Add(100*time.Second)))
	assert.Equal(t, 2, f.store.InvitedCount("m1", models.TeamA))

	// second confirm window only reminds; the original deadline is stale
	fired = f.protocol.Advance(scope, t0.Add(80*time.Second))
	assert.Equal(t, 2, fired)
	require.Len(t, f.notifier.Invites, 6)
	assert.Equal(t, t0.Add(100*time.Second), f.notifier.Invites[5].Deadline)
	assert.Empty(t, f.notifier.Removals)
	assert.Equal(t, 2, record.Size())

	fired = f.protocol.Advance(scope, t0.Add(100*time.Second))
	assert.Equal(t, 2, fired)
	assert.Equal(t, []testsetup.Removal{
		{Identity: "a1", Reason: constants.RemovalReasonInviteExpired},
		{Identity: "a2", Reason: constants.RemovalReasonInviteExpired},
	}, f.notifier.Removals)
	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, 0, f.store.InvitedCount("m1", models.TeamA))
	assert.Equal(t, 0, f.protocol.PendingTimers())
}

func TestStaleRemovalTimerDoesNotRemoveReinvitedGroup(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	f := newFixture()
	record := f.enqueue(t, g.TestScope, t0, "a1")

	f.protocol.InviteGroup(g.TestScope, record, "m1", models.TeamA, t0)
	first := record.RemoveInviteTime

	f.protocol.InviteGroup(g.TestScope, record, "m1", models.TeamA, t0.Add(50*time.Second))
	second := record.RemoveInviteTime
	g.Expect(second).ToNot(Equal(first))

	f.protocol.Advance(g.TestScope, first)

	g.Expect(f.notifier.Removals).To(BeEmpty())
	current, ok := f.store.Lookup("a1")
	g.Expect(ok).To(BeTrue())
	g.Expect(current.IsInvited()).To(BeTrue())
	g.Expect(f.store.InvitedCount("m1", models.TeamA)).To(Equal(1))
	g.Expect(f.protocol.IsInvited("a1", "m1", first)).To(BeFalse())
}

func TestLeaveWhileInvitedMakesTimersStale(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	f := newFixture()
	record := f.enqueue(t, g.TestScope, t0, "a1", "a2")

	f.protocol.InviteGroup(g.TestScope, record, "m1", models.TeamB, t0)
	f.store.RemoveParticipant(g.TestScope, "a1", true)
	g.Expect(f.store.InvitedCount("m1", models.TeamB)).To(Equal(1))

	f.protocol.Advance(g.TestScope, t0.Add(200*time.Second))

	// only a2's timers still apply
	g.Expect(f.notifier.Removals).To(Equal([]testsetup.Removal{
		{Identity: "a2", Reason: constants.RemovalReasonInviteExpired},
	}))
	g.Expect(f.store.Len()).To(Equal(0))
}

func TestPlayerEntered_RecordsWait(t *testing.T) {
	scope := testsetup.NewTestScope()
	f := newFixture()
	record := f.enqueue(t, scope, t0, "a1", "a2")

	f.protocol.InviteGroup(scope, record, "m1", models.TeamA, t0.Add(30*time.Second))

	assert.False(t, f.protocol.PlayerEntered(scope, "a1", "m2", t0.Add(45*time.Second)))
	assert.True(t, f.protocol.PlayerEntered(scope, "a1", "m1", t0.Add(45*time.Second)))
	assert.False(t, f.protocol.PlayerEntered(scope, "a1", "m1", t0.Add(46*time.Second)))

	assert.Equal(t, 45*time.Second, f.tracker.AverageWait(models.TeamA, 1))
	_, ok := f.store.Lookup("a1")
	assert.False(t, ok)
	assert.Equal(t, 1, record.Size())

	// a1 occupies its slot now, a2 still holds an invite
	assert.Equal(t, 1, f.store.InvitedCount("m1", models.TeamA))
}

func TestPlayerEntered_RequiresInvite(t *testing.T) {
	scope := testsetup.NewTestScope()
	f := newFixture()
	record := f.enqueue(t, scope, t0, "a1")

	assert.False(t, f.protocol.PlayerEntered(scope, "a1", "", t0.Add(30*time.Second)))

	_, ok := f.store.Lookup("a1")
	assert.True(t, ok, "a queued participant without an invite stays queued")
	assert.Equal(t, 1, record.Size())
	assert.Equal(t, time.Duration(0), f.tracker.AverageWait(models.TeamA, 1))
}

func TestAbortMatch(t *testing.T) {
	scope := testsetup.NewTestScope()
	f := newFixture()
	invited := f.enqueue(t, scope, t0, "a1")
	other := f.enqueue(t, scope, t0, "a2")

	f.protocol.InviteGroup(scope, invited, "m1", models.TeamA, t0.Add(10*time.Second))
	f.protocol.InviteGroup(scope, other, "m2", models.TeamA, t0.Add(10*time.Second))

	aborted := f.protocol.AbortMatch(scope, "m1")

	assert.Equal(t, 1, aborted)
	assert.False(t, invited.IsInvited())
	assert.Equal(t, t0, invited.JoinTime)
	assert.Equal(t, 0, f.store.InvitedCount("m1", models.TeamA))
	assert.Equal(t, 2, f.protocol.PendingTimers())

	f.protocol.Advance(scope, t0.Add(time.Hour))
	_, ok := f.store.Lookup("a1")
	assert.True(t, ok, "aborted invites never fire")
	_, ok = f.store.Lookup("a2")
	assert.False(t, ok)
}
