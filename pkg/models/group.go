// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"sort"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/mitchellh/copystructure"
	"github.com/sirupsen/logrus"
)

// Identity is the stable id of a real participant.
type Identity string

// GroupHandle addresses a group record in the queue arena. Generations start
// at 1, so the zero handle never resolves, and a handle to a released slot
// does not resolve to the slot's next tenant.
type GroupHandle struct {
	Index      uint32
	Generation uint32
}

func (h GroupHandle) IsZero() bool {
	return h.Generation == 0
}

// QueuedParticipant is one real participant waiting in queue.
type QueuedParticipant struct {
	Identity       Identity
	LastSeenOnline time.Time
	Group          GroupHandle
}

// GroupRecord is a queued unit: a party, a solo participant wrapped as a
// one-member group, or a rated team.
type GroupRecord struct {
	Handle      GroupHandle
	TicketID    string
	Members     map[Identity]*QueuedParticipant
	Team        Team
	Bracket     BracketID
	Kind        BucketKind
	RatedTeamID string
	JoinTime    time.Time

	// pending invite; RemoveInviteTime doubles as the token carried by timers
	RemoveInviteTime time.Time
	InvitedMatchID   string
	InvitedSide      Team
	Reinvites        int

	Rating                    int
	MatchmakingRating         int
	OpponentRating            int
	OpponentMatchmakingRating int
}

// Size returns the headcount of the group.
func (g *GroupRecord) Size() int {
	return len(g.Members)
}

func (g *GroupRecord) IsInvited() bool {
	return g.InvitedMatchID != ""
}

func (g *GroupRecord) IsRated() bool {
	return g.RatedTeamID != ""
}

func (g *GroupRecord) HasMember(id Identity) bool {
	_, ok := g.Members[id]
	return ok
}

// Identities returns the member ids in a stable order.
func (g *GroupRecord) Identities() []Identity {
	ids := pie.Keys(g.Members)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Invite stores a pending invite to matchID, overwriting any earlier one.
func (g *GroupRecord) Invite(matchID string, side Team, deadline time.Time) {
	g.InvitedMatchID = matchID
	g.InvitedSide = side
	g.RemoveInviteTime = deadline
}

// ClearInvite returns the group to the plain queued state.
func (g *GroupRecord) ClearInvite() {
	g.InvitedMatchID = ""
	g.InvitedSide = g.Team
	g.RemoveInviteTime = time.Time{}
	g.Reinvites = 0
}

// WaitedSince returns how long the group has been queued at now.
func (g *GroupRecord) WaitedSince(now time.Time) time.Duration {
	return now.Sub(g.JoinTime)
}

// Copy returns a deep copy that callers outside the engine may keep.
func (g *GroupRecord) Copy() *GroupRecord {
	copied, err := copystructure.Copy(g)
	if err != nil {
		logrus.Warn("failed copy group record:", err)
		return nil
	}
	record, _ := copied.(*GroupRecord)
	return record
}
