// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

// Team is the faction tag of a queued group. It is fixed when the group joins.
type Team int

const (
	TeamA Team = iota
	TeamB
)

// TeamCount is the number of sides in every match.
const TeamCount = 2

// Teams lists both sides in index order.
var Teams = [TeamCount]Team{TeamA, TeamB}

func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Other returns the opposing side.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func (t Team) String() string {
	switch t {
	case TeamA:
		return "team_a"
	case TeamB:
		return "team_b"
	default:
		return "unknown"
	}
}

// BucketKind is the queue-group type a group record is filed under.
// Premade buckets hold rated teams and premades of at least the bracket's
// minimum team size, pickup buckets hold everything else.
type BucketKind int

const (
	PremadeTeamA BucketKind = iota
	PremadeTeamB
	PickupTeamA
	PickupTeamB
)

// BucketKindCount is the number of buckets per bracket.
const BucketKindCount = 4

// BucketKindFor returns the bucket for a group of the given team.
func BucketKindFor(team Team, premade bool) BucketKind {
	kind := PickupTeamA
	if premade {
		kind = PremadeTeamA
	}
	return kind + BucketKind(team)
}

func (k BucketKind) Team() Team {
	return Team(int(k) % TeamCount)
}

func (k BucketKind) IsPremade() bool {
	return k == PremadeTeamA || k == PremadeTeamB
}

func (k BucketKind) String() string {
	switch k {
	case PremadeTeamA:
		return "premade_team_a"
	case PremadeTeamB:
		return "premade_team_b"
	case PickupTeamA:
		return "pickup_team_a"
	case PickupTeamB:
		return "pickup_team_b"
	default:
		return "unknown"
	}
}
