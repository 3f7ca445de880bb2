// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"github.com/go-openapi/swag"
)

// JoinRequest is what the roster service hands over when a leader or a solo
// participant queues. Rating fields are only meaningful for rated brackets.
type JoinRequest struct {
	Leader            Identity
	Members           []Identity
	Team              Team
	Rules             BracketRules
	IsPremade         bool
	Rating            *int
	MatchmakingRating *int
	RatedTeamID       *string
}

// AllMembers returns the leader followed by the other members, without duplicates.
func (r JoinRequest) AllMembers() []Identity {
	seen := make(map[Identity]struct{}, len(r.Members)+1)
	members := make([]Identity, 0, len(r.Members)+1)
	for _, id := range append([]Identity{r.Leader}, r.Members...) {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	return members
}

func (r JoinRequest) RatingValue() int {
	return swag.IntValue(r.Rating)
}

func (r JoinRequest) MatchmakingRatingValue() int {
	return swag.IntValue(r.MatchmakingRating)
}

func (r JoinRequest) RatedTeam() string {
	return swag.StringValue(r.RatedTeamID)
}

// Premade reports whether the group belongs in a premade bucket: rated teams
// always do, premades only when they can fill the bracket's minimum team size.
func (r JoinRequest) Premade() bool {
	if r.Rules.Rated {
		return true
	}
	return r.IsPremade && len(r.AllMembers()) >= r.Rules.MinPlayersPerTeam
}

func (r JoinRequest) Validate() error {
	if err := r.Rules.Validate(); err != nil {
		return err
	}

	if !r.Team.Valid() {
		return ErrInvalidTeam
	}

	members := r.AllMembers()
	if len(members) == 0 {
		return ErrEmptyGroup
	}

	if len(members) > r.Rules.MaxPlayersPerTeam {
		return ErrGroupTooLarge
	}

	if r.Rules.Rated {
		if r.RatedTeam() == "" {
			return ErrMissingRatedTeam
		}
		if len(members) < r.Rules.MinPlayersPerTeam {
			return ErrRatedTeamTooSmall
		}
	}

	return nil
}
