// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"fmt"
	"strconv"
	"strings"

	validator "github.com/AccelByte/justice-input-validation-go"
)

// BracketID identifies an independent matchmaking partition (level or skill range).
type BracketID int

func (b BracketID) String() string {
	return strconv.Itoa(int(b))
}

// InvitationType is the balance policy applied when the two sides of a pickup
// match have different headcounts available.
type InvitationType int

const (
	// InvitationNoBalance allows N+M vs N.
	InvitationNoBalance InvitationType = iota
	// InvitationBalanced caps the larger side at N+1 vs N.
	InvitationBalanced
	// InvitationEven requires N vs N.
	InvitationEven
)

func (t InvitationType) Valid() bool {
	return t >= InvitationNoBalance && t <= InvitationEven
}

func (t InvitationType) String() string {
	switch t {
	case InvitationNoBalance:
		return "no_balance"
	case InvitationBalanced:
		return "balanced"
	case InvitationEven:
		return "even"
	default:
		return "unknown"
	}
}

// ParseInvitationType accepts the names returned by InvitationType.String.
func ParseInvitationType(s string) (InvitationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no_balance", "":
		return InvitationNoBalance, nil
	case "balanced":
		return InvitationBalanced, nil
	case "even":
		return InvitationEven, nil
	}
	return InvitationNoBalance, fmt.Errorf("%w: %q", ErrInvalidInvitationType, s)
}

// BracketRules is the per-bracket configuration supplied with every join.
type BracketRules struct {
	ID                BracketID      `json:"id"`
	MinPlayersPerTeam int            `json:"min_players_per_team" valid:"range(0|2147483647)"`
	MaxPlayersPerTeam int            `json:"max_players_per_team" valid:"range(0|2147483647)"`
	InvitationType    InvitationType `json:"invitation_type"`
	Rated             bool           `json:"rated"`
	AllowSkirmish     bool           `json:"allow_skirmish"`
}

func (r BracketRules) Validate() error {
	if _, err := validator.ValidateStruct(r); err != nil {
		return err
	}

	if r.MinPlayersPerTeam == 0 || r.MaxPlayersPerTeam == 0 {
		return ErrZeroTeamSize
	}

	if r.MinPlayersPerTeam > r.MaxPlayersPerTeam {
		return ErrMinAboveMax
	}

	if !r.InvitationType.Valid() {
		return ErrInvalidInvitationType
	}

	return nil
}
