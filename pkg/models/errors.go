// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
)

var (
	ErrAlreadyQueued         = errors.New("participant is already queued")
	ErrEmptyGroup            = errors.New("group has no members")
	ErrGroupTooLarge         = errors.New("group exceeds the bracket's max players per team")
	ErrInvalidTeam           = errors.New("team must be team_a or team_b")
	ErrZeroTeamSize          = errors.New("bracket should have at least 1 player per team")
	ErrMinAboveMax           = errors.New("min players per team should not exceed max players per team")
	ErrInvalidInvitationType = errors.New("unknown invitation type")
	ErrMissingRatedTeam      = errors.New("rated bracket requires a rated team id")
	ErrRatedTeamTooSmall     = errors.New("rated team is smaller than the bracket's min players per team")
	ErrBracketRulesConflict  = errors.New("bracket is already registered with different rules")

	// ErrInvariantViolation marks a programming defect: an empty group still
	// indexed, or a participant whose back-reference does not resolve.
	ErrInvariantViolation = errors.New("queue invariant violated")
)

var errorCodeMap = map[error]int{
	ErrAlreadyQueued:         520101,
	ErrEmptyGroup:            520102,
	ErrGroupTooLarge:         520103,
	ErrInvalidTeam:           520104,
	ErrZeroTeamSize:          520105,
	ErrMinAboveMax:           520106,
	ErrInvalidInvitationType: 520107,
	ErrMissingRatedTeam:      520108,
	ErrRatedTeamTooSmall:     520109,
	ErrBracketRulesConflict:  520110,
	ErrInvariantViolation:    520199,
}

// ErrorCode returns a code for the error, following wrapped errors.
// It returns 20002 (generic validation error) if the error is not registered in the map.
func ErrorCode(err error) int {
	for known, code := range errorCodeMap {
		if errors.Is(err, known) {
			return code
		}
	}
	return 20002
}
