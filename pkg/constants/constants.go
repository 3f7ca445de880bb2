// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package constants

const (
	// metric function labels
	CheckPremadeMatchFunction = "checkPremadeMatch"
	CheckNormalMatchFunction  = "checkNormalMatch"
	CheckSkirmishFunction     = "checkSkirmishForSameFaction"
	CheckRatedMatchFunction   = "checkRatedMatch"
	FillOpenMatchFunction     = "fillOpenMatch"
	HousekeepingFunction      = "housekeeping"
)

const (
	// removal reasons sent with NotifyRemovedFromQueue.
	RemovalReasonLeftQueue     = "left_queue"
	RemovalReasonInviteExpired = "invite_expired"
	RemovalReasonOffline       = "offline"
	RemovalReasonEntered       = "entered_match"
)

const (
	// not matched reason constants.
	ReasonNotEnoughPlayers    = "not_enough_players"
	ReasonUnbalancedTeams     = "unbalanced_teams"
	ReasonNoOpponent          = "no_opponent"
	ReasonInstanceUnavailable = "instance_unavailable"
	ReasonInvariantViolation  = "invariant_violation"
)

const (
	TimerKindReinvite = "reinvite"
	TimerKindRemove   = "remove"
)
