// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package rebalance trims the two sides of a match until their headcounts
// satisfy the bracket's invitation policy.
package rebalance

import (
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/mathutil"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

// Side is one side of a match under construction.
type Side interface {
	Headcount() int
	EvictDownTo(target int) bool
}

// Allowance returns the largest headcount difference the policy accepts.
// bounded is false when the policy accepts any difference.
func Allowance(policy models.InvitationType, noBalanceMaxSurplus int) (allowance int, bounded bool) {
	switch policy {
	case models.InvitationEven:
		return 0, true
	case models.InvitationBalanced:
		return 1, true
	default:
		if noBalanceMaxSurplus > 0 {
			return noBalanceMaxSurplus, true
		}
		return 0, false
	}
}

// Within reports whether two headcounts satisfy the policy.
func Within(a, b int, policy models.InvitationType, noBalanceMaxSurplus int) bool {
	allowance, bounded := Allowance(policy, noBalanceMaxSurplus)
	return !bounded || mathutil.Abs(a-b) <= allowance
}

// MemberCount evicts groups from the larger side until the difference between
// the sides is at most allowance. baseline is added to each side's headcount
// before comparing, so sides that already hold participants elsewhere (an
// open match) can be balanced on their totals. It returns false when a side
// cannot shrink far enough without dropping its only group.
func MemberCount(rootScope *envelope.Scope, sides [models.TeamCount]Side, baseline [models.TeamCount]int, allowance int) bool {
	scope := rootScope.NewChildScope("RebalanceMemberCount")
	defer scope.Finish()

	for {
		totalA := baseline[models.TeamA] + sides[models.TeamA].Headcount()
		totalB := baseline[models.TeamB] + sides[models.TeamB].Headcount()

		diff := mathutil.Abs(totalA - totalB)
		if diff <= allowance {
			return true
		}

		larger := models.TeamA
		if totalB > totalA {
			larger = models.TeamB
		}
		side := sides[larger]
		before := side.Headcount()

		if !side.EvictDownTo(before-(diff-allowance)) || side.Headcount() == before {
			scope.Log.
				WithField("teamA", totalA).
				WithField("teamB", totalB).
				WithField("allowance", allowance).
				Debug("cannot rebalance member count")
			return false
		}
	}
}
