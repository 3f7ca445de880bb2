// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package defaultmatchmaker

import (
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/utils"
)

// FitPolicy decides how far a pool may go past its desired headcount.
type FitPolicy int

const (
	// FitExact never exceeds the desired headcount. Used for premade and rated sides.
	FitExact FitPolicy = iota
	// FitOverflowOneGroup lets one last group push the pool up to the overflow
	// tolerance past the desired headcount, so a group slightly too large for
	// the remaining room is not starved. Used for pickup sides.
	FitOverflowOneGroup
)

// SelectionPool gathers the groups of one match side.
type SelectionPool struct {
	groups    []*models.GroupRecord
	headcount int

	fit      FitPolicy
	overflow int
	capacity int // hard cap, 0 means none
}

func NewSelectionPool(fit FitPolicy, overflow int, capacity int) *SelectionPool {
	return &SelectionPool{
		fit:      fit,
		overflow: overflow,
		capacity: capacity,
	}
}

// Configure changes the fit policy for the next attempt and clears the pool.
func (p *SelectionPool) Configure(fit FitPolicy, overflow int, capacity int) {
	p.Reset()
	p.fit = fit
	p.overflow = overflow
	p.capacity = capacity
}

func (p *SelectionPool) Reset() {
	clear(p.groups)
	p.groups = p.groups[:0]
	p.headcount = 0
}

// TryAddGroup appends group when it fits under desired. Invited groups never fit.
func (p *SelectionPool) TryAddGroup(group *models.GroupRecord, desired int) bool {
	if group == nil || group.IsInvited() || group.Size() == 0 {
		return false
	}

	limit := desired
	if p.fit == FitOverflowOneGroup && p.headcount < desired {
		limit = desired + p.overflow
	}
	if p.capacity > 0 && limit > p.capacity {
		limit = p.capacity
	}

	if p.headcount+group.Size() > limit {
		return false
	}

	p.groups = append(p.groups, group)
	p.headcount += group.Size()
	return true
}

// EvictDownTo drops the most recently added groups until the headcount is at
// most target. The first group is never dropped, so it fails rather than
// empty the side.
func (p *SelectionPool) EvictDownTo(target int) bool {
	for p.headcount > target && len(p.groups) > 1 {
		last := len(p.groups) - 1
		p.headcount -= p.groups[last].Size()
		p.groups[last] = nil
		p.groups = p.groups[:last]
	}
	return p.headcount <= target
}

func (p *SelectionPool) Headcount() int {
	return p.headcount
}

// Groups returns the selected groups in the order they were added.
func (p *SelectionPool) Groups() []*models.GroupRecord {
	return p.groups
}

// Contains reports whether group is already selected.
func (p *SelectionPool) Contains(group *models.GroupRecord) bool {
	return utils.Contains(p.groups, group)
}
