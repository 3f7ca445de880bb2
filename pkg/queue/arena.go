// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package queue

import (
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

type slot struct {
	generation uint32
	record     *models.GroupRecord
}

// arena keeps group records at stable indices so that buckets can hold
// handles and a record can be released while a scan is in flight.
type arena struct {
	slots []slot
	free  []uint32
	live  int
}

func (a *arena) insert(record *models.GroupRecord) models.GroupHandle {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}

	s := &a.slots[index]
	s.generation++
	s.record = record
	a.live++

	return models.GroupHandle{Index: index, Generation: s.generation}
}

func (a *arena) get(handle models.GroupHandle) (*models.GroupRecord, bool) {
	if handle.IsZero() || int(handle.Index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[handle.Index]
	if s.generation != handle.Generation || s.record == nil {
		return nil, false
	}
	return s.record, true
}

func (a *arena) release(handle models.GroupHandle) bool {
	if _, ok := a.get(handle); !ok {
		return false
	}
	a.slots[handle.Index].record = nil
	a.free = append(a.free, handle.Index)
	a.live--
	return true
}

// each visits live records in slot order until fn returns false.
func (a *arena) each(fn func(record *models.GroupRecord) bool) {
	for i := range a.slots {
		if a.slots[i].record == nil {
			continue
		}
		if !fn(a.slots[i].record) {
			return
		}
	}
}
