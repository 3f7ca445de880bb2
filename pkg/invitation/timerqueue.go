// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package invitation

import (
	"container/heap"
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/constants"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

type TimerKind int

const (
	// TimerReinvite fires at the end of the confirm window.
	TimerReinvite TimerKind = iota
	// TimerRemove fires at the invite deadline.
	TimerRemove
)

func (k TimerKind) String() string {
	if k == TimerReinvite {
		return constants.TimerKindReinvite
	}
	return constants.TimerKindRemove
}

// Timer is a logical timer for one invited participant. Token is the invite
// deadline the timer was scheduled against; a timer whose token no longer
// matches the group's deadline is stale.
type Timer struct {
	Kind     TimerKind
	Identity models.Identity
	MatchID  string
	Token    time.Time
	FireAt   time.Time

	seq uint64
}

// timerHeap orders timers by fire time, then by scheduling order.
type timerHeap []Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].FireAt.Equal(h[j].FireAt) {
		return h[i].seq < h[j].seq
	}
	return h[i].FireAt.Before(h[j].FireAt)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(Timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	timer := old[n-1]
	*h = old[:n-1]
	return timer
}

// TimerQueue dispatches timers in fire order.
type TimerQueue struct {
	timers timerHeap
	seq    uint64
}

func (q *TimerQueue) Schedule(timer Timer) {
	q.seq++
	timer.seq = q.seq
	heap.Push(&q.timers, timer)
}

// PopDue removes and returns the next timer due at now.
func (q *TimerQueue) PopDue(now time.Time) (Timer, bool) {
	if len(q.timers) == 0 || q.timers[0].FireAt.After(now) {
		return Timer{}, false
	}
	return heap.Pop(&q.timers).(Timer), true
}

// DropMatch discards every timer of a match and returns how many were dropped.
func (q *TimerQueue) DropMatch(matchID string) int {
	kept := q.timers[:0]
	for _, timer := range q.timers {
		if timer.MatchID != matchID {
			kept = append(kept, timer)
		}
	}
	dropped := len(q.timers) - len(kept)
	q.timers = kept
	heap.Init(&q.timers)
	return dropped
}

func (q *TimerQueue) Len() int {
	return len(q.timers)
}
