// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package waittime keeps the rolling average of realized queue waits.
package waittime

import (
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

// DefaultSampleSize is the number of waits averaged when none is configured.
const DefaultSampleSize = 10

// window is a ring of the latest waits plus their running sum.
type window struct {
	slots []time.Duration
	next  int
	count int
	sum   time.Duration
}

func (w *window) add(d time.Duration) {
	evicted := w.slots[w.next]
	w.slots[w.next] = d
	w.sum += d - evicted
	w.next = (w.next + 1) % len(w.slots)
	if w.count < len(w.slots) {
		w.count++
	}
}

func (w *window) average() time.Duration {
	if w.count == 0 {
		return 0
	}
	return w.sum / time.Duration(w.count)
}

type key struct {
	team    models.Team
	bracket models.BracketID
}

// Tracker holds one window per team and bracket.
type Tracker struct {
	size    int
	windows map[key]*window
}

func NewTracker(size int) *Tracker {
	if size <= 0 {
		size = DefaultSampleSize
	}
	return &Tracker{
		size:    size,
		windows: make(map[key]*window),
	}
}

// RecordSample replaces the oldest wait of the team and bracket with d.
// Negative waits are recorded as zero.
func (t *Tracker) RecordSample(team models.Team, bracket models.BracketID, d time.Duration) {
	if d < 0 {
		d = 0
	}
	k := key{team: team, bracket: bracket}
	w, ok := t.windows[k]
	if !ok {
		w = &window{slots: make([]time.Duration, t.size)}
		t.windows[k] = w
	}
	w.add(d)
}

// AverageWait returns the mean of the recorded waits, zero before the first sample.
func (t *Tracker) AverageWait(team models.Team, bracket models.BracketID) time.Duration {
	w, ok := t.windows[key{team: team, bracket: bracket}]
	if !ok {
		return 0
	}
	return w.average()
}

// Samples returns how many waits the average is currently computed over.
func (t *Tracker) Samples(team models.Team, bracket models.BracketID) int {
	w, ok := t.windows[key{team: team, bracket: bracket}]
	if !ok {
		return 0
	}
	return w.count
}
