package main

import (
	"time"

	"gochip8/pkg/cpu"
)

// holdTracker synthesises key releases. Terminals only report presses (and
// auto-repeat), so a key counts as held until no press has arrived for the
// hold window.
type holdTracker struct {
	hold  time.Duration
	until [cpu.KeyCount]time.Time
	down  [cpu.KeyCount]bool
}

func newHoldTracker(hold time.Duration) *holdTracker {
	return &holdTracker{hold: hold}
}

// Press extends the hold on k and reports whether k was up before.
func (h *holdTracker) Press(k cpu.Key, now time.Time) bool {
	k &= 0xF
	h.until[k] = now.Add(h.hold)
	if h.down[k] {
		return false
	}
	h.down[k] = true
	return true
}

// Expire returns the keys whose hold ran out at now, lowest first.
func (h *holdTracker) Expire(now time.Time) []cpu.Key {
	var released []cpu.Key
	for i := range h.down {
		if h.down[i] && !now.Before(h.until[i]) {
			h.down[i] = false
			released = append(released, cpu.Key(i))
		}
	}
	return released
}
