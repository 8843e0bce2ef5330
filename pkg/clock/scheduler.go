// Package clock converts elapsed wall time into instruction and timer budgets.
package clock

import "time"

// DefaultMaxCatchUp bounds how much elapsed time a single Advance honours.
// After a stall (window drag, breakpoint, suspend) the machine skips ahead
// instead of running thousands of queued instructions at once.
const DefaultMaxCatchUp = 100 * time.Millisecond

// Scheduler keeps separate accumulators for the instruction rate and the
// timer rate. It is not safe for concurrent use.
type Scheduler struct {
	cpuPeriod   time.Duration
	timerPeriod time.Duration
	maxCatchUp  time.Duration

	cpuAcc   time.Duration
	timerAcc time.Duration
}

// New returns a Scheduler for the given rates in Hz. Non-positive rates are
// replaced by 600 and 60.
func New(cpuHz, timerHz int) *Scheduler {
	if cpuHz <= 0 {
		cpuHz = 600
	}
	if timerHz <= 0 {
		timerHz = 60
	}
	return &Scheduler{
		cpuPeriod:   period(cpuHz),
		timerPeriod: period(timerHz),
		maxCatchUp:  DefaultMaxCatchUp,
	}
}

// period is never shorter than a nanosecond, whatever the rate.
func period(hz int) time.Duration {
	if p := time.Second / time.Duration(hz); p > 0 {
		return p
	}
	return time.Nanosecond
}

// SetMaxCatchUp changes the per-call cap. Zero disables it.
func (s *Scheduler) SetMaxCatchUp(d time.Duration) {
	s.maxCatchUp = d
}

// Advance adds dt to both accumulators and returns how many instructions and
// timer ticks are now due.
func (s *Scheduler) Advance(dt time.Duration) (steps, ticks int) {
	if dt <= 0 {
		return 0, 0
	}
	if s.maxCatchUp > 0 && dt > s.maxCatchUp {
		dt = s.maxCatchUp
	}

	s.cpuAcc += dt
	s.timerAcc += dt

	steps = int(s.cpuAcc / s.cpuPeriod)
	s.cpuAcc -= time.Duration(steps) * s.cpuPeriod

	ticks = int(s.timerAcc / s.timerPeriod)
	s.timerAcc -= time.Duration(ticks) * s.timerPeriod

	return steps, ticks
}

// Reset drops any partial period, e.g. after unpausing.
func (s *Scheduler) Reset() {
	s.cpuAcc = 0
	s.timerAcc = 0
}

func (s *Scheduler) CPUPeriod() time.Duration   { return s.cpuPeriod }
func (s *Scheduler) TimerPeriod() time.Duration { return s.timerPeriod }
