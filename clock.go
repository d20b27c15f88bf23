package engine

import "time"

// maxUpdatesPerTick bounds the fixed-step catch-up after a long stall
// (debugger pause, laptop sleep). Accumulated time beyond the cap is
// discarded so the simulation does not spiral trying to catch up.
const maxUpdatesPerTick = 8

// tickResult is what the clock decided for one loop iteration.
type tickResult struct {
	// updates is the number of fixed-step update ticks due. In
	// variable-step mode it is always 1 once the clock has started.
	updates int

	// render reports whether a render tick is due. At most one render
	// fires per tick call; there is no render backlog.
	render bool

	// delta is the wall-clock time elapsed since the previous tick.
	// Fixed-step updates each advance by the target interval instead.
	delta time.Duration
}

// frameClock owns frame timing: the target interval, the fixed-step
// accumulator and the render frame counter. It is mutated once per loop
// iteration by tick and is not shared outside the engine loop.
//
// All arithmetic is in time.Duration (integer nanoseconds), so accumulated
// error over a session is bounded by the rounding of the target interval
// itself and never drifts further.
type frameClock struct {
	targetInterval time.Duration
	fixedStep      bool

	lastTick    time.Time
	accumulated time.Duration
	frames      uint64
	started     bool
}

// newFrameClock creates a clock targeting the given frame rate.
// fps < 1 falls back to 60.
func newFrameClock(fps int, fixedStep bool) *frameClock {
	if fps < 1 {
		fps = 60
	}
	return &frameClock{
		targetInterval: time.Second / time.Duration(fps),
		fixedStep:      fixedStep,
	}
}

// tick advances the clock to now and reports how many update ticks are due
// and whether a render tick is due.
//
// Fixed-step: one update per full target interval accumulated, render only
// if at least one update fired. Variable-step: exactly one update and one
// render per call, with the raw elapsed delta.
func (c *frameClock) tick(now time.Time) tickResult {
	if !c.started {
		c.started = true
		c.lastTick = now
		if c.fixedStep {
			return tickResult{}
		}
		// First variable-step frame renders immediately with zero delta.
		c.frames++
		return tickResult{updates: 1, render: true}
	}

	elapsed := now.Sub(c.lastTick)
	if elapsed < 0 {
		elapsed = 0
	}
	c.lastTick = now

	if !c.fixedStep {
		c.frames++
		return tickResult{updates: 1, render: true, delta: elapsed}
	}

	c.accumulated += elapsed

	updates := 0
	for c.accumulated >= c.targetInterval && updates < maxUpdatesPerTick {
		c.accumulated -= c.targetInterval
		updates++
	}
	if updates == maxUpdatesPerTick && c.accumulated >= c.targetInterval {
		// Stalled badly; drop the backlog and resume from here.
		c.accumulated = c.accumulated % c.targetInterval
	}

	res := tickResult{updates: updates, delta: elapsed}
	if updates > 0 {
		res.render = true
		c.frames++
	}
	return res
}

// resume re-anchors the clock after a pause so the paused wall time is not
// replayed as a burst of update ticks.
func (c *frameClock) resume(now time.Time) {
	c.lastTick = now
	c.accumulated = 0
}

// nextDelay returns how long the loop may sleep before the next tick is
// due, or zero if work is already pending.
func (c *frameClock) nextDelay(now time.Time) time.Duration {
	if !c.started {
		return 0
	}
	pending := c.accumulated + now.Sub(c.lastTick)
	if !c.fixedStep {
		pending = now.Sub(c.lastTick)
	}
	d := c.targetInterval - pending
	if d < 0 {
		return 0
	}
	return d
}

// step returns the fixed update interval.
func (c *frameClock) step() time.Duration { return c.targetInterval }

// frameCount returns the number of completed render ticks. It increments
// exactly once per render tick and is monotonically non-decreasing.
func (c *frameClock) frameCount() uint64 { return c.frames }
