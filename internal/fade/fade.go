// Package fade ramps output volume linearly over a short window so that
// play, pause and track changes never produce audible clicks.
package fade

import "time"

const (
	// Window is the total length of one ramp.
	Window = 300 * time.Millisecond
	// Interval is the time between two volume steps.
	Interval = 30 * time.Millisecond
	// Steps is the number of volume changes performed by one ramp.
	Steps = int(Window / Interval)
)

// Output is the volume-controllable part of an audio handle.
type Output interface {
	Volume() float64
	SetVolume(level float64)
}

// Controller runs at most one volume ramp at a time.
//
// Controller is not safe for concurrent use: callers serialize access,
// including the callbacks it receives from its Scheduler.
type Controller struct {
	out     Output
	sched   Scheduler
	stop    func()
	pending func() // completion of the running fade-out
	gen     uint64
}

// New creates a controller driving out with ticks from sched.
func New(out Output, sched Scheduler) *Controller {
	return &Controller{out: out, sched: sched}
}

// Active returns true while a ramp is running.
func (c *Controller) Active() bool {
	return c.stop != nil
}

// Cancel stops the running ramp, leaving the volume where it is.
// The completion callback of a cancelled fade-out is never invoked.
func (c *Controller) Cancel() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.pending = nil
	c.gen++
}

// Finish stops the running ramp like Cancel, but a fade-out still gets
// its completion callback, invoked before Finish returns.
func (c *Controller) Finish() {
	onComplete := c.pending
	c.Cancel()
	if onComplete != nil {
		onComplete()
	}
}

// In ramps the volume up from its current level to target.
// Does nothing (beyond cancelling the previous ramp) when the volume is
// already at or above target.
func (c *Controller) In(target float64) {
	c.Cancel()

	start := c.out.Volume()
	if start >= target {
		return
	}

	step := (target - start) / float64(Steps)
	c.run(func(n int) bool {
		if n >= Steps {
			c.out.SetVolume(target)
			return true
		}
		c.out.SetVolume(start + step*float64(n))
		return false
	}, nil)
}

// Out ramps the volume down to zero, then calls onComplete exactly once.
// If the volume is already zero, onComplete runs immediately.
func (c *Controller) Out(onComplete func()) {
	c.Cancel()

	start := c.out.Volume()
	if start <= 0 {
		if onComplete != nil {
			onComplete()
		}
		return
	}

	step := start / float64(Steps)
	c.run(func(n int) bool {
		if n >= Steps {
			c.out.SetVolume(0)
			return true
		}
		c.out.SetVolume(max(start-step*float64(n), 0))
		return false
	}, onComplete)
}

// run schedules apply on every tick until it reports completion.
func (c *Controller) run(apply func(n int) bool, onComplete func()) {
	gen := c.gen
	n := 0
	c.pending = onComplete
	c.stop = c.sched.Every(Interval, func() {
		// A tick from a cancelled ramp may still be in flight.
		if gen != c.gen {
			return
		}
		n++
		if !apply(n) {
			return
		}
		c.Cancel()
		if onComplete != nil {
			onComplete()
		}
	})
}
