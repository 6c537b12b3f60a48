package optimizer

import "sync/atomic"

// Clock is a monotonic logical clock stamping fold events with a
// strictly increasing seq number, so recorded events replay in the
// exact order folds happened.
//
// Thread-safety: safe for concurrent use (atomic operations), though
// compilation is single-threaded in practice.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
