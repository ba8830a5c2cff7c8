package scanner

import "sync/atomic"

// Canceller is a cooperative stop flag shared by every probe in a run.
// It is set once (typically by an interrupt handler) and observed by
// probes before each connection attempt; it never aborts an attempt
// already in flight. Independent runs should each own their own
// Canceller so they cannot interfere with one another.
type Canceller struct {
	flag atomic.Bool
}

// NewCanceller returns a fresh, unset cancellation flag.
func NewCanceller() *Canceller {
	return &Canceller{}
}

// Cancel marks the run cancelled. Within one run the flag is never reset.
func (c *Canceller) Cancel() {
	c.flag.Store(true)
}

// Cancelled reports whether the run has been cancelled.
// Safe to call on a nil receiver, which is treated as "never cancelled".
func (c *Canceller) Cancelled() bool {
	return c != nil && c.flag.Load()
}

// Progress counts ports accounted for during a scan, whether actually
// probed or skipped after cancellation. It exists for observability
// only; correctness never depends on it. A nil *Progress is valid and
// drops all updates.
type Progress struct {
	n atomic.Int64
}

// NewProgress returns a counter starting at zero.
func NewProgress() *Progress {
	return &Progress{}
}

// Inc records one more port accounted for.
func (p *Progress) Inc() {
	if p != nil {
		p.n.Add(1)
	}
}

// Count returns the number of ports accounted for so far.
func (p *Progress) Count() int64 {
	if p == nil {
		return 0
	}
	return p.n.Load()
}
