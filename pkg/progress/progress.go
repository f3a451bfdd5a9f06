// Package progress defines the sink the executor reports completed
// operations to.
package progress

import "sync/atomic"

// Sink is notified as planned operations complete. Implementations must be
// safe for concurrent Increment calls.
type Sink interface {
	SetTotal(n int64)
	Increment(n int64)
	Finish()
}

type nop struct{}

func (nop) SetTotal(int64)  {}
func (nop) Increment(int64) {}
func (nop) Finish()         {}

// Nop returns a Sink that discards everything.
func Nop() Sink { return nop{} }

// OrNop returns s, or a no-op Sink when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return nop{}
	}
	return s
}

// Counter is a Sink that only counts.
type Counter struct {
	total    atomic.Int64
	current  atomic.Int64
	finished atomic.Bool
}

func (c *Counter) SetTotal(n int64)  { c.total.Store(n) }
func (c *Counter) Increment(n int64) { c.current.Add(n) }
func (c *Counter) Finish()           { c.finished.Store(true) }

func (c *Counter) Total() int64   { return c.total.Load() }
func (c *Counter) Current() int64 { return c.current.Load() }
func (c *Counter) Finished() bool { return c.finished.Load() }
