package capture

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// LockMode selects a Captor's concurrency wrapper. All three are
// interchangeable through the same Captor API; policies never observe
// which one is in effect (spec.md §9, "concurrency wrapper seam").
type LockMode int

const (
	// NoLock performs every operation as a direct, unsynchronized call.
	// Capture never waits; it is single-threaded-only.
	NoLock LockMode = iota
	// PollingLock guards every buffer operation and policy invocation
	// with a plain mutex. Capture runs the policy once per call and
	// returns without waiting on data arrival.
	PollingLock
	// BlockingLock guards the buffer with a mutex plus a condition
	// variable. Capture blocks on Retry until notified by Inject,
	// InjectBatch, Abort, or Reset, or until an optional deadline
	// elapses.
	BlockingLock
)

// Captor wraps a Buffer with a concurrency policy and an optional
// QueueMonitor, exposing the uniform inject/locate/extract/abort/reset
// contract described in spec.md §4.2.
type Captor[S Numeric, V any] struct {
	name string
	mode LockMode

	mu   sync.Mutex
	cond *sync.Cond
	buf  *Buffer[S, V]

	// capturing mirrors the original's "capturing_" volatile bool: set
	// to true at the start of every blocking-lock capture/locate call,
	// flipped false by Abort, and always restored to true on exit so a
	// prior abort never permanently latches the captor (spec.md §9).
	capturing atomic.Bool

	monitor QueueMonitor[S]
}

// NewCaptor returns a Captor wrapping a fresh buffer of the given capacity
// (0 = unbounded). monitor may be nil, in which case AlwaysReady is used.
func NewCaptor[S Numeric, V any](name string, mode LockMode, capacity int, monitor QueueMonitor[S]) *Captor[S, V] {
	if monitor == nil {
		monitor = AlwaysReady[S]{}
	}
	c := &Captor[S, V]{
		name:    name,
		mode:    mode,
		buf:     NewBuffer[S, V](capacity),
		monitor: monitor,
	}
	c.capturing.Store(true)
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Name returns the captor's identifying label, used by the synchronizer to
// key per-follower output.
func (c *Captor[S, V]) Name() string { return c.name }

// Inject inserts a single element and notifies any waiter. Returns false if
// an element with the same stamp already existed (first writer wins).
func (c *Captor[S, V]) Inject(d Dispatch[S, V]) bool {
	if c.mode == NoLock {
		return c.buf.Insert(d)
	}
	c.mu.Lock()
	ok := c.buf.Insert(d)
	c.mu.Unlock()
	if c.mode == BlockingLock {
		c.cond.Broadcast()
	}
	return ok
}

// InjectBatch bulk-inserts a sequence, notifying once.
func (c *Captor[S, V]) InjectBatch(ds []Dispatch[S, V]) {
	insert := func() {
		for _, d := range ds {
			c.buf.Insert(d)
		}
	}
	if c.mode == NoLock {
		insert()
		return
	}
	c.mu.Lock()
	insert()
	c.mu.Unlock()
	if c.mode == BlockingLock {
		c.cond.Broadcast()
	}
}

// Size returns the current buffer size.
func (c *Captor[S, V]) Size() int {
	if c.mode == NoLock {
		return c.buf.Size()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Size()
}

// Capacity returns the configured capacity (0 = unbounded).
func (c *Captor[S, V]) Capacity() int {
	if c.mode == NoLock {
		return c.buf.Capacity()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Capacity()
}

// SetCapacity changes the capacity bound under the same critical section
// used for inserts.
func (c *Captor[S, V]) SetCapacity(n int) {
	if c.mode == NoLock {
		c.buf.SetCapacity(n)
		return
	}
	c.mu.Lock()
	c.buf.SetCapacity(n)
	c.mu.Unlock()
}

// AvailableStampRange returns CaptureRange{oldest, newest}, or ok=false if
// the buffer is empty.
func (c *Captor[S, V]) AvailableStampRange() (r CaptureRange[S], ok bool) {
	lock := c.mode != NoLock
	if lock {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	if c.buf.Empty() {
		return CaptureRange[S]{}, false
	}
	return CaptureRange[S]{Lower: c.buf.OldestStamp(), Upper: c.buf.NewestStamp()}, true
}

// Inspect iterates the current elements under the captor's lock; the
// callback must not retain the slice beyond the call.
func (c *Captor[S, V]) Inspect(fn func([]Dispatch[S, V])) {
	if c.mode == NoLock {
		fn(c.buf.Items())
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.buf.Items())
}

// Reset signals any waiter and clears the buffer. Policy-specific state is
// not touched here; the caller owns the policy and resets it itself (Captor
// only owns the buffer and concurrency wrapper, per spec.md §9's separation
// of concerns).
func (c *Captor[S, V]) Reset() {
	lock := c.mode != NoLock
	if lock {
		c.mu.Lock()
	}
	c.buf.Clear()
	c.capturing.Store(true)
	if lock {
		c.mu.Unlock()
	}
	if c.mode == BlockingLock {
		c.cond.Broadcast()
	}
}

// Abort flips the capture-loop flag, notifies any waiter, and runs the
// supplied policy abort callback under the buffer's lock. Any outstanding
// Locate on this captor returns Abort unless a non-Retry result had already
// been produced inside its critical section.
func (c *Captor[S, V]) Abort(t S, policyAbort func(buf *Buffer[S, V], t S)) {
	lock := c.mode != NoLock
	if lock {
		c.mu.Lock()
	}
	c.capturing.Store(false)
	if policyAbort != nil {
		policyAbort(c.buf, t)
	}
	if lock {
		c.mu.Unlock()
	}
	if c.mode == BlockingLock {
		c.cond.Broadcast()
	}
}

// locate runs fn (a policy's Locate closure) under the captor's concurrency
// discipline, waiting on new data when the mode is BlockingLock and the
// policy reports Retry. timeout <= 0 means "wait unconditionally" for
// BlockingLock; for the other two modes timeout is ignored.
func (c *Captor[S, V]) locate(timeout time.Duration, fn func(buf *Buffer[S, V]) State) State {
	switch c.mode {
	case NoLock:
		return fn(c.buf)
	case PollingLock:
		c.mu.Lock()
		defer c.mu.Unlock()
		return fn(c.buf)
	default: // BlockingLock
		return c.locateBlocking(timeout, fn)
	}
}

func (c *Captor[S, V]) locateBlocking(timeout time.Duration, fn func(buf *Buffer[S, V]) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capturing.Store(true)
	defer c.capturing.Store(true)

	hasDeadline := timeout > 0
	var deadline time.Time
	if hasDeadline {
		deadline = time.Now().Add(timeout)
	}

	for c.capturing.Load() {
		if st := fn(c.buf); st != Retry {
			return st
		}
		if !hasDeadline {
			c.cond.Wait()
			continue
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Timeout
		}
		timer := time.AfterFunc(remaining, func() {
			c.mu.Lock()
			c.cond.Broadcast()
			c.mu.Unlock()
		})
		c.cond.Wait()
		timer.Stop()
		if !time.Now().Before(deadline) {
			// Deadline passed while we were asleep; give the policy one
			// more chance before declaring Timeout, since a notification
			// racing the timer may have just delivered fresh data.
			if st := fn(c.buf); st != Retry {
				return st
			}
			return Timeout
		}
	}
	return Abort
}

// withLock runs fn with the buffer locked (or unsynchronized for NoLock);
// used for the "extract" half of locate+extract
// where no waiting is required.
func (c *Captor[S, V]) withLock(fn func(buf *Buffer[S, V])) {
	if c.mode == NoLock {
		fn(c.buf)
		return
	}
	c.mu.Lock()
	fn(c.buf)
	c.mu.Unlock()
}

// UpdateQueueMonitor notifies the attached monitor of a frame's outcome.
func (c *Captor[S, V]) UpdateQueueMonitor(r CaptureRange[S], outcome State) {
	size := c.Size()
	c.monitor.Update(size, r, outcome)
}

// CheckQueueMonitor runs the attached monitor's admission check.
func (c *Captor[S, V]) CheckQueueMonitor(r CaptureRange[S]) bool {
	size := c.Size()
	return c.monitor.Check(size, r)
}
