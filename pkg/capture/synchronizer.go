package capture

import "time"

// Frame is one synchronizer iteration's result: a driver range plus the
// elements extracted from the driver and every follower (or a non-Primed
// state and no elements).
//
// Driver and Follower elements are carried as []any, boxing each policy's
// concrete Dispatch[S,V]. This is the Go realization of spec.md §9's
// "CRTP/inheritance chains → traits/interfaces" guidance applied to the
// original's captor tuple: since followers may each hold a different value
// type V while sharing one stamp type S, a single composed Synchronizer can
// only address them through a common interface, and any is the idiomatic
// way to carry heterogeneous per-follower payloads through that interface
// (the same pattern the teacher pack uses for heterogeneous JSON/DSL
// evaluation contexts, e.g. pkg/flamegraph/frame.go's map[string]*Frame,
// internal/gateway/alerts/dsl.go's map[string]int64).
type Frame[S Numeric] struct {
	State    State
	Range    CaptureRange[S]
	Driver   []any
	Follower map[string][]any
}

// DriverHandle is the type-erased view of a driver captor that the
// Synchronizer composes against. Concrete instances are produced by
// NewDriverHandle.
type DriverHandle[S Numeric] interface {
	Locate(timeout time.Duration) (CaptureRange[S], State)
	Extract() (CaptureRange[S], []any)
	Abort(t S)
	Reset()
	Remove(t S)
}

// FollowerHandle is the type-erased view of a follower captor.
type FollowerHandle[S Numeric] interface {
	Name() string
	Locate(r CaptureRange[S], timeout time.Duration) (ExtractionRange, State)
	Extract(r CaptureRange[S], er ExtractionRange) []any
	Abort(t S)
	Reset()
	UpdateQueueMonitor(r CaptureRange[S], outcome State)
}

func boxSlice[S Numeric, V any](ds []Dispatch[S, V]) []any {
	if len(ds) == 0 {
		return nil
	}
	out := make([]any, len(ds))
	for i, d := range ds {
		out[i] = d
	}
	return out
}

// driverAdaptor binds a concrete Captor[S,V] and DriverPolicy[S,V] behind
// DriverHandle[S].
type driverAdaptor[S Numeric, V any] struct {
	captor *Captor[S, V]
	policy DriverPolicy[S, V]
}

// NewDriverHandle composes a captor and a driver policy into a
// DriverHandle usable by a Synchronizer.
func NewDriverHandle[S Numeric, V any](captor *Captor[S, V], policy DriverPolicy[S, V]) DriverHandle[S] {
	return &driverAdaptor[S, V]{captor: captor, policy: policy}
}

func (d *driverAdaptor[S, V]) Locate(timeout time.Duration) (CaptureRange[S], State) {
	var rng CaptureRange[S]
	state := d.captor.locate(timeout, func(buf *Buffer[S, V]) State {
		r, st := d.policy.Locate(buf)
		rng = r
		return st
	})
	return rng, state
}

// Extract re-derives the Locate decision and applies the policy's buffer
// mutation under a single critical section. It must only be called
// immediately after a Locate that returned Primed.
func (d *driverAdaptor[S, V]) Extract() (CaptureRange[S], []any) {
	var rng CaptureRange[S]
	var elems []Dispatch[S, V]
	d.captor.withLock(func(buf *Buffer[S, V]) {
		rng, elems = d.policy.Capture(buf)
	})
	return rng, boxSlice(elems)
}

func (d *driverAdaptor[S, V]) Abort(t S) {
	d.captor.Abort(t, func(buf *Buffer[S, V], t S) { d.policy.Abort(buf, t) })
}

func (d *driverAdaptor[S, V]) Reset() {
	d.captor.Reset()
	d.policy.Reset()
}

func (d *driverAdaptor[S, V]) Remove(t S) {
	d.captor.withLock(func(buf *Buffer[S, V]) { d.policy.Abort(buf, t) })
}

// followerAdaptor binds a concrete Captor[S,V] and FollowerPolicy[S,V]
// behind FollowerHandle[S].
type followerAdaptor[S Numeric, V any] struct {
	captor *Captor[S, V]
	policy FollowerPolicy[S, V]
}

// NewFollowerHandle composes a captor and a follower policy into a
// FollowerHandle usable by a Synchronizer.
func NewFollowerHandle[S Numeric, V any](captor *Captor[S, V], policy FollowerPolicy[S, V]) FollowerHandle[S] {
	return &followerAdaptor[S, V]{captor: captor, policy: policy}
}

func (f *followerAdaptor[S, V]) Name() string { return f.captor.Name() }

func (f *followerAdaptor[S, V]) Locate(r CaptureRange[S], timeout time.Duration) (ExtractionRange, State) {
	if !f.captor.CheckQueueMonitor(r) {
		return ExtractionRange{}, SkipFrameQueuePrecondition
	}
	var er ExtractionRange
	state := f.captor.locate(timeout, func(buf *Buffer[S, V]) State {
		e, st := f.policy.Locate(buf, r)
		er = e
		return st
	})
	return er, state
}

func (f *followerAdaptor[S, V]) Extract(r CaptureRange[S], er ExtractionRange) []any {
	var out []Dispatch[S, V]
	f.captor.withLock(func(buf *Buffer[S, V]) {
		out = f.policy.Capture(buf, r, er)
	})
	return boxSlice(out)
}

func (f *followerAdaptor[S, V]) Abort(t S) {
	f.captor.Abort(t, func(buf *Buffer[S, V], t S) { f.policy.Abort(buf, t) })
}

func (f *followerAdaptor[S, V]) Reset() {
	f.captor.Reset()
	f.policy.Reset()
}

func (f *followerAdaptor[S, V]) UpdateQueueMonitor(r CaptureRange[S], outcome State) {
	f.captor.UpdateQueueMonitor(r, outcome)
}

// Synchronizer composes one driver and N followers into a single
// transactional frame operation. The stamp type S is shared across every
// member, matching spec.md §4.5's "stamp type is required to be identical
// across all members" constraint via Go's type system.
type Synchronizer[S Numeric] struct {
	driver    DriverHandle[S]
	followers []FollowerHandle[S]
}

// NewSynchronizer composes a driver and its followers, in declaration
// order (followers run, and may short-circuit the frame, in this order).
func NewSynchronizer[S Numeric](driver DriverHandle[S], followers ...FollowerHandle[S]) *Synchronizer[S] {
	return &Synchronizer[S]{driver: driver, followers: followers}
}

// Reset resets every composed member.
func (s *Synchronizer[S]) Reset() {
	s.driver.Reset()
	for _, f := range s.followers {
		f.Reset()
	}
}

// Abort aborts every composed member with the given stamp.
func (s *Synchronizer[S]) Abort(t S) {
	s.driver.Abort(t)
	for _, f := range s.followers {
		f.Abort(t)
	}
}

// Remove trims the driver only; followers are range-driven, not
// stamp-driven, and ignore Remove (spec.md §4.5).
func (s *Synchronizer[S]) Remove(t S) {
	s.driver.Remove(t)
}

// Capture runs one full frame attempt: locate the driver, locate each
// follower in turn against the driver's range, and — if every member
// agreed — extract from all of them. lowerBound rejects frames whose
// driver range is too old; timeout bounds any blocking-lock wait (0 means
// wait unconditionally).
func (s *Synchronizer[S]) Capture(lowerBound S, timeout time.Duration) Frame[S] {
	return s.run(lowerBound, timeout, true)
}

// DryCapture is Capture without the extraction phase: it reports whether a
// frame would be Primed without consuming any buffer. This is the named
// counterpart to the original's dry_capture, supplementing spec.md's
// sentinel-sink ("NoCapture") convention with a directly callable operation
// (see SPEC_FULL.md §12).
func (s *Synchronizer[S]) DryCapture(lowerBound S, timeout time.Duration) Frame[S] {
	return s.run(lowerBound, timeout, false)
}

func (s *Synchronizer[S]) run(lowerBound S, timeout time.Duration, extract bool) Frame[S] {
	frame := Frame[S]{Follower: make(map[string][]any, len(s.followers))}

	rng, state := s.driver.Locate(timeout)
	frame.Range = rng
	frame.State = state
	if state != Primed {
		return frame
	}
	if rng.Upper < lowerBound {
		frame.State = ErrorDriverLowerBoundExceeded
		return frame
	}

	type followerResult struct {
		name string
		er   ExtractionRange
	}
	results := make([]followerResult, 0, len(s.followers))

	for _, f := range s.followers {
		er, st := f.Locate(rng, timeout)
		if st != Primed {
			frame.State = st
			if extract {
				for _, g := range s.followers {
					g.UpdateQueueMonitor(rng, st)
				}
			}
			return frame
		}
		results = append(results, followerResult{name: f.Name(), er: er})
	}

	if !extract {
		return frame
	}

	_, driverElems := s.driver.Extract()
	frame.Driver = driverElems

	for i, f := range s.followers {
		elems := f.Extract(rng, results[i].er)
		frame.Follower[f.Name()] = elems
		f.UpdateQueueMonitor(rng, frame.State)
	}

	return frame
}
