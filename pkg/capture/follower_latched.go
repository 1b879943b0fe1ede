package capture

// LatchedFollower holds a single-element cache (the "latch") that is
// updated only when an element at-or-before the boundary B = range.Lower -
// MinPeriod exists, and re-emits the held latch every frame otherwise. A
// newly injected element that is still after B is deliberately NOT latched
// this frame — it may contribute to a later one (spec.md §9 Open Question
// #2, preserved as-is). Grounded on
// original_source/flow/src/follower/latched.hpp.
//
// Like MatchedStampFollower, Locate itself mutates the buffer (trims
// elements before the new latch position) — this mirrors the original's
// dry_capture_follower_impl exactly and is the second documented exception
// to "locate doesn't mutate buffer state" (the first being MatchedStamp).
type LatchedFollower[S Numeric, V any] struct {
	MinPeriod S

	has    bool
	latch  Dispatch[S, V]
}

func (f *LatchedFollower[S, V]) boundary(r CaptureRange[S]) S { return r.Lower - f.MinPeriod }

func (f *LatchedFollower[S, V]) Locate(buf *Buffer[S, V], r CaptureRange[S]) (ExtractionRange, State) {
	if buf.Empty() {
		if f.has {
			return ExtractionRange{First: 0, Last: 1}, Primed
		}
		return ExtractionRange{}, Retry
	}

	b := f.boundary(r)
	if buf.OldestStamp() > b {
		if f.has {
			return ExtractionRange{First: 0, Last: 1}, Primed
		}
		return ExtractionRange{}, Abort
	}

	// Find the last element with stamp <= b (prev), scanning oldest
	// first; curr stops at the first element with stamp > b.
	idx := buf.IndexAfter(b)
	prevIdx := idx - 1
	if prevIdx < 0 {
		prevIdx = 0
	}
	f.latch = buf.At(prevIdx)
	f.has = true
	buf.RemoveBefore(f.latch.Stamp)
	return ExtractionRange{First: 0, Last: 1}, Primed
}

// Capture ignores er and emits whatever the latch currently holds.
func (f *LatchedFollower[S, V]) Capture(buf *Buffer[S, V], r CaptureRange[S], er ExtractionRange) []Dispatch[S, V] {
	if !f.has {
		return nil
	}
	return []Dispatch[S, V]{f.latch}
}

func (f *LatchedFollower[S, V]) Abort(buf *Buffer[S, V], t S) {}

func (f *LatchedFollower[S, V]) Reset() {
	f.has = false
	var zero Dispatch[S, V]
	f.latch = zero
}
