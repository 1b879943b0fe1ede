package capture

import "errors"

// ErrInvalidCountBeforeSize is returned by NewCountBeforeFollower when
// count is 0.
var ErrInvalidCountBeforeSize = errors.New("capture: count-before count must be > 0")

// CountBeforeFollower primes once at least Count elements have stamp below
// the boundary B = range.Upper - Delay, emitting exactly the Count elements
// ending just before B. Grounded on
// original_source/flow/include/follower/impl/count_before.hpp, with the
// removal boundary taken from spec.md §4.4's explicit text ("remove all
// elements at and before the last-copied") where it differs from the
// original's strictly-before remove_before — spec.md's explicit prose
// governs over the original where they conflict (see DESIGN.md).
type CountBeforeFollower[S Numeric, V any] struct {
	Count int
	Delay S
}

// NewCountBeforeFollower returns a CountBeforeFollower requiring count > 0.
func NewCountBeforeFollower[S Numeric, V any](count int, delay S) (*CountBeforeFollower[S, V], error) {
	if count <= 0 {
		return nil, ErrInvalidCountBeforeSize
	}
	return &CountBeforeFollower[S, V]{Count: count, Delay: delay}, nil
}

func (f *CountBeforeFollower[S, V]) boundary(r CaptureRange[S]) S { return r.Upper - f.Delay }

func (f *CountBeforeFollower[S, V]) Locate(buf *Buffer[S, V], r CaptureRange[S]) (ExtractionRange, State) {
	b := f.boundary(r)
	k := buf.IndexAtOrAfter(b) // count of elements with stamp < b
	if k >= f.Count {
		return ExtractionRange{First: k - f.Count, Last: k}, Primed
	}
	if k < buf.Size() {
		// an element with stamp >= b exists but not enough data before it
		return ExtractionRange{}, Abort
	}
	return ExtractionRange{}, Retry
}

func (f *CountBeforeFollower[S, V]) Capture(buf *Buffer[S, V], r CaptureRange[S], er ExtractionRange) []Dispatch[S, V] {
	if er.Empty() {
		return nil
	}
	out := buf.Slice(er)
	buf.RemoveAtOrBefore(buf.At(er.Last - 1).Stamp)
	return out
}

func (f *CountBeforeFollower[S, V]) Abort(buf *Buffer[S, V], t S) {}

func (f *CountBeforeFollower[S, V]) Reset() {}
