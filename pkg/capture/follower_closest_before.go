package capture

// ClosestBeforeFollower scans oldest to newest for the first element that
// falls within Period of the boundary B = range.Lower - Delay. If an
// element at-or-past B is reached before any in-window element is found,
// the frame aborts outright (nothing can ever be close enough again once
// the buffer has moved past B). Grounded on
// original_source/flow/include/follower/impl/closest_before.hpp.
type ClosestBeforeFollower[S Numeric, V any] struct {
	Period S
	Delay  S
}

func (f ClosestBeforeFollower[S, V]) boundary(r CaptureRange[S]) S { return r.Lower - f.Delay }

func (f ClosestBeforeFollower[S, V]) Locate(buf *Buffer[S, V], r CaptureRange[S]) (ExtractionRange, State) {
	b := f.boundary(r)
	n := buf.Size()
	for i := 0; i < n; i++ {
		s := buf.At(i).Stamp
		if s >= b {
			return ExtractionRange{}, Abort
		}
		if s+f.Period >= b {
			return ExtractionRange{First: i, Last: i + 1}, Primed
		}
	}
	return ExtractionRange{}, Retry
}

// Capture removes everything strictly before the matched element, then
// copies (does not remove) the now-front element into the sink: the
// original only ever trims the queue toward the match, it never consumes
// the match itself, so the same element may be the "closest" answer again
// on a later frame.
func (f ClosestBeforeFollower[S, V]) Capture(buf *Buffer[S, V], r CaptureRange[S], er ExtractionRange) []Dispatch[S, V] {
	if er.Empty() {
		return nil
	}
	stamp := buf.At(er.First).Stamp
	buf.RemoveBefore(stamp)
	if buf.Empty() {
		return nil
	}
	return []Dispatch[S, V]{buf.At(0)}
}

func (f ClosestBeforeFollower[S, V]) Abort(buf *Buffer[S, V], t S) {
	buf.RemoveBefore(t - f.Delay - f.Period)
}

func (f ClosestBeforeFollower[S, V]) Reset() {}
