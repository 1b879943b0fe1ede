package capture

// BeforeFollower primes once the newest buffered element reaches the
// boundary B = range.Upper - Delay, then moves every element older than B
// into the sink. Grounded on
// original_source/flow/include/follower/impl/before.hpp.
type BeforeFollower[S Numeric, V any] struct {
	Delay S
}

func (f BeforeFollower[S, V]) boundary(r CaptureRange[S]) S { return r.Upper - f.Delay }

func (f BeforeFollower[S, V]) Locate(buf *Buffer[S, V], r CaptureRange[S]) (ExtractionRange, State) {
	if buf.Empty() {
		return ExtractionRange{}, Retry
	}
	b := f.boundary(r)
	if buf.NewestStamp() < b {
		return ExtractionRange{}, Retry
	}
	return ExtractionRange{First: 0, Last: buf.IndexAtOrAfter(b)}, Primed
}

func (f BeforeFollower[S, V]) Capture(buf *Buffer[S, V], r CaptureRange[S], er ExtractionRange) []Dispatch[S, V] {
	return buf.Extract(er)
}

func (f BeforeFollower[S, V]) Abort(buf *Buffer[S, V], t S) { buf.RemoveBefore(t - f.Delay) }

func (f BeforeFollower[S, V]) Reset() {}
