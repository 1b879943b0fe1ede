package capture

// MatchedStampFollower primes when the contiguous run of elements whose
// stamps fall within [range.Lower, range.Upper] is non-empty. Locate always
// trims everything before range.Lower first — the one other documented
// exception (besides LatchedFollower) to "locate doesn't mutate buffer
// state", confirmed against
// original_source/flow/include/follower/impl/matched_stamp.hpp.
//
// spec.md §4.4 documents capturing the full contiguous run (as implemented
// here); the original C++ source only ever captures a single element
// (*queue_.begin()) — spec.md's explicit prose governs where the two
// disagree, per DESIGN.md's Open Question #3.
type MatchedStampFollower[S Numeric, V any] struct{}

func (MatchedStampFollower[S, V]) Locate(buf *Buffer[S, V], r CaptureRange[S]) (ExtractionRange, State) {
	buf.RemoveBefore(r.Lower)
	if buf.Empty() {
		return ExtractionRange{}, Retry
	}
	if buf.OldestStamp() > r.Upper {
		return ExtractionRange{}, Abort
	}
	end := buf.IndexAfter(r.Upper)
	if end == 0 {
		return ExtractionRange{}, Retry
	}
	return ExtractionRange{First: 0, Last: end}, Primed
}

func (MatchedStampFollower[S, V]) Capture(buf *Buffer[S, V], r CaptureRange[S], er ExtractionRange) []Dispatch[S, V] {
	return buf.Extract(er)
}

func (MatchedStampFollower[S, V]) Abort(buf *Buffer[S, V], t S) { buf.RemoveBefore(t) }

func (MatchedStampFollower[S, V]) Reset() {}
