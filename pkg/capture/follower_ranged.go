package capture

// RangedFollower primes once an element exists both strictly before L =
// range.Lower - Delay and past U = range.Upper - Delay, capturing the
// inclusive span between the element just before L and the element just
// past U (a copy, not a move: the window stays in the buffer, only
// strictly-older elements are trimmed). Grounded on
// original_source/flow/include/follower/impl/ranged.hpp.
type RangedFollower[S Numeric, V any] struct {
	Delay S
}

func (f RangedFollower[S, V]) Locate(buf *Buffer[S, V], r CaptureRange[S]) (ExtractionRange, State) {
	if buf.Empty() {
		return ExtractionRange{}, Retry
	}
	l := r.Lower - f.Delay
	u := r.Upper - f.Delay

	idxA := buf.IndexAtOrAfter(l)
	if idxA == 0 {
		return ExtractionRange{}, Abort
	}
	idxB := buf.IndexAfter(u)
	if idxB == buf.Size() {
		return ExtractionRange{}, Retry
	}
	return ExtractionRange{First: idxA - 1, Last: idxB + 1}, Primed
}

func (f RangedFollower[S, V]) Capture(buf *Buffer[S, V], r CaptureRange[S], er ExtractionRange) []Dispatch[S, V] {
	if er.Empty() {
		return nil
	}
	out := buf.Slice(er)
	buf.RemoveBefore(buf.At(er.First).Stamp)
	return out
}

func (f RangedFollower[S, V]) Abort(buf *Buffer[S, V], t S) {}

func (f RangedFollower[S, V]) Reset() {}
