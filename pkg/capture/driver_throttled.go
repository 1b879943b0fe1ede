package capture

// ThrottledDriver advances only when the gap since the last emitted stamp
// meets Period, skipping over elements that arrive too soon. Grounded on
// original_source/flow/include/driver/impl/throttled.hpp.
type ThrottledDriver[S Numeric, V any] struct {
	period   S
	minStamp S // sentinel representing Stamp::min, supplied by the caller
	previous S
}

// NewThrottledDriver returns a ThrottledDriver requiring at least period
// between emitted stamps. minStamp is the caller's sentinel for "no
// previous emission yet" (e.g. math.MinInt64 for int64 stamps).
func NewThrottledDriver[S Numeric, V any](period, minStamp S) *ThrottledDriver[S, V] {
	return &ThrottledDriver[S, V]{period: period, minStamp: minStamp, previous: minStamp}
}

func (d *ThrottledDriver[S, V]) Locate(buf *Buffer[S, V]) (CaptureRange[S], State) {
	n := buf.Size()
	for i := 0; i < n; i++ {
		s := buf.At(i).Stamp
		if d.previous == d.minStamp || s-d.previous >= d.period {
			return CaptureRange[S]{Lower: s, Upper: s}, Primed
		}
	}
	return CaptureRange[S]{}, Retry
}

func (d *ThrottledDriver[S, V]) Capture(buf *Buffer[S, V]) (CaptureRange[S], []Dispatch[S, V]) {
	r, state := d.Locate(buf)
	if state != Primed {
		return r, nil
	}
	// Drop everything older than the chosen stamp first, then the
	// chosen element itself, mirroring the original's
	// remove_before(range.lower_stamp) followed by a single pop().
	buf.RemoveBefore(r.Lower)
	d.previous = r.Lower
	elem, _ := buf.Pop()
	return r, []Dispatch[S, V]{elem}
}

func (d *ThrottledDriver[S, V]) Abort(buf *Buffer[S, V], t S) { buf.RemoveBefore(t) }

func (d *ThrottledDriver[S, V]) Reset() { d.previous = d.minStamp }
