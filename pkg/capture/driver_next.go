package capture

// NextDriver emits the single oldest buffered element as its own
// one-element range. Grounded on
// original_source/flow/include/driver/impl/next.hpp.
type NextDriver[S Numeric, V any] struct{}

func (NextDriver[S, V]) Locate(buf *Buffer[S, V]) (CaptureRange[S], State) {
	if buf.Empty() {
		return CaptureRange[S]{}, Retry
	}
	s := buf.OldestStamp()
	return CaptureRange[S]{Lower: s, Upper: s}, Primed
}

func (d NextDriver[S, V]) Capture(buf *Buffer[S, V]) (CaptureRange[S], []Dispatch[S, V]) {
	r, state := d.Locate(buf)
	if state != Primed {
		return r, nil
	}
	elem, _ := buf.Pop()
	return r, []Dispatch[S, V]{elem}
}

func (NextDriver[S, V]) Abort(buf *Buffer[S, V], t S) { buf.RemoveBefore(t) }

func (NextDriver[S, V]) Reset() {}
