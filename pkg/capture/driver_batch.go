package capture

import "errors"

// ErrInvalidBatchSize is returned by NewBatchDriver when size is 0.
var ErrInvalidBatchSize = errors.New("capture: batch size must be > 0")

// BatchDriver is the sliding-window driver: once the buffer holds at least
// Size elements it emits the oldest Size of them, but on Capture removes only the
// single oldest element, so the next frame overlaps all but one element
// with this one. This is a deliberately preserved behavior (spec.md §9
// Open Question #1; see original_source/flow/include/driver/impl/batch.hpp).
type BatchDriver[S Numeric, V any] struct {
	size int
}

// NewBatchDriver returns a BatchDriver requiring size elements per frame.
func NewBatchDriver[S Numeric, V any](size int) (*BatchDriver[S, V], error) {
	if size <= 0 {
		return nil, ErrInvalidBatchSize
	}
	return &BatchDriver[S, V]{size: size}, nil
}

func (d *BatchDriver[S, V]) Locate(buf *Buffer[S, V]) (CaptureRange[S], State) {
	if buf.Size() < d.size {
		return CaptureRange[S]{}, Retry
	}
	return CaptureRange[S]{Lower: buf.At(0).Stamp, Upper: buf.At(d.size - 1).Stamp}, Primed
}

func (d *BatchDriver[S, V]) Capture(buf *Buffer[S, V]) (CaptureRange[S], []Dispatch[S, V]) {
	r, state := d.Locate(buf)
	if state != Primed {
		return r, nil
	}
	out := buf.Slice(ExtractionRange{First: 0, Last: d.size})
	buf.RemoveFirstN(1)
	return r, out
}

func (d *BatchDriver[S, V]) Abort(buf *Buffer[S, V], t S) { buf.RemoveBefore(t) }

func (d *BatchDriver[S, V]) Reset() {}
