package capture

import "errors"

// ErrInvalidChunkSize is returned by NewChunkDriver when size is 0.
var ErrInvalidChunkSize = errors.New("capture: chunk size must be > 0")

// ChunkDriver is the tiling driver: identical readiness/range computation to
// BatchDriver, but Capture removes all Size elements, so frames never
// overlap. Grounded on
// original_source/flow/include/driver/impl/chunk.hpp.
type ChunkDriver[S Numeric, V any] struct {
	size int
}

// NewChunkDriver returns a ChunkDriver requiring size elements per frame.
func NewChunkDriver[S Numeric, V any](size int) (*ChunkDriver[S, V], error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	return &ChunkDriver[S, V]{size: size}, nil
}

func (d *ChunkDriver[S, V]) Locate(buf *Buffer[S, V]) (CaptureRange[S], State) {
	if buf.Size() < d.size {
		return CaptureRange[S]{}, Retry
	}
	return CaptureRange[S]{Lower: buf.At(0).Stamp, Upper: buf.At(d.size - 1).Stamp}, Primed
}

func (d *ChunkDriver[S, V]) Capture(buf *Buffer[S, V]) (CaptureRange[S], []Dispatch[S, V]) {
	r, state := d.Locate(buf)
	if state != Primed {
		return r, nil
	}
	out := buf.Extract(ExtractionRange{First: 0, Last: d.size})
	return r, out
}

func (d *ChunkDriver[S, V]) Abort(buf *Buffer[S, V], t S) { buf.RemoveBefore(t) }

func (d *ChunkDriver[S, V]) Reset() {}
