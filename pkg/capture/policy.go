package capture

// DriverPolicy produces a frame's CaptureRange from a captor's buffer.
// Locate must not mutate the buffer; Capture applies the decision (removal
// semantics vary per policy, see each driver_*.go file). Abort and Reset
// mirror the captor-level operations of the same name.
type DriverPolicy[S Numeric, V any] interface {
	// Locate inspects buf (read-only) and returns the candidate range
	// plus state. Only Primed carries a meaningful range.
	Locate(buf *Buffer[S, V]) (CaptureRange[S], State)
	// Capture re-derives the range exactly as Locate would, then applies
	// the policy's buffer mutation and returns the extracted elements.
	// It is only called when the preceding Locate returned Primed.
	Capture(buf *Buffer[S, V]) (CaptureRange[S], []Dispatch[S, V])
	// Abort removes elements made stale by the given abort stamp.
	Abort(buf *Buffer[S, V], t S)
	// Reset restores any cross-frame policy state to its initial value.
	Reset()
}

// FollowerPolicy decides, given a driver-produced CaptureRange, whether and
// which of a follower's buffered elements participate in the frame. Locate
// must not mutate the buffer except where explicitly documented
// (MatchedStamp's remove-before-lower-bound step, confirmed against
// original_source/flow/include/follower/impl/matched_stamp.hpp, and
// Latched's trim to its new latch position).
type FollowerPolicy[S Numeric, V any] interface {
	Locate(buf *Buffer[S, V], r CaptureRange[S]) (ExtractionRange, State)
	// Capture applies the Locate decision: it removes/copies elements
	// from buf as the policy dictates and returns the values to emit.
	Capture(buf *Buffer[S, V], r CaptureRange[S], er ExtractionRange) []Dispatch[S, V]
	Abort(buf *Buffer[S, V], t S)
	Reset()
}
