package capture

// QueueMonitor is a pluggable admission-control predicate attached to a
// follower captor. Before a follower's Locate runs, the monitor's Check
// decides whether the frame attempt should even be considered; a false
// result causes the captor to report SkipFrameQueuePrecondition without
// invoking the policy. After each Capture that gets past the driver, Update
// lets the monitor adapt to the outcome.
//
// AlwaysReady and MinDepthMonitor below are the in-package implementations;
// other backends (Redis-shared state across a fleet, expression rules) live
// in sibling packages; this interface itself stays dependency
// free, the same way internal/gateway/alerts/dsl.go keeps its predicate
// evaluator free of anything beyond the standard library.
type QueueMonitor[S Numeric] interface {
	// Check is invoked with the current buffer size and the candidate
	// CaptureRange before Locate runs. A false result short-circuits the
	// follower with SkipFrameQueuePrecondition.
	Check(bufferSize int, r CaptureRange[S]) bool
	// Update is invoked once per Capture whose driver primed within the
	// lower bound, with the frame's resolved outcome: Primed, or the state
	// a follower short-circuited the frame with. DryCapture never calls it.
	Update(bufferSize int, r CaptureRange[S], outcome State)
}

// AlwaysReady is a QueueMonitor that never rejects a frame. It is the
// default attached to followers that don't opt into admission control.
type AlwaysReady[S Numeric] struct{}

func (AlwaysReady[S]) Check(int, CaptureRange[S]) bool          { return true }
func (AlwaysReady[S]) Update(int, CaptureRange[S], State) {}

// MinDepthMonitor rejects a frame unless the follower's buffer holds at
// least MinSize elements, a simple deterministic admission-control example
// named directly in spec.md §4.2 ("e.g., drop a frame if the buffer has
// grown during the frame" style policies).
type MinDepthMonitor[S Numeric] struct {
	MinSize int
}

func (m MinDepthMonitor[S]) Check(bufferSize int, _ CaptureRange[S]) bool {
	return bufferSize >= m.MinSize
}

func (m MinDepthMonitor[S]) Update(int, CaptureRange[S], State) {}
