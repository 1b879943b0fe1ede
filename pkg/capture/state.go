package capture

// State is the outcome of a locate/capture attempt on a captor or
// synchronizer. These are the stable, exported identifiers referenced
// throughout the capture, driver, and follower policies.
type State int

const (
	// Retry means the captor is not yet ready to produce or accept a
	// frame; the caller may call again later (normal control flow).
	Retry State = iota
	// Primed means the captor (or the whole synchronizer) agreed on the
	// frame; extraction may proceed.
	Primed
	// Abort means the captor actively rejected the frame (e.g. data it
	// needed has already aged out); this is terminal for the current
	// attempt but not fatal.
	Abort
	// Timeout means a blocking wait elapsed its deadline before the
	// policy resolved to a non-Retry state.
	Timeout
	// ErrorDriverLowerBoundExceeded means the driver produced a range
	// whose upper stamp is below the caller-supplied lower bound.
	ErrorDriverLowerBoundExceeded
	// SkipFrameQueuePrecondition means a follower's attached QueueMonitor
	// rejected the frame before the follower's policy ran.
	SkipFrameQueuePrecondition
)

func (s State) String() string {
	switch s {
	case Retry:
		return "RETRY"
	case Primed:
		return "PRIMED"
	case Abort:
		return "ABORT"
	case Timeout:
		return "TIMEOUT"
	case ErrorDriverLowerBoundExceeded:
		return "ERROR_DRIVER_LOWER_BOUND_EXCEEDED"
	case SkipFrameQueuePrecondition:
		return "SKIP_FRAME_QUEUE_PRECONDITION"
	default:
		return "UNKNOWN_STATE"
	}
}
