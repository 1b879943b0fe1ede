package notify

import (
	"fmt"

	"github.com/Voskan/syncframe/pkg/capture"
)

// HealthWatcher counts consecutive non-Primed frame outcomes and fires its
// sinks once the count reaches Threshold, resetting on the next Primed
// frame. This turns an occasional Timeout/Abort (expected under normal
// backpressure) into a signal only once it becomes sustained.
type HealthWatcher struct {
	Threshold int
	Sinks     []Sink

	streak int
	last   capture.State
}

// NewHealthWatcher returns a watcher that notifies after threshold
// consecutive non-Primed outcomes.
func NewHealthWatcher(threshold int, sinks ...Sink) *HealthWatcher {
	if threshold < 1 {
		threshold = 1
	}
	return &HealthWatcher{Threshold: threshold, Sinks: sinks}
}

// Observe feeds one frame outcome into the watcher.
func (h *HealthWatcher) Observe(state capture.State) {
	if state == capture.Primed {
		h.streak = 0
		return
	}
	h.streak++
	h.last = state
	if h.streak == h.Threshold {
		msg := fmt.Sprintf("%d consecutive non-primed frames, last state=%s", h.streak, state)
		for _, s := range h.Sinks {
			s.Notify("capture.sustained-non-primed", msg)
		}
	}
}
