package admission

import (
	"github.com/Voskan/syncframe/internal/alertsengine"
	"github.com/Voskan/syncframe/internal/logging"
	"github.com/Voskan/syncframe/internal/metrics"
	"github.com/Voskan/syncframe/pkg/capture"
)

// ExprMonitor is a capture.QueueMonitor whose admission rule is a compiled
// alertsengine expression evaluated against a small metric vector derived
// from the candidate frame, rather than a hard-coded threshold. This lets an
// operator change admission policy (config/flag) without a rebuild, e.g.:
//
//	buffer_size >= 3 && range_width < 100
type ExprMonitor[S capture.Numeric] struct {
	name string
	pred alertsengine.Predicate
}

// NewExprMonitor compiles expr and returns an ExprMonitor for it. The
// metrics available to expr are:
//
//	buffer_size  -- current follower buffer depth
//	range_lower  -- lower stamp of the candidate frame's capture range
//	range_upper  -- upper stamp of the candidate frame's capture range
//	range_width  -- range_upper - range_lower
func NewExprMonitor[S capture.Numeric](name, expr string) (*ExprMonitor[S], error) {
	pred, err := alertsengine.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprMonitor[S]{name: name, pred: pred}, nil
}

func (m *ExprMonitor[S]) Check(bufferSize int, r capture.CaptureRange[S]) bool {
	lower := float64(r.Lower)
	upper := float64(r.Upper)
	return m.pred(map[string]float64{
		"buffer_size": float64(bufferSize),
		"range_lower": lower,
		"range_upper": upper,
		"range_width": upper - lower,
	})
}

func (m *ExprMonitor[S]) Update(bufferSize int, r capture.CaptureRange[S], outcome capture.State) {
	metrics.ObserveBufferDepth(m.name, bufferSize)
	if outcome == capture.SkipFrameQueuePrecondition {
		metrics.ObserveAdmissionRejection(m.name)
		logging.Named("admission").Sugar().Debugw("expr monitor rejected frame", "captor", m.name, "buffer_size", bufferSize)
	}
}
