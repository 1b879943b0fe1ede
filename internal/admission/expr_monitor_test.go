package admission

import (
	"testing"

	"github.com/Voskan/syncframe/pkg/capture"
)

func TestExprMonitor_ChecksCompiledExpression(t *testing.T) {
	m, err := NewExprMonitor[int64]("test", "buffer_size >= 3 && range_width < 100")
	if err != nil {
		t.Fatalf("NewExprMonitor: %v", err)
	}

	r := capture.CaptureRange[int64]{Lower: 0, Upper: 50}
	if !m.Check(3, r) {
		t.Fatalf("expected admission at buffer_size=3, range_width=50")
	}
	if m.Check(2, r) {
		t.Fatalf("expected rejection at buffer_size=2")
	}

	wide := capture.CaptureRange[int64]{Lower: 0, Upper: 200}
	if m.Check(10, wide) {
		t.Fatalf("expected rejection when range_width exceeds 100")
	}
}

func TestExprMonitor_InvalidExpressionErrors(t *testing.T) {
	if _, err := NewExprMonitor[int64]("test", "buffer_size >"); err == nil {
		t.Fatalf("expected a syntax error for a dangling comparison")
	}
}

func TestExprMonitor_UpdateDoesNotPanic(t *testing.T) {
	m, err := NewExprMonitor[int64]("test", "buffer_size >= 1")
	if err != nil {
		t.Fatalf("NewExprMonitor: %v", err)
	}
	// Update must not panic regardless of outcome; admission bookkeeping is
	// purely observational here.
	m.Update(5, capture.CaptureRange[int64]{Lower: 0, Upper: 10}, capture.SkipFrameQueuePrecondition)
	m.Update(5, capture.CaptureRange[int64]{Lower: 0, Upper: 10}, capture.Primed)
}
