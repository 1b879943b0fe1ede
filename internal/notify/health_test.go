package notify

import (
	"testing"

	"github.com/Voskan/syncframe/pkg/capture"
)

type recordingSink struct {
	rules []string
}

func (s *recordingSink) Notify(rule, msg string) {
	s.rules = append(s.rules, rule)
}

func TestHealthWatcher_FiresAfterSustainedNonPrimed(t *testing.T) {
	sink := &recordingSink{}
	hw := NewHealthWatcher(3, sink)

	hw.Observe(capture.Timeout)
	hw.Observe(capture.Timeout)
	if len(sink.rules) != 0 {
		t.Fatalf("expected no notification before threshold, got %v", sink.rules)
	}
	hw.Observe(capture.Timeout)
	if len(sink.rules) != 1 {
		t.Fatalf("expected exactly one notification at threshold, got %v", sink.rules)
	}
}

func TestHealthWatcher_ResetsOnPrimed(t *testing.T) {
	sink := &recordingSink{}
	hw := NewHealthWatcher(2, sink)

	hw.Observe(capture.Abort)
	hw.Observe(capture.Primed)
	hw.Observe(capture.Abort)
	if len(sink.rules) != 0 {
		t.Fatalf("expected the Primed observation to reset the streak, got %v", sink.rules)
	}
}
