package capture

import "testing"

// countingFollowerPolicy wraps BeforeFollower but records whether Capture
// was ever invoked, so tests can assert a short-circuited frame never
// reaches the extraction phase.
type countingFollowerPolicy struct {
	BeforeFollower[int64, int]
	extractCalls *int
}

func (p countingFollowerPolicy) Capture(buf *Buffer[int64, int], r CaptureRange[int64], er ExtractionRange) []Dispatch[int64, int] {
	*p.extractCalls++
	return p.BeforeFollower.Capture(buf, r, er)
}

// scenario 7: synchronizer abort by lower bound.
func TestSynchronizer_ErrorDriverLowerBoundExceeded(t *testing.T) {
	driverCaptor := NewCaptor[int64, int]("driver", NoLock, 0, nil)
	driverCaptor.Inject(Dispatch[int64, int]{Stamp: 10, Value: 10})
	driverHandle := NewDriverHandle[int64, int](driverCaptor, NextDriver[int64, int]{})

	followerCaptor := NewCaptor[int64, int]("follower", NoLock, 0, nil)
	var extractCalls int
	followerHandle := NewFollowerHandle[int64, int](followerCaptor, countingFollowerPolicy{
		BeforeFollower: BeforeFollower[int64, int]{Delay: 0},
		extractCalls:   &extractCalls,
	})

	s := NewSynchronizer[int64](driverHandle, followerHandle)
	frame := s.Capture(100, 0)

	if frame.State != ErrorDriverLowerBoundExceeded {
		t.Fatalf("expected ErrorDriverLowerBoundExceeded, got %v", frame.State)
	}
	if extractCalls != 0 {
		t.Fatalf("expected no follower extraction to run, extractCalls=%d", extractCalls)
	}
	if driverCaptor.Size() != 1 {
		t.Fatalf("expected driver buffer untouched, size=%d", driverCaptor.Size())
	}
}

// scenario 8: synchronizer blocking-lock timeout.
func TestSynchronizer_BlockingLockTimeout(t *testing.T) {
	driverCaptor := NewCaptor[int64, int]("driver", BlockingLock, 0, nil)
	for i := int64(0); i < 3; i++ {
		driverCaptor.Inject(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}
	driverPolicy, err := NewBatchDriver[int64, int](10)
	if err != nil {
		t.Fatal(err)
	}
	driverHandle := NewDriverHandle[int64, int](driverCaptor, driverPolicy)

	s := NewSynchronizer[int64](driverHandle)
	frame := s.Capture(0, 50_000_000) // 50ms in time.Duration units

	if frame.State != Timeout {
		t.Fatalf("expected Timeout, got %v", frame.State)
	}
	if len(frame.Driver) != 0 {
		t.Fatalf("expected empty driver sink, got %+v", frame.Driver)
	}
	if driverCaptor.Size() != 3 {
		t.Fatalf("expected buffer unchanged at size 3, got %d", driverCaptor.Size())
	}
}

func TestSynchronizer_Determinism(t *testing.T) {
	build := func() *Synchronizer[int64] {
		driverCaptor := NewCaptor[int64, int]("driver", NoLock, 0, nil)
		for i := int64(1); i <= 6; i++ {
			driverCaptor.Inject(Dispatch[int64, int]{Stamp: i, Value: int(i)})
		}
		driverHandle := NewDriverHandle[int64, int](driverCaptor, NextDriver[int64, int]{})
		return NewSynchronizer[int64](driverHandle)
	}

	a := build()
	b := build()
	for i := 0; i < 6; i++ {
		fa := a.Capture(0, 0)
		fb := b.Capture(0, 0)
		if fa.State != fb.State || fa.Range != fb.Range {
			t.Fatalf("deterministic policy diverged at step %d: %+v vs %+v", i, fa, fb)
		}
	}
}

func TestLatchedFollower_ResetIdempotence(t *testing.T) {
	buf := NewBuffer[int64, int](0)
	buf.Insert(Dispatch[int64, int]{Stamp: 0, Value: 232})
	f := &LatchedFollower[int64, int]{MinPeriod: 5}

	r := CaptureRange[int64]{Lower: 5, Upper: 5}
	if _, state := f.Locate(buf, r); state != Primed {
		t.Fatalf("expected Primed before reset, got %v", state)
	}

	f.Reset()
	if f.has {
		t.Fatal("expected latch cleared after Reset")
	}
	buf.Clear()
	if _, state := f.Locate(buf, r); state != Retry {
		t.Fatalf("expected Retry on empty buffer with no latch after reset, got %v", state)
	}
}

func TestThrottledDriver_ResetIdempotence(t *testing.T) {
	const minStamp = int64(-1 << 62)
	d := NewThrottledDriver[int64, int](4, minStamp)
	buf := NewBuffer[int64, int](0)
	for i := int64(1); i < 6; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}
	d.Capture(buf)

	d.Reset()
	if d.previous != minStamp {
		t.Fatalf("expected previous reset to minStamp, got %d", d.previous)
	}
}
