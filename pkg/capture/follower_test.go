package capture

import "testing"

// scenario 4: Follower Before(d=1) with data before/after the boundary.
func TestBeforeFollower_BoundaryBeforeAndAfter(t *testing.T) {
	buf := NewBuffer[int64, int](0)
	buf.Insert(Dispatch[int64, int]{Stamp: -2, Value: -2})
	buf.Insert(Dispatch[int64, int]{Stamp: 0, Value: 0})

	f := BeforeFollower[int64, int]{Delay: 1}
	r := CaptureRange[int64]{Lower: 0, Upper: 0}

	er, state := f.Locate(buf, r)
	if state != Primed {
		t.Fatalf("expected Primed, got %v", state)
	}
	elems := f.Capture(buf, r, er)
	if len(elems) != 1 || elems[0].Stamp != -2 {
		t.Fatalf("expected sink {-2}, got %+v", elems)
	}
	if buf.Size() != 1 || buf.At(0).Stamp != 0 {
		t.Fatalf("expected buffer to retain {0}, got size=%d", buf.Size())
	}
}

// scenario 5: Follower ClosestBefore(period=5, delay=3).
func TestClosestBeforeFollower_ScansForNearestMatch(t *testing.T) {
	buf := NewBuffer[int64, int](0)
	for i := int64(1); i <= 10; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}

	f := ClosestBeforeFollower[int64, int]{Period: 5, Delay: 3}
	r := CaptureRange[int64]{Lower: 10, Upper: 10}

	er, state := f.Locate(buf, r)
	if state != Primed {
		t.Fatalf("expected Primed, got %v", state)
	}
	elems := f.Capture(buf, r, er)
	if len(elems) != 1 || elems[0].Stamp != 2 {
		t.Fatalf("expected extracted element {2}, got %+v", elems)
	}
	if buf.OldestStamp() != 2 {
		t.Fatalf("expected match to remain in buffer at {2}, got oldest=%d", buf.OldestStamp())
	}
}

// scenario 6: Follower Latched(min_period=5).
func TestLatchedFollower_HoldsOlderElementAcrossFrames(t *testing.T) {
	buf := NewBuffer[int64, int](0)
	buf.Insert(Dispatch[int64, int]{Stamp: 0, Value: 232})

	f := &LatchedFollower[int64, int]{MinPeriod: 5}

	r1 := CaptureRange[int64]{Lower: 5, Upper: 5}
	er1, state := f.Locate(buf, r1)
	if state != Primed {
		t.Fatalf("expected Primed on first frame, got %v", state)
	}
	elems1 := f.Capture(buf, r1, er1)
	if len(elems1) != 1 || elems1[0].Stamp != 0 || elems1[0].Value != 232 {
		t.Fatalf("expected sink {0,232}, got %+v", elems1)
	}
	if buf.Size() != 1 {
		t.Fatalf("expected buffer size 1 with latch set, got %d", buf.Size())
	}

	buf.Insert(Dispatch[int64, int]{Stamp: 5, Value: 233})

	r2 := CaptureRange[int64]{Lower: 6, Upper: 6}
	er2, state := f.Locate(buf, r2)
	if state != Primed {
		t.Fatalf("expected Primed on second frame, got %v", state)
	}
	elems2 := f.Capture(buf, r2, er2)
	if len(elems2) != 1 || elems2[0].Stamp != 0 || elems2[0].Value != 232 {
		t.Fatalf("expected the stale latch {0,232} to be re-emitted, got %+v", elems2)
	}
}

func TestAnyBeforeFollower_ExclusiveVsInclusiveBoundary(t *testing.T) {
	build := func() *Buffer[int64, int] {
		buf := NewBuffer[int64, int](0)
		for i := int64(1); i <= 5; i++ {
			buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
		}
		return buf
	}
	r := CaptureRange[int64]{Lower: 5, Upper: 5}

	exclusive := AnyBeforeFollower[int64, int]{Delay: 2}
	buf := build()
	er, state := exclusive.Locate(buf, r)
	if state != Primed {
		t.Fatalf("AnyBefore is always Primed, got %v", state)
	}
	elems := exclusive.Capture(buf, r, er)
	if len(elems) != 2 || elems[0].Stamp != 1 || elems[1].Stamp != 2 {
		t.Fatalf("expected strictly-before elements {1,2}, got %+v", elems)
	}

	inclusive := NewAnyAtOrBeforeFollower[int64, int](2)
	buf = build()
	er, state = inclusive.Locate(buf, r)
	if state != Primed {
		t.Fatalf("AnyAtOrBefore is always Primed, got %v", state)
	}
	elems = inclusive.Capture(buf, r, er)
	if len(elems) != 3 || elems[2].Stamp != 3 {
		t.Fatalf("expected at-or-before elements {1,2,3}, got %+v", elems)
	}
}

func TestCountBeforeFollower_EmitsExactlyCountAndRemovesAtOrBefore(t *testing.T) {
	f, err := NewCountBeforeFollower[int64, int](2, 0)
	if err != nil {
		t.Fatal(err)
	}
	buf := NewBuffer[int64, int](0)
	for i := int64(1); i <= 5; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}
	r := CaptureRange[int64]{Lower: 5, Upper: 5}

	er, state := f.Locate(buf, r)
	if state != Primed {
		t.Fatalf("expected Primed, got %v", state)
	}
	elems := f.Capture(buf, r, er)
	if len(elems) != 2 || elems[0].Stamp != 3 || elems[1].Stamp != 4 {
		t.Fatalf("expected sink {3,4}, got %+v", elems)
	}
	if buf.Size() != 1 || buf.OldestStamp() != 5 {
		t.Fatalf("expected buffer trimmed to {5}, got size=%d oldest=%d", buf.Size(), buf.OldestStamp())
	}

	if _, err := NewCountBeforeFollower[int64, int](0, 0); err != ErrInvalidCountBeforeSize {
		t.Fatalf("expected ErrInvalidCountBeforeSize, got %v", err)
	}
}

func TestMatchedStampFollower_ExtractsContiguousRun(t *testing.T) {
	buf := NewBuffer[int64, int](0)
	for i := int64(1); i <= 10; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}
	var f MatchedStampFollower[int64, int]
	r := CaptureRange[int64]{Lower: 3, Upper: 6}

	er, state := f.Locate(buf, r)
	if state != Primed {
		t.Fatalf("expected Primed, got %v", state)
	}
	if buf.OldestStamp() != 3 {
		t.Fatalf("expected Locate to have trimmed below range.Lower, oldest=%d", buf.OldestStamp())
	}
	elems := f.Capture(buf, r, er)
	if len(elems) != 4 || elems[0].Stamp != 3 || elems[3].Stamp != 6 {
		t.Fatalf("expected contiguous run {3,4,5,6}, got %+v", elems)
	}
	if buf.OldestStamp() != 7 {
		t.Fatalf("expected buffer left at {7}, got oldest=%d", buf.OldestStamp())
	}
}

func TestRangedFollower_CopiesWindowWithoutRemovingIt(t *testing.T) {
	buf := NewBuffer[int64, int](0)
	for i := int64(1); i <= 10; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}
	f := RangedFollower[int64, int]{Delay: 1}
	r := CaptureRange[int64]{Lower: 5, Upper: 8}

	er, state := f.Locate(buf, r)
	if state != Primed {
		t.Fatalf("expected Primed, got %v", state)
	}
	elems := f.Capture(buf, r, er)
	if len(elems) != 6 || elems[0].Stamp != 3 || elems[5].Stamp != 8 {
		t.Fatalf("expected window {3..8}, got %+v", elems)
	}
	if buf.Size() != 8 || buf.OldestStamp() != 3 {
		t.Fatalf("expected only strictly-older elements trimmed, size=%d oldest=%d", buf.Size(), buf.OldestStamp())
	}
}
