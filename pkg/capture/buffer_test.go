package capture

import "testing"

func TestBuffer_OrderPreservationAndDedup(t *testing.T) {
	buf := NewBuffer[int64, string](0)

	buf.Insert(Dispatch[int64, string]{Stamp: 5, Value: "five"})
	buf.Insert(Dispatch[int64, string]{Stamp: 1, Value: "one"})
	buf.Insert(Dispatch[int64, string]{Stamp: 3, Value: "three"})

	if ok := buf.Insert(Dispatch[int64, string]{Stamp: 3, Value: "duplicate"}); ok {
		t.Fatal("expected duplicate-stamp insert to be rejected")
	}

	if buf.Size() != 3 {
		t.Fatalf("expected size 3, got %d", buf.Size())
	}

	var prev int64 = -1 << 62
	for i := 0; i < buf.Size(); i++ {
		s := buf.At(i).Stamp
		if s <= prev {
			t.Fatalf("order violated at index %d: %d <= %d", i, s, prev)
		}
		prev = s
	}

	if got := buf.At(1).Value; got != "three" {
		t.Fatalf("expected first writer to win at stamp 3, got value %q", got)
	}
}

func TestBuffer_CapacityBound(t *testing.T) {
	buf := NewBuffer[int64, int](3)
	for i := int64(0); i < 10; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
		if buf.Size() > 3 {
			t.Fatalf("capacity exceeded after inserting stamp %d: size=%d", i, buf.Size())
		}
	}
	if buf.OldestStamp() != 7 {
		t.Fatalf("expected oldest surviving stamp 7, got %d", buf.OldestStamp())
	}
}

func TestBuffer_RemoveBeforeAndAtOrBefore(t *testing.T) {
	buf := NewBuffer[int64, int](0)
	for i := int64(0); i < 5; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}
	buf.RemoveBefore(3)
	if buf.Size() != 2 || buf.OldestStamp() != 3 {
		t.Fatalf("RemoveBefore(3) left unexpected state: size=%d oldest=%d", buf.Size(), buf.OldestStamp())
	}
	buf.RemoveAtOrBefore(3)
	if buf.Size() != 1 || buf.OldestStamp() != 4 {
		t.Fatalf("RemoveAtOrBefore(3) left unexpected state: size=%d", buf.Size())
	}
}

func TestBuffer_ExtractMovesElements(t *testing.T) {
	buf := NewBuffer[int64, int](0)
	for i := int64(0); i < 5; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}
	out := buf.Extract(ExtractionRange{First: 0, Last: 3})
	if len(out) != 3 {
		t.Fatalf("expected 3 extracted elements, got %d", len(out))
	}
	if buf.Size() != 2 {
		t.Fatalf("expected 2 remaining elements, got %d", buf.Size())
	}
	if buf.OldestStamp() != 3 {
		t.Fatalf("expected oldest remaining stamp 3, got %d", buf.OldestStamp())
	}
}
