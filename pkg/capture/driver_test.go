package capture

import "testing"

func TestNextDriver_Basic(t *testing.T) {
	buf := NewBuffer[int64, int](0)
	buf.Insert(Dispatch[int64, int]{Stamp: 1, Value: 1})
	buf.Insert(Dispatch[int64, int]{Stamp: 2, Value: 2})

	var d NextDriver[int64, int]
	r, elems := d.Capture(buf)

	if r.Lower != 1 || r.Upper != 1 {
		t.Fatalf("expected range {1,1}, got %+v", r)
	}
	if len(elems) != 1 || elems[0].Stamp != 1 {
		t.Fatalf("expected sink {1,1}, got %+v", elems)
	}
	if buf.Size() != 1 || buf.OldestStamp() != 2 {
		t.Fatalf("expected buffer left with {2,2}, got size=%d", buf.Size())
	}
}

func TestBatchDriver_UnderflowThenPrime(t *testing.T) {
	d, err := NewBatchDriver[int64, int](10)
	if err != nil {
		t.Fatal(err)
	}
	buf := NewBuffer[int64, int](0)
	for i := int64(0); i < 5; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}

	if _, state := d.Locate(buf); state != Retry {
		t.Fatalf("expected Retry with 5/10 elements, got %v", state)
	}

	for i := int64(5); i < 10; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}

	r, elems := d.Capture(buf)
	if r.Lower != 0 || r.Upper != 9 {
		t.Fatalf("expected range {0,9}, got %+v", r)
	}
	if len(elems) != 10 {
		t.Fatalf("expected 10 sink elements, got %d", len(elems))
	}
	if buf.Size() != 9 {
		t.Fatalf("expected only the oldest element popped, buffer size=%d", buf.Size())
	}
	if buf.OldestStamp() != 1 {
		t.Fatalf("expected oldest surviving stamp 1, got %d", buf.OldestStamp())
	}
}

func TestChunkDriver_RemovesAllElements(t *testing.T) {
	d, err := NewChunkDriver[int64, int](4)
	if err != nil {
		t.Fatal(err)
	}
	buf := NewBuffer[int64, int](0)
	for i := int64(0); i < 4; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}
	_, elems := d.Capture(buf)
	if len(elems) != 4 {
		t.Fatalf("expected 4 elements extracted, got %d", len(elems))
	}
	if buf.Size() != 0 {
		t.Fatalf("expected buffer emptied by Chunk, got size=%d", buf.Size())
	}
}

func TestThrottledDriver_Skipping(t *testing.T) {
	const minStamp = int64(-1 << 62)
	d := NewThrottledDriver[int64, int](4, minStamp)
	buf := NewBuffer[int64, int](0)
	for i := int64(1); i < 10; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}

	r1, elems1 := d.Capture(buf)
	if r1.Lower != 1 {
		t.Fatalf("expected first frame at stamp 1, got %+v", r1)
	}
	if len(elems1) != 1 || elems1[0].Stamp != 1 {
		t.Fatalf("expected single element {1}, got %+v", elems1)
	}

	r2, elems2 := d.Capture(buf)
	if r2.Lower != 5 {
		t.Fatalf("expected second frame at stamp 5 (skipping 2,3,4), got %+v", r2)
	}
	if len(elems2) != 1 || elems2[0].Stamp != 5 {
		t.Fatalf("expected single element {5}, got %+v", elems2)
	}

	// After the {5,5} frame the buffer holds {6,7,8,9} with previous=5:
	// stamp 9 is the first to satisfy stamp-previous>=4, so the policy
	// (per its own stated rule and original_source) primes again before
	// any of 10..12 is even injected.
	r3, elems3 := d.Capture(buf)
	if r3.Lower != 9 {
		t.Fatalf("expected third frame at stamp 9, got %+v", r3)
	}
	if len(elems3) != 1 || elems3[0].Stamp != 9 {
		t.Fatalf("expected single element {9}, got %+v", elems3)
	}

	for i := int64(10); i <= 12; i++ {
		buf.Insert(Dispatch[int64, int]{Stamp: i, Value: int(i)})
	}
	if _, state := d.Locate(buf); state != Retry {
		t.Fatalf("expected Retry, no stamp in 10..12 is >= previous(9)+period(4)=13 yet, got %v", state)
	}
}
