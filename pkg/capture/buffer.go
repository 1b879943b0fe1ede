package capture

import "sort"

// Buffer is a per-input ordered container: elements are stored in strictly
// ascending stamp order with no duplicate stamps, optionally bounded to a
// capacity. It is not safe for concurrent use; concurrency is layered on
// top by Captor.
type Buffer[S Numeric, V any] struct {
	items    []Dispatch[S, V]
	capacity int // 0 means unbounded
}

// NewBuffer returns an empty buffer. A capacity of 0 means unbounded.
func NewBuffer[S Numeric, V any](capacity int) *Buffer[S, V] {
	return &Buffer[S, V]{capacity: capacity}
}

// Size returns the number of elements currently stored.
func (b *Buffer[S, V]) Size() int { return len(b.items) }

// Empty reports whether the buffer holds no elements.
func (b *Buffer[S, V]) Empty() bool { return len(b.items) == 0 }

// Capacity returns the configured capacity (0 = unbounded).
func (b *Buffer[S, V]) Capacity() int { return b.capacity }

// SetCapacity changes the capacity bound, immediately trimming the oldest
// elements if the buffer now exceeds it. A value of 0 removes the bound.
func (b *Buffer[S, V]) SetCapacity(n int) {
	b.capacity = n
	b.enforceCapacity()
}

// OldestStamp returns the stamp of the oldest (first) element. The caller
// must ensure the buffer is non-empty.
func (b *Buffer[S, V]) OldestStamp() S { return b.items[0].Stamp }

// NewestStamp returns the stamp of the newest (last) element. The caller
// must ensure the buffer is non-empty.
func (b *Buffer[S, V]) NewestStamp() S { return b.items[len(b.items)-1].Stamp }

// At returns the element at index i in ascending stamp order.
func (b *Buffer[S, V]) At(i int) Dispatch[S, V] { return b.items[i] }

// Items returns the full backing slice in ascending stamp order. Callers
// must treat it as read-only; mutating it invalidates buffer invariants.
func (b *Buffer[S, V]) Items() []Dispatch[S, V] { return b.items }

// Insert places elem at its unique sorted position. If an element with the
// same stamp already exists, the insert is silently rejected (first writer
// wins) and Insert returns false. After a successful insert, the capacity
// bound (if any) is enforced by dropping the oldest elements.
func (b *Buffer[S, V]) Insert(elem Dispatch[S, V]) bool {
	n := len(b.items)
	if n == 0 || elem.Stamp > b.items[n-1].Stamp {
		b.items = append(b.items, elem)
		b.enforceCapacity()
		return true
	}

	idx := sort.Search(n, func(i int) bool { return b.items[i].Stamp >= elem.Stamp })
	if idx < n && b.items[idx].Stamp == elem.Stamp {
		return false
	}
	b.items = append(b.items, Dispatch[S, V]{})
	copy(b.items[idx+1:], b.items[idx:])
	b.items[idx] = elem
	b.enforceCapacity()
	return true
}

// enforceCapacity drops the oldest elements until size <= capacity.
func (b *Buffer[S, V]) enforceCapacity() {
	if b.capacity <= 0 {
		return
	}
	if over := len(b.items) - b.capacity; over > 0 {
		b.removeFront(over)
	}
}

// RemoveBefore removes all elements with stamp < t.
func (b *Buffer[S, V]) RemoveBefore(t S) {
	idx := sort.Search(len(b.items), func(i int) bool { return b.items[i].Stamp >= t })
	b.removeFront(idx)
}

// RemoveAtOrBefore removes all elements with stamp <= t.
func (b *Buffer[S, V]) RemoveAtOrBefore(t S) {
	idx := sort.Search(len(b.items), func(i int) bool { return b.items[i].Stamp > t })
	b.removeFront(idx)
}

// RemoveFirstN drops the n oldest elements (n is clamped to Size()).
func (b *Buffer[S, V]) RemoveFirstN(n int) {
	if n > len(b.items) {
		n = len(b.items)
	}
	b.removeFront(n)
}

func (b *Buffer[S, V]) removeFront(n int) {
	if n <= 0 {
		return
	}
	copy(b.items, b.items[n:])
	clear(b.items[len(b.items)-n:])
	b.items = b.items[:len(b.items)-n]
}

// Clear empties the buffer.
func (b *Buffer[S, V]) Clear() {
	b.items = nil
}

// IndexAtOrAfter returns the index of the first element with stamp >= s, or
// Size() if none exists.
func (b *Buffer[S, V]) IndexAtOrAfter(s S) int {
	return sort.Search(len(b.items), func(i int) bool { return b.items[i].Stamp >= s })
}

// IndexAfter returns the index of the first element with stamp > s, or
// Size() if none exists.
func (b *Buffer[S, V]) IndexAfter(s S) int {
	return sort.Search(len(b.items), func(i int) bool { return b.items[i].Stamp > s })
}

// Slice returns a copy of the elements selected by r. r is clamped to valid
// bounds; an empty or out-of-range r yields nil.
func (b *Buffer[S, V]) Slice(r ExtractionRange) []Dispatch[S, V] {
	first, last := r.First, r.Last
	if first < 0 {
		first = 0
	}
	if last > len(b.items) {
		last = len(b.items)
	}
	if first >= last {
		return nil
	}
	out := make([]Dispatch[S, V], last-first)
	copy(out, b.items[first:last])
	return out
}

// Extract behaves like Slice but additionally removes every returned
// element from the buffer (a move, not a copy, per spec's ownership
// discipline): the returned elements are no longer present afterwards.
func (b *Buffer[S, V]) Extract(r ExtractionRange) []Dispatch[S, V] {
	out := b.Slice(r)
	if len(out) == 0 {
		return out
	}
	// r.First..r.Last is always a prefix-aligned window in every policy
	// that calls Extract (drivers/followers only ever extract the
	// leading run of what they've decided to keep), so removing the
	// front through r.Last is equivalent to removing exactly the
	// extracted elements while preserving ascending order of the rest.
	b.removeFront(r.Last)
	return out
}

// Pop removes and returns the oldest element, if any.
func (b *Buffer[S, V]) Pop() (Dispatch[S, V], bool) {
	if len(b.items) == 0 {
		var zero Dispatch[S, V]
		return zero, false
	}
	d := b.items[0]
	b.removeFront(1)
	return d, true
}
