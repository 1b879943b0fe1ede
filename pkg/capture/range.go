package capture

// CaptureRange is a closed stamp interval [Lower, Upper]. A driver policy
// produces one per frame; follower policies consume it.
type CaptureRange[S Numeric] struct {
	Lower S
	Upper S
}

// Valid reports whether the range is non-empty, i.e. Upper >= Lower. The
// zero-value CaptureRange is NOT automatically "empty" in the sense of the
// original's "lower = max, upper = min" default, because Go generics cannot
// synthesize a numeric type's min/max without the caller supplying them;
// EmptyRange below constructs the canonical empty sentinel explicitly.
func (r CaptureRange[S]) Valid() bool {
	return r.Upper >= r.Lower
}

// EmptyRange returns the canonical "empty" CaptureRange for a stamp domain
// whose minimum and maximum sentinel values are min and max respectively:
// Lower = max, Upper = min, so Valid() is false.
func EmptyRange[S Numeric](min, max S) CaptureRange[S] {
	return CaptureRange[S]{Lower: max, Upper: min}
}

// ExtractionRange is a half-open integer index interval [First, Last) into a
// Buffer. It is empty when First >= Last.
type ExtractionRange struct {
	First int
	Last  int
}

// Empty reports whether the range selects no elements.
func (r ExtractionRange) Empty() bool {
	return r.First >= r.Last
}

// Len returns the number of elements the range selects (0 if empty).
func (r ExtractionRange) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Last - r.First
}
