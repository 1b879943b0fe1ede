// Package capture implements the buffer/captor/policy/synchronizer stack
// that turns several independent, time-stamped input streams into coherent
// frames sharing a driver-determined stamp range.
//
// The package depends only on golang.org/x/exp's generic constraints and
// go.uber.org/atomic's Bool: it is meant to be embedded by arbitrary hosts, and a
// logging or metrics choice baked into the engine would leak onto every
// caller. Ambient concerns (logging, metrics, config) and domain
// collaborators (network feeds, admission backends) live in sibling
// packages that import this one, never the reverse.
package capture

import "golang.org/x/exp/constraints"

// Numeric is the constraint satisfied by any stamp type usable with this
// package: an ordered kind supporting native +, -, < arithmetic. This is the
// Go realization of the generic "Stamp" trait (minimum, maximum, and an
// associated offset type with Stamp-Stamp->Offset and Stamp+-Offset->Stamp
// arithmetic) — folding the offset type into S itself, since every
// concrete stamp domain in practice (monotonic counters, Unix nanoseconds,
// sequence numbers) already supports subtraction within its own type.
type Numeric interface {
	constraints.Integer | constraints.Float
}
