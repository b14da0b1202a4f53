// Package bitmap implements the priority bitmap operations (process map)
// shared by the scheduler's ready map and every primitive's waiter map.
//
// A Map is a 32-bit word; bit p represents the activity at priority p.
// Order controls which bit counts as "highest" scheduling precedence.
package bitmap

import "math/bits"

// Map is the process bitmap. Width is always 32 bits in this
// implementation: Go has no narrower unsigned-word win over uint32 the
// way an 8-bit MCU register file does, so the 8/16/32-bit map widths
// vortexRT_defs.h picks by PROCESS_COUNT collapse to one Go type.
type Map uint32

// Order is the numeric direction of scheduling precedence, fixed at
// kernel construction time (PRIORITY_ORDER in the original build config).
type Order uint8

const (
	// Ascending: lower priority number = higher precedence (pr0 is the
	// highest-precedence slot in the original numbering; here that
	// slot is whichever index the caller assigns it, see kernel.Config).
	Ascending Order = iota
	// Descending: higher priority number = higher precedence.
	Descending
)

// Tag returns the single-bit value representing priority p.
func Tag(p uint) Map {
	return Map(1) << p
}

// Set returns map|tag.
func Set(m, tag Map) Map {
	return m | tag
}

// Clear returns map&^tag.
func Clear(m, tag Map) Map {
	return m &^ tag
}

// Has reports whether tag's bits are all set in m.
func Has(m, tag Map) bool {
	return m&tag == tag
}

// Highest returns the priority index with the highest scheduling
// precedence currently set in m, under the given order. m must not be
// zero; callers rely on the idle activity's bit always being set.
func Highest(m Map, order Order) uint {
	if order == Descending {
		// Highest bit index wins: 31 - leading zero count.
		return uint(31 - bits.LeadingZeros32(uint32(m)))
	}
	// Ascending: lowest bit index wins.
	return uint(bits.TrailingZeros32(uint32(m)))
}

// HighestTag is Highest expressed as a single-bit tag rather than an index,
// the form the wait-set operations (resume_next_ready) consume directly.
func HighestTag(m Map, order Order) Map {
	return Tag(Highest(m, order))
}
