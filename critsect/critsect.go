// Package critsect implements the scoped critical-section guard: on
// entry it disables "interrupts" and remembers whether they were
// already disabled, on exit it restores exactly what it observed.
//
// There is no real interrupt controller on the host this kernel runs
// on, so the "interrupt-enable flag" is a single plain package variable,
// not a lock. That is deliberate: a real Guard is routinely held across
// a port.Port.Switch call, which parks the calling goroutine mid-guard
// while a different activity's goroutine resumes and itself needs to
// take a critical section. A sync.Mutex here would deadlock on exactly
// that sequence. Actual mutual exclusion between activities is the
// port's job - GoroutinePort serializes everything through its own cpu
// mutex, so at most one goroutine is ever actually running kernel code
// at a time, and every Switch/resume boundary is a happens-before edge.
// enabled is therefore bookkeeping for nesting, not a lock: the shape
// that matters is a scoped guard whose Leave is safe on every exit
// path, nestable because each guard restores only the bit it saved,
// matching the original TCritSect used throughout os_kernel.cpp and
// os_services.cpp.
package critsect

var enabled = true

// Guard is a disable-on-enter, restore-on-leave critical section.
// Zero value is not usable; obtain one with Enter.
type Guard struct {
	wasEnabled bool
	left       bool
}

// Enter disables interrupts and returns a Guard recording the previous
// state. Every kernel mutation of the ready map, an ACB field, or a
// waiter map must hold a Guard for its whole duration, unless already
// running inside an ISR (interrupts already masked at entry).
func Enter() *Guard {
	g := &Guard{wasEnabled: enabled}
	enabled = false
	return g
}

// Leave restores the interrupt-enable state observed at Enter. Safe to
// call exactly once; callers should defer it immediately after Enter.
func (g *Guard) Leave() {
	if g.left {
		return
	}
	g.left = true
	enabled = g.wasEnabled
}

// Enabled reports whether interrupts are currently enabled.
func Enabled() bool { return enabled }

// Disable unconditionally masks interrupts without recording previous
// state, used by an ISR wrapper on entry (interrupts are already masked
// by the hardware trap; this keeps the host-side flag consistent).
func Disable() { enabled = false }

// Enable unconditionally unmasks interrupts, used by an ISR wrapper on
// outermost exit.
func Enable() { enabled = true }
