// Package port defines the target-port collaborator the kernel
// consumes but never implements itself: stack-frame layout, the
// context-switch trampoline, and tick hardware programming are all
// target-specific and live here, outside kernel/.
//
// This module ships one concrete Port: GoroutinePort (goroutine.go),
// which plays the stack-pointer game with parked goroutines instead of
// a real machine stack. It is not a stub - the scheduler tests and
// cmd/vortexrt-sim both run against it.
package port

// StackRef is the opaque "stack pointer" a Port hands back and forth.
// On a real target this would be the saved machine word; here it is a
// handle the Port resolves against its own table of parked activities.
type StackRef uint

// Scheme selects the context-switch discipline (CONTEXT_SWITCH_SCHEME).
type Scheme uint8

const (
	// SchemeDirect switches synchronously inside the scheduler via Switch.
	SchemeDirect Scheme = iota
	// SchemeDeferred defers the switch to a low-priority trap handler
	// via RaiseDeferredSwitch, serviced later through the hook
	// registered with SetSwitchHook.
	SchemeDeferred
)

// Port is the narrow interface the kernel requires from its target.
type Port interface {
	// Start installs the initial activity and never returns, exactly
	// like the original start(initial_stack) -> !.
	Start(initial StackRef)

	// Switch is used under CONTEXT_SWITCH_SCHEME=0 (direct). It stores
	// the caller's context under current's identity and resumes the
	// activity referred to by next. Control returns to the caller when
	// it is chosen to run again.
	Switch(current, next StackRef)

	// RaiseDeferredSwitch is used under CONTEXT_SWITCH_SCHEME=1. It asks
	// the port to invoke the kernel's registered switch hook as soon as
	// it is safe to do so (the "low-priority trap").
	RaiseDeferredSwitch()

	// SetSwitchHook registers the callback RaiseDeferredSwitch's trap
	// eventually invokes. hook receives the interrupted activity's
	// current StackRef and returns the StackRef to resume; the kernel
	// supplies it at construction time.
	SetSwitchHook(hook func(current StackRef) (next StackRef))

	// Poll briefly yields CPU ownership and reclaims it, the target-side
	// half of CONTEXT_SWITCH_SCHEME=1's busy-wait loop ("enable
	// interrupts, no-op barrier, disable interrupts"). The kernel's idle
	// activity also calls it every iteration so ticks can be delivered,
	// so it must release the CPU under either scheme.
	Poll()

	// Spawn registers an activity's entry function under ref and starts
	// its backing goroutine, parked until first scheduled to run.
	Spawn(ref StackRef, entry func())

	// DeliverTick hands fn (the kernel's tick handler) the simulated CPU
	// for the duration of one system-timer interrupt. Tick delivery
	// always goes through the same safepoint protocol as a deferred
	// switch, regardless of CONTEXT_SWITCH_SCHEME: the caller driving
	// DeliverTick is not itself a registered activity, so there is no
	// activity stack to synchronously switch away from the way Switch
	// requires.
	DeliverTick(fn func())
}
