// Package ksync collects the blocking synchronization services built
// on top of kernel.WaitSet: an event flag, a plain and a recursive
// mutex, a byte channel, and a single-slot typed message.
// Named ksync rather than sync so it doesn't shadow the standard
// library package the port and kernel packages import directly.
package ksync

import (
	"github.com/ruixuezhao890/vortexrt/critsect"
	"github.com/ruixuezhao890/vortexrt/kernel"
)

// Event is the event flag: a single boolean signal any number of
// activities can wait on. Wait clears the flag only on the path where
// it finds the flag already set and returns immediately - a waiter
// woken out of Suspend does not re-clear it, mirroring
// OS::TEventFlag::wait's literal asymmetry rather than smoothing it
// into a uniform clear-on-read.
type Event struct {
	k     *kernel.Kernel
	value bool
	ws    kernel.WaitSet
}

// NewEvent constructs an event flag bound to k, initially clear.
func NewEvent(k *kernel.Kernel) *Event { return &Event{k: k} }

// Wait blocks the calling activity until the flag is signaled, or
// until timeout ticks elapse (0 blocks forever). Returns true if the
// wakeup was a timeout rather than a Signal.
func (e *Event) Wait(timeout uint16) bool {
	g := critsect.Enter()
	defer g.Leave()

	if e.value {
		e.value = false
		return false
	}
	return e.ws.Suspend(e.k, timeout)
}

// Signal sets the flag and wakes every waiter.
func (e *Event) Signal() {
	g := critsect.Enter()
	defer g.Leave()

	e.value = true
	e.ws.ResumeAll(e.k)
}

// SignalISR is Signal's ISR-callable twin (signal_isr): same effect,
// routed through an IsrGuard so the eventual reschedule runs via
// schedISR rather than the thread-context scheduler.
func (e *Event) SignalISR() {
	g := e.k.IsrEnter()
	defer g.Leave()

	e.value = true
	e.ws.ResumeAllISR(e.k)
}

// Clear unconditionally clears the flag without waking anyone.
func (e *Event) Clear() {
	g := critsect.Enter()
	defer g.Leave()
	e.value = false
}

// Signaled reports the flag's current value without consuming it.
func (e *Event) Signaled() bool {
	g := critsect.Enter()
	defer g.Leave()
	return e.value
}
