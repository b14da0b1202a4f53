package ksync

import (
	"github.com/ruixuezhao890/vortexrt/bitmap"
	"github.com/ruixuezhao890/vortexrt/critsect"
	"github.com/ruixuezhao890/vortexrt/kernel"
)

// RecursiveMutex is the recursive variant of Mutex: the owner
// may lock it again without blocking, tracked with a depth counter,
// and must unlock the same number of times before it is released to a
// waiter. UnlockISR and ForceUnlockISR restore the original's
// unlock_isr/force_unlock_isr: an ISR that needs to release a
// recursive mutex on an error path can bypass ordinary ownership rules
// entirely via ForceUnlockISR.
type RecursiveMutex struct {
	k     *kernel.Kernel
	ws    kernel.WaitSet
	owner bitmap.Map
	depth uint
}

// NewRecursiveMutex constructs an unlocked recursive mutex bound to k.
func NewRecursiveMutex(k *kernel.Kernel) *RecursiveMutex { return &RecursiveMutex{k: k} }

// Lock blocks until the mutex is acquired, or timeout ticks elapse (0
// blocks forever). A call from the current owner succeeds immediately
// and increments the recursion depth. Returns true if it gave up due
// to timeout.
func (m *RecursiveMutex) Lock(timeout uint16) bool {
	g := critsect.Enter()
	defer g.Leave()

	cur := m.k.CurrentTag()
	if m.owner == 0 {
		m.owner = cur
		m.depth = 1
		return false
	}
	if m.owner == cur {
		m.depth++
		return false
	}
	return m.ws.Suspend(m.k, timeout)
}

// Unlock decrements the recursion depth. Only once it reaches zero
// does the mutex actually release, handing off to the
// highest-precedence waiter if one is enrolled. Returns ErrNotOwner if
// the calling activity does not hold the mutex.
func (m *RecursiveMutex) Unlock() error {
	g := critsect.Enter()
	defer g.Leave()
	return m.release(false, false)
}

// UnlockISR is Unlock's ISR-callable twin (unlock_isr): identical
// ownership and depth semantics, but runs under an IsrGuard rather than
// a plain critsect.Guard so the eventual reschedule, if any, goes
// through schedISR instead of the thread-context scheduler.
func (m *RecursiveMutex) UnlockISR() error {
	g := m.k.IsrEnter()
	defer g.Leave()
	return m.release(false, true)
}

// ForceUnlock (force_unlock) unconditionally releases the mutex
// regardless of recursion depth or current owner, handing it to the
// highest-precedence waiter if one is enrolled. Thread-context twin of
// ForceUnlockISR.
func (m *RecursiveMutex) ForceUnlock() {
	g := critsect.Enter()
	defer g.Leave()
	_ = m.release(true, false)
}

// ForceUnlockISR (force_unlock_isr) unconditionally releases the
// mutex regardless of recursion depth or current owner, handing it to
// the highest-precedence waiter if one is enrolled. Intended for an
// ISR's error-recovery path where the normal owner can no longer be
// trusted to unwind its own recursion.
func (m *RecursiveMutex) ForceUnlockISR() {
	g := m.k.IsrEnter()
	defer g.Leave()
	_ = m.release(true, true)
}

func (m *RecursiveMutex) release(force, isr bool) error {
	if !force {
		if m.owner != m.k.CurrentTag() {
			return ErrNotOwner
		}
		m.depth--
		if m.depth > 0 {
			return nil
		}
	}

	if next, ok := m.ws.HighestWaiter(m.k); ok {
		m.owner = bitmap.Tag(next)
		m.depth = 1
		if isr {
			m.ws.ResumeNextReadyISR(m.k)
		} else {
			m.ws.ResumeNextReady(m.k)
		}
	} else {
		m.owner = 0
		m.depth = 0
	}
	return nil
}

// Depth returns the current recursion depth (0 if unlocked).
func (m *RecursiveMutex) Depth() uint {
	g := critsect.Enter()
	defer g.Leave()
	return m.depth
}
