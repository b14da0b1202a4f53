package ksync

import (
	"github.com/ruixuezhao890/vortexrt/bitmap"
	"github.com/ruixuezhao890/vortexrt/critsect"
	"github.com/ruixuezhao890/vortexrt/kernel"
)

// Mutex is the non-recursive mutex: exactly one owner at a time,
// identified by its priority tag rather than a stored pointer, so
// ownership can be compared with a single word. Unlock hands the
// mutex directly to its highest-precedence waiter rather than simply
// waking everyone and letting them race, matching the handoff the
// original's TMutex performs under its own critical section.
type Mutex struct {
	k     *kernel.Kernel
	ws    kernel.WaitSet
	owner bitmap.Map // zero value means unlocked
}

// NewMutex constructs an unlocked mutex bound to k.
func NewMutex(k *kernel.Kernel) *Mutex { return &Mutex{k: k} }

// Lock blocks until the mutex is acquired, or timeout ticks elapse (0
// blocks forever). Returns true if it gave up due to timeout.
// Re-entering from the activity that already holds it deadlocks, same
// as the original's plain (non-recursive) mutex - use RecursiveMutex
// when that is required.
func (m *Mutex) Lock(timeout uint16) bool {
	g := critsect.Enter()
	defer g.Leave()

	if m.owner == 0 {
		m.owner = m.k.CurrentTag()
		return false
	}
	return m.ws.Suspend(m.k, timeout)
}

// Unlock releases the mutex, handing it directly to the
// highest-precedence waiter if one is enrolled. Returns ErrNotOwner if
// the calling activity does not hold the mutex.
func (m *Mutex) Unlock() error {
	g := critsect.Enter()
	defer g.Leave()

	if m.owner != m.k.CurrentTag() {
		return ErrNotOwner
	}
	if next, ok := m.ws.HighestWaiter(m.k); ok {
		m.owner = bitmap.Tag(next)
		m.ws.ResumeNextReady(m.k)
	} else {
		m.owner = 0
	}
	return nil
}

// Locked reports whether the mutex is currently held.
func (m *Mutex) Locked() bool {
	g := critsect.Enter()
	defer g.Leave()
	return m.owner != 0
}
