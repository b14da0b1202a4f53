package kernel

import "github.com/ruixuezhao890/vortexrt/bitmap"

// WaitSet is the shared wait-set primitive every blocking service
// in the ksync package embeds: an event flag, a mutex, a byte channel,
// and a typed message are each, underneath, one or two WaitSets plus a
// small payload. Suspend/ResumeAll/ResumeNextReady/IsTimeouted mirror
// the original's wait_list handling in os_services.cpp.
//
// Every method must be called with a critsect.Guard (or an IsrGuard)
// already held by the caller, exactly like scheduler(): WaitSet never
// takes one itself.
type WaitSet struct {
	waiters bitmap.Map
}

// Empty reports whether any activity is currently enrolled.
func (w *WaitSet) Empty() bool { return w.waiters == 0 }

// Suspend blocks the currently-executing activity on this wait-set
// until it is woken by ResumeAll, ResumeNextReady, or its timeout
// expires. It returns true if the wakeup was a timeout rather than an
// explicit resume (is_timeouted). timeout == 0 blocks forever.
//
// Suspend calls into the scheduler, which may invoke port.Port.Switch
// and park the calling goroutine; the result below is only read after
// this activity has been resumed and is running again. Blocking from
// ISR context is a programming error (there is no activity stack to
// park here), so it panics rather than deadlocking silently.
func (w *WaitSet) Suspend(k *Kernel, timeout uint16) bool {
	if k.InISR() {
		panic(ErrISRContext)
	}

	p := k.currentPriority
	a := k.table[p]

	w.waiters = bitmap.Set(w.waiters, a.Tag())
	a.waiting = &w.waiters
	a.timeout = timeout
	k.SetUnready(p)
	k.setWaitingFor(p, w)

	k.scheduler()

	timedOut := bitmap.Has(w.waiters, a.Tag())
	if timedOut {
		w.waiters = bitmap.Clear(w.waiters, a.Tag())
	}
	a.waiting = nil
	k.setWaitingFor(p, nil)
	return timedOut
}

// ResumeAll wakes every enrolled waiter that is not already ready
// through an independent timeout or force-wake race (used by the event
// flag, a channel, and a message waking every peer able to re-check its
// condition). Mirrors resume_all: a waiter whose timeout already fired
// this tick keeps its bit in waiters afterward, so its own Suspend call
// still reports is_timeouted rather than "woken". Reports whether
// anything was actually resumed.
func (w *WaitSet) ResumeAll(k *Kernel) bool {
	if !w.resumeAll(k) {
		return false
	}
	k.scheduler()
	return true
}

// ResumeAllISR is ResumeAll's ISR-callable twin: identical bitmap
// bookkeeping, but it never calls the thread-context scheduler itself.
// It must be called from within an IsrGuard, whose Leave runs schedISR
// once nesting unwinds to zero.
func (w *WaitSet) ResumeAllISR(k *Kernel) bool {
	return w.resumeAll(k)
}

func (w *WaitSet) resumeAll(k *Kernel) bool {
	timed := k.readyMap & w.waiters
	wake := w.waiters &^ timed
	if wake == 0 {
		return false
	}
	for wake != 0 {
		p := bitmap.Highest(wake, k.cfg.Order)
		a := k.table[p]
		a.timeout = 0
		k.SetReady(p)
		wake = bitmap.Clear(wake, a.Tag())
	}
	w.waiters = timed
	return true
}

// ResumeNextReady wakes only the highest-precedence waiter not already
// ready through an independent timeout race (used by a mutex handing
// ownership to exactly one successor). Mirrors resume_next_ready's
// Ready := waiters & ~ready_map restriction. Reports whether a waiter
// was actually woken.
func (w *WaitSet) ResumeNextReady(k *Kernel) bool {
	if _, ok := w.resumeNextReady(k); !ok {
		return false
	}
	k.scheduler()
	return true
}

// ResumeNextReadyISR is ResumeNextReady's ISR-callable twin; see
// ResumeAllISR.
func (w *WaitSet) ResumeNextReadyISR(k *Kernel) bool {
	_, ok := w.resumeNextReady(k)
	return ok
}

func (w *WaitSet) resumeNextReady(k *Kernel) (uint, bool) {
	timed := k.readyMap & w.waiters
	ready := w.waiters &^ timed
	if ready == 0 {
		return 0, false
	}
	p := bitmap.Highest(ready, k.cfg.Order)
	a := k.table[p]
	a.timeout = 0
	k.SetReady(p)
	w.waiters = bitmap.Clear(w.waiters, a.Tag())
	return p, true
}

// HighestWaiter reports the highest-precedence waiter not already
// ready through an independent timeout race, without waking it - the
// peek a mutex needs to hand ownership to its successor atomically
// with ResumeNextReady waking the same activity. Uses the identical
// waiters &^ readyMap filter ResumeNextReady does, so the two never
// disagree about who the next owner is.
func (w *WaitSet) HighestWaiter(k *Kernel) (uint, bool) {
	timed := k.readyMap & w.waiters
	ready := w.waiters &^ timed
	if ready == 0 {
		return 0, false
	}
	return bitmap.Highest(ready, k.cfg.Order), true
}
