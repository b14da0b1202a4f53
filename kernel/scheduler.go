package kernel

import (
	"github.com/ruixuezhao890/vortexrt/bitmap"
	"github.com/ruixuezhao890/vortexrt/port"
)

// scheduler is the bitmap scheduler as called from thread context
// - Sleep, a mutex Lock/Unlock, a wait-set Suspend and so on, always
// from within the calling activity's own goroutine. Callers must
// already hold a critsect.Guard; scheduler never takes one itself,
// matching the original sched()'s contract of always running with
// interrupts masked.
//
// Under SchemeDirect it hands off with the port's synchronous Switch,
// which only makes sense because the caller IS the activity being
// switched away from - its own goroutine parks inside Switch and
// resumes there once rescheduled.
//
// Under SchemeDeferred it pends the trap and then busy-waits via
// repeated port.Poll calls until it is installed as current again -
// the host-side stand-in for "enable interrupts, wait for the
// low-priority trap to fire, disable interrupts" that a real deferred-
// switch target spins through. A bare RaiseDeferredSwitch without this
// loop would let the calling goroutine's code keep running on cpu
// after it has already been marked not-ready, which breaks the single-
// current-activity invariant the rest of the kernel depends on.
func (k *Kernel) scheduler() {
	next := bitmap.Highest(k.readyMap, k.cfg.Order)
	if next == k.currentPriority {
		return
	}

	switch k.cfg.Scheme {
	case port.SchemeDirect:
		cur := k.currentPriority
		k.currentPriority = next
		k.port.Switch(k.table[cur].stack, k.table[next].stack)

	case port.SchemeDeferred:
		mine := k.currentPriority
		k.schedPriority = next
		k.port.RaiseDeferredSwitch()
		for {
			k.port.Poll()
			if k.currentPriority == mine && k.schedPriority == mine {
				return
			}
		}
	}
}

// schedISR is the scheduler as called from outside any activity's own
// goroutine: the tick handler and, in general, any ISR. There is no
// activity stack here to synchronously switch away from and no
// calling activity to busy-wait on behalf of, so it always defers
// through the same trap regardless of CONTEXT_SWITCH_SCHEME and
// returns immediately, leaving the trap dispatcher to perform the
// actual handoff once the simulated CPU is free (see
// port.Port.DeliverTick).
func (k *Kernel) schedISR() {
	next := bitmap.Highest(k.readyMap, k.cfg.Order)
	if next == k.currentPriority {
		return
	}
	k.schedPriority = next
	k.port.RaiseDeferredSwitch()
}

// switchHook is the callback the trap dispatcher invokes once it has
// taken cpu away from whatever was running. It installs schedPriority
// as the new current activity and returns its stack reference. Runs
// with cpu held, the simulated equivalent of running with interrupts
// masked, so it touches currentPriority without a critsect.Guard of
// its own.
func (k *Kernel) switchHook(port.StackRef) port.StackRef {
	next := k.schedPriority
	k.currentPriority = next
	return k.table[next].stack
}
