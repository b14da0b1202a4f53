package kernel

import "github.com/ruixuezhao890/vortexrt/critsect"

// IsrGuard is the ISR wrapper: a scoped RAII-style guard an
// interrupt service routine opens on entry and leaves on exit. Nested
// ISRs (an ISR interrupting an ISR) only reschedule on the outermost
// Leave, mirroring the original's isr_nest_count bookkeeping around
// TIsrW.
type IsrGuard struct {
	k *Kernel
}

// IsrEnter opens an ISR wrapper: masks interrupts unconditionally (the
// hardware trap already did this on a real target; here it keeps
// critsect's flag consistent) and increments the nesting count.
func (k *Kernel) IsrEnter() *IsrGuard {
	critsect.Disable()
	k.isrNestCount++
	return &IsrGuard{k: k}
}

// Leave closes an ISR wrapper. On the outermost Leave it runs
// schedISR - with interrupts still masked, same contract as a
// critsect.Guard - and then unmasks interrupts.
func (g *IsrGuard) Leave() {
	k := g.k
	k.isrNestCount--
	if k.isrNestCount == 0 {
		k.schedISR()
		critsect.Enable()
	}
}

// InISR reports whether the kernel is currently executing inside an
// ISR wrapper, the guard callers use to reject calls (ErrISRContext)
// that are only legal from thread context.
func (k *Kernel) InISR() bool { return k.isrNestCount > 0 }
