package kernel

// Tick is the system tick handler: driven by the target's timer
// interrupt. It is itself an ISR, so it opens its own IsrGuard; callers
// (a port's timer driver) simply call Tick from wherever they deliver
// the simulated timer interrupt.
//
// It advances the monotonic counter (when Config.TicksEnable is set)
// and decrements every non-idle activity's pending timeout, moving any
// that reaches zero onto the ready map. It never removes an expired
// activity from whatever wait-set bitmap it is enrolled in - WaitSet
// uses that bit's survival to distinguish a timeout wakeup from an
// explicit resume (is_timeouted).
func (k *Kernel) Tick() {
	g := k.IsrEnter()
	defer g.Leave()

	if k.cfg.TicksEnable {
		k.sysTickCount++
	}

	idle := k.cfg.IdlePriority()
	for p := uint(0); p <= k.cfg.ProcessCount; p++ {
		if p == idle {
			continue
		}
		a := k.table[p]
		if a == nil || a.timeout == 0 {
			continue
		}
		a.timeout--
		if a.timeout == 0 {
			k.SetReady(p)
		}
	}
}
