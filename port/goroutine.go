package port

import (
	"fmt"
	"runtime"
	"sync"
)

// GoroutinePort is the one concrete Port this module ships. A real
// target swaps machine stack pointers; a goroutine has no addressable
// stack pointer to swap, so GoroutinePort represents each activity's
// "stack" as a parked goroutine blocked on a private resume channel,
// and the context switch as handing a single mutex - cpu - to whichever
// goroutine is meant to be "on CPU" next. Exactly one goroutine holds
// cpu at any time, which is what gives this port its single-processor
// semantics despite every activity being a real, independently
// schedulable Go goroutine.
type GoroutinePort struct {
	scheme Scheme

	cpu sync.Mutex // held by whichever activity (or the trap dispatcher) is "running"

	mu    sync.Mutex // guards slots/hook below (registration only, not the hot path)
	slots map[StackRef]*activitySlot
	hook  func(StackRef) StackRef

	trap chan struct{}
}

type activitySlot struct {
	resume chan struct{}

	// parked is true exactly while this activity's goroutine is
	// blocked receiving on resume (at its initial Spawn wait, or inside
	// Switch). A busy-waiting activity under SchemeDeferred - spinning
	// in its own scheduler() Poll loop rather than blocked on resume -
	// is never parked, and must NOT be sent a wakeup: nothing is
	// receiving on its channel, and the send would block forever. Only
	// ever touched while cpu is held, so the mutex's own happens-before
	// edges make it safe without a separate lock.
	parked bool
}

// NewGoroutinePort builds a port for the given context-switch scheme
// and starts the trap-dispatcher goroutine that stands in for the
// target's low-priority switch trap. The dispatcher runs regardless of
// scheme: even under SchemeDirect, an ISR-triggered reschedule (the
// tick handler in particular) has no activity stack of its own to
// synchronously switch away from, so it always defers through the
// same trap, independent of how ordinary activity-initiated switches
// are configured.
func NewGoroutinePort(scheme Scheme) *GoroutinePort {
	p := &GoroutinePort{
		scheme: scheme,
		slots:  make(map[StackRef]*activitySlot),
		trap:   make(chan struct{}, 1),
	}
	go p.trapDispatcher()
	return p
}

// Spawn registers ref's entry function and launches its goroutine. The
// goroutine blocks immediately on its resume channel; it does not touch
// cpu until the port actually schedules it to run.
func (p *GoroutinePort) Spawn(ref StackRef, entry func()) {
	p.mu.Lock()
	s := &activitySlot{resume: make(chan struct{}), parked: true}
	p.slots[ref] = s
	p.mu.Unlock()

	go func() {
		<-s.resume
		p.cpu.Lock()
		s.parked = false
		entry()
		panic(fmt.Sprintf("port: activity %d entry function returned", ref))
	}()
}

func (p *GoroutinePort) slot(ref StackRef) *activitySlot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.slots[ref]
	if !ok {
		panic(fmt.Sprintf("port: unknown activity %d", ref))
	}
	return s
}

// Start hands the CPU to the initial activity and never returns, the
// simulated equivalent of start(initial_sp) -> !.
func (p *GoroutinePort) Start(initial StackRef) {
	p.slot(initial).resume <- struct{}{}
	select {}
}

// Switch is the scheme-0 direct context switch: signal next (only if it
// is parked; the idle loop spins in Poll and just waits for cpu),
// release cpu, then park until this activity is resumed again.
func (p *GoroutinePort) Switch(current, next StackRef) {
	ns := p.slot(next)
	if ns.parked {
		ns.resume <- struct{}{}
		ns.parked = false
	}

	cur := p.slot(current)
	cur.parked = true
	p.cpu.Unlock()
	<-cur.resume
	p.cpu.Lock()
	cur.parked = false
}

// SetSwitchHook registers the scheme-1 callback the trap dispatcher
// invokes once it takes the CPU away from the spinning activity.
func (p *GoroutinePort) SetSwitchHook(hook func(current StackRef) (next StackRef)) {
	p.mu.Lock()
	p.hook = hook
	p.mu.Unlock()
}

// RaiseDeferredSwitch pends the trap; the dispatcher goroutine services
// it as soon as the spinning activity releases cpu during one of its
// busy-wait poll windows.
func (p *GoroutinePort) RaiseDeferredSwitch() {
	select {
	case p.trap <- struct{}{}:
	default:
		// Already pending: one raised trap is enough, sched_priority
		// reflects the latest decision by the time it fires.
	}
}

// Poll is the spinning activity's half of the scheme-1 busy-wait loop:
// give up cpu briefly so a pending trap can be serviced, then reclaim
// it, mirroring "enable interrupts; no-op barrier; disable interrupts".
func (p *GoroutinePort) Poll() {
	p.cpu.Unlock()
	runtime.Gosched()
	p.cpu.Lock()
}

// DeliverTick acquires cpu, runs fn, and releases it. fn is expected
// to reschedule (if at all) only through RaiseDeferredSwitch, never
// Switch - see the Port.DeliverTick doc comment.
func (p *GoroutinePort) DeliverTick(fn func()) {
	p.cpu.Lock()
	fn()
	p.cpu.Unlock()
}

func (p *GoroutinePort) trapDispatcher() {
	for range p.trap {
		p.cpu.Lock()

		p.mu.Lock()
		hook := p.hook
		p.mu.Unlock()
		if hook == nil {
			p.cpu.Unlock()
			continue
		}

		// The hook's argument would be the interrupted activity's saved
		// stack pointer on a real target; in this port the kernel tracks
		// "current" itself, so the dispatcher passes a sentinel and
		// relies on the hook's closure over kernel state.
		next := hook(0)

		// next is only blocked on its resume channel if it never ran
		// yet, or last yielded via Switch. Under SchemeDeferred it is,
		// after its first run, always busy-waiting in its own
		// scheduler() Poll loop instead - nothing would ever receive a
		// send on its channel, so skip it and let that loop notice cpu
		// is free on its own.
		ns := p.slot(next)
		if ns.parked {
			ns.resume <- struct{}{}
			ns.parked = false
		}
		p.cpu.Unlock()
	}
}
