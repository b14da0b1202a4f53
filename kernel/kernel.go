// Package kernel implements the preemptive core: the activity
// control block, the kernel singleton, the bitmap scheduler, the tick
// handler, the ISR wrapper, and the shared wait-set primitive every
// blocking service (ksync package) is built on.
package kernel

import (
	"sync"

	"github.com/ruixuezhao890/vortexrt/bitmap"
	"github.com/ruixuezhao890/vortexrt/critsect"
	"github.com/ruixuezhao890/vortexrt/port"
)

// uninit is the CurrentPriority sentinel before Run is called,
// equivalent to the original's UNINIT == MAX_PROCESS_COUNT.
const uninit = MaxProcessCount

// Kernel is the kernel singleton. The design calls for an
// explicit value rather than package-level mutable statics; callers
// construct one with New and thread it through their activity entry
// functions (or close over it, as cmd/vortexrt-sim does).
type Kernel struct {
	cfg  Config
	port port.Port

	mu sync.Mutex // protects the table below during Register, before Run

	readyMap        bitmap.Map
	currentPriority uint
	isrNestCount    uint
	sysTickCount    uint64
	schedPriority   uint // selected-but-not-yet-installed priority, set by scheduler/schedISR before raising the trap

	table [MaxProcessCount + 1]*Activity

	booted bool
}

// New validates cfg and builds a Kernel bound to p. New registers the
// idle activity itself; Register every user activity before calling
// Run.
func New(cfg Config, p port.Port) (*Kernel, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	k := &Kernel{cfg: cfg, port: p, currentPriority: uninit}
	// The switch hook backs every ISR-triggered reschedule (schedISR)
	// regardless of Scheme, plus ordinary deferred activity switches
	// when Scheme is SchemeDeferred - see scheduler.go.
	p.SetSwitchHook(k.switchHook)
	k.registerIdle()
	return k, nil
}

// DeliverTick delivers one system-timer interrupt: the convenience
// wrapper a port's timer driver (or, in this module, cmd/vortexrt-sim)
// calls instead of invoking Tick directly, so it never forgets to route
// the call through the port's DeliverTick safepoint protocol.
func (k *Kernel) DeliverTick() { k.port.DeliverTick(k.Tick) }

// Config returns the kernel's build-time configuration.
func (k *Kernel) Config() Config { return k.cfg }

// registerIdle installs the mandatory idle activity: always
// runnable, lowest precedence, entry is an infinite loop that yields
// the simulated CPU every iteration so pending ticks can be delivered
// (see port.Port.Poll and DESIGN.md).
func (k *Kernel) registerIdle() {
	idle := &Activity{
		priority: k.cfg.IdlePriority(),
		stack:    port.StackRef(k.cfg.IdlePriority()),
	}
	if k.cfg.DebugEnable {
		idle.name = "idle"
	}
	idle.entry = func() {
		for {
			k.port.Poll()
		}
	}
	k.table[idle.priority] = idle
	k.readyMap = bitmap.Set(k.readyMap, idle.Tag())
	k.port.Spawn(idle.stack, idle.entry)
}

// Register constructs and enrolls a user activity. It must be
// called before Run. suspended only has effect when
// Config.SuspendedStartEnable is set; otherwise every activity starts
// ready, matching the original's pssRunning default.
func (k *Kernel) Register(priority uint, name string, suspended bool, entry ActivityFunc) (*Activity, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.booted {
		return nil, ErrAlreadyBooted
	}
	if priority > k.cfg.ProcessCount || priority == k.cfg.IdlePriority() {
		return nil, ErrPriorityRange
	}
	if k.table[priority] != nil {
		return nil, ErrPriorityInUse
	}

	a := &Activity{
		priority: priority,
		stack:    port.StackRef(priority),
		entry:    entry,
	}
	if k.cfg.DebugEnable {
		a.name = name
	}
	k.table[priority] = a

	if !suspended || !k.cfg.SuspendedStartEnable {
		k.readyMap = bitmap.Set(k.readyMap, a.Tag())
	}

	k.port.Spawn(a.stack, func() {
		entry()
	})
	return a, nil
}

// Run boots the kernel: it picks an initial priority and
// hands control to the target port, which never returns.
func (k *Kernel) Run() error {
	k.mu.Lock()
	if k.booted {
		k.mu.Unlock()
		return ErrAlreadyBooted
	}
	k.booted = true

	initial := bitmap.Highest(k.readyMap, k.cfg.Order)
	k.currentPriority = initial
	k.mu.Unlock()

	k.port.Start(k.table[initial].stack)
	return nil // unreachable: Start never returns
}

// Running reports os_running(): whether Run has installed a current
// activity yet.
func (k *Kernel) Running() bool { return k.currentPriority < uninit }

// CurrentPriority returns the priority of the presently executing
// activity. Only meaningful once Running() is true.
func (k *Kernel) CurrentPriority() uint { return k.currentPriority }

// activity looks up the ACB at p, panicking on an out-of-range or
// unregistered priority - a programming error, not a runtime one,
// exactly like an out-of-bounds ProcessTable access on the original.
func (k *Kernel) activity(p uint) *Activity {
	a := k.table[p]
	if a == nil {
		panic("vortexrt: priority has no registered activity")
	}
	return a
}

// ReadyMap returns a snapshot of the ready bitmap. Exposed for tests
// asserting on ready/suspended state; callers never mutate the
// returned value.
func (k *Kernel) ReadyMap() bitmap.Map { return k.readyMap }

// IsReady reports whether the activity at priority p currently has its
// ready bit set.
func (k *Kernel) IsReady(p uint) bool { return bitmap.Has(k.readyMap, k.activity(p).Tag()) }

// IsSuspended is the negation of IsReady, the common query spelling
// used by the round-robin-style callers the original exposed.
func (k *Kernel) IsSuspended(p uint) bool { return !k.IsReady(p) }

// SetReady sets bit p in the ready map (set_process_ready). It does
// not call the scheduler; callers reschedule deliberately. Must be
// called with a critsect.Guard held.
func (k *Kernel) SetReady(p uint) { k.readyMap = bitmap.Set(k.readyMap, k.activity(p).Tag()) }

// SetUnready clears bit p in the ready map (set_process_unready). Must
// be called with a critsect.Guard held.
func (k *Kernel) SetUnready(p uint) { k.readyMap = bitmap.Clear(k.readyMap, k.activity(p).Tag()) }

// CurrentTimeout returns a pointer to the currently-executing
// activity's timeout field, the Go stand-in for cur_proc_timeout().
func (k *Kernel) CurrentTimeout() *uint16 { return &k.table[k.currentPriority].timeout }

// CurrentTag returns the currently-executing activity's priority tag
// (cur_proc_prio_tag()), the ownership token mutexes compare against.
func (k *Kernel) CurrentTag() bitmap.Map { return k.activity(k.currentPriority).Tag() }

// SysTickCount returns the monotonic tick counter. Only meaningful
// when Config.TicksEnable is set.
func (k *Kernel) SysTickCount() uint64 { return k.sysTickCount }

// Sleep puts the current activity to sleep for timeout ticks. A
// timeout of 0 is taken literally and sleeps forever - the activity
// never self-wakes, only WakeUp/ForceWakeUp can resume it. Mirrors
// TBaseProcess::sleep.
func (k *Kernel) Sleep(timeout uint16) {
	g := critsect.Enter()
	defer g.Leave()

	cur := k.activity(k.currentPriority)
	cur.timeout = timeout
	k.SetUnready(k.currentPriority)
	k.scheduler()
}

// WakeUp conditionally wakes a sleeping activity: only acts if it has
// a timeout pending (TBaseProcess::wake_up).
func (k *Kernel) WakeUp(p uint) {
	g := critsect.Enter()
	defer g.Leave()

	a := k.activity(p)
	if a.timeout != 0 {
		a.timeout = 0
		k.SetReady(p)
		k.scheduler()
	}
}

// ForceWakeUp unconditionally wakes an activity regardless of its
// current wait state (TBaseProcess::force_wake_up). From the woken
// primitive's perspective this is indistinguishable from a timeout.
func (k *Kernel) ForceWakeUp(p uint) {
	g := critsect.Enter()
	defer g.Leave()

	a := k.activity(p)
	a.timeout = 0
	k.SetReady(p)
	k.scheduler()
}

// ResetActivity restores an activity to its just-constructed control
// state (the restart feature, PROCESS_RESTART_ENABLE): clears its
// ready bit, evicts it from whatever waiter bitmap it was enrolled in,
// and clears its timeout. The entry function and priority are
// untouched. Mirrors TBaseProcess::reset_controls.
func (k *Kernel) ResetActivity(p uint) error {
	if !k.cfg.RestartEnable {
		return ErrRestartDisabled
	}
	g := critsect.Enter()
	defer g.Leave()

	a := k.activity(p)
	k.SetUnready(p)
	if a.waiting != nil {
		*a.waiting = bitmap.Clear(*a.waiting, a.Tag())
		a.waiting = nil
	}
	a.timeout = 0
	if k.cfg.DebugEnable {
		a.waitingFor = nil
	}
	return nil
}

// Debug returns the debug-introspection surface for activity p.
// Requires Config.DebugEnable.
func (k *Kernel) Debug(p uint) (ActivityDebugInfo, error) {
	if !k.cfg.DebugEnable {
		return ActivityDebugInfo{}, ErrDebugDisabled
	}
	a := k.activity(p)
	return ActivityDebugInfo{
		Name:       a.name,
		StackWords: a.stackWords,
		StackSlack: a.stackWords,
		WaitingFor: a.waitingFor,
	}, nil
}

// setWaitingFor records the service an activity is blocked on, for
// debug introspection only.
func (k *Kernel) setWaitingFor(p uint, svc any) {
	if k.cfg.DebugEnable {
		k.activity(p).waitingFor = svc
	}
}
