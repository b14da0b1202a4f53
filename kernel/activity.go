package kernel

import (
	"github.com/ruixuezhao890/vortexrt/bitmap"
	"github.com/ruixuezhao890/vortexrt/port"
)

// ActivityFunc is an activity's entry point. Real targets never expect
// it to return; the simulated port panics if it does (mirrors the
// original's NORETURN exec()).
type ActivityFunc func()

// Activity is the Activity Control Block: the kernel's per-
// activity state. Priority is immutable after Register; the rest is
// mutated only under critsect or with interrupts already masked.
type Activity struct {
	priority uint
	stack    port.StackRef

	// timeout is the tick-decremented sleep/wait deadline. Zero means
	// "no active timeout".
	timeout uint16

	// waiting is a back-pointer to the waiter bitmap this activity is
	// currently enrolled in, or nil when not blocked on a WaitSet. Set
	// by every WaitSet.Suspend call regardless of Config.RestartEnable;
	// ResetActivity is what actually reads it, to evict a reset
	// activity from whatever it was blocked on.
	waiting *bitmap.Map

	// debug fields, populated only when Config.DebugEnable is set.
	name         string
	stackWords   int
	stackPattern uint32
	waitingFor   any

	entry ActivityFunc
}

// Priority returns the activity's immutable scheduling priority.
func (a *Activity) Priority() uint { return a.priority }

// Tag returns the activity's single-bit priority tag.
func (a *Activity) Tag() bitmap.Map { return bitmap.Tag(a.priority) }

// Name returns the activity's debug name, or "" if DEBUG_ENABLE is off.
func (a *Activity) Name() string { return a.name }

// ActivityDebugInfo is the debug-introspection surface: per-activity
// name, stack bookkeeping, and what it is currently blocked on.
type ActivityDebugInfo struct {
	Name       string
	StackWords int
	// StackSlack is the count of leading words still equal to the fill
	// pattern on a real target, which inspects actual memory. This
	// simulated port has no stack to scan: Debug reports StackSlack
	// equal to StackWords, and Register never sets StackWords, so both
	// are always 0. See DESIGN.md.
	StackSlack int
	WaitingFor any
}
