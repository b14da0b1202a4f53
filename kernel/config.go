package kernel

import (
	"fmt"

	"github.com/ruixuezhao890/vortexrt/bitmap"
	"github.com/ruixuezhao890/vortexrt/port"
)

// MaxProcessCount mirrors OS::MAX_PROCESS_COUNT: priority is a small
// integer in [0, ProcessCount] (at most [0, MaxProcessCount-1]), one
// slot of which is the mandatory idle activity. MaxProcessCount itself
// is the uninit sentinel, never a priority.
const MaxProcessCount = 32

// Config carries the recognized build-time options. Unlike the
// original's preprocessor macros, invalid values
// are rejected at New() time with an error rather than at compile time
// (mirrors KTStephano-GVM's NewVirtualMachine returning (*VM, error)
// instead of C's #error).
type Config struct {
	// ProcessCount is the number of user activities, 1..31
	// (PROCESS_COUNT).
	ProcessCount uint

	// Order is the numeric direction of priority precedence
	// (PRIORITY_ORDER).
	Order bitmap.Order

	// Scheme selects direct vs. deferred context switching
	// (CONTEXT_SWITCH_SCHEME).
	Scheme port.Scheme

	// TicksEnable turns on the monotonic tick counter
	// (SYSTEM_TICKS_ENABLE).
	TicksEnable bool

	// SuspendedStartEnable allows activities to be constructed already
	// suspended (SUSPENDED_PROCESS_ENABLE).
	SuspendedStartEnable bool

	// RestartEnable turns on ResetActivity (PROCESS_RESTART_ENABLE).
	RestartEnable bool

	// DebugEnable turns on name/stack-slack/waiting-for introspection
	// (DEBUG_ENABLE).
	DebugEnable bool

	// StackPattern mirrors STACK_PATTERN. Nothing in this module reads
	// it: a goroutine has no stack to fill or scan, so it is kept only
	// so the option set matches the original build options.
	StackPattern uint32
}

// IdlePriority returns the priority slot reserved for the idle
// activity: the lowest scheduling precedence under cfg.Order.
func (c Config) IdlePriority() uint {
	if c.Order == bitmap.Descending {
		return 0
	}
	return c.ProcessCount
}

// validate checks the invariants a real build would reject at compile
// time via vortexRT_defs.h's #error guards.
func (c Config) validate() error {
	if c.ProcessCount < 1 || c.ProcessCount > 31 {
		return fmt.Errorf("%w: PROCESS_COUNT must be in [1, 31], got %d", ErrConfigInvalid, c.ProcessCount)
	}
	if c.Order != bitmap.Ascending && c.Order != bitmap.Descending {
		return fmt.Errorf("%w: invalid PRIORITY_ORDER", ErrConfigInvalid)
	}
	if c.Scheme != port.SchemeDirect && c.Scheme != port.SchemeDeferred {
		return fmt.Errorf("%w: invalid CONTEXT_SWITCH_SCHEME", ErrConfigInvalid)
	}
	return nil
}
