package kernel

import "errors"

// Sentinel errors, declared package-scope and compared directly,
// matching errProgramFinished and friends from the bytecode VM this
// package's build/boot error handling was grounded on.
var (
	// ErrConfigInvalid is returned by New when a Config value violates
	// a build-time invariant that a real target would reject with a
	// preprocessor #error.
	ErrConfigInvalid = errors.New("vortexrt: invalid configuration")

	// ErrPriorityInUse is returned by Register when two activities
	// claim the same priority.
	ErrPriorityInUse = errors.New("vortexrt: priority already registered")

	// ErrPriorityRange is returned by Register when a priority falls
	// outside [0, ProcessCount] or names the reserved idle slot.
	ErrPriorityRange = errors.New("vortexrt: priority out of range")

	// ErrISRContext is the panic value WaitSet.Suspend raises when a
	// blocking call is made while isr_nest_count > 0.
	ErrISRContext = errors.New("vortexrt: illegal call from ISR context")

	// ErrNotBooted reports that the kernel is not running yet
	// (os_running() is false). No function in this module returns it.
	ErrNotBooted = errors.New("vortexrt: kernel not running")

	// ErrAlreadyBooted is returned by Run if called more than once.
	ErrAlreadyBooted = errors.New("vortexrt: kernel already running")

	// ErrRestartDisabled is returned by ResetActivity when
	// Config.RestartEnable is false.
	ErrRestartDisabled = errors.New("vortexrt: PROCESS_RESTART_ENABLE is off")

	// ErrDebugDisabled is returned by Debug when Config.DebugEnable is
	// false.
	ErrDebugDisabled = errors.New("vortexrt: DEBUG_ENABLE is off")
)
