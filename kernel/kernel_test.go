package kernel

import (
	"testing"
	"time"

	"github.com/ruixuezhao890/vortexrt/bitmap"
	"github.com/ruixuezhao890/vortexrt/port"
)

func newTestKernel(t *testing.T, cfg Config) *Kernel {
	t.Helper()
	p := port.NewGoroutinePort(cfg.Scheme)
	k, err := New(cfg, p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return k
}

func recvOrTimeout(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

// TestSleepWakesOnTimeout sleeps a single activity for a fixed number
// of ticks and checks it resumes exactly once the timeout elapses,
// idling in between.
func TestSleepWakesOnTimeout(t *testing.T) {
	cfg := Config{ProcessCount: 1, Order: bitmap.Ascending, Scheme: port.SchemeDirect, TicksEnable: true}
	k := newTestKernel(t, cfg)

	trace := make(chan string, 4)
	if _, err := k.Register(0, "worker", false, func() {
		trace <- "before"
		k.Sleep(3)
		trace <- "after"
		for {
			k.Sleep(1000)
		}
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	go k.Run()

	recvOrTimeout(t, trace, "before")
	for i := 0; i < 3; i++ {
		k.DeliverTick()
	}
	recvOrTimeout(t, trace, "after")
}

// TestPriorityPreemption has activity A (priority 0, highest under
// ascending order) sleep, letting B (priority 1) run; B then sleeps
// too, and once A's timeout elapses A is switched back in ahead of
// idle.
func TestPriorityPreemption(t *testing.T) {
	cfg := Config{ProcessCount: 2, Order: bitmap.Ascending, Scheme: port.SchemeDirect, TicksEnable: true}
	k := newTestKernel(t, cfg)

	trace := make(chan string, 8)
	if _, err := k.Register(0, "A", false, func() {
		trace <- "A-start"
		k.Sleep(2)
		trace <- "A-resumed"
		for {
			k.Sleep(1000)
		}
	}); err != nil {
		t.Fatalf("Register A: %v", err)
	}
	if _, err := k.Register(1, "B", false, func() {
		trace <- "B-start"
		for {
			k.Sleep(1000)
		}
	}); err != nil {
		t.Fatalf("Register B: %v", err)
	}

	go k.Run()

	recvOrTimeout(t, trace, "A-start")
	recvOrTimeout(t, trace, "B-start")
	k.DeliverTick()
	k.DeliverTick()
	recvOrTimeout(t, trace, "A-resumed")
}

// TestResetActivityRequiresRestartEnable checks the config gate on the
// restart feature.
func TestResetActivityRequiresRestartEnable(t *testing.T) {
	cfg := Config{ProcessCount: 1, Order: bitmap.Ascending, Scheme: port.SchemeDirect}
	k := newTestKernel(t, cfg)
	if _, err := k.Register(0, "worker", false, func() { select {} }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := k.ResetActivity(0); err != ErrRestartDisabled {
		t.Fatalf("ResetActivity = %v, want ErrRestartDisabled", err)
	}
}

// TestRegisterRejectsIdlePriority checks the idle-slot reservation.
func TestRegisterRejectsIdlePriority(t *testing.T) {
	cfg := Config{ProcessCount: 2, Order: bitmap.Ascending, Scheme: port.SchemeDirect}
	k := newTestKernel(t, cfg)
	if _, err := k.Register(cfg.IdlePriority(), "bad", false, func() {}); err != ErrPriorityRange {
		t.Fatalf("Register at idle priority = %v, want ErrPriorityRange", err)
	}
}

// TestRegisterRejectsDuplicatePriority checks the priority-uniqueness invariant.
func TestRegisterRejectsDuplicatePriority(t *testing.T) {
	cfg := Config{ProcessCount: 2, Order: bitmap.Ascending, Scheme: port.SchemeDirect}
	k := newTestKernel(t, cfg)
	if _, err := k.Register(0, "first", false, func() { select {} }); err != nil {
		t.Fatalf("Register first: %v", err)
	}
	if _, err := k.Register(0, "second", false, func() {}); err != ErrPriorityInUse {
		t.Fatalf("Register duplicate = %v, want ErrPriorityInUse", err)
	}
}
