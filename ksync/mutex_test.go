package ksync

import (
	"testing"

	"github.com/ruixuezhao890/vortexrt/bitmap"
	"github.com/ruixuezhao890/vortexrt/kernel"
	"github.com/ruixuezhao890/vortexrt/port"
)

// TestMutexHandoffToHighestWaiter has a low-precedence activity
// acquire the mutex first; a higher-precedence activity wakes, blocks
// on it, and receives it directly on Unlock rather than racing idle or
// the original owner for it.
func TestMutexHandoffToHighestWaiter(t *testing.T) {
	cfg := kernel.Config{ProcessCount: 2, Order: bitmap.Ascending, Scheme: port.SchemeDirect, TicksEnable: true}
	k, _ := newTestKernel(t, cfg)
	m := NewMutex(k)

	trace := make(chan string, 8)

	if _, err := k.Register(0, "high", false, func() {
		trace <- "high-start"
		k.Sleep(1)
		trace <- "high-waiting"
		if m.Lock(0) {
			t.Errorf("high: Lock timed out unexpectedly")
		}
		trace <- "high-locked"
		if err := m.Unlock(); err != nil {
			t.Errorf("high: Unlock: %v", err)
		}
		for {
			k.Sleep(1000)
		}
	}); err != nil {
		t.Fatalf("Register high: %v", err)
	}

	if _, err := k.Register(1, "low", false, func() {
		trace <- "low-start"
		if m.Lock(0) {
			t.Errorf("low: Lock timed out unexpectedly")
		}
		trace <- "low-locked"
		k.Sleep(3)
		if err := m.Unlock(); err != nil {
			t.Errorf("low: Unlock: %v", err)
		}
		trace <- "low-unlocked"
		for {
			k.Sleep(1000)
		}
	}); err != nil {
		t.Fatalf("Register low: %v", err)
	}

	go k.Run()

	recvOrTimeout(t, trace, "high-start")
	recvOrTimeout(t, trace, "low-start")
	recvOrTimeout(t, trace, "low-locked")

	k.DeliverTick()
	recvOrTimeout(t, trace, "high-waiting")

	k.DeliverTick()
	k.DeliverTick()
	// Unlock wakes high and reschedules at once, so high runs before
	// low's Unlock returns.
	recvOrTimeout(t, trace, "high-locked")
	recvOrTimeout(t, trace, "low-unlocked")
}

// TestMutexUnlockByNonOwner checks the ownership guard.
func TestMutexUnlockByNonOwner(t *testing.T) {
	cfg := kernel.Config{ProcessCount: 1, Order: bitmap.Ascending, Scheme: port.SchemeDirect}
	k, _ := newTestKernel(t, cfg)
	m := NewMutex(k)

	done := make(chan struct{})
	if _, err := k.Register(0, "worker", false, func() {
		if err := m.Unlock(); err != ErrNotOwner {
			t.Errorf("Unlock on unlocked mutex = %v, want ErrNotOwner", err)
		}
		close(done)
		for {
			k.Sleep(1000)
		}
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	go k.Run()
	<-done
}
