package ksync

import (
	"testing"
	"time"

	"github.com/ruixuezhao890/vortexrt/kernel"
	"github.com/ruixuezhao890/vortexrt/port"
)

func newTestKernel(t *testing.T, cfg kernel.Config) (*kernel.Kernel, port.Port) {
	t.Helper()
	p := port.NewGoroutinePort(cfg.Scheme)
	k, err := kernel.New(cfg, p)
	if err != nil {
		t.Fatalf("kernel.New: %v", err)
	}
	return k, p
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
