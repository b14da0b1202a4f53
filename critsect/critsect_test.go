package critsect

import "testing"

func TestEnterDisablesAndLeaveRestores(t *testing.T) {
	Enable()
	g := Enter()
	if Enabled() {
		t.Fatalf("Enter should disable interrupts")
	}
	g.Leave()
	if !Enabled() {
		t.Fatalf("Leave should restore the previously-enabled state")
	}
}

func TestNestedGuardsRestoreInnerState(t *testing.T) {
	Enable()
	outer := Enter()
	inner := Enter()
	inner.Leave()
	if Enabled() {
		t.Fatalf("leaving the inner guard must not re-enable interrupts while the outer guard is still held")
	}
	outer.Leave()
	if !Enabled() {
		t.Fatalf("leaving the outer guard should restore interrupts")
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	Enable()
	g := Enter()
	g.Leave()
	g.Leave() // must not flip enabled a second time
	if !Enabled() {
		t.Fatalf("double Leave should not disturb the restored state")
	}
}

func TestDisableEnable(t *testing.T) {
	Enable()
	Disable()
	if Enabled() {
		t.Fatalf("Disable should mask interrupts unconditionally")
	}
	Enable()
	if !Enabled() {
		t.Fatalf("Enable should unmask interrupts unconditionally")
	}
}
