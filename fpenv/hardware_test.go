package fpenv

import (
	"runtime"
	"testing"

	"github.com/reflop/reflop"
)

// Exercises the detected hardware backend on its own OS thread,
// restoring the captured environment before returning.
func TestDetectedBackendControlState(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	b := Detect()
	if b == nil {
		t.Fatal("Detect returned nil")
	}
	t.Logf("detected backend: %s", b.Kind())

	saved := b.Environment()
	defer func() {
		if err := b.SetEnvironment(saved); err != nil {
			t.Errorf("restore: %v", err)
		}
	}()
	if saved.Kind() != b.Kind() {
		t.Fatalf("snapshot kind %v != backend kind %v", saved.Kind(), b.Kind())
	}

	for _, m := range []RoundMode{RoundDown, RoundUp, RoundTowardZero, RoundNearest} {
		if err := b.SetRounding(m); err != nil {
			t.Fatalf("SetRounding(%v): %v", m, err)
		}
		if got := b.Rounding(); got != m {
			t.Errorf("Rounding() = %v, want %v", got, m)
		}
	}

	if err := b.SetRounding(RoundMode(4)); !reflop.IsInvalidArgError(err) {
		t.Errorf("SetRounding(4) = %v, want invalid argument error", err)
	}

	if err := b.InitForType(reflop.Double); err != nil {
		t.Errorf("InitForType(Double): %v", err)
	}
	if err := b.InitForType(reflop.Single); err != nil {
		t.Errorf("InitForType(Single): %v", err)
	}

	held := b.HoldExcept()
	if held.Kind() != b.Kind() {
		t.Errorf("held snapshot kind %v", held.Kind())
	}
	if err := b.SetEnvironment(held); err != nil {
		t.Errorf("restoring held snapshot: %v", err)
	}
}

func TestExtendedOnlyOnLegacyUnit(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	b := Detect()
	saved := b.Environment()
	defer b.SetEnvironment(saved)

	err := b.InitForType(reflop.Extended)
	switch b.Kind() {
	case LegacyExtendedUnit, SIMDUnit, SoftwareEmulated:
		if err != nil {
			t.Errorf("InitForType(Extended) on %s: %v", b.Kind(), err)
		}
	case VectorUnitARM:
		if !reflop.IsConfigurationError(err) {
			t.Errorf("InitForType(Extended) on %s = %v, want configuration error", b.Kind(), err)
		}
	}
}
