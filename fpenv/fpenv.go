// Package fpenv normalizes floating-point control state across hardware
// and software backends.
//
// Every backend exposes the same four-value rounding mode enum, the same
// six exception flags and the same snapshot/restore contract, regardless
// of its register bit layout. The rest of the system can treat "which
// unit computed this value" as irrelevant to correctness only because
// every backend is forced into this one control contract.
//
// Control state is per OS thread. A goroutine that mutates it must pin
// itself with runtime.LockOSThread for the duration, and callers needing
// independent precision domains must keep one Environment snapshot per
// thread. All operations are synchronous and run to completion.
package fpenv

import (
	"fmt"

	"github.com/reflop/reflop"
)

// Except is a set of floating-point exception flags. The bit layout is
// the portable one; backends translate to their own registers.
type Except uint8

const (
	// Invalid operation. If not trapped, produces NaN.
	ExceptInvalid Except = 0x01
	// Denormal operand.
	ExceptDenormal Except = 0x02
	// Division by zero. If not trapped, produces +/- infinity.
	ExceptDivByZero Except = 0x04
	// Overflow. If not trapped, rounds per the rounding mode.
	ExceptOverflow Except = 0x08
	// Underflow. If not trapped, produces zero or a denormal.
	ExceptUnderflow Except = 0x10
	// Inexact result.
	ExceptInexact Except = 0x20
	// All of the above.
	ExceptAll Except = 0x3F
)

// RoundMode selects the IEEE-754 rounding direction.
type RoundMode int

const (
	RoundNearest RoundMode = iota
	RoundDown
	RoundUp
	RoundTowardZero

	numRoundModes = iota
)

func (m RoundMode) String() string {
	switch m {
	case RoundNearest:
		return "nearest"
	case RoundDown:
		return "down"
	case RoundUp:
		return "up"
	case RoundTowardZero:
		return "toward-zero"
	}
	return fmt.Sprintf("RoundMode(%d)", int(m))
}

// Kind identifies a backend variant. The set is closed; the concrete
// implementation is selected once at process start and never branched on
// inside hot loops.
type Kind int

const (
	// SoftwareEmulated keeps all control state in process memory.
	SoftwareEmulated Kind = iota
	// LegacyExtendedUnit is the x87 unit with its 16-bit control word
	// and internal extended precision.
	LegacyExtendedUnit
	// SIMDUnit is the SSE unit driven through MXCSR, with the x87
	// control word moved alongside it.
	SIMDUnit
	// VectorUnitARM is the AArch64 vector unit driven through FPCR.
	VectorUnitARM
)

func (k Kind) String() string {
	switch k {
	case SoftwareEmulated:
		return "soft"
	case LegacyExtendedUnit:
		return "x87"
	case SIMDUnit:
		return "sse"
	case VectorUnitARM:
		return "neon"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a backend name from the command line to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "soft":
		return SoftwareEmulated, nil
	case "x87":
		return LegacyExtendedUnit, nil
	case "sse":
		return SIMDUnit, nil
	case "neon":
		return VectorUnitARM, nil
	}
	return 0, reflop.NewInvalidArgError("ParseKind", fmt.Sprintf("unknown backend %q", name))
}

// Environment is an opaque snapshot of one backend's entire control
// state. It is only meaningful to the backend variant that produced it.
type Environment struct {
	kind Kind
	a, b uint64
}

// Kind returns the backend variant that captured this snapshot.
func (e Environment) Kind() Kind { return e.kind }

func (e Environment) String() string {
	return fmt.Sprintf("%s[%#x %#x]", e.kind, e.a, e.b)
}

// Backend is the uniform control-state interface implemented by every
// variant. Where control state spans more than one physical register
// (the SIMD unit), SetEnvironment moves all registers in one call so no
// intermediate state is observable on the same thread.
type Backend interface {
	// Kind returns the variant implementing this backend.
	Kind() Kind

	// RaiseExcept arms trapping for the given exception flags so
	// subsequent violations are observable. The software-emulated
	// variant sets an internal trap mask instead of a hardware bit.
	RaiseExcept(ex Except)

	// ClearExcept disarms trapping for the given exception flags.
	ClearExcept(ex Except)

	// Rounding returns the current rounding mode.
	Rounding() RoundMode

	// SetRounding sets the rounding mode. An out-of-range mode returns
	// an invalid-argument error; it is never silently clamped.
	SetRounding(m RoundMode) error

	// Environment captures the entire control state.
	Environment() Environment

	// SetEnvironment restores a previously captured control state. A
	// snapshot captured by a different variant is rejected.
	SetEnvironment(env Environment) error

	// HoldExcept captures the environment and then disarms all
	// exception trapping, establishing a clean slate for tracing.
	HoldExcept() Environment

	// InitForType pins the unit's internal computation width to
	// exactly the bits required by the type and pins denormal handling
	// per the build-time policy. A backend/type combination with no
	// defined mapping is a fatal configuration error.
	InitForType(t reflop.NumericType) error
}

// New returns the backend for the given kind, or a configuration error
// when the kind has no mapping on this platform.
func New(kind Kind) (Backend, error) {
	if kind == SoftwareEmulated {
		return newSoftUnit(), nil
	}
	b, ok := platformBackend(kind)
	if !ok {
		return nil, reflop.NewConfigurationError("fpenv.New",
			fmt.Sprintf("backend %s is not available on this platform", kind))
	}
	return b, nil
}

// envMismatch builds the error for a snapshot fed to the wrong variant.
func envMismatch(op string, want, got Kind) error {
	return reflop.NewInvalidArgError(op,
		fmt.Sprintf("environment captured by %s backend cannot be restored on %s backend", got, want))
}

// roundModeError builds the error for an out-of-range rounding mode.
func roundModeError(op string, m RoundMode) error {
	return reflop.NewInvalidArgError(op, fmt.Sprintf("rounding mode %d out of range", int(m)))
}
