package fpenv

import (
	"github.com/reflop/reflop"
)

// Tininess detection for the software unit, kept in the snapshot so a
// restore round-trips the full state.
const (
	tininessBeforeRounding = 0
	tininessAfterRounding  = 1
)

// softUnit emulates a floating-point control unit entirely in process
// memory. Raising an exception sets an internal trap mask rather than a
// hardware bit; computations consult the mask, the unit never signals.
type softUnit struct {
	traps    Except
	rounding RoundMode
	tininess uint8
	flush    bool
}

func newSoftUnit() *softUnit {
	return &softUnit{
		rounding: RoundNearest,
		tininess: tininessAfterRounding,
	}
}

func (u *softUnit) Kind() Kind { return SoftwareEmulated }

func (u *softUnit) RaiseExcept(ex Except) {
	u.traps |= ex & ExceptAll
}

func (u *softUnit) ClearExcept(ex Except) {
	u.traps &^= ex & ExceptAll
}

// Traps returns the currently armed trap mask. Hardware variants have no
// equivalent accessor; the recorder's diagnostics read the mask through
// the environment snapshot instead.
func (u *softUnit) Traps() Except { return u.traps }

func (u *softUnit) Rounding() RoundMode { return u.rounding }

func (u *softUnit) SetRounding(m RoundMode) error {
	if m < 0 || m >= numRoundModes {
		return roundModeError("SetRounding", m)
	}
	u.rounding = m
	return nil
}

func (u *softUnit) Environment() Environment {
	a := uint64(u.traps) | uint64(u.rounding)<<8 | uint64(u.tininess)<<16
	if u.flush {
		a |= 1 << 17
	}
	return Environment{kind: SoftwareEmulated, a: a}
}

func (u *softUnit) SetEnvironment(env Environment) error {
	if env.kind != SoftwareEmulated {
		return envMismatch("SetEnvironment", SoftwareEmulated, env.kind)
	}
	u.traps = Except(env.a) & ExceptAll
	u.rounding = RoundMode(env.a>>8) & 3
	u.tininess = uint8(env.a>>16) & 1
	u.flush = env.a&(1<<17) != 0
	return nil
}

func (u *softUnit) HoldExcept() Environment {
	env := u.Environment()
	u.ClearExcept(ExceptAll)
	return env
}

func (u *softUnit) InitForType(t reflop.NumericType) error {
	switch t {
	case reflop.Single, reflop.Double, reflop.Extended:
		// The emulated unit always computes at the declared width, so
		// only the denormal policy needs pinning.
		u.flush = FlushDenormals
		return nil
	}
	return reflop.NewConfigurationError("InitForType",
		"software-emulated unit has no mapping for "+t.String())
}
