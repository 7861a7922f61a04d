package fpenv

import (
	"github.com/reflop/reflop"
)

// x87 control word layout: exception mask bits 0-5 (set = masked),
// precision control bits 8-9, rounding control bits 10-11.
const (
	x87PrecisionMask   = 0x0300
	x87PrecisionSingle = 0x0000
	x87PrecisionDouble = 0x0200
	x87PrecisionExt    = 0x0300
	x87RoundMask       = 0x0C00
	x87RoundShift      = 10
)

// x87Unit drives the legacy extended-precision unit through its 16-bit
// control word. Left alone it computes at 80-bit internal precision no
// matter what width the program declared; InitForType pins it down.
type x87Unit struct{}

func (x87Unit) Kind() Kind { return LegacyExtendedUnit }

func (x87Unit) RaiseExcept(ex Except) {
	cw := x87ControlWord()
	cw &^= uint16(ex & ExceptAll) // clearing a mask bit arms the trap
	x87SetControlWord(cw)
}

func (x87Unit) ClearExcept(ex Except) {
	cw := x87ControlWord()
	cw |= uint16(ex & ExceptAll)
	x87SetControlWord(cw)
}

func (x87Unit) Rounding() RoundMode {
	return RoundMode(x87ControlWord()>>x87RoundShift) & 3
}

func (x87Unit) SetRounding(m RoundMode) error {
	if m < 0 || m >= numRoundModes {
		return roundModeError("SetRounding", m)
	}
	cw := x87ControlWord()
	cw &^= x87RoundMask
	cw |= uint16(m) << x87RoundShift
	x87SetControlWord(cw)
	return nil
}

func (x87Unit) Environment() Environment {
	return Environment{kind: LegacyExtendedUnit, a: uint64(x87ControlWord())}
}

func (x87Unit) SetEnvironment(env Environment) error {
	if env.kind != LegacyExtendedUnit {
		return envMismatch("SetEnvironment", LegacyExtendedUnit, env.kind)
	}
	x87SetControlWord(uint16(env.a))
	return nil
}

func (u x87Unit) HoldExcept() Environment {
	env := u.Environment()
	u.ClearExcept(ExceptAll)
	return env
}

func (x87Unit) InitForType(t reflop.NumericType) error {
	cw := x87ControlWord()
	cw &^= x87PrecisionMask
	switch t {
	case reflop.Single:
		cw |= x87PrecisionSingle
	case reflop.Double:
		cw |= x87PrecisionDouble
	case reflop.Extended:
		cw |= x87PrecisionExt
	default:
		return reflop.NewConfigurationError("InitForType",
			"legacy extended unit has no mapping for "+t.String())
	}
	// The x87 unit always supports subnormals; there is no flush control
	// to pin here.
	x87SetControlWord(cw)
	return nil
}
