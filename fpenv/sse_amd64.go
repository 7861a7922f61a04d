package fpenv

import (
	"github.com/reflop/reflop"
)

// MXCSR layout: status flags bits 0-5, DAZ bit 6, exception masks bits
// 7-12 (the x87 layout shifted left 7), rounding control bits 13-14,
// FTZ bit 15.
const (
	mxcsrMaskShift  = 7
	mxcsrRoundMask  = 0x6000
	mxcsrRoundShift = 13
	mxcsrDAZ        = 0x0040
	mxcsrFTZ        = 0x8000
)

// sseUnit drives the SIMD unit through MXCSR. Every exception-mask and
// precision change is mirrored into the x87 control word as well, in
// case the compiler spills a value through the legacy stack registers;
// the two registers always move together.
type sseUnit struct{}

func (sseUnit) Kind() Kind { return SIMDUnit }

func (sseUnit) RaiseExcept(ex Except) {
	cw := x87ControlWord()
	cw &^= uint16(ex & ExceptAll)
	x87SetControlWord(cw)

	m := mxcsrRead()
	m &^= uint32(ex&ExceptAll) << mxcsrMaskShift
	mxcsrWrite(m)
}

func (sseUnit) ClearExcept(ex Except) {
	cw := x87ControlWord()
	cw |= uint16(ex & ExceptAll)
	x87SetControlWord(cw)

	m := mxcsrRead()
	m |= uint32(ex&ExceptAll) << mxcsrMaskShift
	mxcsrWrite(m)
}

func (sseUnit) Rounding() RoundMode {
	return RoundMode(mxcsrRead()>>mxcsrRoundShift) & 3
}

func (sseUnit) SetRounding(m RoundMode) error {
	if m < 0 || m >= numRoundModes {
		return roundModeError("SetRounding", m)
	}
	csr := mxcsrRead()
	csr &^= uint32(mxcsrRoundMask)
	csr |= uint32(m) << mxcsrRoundShift
	mxcsrWrite(csr)
	return nil
}

func (sseUnit) Environment() Environment {
	return Environment{
		kind: SIMDUnit,
		a:    uint64(mxcsrRead()),
		b:    uint64(x87ControlWord()),
	}
}

func (sseUnit) SetEnvironment(env Environment) error {
	if env.kind != SIMDUnit {
		return envMismatch("SetEnvironment", SIMDUnit, env.kind)
	}
	mxcsrWrite(uint32(env.a))
	x87SetControlWord(uint16(env.b))
	return nil
}

func (u sseUnit) HoldExcept() Environment {
	env := u.Environment()
	u.ClearExcept(ExceptAll)
	return env
}

func (sseUnit) InitForType(t reflop.NumericType) error {
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
			"SIMD unit has no mapping for "+t.String())
	}
	x87SetControlWord(cw)

	m := mxcsrRead()
	if FlushDenormals {
		m |= mxcsrDAZ | mxcsrFTZ
	} else {
		m &^= mxcsrDAZ | mxcsrFTZ
	}
	mxcsrWrite(m)
	return nil
}
