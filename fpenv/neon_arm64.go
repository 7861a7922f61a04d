package fpenv

import (
	"github.com/reflop/reflop"
)

// FPCR layout: trap enables IOE bit 8, DZE 9, OFE 10, UFE 11, IXE 12,
// IDE 15; RMode bits 22-23; FZ bit 24.
const (
	fpcrIOE = 1 << 8
	fpcrDZE = 1 << 9
	fpcrOFE = 1 << 10
	fpcrUFE = 1 << 11
	fpcrIXE = 1 << 12
	fpcrIDE = 1 << 15

	fpcrTrapMask = fpcrIOE | fpcrDZE | fpcrOFE | fpcrUFE | fpcrIXE | fpcrIDE

	fpcrRoundShift = 22
	fpcrRoundMask  = 3 << fpcrRoundShift
	fpcrFZ         = 1 << 24
)

// FPCR encodes rounding as 00 nearest, 01 up, 10 down, 11 toward zero;
// the portable enum swaps up and down relative to that.
var fpcrRoundEnc = [numRoundModes]uint64{
	RoundNearest:    0,
	RoundDown:       2,
	RoundUp:         1,
	RoundTowardZero: 3,
}

var fpcrRoundDec = [4]RoundMode{RoundNearest, RoundUp, RoundDown, RoundTowardZero}

// neonUnit drives the AArch64 vector unit through FPCR. The unit always
// computes at the declared width, so InitForType only pins rounding and
// the denormal policy. Extended precision does not exist here.
type neonUnit struct{}

func (neonUnit) Kind() Kind { return VectorUnitARM }

func exceptToFPCR(ex Except) uint64 {
	var v uint64
	if ex&ExceptInvalid != 0 {
		v |= fpcrIOE
	}
	if ex&ExceptDivByZero != 0 {
		v |= fpcrDZE
	}
	if ex&ExceptOverflow != 0 {
		v |= fpcrOFE
	}
	if ex&ExceptUnderflow != 0 {
		v |= fpcrUFE
	}
	if ex&ExceptInexact != 0 {
		v |= fpcrIXE
	}
	if ex&ExceptDenormal != 0 {
		v |= fpcrIDE
	}
	return v
}

func (neonUnit) RaiseExcept(ex Except) {
	fpcrWrite(fpcrRead() | exceptToFPCR(ex))
}

func (neonUnit) ClearExcept(ex Except) {
	fpcrWrite(fpcrRead() &^ exceptToFPCR(ex))
}

func (neonUnit) Rounding() RoundMode {
	return fpcrRoundDec[(fpcrRead()&fpcrRoundMask)>>fpcrRoundShift]
}

func (neonUnit) SetRounding(m RoundMode) error {
	if m < 0 || m >= numRoundModes {
		return roundModeError("SetRounding", m)
	}
	v := fpcrRead()
	v &^= uint64(fpcrRoundMask)
	v |= fpcrRoundEnc[m] << fpcrRoundShift
	fpcrWrite(v)
	return nil
}

func (neonUnit) Environment() Environment {
	return Environment{kind: VectorUnitARM, a: fpcrRead()}
}

func (neonUnit) SetEnvironment(env Environment) error {
	if env.kind != VectorUnitARM {
		return envMismatch("SetEnvironment", VectorUnitARM, env.kind)
	}
	fpcrWrite(env.a)
	return nil
}

func (u neonUnit) HoldExcept() Environment {
	env := u.Environment()
	u.ClearExcept(ExceptAll)
	return env
}

func (neonUnit) InitForType(t reflop.NumericType) error {
	switch t {
	case reflop.Single, reflop.Double:
	default:
		return reflop.NewConfigurationError("InitForType",
			"ARM vector unit has no mapping for "+t.String())
	}
	v := fpcrRead()
	v &^= uint64(fpcrRoundMask)
	v |= fpcrRoundEnc[RoundNearest] << fpcrRoundShift
	if FlushDenormals {
		v |= fpcrFZ
	} else {
		v &^= uint64(fpcrFZ)
	}
	fpcrWrite(v)
	return nil
}
