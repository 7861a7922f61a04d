package fpenv

import (
	"golang.org/x/sys/cpu"
)

// platformBackend maps a hardware kind to its implementation on arm64.
// HasASIMD corresponds to NEON support.
func platformBackend(kind Kind) (Backend, bool) {
	if kind == VectorUnitARM && hasNEON() {
		return neonUnit{}, true
	}
	return nil, false
}

func hasNEON() bool {
	// darwin/arm64 always has ASIMD but x/sys/cpu cannot read the
	// feature registers there and reports false.
	return cpu.ARM64.HasASIMD || isDarwin
}

// Detect returns the preferred backend for this host: the vector unit
// when NEON is present, the software-emulated unit otherwise.
func Detect() Backend {
	if hasNEON() {
		return neonUnit{}
	}
	return newSoftUnit()
}
