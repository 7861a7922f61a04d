package fpenv

import (
	"golang.org/x/sys/cpu"
)

// platformBackend maps a hardware kind to its implementation on amd64.
func platformBackend(kind Kind) (Backend, bool) {
	switch kind {
	case LegacyExtendedUnit:
		return x87Unit{}, true
	case SIMDUnit:
		if cpu.X86.HasSSE2 {
			return sseUnit{}, true
		}
	}
	return nil, false
}

// Detect returns the preferred backend for this host: the SIMD unit
// when SSE2 is present, the legacy extended unit otherwise.
func Detect() Backend {
	if cpu.X86.HasSSE2 {
		return sseUnit{}
	}
	return x87Unit{}
}
