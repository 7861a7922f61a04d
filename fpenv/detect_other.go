//go:build !amd64 && !arm64

package fpenv

// platformBackend maps a hardware kind to its implementation. No
// hardware variant exists off amd64/arm64.
func platformBackend(kind Kind) (Backend, bool) {
	return nil, false
}

// Detect returns the preferred backend for this host.
func Detect() Backend {
	return newSoftUnit()
}
