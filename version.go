package reflop

import (
	"runtime/debug"
)

const root = "github.com/reflop/reflop"

// Version returns the module version and checksum of reflop. The
// returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, m := range b.Deps {
		if m.Path == root {
			if m.Replace != nil {
				return m.Version + "*", m.Sum + "*"
			}
			return m.Version, m.Sum
		}
	}
	return "", ""
}
