package fpenv

// Raw FPCR access.

//go:noescape
func fpcrRead() uint64

//go:noescape
func fpcrWrite(v uint64)
