package fpenv

// Raw control register access. The x87 store forms include an implicit
// exception-state sync; the load form clears pending exceptions first so
// a restored control word cannot fire a stale trap.

//go:noescape
func x87ControlWord() uint16

//go:noescape
func x87SetControlWord(cw uint16)

//go:noescape
func mxcsrRead() uint32

//go:noescape
func mxcsrWrite(m uint32)
