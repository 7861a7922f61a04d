//go:build !flushdenormals

package fpenv

// FlushDenormals is the build-time reproducibility policy for denormal
// handling: full IEEE subnormal support by default. Building with the
// flushdenormals tag selects flush-to-zero instead, trading
// reproducibility of subnormal results for speed.
const FlushDenormals = false
