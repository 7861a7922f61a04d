//go:build flushdenormals

package fpenv

// FlushDenormals is the build-time reproducibility policy for denormal
// handling. This build flushes subnormal results to zero.
const FlushDenormals = true
