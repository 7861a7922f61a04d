// Package reflop format and sequence constants
package reflop

// Golden file format constants
const (
	// MagicTag identifies a golden file. A file without it is rejected.
	MagicTag = "SREF"

	// FormatVersion is the current golden file format version.
	FormatVersion = 1

	// HeaderSize is the fixed size of the file header in bytes.
	HeaderSize = 24
)

// Trace sequence lengths. These are part of the file format contract:
// changing any of them is a compatibility-breaking format revision.
const (
	// BasicSteps is the length of the arithmetic recurrence trace.
	BasicSteps = 10000

	// DenormalSteps drives values into the denormal range.
	DenormalSteps = 5000

	// OverflowSteps drives values to +Inf.
	OverflowSteps = 5000

	// SpecialValues is the tail of the edge-case trace: +Inf, -Inf and
	// the invalid-operation NaN, in that order.
	SpecialValues = 3

	// EdgeCaseSteps is the total length of the edge-case trace.
	EdgeCaseSteps = DenormalSteps + OverflowSteps + SpecialValues

	// MathLibSteps is the length of the transcendental-function trace.
	MathLibSteps = 10000
)
