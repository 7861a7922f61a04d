// Package reflop provides bit-reproducible floating-point verification
// across CPU architectures and math backends.
//
// A computation is recorded once per platform as a golden file: a canonical
// binary trace of every value produced by a fixed deterministic sequence.
// Traces from different platforms are then compared element by element and
// classified as exact, near (within a caller-supplied ULP bound) or
// divergent.
//
// The root package holds the shared vocabulary: numeric type variants,
// trace categories, the error taxonomy and the ULP distance metric.
// Subpackages implement the moving parts:
//
//   - fpenv: a uniform interface over hardware floating-point control
//     state (rounding mode, exception trapping, internal precision,
//     denormal handling) for the x87, SSE, software-emulated and ARM
//     vector units
//   - golden: the portable golden-file codec
//   - compare: the cross-run comparator
//   - trace: the deterministic trace recorder
//
// Example usage:
//
//	backend := fpenv.Detect()
//	rec := trace.Recorder{Backend: backend, Seed: 42}
//	if err := rec.Run("x86_linux", reflop.Double); err != nil {
//		log.Fatal(err)
//	}
package reflop
