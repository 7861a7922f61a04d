// Package trace generates the canonical computation traces that golden
// files are recorded from.
//
// A trace is a fixed sequence of values computed under pinned
// floating-point control state. Three categories are recorded per
// numeric type: an arithmetic recurrence with no math-library calls, an
// edge-case sweep through denormals, overflow and the special values,
// and a transcendental-function composition over a deterministic input
// stream. The sequences are format-compatibility contracts: changing a
// constant or a step count makes new recordings incomparable with every
// existing golden file.
package trace

import (
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"github.com/reflop/reflop"
	"github.com/reflop/reflop/fpenv"
	"github.com/reflop/reflop/golden"
)

// DefaultSeed is the stream seed used by the recording tool.
const DefaultSeed = 42

// Recorder drives one backend through the trace sequences and hands
// every value to a golden file writer.
type Recorder struct {
	Backend fpenv.Backend

	// Seed initializes the deterministic value stream.
	Seed uint64

	// Diag receives control-state change diagnostics. Defaults to stdout.
	Diag io.Writer
}

// NewRecorder returns a recorder on the given backend with the default
// stream seed.
func NewRecorder(b fpenv.Backend) *Recorder {
	return &Recorder{Backend: b, Seed: DefaultSeed}
}

func (r *Recorder) diag() io.Writer {
	if r.Diag != nil {
		return r.Diag
	}
	return os.Stdout
}

// FilePath returns the golden file name for one type and category.
func FilePath(base string, typ reflop.NumericType, cat reflop.Category) string {
	return fmt.Sprintf("%s_%s_%s.bin", base, typ.FileToken(), cat.Suffix())
}

// Run records all three category traces for the given type, producing
// FilePath(base, typ, cat) for each category. The calling goroutine is
// pinned to its OS thread while the control state is mutated, and the
// state present on entry is restored before returning. Extended traces
// are not recorded; requesting one is reported as skipped.
func (r *Recorder) Run(base string, typ reflop.NumericType) error {
	if typ == reflop.Extended {
		return reflop.NewSkippedError("Run", "extended traces are not recorded")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	held := r.Backend.HoldExcept()
	defer r.Backend.SetEnvironment(held)

	if err := r.Backend.InitForType(typ); err != nil {
		return err
	}
	r.Backend.RaiseExcept(fpenv.ExceptInvalid)

	for _, cat := range reflop.Categories {
		if err := r.recordCategory(base, typ, cat); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) recordCategory(base string, typ reflop.NumericType, cat reflop.Category) error {
	path := FilePath(base, typ, cat)
	w, err := golden.Create(path, typ, uint32(cat.Steps()), cat)
	if err != nil {
		return err
	}

	switch cat {
	case reflop.Basic:
		if typ == reflop.Single {
			err = r.basic32(w)
		} else {
			err = r.basic64(w)
		}
	case reflop.EdgeCase:
		if typ == reflop.Single {
			err = r.edge32(w)
		} else {
			err = r.edge64(w)
		}
	case reflop.MathLib:
		if typ == reflop.Single {
			err = r.mathlib32(w)
		} else {
			err = r.mathlib64(w)
		}
	}
	if err != nil {
		w.Close()
		os.Remove(path)
		return err
	}
	return w.Close()
}

// checkEnv diagnoses any control-state drift during the basic loop. The
// arithmetic itself must never change the control registers; a report
// here means the unit or the runtime touched them behind our back.
func (r *Recorder) checkEnv(last *fpenv.Environment, step int) {
	cur := r.Backend.Environment()
	if cur != *last {
		fmt.Fprintf(r.diag(), "control state changed at step %d: %v -> %v\n", step, *last, cur)
		*last = cur
	}
}

func (r *Recorder) basic64(w *golden.Writer) error {
	last := r.Backend.Environment()
	f := 42.0
	for i := 0; i < reflop.BasicSteps; i++ {
		f = f + 1.0
		for j := 0; j < 100; j++ {
			f += 0.3/f + 1.0
		}
		if err := w.WriteFloat64(f); err != nil {
			return err
		}
		r.checkEnv(&last, i)
	}
	return nil
}

func (r *Recorder) basic32(w *golden.Writer) error {
	last := r.Backend.Environment()
	f := float32(42)
	for i := 0; i < reflop.BasicSteps; i++ {
		f = f + 1.0
		for j := 0; j < 100; j++ {
			f += 0.3/f + 1.0
		}
		if err := w.WriteFloat32(f); err != nil {
			return err
		}
		r.checkEnv(&last, i)
	}
	return nil
}

func (r *Recorder) edge64(w *golden.Writer) error {
	// 0.1 is not exactly representable; repeated multiplication walks
	// down through the denormal range to zero.
	f := 0.1
	for i := 0; i < reflop.DenormalSteps; i++ {
		f *= 0.1
		if err := w.WriteFloat64(f); err != nil {
			return err
		}
	}

	// 10.0001 is not exactly representable either; this walks up to
	// overflow and saturates at +Inf.
	f = 10.0001
	for i := 0; i < reflop.OverflowSteps; i++ {
		f *= 10.0001
		if err := w.WriteFloat64(f); err != nil {
			return err
		}
	}

	zero := 0.0
	f = 1.0 / zero
	if err := w.WriteFloat64(f); err != nil {
		return err
	}
	negZero := math.Copysign(0, -1)
	if err := w.WriteFloat64(1.0 / negZero); err != nil {
		return err
	}

	// Inf * 0 is an invalid operation; disarm the trap around it.
	r.Backend.ClearExcept(fpenv.ExceptInvalid)
	f *= 0.0
	err := w.WriteFloat64(f)
	r.Backend.RaiseExcept(fpenv.ExceptInvalid)
	return err
}

func (r *Recorder) edge32(w *golden.Writer) error {
	f := float32(0.1)
	for i := 0; i < reflop.DenormalSteps; i++ {
		f *= 0.1
		if err := w.WriteFloat32(f); err != nil {
			return err
		}
	}

	f = 10.0001
	for i := 0; i < reflop.OverflowSteps; i++ {
		f *= 10.0001
		if err := w.WriteFloat32(f); err != nil {
			return err
		}
	}

	zero := float32(0)
	f = 1.0 / zero
	if err := w.WriteFloat32(f); err != nil {
		return err
	}
	negZero := float32(math.Copysign(0, -1))
	if err := w.WriteFloat32(1.0 / negZero); err != nil {
		return err
	}

	r.Backend.ClearExcept(fpenv.ExceptInvalid)
	f *= 0.0
	err := w.WriteFloat32(f)
	r.Backend.RaiseExcept(fpenv.ExceptInvalid)
	return err
}

// mathlib64 records tanh(cbrt(abs(log2(sin(u)+2))+1)) for each stream
// value u drawn from [0, i].
func (r *Recorder) mathlib64(w *golden.Writer) error {
	s := NewStream(r.Seed)
	for i := 0; i < reflop.MathLibSteps; i++ {
		u := s.IntervalII(0, float64(i))
		f := math.Tanh(math.Cbrt(math.Abs(math.Log2(math.Sin(u)+2))+1))
		if err := w.WriteFloat64(f); err != nil {
			return err
		}
	}
	return nil
}

// mathlib32 is the same composition with the intermediate result rounded
// to binary32 after every function application.
func (r *Recorder) mathlib32(w *golden.Writer) error {
	s := NewStream(r.Seed)
	for i := 0; i < reflop.MathLibSteps; i++ {
		u := float32(s.IntervalII(0, float64(i)))
		v := float32(math.Sin(float64(u))) + 2
		v = float32(math.Log2(float64(v)))
		v = float32(math.Abs(float64(v))) + 1
		v = float32(math.Cbrt(float64(v)))
		f := float32(math.Tanh(float64(v)))
		if err := w.WriteFloat32(f); err != nil {
			return err
		}
	}
	return nil
}
