// Package compare classifies elements across golden files recorded on
// different platforms.
//
// File 0 of every comparison is the baseline. Each element of every
// other file is classified as an exact match, a near match (within the
// caller-supplied ULP bound) or a divergence. Two NaN patterns always
// match exactly whatever their payloads; two values of differing sign
// always diverge whatever the bound.
package compare

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/reflop/reflop"
	"github.com/reflop/reflop/golden"
)

type class int

const (
	classExact class = iota
	classNear
	classDivergent
)

// Divergence records one element whose values differ beyond tolerance.
// Decimal values are reported at full float64 precision; for extended
// elements they are the nearest float64 while the hex patterns stay
// exact.
type Divergence struct {
	Index        int
	Baseline     float64
	Observed     float64
	BaselineBits string
	ObservedBits string
	Distance     uint64 // ULP distance, MaxULPDistance when unbridgeable
}

// Diff returns the numeric difference observed - baseline.
func (d Divergence) Diff() float64 { return d.Observed - d.Baseline }

// FileResult accumulates classification counts for one comparison file
// against the baseline.
type FileResult struct {
	Path        string
	Exact       int
	Near        int
	Divergent   int
	Excluded    bool // unreadable, invalid or element count mismatch
	Reason      string
	Divergences []Divergence
}

// Result is the outcome of comparing one category across N files.
type Result struct {
	Type     reflop.NumericType
	Category reflop.Category
	Baseline string
	Files    []FileResult
	Skipped  bool
	Reason   string
}

// TotalDivergences sums divergence counts across all files.
func (r *Result) TotalDivergences() int {
	n := 0
	for _, f := range r.Files {
		n += f.Divergent
	}
	return n
}

// Comparator classifies golden file elements. MaxULP is the near-match
// bound and is mandatory: there is no universal default, so use New.
type Comparator struct {
	MaxULP uint64

	// Log, when set, receives every divergence as it is found.
	Log *DivergenceLog

	// Diag receives skip/reject diagnostics. Defaults to stdout.
	Diag io.Writer
}

// New returns a comparator with the given near-match ULP bound.
func New(maxULP uint64) *Comparator {
	return &Comparator{MaxULP: maxULP}
}

func (c *Comparator) diag() io.Writer {
	if c.Diag != nil {
		return c.Diag
	}
	return os.Stdout
}

// Compare reads the given golden files and classifies every element of
// every file against the baseline (the first path). Files that fail to
// open or validate are diagnosed and excluded; if fewer than two usable
// files remain the whole category is skipped, which is not an error.
func (c *Comparator) Compare(typ reflop.NumericType, cat reflop.Category, paths []string) (*Result, error) {
	if len(paths) < 2 {
		return nil, reflop.NewInvalidArgError("Compare",
			fmt.Sprintf("need at least two files, got %d", len(paths)))
	}

	res := &Result{Type: typ, Category: cat}

	var valid []*golden.File
	var excluded []FileResult
	for _, p := range paths {
		f, err := golden.ReadAll(p, typ)
		if err != nil {
			fmt.Fprintf(c.diag(), "skipping %s: %v\n", p, err)
			excluded = append(excluded, FileResult{Path: p, Excluded: true, Reason: err.Error()})
			continue
		}
		if f.Category != cat {
			fmt.Fprintf(c.diag(), "skipping %s: category %s, expected %s\n", p, f.Category, cat)
			excluded = append(excluded, FileResult{Path: p, Excluded: true,
				Reason: fmt.Sprintf("category %s, expected %s", f.Category, cat)})
			continue
		}
		valid = append(valid, f)
	}

	if len(valid) < 2 {
		res.Skipped = true
		res.Reason = fmt.Sprintf("only %d valid file(s)", len(valid))
		res.Files = excluded
		fmt.Fprintf(c.diag(), "no valid data to compare for %s %s\n", typ, cat)
		return res, nil
	}

	base := valid[0]
	res.Baseline = base.Path

	for _, f := range valid[1:] {
		fr := FileResult{Path: f.Path}
		if f.Len() != base.Len() {
			fr.Excluded = true
			fr.Reason = fmt.Sprintf("element count %d differs from baseline %d", f.Len(), base.Len())
			fmt.Fprintf(c.diag(), "excluding %s: %s\n", f.Path, fr.Reason)
			res.Files = append(res.Files, fr)
			continue
		}
		for i := 0; i < base.Len(); i++ {
			cls, dist := c.classify(typ, base.Record(i), f.Record(i))
			switch cls {
			case classExact:
				fr.Exact++
			case classNear:
				fr.Near++
			case classDivergent:
				fr.Divergent++
				d := newDivergence(typ, i, base.Record(i), f.Record(i), dist)
				fr.Divergences = append(fr.Divergences, d)
				if c.Log != nil {
					c.Log.Record(typ, cat, f.Path, d)
				}
			}
		}
		res.Files = append(res.Files, fr)
	}

	res.Files = append(res.Files, excluded...)
	return res, nil
}

// classify applies the classification order: NaN-vs-NaN is exact with
// payload bits ignored, identical raw bytes are exact, a differing sign
// bit is a divergence at any tolerance, and otherwise the signed
// magnitude gap decides near versus divergent.
func (c *Comparator) classify(typ reflop.NumericType, base, obs []byte) (class, uint64) {
	var dist uint64
	switch typ {
	case reflop.Single:
		a, b := binary.BigEndian.Uint32(base), binary.BigEndian.Uint32(obs)
		if reflop.IsNaNBits32(a) && reflop.IsNaNBits32(b) {
			return classExact, 0
		}
		if a == b {
			return classExact, 0
		}
		dist = reflop.ULPDistance32(a, b)
	case reflop.Double:
		a, b := binary.BigEndian.Uint64(base), binary.BigEndian.Uint64(obs)
		if reflop.IsNaNBits64(a) && reflop.IsNaNBits64(b) {
			return classExact, 0
		}
		if a == b {
			return classExact, 0
		}
		dist = reflop.ULPDistance64(a, b)
	case reflop.Extended:
		var a, b [10]byte
		copy(a[:], base)
		copy(b[:], obs)
		if reflop.IsNaNBits80(a) && reflop.IsNaNBits80(b) {
			return classExact, 0
		}
		if a == b {
			return classExact, 0
		}
		dist = reflop.ULPDistance80(a, b)
	}
	if dist <= c.MaxULP && dist != reflop.MaxULPDistance {
		return classNear, dist
	}
	return classDivergent, dist
}

func newDivergence(typ reflop.NumericType, index int, base, obs []byte, dist uint64) Divergence {
	return Divergence{
		Index:        index,
		Baseline:     decodeValue(typ, base),
		Observed:     decodeValue(typ, obs),
		BaselineBits: "0x" + hex.EncodeToString(base),
		ObservedBits: "0x" + hex.EncodeToString(obs),
		Distance:     dist,
	}
}

func decodeValue(typ reflop.NumericType, rec []byte) float64 {
	switch typ {
	case reflop.Single:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(rec)))
	case reflop.Double:
		return math.Float64frombits(binary.BigEndian.Uint64(rec))
	case reflop.Extended:
		return extendedToFloat64(rec)
	}
	return math.NaN()
}

// extendedToFloat64 converts a canonical 10-byte extended pattern to the
// nearest float64, for display only.
func extendedToFloat64(rec []byte) float64 {
	signExp := uint16(rec[0])<<8 | uint16(rec[1])
	var mant uint64
	for _, b := range rec[2:] {
		mant = mant<<8 | uint64(b)
	}
	sign := 1.0
	if signExp&0x8000 != 0 {
		sign = -1
	}
	exp := int(signExp & 0x7FFF)
	switch {
	case exp == 0x7FFF:
		if mant<<1 != 0 {
			return math.NaN()
		}
		return sign * math.Inf(1)
	case exp == 0:
		return sign * math.Ldexp(float64(mant), -16382-63)
	default:
		return sign * math.Ldexp(float64(mant), exp-16383-63)
	}
}

// WriteSummary prints the per-file summary table in the fixed layout.
func (r *Result) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "\nComparing %s %s files:\n", r.Type.FileToken(), r.Category)
	if r.Skipped {
		fmt.Fprintf(w, "skipped: %s\n", r.Reason)
		return
	}
	fmt.Fprintf(w, "Baseline: %s\n", r.Baseline)
	fmt.Fprintf(w, "%-42s%-15s%-15s%-15s\n", "File", "Exact Matches", "Near Matches", "Divergences")
	fmt.Fprintln(w, dashes(87))
	for _, f := range r.Files {
		fmt.Fprintf(w, "%-42s%-15d%-15d%-15d\n", shortName(f.Path), f.Exact, f.Near, f.Divergent)
		if f.Excluded {
			fmt.Fprintf(w, "  excluded: %s\n", f.Reason)
		}
	}
	fmt.Fprintln(w, dashes(87))
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

// shortName trims a path to its base name, truncated to 40 characters.
func shortName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			path = path[i+1:]
			break
		}
	}
	if len(path) > 40 {
		path = path[:40]
	}
	return path
}
