package compare

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflop/reflop"
	"github.com/reflop/reflop/golden"
)

func writeDoubleBits(t *testing.T, dir, name string, cat reflop.Category, patterns []uint64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := golden.Create(path, reflop.Double, uint32(len(patterns)), cat)
	require.NoError(t, err)
	for _, p := range patterns {
		require.NoError(t, w.WriteFloat64(math.Float64frombits(p)))
	}
	require.NoError(t, w.Close())
	return path
}

// Scenario A: identical headers and payloads compare fully exact.
func TestIdenticalFilesAllExact(t *testing.T) {
	dir := t.TempDir()
	patterns := []uint64{
		math.Float64bits(1.5),
		math.Float64bits(-2.25),
		math.Float64bits(1e300),
	}
	a := writeDoubleBits(t, dir, "a_double_basic.bin", reflop.Basic, patterns)
	b := writeDoubleBits(t, dir, "b_double_basic.bin", reflop.Basic, patterns)

	c := New(0)
	c.Diag = io.Discard
	res, err := c.Compare(reflop.Double, reflop.Basic, []string{a, b})
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.Len(t, res.Files, 1)
	assert.Equal(t, 3, res.Files[0].Exact)
	assert.Equal(t, 0, res.Files[0].Near)
	assert.Equal(t, 0, res.Files[0].Divergent)
}

// Scenario B: one ULP apart with tolerance 4 is a near match.
func TestOneULPNearMatch(t *testing.T) {
	dir := t.TempDir()
	a := writeDoubleBits(t, dir, "a_double_basic.bin", reflop.Basic, []uint64{0x3FF0000000000000})
	b := writeDoubleBits(t, dir, "b_double_basic.bin", reflop.Basic, []uint64{0x3FF0000000000001})

	c := New(4)
	c.Diag = io.Discard
	res, err := c.Compare(reflop.Double, reflop.Basic, []string{a, b})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, 0, res.Files[0].Exact)
	assert.Equal(t, 1, res.Files[0].Near)
	assert.Equal(t, 0, res.Files[0].Divergent)

	// The same pair with tolerance 0 diverges at distance 1.
	c0 := New(0)
	c0.Diag = io.Discard
	res0, err := c0.Compare(reflop.Double, reflop.Basic, []string{a, b})
	require.NoError(t, err)
	require.Len(t, res0.Files[0].Divergences, 1)
	assert.Equal(t, uint64(1), res0.Files[0].Divergences[0].Distance)
}

// Scenario C: +Inf against NaN is a divergence.
func TestInfVersusNaNDiverges(t *testing.T) {
	dir := t.TempDir()
	a := writeDoubleBits(t, dir, "a_double_nan.bin", reflop.EdgeCase, []uint64{math.Float64bits(math.Inf(1))})
	b := writeDoubleBits(t, dir, "b_double_nan.bin", reflop.EdgeCase, []uint64{math.Float64bits(math.NaN())})

	c := New(10000)
	c.Diag = io.Discard
	res, err := c.Compare(reflop.Double, reflop.EdgeCase, []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files[0].Divergent)
	assert.Equal(t, uint64(reflop.MaxULPDistance), res.Files[0].Divergences[0].Distance)
}

// Scenario D: a file with a bad magic tag is rejected and excluded; the
// remaining valid files are still compared.
func TestBadMagicExcludedOthersCompared(t *testing.T) {
	dir := t.TempDir()
	patterns := []uint64{math.Float64bits(3.14)}
	a := writeDoubleBits(t, dir, "a_double_basic.bin", reflop.Basic, patterns)
	b := writeDoubleBits(t, dir, "b_double_basic.bin", reflop.Basic, patterns)
	bad := writeDoubleBits(t, dir, "bad_double_basic.bin", reflop.Basic, patterns)

	raw, err := os.ReadFile(bad)
	require.NoError(t, err)
	copy(raw[0:4], "XXXX")
	require.NoError(t, os.WriteFile(bad, raw, 0o644))

	var diag bytes.Buffer
	c := New(4)
	c.Diag = &diag
	res, err := c.Compare(reflop.Double, reflop.Basic, []string{a, bad, b})
	require.NoError(t, err)
	require.False(t, res.Skipped)

	var compared, excluded int
	for _, f := range res.Files {
		if f.Excluded {
			excluded++
		} else {
			compared++
			assert.Equal(t, 1, f.Exact)
		}
	}
	assert.Equal(t, 1, compared)
	assert.Equal(t, 1, excluded)
	assert.Contains(t, diag.String(), "bad_double_basic.bin")
}

// Scenario E: a category with a single valid file is skipped, not fatal.
func TestSingleValidFileSkipsCategory(t *testing.T) {
	dir := t.TempDir()
	a := writeDoubleBits(t, dir, "a_double_lib.bin", reflop.MathLib, []uint64{1})

	var diag bytes.Buffer
	c := New(4)
	c.Diag = &diag
	res, err := c.Compare(reflop.Double, reflop.MathLib, []string{
		a,
		filepath.Join(dir, "missing1_double_lib.bin"),
		filepath.Join(dir, "missing2_double_lib.bin"),
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Contains(t, diag.String(), "no valid data to compare")
}

// Any two NaN payloads classify as exact.
func TestNaNPayloadsExact(t *testing.T) {
	dir := t.TempDir()
	a := writeDoubleBits(t, dir, "a_double_nan.bin", reflop.EdgeCase, []uint64{
		0x7FF8000000000000, // canonical quiet NaN
		0xFFF8000000000000, // negative quiet NaN
		0x7FF0000000000001, // signaling payload
	})
	b := writeDoubleBits(t, dir, "b_double_nan.bin", reflop.EdgeCase, []uint64{
		0x7FF8DEADBEEF0001,
		0x7FF0000000C0FFEE,
		0xFFFFFFFFFFFFFFFF,
	})

	c := New(0)
	c.Diag = io.Discard
	res, err := c.Compare(reflop.Double, reflop.EdgeCase, []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Files[0].Exact)
	assert.Equal(t, 0, res.Files[0].Divergent)
}

// Sign crossings diverge at any tolerance, including huge ones.
func TestSignCrossingDivergesAtAnyTolerance(t *testing.T) {
	dir := t.TempDir()
	a := writeDoubleBits(t, dir, "a_double_basic.bin", reflop.Basic, []uint64{math.Float64bits(1e-30)})
	b := writeDoubleBits(t, dir, "b_double_basic.bin", reflop.Basic, []uint64{math.Float64bits(-1e-30)})

	for _, tol := range []uint64{0, 1, 4, 10000, math.MaxUint64 - 1} {
		c := New(tol)
		c.Diag = io.Discard
		res, err := c.Compare(reflop.Double, reflop.Basic, []string{a, b})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Files[0].Divergent, "tolerance %d", tol)
	}
}

func TestCountMismatchExcludedButSummarized(t *testing.T) {
	dir := t.TempDir()
	a := writeDoubleBits(t, dir, "a_double_basic.bin", reflop.Basic, []uint64{1, 2, 3})
	b := writeDoubleBits(t, dir, "b_double_basic.bin", reflop.Basic, []uint64{1, 2, 3})
	short := writeDoubleBits(t, dir, "short_double_basic.bin", reflop.Basic, []uint64{1, 2})

	c := New(0)
	c.Diag = io.Discard
	res, err := c.Compare(reflop.Double, reflop.Basic, []string{a, short, b})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)

	var sawShort bool
	for _, f := range res.Files {
		if strings.Contains(f.Path, "short") {
			sawShort = true
			assert.True(t, f.Excluded)
			assert.Zero(t, f.Exact+f.Near+f.Divergent)
		}
	}
	assert.True(t, sawShort, "mismatched file must still appear in the summary")

	var sum bytes.Buffer
	res.WriteSummary(&sum)
	assert.Contains(t, sum.String(), "short_double_basic.bin")
}

func TestCompareRequiresTwoPaths(t *testing.T) {
	c := New(0)
	_, err := c.Compare(reflop.Double, reflop.Basic, []string{"only.bin"})
	assert.True(t, reflop.IsInvalidArgError(err))
}

func TestSingleWidthClassification(t *testing.T) {
	dir := t.TempDir()
	mk := func(name string, bits []uint32) string {
		path := filepath.Join(dir, name)
		w, err := golden.Create(path, reflop.Single, uint32(len(bits)), reflop.Basic)
		require.NoError(t, err)
		for _, b := range bits {
			require.NoError(t, w.WriteFloat32(math.Float32frombits(b)))
		}
		require.NoError(t, w.Close())
		return path
	}
	one := math.Float32bits(1.0)
	a := mk("a_simple_basic.bin", []uint32{one, one, math.Float32bits(float32(math.NaN()))})
	b := mk("b_simple_basic.bin", []uint32{one, one + 2, 0x7F800099})

	c := New(4)
	c.Diag = io.Discard
	res, err := c.Compare(reflop.Single, reflop.Basic, []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files[0].Exact, "identical bytes and NaN pair")
	assert.Equal(t, 1, res.Files[0].Near)
}

func TestDivergenceLogPlain(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "divergences.log")
	l, err := OpenLog(logPath)
	require.NoError(t, err)

	a := writeDoubleBits(t, dir, "a_double_basic.bin", reflop.Basic, []uint64{math.Float64bits(1.0)})
	b := writeDoubleBits(t, dir, "b_double_basic.bin", reflop.Basic, []uint64{math.Float64bits(2.0)})

	c := New(0)
	c.Diag = io.Discard
	c.Log = l
	_, err = c.Compare(reflop.Double, reflop.Basic, []string{a, b})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "divergence at index 0")
	assert.Contains(t, string(content), "0x3ff0000000000000")
	assert.Contains(t, string(content), "0x4000000000000000")
}

func TestDivergenceLogZstd(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "divergences.log.zst")
	l, err := OpenLog(logPath)
	require.NoError(t, err)

	a := writeDoubleBits(t, dir, "a_double_basic.bin", reflop.Basic, []uint64{math.Float64bits(1.0)})
	b := writeDoubleBits(t, dir, "b_double_basic.bin", reflop.Basic, []uint64{math.Float64bits(-1.0)})

	c := New(0)
	c.Diag = io.Discard
	c.Log = l
	_, err = c.Compare(reflop.Double, reflop.Basic, []string{a, b})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	f, err := os.Open(logPath)
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()
	content, err := io.ReadAll(dec)
	require.NoError(t, err)
	assert.Contains(t, string(content), "divergence at index 0")
	assert.Contains(t, string(content), "ULP distance maximal")
}

func TestWriteSummaryLayout(t *testing.T) {
	dir := t.TempDir()
	a := writeDoubleBits(t, dir, "a_double_basic.bin", reflop.Basic, []uint64{1, 2})
	b := writeDoubleBits(t, dir, "b_double_basic.bin", reflop.Basic, []uint64{1, 3})

	c := New(1)
	c.Diag = io.Discard
	res, err := c.Compare(reflop.Double, reflop.Basic, []string{a, b})
	require.NoError(t, err)

	var buf bytes.Buffer
	res.WriteSummary(&buf)
	out := buf.String()
	assert.Contains(t, out, "Comparing double basic files:")
	assert.Contains(t, out, "Baseline: "+a)
	assert.Contains(t, out, "Exact Matches")
	assert.Contains(t, out, "b_double_basic.bin")
}
