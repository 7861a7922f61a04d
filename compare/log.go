package compare

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/reflop/reflop"
)

// DivergenceLog persists every divergence found during a comparison
// run. A path ending in .zst is transparently zstd-compressed; appended
// runs form concatenated frames, which any zstd reader accepts.
type DivergenceLog struct {
	mu   sync.Mutex
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
	path string
}

// OpenLog opens (appending) or creates the divergence log at path.
func OpenLog(path string) (*DivergenceLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, reflop.NewTruncatedError("OpenLog", path, "cannot open log", err)
	}
	l := &DivergenceLog{f: f, path: path}
	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, reflop.NewTruncatedError("OpenLog", path, "cannot create zstd writer", err)
		}
		l.enc = enc
		l.w = bufio.NewWriter(enc)
	} else {
		l.w = bufio.NewWriter(f)
	}
	return l, nil
}

// Record appends one divergence entry.
func (l *DivergenceLog) Record(typ reflop.NumericType, cat reflop.Category, file string, d Divergence) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "divergence at index %d (%s %s)\n", d.Index, typ.FileToken(), cat)
	fmt.Fprintf(l.w, "  %-24s%-26.17e(%s)\n", "baseline", d.Baseline, d.BaselineBits)
	fmt.Fprintf(l.w, "  %-24s%-26.17e(%s)\n", shortName(file), d.Observed, d.ObservedBits)
	if d.Distance == reflop.MaxULPDistance {
		fmt.Fprintf(l.w, "  %-24s%.10e (ULP distance maximal)\n\n", "difference", d.Diff())
	} else {
		fmt.Fprintf(l.w, "  %-24s%.10e (%d ULP)\n\n", "difference", d.Diff(), d.Distance)
	}
}

// Path returns the log file location.
func (l *DivergenceLog) Path() string { return l.path }

// Close flushes and closes the log.
func (l *DivergenceLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Flush(); err != nil {
		return reflop.NewTruncatedError("Close", l.path, "flush failed", err)
	}
	if l.enc != nil {
		if err := l.enc.Close(); err != nil {
			return reflop.NewTruncatedError("Close", l.path, "zstd close failed", err)
		}
	}
	if err := l.f.Close(); err != nil {
		return reflop.NewTruncatedError("Close", l.path, "close failed", err)
	}
	return nil
}

var _ io.Closer = (*DivergenceLog)(nil)
