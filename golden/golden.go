// Package golden reads and writes canonical floating-point trace files.
//
// A golden file is a fixed 24-byte header followed by elementCount
// fixed-width value records. Every field and every record is stored
// most-significant-byte first, so a file produced on any host is a
// byte-identical input on any other host regardless of native
// endianness. Extended-precision values always occupy exactly 10 bytes
// on disk irrespective of their in-memory storage width.
package golden

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/reflop/reflop"
)

var magic = [4]byte{'S', 'R', 'E', 'F'}

// Header is the fixed record at the start of every golden file.
type Header struct {
	Magic        [4]byte
	Version      uint32
	DataType     uint32 // 0=Single, 1=Double, 2=Extended
	DataSize     uint32 // bytes per element: 4, 8 or 10
	ElementCount uint32
	ExtraFlags   uint32 // category: 0=basic, 1=edge-case, 2=math-library
}

func (h Header) encode() [reflop.HeaderSize]byte {
	var buf [reflop.HeaderSize]byte
	copy(buf[0:4], h.Magic[:])
	binary.BigEndian.PutUint32(buf[4:8], h.Version)
	binary.BigEndian.PutUint32(buf[8:12], h.DataType)
	binary.BigEndian.PutUint32(buf[12:16], h.DataSize)
	binary.BigEndian.PutUint32(buf[16:20], h.ElementCount)
	binary.BigEndian.PutUint32(buf[20:24], h.ExtraFlags)
	return buf
}

func decodeHeader(buf [reflop.HeaderSize]byte) Header {
	var h Header
	copy(h.Magic[:], buf[0:4])
	h.Version = binary.BigEndian.Uint32(buf[4:8])
	h.DataType = binary.BigEndian.Uint32(buf[8:12])
	h.DataSize = binary.BigEndian.Uint32(buf[12:16])
	h.ElementCount = binary.BigEndian.Uint32(buf[16:20])
	h.ExtraFlags = binary.BigEndian.Uint32(buf[20:24])
	return h
}

// Writer emits one golden file. The element count is declared up front
// and enforced at Close: a finished file always has exactly as many
// records as its header promises.
type Writer struct {
	f        *os.File
	w        *bufio.Writer
	path     string
	typ      reflop.NumericType
	declared uint32
	written  uint32
	closed   bool
}

// Create opens path and writes the header for a trace of the given
// type, element count and category.
func Create(path string, typ reflop.NumericType, count uint32, cat reflop.Category) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, reflop.NewTruncatedError("Create", path, "cannot create file", err)
	}
	w := &Writer{
		f:        f,
		w:        bufio.NewWriter(f),
		path:     path,
		typ:      typ,
		declared: count,
	}
	hdr := Header{
		Magic:        magic,
		Version:      reflop.FormatVersion,
		DataType:     typ.Code(),
		DataSize:     uint32(typ.ByteWidth()),
		ElementCount: count,
		ExtraFlags:   cat.Flag(),
	}
	buf := hdr.encode()
	if _, err := w.w.Write(buf[:]); err != nil {
		f.Close()
		return nil, reflop.NewTruncatedError("Create", path, "cannot write header", err)
	}
	return w, nil
}

func (w *Writer) record(buf []byte) error {
	if w.written >= w.declared {
		return reflop.NewInvalidArgError("Write",
			fmt.Sprintf("%s: more than the declared %d elements", w.path, w.declared))
	}
	if _, err := w.w.Write(buf); err != nil {
		return reflop.NewTruncatedError("Write", w.path, "cannot write element", err)
	}
	w.written++
	return nil
}

// WriteFloat32 records one binary32 value, NaN and Inf included.
func (w *Writer) WriteFloat32(v float32) error {
	if w.typ != reflop.Single {
		return reflop.NewInvalidArgError("WriteFloat32", "file type is "+w.typ.String())
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(v))
	return w.record(buf[:])
}

// WriteFloat64 records one binary64 value, NaN and Inf included.
func (w *Writer) WriteFloat64(v float64) error {
	if w.typ != reflop.Double {
		return reflop.NewInvalidArgError("WriteFloat64", "file type is "+w.typ.String())
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	return w.record(buf[:])
}

// WriteExtended records one 80-bit value given as its canonical
// big-endian 10-byte pattern.
func (w *Writer) WriteExtended(bits [10]byte) error {
	if w.typ != reflop.Extended {
		return reflop.NewInvalidArgError("WriteExtended", "file type is "+w.typ.String())
	}
	return w.record(bits[:])
}

// Close flushes and closes the file. It fails when the number of
// written records differs from the declared element count.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	flushErr := w.w.Flush()
	closeErr := w.f.Close()
	if flushErr != nil {
		return reflop.NewTruncatedError("Close", w.path, "flush failed", flushErr)
	}
	if closeErr != nil {
		return reflop.NewTruncatedError("Close", w.path, "close failed", closeErr)
	}
	if w.written != w.declared {
		return reflop.NewInvalidArgError("Close",
			fmt.Sprintf("%s: wrote %d of %d declared elements", w.path, w.written, w.declared))
	}
	return nil
}

// File is a fully validated golden file held in memory.
type File struct {
	Path     string
	Header   Header
	Type     reflop.NumericType
	Category reflop.Category

	// records holds ElementCount * width bytes in canonical order.
	records []byte
}

// Len returns the number of elements.
func (f *File) Len() int { return int(f.Header.ElementCount) }

// Record returns the canonical bytes of element i.
func (f *File) Record(i int) []byte {
	w := f.Type.ByteWidth()
	return f.records[i*w : (i+1)*w]
}

// Bits32 returns element i as a binary32 bit pattern in host order.
func (f *File) Bits32(i int) uint32 {
	return binary.BigEndian.Uint32(f.Record(i))
}

// Bits64 returns element i as a binary64 bit pattern in host order.
func (f *File) Bits64(i int) uint64 {
	return binary.BigEndian.Uint64(f.Record(i))
}

// Float32s decodes the whole payload. Only valid for Single files.
func (f *File) Float32s() []float32 {
	out := make([]float32, f.Len())
	for i := range out {
		out[i] = math.Float32frombits(f.Bits32(i))
	}
	return out
}

// Float64s decodes the whole payload. Only valid for Double files.
func (f *File) Float64s() []float64 {
	out := make([]float64, f.Len())
	for i := range out {
		out[i] = math.Float64frombits(f.Bits64(i))
	}
	return out
}

// ReadAll reads and validates one golden file. It rejects a bad magic
// tag with a format error, a declared element width differing from the
// expected type's width with a type mismatch error, and any short read
// with a truncated file error. On error the result is always nil, never
// partial data.
func ReadAll(path string, want reflop.NumericType) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, reflop.NewTruncatedError("ReadAll", path, "cannot open file", err)
	}
	defer f.Close()

	var hbuf [reflop.HeaderSize]byte
	if _, err := io.ReadFull(f, hbuf[:]); err != nil {
		return nil, reflop.NewTruncatedError("ReadAll", path, "short header", err)
	}
	hdr := decodeHeader(hbuf)

	if hdr.Magic != magic {
		return nil, reflop.NewFormatError("ReadAll", path,
			fmt.Sprintf("bad magic tag %q", hdr.Magic[:]))
	}
	if hdr.Version != reflop.FormatVersion {
		return nil, reflop.NewFormatError("ReadAll", path,
			fmt.Sprintf("unsupported format version %d", hdr.Version))
	}
	if hdr.DataSize != uint32(want.ByteWidth()) {
		return nil, reflop.NewTypeMismatchError("ReadAll", path,
			fmt.Sprintf("declared element width %d, expected %d for %s",
				hdr.DataSize, want.ByteWidth(), want))
	}
	if hdr.DataType != want.Code() {
		return nil, reflop.NewTypeMismatchError("ReadAll", path,
			fmt.Sprintf("declared type code %d, expected %d for %s",
				hdr.DataType, want.Code(), want))
	}
	cat, err := reflop.CategoryFromFlag(hdr.ExtraFlags)
	if err != nil {
		return nil, reflop.NewFormatError("ReadAll", path,
			fmt.Sprintf("unknown category flag %d", hdr.ExtraFlags))
	}

	payload := make([]byte, int(hdr.ElementCount)*want.ByteWidth())
	if _, err := io.ReadFull(f, payload); err != nil {
		return nil, reflop.NewTruncatedError("ReadAll", path,
			fmt.Sprintf("short payload, wanted %d elements", hdr.ElementCount), err)
	}

	return &File{
		Path:     path,
		Header:   hdr,
		Type:     want,
		Category: cat,
		records:  payload,
	}, nil
}
