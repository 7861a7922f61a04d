package reflop

import "fmt"

// NumericType identifies one of the three floating-point widths a trace
// can be recorded in.
type NumericType int

const (
	// Single is IEEE-754 binary32, 4 bytes on disk.
	Single NumericType = iota
	// Double is IEEE-754 binary64, 8 bytes on disk.
	Double
	// Extended is the legacy 80-bit extended format, always 10 bytes on
	// disk regardless of its in-memory storage width.
	Extended
)

// ByteWidth returns the on-disk size of one element of this type.
func (t NumericType) ByteWidth() int {
	switch t {
	case Single:
		return 4
	case Double:
		return 8
	case Extended:
		return 10
	}
	return 0
}

// Code returns the wire encoding of the type used in the file header.
func (t NumericType) Code() uint32 {
	return uint32(t)
}

// TypeFromCode maps a header type code back to a NumericType.
func TypeFromCode(code uint32) (NumericType, error) {
	switch code {
	case 0, 1, 2:
		return NumericType(code), nil
	}
	return 0, NewInvalidArgError("TypeFromCode", fmt.Sprintf("unknown type code %d", code))
}

// FileToken returns the token used in golden file names for this type.
func (t NumericType) FileToken() string {
	switch t {
	case Single:
		return "simple"
	case Double:
		return "double"
	case Extended:
		return "extended"
	}
	return "unknown"
}

func (t NumericType) String() string {
	switch t {
	case Single:
		return "Single"
	case Double:
		return "Double"
	case Extended:
		return "Extended"
	}
	return fmt.Sprintf("NumericType(%d)", int(t))
}

// Category identifies one of the three trace sequences recorded per type.
type Category int

const (
	// Basic is the arithmetic recurrence with no math-library calls.
	Basic Category = iota
	// EdgeCase drives values through denormals, overflow and the
	// canonical special values.
	EdgeCase
	// MathLib exercises a fixed composition of transcendental functions.
	MathLib
)

// Categories lists all trace categories in recording order.
var Categories = [...]Category{Basic, EdgeCase, MathLib}

// Flag returns the wire encoding of the category used in the file header.
func (c Category) Flag() uint32 {
	return uint32(c)
}

// CategoryFromFlag maps a header category flag back to a Category.
func CategoryFromFlag(flag uint32) (Category, error) {
	switch flag {
	case 0, 1, 2:
		return Category(flag), nil
	}
	return 0, NewInvalidArgError("CategoryFromFlag", fmt.Sprintf("unknown category flag %d", flag))
}

// Suffix returns the file-name suffix for this category.
func (c Category) Suffix() string {
	switch c {
	case Basic:
		return "basic"
	case EdgeCase:
		return "nan"
	case MathLib:
		return "lib"
	}
	return "unknown"
}

// Steps returns the fixed number of elements a trace of this category
// contains. The counts are format-compatibility constants, not tunables.
func (c Category) Steps() int {
	switch c {
	case Basic:
		return BasicSteps
	case EdgeCase:
		return EdgeCaseSteps
	case MathLib:
		return MathLibSteps
	}
	return 0
}

func (c Category) String() string {
	switch c {
	case Basic:
		return "basic"
	case EdgeCase:
		return "edge-case"
	case MathLib:
		return "math-library"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}
