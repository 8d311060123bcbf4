// Package pixel provides typed, strided, non-owning views over raw pixel
// memory together with the fill, copy, compare and repeat primitives that
// every tile operation in rawtile is built from.
//
// A Buffer addresses a rectangle of pixels across a range of planes. Strides
// are expressed in elements and may be negative, which is how FlipH, FlipV
// and FlipZ mirror a buffer without copying. All bulk loops normalize their
// traversal with OptimizeOrder before calling into ops.PixelOps.
package pixel

// Type represents a pixel sample type.
type Type uint8

const (
	// U8 is an unsigned 8-bit sample.
	U8 Type = iota

	// I8 is a signed 8-bit sample.
	I8

	// U16 is an unsigned 16-bit sample.
	U16

	// I16 is a signed 16-bit sample stored as offset binary relative to U16:
	// the U16 value x is stored as int16(x ^ 0x8000).
	I16

	// U32 is an unsigned 32-bit sample.
	U32

	// I32 is a signed 32-bit sample.
	I32

	// F32 is a 32-bit float sample, nominally in [0,1].
	F32

	// F64 is a 64-bit float sample, nominally in [0,1].
	F64

	// typeCount is the number of types (for internal use).
	typeCount
)

// TypeInfo contains metadata about a pixel type.
type TypeInfo struct {
	// Size is the number of bytes per sample.
	Size int

	// Range is the largest integer sample value, or 0 for floats.
	Range uint32

	// Signed indicates a signed integer type.
	Signed bool

	// Float indicates a floating point type.
	Float bool
}

// typeInfoTable contains metadata for each type.
var typeInfoTable = [typeCount]TypeInfo{
	U8:  {Size: 1, Range: 0xFF},
	I8:  {Size: 1, Range: 0xFF, Signed: true},
	U16: {Size: 2, Range: 0xFFFF},
	I16: {Size: 2, Range: 0xFFFF, Signed: true},
	U32: {Size: 4, Range: 0xFFFFFFFF},
	I32: {Size: 4, Range: 0xFFFFFFFF, Signed: true},
	F32: {Size: 4, Float: true},
	F64: {Size: 8, Float: true},
}

// Info returns the TypeInfo for this type.
func (t Type) Info() TypeInfo {
	if t >= typeCount {
		return TypeInfo{}
	}
	return typeInfoTable[t]
}

// Size returns the number of bytes per sample.
func (t Type) Size() int {
	return t.Info().Size
}

// Range returns the largest integer sample value, or 0 for float types.
func (t Type) Range() uint32 {
	return t.Info().Range
}

// IsFloat reports whether t is a floating point type.
func (t Type) IsFloat() bool {
	return t.Info().Float
}

// IsValid returns true if the type is a known type.
func (t Type) IsValid() bool {
	return t < typeCount
}

// String returns a string representation of the type.
func (t Type) String() string {
	switch t {
	case U8:
		return "u8"
	case I8:
		return "i8"
	case U16:
		return "u16"
	case I16:
		return "i16"
	case U32:
		return "u32"
	case I32:
		return "i32"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// ParseType parses the String form of a type.
func ParseType(s string) (Type, bool) {
	for t := range typeCount {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// Elem is the set of Go element types a Buffer can be viewed as.
type Elem interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | float32 | float64
}

// TypeOf returns the pixel Type of the element type T.
func TypeOf[T Elem]() Type {
	var z T
	switch any(z).(type) {
	case uint8:
		return U8
	case int8:
		return I8
	case uint16:
		return U16
	case int16:
		return I16
	case uint32:
		return U32
	case int32:
		return I32
	case float32:
		return F32
	default:
		return F64
	}
}
