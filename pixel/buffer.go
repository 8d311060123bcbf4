package pixel

import (
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/ops"
)

// Layout selects how planes are arranged when a Buffer allocates or wraps
// contiguous memory.
type Layout uint8

const (
	// Interleaved stores all planes of a pixel next to each other.
	Interleaved Layout = iota

	// Planar stores each plane as its own image.
	Planar

	// RowInterleaved stores one row of each plane, then the next row.
	RowInterleaved
)

// Buffer is a non-owning typed view of pixel memory.
//
// The element at index Origin of the typed view of Data is the sample at
// (Area.T, Area.L, Plane). Steps are in elements and may be negative.
type Buffer struct {
	Area      geom.Rect
	Plane     int
	Planes    int
	RowStep   int
	ColStep   int
	PlaneStep int
	Type      Type
	Data      []byte
	Origin    int

	// Dirty is set by every mutating operation.
	Dirty bool

	// Ops is the bottleneck table used by bulk operations. Nil means
	// ops.Reference.
	Ops ops.PixelOps
}

// Steps computes the element strides of a packed buffer of the given area
// width, height and plane count.
func Steps(layout Layout, area geom.Rect, planes int) (rowStep, colStep, planeStep, elems int) {
	w, h := int(area.W()), int(area.H())
	switch layout {
	case Planar:
		rowStep = int(geom.RoundUp8(int32(w)))
		return rowStep, 1, rowStep * h, rowStep * h * planes
	case RowInterleaved:
		stride := int(geom.RoundUp8(int32(w)))
		return stride * planes, 1, stride, stride * planes * h
	default:
		return w * planes, planes, 1, w * planes * h
	}
}

// New wraps data as a packed buffer. The data must be at least as large as
// the layout requires.
func New(area geom.Rect, plane, planes int, t Type, layout Layout, data []byte) (*Buffer, error) {
	if !t.IsValid() || planes < 1 {
		return nil, fmt.Errorf("pixel: new %s buffer with %d planes: %w", t, planes, rawtile.ErrProgram)
	}
	rowStep, colStep, planeStep, elems := Steps(layout, area, planes)
	if len(data) < elems*t.Size() {
		return nil, fmt.Errorf("pixel: %d bytes for %d elements of %s: %w",
			len(data), elems, t, rawtile.ErrProgram)
	}
	return &Buffer{
		Area:      area,
		Plane:     plane,
		Planes:    planes,
		RowStep:   rowStep,
		ColStep:   colStep,
		PlaneStep: planeStep,
		Type:      t,
		Data:      data,
	}, nil
}

// Alloc allocates a packed buffer.
func Alloc(area geom.Rect, plane, planes int, t Type, layout Layout) (*Buffer, error) {
	_, _, _, elems := Steps(layout, area, planes)
	data, err := NewBlock(elems * t.Size())
	if err != nil {
		return nil, err
	}
	return New(area, plane, planes, t, layout, data)
}

// PixelSize returns the size of one sample in bytes.
func (b *Buffer) PixelSize() int {
	return b.Type.Size()
}

// PixelRange returns the largest integer sample value for the buffer type.
func (b *Buffer) PixelRange() uint32 {
	return b.Type.Range()
}

// Offset returns the element index of the sample at (row, col, plane).
func (b *Buffer) Offset(row, col int32, plane int) int {
	return b.Origin +
		int(row-b.Area.T)*b.RowStep +
		int(col-b.Area.L)*b.ColStep +
		(plane-b.Plane)*b.PlaneStep
}

func (b *Buffer) ops() ops.PixelOps {
	return ops.Or(b.Ops)
}

// Slice returns the typed view of a Buffer's data. It fails with
// rawtile.ErrProgram when T does not match the buffer type.
func Slice[T Elem](b *Buffer) ([]T, error) {
	if t := TypeOf[T](); t != b.Type {
		return nil, fmt.Errorf("pixel: %s view of %s buffer: %w", t, b.Type, rawtile.ErrProgram)
	}
	return view[T](b.Data), nil
}

// U8 returns the uint8 view.
func (b *Buffer) U8() ([]uint8, error) { return Slice[uint8](b) }

// U16 returns the uint16 view.
func (b *Buffer) U16() ([]uint16, error) { return Slice[uint16](b) }

// I16 returns the int16 view.
func (b *Buffer) I16() ([]int16, error) { return Slice[int16](b) }

// U32 returns the uint32 view.
func (b *Buffer) U32() ([]uint32, error) { return Slice[uint32](b) }

// F32 returns the float32 view.
func (b *Buffer) F32() ([]float32, error) { return Slice[float32](b) }

// Get returns the sample at (row, col, plane) converted to float64 without
// range scaling.
func (b *Buffer) Get(row, col int32, plane int) float64 {
	i := b.Offset(row, col, plane)
	switch b.Type {
	case U8:
		return float64(view[uint8](b.Data)[i])
	case I8:
		return float64(view[int8](b.Data)[i])
	case U16:
		return float64(view[uint16](b.Data)[i])
	case I16:
		return float64(view[int16](b.Data)[i])
	case U32:
		return float64(view[uint32](b.Data)[i])
	case I32:
		return float64(view[int32](b.Data)[i])
	case F32:
		return float64(view[float32](b.Data)[i])
	default:
		return view[float64](b.Data)[i]
	}
}

// Set stores v at (row, col, plane), truncating towards the buffer type.
func (b *Buffer) Set(row, col int32, plane int, v float64) {
	i := b.Offset(row, col, plane)
	b.Dirty = true
	switch b.Type {
	case U8:
		view[uint8](b.Data)[i] = uint8(v)
	case I8:
		view[int8](b.Data)[i] = int8(v)
	case U16:
		view[uint16](b.Data)[i] = uint16(v)
	case I16:
		view[int16](b.Data)[i] = int16(v)
	case U32:
		view[uint32](b.Data)[i] = uint32(v)
	case I32:
		view[int32](b.Data)[i] = int32(v)
	case F32:
		view[float32](b.Data)[i] = float32(v)
	default:
		view[float64](b.Data)[i] = v
	}
}

// FlipH mirrors the buffer horizontally by negating its column step.
func (b *Buffer) FlipH() {
	b.Origin = b.Offset(b.Area.T, b.Area.R-1, b.Plane)
	b.ColStep = -b.ColStep
}

// FlipV mirrors the buffer vertically by negating its row step.
func (b *Buffer) FlipV() {
	b.Origin = b.Offset(b.Area.B-1, b.Area.L, b.Plane)
	b.RowStep = -b.RowStep
}

// FlipZ reverses the plane order by negating the plane step.
func (b *Buffer) FlipZ() {
	b.Origin = b.Offset(b.Area.T, b.Area.L, b.Plane+b.Planes-1)
	b.PlaneStep = -b.PlaneStep
}

// Sub returns a view of the same memory restricted to area and planes
// [plane, plane+planes).
func (b *Buffer) Sub(area geom.Rect, plane, planes int) *Buffer {
	s := *b
	s.Area = area
	s.Plane = plane
	s.Planes = planes
	s.Origin = b.Offset(area.T, area.L, plane)
	return &s
}

func (b *Buffer) String() string {
	return fmt.Sprintf("pixel.Buffer{%v planes %d..%d %s steps %d,%d,%d}",
		b.Area, b.Plane, b.Plane+b.Planes, b.Type, b.RowStep, b.ColStep, b.PlaneStep)
}
