package pixel

import (
	"fmt"
	"math"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/ops"
)

func (b *Buffer) walk(area geom.Rect, plane, planes int) (int, ops.Walk) {
	return OptimizeWalk(b.Offset(area.T, area.L, plane), ops.Walk{
		Rows:      int(area.H()),
		Cols:      int(area.W()),
		Planes:    planes,
		RowStep:   b.RowStep,
		ColStep:   b.ColStep,
		PlaneStep: b.PlaneStep,
	})
}

// SetConstant fills area and planes [plane, plane+planes) with the raw
// sample bits of value. For F32 buffers value is the IEEE bit pattern.
func (b *Buffer) SetConstant(area geom.Rect, plane, planes int, value uint32) error {
	if area.IsEmpty() || planes <= 0 {
		return nil
	}
	off, w := b.walk(area, plane, planes)
	b.Dirty = true
	switch b.PixelSize() {
	case 1:
		b.ops().SetArea8(view[uint8](b.Data), off, uint8(value), w)
	case 2:
		b.ops().SetArea16(view[uint16](b.Data), off, uint16(value), w)
	case 4:
		b.ops().SetArea32(view[uint32](b.Data), off, value, w)
	default:
		return fmt.Errorf("pixel: set constant on %s buffer: %w", b.Type, rawtile.ErrProgram)
	}
	return nil
}

// SetConstantF32 fills an F32 buffer area with v.
func (b *Buffer) SetConstantF32(area geom.Rect, plane, planes int, v float32) error {
	if b.Type != F32 {
		return fmt.Errorf("pixel: float constant on %s buffer: %w", b.Type, rawtile.ErrProgram)
	}
	return b.SetConstant(area, plane, planes, math.Float32bits(v))
}

// SetZero fills an area with the type's zero: 0x8000 for I16, 0 otherwise.
func (b *Buffer) SetZero(area geom.Rect, plane, planes int) error {
	var value uint32
	if b.Type == I16 {
		value = 0x8000
	}
	return b.SetConstant(area, plane, planes, value)
}

// CopyArea copies area from src planes [srcPlane, srcPlane+planes) into
// b planes [dstPlane, dstPlane+planes), converting between pixel types.
//
// Integer to float conversions divide by the source range; float to integer
// conversions multiply by the destination range and round. Narrowing integer
// conversions keep the low bits.
func (b *Buffer) CopyArea(src *Buffer, area geom.Rect, srcPlane, dstPlane, planes int) error {
	if area.IsEmpty() || planes <= 0 {
		return nil
	}
	sOff, dOff, w := OptimizeOrder(
		src.Offset(area.T, area.L, srcPlane),
		b.Offset(area.T, area.L, dstPlane),
		ops.CopyWalk{
			Rows:         int(area.H()),
			Cols:         int(area.W()),
			Planes:       planes,
			SrcRowStep:   src.RowStep,
			SrcColStep:   src.ColStep,
			SrcPlaneStep: src.PlaneStep,
			DstRowStep:   b.RowStep,
			DstColStep:   b.ColStep,
			DstPlaneStep: b.PlaneStep,
		})
	b.Dirty = true
	o := b.ops()
	st, dt := src.Type, b.Type

	if st == dt || (st.Size() == dt.Size() && !st.IsFloat() && !dt.IsFloat() && st != I16 && dt != I16) {
		switch dt.Size() {
		case 1:
			o.CopyArea8(view[uint8](src.Data), sOff, view[uint8](b.Data), dOff, w)
		case 2:
			o.CopyArea16(view[uint16](src.Data), sOff, view[uint16](b.Data), dOff, w)
		case 4:
			o.CopyArea32(view[uint32](src.Data), sOff, view[uint32](b.Data), dOff, w)
		default:
			return unsupported(st, dt)
		}
		return nil
	}

	switch st {
	case U8:
		s := view[uint8](src.Data)
		switch dt {
		case U16:
			o.CopyArea8To16(s, sOff, view[uint16](b.Data), dOff, w)
		case I16:
			o.CopyArea8ToS16(s, sOff, view[int16](b.Data), dOff, w)
		case U32:
			o.CopyArea8To32(s, sOff, view[uint32](b.Data), dOff, w)
		case F32:
			o.CopyArea8ToR32(s, sOff, view[float32](b.Data), dOff, w, src.PixelRange())
		default:
			return unsupported(st, dt)
		}
	case U16:
		s := view[uint16](src.Data)
		switch dt {
		case U8:
			b.copyLowPart(src, sOff, dOff, w)
		case I16:
			o.CopyArea16ToS16(s, sOff, view[int16](b.Data), dOff, w)
		case U32:
			o.CopyArea16To32(s, sOff, view[uint32](b.Data), dOff, w)
		case F32:
			o.CopyArea16ToR32(s, sOff, view[float32](b.Data), dOff, w, src.PixelRange())
		default:
			return unsupported(st, dt)
		}
	case I16:
		s := view[int16](src.Data)
		switch dt {
		case U8:
			b.copyLowPart(src, sOff, dOff, w)
		case U16:
			o.CopyAreaS16To16(s, sOff, view[uint16](b.Data), dOff, w)
		case F32:
			o.CopyAreaS16ToR32(s, sOff, view[float32](b.Data), dOff, w, src.PixelRange())
		default:
			return unsupported(st, dt)
		}
	case U32:
		switch dt {
		case U8, U16:
			b.copyLowPart(src, sOff, dOff, w)
		case F32:
			o.CopyArea32ToR32(view[uint32](src.Data), sOff, view[float32](b.Data), dOff, w, src.PixelRange())
		default:
			return unsupported(st, dt)
		}
	case F32:
		s := view[float32](src.Data)
		switch dt {
		case U8:
			o.CopyAreaR32To8(s, sOff, view[uint8](b.Data), dOff, w, b.PixelRange())
		case U16:
			o.CopyAreaR32To16(s, sOff, view[uint16](b.Data), dOff, w, b.PixelRange())
		case I16:
			o.CopyAreaR32ToS16(s, sOff, view[int16](b.Data), dOff, w, b.PixelRange())
		default:
			return unsupported(st, dt)
		}
	default:
		return unsupported(st, dt)
	}
	return nil
}

func unsupported(st, dt Type) error {
	return fmt.Errorf("pixel: copy %s to %s: %w", st, dt, rawtile.ErrProgram)
}

// copyLowPart copies the least significant part of wider integer samples by
// viewing the source as an array of destination-sized elements.
func (b *Buffer) copyLowPart(src *Buffer, sOff, dOff int, w ops.CopyWalk) {
	ratio := src.PixelSize() / b.PixelSize()
	low := lowPart * (ratio - 1)
	w.SrcRowStep *= ratio
	w.SrcColStep *= ratio
	w.SrcPlaneStep *= ratio
	sOff = sOff*ratio + low
	if b.PixelSize() == 1 {
		b.ops().CopyArea8(view[uint8](src.Data), sOff, view[uint8](b.Data), dOff, w)
		return
	}
	b.ops().CopyArea16(view[uint16](src.Data), sOff, view[uint16](b.Data), dOff, w)
}

// CopyPlanes copies the same plane range of area from src.
func (b *Buffer) CopyPlanes(src *Buffer, area geom.Rect, plane, planes int) error {
	return b.CopyArea(src, area, plane, plane, planes)
}

// EqualArea reports whether the samples of area and planes match in b and
// src. Both buffers must share a pixel type.
func (b *Buffer) EqualArea(src *Buffer, area geom.Rect, plane, planes int) (bool, error) {
	if src.Type != b.Type {
		return false, fmt.Errorf("pixel: compare %s with %s: %w", src.Type, b.Type, rawtile.ErrProgram)
	}
	if area.IsEmpty() || planes <= 0 {
		return true, nil
	}
	sOff, dOff, w := b.copyWalk(src, area, plane, planes)
	o := b.ops()
	switch b.PixelSize() {
	case 1:
		return o.EqualArea8(view[uint8](src.Data), sOff, view[uint8](b.Data), dOff, w), nil
	case 2:
		return o.EqualArea16(view[uint16](src.Data), sOff, view[uint16](b.Data), dOff, w), nil
	case 4:
		return o.EqualArea32(view[uint32](src.Data), sOff, view[uint32](b.Data), dOff, w), nil
	default:
		return false, unsupported(src.Type, b.Type)
	}
}

func (b *Buffer) copyWalk(src *Buffer, area geom.Rect, plane, planes int) (int, int, ops.CopyWalk) {
	return OptimizeOrder(
		src.Offset(area.T, area.L, plane),
		b.Offset(area.T, area.L, plane),
		ops.CopyWalk{
			Rows:         int(area.H()),
			Cols:         int(area.W()),
			Planes:       planes,
			SrcRowStep:   src.RowStep,
			SrcColStep:   src.ColStep,
			SrcPlaneStep: src.PlaneStep,
			DstRowStep:   b.RowStep,
			DstColStep:   b.ColStep,
			DstPlaneStep: b.PlaneStep,
		})
}

// MaximumDifference returns the largest absolute sample difference between
// b and src over area and planes. Integer differences are divided by the
// type range so the result is comparable across types.
func (b *Buffer) MaximumDifference(src *Buffer, area geom.Rect, plane, planes int) (float64, error) {
	if src.Type != b.Type {
		return 0, fmt.Errorf("pixel: difference of %s and %s: %w", src.Type, b.Type, rawtile.ErrProgram)
	}
	if area.IsEmpty() || planes <= 0 {
		return 0, nil
	}
	sOff, dOff, w := b.copyWalk(src, area, plane, planes)
	o := b.ops()
	var worst float64
	switch b.Type {
	case U8:
		worst = o.MaximumDifference8(view[uint8](src.Data), sOff, view[uint8](b.Data), dOff, w)
	case U16:
		worst = o.MaximumDifference16(view[uint16](src.Data), sOff, view[uint16](b.Data), dOff, w)
	case I16:
		worst = o.MaximumDifferenceS16(view[int16](src.Data), sOff, view[int16](b.Data), dOff, w)
	case U32:
		worst = o.MaximumDifference32(view[uint32](src.Data), sOff, view[uint32](b.Data), dOff, w)
	case F32:
		worst = o.MaximumDifferenceR32(view[float32](src.Data), sOff, view[float32](b.Data), dOff, w)
	default:
		for row := area.T; row < area.B; row++ {
			for col := area.L; col < area.R; col++ {
				for p := plane; p < plane+planes; p++ {
					worst = max(worst, math.Abs(b.Get(row, col, p)-src.Get(row, col, p)))
				}
			}
		}
	}
	if r := b.PixelRange(); r != 0 {
		worst /= float64(r)
	}
	return worst, nil
}

// RepeatPhase returns the phase within srcArea at which a repeat fill of
// dstArea starts.
func RepeatPhase(srcArea, dstArea geom.Rect) geom.Point {
	rv, rh := srcArea.H(), srcArea.W()
	var p geom.Point
	if srcArea.T >= dstArea.T {
		p.V = (rv - (srcArea.T-dstArea.T)%rv) % rv
	} else {
		p.V = (dstArea.T - srcArea.T) % rv
	}
	if srcArea.L >= dstArea.L {
		p.H = (rh - (srcArea.L-dstArea.L)%rh) % rh
	} else {
		p.H = (dstArea.L - srcArea.L) % rh
	}
	return p
}

// RepeatArea tiles the contents of srcArea over dstArea, keeping the phase
// so that every pixel equals the source pixel at the same position modulo
// the source size.
func (b *Buffer) RepeatArea(srcArea, dstArea geom.Rect) error {
	if dstArea.IsEmpty() || srcArea.IsEmpty() {
		return nil
	}
	phase := RepeatPhase(srcArea, dstArea)
	w := ops.Walk{
		Rows:      int(dstArea.H()),
		Cols:      int(dstArea.W()),
		Planes:    b.Planes,
		RowStep:   b.RowStep,
		ColStep:   b.ColStep,
		PlaneStep: b.PlaneStep,
	}
	r := ops.Repeat{
		V:      int(srcArea.H()),
		H:      int(srcArea.W()),
		PhaseV: int(phase.V),
		PhaseH: int(phase.H),
	}
	sOff := b.Offset(srcArea.T, srcArea.L, b.Plane)
	dOff := b.Offset(dstArea.T, dstArea.L, b.Plane)
	b.Dirty = true
	switch b.PixelSize() {
	case 1:
		b.ops().RepeatArea8(view[uint8](b.Data), sOff, dOff, w, r)
	case 2:
		b.ops().RepeatArea16(view[uint16](b.Data), sOff, dOff, w, r)
	case 4:
		b.ops().RepeatArea32(view[uint32](b.Data), sOff, dOff, w, r)
	default:
		return fmt.Errorf("pixel: repeat on %s buffer: %w", b.Type, rawtile.ErrProgram)
	}
	return nil
}

// RepeatSubArea fills everything outside subArea by repeating the
// repeatV rows and repeatH columns just inside each edge of subArea.
func (b *Buffer) RepeatSubArea(subArea geom.Rect, repeatV, repeatH int32) error {
	a := b.Area
	if a.T < subArea.T {
		if err := b.RepeatArea(geom.R(subArea.T, a.L, subArea.T+repeatV, a.R), geom.R(a.T, a.L, subArea.T, a.R)); err != nil {
			return err
		}
	}
	if a.B > subArea.B {
		if err := b.RepeatArea(geom.R(subArea.B-repeatV, a.L, subArea.B, a.R), geom.R(subArea.B, a.L, a.B, a.R)); err != nil {
			return err
		}
	}
	if a.L < subArea.L {
		if err := b.RepeatArea(geom.R(a.T, subArea.L, a.B, subArea.L+repeatH), geom.R(a.T, a.L, a.B, subArea.L)); err != nil {
			return err
		}
	}
	if a.R > subArea.R {
		if err := b.RepeatArea(geom.R(a.T, subArea.R-repeatH, a.B, subArea.R), geom.R(a.T, subArea.R, a.B, a.R)); err != nil {
			return err
		}
	}
	return nil
}

// ShiftRight shifts every U16 sample of the buffer right by shift bits.
func (b *Buffer) ShiftRight(shift uint) error {
	if b.Type != U16 {
		return fmt.Errorf("pixel: shift %s buffer: %w", b.Type, rawtile.ErrProgram)
	}
	off, w := b.walk(b.Area, b.Plane, b.Planes)
	b.Dirty = true
	b.ops().ShiftRight16(view[uint16](b.Data), off, w, shift)
	return nil
}
