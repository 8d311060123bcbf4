package image

import (
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/ops"
	"github.com/gogpu/rawtile/pixel"
	"github.com/gogpu/rawtile/tile"
)

// Image is a tiled image over a Storage.
type Image struct {
	store Storage

	// Ops is used for buffer operations on storage tiles. Nil means
	// ops.Reference.
	Ops ops.PixelOps
}

// New returns an Image over s.
func New(s Storage) *Image {
	return &Image{store: s}
}

// Alloc returns an Image backed by a new Memory storage.
func Alloc(bounds geom.Rect, planes int, t pixel.Type, opts ...MemoryOption) (*Image, error) {
	m, err := NewMemory(bounds, planes, t, opts...)
	if err != nil {
		return nil, err
	}
	return New(m), nil
}

// Storage returns the backing storage.
func (im *Image) Storage() Storage { return im.store }

// Bounds returns the image bounds.
func (im *Image) Bounds() geom.Rect { return im.store.Bounds() }

// Size returns the bounds size.
func (im *Image) Size() geom.Point { return im.Bounds().Size() }

// Width returns the bounds width.
func (im *Image) Width() int32 { return im.Bounds().W() }

// Height returns the bounds height.
func (im *Image) Height() int32 { return im.Bounds().H() }

// Planes returns the number of planes.
func (im *Image) Planes() int { return im.store.Planes() }

// PixelType returns the sample type.
func (im *Image) PixelType() pixel.Type { return im.store.PixelType() }

// PixelSize returns the sample size in bytes.
func (im *Image) PixelSize() int { return im.PixelType().Size() }

// PixelRange returns the largest integer sample value.
func (im *Image) PixelRange() uint32 { return im.PixelType().Range() }

// RepeatingTile returns the storage tile rect.
func (im *Image) RepeatingTile() geom.Rect { return im.store.RepeatingTile() }

func (im *Image) acquire(area geom.Rect, dirty bool) (*pixel.Buffer, error) {
	buf, err := im.store.AcquireTileBuffer(area, dirty)
	if err != nil {
		return nil, fmt.Errorf("image: acquire %v: %w", area, err)
	}
	buf.Ops = im.Ops
	return buf, nil
}

// doGet copies the pixels of buf.Area, which must lie inside the bounds,
// from storage into buf tile by tile.
func (im *Image) doGet(buf *pixel.Buffer) error {
	it := tile.New(im.RepeatingTile(), buf.Area)
	for t := range it.All() {
		tb, err := im.acquire(t, false)
		if err != nil {
			return err
		}
		err = buf.CopyArea(tb, t, buf.Plane, buf.Plane, buf.Planes)
		if rerr := im.store.ReleaseTileBuffer(tb); err == nil {
			err = rerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// doPut copies buf into storage tile by tile.
func (im *Image) doPut(buf *pixel.Buffer) error {
	it := tile.New(im.RepeatingTile(), buf.Area)
	for t := range it.All() {
		tb, err := im.acquire(t, true)
		if err != nil {
			return err
		}
		err = tb.CopyArea(buf, t, buf.Plane, buf.Plane, buf.Planes)
		if rerr := im.store.ReleaseTileBuffer(tb); err == nil {
			err = rerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (im *Image) checkPlanes(buf *pixel.Buffer) error {
	if buf.Plane < 0 || buf.Planes < 1 || buf.Plane+buf.Planes > im.Planes() {
		return fmt.Errorf("image: planes %d..%d of %d-plane image: %w",
			buf.Plane, buf.Plane+buf.Planes, im.Planes(), rawtile.ErrProgram)
	}
	return nil
}

// Get fills buf with the image pixels of buf.Area. Parts of the request
// outside the bounds are filled according to edge; for the repeat options
// the period is the repeatV rows and repeatH columns nearest each edge.
func (im *Image) Get(buf *pixel.Buffer, edge Edge, repeatV, repeatH int32) error {
	if err := im.checkPlanes(buf); err != nil {
		return err
	}
	bounds := im.Bounds()
	overlap := buf.Area.And(bounds)
	if overlap.NotEmpty() {
		if err := im.doGet(buf.Sub(overlap, buf.Plane, buf.Planes)); err != nil {
			return err
		}
	}
	if edge == EdgeNone || overlap == buf.Area {
		return nil
	}
	repeatV = max(1, min(repeatV, bounds.H()))
	repeatH = max(1, min(repeatH, bounds.W()))

	a := buf.Area
	areaT, areaL, areaB, areaR, areaH, areaV := a, a, a, a, a, a
	areaT.B = min(areaT.B, bounds.T)
	areaL.R = min(areaL.R, bounds.L)
	areaB.T = max(areaB.T, bounds.B)
	areaR.L = max(areaR.L, bounds.R)
	areaH.L = max(areaH.L, bounds.L)
	areaH.R = min(areaH.R, bounds.R)
	areaV.T = max(areaV.T, bounds.T)
	areaV.B = min(areaV.B, bounds.B)

	type region struct {
		src, dst geom.Rect
	}
	tm := areaT.And(areaH)
	lm := areaL.And(areaV)
	rm := areaR.And(areaV)
	bm := areaB.And(areaH)
	regions := []region{
		{geom.R(bounds.T, bounds.L, bounds.T+repeatV, bounds.L+repeatH), areaT.And(areaL)},
		{geom.R(bounds.T, tm.L, bounds.T+repeatV, tm.R), tm},
		{geom.R(bounds.T, bounds.R-repeatH, bounds.T+repeatV, bounds.R), areaT.And(areaR)},
		{geom.R(lm.T, bounds.L, lm.B, bounds.L+repeatH), lm},
		{geom.R(rm.T, bounds.R-repeatH, rm.B, bounds.R), rm},
		{geom.R(bounds.B-repeatV, bounds.L, bounds.B, bounds.L+repeatH), areaB.And(areaL)},
		{geom.R(bounds.B-repeatV, bm.L, bounds.B, bm.R), bm},
		{geom.R(bounds.B-repeatV, bounds.R-repeatH, bounds.B, bounds.R), areaB.And(areaR)},
	}
	for _, r := range regions {
		if r.dst.IsEmpty() {
			continue
		}
		if err := im.getEdge(buf, edge, r.src, r.dst); err != nil {
			return err
		}
	}
	return nil
}

func (im *Image) getEdge(buf *pixel.Buffer, edge Edge, srcArea, dstArea geom.Rect) error {
	switch edge {
	case EdgeZero:
		return buf.SetZero(dstArea, buf.Plane, buf.Planes)
	case EdgeRepeat:
		return im.getRepeat(buf, srcArea, dstArea)
	case EdgeRepeatZeroLast:
		if buf.Planes > 1 {
			head := *buf
			head.Planes--
			if err := im.getEdge(&head, EdgeRepeat, srcArea, dstArea); err != nil {
				return err
			}
		}
		last := buf.Sub(buf.Area, buf.Plane+buf.Planes-1, 1)
		return im.getEdge(last, EdgeZero, srcArea, dstArea)
	default:
		return fmt.Errorf("image: edge option %s: %w", edge, rawtile.ErrProgram)
	}
}

// getRepeat fills dstArea of buf by repeating srcArea of the image. When
// srcArea is not already in the buffer, one period is fetched into the
// top-left of dstArea first, in up to four pieces split at the phase.
func (im *Image) getRepeat(buf *pixel.Buffer, srcArea, dstArea geom.Rect) error {
	if srcArea.And(buf.Area) == srcArea {
		return buf.RepeatArea(srcArea, dstArea)
	}

	repeat := srcArea.Size()
	phase := pixel.RepeatPhase(srcArea, dstArea)
	newArea := srcArea.Add(dstArea.TL().Sub(srcArea.TL()))
	splitV := newArea.T + repeat.V - phase.V
	splitH := newArea.L + repeat.H - phase.H
	shift := srcArea.TL().Sub(dstArea.TL())

	quadrants := []struct {
		dst   geom.Rect
		phase geom.Point
	}{
		{geom.R(newArea.T, newArea.L, splitV, splitH), geom.Pt(phase.V, phase.H)},
		{geom.R(newArea.T, splitH, splitV, newArea.R), geom.Pt(phase.V, phase.H-repeat.H)},
		{geom.R(splitV, newArea.L, newArea.B, splitH), geom.Pt(phase.V-repeat.V, phase.H)},
		{geom.R(splitV, splitH, newArea.B, newArea.R), geom.Pt(phase.V-repeat.V, phase.H-repeat.H)},
	}
	for _, q := range quadrants {
		dst := q.dst.And(dstArea)
		if dst.IsEmpty() {
			continue
		}
		temp := buf.Sub(dst, buf.Plane, buf.Planes)
		temp.Area = dst.Add(shift.Add(q.phase))
		if err := im.doGet(temp); err != nil {
			return err
		}
	}
	period := newArea.And(dstArea)
	if period == dstArea {
		return nil
	}
	return buf.RepeatArea(period, dstArea)
}

// Put stores buf.Area of buf into the image. The area must lie inside the
// bounds.
func (im *Image) Put(buf *pixel.Buffer) error {
	if err := im.checkPlanes(buf); err != nil {
		return err
	}
	if !buf.Area.In(im.Bounds()) {
		return fmt.Errorf("image: put %v outside %v: %w", buf.Area, im.Bounds(), rawtile.ErrProgram)
	}
	return im.doPut(buf)
}

// Trim shrinks the bounds to r, which must lie inside the current bounds.
func (im *Image) Trim(r geom.Rect) error {
	if !r.In(im.Bounds()) || r.IsEmpty() {
		return fmt.Errorf("image: trim to %v from %v: %w", r, im.Bounds(), rawtile.ErrProgram)
	}
	t, ok := im.store.(Trimmer)
	if !ok {
		return fmt.Errorf("image: storage %T cannot trim: %w", im.store, rawtile.ErrProgram)
	}
	return t.Trim(r)
}

// SetConstant sets every sample of all planes inside area to the raw sample
// bits of value.
func (im *Image) SetConstant(value uint32, area geom.Rect) error {
	area = area.And(im.Bounds())
	it := tile.New(im.RepeatingTile(), area)
	for t := range it.All() {
		tb, err := im.acquire(t, true)
		if err != nil {
			return err
		}
		err = tb.SetConstant(t, 0, im.Planes(), value)
		if rerr := im.store.ReleaseTileBuffer(tb); err == nil {
			err = rerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SetZero zeroes area in all planes.
func (im *Image) SetZero(area geom.Rect) error {
	var v uint32
	if im.PixelType() == pixel.I16 {
		v = 0x8000
	}
	return im.SetConstant(v, area)
}

// CopyArea copies area of planes [srcPlane, srcPlane+planes) of src into
// planes starting at dstPlane of im, converting pixel types as needed.
func (im *Image) CopyArea(src *Image, area geom.Rect, srcPlane, dstPlane, planes int) error {
	area = area.And(im.Bounds()).And(src.Bounds())
	it := tile.New(im.RepeatingTile(), area)
	for t := range it.All() {
		tb, err := im.acquire(t, true)
		if err != nil {
			return err
		}
		dst := tb.Sub(t, dstPlane, planes)
		staged, err := pixel.Alloc(t, srcPlane, planes, src.PixelType(), pixel.Planar)
		if err == nil {
			staged.Ops = im.Ops
			err = src.Get(staged, EdgeNone, 0, 0)
		}
		if err == nil {
			err = dst.CopyArea(staged, t, srcPlane, dstPlane, planes)
		}
		if rerr := im.store.ReleaseTileBuffer(tb); err == nil {
			err = rerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// EqualArea reports whether im and other hold the same samples over area
// and planes.
func (im *Image) EqualArea(other *Image, area geom.Rect, plane, planes int) (bool, error) {
	d, err := im.MaximumDifference(other, area, plane, planes)
	return d == 0, err
}

// MaximumDifference returns the largest normalized sample difference
// between im and other over area and planes.
func (im *Image) MaximumDifference(other *Image, area geom.Rect, plane, planes int) (float64, error) {
	if im.PixelType() != other.PixelType() {
		return 0, fmt.Errorf("image: compare %s with %s: %w", im.PixelType(), other.PixelType(), rawtile.ErrProgram)
	}
	var worst float64
	it := tile.New(im.RepeatingTile(), area)
	for t := range it.All() {
		a, err := pixel.Alloc(t, plane, planes, im.PixelType(), pixel.Planar)
		if err != nil {
			return 0, err
		}
		b, err := pixel.Alloc(t, plane, planes, im.PixelType(), pixel.Planar)
		if err != nil {
			return 0, err
		}
		if err := im.Get(a, EdgeNone, 0, 0); err != nil {
			return 0, err
		}
		if err := other.Get(b, EdgeNone, 0, 0); err != nil {
			return 0, err
		}
		d, err := a.MaximumDifference(b, t, plane, planes)
		if err != nil {
			return 0, err
		}
		worst = max(worst, d)
	}
	return worst, nil
}
