package resample

import (
	"context"
	"fmt"
	"math"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/ops"
	"github.com/gogpu/rawtile/pixel"
	"github.com/gogpu/rawtile/task"
)

// Task resamples srcBounds of one image onto dstBounds of another.
type Task struct {
	*task.Filter

	srcBounds geom.Rect
	dstBounds geom.Rect

	rowScale float64
	colScale float64

	rowCoords *Coords
	colCoords *Coords

	rowWeights *Weights
	colWeights *Weights

	pixelRange uint32
	rowElems   int
	alloc      task.Allocator
	rowBlocks  [][]byte
}

// NewTask prepares a resample of srcBounds of src onto dstBounds of dst
// with kernel k. The common planes of both images are resampled.
func NewTask(src, dst *image.Image, srcBounds, dstBounds geom.Rect, k Kernel) (*Task, error) {
	if srcBounds.IsEmpty() || dstBounds.IsEmpty() {
		return nil, fmt.Errorf("resample: %v to %v: %w", srcBounds, dstBounds, rawtile.ErrProgram)
	}
	if k == nil {
		k = Bicubic{}
	}
	t := &Task{
		srcBounds: srcBounds,
		dstBounds: dstBounds,
		rowScale:  float64(dstBounds.H()) / float64(srcBounds.H()),
		colScale:  float64(dstBounds.W()) / float64(srcBounds.W()),
		rowCoords: NewCoords(srcBounds.T, srcBounds.H(), dstBounds.T, dstBounds.H()),
		colCoords: NewCoords(srcBounds.L, srcBounds.W(), dstBounds.L, dstBounds.W()),
	}
	var err error
	if t.rowWeights, err = CachedWeights(t.rowScale, k); err != nil {
		return nil, err
	}
	if t.colWeights, err = CachedWeights(t.colScale, k); err != nil {
		return nil, err
	}

	t.Filter = task.NewFilter(src, dst, t)
	planes := min(src.Planes(), dst.Planes())
	typ := pixel.F32
	if src.PixelType() == pixel.U16 && dst.PixelType() == pixel.U16 {
		typ = pixel.U16
		t.pixelRange = dst.PixelRange()
	}
	t.SrcPlanes, t.DstPlanes = planes, planes
	t.SrcType, t.DstType = typ, typ

	// Keep source tiles near the default tile size when shrinking.
	t.MaxTile = geom.Pt(tileFor(t.rowScale), tileFor(t.colScale))
	return t, nil
}

func tileFor(scale float64) int32 {
	return min(max(int32(task.DefaultMaxTileSize*scale), 32), task.DefaultMaxTileSize)
}

// SrcArea returns the source pixels under the kernels of dst.
func (t *Task) SrcArea(dst geom.Rect) geom.Rect {
	ov, oh := t.rowWeights.Offset(), t.colWeights.Offset()
	return geom.R(
		t.rowCoords.Pixel(dst.T)+ov,
		t.colCoords.Pixel(dst.L)+oh,
		t.rowCoords.Pixel(dst.B-1)+ov+int32(t.rowWeights.Width),
		t.colCoords.Pixel(dst.R-1)+oh+int32(t.colWeights.Width),
	)
}

// SrcTileSize bounds the source area of any tile of tileSize.
func (t *Task) SrcTileSize(tileSize geom.Point) geom.Point {
	return geom.Pt(
		srcSpan(tileSize.V, t.rowScale, t.rowWeights.Width),
		srcSpan(tileSize.H, t.colScale, t.colWeights.Width),
	)
}

func srcSpan(n int32, scale float64, width int) int32 {
	return int32(math.Ceil(float64(n)/scale)) + int32(width) + 1
}

// Prepare implements the task.Filter hook. It allocates one row buffer per
// thread.
func (t *Task) Prepare(threadCount int, tileSize geom.Point, alloc task.Allocator) error {
	t.alloc = alloc
	cols := t.SrcTileSize(tileSize).H
	_, _, _, t.rowElems = pixel.Steps(pixel.Planar, geom.R(0, 0, 1, cols), 1)
	t.rowBlocks = make([][]byte, threadCount)
	for i := range t.rowBlocks {
		var err error
		if t.rowBlocks[i], err = alloc.Allocate(t.rowElems * t.SrcType.Size()); err != nil {
			return err
		}
	}
	rawtile.Logger().Debug("resample: start",
		"src", t.srcBounds,
		"dst", t.dstBounds,
		"radiusV", t.rowWeights.Radius,
		"radiusH", t.colWeights.Radius,
		"type", t.SrcType.String())
	return nil
}

// Cleanup implements the task.Filter hook.
func (t *Task) Cleanup(int) error {
	for _, b := range t.rowBlocks {
		t.alloc.Release(b)
	}
	t.rowBlocks = nil
	return nil
}

// ProcessArea implements task.Processor.
func (t *Task) ProcessArea(threadIndex int, src, dst *pixel.Buffer) error {
	row, err := pixel.New(geom.R(0, src.Area.L, 1, src.Area.R), 0, 1, t.SrcType, pixel.Planar, t.rowBlocks[threadIndex])
	if err != nil {
		return err
	}
	if t.SrcType == pixel.U16 {
		err = t.process16(src, dst, row)
	} else {
		err = t.process32(src, dst, row)
	}
	if err != nil {
		return err
	}
	dst.Dirty = true
	return nil
}

func (t *Task) process16(src, dst, row *pixel.Buffer) error {
	s, err := src.U16()
	if err != nil {
		return err
	}
	d, err := dst.U16()
	if err != nil {
		return err
	}
	tmp, err := row.U16()
	if err != nil {
		return err
	}
	o := t.Ops()
	srcCols := int(src.Area.W())
	dstCols := int(dst.Area.W())
	tOff := int(t.colWeights.Offset() - src.Area.L)
	cols := t.colCoords.Span(dst.Area.L, dst.Area.R)
	for dstRow := dst.Area.T; dstRow < dst.Area.B; dstRow++ {
		rc := t.rowCoords.At(dstRow)
		weights := t.rowWeights.Phase16(int(rc & ops.SubsampleMask))
		srcRow := rc>>ops.SubsampleBits + t.rowWeights.Offset()
		for plane := range dst.Planes {
			sOff := src.Offset(srcRow, src.Area.L, src.Plane+plane)
			o.ResampleDown16(s, sOff, tmp, srcCols, src.RowStep, weights, t.pixelRange)
			dOff := dst.Offset(dstRow, dst.Area.L, dst.Plane+plane)
			o.ResampleAcross16(tmp, tOff, d[dOff:dOff+dstCols], cols,
				t.colWeights.Weights16, t.colWeights.Width, t.colWeights.Step, t.pixelRange)
		}
	}
	return nil
}

func (t *Task) process32(src, dst, row *pixel.Buffer) error {
	s, err := src.F32()
	if err != nil {
		return err
	}
	d, err := dst.F32()
	if err != nil {
		return err
	}
	tmp, err := row.F32()
	if err != nil {
		return err
	}
	o := t.Ops()
	srcCols := int(src.Area.W())
	dstCols := int(dst.Area.W())
	tOff := int(t.colWeights.Offset() - src.Area.L)
	cols := t.colCoords.Span(dst.Area.L, dst.Area.R)
	for dstRow := dst.Area.T; dstRow < dst.Area.B; dstRow++ {
		rc := t.rowCoords.At(dstRow)
		weights := t.rowWeights.Phase32(int(rc & ops.SubsampleMask))
		srcRow := rc>>ops.SubsampleBits + t.rowWeights.Offset()
		for plane := range dst.Planes {
			sOff := src.Offset(srcRow, src.Area.L, src.Plane+plane)
			o.ResampleDown32(s, sOff, tmp, srcCols, src.RowStep, weights)
			dOff := dst.Offset(dstRow, dst.Area.L, dst.Plane+plane)
			o.ResampleAcross32(tmp, tOff, d[dOff:dOff+dstCols], cols,
				t.colWeights.Weights32, t.colWeights.Width, t.colWeights.Step)
		}
	}
	return nil
}

// Image resamples srcBounds of src onto dstBounds of dst. A nil kernel
// selects Bicubic.
func Image(ctx context.Context, h *task.Host, src, dst *image.Image, srcBounds, dstBounds geom.Rect, k Kernel) error {
	t, err := NewTask(src, dst, srcBounds, dstBounds, k)
	if err != nil {
		return err
	}
	return h.PerformAreaTask(ctx, t, dstBounds)
}
