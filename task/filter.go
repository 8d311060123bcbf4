package task

import (
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/ops"
	"github.com/gogpu/rawtile/pixel"
)

// Processor computes one destination tile from its source buffer.
//
// A Processor may also implement any of
//
//	SrcArea(dst geom.Rect) geom.Rect
//	SrcTileSize(tileSize geom.Point) geom.Point
//	Prepare(threadCount int, tileSize geom.Point, alloc Allocator) error
//	Cleanup(threadCount int) error
//
// to declare extra source margin, size the source staging buffers, and set
// up or release per-thread scratch memory.
type Processor interface {
	ProcessArea(threadIndex int, src, dst *pixel.Buffer) error
}

type srcAreaer interface {
	SrcArea(dst geom.Rect) geom.Rect
}

type srcTileSizer interface {
	SrcTileSize(tileSize geom.Point) geom.Point
}

type preparer interface {
	Prepare(threadCount int, tileSize geom.Point, alloc Allocator) error
}

type cleaner interface {
	Cleanup(threadCount int) error
}

// OpsUser is implemented by tasks that accept the host's PixelOps.
type OpsUser interface {
	SetOps(o ops.PixelOps)
}

// Filter is an AreaTask that reads Src with edge padding, hands planar
// source and destination buffers to a Processor, and writes the result to
// Dst. Concrete filters embed *Filter and pass themselves as the Processor.
type Filter struct {
	Base

	Src *image.Image
	Dst *image.Image

	SrcPlane  int
	SrcPlanes int
	SrcType   pixel.Type

	DstPlane  int
	DstPlanes int
	DstType   pixel.Type

	// SrcRepeat is the period used to pad source reads past Src bounds.
	SrcRepeat geom.Point

	// Edge is the padding mode for source reads.
	Edge image.Edge

	proc  Processor
	ops   ops.PixelOps
	alloc Allocator

	srcBlocks [][]byte
	dstBlocks [][]byte
}

// NewFilter returns a filter over all planes of src and dst with the
// images' own pixel types, a 1x1 repeat period and EdgeRepeat padding.
func NewFilter(src, dst *image.Image, proc Processor) *Filter {
	return &Filter{
		Src:       src,
		Dst:       dst,
		SrcPlanes: src.Planes(),
		SrcType:   src.PixelType(),
		DstPlanes: dst.Planes(),
		DstType:   dst.PixelType(),
		SrcRepeat: geom.Pt(1, 1),
		Edge:      image.EdgeRepeat,
		proc:      proc,
	}
}

// SetOps implements OpsUser.
func (f *Filter) SetOps(o ops.PixelOps) { f.ops = o }

// Ops returns the PixelOps used for staging buffers.
func (f *Filter) Ops() ops.PixelOps { return ops.Or(f.ops) }

// srcArea returns the source area needed for the destination area dst.
// It must stay unexported: a processor embedding *Filter would otherwise
// satisfy srcAreaer through it and recurse.
func (f *Filter) srcArea(dst geom.Rect) geom.Rect {
	if s, ok := f.proc.(srcAreaer); ok {
		return s.SrcArea(dst)
	}
	return dst
}

// srcTileSize returns the largest source area size needed for a
// destination tile of tileSize.
func (f *Filter) srcTileSize(tileSize geom.Point) geom.Point {
	if s, ok := f.proc.(srcTileSizer); ok {
		return s.SrcTileSize(tileSize)
	}
	return tileSize
}

func blockSize(size geom.Point, planes int, t pixel.Type) int {
	_, _, _, elems := pixel.Steps(pixel.Planar, geom.RectOfSize(size), planes)
	return elems * t.Size()
}

// Start implements AreaTask. It allocates one source and one destination
// staging buffer per thread.
func (f *Filter) Start(threadCount int, tileSize geom.Point, alloc Allocator, _ Sniffer) error {
	if f.proc == nil {
		return fmt.Errorf("task: filter without processor: %w", rawtile.ErrProgram)
	}
	if alloc == nil {
		alloc = HeapAllocator{}
	}
	f.alloc = alloc
	srcSize := blockSize(f.srcTileSize(tileSize), f.SrcPlanes, f.SrcType)
	dstSize := blockSize(tileSize, f.DstPlanes, f.DstType)

	f.srcBlocks = make([][]byte, threadCount)
	f.dstBlocks = make([][]byte, threadCount)
	for i := range threadCount {
		var err error
		if f.srcBlocks[i], err = alloc.Allocate(srcSize); err != nil {
			return err
		}
		if f.dstBlocks[i], err = alloc.Allocate(dstSize); err != nil {
			return err
		}
	}
	rawtile.Logger().Debug("task: filter start",
		"threads", threadCount,
		"tile", tileSize,
		"srcBlock", srcSize,
		"dstBlock", dstSize)

	if p, ok := f.proc.(preparer); ok {
		return p.Prepare(threadCount, tileSize, alloc)
	}
	return nil
}

// Process implements AreaTask.
func (f *Filter) Process(threadIndex int, area geom.Rect, _ Sniffer) error {
	srcArea := f.srcArea(area)
	src, err := pixel.New(srcArea, f.SrcPlane, f.SrcPlanes, f.SrcType, pixel.Planar, f.srcBlocks[threadIndex])
	if err != nil {
		return fmt.Errorf("task: source buffer for %v: %w", srcArea, err)
	}
	dst, err := pixel.New(area, f.DstPlane, f.DstPlanes, f.DstType, pixel.Planar, f.dstBlocks[threadIndex])
	if err != nil {
		return fmt.Errorf("task: destination buffer for %v: %w", area, err)
	}
	src.Ops = f.ops
	dst.Ops = f.ops

	if err := f.Src.Get(src, f.Edge, f.SrcRepeat.V, f.SrcRepeat.H); err != nil {
		return err
	}
	if err := f.proc.ProcessArea(threadIndex, src, dst); err != nil {
		return err
	}
	return f.Dst.Put(dst)
}

// Finish implements AreaTask. It returns the staging buffers to the
// allocator.
func (f *Filter) Finish(threadCount int) error {
	for i := range f.srcBlocks {
		f.alloc.Release(f.srcBlocks[i])
		f.alloc.Release(f.dstBlocks[i])
	}
	f.srcBlocks, f.dstBlocks = nil, nil
	if c, ok := f.proc.(cleaner); ok {
		return c.Cleanup(threadCount)
	}
	return nil
}
