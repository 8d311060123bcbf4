package mosaic

import (
	"context"
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/ops"
	"github.com/gogpu/rawtile/pixel"
	"github.com/gogpu/rawtile/task"
)

// maxGenericTile bounds the destination tiles of the bilinear interpolator.
const maxGenericTile = 128

// phase returns x modulo n in [0, n).
func phase(x int32, n int) int {
	return int(x - geom.FloorDiv(x, int32(n))*int32(n))
}

// genericTask is the full-scale bilinear interpolator. Its kernels hold
// fixed buffer offsets, so every thread stages the source in a buffer of one
// fixed row step.
type genericTask struct {
	task.Base

	info     *Info
	src      *image.Image
	dst      *image.Image
	srcPlane int
	typ      pixel.Type
	shift    geom.Point
	stage    geom.Point

	patterns []*bilinearPattern

	ops       ops.PixelOps
	alloc     task.Allocator
	srcBlocks [][]byte
	dstBlocks [][]byte
}

func newGenericTask(info *Info, src, dst *image.Image, srcPlane int) *genericTask {
	scale := info.FullScale()
	g := &genericTask{
		info:     info,
		src:      src,
		dst:      dst,
		srcPlane: srcPlane,
		typ:      pixel.F32,
		shift:    geom.Pt(scale.V-1, scale.H-1),
	}
	if dst.PixelType() == pixel.U16 {
		g.typ = pixel.U16
	}
	g.Cell = scale
	g.MaxTile = geom.Pt(maxGenericTile, maxGenericTile)
	g.Tile1 = dst.RepeatingTile()
	return g
}

// SetOps implements task.OpsUser.
func (g *genericTask) SetOps(o ops.PixelOps) { g.ops = o }

// Start implements task.AreaTask.
func (g *genericTask) Start(threadCount int, tileSize geom.Point, alloc task.Allocator, _ task.Sniffer) error {
	if alloc == nil {
		alloc = task.HeapAllocator{}
	}
	g.alloc = alloc
	ps := g.info.CFAPatternSize
	g.stage = geom.Pt(tileSize.V>>g.shift.V+2*ps.V, tileSize.H>>g.shift.H+2*ps.H)

	rowStep, colStep, _, srcElems := pixel.Steps(pixel.Planar, geom.RectOfSize(g.stage), 1)
	_, _, _, dstElems := pixel.Steps(pixel.Planar, geom.RectOfSize(tileSize), g.info.ColorPlanes)

	g.patterns = make([]*bilinearPattern, g.info.ColorPlanes)
	for plane := range g.patterns {
		p, err := newBilinearPattern(g.info, plane, rowStep, colStep)
		if err != nil {
			return err
		}
		g.patterns[plane] = p
	}

	g.srcBlocks = make([][]byte, threadCount)
	g.dstBlocks = make([][]byte, threadCount)
	for i := range threadCount {
		var err error
		if g.srcBlocks[i], err = alloc.Allocate(srcElems * g.typ.Size()); err != nil {
			return err
		}
		if g.dstBlocks[i], err = alloc.Allocate(dstElems * g.typ.Size()); err != nil {
			return err
		}
	}
	rawtile.Logger().Debug("mosaic: bilinear start",
		"pattern", g.info.String(),
		"layout", g.info.CFALayout,
		"threads", threadCount,
		"tile", tileSize,
		"stage", g.stage,
		"type", g.typ.String())
	return nil
}

// Process implements task.AreaTask.
func (g *genericTask) Process(threadIndex int, area geom.Rect, _ task.Sniffer) error {
	ps := g.info.CFAPatternSize
	srcArea := geom.R(
		area.T>>g.shift.V, area.L>>g.shift.H,
		area.B>>g.shift.V, area.R>>g.shift.H,
	).Inset(-ps.V, -ps.H)
	if srcArea.H() > g.stage.V || srcArea.W() > g.stage.H {
		return fmt.Errorf("mosaic: source %v exceeds stage %v: %w", srcArea, g.stage, rawtile.ErrProgram)
	}

	stage, err := pixel.New(geom.RectOfSize(g.stage).Add(srcArea.TL()),
		g.srcPlane, 1, g.typ, pixel.Planar, g.srcBlocks[threadIndex])
	if err != nil {
		return err
	}
	src := stage.Sub(srcArea, g.srcPlane, 1)
	src.Ops = g.ops
	if err := g.src.Get(src, image.EdgeRepeat, ps.V, ps.H); err != nil {
		return err
	}

	dst, err := pixel.New(area, 0, g.info.ColorPlanes, g.typ, pixel.Planar, g.dstBlocks[threadIndex])
	if err != nil {
		return err
	}
	dst.Ops = g.ops
	if err := g.interpolate(src, dst); err != nil {
		return err
	}
	return g.dst.Put(dst)
}

func (g *genericTask) interpolate(src, dst *pixel.Buffer) error {
	o := ops.Or(g.ops)
	area := dst.Area
	patRows := g.patterns[0].patRows
	patCols := g.patterns[0].patCols
	patPhase := phase(area.L, patCols)
	srcCol := area.L >> g.shift.H
	cols := int(area.W())
	sShift := uint(g.shift.H)

	switch g.typ {
	case pixel.U16:
		s, err := src.U16()
		if err != nil {
			return err
		}
		d, err := dst.U16()
		if err != nil {
			return err
		}
		for row := area.T; row < area.B; row++ {
			sOff := src.Offset(row>>g.shift.V, srcCol, g.srcPlane)
			patRow := phase(row, patRows)
			for plane, p := range g.patterns {
				o.BilinearRow16(s, sOff, d, dst.Offset(row, area.L, plane),
					cols, patPhase, patCols, &p.rows[patRow], sShift)
			}
		}
	default:
		s, err := src.F32()
		if err != nil {
			return err
		}
		d, err := dst.F32()
		if err != nil {
			return err
		}
		for row := area.T; row < area.B; row++ {
			sOff := src.Offset(row>>g.shift.V, srcCol, g.srcPlane)
			patRow := phase(row, patRows)
			for plane, p := range g.patterns {
				o.BilinearRow32(s, sOff, d, dst.Offset(row, area.L, plane),
					cols, patPhase, patCols, &p.rows[patRow], sShift)
			}
		}
	}
	dst.Dirty = true
	return nil
}

// Finish implements task.AreaTask.
func (g *genericTask) Finish(int) error {
	for i := range g.srcBlocks {
		g.alloc.Release(g.srcBlocks[i])
		g.alloc.Release(g.dstBlocks[i])
	}
	g.srcBlocks, g.dstBlocks = nil, nil
	return nil
}

// fastTask averages each color of the pattern over downscale cells.
type fastTask struct {
	*task.Filter

	info      *Info
	downScale geom.Point
	color     [MaxCFAPattern][MaxCFAPattern]int
}

func newFastTask(info *Info, src, dst *image.Image, downScale geom.Point, srcPlane int) *fastTask {
	f := &fastTask{info: info, downScale: downScale}
	f.Filter = task.NewFilter(src, dst, f)
	f.SrcPlane = srcPlane
	f.SrcPlanes = 1
	f.SrcType = pixel.U16
	f.DstPlane = 0
	f.DstPlanes = info.ColorPlanes
	f.DstType = pixel.U16
	f.SrcRepeat = info.CFAPatternSize
	f.Cell = info.CFAPatternSize
	f.MaxTile = geom.Pt(
		max(256/downScale.V, f.Cell.V),
		max(256/downScale.H, f.Cell.H),
	)
	for r := range info.CFAPatternSize.V {
		for c := range info.CFAPatternSize.H {
			f.color[r][c] = max(0, info.planeOf(info.CFAPattern[r][c]))
		}
	}
	return f
}

// SrcArea maps a destination area to its downscale cells.
func (f *fastTask) SrcArea(dst geom.Rect) geom.Rect {
	return geom.R(
		dst.T*f.downScale.V, dst.L*f.downScale.H,
		dst.B*f.downScale.V, dst.R*f.downScale.H,
	)
}

// SrcTileSize scales a destination tile size by the downscale factor.
func (f *fastTask) SrcTileSize(tileSize geom.Point) geom.Point {
	return geom.Pt(tileSize.V*f.downScale.V, tileSize.H*f.downScale.H)
}

// ProcessArea implements task.Processor.
func (f *fastTask) ProcessArea(_ int, src, dst *pixel.Buffer) error {
	s, err := src.U16()
	if err != nil {
		return err
	}
	d, err := dst.U16()
	if err != nil {
		return err
	}
	patRows := int(f.info.CFAPatternSize.V)
	patCols := int(f.info.CFAPatternSize.H)
	cellRows := int(f.downScale.V)
	cellCols := int(f.downScale.H)
	planes := f.info.ColorPlanes

	var total, count [MaxColorPlanes]uint32
	rowPhase := phase(src.Area.T, patRows)
	srcRow := src.Area.T
	for dstRow := dst.Area.T; dstRow < dst.Area.B; dstRow++ {
		sOff := src.Offset(srcRow, src.Area.L, f.SrcPlane)
		dOff := dst.Offset(dstRow, dst.Area.L, 0)
		colPhase := phase(src.Area.L, patCols)
		nextRowPhase := rowPhase
		for range dst.Area.W() {
			ss := sOff
			rp := rowPhase
			cp := colPhase
			for range cellRows {
				colors := &f.color[rp]
				if rp++; rp == patRows {
					rp = 0
				}
				cp = colPhase
				for c := range cellCols {
					color := colors[cp]
					if cp++; cp == patCols {
						cp = 0
					}
					total[color] += uint32(s[ss+c])
					count[color]++
				}
				ss += src.RowStep
			}
			for plane := range planes {
				var v uint16
				if c := count[plane]; c > 0 {
					v = uint16((total[plane] + c>>1) / c)
				}
				d[dOff+plane*dst.PlaneStep] = v
				total[plane], count[plane] = 0, 0
			}
			colPhase = cp
			nextRowPhase = rp
			sOff += cellCols * src.ColStep
			dOff += dst.ColStep
		}
		rowPhase = nextRowPhase
		srcRow += f.downScale.V
	}
	dst.Dirty = true
	return nil
}

// Interpolate demosaics plane srcPlane of src into the ColorPlanes planes of
// dst. A downScale of (1, 1) runs the bilinear interpolator at FullScale;
// larger factors average every downScale cell and require a 16-bit source
// and destination.
func (i *Info) Interpolate(ctx context.Context, h *task.Host, src, dst *image.Image, downScale geom.Point, srcPlane int) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if dst.Planes() != i.ColorPlanes {
		return fmt.Errorf("%w: destination has %d planes, want %d", rawtile.ErrBadFormat, dst.Planes(), i.ColorPlanes)
	}
	if srcPlane < 0 || srcPlane >= src.Planes() {
		return fmt.Errorf("%w: source plane %d of %d", rawtile.ErrBadFormat, srcPlane, src.Planes())
	}
	if downScale == geom.Pt(1, 1) {
		return i.InterpolateGeneric(ctx, h, src, dst, srcPlane)
	}
	return i.InterpolateFast(ctx, h, src, dst, downScale, srcPlane)
}

// InterpolateGeneric runs the full-scale bilinear interpolator over the
// bounds of dst.
func (i *Info) InterpolateGeneric(ctx context.Context, h *task.Host, src, dst *image.Image, srcPlane int) error {
	g := newGenericTask(i, src, dst, srcPlane)
	return h.PerformAreaTask(ctx, g, dst.Bounds())
}

// InterpolateFast averages every downScale cell of src into one pixel of
// dst. The factor must be safe for the pattern.
func (i *Info) InterpolateFast(ctx context.Context, h *task.Host, src, dst *image.Image, downScale geom.Point, srcPlane int) error {
	if downScale.V < 1 || downScale.H < 1 || !i.IsSafeDownScale(downScale) {
		return fmt.Errorf("%w: downscale %v drops colors of pattern %s", rawtile.ErrBadFormat, downScale, i)
	}
	f := newFastTask(i, src, dst, downScale, srcPlane)
	return h.PerformAreaTask(ctx, f, dst.Bounds())
}
