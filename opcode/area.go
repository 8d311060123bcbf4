package opcode

import (
	"context"
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/pixel"
	"github.com/gogpu/rawtile/task"
)

// AreaSpec selects the pixels an in-place opcode touches: a rectangle, a
// plane range and a row and column pitch. An empty Area covers the whole
// image.
type AreaSpec struct {
	Area     geom.Rect `yaml:"area"`
	Plane    int       `yaml:"plane"`
	Planes   int       `yaml:"planes"`
	RowPitch int32     `yaml:"rowPitch"`
	ColPitch int32     `yaml:"colPitch"`
}

// WholeImage returns a spec covering every pixel of every plane up to
// planes.
func WholeImage(planes int) AreaSpec {
	return AreaSpec{Planes: planes, RowPitch: 1, ColPitch: 1}
}

// Validate checks the plane count and pitches.
func (a *AreaSpec) Validate() error {
	switch {
	case a.Plane < 0 || a.Planes < 1:
		return fmt.Errorf("opcode: area planes %d..%d: %w", a.Plane, a.Plane+a.Planes, rawtile.ErrBadFormat)
	case a.RowPitch < 1 || a.ColPitch < 1:
		return fmt.Errorf("opcode: area pitch %dx%d: %w", a.RowPitch, a.ColPitch, rawtile.ErrBadFormat)
	case a.Area.IsEmpty() && (a.RowPitch != 1 || a.ColPitch != 1):
		return fmt.Errorf("opcode: whole image area with pitch %dx%d: %w", a.RowPitch, a.ColPitch, rawtile.ErrBadFormat)
	}
	return nil
}

func (a *AreaSpec) get(r *reader) error {
	a.Area.T = r.int32()
	a.Area.L = r.int32()
	a.Area.B = r.int32()
	a.Area.R = r.int32()
	a.Plane = int(r.uint32())
	a.Planes = int(r.uint32())
	a.RowPitch = int32(r.uint32())
	a.ColPitch = int32(r.uint32())
	if r.err != nil {
		return r.err
	}
	return a.Validate()
}

func (a *AreaSpec) put(w *writer) {
	w.int32(a.Area.T)
	w.int32(a.Area.L)
	w.int32(a.Area.B)
	w.int32(a.Area.R)
	w.uint32(uint32(a.Plane))
	w.uint32(uint32(a.Planes))
	w.uint32(uint32(a.RowPitch))
	w.uint32(uint32(a.ColPitch))
}

// Overlap returns the part of tile the spec touches, trimmed so that its
// top left and bottom right pixels lie on the pitch grid.
func (a *AreaSpec) Overlap(tile geom.Rect) geom.Rect {
	if a.Area.IsEmpty() {
		return tile
	}
	overlap := a.Area.And(tile)
	if overlap.IsEmpty() {
		return geom.Rect{}
	}
	overlap.T = a.Area.T + geom.CeilDiv(overlap.T-a.Area.T, a.RowPitch)*a.RowPitch
	overlap.L = a.Area.L + geom.CeilDiv(overlap.L-a.Area.L, a.ColPitch)*a.ColPitch
	if overlap.IsEmpty() {
		return geom.Rect{}
	}
	overlap.B = overlap.T + (overlap.H()-1)/a.RowPitch*a.RowPitch + 1
	overlap.R = overlap.L + (overlap.W()-1)/a.ColPitch*a.ColPitch + 1
	return overlap
}

// rows returns the number of pitch rows in the spec area.
func (a *AreaSpec) rows() int32 { return geom.CeilDiv(a.Area.H(), a.RowPitch) }

// cols returns the number of pitch columns in the spec area.
func (a *AreaSpec) cols() int32 { return geom.CeilDiv(a.Area.W(), a.ColPitch) }

// planeRange returns the planes of buf the spec touches.
func (a *AreaSpec) planeRange(buf *pixel.Buffer) (first, last int) {
	return a.Plane, min(a.Plane+a.Planes, buf.Plane+buf.Planes)
}

// inPlaceTask runs an in-place correction over the tiles of one image.
// Each tile is staged in the correction's pixel type.
type inPlaceTask struct {
	*task.Filter

	spec    AreaSpec
	process func(buf *pixel.Buffer, overlap geom.Rect) error
}

// ProcessArea implements task.Processor.
func (t *inPlaceTask) ProcessArea(_ int, src, dst *pixel.Buffer) error {
	if err := dst.CopyArea(src, dst.Area, src.Plane, dst.Plane, dst.Planes); err != nil {
		return err
	}
	if overlap := t.spec.Overlap(dst.Area); !overlap.IsEmpty() {
		return t.process(dst, overlap)
	}
	return nil
}

// applyInPlace stages the tiles of im covered by spec as typ, runs process
// on each and writes them back.
func applyInPlace(ctx context.Context, env *Env, im *image.Image, spec AreaSpec, typ pixel.Type,
	process func(buf *pixel.Buffer, overlap geom.Rect) error,
) (*image.Image, error) {
	bounds := spec.Overlap(im.Bounds())
	if bounds.IsEmpty() {
		return im, nil
	}
	t := &inPlaceTask{spec: spec, process: process}
	t.Filter = task.NewFilter(im, im, t)
	t.SrcType, t.DstType = typ, typ
	if err := env.Host.PerformAreaTask(ctx, t, bounds); err != nil {
		return nil, err
	}
	return im, nil
}

// sampleRange returns the stored value that maps to 1.0 in float staging.
func sampleRange(t pixel.Type) (float64, error) {
	switch t {
	case pixel.F32:
		return 1, nil
	case pixel.U16:
		return 0xFFFF, nil
	default:
		return 0, fmt.Errorf("opcode: float correction of %s image: %w", t, rawtile.ErrBadFormat)
	}
}
