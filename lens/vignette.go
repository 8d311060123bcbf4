package lens

import (
	"context"
	"fmt"
	"math"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/color"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/pixel"
	"github.com/gogpu/rawtile/task"
)

// VignetteTerms is the number of radial vignette coefficients.
const VignetteTerms = 5

// VignetteParams describes a radial gain 1 + k0 r^2 + k1 r^4 + ... + k4 r^10
// around an optical center given in normalized image coordinates.
type VignetteParams struct {
	Terms  [VignetteTerms]float64
	Center geom.RealPoint
}

// DefaultVignetteParams returns the identity vignette centered in the image.
func DefaultVignetteParams() VignetteParams {
	return VignetteParams{Center: geom.RealPoint{V: 0.5, H: 0.5}}
}

// IsNOP reports whether every coefficient is zero.
func (p *VignetteParams) IsNOP() bool {
	return p.Terms == [VignetteTerms]float64{}
}

// IsValid reports whether the center lies inside the image.
func (p *VignetteParams) IsValid() bool {
	return validCenter(p.Center)
}

// Gain returns the gain at squared normalized radius r2.
func (p *VignetteParams) Gain(r2 float64) float64 {
	var sum float64
	for i := VignetteTerms - 1; i >= 0; i-- {
		sum = r2 * (p.Terms[i] + sum)
	}
	return sum + 1
}

// gainCurve adapts VignetteParams to color.Function over r^2 in [0, 1].
type gainCurve struct {
	p *VignetteParams
}

func (g gainCurve) Evaluate(x float64) float64 { return g.p.Gain(x) }

func (g gainCurve) EvaluateInverse(y float64) float64 { return color.SolveInverse(g, y) }

// Fixed point precision of the mask coordinates.
const fixedOne = 1 << 32

func toFixed64(x float64) int64 {
	return int64(math.Round(x * fixedOne))
}

// VignetteTask multiplies every plane by a radial gain mask. It works on
// signed 16-bit staging buffers and keeps one mask buffer per thread.
type VignetteTask struct {
	*task.Filter

	params VignetteParams

	originH, originV int64
	stepH, stepV     int64

	inputBits  uint
	outputBits uint
	table      []uint16

	alloc      task.Allocator
	maskBlocks [][]byte
}

// NewVignetteTask prepares a vignette correction of src into dst. bounds is
// the image area the optical center refers to; aspectRatio is the pixel
// width over height, zero meaning square pixels.
func NewVignetteTask(src, dst *image.Image, params VignetteParams, bounds geom.Rect, aspectRatio float64) (*VignetteTask, error) {
	if !params.IsValid() {
		return nil, fmt.Errorf("%w: vignette center %v", rawtile.ErrBadFormat, params.Center)
	}
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("%w: vignette bounds %v", rawtile.ErrBadFormat, bounds)
	}
	if src.PixelType() != pixel.U16 && src.PixelType() != pixel.I16 {
		return nil, fmt.Errorf("%w: vignette of %s image", rawtile.ErrBadFormat, src.PixelType())
	}
	if dst.Planes() < 1 || dst.Planes() > MaxPlanes {
		return nil, fmt.Errorf("lens: vignette of %d planes: %w", dst.Planes(), rawtile.ErrProgram)
	}
	if aspectRatio <= 0 {
		aspectRatio = 1
	}
	v := &VignetteTask{params: params}

	b := bounds.Real()
	center := geom.RealPoint{
		V: geom.Lerp(b.T, b.B, params.Center.V),
		H: geom.Lerp(b.L, b.R, params.Center.H),
	}
	pixelScaleV := 1 / aspectRatio
	radius := math.Hypot(
		max(math.Abs(center.V-b.T), math.Abs(center.V-b.B))*pixelScaleV,
		max(math.Abs(center.H-b.L), math.Abs(center.H-b.R)),
	)
	v.originH = toFixed64(-center.H / radius)
	v.originV = toFixed64(-center.V * pixelScaleV / radius)
	v.stepH = toFixed64(1 / radius)
	v.stepV = toFixed64(pixelScaleV / radius)
	v.originH += v.stepH >> 1
	v.originV += v.stepV >> 1

	if err := v.buildTable(); err != nil {
		return nil, err
	}

	v.Filter = task.NewFilter(src, dst, v)
	v.SrcPlanes, v.DstPlanes = dst.Planes(), dst.Planes()
	v.SrcType, v.DstType = pixel.I16, pixel.I16
	return v, nil
}

// buildTable tabulates the gain over r^2 with 16 input bits. The output
// keeps as many of 15 fractional bits as the largest gain allows.
func (v *VignetteTask) buildTable() error {
	table32, err := color.NewTable1D(gainCurve{&v.params}, false)
	if err != nil {
		return err
	}
	maxScale := float64(max(table32.Interpolate(0), table32.Interpolate(1)))

	v.inputBits = 16
	v.outputBits = 15
	for float64(int(1)<<v.outputBits)*maxScale > 65535 {
		v.outputBits--
	}

	entries := 1<<v.inputBits + 1
	v.table = make([]uint16, entries)
	scale0 := float32(1) / float32(int(1)<<v.inputBits)
	scale1 := float32(int(1) << v.outputBits)
	for i := range v.table {
		y := table32.Interpolate(float32(i)*scale0) * scale1
		v.table[i] = uint16(math.Round(float64(max(y, 0))))
	}
	return nil
}

// Prepare implements the task.Filter hook. It allocates one u16 mask per
// thread.
func (v *VignetteTask) Prepare(threadCount int, tileSize geom.Point, alloc task.Allocator) error {
	v.alloc = alloc
	_, _, _, elems := pixel.Steps(pixel.Planar, geom.RectOfSize(tileSize), 1)
	v.maskBlocks = make([][]byte, threadCount)
	for i := range v.maskBlocks {
		var err error
		if v.maskBlocks[i], err = alloc.Allocate(elems * pixel.U16.Size()); err != nil {
			return err
		}
	}
	rawtile.Logger().Debug("lens: vignette start",
		"threads", threadCount,
		"tile", tileSize,
		"outputBits", v.outputBits)
	return nil
}

// Cleanup implements the task.Filter hook.
func (v *VignetteTask) Cleanup(int) error {
	for _, b := range v.maskBlocks {
		v.alloc.Release(b)
	}
	v.maskBlocks = nil
	return nil
}

// ProcessArea implements task.Processor. The source tile is scaled in place
// and copied to the destination.
func (v *VignetteTask) ProcessArea(threadIndex int, src, dst *pixel.Buffer) error {
	area := dst.Area
	mask, err := pixel.New(area, 0, 1, pixel.U16, pixel.Planar, v.maskBlocks[threadIndex])
	if err != nil {
		return err
	}
	m, err := mask.U16()
	if err != nil {
		return err
	}
	s, err := src.I16()
	if err != nil {
		return err
	}
	o := v.Ops()
	o.VignetteMask16(m, int(area.H()), int(area.W()), mask.RowStep,
		v.originH+v.stepH*int64(area.L),
		v.originV+v.stepV*int64(area.T),
		v.stepH, v.stepV, v.inputBits, v.table)
	o.Vignette16(s, src.Offset(area.T, area.L, src.Plane), m,
		int(area.H()), int(area.W()), src.Planes,
		src.RowStep, src.PlaneStep, mask.RowStep, v.outputBits)
	if err := dst.CopyArea(src, area, src.Plane, dst.Plane, dst.Planes); err != nil {
		return err
	}
	dst.Dirty = true
	return nil
}

// Vignette applies params to src, writing dst, over the bounds of src.
func Vignette(ctx context.Context, h *task.Host, src, dst *image.Image, params VignetteParams, aspectRatio float64) error {
	v, err := NewVignetteTask(src, dst, params, src.Bounds(), aspectRatio)
	if err != nil {
		return err
	}
	return h.PerformAreaTask(ctx, v, src.Bounds())
}
