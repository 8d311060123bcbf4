package render

import (
	"fmt"
	"math"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/color"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/pixel"
	"github.com/gogpu/rawtile/task"
)

// Task renders a linear float image into the final color space. Source
// pixels are read at the destination position plus a fixed offset.
type Task struct {
	*task.Filter

	neg       Negative
	params    *Params
	srcOffset geom.Point

	cameraWhite  color.Vector
	cameraToRGB  color.Matrix
	hueSatMap    *color.HueSatMap
	exposureRamp *color.Table1D
	lookTable    *color.HueSatMap
	toneCurve    *color.Table1D
	rgbToFinal   color.Matrix
	encodeGamma  *color.Table1D

	alloc      task.Allocator
	tempBlocks [][]byte
}

// NewTask prepares a render of src into dst. srcOffset is the source
// position of the destination origin.
func NewTask(src, dst *image.Image, neg Negative, params *Params, srcOffset geom.Point) (*Task, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	switch src.Planes() {
	case 1, 3, 4:
	default:
		return nil, fmt.Errorf("render: %d source planes: %w", src.Planes(), rawtile.ErrBadFormat)
	}
	if dst.Planes() != params.FinalSpace.Planes() {
		return nil, fmt.Errorf("render: %d planes for %s output: %w", dst.Planes(), params.FinalSpace, rawtile.ErrProgram)
	}
	t := &Task{neg: neg, params: params, srcOffset: srcOffset}
	t.Filter = task.NewFilter(src, dst, t)
	t.SrcType, t.DstType = pixel.F32, pixel.F32
	return t, nil
}

// Name identifies the task in logs and metrics.
func (*Task) Name() string { return "render" }

// SrcArea implements the task.Filter hook.
func (t *Task) SrcArea(dst geom.Rect) geom.Rect { return dst.Add(t.srcOffset) }

// exposure returns the total exposure adjustment in stops.
func (t *Task) exposure() float64 {
	return t.params.Exposure + t.neg.BaselineExposure() - math.Log2(t.neg.Stage3Gain())
}

// whiteXY picks the white balance: the render override, the as shot
// neutral, the as shot white and finally D55.
func (t *Task) whiteXY(spec *color.Spec) (color.XY, error) {
	if t.params.WhiteXY.IsValid() {
		return t.params.WhiteXY, nil
	}
	if neutral, ok := t.neg.CameraNeutral(); ok {
		return spec.NeutralToXY(neutral)
	}
	if white, ok := t.neg.CameraWhiteXY(); ok {
		return white, nil
	}
	return color.D55, nil
}

func (t *Task) buildColor() error {
	if t.SrcPlanes == 1 {
		return nil
	}
	spec, err := t.neg.MakeColorSpec()
	if err != nil {
		return err
	}
	white, err := t.whiteXY(spec)
	if err != nil {
		return err
	}
	if err := spec.SetWhiteXY(white); err != nil {
		return err
	}
	t.cameraWhite = spec.CameraWhite()
	t.cameraToRGB = color.ProPhoto.MatrixFromPCS().Mul(spec.CameraToPCS())
	if t.cameraToRGB.Cols() != t.SrcPlanes {
		return fmt.Errorf("render: profile has %d channels, image %d: %w",
			t.cameraToRGB.Cols(), t.SrcPlanes, rawtile.ErrBadFormat)
	}

	if profile := t.neg.Profile(); profile != nil {
		t.hueSatMap = profile.HueSatMapForWhite(spec.WhiteXY())
		if profile.LookTable != nil && !profile.LookTable.IsNeutral() {
			t.lookTable = profile.LookTable
		}
	}
	return nil
}

func (t *Task) buildTables() error {
	exposure := t.exposure()

	white := 1 / math.Pow(2, max(0, exposure))
	black := t.params.Shadows * t.neg.ShadowScale() * t.neg.Stage3Gain() * 0.001
	black = min(black, 0.99*white)
	var err error
	if t.exposureRamp, err = color.NewTable1D(color.NewExposureRamp(white, black, black), false); err != nil {
		return err
	}

	// Negative exposure beyond the baseline darkens the tone curve.
	tone := color.Concatenate{First: color.NewExposureTone(exposure), Second: t.params.ToneCurve}
	if t.toneCurve, err = color.NewTable1D(tone, false); err != nil {
		return err
	}

	final := t.params.FinalSpace
	t.rgbToFinal = final.MatrixFromPCS().Mul(color.ProPhoto.MatrixToPCS())
	if t.encodeGamma, err = color.NewTable1D(final.Gamma(), false); err != nil {
		return err
	}
	rawtile.Logger().Debug("render: tables built",
		"exposure", exposure,
		"white", white,
		"black", black,
		"space", final.Name())
	return nil
}

// Prepare implements the task.Filter hook. It builds the color transforms
// and one three row scratch buffer per thread.
func (t *Task) Prepare(threadCount int, tileSize geom.Point, alloc task.Allocator) error {
	if err := t.buildColor(); err != nil {
		return err
	}
	if err := t.buildTables(); err != nil {
		return err
	}
	t.alloc = alloc
	_, _, _, elems := pixel.Steps(pixel.Planar, geom.R(0, 0, 1, tileSize.H), 3)
	t.tempBlocks = make([][]byte, threadCount)
	for i := range t.tempBlocks {
		var err error
		if t.tempBlocks[i], err = alloc.Allocate(elems * pixel.F32.Size()); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup implements the task.Filter hook.
func (t *Task) Cleanup(int) error {
	for _, b := range t.tempBlocks {
		t.alloc.Release(b)
	}
	t.tempBlocks = nil
	return nil
}

// row returns the cols samples of buf starting at (row, col, plane).
func row(d []float32, buf *pixel.Buffer, r, c int32, plane, cols int) []float32 {
	off := buf.Offset(r, c, plane)
	return d[off : off+cols]
}

// ProcessArea implements task.Processor.
func (t *Task) ProcessArea(threadIndex int, src, dst *pixel.Buffer) error {
	s, err := src.F32()
	if err != nil {
		return err
	}
	d, err := dst.F32()
	if err != nil {
		return err
	}
	cols := int(src.Area.W())
	temp, err := pixel.New(geom.R(0, 0, 1, int32(cols)), 0, 3, pixel.F32, pixel.Planar, t.tempBlocks[threadIndex])
	if err != nil {
		return err
	}
	tmp, err := temp.F32()
	if err != nil {
		return err
	}
	tr := row(tmp, temp, 0, 0, 0, cols)
	tg := row(tmp, temp, 0, 0, 1, cols)
	tb := row(tmp, temp, 0, 0, 2, cols)

	o := t.Ops()
	for srcRow := src.Area.T; srcRow < src.Area.B; srcRow++ {
		a := row(s, src, srcRow, src.Area.L, src.Plane, cols)
		switch t.SrcPlanes {
		case 1:
			copy(tr, a)
			copy(tg, a)
			copy(tb, a)
		case 3:
			b := row(s, src, srcRow, src.Area.L, src.Plane+1, cols)
			c := row(s, src, srcRow, src.Area.L, src.Plane+2, cols)
			o.ABCtoRGB(a, b, c, tr, tg, tb, t.cameraWhite.Array3(), t.cameraToRGB.Array3())
		default:
			b := row(s, src, srcRow, src.Area.L, src.Plane+1, cols)
			c := row(s, src, srcRow, src.Area.L, src.Plane+2, cols)
			dd := row(s, src, srcRow, src.Area.L, src.Plane+3, cols)
			o.ABCDtoRGB(a, b, c, dd, tr, tg, tb, t.cameraWhite.Array4(), t.cameraToRGB.Array34())
		}
		if t.SrcPlanes > 1 && t.hueSatMap != nil {
			o.HueSatMap(tr, tg, tb, tr, tg, tb, t.hueSatMap.Table())
		}

		ramp := t.exposureRamp.Data()
		o.Table1D(tr, tr, ramp)
		o.Table1D(tg, tg, ramp)
		o.Table1D(tb, tb, ramp)

		if t.lookTable != nil {
			o.HueSatMap(tr, tg, tb, tr, tg, tb, t.lookTable.Table())
		}

		o.RGBTone(tr, tg, tb, tr, tg, tb, t.toneCurve.Data())

		dstRow := srcRow - t.srcOffset.V
		gamma := t.encodeGamma.Data()
		if t.DstPlanes == 1 {
			gray := row(d, dst, dstRow, dst.Area.L, dst.Plane, cols)
			o.RGBtoGray(tr, tg, tb, gray, t.rgbToFinal.Row(0).Array3())
			o.Table1D(gray, gray, gamma)
			continue
		}
		dr := row(d, dst, dstRow, dst.Area.L, dst.Plane, cols)
		dg := row(d, dst, dstRow, dst.Area.L, dst.Plane+1, cols)
		db := row(d, dst, dstRow, dst.Area.L, dst.Plane+2, cols)
		o.RGBtoRGB(tr, tg, tb, dr, dg, db, t.rgbToFinal.Array3())
		o.Table1D(dr, dr, gamma)
		o.Table1D(dg, dg, gamma)
		o.Table1D(db, db, gamma)
	}
	dst.Dirty = true
	return nil
}
