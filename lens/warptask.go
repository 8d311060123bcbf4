package lens

import (
	"context"
	"fmt"
	"math"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/ops"
	"github.com/gogpu/rawtile/pixel"
	"github.com/gogpu/rawtile/resample"
	"github.com/gogpu/rawtile/task"
)

// WarpTask corrects lens distortion: every destination pixel is resampled
// from its uncorrected source position with a 2D bicubic kernel.
type WarpTask struct {
	*task.Filter

	params  WarpParams
	weights *resample.Weights2D

	center        geom.RealPoint
	normRadius    float64
	invNormRadius float64

	isRadNOP bool
	isTanNOP bool

	pixelScaleV    float64
	pixelScaleVInv float64
}

// NewWarpTask prepares a warp of src into dst, which must share bounds.
// aspectRatio is the pixel width over height; zero means square pixels.
// The parameters are copied.
func NewWarpTask(src, dst *image.Image, params WarpParams, aspectRatio float64) (*WarpTask, error) {
	if !IsValidForPlanes(params, dst.Planes()) {
		return nil, fmt.Errorf("%w: warp with %d planes for a %d plane image",
			rawtile.ErrBadFormat, params.PlaneCount(), dst.Planes())
	}
	if src.Planes() < dst.Planes() {
		return nil, fmt.Errorf("lens: warp %d planes into %d: %w", src.Planes(), dst.Planes(), rawtile.ErrProgram)
	}
	if aspectRatio <= 0 {
		aspectRatio = 1
	}
	weights, err := resample.NewWeights2D(resample.Bicubic{})
	if err != nil {
		return nil, err
	}
	w := &WarpTask{
		params:         params.Clone(),
		weights:        weights,
		isRadNOP:       IsRadNOPAll(params),
		isTanNOP:       IsTanNOPAll(params),
		pixelScaleV:    1 / aspectRatio,
		pixelScaleVInv: aspectRatio,
	}

	bounds := src.Bounds()
	c := params.OpticalCenter()
	w.center = geom.RealPoint{
		V: geom.Lerp(float64(bounds.T), float64(bounds.B), c.V),
		H: geom.Lerp(float64(bounds.L), float64(bounds.R), c.H),
	}

	// The normalizing radius is measured with square pixels.
	square := bounds.Real()
	square.B = square.T + float64(geom.Round(w.pixelScaleV*square.H()))
	squareCenter := geom.RealPoint{
		V: geom.Lerp(square.T, square.B, c.V),
		H: geom.Lerp(square.L, square.R, c.H),
	}
	w.normRadius = maxDistanceToRect(squareCenter, square)
	w.invNormRadius = 1 / w.normRadius

	w.params.PropagateToAllPlanes(dst.Planes())

	w.Filter = task.NewFilter(src, dst, w)
	typ := pixel.F32
	if src.PixelType() == pixel.U16 && dst.PixelType() == pixel.U16 {
		typ = pixel.U16
	}
	w.SrcPlanes, w.DstPlanes = dst.Planes(), dst.Planes()
	w.SrcType, w.DstType = typ, typ
	return w, nil
}

// maxDistanceToRect returns the distance from p to the farthest corner of r.
func maxDistanceToRect(p geom.RealPoint, r geom.RealRect) float64 {
	dv := max(math.Abs(p.V-r.T), math.Abs(p.V-r.B))
	dh := max(math.Abs(p.H-r.L), math.Abs(p.H-r.R))
	return math.Hypot(dv, dh)
}

// SrcPosition maps a corrected destination position to its uncorrected
// source position in plane.
func (w *WarpTask) SrcPosition(dst geom.RealPoint, plane int) geom.RealPoint {
	if w.isRadNOP && w.isTanNOP {
		return dst
	}
	diff := dst.Sub(w.center)
	norm := diff.Scale(w.invNormRadius)
	scaled := geom.RealPoint{V: norm.V * w.pixelScaleV, H: norm.H}
	sqr := geom.RealPoint{V: scaled.V * scaled.V, H: scaled.H * scaled.H}
	rr := min(sqr.V+sqr.H, 1)

	var d geom.RealPoint
	switch {
	case w.isTanNOP:
		ratio := w.params.EvaluateRatio(plane, rr)
		d = diff.Scale(ratio)
	case w.isRadNOP:
		tan := w.params.EvaluateTangential(plane, rr, scaled, sqr)
		d.H = diff.H + w.normRadius*tan.H
		d.V = diff.V + w.normRadius*tan.V*w.pixelScaleVInv
	default:
		ratio := w.params.EvaluateRatio(plane, rr)
		tan := w.params.EvaluateTangential(plane, rr, scaled, sqr)
		d.H = w.normRadius * (norm.H*ratio + tan.H)
		d.V = w.normRadius * (norm.V*ratio + tan.V*w.pixelScaleVInv)
	}
	return w.center.Add(d)
}

// SrcArea maps every pixel on the boundary of dst to the source and pads
// the bounding box by the kernel radius.
func (w *WarpTask) SrcArea(dst geom.Rect) geom.Rect {
	yMin, yMax := int32(math.MaxInt32), int32(math.MinInt32)
	xMin, xMax := int32(math.MaxInt32), int32(math.MinInt32)
	for plane := range w.DstPlanes {
		for c := dst.L; c < dst.R; c++ {
			top := w.SrcPosition(geom.RealPoint{V: float64(dst.T), H: float64(c)}, plane)
			bottom := w.SrcPosition(geom.RealPoint{V: float64(dst.B - 1), H: float64(c)}, plane)
			yMin = min(yMin, geom.Floor(top.V))
			yMax = max(yMax, geom.Ceil(bottom.V))
		}
		for r := dst.T; r < dst.B; r++ {
			left := w.SrcPosition(geom.RealPoint{V: float64(r), H: float64(dst.L)}, plane)
			right := w.SrcPosition(geom.RealPoint{V: float64(r), H: float64(dst.R - 1)}, plane)
			xMin = min(xMin, geom.Floor(left.H))
			xMax = max(xMax, geom.Ceil(right.H))
		}
	}
	pad := int32(w.weights.Radius)
	return geom.R(yMin-pad, xMin-pad, yMax+pad+1, xMax+pad+1)
}

// SrcTileSize bounds the source area of a destination tile. Two points of
// a tile map at most the radial gap over the tile diagonal plus the
// largest radial ratio times that diagonal apart. The kernel width, pixel
// rounding and the spread of the tangential terms are added, and the
// bound never exceeds the source area of the whole image.
func (w *WarpTask) SrcTileSize(tileSize geom.Point) geom.Point {
	whole := w.SrcArea(w.Dst.Bounds()).Size()
	diagonal := math.Hypot(float64(tileSize.H), float64(tileSize.V))
	maxDstGap := w.invNormRadius * diagonal
	if maxDstGap >= 1 {
		return whole
	}

	stretch := max(w.pixelScaleV, w.pixelScaleVInv, 1)
	var maxRatio float64
	for plane := range w.DstPlanes {
		for i := range 129 {
			maxRatio = max(maxRatio, w.params.EvaluateRatio(plane, float64(i)/128))
		}
	}
	span := w.params.MaxSrcRadiusGap(maxDstGap)*w.normRadius + maxRatio*diagonal
	dim := geom.Ceil(span*stretch) + int32(w.weights.Width) + 3
	size := geom.Pt(dim, dim)

	bounds := w.Src.Bounds().Real()
	minDst := geom.RealPoint{
		V: (bounds.T - w.center.V) * w.invNormRadius,
		H: (bounds.L - w.center.H) * w.invNormRadius,
	}
	maxDst := geom.RealPoint{
		V: (bounds.B - 1 - w.center.V) * w.invNormRadius,
		H: (bounds.R - 1 - w.center.H) * w.invNormRadius,
	}
	tan := w.params.MaxSrcTanGap(minDst, maxDst)
	size = size.Add(geom.Pt(geom.Ceil(tan.V*w.normRadius), geom.Ceil(tan.H*w.normRadius)))
	return size.Min(whole)
}

// ProcessArea implements task.Processor.
func (w *WarpTask) ProcessArea(_ int, src, dst *pixel.Buffer) error {
	var err error
	if w.SrcType == pixel.U16 {
		err = w.process16(src, dst)
	} else {
		err = w.process32(src, dst)
	}
	if err != nil {
		return err
	}
	dst.Dirty = true
	return nil
}

// tap locates the kernel for a destination pixel: the source pixel under
// the top left tap and the sub-pixel phase. Positions whose kernel would
// leave the source area are clamped with a zero phase.
func (w *WarpTask) tap(srcArea geom.Rect, row, col int32, plane int) (geom.Point, int, int) {
	wCount := int32(w.weights.Width)
	offset := int32(1 - w.weights.Radius)
	s := w.SrcPosition(geom.RealPoint{V: float64(row), H: float64(col)}, plane)
	iv, ih := math.Floor(s.V), math.Floor(s.H)
	fv := int((s.V - iv) * ops.Subsample2DCount)
	fh := int((s.H - ih) * ops.Subsample2DCount)
	p := geom.Pt(int32(iv)+offset, int32(ih)+offset)
	if p.H < srcArea.L {
		p.H, fh = srcArea.L, 0
	} else if p.H > srcArea.R-wCount {
		p.H, fh = srcArea.R-wCount, 0
	}
	if p.V < srcArea.T {
		p.V, fv = srcArea.T, 0
	} else if p.V > srcArea.B-wCount {
		p.V, fv = srcArea.B-wCount, 0
	}
	return p, fv, fh
}

func (w *WarpTask) process16(src, dst *pixel.Buffer) error {
	s, err := src.U16()
	if err != nil {
		return err
	}
	d, err := dst.U16()
	if err != nil {
		return err
	}
	wCount := w.weights.Width
	wRowStep := w.weights.RowStep
	for plane := dst.Plane; plane < dst.Plane+dst.Planes; plane++ {
		for row := dst.Area.T; row < dst.Area.B; row++ {
			dOff := dst.Offset(row, dst.Area.L, plane)
			for col := dst.Area.L; col < dst.Area.R; col++ {
				p, fv, fh := w.tap(src.Area, row, col, plane)
				wt := w.weights.Phase16(fv, fh)
				sOff := src.Offset(p.V, p.H, plane)
				total := int32(8192)
				for i := range wCount {
					wr := wt[i*wRowStep:]
					for j := range wCount {
						total += int32(wr[j]) * int32(s[sOff+j])
					}
					sOff += src.RowStep
				}
				d[dOff] = uint16(geom.Pin(0, total>>14, 65535))
				dOff += dst.ColStep
			}
		}
	}
	return nil
}

func (w *WarpTask) process32(src, dst *pixel.Buffer) error {
	s, err := src.F32()
	if err != nil {
		return err
	}
	d, err := dst.F32()
	if err != nil {
		return err
	}
	wCount := w.weights.Width
	wRowStep := w.weights.RowStep
	for plane := dst.Plane; plane < dst.Plane+dst.Planes; plane++ {
		for row := dst.Area.T; row < dst.Area.B; row++ {
			dOff := dst.Offset(row, dst.Area.L, plane)
			for col := dst.Area.L; col < dst.Area.R; col++ {
				p, fv, fh := w.tap(src.Area, row, col, plane)
				wt := w.weights.Phase32(fv, fh)
				sOff := src.Offset(p.V, p.H, plane)
				var total float32
				for i := range wCount {
					wr := wt[i*wRowStep:]
					for j := range wCount {
						total += wr[j] * s[sOff+j]
					}
					sOff += src.RowStep
				}
				d[dOff] = geom.Pin(0, total, 1)
				dOff += dst.ColStep
			}
		}
	}
	return nil
}

// Warp corrects src into dst with params over the bounds of src.
func Warp(ctx context.Context, h *task.Host, src, dst *image.Image, params WarpParams, aspectRatio float64) error {
	w, err := NewWarpTask(src, dst, params, aspectRatio)
	if err != nil {
		return err
	}
	rawtile.Logger().Debug("lens: warp",
		"bounds", src.Bounds(),
		"planes", dst.Planes(),
		"radial", !w.isRadNOP,
		"tangential", !w.isTanNOP,
		"normRadius", w.normRadius)
	return h.PerformAreaTask(ctx, w, src.Bounds())
}
