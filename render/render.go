package render

import (
	"context"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/resample"
	"github.com/gogpu/rawtile/task"
)

// FinalSize returns the output size for a default final size and a
// maximum side. The longer side is limited to maximumSize and the other
// one follows the aspect ratio, never dropping below 1.
func FinalSize(size geom.Point, maximumSize int32) geom.Point {
	if maximumSize <= 0 || max(size.V, size.H) <= maximumSize {
		return size
	}
	ratio := float64(size.H) / float64(size.V)
	if ratio >= 1 {
		return geom.Pt(max(1, geom.Round(float64(maximumSize)/ratio)), maximumSize)
	}
	return geom.Pt(maximumSize, max(1, geom.Round(float64(maximumSize)*ratio)))
}

// Render renders the default crop of neg's stage 3 image. A nil params
// means DefaultParams.
func Render(ctx context.Context, h *task.Host, neg Negative, params *Params) (*image.Image, error) {
	if params == nil {
		var err error
		if params, err = DefaultParams(neg); err != nil {
			return nil, err
		}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	src := neg.Stage3Image()
	srcBounds := neg.DefaultCropArea()
	dstSize := FinalSize(neg.DefaultFinalSize(), params.MaximumSize)
	log := rawtile.Logger().With("crop", srcBounds, "size", dstSize)

	if srcBounds.Size() != dstSize {
		temp, err := image.Alloc(geom.RectOfSize(dstSize), src.Planes(), src.PixelType())
		if err != nil {
			return nil, err
		}
		log.Debug("render: resampling",
			"bytes", humanize.IBytes(uint64(dstSize.Area())*uint64(src.Planes()*src.PixelSize())))
		if err := resample.Image(ctx, h, src, temp, srcBounds, temp.Bounds(), resample.Bicubic{}); err != nil {
			return nil, err
		}
		src = temp
		srcBounds = temp.Bounds()
	}

	dst, err := image.Alloc(geom.RectOfSize(srcBounds.Size()), params.FinalSpace.Planes(), params.FinalPixelType)
	if err != nil {
		return nil, err
	}
	t, err := NewTask(src, dst, neg, params, srcBounds.TL())
	if err != nil {
		return nil, err
	}
	if err := h.PerformAreaTask(ctx, t, dst.Bounds()); err != nil {
		return nil, err
	}
	log.Debug("render: done",
		"space", params.FinalSpace.Name(),
		"type", params.FinalPixelType.String(),
		"exposure", math.Round(t.exposure()*100)/100)
	return dst, nil
}
