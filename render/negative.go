package render

import (
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/color"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/opcode"
)

// Negative is the raw negative a render reads from.
type Negative interface {
	opcode.Negative

	// Stage3Image returns the linear, demosaiced image.
	Stage3Image() *image.Image

	// DefaultCropArea returns the area of the stage 3 image to render.
	DefaultCropArea() geom.Rect

	// DefaultFinalSize returns the output size at full resolution.
	DefaultFinalSize() geom.Point

	// Profile returns the camera profile, or nil for monochrome cameras.
	Profile() *color.Profile

	// MakeColorSpec returns a color spec for the negative's profile.
	MakeColorSpec() (*color.Spec, error)

	// CameraNeutral returns the as shot neutral in camera channels.
	CameraNeutral() (color.Vector, bool)

	// CameraWhiteXY returns the as shot white chromaticity.
	CameraWhiteXY() (color.XY, bool)

	// SceneReferred reports whether the image data is scene referred.
	// Output referred data renders without shadow clipping or tone curve.
	SceneReferred() bool

	BaselineExposure() float64
	ShadowScale() float64
	Stage3Gain() float64
}

// SimpleNegative is a Negative backed by plain fields. Zero values pick
// the neutral defaults.
type SimpleNegative struct {
	Image *image.Image

	// Crop is the default crop area. Empty means the image bounds.
	Crop geom.Rect
	// FinalSize is the default final size. Zero means the crop size.
	FinalSize geom.Point
	// PixelAspect is the pixel width over its height. Zero means 1.
	PixelAspect float64

	ColorProfile  *color.Profile
	Calibration   color.Matrix
	AnalogBalance color.Matrix

	// Neutral, when set, takes precedence over WhiteXY.
	Neutral color.Vector
	WhiteXY color.XY

	Baseline       float64
	Shadows        float64
	Gain           float64
	OutputReferred bool
}

var _ Negative = (*SimpleNegative)(nil)

// ColorChannels implements opcode.Negative.
func (n *SimpleNegative) ColorChannels() int { return n.Image.Planes() }

// PixelAspectRatio implements opcode.Negative.
func (n *SimpleNegative) PixelAspectRatio() float64 {
	if n.PixelAspect <= 0 {
		return 1
	}
	return n.PixelAspect
}

// Stage3Image implements Negative.
func (n *SimpleNegative) Stage3Image() *image.Image { return n.Image }

// DefaultCropArea implements Negative.
func (n *SimpleNegative) DefaultCropArea() geom.Rect {
	if n.Crop.IsEmpty() {
		return n.Image.Bounds()
	}
	return n.Crop
}

// DefaultFinalSize implements Negative.
func (n *SimpleNegative) DefaultFinalSize() geom.Point {
	if n.FinalSize.V <= 0 || n.FinalSize.H <= 0 {
		return n.DefaultCropArea().Size()
	}
	return n.FinalSize
}

// Profile implements Negative.
func (n *SimpleNegative) Profile() *color.Profile { return n.ColorProfile }

// MakeColorSpec implements Negative.
func (n *SimpleNegative) MakeColorSpec() (*color.Spec, error) {
	return color.NewSpec(n.ColorChannels(), n.ColorProfile, n.Calibration, n.AnalogBalance)
}

// CameraNeutral implements Negative.
func (n *SimpleNegative) CameraNeutral() (color.Vector, bool) {
	return n.Neutral, !n.Neutral.IsEmpty()
}

// CameraWhiteXY implements Negative.
func (n *SimpleNegative) CameraWhiteXY() (color.XY, bool) {
	return n.WhiteXY, n.WhiteXY.IsValid()
}

// SceneReferred implements Negative.
func (n *SimpleNegative) SceneReferred() bool { return !n.OutputReferred }

// BaselineExposure implements Negative.
func (n *SimpleNegative) BaselineExposure() float64 { return n.Baseline }

// ShadowScale implements Negative.
func (n *SimpleNegative) ShadowScale() float64 {
	if n.Shadows <= 0 {
		return 1
	}
	return n.Shadows
}

// Stage3Gain implements Negative.
func (n *SimpleNegative) Stage3Gain() float64 {
	if n.Gain <= 0 {
		return 1
	}
	return n.Gain
}

// Validate checks that the negative can be rendered.
func (n *SimpleNegative) Validate() error {
	if n.Image == nil {
		return fmt.Errorf("render: negative without image: %w", rawtile.ErrProgram)
	}
	if !n.DefaultCropArea().In(n.Image.Bounds()) {
		return fmt.Errorf("render: crop %v outside %v: %w", n.Crop, n.Image.Bounds(), rawtile.ErrBadFormat)
	}
	if ch := n.ColorChannels(); ch != 1 {
		if err := n.ColorProfile.Validate(ch); err != nil {
			return err
		}
	}
	return nil
}
