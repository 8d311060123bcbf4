package render

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/color"
	"github.com/gogpu/rawtile/pixel"
)

// Params control a render.
type Params struct {
	// WhiteXY overrides the negative's white balance when valid.
	WhiteXY color.XY

	// Exposure is added to the negative's baseline exposure, in stops.
	Exposure float64

	// Shadows is the black level in 1/1000 of white, before the
	// negative's shadow scale.
	Shadows float64

	ToneCurve color.Function

	FinalSpace     *color.Space
	FinalPixelType pixel.Type

	// MaximumSize limits the longer output side. Zero means no limit.
	MaximumSize int32
}

// DefaultParams returns the parameters neg renders with by default: the
// ACR3 tone curve and 5/1000 shadows into 8-bit sRGB. Output referred
// negatives get no shadows and a linear curve, and a profile tone curve
// replaces the default one.
func DefaultParams(neg Negative) (*Params, error) {
	p := &Params{
		Shadows:        5,
		ToneCurve:      color.ACR3(),
		FinalSpace:     color.SRGB,
		FinalPixelType: pixel.U8,
	}
	if !neg.SceneReferred() {
		p.Shadows = 0
		p.ToneCurve = color.Identity()
	}
	curve, err := neg.Profile().ToneCurveFunction()
	if err != nil {
		return nil, err
	}
	if curve != nil {
		p.ToneCurve = curve
	}
	return p, nil
}

// Validate checks the output format.
func (p *Params) Validate() error {
	switch {
	case p.FinalSpace == nil:
		return fmt.Errorf("render: no final color space: %w", rawtile.ErrProgram)
	case p.ToneCurve == nil:
		return fmt.Errorf("render: no tone curve: %w", rawtile.ErrProgram)
	case p.MaximumSize < 0:
		return fmt.Errorf("render: maximum size %d: %w", p.MaximumSize, rawtile.ErrProgram)
	}
	switch p.FinalPixelType {
	case pixel.U8, pixel.U16, pixel.F32:
		return nil
	}
	return fmt.Errorf("render: %s output: %w", p.FinalPixelType, rawtile.ErrProgram)
}

// ParamsFile is the YAML form of Params. Unset fields keep the defaults.
//
//	exposure: 0.5
//	shadows: 2
//	toneCurve: linear
//	finalSpace: adobergb
//	pixelType: u16
//	maximumSize: 2048
type ParamsFile struct {
	WhiteXY  *color.XY `yaml:"whiteXY,omitempty"`
	Exposure *float64  `yaml:"exposure,omitempty"`
	Shadows  *float64  `yaml:"shadows,omitempty"`

	// ToneCurve is "acr3", "linear" or "custom". A custom curve uses
	// ToneCurvePoints.
	ToneCurve       string             `yaml:"toneCurve,omitempty"`
	ToneCurvePoints []color.CurvePoint `yaml:"toneCurvePoints,omitempty"`

	FinalSpace  string `yaml:"finalSpace,omitempty"`
	PixelType   string `yaml:"pixelType,omitempty"`
	MaximumSize int32  `yaml:"maximumSize,omitempty"`
}

// ParseParamsFile decodes a YAML parameter file.
func ParseParamsFile(data []byte) (*ParamsFile, error) {
	var f ParamsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("render: params: %w: %w", rawtile.ErrBadFormat, err)
	}
	return &f, nil
}

// LoadParamsFile reads and decodes a YAML parameter file.
func LoadParamsFile(path string) (*ParamsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseParamsFile(data)
}

// Apply overrides the fields of p that f sets.
func (f *ParamsFile) Apply(p *Params) error {
	if f.WhiteXY != nil {
		p.WhiteXY = *f.WhiteXY
	}
	if f.Exposure != nil {
		p.Exposure = *f.Exposure
	}
	if f.Shadows != nil {
		p.Shadows = *f.Shadows
	}
	switch f.ToneCurve {
	case "":
		if len(f.ToneCurvePoints) > 0 {
			return fmt.Errorf("render: tone curve points without toneCurve: custom: %w", rawtile.ErrBadFormat)
		}
	case "acr3":
		p.ToneCurve = color.ACR3()
	case "linear":
		p.ToneCurve = color.Identity()
	case "custom":
		curve, err := color.NewSpline(f.ToneCurvePoints)
		if err != nil {
			return err
		}
		p.ToneCurve = curve
	default:
		return fmt.Errorf("render: unknown tone curve %q: %w", f.ToneCurve, rawtile.ErrBadFormat)
	}
	if f.FinalSpace != "" {
		s, err := color.SpaceByName(f.FinalSpace)
		if err != nil {
			return err
		}
		p.FinalSpace = s
	}
	if f.PixelType != "" {
		t, ok := pixel.ParseType(f.PixelType)
		if !ok {
			return fmt.Errorf("render: unknown pixel type %q: %w", f.PixelType, rawtile.ErrBadFormat)
		}
		p.FinalPixelType = t
	}
	if f.MaximumSize != 0 {
		p.MaximumSize = f.MaximumSize
	}
	return p.Validate()
}
