package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/color"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/pixel"
	"github.com/gogpu/rawtile/task"
)

func newHost(t *testing.T) *task.Host {
	t.Helper()
	h := task.NewHost(task.WithMaxThreads(2))
	t.Cleanup(h.Close)
	return h
}

func fill(t *testing.T, typ pixel.Type, size geom.Point, planes int, sample func(r, c int32, plane int) float64) *image.Image {
	t.Helper()
	bounds := geom.RectOfSize(size)
	im, err := image.Alloc(bounds, planes, typ, image.WithTileSize(16, 16))
	require.NoError(t, err)
	buf, err := pixel.Alloc(bounds, 0, planes, typ, pixel.Planar)
	require.NoError(t, err)
	for r := bounds.T; r < bounds.B; r++ {
		for c := bounds.L; c < bounds.R; c++ {
			for p := range planes {
				buf.Set(r, c, p, sample(r, c, p))
			}
		}
	}
	require.NoError(t, im.Put(buf))
	return im
}

func constant(v float64) func(int32, int32, int) float64 {
	return func(int32, int32, int) float64 { return v }
}

func readAll(t *testing.T, im *image.Image) *pixel.Buffer {
	t.Helper()
	buf, err := pixel.Alloc(im.Bounds(), 0, im.Planes(), im.PixelType(), pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, im.Get(buf, image.EdgeNone, 1, 1))
	return buf
}

// linearParams renders without shadows or tone curve into float output.
func linearParams(space *color.Space) *Params {
	return &Params{
		ToneCurve:      color.Identity(),
		FinalSpace:     space,
		FinalPixelType: pixel.F32,
	}
}

// proPhotoCamera returns a profile whose camera channels are linear
// ProPhoto RGB.
func proPhotoCamera() *color.Profile {
	return &color.Profile{Name: "prophoto", ColorMatrix: color.ProPhoto.MatrixFromPCS()}
}

func render(t *testing.T, neg Negative, params *Params) *pixel.Buffer {
	t.Helper()
	out, err := Render(context.Background(), newHost(t), neg, params)
	require.NoError(t, err)
	return readAll(t, out)
}

// =============================================================================
// Sizing
// =============================================================================

func TestFinalSize(t *testing.T) {
	tests := []struct {
		size    geom.Point
		maxSize int32
		want    geom.Point
	}{
		{geom.Pt(30, 40), 0, geom.Pt(30, 40)},
		{geom.Pt(30, 40), 40, geom.Pt(30, 40)},
		{geom.Pt(30, 40), 20, geom.Pt(15, 20)},
		{geom.Pt(40, 30), 20, geom.Pt(20, 15)},
		{geom.Pt(1, 1000), 10, geom.Pt(1, 10)},
		{geom.Pt(50, 50), 7, geom.Pt(7, 7)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FinalSize(tt.size, tt.maxSize), "size %v max %d", tt.size, tt.maxSize)
	}
}

// =============================================================================
// Params
// =============================================================================

func TestDefaultParams(t *testing.T) {
	im := fill(t, pixel.F32, geom.Pt(4, 4), 1, constant(0))

	p, err := DefaultParams(&SimpleNegative{Image: im})
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Shadows)
	assert.Equal(t, color.ACR3(), p.ToneCurve)
	assert.Equal(t, color.SRGB, p.FinalSpace)
	assert.Equal(t, pixel.U8, p.FinalPixelType)

	p, err = DefaultParams(&SimpleNegative{Image: im, OutputReferred: true})
	require.NoError(t, err)
	assert.Zero(t, p.Shadows)
	assert.True(t, color.IsIdentity(p.ToneCurve))

	profile := &color.Profile{ToneCurve: []color.CurvePoint{{X: 0, Y: 0}, {X: 0.5, Y: 0.6}, {X: 1, Y: 1}}}
	p, err = DefaultParams(&SimpleNegative{Image: im, ColorProfile: profile})
	require.NoError(t, err)
	assert.IsType(t, &color.Spline{}, p.ToneCurve)
	assert.InDelta(t, 0.6, p.ToneCurve.Evaluate(0.5), 1e-9)
}

func TestParamsValidate(t *testing.T) {
	p := linearParams(color.SRGB)
	require.NoError(t, p.Validate())

	p.FinalPixelType = pixel.I16
	assert.ErrorIs(t, p.Validate(), rawtile.ErrProgram)

	p = linearParams(nil)
	assert.ErrorIs(t, p.Validate(), rawtile.ErrProgram)
}

func TestParamsFile(t *testing.T) {
	f, err := ParseParamsFile([]byte(`
whiteXY: {x: 0.3127, y: 0.329}
exposure: 0.5
shadows: 2
toneCurve: custom
toneCurvePoints:
  - {x: 0, y: 0}
  - {x: 0.5, y: 0.4}
  - {x: 1, y: 1}
finalSpace: AdobeRGB
pixelType: u16
maximumSize: 1024
`))
	require.NoError(t, err)

	p := linearParams(color.SRGB)
	require.NoError(t, f.Apply(p))
	assert.Equal(t, color.D65, p.WhiteXY)
	assert.Equal(t, 0.5, p.Exposure)
	assert.Equal(t, 2.0, p.Shadows)
	assert.InDelta(t, 0.4, p.ToneCurve.Evaluate(0.5), 1e-9)
	assert.Equal(t, color.AdobeRGB, p.FinalSpace)
	assert.Equal(t, pixel.U16, p.FinalPixelType)
	assert.Equal(t, int32(1024), p.MaximumSize)
}

func TestParamsFileKeepsUnsetFields(t *testing.T) {
	f, err := ParseParamsFile([]byte("toneCurve: linear\n"))
	require.NoError(t, err)
	p := &Params{Exposure: 1, Shadows: 5, ToneCurve: color.ACR3(), FinalSpace: color.Gray22, FinalPixelType: pixel.U8}
	require.NoError(t, f.Apply(p))
	assert.Equal(t, 1.0, p.Exposure)
	assert.Equal(t, 5.0, p.Shadows)
	assert.True(t, color.IsIdentity(p.ToneCurve))
	assert.Equal(t, color.Gray22, p.FinalSpace)
}

func TestParamsFileErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"curve", "toneCurve: wavy\n"},
		{"points without custom", "toneCurvePoints: [{x: 0, y: 0}, {x: 1, y: 1}]\n"},
		{"space", "finalSpace: cmyk\n"},
		{"pixel type", "pixelType: u12\n"},
		{"custom without points", "toneCurve: custom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseParamsFile([]byte(tt.text))
			require.NoError(t, err)
			assert.ErrorIs(t, f.Apply(linearParams(color.SRGB)), rawtile.ErrBadFormat)
		})
	}

	_, err := ParseParamsFile([]byte("exposure: [1, 2]\n"))
	assert.ErrorIs(t, err, rawtile.ErrBadFormat)
}

// =============================================================================
// Negative
// =============================================================================

func TestSimpleNegativeDefaults(t *testing.T) {
	im := fill(t, pixel.U16, geom.Pt(10, 12), 3, constant(0))
	n := &SimpleNegative{Image: im}
	assert.Equal(t, 3, n.ColorChannels())
	assert.Equal(t, 1.0, n.PixelAspectRatio())
	assert.Equal(t, im.Bounds(), n.DefaultCropArea())
	assert.Equal(t, geom.Pt(10, 12), n.DefaultFinalSize())
	assert.Equal(t, 1.0, n.ShadowScale())
	assert.Equal(t, 1.0, n.Stage3Gain())
	assert.True(t, n.SceneReferred())
	_, ok := n.CameraNeutral()
	assert.False(t, ok)
	_, ok = n.CameraWhiteXY()
	assert.False(t, ok)

	assert.ErrorIs(t, n.Validate(), rawtile.ErrBadFormat)
	n.ColorProfile = proPhotoCamera()
	assert.NoError(t, n.Validate())
	n.Crop = geom.R(0, 0, 20, 20)
	assert.ErrorIs(t, n.Validate(), rawtile.ErrBadFormat)
}

// =============================================================================
// Render
// =============================================================================

func TestRenderMonochromeGray(t *testing.T) {
	im := fill(t, pixel.F32, geom.Pt(20, 24), 1, func(r, c int32, _ int) float64 {
		return 0.2 + 0.5*float64(r*24+c)/480
	})
	neg := &SimpleNegative{Image: im, Crop: geom.R(2, 3, 18, 21)}
	out := render(t, neg, linearParams(color.Gray22))

	assert.Equal(t, geom.R(0, 0, 16, 18), out.Area)
	gamma := color.Gamma22Encode()
	for r := range int32(16) {
		for c := range int32(18) {
			x := 0.2 + 0.5*float64((r+2)*24+c+3)/480
			require.InDelta(t, gamma.Evaluate(x), out.Get(r, c, 0), 1e-3, "pixel %d,%d", r, c)
		}
	}
}

func TestRenderMonochromeToRGB(t *testing.T) {
	im := fill(t, pixel.F32, geom.Pt(8, 8), 1, constant(0.5))
	out := render(t, &SimpleNegative{Image: im}, linearParams(color.SRGB))
	want := color.SRGBEncode().Evaluate(0.5)
	for p := range 3 {
		assert.InDelta(t, want, out.Get(3, 4, p), 2e-3, "plane %d", p)
	}
}

func TestRenderNeutralStaysNeutral(t *testing.T) {
	im := fill(t, pixel.U16, geom.Pt(24, 20), 3, constant(0.4*65535))
	neg := &SimpleNegative{Image: im, ColorProfile: proPhotoCamera(), WhiteXY: color.D50}
	out := render(t, neg, linearParams(color.SRGB))
	want := color.SRGBEncode().Evaluate(0.4)
	for p := range 3 {
		assert.InDelta(t, want, out.Get(10, 10, p), 3e-3, "plane %d", p)
	}
}

func TestRenderFourChannels(t *testing.T) {
	profile := proPhotoCamera()
	require.NoError(t, profile.SetFourColorBayer())
	im := fill(t, pixel.F32, geom.Pt(8, 8), 4, constant(0.3))
	neg := &SimpleNegative{Image: im, ColorProfile: profile, WhiteXY: color.D50}
	out := render(t, neg, linearParams(color.ProPhoto))
	g := out.Get(4, 4, 1)
	assert.InDelta(t, g, out.Get(4, 4, 0), 3e-3)
	assert.InDelta(t, g, out.Get(4, 4, 2), 3e-3)
	assert.Greater(t, g, 0.0)
}

func TestRenderExposure(t *testing.T) {
	gamma := color.Gamma22Encode()
	tests := []struct {
		name     string
		exposure float64
		baseline float64
		gain     float64
		input    float64
		want     float64
	}{
		{"plus one", 1, 0, 0, 0.25, 0.5},
		{"baseline", 0, 1, 0, 0.25, 0.5},
		{"minus one", -1, 0, 0, 0.2, 0.1},
		{"stage3 gain", 0, 0, 0.5, 0.25, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := fill(t, pixel.F32, geom.Pt(4, 4), 1, constant(tt.input))
			neg := &SimpleNegative{Image: im, Baseline: tt.baseline, Gain: tt.gain}
			p := linearParams(color.Gray22)
			p.Exposure = tt.exposure
			out := render(t, neg, p)
			assert.InDelta(t, gamma.Evaluate(tt.want), out.Get(1, 1, 0), 2e-3)
		})
	}
}

func TestRenderShadowsClipBlack(t *testing.T) {
	im := fill(t, pixel.F32, geom.Pt(4, 8), 1, func(_, c int32, _ int) float64 {
		return []float64{0, 0.001, 0.003, 0.01, 0.1, 0.2, 0.5, 1}[c]
	})
	p := linearParams(color.Gray22)
	p.Shadows = 5
	out := render(t, &SimpleNegative{Image: im}, p)
	assert.Zero(t, out.Get(0, 0, 0))
	assert.Zero(t, out.Get(0, 1, 0))
	prev := 0.0
	for c := range int32(8) {
		v := out.Get(0, c, 0)
		assert.GreaterOrEqual(t, v, prev, "col %d", c)
		prev = v
	}
	assert.InDelta(t, 1, out.Get(0, 7, 0), 1e-3)
}

func TestRenderResamplesToMaximumSize(t *testing.T) {
	im := fill(t, pixel.U16, geom.Pt(40, 30), 1, constant(0.5*65535))
	p := linearParams(color.Gray22)
	p.MaximumSize = 20
	p.FinalPixelType = pixel.U16
	out := render(t, &SimpleNegative{Image: im}, p)

	assert.Equal(t, geom.R(0, 0, 20, 15), out.Area)
	want := color.Gamma22Encode().Evaluate(0.5) * 65535
	assert.InDelta(t, want, out.Get(10, 7, 0), 200)
}

func TestRenderDefaultParams(t *testing.T) {
	im := fill(t, pixel.F32, geom.Pt(8, 8), 1, constant(0.18))
	out, err := Render(context.Background(), newHost(t), &SimpleNegative{Image: im}, nil)
	require.NoError(t, err)
	assert.Equal(t, pixel.U8, out.PixelType())
	assert.Equal(t, 3, out.Planes())
	buf := readAll(t, out)
	v := buf.Get(4, 4, 0)
	assert.Greater(t, v, 50.0)
	assert.Less(t, v, 220.0)
}

func TestNewTaskErrors(t *testing.T) {
	src := fill(t, pixel.F32, geom.Pt(4, 4), 2, constant(0))
	dst, err := image.Alloc(geom.RectOfSize(geom.Pt(4, 4)), 3, pixel.U8)
	require.NoError(t, err)
	_, err = NewTask(src, dst, &SimpleNegative{Image: src}, linearParams(color.SRGB), geom.Point{})
	assert.ErrorIs(t, err, rawtile.ErrBadFormat)

	src = fill(t, pixel.F32, geom.Pt(4, 4), 1, constant(0))
	_, err = NewTask(src, dst, &SimpleNegative{Image: src}, linearParams(color.Gray18), geom.Point{})
	assert.ErrorIs(t, err, rawtile.ErrProgram)
}
