package lens

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/rawtile"
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

func readAll(t *testing.T, im *image.Image) *pixel.Buffer {
	t.Helper()
	buf, err := pixel.Alloc(im.Bounds(), 0, im.Planes(), im.PixelType(), pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, im.Get(buf, image.EdgeNone, 1, 1))
	return buf
}

func pattern(typ pixel.Type) func(r, c int32, p int) float64 {
	return func(r, c int32, p int) float64 {
		v := float64((r*131+c*17+int32(p)*7)%1000) * 50
		if typ == pixel.F32 {
			return v / 65535
		}
		return v
	}
}

// =============================================================================
// Warp parameters
// =============================================================================

func TestRectilinearNOP(t *testing.T) {
	p := NewRectilinear(3)
	assert.True(t, p.IsValid())
	assert.True(t, IsNOP(p))

	p.Radial[1][1] = -0.1
	assert.True(t, p.IsRadNOP(0))
	assert.False(t, p.IsRadNOP(1))
	assert.False(t, IsRadNOPAll(p))
	assert.True(t, IsTanNOPAll(p))

	p.Tangential[2][0] = 0.01
	assert.False(t, p.IsTanNOP(2))
	assert.False(t, IsNOP(p))
}

func TestWarpParamsValid(t *testing.T) {
	tests := []struct {
		name   string
		planes int
		center geom.RealPoint
		valid  bool
	}{
		{"one plane", 1, geom.RealPoint{V: 0.5, H: 0.5}, true},
		{"four planes", 4, geom.RealPoint{V: 0, H: 1}, true},
		{"no planes", 0, geom.RealPoint{V: 0.5, H: 0.5}, false},
		{"five planes", 5, geom.RealPoint{V: 0.5, H: 0.5}, false},
		{"center left", 1, geom.RealPoint{V: 0.5, H: -0.1}, false},
		{"center below", 1, geom.RealPoint{V: 1.5, H: 0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Rectilinear{Planes: tt.planes, Center: tt.center}
			f := &Fisheye{Planes: tt.planes, Center: tt.center}
			assert.Equal(t, tt.valid, r.IsValid())
			assert.Equal(t, tt.valid, f.IsValid())
		})
	}
}

func TestIsValidForPlanes(t *testing.T) {
	assert.True(t, IsValidForPlanes(NewRectilinear(1), 3))
	assert.True(t, IsValidForPlanes(NewRectilinear(3), 3))
	assert.False(t, IsValidForPlanes(NewRectilinear(2), 3))
}

func TestEvaluateRatioMatchesEvaluate(t *testing.T) {
	r := NewRectilinear(1)
	r.Radial[0] = [4]float64{1, -0.2, 0.05, 0.01}
	f := &Fisheye{Planes: 1, Center: geom.RealPoint{V: 0.5, H: 0.5}}
	f.Radial[0] = [4]float64{1, 0.1, 0, 0}
	for _, p := range []WarpParams{r, f} {
		for _, x := range []float64{0.1, 0.4, 0.75, 1} {
			assert.InDelta(t, p.Evaluate(0, x)/x, p.EvaluateRatio(0, x*x), 1e-12)
		}
	}
}

func TestFisheye(t *testing.T) {
	f := &Fisheye{Planes: 1, Center: geom.RealPoint{V: 0.5, H: 0.5}}
	f.Radial[0] = [4]float64{1, 0, 0, 0}
	assert.False(t, f.IsRadNOP(0))
	assert.True(t, f.IsTanNOP(0))
	assert.False(t, IsNOP(f))

	assert.Equal(t, 1.0, f.EvaluateRatio(0, 0))
	assert.InDelta(t, math.Pi/4, f.Evaluate(0, 1), 1e-12)
	assert.Equal(t, geom.RealPoint{}, f.MaxSrcTanGap(geom.RealPoint{V: -1, H: -1}, geom.RealPoint{V: 1, H: 1}))
}

func TestEvaluateInverse(t *testing.T) {
	p := NewRectilinear(1)
	p.Radial[0] = [4]float64{1, 0.1, -0.05, 0}
	for _, x := range []float64{0, 0.2, 0.5, 0.9} {
		assert.InDelta(t, x, EvaluateInverse(p, 0, p.Evaluate(0, x)), 1e-8, "x=%g", x)
	}
}

func TestPropagateToAllPlanes(t *testing.T) {
	p := NewRectilinear(1)
	p.Radial[0] = [4]float64{1, 0.2, 0, 0}
	p.Tangential[0] = [2]float64{0.01, -0.02}
	p.PropagateToAllPlanes(3)
	for plane := range 3 {
		assert.Equal(t, p.Radial[0], p.Radial[plane])
		assert.Equal(t, p.Tangential[0], p.Tangential[plane])
	}
	assert.True(t, p.IsRadNOP(3))
}

func TestCloneIsIndependent(t *testing.T) {
	p := NewRectilinear(1)
	c := p.Clone().(*Rectilinear)
	c.Radial[0][1] = 0.3
	assert.True(t, p.IsRadNOP(0))
}

func bruteRadiusGap(p WarpParams, gap float64) float64 {
	const steps = 20000
	var best float64
	for plane := range p.PlaneCount() {
		for i := range steps + 1 {
			r := float64(i) * (1 - gap) / steps
			best = max(best, p.Evaluate(plane, r+gap)-p.Evaluate(plane, r))
		}
	}
	return best
}

func TestMaxSrcRadiusGap(t *testing.T) {
	tests := [][4]float64{
		{1, 0, 0, 0},
		{1, 0.1, 0, 0},
		{1, -0.2, 0, 0},
		{1, 0.05, -0.2, 0},
		{1, 0.3, -0.4, 0},
		{1, -0.3, 0.2, 0},
		{1, 0.3, -0.5, 0.2},
		{1, -0.4, 0.6, -0.3},
		{0.9, 0.2, -0.1, 0.05},
	}
	for _, k := range tests {
		p := NewRectilinear(1)
		p.Radial[0] = k
		for _, gap := range []float64{0.05, 0.2, 0.5} {
			assert.InDelta(t, bruteRadiusGap(p, gap), p.MaxSrcRadiusGap(gap), 1e-6, "k=%v gap=%g", k, gap)
		}
	}
}

func TestFisheyeMaxSrcRadiusGap(t *testing.T) {
	f := &Fisheye{Planes: 1}
	f.Radial[0] = [4]float64{1, 0, 0, 0}
	// atan is concave so the largest gap starts at zero.
	assert.InDelta(t, math.Atan(0.25), f.MaxSrcRadiusGap(0.25), 1e-12)
	assert.Zero(t, f.MaxSrcRadiusGap(0))
}

// =============================================================================
// Warp task
// =============================================================================

func TestWarpIdentity(t *testing.T) {
	for _, typ := range []pixel.Type{pixel.U16, pixel.F32} {
		t.Run(typ.String(), func(t *testing.T) {
			size := geom.Pt(45, 61)
			src := fill(t, typ, size, 3, pattern(typ))
			dst, err := image.Alloc(src.Bounds(), 3, typ)
			require.NoError(t, err)

			require.NoError(t, Warp(context.Background(), newHost(t), src, dst, NewRectilinear(1), 0))

			diff, err := dst.MaximumDifference(src, src.Bounds(), 0, 3)
			require.NoError(t, err)
			assert.Zero(t, diff)
		})
	}
}

func TestWarpKeepsConstant(t *testing.T) {
	barrel := NewRectilinear(1)
	barrel.Radial[0] = [4]float64{1, -0.15, 0.02, 0}
	pincushion := NewRectilinear(1)
	pincushion.Radial[0] = [4]float64{0.9, 0.1, 0, 0}
	pincushion.Tangential[0] = [2]float64{0.002, -0.001}
	fisheye := &Fisheye{Planes: 1, Center: geom.RealPoint{V: 0.4, H: 0.6}}
	fisheye.Radial[0] = [4]float64{1.2, 0.05, 0, 0}

	tests := []struct {
		name   string
		params WarpParams
	}{
		{"barrel", barrel},
		{"pincushion", pincushion},
		{"fisheye", fisheye},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := fill(t, pixel.U16, geom.Pt(70, 90), 1, func(int32, int32, int) float64 { return 20000 })
			dst, err := image.Alloc(src.Bounds(), 1, pixel.U16)
			require.NoError(t, err)

			require.NoError(t, Warp(context.Background(), newHost(t), src, dst, tt.params, 0))

			got := readAll(t, dst)
			for r := range int32(70) {
				for c := range int32(90) {
					require.Equal(t, 20000.0, got.Get(r, c, 0), "pixel %d,%d", r, c)
				}
			}
		})
	}
}

func TestWarpSrcPosition(t *testing.T) {
	src := fill(t, pixel.F32, geom.Pt(101, 101), 1, func(int32, int32, int) float64 { return 0 })
	p := NewRectilinear(1)
	p.Radial[0] = [4]float64{1, -0.1, 0, 0}
	w, err := NewWarpTask(src, src, p, 0)
	require.NoError(t, err)

	center := geom.RealPoint{V: 50.5, H: 50.5}
	assert.Equal(t, center, w.SrcPosition(center, 0))

	// A corner sits at radius 1 and moves by k0 + k1.
	got := w.SrcPosition(geom.RealPoint{V: 0, H: 0}, 0)
	assert.InDelta(t, 50.5-50.5*0.9, got.V, 1e-9)
	assert.InDelta(t, 50.5-50.5*0.9, got.H, 1e-9)
}

func TestWarpSrcTileSizeCoversSrcArea(t *testing.T) {
	barrel := NewRectilinear(1)
	barrel.Radial[0] = [4]float64{1, -0.3, 0.05, 0}
	pincushion := NewRectilinear(1)
	pincushion.Radial[0] = [4]float64{1, 0.25, 0, 0}
	pincushion.Tangential[0] = [2]float64{0.01, 0.005}

	for _, params := range []WarpParams{barrel, pincushion} {
		src := fill(t, pixel.U16, geom.Pt(120, 160), 1, func(int32, int32, int) float64 { return 0 })
		w, err := NewWarpTask(src, src, params, 0)
		require.NoError(t, err)

		tile := geom.Pt(32, 32)
		size := w.SrcTileSize(tile)
		for r := int32(0); r < 120; r += tile.V {
			for c := int32(0); c < 160; c += tile.H {
				area := w.SrcArea(geom.R(r, c, min(r+tile.V, 120), min(c+tile.H, 160)))
				assert.LessOrEqual(t, area.H(), size.V, "tile %d,%d", r, c)
				assert.LessOrEqual(t, area.W(), size.H, "tile %d,%d", r, c)
			}
		}
	}
}

func TestWarpInvalid(t *testing.T) {
	src := fill(t, pixel.U16, geom.Pt(8, 8), 3, func(int32, int32, int) float64 { return 0 })
	_, err := NewWarpTask(src, src, NewRectilinear(2), 0)
	assert.ErrorIs(t, err, rawtile.ErrBadFormat)

	p := NewRectilinear(1)
	p.Center.H = 2
	_, err = NewWarpTask(src, src, p, 0)
	assert.ErrorIs(t, err, rawtile.ErrBadFormat)
}

// =============================================================================
// Vignette
// =============================================================================

func TestVignetteParams(t *testing.T) {
	p := DefaultVignetteParams()
	assert.True(t, p.IsNOP())
	assert.True(t, p.IsValid())
	assert.Equal(t, 1.0, p.Gain(0.7))

	p.Terms = [VignetteTerms]float64{0.5, 0.25, 0, 0, 0}
	assert.False(t, p.IsNOP())
	assert.InDelta(t, 1+0.5*0.5+0.25*0.25, p.Gain(0.5), 1e-12)

	p.Center.V = -0.5
	assert.False(t, p.IsValid())
}

func TestVignetteNOP(t *testing.T) {
	src := fill(t, pixel.U16, geom.Pt(37, 41), 2, pattern(pixel.U16))
	dst, err := image.Alloc(src.Bounds(), 2, pixel.U16)
	require.NoError(t, err)
	want := readAll(t, src)

	require.NoError(t, Vignette(context.Background(), newHost(t), src, dst, DefaultVignetteParams(), 0))

	diff, err := readAll(t, dst).MaximumDifference(want, src.Bounds(), 0, 2)
	require.NoError(t, err)
	assert.Zero(t, diff)
}

func TestVignetteGain(t *testing.T) {
	src := fill(t, pixel.U16, geom.Pt(33, 33), 1, func(int32, int32, int) float64 { return 1000 })
	dst, err := image.Alloc(src.Bounds(), 1, pixel.U16)
	require.NoError(t, err)
	p := DefaultVignetteParams()
	p.Terms[0] = 1

	require.NoError(t, Vignette(context.Background(), newHost(t), src, dst, p, 0))

	got := readAll(t, dst)
	assert.Equal(t, 1000.0, got.Get(16, 16, 0))

	// Pixel centers of the corners lie 16 pixels from the center on both
	// axes; the image corner is at 16.5.
	r2 := 2 * 16.0 * 16.0 / (2 * 16.5 * 16.5)
	want := 1000 * (1 + r2)
	for _, corner := range []geom.Point{{V: 0, H: 0}, {V: 0, H: 32}, {V: 32, H: 0}, {V: 32, H: 32}} {
		assert.InDelta(t, want, got.Get(corner.V, corner.H, 0), 2, "corner %v", corner)
	}
}

func TestVignetteInvalid(t *testing.T) {
	src := fill(t, pixel.U16, geom.Pt(8, 8), 1, func(int32, int32, int) float64 { return 0 })
	p := DefaultVignetteParams()
	p.Center.H = 1.5
	err := Vignette(context.Background(), newHost(t), src, src, p, 0)
	assert.ErrorIs(t, err, rawtile.ErrBadFormat)

	f := fill(t, pixel.F32, geom.Pt(8, 8), 1, func(int32, int32, int) float64 { return 0 })
	err = Vignette(context.Background(), newHost(t), f, f, DefaultVignetteParams(), 0)
	assert.ErrorIs(t, err, rawtile.ErrBadFormat)

	_, err = NewVignetteTask(src, src, DefaultVignetteParams(), geom.R(4, 4, 4, 8), 0)
	assert.ErrorIs(t, err, rawtile.ErrBadFormat)
}
