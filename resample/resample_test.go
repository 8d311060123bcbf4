package resample

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/ops"
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

// =============================================================================
// Kernel
// =============================================================================

func TestBicubic(t *testing.T) {
	k := Bicubic{}
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 1},
		{1, 0},
		{-1, 0},
		{2, 0},
		{3, 0},
		{0.5, 0.59375},
		{-0.5, 0.59375},
		{1.5, -0.09375},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, k.Evaluate(tt.x), 1e-12, "x=%g", tt.x)
	}
	assert.Equal(t, 2.0, k.Extent())
}

func TestKernelByName(t *testing.T) {
	k, ok := KernelByName("bicubic")
	require.True(t, ok)
	assert.Equal(t, Bicubic{}, k)

	k, ok = KernelByName("")
	require.True(t, ok)
	assert.Equal(t, Bicubic{}, k)

	_, ok = KernelByName("lanczos")
	assert.False(t, ok)
}

// =============================================================================
// Weights
// =============================================================================

func TestWeightsPhaseSums(t *testing.T) {
	for _, scale := range []float64{4, 1, 0.75, 0.5, 1.0 / 3, 0.1} {
		w, err := NewWeights(scale, Bicubic{})
		require.NoError(t, err)
		for phase := range ops.SubsampleCount {
			var s16 int
			var s32 float64
			for _, v := range w.Phase16(phase) {
				s16 += int(v)
			}
			for _, v := range w.Phase32(phase) {
				s32 += float64(v)
			}
			require.Equal(t, 16384, s16, "scale %g phase %d", scale, phase)
			require.InDelta(t, 1, s32, 1e-5, "scale %g phase %d", scale, phase)
		}
	}
}

func TestWeightsRadius(t *testing.T) {
	tests := []struct {
		scale  float64
		radius int
	}{
		{2, 2},
		{1, 2},
		{0.5, 4},
		{0.4, 5},
		{0.3, 7},
	}
	for _, tt := range tests {
		w, err := NewWeights(tt.scale, Bicubic{})
		require.NoError(t, err)
		assert.Equal(t, tt.radius, w.Radius, "scale %g", tt.scale)
		assert.Equal(t, 2*tt.radius, w.Width)
		assert.Zero(t, w.Step%8)
		assert.GreaterOrEqual(t, w.Step, w.Width)
		assert.Equal(t, int32(1-tt.radius), w.Offset())
	}
}

func TestWeightsPhaseZeroIsIdentity(t *testing.T) {
	w, err := NewWeights(1, Bicubic{})
	require.NoError(t, err)
	assert.Equal(t, []int16{0, 16384, 0, 0}, w.Phase16(0))
	assert.Equal(t, []float32{0, 1, 0, 0}, w.Phase32(0))
}

func TestWeightsHalfPhaseIsSymmetric(t *testing.T) {
	w, err := NewWeights(1, Bicubic{})
	require.NoError(t, err)
	w32 := w.Phase32(ops.SubsampleCount / 2)
	assert.InDelta(t, w32[0], w32[3], 1e-7)
	assert.InDelta(t, w32[1], w32[2], 1e-7)
}

func TestWeightsErrors(t *testing.T) {
	for _, scale := range []float64{0, -1} {
		_, err := NewWeights(scale, Bicubic{})
		assert.ErrorIs(t, err, rawtile.ErrProgram)
	}
}

func TestCachedWeightsShared(t *testing.T) {
	a, err := CachedWeights(0.25, Bicubic{})
	require.NoError(t, err)
	b, err := CachedWeights(0.25, Bicubic{})
	require.NoError(t, err)
	assert.Same(t, a, b)

	// Every upscale uses the unit scale table.
	c, err := CachedWeights(3, Bicubic{})
	require.NoError(t, err)
	d, err := CachedWeights(1, Bicubic{})
	require.NoError(t, err)
	assert.Same(t, c, d)
}

func TestWeights2DPhaseSums(t *testing.T) {
	w, err := NewWeights2D(Bicubic{})
	require.NoError(t, err)
	assert.Equal(t, 2, w.Radius)
	assert.Equal(t, 4, w.Width)
	for py := range ops.Subsample2DCount {
		for px := range ops.Subsample2DCount {
			var s16 int
			var s32 float64
			for _, v := range w.Phase16(py, px) {
				s16 += int(v)
			}
			for _, v := range w.Phase32(py, px) {
				s32 += float64(v)
			}
			require.Equal(t, 16384, s16, "phase %d,%d", py, px)
			require.InDelta(t, 1, s32, 1e-5, "phase %d,%d", py, px)
		}
	}
	w16 := w.Phase16(0, 0)
	assert.Equal(t, int16(16384), w16[1*w.RowStep+1])
}

// =============================================================================
// Coords
// =============================================================================

func TestCoordsIdentity(t *testing.T) {
	c := NewCoords(10, 8, 0, 8)
	for i := range int32(8) {
		assert.Equal(t, (10+i)<<ops.SubsampleBits, c.At(i))
		assert.Equal(t, 10+i, c.Pixel(i))
	}
}

func TestCoordsHalve(t *testing.T) {
	c := NewCoords(0, 8, 5, 4)
	// Destination centers land between source pixel pairs.
	want := []int32{
		0<<ops.SubsampleBits | 64,
		2<<ops.SubsampleBits | 64,
		4<<ops.SubsampleBits | 64,
		6<<ops.SubsampleBits | 64,
	}
	assert.Equal(t, want, c.Span(5, 9))
}

func TestCoordsDouble(t *testing.T) {
	c := NewCoords(0, 2, 0, 4)
	// The first center maps to -0.25: pixel -1 at phase 96.
	assert.Equal(t, int32(-32), c.At(0))
	assert.Equal(t, int32(-1), c.Pixel(0))
	assert.Equal(t, int32(32), c.At(1))
	assert.Equal(t, int32(96), c.At(2))
	assert.Equal(t, int32(160), c.At(3))
}

// =============================================================================
// Task
// =============================================================================

func TestImageIdentity(t *testing.T) {
	for _, typ := range []pixel.Type{pixel.U16, pixel.F32} {
		t.Run(typ.String(), func(t *testing.T) {
			size := geom.Pt(37, 53)
			src := fill(t, typ, size, 2, func(r, c int32, p int) float64 {
				v := float64((r*131+c*17+int32(p)*7)%1000) * 50
				if typ == pixel.F32 {
					return v / 65535
				}
				return v
			})
			dst, err := image.Alloc(geom.RectOfSize(size), 2, typ)
			require.NoError(t, err)

			bounds := geom.RectOfSize(size)
			require.NoError(t, Image(context.Background(), newHost(t), src, dst, bounds, bounds, nil))

			diff, err := dst.MaximumDifference(src, bounds, 0, 2)
			require.NoError(t, err)
			assert.Zero(t, diff)
		})
	}
}

func TestImageConstant(t *testing.T) {
	tests := []struct {
		name string
		src  geom.Point
		dst  geom.Point
	}{
		{"down", geom.Pt(64, 80), geom.Pt(17, 23)},
		{"up", geom.Pt(9, 11), geom.Pt(40, 50)},
		{"mixed", geom.Pt(30, 12), geom.Pt(10, 36)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := fill(t, pixel.U16, tt.src, 1, func(int32, int32, int) float64 { return 12345 })
			dst, err := image.Alloc(geom.RectOfSize(tt.dst), 1, pixel.U16)
			require.NoError(t, err)

			require.NoError(t, Image(context.Background(), newHost(t), src, dst,
				src.Bounds(), dst.Bounds(), Bicubic{}))

			got := readAll(t, dst)
			for r := range tt.dst.V {
				for c := range tt.dst.H {
					require.Equal(t, 12345.0, got.Get(r, c, 0), "pixel %d,%d", r, c)
				}
			}
		})
	}
}

func TestImageHalvesRamp(t *testing.T) {
	// A linear ramp stays linear away from the edges.
	src := fill(t, pixel.F32, geom.Pt(4, 64), 1, func(_, c int32, _ int) float64 {
		return float64(c) / 128
	})
	dst, err := image.Alloc(geom.RectOfSize(geom.Pt(4, 32)), 1, pixel.F32)
	require.NoError(t, err)

	require.NoError(t, Image(context.Background(), newHost(t), src, dst,
		src.Bounds(), dst.Bounds(), Bicubic{}))

	got := readAll(t, dst)
	for c := int32(4); c < 28; c++ {
		assert.InDelta(t, (float64(2*c)+0.5)/128, got.Get(1, c, 0), 1e-5, "col %d", c)
	}
}

func TestImageCanceled(t *testing.T) {
	src := fill(t, pixel.U16, geom.Pt(32, 32), 1, func(int32, int32, int) float64 { return 1 })
	dst, err := image.Alloc(geom.RectOfSize(geom.Pt(16, 16)), 1, pixel.U16)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Image(ctx, newHost(t), src, dst, src.Bounds(), dst.Bounds(), nil)
	assert.ErrorIs(t, err, rawtile.ErrAborted)
}

func TestNewTaskEmpty(t *testing.T) {
	src := fill(t, pixel.U16, geom.Pt(4, 4), 1, func(int32, int32, int) float64 { return 1 })
	_, err := NewTask(src, src, geom.Rect{}, src.Bounds(), nil)
	assert.ErrorIs(t, err, rawtile.ErrProgram)
}

func TestSrcArea(t *testing.T) {
	src := fill(t, pixel.U16, geom.Pt(64, 64), 1, func(int32, int32, int) float64 { return 1 })
	dst, err := image.Alloc(geom.RectOfSize(geom.Pt(32, 32)), 1, pixel.U16)
	require.NoError(t, err)
	rt, err := NewTask(src, dst, src.Bounds(), dst.Bounds(), nil)
	require.NoError(t, err)

	// Radius 4 at half scale: rows 0..7 center on 0.5..14.5.
	area := rt.SrcArea(geom.R(0, 0, 8, 8))
	assert.Equal(t, geom.R(-3, -3, 19, 19), area)
	size := rt.SrcTileSize(geom.Pt(8, 8))
	assert.GreaterOrEqual(t, size.V, area.H())
	assert.GreaterOrEqual(t, size.H, area.W())
}
