package image

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/pixel"
)

func sample(r, c int32, p int) float64 {
	return float64(r*100 + c + int32(p)*10000)
}

func mod(a, n int32) int32 {
	return ((a % n) + n) % n
}

// filled returns a U16 image holding sample() at every pixel.
func filled(t *testing.T, bounds geom.Rect, planes int, opts ...MemoryOption) *Image {
	t.Helper()
	im, err := Alloc(bounds, planes, pixel.U16, opts...)
	require.NoError(t, err)
	buf, err := pixel.Alloc(bounds, 0, planes, pixel.U16, pixel.Interleaved)
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

// =============================================================================
// Get inside bounds
// =============================================================================

func TestGetAcrossTiles(t *testing.T) {
	bounds := geom.R(2, 3, 12, 15)
	im := filled(t, bounds, 2, WithTileSize(4, 5))

	areas := []geom.Rect{
		bounds,
		geom.R(5, 6, 9, 14),
		geom.R(2, 3, 3, 4),
	}
	for _, area := range areas {
		t.Run(area.String(), func(t *testing.T) {
			buf, err := pixel.Alloc(area, 0, 2, pixel.U16, pixel.Planar)
			require.NoError(t, err)
			require.NoError(t, im.Get(buf, EdgeNone, 0, 0))
			for r := area.T; r < area.B; r++ {
				for c := area.L; c < area.R; c++ {
					for p := range 2 {
						require.Equal(t, sample(r, c, p), buf.Get(r, c, p), "(%d,%d,%d)", r, c, p)
					}
				}
			}
		})
	}
}

func TestGetSinglePlane(t *testing.T) {
	bounds := geom.R(0, 0, 6, 6)
	im := filled(t, bounds, 3, WithTileSize(4, 4))
	buf, err := pixel.Alloc(bounds, 1, 1, pixel.U16, pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, im.Get(buf, EdgeNone, 0, 0))
	assert.Equal(t, sample(5, 5, 1), buf.Get(5, 5, 1))
}

// =============================================================================
// Edges
// =============================================================================

func TestGetEdgeZero(t *testing.T) {
	bounds := geom.R(2, 3, 12, 15)
	im := filled(t, bounds, 1, WithTileSize(4, 5))
	area := geom.R(0, 0, 14, 18)
	buf, err := pixel.Alloc(area, 0, 1, pixel.U16, pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, buf.SetConstant(area, 0, 1, 0xffff))
	require.NoError(t, im.Get(buf, EdgeZero, 1, 1))
	for r := area.T; r < area.B; r++ {
		for c := area.L; c < area.R; c++ {
			want := 0.0
			if bounds.Contains(geom.Pt(r, c)) {
				want = sample(r, c, 0)
			}
			require.Equal(t, want, buf.Get(r, c, 0), "(%d,%d)", r, c)
		}
	}
}

func TestGetEdgeNoneLeavesOutside(t *testing.T) {
	im := filled(t, geom.R(0, 0, 4, 4), 1)
	area := geom.R(-1, -1, 5, 5)
	buf, err := pixel.Alloc(area, 0, 1, pixel.U16, pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, buf.SetConstant(area, 0, 1, 77))
	require.NoError(t, im.Get(buf, EdgeNone, 0, 0))
	assert.Equal(t, 77.0, buf.Get(-1, -1, 0))
	assert.Equal(t, 77.0, buf.Get(4, 2, 0))
	assert.Equal(t, sample(3, 3, 0), buf.Get(3, 3, 0))
}

func TestGetEdgeRepeat(t *testing.T) {
	bounds := geom.R(2, 3, 12, 15)
	im := filled(t, bounds, 2, WithTileSize(4, 5))

	wrap := func(x, lo, hi, n int32) int32 {
		switch {
		case x < lo:
			return lo + mod(x-lo, n)
		case x >= hi:
			return hi - n + mod(x-(hi-n), n)
		}
		return x
	}

	tests := []struct {
		name   string
		area   geom.Rect
		rv, rh int32
	}{
		{"around clamp", geom.R(-3, -4, 16, 20), 1, 1},
		{"around period", geom.R(-3, -4, 16, 20), 3, 4},
		{"top right", geom.R(0, 10, 5, 20), 2, 3},
		{"outside corner", geom.R(-5, -7, 0, 1), 3, 4},
		{"above", geom.R(-6, 5, 1, 11), 3, 2},
		{"below right", geom.R(13, 16, 20, 25), 2, 5},
		{"period larger than area", geom.R(-2, -2, 0, 0), 5, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := pixel.Alloc(tt.area, 0, 2, pixel.U16, pixel.Planar)
			require.NoError(t, err)
			require.NoError(t, im.Get(buf, EdgeRepeat, tt.rv, tt.rh))
			for r := tt.area.T; r < tt.area.B; r++ {
				for c := tt.area.L; c < tt.area.R; c++ {
					sr := wrap(r, bounds.T, bounds.B, tt.rv)
					sc := wrap(c, bounds.L, bounds.R, tt.rh)
					for p := range 2 {
						require.Equal(t, sample(sr, sc, p), buf.Get(r, c, p), "(%d,%d,%d)", r, c, p)
					}
				}
			}
		})
	}
}

func TestGetEdgeRepeatZeroLast(t *testing.T) {
	bounds := geom.R(0, 0, 8, 8)
	im := filled(t, bounds, 3, WithTileSize(4, 4))
	area := geom.R(-2, -2, 10, 10)
	buf, err := pixel.Alloc(area, 0, 3, pixel.U16, pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, im.Get(buf, EdgeRepeatZeroLast, 1, 1))

	assert.Equal(t, sample(0, 0, 0), buf.Get(-2, -2, 0))
	assert.Equal(t, sample(7, 0, 1), buf.Get(9, -1, 1))
	assert.Equal(t, 0.0, buf.Get(-2, -2, 2))
	assert.Equal(t, 0.0, buf.Get(9, 4, 2))
	assert.Equal(t, sample(4, 4, 2), buf.Get(4, 4, 2))
}

func TestGetBadPlanes(t *testing.T) {
	im := filled(t, geom.R(0, 0, 4, 4), 1)
	buf, err := pixel.Alloc(geom.R(0, 0, 4, 4), 0, 2, pixel.U16, pixel.Planar)
	require.NoError(t, err)
	assert.ErrorIs(t, im.Get(buf, EdgeNone, 0, 0), rawtile.ErrProgram)
}

// =============================================================================
// Put, Trim, SetConstant, CopyArea
// =============================================================================

func TestPutOutsideBounds(t *testing.T) {
	im, err := Alloc(geom.R(0, 0, 4, 4), 1, pixel.U8)
	require.NoError(t, err)
	buf, err := pixel.Alloc(geom.R(2, 2, 6, 6), 0, 1, pixel.U8, pixel.Planar)
	require.NoError(t, err)
	assert.ErrorIs(t, im.Put(buf), rawtile.ErrProgram)
}

func TestTrim(t *testing.T) {
	im := filled(t, geom.R(2, 3, 12, 15), 1, WithTileSize(4, 5))
	r := geom.R(4, 4, 8, 8)
	require.NoError(t, im.Trim(r))
	assert.Equal(t, r, im.Bounds())

	buf, err := pixel.Alloc(geom.R(3, 4, 8, 8), 0, 1, pixel.U16, pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, im.Get(buf, EdgeRepeat, 1, 1))
	assert.Equal(t, sample(4, 5, 0), buf.Get(3, 5, 0))
	assert.Equal(t, sample(7, 7, 0), buf.Get(7, 7, 0))

	assert.ErrorIs(t, im.Trim(geom.R(0, 0, 20, 20)), rawtile.ErrProgram)
}

func TestSetConstant(t *testing.T) {
	im := filled(t, geom.R(0, 0, 9, 9), 2, WithTileSize(4, 4))
	require.NoError(t, im.SetConstant(7, geom.R(3, 3, 6, 6)))
	buf, err := pixel.Alloc(im.Bounds(), 0, 2, pixel.U16, pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, im.Get(buf, EdgeNone, 0, 0))
	assert.Equal(t, 7.0, buf.Get(3, 3, 0))
	assert.Equal(t, 7.0, buf.Get(5, 5, 1))
	assert.Equal(t, sample(6, 6, 1), buf.Get(6, 6, 1))
}

func TestUnwrittenTilesReadZero(t *testing.T) {
	im, err := Alloc(geom.R(0, 0, 8, 8), 1, pixel.I16, WithTileSize(4, 4))
	require.NoError(t, err)
	buf, err := pixel.Alloc(im.Bounds(), 0, 1, pixel.I16, pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, im.Get(buf, EdgeNone, 0, 0))
	s, err := buf.I16()
	require.NoError(t, err)
	assert.Equal(t, int16(-0x8000), s[0])
}

func TestCopyAreaConverts(t *testing.T) {
	bounds := geom.R(0, 0, 7, 9)
	src := filled(t, bounds, 2, WithTileSize(4, 4))
	dst, err := Alloc(bounds, 3, pixel.F32, WithTileSize(3, 5))
	require.NoError(t, err)
	require.NoError(t, dst.CopyArea(src, bounds, 1, 2, 1))

	buf, err := pixel.Alloc(bounds, 2, 1, pixel.F32, pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, dst.Get(buf, EdgeNone, 0, 0))
	for r := bounds.T; r < bounds.B; r++ {
		for c := bounds.L; c < bounds.R; c++ {
			assert.InDelta(t, sample(r, c, 1)/0xffff, buf.Get(r, c, 2), 1e-6)
		}
	}
}

func TestEqualArea(t *testing.T) {
	bounds := geom.R(0, 0, 6, 6)
	a := filled(t, bounds, 1, WithTileSize(4, 4))
	b := filled(t, bounds, 1, WithTileSize(3, 3))

	eq, err := a.EqualArea(b, bounds, 0, 1)
	require.NoError(t, err)
	assert.True(t, eq)

	require.NoError(t, b.SetConstant(1, geom.R(5, 5, 6, 6)))
	eq, err = a.EqualArea(b, bounds, 0, 1)
	require.NoError(t, err)
	assert.False(t, eq)
}

// =============================================================================
// Memory storage
// =============================================================================

func TestMemoryWrittenTiles(t *testing.T) {
	m, err := NewMemory(geom.R(0, 0, 10, 10), 1, pixel.U8, WithTileSize(4, 4))
	require.NoError(t, err)
	im := New(m)

	buf, err := pixel.Alloc(geom.R(0, 0, 3, 3), 0, 1, pixel.U8, pixel.Planar)
	require.NoError(t, err)
	require.NoError(t, im.Put(buf))
	assert.Equal(t, []geom.Rect{geom.R(0, 0, 4, 4)}, m.Written())

	require.NoError(t, im.SetConstant(1, geom.R(9, 9, 10, 10)))
	assert.Equal(t, []geom.Rect{geom.R(0, 0, 4, 4), geom.R(8, 8, 10, 10)}, m.Written())

	m.ClearWritten()
	assert.Empty(t, m.Written())
}

func TestMemoryAcquireSpanningTiles(t *testing.T) {
	m, err := NewMemory(geom.R(0, 0, 8, 8), 1, pixel.U8, WithTileSize(4, 4))
	require.NoError(t, err)
	_, err = m.AcquireTileBuffer(geom.R(2, 2, 6, 6), false)
	assert.ErrorIs(t, err, rawtile.ErrProgram)
}

func TestMemoryPoolRelease(t *testing.T) {
	pool := pixel.NewPool(0)
	m, err := NewMemory(geom.R(0, 0, 8, 8), 1, pixel.U16, WithTileSize(4, 4), WithPool(pool))
	require.NoError(t, err)
	require.NoError(t, New(m).SetConstant(3, m.Bounds()))
	m.Release()
	assert.Equal(t, 4, pool.Len())
}

func TestNewMemoryInvalid(t *testing.T) {
	_, err := NewMemory(geom.Rect{}, 1, pixel.U8)
	assert.ErrorIs(t, err, rawtile.ErrProgram)
	_, err = NewMemory(geom.R(0, 0, 1, 1), 0, pixel.U8)
	assert.ErrorIs(t, err, rawtile.ErrProgram)
}

// =============================================================================
// TIFF
// =============================================================================

func TestTIFFRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		planes int
		typ    pixel.Type
	}{
		{"gray8", 1, pixel.U8},
		{"gray16", 1, pixel.U16},
		{"rgb8", 3, pixel.U8},
		{"rgb16", 3, pixel.U16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bounds := geom.R(0, 0, 5, 7)
			im, err := Alloc(bounds, tt.planes, tt.typ)
			require.NoError(t, err)
			buf, err := pixel.Alloc(bounds, 0, tt.planes, tt.typ, pixel.Interleaved)
			require.NoError(t, err)
			for r := range bounds.H() {
				for c := range bounds.W() {
					for p := range tt.planes {
						buf.Set(r, c, p, float64((r*37+c*11+int32(p)*5)%250))
					}
				}
			}
			require.NoError(t, im.Put(buf))

			var out bytes.Buffer
			require.NoError(t, WriteTIFF(&out, im))
			back, err := ReadTIFF(&out)
			require.NoError(t, err)
			assert.Equal(t, tt.planes, back.Planes())
			assert.Equal(t, tt.typ, back.PixelType())
			eq, err := im.EqualArea(back, bounds, 0, tt.planes)
			require.NoError(t, err)
			assert.True(t, eq)
		})
	}
}

func TestReadTIFFBad(t *testing.T) {
	_, err := ReadTIFF(bytes.NewReader([]byte("not a tiff")))
	assert.ErrorIs(t, err, rawtile.ErrBadFormat)
}

func TestPreviewScales(t *testing.T) {
	im, err := Alloc(geom.R(0, 0, 50, 100), 3, pixel.U8)
	require.NoError(t, err)
	p, err := Preview(im, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, p.Bounds().Dx())
	assert.Equal(t, 20, p.Bounds().Dy())

	p, err = Preview(im, 200)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Bounds().Dx())
}
