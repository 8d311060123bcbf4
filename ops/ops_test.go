package ops

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Reference vs Optimized
// =============================================================================

func walks() []CopyWalk {
	return []CopyWalk{
		{Rows: 1, Cols: 1, Planes: 64, SrcPlaneStep: 1, DstPlaneStep: 1},
		{Rows: 4, Cols: 8, Planes: 1, SrcRowStep: 8, SrcColStep: 1, DstRowStep: 10, DstColStep: 1},
		{Rows: 3, Cols: 5, Planes: 3, SrcRowStep: 15, SrcColStep: 3, SrcPlaneStep: 1, DstRowStep: 15, DstColStep: 3, DstPlaneStep: 1},
		{Rows: 2, Cols: 4, Planes: 3, SrcRowStep: 4, SrcColStep: 1, SrcPlaneStep: 8, DstRowStep: 12, DstColStep: 3, DstPlaneStep: 1},
	}
}

func TestOptimizedMatchesReference(t *testing.T) {
	ref := Reference{}
	opt := Optimized{}
	rng := rand.New(rand.NewPCG(1, 2))

	for i, w := range walks() {
		src := make([]uint16, 128)
		for j := range src {
			src[j] = uint16(rng.UintN(65536))
		}

		a := make([]uint16, 128)
		b := make([]uint16, 128)
		ref.CopyArea16(src, 0, a, 0, w)
		opt.CopyArea16(src, 0, b, 0, w)
		assert.Equal(t, a, b, "CopyArea16 walk %d", i)
		assert.True(t, opt.EqualArea16(src, 0, b, 0, w), "EqualArea16 walk %d", i)

		fa := make([]float32, 128)
		fb := make([]float32, 128)
		ref.CopyArea16ToR32(src, 0, fa, 0, w, 65535)
		opt.CopyArea16ToR32(src, 0, fb, 0, w, 65535)
		assert.Equal(t, fa, fb, "CopyArea16ToR32 walk %d", i)

		ref.CopyAreaR32To16(fa, 0, a, 0, w, 65535)
		opt.CopyAreaR32To16(fb, 0, b, 0, w, 65535)
		assert.Equal(t, a, b, "CopyAreaR32To16 walk %d", i)
	}

	da := make([]uint16, 64)
	db := make([]uint16, 64)
	fill := Walk{Rows: 4, Cols: 4, Planes: 2, RowStep: 16, ColStep: 4, PlaneStep: 1}
	ref.SetArea16(da, 1, 0xBEEF, fill)
	opt.SetArea16(db, 1, 0xBEEF, fill)
	assert.Equal(t, da, db)
}

func TestSelect(t *testing.T) {
	o := Select()
	require.NotNil(t, o)
	assert.Contains(t, []Level{LevelReference, LevelOptimized}, CurrentLevel())
	assert.Equal(t, Reference{}, Or(nil))
	assert.Equal(t, Optimized{}, Or(Optimized{}))
}

// =============================================================================
// Area primitives
// =============================================================================

func TestRepeatArea(t *testing.T) {
	// 1x6 row: source period 2 at the start, fill the rest.
	d := []uint16{7, 9, 0, 0, 0, 0}
	w := Walk{Rows: 1, Cols: 4, Planes: 1, RowStep: 6, ColStep: 1, PlaneStep: 1}
	Reference{}.RepeatArea16(d, 0, 2, w, Repeat{V: 1, H: 2})
	assert.Equal(t, []uint16{7, 9, 7, 9, 7, 9}, d)

	// Phase 1 starts at the second element of the period.
	d = []uint16{7, 9, 0, 0, 0}
	w.Cols = 3
	Reference{}.RepeatArea16(d, 0, 2, w, Repeat{V: 1, H: 2, PhaseH: 1})
	assert.Equal(t, []uint16{7, 9, 9, 7, 9}, d)
}

func TestShiftRightAndMap(t *testing.T) {
	d := []uint16{0x100, 0x200, 0xFFFF}
	w := Walk{Rows: 1, Cols: 1, Planes: 3, PlaneStep: 1}
	Reference{}.ShiftRight16(d, 0, w, 4)
	assert.Equal(t, []uint16{0x10, 0x20, 0x0FFF}, d)

	table := make([]uint16, 0x10000)
	for i := range table {
		table[i] = uint16(0xFFFF - i)
	}
	Optimized{}.MapArea16(d, 0, w, table)
	assert.Equal(t, []uint16{0xFFEF, 0xFFDF, 0xF000}, d)
}

func TestSignedConversions(t *testing.T) {
	w := CopyWalk{Rows: 1, Cols: 1, Planes: 3, SrcPlaneStep: 1, DstPlaneStep: 1}
	src := []uint16{0, 0x8000, 0xFFFF}
	s16 := make([]int16, 3)
	Reference{}.CopyArea16ToS16(src, 0, s16, 0, w)
	assert.Equal(t, []int16{-32768, 0, 32767}, s16)

	back := make([]uint16, 3)
	Reference{}.CopyAreaS16To16(s16, 0, back, 0, w)
	assert.Equal(t, src, back)

	f := make([]float32, 3)
	Reference{}.CopyAreaS16ToR32(s16, 0, f, 0, w, 65535)
	assert.InDelta(t, 0.0, f[0], 1e-7)
	assert.InDelta(t, 1.0, f[2], 1e-7)
}

func TestMaximumDifference(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i, w := range walks() {
		s := make([]uint16, 128)
		for j := range s {
			s[j] = uint16(rng.UintN(65536))
		}
		d := make([]uint16, 128)
		Reference{}.CopyArea16(s, 0, d, 0, w)
		assert.Zero(t, Reference{}.MaximumDifference16(s, 0, d, 0, w), "walk %d", i)

		// The last sample of the walk.
		last := (w.Rows-1)*w.DstRowStep + (w.Cols-1)*w.DstColStep + (w.Planes-1)*w.DstPlaneStep
		want := float64(d[last])
		if d[last] < 0x8000 {
			want = 0xFFFF - want
			d[last] = 0xFFFF
		} else {
			d[last] = 0
		}
		assert.Equal(t, want, Optimized{}.MaximumDifference16(s, 0, d, 0, w), "walk %d", i)
	}

	w := CopyWalk{Rows: 1, Cols: 3, Planes: 1, SrcColStep: 1, DstColStep: 1}
	assert.Equal(t, 300.0, Reference{}.MaximumDifferenceS16([]int16{-100, 5, 7}, 0, []int16{200, 5, 7}, 0, w))
	assert.InDelta(t, 0.5, Reference{}.MaximumDifferenceR32([]float32{0, 1, 0.25}, 0, []float32{0, 1, 0.75}, 0, w), 1e-7)
}

// =============================================================================
// Color bottlenecks
// =============================================================================

func TestHSVRoundTrip(t *testing.T) {
	colors := [][3]float32{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.2, 0.5, 0.7}, {0.9, 0.9, 0.1}, {0.3, 0.3, 0.3},
	}
	for _, c := range colors {
		h, s, v := RGBtoHSV(c[0], c[1], c[2])
		r, g, b := HSVtoRGB(h, s, v)
		assert.InDelta(t, c[0], r, 1e-6)
		assert.InDelta(t, c[1], g, 1e-6)
		assert.InDelta(t, c[2], b, 1e-6)
	}
}

func identityTable(n int) []float32 {
	t := make([]float32, n+2)
	for i := range n + 1 {
		t[i] = float32(i) / float32(n)
	}
	t[n+1] = t[n]
	return t
}

func TestRGBToneIdentity(t *testing.T) {
	table := identityTable(4096)
	r := []float32{0.9, 0.1, 0.5, 0.4, 0.2, 0.3, 0.6}
	g := []float32{0.5, 0.1, 0.2, 0.4, 0.8, 0.5, 0.9}
	b := []float32{0.1, 0.7, 0.3, 0.4, 0.2, 0.9, 0.7}
	dr := make([]float32, len(r))
	dg := make([]float32, len(r))
	db := make([]float32, len(r))
	Reference{}.RGBTone(r, g, b, dr, dg, db, table)
	for j := range r {
		assert.InDelta(t, r[j], dr[j], 1e-5)
		assert.InDelta(t, g[j], dg[j], 1e-5)
		assert.InDelta(t, b[j], db[j], 1e-5)
	}
}

func TestHueSatMapNeutral(t *testing.T) {
	table := &HueSatTable{HueDivisions: 6, SatDivisions: 2, ValDivisions: 1}
	table.Deltas = make([]HueSatDelta, 12)
	for i := range table.Deltas {
		table.Deltas[i] = HueSatDelta{SatScale: 1, ValScale: 1}
	}
	r := []float32{0.8, 0.1}
	g := []float32{0.4, 0.6}
	b := []float32{0.2, 0.3}
	dr := make([]float32, 2)
	dg := make([]float32, 2)
	db := make([]float32, 2)
	Reference{}.HueSatMap(r, g, b, dr, dg, db, table)
	assert.InDeltaSlice(t, r, dr, 1e-6)
	assert.InDeltaSlice(t, g, dg, 1e-6)
	assert.InDeltaSlice(t, b, db, 1e-6)
}

func TestABCtoRGBClipsToWhite(t *testing.T) {
	a := []float32{1.0}
	b := []float32{0.25}
	c := []float32{0.25}
	r := make([]float32, 1)
	g := make([]float32, 1)
	bl := make([]float32, 1)
	id := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	Reference{}.ABCtoRGB(a, b, c, r, g, bl, [3]float64{0.5, 1, 1}, id)
	assert.Equal(t, float32(0.5), r[0])
	assert.Equal(t, float32(0.25), g[0])
}

// =============================================================================
// Resample and vignette
// =============================================================================

func TestResampleUnitWeights(t *testing.T) {
	s := []uint16{100, 200, 300, 400}
	d := make([]uint16, 4)
	Reference{}.ResampleDown16(s, 0, d, 4, 4, []int16{16384}, 65535)
	assert.Equal(t, s, d)

	weights := make([]int16, SubsampleCount)
	for i := range weights {
		weights[i] = 16384
	}
	coords := []int32{0, 2 << SubsampleBits, 3<<SubsampleBits | 5}
	out := make([]uint16, 3)
	Reference{}.ResampleAcross16(s, 0, out, coords, weights, 1, 1, 65535)
	assert.Equal(t, []uint16{100, 300, 400}, out)
}

func TestVignetteUnityMask(t *testing.T) {
	s := []int16{-32768, -1, 0, 32767}
	m := []uint16{1 << 15, 1 << 15, 1 << 15, 1 << 15}
	orig := append([]int16(nil), s...)
	Reference{}.Vignette16(s, 0, m, 1, 4, 1, 4, 4, 4, 15)
	assert.Equal(t, orig, s)

	// Gain of two saturates the top half.
	for i := range m {
		m[i] = 1 << 14
	}
	Reference{}.Vignette16(s, 0, m, 1, 4, 1, 4, 4, 4, 13)
	assert.Equal(t, int16(32767), s[3])
	assert.Equal(t, int16(-32768), s[0])
}

func TestVignetteMaskCenter(t *testing.T) {
	table := make([]uint16, 257)
	for i := range table {
		table[i] = uint16(i)
	}
	m := make([]uint16, 1)
	Reference{}.VignetteMask16(m, 1, 1, 1, 0, 0, 0, 0, 8, table)
	assert.Equal(t, uint16(0), m[0])
}

func BenchmarkCopyArea16(b *testing.B) {
	src := make([]uint16, 256*256)
	dst := make([]uint16, 256*256)
	w := CopyWalk{Rows: 256, Cols: 1, Planes: 256, SrcRowStep: 256, SrcPlaneStep: 1, DstRowStep: 256, DstPlaneStep: 1}
	for _, impl := range []PixelOps{Reference{}, Optimized{}} {
		b.Run(func() string {
			if _, ok := impl.(Optimized); ok {
				return "optimized"
			}
			return "reference"
		}(), func(b *testing.B) {
			for b.Loop() {
				impl.CopyArea16(src, 0, dst, 0, w)
			}
		})
	}
}
