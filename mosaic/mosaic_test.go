package mosaic

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

func bayer(t *testing.T, pattern string, size geom.Point) *Info {
	t.Helper()
	info, err := NewCFA(2, 2, pattern, size)
	require.NoError(t, err)
	return info
}

func xTrans(t *testing.T) *Info {
	t.Helper()
	info, err := NewCFA(6, 6,
		"GGRGGB"+
			"GGBGGR"+
			"BRGRBG"+
			"GGBGGR"+
			"GGRGGB"+
			"RBGBRG", geom.Pt(36, 36))
	require.NoError(t, err)
	return info
}

// mosaicImage returns a one plane u16 image with sample(r, c) at every pixel.
func mosaicImage(t *testing.T, size geom.Point, sample func(r, c int32) uint16) *image.Image {
	t.Helper()
	bounds := geom.RectOfSize(size)
	im, err := image.Alloc(bounds, 1, pixel.U16)
	require.NoError(t, err)
	buf, err := pixel.Alloc(bounds, 0, 1, pixel.U16, pixel.Planar)
	require.NoError(t, err)
	for r := bounds.T; r < bounds.B; r++ {
		for c := bounds.L; c < bounds.R; c++ {
			buf.Set(r, c, 0, float64(sample(r, c)))
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

func newHost(t *testing.T) *task.Host {
	t.Helper()
	h := task.NewHost(task.WithMaxThreads(2))
	t.Cleanup(h.Close)
	return h
}

// =============================================================================
// Info
// =============================================================================

func TestNewCFA(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(8, 8))
	assert.Equal(t, 3, info.ColorPlanes)
	assert.Equal(t, [MaxColorPlanes]uint8{Red, Green, Blue, 0}, info.CFAPlaneColor)
	assert.Equal(t, Blue, info.CFAPattern[1][1])
	assert.Equal(t, "RG/GB", info.String())
	assert.True(t, info.IsColorFilterArray())
	require.NoError(t, info.Validate())

	cygm, err := NewCFA(2, 2, "cygm", geom.Pt(8, 8))
	require.NoError(t, err)
	assert.Equal(t, 4, cygm.ColorPlanes)
	assert.Equal(t, [MaxColorPlanes]uint8{Green, Cyan, Magenta, Yellow}, cygm.CFAPlaneColor)
}

func TestNewCFAErrors(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		pattern    string
	}{
		{"empty", 0, 2, ""},
		{"too large", 9, 1, "RRRRRRRRR"},
		{"short", 2, 2, "RGB"},
		{"bad letter", 2, 2, "RGXB"},
		{"five colors", 2, 3, "RGBCMY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCFA(tt.rows, tt.cols, tt.pattern, geom.Pt(8, 8))
			assert.ErrorIs(t, err, rawtile.ErrBadFormat)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Info)
	}{
		{"no pattern", func(i *Info) { i.CFAPatternSize = geom.Point{} }},
		{"no planes", func(i *Info) { i.ColorPlanes = 0 }},
		{"layout zero", func(i *Info) { i.CFALayout = 0 }},
		{"layout ten", func(i *Info) { i.CFALayout = 10 }},
		{"odd dual staggered", func(i *Info) {
			i.CFAPatternSize = geom.Pt(3, 2)
			i.CFALayout = 7
		}},
		{"missing plane color", func(i *Info) { i.CFAPlaneColor[2] = White }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := bayer(t, "RGGB", geom.Pt(8, 8))
			tt.modify(info)
			assert.ErrorIs(t, info.Validate(), rawtile.ErrBadFormat)
		})
	}
}

func TestFullScale(t *testing.T) {
	want := map[int]geom.Point{
		1: geom.Pt(1, 1), 2: geom.Pt(2, 1), 3: geom.Pt(2, 1),
		4: geom.Pt(1, 2), 5: geom.Pt(1, 2), 6: geom.Pt(1, 1),
		7: geom.Pt(1, 1), 8: geom.Pt(1, 1), 9: geom.Pt(1, 1),
	}
	for layout, scale := range want {
		info := &Info{CFALayout: layout}
		assert.Equal(t, scale, info.FullScale(), "layout %d", layout)
	}
}

func TestSetFourColorBayer(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(8, 8))
	require.True(t, info.SetFourColorBayer())
	assert.Equal(t, 4, info.ColorPlanes)
	assert.Equal(t, uint8(3), info.CFAPlaneColor[3])
	assert.Equal(t, uint8(3), info.CFAPattern[1][0])
	assert.Equal(t, Green, info.CFAPattern[0][1])
	require.NoError(t, info.Validate())

	// Blue first in the pattern: the green of the blue row still changes.
	bggr := bayer(t, "BGGR", geom.Pt(8, 8))
	require.True(t, bggr.SetFourColorBayer())
	assert.Equal(t, uint8(3), bggr.CFAPattern[0][1])

	assert.False(t, bayer(t, "RGBG", geom.Pt(8, 8)).SetFourColorBayer(), "greens not diagonal")
	assert.False(t, xTrans(t).SetFourColorBayer())
	assert.False(t, info.SetFourColorBayer(), "already four colors")
}

func TestIsSafeDownScale(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(8, 8))
	tests := []struct {
		scale geom.Point
		safe  bool
	}{
		{geom.Pt(1, 1), false},
		{geom.Pt(2, 1), false},
		{geom.Pt(1, 2), false},
		{geom.Pt(2, 2), true},
		{geom.Pt(3, 5), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.safe, info.IsSafeDownScale(tt.scale), "%v", tt.scale)
	}

	x := xTrans(t)
	assert.True(t, x.IsSafeDownScale(geom.Pt(3, 3)), "every 3x3 X-Trans block holds all colors")
	assert.False(t, x.IsSafeDownScale(geom.Pt(2, 2)))
}

func TestDownScale(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(4000, 6000))

	tests := []struct {
		name     string
		min      int32
		pref     int32
		crop     float64
		aspect   float64
		expected geom.Point
	}{
		{"closest to preferred", 256, 1024, 1, 1, geom.Pt(6, 6)},
		{"limited by minimum", 2000, 1024, 1, 1, geom.Pt(3, 3)},
		{"no preference", 256, 0, 1, 1, geom.Pt(1, 1)},
		{"minimum above full size", 7000, 7000, 1, 1, geom.Pt(1, 1)},
		{"crop factor", 256, 2048, 2, 1, geom.Pt(6, 6)},
		{"tall pixels", 256, 1024, 1, 2, geom.Pt(12, 6)},
		{"zero crop factor", 256, 1024, 0, 1, geom.Pt(6, 6)},
		{"negative crop factor", 256, 1024, -1, 1, geom.Pt(6, 6)},
		{"NaN crop factor", 256, 1024, math.NaN(), 1, geom.Pt(6, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info.AspectRatio = tt.aspect
			assert.Equal(t, tt.expected, info.DownScale(tt.min, tt.pref, tt.crop))
		})
	}

	none := &Info{}
	assert.Equal(t, geom.Pt(1, 1), none.DownScale(256, 1024, 1))
}

func TestSizeForDownScale(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(4000, 6000))
	assert.Equal(t, int32(6000), info.SizeForDownScale(geom.Pt(1, 1)))
	assert.Equal(t, int32(1000), info.SizeForDownScale(geom.Pt(6, 6)))
	assert.Equal(t, int32(857), info.SizeForDownScale(geom.Pt(7, 7)))
	assert.True(t, info.ValidSizeDownScale(geom.Pt(6, 6), 1000))
	assert.False(t, info.ValidSizeDownScale(geom.Pt(6, 6), 1001))
	assert.False(t, info.ValidSizeDownScale(geom.Pt(65, 1), 1))
}

func TestDstSize(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(101, 60))
	assert.Equal(t, geom.Pt(101, 60), info.DstSize(geom.Pt(1, 1)))
	assert.Equal(t, geom.Pt(51, 30), info.DstSize(geom.Pt(2, 2)))
	assert.Equal(t, geom.Pt(34, 20), info.DstSize(geom.Pt(3, 3)))
	assert.Equal(t, geom.Point{}, info.DstSize(geom.Pt(65, 2)))

	info.CFALayout = 2
	assert.Equal(t, geom.Pt(202, 60), info.DstSize(geom.Pt(1, 1)))
	info.CFALayout = 5
	assert.Equal(t, geom.Pt(101, 120), info.DstSize(geom.Pt(1, 1)))
}

// =============================================================================
// Kernels
// =============================================================================

func TestKernelWeightsSum(t *testing.T) {
	patterns := map[string]*Info{
		"bayer":  bayer(t, "RGGB", geom.Pt(16, 16)),
		"cygm":   bayer(t, "CYGM", geom.Pt(16, 16)),
		"xtrans": xTrans(t),
	}
	four := bayer(t, "GRBG", geom.Pt(16, 16))
	require.True(t, four.SetFourColorBayer())
	patterns["four color"] = four

	for name, base := range patterns {
		for layout := 1; layout <= 9; layout++ {
			info := *base
			info.CFALayout = layout
			if info.Validate() != nil {
				continue
			}
			for plane := range info.ColorPlanes {
				p, err := newBilinearPattern(&info, plane, 64, 1)
				require.NoError(t, err, "%s layout %d plane %d", name, layout, plane)
				require.Len(t, p.rows, p.patRows)
				for r, row := range p.rows {
					for c := range p.patCols {
						n := row.Counts[c]
						require.Positive(t, n)
						require.LessOrEqual(t, n, maxTaps)
						var sum16 int
						var sum32 float64
						for j := range n {
							sum16 += int(row.Weights16[c][j])
							sum32 += float64(row.Weights32[c][j])
							assert.Equal(t, float32(row.Weights16[c][j])/256, row.Weights32[c][j])
						}
						assert.Equal(t, 256, sum16, "%s layout %d plane %d phase %d,%d", name, layout, plane, r, c)
						assert.InDelta(t, 1.0, sum32, 1e-6)
					}
				}
			}
		}
	}
}

func TestKernelBayerCases(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(8, 8))
	const rowStep = 10

	green, err := newBilinearPattern(info, 1, rowStep, 1)
	require.NoError(t, err)
	// Green at red: all four sides.
	assert.Equal(t, []int{-rowStep, -1, 1, rowStep}, green.rows[0].Offsets[0])
	assert.Equal(t, []uint16{64, 64, 64, 64}, green.rows[0].Weights16[0])
	// Green at green: copied.
	assert.Equal(t, []int{0}, green.rows[0].Offsets[1])
	assert.Equal(t, []uint16{256}, green.rows[0].Weights16[1])

	red, err := newBilinearPattern(info, 0, rowStep, 1)
	require.NoError(t, err)
	// Red at the green of a red row: west and east.
	assert.Equal(t, []int{-1, 1}, red.rows[0].Offsets[1])
	assert.Equal(t, []uint16{128, 128}, red.rows[0].Weights16[1])
	// Red at the green of a blue row: north and south.
	assert.Equal(t, []int{-rowStep, rowStep}, red.rows[1].Offsets[0])
	// Red at blue: four corners.
	assert.Equal(t, []int{-rowStep - 1, -rowStep + 1, rowStep - 1, rowStep + 1}, red.rows[1].Offsets[1])
	assert.Equal(t, []uint16{64, 64, 64, 64}, red.rows[1].Weights16[1])
}

func TestKernelRoundingGoesToLargestTap(t *testing.T) {
	var k kernel
	k.add(geom.Pt(0, -1), 1.0/3)
	k.add(geom.Pt(0, 1), 1.0/3)
	k.add(geom.Pt(-1, 0), 1.0/3)
	k.finalize(geom.Pt(1, 1), 0, 0, 100, 1)

	require.Len(t, k.taps, 3)
	assert.Equal(t, geom.Pt(-1, 0), k.taps[0].delta, "taps sorted in scan order")
	assert.Equal(t, -100, k.taps[0].offset)
	var total int
	for _, tp := range k.taps {
		total += int(tp.w16)
	}
	assert.Equal(t, 256, total)
	assert.Equal(t, uint16(86), k.taps[0].w16)
	assert.Equal(t, uint16(85), k.taps[1].w16)
}

func TestKernelAddMergesAndDrops(t *testing.T) {
	var k kernel
	k.add(geom.Pt(1, 1), 0.25)
	k.add(geom.Pt(1, 1), 0.25)
	k.add(geom.Pt(0, 1), 0)
	k.add(geom.Pt(0, 2), -1)
	require.Len(t, k.taps, 1)
	assert.Equal(t, float32(0.5), k.taps[0].w32)
}

func TestHalve(t *testing.T) {
	assert.Equal(t, int32(0), halve(0, 0))
	assert.Equal(t, int32(2), halve(0, 4))
	assert.Equal(t, int32(1), halve(0, 1), "off-lattice snaps to the midpoint")
	assert.Equal(t, int32(-1), halve(4, -1))
	assert.Equal(t, int32(-2), halve(4, -4))
}

// =============================================================================
// Interpolation
// =============================================================================

func TestInterpolateConstant(t *testing.T) {
	const value = 1000
	for layout := 1; layout <= 9; layout++ {
		t.Run(string(rune('0'+layout)), func(t *testing.T) {
			info := bayer(t, "RGGB", geom.Pt(12, 10))
			info.CFALayout = layout
			src := mosaicImage(t, info.SrcSize, func(int32, int32) uint16 { return value })
			dst, err := image.Alloc(geom.RectOfSize(info.DstSize(geom.Pt(1, 1))), 3, pixel.U16)
			require.NoError(t, err)

			require.NoError(t, info.Interpolate(context.Background(), newHost(t), src, dst, geom.Pt(1, 1), 0))

			out := readAll(t, dst)
			for r := out.Area.T; r < out.Area.B; r++ {
				for c := out.Area.L; c < out.Area.R; c++ {
					for plane := range 3 {
						require.Equal(t, float64(value), out.Get(r, c, plane), "pixel %d,%d plane %d", r, c, plane)
					}
				}
			}
		})
	}
}

func TestInterpolateConstantFloat(t *testing.T) {
	info := bayer(t, "GBRG", geom.Pt(9, 7))
	src := mosaicImage(t, info.SrcSize, func(int32, int32) uint16 { return 0x8000 })
	dst, err := image.Alloc(geom.RectOfSize(info.SrcSize), 3, pixel.F32)
	require.NoError(t, err)

	require.NoError(t, info.InterpolateGeneric(context.Background(), newHost(t), src, dst, 0))

	out := readAll(t, dst)
	want := float64(0x8000) / 0xFFFF
	for r := out.Area.T; r < out.Area.B; r++ {
		for c := out.Area.L; c < out.Area.R; c++ {
			for plane := range 3 {
				require.InDelta(t, want, out.Get(r, c, plane), 1e-6)
			}
		}
	}
}

func TestInterpolateRamp(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(20, 24))
	src := mosaicImage(t, info.SrcSize, func(_, c int32) uint16 { return uint16(100 * c) })
	dst, err := image.Alloc(geom.RectOfSize(info.SrcSize), 3, pixel.U16)
	require.NoError(t, err)

	require.NoError(t, info.Interpolate(context.Background(), newHost(t), src, dst, geom.Pt(1, 1), 0))

	out := readAll(t, dst)
	for r := int32(2); r < out.Area.B-2; r++ {
		for c := int32(2); c < out.Area.R-2; c++ {
			for plane := range 3 {
				require.Equal(t, float64(100*c), out.Get(r, c, plane), "pixel %d,%d plane %d", r, c, plane)
			}
		}
	}
}

func TestInterpolateFast(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(8, 12))
	colors := [2][2]uint16{{100, 200}, {210, 300}}
	src := mosaicImage(t, info.SrcSize, func(r, c int32) uint16 { return colors[r&1][c&1] })

	size := info.DstSize(geom.Pt(2, 2))
	require.Equal(t, geom.Pt(4, 6), size)
	dst, err := image.Alloc(geom.RectOfSize(size), 3, pixel.U16)
	require.NoError(t, err)

	require.NoError(t, info.Interpolate(context.Background(), newHost(t), src, dst, geom.Pt(2, 2), 0))

	out := readAll(t, dst)
	for r := out.Area.T; r < out.Area.B; r++ {
		for c := out.Area.L; c < out.Area.R; c++ {
			assert.Equal(t, 100.0, out.Get(r, c, 0))
			assert.Equal(t, 205.0, out.Get(r, c, 1))
			assert.Equal(t, 300.0, out.Get(r, c, 2))
		}
	}
}

func TestInterpolateFastOddCell(t *testing.T) {
	info := bayer(t, "RGGB", geom.Pt(9, 9))
	colors := [2][2]uint16{{100, 200}, {200, 300}}
	src := mosaicImage(t, info.SrcSize, func(r, c int32) uint16 { return colors[r&1][c&1] })
	dst, err := image.Alloc(geom.RectOfSize(info.DstSize(geom.Pt(3, 3))), 3, pixel.U16)
	require.NoError(t, err)

	require.NoError(t, info.InterpolateFast(context.Background(), newHost(t), src, dst, geom.Pt(3, 3), 0))

	out := readAll(t, dst)
	for r := out.Area.T; r < out.Area.B; r++ {
		for c := out.Area.L; c < out.Area.R; c++ {
			assert.Equal(t, 100.0, out.Get(r, c, 0))
			assert.Equal(t, 200.0, out.Get(r, c, 1))
			assert.Equal(t, 300.0, out.Get(r, c, 2))
		}
	}
}

func TestInterpolateErrors(t *testing.T) {
	ctx := context.Background()
	h := newHost(t)
	info := bayer(t, "RGGB", geom.Pt(8, 8))
	src := mosaicImage(t, info.SrcSize, func(int32, int32) uint16 { return 1 })

	twoPlanes, err := image.Alloc(geom.RectOfSize(info.SrcSize), 2, pixel.U16)
	require.NoError(t, err)
	assert.ErrorIs(t, info.Interpolate(ctx, h, src, twoPlanes, geom.Pt(1, 1), 0), rawtile.ErrBadFormat)

	dst, err := image.Alloc(geom.RectOfSize(info.SrcSize), 3, pixel.U16)
	require.NoError(t, err)
	assert.ErrorIs(t, info.Interpolate(ctx, h, src, dst, geom.Pt(1, 1), 1), rawtile.ErrBadFormat)
	assert.ErrorIs(t, info.Interpolate(ctx, h, src, dst, geom.Pt(1, 2), 0), rawtile.ErrBadFormat)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, info.Interpolate(canceled, h, src, dst, geom.Pt(1, 1), 0), rawtile.ErrAborted)
}
