package mosaic

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
)

// Pattern limits.
const (
	MaxCFAPattern  = 8
	MaxColorPlanes = 4
)

// MaxDownScale is the largest downscale factor on either axis.
const MaxDownScale = 64

// Color codes used in CFA patterns.
const (
	Red uint8 = iota
	Green
	Blue
	Cyan
	Magenta
	Yellow
	White
)

const colorLetters = "RGBCMYW"

// Info describes the color filter array of a mosaic image.
type Info struct {
	// CFAPatternSize is the size of the repeating pattern. A zero size
	// means the image is not a CFA image.
	CFAPatternSize geom.Point

	// CFAPattern holds the color code of each pattern cell.
	CFAPattern [MaxCFAPattern][MaxCFAPattern]uint8

	// ColorPlanes is the number of output planes.
	ColorPlanes int

	// CFAPlaneColor is the color code of each output plane.
	CFAPlaneColor [MaxColorPlanes]uint8

	// CFALayout is the sensor layout, 1 through 9.
	CFALayout int

	// BayerGreenSplit measures the response difference of the two greens
	// of a Bayer pattern. Zero means none.
	BayerGreenSplit uint32

	// SrcSize is the size of the mosaic image.
	SrcSize geom.Point

	// CroppedSize is the size of the default crop.
	CroppedSize geom.Point

	// AspectRatio is the pixel aspect ratio, width over height.
	AspectRatio float64
}

// NewCFA returns the info for a rectangular pattern given row-major as color
// letters from "RGBCMYW", for example "RGGB" for a 2x2 Bayer pattern. The
// output planes are the distinct colors in color code order. Source and
// cropped sizes are both set to size.
func NewCFA(rows, cols int, pattern string, size geom.Point) (*Info, error) {
	if rows < 1 || cols < 1 || rows > MaxCFAPattern || cols > MaxCFAPattern {
		return nil, fmt.Errorf("%w: CFA pattern %dx%d", rawtile.ErrBadFormat, rows, cols)
	}
	if len(pattern) != rows*cols {
		return nil, fmt.Errorf("%w: CFA pattern %q has %d cells, want %d",
			rawtile.ErrBadFormat, pattern, len(pattern), rows*cols)
	}
	info := &Info{
		CFAPatternSize: geom.Pt(int32(rows), int32(cols)),
		CFALayout:      1,
		SrcSize:        size,
		CroppedSize:    size,
		AspectRatio:    1,
	}
	var colors []uint8
	for j, r := range strings.ToUpper(pattern) {
		code := strings.IndexRune(colorLetters, r)
		if code < 0 {
			return nil, fmt.Errorf("%w: unknown CFA color %q", rawtile.ErrBadFormat, r)
		}
		info.CFAPattern[j/cols][j%cols] = uint8(code)
		if !slices.Contains(colors, uint8(code)) {
			colors = append(colors, uint8(code))
		}
	}
	if len(colors) > MaxColorPlanes {
		return nil, fmt.Errorf("%w: CFA pattern %q has %d colors", rawtile.ErrBadFormat, pattern, len(colors))
	}
	slices.Sort(colors)
	info.ColorPlanes = len(colors)
	copy(info.CFAPlaneColor[:], colors)
	return info, nil
}

// IsColorFilterArray reports whether the info describes a CFA image.
func (i *Info) IsColorFilterArray() bool {
	return i.CFAPatternSize != geom.Point{}
}

// Validate checks that the pattern, planes and layout are consistent.
func (i *Info) Validate() error {
	ps := i.CFAPatternSize
	if ps.V < 1 || ps.H < 1 || ps.V > MaxCFAPattern || ps.H > MaxCFAPattern {
		return fmt.Errorf("%w: CFA pattern size %v", rawtile.ErrBadFormat, ps)
	}
	if i.ColorPlanes < 1 || i.ColorPlanes > MaxColorPlanes {
		return fmt.Errorf("%w: %d color planes", rawtile.ErrBadFormat, i.ColorPlanes)
	}
	if i.CFALayout < 1 || i.CFALayout > 9 {
		return fmt.Errorf("%w: CFA layout %d", rawtile.ErrBadFormat, i.CFALayout)
	}
	if i.CFALayout >= 6 && (ps.V%2 != 0 || ps.H%2 != 0) {
		return fmt.Errorf("%w: CFA layout %d needs an even pattern, got %v",
			rawtile.ErrBadFormat, i.CFALayout, ps)
	}
	for plane := range i.ColorPlanes {
		if !i.hasColor(i.CFAPlaneColor[plane]) {
			return fmt.Errorf("%w: plane %d color %d is not in the CFA pattern",
				rawtile.ErrBadFormat, plane, i.CFAPlaneColor[plane])
		}
	}
	return nil
}

func (i *Info) hasColor(c uint8) bool {
	for r := range i.CFAPatternSize.V {
		for k := range i.CFAPatternSize.H {
			if i.CFAPattern[r][k] == c {
				return true
			}
		}
	}
	return false
}

// planeOf returns the output plane of a color code, or -1.
func (i *Info) planeOf(c uint8) int {
	for plane := range i.ColorPlanes {
		if i.CFAPlaneColor[plane] == c {
			return plane
		}
	}
	return -1
}

// SetFourColorBayer turns a three color Bayer pattern into a four color one
// by giving the green of the blue rows its own plane. It reports whether the
// pattern was a Bayer pattern.
func (i *Info) SetFourColorBayer() bool {
	if i.CFAPatternSize != geom.Pt(2, 2) || i.ColorPlanes != 3 {
		return false
	}
	color0 := i.CFAPlaneColor[0]
	color1 := i.CFAPlaneColor[1]
	color2 := i.CFAPlaneColor[2]
	p := &i.CFAPattern

	if (p[0][0] != color1 || p[1][1] != color1) && (p[0][1] != color1 || p[1][0] != color1) {
		return false
	}

	var color3 uint8
	for color3 == color0 || color3 == color1 || color3 == color2 {
		color3++
	}
	i.ColorPlanes = 4
	i.CFAPlaneColor[3] = color3

	switch color0 {
	case p[0][0]:
		p[1][0] = color3
	case p[0][1]:
		p[1][1] = color3
	case p[1][0]:
		p[0][0] = color3
	default:
		p[0][1] = color3
	}
	return true
}

// FullScale returns the factor by which full-scale interpolation enlarges
// the image: layouts 2 and 3 double the rows, 4 and 5 the columns.
func (i *Info) FullScale() geom.Point {
	switch i.CFALayout {
	case 2, 3:
		return geom.Pt(2, 1)
	case 4, 5:
		return geom.Pt(1, 2)
	}
	return geom.Pt(1, 1)
}

// IsSafeDownScale reports whether every placement of a downScale cell on the
// pattern still covers all color planes.
func (i *Info) IsSafeDownScale(downScale geom.Point) bool {
	ps := i.CFAPatternSize
	if downScale.V >= ps.V && downScale.H >= ps.H {
		return true
	}
	test := downScale.Min(ps)
	for phaseV := int32(0); phaseV <= ps.V-test.V; phaseV++ {
		for phaseH := int32(0); phaseH <= ps.H-test.H; phaseH++ {
			var contains [MaxColorPlanes]bool
			for r := range test.V {
				for c := range test.H {
					if plane := i.planeOf(i.CFAPattern[r+phaseV][c+phaseH]); plane >= 0 {
						contains[plane] = true
					}
				}
			}
			for plane := range i.ColorPlanes {
				if !contains[plane] {
					return false
				}
			}
		}
	}
	return true
}

// SizeForDownScale returns the longer side of the cropped image after
// downscaling.
func (i *Info) SizeForDownScale(downScale geom.Point) int32 {
	v := max(1, (i.CroppedSize.V+downScale.V>>1)/downScale.V)
	h := max(1, (i.CroppedSize.H+downScale.H>>1)/downScale.H)
	return max(v, h)
}

// ValidSizeDownScale reports whether downScale is at most MaxDownScale and
// leaves a longer side of at least minSize.
func (i *Info) ValidSizeDownScale(downScale geom.Point, minSize int32) bool {
	if downScale.V > MaxDownScale || downScale.H > MaxDownScale {
		return false
	}
	return i.SizeForDownScale(downScale) >= minSize
}

// DownScale picks the downscale factor whose output size is closest to
// prefSize without dropping below minSize. Both sizes are divided by
// cropFactor first; a cropFactor that is not positive counts as 1. Factors
// grow in steps of a nearly square cell derived from the pixel aspect
// ratio. A zero prefSize or a non-CFA image gives (1, 1).
func (i *Info) DownScale(minSize, prefSize int32, cropFactor float64) geom.Point {
	best := geom.Pt(1, 1)
	if prefSize == 0 || !i.IsColorFilterArray() {
		return best
	}
	if cropFactor <= 0 || math.IsNaN(cropFactor) {
		cropFactor = 1
	}
	minSize = int32(float64(minSize)/cropFactor + 0.5)
	prefSize = int32(float64(prefSize)/cropFactor + 0.5)
	prefSize = max(prefSize, minSize)

	bestSize := i.SizeForDownScale(best)
	distance := func(size int32) int32 {
		d := size - prefSize
		if d < 0 {
			return -d
		}
		return d
	}

	cell := geom.Pt(1, 1)
	if i.AspectRatio < 1.0/1.8 {
		cell.H = min(4, geom.Round(1/i.AspectRatio))
	}
	if i.AspectRatio > 1.8 {
		cell.V = min(4, geom.Round(i.AspectRatio))
	}

	test := cell
	for !i.IsSafeDownScale(test) {
		test = test.Add(cell)
	}
	for {
		if !i.ValidSizeDownScale(test, minSize) {
			return best
		}
		size := i.SizeForDownScale(test)
		if distance(size) > distance(bestSize) {
			return best
		}
		best, bestSize = test, size
		test = test.Add(cell)
		for !i.IsSafeDownScale(test) {
			test = test.Add(cell)
		}
	}
}

// DstSize returns the size of the interpolated image. Full scale applies
// FullScale; factors above MaxDownScale give a zero size.
func (i *Info) DstSize(downScale geom.Point) geom.Point {
	if downScale == geom.Pt(1, 1) {
		s := i.FullScale()
		return geom.Pt(i.SrcSize.V*s.V, i.SrcSize.H*s.H)
	}
	if downScale.V > MaxDownScale || downScale.H > MaxDownScale {
		return geom.Point{}
	}
	return geom.Pt(
		max(1, (i.SrcSize.V+downScale.V>>1)/downScale.V),
		max(1, (i.SrcSize.H+downScale.H>>1)/downScale.H),
	)
}

// String renders the pattern as color letters, rows separated by '/'.
func (i *Info) String() string {
	var b strings.Builder
	for r := range i.CFAPatternSize.V {
		if r > 0 {
			b.WriteByte('/')
		}
		for c := range i.CFAPatternSize.H {
			code := int(i.CFAPattern[r][c])
			if code < len(colorLetters) {
				b.WriteByte(colorLetters[code])
			} else {
				b.WriteByte('?')
			}
		}
	}
	return b.String()
}
