package color

import "github.com/gogpu/rawtile/geom"

// XY is a CIE 1931 chromaticity coordinate.
type XY struct {
	X, Y float64
}

// Standard illuminants.
var (
	D50  = XY{0.3457, 0.3585}
	D55  = XY{0.3324, 0.3474}
	D65  = XY{0.3127, 0.3290}
	StdA = XY{0.4476, 0.4074}
)

// IsValid reports whether c lies in the positive quadrant.
func (c XY) IsValid() bool { return c.X > 0 && c.Y > 0 }

// PCStoXY returns the white point of the profile connection space.
func PCStoXY() XY { return D50 }

// PCStoXYZ returns the XYZ of the profile connection space white, Y = 1.
func PCStoXYZ() Vector { return XYtoXYZ(D50) }

// XYtoXYZ converts a chromaticity to XYZ with Y = 1. Degenerate coordinates
// are pinned to a representable color.
func XYtoXYZ(c XY) Vector {
	x := geom.Pin(0.000001, c.X, 0.999999)
	y := geom.Pin(0.000001, c.Y, 0.999999)
	if x+y > 0.999999 {
		s := 0.999999 / (x + y)
		x *= s
		y *= s
	}
	return VectorOf(x/y, 1, (1-x-y)/y)
}

// XYZtoXY converts XYZ to chromaticity. Non-positive totals map to D50.
func XYZtoXY(v Vector) XY {
	total := v.At(0) + v.At(1) + v.At(2)
	if total <= 0 {
		return D50
	}
	return XY{v.At(0) / total, v.At(1) / total}
}

var bradford = Matrix3(
	0.8951, 0.2664, -0.1614,
	-0.7502, 1.7135, 0.0367,
	0.0389, -0.0685, 1.0296,
)

// MapWhiteMatrix returns the linearized Bradford adaptation taking XYZ
// under white1 to XYZ under white2. Per-cone gains are limited to [0.1, 10].
func MapWhiteMatrix(white1, white2 XY) Matrix {
	w1 := bradford.MulVec(XYtoXYZ(white1))
	w2 := bradford.MulVec(XYtoXYZ(white2))

	a := NewMatrix(3, 3)
	for j := 0; j < 3; j++ {
		c1 := max(w1.At(j), 0)
		c2 := max(w2.At(j), 0)
		gain := 10.0
		if c1 > 0 {
			gain = c2 / c1
		}
		a.Set(j, j, geom.Pin(0.1, gain, 10))
	}
	inv, err := bradford.Invert()
	if err != nil {
		panic(err)
	}
	return inv.Mul(a).Mul(bradford)
}
