package color

import (
	"math"

	"github.com/gogpu/rawtile/geom"
)

// Function is a 1D mapping of [0,1] onto itself.
type Function interface {
	Evaluate(x float64) float64
	EvaluateInverse(y float64) float64
}

// IsIdentity reports whether f is known to be the identity.
func IsIdentity(f Function) bool {
	if f == nil {
		return true
	}
	if i, ok := f.(interface{ IsIdentity() bool }); ok {
		return i.IsIdentity()
	}
	return false
}

// SolveInverse finds x in [0,1] with f(x) close to y by the secant method.
func SolveInverse(f Function, y float64) float64 {
	const (
		maxIterations = 30
		nearZero      = 1e-10
	)
	x0, x1 := 0.0, 1.0
	y0, y1 := f.Evaluate(x0), f.Evaluate(x1)
	for range maxIterations {
		if math.Abs(y1-y0) < nearZero {
			break
		}
		x2 := geom.Pin(0, x1+(y-y1)*(x1-x0)/(y1-y0), 1)
		y2 := f.Evaluate(x2)
		x0, y0 = x1, y1
		x1, y1 = x2, y2
	}
	return x1
}

type identity struct{}

// Identity returns the identity function.
func Identity() Function { return identity{} }

func (identity) Evaluate(x float64) float64        { return x }
func (identity) EvaluateInverse(y float64) float64 { return y }
func (identity) IsIdentity() bool                  { return true }

// Concatenate applies First and then Second.
type Concatenate struct {
	First, Second Function
}

func (c Concatenate) Evaluate(x float64) float64 {
	return c.Second.Evaluate(c.First.Evaluate(x))
}

func (c Concatenate) EvaluateInverse(y float64) float64 {
	return c.First.EvaluateInverse(c.Second.EvaluateInverse(y))
}

func (c Concatenate) IsIdentity() bool {
	return IsIdentity(c.First) && IsIdentity(c.Second)
}

// Inverse swaps the directions of F.
type Inverse struct {
	F Function
}

func (i Inverse) Evaluate(x float64) float64        { return i.F.EvaluateInverse(x) }
func (i Inverse) EvaluateInverse(y float64) float64 { return i.F.Evaluate(y) }
func (i Inverse) IsIdentity() bool                  { return IsIdentity(i.F) }

// ExposureRamp maps black to 0 and white to 1 with a quadratic toe of
// radius min(minBlack/2, (white-black)/16) around black.
type ExposureRamp struct {
	slope  float64
	black  float64
	radius float64
	qscale float64
}

func NewExposureRamp(white, black, minBlack float64) *ExposureRamp {
	const (
		maxCurveX = 0.5
		maxCurveY = 1.0 / 16
	)
	r := &ExposureRamp{
		slope: 1 / (white - black),
		black: black,
	}
	r.radius = min(maxCurveX*minBlack, maxCurveY/r.slope)
	if r.radius > 0 {
		r.qscale = r.slope / (4 * r.radius)
	}
	return r
}

func (r *ExposureRamp) Evaluate(x float64) float64 {
	if x <= r.black-r.radius {
		return 0
	}
	if x >= r.black+r.radius {
		return min((x-r.black)*r.slope, 1)
	}
	y := x - (r.black - r.radius)
	return r.qscale * y * y
}

func (r *ExposureRamp) EvaluateInverse(y float64) float64 {
	return SolveInverse(r, y)
}

// ExposureTone darkens for negative exposure with a curve that is linear
// below 0.25 and quadratic above, meeting 1 at 1. Non-negative exposure is
// the identity.
type ExposureTone struct {
	nop     bool
	slope   float64
	a, b, c float64
}

func NewExposureTone(exposure float64) *ExposureTone {
	t := &ExposureTone{nop: exposure >= 0}
	if t.nop {
		return t
	}
	t.slope = math.Pow(2, exposure)
	t.a = 16.0 / 9.0 * (1 - t.slope)
	t.b = t.slope - 0.5*t.a
	t.c = 1 - t.a - t.b
	return t
}

func (t *ExposureTone) Evaluate(x float64) float64 {
	if t.nop {
		return x
	}
	if x <= 0.25 {
		return x * t.slope
	}
	return (t.a*x+t.b)*x + t.c
}

func (t *ExposureTone) EvaluateInverse(y float64) float64 {
	if t.nop {
		return y
	}
	return SolveInverse(t, y)
}

func (t *ExposureTone) IsIdentity() bool { return t.nop }

type acr3Curve struct{}

// ACR3 returns the default tone curve for scene-referred images.
func ACR3() Function { return acr3Curve{} }

func sampleTable(table []float32, x float64) float64 {
	n := len(table)
	y := float32(x) * float32(n-1)
	i := geom.Pin(0, int32(y), int32(n-2))
	fract := y - float32(i)
	return float64(table[i]*(1-fract) + table[i+1]*fract)
}

func (acr3Curve) Evaluate(x float64) float64        { return sampleTable(acr3Forward[:], x) }
func (acr3Curve) EvaluateInverse(y float64) float64 { return sampleTable(acr3Inverse[:], y) }

// Gamma is the pure power curve x^(1/Exponent).
type Gamma struct {
	Exponent float64
}

func (g Gamma) Evaluate(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Pow(x, 1/g.Exponent)
}

func (g Gamma) EvaluateInverse(y float64) float64 {
	if y <= 0 {
		return 0
	}
	return math.Pow(y, g.Exponent)
}

func (g Gamma) IsIdentity() bool { return g.Exponent == 1 }

// hermite evaluates the cubic through (x0, y0) and (x1, y1) with end slopes
// s0 and s1.
func hermite(x, x0, y0, s0, x1, y1, s1 float64) float64 {
	a := x1 - x0
	b := (x - x0) / a
	c := (x1 - x) / a
	return ((y0*(2-c+b)+s0*a*b)*(c*c) +
		(y1*(2-b+c)-s1*a*c)*(b*b))
}

type srgbEncode struct{}

// SRGBEncode returns the sRGB transfer function from linear to encoded.
func SRGBEncode() Function { return srgbEncode{} }

func (srgbEncode) Evaluate(x float64) float64 {
	if x <= 0.0031308 {
		return x * 12.92
	}
	return 1.055*math.Pow(x, 1/2.4) - 0.055
}

func (srgbEncode) EvaluateInverse(y float64) float64 {
	if y <= 0.04045 {
		return y / 12.92
	}
	return math.Pow((y+0.055)/1.055, 2.4)
}

// toedGamma is a power curve whose start is replaced by a cubic segment
// leaving zero with a finite slope.
type toedGamma struct {
	gamma          float64
	slope0         float64
	x1, y1, slope1 float64
}

// Gamma18Encode returns the 1.8 encoding curve used by ProPhoto and Gray 1.8.
func Gamma18Encode() Function {
	return toedGamma{
		gamma:  1 / 1.8,
		slope0: 32,
		x1:     8.2118790552e-4,
		y1:     0.019310851,
		slope1: 13.064306598,
	}
}

// Gamma22Encode returns the 2.2 encoding curve used by Adobe RGB and Gray 2.2.
func Gamma22Encode() Function {
	return toedGamma{
		gamma:  1 / 2.2,
		slope0: 32,
		x1:     0.0034800731,
		y1:     0.0763027458,
		slope1: 9.9661890075,
	}
}

func (g toedGamma) Evaluate(x float64) float64 {
	if x <= g.x1 {
		return hermite(x, 0, 0, g.slope0, g.x1, g.y1, g.slope1)
	}
	return math.Pow(x, g.gamma)
}

func (g toedGamma) EvaluateInverse(y float64) float64 {
	if y <= g.y1 {
		lo, hi := 0.0, g.x1
		for range 60 {
			mid := (lo + hi) / 2
			if g.Evaluate(mid) < y {
				lo = mid
			} else {
				hi = mid
			}
		}
		return (lo + hi) / 2
	}
	return math.Pow(y, 1/g.gamma)
}
