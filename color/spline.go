package color

import (
	"fmt"

	"github.com/gogpu/rawtile"
)

// CurvePoint is one control point of a tone curve.
type CurvePoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Spline is a C2 continuous cubic through a sorted set of control points,
// flat outside the first and last point.
type Spline struct {
	x, y, s []float64
}

// NewSpline solves the spline through points, which must have strictly
// increasing X.
func NewSpline(points []CurvePoint) (*Spline, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: spline needs at least 2 points, got %d", rawtile.ErrBadFormat, len(points))
	}
	sp := &Spline{
		x: make([]float64, len(points)),
		y: make([]float64, len(points)),
	}
	for j, p := range points {
		if j > 0 && p.X <= points[j-1].X {
			return nil, fmt.Errorf("%w: spline points not increasing at %d", rawtile.ErrBadFormat, j)
		}
		sp.x[j], sp.y[j] = p.X, p.Y
	}
	sp.solve()
	return sp, nil
}

// solve finds the slopes at the control points so that the second
// derivative is continuous and zero at both ends.
func (sp *Spline) solve() {
	x, y := sp.x, sp.y
	n := len(x)
	s := make([]float64, n)

	a := x[1] - x[0]
	b := (y[1] - y[0]) / a
	s[0] = b
	for j := 2; j < n; j++ {
		c := x[j] - x[j-1]
		d := (y[j] - y[j-1]) / c
		s[j-1] = (b*c + d*a) / (a + c)
		a, b = c, d
	}
	s[n-1] = 2*b - s[n-2]
	s[0] = 2*s[0] - s[1]

	if n > 2 {
		e := make([]float64, n)
		f := make([]float64, n)
		g := make([]float64, n)
		f[0] = 0.5
		e[n-1] = 0.5
		g[0] = 0.75 * (s[0] + s[1])
		g[n-1] = 0.75 * (s[n-2] + s[n-1])
		for j := 1; j < n-1; j++ {
			span := (x[j+1] - x[j-1]) * 2
			e[j] = (x[j+1] - x[j]) / span
			f[j] = (x[j] - x[j-1]) / span
			g[j] = 1.5 * s[j]
		}
		for j := 1; j < n; j++ {
			d := 1 - f[j-1]*e[j]
			if j != n-1 {
				f[j] /= d
			}
			g[j] = (g[j] - g[j-1]*e[j]) / d
		}
		for j := n - 2; j >= 0; j-- {
			g[j] -= f[j] * g[j+1]
		}
		copy(s, g)
	}
	sp.s = s
}

func (sp *Spline) Evaluate(x float64) float64 {
	n := len(sp.x)
	if x <= sp.x[0] {
		return sp.y[0]
	}
	if x >= sp.x[n-1] {
		return sp.y[n-1]
	}
	lo, hi := 1, n-1
	for hi > lo {
		mid := (lo + hi) >> 1
		if x == sp.x[mid] {
			return sp.y[mid]
		}
		if x > sp.x[mid] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	j := lo
	return hermite(x, sp.x[j-1], sp.y[j-1], sp.s[j-1], sp.x[j], sp.y[j], sp.s[j])
}

func (sp *Spline) EvaluateInverse(y float64) float64 {
	return SolveInverse(sp, y)
}

// IsIdentity reports whether the spline is the straight line from (0,0)
// to (1,1).
func (sp *Spline) IsIdentity() bool {
	return len(sp.x) == 2 &&
		sp.x[0] == 0 && sp.y[0] == 0 &&
		sp.x[1] == 1 && sp.y[1] == 1
}
