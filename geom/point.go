package geom

import "math"

// Point is an integer (vertical, horizontal) pair used for positions, sizes
// and offsets.
type Point struct {
	V, H int32
}

// Pt is shorthand for Point{V: v, H: h}.
func Pt(v, h int32) Point {
	return Point{V: v, H: h}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{V: p.V + q.V, H: p.H + q.H}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{V: p.V - q.V, H: p.H - q.H}
}

// Min returns the component-wise minimum of p and q.
func (p Point) Min(q Point) Point {
	return Point{V: min(p.V, q.V), H: min(p.H, q.H)}
}

// Max returns the component-wise maximum of p and q.
func (p Point) Max(q Point) Point {
	return Point{V: max(p.V, q.V), H: max(p.H, q.H)}
}

// Area returns V*H as a 64-bit count.
func (p Point) Area() int64 {
	return int64(p.V) * int64(p.H)
}

// Real converts p to a RealPoint.
func (p Point) Real() RealPoint {
	return RealPoint{V: float64(p.V), H: float64(p.H)}
}

// RealPoint is a real-valued (vertical, horizontal) pair.
type RealPoint struct {
	V, H float64
}

// Add returns p+q.
func (p RealPoint) Add(q RealPoint) RealPoint {
	return RealPoint{V: p.V + q.V, H: p.H + q.H}
}

// Sub returns p-q.
func (p RealPoint) Sub(q RealPoint) RealPoint {
	return RealPoint{V: p.V - q.V, H: p.H - q.H}
}

// Scale returns p with both components multiplied by s.
func (p RealPoint) Scale(s float64) RealPoint {
	return RealPoint{V: p.V * s, H: p.H * s}
}

// Round rounds both components to the nearest integer, halves away from zero.
func (p RealPoint) Round() Point {
	return Point{V: Round(p.V), H: Round(p.H)}
}

// Hypot returns the Euclidean length of p.
func (p RealPoint) Hypot() float64 {
	return math.Hypot(p.V, p.H)
}
