package geom

import "fmt"

// Rect is a half-open integer rectangle covering rows [T, B) and columns [L, R).
type Rect struct {
	T, L, B, R int32
}

// R is shorthand for Rect{T: t, L: l, B: b, R: r}.
func R(t, l, b, r int32) Rect {
	return Rect{T: t, L: l, B: b, R: r}
}

// RectOfSize returns the rectangle with its top-left corner at the origin and
// the given size.
func RectOfSize(size Point) Rect {
	return Rect{B: size.V, R: size.H}
}

// IsEmpty reports whether the rectangle covers no pixels.
func (r Rect) IsEmpty() bool {
	return r.T >= r.B || r.L >= r.R
}

// NotEmpty is !IsEmpty.
func (r Rect) NotEmpty() bool {
	return !r.IsEmpty()
}

// W returns the width, or 0 for an inverted rectangle.
func (r Rect) W() int32 {
	if r.R > r.L {
		return r.R - r.L
	}
	return 0
}

// H returns the height, or 0 for an inverted rectangle.
func (r Rect) H() int32 {
	if r.B > r.T {
		return r.B - r.T
	}
	return 0
}

// Size returns the (H, W) extent as a Point.
func (r Rect) Size() Point {
	return Point{V: r.H(), H: r.W()}
}

// TL returns the top-left corner.
func (r Rect) TL() Point {
	return Point{V: r.T, H: r.L}
}

// BR returns the bottom-right corner (exclusive).
func (r Rect) BR() Point {
	return Point{V: r.B, H: r.R}
}

// Pixels returns the number of pixels covered.
func (r Rect) Pixels() int64 {
	return int64(r.H()) * int64(r.W())
}

// And returns the intersection of r and s. An empty result is the zero rect.
func (r Rect) And(s Rect) Rect {
	x := Rect{
		T: max(r.T, s.T),
		L: max(r.L, s.L),
		B: min(r.B, s.B),
		R: min(r.R, s.R),
	}
	if x.IsEmpty() {
		return Rect{}
	}
	return x
}

// Or returns the smallest rectangle containing both r and s. Empty operands
// are ignored; if both are empty the result is the zero rect.
func (r Rect) Or(s Rect) Rect {
	switch {
	case r.IsEmpty() && s.IsEmpty():
		return Rect{}
	case r.IsEmpty():
		return s
	case s.IsEmpty():
		return r
	}
	return Rect{
		T: min(r.T, s.T),
		L: min(r.L, s.L),
		B: max(r.B, s.B),
		R: max(r.R, s.R),
	}
}

// Add translates r by p.
func (r Rect) Add(p Point) Rect {
	return Rect{T: r.T + p.V, L: r.L + p.H, B: r.B + p.V, R: r.R + p.H}
}

// Sub translates r by -p.
func (r Rect) Sub(p Point) Rect {
	return Rect{T: r.T - p.V, L: r.L - p.H, B: r.B - p.V, R: r.R - p.H}
}

// Inset shrinks r by v rows and h columns on every side. Negative values grow it.
func (r Rect) Inset(v, h int32) Rect {
	return Rect{T: r.T + v, L: r.L + h, B: r.B - v, R: r.R - h}
}

// In reports whether r lies entirely inside s. An empty r is inside anything.
func (r Rect) In(s Rect) bool {
	if r.IsEmpty() {
		return true
	}
	return r.T >= s.T && r.L >= s.L && r.B <= s.B && r.R <= s.R
}

// Contains reports whether the pixel p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.V >= r.T && p.V < r.B && p.H >= r.L && p.H < r.R
}

// Overlaps reports whether r and s share at least one pixel.
func (r Rect) Overlaps(s Rect) bool {
	return r.And(s).NotEmpty()
}

// Real converts r to a RealRect.
func (r Rect) Real() RealRect {
	return RealRect{T: float64(r.T), L: float64(r.L), B: float64(r.B), R: float64(r.R)}
}

// String returns "(t,l)-(b,r)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.T, r.L, r.B, r.R)
}

// RealRect is a real-valued rectangle.
type RealRect struct {
	T, L, B, R float64
}

// IsEmpty reports whether the rectangle has no area.
func (r RealRect) IsEmpty() bool {
	return r.T >= r.B || r.L >= r.R
}

// W returns the width, or 0 for an inverted rectangle.
func (r RealRect) W() float64 {
	return max(r.R-r.L, 0)
}

// H returns the height, or 0 for an inverted rectangle.
func (r RealRect) H() float64 {
	return max(r.B-r.T, 0)
}

// Center returns the midpoint.
func (r RealRect) Center() RealPoint {
	return RealPoint{V: 0.5 * (r.T + r.B), H: 0.5 * (r.L + r.R)}
}

// And returns the intersection of r and s. An empty result is the zero rect.
func (r RealRect) And(s RealRect) RealRect {
	x := RealRect{
		T: max(r.T, s.T),
		L: max(r.L, s.L),
		B: min(r.B, s.B),
		R: min(r.R, s.R),
	}
	if x.IsEmpty() {
		return RealRect{}
	}
	return x
}

// Or returns the bounding rectangle of r and s, ignoring empty operands.
func (r RealRect) Or(s RealRect) RealRect {
	switch {
	case r.IsEmpty() && s.IsEmpty():
		return RealRect{}
	case r.IsEmpty():
		return s
	case s.IsEmpty():
		return r
	}
	return RealRect{
		T: min(r.T, s.T),
		L: min(r.L, s.L),
		B: max(r.B, s.B),
		R: max(r.R, s.R),
	}
}

// Round rounds every edge to the nearest integer.
func (r RealRect) Round() Rect {
	return Rect{T: Round(r.T), L: Round(r.L), B: Round(r.B), R: Round(r.R)}
}
