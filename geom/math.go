package geom

import "math"

// Round rounds x to the nearest int32, halves away from zero.
func Round(x float64) int32 {
	if x > 0 {
		return int32(x + 0.5)
	}
	return int32(x - 0.5)
}

// Floor returns floor(x) as an int32.
func Floor(x float64) int32 {
	return int32(math.Floor(x))
}

// Ceil returns ceil(x) as an int32.
func Ceil(x float64) int32 {
	return int32(math.Ceil(x))
}

// FloorDiv divides a by a positive b rounding towards negative infinity.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && (a < 0) {
		q--
	}
	return q
}

// CeilDiv divides a non-negative a by a positive b rounding up.
func CeilDiv(a, b int32) int32 {
	return (a + b - 1) / b
}

// RoundUp rounds x up to a multiple of a positive n.
func RoundUp(x, n int32) int32 {
	return CeilDiv(x, n) * n
}

// RoundUp8 rounds x up to a multiple of 8.
func RoundUp8(x int32) int32 {
	return (x + 7) &^ 7
}

// Pin clamps x to [lo, hi].
func Pin[T int32 | int64 | float32 | float64](lo, x, hi T) T {
	return max(lo, min(x, hi))
}

// Lerp returns a + (b-a)*t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
