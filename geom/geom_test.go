package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero", Rect{}, true},
		{"unit", R(0, 0, 1, 1), false},
		{"flat", R(3, 0, 3, 10), true},
		{"inverted", R(5, 5, 2, 2), true},
		{"negative origin", R(-4, -4, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.IsEmpty())
		})
	}
}

func TestRectAnd(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", R(0, 0, 10, 10), R(5, 5, 20, 20), R(5, 5, 10, 10)},
		{"inside", R(0, 0, 10, 10), R(2, 3, 4, 5), R(2, 3, 4, 5)},
		{"disjoint normalizes", R(0, 0, 10, 10), R(20, 20, 30, 30), Rect{}},
		{"touching normalizes", R(0, 0, 10, 10), R(10, 0, 20, 10), Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.And(tt.b))
			assert.Equal(t, tt.want, tt.b.And(tt.a))
		})
	}
}

func TestRectOr(t *testing.T) {
	assert.Equal(t, R(0, 0, 20, 30), R(0, 0, 10, 10).Or(R(15, 20, 20, 30)))
	assert.Equal(t, R(1, 2, 3, 4), Rect{}.Or(R(1, 2, 3, 4)))
	assert.Equal(t, R(1, 2, 3, 4), R(1, 2, 3, 4).Or(R(9, 9, 9, 9)))
	assert.Equal(t, Rect{}, R(5, 5, 5, 5).Or(R(9, 9, 1, 1)))
}

func TestRectMeasures(t *testing.T) {
	r := R(-2, 3, 8, 7)
	assert.Equal(t, int32(10), r.H())
	assert.Equal(t, int32(4), r.W())
	assert.Equal(t, Pt(10, 4), r.Size())
	assert.Equal(t, int64(40), r.Pixels())
	assert.Equal(t, R(0, 0, 10, 4), r.Sub(r.TL()))
	assert.True(t, R(0, 4, 2, 6).In(r))
	assert.False(t, R(0, 4, 9, 6).In(r))
	assert.True(t, r.Contains(Pt(-2, 3)))
	assert.False(t, r.Contains(Pt(8, 3)))
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, want int32
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{-8, 2, -4},
		{0, 5, 0},
		{-1, 256, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FloorDiv(tt.a, tt.b), "FloorDiv(%d, %d)", tt.a, tt.b)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, int32(3), Round(2.5))
	assert.Equal(t, int32(-3), Round(-2.5))
	assert.Equal(t, int32(2), Round(2.49))
	assert.Equal(t, R(1, 2, 4, 5), RealRect{T: 0.6, L: 1.5, B: 3.6, R: 4.9}.Round())
	assert.Equal(t, int32(16), RoundUp8(9))
	assert.Equal(t, int32(12), RoundUp(10, 3))
	assert.Equal(t, 0.5, Pin(0.0, 0.5, 1.0))
	assert.Equal(t, int32(255), Pin(int32(0), 300, 255))
}

func TestRealRect(t *testing.T) {
	r := RealRect{T: 0, L: 0, B: 4, R: 2}
	assert.Equal(t, RealPoint{V: 2, H: 1}, r.Center())
	assert.Equal(t, RealRect{}, r.And(RealRect{T: 5, L: 5, B: 6, R: 6}))
	assert.Equal(t, RealRect{T: 0, L: 0, B: 6, R: 6}, r.Or(RealRect{T: 5, L: 5, B: 6, R: 6}))
}
