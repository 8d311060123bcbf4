package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/rawtile/geom"
)

func collect(it *Iterator) []geom.Rect {
	var tiles []geom.Rect
	for t := range it.All() {
		tiles = append(tiles, t)
	}
	return tiles
}

func TestIteratorCoversArea(t *testing.T) {
	tests := []struct {
		name string
		ref  geom.Rect
		area geom.Rect
	}{
		{"aligned", geom.R(0, 0, 16, 16), geom.R(0, 0, 64, 64)},
		{"unaligned area", geom.R(0, 0, 16, 16), geom.R(5, 7, 61, 50)},
		{"negative origin", geom.R(0, 0, 10, 6), geom.R(-23, -17, 12, 9)},
		{"offset grid", geom.R(3, 5, 10, 9), geom.R(0, 0, 31, 29)},
		{"tile larger than area", geom.R(0, 0, 256, 256), geom.R(10, 10, 20, 30)},
		{"single pixel", geom.R(0, 0, 1, 1), geom.R(4, 4, 7, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := New(tt.ref, tt.area)
			want := it.Count()
			tiles := collect(it)
			require.Len(t, tiles, want)

			var union geom.Rect
			var pixels int64
			for i, a := range tiles {
				assert.True(t, a.NotEmpty())
				assert.True(t, a.In(tt.area), "tile %v outside %v", a, tt.area)
				union = union.Or(a)
				pixels += a.Pixels()
				for _, b := range tiles[i+1:] {
					assert.False(t, a.Overlaps(b), "%v overlaps %v", a, b)
				}
			}
			assert.Equal(t, tt.area, union)
			assert.Equal(t, tt.area.Pixels(), pixels)
		})
	}
}

func TestIteratorAlignsToGrid(t *testing.T) {
	ref := geom.R(0, 0, 8, 8)
	for a := range New(ref, geom.R(3, 3, 30, 30)).All() {
		if a.T != 3 {
			assert.Zero(t, a.T%8)
		}
		if a.L != 3 {
			assert.Zero(t, a.L%8)
		}
	}
}

func TestIteratorOfSize(t *testing.T) {
	tiles := collect(OfSize(geom.Pt(4, 5), geom.R(1, 2, 9, 12)))
	assert.Equal(t, []geom.Rect{
		geom.R(1, 2, 5, 7), geom.R(1, 7, 5, 12),
		geom.R(5, 2, 9, 7), geom.R(5, 7, 9, 12),
	}, tiles)
}

func TestIteratorEmpty(t *testing.T) {
	it := New(geom.R(0, 0, 8, 8), geom.Rect{})
	_, ok := it.Next()
	assert.False(t, ok)
	assert.Zero(t, it.Count())
}

func TestIteratorStopsEarly(t *testing.T) {
	it := OfSize(geom.Pt(1, 1), geom.R(0, 0, 4, 4))
	n := 0
	for range it.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
	next, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, geom.R(0, 3, 1, 4), next)
}
