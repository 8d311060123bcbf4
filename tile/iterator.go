// Package tile splits rectangles into tiles aligned to a reference grid.
//
// An Iterator is defined by a reference tile, whose position fixes the grid
// origin and whose size fixes the grid pitch, and by the area to cover.
// Tiles are yielded row-major; the first and last tile of every row and
// column are clipped to the area, so the union of all tiles equals the area
// and no two tiles overlap.
package tile

import (
	"iter"

	"github.com/gogpu/rawtile/geom"
)

// Iterator yields the tiles of an area row-major.
type Iterator struct {
	area geom.Rect

	tileW, tileH int32

	leftPage, rightPage int32
	topPage, bottomPage int32
	hPage, vPage        int32
	tileLeft, tileTop   int32
	rowLeft             int32
}

// New returns an iterator over area using the grid defined by the
// reference tile rect.
func New(ref, area geom.Rect) *Iterator {
	it := &Iterator{}
	it.init(ref, area)
	return it
}

// OfSize returns an iterator over area using tiles of the given size whose
// grid starts at the area's top-left corner.
func OfSize(size geom.Point, area geom.Rect) *Iterator {
	ref := area
	ref.B = min(ref.B, ref.T+size.V)
	ref.R = min(ref.R, ref.L+size.H)
	return New(ref, area)
}

func (it *Iterator) init(ref, area geom.Rect) {
	it.area = area
	if area.IsEmpty() || ref.IsEmpty() {
		it.vPage = 0
		it.bottomPage = -1
		return
	}
	it.tileW = ref.W()
	it.tileH = ref.H()

	it.leftPage = geom.FloorDiv(area.L-ref.L, it.tileW)
	it.rightPage = geom.FloorDiv(area.R-ref.L-1, it.tileW)
	it.topPage = geom.FloorDiv(area.T-ref.T, it.tileH)
	it.bottomPage = geom.FloorDiv(area.B-ref.T-1, it.tileH)

	it.hPage = it.leftPage
	it.vPage = it.topPage
	it.tileLeft = it.hPage*it.tileW + ref.L
	it.tileTop = it.vPage*it.tileH + ref.T
	it.rowLeft = it.tileLeft
}

// Next returns the next tile, or false once the area is exhausted.
func (it *Iterator) Next() (geom.Rect, bool) {
	if it.vPage > it.bottomPage {
		return geom.Rect{}, false
	}
	var t geom.Rect
	if it.vPage > it.topPage {
		t.T = it.tileTop
	} else {
		t.T = it.area.T
	}
	if it.vPage < it.bottomPage {
		t.B = it.tileTop + it.tileH
	} else {
		t.B = it.area.B
	}
	if it.hPage > it.leftPage {
		t.L = it.tileLeft
	} else {
		t.L = it.area.L
	}
	if it.hPage < it.rightPage {
		t.R = it.tileLeft + it.tileW
	} else {
		t.R = it.area.R
	}

	if it.hPage < it.rightPage {
		it.hPage++
		it.tileLeft += it.tileW
	} else {
		it.vPage++
		it.tileTop += it.tileH
		it.hPage = it.leftPage
		it.tileLeft = it.rowLeft
	}
	return t, true
}

// All returns the remaining tiles as a sequence.
func (it *Iterator) All() iter.Seq[geom.Rect] {
	return func(yield func(geom.Rect) bool) {
		for {
			t, ok := it.Next()
			if !ok || !yield(t) {
				return
			}
		}
	}
}

// Count returns the total number of tiles the iterator yields from the start.
func (it *Iterator) Count() int {
	if it.bottomPage < it.topPage {
		return 0
	}
	return int(it.bottomPage-it.topPage+1) * int(it.rightPage-it.leftPage+1)
}
