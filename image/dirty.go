package image

import (
	"math/bits"
	"sync/atomic"
)

// tileSet is a lock-free bitmap with one bit per storage tile, bit index
// ty*tilesX + tx. Memory uses it to record which tiles have been written.
type tileSet struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
}

func newTileSet(tilesX, tilesY int) *tileSet {
	n := tilesX * tilesY
	return &tileSet{
		words:  make([]atomic.Uint64, (n+63)/64),
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

func (s *tileSet) index(tx, ty int) (word int, mask uint64, ok bool) {
	if tx < 0 || ty < 0 || tx >= s.tilesX || ty >= s.tilesY {
		return 0, 0, false
	}
	i := ty*s.tilesX + tx
	return i / 64, 1 << (i % 64), true
}

func (s *tileSet) mark(tx, ty int) {
	w, m, ok := s.index(tx, ty)
	if !ok {
		return
	}
	for {
		old := s.words[w].Load()
		if old&m != 0 || s.words[w].CompareAndSwap(old, old|m) {
			return
		}
	}
}

func (s *tileSet) has(tx, ty int) bool {
	w, m, ok := s.index(tx, ty)
	return ok && s.words[w].Load()&m != 0
}

func (s *tileSet) count() int {
	n := 0
	for i := range s.words {
		n += bits.OnesCount64(s.words[i].Load())
	}
	return n
}

func (s *tileSet) clear() {
	for i := range s.words {
		s.words[i].Store(0)
	}
}

// each calls fn for every set tile in row-major order.
func (s *tileSet) each(fn func(tx, ty int)) {
	for wi := range s.words {
		word := s.words[wi].Load()
		for word != 0 {
			b := bits.TrailingZeros64(word)
			word &^= 1 << b
			i := wi*64 + b
			fn(i%s.tilesX, i/s.tilesX)
		}
	}
}
