// Package task schedules per-tile work over image areas.
//
// An AreaTask describes how an area may be cut into tiles: up to three
// repeating-tile grids that tiles must not straddle, a unit cell that tile
// sizes must be multiples of, and a maximum tile size. FindTileSize turns
// those constraints into a leaf tile size, and ProcessOnThread walks the
// nested grids down to leaf tiles, polling the Sniffer before each one.
//
// Perform runs a task on the calling goroutine. Host.PerformAreaTask cuts
// the area into horizontal bands and runs them concurrently on a worker
// pool. Tasks receive the thread index in Start and Process and keep
// per-thread scratch memory indexed by it.
//
// Filter specializes AreaTask to "get a source buffer, compute a
// destination buffer, put it": concrete algorithms implement Processor.
package task

import (
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/tile"
)

// Defaults used by Base when a field is zero.
const (
	DefaultMaxThreads  = 8
	DefaultMinTaskArea = 256 * 256
	DefaultMaxTileSize = 256
)

// AreaTask is the scheduling contract of a tiled algorithm.
type AreaTask interface {
	// MaxThreads returns the largest number of threads the task supports.
	MaxThreads() int

	// MinTaskArea returns the smallest area in pixels worth a thread.
	MinTaskArea() int64

	// UnitCell returns the granularity of tile sizes.
	UnitCell() geom.Point

	// MaxTileSize returns the largest leaf tile size.
	MaxTileSize() geom.Point

	// RepeatingTile1 returns the innermost alignment grid. An empty rect
	// means the whole processing area.
	RepeatingTile1() geom.Rect

	// RepeatingTile2 returns the middle alignment grid.
	RepeatingTile2() geom.Rect

	// RepeatingTile3 returns the outermost alignment grid.
	RepeatingTile3() geom.Rect

	// Start is called once before any Process call.
	Start(threadCount int, tileSize geom.Point, alloc Allocator, sniffer Sniffer) error

	// Process handles one leaf tile on the given thread.
	Process(threadIndex int, area geom.Rect, sniffer Sniffer) error

	// Finish is called once after all Process calls returned.
	Finish(threadCount int) error
}

// Base provides the AreaTask scheduling hooks from plain fields. Zero
// fields select the package defaults; empty repeating tiles mean the whole
// area. Embed it and add Start, Process and Finish to get an AreaTask.
type Base struct {
	Threads int
	MinArea int64
	Cell    geom.Point
	MaxTile geom.Point

	Tile1, Tile2, Tile3 geom.Rect
}

// MaxThreads implements AreaTask.
func (b *Base) MaxThreads() int {
	if b.Threads > 0 {
		return b.Threads
	}
	return DefaultMaxThreads
}

// MinTaskArea implements AreaTask.
func (b *Base) MinTaskArea() int64 {
	if b.MinArea > 0 {
		return b.MinArea
	}
	return DefaultMinTaskArea
}

// UnitCell implements AreaTask.
func (b *Base) UnitCell() geom.Point {
	if b.Cell.V > 0 && b.Cell.H > 0 {
		return b.Cell
	}
	return geom.Pt(1, 1)
}

// MaxTileSize implements AreaTask.
func (b *Base) MaxTileSize() geom.Point {
	if b.MaxTile.V > 0 && b.MaxTile.H > 0 {
		return b.MaxTile
	}
	return geom.Pt(DefaultMaxTileSize, DefaultMaxTileSize)
}

// RepeatingTile1 implements AreaTask.
func (b *Base) RepeatingTile1() geom.Rect { return b.Tile1 }

// RepeatingTile2 implements AreaTask.
func (b *Base) RepeatingTile2() geom.Rect { return b.Tile2 }

// RepeatingTile3 implements AreaTask.
func (b *Base) RepeatingTile3() geom.Rect { return b.Tile3 }

func orArea(r, area geom.Rect) geom.Rect {
	if r.IsEmpty() {
		return area
	}
	return r
}

// FindTileSize returns the leaf tile size for t over area.
//
// The size is a positive multiple of the unit cell on both axes, at most
// the maximum tile size (rounded down to the unit cell, but never below one
// cell), and divides the smallest repeating tile into equal chunks so that
// leaf tiles do not straddle a repeat boundary.
func FindTileSize(t AreaTask, area geom.Rect) geom.Point {
	rt1 := orArea(t.RepeatingTile1(), area)
	rt2 := orArea(t.RepeatingTile2(), area)
	rt3 := orArea(t.RepeatingTile3(), area)

	repeatV := max(1, min(rt1.H(), rt2.H(), rt3.H()))
	repeatH := max(1, min(rt1.W(), rt2.W(), rt3.W()))

	cell := t.UnitCell()
	cell.V = max(cell.V, 1)
	cell.H = max(cell.H, 1)
	maxTile := t.MaxTileSize()
	maxTile.V = max(maxTile.V, cell.V)
	maxTile.H = max(maxTile.H, cell.H)

	size := geom.Pt(min(repeatV, maxTile.V), min(repeatH, maxTile.H))

	countV := geom.CeilDiv(repeatV, size.V)
	countH := geom.CeilDiv(repeatH, size.H)
	size.V = geom.CeilDiv(repeatV, countV)
	size.H = geom.CeilDiv(repeatH, countH)

	size.V = geom.RoundUp(size.V, cell.V)
	size.H = geom.RoundUp(size.H, cell.H)
	if size.V > maxTile.V {
		size.V = maxTile.V / cell.V * cell.V
	}
	if size.H > maxTile.H {
		size.H = maxTile.H / cell.H * cell.H
	}
	return size
}

// ProcessOnThread walks area through the three repeating grids, outermost
// first, then cuts each innermost cell into leaf tiles of tileSize and calls
// t.Process for each. The sniffer is polled before every leaf.
func ProcessOnThread(t AreaTask, threadIndex int, area geom.Rect, tileSize geom.Point, sniffer Sniffer) error {
	rt1 := orArea(t.RepeatingTile1(), area)
	rt2 := orArea(t.RepeatingTile2(), area)
	rt3 := orArea(t.RepeatingTile3(), area)

	for t1 := range tile.New(rt3, area).All() {
		for t2 := range tile.New(rt2, t1).All() {
			for t3 := range tile.New(rt1, t2).All() {
				for leaf := range tile.OfSize(tileSize, t3).All() {
					if err := Sniff(sniffer); err != nil {
						return err
					}
					if err := t.Process(threadIndex, leaf, sniffer); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// Perform runs t over area on the calling goroutine with one thread. A nil
// alloc uses HeapAllocator; a nil sniffer never aborts.
func Perform(t AreaTask, area geom.Rect, alloc Allocator, sniffer Sniffer) error {
	if area.IsEmpty() {
		return nil
	}
	if alloc == nil {
		alloc = HeapAllocator{}
	}
	tileSize := FindTileSize(t, area)
	if err := t.Start(1, tileSize, alloc, sniffer); err != nil {
		return err
	}
	err := ProcessOnThread(t, 0, area, tileSize, sniffer)
	if ferr := t.Finish(1); err == nil {
		err = ferr
	}
	return err
}
