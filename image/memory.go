package image

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/pixel"
)

// DefaultTileSize is the native tile size of Memory storage.
const DefaultTileSize = 256

// MemoryOption configures a Memory storage.
type MemoryOption func(*Memory)

// WithTileSize sets the native tile size. Non-positive sizes are ignored.
func WithTileSize(rows, cols int32) MemoryOption {
	return func(m *Memory) {
		if rows > 0 && cols > 0 {
			m.tileSize = geom.Pt(rows, cols)
		}
	}
}

// WithPool draws tile memory from p.
func WithPool(p *pixel.Pool) MemoryOption {
	return func(m *Memory) {
		m.pool = p
	}
}

// Memory is an in-memory tiled Storage. Tiles are planar buffers allocated
// on first access; tiles that were never written read as zero.
type Memory struct {
	bounds   geom.Rect
	grid     geom.Rect
	tileSize geom.Point
	planes   int
	typ      pixel.Type
	pool     *pixel.Pool

	tilesX int
	tilesY int

	mu      sync.Mutex
	tiles   []*pixel.Buffer
	written *tileSet
}

// NewMemory returns an empty Memory storage.
func NewMemory(bounds geom.Rect, planes int, t pixel.Type, opts ...MemoryOption) (*Memory, error) {
	if bounds.IsEmpty() || planes < 1 || !t.IsValid() {
		return nil, fmt.Errorf("image: memory storage %v with %d %s planes: %w",
			bounds, planes, t, rawtile.ErrProgram)
	}
	m := &Memory{
		bounds:   bounds,
		tileSize: geom.Pt(DefaultTileSize, DefaultTileSize),
		planes:   planes,
		typ:      t,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.grid = geom.RectOfSize(m.tileSize).Add(bounds.TL())
	m.tilesY = int(geom.CeilDiv(bounds.H(), m.tileSize.V))
	m.tilesX = int(geom.CeilDiv(bounds.W(), m.tileSize.H))
	m.tiles = make([]*pixel.Buffer, m.tilesX*m.tilesY)
	m.written = newTileSet(m.tilesX, m.tilesY)
	rawtile.Logger().Debug("image: memory storage",
		"bounds", bounds.String(),
		"planes", planes,
		"type", t.String(),
		"tiles", len(m.tiles),
		"size", humanize.IBytes(uint64(bounds.Pixels())*uint64(planes*t.Size())))
	return m, nil
}

// Bounds returns the current bounds.
func (m *Memory) Bounds() geom.Rect { return m.bounds }

// Planes returns the plane count.
func (m *Memory) Planes() int { return m.planes }

// PixelType returns the sample type.
func (m *Memory) PixelType() pixel.Type { return m.typ }

// RepeatingTile returns the first tile of the grid. Trim does not move the
// grid.
func (m *Memory) RepeatingTile() geom.Rect { return m.grid }

// tileIndex returns the grid column and row of the tile holding area.
func (m *Memory) tileIndex(area geom.Rect) (tx, ty int, err error) {
	o := m.grid.TL()
	tx = int(geom.FloorDiv(area.L-o.H, m.tileSize.H))
	ty = int(geom.FloorDiv(area.T-o.V, m.tileSize.V))
	cell := m.tileRect(tx, ty)
	if tx < 0 || ty < 0 || tx >= m.tilesX || ty >= m.tilesY || !area.In(cell) {
		return 0, 0, fmt.Errorf("image: area %v not inside one tile of %v: %w", area, m.bounds, rawtile.ErrProgram)
	}
	return tx, ty, nil
}

func (m *Memory) tileRect(tx, ty int) geom.Rect {
	return m.grid.Add(geom.Pt(int32(ty)*m.tileSize.V, int32(tx)*m.tileSize.H))
}

// tile returns the buffer for the given tile, allocating it when needed.
func (m *Memory) tile(tx, ty int) (*pixel.Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := ty*m.tilesX + tx
	if b := m.tiles[i]; b != nil {
		return b, nil
	}
	area := m.tileRect(tx, ty)
	_, _, _, elems := pixel.Steps(pixel.Planar, area, m.planes)
	var (
		data []byte
		err  error
	)
	if m.pool != nil {
		data, err = m.pool.Get(elems * m.typ.Size())
	} else {
		data, err = pixel.NewBlock(elems * m.typ.Size())
	}
	if err != nil {
		return nil, err
	}
	b, err := pixel.New(area, 0, m.planes, m.typ, pixel.Planar, data)
	if err != nil {
		return nil, err
	}
	if m.typ == pixel.I16 {
		if err := b.SetZero(area, 0, m.planes); err != nil {
			return nil, err
		}
	}
	m.tiles[i] = b
	return b, nil
}

// AcquireTileBuffer returns a view of the tile holding area.
func (m *Memory) AcquireTileBuffer(area geom.Rect, dirty bool) (*pixel.Buffer, error) {
	tx, ty, err := m.tileIndex(area)
	if err != nil {
		return nil, err
	}
	b, err := m.tile(tx, ty)
	if err != nil {
		return nil, err
	}
	if dirty {
		m.written.mark(tx, ty)
	}
	return b.Sub(area, 0, m.planes), nil
}

// ReleaseTileBuffer is a no-op; tiles stay resident until Release.
func (m *Memory) ReleaseTileBuffer(*pixel.Buffer) error { return nil }

// Trim shrinks the bounds without moving tile memory.
func (m *Memory) Trim(r geom.Rect) error {
	if !r.In(m.bounds) {
		return fmt.Errorf("image: trim %v outside %v: %w", r, m.bounds, rawtile.ErrProgram)
	}
	m.bounds = r
	return nil
}

// Written returns the rects of tiles that have been acquired for writing,
// clipped to the bounds.
func (m *Memory) Written() []geom.Rect {
	rects := make([]geom.Rect, 0, m.written.count())
	m.written.each(func(tx, ty int) {
		if r := m.tileRect(tx, ty).And(m.bounds); r.NotEmpty() {
			rects = append(rects, r)
		}
	})
	return rects
}

// ClearWritten forgets which tiles were written.
func (m *Memory) ClearWritten() {
	m.written.clear()
}

// Release returns tile memory to the pool, if any, and drops all tiles.
func (m *Memory) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.tiles {
		if b != nil && m.pool != nil {
			m.pool.Put(b.Data)
		}
		m.tiles[i] = nil
	}
	m.written.clear()
}
