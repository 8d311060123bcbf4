package mosaic

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/ops"
)

const (
	maxTaps    = 8
	maxPattern = 2 * MaxCFAPattern
)

type tap struct {
	delta  geom.Point
	w32    float32
	w16    uint16
	offset int
}

// kernel is the interpolation kernel of one pattern phase. No construction
// path adds more than maxTaps distinct deltas.
type kernel struct {
	taps []tap
}

// add merges weight into the tap at delta. Non-positive weights are dropped.
func (k *kernel) add(delta geom.Point, weight float32) {
	if weight <= 0 {
		return
	}
	for j := range k.taps {
		if k.taps[j].delta == delta {
			k.taps[j].w32 += weight
			return
		}
	}
	k.taps = append(k.taps, tap{delta: delta, w32: weight})
}

// finalize maps deltas from the interpolation grid back to source pixels,
// sorts the taps in scan order, computes buffer offsets and rounds the
// weights to 8 fractional bits. The largest weight absorbs the rounding
// error so the fixed point weights sum to 256; the float weights are then
// recomputed from the fixed point ones.
func (k *kernel) finalize(scale geom.Point, patRow, patCol int, rowStep, colStep int) {
	if len(k.taps) == 0 {
		return
	}
	for j := range k.taps {
		d := &k.taps[j].delta
		if scale.V == 2 {
			d.V = (d.V + int32(patRow&1)) >> 1
		}
		if scale.H == 2 {
			d.H = (d.H + int32(patCol&1)) >> 1
		}
	}
	slices.SortStableFunc(k.taps, func(a, b tap) int {
		if c := cmp.Compare(a.delta.V, b.delta.V); c != 0 {
			return c
		}
		return cmp.Compare(a.delta.H, b.delta.H)
	})

	var total uint16
	biggest := 0
	for j := range k.taps {
		t := &k.taps[j]
		t.offset = rowStep*int(t.delta.V) + colStep*int(t.delta.H)
		t.w16 = uint16(t.w32*256 + 0.5)
		total += t.w16
		if k.taps[biggest].w16 < t.w16 {
			biggest = j
		}
	}
	k.taps[biggest].w16 += 256 - total
	for j := range k.taps {
		k.taps[j].w32 = float32(k.taps[j].w16) * (1.0 / 256)
	}
}

// halve maps a delta on the doubled grid of a dual staggered layout back to
// the undoubled one. Positions off the 4-periodic sample lattice snap to its
// midpoint.
func halve(base, delta int32) int32 {
	x := base + delta
	if x&3 != 0 {
		x = x&^3 + 2
	}
	return (x - base) >> 1
}

// Neighbor positions around the interpolated pixel.
var (
	north     = geom.Pt(-1, 0)
	south     = geom.Pt(1, 0)
	west      = geom.Pt(0, -1)
	east      = geom.Pt(0, 1)
	northWest = geom.Pt(-1, -1)
	northEast = geom.Pt(-1, 1)
	southWest = geom.Pt(1, -1)
	southEast = geom.Pt(1, 1)
)

type weighted struct {
	delta  geom.Point
	weight float32
}

// neighborCases are the 3x3 neighborhoods with a dedicated kernel, in
// priority order. A case applies when every listed neighbor has the plane
// color.
var neighborCases = [][]weighted{
	{{north, 0.25}, {west, 0.25}, {east, 0.25}, {south, 0.25}},
	{{north, 0.5}, {south, 0.5}},
	{{west, 0.5}, {east, 0.5}},
	{{north, 0.5}, {southWest, 0.25}, {southEast, 0.25}},
	{{south, 0.5}, {northWest, 0.25}, {northEast, 0.25}},
	{{west, 0.5}, {northEast, 0.25}, {southEast, 0.25}},
	{{east, 0.5}, {northWest, 0.25}, {southWest, 0.25}},
	{{northWest, 0.25}, {northEast, 0.25}, {southWest, 0.25}, {southEast, 0.25}},
	{{northWest, 0.5}, {southEast, 0.5}},
	{{northEast, 0.5}, {southWest, 0.5}},
}

// planeMap marks the cells of the interpolation grid that carry one plane
// color.
type planeMap struct {
	rows, cols int
	cells      [maxPattern][maxPattern]bool
	anyInRow   [maxPattern]bool
	anyInCol   [maxPattern]bool
}

func newPlaneMap(info *Info, color uint8, rows, cols int) (*planeMap, error) {
	m := &planeMap{rows: rows, cols: cols}
	p := &info.CFAPattern
	for j := range rows {
		for k := range cols {
			var hit bool
			switch info.CFALayout {
			case 1:
				hit = p[j][k] == color
			case 2:
				hit = j&1 == k&1 && p[j>>1][k] == color
			case 3:
				hit = j&1 != k&1 && p[j>>1][k] == color
			case 4:
				hit = j&1 == k&1 && p[j][k>>1] == color
			case 5:
				hit = j&1 != k&1 && p[j][k>>1] == color
			case 6, 7, 8, 9:
				eRow, eCol := 3, 3
				if info.CFALayout == 6 || info.CFALayout == 7 {
					eRow = 1
				}
				if info.CFALayout == 6 || info.CFALayout == 8 {
					eCol = 1
				}
				jj, kk := j&3, k&3
				if (jj == 0 || jj == eRow) && (kk == 0 || kk == eCol) {
					hit = p[(j>>1)&^1+min(jj, 1)][(k>>1)&^1+min(kk, 1)] == color
				}
			default:
				return nil, fmt.Errorf("mosaic: CFA layout %d: %w", info.CFALayout, rawtile.ErrProgram)
			}
			if hit {
				m.cells[j][k] = true
				m.anyInRow[j] = true
				m.anyInCol[k] = true
			}
		}
	}
	if !slices.Contains(m.anyInRow[:rows], true) {
		return nil, fmt.Errorf("%w: color %d is not in the CFA pattern", rawtile.ErrBadFormat, color)
	}
	return m, nil
}

func (m *planeMap) row(r, delta int) int {
	return ((r+delta)%m.rows + m.rows) % m.rows
}

func (m *planeMap) col(c, delta int) int {
	return ((c+delta)%m.cols + m.cols) % m.cols
}

func (m *planeMap) at(r, c int, d geom.Point) bool {
	return m.cells[m.row(r, int(d.V))][m.col(c, int(d.H))]
}

// seek steps from zero in direction step until hit holds. The pattern is
// periodic and holds the color, so the search ends within one period.
func seek(hit func(d int) bool, step int) int {
	d := 0
	for !hit(d) {
		d += step
	}
	return d
}

func linearWeight1(d1, d2 int) float32 {
	if d1 == d2 {
		return 1
	}
	return float32(d2) / float32(d2-d1)
}

func linearWeight2(d1, d2 int) float32 {
	if d1 == d2 {
		return 0
	}
	return float32(-d1) / float32(d2-d1)
}

// kernel returns the kernel for the grid cell (r, c).
func (m *planeMap) kernel(r, c int) kernel {
	k := kernel{taps: make([]tap, 0, maxTaps)}
	if m.cells[r][c] {
		k.add(geom.Point{}, 1)
		return k
	}

cases:
	for _, nc := range neighborCases {
		for _, w := range nc {
			if !m.at(r, c, w.delta) {
				continue cases
			}
		}
		for _, w := range nc {
			k.add(w.delta, w.weight)
		}
		return k
	}

	// Double linear: average a row-first and a column-first interpolation
	// between the nearest rows and columns holding the color.
	dv1 := seek(func(d int) bool { return m.anyInRow[m.row(r, d)] }, -1)
	dv2 := seek(func(d int) bool { return m.anyInRow[m.row(r, d)] }, 1)
	for _, side := range [2]struct {
		dv int
		w  float32
	}{
		{dv1, linearWeight1(dv1, dv2) * 0.5},
		{dv2, linearWeight2(dv1, dv2) * 0.5},
	} {
		v := m.row(r, side.dv)
		dh1 := seek(func(d int) bool { return m.cells[v][m.col(c, d)] }, -1)
		dh2 := seek(func(d int) bool { return m.cells[v][m.col(c, d)] }, 1)
		k.add(geom.Pt(int32(side.dv), int32(dh1)), linearWeight1(dh1, dh2)*side.w)
		k.add(geom.Pt(int32(side.dv), int32(dh2)), linearWeight2(dh1, dh2)*side.w)
	}

	dh1 := seek(func(d int) bool { return m.anyInCol[m.col(c, d)] }, -1)
	dh2 := seek(func(d int) bool { return m.anyInCol[m.col(c, d)] }, 1)
	for _, side := range [2]struct {
		dh int
		w  float32
	}{
		{dh1, linearWeight1(dh1, dh2) * 0.5},
		{dh2, linearWeight2(dh1, dh2) * 0.5},
	} {
		h := m.col(c, side.dh)
		dv1 := seek(func(d int) bool { return m.cells[m.row(r, d)][h] }, -1)
		dv2 := seek(func(d int) bool { return m.cells[m.row(r, d)][h] }, 1)
		k.add(geom.Pt(int32(dv1), int32(side.dh)), linearWeight1(dv1, dv2)*side.w)
		k.add(geom.Pt(int32(dv2), int32(side.dh)), linearWeight2(dv1, dv2)*side.w)
	}
	return k
}

// bilinearPattern holds the kernels of one output plane for every phase of
// the interpolated pattern.
type bilinearPattern struct {
	scale   geom.Point
	patRows int
	patCols int
	rows    []ops.Bilinear
}

// newBilinearPattern computes the kernels of plane for a source buffer with
// the given element steps.
func newBilinearPattern(info *Info, plane int, rowStep, colStep int) (*bilinearPattern, error) {
	scale := info.FullScale()
	p := &bilinearPattern{
		scale:   scale,
		patRows: int(info.CFAPatternSize.V * scale.V),
		patCols: int(info.CFAPatternSize.H * scale.H),
	}

	// Dual staggered layouts are solved on a grid doubled in both axes.
	temp := 1
	if info.CFALayout >= 6 {
		temp = 2
	}
	m, err := newPlaneMap(info, info.CFAPlaneColor[plane], p.patRows*temp, p.patCols*temp)
	if err != nil {
		return nil, err
	}

	p.rows = make([]ops.Bilinear, p.patRows)
	for patRow := range p.patRows {
		b := ops.Bilinear{
			Counts:    make([]int, p.patCols),
			Offsets:   make([][]int, p.patCols),
			Weights16: make([][]uint16, p.patCols),
			Weights32: make([][]float32, p.patCols),
		}
		for patCol := range p.patCols {
			r, c := patRow*temp, patCol*temp
			k := m.kernel(r, c)
			if temp == 2 {
				for j := range k.taps {
					d := &k.taps[j].delta
					d.V = halve(int32(r), d.V)
					d.H = halve(int32(c), d.H)
				}
			}
			k.finalize(scale, patRow, patCol, rowStep, colStep)

			n := len(k.taps)
			b.Counts[patCol] = n
			b.Offsets[patCol] = make([]int, n)
			b.Weights16[patCol] = make([]uint16, n)
			b.Weights32[patCol] = make([]float32, n)
			for j, t := range k.taps {
				b.Offsets[patCol][j] = t.offset
				b.Weights16[patCol][j] = t.w16
				b.Weights32[patCol][j] = t.w32
			}
		}
		p.rows[patRow] = b
	}
	return p, nil
}
