package pixel

import (
	"math"

	"github.com/gogpu/rawtile/ops"
)

// dims is the three-dimensional loop shared by OptimizeOrder and OptimizeWalk.
type dims struct {
	count [3]int
	src   [3]int
	dst   [3]int
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func spread(count, step [3]int) int {
	r := 0
	for i := range 3 {
		r += absInt(step[i]) * (count[i] - 1)
	}
	return r
}

// optimize normalizes signs against the more spread-out side, sorts the
// dimensions by descending step and collapses contiguous neighbours until
// no pair is left to merge.
func (d *dims) optimize(sOff, dOff *int) {
	key := d.dst
	if spread(d.count, d.src) > spread(d.count, d.dst) {
		key = d.src
	}
	for i := range 3 {
		if key[i] < 0 {
			*sOff += (d.count[i] - 1) * d.src[i]
			*dOff += (d.count[i] - 1) * d.dst[i]
			d.src[i] = -d.src[i]
			d.dst[i] = -d.dst[i]
			key[i] = -key[i]
		}
	}
	for i := range 3 {
		if d.count[i] == 1 {
			key[i] = math.MaxInt
		}
	}

	var idx [3]int
	switch {
	case key[0] >= key[1] && key[1] >= key[2]:
		idx = [3]int{0, 1, 2}
	case key[0] >= key[1] && key[2] >= key[0]:
		idx = [3]int{2, 0, 1}
	case key[0] >= key[1]:
		idx = [3]int{0, 2, 1}
	case key[0] >= key[2]:
		idx = [3]int{1, 0, 2}
	case key[2] >= key[1]:
		idx = [3]int{2, 1, 0}
	default:
		idx = [3]int{1, 2, 0}
	}
	var o dims
	for i, j := range idx {
		o.count[i] = d.count[j]
		o.src[i] = d.src[j]
		o.dst[i] = d.dst[j]
	}

	for o.merge() {
	}
	*d = o
}

// merge folds each dimension into the next non-unit one inside it when the
// two are contiguous in both buffers. It reports whether anything changed.
func (d *dims) merge() bool {
	merged := false
	for i := range 2 {
		if d.count[i] == 1 {
			continue
		}
		j := i + 1
		for j < 3 && d.count[j] == 1 {
			j++
		}
		if j == 3 {
			break
		}
		if d.src[i] == d.count[j]*d.src[j] && d.dst[i] == d.count[j]*d.dst[j] {
			d.count[j] *= d.count[i]
			d.count[i] = 1
			merged = true
		}
	}
	return merged
}

// OptimizeOrder rewrites a lock-step two-buffer walk so that every step is
// non-negative, the dimension with the largest step is outermost and
// dimensions that are contiguous in both buffers are merged. The offsets are
// moved to the new starting elements.
func OptimizeOrder(sOff, dOff int, w ops.CopyWalk) (int, int, ops.CopyWalk) {
	d := dims{
		count: [3]int{w.Rows, w.Cols, w.Planes},
		src:   [3]int{w.SrcRowStep, w.SrcColStep, w.SrcPlaneStep},
		dst:   [3]int{w.DstRowStep, w.DstColStep, w.DstPlaneStep},
	}
	d.optimize(&sOff, &dOff)
	return sOff, dOff, ops.CopyWalk{
		Rows: d.count[0], Cols: d.count[1], Planes: d.count[2],
		SrcRowStep: d.src[0], SrcColStep: d.src[1], SrcPlaneStep: d.src[2],
		DstRowStep: d.dst[0], DstColStep: d.dst[1], DstPlaneStep: d.dst[2],
	}
}

// OptimizeWalk is OptimizeOrder for a single buffer.
func OptimizeWalk(off int, w ops.Walk) (int, ops.Walk) {
	d := dims{
		count: [3]int{w.Rows, w.Cols, w.Planes},
		src:   [3]int{w.RowStep, w.ColStep, w.PlaneStep},
		dst:   [3]int{w.RowStep, w.ColStep, w.PlaneStep},
	}
	dummy := off
	d.optimize(&off, &dummy)
	return off, ops.Walk{
		Rows: d.count[0], Cols: d.count[1], Planes: d.count[2],
		RowStep: d.src[0], ColStep: d.src[1], PlaneStep: d.src[2],
	}
}
