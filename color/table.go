package color

import (
	"fmt"
	"math"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/ops"
)

// Table1D resolution.
const (
	TableBits = 12
	TableSize = 1 << TableBits
)

// Table1D samples a Function at TableSize+1 evenly spaced points, followed
// by a copy of the last sample so interpolation never reads past the end.
type Table1D struct {
	data []float32
}

type span struct {
	lower, upper int
	depth        int
}

// NewTable1D tabulates f. With subSample set, f is evaluated only where
// the curve bends more than 1/256 of its range and the gaps are filled
// linearly.
func NewTable1D(f Function, subSample bool) (*Table1D, error) {
	t := &Table1D{data: make([]float32, TableSize+2)}
	if subSample {
		t.data[0] = float32(f.Evaluate(0))
		t.data[TableSize] = float32(f.Evaluate(1))
		maxDelta := max(math.Abs(float64(t.data[TableSize]-t.data[0])), 1) / 256
		if err := t.subdivide(f, float32(maxDelta)); err != nil {
			return nil, err
		}
	} else {
		for j := 0; j <= TableSize; j++ {
			t.data[j] = float32(f.Evaluate(float64(j) / TableSize))
		}
	}
	t.data[TableSize+1] = t.data[TableSize]
	rawtile.Logger().Debug("color: table built", "entries", len(t.data), "subsample", subSample)
	return t, nil
}

// subdivide refines [0, TableSize] with an explicit worklist. A span is
// split when it is wider than TableSize/256 or its end values differ by
// more than maxDelta; otherwise its interior is filled linearly.
func (t *Table1D) subdivide(f Function, maxDelta float32) error {
	work := []span{{lower: 0, upper: TableSize}}
	for len(work) > 0 {
		sp := work[len(work)-1]
		work = work[:len(work)-1]
		if sp.depth > TableBits {
			return fmt.Errorf("%w: table subdivision deeper than %d", rawtile.ErrProgram, TableBits)
		}

		r := sp.upper - sp.lower
		split := r > TableSize>>8
		if !split {
			split = float32(math.Abs(float64(t.data[sp.upper]-t.data[sp.lower]))) > maxDelta
		}
		if !split {
			y0 := float64(t.data[sp.lower])
			delta := (float64(t.data[sp.upper]) - y0) / float64(r)
			for j := sp.lower + 1; j < sp.upper; j++ {
				y0 += delta
				t.data[j] = float32(y0)
			}
			continue
		}

		mid := (sp.lower + sp.upper) >> 1
		t.data[mid] = float32(f.Evaluate(float64(mid) / TableSize))
		if r > 2 {
			work = append(work,
				span{lower: mid, upper: sp.upper, depth: sp.depth + 1},
				span{lower: sp.lower, upper: mid, depth: sp.depth + 1})
		}
	}
	return nil
}

// Data returns the samples in the layout ops.PixelOps table bottlenecks use.
func (t *Table1D) Data() []float32 { return t.data }

// Interpolate evaluates the table at x, pinned to [0,1].
func (t *Table1D) Interpolate(x float32) float32 {
	return ops.Interpolate1D(t.data, x)
}

// Expand16 fills a 65536 entry table mapping 16-bit input to 16-bit output.
func (t *Table1D) Expand16(table []uint16) {
	for j := range table[:65536] {
		y := geom.Pin(0, t.Interpolate(float32(j)/65535), 1)
		table[j] = uint16(y*65535 + 0.5)
	}
}
