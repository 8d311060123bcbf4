package resample

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/ops"
)

// weightsCacheSize bounds the number of cached weight tables.
const weightsCacheSize = 64

// Fixed point weights carry 14 fractional bits.
const (
	weightBits = 14
	weightOne  = 1 << weightBits
)

// Weights holds the taps of a kernel for every 1D sub-pixel phase. Phase p
// owns Width weights starting at p*Step.
type Weights struct {
	Radius    int
	Width     int
	Step      int
	Weights32 []float32
	Weights16 []int16
}

// NewWeights samples k for a resize by scale, destination over source.
// Downscaling widens the kernel by 1/scale; upscaling keeps the kernel's
// own extent.
func NewWeights(scale float64, k Kernel) (*Weights, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("resample: scale %g: %w", scale, rawtile.ErrProgram)
	}
	scale = min(scale, 1)
	radius := int(math.Ceil(k.Extent()/scale - 1e-4))
	if radius < 1 {
		return nil, fmt.Errorf("resample: %s kernel has extent %g: %w", k.Name(), k.Extent(), rawtile.ErrProgram)
	}
	w := &Weights{Radius: radius, Width: 2 * radius}
	w.Step = (w.Width + 7) &^ 7
	w.Weights32 = make([]float32, ops.SubsampleCount*w.Step)
	w.Weights16 = make([]int16, ops.SubsampleCount*w.Step)

	for phase := range ops.SubsampleCount {
		fract := float64(phase) / ops.SubsampleCount
		w32 := w.Weights32[phase*w.Step : phase*w.Step+w.Width]
		var total float64
		for j := range w32 {
			x := (float64(j-radius+1) - fract) * scale
			w32[j] = float32(k.Evaluate(x))
			total += float64(w32[j])
		}
		normalize(w32, total)

		center := radius - 1
		if fract >= 0.5 {
			center = radius
		}
		quantize(w32, w.Weights16[phase*w.Step:phase*w.Step+w.Width], center)
	}
	return w, nil
}

// normalize scales w so it sums to one.
func normalize(w []float32, total float64) {
	s := float32(1 / total)
	for j := range w {
		w[j] *= s
	}
}

// quantize rounds w32 to fixed point into w16 and moves the rounding error
// to the tap at center so the phase sums to exactly weightOne.
func quantize(w32 []float32, w16 []int16, center int) {
	var total int32
	for j, w := range w32 {
		w16[j] = int16(math.Round(float64(w) * weightOne))
		total += int32(w16[j])
	}
	w16[center] += int16(weightOne - total)
}

// Offset returns the position of the first tap relative to the integer
// part of a source coordinate.
func (w *Weights) Offset() int32 {
	return int32(1 - w.Radius)
}

// Phase32 returns the float taps of a phase.
func (w *Weights) Phase32(phase int) []float32 {
	return w.Weights32[phase*w.Step : phase*w.Step+w.Width]
}

// Phase16 returns the fixed point taps of a phase.
func (w *Weights) Phase16(phase int) []int16 {
	return w.Weights16[phase*w.Step : phase*w.Step+w.Width]
}

type weightsKey struct {
	kernel string
	scale  float64
}

var weightsCache = func() *lru.Cache[weightsKey, *Weights] {
	c, err := lru.New[weightsKey, *Weights](weightsCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}()

// CachedWeights works like NewWeights; tables are shared through an LRU
// cache keyed by kernel name and effective scale. Callers must not modify
// the returned tables.
func CachedWeights(scale float64, k Kernel) (*Weights, error) {
	key := weightsKey{kernel: k.Name(), scale: min(scale, 1)}
	if w, ok := weightsCache.Get(key); ok {
		return w, nil
	}
	w, err := NewWeights(scale, k)
	if err != nil {
		return nil, err
	}
	weightsCache.Add(key, w)
	return w, nil
}

// Weights2D holds the taps of a separable 2D kernel at unit scale for
// 32x32 sub-pixel phases. Phase (py, px) owns Width rows of RowStep
// weights starting at (py*ops.Subsample2DCount+px)*Step.
type Weights2D struct {
	Radius    int
	Width     int
	RowStep   int
	Step      int
	Weights32 []float32
	Weights16 []int16
}

// NewWeights2D samples k on the 2D phase grid.
func NewWeights2D(k Kernel) (*Weights2D, error) {
	radius := int(math.Ceil(k.Extent() - 1e-4))
	if radius < 1 {
		return nil, fmt.Errorf("resample: %s kernel has extent %g: %w", k.Name(), k.Extent(), rawtile.ErrProgram)
	}
	w := &Weights2D{Radius: radius, Width: 2 * radius}
	w.RowStep = (w.Width + 7) &^ 7
	w.Step = w.RowStep * w.Width
	const phases = ops.Subsample2DCount * ops.Subsample2DCount
	w.Weights32 = make([]float32, phases*w.Step)
	w.Weights16 = make([]int16, phases*w.Step)

	ky := make([]float64, w.Width)
	kx := make([]float64, w.Width)
	for py := range ops.Subsample2DCount {
		fy := float64(py) / ops.Subsample2DCount
		for j := range ky {
			ky[j] = k.Evaluate(float64(j-radius+1) - fy)
		}
		for px := range ops.Subsample2DCount {
			fx := float64(px) / ops.Subsample2DCount
			for j := range kx {
				kx[j] = k.Evaluate(float64(j-radius+1) - fx)
			}

			base := (py*ops.Subsample2DCount + px) * w.Step
			w32 := w.Weights32[base : base+w.Step]
			var total float64
			for r := range w.Width {
				for c := range w.Width {
					v := float32(ky[r] * kx[c])
					w32[r*w.RowStep+c] = v
					total += float64(v)
				}
			}
			normalize(w32, total)

			centerRow := radius - 1
			if fy >= 0.5 {
				centerRow = radius
			}
			centerCol := radius - 1
			if fx >= 0.5 {
				centerCol = radius
			}
			quantize(w32, w.Weights16[base:base+w.Step], centerRow*w.RowStep+centerCol)
		}
	}
	return w, nil
}

// Phase32 returns the float taps of phase (py, px), row by row with
// RowStep elements per row.
func (w *Weights2D) Phase32(py, px int) []float32 {
	base := (py*ops.Subsample2DCount + px) * w.Step
	return w.Weights32[base : base+w.Step]
}

// Phase16 returns the fixed point taps of phase (py, px).
func (w *Weights2D) Phase16(py, px int) []int16 {
	base := (py*ops.Subsample2DCount + px) * w.Step
	return w.Weights16[base : base+w.Step]
}
