package resample

import (
	"math"

	"github.com/gogpu/rawtile/ops"
)

// Coords maps destination indices along one axis to fixed point source
// coordinates: the integer pixel shifted left by ops.SubsampleBits, ORed
// with the sub-pixel phase.
type Coords struct {
	origin int32
	coords []int32
}

// NewCoords maps dstCount pixels starting at dstOrigin onto srcCount pixels
// starting at srcOrigin, aligning pixel centers.
func NewCoords(srcOrigin, srcCount, dstOrigin, dstCount int32) *Coords {
	c := &Coords{origin: dstOrigin, coords: make([]int32, max(dstCount, 0))}
	if dstCount <= 0 {
		return c
	}
	scale := float64(srcCount) / float64(dstCount)
	for j := range c.coords {
		x := (float64(j)+0.5)*scale - 0.5 + float64(srcOrigin)
		c.coords[j] = int32(math.Round(x * ops.SubsampleCount))
	}
	return c
}

// At returns the fixed point coordinate of destination index i.
func (c *Coords) At(i int32) int32 {
	return c.coords[i-c.origin]
}

// Pixel returns the integer source pixel of destination index i.
func (c *Coords) Pixel(i int32) int32 {
	return c.At(i) >> ops.SubsampleBits
}

// Span returns the coordinates of destination indices [from, to).
func (c *Coords) Span(from, to int32) []int32 {
	return c.coords[from-c.origin : to-c.origin]
}
