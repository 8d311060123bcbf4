package ops

import "math"

// Reference is the portable implementation of PixelOps. Every other
// implementation must produce bit-identical results.
type Reference struct{}

var _ PixelOps = Reference{}

func setArea[T any](d []T, off int, value T, w Walk) {
	for range w.Rows {
		d1 := off
		for range w.Cols {
			d2 := d1
			for range w.Planes {
				d[d2] = value
				d2 += w.PlaneStep
			}
			d1 += w.ColStep
		}
		off += w.RowStep
	}
}

func convertArea[S, D any](s []S, sOff int, d []D, dOff int, w CopyWalk, f func(S) D) {
	for range w.Rows {
		s1, d1 := sOff, dOff
		for range w.Cols {
			s2, d2 := s1, d1
			for range w.Planes {
				d[d2] = f(s[s2])
				s2 += w.SrcPlaneStep
				d2 += w.DstPlaneStep
			}
			s1 += w.SrcColStep
			d1 += w.DstColStep
		}
		sOff += w.SrcRowStep
		dOff += w.DstRowStep
	}
}

func identity[T any](x T) T { return x }

func equalArea[T comparable](s []T, sOff int, d []T, dOff int, w CopyWalk) bool {
	for range w.Rows {
		s1, d1 := sOff, dOff
		for range w.Cols {
			s2, d2 := s1, d1
			for range w.Planes {
				if s[s2] != d[d2] {
					return false
				}
				s2 += w.SrcPlaneStep
				d2 += w.DstPlaneStep
			}
			s1 += w.SrcColStep
			d1 += w.DstColStep
		}
		sOff += w.SrcRowStep
		dOff += w.DstRowStep
	}
	return true
}

// maximumDifference returns the largest absolute difference between
// matching samples of s and d.
func maximumDifference[T uint8 | uint16 | int16 | uint32 | float32](s []T, sOff int, d []T, dOff int, w CopyWalk) float64 {
	var worst float64
	for range w.Rows {
		s1, d1 := sOff, dOff
		for range w.Cols {
			s2, d2 := s1, d1
			for range w.Planes {
				worst = max(worst, math.Abs(float64(s[s2])-float64(d[d2])))
				s2 += w.SrcPlaneStep
				d2 += w.DstPlaneStep
			}
			s1 += w.SrcColStep
			d1 += w.DstColStep
		}
		sOff += w.SrcRowStep
		dOff += w.DstRowStep
	}
	return worst
}

func repeatArea[T any](d []T, sOff, dOff int, w Walk, r Repeat) {
	s0 := sOff + r.PhaseV*w.RowStep + r.PhaseH*w.ColStep
	backV := (r.V - 1) * w.RowStep
	backH := (r.H - 1) * w.ColStep
	phaseV := r.PhaseV
	for range w.Rows {
		s1, d1 := s0, dOff
		phaseH := r.PhaseH
		for range w.Cols {
			s2, d2 := s1, d1
			for range w.Planes {
				d[d2] = d[s2]
				s2 += w.PlaneStep
				d2 += w.PlaneStep
			}
			phaseH++
			if phaseH == r.H {
				phaseH = 0
				s1 -= backH
			} else {
				s1 += w.ColStep
			}
			d1 += w.ColStep
		}
		phaseV++
		if phaseV == r.V {
			phaseV = 0
			s0 -= backV
		} else {
			s0 += w.RowStep
		}
		dOff += w.RowStep
	}
}

func (Reference) SetArea8(d []uint8, off int, value uint8, w Walk)    { setArea(d, off, value, w) }
func (Reference) SetArea16(d []uint16, off int, value uint16, w Walk) { setArea(d, off, value, w) }
func (Reference) SetArea32(d []uint32, off int, value uint32, w Walk) { setArea(d, off, value, w) }

func (Reference) CopyArea8(s []uint8, sOff int, d []uint8, dOff int, w CopyWalk) {
	convertArea(s, sOff, d, dOff, w, identity[uint8])
}

func (Reference) CopyArea16(s []uint16, sOff int, d []uint16, dOff int, w CopyWalk) {
	convertArea(s, sOff, d, dOff, w, identity[uint16])
}

func (Reference) CopyArea32(s []uint32, sOff int, d []uint32, dOff int, w CopyWalk) {
	convertArea(s, sOff, d, dOff, w, identity[uint32])
}

func (Reference) CopyArea8To16(s []uint8, sOff int, d []uint16, dOff int, w CopyWalk) {
	convertArea(s, sOff, d, dOff, w, func(x uint8) uint16 { return uint16(x) })
}

func (Reference) CopyArea8ToS16(s []uint8, sOff int, d []int16, dOff int, w CopyWalk) {
	convertArea(s, sOff, d, dOff, w, func(x uint8) int16 { return int16(uint16(x) ^ 0x8000) })
}

func (Reference) CopyArea8To32(s []uint8, sOff int, d []uint32, dOff int, w CopyWalk) {
	convertArea(s, sOff, d, dOff, w, func(x uint8) uint32 { return uint32(x) })
}

func (Reference) CopyArea16ToS16(s []uint16, sOff int, d []int16, dOff int, w CopyWalk) {
	convertArea(s, sOff, d, dOff, w, func(x uint16) int16 { return int16(x ^ 0x8000) })
}

func (Reference) CopyAreaS16To16(s []int16, sOff int, d []uint16, dOff int, w CopyWalk) {
	convertArea(s, sOff, d, dOff, w, func(x int16) uint16 { return uint16(x) ^ 0x8000 })
}

func (Reference) CopyArea16To32(s []uint16, sOff int, d []uint32, dOff int, w CopyWalk) {
	convertArea(s, sOff, d, dOff, w, func(x uint16) uint32 { return uint32(x) })
}

func (Reference) CopyArea8ToR32(s []uint8, sOff int, d []float32, dOff int, w CopyWalk, pixelRange uint32) {
	scale := 1 / float32(pixelRange)
	convertArea(s, sOff, d, dOff, w, func(x uint8) float32 { return scale * float32(x) })
}

func (Reference) CopyArea16ToR32(s []uint16, sOff int, d []float32, dOff int, w CopyWalk, pixelRange uint32) {
	scale := 1 / float32(pixelRange)
	convertArea(s, sOff, d, dOff, w, func(x uint16) float32 { return scale * float32(x) })
}

func (Reference) CopyAreaS16ToR32(s []int16, sOff int, d []float32, dOff int, w CopyWalk, pixelRange uint32) {
	scale := 1 / float32(pixelRange)
	convertArea(s, sOff, d, dOff, w, func(x int16) float32 { return scale * float32(uint16(x)^0x8000) })
}

func (Reference) CopyArea32ToR32(s []uint32, sOff int, d []float32, dOff int, w CopyWalk, pixelRange uint32) {
	scale := 1 / float64(pixelRange)
	convertArea(s, sOff, d, dOff, w, func(x uint32) float32 { return float32(scale * float64(x)) })
}

func (Reference) CopyAreaR32To8(s []float32, sOff int, d []uint8, dOff int, w CopyWalk, pixelRange uint32) {
	scale := float32(pixelRange)
	convertArea(s, sOff, d, dOff, w, func(x float32) uint8 { return uint8(quantize(x, scale)) })
}

func (Reference) CopyAreaR32To16(s []float32, sOff int, d []uint16, dOff int, w CopyWalk, pixelRange uint32) {
	scale := float32(pixelRange)
	convertArea(s, sOff, d, dOff, w, func(x float32) uint16 { return uint16(quantize(x, scale)) })
}

func (Reference) CopyAreaR32ToS16(s []float32, sOff int, d []int16, dOff int, w CopyWalk, pixelRange uint32) {
	scale := float32(pixelRange)
	convertArea(s, sOff, d, dOff, w, func(x float32) int16 { return int16(uint16(quantize(x, scale)) ^ 0x8000) })
}

// quantize maps x in [0,1] to [0, scale] with rounding, clipping outside values.
func quantize(x, scale float32) uint32 {
	x = min(max(x, 0), 1)
	return uint32(x*scale + 0.5)
}

func (Reference) RepeatArea8(d []uint8, sOff, dOff int, w Walk, r Repeat) {
	repeatArea(d, sOff, dOff, w, r)
}

func (Reference) RepeatArea16(d []uint16, sOff, dOff int, w Walk, r Repeat) {
	repeatArea(d, sOff, dOff, w, r)
}

func (Reference) RepeatArea32(d []uint32, sOff, dOff int, w Walk, r Repeat) {
	repeatArea(d, sOff, dOff, w, r)
}

func (Reference) ShiftRight16(d []uint16, off int, w Walk, shift uint) {
	for range w.Rows {
		d1 := off
		for range w.Cols {
			d2 := d1
			for range w.Planes {
				d[d2] >>= shift
				d2 += w.PlaneStep
			}
			d1 += w.ColStep
		}
		off += w.RowStep
	}
}

func (Reference) EqualArea8(s []uint8, sOff int, d []uint8, dOff int, w CopyWalk) bool {
	return equalArea(s, sOff, d, dOff, w)
}

func (Reference) EqualArea16(s []uint16, sOff int, d []uint16, dOff int, w CopyWalk) bool {
	return equalArea(s, sOff, d, dOff, w)
}

func (Reference) EqualArea32(s []uint32, sOff int, d []uint32, dOff int, w CopyWalk) bool {
	return equalArea(s, sOff, d, dOff, w)
}

func (Reference) MaximumDifference8(s []uint8, sOff int, d []uint8, dOff int, w CopyWalk) float64 {
	return maximumDifference(s, sOff, d, dOff, w)
}

func (Reference) MaximumDifference16(s []uint16, sOff int, d []uint16, dOff int, w CopyWalk) float64 {
	return maximumDifference(s, sOff, d, dOff, w)
}

func (Reference) MaximumDifferenceS16(s []int16, sOff int, d []int16, dOff int, w CopyWalk) float64 {
	return maximumDifference(s, sOff, d, dOff, w)
}

func (Reference) MaximumDifference32(s []uint32, sOff int, d []uint32, dOff int, w CopyWalk) float64 {
	return maximumDifference(s, sOff, d, dOff, w)
}

func (Reference) MaximumDifferenceR32(s []float32, sOff int, d []float32, dOff int, w CopyWalk) float64 {
	return maximumDifference(s, sOff, d, dOff, w)
}

func (Reference) BilinearRow16(s []uint16, sOff int, d []uint16, dOff int, cols, patPhase, patCount int, k *Bilinear, sShift uint) {
	for j := range cols {
		p := sOff + j>>sShift
		offsets := k.Offsets[patPhase]
		weights := k.Weights16[patPhase]
		count := k.Counts[patPhase]
		patPhase++
		if patPhase == patCount {
			patPhase = 0
		}
		total := uint32(128)
		for i := range count {
			total += uint32(s[p+offsets[i]]) * uint32(weights[i])
		}
		d[dOff+j] = uint16(total >> 8)
	}
}

func (Reference) BilinearRow32(s []float32, sOff int, d []float32, dOff int, cols, patPhase, patCount int, k *Bilinear, sShift uint) {
	for j := range cols {
		p := sOff + j>>sShift
		offsets := k.Offsets[patPhase]
		weights := k.Weights32[patPhase]
		count := k.Counts[patPhase]
		patPhase++
		if patPhase == patCount {
			patPhase = 0
		}
		var total float32
		for i := range count {
			total += s[p+offsets[i]] * weights[i]
		}
		d[dOff+j] = total
	}
}
