package ops

// Optimized overrides the Reference loops that dominate tile throughput with
// variants specialised for a unit innermost step, which after
// pixel.OptimizeOrder is the common case for planar and interleaved buffers.
type Optimized struct {
	Reference
}

var _ PixelOps = Optimized{}

func fillInner[T any](d []T, off int, value T, w Walk) bool {
	if w.PlaneStep != 1 {
		return false
	}
	for range w.Rows {
		d1 := off
		for range w.Cols {
			seg := d[d1 : d1+w.Planes]
			for i := range seg {
				seg[i] = value
			}
			d1 += w.ColStep
		}
		off += w.RowStep
	}
	return true
}

func copyInner[T any](s []T, sOff int, d []T, dOff int, w CopyWalk) bool {
	if w.SrcPlaneStep != 1 || w.DstPlaneStep != 1 {
		return false
	}
	for range w.Rows {
		s1, d1 := sOff, dOff
		for range w.Cols {
			copy(d[d1:d1+w.Planes], s[s1:s1+w.Planes])
			s1 += w.SrcColStep
			d1 += w.DstColStep
		}
		sOff += w.SrcRowStep
		dOff += w.DstRowStep
	}
	return true
}

func (o Optimized) SetArea8(d []uint8, off int, value uint8, w Walk) {
	if !fillInner(d, off, value, w) {
		o.Reference.SetArea8(d, off, value, w)
	}
}

func (o Optimized) SetArea16(d []uint16, off int, value uint16, w Walk) {
	if !fillInner(d, off, value, w) {
		o.Reference.SetArea16(d, off, value, w)
	}
}

func (o Optimized) SetArea32(d []uint32, off int, value uint32, w Walk) {
	if !fillInner(d, off, value, w) {
		o.Reference.SetArea32(d, off, value, w)
	}
}

func (o Optimized) CopyArea8(s []uint8, sOff int, d []uint8, dOff int, w CopyWalk) {
	if !copyInner(s, sOff, d, dOff, w) {
		o.Reference.CopyArea8(s, sOff, d, dOff, w)
	}
}

func (o Optimized) CopyArea16(s []uint16, sOff int, d []uint16, dOff int, w CopyWalk) {
	if !copyInner(s, sOff, d, dOff, w) {
		o.Reference.CopyArea16(s, sOff, d, dOff, w)
	}
}

func (o Optimized) CopyArea32(s []uint32, sOff int, d []uint32, dOff int, w CopyWalk) {
	if !copyInner(s, sOff, d, dOff, w) {
		o.Reference.CopyArea32(s, sOff, d, dOff, w)
	}
}

func (o Optimized) CopyArea16ToR32(s []uint16, sOff int, d []float32, dOff int, w CopyWalk, pixelRange uint32) {
	if w.SrcPlaneStep != 1 || w.DstPlaneStep != 1 {
		o.Reference.CopyArea16ToR32(s, sOff, d, dOff, w, pixelRange)
		return
	}
	scale := 1 / float32(pixelRange)
	for range w.Rows {
		s1, d1 := sOff, dOff
		for range w.Cols {
			src := s[s1 : s1+w.Planes]
			dst := d[d1 : d1+len(src)]
			for i, x := range src {
				dst[i] = scale * float32(x)
			}
			s1 += w.SrcColStep
			d1 += w.DstColStep
		}
		sOff += w.SrcRowStep
		dOff += w.DstRowStep
	}
}

func (o Optimized) CopyAreaR32To16(s []float32, sOff int, d []uint16, dOff int, w CopyWalk, pixelRange uint32) {
	if w.SrcPlaneStep != 1 || w.DstPlaneStep != 1 {
		o.Reference.CopyAreaR32To16(s, sOff, d, dOff, w, pixelRange)
		return
	}
	scale := float32(pixelRange)
	for range w.Rows {
		s1, d1 := sOff, dOff
		for range w.Cols {
			src := s[s1 : s1+w.Planes]
			dst := d[d1 : d1+len(src)]
			for i, x := range src {
				dst[i] = uint16(quantize(x, scale))
			}
			s1 += w.SrcColStep
			d1 += w.DstColStep
		}
		sOff += w.SrcRowStep
		dOff += w.DstRowStep
	}
}

func (o Optimized) EqualArea16(s []uint16, sOff int, d []uint16, dOff int, w CopyWalk) bool {
	if w.SrcPlaneStep != 1 || w.DstPlaneStep != 1 {
		return o.Reference.EqualArea16(s, sOff, d, dOff, w)
	}
	for range w.Rows {
		s1, d1 := sOff, dOff
		for range w.Cols {
			a := s[s1 : s1+w.Planes]
			b := d[d1 : d1+len(a)]
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			s1 += w.SrcColStep
			d1 += w.DstColStep
		}
		sOff += w.SrcRowStep
		dOff += w.DstRowStep
	}
	return true
}

func (o Optimized) MapArea16(d []uint16, off int, w Walk, table []uint16) {
	if w.PlaneStep != 1 || len(table) < 0x10000 {
		o.Reference.MapArea16(d, off, w, table)
		return
	}
	lut := table[:0x10000]
	for range w.Rows {
		d1 := off
		for range w.Cols {
			seg := d[d1 : d1+w.Planes]
			for i, x := range seg {
				seg[i] = lut[x]
			}
			d1 += w.ColStep
		}
		off += w.RowStep
	}
}
