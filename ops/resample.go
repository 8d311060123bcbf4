package ops

func (Reference) ResampleDown16(s []uint16, sOff int, d []uint16, sCount, sRowStep int, weights []int16, pixelRange uint32) {
	hi := int32(pixelRange)
	for j := range sCount {
		total := int32(8192)
		p := sOff + j
		for _, w := range weights {
			total += int32(w) * int32(s[p])
			p += sRowStep
		}
		d[j] = uint16(min(max(total>>14, 0), hi))
	}
}

func (Reference) ResampleDown32(s []float32, sOff int, d []float32, sCount, sRowStep int, weights []float32) {
	last := len(weights) - 1
	w := weights[0]
	for j := range sCount {
		d[j] = w * s[sOff+j]
	}
	sOff += sRowStep
	for k := 1; k < last; k++ {
		w = weights[k]
		for j := range sCount {
			d[j] += w * s[sOff+j]
		}
		sOff += sRowStep
	}
	w = weights[last]
	for j := range sCount {
		d[j] = pin01(d[j] + w*s[sOff+j])
	}
}

func (Reference) ResampleAcross16(s []uint16, sOff int, d []uint16, coords []int32, weights []int16, wCount, wStep int, pixelRange uint32) {
	hi := int32(pixelRange)
	for j := range d {
		c := coords[j]
		w := weights[int(c&SubsampleMask)*wStep:]
		p := sOff + int(c>>SubsampleBits)
		total := int32(w[0]) * int32(s[p])
		for k := 1; k < wCount; k++ {
			total += int32(w[k]) * int32(s[p+k])
		}
		d[j] = uint16(min(max((total+8192)>>14, 0), hi))
	}
}

func (Reference) ResampleAcross32(s []float32, sOff int, d []float32, coords []int32, weights []float32, wCount, wStep int) {
	for j := range d {
		c := coords[j]
		w := weights[int(c&SubsampleMask)*wStep:]
		p := sOff + int(c>>SubsampleBits)
		total := w[0] * s[p]
		for k := 1; k < wCount; k++ {
			total += w[k] * s[p+k]
		}
		d[j] = pin01(total)
	}
}

func (Reference) VignetteMask16(m []uint16, rows, cols, rowStep int, offsetH, offsetV, stepH, stepV int64, tBits uint, table []uint16) {
	tShift := 32 - tBits
	tRound := int64(1) << (tShift - 1)
	tLimit := int64(1) << tBits
	off := 0
	for range rows {
		base := (offsetV + 32768) >> 16
		base = base*base + tRound
		deltaH := offsetH + 32768
		for col := range cols {
			x := deltaH >> 16
			index := min((base+x*x)>>tShift, tLimit)
			m[off+col] = table[index]
			deltaH += stepH
		}
		offsetV += stepV
		off += rowStep
	}
}

func (Reference) Vignette16(s []int16, sOff int, m []uint16, rows, cols, planes, sRowStep, sPlaneStep, mRowStep int, mBits uint) {
	mRound := uint32(1) << (mBits - 1)
	for plane := range planes {
		sRow := sOff + plane*sPlaneStep
		mRow := 0
		for range rows {
			for col := range cols {
				x := uint32(uint16(s[sRow+col]) ^ 0x8000)
				x = min((x*uint32(m[mRow+col])+mRound)>>mBits, 65535)
				s[sRow+col] = int16(uint16(x) ^ 0x8000)
			}
			sRow += sRowStep
			mRow += mRowStep
		}
	}
}

func (Reference) MapArea16(d []uint16, off int, w Walk, table []uint16) {
	for range w.Rows {
		d1 := off
		for range w.Cols {
			d2 := d1
			for range w.Planes {
				d[d2] = table[d[d2]]
				d2 += w.PlaneStep
			}
			d1 += w.ColStep
		}
		off += w.RowStep
	}
}
