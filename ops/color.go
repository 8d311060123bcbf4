package ops

func pin01(x float32) float32 {
	return min(max(x, 0), 1)
}

// RGBtoHSV converts linear RGB to hue in [0,6), saturation and value.
func RGBtoHSV(r, g, b float32) (h, s, v float32) {
	v = max(r, g, b)
	gap := v - min(r, g, b)
	if gap <= 0 {
		return 0, 0, v
	}
	switch v {
	case r:
		h = (g - b) / gap
		if h < 0 {
			h += 6
		}
	case g:
		h = 2 + (b-r)/gap
	default:
		h = 4 + (r-g)/gap
	}
	return h, gap / v, v
}

// HSVtoRGB is the inverse of RGBtoHSV. Hue wraps into [0,6).
func HSVtoRGB(h, s, v float32) (r, g, b float32) {
	if s <= 0 {
		return v, v, v
	}
	if h < 0 {
		h += 6
	}
	if h >= 6 {
		h -= 6
	}
	i := int(h)
	f := h - float32(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch i {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// Interpolate1D samples a table of n+2 entries covering [0,1] in n steps.
func Interpolate1D(table []float32, x float32) float32 {
	n := len(table) - 2
	y := pin01(x) * float32(n)
	i := int(y)
	if i > n {
		i = n
	}
	fract := y - float32(i)
	return table[i]*(1-fract) + table[i+1]*fract
}

func (Reference) ABCtoRGB(a, b, c, r, g, bl []float32, cameraWhite [3]float64, m [3][3]float64) {
	clipA, clipB, clipC := float32(cameraWhite[0]), float32(cameraWhite[1]), float32(cameraWhite[2])
	m00, m01, m02 := float32(m[0][0]), float32(m[0][1]), float32(m[0][2])
	m10, m11, m12 := float32(m[1][0]), float32(m[1][1]), float32(m[1][2])
	m20, m21, m22 := float32(m[2][0]), float32(m[2][1]), float32(m[2][2])
	for j := range r {
		A := min(a[j], clipA)
		B := min(b[j], clipB)
		C := min(c[j], clipC)
		r[j] = pin01(m00*A + m01*B + m02*C)
		g[j] = pin01(m10*A + m11*B + m12*C)
		bl[j] = pin01(m20*A + m21*B + m22*C)
	}
}

func (Reference) ABCDtoRGB(a, b, c, dd, r, g, bl []float32, cameraWhite [4]float64, m [3][4]float64) {
	clipA, clipB := float32(cameraWhite[0]), float32(cameraWhite[1])
	clipC, clipD := float32(cameraWhite[2]), float32(cameraWhite[3])
	for j := range r {
		A := min(a[j], clipA)
		B := min(b[j], clipB)
		C := min(c[j], clipC)
		D := min(dd[j], clipD)
		r[j] = pin01(float32(m[0][0])*A + float32(m[0][1])*B + float32(m[0][2])*C + float32(m[0][3])*D)
		g[j] = pin01(float32(m[1][0])*A + float32(m[1][1])*B + float32(m[1][2])*C + float32(m[1][3])*D)
		bl[j] = pin01(float32(m[2][0])*A + float32(m[2][1])*B + float32(m[2][2])*C + float32(m[2][3])*D)
	}
}

func (Reference) HueSatMap(sr, sg, sb, dr, dg, db []float32, t *HueSatTable) {
	hueDivs, satDivs, valDivs := t.HueDivisions, t.SatDivisions, t.ValDivisions
	var hScale float32
	if hueDivs >= 2 {
		hScale = float32(hueDivs) / 6
	}
	sScale := float32(satDivs - 1)
	vScale := float32(valDivs - 1)
	maxHue0 := hueDivs - 1
	maxSat0 := satDivs - 2
	maxVal0 := valDivs - 2
	hueStep := satDivs
	valStep := hueDivs * hueStep

	for j := range dr {
		h, s, v := RGBtoHSV(sr[j], sg[j], sb[j])

		var hueShift, satScale, valScale float32
		hScaled := h * hScale
		sScaled := s * sScale
		h0 := int(hScaled)
		s0 := min(int(sScaled), maxSat0)
		h1 := h0 + 1
		if h0 >= maxHue0 {
			h0 = maxHue0
			h1 = 0
		}
		hF1 := hScaled - float32(h0)
		sF1 := sScaled - float32(s0)
		hF0 := 1 - hF1
		sF0 := 1 - sF1

		if valDivs < 2 {
			e00 := h0*hueStep + s0
			e01 := e00 + (h1-h0)*hueStep
			mix := func(e00, e01 int) (float32, float32, float32) {
				a, b := t.Deltas[e00], t.Deltas[e01]
				return hF0*a.HueShift + hF1*b.HueShift,
					hF0*a.SatScale + hF1*b.SatScale,
					hF0*a.ValScale + hF1*b.ValScale
			}
			hs0, ss0, vs0 := mix(e00, e01)
			hs1, ss1, vs1 := mix(e00+1, e01+1)
			hueShift = sF0*hs0 + sF1*hs1
			satScale = sF0*ss0 + sF1*ss1
			valScale = sF0*vs0 + sF1*vs1
		} else {
			vScaled := v * vScale
			v0 := min(int(vScaled), maxVal0)
			vF1 := vScaled - float32(v0)
			vF0 := 1 - vF1
			e00 := v0*valStep + h0*hueStep + s0
			e01 := e00 + (h1-h0)*hueStep
			mix := func(e00, e01 int) (float32, float32, float32) {
				a, b := t.Deltas[e00], t.Deltas[e01]
				c, d := t.Deltas[e00+valStep], t.Deltas[e01+valStep]
				return vF0*(hF0*a.HueShift+hF1*b.HueShift) + vF1*(hF0*c.HueShift+hF1*d.HueShift),
					vF0*(hF0*a.SatScale+hF1*b.SatScale) + vF1*(hF0*c.SatScale+hF1*d.SatScale),
					vF0*(hF0*a.ValScale+hF1*b.ValScale) + vF1*(hF0*c.ValScale+hF1*d.ValScale)
			}
			hs0, ss0, vs0 := mix(e00, e01)
			hs1, ss1, vs1 := mix(e00+1, e01+1)
			hueShift = sF0*hs0 + sF1*hs1
			satScale = sF0*ss0 + sF1*ss1
			valScale = sF0*vs0 + sF1*vs1
		}

		h += hueShift * (6.0 / 360.0)
		s = min(s*satScale, 1)
		v = min(v*valScale, 1)
		dr[j], dg[j], db[j] = HSVtoRGB(h, s, v)
	}
}

func (Reference) RGBtoGray(r, g, b, gray []float32, m [3]float64) {
	m0, m1, m2 := float32(m[0]), float32(m[1]), float32(m[2])
	for j := range gray {
		gray[j] = pin01(m0*r[j] + m1*g[j] + m2*b[j])
	}
}

func (Reference) RGBtoRGB(sr, sg, sb, dr, dg, db []float32, m [3][3]float64) {
	m00, m01, m02 := float32(m[0][0]), float32(m[0][1]), float32(m[0][2])
	m10, m11, m12 := float32(m[1][0]), float32(m[1][1]), float32(m[1][2])
	m20, m21, m22 := float32(m[2][0]), float32(m[2][1]), float32(m[2][2])
	for j := range dr {
		r, g, b := sr[j], sg[j], sb[j]
		dr[j] = pin01(m00*r + m01*g + m02*b)
		dg[j] = pin01(m10*r + m11*g + m12*b)
		db[j] = pin01(m20*r + m21*g + m22*b)
	}
}

func (Reference) Table1D(s, d []float32, table []float32) {
	for j := range d {
		d[j] = Interpolate1D(table, s[j])
	}
}

// toneSpread applies the table to the largest and smallest channel and
// places the middle one at the same relative position between them.
func toneSpread(table []float32, hi, mid, lo float32) (float32, float32, float32) {
	hh := Interpolate1D(table, hi)
	ll := Interpolate1D(table, lo)
	mm := ll + (hh-ll)*(mid-lo)/(hi-lo)
	return hh, mm, ll
}

func (Reference) RGBTone(sr, sg, sb, dr, dg, db []float32, table []float32) {
	for j := range dr {
		r, g, b := sr[j], sg[j], sb[j]
		var rr, gg, bb float32
		if r >= g {
			switch {
			case g > b: // r >= g > b
				rr, gg, bb = toneSpread(table, r, g, b)
			case b > r: // b > r >= g
				bb, rr, gg = toneSpread(table, b, r, g)
			case b > g: // r >= b > g
				rr, bb, gg = toneSpread(table, r, b, g)
			default: // r >= g == b
				rr = Interpolate1D(table, r)
				gg = Interpolate1D(table, g)
				bb = gg
			}
		} else {
			switch {
			case r >= b: // g > r >= b
				gg, rr, bb = toneSpread(table, g, r, b)
			case b > g: // b > g > r
				bb, gg, rr = toneSpread(table, b, g, r)
			default: // g >= b > r
				gg, bb, rr = toneSpread(table, g, b, r)
			}
		}
		dr[j], dg[j], db[j] = rr, gg, bb
	}
}
