package color

import (
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/ops"
)

// HueSatMap is a table of hue shifts and saturation and value scales indexed
// by hue, saturation and value divisions.
type HueSatMap struct {
	t ops.HueSatTable
}

// NewHueSatMap returns a map of the given divisions with every entry neutral.
// Hue and saturation need at least one division each, value at least one.
func NewHueSatMap(hue, sat, val int) (*HueSatMap, error) {
	if hue < 1 || sat < 1 || val < 1 {
		return nil, fmt.Errorf("%w: hue/sat map divisions %dx%dx%d", rawtile.ErrBadFormat, hue, sat, val)
	}
	m := &HueSatMap{t: ops.HueSatTable{
		HueDivisions: hue,
		SatDivisions: sat,
		ValDivisions: val,
		Deltas:       make([]ops.HueSatDelta, hue*sat*val),
	}}
	for j := range m.t.Deltas {
		m.t.Deltas[j] = ops.HueSatDelta{SatScale: 1, ValScale: 1}
	}
	return m, nil
}

// Divisions returns the hue, saturation and value division counts.
func (m *HueSatMap) Divisions() (hue, sat, val int) {
	return m.t.HueDivisions, m.t.SatDivisions, m.t.ValDivisions
}

func (m *HueSatMap) index(hue, sat, val int) int {
	return (val*m.t.HueDivisions+hue)*m.t.SatDivisions + sat
}

func (m *HueSatMap) Delta(hue, sat, val int) ops.HueSatDelta {
	return m.t.Deltas[m.index(hue, sat, val)]
}

// SetDelta stores d. Entries with zero saturation cannot shift hue and keep
// a unit saturation scale.
func (m *HueSatMap) SetDelta(hue, sat, val int, d ops.HueSatDelta) {
	if sat == 0 {
		d.HueShift = 0
		d.SatScale = 1
	}
	m.t.Deltas[m.index(hue, sat, val)] = d
}

// Table returns the map in the form the HueSatMap bottleneck consumes.
func (m *HueSatMap) Table() *ops.HueSatTable { return &m.t }

// IsNeutral reports whether every entry leaves colors unchanged.
func (m *HueSatMap) IsNeutral() bool {
	for _, d := range m.t.Deltas {
		if d.HueShift != 0 || d.SatScale != 1 || d.ValScale != 1 {
			return false
		}
	}
	return true
}

// InterpolateHueSat blends two maps of equal divisions, weighting a by
// weight and b by 1-weight.
func InterpolateHueSat(a, b *HueSatMap, weight float64) (*HueSatMap, error) {
	ha, sa, va := a.Divisions()
	hb, sb, vb := b.Divisions()
	if ha != hb || sa != sb || va != vb {
		return nil, fmt.Errorf("%w: hue/sat maps %dx%dx%d and %dx%dx%d differ",
			rawtile.ErrBadFormat, ha, sa, va, hb, sb, vb)
	}
	switch {
	case weight >= 1:
		return a.clone(), nil
	case weight <= 0:
		return b.clone(), nil
	}
	out := a.clone()
	w1 := float32(weight)
	w2 := 1 - w1
	for j, d := range b.t.Deltas {
		o := &out.t.Deltas[j]
		o.HueShift = w1*o.HueShift + w2*d.HueShift
		o.SatScale = w1*o.SatScale + w2*d.SatScale
		o.ValScale = w1*o.ValScale + w2*d.ValScale
	}
	return out, nil
}

func (m *HueSatMap) clone() *HueSatMap {
	c := &HueSatMap{t: m.t}
	c.t.Deltas = append([]ops.HueSatDelta(nil), m.t.Deltas...)
	return c
}
