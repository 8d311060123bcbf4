package opcode

import (
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/lens"
)

// Spec is the YAML form of an opcode list.
//
//	stage: 3
//	opcodes:
//	  - name: WarpRectilinear
//	    optional: true
//	    planes: 1
//	    radial: [[1, -0.05, 0, 0]]
//	    center: {v: 0.5, h: 0.5}
//	  - name: ScalePerRow
//	    area: {area: {t: 0, l: 0, b: 4, r: 8}, planes: 1, rowPitch: 1, colPitch: 1}
//	    values: [1, 1.1, 1.2, 1.3]
type Spec struct {
	Stage   int          `yaml:"stage"`
	Opcodes []OpcodeSpec `yaml:"opcodes"`
}

// OpcodeSpec describes one opcode. Only the fields the named opcode uses
// are read.
type OpcodeSpec struct {
	Name string `yaml:"name"`

	// ID names opcodes without a known name.
	ID ID `yaml:"id,omitempty"`

	MinVersion    uint32 `yaml:"minVersion,omitempty"`
	Optional      bool   `yaml:"optional,omitempty"`
	SkipIfPreview bool   `yaml:"skipIfPreview,omitempty"`

	// Warps and vignette.
	Planes     int             `yaml:"planes,omitempty"`
	Radial     [][]float64     `yaml:"radial,omitempty"`
	Tangential [][]float64     `yaml:"tangential,omitempty"`
	Vignette   []float64       `yaml:"vignette,omitempty"`
	Center     *geom.RealPoint `yaml:"center,omitempty"`

	// TrimBounds.
	Bounds *geom.Rect `yaml:"bounds,omitempty"`

	// In-place opcodes.
	Area         *AreaSpec `yaml:"area,omitempty"`
	Table        []uint16  `yaml:"table,omitempty"`
	Coefficients []float64 `yaml:"coefficients,omitempty"`
	Values       []float32 `yaml:"values,omitempty"`

	// Data is the hex payload of an unknown opcode.
	Data string `yaml:"data,omitempty"`
}

// ParseSpec decodes a YAML list description.
func ParseSpec(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("opcode: spec: %w: %w", rawtile.ErrBadFormat, err)
	}
	if s.Stage == 0 {
		s.Stage = 1
	}
	return &s, nil
}

// Marshal encodes the spec as YAML.
func (s *Spec) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// List builds the opcode list the spec describes.
func (s *Spec) List() (*List, error) {
	l := NewList(s.Stage)
	for i := range s.Opcodes {
		op, err := s.Opcodes[i].build()
		if err != nil {
			return nil, fmt.Errorf("opcode: spec entry %d (%s): %w", i, s.Opcodes[i].Name, err)
		}
		l.Append(op)
	}
	return l, nil
}

func (o *OpcodeSpec) flags() Flags {
	var f Flags
	if o.Optional {
		f |= Optional
	}
	if o.SkipIfPreview {
		f |= SkipIfPreview
	}
	return f
}

func (o *OpcodeSpec) center() geom.RealPoint {
	if o.Center == nil {
		return geom.RealPoint{V: 0.5, H: 0.5}
	}
	return *o.Center
}

func (o *OpcodeSpec) area() AreaSpec {
	if o.Area == nil {
		return WholeImage(1)
	}
	return *o.Area
}

// setRows copies per-plane coefficient rows of at most width entries
// through set. Missing rows and entries keep their defaults.
func setRows(rows [][]float64, planes, width int, set func(plane, i int, v float64)) error {
	if len(rows) > planes {
		return fmt.Errorf("%d coefficient rows for %d planes: %w", len(rows), planes, rawtile.ErrBadFormat)
	}
	for plane, row := range rows {
		if len(row) > width {
			return fmt.Errorf("%d coefficients in row %d: %w", len(row), plane, rawtile.ErrBadFormat)
		}
		for i, v := range row {
			set(plane, i, v)
		}
	}
	return nil
}

func (o *OpcodeSpec) build() (Opcode, error) {
	id := o.ID
	if o.Name != "" {
		known, ok := IDByName(o.Name)
		if !ok && id == 0 {
			return nil, fmt.Errorf("unknown opcode name %q: %w", o.Name, rawtile.ErrBadFormat)
		}
		if ok {
			id = known
		}
	}
	if id == 0 {
		return nil, fmt.Errorf("opcode without name or id: %w", rawtile.ErrBadFormat)
	}
	planes := min(max(o.Planes, 1), lens.MaxPlanes)

	var (
		op  Opcode
		err error
	)
	switch id {
	case WarpRectilinearID:
		p := lens.NewRectilinear(planes)
		p.Center = o.center()
		if err := setRows(o.Radial, planes, 4, func(plane, i int, v float64) { p.Radial[plane][i] = v }); err != nil {
			return nil, err
		}
		if err := setRows(o.Tangential, planes, 2, func(plane, i int, v float64) { p.Tangential[plane][i] = v }); err != nil {
			return nil, err
		}
		op, err = NewWarpRectilinear(*p, o.flags())
	case WarpFisheyeID:
		p := lens.Fisheye{Planes: planes, Center: o.center()}
		for plane := range planes {
			p.Radial[plane][0] = 1
		}
		if err := setRows(o.Radial, planes, 4, func(plane, i int, v float64) { p.Radial[plane][i] = v }); err != nil {
			return nil, err
		}
		op, err = NewWarpFisheye(p, o.flags())
	case FixVignetteRadialID:
		p := lens.VignetteParams{Center: o.center()}
		if len(o.Vignette) > lens.VignetteTerms {
			return nil, fmt.Errorf("%d vignette terms: %w", len(o.Vignette), rawtile.ErrBadFormat)
		}
		copy(p.Terms[:], o.Vignette)
		op, err = NewFixVignetteRadial(p, o.flags())
	case TrimBoundsID:
		if o.Bounds == nil {
			return nil, fmt.Errorf("missing bounds: %w", rawtile.ErrBadFormat)
		}
		t := NewTrimBounds(*o.Bounds)
		t.Flags = o.flags()
		op = t
	case MapTableID:
		var t *MapTable
		t, err = NewMapTable(o.area(), o.Table)
		if err == nil {
			t.Flags = o.flags()
			op = t
		}
	case MapPolynomialID:
		var m *MapPolynomial
		m, err = NewMapPolynomial(o.area(), o.Coefficients)
		if err == nil {
			m.Flags = o.flags()
			op = m
		}
	case DeltaPerRowID, DeltaPerColumnID, ScalePerRowID, ScalePerColumnID:
		dir, oper := PerRow, Delta
		if id == DeltaPerColumnID || id == ScalePerColumnID {
			dir = PerColumn
		}
		if id == ScalePerRowID || id == ScalePerColumnID {
			oper = Scale
		}
		var p *PerLine
		p, err = NewPerLine(dir, oper, o.area(), o.Values)
		if err == nil {
			p.Flags = o.flags()
			op = p
		}
	default:
		data, herr := hex.DecodeString(o.Data)
		if herr != nil {
			return nil, fmt.Errorf("payload: %w: %w", rawtile.ErrBadFormat, herr)
		}
		op = &Unknown{Header: newHeader(o.flags()), Code: id, Data: data}
	}
	if err != nil {
		return nil, err
	}
	if o.MinVersion != 0 {
		op.Base().MinVersion = o.MinVersion
	}
	return op, nil
}

// SpecOf describes l as a Spec.
func SpecOf(l *List) *Spec {
	s := &Spec{Stage: l.Stage}
	for _, op := range l.Opcodes {
		s.Opcodes = append(s.Opcodes, specOf(op))
	}
	return s
}

func specOf(op Opcode) OpcodeSpec {
	h := op.Base()
	o := OpcodeSpec{
		Name:          op.ID().String(),
		Optional:      h.Optional(),
		SkipIfPreview: h.SkipIfPreview(),
	}
	if h.MinVersion != Version1_3 {
		o.MinVersion = h.MinVersion
	}
	switch op := op.(type) {
	case *WarpRectilinear:
		p := &op.Params
		o.Planes = p.Planes
		for plane := range p.Planes {
			o.Radial = append(o.Radial, append([]float64(nil), p.Radial[plane][:]...))
			o.Tangential = append(o.Tangential, append([]float64(nil), p.Tangential[plane][:]...))
		}
		o.Center = &p.Center
	case *WarpFisheye:
		p := &op.Params
		o.Planes = p.Planes
		for plane := range p.Planes {
			o.Radial = append(o.Radial, append([]float64(nil), p.Radial[plane][:]...))
		}
		o.Center = &p.Center
	case *FixVignetteRadial:
		o.Vignette = append([]float64(nil), op.Params.Terms[:]...)
		o.Center = &op.Params.Center
	case *TrimBounds:
		o.Bounds = &op.Bounds
	case *MapTable:
		o.Area = &op.Spec
		o.Table = op.Table
	case *MapPolynomial:
		o.Area = &op.Spec
		o.Coefficients = op.Coefficients
	case *PerLine:
		o.Area = &op.Spec
		o.Values = op.Values
	case *Unknown:
		if _, known := idNames[op.Code]; !known {
			o.Name = ""
		}
		o.ID = op.Code
		o.Data = hex.EncodeToString(op.Data)
	}
	return o
}
