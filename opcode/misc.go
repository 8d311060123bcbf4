package opcode

import (
	"context"
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/ops"
	"github.com/gogpu/rawtile/pixel"
)

// TrimBounds crops the image to Bounds.
type TrimBounds struct {
	Header
	Bounds geom.Rect
}

// NewTrimBounds returns a TrimBounds opcode.
func NewTrimBounds(bounds geom.Rect) *TrimBounds {
	return &TrimBounds{Header: newHeader(0), Bounds: bounds}
}

func decodeTrimBounds(h Header, r *reader) (Opcode, error) {
	op := &TrimBounds{Header: h}
	op.Bounds = geom.R(r.int32(), r.int32(), r.int32(), r.int32())
	if r.err == nil && op.Bounds.IsEmpty() {
		return nil, fmt.Errorf("empty bounds %v: %w", op.Bounds, rawtile.ErrBadFormat)
	}
	return op, nil
}

// ID implements Opcode.
func (*TrimBounds) ID() ID { return TrimBoundsID }

// IsNOP implements Opcode.
func (*TrimBounds) IsNOP() bool { return false }

// IsValidForNegative implements Opcode.
func (*TrimBounds) IsValidForNegative(Negative) bool { return true }

// Apply implements Opcode. Bounds must lie inside the image.
func (op *TrimBounds) Apply(_ context.Context, _ *Env, im *image.Image) (*image.Image, error) {
	if op.Bounds.IsEmpty() || !op.Bounds.In(im.Bounds()) {
		return nil, fmt.Errorf("opcode: trim to %v outside %v: %w", op.Bounds, im.Bounds(), rawtile.ErrBadFormat)
	}
	if err := im.Trim(op.Bounds); err != nil {
		return nil, err
	}
	return im, nil
}

func (op *TrimBounds) putData(w *writer) {
	w.int32(op.Bounds.T)
	w.int32(op.Bounds.L)
	w.int32(op.Bounds.B)
	w.int32(op.Bounds.R)
}

// mapTableSize is the number of entries of an expanded MapTable.
const mapTableSize = 0x10000

// MapTable maps 16-bit samples through a lookup table. Samples past the
// end of Table map to its last entry.
type MapTable struct {
	Header
	Spec  AreaSpec
	Table []uint16

	expanded []uint16
}

// NewMapTable returns a MapTable opcode. The table holds 1 to 65536
// entries.
func NewMapTable(spec AreaSpec, table []uint16) (*MapTable, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(table) == 0 || len(table) > mapTableSize {
		return nil, fmt.Errorf("opcode: map table of %d entries: %w", len(table), rawtile.ErrProgram)
	}
	op := &MapTable{Header: newHeader(0), Spec: spec, Table: table}
	op.expand()
	return op, nil
}

func decodeMapTable(h Header, r *reader) (Opcode, error) {
	op := &MapTable{Header: h}
	if err := op.Spec.get(r); err != nil {
		return nil, err
	}
	count := r.uint32()
	if r.err != nil {
		return nil, r.err
	}
	if count == 0 || count > mapTableSize {
		return nil, fmt.Errorf("table of %d entries: %w", count, rawtile.ErrBadFormat)
	}
	if int(count)*2 != r.remaining() {
		return nil, fmt.Errorf("%d entries in %d bytes: %w", count, r.remaining(), rawtile.ErrBadFormat)
	}
	op.Table = make([]uint16, count)
	for i := range op.Table {
		op.Table[i] = r.uint16()
	}
	op.expand()
	return op, nil
}

// expand replicates the last entry up to the full 16-bit range.
func (op *MapTable) expand() {
	op.expanded = make([]uint16, mapTableSize)
	n := copy(op.expanded, op.Table)
	if n == 0 {
		return
	}
	last := op.Table[n-1]
	for i := n; i < mapTableSize; i++ {
		op.expanded[i] = last
	}
}

// ID implements Opcode.
func (*MapTable) ID() ID { return MapTableID }

// IsNOP implements Opcode.
func (*MapTable) IsNOP() bool { return false }

// IsValidForNegative implements Opcode.
func (*MapTable) IsValidForNegative(Negative) bool { return true }

// Apply implements Opcode.
func (op *MapTable) Apply(ctx context.Context, env *Env, im *image.Image) (*image.Image, error) {
	if op.expanded == nil {
		op.expand()
	}
	return applyInPlace(ctx, env, im, op.Spec, pixel.U16, func(buf *pixel.Buffer, overlap geom.Rect) error {
		d, err := buf.U16()
		if err != nil {
			return err
		}
		o := ops.Or(buf.Ops)
		first, last := op.Spec.planeRange(buf)
		for plane := first; plane < last; plane++ {
			o.MapArea16(d, buf.Offset(overlap.T, overlap.L, plane), ops.Walk{
				Rows:    int(geom.CeilDiv(overlap.H(), op.Spec.RowPitch)),
				Cols:    int(geom.CeilDiv(overlap.W(), op.Spec.ColPitch)),
				Planes:  1,
				RowStep: int(op.Spec.RowPitch) * buf.RowStep,
				ColStep: int(op.Spec.ColPitch) * buf.ColStep,
			}, op.expanded)
		}
		return nil
	})
}

func (op *MapTable) putData(w *writer) {
	op.Spec.put(w)
	w.uint32(uint32(len(op.Table)))
	for _, v := range op.Table {
		w.uint16(v)
	}
}

// MaxPolynomialDegree is the highest degree MapPolynomial accepts.
const MaxPolynomialDegree = 8

// MapPolynomial maps samples through a polynomial on the [0, 1] range, or
// on the stored integer range for stage 1 images.
type MapPolynomial struct {
	Header
	Spec         AreaSpec
	Coefficients []float64
}

// NewMapPolynomial returns a MapPolynomial opcode. Trailing zero
// coefficients are dropped.
func NewMapPolynomial(spec AreaSpec, coefficients []float64) (*MapPolynomial, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(coefficients) == 0 || len(coefficients) > MaxPolynomialDegree+1 {
		return nil, fmt.Errorf("opcode: polynomial with %d coefficients: %w", len(coefficients), rawtile.ErrProgram)
	}
	n := len(coefficients)
	for n > 1 && coefficients[n-1] == 0 {
		n--
	}
	return &MapPolynomial{
		Header:       newHeader(0),
		Spec:         spec,
		Coefficients: append([]float64(nil), coefficients[:n]...),
	}, nil
}

func decodeMapPolynomial(h Header, r *reader) (Opcode, error) {
	op := &MapPolynomial{Header: h}
	if err := op.Spec.get(r); err != nil {
		return nil, err
	}
	degree := r.uint32()
	if r.err != nil {
		return nil, r.err
	}
	if degree > MaxPolynomialDegree {
		return nil, fmt.Errorf("degree %d: %w", degree, rawtile.ErrBadFormat)
	}
	op.Coefficients = make([]float64, degree+1)
	for i := range op.Coefficients {
		op.Coefficients[i] = r.float64()
	}
	return op, nil
}

// ID implements Opcode.
func (*MapPolynomial) ID() ID { return MapPolynomialID }

// IsNOP implements Opcode.
func (*MapPolynomial) IsNOP() bool { return false }

// IsValidForNegative implements Opcode.
func (*MapPolynomial) IsValidForNegative(Negative) bool { return true }

// coefficients32 rescales the coefficients for float staging. Stage 1
// polynomials are defined on the stored integer range.
func (op *MapPolynomial) coefficients32(stage int, t pixel.Type) ([]float32, error) {
	scale := 1.0
	if stage == 1 {
		var err error
		if scale, err = sampleRange(t); err != nil {
			return nil, err
		}
	}
	c := make([]float32, len(op.Coefficients))
	factor := 1 / scale
	for i, v := range op.Coefficients {
		c[i] = float32(v * factor)
		factor *= scale
	}
	return c, nil
}

// Apply implements Opcode.
func (op *MapPolynomial) Apply(ctx context.Context, env *Env, im *image.Image) (*image.Image, error) {
	if _, err := sampleRange(im.PixelType()); err != nil {
		return nil, err
	}
	c, err := op.coefficients32(env.Stage, im.PixelType())
	if err != nil {
		return nil, err
	}
	return applyInPlace(ctx, env, im, op.Spec, pixel.F32, func(buf *pixel.Buffer, overlap geom.Rect) error {
		d, err := buf.F32()
		if err != nil {
			return err
		}
		first, last := op.Spec.planeRange(buf)
		for plane := first; plane < last; plane++ {
			for row := overlap.T; row < overlap.B; row += op.Spec.RowPitch {
				off := buf.Offset(row, overlap.L, plane)
				for col := int32(0); col < overlap.W(); col += op.Spec.ColPitch {
					i := off + int(col)*buf.ColStep
					d[i] = evaluate32(c, d[i])
				}
			}
		}
		return nil
	})
}

// evaluate32 evaluates the polynomial c at x with Horner's rule and pins
// the result to [0, 1].
func evaluate32(c []float32, x float32) float32 {
	var y float32
	for i := len(c) - 1; i >= 0; i-- {
		y = y*x + c[i]
	}
	return geom.Pin(0, y, 1)
}

func (op *MapPolynomial) putData(w *writer) {
	op.Spec.put(w)
	w.uint32(uint32(len(op.Coefficients) - 1))
	for _, v := range op.Coefficients {
		w.float64(v)
	}
}

// Direction says whether a per-line opcode holds one value per row or per
// column.
type Direction uint8

const (
	PerRow Direction = iota
	PerColumn
)

// Operation is how a per-line value combines with a sample.
type Operation uint8

const (
	// Delta adds the value, in stored sample units, and pins to [0, 1].
	Delta Operation = iota

	// Scale multiplies by the value and clips to 1.
	Scale
)

// PerLine covers DeltaPerRow, DeltaPerColumn, ScalePerRow and
// ScalePerColumn: one float value for every pitch row or column of the
// spec area.
type PerLine struct {
	Header
	Direction Direction
	Operation Operation
	Spec      AreaSpec
	Values    []float32
}

// NewPerLine returns a per-line opcode. Values must hold one entry per
// pitch row or column of spec.Area.
func NewPerLine(dir Direction, op Operation, spec AreaSpec, values []float32) (*PerLine, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	p := &PerLine{Header: newHeader(0), Direction: dir, Operation: op, Spec: spec, Values: values}
	if spec.Area.IsEmpty() {
		return nil, fmt.Errorf("opcode: %s over the whole image: %w", p.ID(), rawtile.ErrProgram)
	}
	if n := p.count(); int(n) != len(values) {
		return nil, fmt.Errorf("opcode: %s needs %d values, got %d: %w", p.ID(), n, len(values), rawtile.ErrProgram)
	}
	return p, nil
}

func decodePerLine(dir Direction, op Operation) decoder {
	return func(h Header, r *reader) (Opcode, error) {
		p := &PerLine{Header: h, Direction: dir, Operation: op}
		if err := p.Spec.get(r); err != nil {
			return nil, err
		}
		if p.Spec.Area.IsEmpty() {
			return nil, fmt.Errorf("empty area: %w", rawtile.ErrBadFormat)
		}
		n := r.uint32()
		if r.err != nil {
			return nil, r.err
		}
		if want := p.count(); n != uint32(want) || int(n)*4 != r.remaining() {
			return nil, fmt.Errorf("%d values for %d lines in %d bytes: %w", n, want, r.remaining(), rawtile.ErrBadFormat)
		}
		p.Values = make([]float32, n)
		for i := range p.Values {
			p.Values[i] = r.float32()
		}
		return p, nil
	}
}

var (
	decodeDeltaPerRow    = decodePerLine(PerRow, Delta)
	decodeDeltaPerColumn = decodePerLine(PerColumn, Delta)
	decodeScalePerRow    = decodePerLine(PerRow, Scale)
	decodeScalePerColumn = decodePerLine(PerColumn, Scale)
)

func (p *PerLine) count() int32 {
	if p.Direction == PerRow {
		return p.Spec.rows()
	}
	return p.Spec.cols()
}

// ID implements Opcode.
func (p *PerLine) ID() ID {
	switch {
	case p.Operation == Delta && p.Direction == PerRow:
		return DeltaPerRowID
	case p.Operation == Delta:
		return DeltaPerColumnID
	case p.Direction == PerRow:
		return ScalePerRowID
	default:
		return ScalePerColumnID
	}
}

// IsNOP implements Opcode.
func (*PerLine) IsNOP() bool { return false }

// IsValidForNegative implements Opcode.
func (*PerLine) IsValidForNegative(Negative) bool { return true }

// Apply implements Opcode.
func (p *PerLine) Apply(ctx context.Context, env *Env, im *image.Image) (*image.Image, error) {
	r, err := sampleRange(im.PixelType())
	if err != nil {
		return nil, err
	}
	valueScale := float32(1 / r)
	if p.Operation == Scale {
		valueScale = 1
	}
	return applyInPlace(ctx, env, im, p.Spec, pixel.F32, func(buf *pixel.Buffer, overlap geom.Rect) error {
		d, err := buf.F32()
		if err != nil {
			return err
		}
		// Index of the first line of overlap within Values.
		var first int32
		rowStep := int(p.Spec.RowPitch) * buf.RowStep
		colStep := int(p.Spec.ColPitch) * buf.ColStep
		lines := geom.CeilDiv(overlap.H(), p.Spec.RowPitch)
		length := geom.CeilDiv(overlap.W(), p.Spec.ColPitch)
		lineStep, sampleStep := rowStep, colStep
		if p.Direction == PerRow {
			first = (overlap.T - p.Spec.Area.T) / p.Spec.RowPitch
		} else {
			first = (overlap.L - p.Spec.Area.L) / p.Spec.ColPitch
			lines, length = length, lines
			lineStep, sampleStep = colStep, rowStep
		}
		planeFirst, planeLast := p.Spec.planeRange(buf)
		for plane := planeFirst; plane < planeLast; plane++ {
			lineOff := buf.Offset(overlap.T, overlap.L, plane)
			for line := range lines {
				v := p.Values[first+line] * valueScale
				off := lineOff
				for range length {
					if p.Operation == Delta {
						d[off] = geom.Pin(0, d[off]+v, 1)
					} else {
						d[off] = min(d[off]*v, 1)
					}
					off += sampleStep
				}
				lineOff += lineStep
			}
		}
		return nil
	})
}

func (p *PerLine) putData(w *writer) {
	p.Spec.put(w)
	w.uint32(uint32(len(p.Values)))
	for _, v := range p.Values {
		w.float32(v)
	}
}
