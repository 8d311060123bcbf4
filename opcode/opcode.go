package opcode

import (
	"context"
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/task"
)

// ID identifies an opcode on the wire.
type ID uint32

// Opcode ids.
const (
	WarpRectilinearID      ID = 1
	WarpFisheyeID          ID = 2
	FixVignetteRadialID    ID = 3
	FixBadPixelsConstantID ID = 4
	FixBadPixelsListID     ID = 5
	TrimBoundsID           ID = 6
	MapTableID             ID = 7
	MapPolynomialID        ID = 8
	GainMapID              ID = 9
	DeltaPerRowID          ID = 10
	DeltaPerColumnID       ID = 11
	ScalePerRowID          ID = 12
	ScalePerColumnID       ID = 13
)

var idNames = map[ID]string{
	WarpRectilinearID:      "WarpRectilinear",
	WarpFisheyeID:          "WarpFisheye",
	FixVignetteRadialID:    "FixVignetteRadial",
	FixBadPixelsConstantID: "FixBadPixelsConstant",
	FixBadPixelsListID:     "FixBadPixelsList",
	TrimBoundsID:           "TrimBounds",
	MapTableID:             "MapTable",
	MapPolynomialID:        "MapPolynomial",
	GainMapID:              "GainMap",
	DeltaPerRowID:          "DeltaPerRow",
	DeltaPerColumnID:       "DeltaPerColumn",
	ScalePerRowID:          "ScalePerRow",
	ScalePerColumnID:       "ScalePerColumn",
}

func (id ID) String() string {
	if s, ok := idNames[id]; ok {
		return s
	}
	return fmt.Sprintf("Opcode%d", uint32(id))
}

// IDByName returns the id of a named opcode.
func IDByName(name string) (ID, bool) {
	for id, s := range idNames {
		if s == name {
			return id, true
		}
	}
	return 0, false
}

// Flags modify how an opcode list treats an opcode.
type Flags uint32

const (
	// Optional opcodes may be skipped by readers that cannot run them.
	Optional Flags = 1 << iota

	// SkipIfPreview opcodes are not run for preview quality renders.
	SkipIfPreview
)

// Reader versions, encoded one byte per component.
const (
	Version1_3 uint32 = 0x01030000

	// CurrentVersion is the newest version whose opcodes this package runs.
	CurrentVersion = Version1_3
)

// Negative is the part of a raw negative that opcodes consult.
type Negative interface {
	// ColorChannels returns the number of color planes.
	ColorChannels() int

	// PixelAspectRatio returns the pixel width over its height.
	PixelAspectRatio() float64
}

// Env is what an opcode runs against.
type Env struct {
	Host     *task.Host
	Negative Negative

	// Stage is the pipeline stage the list belongs to, 1 to 3.
	Stage int
}

// Header holds the fields every opcode record carries.
type Header struct {
	// MinVersion is the oldest reader version that understands the
	// opcode.
	MinVersion uint32
	Flags      Flags

	fromStream bool
}

func newHeader(flags Flags) Header {
	return Header{MinVersion: Version1_3, Flags: flags}
}

// Base returns the header.
func (h *Header) Base() *Header { return h }

// Optional reports whether the Optional flag is set.
func (h *Header) Optional() bool { return h.Flags&Optional != 0 }

// SkipIfPreview reports whether the SkipIfPreview flag is set.
func (h *Header) SkipIfPreview() bool { return h.Flags&SkipIfPreview != 0 }

// Opcode is one correction in a list.
type Opcode interface {
	ID() ID
	Base() *Header

	// IsNOP reports whether Apply would leave the image unchanged.
	IsNOP() bool

	// IsValidForNegative reports whether the parameters fit neg.
	IsValidForNegative(neg Negative) bool

	// Apply runs the opcode on im and returns the result, which may be
	// im itself or a new image.
	Apply(ctx context.Context, env *Env, im *image.Image) (*image.Image, error)

	// putData appends the payload, without its byte count.
	putData(w *writer)
}

// Name returns the name of op's id.
func Name(op Opcode) string { return op.ID().String() }

type decoder func(h Header, r *reader) (Opcode, error)

var decoders = map[ID]decoder{
	WarpRectilinearID:   decodeWarpRectilinear,
	WarpFisheyeID:       decodeWarpFisheye,
	FixVignetteRadialID: decodeFixVignetteRadial,
	TrimBoundsID:        decodeTrimBounds,
	MapTableID:          decodeMapTable,
	MapPolynomialID:     decodeMapPolynomial,
	DeltaPerRowID:       decodeDeltaPerRow,
	DeltaPerColumnID:    decodeDeltaPerColumn,
	ScalePerRowID:       decodeScalePerRow,
	ScalePerColumnID:    decodeScalePerColumn,
}

// decode builds an opcode from its payload. Ids without a decoder become
// Unknown.
func decode(id ID, h Header, payload []byte) (Opcode, error) {
	h.fromStream = true
	dec, ok := decoders[id]
	if !ok {
		return &Unknown{Header: h, Code: id, Data: payload}, nil
	}
	r := newReader(payload)
	op, err := dec(h, r)
	if err != nil {
		return nil, fmt.Errorf("opcode: %s: %w", id, err)
	}
	if err := r.done(id.String()); err != nil {
		return nil, err
	}
	return op, nil
}

// Unknown is an opcode this package cannot run. Its payload is kept
// verbatim.
type Unknown struct {
	Header
	Code ID
	Data []byte
}

// ID implements Opcode.
func (u *Unknown) ID() ID { return u.Code }

// IsNOP implements Opcode.
func (u *Unknown) IsNOP() bool { return false }

// IsValidForNegative implements Opcode.
func (u *Unknown) IsValidForNegative(Negative) bool { return true }

// Apply implements Opcode. Optional unknown opcodes are skipped.
func (u *Unknown) Apply(_ context.Context, _ *Env, im *image.Image) (*image.Image, error) {
	if u.Optional() {
		return im, nil
	}
	return nil, fmt.Errorf("opcode: cannot apply %s: %w", u.Code, rawtile.ErrBadFormat)
}

func (u *Unknown) putData(w *writer) { w.bytes(u.Data) }
