package opcode

import (
	"context"
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/lens"
)

// WarpRectilinear corrects distortion of a rectilinear lens.
type WarpRectilinear struct {
	Header
	Params lens.Rectilinear
}

// NewWarpRectilinear returns a WarpRectilinear opcode.
func NewWarpRectilinear(params lens.Rectilinear, flags Flags) (*WarpRectilinear, error) {
	if !params.IsValid() {
		return nil, fmt.Errorf("opcode: rectilinear warp parameters: %w", rawtile.ErrBadFormat)
	}
	return &WarpRectilinear{Header: newHeader(flags), Params: params}, nil
}

func decodePlanes(r *reader, perPlane int) (int, error) {
	planes := r.uint32()
	if r.err != nil {
		return 0, r.err
	}
	if planes == 0 || planes > lens.MaxPlanes {
		return 0, fmt.Errorf("%d planes: %w", planes, rawtile.ErrBadFormat)
	}
	if want := int(planes)*perPlane + 16; r.remaining() != want {
		return 0, fmt.Errorf("%d bytes for %d planes, want %d: %w", r.remaining(), planes, want, rawtile.ErrBadFormat)
	}
	return int(planes), nil
}

func decodeWarpRectilinear(h Header, r *reader) (Opcode, error) {
	planes, err := decodePlanes(r, 48)
	if err != nil {
		return nil, err
	}
	op := &WarpRectilinear{Header: h}
	p := &op.Params
	p.Planes = planes
	for plane := range planes {
		for i := range p.Radial[plane] {
			p.Radial[plane][i] = r.float64()
		}
		for i := range p.Tangential[plane] {
			p.Tangential[plane][i] = r.float64()
		}
	}
	p.Center.H = r.float64()
	p.Center.V = r.float64()
	if r.err == nil && !p.IsValid() {
		return nil, fmt.Errorf("center %v: %w", p.Center, rawtile.ErrBadFormat)
	}
	return op, nil
}

// ID implements Opcode.
func (*WarpRectilinear) ID() ID { return WarpRectilinearID }

// IsNOP implements Opcode.
func (op *WarpRectilinear) IsNOP() bool { return lens.IsNOP(&op.Params) }

// IsValidForNegative implements Opcode.
func (op *WarpRectilinear) IsValidForNegative(neg Negative) bool {
	return lens.IsValidForPlanes(&op.Params, neg.ColorChannels())
}

// Apply implements Opcode. The result is a new image.
func (op *WarpRectilinear) Apply(ctx context.Context, env *Env, im *image.Image) (*image.Image, error) {
	return warp(ctx, env, im, &op.Params)
}

func (op *WarpRectilinear) putData(w *writer) {
	p := &op.Params
	w.uint32(uint32(p.Planes))
	for plane := range p.Planes {
		for _, v := range p.Radial[plane] {
			w.float64(v)
		}
		for _, v := range p.Tangential[plane] {
			w.float64(v)
		}
	}
	w.float64(p.Center.H)
	w.float64(p.Center.V)
}

// WarpFisheye maps a fisheye image to a rectilinear one.
type WarpFisheye struct {
	Header
	Params lens.Fisheye
}

// NewWarpFisheye returns a WarpFisheye opcode.
func NewWarpFisheye(params lens.Fisheye, flags Flags) (*WarpFisheye, error) {
	if !params.IsValid() {
		return nil, fmt.Errorf("opcode: fisheye warp parameters: %w", rawtile.ErrBadFormat)
	}
	return &WarpFisheye{Header: newHeader(flags), Params: params}, nil
}

func decodeWarpFisheye(h Header, r *reader) (Opcode, error) {
	planes, err := decodePlanes(r, 32)
	if err != nil {
		return nil, err
	}
	op := &WarpFisheye{Header: h}
	p := &op.Params
	p.Planes = planes
	for plane := range planes {
		for i := range p.Radial[plane] {
			p.Radial[plane][i] = r.float64()
		}
	}
	p.Center.H = r.float64()
	p.Center.V = r.float64()
	if r.err == nil && !p.IsValid() {
		return nil, fmt.Errorf("center %v: %w", p.Center, rawtile.ErrBadFormat)
	}
	return op, nil
}

// ID implements Opcode.
func (*WarpFisheye) ID() ID { return WarpFisheyeID }

// IsNOP implements Opcode.
func (op *WarpFisheye) IsNOP() bool { return lens.IsNOP(&op.Params) }

// IsValidForNegative implements Opcode.
func (op *WarpFisheye) IsValidForNegative(neg Negative) bool {
	return lens.IsValidForPlanes(&op.Params, neg.ColorChannels())
}

// Apply implements Opcode. The result is a new image.
func (op *WarpFisheye) Apply(ctx context.Context, env *Env, im *image.Image) (*image.Image, error) {
	return warp(ctx, env, im, &op.Params)
}

func (op *WarpFisheye) putData(w *writer) {
	p := &op.Params
	w.uint32(uint32(p.Planes))
	for plane := range p.Planes {
		for _, v := range p.Radial[plane] {
			w.float64(v)
		}
	}
	w.float64(p.Center.H)
	w.float64(p.Center.V)
}

func warp(ctx context.Context, env *Env, im *image.Image, params lens.WarpParams) (*image.Image, error) {
	dst, err := image.Alloc(im.Bounds(), im.Planes(), im.PixelType())
	if err != nil {
		return nil, err
	}
	if err := lens.Warp(ctx, env.Host, im, dst, params, env.Negative.PixelAspectRatio()); err != nil {
		return nil, err
	}
	return dst, nil
}

// FixVignetteRadial brightens the image by a radial gain.
type FixVignetteRadial struct {
	Header
	Params lens.VignetteParams
}

// NewFixVignetteRadial returns a FixVignetteRadial opcode.
func NewFixVignetteRadial(params lens.VignetteParams, flags Flags) (*FixVignetteRadial, error) {
	if !params.IsValid() {
		return nil, fmt.Errorf("opcode: vignette parameters: %w", rawtile.ErrBadFormat)
	}
	return &FixVignetteRadial{Header: newHeader(flags), Params: params}, nil
}

func decodeFixVignetteRadial(h Header, r *reader) (Opcode, error) {
	if want := 8*lens.VignetteTerms + 16; r.remaining() != want {
		return nil, fmt.Errorf("%d bytes, want %d: %w", r.remaining(), want, rawtile.ErrBadFormat)
	}
	op := &FixVignetteRadial{Header: h}
	for i := range op.Params.Terms {
		op.Params.Terms[i] = r.float64()
	}
	op.Params.Center.H = r.float64()
	op.Params.Center.V = r.float64()
	if !op.Params.IsValid() {
		return nil, fmt.Errorf("center %v: %w", op.Params.Center, rawtile.ErrBadFormat)
	}
	return op, nil
}

// ID implements Opcode.
func (*FixVignetteRadial) ID() ID { return FixVignetteRadialID }

// IsNOP implements Opcode.
func (op *FixVignetteRadial) IsNOP() bool { return op.Params.IsNOP() }

// IsValidForNegative implements Opcode.
func (op *FixVignetteRadial) IsValidForNegative(Negative) bool { return op.Params.IsValid() }

// Apply implements Opcode. The image is corrected in place.
func (op *FixVignetteRadial) Apply(ctx context.Context, env *Env, im *image.Image) (*image.Image, error) {
	if err := lens.Vignette(ctx, env.Host, im, im, op.Params, env.Negative.PixelAspectRatio()); err != nil {
		return nil, err
	}
	return im, nil
}

func (op *FixVignetteRadial) putData(w *writer) {
	for _, v := range op.Params.Terms {
		w.float64(v)
	}
	w.float64(op.Params.Center.H)
	w.float64(op.Params.Center.V)
}
