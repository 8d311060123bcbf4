package image

import (
	"fmt"
	stdimage "image"
	"image/color"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/pixel"
)

// ReadTIFF decodes a TIFF into a Memory backed image. Gray images become
// one plane, everything else three planes with alpha dropped. 16-bit
// sources stay U16; others become U8.
func ReadTIFF(r io.Reader, opts ...MemoryOption) (*Image, error) {
	src, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode tiff: %w: %w", rawtile.ErrBadFormat, err)
	}
	return FromStdImage(src, opts...)
}

// FromStdImage copies a standard library image into a new Memory backed
// image.
func FromStdImage(src stdimage.Image, opts ...MemoryOption) (*Image, error) {
	sb := src.Bounds()
	bounds := geom.R(0, 0, int32(sb.Dy()), int32(sb.Dx()))
	planes, typ := 3, pixel.U8
	switch src.(type) {
	case *stdimage.Gray:
		planes = 1
	case *stdimage.Gray16:
		planes, typ = 1, pixel.U16
	case *stdimage.RGBA64, *stdimage.NRGBA64:
		typ = pixel.U16
	}

	im, err := Alloc(bounds, planes, typ, opts...)
	if err != nil {
		return nil, err
	}
	buf, err := pixel.Alloc(bounds, 0, planes, typ, pixel.Interleaved)
	if err != nil {
		return nil, err
	}
	scale := float64(typ.Range()) / 0xffff
	for y := range bounds.H() {
		for x := range bounds.W() {
			c := src.At(sb.Min.X+int(x), sb.Min.Y+int(y))
			if planes == 1 {
				g := color.Gray16Model.Convert(c).(color.Gray16)
				buf.Set(y, x, 0, float64(g.Y)*scale+0.5)
				continue
			}
			n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
			buf.Set(y, x, 0, float64(n.R)*scale+0.5)
			buf.Set(y, x, 1, float64(n.G)*scale+0.5)
			buf.Set(y, x, 2, float64(n.B)*scale+0.5)
		}
	}
	if err := im.Put(buf); err != nil {
		return nil, err
	}
	return im, nil
}

// ToStdImage converts the first one or three planes of im to a standard
// library image. U8 images map to Gray or NRGBA, everything else to Gray16
// or NRGBA64.
func ToStdImage(im *Image) (stdimage.Image, error) {
	planes := 1
	if im.Planes() >= 3 {
		planes = 3
	}
	bounds := im.Bounds()
	deep := im.PixelType() != pixel.U8
	typ := pixel.U8
	if deep {
		typ = pixel.U16
	}
	buf, err := pixel.Alloc(bounds, 0, planes, typ, pixel.Interleaved)
	if err != nil {
		return nil, err
	}
	if im.PixelType() == typ {
		err = im.Get(buf, EdgeNone, 0, 0)
	} else {
		staged, aerr := pixel.Alloc(bounds, 0, planes, im.PixelType(), pixel.Planar)
		if aerr != nil {
			return nil, aerr
		}
		if err = im.Get(staged, EdgeNone, 0, 0); err == nil {
			err = buf.CopyArea(staged, bounds, 0, 0, planes)
		}
	}
	if err != nil {
		return nil, err
	}

	r := stdimage.Rect(0, 0, int(bounds.W()), int(bounds.H()))
	switch {
	case planes == 1 && !deep:
		out := stdimage.NewGray(r)
		s, _ := buf.U8()
		copy(out.Pix, s)
		return out, nil
	case planes == 1:
		out := stdimage.NewGray16(r)
		s, _ := buf.U16()
		for i, v := range s[:len(out.Pix)/2] {
			out.Pix[2*i] = uint8(v >> 8)
			out.Pix[2*i+1] = uint8(v)
		}
		return out, nil
	case !deep:
		out := stdimage.NewNRGBA(r)
		s, _ := buf.U8()
		for i := range len(out.Pix) / 4 {
			copy(out.Pix[4*i:4*i+3], s[3*i:3*i+3])
			out.Pix[4*i+3] = 0xff
		}
		return out, nil
	default:
		out := stdimage.NewNRGBA64(r)
		s, _ := buf.U16()
		for i := range len(out.Pix) / 8 {
			for p := range 3 {
				v := s[3*i+p]
				out.Pix[8*i+2*p] = uint8(v >> 8)
				out.Pix[8*i+2*p+1] = uint8(v)
			}
			out.Pix[8*i+6] = 0xff
			out.Pix[8*i+7] = 0xff
		}
		return out, nil
	}
}

// WriteTIFF encodes im as a Deflate compressed TIFF.
func WriteTIFF(w io.Writer, im *Image) error {
	out, err := ToStdImage(im)
	if err != nil {
		return err
	}
	if err := tiff.Encode(w, out, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return fmt.Errorf("image: encode tiff: %w", err)
	}
	return nil
}

// Preview returns im scaled so that its longer side is at most maxSide
// pixels, using Catmull-Rom filtering. Images already small enough are
// converted without scaling.
func Preview(im *Image, maxSide int) (stdimage.Image, error) {
	src, err := ToStdImage(im)
	if err != nil {
		return nil, err
	}
	sb := src.Bounds()
	long := max(sb.Dx(), sb.Dy())
	if maxSide <= 0 || long <= maxSide {
		return src, nil
	}
	w := max(1, sb.Dx()*maxSide/long)
	h := max(1, sb.Dy()*maxSide/long)
	dst := stdimage.NewNRGBA64(stdimage.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst, nil
}
