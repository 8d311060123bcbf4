// Package image provides images made of tiles, with pixel buffer Get and Put
// that handle requests reaching past the image bounds.
//
// An Image delegates pixel storage to a Storage implementation, which hands
// out pixel buffers for areas inside one of its native tiles through an
// acquire/release protocol. Memory is the in-process Storage used by every
// task in rawtile; other backends can implement Storage to stream tiles from
// disk or another process.
//
// Concurrency: Get may be called from many goroutines at once. Put must not
// be called concurrently for overlapping areas.
package image

import (
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/pixel"
)

// Storage is the tile acquire/release contract backing an Image.
type Storage interface {
	// Bounds returns the image bounds.
	Bounds() geom.Rect

	// Planes returns the number of planes.
	Planes() int

	// PixelType returns the stored sample type.
	PixelType() pixel.Type

	// RepeatingTile returns the rect of one native tile. Its position and
	// size define the storage tile grid.
	RepeatingTile() geom.Rect

	// AcquireTileBuffer returns a buffer covering area, which lies inside a
	// single native tile, for all planes. dirty announces that the caller
	// will write to it.
	AcquireTileBuffer(area geom.Rect, dirty bool) (*pixel.Buffer, error)

	// ReleaseTileBuffer returns a buffer obtained from AcquireTileBuffer.
	ReleaseTileBuffer(buf *pixel.Buffer) error
}

// Trimmer is implemented by storages that can shrink their bounds in place.
type Trimmer interface {
	Trim(r geom.Rect) error
}

// Edge selects how Get fills parts of a request outside the image bounds.
type Edge uint8

const (
	// EdgeNone leaves pixels outside the bounds untouched.
	EdgeNone Edge = iota

	// EdgeZero fills them with the type's zero.
	EdgeZero

	// EdgeRepeat tiles the border pixels outward with a given period.
	EdgeRepeat

	// EdgeRepeatZeroLast repeats every plane but the last, which is zeroed.
	EdgeRepeatZeroLast
)

// String returns the edge option name.
func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeZero:
		return "zero"
	case EdgeRepeat:
		return "repeat"
	case EdgeRepeatZeroLast:
		return "repeat-zero-last"
	default:
		return "unknown"
	}
}
