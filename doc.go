// Package rawtile provides a tile-based raster engine for raw camera images.
//
// # Overview
//
// rawtile partitions arbitrarily large images into cache-friendly tiles and
// runs per-tile algorithms over them: demosaicing, resampling, geometric and
// radiometric lens correction, per-area opcode corrections and final
// rendering to an output color space.
//
// # Architecture
//
// The library is organized leaves first:
//   - geom: integer and real rectangles and points
//   - ops: the PixelOps bottleneck interface and its implementations
//   - pixel: typed strided pixel buffers with copy, fill and repeat primitives
//   - tile: tile iteration over an alignment grid
//   - image: images with edge handling over a tile storage contract
//   - task: the area task scheduler, filter tasks and the multi-thread host
//   - color: matrices, color spaces, 1D tables and hue/sat maps
//   - mosaic, resample, lens, opcode, render: the algorithms
//
// # Quick Start
//
//	host := task.NewHost()
//	defer host.Close()
//
//	info, err := mosaic.NewCFA(2, 2, "RGGB", raw.Size())
//	if err != nil {
//	    return err
//	}
//	rgb, err := image.Alloc(geom.RectOfSize(info.DstSize(geom.Pt(1, 1))), info.ColorPlanes, raw.PixelType())
//	if err != nil {
//	    return err
//	}
//	if err := info.Interpolate(ctx, host, raw, rgb, geom.Pt(1, 1), 0); err != nil {
//	    return err
//	}
//	out, err := render.Render(ctx, host, &render.SimpleNegative{Image: rgb, ColorProfile: profile}, nil)
//
// # Errors
//
// All packages report failures by wrapping the sentinel errors of this
// package. Use [errors.Is] with [ErrBadFormat], [ErrProgram], [ErrAborted]
// and [ErrMemoryFull].
//
// # Logging
//
// rawtile produces no log output by default. See [SetLogger].
package rawtile

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
