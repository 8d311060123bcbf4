// Package mosaic describes color filter arrays and reconstructs full color
// images from them.
//
// An Info holds the CFA pattern, the colors of the output planes and the
// sensor layout. Nine layouts are supported: rectangular (1), four single
// axis staggered variants (2 through 5) and four dual axis staggered
// variants (6 through 9). Staggered layouts are interpolated on a grid
// doubled along the staggered axis; FullScale reports that factor.
//
// Interpolate picks one of two tasks. At full scale a bilinear interpolator
// computes, per output plane and pattern phase, a kernel of at most eight
// same-color neighbors. Its weights are kept in 8-bit fixed point summing to
// exactly 256, and the float weights are derived from the rounded integers
// so the 16-bit and float paths agree. For a downscale factor the fast
// interpolator averages each color over every downscale cell.
package mosaic
