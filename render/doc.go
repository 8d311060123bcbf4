// Package render turns a linear, demosaiced raw negative into an output
// referred image.
//
// The render task chains, per row of each tile:
//
//   - camera channels to linear ProPhoto RGB, white balanced and clipped
//     at the camera white;
//   - the profile hue/sat map;
//   - an exposure ramp with a smooth shadow knee;
//   - the profile look table;
//   - the tone curve, with negative exposure folded in as a darkening of
//     the curve;
//   - the matrix to the final color space and its gamma encoding.
//
// Every curve is tabulated once when the task starts. Render sizes the
// output from the negative's default crop and final size, resamples with a
// bicubic kernel when the two differ and runs the render task into an 8 or
// 16-bit image.
package render
