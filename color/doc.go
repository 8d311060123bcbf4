// Package color holds the colorimetry used by rendering: small matrices,
// chromaticity and white adaptation, output color spaces, 1D tone and gamma
// functions with their lookup tables, hue/saturation maps and the camera
// color spec that turns camera channels into the D50 profile connection
// space.
package color
