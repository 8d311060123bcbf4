// Package resample scales images with separable kernel filters.
//
// A Kernel is sampled into Weights once per scale factor: 128 sub-pixel
// phases per axis, each stored as float weights summing to one and as
// 14-bit fixed point weights summing to exactly 16384. Coords maps every
// destination row or column to a fixed point source position whose low
// seven bits select the phase.
//
// Task is a filter that convolves each destination tile vertically into a
// per-thread row buffer and then horizontally into the destination row.
// It runs in 16-bit fixed point when both images are u16 and in float
// otherwise. Weights2D holds the 32x32 phase table used by warps.
package resample
