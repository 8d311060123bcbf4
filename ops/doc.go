// Package ops defines PixelOps, the table of primitive per-row and per-area
// transforms that every pixel loop in rawtile goes through, and provides a
// portable Reference implementation plus an Optimized implementation with
// contiguous-memory fast paths.
//
// All functions take typed slices and element offsets rather than pointers.
// Steps are expressed in elements. Callers normalize area walks with
// pixel.OptimizeOrder first, so area functions may assume non-negative steps
// with the smallest step innermost.
//
// Implementations are selected once per process by Select, based on CPU
// features reported by golang.org/x/sys/cpu. A nil PixelOps anywhere in
// rawtile means Reference.
package ops
