// Package geom provides integer and real-valued rectangle and point algebra
// used to describe image areas, tile sizes and offsets.
//
// Rectangles are half-open: a Rect covers rows [T, B) and columns [L, R).
// A rectangle is empty iff T >= B or L >= R. Intersections and unions whose
// result is empty normalize to the zero rectangle.
package geom
