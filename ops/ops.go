package ops

// Walk describes a three-dimensional traversal of a single buffer, outermost
// dimension first.
type Walk struct {
	Rows, Cols, Planes          int
	RowStep, ColStep, PlaneStep int
}

// CopyWalk describes a lock-step traversal of a source and a destination
// buffer sharing the same counts.
type CopyWalk struct {
	Rows, Cols, Planes                   int
	SrcRowStep, SrcColStep, SrcPlaneStep int
	DstRowStep, DstColStep, DstPlaneStep int
}

// Repeat describes the period and starting phase of a repeat fill.
type Repeat struct {
	V, H           int
	PhaseV, PhaseH int
}

// Bilinear holds the per-phase kernels of one destination plane of a
// demosaic pattern row.
type Bilinear struct {
	Counts    []int
	Offsets   [][]int
	Weights16 [][]uint16
	Weights32 [][]float32
}

// HueSatDelta is one entry of a hue/saturation/value adjustment table.
type HueSatDelta struct {
	HueShift float32 // degrees
	SatScale float32
	ValScale float32
}

// HueSatTable is a hue/saturation/value lookup table laid out value-major,
// then hue, then saturation.
type HueSatTable struct {
	HueDivisions int
	SatDivisions int
	ValDivisions int
	Deltas       []HueSatDelta
}

// PixelOps is the swappable set of pixel bottlenecks.
type PixelOps interface {
	SetArea8(d []uint8, off int, value uint8, w Walk)
	SetArea16(d []uint16, off int, value uint16, w Walk)
	SetArea32(d []uint32, off int, value uint32, w Walk)

	CopyArea8(s []uint8, sOff int, d []uint8, dOff int, w CopyWalk)
	CopyArea16(s []uint16, sOff int, d []uint16, dOff int, w CopyWalk)
	CopyArea32(s []uint32, sOff int, d []uint32, dOff int, w CopyWalk)
	CopyArea8To16(s []uint8, sOff int, d []uint16, dOff int, w CopyWalk)
	CopyArea8ToS16(s []uint8, sOff int, d []int16, dOff int, w CopyWalk)
	CopyArea8To32(s []uint8, sOff int, d []uint32, dOff int, w CopyWalk)
	CopyArea16ToS16(s []uint16, sOff int, d []int16, dOff int, w CopyWalk)
	CopyAreaS16To16(s []int16, sOff int, d []uint16, dOff int, w CopyWalk)
	CopyArea16To32(s []uint16, sOff int, d []uint32, dOff int, w CopyWalk)
	CopyArea8ToR32(s []uint8, sOff int, d []float32, dOff int, w CopyWalk, pixelRange uint32)
	CopyArea16ToR32(s []uint16, sOff int, d []float32, dOff int, w CopyWalk, pixelRange uint32)
	CopyAreaS16ToR32(s []int16, sOff int, d []float32, dOff int, w CopyWalk, pixelRange uint32)
	CopyArea32ToR32(s []uint32, sOff int, d []float32, dOff int, w CopyWalk, pixelRange uint32)
	CopyAreaR32To8(s []float32, sOff int, d []uint8, dOff int, w CopyWalk, pixelRange uint32)
	CopyAreaR32To16(s []float32, sOff int, d []uint16, dOff int, w CopyWalk, pixelRange uint32)
	CopyAreaR32ToS16(s []float32, sOff int, d []int16, dOff int, w CopyWalk, pixelRange uint32)

	RepeatArea8(d []uint8, sOff, dOff int, w Walk, r Repeat)
	RepeatArea16(d []uint16, sOff, dOff int, w Walk, r Repeat)
	RepeatArea32(d []uint32, sOff, dOff int, w Walk, r Repeat)

	ShiftRight16(d []uint16, off int, w Walk, shift uint)

	EqualArea8(s []uint8, sOff int, d []uint8, dOff int, w CopyWalk) bool
	EqualArea16(s []uint16, sOff int, d []uint16, dOff int, w CopyWalk) bool
	EqualArea32(s []uint32, sOff int, d []uint32, dOff int, w CopyWalk) bool

	MaximumDifference8(s []uint8, sOff int, d []uint8, dOff int, w CopyWalk) float64
	MaximumDifference16(s []uint16, sOff int, d []uint16, dOff int, w CopyWalk) float64
	MaximumDifferenceS16(s []int16, sOff int, d []int16, dOff int, w CopyWalk) float64
	MaximumDifference32(s []uint32, sOff int, d []uint32, dOff int, w CopyWalk) float64
	MaximumDifferenceR32(s []float32, sOff int, d []float32, dOff int, w CopyWalk) float64

	BilinearRow16(s []uint16, sOff int, d []uint16, dOff int, cols, patPhase, patCount int, k *Bilinear, sShift uint)
	BilinearRow32(s []float32, sOff int, d []float32, dOff int, cols, patPhase, patCount int, k *Bilinear, sShift uint)

	ABCtoRGB(a, b, c, r, g, bl []float32, cameraWhite [3]float64, cameraToRGB [3][3]float64)
	ABCDtoRGB(a, b, c, dd, r, g, bl []float32, cameraWhite [4]float64, cameraToRGB [3][4]float64)
	HueSatMap(sr, sg, sb, dr, dg, db []float32, table *HueSatTable)
	RGBtoGray(r, g, b, gray []float32, matrix [3]float64)
	RGBtoRGB(sr, sg, sb, dr, dg, db []float32, matrix [3][3]float64)
	Table1D(s, d []float32, table []float32)
	RGBTone(sr, sg, sb, dr, dg, db []float32, table []float32)

	ResampleDown16(s []uint16, sOff int, d []uint16, sCount, sRowStep int, weights []int16, pixelRange uint32)
	ResampleDown32(s []float32, sOff int, d []float32, sCount, sRowStep int, weights []float32)
	ResampleAcross16(s []uint16, sOff int, d []uint16, coords []int32, weights []int16, wCount, wStep int, pixelRange uint32)
	ResampleAcross32(s []float32, sOff int, d []float32, coords []int32, weights []float32, wCount, wStep int)

	VignetteMask16(m []uint16, rows, cols, rowStep int, offsetH, offsetV, stepH, stepV int64, tBits uint, table []uint16)
	Vignette16(s []int16, sOff int, m []uint16, rows, cols, planes, sRowStep, sPlaneStep, mRowStep int, mBits uint)
	MapArea16(d []uint16, off int, w Walk, table []uint16)
}

// Resample subsampling constants shared by weight tables and coordinates.
const (
	SubsampleBits  = 7
	SubsampleCount = 1 << SubsampleBits
	SubsampleMask  = SubsampleCount - 1

	Subsample2DBits  = 5
	Subsample2DCount = 1 << Subsample2DBits
	Subsample2DMask  = Subsample2DCount - 1
)

// Or returns o, or Reference if o is nil.
func Or(o PixelOps) PixelOps {
	if o == nil {
		return Reference{}
	}
	return o
}
