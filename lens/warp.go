package lens

import (
	"math"

	"github.com/gogpu/rawtile/geom"
)

// MaxPlanes is the largest number of planes a warp or vignette describes.
const MaxPlanes = 4

// WarpParams is a radial and tangential lens distortion model. Distances
// are normalized so that the image corner farthest from the optical center
// lies at radius 1.
type WarpParams interface {
	// PlaneCount returns the number of planes with their own coefficients.
	PlaneCount() int

	// OpticalCenter returns the center in normalized image coordinates.
	OpticalCenter() geom.RealPoint

	IsRadNOP(plane int) bool
	IsTanNOP(plane int) bool
	IsValid() bool

	// Evaluate maps a corrected radius to an uncorrected one.
	Evaluate(plane int, r float64) float64

	// EvaluateRatio returns Evaluate(r)/r given r squared.
	EvaluateRatio(plane int, r2 float64) float64

	// EvaluateTangential returns the tangential displacement of a point at
	// normalized offset diff, with diff2 holding the squared components.
	EvaluateTangential(plane int, r2 float64, diff, diff2 geom.RealPoint) geom.RealPoint

	// MaxSrcRadiusGap bounds Evaluate(r+gap)-Evaluate(r) over [0, 1-gap].
	MaxSrcRadiusGap(maxDstGap float64) float64

	// MaxSrcTanGap bounds the spread of tangential displacements over the
	// normalized box [minDst, maxDst].
	MaxSrcTanGap(minDst, maxDst geom.RealPoint) geom.RealPoint

	// PropagateToAllPlanes copies the plane 0 coefficients to planes
	// PlaneCount through total-1.
	PropagateToAllPlanes(total int)

	// Clone returns an independent copy.
	Clone() WarpParams
}

// IsRadNOPAll reports whether no plane has a radial component.
func IsRadNOPAll(p WarpParams) bool {
	for plane := range p.PlaneCount() {
		if !p.IsRadNOP(plane) {
			return false
		}
	}
	return true
}

// IsTanNOPAll reports whether no plane has a tangential component.
func IsTanNOPAll(p WarpParams) bool {
	for plane := range p.PlaneCount() {
		if !p.IsTanNOP(plane) {
			return false
		}
	}
	return true
}

// IsNOP reports whether p leaves every plane unchanged.
func IsNOP(p WarpParams) bool {
	return IsRadNOPAll(p) && IsTanNOPAll(p)
}

// IsValidForPlanes reports whether p is valid for an image with
// colorPlanes color planes: one set of coefficients, or one per plane.
func IsValidForPlanes(p WarpParams, colorPlanes int) bool {
	return p.IsValid() && (p.PlaneCount() == 1 || p.PlaneCount() == colorPlanes)
}

// EvaluateInverse finds the corrected radius in [0, 1] whose uncorrected
// radius is y, using the secant method.
func EvaluateInverse(p WarpParams, plane int, y float64) float64 {
	const (
		maxIterations = 30
		nearZero      = 1e-10
	)
	x0, x1 := 0.0, 1.0
	y0, y1 := p.Evaluate(plane, x0), p.Evaluate(plane, x1)
	for range maxIterations {
		if math.Abs(y1-y0) < nearZero {
			break
		}
		x2 := geom.Pin(0, x1+(y-y1)*(x1-x0)/(y1-y0), 1)
		y2 := p.Evaluate(plane, x2)
		x0, y0 = x1, y1
		x1, y1 = x2, y2
	}
	return x1
}

func validCenter(c geom.RealPoint) bool {
	return c.H >= 0 && c.H <= 1 && c.V >= 0 && c.V <= 1
}

func validPlanes(n int) bool {
	return n >= 1 && n <= MaxPlanes
}

// Rectilinear is the polynomial model for rectilinear lenses: radial terms
// k0 + k1 r^2 + k2 r^4 + k3 r^6 and two tangential terms.
type Rectilinear struct {
	Planes     int
	Radial     [MaxPlanes][4]float64
	Tangential [MaxPlanes][2]float64
	Center     geom.RealPoint
}

// NewRectilinear returns identity parameters for planes planes centered in
// the image.
func NewRectilinear(planes int) *Rectilinear {
	p := &Rectilinear{Planes: planes, Center: geom.RealPoint{V: 0.5, H: 0.5}}
	for plane := range p.Radial {
		p.Radial[plane][0] = 1
	}
	return p
}

// PlaneCount implements WarpParams.
func (p *Rectilinear) PlaneCount() int { return p.Planes }

// OpticalCenter implements WarpParams.
func (p *Rectilinear) OpticalCenter() geom.RealPoint { return p.Center }

// IsRadNOP implements WarpParams.
func (p *Rectilinear) IsRadNOP(plane int) bool {
	return p.Radial[plane] == [4]float64{1, 0, 0, 0}
}

// IsTanNOP implements WarpParams.
func (p *Rectilinear) IsTanNOP(plane int) bool {
	return p.Tangential[plane] == [2]float64{}
}

// IsValid implements WarpParams.
func (p *Rectilinear) IsValid() bool {
	return validPlanes(p.Planes) && validCenter(p.Center)
}

// Evaluate implements WarpParams.
func (p *Rectilinear) Evaluate(plane int, x float64) float64 {
	k := &p.Radial[plane]
	x2 := x * x
	return x * (k[0] + x2*(k[1]+x2*(k[2]+x2*k[3])))
}

// EvaluateRatio implements WarpParams.
func (p *Rectilinear) EvaluateRatio(plane int, r2 float64) float64 {
	k := &p.Radial[plane]
	return k[0] + r2*(k[1]+r2*(k[2]+r2*k[3]))
}

// EvaluateTangential implements WarpParams.
func (p *Rectilinear) EvaluateTangential(plane int, r2 float64, diff, diff2 geom.RealPoint) geom.RealPoint {
	kt0 := p.Tangential[plane][0]
	kt1 := p.Tangential[plane][1]
	return geom.RealPoint{
		V: kt0*(r2+2*diff2.V) + 2*kt1*diff.H*diff.V,
		H: kt1*(r2+2*diff2.H) + 2*kt0*diff.H*diff.V,
	}
}

// MaxSrcRadiusGap implements WarpParams. The gap function's derivative is
// a quintic with one negative root; the remaining four are solved for in
// closed form and checked together with the interval ends.
func (p *Rectilinear) MaxSrcRadiusGap(maxDstGap float64) float64 {
	var maxSrcGap float64
	for plane := range p.Planes {
		k3 := p.Radial[plane][1]
		k5 := p.Radial[plane][2]
		k7 := p.Radial[plane][3]

		var roots []float64
		if k7 == 0 {
			// The derivative reduces to 2r^2 + 2rd + d^2 = -3 k3 / (5 k5).
			if k5 != 0 {
				discrim := -maxDstGap*maxDstGap - 1.2*k3/k5
				if discrim >= 0 {
					s := 0.5 * math.Sqrt(discrim)
					roots = append(roots, -maxDstGap*0.5+s, -maxDstGap*0.5-s)
				}
			}
		} else {
			d := maxDstGap
			d2 := d * d
			d4 := d2 * d2
			discrim := 25*k5*k5 - 63*k3*k7 + 35*d2*k5*k7 + 49*d4*k7*k7
			if discrim >= 0 {
				s := 4 * k7 * math.Sqrt(discrim)
				offset := -20*k5*k7 - 35*d2*k7*k7
				scale := math.Sqrt(21) / (42 * k7)
				for _, dd := range [2]float64{offset - s, offset + s} {
					if dd >= 0 {
						sd := scale * math.Sqrt(dd)
						roots = append(roots, -d*0.5+sd, -d*0.5-sd)
					}
				}
			}
		}

		gap := max(
			p.Evaluate(plane, maxDstGap),
			p.Evaluate(plane, 1)-p.Evaluate(plane, 1-maxDstGap),
		)
		for _, r := range roots {
			if r > 0 && r < 1-maxDstGap {
				gap = max(gap, p.Evaluate(plane, r+maxDstGap)-p.Evaluate(plane, r))
			}
		}
		maxSrcGap = max(maxSrcGap, gap)
	}
	return maxSrcGap
}

// MaxSrcTanGap implements WarpParams by sampling the corners, axis
// crossings and center of the box.
func (p *Rectilinear) MaxSrcTanGap(minDst, maxDst geom.RealPoint) geom.RealPoint {
	vs := [3]float64{minDst.V, maxDst.V, 0}
	hs := [3]float64{minDst.H, maxDst.H, 0}
	var gap geom.RealPoint
	for plane := range p.Planes {
		hMin, hMax := math.MaxFloat64, -math.MaxFloat64
		vMin, vMax := math.MaxFloat64, -math.MaxFloat64
		for _, v := range vs {
			for _, h := range hs {
				diff := geom.RealPoint{V: v, H: h}
				diff2 := geom.RealPoint{V: v * v, H: h * h}
				src := p.EvaluateTangential(plane, diff2.V+diff2.H, diff, diff2)
				hMin, hMax = min(hMin, src.H), max(hMax, src.H)
				vMin, vMax = min(vMin, src.V), max(vMax, src.V)
			}
		}
		gap.H = max(gap.H, hMax-hMin)
		gap.V = max(gap.V, vMax-vMin)
	}
	return gap
}

// Clone implements WarpParams.
func (p *Rectilinear) Clone() WarpParams {
	c := *p
	return &c
}

// PropagateToAllPlanes implements WarpParams.
func (p *Rectilinear) PropagateToAllPlanes(total int) {
	for plane := p.Planes; plane < min(total, MaxPlanes); plane++ {
		p.Radial[plane] = p.Radial[0]
		p.Tangential[plane] = p.Tangential[0]
	}
}

// Fisheye is the model for fisheye lenses: the uncorrected radius is a
// polynomial in t = atan(r) with terms k0 t + k1 t^3 + k2 t^5 + k3 t^7.
// It has no tangential component.
type Fisheye struct {
	Planes int
	Radial [MaxPlanes][4]float64
	Center geom.RealPoint
}

// PlaneCount implements WarpParams.
func (p *Fisheye) PlaneCount() int { return p.Planes }

// OpticalCenter implements WarpParams.
func (p *Fisheye) OpticalCenter() geom.RealPoint { return p.Center }

// IsRadNOP implements WarpParams. A fisheye warp always moves pixels.
func (p *Fisheye) IsRadNOP(int) bool { return false }

// IsTanNOP implements WarpParams.
func (p *Fisheye) IsTanNOP(int) bool { return true }

// IsValid implements WarpParams.
func (p *Fisheye) IsValid() bool {
	return validPlanes(p.Planes) && validCenter(p.Center)
}

// Evaluate implements WarpParams.
func (p *Fisheye) Evaluate(plane int, r float64) float64 {
	t := math.Atan(r)
	k := &p.Radial[plane]
	t2 := t * t
	return t * (k[0] + t2*(k[1]+t2*(k[2]+t2*k[3])))
}

// EvaluateRatio implements WarpParams.
func (p *Fisheye) EvaluateRatio(plane int, r2 float64) float64 {
	if r2 < 1e-12 {
		return 1
	}
	r := math.Sqrt(r2)
	return p.Evaluate(plane, r) / r
}

// EvaluateTangential implements WarpParams. The model has no tangential
// terms.
func (p *Fisheye) EvaluateTangential(int, float64, geom.RealPoint, geom.RealPoint) geom.RealPoint {
	return geom.RealPoint{}
}

// MaxSrcRadiusGap implements WarpParams by sampling 128 radii.
func (p *Fisheye) MaxSrcRadiusGap(maxDstGap float64) float64 {
	const steps = 128
	if maxDstGap <= 0 {
		return 0
	}
	norm := (1 - maxDstGap) / (steps - 1)
	var maxSrcGap float64
	for plane := range p.Planes {
		for i := range steps {
			r := float64(i) * norm
			maxSrcGap = max(maxSrcGap, p.Evaluate(plane, r+maxDstGap)-p.Evaluate(plane, r))
		}
	}
	return maxSrcGap
}

// MaxSrcTanGap implements WarpParams.
func (p *Fisheye) MaxSrcTanGap(geom.RealPoint, geom.RealPoint) geom.RealPoint {
	return geom.RealPoint{}
}

// Clone implements WarpParams.
func (p *Fisheye) Clone() WarpParams {
	c := *p
	return &c
}

// PropagateToAllPlanes implements WarpParams.
func (p *Fisheye) PropagateToAllPlanes(total int) {
	for plane := p.Planes; plane < min(total, MaxPlanes); plane++ {
		p.Radial[plane] = p.Radial[0]
	}
}
