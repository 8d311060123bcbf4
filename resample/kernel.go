package resample

import "math"

// Kernel is a symmetric resampling filter.
type Kernel interface {
	// Name identifies the kernel in caches and logs.
	Name() string

	// Extent is the support radius in source pixels at unit scale.
	Extent() float64

	// Evaluate returns the filter response at distance x.
	Evaluate(x float64) float64
}

// Bicubic is the cubic convolution kernel with A = -0.75.
type Bicubic struct{}

// Name implements Kernel.
func (Bicubic) Name() string { return "bicubic" }

// Extent implements Kernel.
func (Bicubic) Extent() float64 { return 2 }

// Evaluate implements Kernel.
func (Bicubic) Evaluate(x float64) float64 {
	const a = -0.75
	x = math.Abs(x)
	switch {
	case x >= 2:
		return 0
	case x >= 1:
		return ((a*x-5*a)*x+8*a)*x - 4*a
	default:
		return ((a+2)*x-(a+3))*x*x + 1
	}
}

// KernelByName returns the kernel with the given name.
func KernelByName(name string) (Kernel, bool) {
	switch name {
	case "", Bicubic{}.Name():
		return Bicubic{}, true
	}
	return nil, false
}
