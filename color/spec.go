package color

import (
	"fmt"
	"math"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
)

// Profile describes how a camera's native channels relate to XYZ under a
// single calibration illuminant.
type Profile struct {
	Name string

	// ColorMatrix maps XYZ to camera channels, channels x 3.
	ColorMatrix Matrix
	// ForwardMatrix maps white balanced camera channels to PCS XYZ,
	// 3 x channels. Optional.
	ForwardMatrix Matrix
	// ReductionMatrix reduces camera channels to 3, 3 x channels. Optional.
	ReductionMatrix Matrix

	HueSatDeltas *HueSatMap
	LookTable    *HueSatMap
	ToneCurve    []CurvePoint
}

// NormalizeColorMatrix scales m so the PCS white maps to a maximum camera
// channel of 1, then rounds it to four decimals.
func NormalizeColorMatrix(m Matrix) Matrix {
	if m.IsEmpty() {
		return m
	}
	coord := m.MulVec(PCStoXYZ())
	maxCoord := coord.MaxEntry()
	if maxCoord > 0 && (maxCoord < 0.99 || maxCoord > 1.01) {
		m = m.Scale(1 / maxCoord)
	}
	return m.Round(10000)
}

// Validate checks the matrix shapes against the channel count. Monochrome
// images ignore the profile.
func (p *Profile) Validate(channels int) error {
	if channels == 1 {
		return nil
	}
	if p == nil {
		return fmt.Errorf("%w: no color profile for %d channels", rawtile.ErrBadFormat, channels)
	}
	if p.ColorMatrix.Rows() != channels || p.ColorMatrix.Cols() != 3 {
		return fmt.Errorf("%w: color matrix is %dx%d, want %dx3",
			rawtile.ErrBadFormat, p.ColorMatrix.Rows(), p.ColorMatrix.Cols(), channels)
	}
	if !p.ForwardMatrix.IsEmpty() {
		if p.ForwardMatrix.Rows() != 3 || p.ForwardMatrix.Cols() != channels {
			return fmt.Errorf("%w: forward matrix is %dx%d", rawtile.ErrBadFormat,
				p.ForwardMatrix.Rows(), p.ForwardMatrix.Cols())
		}
		if !validForwardMatrix(p.ForwardMatrix) {
			return fmt.Errorf("%w: forward matrix does not map camera white to PCS", rawtile.ErrBadFormat)
		}
	}
	if !p.ReductionMatrix.IsEmpty() &&
		(p.ReductionMatrix.Rows() != 3 || p.ReductionMatrix.Cols() != channels) {
		return fmt.Errorf("%w: reduction matrix is %dx%d", rawtile.ErrBadFormat,
			p.ReductionMatrix.Rows(), p.ReductionMatrix.Cols())
	}
	return nil
}

func validForwardMatrix(m Matrix) bool {
	const threshold = 0.01
	xyz := m.MulVec(Ones(m.Cols()))
	pcs := PCStoXYZ()
	for j := 0; j < 3; j++ {
		if math.Abs(xyz.At(j)-pcs.At(j)) > threshold {
			return false
		}
	}
	return true
}

// SetFourColorBayer splits the green row of a 3 channel profile into two
// channels for four color Bayer demosaicing. Forward and reduction matrices
// no longer apply and are cleared.
func (p *Profile) SetFourColorBayer() error {
	if err := p.Validate(3); err != nil {
		return err
	}
	m := NewMatrix(4, 3)
	for c := 0; c < 3; c++ {
		m.Set(0, c, p.ColorMatrix.At(0, c))
		m.Set(1, c, p.ColorMatrix.At(1, c))
		m.Set(2, c, p.ColorMatrix.At(2, c))
		m.Set(3, c, p.ColorMatrix.At(1, c))
	}
	p.ColorMatrix = m
	p.ForwardMatrix = Matrix{}
	p.ReductionMatrix = Matrix{}
	return nil
}

// HueSatMapForWhite returns the hue/sat deltas to use under white, or nil.
func (p *Profile) HueSatMapForWhite(XY) *HueSatMap {
	if p == nil || p.HueSatDeltas == nil || p.HueSatDeltas.IsNeutral() {
		return nil
	}
	return p.HueSatDeltas
}

// ToneCurveFunction returns the profile tone curve, or nil when the profile
// has none.
func (p *Profile) ToneCurveFunction() (Function, error) {
	if p == nil || len(p.ToneCurve) == 0 {
		return nil, nil
	}
	return NewSpline(p.ToneCurve)
}

// Spec converts camera channels to the PCS for a chosen white balance.
type Spec struct {
	channels int

	colorMatrix     Matrix
	forwardMatrix   Matrix
	reductionMatrix Matrix
	calibration     Matrix
	analogBalance   Matrix

	whiteXY     XY
	cameraWhite Vector
	cameraToPCS Matrix
	pcsToCamera Matrix
}

// NewSpec builds the color spec for a camera with the given channel count.
// Empty calibration and analog balance matrices mean identity. The spec
// starts white balanced for D50.
func NewSpec(channels int, p *Profile, calibration, analogBalance Matrix) (*Spec, error) {
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: %d color channels", rawtile.ErrBadFormat, channels)
	}
	s := &Spec{channels: channels}
	if channels > 1 {
		if err := p.Validate(channels); err != nil {
			return nil, err
		}
		if calibration.IsEmpty() {
			calibration = IdentityMatrix(channels)
		}
		if analogBalance.IsEmpty() {
			analogBalance = IdentityMatrix(channels)
		}
		if calibration.Rows() != channels || calibration.Cols() != channels ||
			analogBalance.Rows() != channels || analogBalance.Cols() != channels {
			return nil, fmt.Errorf("%w: calibration must be %dx%d", rawtile.ErrBadFormat, channels, channels)
		}
		s.calibration = calibration
		s.analogBalance = analogBalance
		s.colorMatrix = analogBalance.Mul(calibration).Mul(p.ColorMatrix)
		s.forwardMatrix = p.ForwardMatrix
		s.reductionMatrix = p.ReductionMatrix
	}
	if err := s.SetWhiteXY(D50); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Spec) Channels() int { return s.channels }

func (s *Spec) WhiteXY() XY { return s.whiteXY }

// CameraWhite is the camera's response to the current white, normalized so
// its largest channel is 1 and pinned to [0.001, 1].
func (s *Spec) CameraWhite() Vector { return s.cameraWhite }

// CameraToPCS maps white balanced camera channels to PCS XYZ, 3 x channels.
func (s *Spec) CameraToPCS() Matrix { return s.cameraToPCS }

func (s *Spec) PCStoCamera() Matrix { return s.pcsToCamera }

// SetWhiteXY white balances the spec for white.
func (s *Spec) SetWhiteXY(white XY) error {
	s.whiteXY = white
	if s.channels == 1 {
		s.cameraWhite = Ones(1)
		s.cameraToPCS = PCStoXYZ().Column()
		return nil
	}

	cw := s.colorMatrix.MulVec(XYtoXYZ(white))
	maxWhite := cw.MaxEntry()
	if maxWhite <= 0 {
		return fmt.Errorf("%w: camera white %v is not positive", rawtile.ErrBadFormat, white)
	}
	for j := 0; j < s.channels; j++ {
		cw.Set(j, geom.Pin(0.001, cw.At(j)/maxWhite, 1))
	}
	s.cameraWhite = cw

	// PCS white reaches exactly 1 in the first saturating camera channel.
	pcsToCamera := s.colorMatrix.Mul(MapWhiteMatrix(PCStoXY(), white))
	scale := pcsToCamera.MulVec(PCStoXYZ()).MaxEntry()
	s.pcsToCamera = pcsToCamera.Scale(1 / scale)

	if !s.forwardMatrix.IsEmpty() {
		individualToReference, err := s.analogBalance.Mul(s.calibration).Invert()
		if err != nil {
			return err
		}
		refWhite := individualToReference.MulVec(cw)
		invWhite, err := refWhite.Diagonal().Invert()
		if err != nil {
			return err
		}
		s.cameraToPCS = s.forwardMatrix.Mul(invWhite).Mul(individualToReference)
		return nil
	}

	m, err := s.pcsToCamera.InvertWithHint(s.reductionMatrix)
	if err != nil {
		return err
	}
	s.cameraToPCS = m
	return nil
}

// NeutralToXY finds the white whose camera response is proportional to
// neutral, iterating until the estimate moves less than 1e-7.
func (s *Spec) NeutralToXY(neutral Vector) (XY, error) {
	const maxPasses = 30
	if s.channels == 1 {
		return PCStoXY(), nil
	}
	if neutral.Len() != s.channels {
		return XY{}, fmt.Errorf("%w: neutral has %d entries, want %d", rawtile.ErrBadFormat, neutral.Len(), s.channels)
	}
	inv, err := s.colorMatrix.Invert()
	if err != nil {
		return XY{}, err
	}
	last := D50
	for pass := range maxPasses {
		next := XYZtoXY(inv.MulVec(neutral))
		if math.Abs(next.X-last.X)+math.Abs(next.Y-last.Y) < 1e-7 {
			return next, nil
		}
		// Likely a two value oscillation; settle on the midpoint.
		if pass == maxPasses-1 {
			next = XY{(last.X + next.X) / 2, (last.Y + next.Y) / 2}
		}
		last = next
	}
	return last, nil
}
