package color

import (
	"fmt"
	"strings"

	"github.com/gogpu/rawtile"
)

// Space is an output color space defined relative to the D50 profile
// connection space (PCS).
type Space struct {
	name    string
	toPCS   Matrix
	fromPCS Matrix
	gamma   Function
	mono    bool
}

// Built-in output spaces.
var (
	SRGB = newRGBSpace("srgb", Matrix3(
		0.4361, 0.3851, 0.1431,
		0.2225, 0.7169, 0.0606,
		0.0139, 0.0971, 0.7141,
	), SRGBEncode())

	AdobeRGB = newRGBSpace("adobergb", Matrix3(
		0.6097, 0.2053, 0.1492,
		0.3111, 0.6257, 0.0632,
		0.0195, 0.0609, 0.7446,
	), Gamma22Encode())

	ProPhoto = newRGBSpace("prophoto", Matrix3(
		0.7977, 0.1352, 0.0313,
		0.2880, 0.7119, 0.0001,
		0.0000, 0.0000, 0.8249,
	), Gamma18Encode())

	Gray18 = newGraySpace("gray18", Gamma18Encode())
	Gray22 = newGraySpace("gray22", Gamma22Encode())
)

var spaces = []*Space{SRGB, AdobeRGB, ProPhoto, Gray18, Gray22}

// newRGBSpace scales the rows of m so RGB white lands exactly on the PCS
// white.
func newRGBSpace(name string, m Matrix, gamma Function) *Space {
	w := m.MulVec(Ones(3))
	pcs := PCStoXYZ()
	s := NewMatrix(3, 3)
	for j := 0; j < 3; j++ {
		s.Set(j, j, pcs.At(j)/w.At(j))
	}
	toPCS := s.Mul(m)
	fromPCS, err := toPCS.Invert()
	if err != nil {
		panic(fmt.Sprintf("color: space %s: %v", name, err))
	}
	return &Space{name: name, toPCS: toPCS, fromPCS: fromPCS, gamma: gamma}
}

func newGraySpace(name string, gamma Function) *Space {
	return &Space{
		name:    name,
		toPCS:   PCStoXYZ().Column(),
		fromPCS: MatrixOf([]float64{0, 1, 0}),
		gamma:   gamma,
		mono:    true,
	}
}

func (s *Space) Name() string { return s.name }

// MatrixToPCS maps linear space values to PCS XYZ. It is 3x3 for RGB spaces
// and 3x1 for gray ones.
func (s *Space) MatrixToPCS() Matrix { return s.toPCS }

// MatrixFromPCS maps PCS XYZ to linear space values.
func (s *Space) MatrixFromPCS() Matrix { return s.fromPCS }

// Gamma returns the encoding curve from linear to space values.
func (s *Space) Gamma() Function { return s.gamma }

func (s *Space) IsMonochrome() bool { return s.mono }

// Planes returns 1 for gray spaces and 3 otherwise.
func (s *Space) Planes() int {
	if s.mono {
		return 1
	}
	return 3
}

func (s *Space) String() string { return s.name }

// SpaceByName looks up a built-in space, ignoring case.
func SpaceByName(name string) (*Space, error) {
	for _, s := range spaces {
		if strings.EqualFold(s.name, name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown color space %q", rawtile.ErrBadFormat, name)
}

// SpaceNames lists the built-in spaces.
func SpaceNames() []string {
	names := make([]string, len(spaces))
	for j, s := range spaces {
		names[j] = s.name
	}
	return names
}
