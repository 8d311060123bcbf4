package color

import (
	"fmt"
	"math"

	"github.com/gogpu/rawtile"
)

// MaxChannels is the largest number of color channels a matrix or vector
// can describe.
const MaxChannels = 4

// ErrSingular is returned when a matrix has no inverse.
var ErrSingular = fmt.Errorf("%w: singular matrix", rawtile.ErrProgram)

// Matrix is a small dense matrix of at most MaxChannels rows and columns.
// The zero value is the empty matrix.
type Matrix struct {
	rows, cols int
	m          [MaxChannels][MaxChannels]float64
}

// NewMatrix returns a rows x cols zero matrix. Out of range dimensions
// yield the empty matrix.
func NewMatrix(rows, cols int) Matrix {
	if rows <= 0 || cols <= 0 || rows > MaxChannels || cols > MaxChannels {
		return Matrix{}
	}
	return Matrix{rows: rows, cols: cols}
}

// MatrixOf builds a matrix from its rows, which must all have the same length.
func MatrixOf(rows ...[]float64) Matrix {
	if len(rows) == 0 {
		return Matrix{}
	}
	a := NewMatrix(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != a.cols {
			panic(fmt.Sprintf("color: ragged matrix row %d", r))
		}
		copy(a.m[r][:], row)
	}
	return a
}

// Matrix3 builds a 3x3 matrix in row-major order.
func Matrix3(a00, a01, a02, a10, a11, a12, a20, a21, a22 float64) Matrix {
	return Matrix{
		rows: 3,
		cols: 3,
		m: [MaxChannels][MaxChannels]float64{
			{a00, a01, a02},
			{a10, a11, a12},
			{a20, a21, a22},
		},
	}
}

// IdentityMatrix returns the n x n identity.
func IdentityMatrix(n int) Matrix {
	a := NewMatrix(n, n)
	for j := 0; j < a.rows; j++ {
		a.m[j][j] = 1
	}
	return a
}

func (a Matrix) Rows() int { return a.rows }

func (a Matrix) Cols() int { return a.cols }

// IsEmpty reports whether a has no entries.
func (a Matrix) IsEmpty() bool { return a.rows == 0 || a.cols == 0 }

func (a Matrix) At(r, c int) float64 { return a.m[r][c] }

func (a *Matrix) Set(r, c int, v float64) { a.m[r][c] = v }

// IsIdentity reports whether a is a square identity matrix.
func (a Matrix) IsIdentity() bool {
	if a.IsEmpty() || a.rows != a.cols {
		return false
	}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			if a.m[r][c] != want {
				return false
			}
		}
	}
	return true
}

// Mul returns a * b. It panics if the inner dimensions differ.
func (a Matrix) Mul(b Matrix) Matrix {
	if a.cols != b.rows {
		panic(fmt.Sprintf("color: cannot multiply %dx%d by %dx%d", a.rows, a.cols, b.rows, b.cols))
	}
	p := NewMatrix(a.rows, b.cols)
	for r := 0; r < a.rows; r++ {
		for c := 0; c < b.cols; c++ {
			var sum float64
			for k := 0; k < a.cols; k++ {
				sum += a.m[r][k] * b.m[k][c]
			}
			p.m[r][c] = sum
		}
	}
	return p
}

// MulVec returns a * v. It panics if the dimensions differ.
func (a Matrix) MulVec(v Vector) Vector {
	if a.cols != v.n {
		panic(fmt.Sprintf("color: cannot multiply %dx%d by vector of %d", a.rows, a.cols, v.n))
	}
	out := Vector{n: a.rows}
	for r := 0; r < a.rows; r++ {
		var sum float64
		for k := 0; k < a.cols; k++ {
			sum += a.m[r][k] * v.v[k]
		}
		out.v[r] = sum
	}
	return out
}

// Scale returns a with every entry multiplied by s.
func (a Matrix) Scale(s float64) Matrix {
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			a.m[r][c] *= s
		}
	}
	return a
}

// Round rounds every entry to the nearest multiple of 1/factor.
func (a Matrix) Round(factor float64) Matrix {
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			a.m[r][c] = math.Round(a.m[r][c]*factor) / factor
		}
	}
	return a
}

func (a Matrix) Transpose() Matrix {
	t := NewMatrix(a.cols, a.rows)
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			t.m[c][r] = a.m[r][c]
		}
	}
	return t
}

// MaxEntry returns the largest entry, or 0 for the empty matrix.
func (a Matrix) MaxEntry() float64 {
	if a.IsEmpty() {
		return 0
	}
	m := a.m[0][0]
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			m = max(m, a.m[r][c])
		}
	}
	return m
}

// Invert returns the inverse of a square matrix, or the Moore-Penrose
// pseudo-inverse of a rectangular one.
func (a Matrix) Invert() (Matrix, error) {
	if a.IsEmpty() {
		return Matrix{}, fmt.Errorf("%w: empty matrix", rawtile.ErrProgram)
	}
	switch {
	case a.rows == a.cols:
		return a.invertSquare()
	case a.rows > a.cols:
		t := a.Transpose()
		inv, err := t.Mul(a).invertSquare()
		if err != nil {
			return Matrix{}, err
		}
		return inv.Mul(t), nil
	default:
		t := a.Transpose()
		inv, err := a.Mul(t).invertSquare()
		if err != nil {
			return Matrix{}, err
		}
		return t.Mul(inv), nil
	}
}

// InvertWithHint inverts a rectangular matrix through hint, a matrix of the
// transposed shape, as (hint * a)^-1 * hint. Square matrices and hints of
// the wrong shape fall back to Invert.
func (a Matrix) InvertWithHint(hint Matrix) (Matrix, error) {
	if a.rows == a.cols || hint.rows != a.cols || hint.cols != a.rows {
		return a.Invert()
	}
	inv, err := hint.Mul(a).invertSquare()
	if err != nil {
		return Matrix{}, err
	}
	return inv.Mul(hint), nil
}

// invertSquare runs Gauss-Jordan elimination with partial pivoting.
func (a Matrix) invertSquare() (Matrix, error) {
	n := a.rows
	w := a
	inv := IdentityMatrix(n)
	for c := 0; c < n; c++ {
		pivot := c
		for r := c + 1; r < n; r++ {
			if math.Abs(w.m[r][c]) > math.Abs(w.m[pivot][c]) {
				pivot = r
			}
		}
		if math.Abs(w.m[pivot][c]) < 1e-12 {
			return Matrix{}, ErrSingular
		}
		w.m[c], w.m[pivot] = w.m[pivot], w.m[c]
		inv.m[c], inv.m[pivot] = inv.m[pivot], inv.m[c]

		scale := 1 / w.m[c][c]
		for k := 0; k < n; k++ {
			w.m[c][k] *= scale
			inv.m[c][k] *= scale
		}
		for r := 0; r < n; r++ {
			if r == c || w.m[r][c] == 0 {
				continue
			}
			f := w.m[r][c]
			for k := 0; k < n; k++ {
				w.m[r][k] -= f * w.m[c][k]
				inv.m[r][k] -= f * inv.m[c][k]
			}
		}
	}
	return inv, nil
}

// Array3 returns the top-left 3x3 block.
func (a Matrix) Array3() [3][3]float64 {
	var out [3][3]float64
	for r := 0; r < 3; r++ {
		copy(out[r][:], a.m[r][:3])
	}
	return out
}

// Array34 returns the top-left 3x4 block.
func (a Matrix) Array34() [3][4]float64 {
	var out [3][4]float64
	for r := 0; r < 3; r++ {
		out[r] = a.m[r]
	}
	return out
}

// Row returns row r as a vector.
func (a Matrix) Row(r int) Vector {
	return Vector{n: a.cols, v: a.m[r]}
}

func (a Matrix) String() string {
	return fmt.Sprintf("%dx%d%v", a.rows, a.cols, a.m[:a.rows])
}

// Vector is a column vector of at most MaxChannels entries.
type Vector struct {
	n int
	v [MaxChannels]float64
}

// VectorOf returns a vector holding vals. Extra values past MaxChannels are
// dropped.
func VectorOf(vals ...float64) Vector {
	v := Vector{n: min(len(vals), MaxChannels)}
	copy(v.v[:], vals)
	return v
}

// Ones returns a vector of n ones.
func Ones(n int) Vector {
	v := Vector{n: min(n, MaxChannels)}
	for j := 0; j < v.n; j++ {
		v.v[j] = 1
	}
	return v
}

func (v Vector) Len() int { return v.n }

func (v Vector) IsEmpty() bool { return v.n == 0 }

func (v Vector) At(j int) float64 { return v.v[j] }

func (v *Vector) Set(j int, x float64) { v.v[j] = x }

func (v Vector) MaxEntry() float64 {
	if v.n == 0 {
		return 0
	}
	m := v.v[0]
	for j := 1; j < v.n; j++ {
		m = max(m, v.v[j])
	}
	return m
}

func (v Vector) MinEntry() float64 {
	if v.n == 0 {
		return 0
	}
	m := v.v[0]
	for j := 1; j < v.n; j++ {
		m = min(m, v.v[j])
	}
	return m
}

func (v Vector) Scale(s float64) Vector {
	for j := 0; j < v.n; j++ {
		v.v[j] *= s
	}
	return v
}

// Diagonal returns the square matrix with v on its diagonal.
func (v Vector) Diagonal() Matrix {
	a := NewMatrix(v.n, v.n)
	for j := 0; j < v.n; j++ {
		a.m[j][j] = v.v[j]
	}
	return a
}

// Column returns v as an n x 1 matrix.
func (v Vector) Column() Matrix {
	a := NewMatrix(v.n, 1)
	for j := 0; j < v.n; j++ {
		a.m[j][0] = v.v[j]
	}
	return a
}

// Array3 returns the first three entries.
func (v Vector) Array3() [3]float64 {
	return [3]float64{v.v[0], v.v[1], v.v[2]}
}

// Array4 returns all four entries.
func (v Vector) Array4() [4]float64 {
	return v.v
}
