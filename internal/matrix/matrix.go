// Package matrix implements the dense T×T matrix operations the Poseidon
// parameter generator needs: construction, transpose, multiplication,
// Gauss-Jordan inversion, and the W/Sub block extraction used by the
// sparse-matrix factorisation.
//
// Most of what's here is not meant for general-purpose matrix work. Beyond
// vector multiplication the other operations exist to build parameters and
// never run during the permutation itself.
package matrix

import "github.com/vybium/vybium-poseidon/field"

// Matrix is a square T×T matrix over a single field.
type Matrix struct {
	f    field.Field
	t    int
	rows [][]field.Element
}

// New builds a zero T×T matrix.
func New(f field.Field, t int) *Matrix {
	rows := make([][]field.Element, t)
	for i := range rows {
		row := make([]field.Element, t)
		for j := range row {
			row[j] = f.Zero()
		}
		rows[i] = row
	}
	return &Matrix{f: f, t: t, rows: rows}
}

// Identity builds the T×T identity matrix.
func Identity(f field.Field, t int) *Matrix {
	m := New(f, t)
	for i := 0; i < t; i++ {
		m.rows[i][i] = f.One()
	}
	return m
}

// FromRows builds a matrix from a square slice of rows. Panics if the rows
// aren't all the same length as the outer slice.
func FromRows(f field.Field, rows [][]field.Element) *Matrix {
	n := len(rows)
	for _, row := range rows {
		if len(row) != n {
			panic("matrix: ragged input, expected a square matrix")
		}
	}
	m := New(f, n)
	for i, row := range rows {
		copy(m.rows[i], row)
	}
	return m
}

func (m *Matrix) T() int { return m.t }

func (m *Matrix) At(i, j int) field.Element { return m.rows[i][j] }

func (m *Matrix) Set(i, j int, v field.Element) { m.rows[i][j] = v }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []field.Element {
	out := make([]field.Element, m.t)
	copy(out, m.rows[i])
	return out
}

// Transpose returns a new matrix with rows and columns swapped.
func (m *Matrix) Transpose() *Matrix {
	result := New(m.f, m.t)
	for i := 0; i < m.t; i++ {
		for j := 0; j < m.t; j++ {
			result.rows[j][i] = m.rows[i][j]
		}
	}
	return result
}

// Mul computes the matrix product m * other.
func (m *Matrix) Mul(other *Matrix) *Matrix {
	result := New(m.f, m.t)
	for i := 0; i < m.t; i++ {
		for j := 0; j < m.t; j++ {
			acc := m.f.Zero()
			for k := 0; k < m.t; k++ {
				acc = acc.Add(m.rows[i][k].Mul(other.rows[k][j]))
			}
			result.rows[i][j] = acc
		}
	}
	return result
}

// MulVector computes m * v for a length-T column vector v.
func (m *Matrix) MulVector(v []field.Element) []field.Element {
	if len(v) != m.t {
		panic("matrix: vector length mismatch")
	}
	result := make([]field.Element, m.t)
	for i := 0; i < m.t; i++ {
		acc := m.f.Zero()
		for j := 0; j < m.t; j++ {
			acc = acc.Add(v[j].Mul(m.rows[i][j]))
		}
		result[i] = acc
	}
	return result
}

// Invert computes m^-1 via Gauss-Jordan elimination on the augmented
// [M | I] matrix. Panics (via field.Element.Inverse) if a zero pivot is
// hit — the caller is expected to only invert well-formed MDS matrices.
func (m *Matrix) Invert() *Matrix {
	t := m.t
	aug := make([][]field.Element, t)
	for i := 0; i < t; i++ {
		row := make([]field.Element, 2*t)
		copy(row, m.rows[i])
		row[t+i] = m.f.One()
		for j := 0; j < t; j++ {
			if j != i {
				row[t+j] = m.f.Zero()
			}
		}
		aug[i] = row
	}

	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			if i == j {
				continue
			}
			r := aug[j][i].Mul(aug[i][i].Inverse())
			for k := 0; k < 2*t; k++ {
				aug[j][k] = aug[j][k].Sub(r.Mul(aug[i][k]))
			}
		}
	}

	for i := 0; i < t; i++ {
		pivotInv := aug[i][i].Inverse()
		for j := t; j < 2*t; j++ {
			aug[i][j] = aug[i][j].Mul(pivotInv)
		}
	}

	result := New(m.f, t)
	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			result.rows[i][j] = aug[i][t+j]
		}
	}
	return result
}

// W returns the first column below row 0, the "w" vector in Appendix B's
// sparse factorisation (requires rate+1 == T).
func (m *Matrix) W(rate int) []field.Element {
	if rate+1 != m.t {
		panic("matrix: W requires rate+1 == T")
	}
	out := make([]field.Element, rate)
	for i := 0; i < rate; i++ {
		out[i] = m.rows[i+1][0]
	}
	return out
}

// Sub returns the trailing rate×rate block (rows/cols 1..T), the "Â" block
// that Appendix B's factorisation places in M' (requires rate+1 == T).
func (m *Matrix) Sub(rate int) *Matrix {
	if rate+1 != m.t {
		panic("matrix: Sub requires rate+1 == T")
	}
	rows := make([][]field.Element, rate)
	for i := 0; i < rate; i++ {
		rows[i] = m.rows[i+1][1:]
	}
	return FromRows(m.f, rows)
}
