package poseidon

import (
	"github.com/vybium/vybium-poseidon/field"
	"github.com/vybium/vybium-poseidon/internal/matrix"
)

// SparseMatrix is the partial-round linear layer: identity except for its
// first row (Row, length T) and the tail of its first column (ColHat,
// length RATE). Applying it costs O(T) multiplications instead of O(T^2).
type SparseMatrix struct {
	Row    []field.Element
	ColHat []field.Element
}

// Apply computes the sparse matrix-vector product in place on state.
func (sm *SparseMatrix) Apply(s *State) {
	words := s.Words()
	acc := s.f.Zero()
	for i, e := range sm.Row {
		acc = acc.Add(e.Mul(words[i]))
	}
	newValues := make([]field.Element, s.t)
	newValues[0] = acc
	for i := 1; i < s.t; i++ {
		newValues[i] = sm.ColHat[i-1].Mul(words[0]).Add(words[i])
	}
	s.values = newValues
}

// sparseMatrixFromDense asserts m is already in [[1,0],[0,I]] form below its
// first row/column and extracts the Row/ColHat representation.
func sparseMatrixFromDense(f field.Field, m *matrix.Matrix) *SparseMatrix {
	t := m.T()
	zero, one := f.Zero(), f.One()
	for i := 1; i < t; i++ {
		for j := 1; j < t; j++ {
			want := zero
			if i == j {
				want = one
			}
			if !m.At(i, j).Equal(want) {
				panic("poseidon: matrix is not in sparse form")
			}
		}
	}
	row := m.Row(0)
	colHat := make([]field.Element, t-1)
	for i := 1; i < t; i++ {
		colHat[i-1] = m.At(i, 0)
	}
	return &SparseMatrix{Row: row, ColHat: colHat}
}
