package poseidon

import (
	"github.com/vybium/vybium-poseidon/field"
	"github.com/vybium/vybium-poseidon/internal/matrix"
)

// Permute runs the full Poseidon permutation schedule in place on s,
// following the optimized/pre-absorbed variant: one vector add before the
// first S-box, then in every round S-box, constant add, linear layer,
// ending with a terminal linear step that adds no constant (spec §4.7; §9 notes this is the variant the documented
// test vectors reproduce).
func (spec *Spec) Permute(s *State) {
	h := spec.rf / 2

	// First half of the full rounds.
	s.AddConstants(spec.consts.Start[0])
	for k := 1; k < h; k++ {
		s.SboxFull()
		s.AddConstants(spec.consts.Start[k])
		applyDense(spec.mds.MDS, s)
	}
	s.SboxFull()
	s.AddConstants(spec.consts.Start[h])
	applyDense(spec.mds.PreSparseMDS, s)

	// Partial rounds, one sparse matrix each.
	for k := 0; k < spec.rp; k++ {
		s.SboxPart()
		s.AddConstant(spec.consts.Partial[k])
		spec.mds.Sparse[k].Apply(s)
	}

	// Second half of the full rounds.
	for _, c := range spec.consts.End {
		s.SboxFull()
		s.AddConstants(c)
		applyDense(spec.mds.MDS, s)
	}
	s.SboxFull()
	applyDense(spec.mds.MDS, s)
}

func applyDense(m *matrix.Matrix, s *State) {
	s.values = m.MulVector(s.values)
}

// referencePermute is the unoptimized permutation used only to cross-check
// the optimized schedule in tests: add the raw round constants, S-box
// (full outside the partial phase, partial inside it), then multiply by
// the dense MDS every round.
func referencePermute(rf, rp int, raw [][]field.Element, mds *matrix.Matrix, s *State) {
	h := rf / 2
	for r := 0; r < rf+rp; r++ {
		s.AddConstants(raw[r])
		if r < h || r >= h+rp {
			s.SboxFull()
		} else {
			s.SboxPart()
		}
		applyDense(mds, s)
	}
}
