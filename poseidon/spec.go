// Package poseidon implements the Poseidon permutation and its sponge
// collaborators: the Grain-derived, sparse-MDS-optimized permutation
// schedule of Appendix B of the Poseidon paper, plus constant-length,
// variable-length, and Merkle-mode hashers built on top of it.
package poseidon

import (
	"fmt"

	"github.com/vybium/vybium-poseidon/field"
	"github.com/vybium/vybium-poseidon/internal/grain"
	"github.com/vybium/vybium-poseidon/internal/matrix"
)

// OptimizedConstants is the three-phase round-constant schedule derived
// from the raw Grain output: full T-sized additions at the start and end
// of the full-round phases, a single scalar addition per partial round.
type OptimizedConstants struct {
	Start   [][]field.Element // length R_F/2 + 1
	Partial []field.Element   // length R_P
	End     [][]field.Element // length R_F/2 - 1
}

// MDSMatrices bundles the dense Cauchy MDS together with the matrices the
// optimized permutation actually uses: the pre-sparse transition matrix
// and the per-partial-round sparse factors.
type MDSMatrices struct {
	MDS          *matrix.Matrix
	PreSparseMDS *matrix.Matrix
	Sparse       []*SparseMatrix // length R_P
}

// Spec holds everything the permutation needs for one fixed (T, RATE, R_F,
// R_P, F) configuration. Immutable after construction and safe to share.
type Spec struct {
	f       field.Field
	t       int
	rate    int
	rf, rp  int
	mds     MDSMatrices
	consts  OptimizedConstants
}

// NewSpec runs the full Grain → Cauchy MDS → optimized-constant →
// sparse-factorisation pipeline for the given geometry.
func NewSpec(f field.Field, t, rf, rp int) *Spec {
	rate := t - 1
	if rate+1 != t {
		panic("poseidon: RATE+1 must equal T")
	}
	if rf%2 != 0 {
		panic("poseidon: R_F must be even")
	}

	params := grain.Generate(f, t, rf, rp)
	mds := cauchy(f, t, params.XS, params.YS)

	consts := calculateOptimizedConstants(f, t, rf, rp, params.RoundConstants, mds)
	sparse, preSparse := calculateSparseMatrices(f, t, rp, mds)

	return &Spec{
		f:    f,
		t:    t,
		rate: rate,
		rf:   rf,
		rp:   rp,
		mds: MDSMatrices{
			MDS:          mds,
			PreSparseMDS: preSparse,
			Sparse:       sparse,
		},
		consts: consts,
	}
}

// T, Rate, RF, RP expose the spec's geometry.
func (s *Spec) T() int    { return s.t }
func (s *Spec) Rate() int { return s.rate }
func (s *Spec) RF() int   { return s.rf }
func (s *Spec) RP() int   { return s.rp }
func (s *Spec) Field() field.Field { return s.f }

// cauchy builds M[i][j] = (xs[i]+ys[j])^-1. Panics (by way of Inverse) if
// any pairwise sum is zero — Grain's FromUniformBytes path makes this
// vanishingly unlikely, and the caller is expected to never hit it for
// well-formed parameters.
func cauchy(f field.Field, t int, xs, ys []field.Element) *matrix.Matrix {
	m := matrix.New(f, t)
	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			sum := xs[i].Add(ys[j])
			if sum.IsZero() {
				panic(fmt.Sprintf("poseidon: cauchy matrix has zero denominator at (%d,%d)", i, j))
			}
			m.Set(i, j, sum.Inverse())
		}
	}
	return m
}

// calculateOptimizedConstants rearranges raw per-round constants into the
// start/partial/end schedule described in spec §4.5, using M^-1 and a
// backward accumulator over the partial-round phase.
func calculateOptimizedConstants(f field.Field, t, rf, rp int, raw [][]field.Element, mds *matrix.Matrix) OptimizedConstants {
	invMDS := mds.Invert()
	h := rf / 2
	numberOfRounds := rf + rp
	if len(raw) != numberOfRounds {
		panic("poseidon: unexpected raw constant count")
	}

	start := make([][]field.Element, h)
	start[0] = raw[0]
	for k := 1; k < h; k++ {
		start[k] = invMDS.MulVector(raw[k])
	}

	acc := append([]field.Element(nil), raw[h+rp]...)
	partial := make([]field.Element, rp)
	for i := rp - 1; i >= 0; i-- {
		tmp := invMDS.MulVector(acc)
		partial[i] = tmp[0]
		tmp[0] = f.Zero()
		next := make([]field.Element, t)
		for j := 0; j < t; j++ {
			next[j] = tmp[j].Add(raw[h+i][j])
		}
		acc = next
	}
	start = append(start, invMDS.MulVector(acc))

	end := make([][]field.Element, h-1)
	for k := 0; k < h-1; k++ {
		end[k] = invMDS.MulVector(raw[h+rp+1+k])
	}

	return OptimizedConstants{Start: start, Partial: partial, End: end}
}

// calculateSparseMatrices runs the Appendix B factorisation over M^T,
// producing the R_P sparse matrices used in the partial-round phase plus
// the pre-sparse transition matrix that bridges the full and partial
// phases.
func calculateSparseMatrices(f field.Field, t, rp int, mds *matrix.Matrix) ([]*SparseMatrix, *matrix.Matrix) {
	rate := t - 1
	mdsT := mds.Transpose()
	acc := mdsT
	sparse := make([]*SparseMatrix, rp)
	for k := 0; k < rp; k++ {
		mPrime, mPrimePrime := factorise(f, t, rate, acc)
		acc = mdsT.Mul(mPrime)
		sparse[k] = mPrimePrime
	}

	for i, j := 0, len(sparse)-1; i < j; i, j = i+1, j-1 {
		sparse[i], sparse[j] = sparse[j], sparse[i]
	}
	return sparse, acc.Transpose()
}

// factorise splits A (T×T) into M' = [[1,0],[0,Â]] and M'' (returned as a
// SparseMatrix) such that A = M' * M''^T-before-transpose, per spec §4.6.
func factorise(f field.Field, t, rate int, a *matrix.Matrix) (*matrix.Matrix, *SparseMatrix) {
	w := a.W(rate)
	aHat := a.Sub(rate)
	aHatInv := aHat.Invert()
	wHat := aHatInv.MulVector(w)

	mPrime := matrix.Identity(f, t)
	for i := 0; i < rate; i++ {
		for j := 0; j < rate; j++ {
			mPrime.Set(i+1, j+1, aHat.At(i, j))
		}
	}

	mPrimePrime := matrix.Identity(f, t)
	mPrimePrime.Set(0, 0, a.At(0, 0))
	for j := 1; j < t; j++ {
		mPrimePrime.Set(0, j, a.At(0, j))
	}
	for i := 0; i < rate; i++ {
		mPrimePrime.Set(i+1, 0, wHat[i])
	}

	sparse := sparseMatrixFromDense(f, mPrimePrime.Transpose())
	return mPrime, sparse
}
