package merkletree

import (
	"math/bits"

	"github.com/vybium/vybium-poseidon/field"
	"github.com/vybium/vybium-poseidon/poseidon"
)

// MMR is a Merkle Mountain Range: a collection of perfect binary Merkle
// trees ("peaks") arranged by decreasing size, supporting efficient
// append and membership proofs without requiring the leaf count to be a
// power of two.
type MMR interface {
	BagPeaks() field.Element
	Peaks() []field.Element
	IsEmpty() bool
	NumLeafs() uint64
	Append(newLeaf field.Element) MmrMembershipProof
	VerifyMembership(leaf field.Element, proof MmrMembershipProof) bool
}

// Accumulator is a lightweight MMR representation storing only the peaks
// and leaf count, not the full tree structure.
type Accumulator struct {
	leafCount uint64
	peaks     []field.Element
	hasher    *poseidon.MerkleHasher
	bagger    *poseidon.VarLenHasher
	spec      *poseidon.Spec
}

// NewAccumulator builds an Accumulator from explicit peaks and leaf count.
// spec must have RATE == 2, matching the binary peak-merging below.
func NewAccumulator(spec *poseidon.Spec, peaks []field.Element, leafCount uint64) *Accumulator {
	return &Accumulator{
		leafCount: leafCount,
		peaks:     append([]field.Element(nil), peaks...),
		hasher:    poseidon.NewMerkleHasher(spec),
		spec:      spec,
	}
}

// NewAccumulatorFromLeafs builds an Accumulator from a full leaf set.
func NewAccumulatorFromLeafs(spec *poseidon.Spec, leafs []field.Element) *Accumulator {
	hasher := poseidon.NewMerkleHasher(spec)
	return &Accumulator{
		leafCount: uint64(len(leafs)),
		peaks:     peaksFromLeafs(hasher, leafs),
		hasher:    hasher,
		spec:      spec,
	}
}

// peaksFromLeafs computes MMR peaks bottom-up, merging equal-height trees
// as each new pair is formed.
func peaksFromLeafs(hasher *poseidon.MerkleHasher, leafs []field.Element) []field.Element {
	if len(leafs) == 0 {
		return []field.Element{}
	}

	maxTreeHeight := bits.Len(uint(len(leafs)))
	peaks := make([]field.Element, 0, maxTreeHeight)

	diagonalIdx := uint64(1)
	for i := 0; i+1 < len(leafs); i += 2 {
		right := hasher.Hash([]field.Element{leafs[i], leafs[i+1]})

		numMerges := bits.TrailingZeros64(diagonalIdx)
		for j := 0; j < numMerges; j++ {
			if len(peaks) == 0 {
				break
			}
			left := peaks[len(peaks)-1]
			peaks = peaks[:len(peaks)-1]
			right = hasher.Hash([]field.Element{left, right})
		}

		peaks = append(peaks, right)
		diagonalIdx++
	}

	if len(leafs)%2 == 1 {
		peaks = append(peaks, leafs[len(leafs)-1])
	}

	return peaks
}

// BagPeaks commits to the entire MMR by absorbing the leaf count and
// every peak through the variable-length sponge.
func (m *Accumulator) BagPeaks() field.Element {
	return bagPeaks(m.spec, m.peaks, m.leafCount)
}

func bagPeaks(spec *poseidon.Spec, peaks []field.Element, leafCount uint64) field.Element {
	f := spec.Field()
	if len(peaks) == 0 {
		return f.Zero()
	}

	input := make([]field.Element, 0, 1+len(peaks))
	input = append(input, f.FromUint64(leafCount))
	input = append(input, peaks...)

	h := poseidon.NewVarLenHasher(spec)
	h.Update(input)
	return h.Squeeze()
}

// Peaks returns a copy of the MMR's peaks.
func (m *Accumulator) Peaks() []field.Element {
	return append([]field.Element(nil), m.peaks...)
}

// IsEmpty reports whether the MMR has no leafs.
func (m *Accumulator) IsEmpty() bool { return m.leafCount == 0 }

// NumLeafs returns the number of leafs in the MMR.
func (m *Accumulator) NumLeafs() uint64 { return m.leafCount }

// Append adds newLeaf and returns its membership proof.
func (m *Accumulator) Append(newLeaf field.Element) MmrMembershipProof {
	newPeaks, proof := calculateNewPeaksFromAppend(m.hasher, m.peaks, newLeaf, m.leafCount)
	m.peaks = newPeaks
	m.leafCount++
	return proof
}

// calculateNewPeaksFromAppend computes the new peaks after appending a
// leaf and the membership proof for that leaf.
func calculateNewPeaksFromAppend(hasher *poseidon.MerkleHasher, oldPeaks []field.Element, newLeaf field.Element, oldLeafCount uint64) ([]field.Element, MmrMembershipProof) {
	peaks := append([]field.Element(nil), oldPeaks...)
	peaks = append(peaks, newLeaf)

	var authPath []field.Element
	numMerges := trailingOnes64(oldLeafCount)

	for i := 0; i < numMerges; i++ {
		if len(peaks) < 2 {
			break
		}
		inProgress := peaks[len(peaks)-1]
		peaks = peaks[:len(peaks)-1]
		previous := peaks[len(peaks)-1]
		peaks = peaks[:len(peaks)-1]

		authPath = append(authPath, previous)
		peaks = append(peaks, hasher.Hash([]field.Element{previous, inProgress}))
	}

	return peaks, MmrMembershipProof{LeafIndex: oldLeafCount, AuthPath: authPath}
}

// VerifyMembership recomputes the peak from leaf and proof.AuthPath and
// checks it against the MMR's current peaks.
func (m *Accumulator) VerifyMembership(leaf field.Element, proof MmrMembershipProof) bool {
	current := leaf
	for _, authNode := range proof.AuthPath {
		current = m.hasher.Hash([]field.Element{authNode, current})
	}
	for _, peak := range m.peaks {
		if current.Equal(peak) {
			return true
		}
	}
	return false
}

// MmrMembershipProof proves that a leaf belongs to an MMR.
type MmrMembershipProof struct {
	LeafIndex uint64
	AuthPath  []field.Element
}

// IsConsistent checks that the number of peaks equals the number of
// one-bits in the leaf count, an MMR structural invariant.
func (m *Accumulator) IsConsistent() bool {
	return len(m.peaks) == bits.OnesCount64(m.leafCount)
}

// Clone returns a deep copy of the accumulator.
func (m *Accumulator) Clone() *Accumulator {
	return &Accumulator{
		leafCount: m.leafCount,
		peaks:     append([]field.Element(nil), m.peaks...),
		hasher:    m.hasher,
		spec:      m.spec,
	}
}

// trailingOnes64 returns the number of trailing one bits in x.
func trailingOnes64(x uint64) int {
	if x == 0 {
		return 0
	}
	return bits.TrailingZeros64(^x)
}
