package poseidon

import "github.com/vybium/vybium-poseidon/field"

// MerkleHasher hashes exactly RATE children into one parent element, used
// by merkletree.Tree as its compression function.
type MerkleHasher struct {
	spec *Spec
}

// NewMerkleHasher constructs a Merkle-mode hasher for spec.
func NewMerkleHasher(spec *Spec) *MerkleHasher {
	return &MerkleHasher{spec: spec}
}

// Hash absorbs exactly RATE children in a single permutation and returns
// the parent digest s_1.
func (h *MerkleHasher) Hash(children []field.Element) field.Element {
	if len(children) != h.spec.rate {
		panic("poseidon: merkle hasher requires exactly RATE children")
	}
	s := newTaggedState(h.spec.f, h.spec.t, tagMerkle, h.spec.rate)
	for i, e := range children {
		s.values[i+1] = s.values[i+1].Add(e)
	}
	h.spec.Permute(s)
	return s.Result()
}
