// Package merkletree implements a binary Merkle tree over a Poseidon
// Merkle-mode hasher: construction, root, authentication paths, and
// de-duplicated multi-leaf inclusion proofs.
package merkletree

import (
	"fmt"
	"math/bits"

	"github.com/vybium/vybium-poseidon/field"
	"github.com/vybium/vybium-poseidon/poseidon"
)

// NodeIndex follows the usual implicit binary-tree layout: index 0 is
// unused, index 1 is the root, 2 and 3 are its children, and so on.
type NodeIndex = uint64

// LeafIndex indexes leafs left to right, starting at zero.
type LeafIndex = uint64

// Height counts tree layers, not including the root.
type Height = uint32

const RootIndex NodeIndex = 1

// Tree is a binary Merkle tree over field elements, compressed pairwise
// with a RATE=2 Poseidon Merkle hasher. Can hold at most 2^62 leafs.
type Tree struct {
	nodes  []field.Element
	hasher *poseidon.MerkleHasher
}

// New builds a Tree over leafs, compressing pairs with hasher (whose
// Spec must have RATE == 2). Returns an error if leafs is empty or its
// length isn't a power of two.
func New(hasher *poseidon.MerkleHasher, leafs []field.Element) (*Tree, error) {
	numLeafs := len(leafs)
	if numLeafs == 0 {
		return nil, fmt.Errorf("merkletree: cannot build a tree with zero leafs")
	}
	if !isPowerOfTwo(uint64(numLeafs)) {
		return nil, fmt.Errorf("merkletree: number of leafs must be a power of two, got %d", numLeafs)
	}

	nodes := make([]field.Element, 2*numLeafs)
	copy(nodes[numLeafs:], leafs)

	remaining := numLeafs
	for remaining > 1 {
		for i := 0; i < remaining; i += 2 {
			left := nodes[remaining+i]
			right := nodes[remaining+i+1]
			nodes[remaining/2+i/2] = hasher.Hash([]field.Element{left, right})
		}
		remaining /= 2
	}

	return &Tree{nodes: nodes, hasher: hasher}, nil
}

// Root returns the tree's root digest.
func (t *Tree) Root() field.Element {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[RootIndex]
}

// Height returns the number of layers below the root.
func (t *Tree) Height() Height {
	if len(t.nodes) <= 1 {
		return 0
	}
	numLeafs := len(t.nodes) / 2
	return uint32(bits.Len(uint(numLeafs)) - 1)
}

// NumLeafs returns the number of leafs in the tree.
func (t *Tree) NumLeafs() uint64 {
	if len(t.nodes) <= 1 {
		return 0
	}
	return uint64(len(t.nodes) / 2)
}

// GetLeaf returns the leaf at index.
func (t *Tree) GetLeaf(index LeafIndex) (field.Element, error) {
	numLeafs := t.NumLeafs()
	if index >= numLeafs {
		return nil, fmt.Errorf("merkletree: leaf index %d out of range [0, %d)", index, numLeafs)
	}
	return t.nodes[numLeafs+index], nil
}

// AuthenticationPath returns the sibling digests needed to recompute the
// root from the leaf at leafIndex.
func (t *Tree) AuthenticationPath(leafIndex LeafIndex) ([]field.Element, error) {
	numLeafs := t.NumLeafs()
	if leafIndex >= numLeafs {
		return nil, fmt.Errorf("merkletree: leaf index %d out of range [0, %d)", leafIndex, numLeafs)
	}

	height := t.Height()
	path := make([]field.Element, height)
	nodeIndex := numLeafs + leafIndex
	for i := uint32(0); i < height; i++ {
		path[i] = t.nodes[nodeIndex^1]
		nodeIndex /= 2
	}
	return path, nil
}

// VerifyInclusionProof recomputes the root from leaf, leafIndex, and
// authPath, checking it against root.
func VerifyInclusionProof(hasher *poseidon.MerkleHasher, root field.Element, leafIndex LeafIndex, leaf field.Element, authPath []field.Element) bool {
	current := leaf
	idx := leafIndex
	for _, sibling := range authPath {
		if idx%2 == 0 {
			current = hasher.Hash([]field.Element{current, sibling})
		} else {
			current = hasher.Hash([]field.Element{sibling, current})
		}
		idx /= 2
	}
	return current.Equal(root)
}

// InclusionProof is a de-duplicated inclusion proof for multiple leafs.
type InclusionProof struct {
	TreeHeight              Height
	IndexedLeafs            []LeafIndexValuePair
	AuthenticationStructure []field.Element
}

// LeafIndexValuePair pairs a leaf index with its value.
type LeafIndexValuePair struct {
	Index LeafIndex
	Value field.Element
}

// NewInclusionProof builds a de-duplicated proof for leafIndices.
func (t *Tree) NewInclusionProof(leafIndices []LeafIndex) (*InclusionProof, error) {
	numLeafs := t.NumLeafs()
	for _, idx := range leafIndices {
		if idx >= numLeafs {
			return nil, fmt.Errorf("merkletree: leaf index %d out of range [0, %d)", idx, numLeafs)
		}
	}

	indexed := make([]LeafIndexValuePair, len(leafIndices))
	for i, idx := range leafIndices {
		v, _ := t.GetLeaf(idx)
		indexed[i] = LeafIndexValuePair{Index: idx, Value: v}
	}

	return &InclusionProof{
		TreeHeight:              t.Height(),
		IndexedLeafs:            indexed,
		AuthenticationStructure: t.buildAuthenticationStructure(leafIndices),
	}, nil
}

func (t *Tree) buildAuthenticationStructure(leafIndices []LeafIndex) []field.Element {
	numLeafs := t.NumLeafs()
	height := t.Height()
	revealed := make(map[NodeIndex]bool)

	for _, idx := range leafIndices {
		revealed[numLeafs+idx] = true
	}

	var auth []field.Element
	for _, leafIdx := range leafIndices {
		nodeIndex := numLeafs + leafIdx
		for level := uint32(0); level < height; level++ {
			siblingIndex := nodeIndex ^ 1
			if !revealed[siblingIndex] {
				auth = append(auth, t.nodes[siblingIndex])
				revealed[siblingIndex] = true
			}
			nodeIndex /= 2
			revealed[nodeIndex] = true
		}
	}
	return auth
}

// Verify checks the proof against root using hasher to recompute parents.
func (p *InclusionProof) Verify(hasher *poseidon.MerkleHasher, root field.Element) bool {
	if len(p.IndexedLeafs) == 0 {
		return false
	}
	numLeafs := uint64(1) << p.TreeHeight
	nodes := make(map[NodeIndex]field.Element)
	revealed := make(map[NodeIndex]bool)
	leafIndices := make([]LeafIndex, len(p.IndexedLeafs))

	for i, pair := range p.IndexedLeafs {
		nodes[numLeafs+pair.Index] = pair.Value
		revealed[numLeafs+pair.Index] = true
		leafIndices[i] = pair.Index
	}

	authIdx := 0
	for _, leafIdx := range leafIndices {
		nodeIndex := numLeafs + leafIdx
		for level := uint32(0); level < p.TreeHeight; level++ {
			siblingIndex := nodeIndex ^ 1
			if !revealed[siblingIndex] && authIdx < len(p.AuthenticationStructure) {
				nodes[siblingIndex] = p.AuthenticationStructure[authIdx]
				authIdx++
				revealed[siblingIndex] = true
			}
			nodeIndex /= 2
			revealed[nodeIndex] = true
		}
	}

	for level := p.TreeHeight; level > 0; level-- {
		levelStart := uint64(1) << level
		for idx := levelStart; idx < 2*levelStart; idx += 2 {
			left, leftOK := nodes[idx]
			right, rightOK := nodes[idx+1]
			if leftOK && rightOK {
				nodes[idx/2] = hasher.Hash([]field.Element{left, right})
			}
		}
	}

	computed, ok := nodes[RootIndex]
	return ok && computed.Equal(root)
}

func isPowerOfTwo(n uint64) bool {
	return n > 0 && (n&(n-1) == 0)
}
