// Command example demonstrates the Poseidon permutation and its sponge
// collaborators: constant-length hashing, variable-length hashing, a
// Merkle tree, and a Fiat-Shamir transcript.
package main

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/vybium/vybium-poseidon/field"
	"github.com/vybium/vybium-poseidon/field/bn254fr"
	"github.com/vybium/vybium-poseidon/merkletree"
	"github.com/vybium/vybium-poseidon/poseidon"
	"github.com/vybium/vybium-poseidon/transcript"
)

func main() {
	fmt.Println("Poseidon Permutation Examples")
	fmt.Println("=============================")

	fmt.Println("\n1. Field Operations:")
	demonstrateFieldOperations()

	fmt.Println("\n2. Poseidon Permutation:")
	demonstratePermutation()

	fmt.Println("\n3. Constant-Length and Variable-Length Hashing:")
	demonstrateHashing()

	fmt.Println("\n4. Merkle Tree:")
	demonstrateMerkleTree()

	fmt.Println("\n5. Fiat-Shamir Transcript:")
	demonstrateTranscript()
}

func demonstrateFieldOperations() {
	f := bn254fr.Field{}
	a := f.FromUint64(42)
	b := f.FromUint64(1337)

	fmt.Printf("   a = %s\n", a.String())
	fmt.Printf("   b = %s\n", b.String())
	fmt.Printf("   a + b = %s\n", a.Add(b).String())
	fmt.Printf("   a * b = %s\n", a.Mul(b).String())
	fmt.Printf("   a^2 = %s\n", a.Square().String())

	inverse := a.Inverse()
	fmt.Printf("   a * a^-1 = %s (should be 1)\n", a.Mul(inverse).String())
}

func demonstratePermutation() {
	f := bn254fr.Field{}
	spec := poseidon.NewSpec(f, 3, 8, 57)

	s := poseidon.NewState(f, 3)
	for i, v := range []uint64{0, 1, 2} {
		s.SetWord(i, f.FromUint64(v))
	}
	spec.Permute(s)

	fmt.Printf("   permute(0, 1, 2) = s_1 %s\n", s.Result().String())
}

func demonstrateHashing() {
	f := bn254fr.Field{}
	spec := poseidon.NewSpec(f, 3, 8, 57)

	inputs := []field.Element{f.FromUint64(1), f.FromUint64(2), f.FromUint64(3), f.FromUint64(4)}

	fixed := poseidon.NewHasher(spec, len(inputs))
	fmt.Printf("   constant-length hash: %s\n", fixed.Hash(inputs).String())

	varLen := poseidon.NewVarLenHasher(spec)
	varLen.Update(inputs)
	fmt.Printf("   variable-length hash: %s\n", varLen.Squeeze().String())
}

func demonstrateMerkleTree() {
	f := bn254fr.Field{}
	spec := poseidon.NewSpec(f, 3, 8, 57)
	hasher := poseidon.NewMerkleHasher(spec)

	leafs := make([]field.Element, 8)
	for i := range leafs {
		leafs[i] = f.FromUint64(uint64(i))
	}

	tree, err := merkletree.New(hasher, leafs)
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	fmt.Printf("   root: %s\n", tree.Root().String())

	authPath, _ := tree.AuthenticationPath(3)
	leaf, _ := tree.GetLeaf(3)
	ok := merkletree.VerifyInclusionProof(hasher, tree.Root(), 3, leaf, authPath)
	fmt.Printf("   inclusion proof for leaf 3 verifies: %t\n", ok)
}

func demonstrateTranscript() {
	f := bn254fr.Field{}
	spec := poseidon.NewSpec(f, 3, 8, 57)
	encoder := transcript.LimbRepresentation{NumberOfLimbs: 4, BitLen: 68}

	_, _, g1, _ := bn254.Generators()

	var buf bytes.Buffer
	writer := transcript.NewWriter(transcript.New(spec, encoder), &buf)
	if err := writer.WritePoint(g1); err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	challenge := writer.SqueezeChallenge()
	fmt.Printf("   challenge after committing the generator: %s\n", challenge.String())

	reader := transcript.NewReader(transcript.New(spec, encoder), bytes.NewReader(buf.Bytes()))
	if _, err := reader.ReadPoint(); err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	reChallenge := reader.SqueezeChallenge()
	fmt.Printf("   reader agrees: %t\n", challenge.Equal(reChallenge))
}
