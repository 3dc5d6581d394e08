// Package field defines the arithmetic interface the Poseidon permutation
// core and its collaborators are written against. Every concrete field
// (field/bigprime, field/bn254fr, field/goldilocks) implements Element and
// Field; nothing above this package ever references a concrete type.
package field

import (
	"fmt"
	"math/big"
)

// Element is a single value of some prime field. Implementations are
// expected to be immutable value types (or effectively so): every method
// returns a new Element rather than mutating the receiver.
type Element interface {
	Add(other Element) Element
	Sub(other Element) Element
	Mul(other Element) Element
	Neg() Element
	Square() Element

	// Inverse returns the multiplicative inverse. Panics if the element
	// is zero; callers are expected to never invert zero.
	Inverse() Element

	IsZero() bool
	Equal(other Element) bool

	// Bytes returns the canonical little-endian encoding, always
	// Field.ByteLen() bytes wide.
	Bytes() []byte

	String() string
}

// Field is a factory for Elements of one particular modulus. It also
// carries the modulus-dependent sizing information the Grain parameter
// generator and the transcript's limb decomposition need.
type Field interface {
	Zero() Element
	One() Element

	// NumBits is the bit length of the modulus, i.e. ceil(log2(p)).
	NumBits() int

	// ByteLen is the width of Element.Bytes(), i.e. ceil(NumBits()/8).
	ByteLen() int

	FromUint64(v uint64) Element

	// FromBigInt reduces val modulo the field's characteristic.
	FromBigInt(val *big.Int) Element

	// FromRepr decodes a canonical little-endian encoding, rejecting
	// values at or above the modulus.
	FromRepr(data []byte) (Element, bool)

	// FromUniformBytes maps a uniformly random 64-byte buffer into the
	// field without rejection sampling, as used for Grain's Cauchy seed
	// vectors (spec §4.3): wide-reduce first, then take it mod p.
	FromUniformBytes(buf *[64]byte) Element
}

// BatchInversion inverts every element of xs in a single pass using one
// field inversion instead of len(xs). All elements must be non-zero.
func BatchInversion(f Field, xs []Element) ([]Element, error) {
	if len(xs) == 0 {
		return nil, nil
	}
	scratch := make([]Element, len(xs))
	acc := f.One()
	for i, x := range xs {
		if x.IsZero() {
			return nil, fmt.Errorf("field: batch inversion of zero element at index %d", i)
		}
		scratch[i] = acc
		acc = acc.Mul(x)
	}
	acc = acc.Inverse()

	out := make([]Element, len(xs))
	for i := len(xs) - 1; i >= 0; i-- {
		out[i] = acc.Mul(scratch[i])
		acc = acc.Mul(xs[i])
	}
	return out, nil
}

// Pow computes base^exp via square-and-multiply.
func Pow(f Field, base Element, exp uint64) Element {
	result := f.One()
	b := base
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(b)
		}
		b = b.Mul(b)
		exp >>= 1
	}
	return result
}
