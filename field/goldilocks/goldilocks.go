// Package goldilocks implements field.Element/field.Field over
// p = 2^64 - 2^32 + 1 using Montgomery representation, adapted from the
// original vybium-crypto base field.
package goldilocks

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/vybium/vybium-poseidon/field"
)

// P is the prime modulus: 2^64 - 2^32 + 1.
const P uint64 = 0xFFFFFFFF00000001

// r2 is 2^128 mod P, used to move values into Montgomery form.
const r2 uint64 = 0xFFFFFFFE00000001

// Element is a Goldilocks field element stored in Montgomery form
// (value * 2^64 mod P).
type Element struct {
	value uint64
}

var (
	zeroElem = Element{0}
	oneElem  = New(1)
)

// New converts a uint64 into Montgomery form.
func New(value uint64) Element {
	return Element{value: montyred(mul128(value, r2))}
}

// NewFromRaw wraps a value already in Montgomery form.
func NewFromRaw(raw uint64) Element {
	return Element{value: raw}
}

// Value returns the canonical (non-Montgomery) uint64 value.
func (e Element) Value() uint64 {
	return montyred(uint128{lo: e.value, hi: 0})
}

func (e Element) RawValue() uint64 { return e.value }

func (e Element) String() string { return fmt.Sprintf("%d", e.Value()) }

func (e Element) IsZero() bool { return e.value == 0 }

func (e Element) Add(other field.Element) field.Element {
	o := other.(Element)
	x1, c1 := bits.Sub64(e.value, P-o.value, 0)
	if c1 != 0 {
		return Element{value: x1 + P}
	}
	return Element{value: x1}
}

func (e Element) Sub(other field.Element) field.Element {
	o := other.(Element)
	x1, c1 := bits.Sub64(e.value, o.value, 0)
	return Element{value: x1 - ((1 + ^P) * c1)}
}

func (e Element) Mul(other field.Element) field.Element {
	o := other.(Element)
	return Element{value: montyred(mul128(e.value, o.value))}
}

func (e Element) Square() field.Element {
	return Element{value: montyred(mul128(e.value, e.value))}
}

func (e Element) Neg() field.Element {
	if e.IsZero() {
		return e
	}
	return Element{value: P - e.value}
}

// Inverse computes a^(P-2) via the addition chain used by the original
// base field implementation.
func (e Element) Inverse() field.Element {
	if e.IsZero() {
		panic("goldilocks: attempted to invert zero")
	}
	exp := func(base Element, exponent uint64) Element {
		result := base
		for i := uint64(0); i < exponent; i++ {
			result = result.Square().(Element)
		}
		return result
	}
	x := e
	bin2Ones := x.Square().(Element).Mul(x).(Element)
	bin3Ones := bin2Ones.Square().(Element).Mul(x).(Element)
	bin6Ones := exp(bin3Ones, 3).Mul(bin3Ones).(Element)
	bin12Ones := exp(bin6Ones, 6).Mul(bin6Ones).(Element)
	bin24Ones := exp(bin12Ones, 12).Mul(bin12Ones).(Element)
	bin30Ones := exp(bin24Ones, 6).Mul(bin6Ones).(Element)
	bin31Ones := bin30Ones.Square().(Element).Mul(x).(Element)
	bin31Ones1Zero := bin31Ones.Square().(Element)
	bin32Ones := bin31Ones.Square().(Element).Mul(x).(Element)

	return exp(bin31Ones1Zero, 32).Mul(bin32Ones)
}

func (e Element) Equal(other field.Element) bool {
	o, ok := other.(Element)
	return ok && e.value == o.value
}

func (e Element) Bytes() []byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], e.Value())
	return out[:]
}

// Field is the field.Field implementation for Goldilocks.
type Field struct{}

func (Field) Zero() field.Element { return zeroElem }
func (Field) One() field.Element  { return oneElem }
func (Field) NumBits() int        { return 64 }
func (Field) ByteLen() int        { return 8 }

func (Field) FromUint64(v uint64) field.Element { return New(v) }

func (Field) FromBigInt(val *big.Int) field.Element {
	mod := new(big.Int).SetUint64(P)
	reduced := new(big.Int).Mod(val, mod)
	return New(reduced.Uint64())
}

func (Field) FromRepr(data []byte) (field.Element, bool) {
	if len(data) != 8 {
		return nil, false
	}
	v := binary.LittleEndian.Uint64(data)
	if v >= P {
		return nil, false
	}
	return New(v), true
}

func (f Field) FromUniformBytes(buf *[64]byte) field.Element {
	v := new(big.Int).SetBytes(reverse(buf[:]))
	return f.FromBigInt(v)
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

type uint128 struct{ lo, hi uint64 }

func mul128(a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	return uint128{lo: lo, hi: hi}
}

func montyred(x uint128) uint64 {
	xl := x.lo
	xh := x.hi
	a, e := bits.Add64(xl, xl<<32, 0)
	b := a - (a >> 32) - e
	r, c := bits.Sub64(xh, b, 0)
	return r - ((1 + ^P) * c)
}
