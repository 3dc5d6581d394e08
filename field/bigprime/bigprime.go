// Package bigprime implements field.Element/field.Field over an arbitrary
// prime modulus (up to 512 bits) using math/big. It backs parameterisations
// whose modulus isn't one of the fixed curves the other field packages
// target, such as the Pallas scalar field.
package bigprime

import (
	"math/big"

	"github.com/vybium/vybium-poseidon/field"
)

// Field is a factory bound to one prime modulus.
type Field struct {
	p       *big.Int
	byteLen int
	numBits int
}

// New constructs a Field for the given prime. Panics if p is not prime or
// is wider than 512 bits, matching the scope this library commits to.
func New(p *big.Int) *Field {
	if p.Sign() <= 0 {
		panic("bigprime: modulus must be positive")
	}
	if p.BitLen() > 512 {
		panic("bigprime: modulus exceeds 512 bits")
	}
	if !p.ProbablyPrime(32) {
		panic("bigprime: modulus is not prime")
	}
	return &Field{
		p:       new(big.Int).Set(p),
		byteLen: (p.BitLen() + 7) / 8,
		numBits: p.BitLen(),
	}
}

// Element is a value reduced modulo its Field's modulus.
type Element struct {
	f *Field
	v *big.Int
}

func (f *Field) elem(v *big.Int) Element {
	r := new(big.Int).Mod(v, f.p)
	return Element{f: f, v: r}
}

func (f *Field) Zero() field.Element { return f.elem(big.NewInt(0)) }
func (f *Field) One() field.Element  { return f.elem(big.NewInt(1)) }
func (f *Field) NumBits() int        { return f.numBits }
func (f *Field) ByteLen() int        { return f.byteLen }

func (f *Field) FromUint64(v uint64) field.Element {
	return f.elem(new(big.Int).SetUint64(v))
}

func (f *Field) FromBigInt(val *big.Int) field.Element {
	return f.elem(val)
}

func (f *Field) FromRepr(data []byte) (field.Element, bool) {
	if len(data) != f.byteLen {
		return nil, false
	}
	v := new(big.Int).SetBytes(reverse(data))
	if v.Cmp(f.p) >= 0 {
		return nil, false
	}
	return Element{f: f, v: v}, true
}

// FromUniformBytes wide-reduces a 64-byte uniformly random buffer modulo p,
// the non-rejection-sampling path the Grain generator uses for Cauchy seeds.
func (f *Field) FromUniformBytes(buf *[64]byte) field.Element {
	v := new(big.Int).SetBytes(reverse(buf[:]))
	return f.elem(v)
}

func (e Element) Add(other field.Element) field.Element {
	o := other.(Element)
	return e.f.elem(new(big.Int).Add(e.v, o.v))
}

func (e Element) Sub(other field.Element) field.Element {
	o := other.(Element)
	return e.f.elem(new(big.Int).Sub(e.v, o.v))
}

func (e Element) Mul(other field.Element) field.Element {
	o := other.(Element)
	return e.f.elem(new(big.Int).Mul(e.v, o.v))
}

func (e Element) Neg() field.Element {
	return e.f.elem(new(big.Int).Neg(e.v))
}

func (e Element) Square() field.Element {
	return e.f.elem(new(big.Int).Mul(e.v, e.v))
}

func (e Element) Inverse() field.Element {
	if e.IsZero() {
		panic("bigprime: attempted to invert zero")
	}
	inv := new(big.Int).ModInverse(e.v, e.f.p)
	return Element{f: e.f, v: inv}
}

func (e Element) IsZero() bool { return e.v.Sign() == 0 }

func (e Element) Equal(other field.Element) bool {
	o, ok := other.(Element)
	return ok && e.f.p.Cmp(o.f.p) == 0 && e.v.Cmp(o.v) == 0
}

func (e Element) Bytes() []byte {
	out := make([]byte, e.f.byteLen)
	b := e.v.Bytes()
	for i := 0; i < len(b); i++ {
		out[i] = b[len(b)-1-i]
	}
	return out
}

func (e Element) String() string { return e.v.String() }

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
