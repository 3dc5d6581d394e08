// Package bn254fr adapts gnark-crypto's bn254 scalar field to
// field.Element/field.Field, backing the literal Bn254 Fr test vectors.
package bn254fr

import (
	"math/big"

	gfr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vybium/vybium-poseidon/field"
)

// Element wraps gnark-crypto's bn254 fr.Element.
type Element struct {
	v gfr.Element
}

// New reduces v modulo the bn254 scalar field order.
func New(v uint64) Element {
	var e Element
	e.v.SetUint64(v)
	return e
}

func (e Element) Add(other field.Element) field.Element {
	o := other.(Element)
	var r Element
	r.v.Add(&e.v, &o.v)
	return r
}

func (e Element) Sub(other field.Element) field.Element {
	o := other.(Element)
	var r Element
	r.v.Sub(&e.v, &o.v)
	return r
}

func (e Element) Mul(other field.Element) field.Element {
	o := other.(Element)
	var r Element
	r.v.Mul(&e.v, &o.v)
	return r
}

func (e Element) Neg() field.Element {
	var r Element
	r.v.Neg(&e.v)
	return r
}

func (e Element) Square() field.Element {
	var r Element
	r.v.Square(&e.v)
	return r
}

func (e Element) Inverse() field.Element {
	if e.IsZero() {
		panic("bn254fr: attempted to invert zero")
	}
	var r Element
	r.v.Inverse(&e.v)
	return r
}

func (e Element) IsZero() bool { return e.v.IsZero() }

func (e Element) Equal(other field.Element) bool {
	o, ok := other.(Element)
	return ok && e.v.Equal(&o.v)
}

func (e Element) Bytes() []byte {
	b := e.v.Bytes() // big-endian, 32 bytes
	out := make([]byte, len(b))
	for i := range b {
		out[i] = b[len(b)-1-i]
	}
	return out
}

func (e Element) String() string { return e.v.String() }

// BigInt materializes the element's canonical value.
func (e Element) BigInt() *big.Int {
	var out big.Int
	e.v.BigInt(&out)
	return &out
}

// Field is the field.Field implementation over bn254's Fr.
type Field struct{}

func (Field) Zero() field.Element { return New(0) }
func (Field) One() field.Element  { return New(1) }
func (Field) NumBits() int        { return gfr.Bits }
func (Field) ByteLen() int        { return gfr.Bytes }

func (Field) FromUint64(v uint64) field.Element { return New(v) }

func (Field) FromBigInt(val *big.Int) field.Element {
	var r Element
	r.v.SetBigInt(val)
	return r
}

func (Field) FromRepr(data []byte) (field.Element, bool) {
	if len(data) != gfr.Bytes {
		return nil, false
	}
	be := make([]byte, len(data))
	for i := range data {
		be[i] = data[len(data)-1-i]
	}
	var v big.Int
	v.SetBytes(be)
	mod := gfr.Modulus()
	if v.Cmp(mod) >= 0 {
		return nil, false
	}
	var r Element
	r.v.SetBigInt(&v)
	return r, true
}

func (f Field) FromUniformBytes(buf *[64]byte) field.Element {
	le := func(b []byte) *big.Int {
		be := make([]byte, len(b))
		for i := range b {
			be[i] = b[len(b)-1-i]
		}
		return new(big.Int).SetBytes(be)
	}
	var r Element
	r.v.SetBigInt(le(buf[:32]))
	var hiElem Element
	hiElem.v.SetBigInt(le(buf[32:]))
	shifted := f.shiftedHalf(hiElem)
	r.v.Add(&r.v, &shifted.(Element).v)
	return r
}

// shiftedHalf multiplies by 2^256 mod p so the high 32 bytes of a uniform
// 64-byte buffer contribute as the upper half of one 512-bit little-endian
// integer, which is then reduced modulo p.
func (Field) shiftedHalf(e Element) field.Element {
	shift := new(big.Int).Lsh(big.NewInt(1), 256)
	var shiftElem Element
	shiftElem.v.SetBigInt(shift)
	return e.Mul(shiftElem)
}
