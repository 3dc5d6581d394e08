package goldilocks

import (
	"testing"

	"github.com/vybium/vybium-poseidon/field"
)

func TestElementBasicOperations(t *testing.T) {
	f := Field{}
	a := f.FromUint64(42)
	b := f.FromUint64(13)

	if sum := a.Add(b); !sum.Equal(f.FromUint64(55)) {
		t.Errorf("addition failed: got %v", sum)
	}
	if diff := a.Sub(b); !diff.Equal(f.FromUint64(29)) {
		t.Errorf("subtraction failed: got %v", diff)
	}
	if prod := a.Mul(b); !prod.Equal(f.FromUint64(42 * 13)) {
		t.Errorf("multiplication failed: got %v", prod)
	}
}

func TestElementInverse(t *testing.T) {
	f := Field{}
	a := f.FromUint64(42)
	inv := a.Inverse()
	if prod := a.Mul(inv); !prod.Equal(f.One()) {
		t.Errorf("a * a^-1 = %v, expected 1", prod)
	}
}

func TestElementInverseZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic inverting zero")
		}
	}()
	Field{}.Zero().Inverse()
}

func TestElementNegation(t *testing.T) {
	f := Field{}
	a := f.FromUint64(42)
	if sum := a.Add(a.Neg()); !sum.IsZero() {
		t.Error("a + (-a) should be zero")
	}
}

func TestElementWrapAround(t *testing.T) {
	f := Field{}
	p := uint64(0xFFFFFFFF00000001)
	almostP := f.FromUint64(p - 1)
	if sum := almostP.Add(f.FromUint64(1)); !sum.IsZero() {
		t.Error("(p-1) + 1 should wrap to zero")
	}
}

func TestFromReprRejectsNonCanonical(t *testing.T) {
	f := Field{}
	data := make([]byte, f.ByteLen())
	for i := range data {
		data[i] = 0xFF
	}
	if _, ok := f.FromRepr(data); ok {
		t.Error("expected FromRepr to reject a value at or above the modulus")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	f := Field{}
	a := f.FromUint64(123456789)
	b, ok := f.FromRepr(a.Bytes())
	if !ok {
		t.Fatal("FromRepr rejected a canonical encoding")
	}
	if !a.Equal(b) {
		t.Error("round trip through Bytes/FromRepr changed the value")
	}
}

func TestFromUniformBytesDeterministic(t *testing.T) {
	f := Field{}
	var buf [64]byte
	for i := range buf {
		buf[i] = byte(i)
	}
	a := f.FromUniformBytes(&buf)
	b := f.FromUniformBytes(&buf)
	if !a.Equal(b) {
		t.Error("FromUniformBytes should be deterministic for the same input")
	}
}

func TestBatchInversion(t *testing.T) {
	f := Field{}
	xs := []field.Element{f.FromUint64(2), f.FromUint64(3), f.FromUint64(5)}
	inverted, err := field.BatchInversion(f, xs)
	if err != nil {
		t.Fatalf("batch inversion failed: %v", err)
	}
	for i, x := range xs {
		if prod := x.Mul(inverted[i]); !prod.Equal(f.One()) {
			t.Errorf("index %d: x * batch-inverse != 1", i)
		}
	}
}
