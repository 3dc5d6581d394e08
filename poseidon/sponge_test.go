package poseidon

import (
	"testing"

	"github.com/vybium/vybium-poseidon/field"
	"github.com/vybium/vybium-poseidon/field/bn254fr"
)

func TestHasherDeterministicAndArityChecked(t *testing.T) {
	f := bn254fr.Field{}
	spec := NewSpec(f, 3, 8, 57)
	inputs := []field.Element{f.FromUint64(1), f.FromUint64(2), f.FromUint64(3), f.FromUint64(4)}

	a := NewHasher(spec, len(inputs)).Hash(inputs)
	b := NewHasher(spec, len(inputs)).Hash(inputs)
	if !a.Equal(b) {
		t.Error("constant-length hash should be deterministic")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic hashing the wrong arity")
		}
	}()
	NewHasher(spec, len(inputs)+1).Hash(inputs)
}

func TestHasherDiffersFromVarLenAndMerkle(t *testing.T) {
	f := bn254fr.Field{}
	spec := NewSpec(f, 3, 8, 57)
	inputs := []field.Element{f.FromUint64(1), f.FromUint64(2)}

	fixed := NewHasher(spec, len(inputs)).Hash(inputs)

	varLen := NewVarLenHasher(spec)
	varLen.Update(inputs)
	variable := varLen.Squeeze()

	if fixed.Equal(variable) {
		t.Error("constant-length and variable-length domain tags should diverge on the same input")
	}

	merkle := NewMerkleHasher(spec).Hash(inputs)
	if fixed.Equal(merkle) || variable.Equal(merkle) {
		t.Error("merkle domain tag should diverge from constant-length and variable-length on the same input")
	}
}

func TestVarLenHasherEmptyInput(t *testing.T) {
	f := bn254fr.Field{}
	spec := NewSpec(f, 3, 8, 57)

	h := NewVarLenHasher(spec)
	h.Update(nil)
	out := h.Squeeze()

	other := NewVarLenHasher(spec)
	other.Update(nil)
	again := other.Squeeze()

	if !out.Equal(again) {
		t.Error("squeezing the empty input twice should be deterministic")
	}
}

func TestVarLenHasherRateAlignedInput(t *testing.T) {
	f := bn254fr.Field{}
	spec := NewSpec(f, 3, 8, 57)
	rate := spec.Rate()

	inputs := make([]field.Element, rate)
	for i := range inputs {
		inputs[i] = f.FromUint64(uint64(i + 1))
	}

	h := NewVarLenHasher(spec)
	h.Update(inputs)
	a := h.Squeeze()

	h2 := NewVarLenHasher(spec)
	h2.Update(inputs)
	b := h2.Squeeze()

	if !a.Equal(b) {
		t.Error("a rate-aligned absorb should still be deterministic across the padding finalization step")
	}
}

func TestVarLenHasherDistinguishesLengths(t *testing.T) {
	f := bn254fr.Field{}
	spec := NewSpec(f, 3, 8, 57)

	short := NewVarLenHasher(spec)
	short.Update([]field.Element{f.FromUint64(1), f.FromUint64(2)})

	long := NewVarLenHasher(spec)
	long.Update([]field.Element{f.FromUint64(1), f.FromUint64(2), f.Zero()})

	if short.Squeeze().Equal(long.Squeeze()) {
		t.Error("appending an explicit trailing zero should not collide with the shorter input's padding")
	}
}

func TestVarLenHasherChunkedEqualsOneShot(t *testing.T) {
	f := bn254fr.Field{}
	spec := NewSpec(f, 3, 8, 57)
	inputs := []field.Element{f.FromUint64(1), f.FromUint64(2), f.FromUint64(3), f.FromUint64(4), f.FromUint64(5)}

	oneShot := NewVarLenHasher(spec)
	oneShot.Update(inputs)
	a := oneShot.Squeeze()

	chunked := NewVarLenHasher(spec)
	chunked.Update(inputs[:2])
	chunked.Update(inputs[2:])
	b := chunked.Squeeze()

	if !a.Equal(b) {
		t.Error("splitting Update calls should not change the squeezed result")
	}
}

func TestMerkleHasherRequiresExactRate(t *testing.T) {
	f := bn254fr.Field{}
	spec := NewSpec(f, 3, 8, 57)
	h := NewMerkleHasher(spec)

	defer func() {
		if recover() == nil {
			t.Error("expected panic hashing the wrong number of children")
		}
	}()
	h.Hash([]field.Element{f.FromUint64(1)})
}

func TestMerkleHasherDeterministicAndOrderSensitive(t *testing.T) {
	f := bn254fr.Field{}
	spec := NewSpec(f, 3, 8, 57)
	h := NewMerkleHasher(spec)

	left, right := f.FromUint64(1), f.FromUint64(2)
	a := h.Hash([]field.Element{left, right})
	b := h.Hash([]field.Element{left, right})
	if !a.Equal(b) {
		t.Error("merkle hash should be deterministic")
	}

	swapped := h.Hash([]field.Element{right, left})
	if a.Equal(swapped) {
		t.Error("merkle hash must be sensitive to child order")
	}
}

func TestMerkleHasherDiffersFromConstantLength(t *testing.T) {
	f := bn254fr.Field{}
	spec := NewSpec(f, 3, 8, 57)
	children := []field.Element{f.FromUint64(7), f.FromUint64(9)}

	merkle := NewMerkleHasher(spec).Hash(children)
	fixed := NewHasher(spec, len(children)).Hash(children)

	if merkle.Equal(fixed) {
		t.Error("merkle and constant-length domain tags should diverge on the same input")
	}
}
