package poseidon

import "github.com/vybium/vybium-poseidon/field"

// Hasher hashes a fixed-arity input to a single output element, with its
// own domain tag distinguishing it from both the variable-length and
// Merkle sponges (spec §6).
type Hasher struct {
	spec *Spec
	len  int
}

// NewHasher constructs a constant-length hasher for inputs of exactly len
// elements.
func NewHasher(spec *Spec, len int) *Hasher {
	return &Hasher{spec: spec, len: len}
}

// Hash absorbs elements (which must have length h.len) in RATE-sized
// chunks, zero-padding a short final chunk, with a full permutation
// between chunks, and returns s_1.
func (h *Hasher) Hash(elements []field.Element) field.Element {
	if len(elements) != h.len {
		panic("poseidon: constant-length hasher called with wrong arity")
	}
	s := newTaggedState(h.spec.f, h.spec.t, tagConstantLength, h.len)
	rate := h.spec.rate

	for start := 0; start < len(elements); start += rate {
		end := start + rate
		if end > len(elements) {
			end = len(elements)
		}
		chunk := elements[start:end]
		for i, e := range chunk {
			s.values[i+1] = s.values[i+1].Add(e)
		}
		h.spec.Permute(s)
	}
	return s.Result()
}
