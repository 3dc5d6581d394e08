package poseidon

import "github.com/vybium/vybium-poseidon/field"

// VarLenHasher is the variable-length absorb/squeeze sponge. Inputs are
// buffered until a full RATE-sized chunk accumulates, then permuted;
// squeeze appends a one-element sentinel before the final permutation so
// that inputs of different lengths never collide.
type VarLenHasher struct {
	spec      *Spec
	state     *State
	absorbing []field.Element
}

// NewVarLenHasher constructs a cleared variable-length hasher for spec.
func NewVarLenHasher(spec *Spec) *VarLenHasher {
	return &VarLenHasher{
		spec:  spec,
		state: newTaggedState(spec.f, spec.t, tagVariableLength, 0),
	}
}

// Update appends elements to the absorb buffer, absorbing and permuting
// every full RATE-sized chunk so that fewer than RATE elements remain.
func (h *VarLenHasher) Update(elements []field.Element) {
	h.absorbing = append(h.absorbing, elements...)
	rate := h.spec.rate
	for len(h.absorbing) >= rate {
		for i, e := range h.absorbing[:rate] {
			h.state.values[i+1] = h.state.values[i+1].Add(e)
		}
		h.spec.Permute(h.state)
		h.absorbing = h.absorbing[rate:]
	}
}

// Squeeze flushes the absorb buffer, returning the single output element.
//
// Mirrors chunks(RATE) over the absorb buffer exactly, including its
// empty-input edge case: an empty buffer produces zero chunks, so
// paddingOffset never gets set by the loop and the trailing
// finalizePadding call fires unconditionally.
func (h *VarLenHasher) Squeeze() field.Element {
	rate := h.spec.rate
	input := h.absorbing
	paddingOffset := 0

	for start := 0; start < len(input); start += rate {
		end := start + rate
		if end > len(input) {
			end = len(input)
		}
		chunk := append([]field.Element(nil), input[start:end]...)
		paddingOffset = rate - len(chunk)
		if paddingOffset > 0 {
			chunk = append(chunk, h.spec.f.One())
		}
		for i, e := range chunk {
			h.state.values[i+1] = h.state.values[i+1].Add(e)
		}
		h.spec.Permute(h.state)
	}

	h.finalizePadding(paddingOffset == 0)
	return h.finalize()
}

// finalizePadding performs one more permutation carrying the domain
// separator when the last absorbed chunk exactly filled the rate, so the
// sentinel always lands somewhere in the permuted state.
func (h *VarLenHasher) finalizePadding(mustPerform bool) {
	if mustPerform {
		h.state.values[1] = h.state.values[1].Add(h.spec.f.One())
		h.spec.Permute(h.state)
	}
}

func (h *VarLenHasher) finalize() field.Element {
	h.absorbing = nil
	return h.state.Result()
}
