package poseidon

import "github.com/vybium/vybium-poseidon/field"

// capacityTag returns the initial value of s_0 for a given sponge mode.
// Variable-length uses 2^64; constant-length folds the arity into the high
// bits so hashers of different arity never collide; Merkle mode uses a
// fixed non-zero constant distinct from both.
func capacityTag(f field.Field, mode tagMode, arity int) field.Element {
	switch mode {
	case tagVariableLength:
		return shl64One(f)
	case tagConstantLength:
		base := shl64One(f)
		lenTerm := f.FromUint64(uint64(arity))
		lenTerm = lenTerm.Mul(shl64One(f))
		return base.Add(lenTerm)
	case tagMerkle:
		return merkleTag(f)
	default:
		panic("poseidon: unknown domain tag mode")
	}
}

type tagMode int

const (
	tagVariableLength tagMode = iota
	tagConstantLength
	tagMerkle
)

// shl64One returns 2^64 as a field element, the variable-length tag and
// the building block for the constant-length tag's arity term.
func shl64One(f field.Field) field.Element {
	two := f.FromUint64(2)
	return field.Pow(f, two, 64)
}

// merkleTag is a fixed non-zero constant distinct from the variable-length
// and constant-length tag families (2^64 itself and (LEN+1)·2^64, always
// multiples of 2^64); chosen as 2^64 - 1 here and frozen for interop.
func merkleTag(f field.Field) field.Element {
	return shl64One(f).Sub(f.One())
}

// State is the length-T working vector the permutation mutates in place.
// Lane 0 is the capacity lane; lanes 1..T are the rate lanes.
type State struct {
	f      field.Field
	t      int
	values []field.Element
}

// NewState builds a zero state of width t.
func NewState(f field.Field, t int) *State {
	values := make([]field.Element, t)
	for i := range values {
		values[i] = f.Zero()
	}
	return &State{f: f, t: t, values: values}
}

func newTaggedState(f field.Field, t int, mode tagMode, arity int) *State {
	s := NewState(f, t)
	s.values[0] = capacityTag(f, mode, arity)
	return s
}

// Words returns a copy of the state's lanes.
func (s *State) Words() []field.Element {
	out := make([]field.Element, s.t)
	copy(out, s.values)
	return out
}

// Result is the sponge output lane, s_1.
func (s *State) Result() field.Element { return s.values[1] }

// SetWord overwrites lane i, for callers driving the permutation directly
// rather than through one of the sponge collaborators.
func (s *State) SetWord(i int, v field.Element) { s.values[i] = v }

// AddConstants adds a length-T vector to every lane.
func (s *State) AddConstants(c []field.Element) {
	for i := range s.values {
		s.values[i] = s.values[i].Add(c[i])
	}
}

// AddConstant adds a scalar to lane 0 only, used during partial rounds with
// the optimized constant schedule.
func (s *State) AddConstant(c field.Element) {
	s.values[0] = s.values[0].Add(c)
}

// SboxFull raises every lane to the fifth power.
func (s *State) SboxFull() {
	for i, e := range s.values {
		s.values[i] = sbox5(e)
	}
}

// SboxPart raises lane 0 only to the fifth power.
func (s *State) SboxPart() {
	s.values[0] = sbox5(s.values[0])
}

func sbox5(e field.Element) field.Element {
	sq := e.Square()
	return sq.Square().Mul(e)
}
