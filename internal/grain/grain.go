// Package grain implements the Grain-80 LFSR used to deterministically
// derive Poseidon's round constants and Cauchy MDS seed vectors from a
// handful of small integer parameters, so large precomputed constant
// tables never need to ship with the library.
package grain

import (
	"github.com/vybium/vybium-poseidon/field"
)

const (
	fieldType = 1 // prime field
	sboxType  = 0 // x^5 (and only x^5 is supported)
)

// LFSR is a Grain-80 bit generator seeded from a Poseidon parameter set.
type LFSR struct {
	bits [80]bool
	f    field.Field
}

// New seeds and warms up a Grain LFSR for the given field and round
// parameters, following Supplementary Material Section F of
// https://eprint.iacr.org/2019/458.pdf.
func New(f field.Field, t, rf, rp int) *LFSR {
	g := &LFSR{f: f}
	pos := 0
	appendBits(g.bits[:], &pos, 2, uint64(fieldType))
	appendBits(g.bits[:], &pos, 4, uint64(sboxType))
	appendBits(g.bits[:], &pos, 12, uint64(f.NumBits()))
	appendBits(g.bits[:], &pos, 12, uint64(t))
	appendBits(g.bits[:], &pos, 10, uint64(rf))
	appendBits(g.bits[:], &pos, 10, uint64(rp))
	appendBits(g.bits[:], &pos, 30, (1<<30)-1)
	if pos != 80 {
		panic("grain: seed construction did not fill 80 bits")
	}

	for i := 0; i < 160; i++ {
		g.newBit()
	}
	return g
}

// appendBits writes the low n bits of v into dst starting at *pos, MSB
// first, and advances *pos by n.
func appendBits(dst []bool, pos *int, n int, v uint64) {
	for i := n - 1; i >= 0; i-- {
		dst[*pos] = (v>>uint(i))&1 != 0
		*pos++
	}
}

// newBit advances the LFSR by one step and returns the fed-back bit,
// per Section F Step 2: feedback taps at positions 0, 13, 23, 38, 51, 62.
func (g *LFSR) newBit() bool {
	newBit := g.bits[0] != g.bits[62]
	newBit = newBit != g.bits[51]
	newBit = newBit != g.bits[38]
	newBit = newBit != g.bits[23]
	newBit = newBit != g.bits[13]

	copy(g.bits[:79], g.bits[1:])
	g.bits[79] = newBit
	return newBit
}

// nextBit implements the Grain iterator's bit-extraction rule: discard
// bit pairs starting with 0, then return the bit immediately following
// the first 1.
func (g *LFSR) nextBit() bool {
	for !g.newBit() {
		g.newBit()
	}
	return g.newBit()
}

// writeBits draws n logical bits and places them MSB-first into dst,
// matching the reference implementation's "interpret bits as a big-endian
// repr though the field itself is little-endian" convention.
func (g *LFSR) writeBits(dst []byte, n int) {
	for i := 0; i < n; i++ {
		bit := g.nextBit()
		idx := n - 1 - i
		if bit {
			dst[idx/8] |= 1 << uint(idx%8)
		}
	}
}

// NextFieldElement draws a rejection-sampled, uniformly distributed field
// element: redraw whenever the bit pattern doesn't decode to a canonical
// representative.
func (g *LFSR) NextFieldElement() field.Element {
	n := g.f.NumBits()
	byteLen := g.f.ByteLen()
	for {
		buf := make([]byte, byteLen)
		g.writeBits(buf, n)
		if e, ok := g.f.FromRepr(buf); ok {
			return e
		}
	}
}

// NextFieldElementWithoutRejection draws a field element without rejection
// sampling, used only for the Cauchy MDS seed vectors where uniformity of
// the constant doesn't carry security weight the way round constants do.
func (g *LFSR) NextFieldElementWithoutRejection() field.Element {
	n := g.f.NumBits()
	var buf [64]byte
	g.writeBits(buf[:], n)
	return g.f.FromUniformBytes(&buf)
}

// Parameters bundles the outputs Spec construction needs from one Grain
// run: the per-round constant vectors and the two Cauchy seed vectors.
type Parameters struct {
	RoundConstants [][]field.Element // length rf+rp, each of length t
	XS, YS         []field.Element   // length t, for the Cauchy MDS matrix
}

// Generate runs a full Grain derivation for T-width Poseidon with rf full
// rounds and rp partial rounds.
func Generate(f field.Field, t, rf, rp int) Parameters {
	if t < 2 {
		panic("grain: T must be at least 2")
	}
	if rf%2 != 0 {
		panic("grain: R_F must be even")
	}
	g := New(f, t, rf, rp)

	totalRounds := rf + rp
	constants := make([][]field.Element, totalRounds)
	for r := 0; r < totalRounds; r++ {
		row := make([]field.Element, t)
		for i := 0; i < t; i++ {
			row[i] = g.NextFieldElement()
		}
		constants[r] = row
	}

	xs := make([]field.Element, t)
	for i := range xs {
		xs[i] = g.NextFieldElementWithoutRejection()
	}
	ys := make([]field.Element, t)
	for i := range ys {
		ys[i] = g.NextFieldElementWithoutRejection()
	}

	return Parameters{RoundConstants: constants, XS: xs, YS: ys}
}
