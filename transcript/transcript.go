// Package transcript implements a Fiat-Shamir transcript over an
// elliptic curve, built on the variable-length Poseidon sponge: points
// and scalars are absorbed behind a one-element domain tag, and
// challenges are produced by squeezing.
package transcript

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/holiman/uint256"

	"github.com/vybium/vybium-poseidon/field"
	"github.com/vybium/vybium-poseidon/field/bn254fr"
	"github.com/vybium/vybium-poseidon/poseidon"
)

// Domain tags distinguishing what kind of payload is being absorbed,
// so a challenge, a point, and a scalar can never collide in the
// transcript even if their payload happens to coincide.
var (
	tagChallenge = bn254fr.Field{}.FromUint64(0)
	tagPoint     = bn254fr.Field{}.FromUint64(1)
	tagScalar    = bn254fr.Field{}.FromUint64(2)
)

// PointEncoder maps a curve point onto a slice of scalar-field elements
// to be absorbed into the transcript.
type PointEncoder interface {
	Encode(point bn254.G1Affine) ([]field.Element, error)
}

// LimbRepresentation decomposes the point's base-field x-coordinate into
// NumberOfLimbs limbs of BitLen bits each (little-endian), then appends
// one scalar carrying the sign (parity) of y. This avoids ever reducing
// the base-field coordinate modulo the (different) scalar-field order.
type LimbRepresentation struct {
	NumberOfLimbs int
	BitLen        int
}

// Encode implements PointEncoder.
func (l LimbRepresentation) Encode(point bn254.G1Affine) ([]field.Element, error) {
	if point.IsInfinity() {
		return nil, fmt.Errorf("transcript: cannot encode point at infinity")
	}

	x := new(big.Int)
	point.X.BigInt(x)
	y := new(big.Int)
	point.Y.BigInt(y)

	limbs, err := decomposeBig(x, l.NumberOfLimbs, l.BitLen)
	if err != nil {
		return nil, err
	}

	sign := y.Bit(0) == 0
	f := bn254fr.Field{}
	if sign {
		limbs = append(limbs, f.One())
	} else {
		limbs = append(limbs, f.Zero())
	}
	return limbs, nil
}

// decomposeBig splits e into numberOfLimbs limbs of bitLen bits each,
// least-significant limb first, using a uint256 accumulator since every
// bn254 field element fits comfortably within 256 bits.
func decomposeBig(e *big.Int, numberOfLimbs, bitLen int) ([]field.Element, error) {
	if bitLen <= 0 || bitLen > 256 {
		return nil, fmt.Errorf("transcript: bit length %d out of range", bitLen)
	}
	acc := new(uint256.Int).SetBytes(e.Bytes())
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), uint(bitLen))
	mask.Sub(mask, uint256.NewInt(1))

	f := bn254fr.Field{}
	limbs := make([]field.Element, numberOfLimbs)
	for i := 0; i < numberOfLimbs; i++ {
		limb := new(uint256.Int).And(acc, mask)
		limbs[i] = f.FromBigInt(limb.ToBig())
		acc.Rsh(acc, uint(bitLen))
	}
	return limbs, nil
}

// NativeRepresentation reinterprets x and y modulo the scalar-field
// order directly. Unsafe if the base and scalar moduli happen to admit
// a collision across the values actually used; provided for
// completeness, not recommended.
type NativeRepresentation struct{}

// Encode implements PointEncoder.
func (NativeRepresentation) Encode(point bn254.G1Affine) ([]field.Element, error) {
	if point.IsInfinity() {
		return nil, fmt.Errorf("transcript: cannot encode point at infinity")
	}
	x := new(big.Int)
	point.X.BigInt(x)
	y := new(big.Int)
	point.Y.BigInt(y)

	f := bn254fr.Field{}
	return []field.Element{f.FromBigInt(x), f.FromBigInt(y)}, nil
}

// Transcript absorbs protocol messages and produces Fiat-Shamir
// challenges via a Poseidon sponge over the curve's scalar field.
type Transcript struct {
	hasher  *poseidon.VarLenHasher
	encoder PointEncoder
}

// New constructs a transcript for the given spec (whose field must be
// the curve's scalar field) and point-encoding policy.
func New(spec *poseidon.Spec, encoder PointEncoder) *Transcript {
	return &Transcript{
		hasher:  poseidon.NewVarLenHasher(spec),
		encoder: encoder,
	}
}

// SqueezeChallenge absorbs the challenge domain tag and squeezes one
// field element. Squeezing advances the sponge state, so subsequent
// absorptions and challenges are bound to everything that came before.
func (t *Transcript) SqueezeChallenge() field.Element {
	t.hasher.Update([]field.Element{tagChallenge})
	return t.hasher.Squeeze()
}

// CommonPoint absorbs point's domain tag followed by its encoding.
func (t *Transcript) CommonPoint(point bn254.G1Affine) error {
	encoded, err := t.encoder.Encode(point)
	if err != nil {
		return err
	}
	t.hasher.Update([]field.Element{tagPoint})
	t.hasher.Update(encoded)
	return nil
}

// CommonScalar absorbs scalar's domain tag followed by the scalar
// itself.
func (t *Transcript) CommonScalar(scalar field.Element) {
	t.hasher.Update([]field.Element{tagScalar})
	t.hasher.Update([]field.Element{scalar})
}

// Reader reads points and scalars off an io.Reader, committing each to
// the transcript as it is consumed.
type Reader struct {
	transcript *Transcript
	r          io.Reader
}

// NewReader wraps r in a Reader bound to transcript.
func NewReader(transcript *Transcript, r io.Reader) *Reader {
	return &Reader{transcript: transcript, r: r}
}

// ReadPoint decompresses a point from the reader's canonical compressed
// form and commits it to the transcript.
func (pr *Reader) ReadPoint() (bn254.G1Affine, error) {
	var compressed [32]byte
	if _, err := io.ReadFull(pr.r, compressed[:]); err != nil {
		return bn254.G1Affine{}, fmt.Errorf("transcript: short read for point: %w", err)
	}
	var point bn254.G1Affine
	if _, err := point.SetBytes(compressed[:]); err != nil {
		return bn254.G1Affine{}, fmt.Errorf("transcript: invalid point encoding: %w", err)
	}
	if err := pr.transcript.CommonPoint(point); err != nil {
		return bn254.G1Affine{}, err
	}
	return point, nil
}

// ReadScalar reads a canonical little-endian scalar and commits it.
func (pr *Reader) ReadScalar(f field.Field) (field.Element, error) {
	data := make([]byte, f.ByteLen())
	if _, err := io.ReadFull(pr.r, data); err != nil {
		return nil, fmt.Errorf("transcript: short read for scalar: %w", err)
	}
	scalar, ok := f.FromRepr(data)
	if !ok {
		return nil, fmt.Errorf("transcript: invalid field element encoding")
	}
	pr.transcript.CommonScalar(scalar)
	return scalar, nil
}

// SqueezeChallenge delegates to the underlying transcript.
func (pr *Reader) SqueezeChallenge() field.Element { return pr.transcript.SqueezeChallenge() }

// Writer writes points and scalars to an io.Writer, committing each to
// the transcript as it is produced.
type Writer struct {
	transcript *Transcript
	w          io.Writer
}

// NewWriter wraps w in a Writer bound to transcript.
func NewWriter(transcript *Transcript, w io.Writer) *Writer {
	return &Writer{transcript: transcript, w: w}
}

// WritePoint commits point to the transcript, then writes its canonical
// compressed form.
func (pw *Writer) WritePoint(point bn254.G1Affine) error {
	if err := pw.transcript.CommonPoint(point); err != nil {
		return err
	}
	compressed := point.Bytes()
	_, err := pw.w.Write(compressed[:])
	return err
}

// WriteScalar commits scalar to the transcript, then writes its
// canonical little-endian encoding.
func (pw *Writer) WriteScalar(scalar field.Element) error {
	pw.transcript.CommonScalar(scalar)
	_, err := pw.w.Write(scalar.Bytes())
	return err
}

// SqueezeChallenge delegates to the underlying transcript.
func (pw *Writer) SqueezeChallenge() field.Element { return pw.transcript.SqueezeChallenge() }
