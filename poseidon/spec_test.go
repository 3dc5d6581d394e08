package poseidon

import (
	"testing"

	"github.com/vybium/vybium-poseidon/field"
	"github.com/vybium/vybium-poseidon/field/bn254fr"
	"github.com/vybium/vybium-poseidon/internal/grain"
)

func TestSpecDeterministic(t *testing.T) {
	f := bn254fr.Field{}
	a := NewSpec(f, 3, 8, 57)
	b := NewSpec(f, 3, 8, 57)

	for i := range a.consts.Start {
		for j := range a.consts.Start[i] {
			if !a.consts.Start[i][j].Equal(b.consts.Start[i][j]) {
				t.Fatalf("start constants diverged at round %d lane %d", i, j)
			}
		}
	}
	for i := range a.consts.Partial {
		if !a.consts.Partial[i].Equal(b.consts.Partial[i]) {
			t.Fatalf("partial constants diverged at round %d", i)
		}
	}
}

// TestCrossEquivalence checks the optimized permutation against the
// reference (unoptimized) permutation across T in {3..10} with RF=8,
// RP=57, the strongest correctness property the parameter engine has.
func TestCrossEquivalence(t *testing.T) {
	f := bn254fr.Field{}
	const rf, rp = 8, 57

	for t_ := 3; t_ <= 10; t_++ {
		spec := NewSpec(f, t_, rf, rp)

		g := grain.Generate(f, t_, rf, rp)
		mds := cauchy(f, t_, g.XS, g.YS)

		input := make([]field.Element, t_)
		for i := range input {
			input[i] = f.FromUint64(uint64(i + 1))
		}

		optimized := NewState(f, t_)
		copy(optimized.values, input)
		spec.Permute(optimized)

		reference := NewState(f, t_)
		copy(reference.values, input)
		referencePermute(rf, rp, g.RoundConstants, mds, reference)

		for i := 0; i < t_; i++ {
			if !optimized.values[i].Equal(reference.values[i]) {
				t.Fatalf("T=%d: lane %d diverged between optimized and reference permutation", t_, i)
			}
		}
	}
}

// TestBn254Vectors checks the literal test vectors from the hadeshash
// reference suite (poseidonperm_x5_254_3 and poseidonperm_x5_254_5).
func TestBn254Vectors(t *testing.T) {
	f := bn254fr.Field{}

	t.Run("T=3", func(t *testing.T) {
		spec := NewSpec(f, 3, 8, 57)
		s := NewState(f, 3)
		for i, v := range []uint64{0, 1, 2} {
			s.values[i] = f.FromUint64(v)
		}
		spec.Permute(s)

		expected := []string{
			"7853200120776062878684798364095072458815029376092732009249414926327459813530",
			"7142104613055408817911962100316808866448378443474503659992478482890339429929",
			"6549537674122432311777789598043107870002137484850126429160507761192163713804",
		}
		for i, want := range expected {
			if s.values[i].String() != want {
				t.Fatalf("lane %d: got %s, want %s", i, s.values[i].String(), want)
			}
		}
	})

	t.Run("T=5", func(t *testing.T) {
		spec := NewSpec(f, 5, 8, 60)
		s := NewState(f, 5)
		for i, v := range []uint64{0, 1, 2, 3, 4} {
			s.values[i] = f.FromUint64(v)
		}
		spec.Permute(s)

		expected := []string{
			"18821383157269793795438455681495246036402687001665670618754263018637548127333",
			"7817711165059374331357136443537800893307845083525445872661165200086166013245",
			"16733335996448830230979566039396561240864200624113062088822991822580465420551",
			"6644334865470350789317807668685953492649391266180911382577082600917830417726",
			"3372108894677221197912083238087960099443657816445944159266857514496320565191",
		}
		for i, want := range expected {
			if s.values[i].String() != want {
				t.Fatalf("lane %d: got %s, want %s", i, s.values[i].String(), want)
			}
		}
	})
}
