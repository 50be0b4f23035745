package weight

import (
	"math"
	"testing"
)

func TestSchemeInverse(t *testing.T) {
	for _, name := range SchemeNames() {
		s, err := SchemeByName(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, x := range []float64{-0.7, 0.1, 0.5, 2} {
			if name == "relu" && x < 0 {
				continue
			}
			y := s.EdgeWeight(x)
			if got := s.Inverse(y); math.Abs(got-x) > 1e-9 {
				t.Errorf("%s: Inverse(EdgeWeight(%v)) = %v", name, x, got)
			}
		}
	}
}

func TestSchemeInverseOutOfRange(t *testing.T) {
	if !math.IsNaN(Sigmoid{}.Inverse(1.5)) {
		t.Error("sigmoid inverse of 1.5 should be NaN")
	}
	if !math.IsNaN(Tanh{}.Inverse(-1)) {
		t.Error("tanh inverse of -1 should be NaN")
	}
	if !math.IsInf(Exp{}.Inverse(0), -1) {
		t.Error("exp inverse of 0 should be -Inf")
	}
}

func TestSchemeByNameUnknown(t *testing.T) {
	if _, err := SchemeByName("softmax"); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestFeatureDictWeighter(t *testing.T) {
	w := New(Exp{}, map[string]float64{"r1": 2, "r2": -1})

	fd := FeatureDict{"r1": 0.5, "r2": 1, "unknown": 3}
	// exp(2*0.5 + -1*1 + 0*3)
	if got := w.Weight(fd); math.Abs(got-1) > 1e-12 {
		t.Errorf("Weight = %v, want 1", got)
	}

	if theta, ok := w.Coefficient("r1"); !ok || theta != 2 {
		t.Errorf("Coefficient(r1) = %v, %v", theta, ok)
	}
	if _, ok := w.Coefficient("unknown"); ok {
		t.Error("Coefficient(unknown) should be absent")
	}
}

func TestUniform(t *testing.T) {
	w := Uniform()
	if got := w.Weight(FeatureDict{"a": 1, "b": 0.5}); got != 1.5 {
		t.Errorf("Weight = %v, want 1.5", got)
	}
	if w.DefaultWeight() != 1 {
		t.Errorf("DefaultWeight = %v, want 1", w.DefaultWeight())
	}
}

func TestNewCopiesTable(t *testing.T) {
	table := map[string]float64{"a": 1}
	w := New(Linear{}, table)
	table["a"] = 5

	if theta, _ := w.Coefficient("a"); theta != 1 {
		t.Errorf("weighter shares caller's table: theta = %v", theta)
	}

	params := w.Params()
	params["a"] = 9
	if theta, _ := w.Coefficient("a"); theta != 1 {
		t.Errorf("Params leaks internal table: theta = %v", theta)
	}
}

func TestFeatureDictClone(t *testing.T) {
	fd := FeatureDict{"a": 1}
	cp := fd.Clone()
	cp["a"] = 2
	if fd["a"] != 1 {
		t.Error("Clone shares storage")
	}
}
