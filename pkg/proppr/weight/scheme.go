package weight

import (
	"fmt"
	"math"
	"sort"
)

// Scheme is a scalar edge-weighting function with a declared inverse.
// A weighter computes EdgeWeight(sum_f theta_f * strength_f) per edge.
type Scheme interface {
	Name() string
	EdgeWeight(x float64) float64
	// Inverse returns the pre-image of y. Outside the function's range the
	// result is not finite.
	Inverse(y float64) float64
	// DefaultWeight is the coefficient used for features without a learned value.
	DefaultWeight() float64
}

// Linear weighs an edge by the raw weighted feature sum.
type Linear struct{}

func (Linear) Name() string                 { return "linear" }
func (Linear) EdgeWeight(x float64) float64 { return x }
func (Linear) Inverse(y float64) float64    { return y }
func (Linear) DefaultWeight() float64       { return 1.0 }

// ReLU clips negative sums to zero. The inverse is the identity on the
// positive range, which is the only range a reset weight can occupy.
type ReLU struct{}

func (ReLU) Name() string                 { return "relu" }
func (ReLU) EdgeWeight(x float64) float64 { return math.Max(0, x) }
func (ReLU) Inverse(y float64) float64    { return y }
func (ReLU) DefaultWeight() float64       { return 1.0 }

// Sigmoid squashes the sum into (0, 1).
type Sigmoid struct{}

func (Sigmoid) Name() string                 { return "sigmoid" }
func (Sigmoid) EdgeWeight(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func (Sigmoid) Inverse(y float64) float64 {
	if y <= 0 || y >= 1 {
		return math.NaN()
	}
	return math.Log(y / (1 - y))
}

func (Sigmoid) DefaultWeight() float64 { return 0.0 }

// Tanh squashes the sum into (-1, 1).
type Tanh struct{}

func (Tanh) Name() string                 { return "tanh" }
func (Tanh) EdgeWeight(x float64) float64 { return math.Tanh(x) }

func (Tanh) Inverse(y float64) float64 {
	if y <= -1 || y >= 1 {
		return math.NaN()
	}
	return math.Atanh(y)
}

func (Tanh) DefaultWeight() float64 { return 0.0 }

// Exp exponentiates the sum.
type Exp struct{}

func (Exp) Name() string                 { return "exp" }
func (Exp) EdgeWeight(x float64) float64 { return math.Exp(x) }
func (Exp) Inverse(y float64) float64    { return math.Log(y) }
func (Exp) DefaultWeight() float64       { return 0.0 }

var schemes = map[string]Scheme{
	Linear{}.Name():  Linear{},
	ReLU{}.Name():    ReLU{},
	Sigmoid{}.Name(): Sigmoid{},
	Tanh{}.Name():    Tanh{},
	Exp{}.Name():     Exp{},
}

// SchemeByName looks up a built-in scheme.
func SchemeByName(name string) (Scheme, error) {
	s, ok := schemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown weighting scheme %q (have %v)", name, SchemeNames())
	}
	return s, nil
}

// SchemeNames lists the built-in schemes in sorted order.
func SchemeNames() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
