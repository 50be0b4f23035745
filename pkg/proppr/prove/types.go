package prove

import "github.com/cognicore/proppr/pkg/proppr/weight"

// Reserved feature keys.
const (
	// AlphaBooster marks the reset edge. Its strength is rewritten on each
	// normalization so that the realized restart probability equals alpha.
	AlphaBooster = "id(alphaBooster)"
	TrueLoop     = "id(trueLoop)"
)

// State is a node of a proof graph. Implementations must be comparable.
type State interface {
	// Completed reports whether the state is a proof terminus.
	Completed() bool
}

// Query is a goal with its variables filled in from a completed state.
// Implementations must be comparable.
type Query interface {
	String() string
}

// Binding is one variable assignment of a completed state.
type Binding struct {
	Var   string
	Value string
}

// Outlink is a directed edge to Child. Graphs hand out fresh outlinks on
// every call; provers rewrite Features and Wt freely.
type Outlink struct {
	Child    State
	Features weight.FeatureDict
	Wt       float64
}

// IsReset reports whether o is the distinguished restart edge.
func (o *Outlink) IsReset() bool {
	_, ok := o.Features[AlphaBooster]
	return ok
}

// Distribution maps states to non-negative weights.
type Distribution map[State]float64

// Total sums all weights.
func (d Distribution) Total() float64 {
	z := 0.0
	for _, w := range d {
		z += w
	}
	return z
}

// ProofGraph is the derivation graph of one query.
type ProofGraph interface {
	// Start is the root state of the derivation.
	Start() State
	// Outlinks lists the edges leaving s. When includeTrueLoop is set a
	// completed state also carries a self edge.
	Outlinks(s State, includeTrueLoop bool) ([]*Outlink, error)
	// Fill reconstructs the query answered by a completed state.
	Fill(s State) (Query, error)
	// AsDict returns the variable bindings of s in declared order.
	AsDict(s State) ([]Binding, error)
}

// EdgeWeighter maps an edge's features to a scalar weight.
type EdgeWeighter interface {
	Weight(fd weight.FeatureDict) float64
	InverseWeight(y float64) float64
	DefaultWeight() float64
	// Coefficient returns the learned coefficient of a feature, if any.
	Coefficient(feature string) (float64, bool)
}
