package prove

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
)

// fixedProver returns a canned distribution.
type fixedProver struct {
	Base
	ans Distribution
	err error
}

func (p *fixedProver) Prove(ProofGraph) (Distribution, error) { return p.ans, p.err }
func (p *fixedProver) Copy() Prover                             { cp := *p; return &cp }
func (p *fixedProver) SolvedQueries(pg ProofGraph) (map[Query]float64, error) {
	return SolvedQueries(p, pg)
}
func (p *fixedProver) Solutions(pg ProofGraph) (map[string]float64, error) {
	return Solutions(p, pg)
}

func TestSolutionsUnderNormalized(t *testing.T) {
	completedA := fakeState{name: "A", done: true}
	completedADup := fakeState{name: "A-dup", done: true}
	incompleteX := fakeState{name: "X"}

	g := &fakeGraph{
		bindings: map[fakeState][]Binding{
			completedA:    {{Var: "X", Value: "bob"}, {Var: "Y", Value: "sue"}},
			completedADup: {{Var: "X", Value: "bob"}, {Var: "Y", Value: "sue"}},
		},
	}
	p := &fixedProver{ans: Distribution{completedA: 0.3, completedADup: 0.1, incompleteX: 0.6}}

	sols, err := p.Solutions(g)
	require.NoError(t, err)

	require.Len(t, sols, 1)
	assert.InDelta(t, 0.4, sols["X=bob Y=sue"], 1e-12)

	total := 0.0
	for _, v := range sols {
		total += v
	}
	assert.InDelta(t, 0.4, total, 1e-12, "mass on incomplete derivations is not redistributed")
}

func TestSolutionsNormalizesByAllStates(t *testing.T) {
	s1 := fakeState{name: "s1", done: true}
	s2 := fakeState{name: "s2", done: true}
	g := &fakeGraph{
		bindings: map[fakeState][]Binding{
			s1: {{Var: "X", Value: "a"}},
			s2: {{Var: "X", Value: "b"}},
		},
	}
	p := &fixedProver{ans: Distribution{s1: 2, s2: 1, root: 1}}

	sols, err := p.Solutions(g)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sols["X=a"], 1e-12)
	assert.InDelta(t, 0.25, sols["X=b"], 1e-12)
}

func TestSolutionsEmptyBindings(t *testing.T) {
	done := fakeState{name: "yes", done: true}
	p := &fixedProver{ans: Distribution{done: 1}}

	sols, err := p.Solutions(&fakeGraph{})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"": 1}, sols)
}

func TestSolutionsNoMass(t *testing.T) {
	p := &fixedProver{ans: Distribution{}}
	_, err := p.Solutions(&fakeGraph{})
	assert.ErrorIs(t, err, internalerr.ErrNoSolution)
}

func TestSolutionsPropagatesProveError(t *testing.T) {
	p := &fixedProver{err: errFake}

	_, err := p.Solutions(&fakeGraph{})
	assert.ErrorIs(t, err, errFake)

	_, err = p.SolvedQueries(&fakeGraph{})
	assert.ErrorIs(t, err, errFake)
}

func TestSolvedQueries(t *testing.T) {
	s1 := fakeState{name: "p(a)", done: true}
	s2 := fakeState{name: "p(b)", done: true}
	p := &fixedProver{ans: Distribution{s1: 0.3, s2: 0.1, root: 0.6}}

	solved, err := p.SolvedQueries(&fakeGraph{})
	require.NoError(t, err)

	assert.Equal(t, map[Query]float64{fakeQuery("p(a)"): 0.3, fakeQuery("p(b)"): 0.1}, solved)
}

func TestBindingString(t *testing.T) {
	assert.Equal(t, "", BindingString(nil))
	assert.Equal(t, "X=a", BindingString([]Binding{{"X", "a"}}))
	assert.Equal(t, "Y=b X=a", BindingString([]Binding{{"Y", "b"}, {"X", "a"}}), "declared order is kept")
}
