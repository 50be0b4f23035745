package prove

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/cognicore/proppr/pkg/proppr/densevec"
	"github.com/cognicore/proppr/pkg/proppr/internalerr"
)

// PprProver approximates personalized PageRank by power iteration. Each
// step moves every state's mass along its restart-corrected transitions;
// iteration stops after MaxDepth steps or once the L1 change drops below
// Epsilon. Mass reaching a dead end restarts at the start state.
type PprProver struct {
	Base
}

// NewPprProver creates a power-iteration prover.
func NewPprProver(opts Options) *PprProver {
	return &PprProver{Base: newBase(opts)}
}

func (p *PprProver) Copy() Prover {
	return &PprProver{Base: p.Base}
}

func (p *PprProver) SolvedQueries(pg ProofGraph) (map[Query]float64, error) {
	return SolvedQueries(p, pg)
}

func (p *PprProver) Solutions(pg ProofGraph) (map[string]float64, error) {
	return Solutions(p, pg)
}

type edge struct {
	to int
	p  float64
}

func (p *PprProver) Prove(pg ProofGraph) (Distribution, error) {
	idx := newStateIndex()
	start := idx.id(pg.Start())
	// per-state transitions, filled lazily; an empty slice marks a dead end
	cache := densevec.NewObjVector[[]edge]()

	cur := densevec.NewFloatVector(0)
	cur.Set(start, 1.0)

	iter, delta := 0, math.Inf(1)
	for iter < p.apr.MaxDepth && delta >= p.apr.Epsilon {
		next := densevec.NewFloatVector(idx.size())
		for u := 0; u < cur.Size(); u++ {
			mass := cur.Get(u)
			if mass == 0 {
				continue
			}
			edges, err := p.edgesOf(pg, idx, cache, u)
			if err != nil {
				return nil, err
			}
			if len(edges) == 0 {
				next.Inc(start, mass)
				continue
			}
			for _, e := range edges {
				next.Inc(e.to, mass*e.p)
			}
		}
		delta = l1(cur, next)
		cur = next
		iter++
	}

	p.log.Debug("ppr finished",
		zap.Int("iterations", iter),
		zap.Float64("delta", delta),
		zap.Int("states", idx.size()))

	ans := make(Distribution, cur.Size())
	for u := 0; u < cur.Size(); u++ {
		if w := cur.Get(u); w > 0 {
			ans[idx.state(u)] = w
		}
	}
	return ans, nil
}

func (p *PprProver) edgesOf(pg ProofGraph, idx *stateIndex, cache *densevec.ObjVector[[]edge], u int) ([]edge, error) {
	if edges, ok := cache.Lookup(u); ok {
		return edges, nil
	}
	s := idx.state(u)
	steps, err := p.transitions(pg, s, walkRestart)
	if errors.Is(err, internalerr.ErrNoOutlinks) {
		p.log.Debug("dead end, restarting", zap.Any("state", s))
		cache.Set(u, []edge{})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	edges := make([]edge, len(steps))
	for i, st := range steps {
		edges[i] = edge{to: idx.id(st.child), p: st.p}
	}
	cache.Set(u, edges)
	return edges, nil
}

func l1(a, b *densevec.FloatVector) float64 {
	n := max(a.Size(), b.Size())
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += math.Abs(a.Get(i) - b.Get(i))
	}
	return sum
}

// stateIndex numbers the states met during one proof.
type stateIndex struct {
	ids    map[State]int
	states *densevec.ObjVector[State]
}

func newStateIndex() *stateIndex {
	return &stateIndex{
		ids:    make(map[State]int),
		states: densevec.NewObjVector[State](),
	}
}

func (x *stateIndex) id(s State) int {
	if i, ok := x.ids[s]; ok {
		return i
	}
	i := len(x.ids)
	x.ids[s] = i
	x.states.Set(i, s)
	return i
}

func (x *stateIndex) state(i int) State {
	return x.states.Get(i)
}

func (x *stateIndex) size() int {
	return len(x.ids)
}
