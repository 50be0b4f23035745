package prove

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
)

// DfsProver expands the proof graph depth-first from the start state,
// crediting each visited state with the probability of the path that
// reached it. Reset edges are not followed. A branch stops at MaxDepth,
// at a dead end, or once its path probability falls below Epsilon.
type DfsProver struct {
	Base
}

// NewDfsProver creates a depth-limited prover.
func NewDfsProver(opts Options) *DfsProver {
	return &DfsProver{Base: newBase(opts)}
}

func (p *DfsProver) Copy() Prover {
	return &DfsProver{Base: p.Base}
}

func (p *DfsProver) SolvedQueries(pg ProofGraph) (map[Query]float64, error) {
	return SolvedQueries(p, pg)
}

func (p *DfsProver) Solutions(pg ProofGraph) (map[string]float64, error) {
	return Solutions(p, pg)
}

func (p *DfsProver) Prove(pg ProofGraph) (Distribution, error) {
	ans := make(Distribution)
	if err := p.visit(pg, pg.Start(), 1.0, 0, ans); err != nil {
		return nil, err
	}
	return ans, nil
}

func (p *DfsProver) visit(pg ProofGraph, s State, w float64, depth int, ans Distribution) error {
	ans[s] += w
	if depth >= p.apr.MaxDepth || w < p.apr.Epsilon {
		return nil
	}

	steps, err := p.transitions(pg, s, walkNoReset)
	if errors.Is(err, internalerr.ErrNoOutlinks) {
		p.log.Debug("dead end", zap.Any("state", s), zap.Int("depth", depth))
		return nil
	}
	if err != nil {
		return err
	}

	for _, st := range steps {
		if err := p.visit(pg, st.child, w*st.p, depth+1, ans); err != nil {
			return err
		}
	}
	return nil
}
