package prove

import (
	"fmt"
	"strings"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
)

// SolvedQueries proves pg with p and keeps the completed states, keyed by
// the query each one answers. Weights pass through unnormalized.
func SolvedQueries(p Prover, pg ProofGraph) (map[Query]float64, error) {
	ans, err := p.Prove(pg)
	if err != nil {
		return nil, err
	}

	solved := make(map[Query]float64)
	for s, w := range ans {
		if !s.Completed() {
			continue
		}
		q, err := pg.Fill(s)
		if err != nil {
			return nil, fmt.Errorf("fill %v: %w", s, err)
		}
		solved[q] += w
	}
	return solved, nil
}

// Solutions proves pg with p and aggregates completed states by their
// bindings, dividing by the total weight of all states.
//
// The normalizer includes incomplete derivations, so the returned
// probabilities sum to less than 1 whenever some mass ends on states that
// never completed. The deficit is the probability of failing to prove the
// query.
func Solutions(p Prover, pg ProofGraph) (map[string]float64, error) {
	ans, err := p.Prove(pg)
	if err != nil {
		return nil, err
	}

	filtered := make(map[string]float64)
	normalizer := 0.0
	for s, w := range ans {
		normalizer += w
		if !s.Completed() {
			continue
		}
		bindings, err := pg.AsDict(s)
		if err != nil {
			return nil, fmt.Errorf("bindings of %v: %w", s, err)
		}
		filtered[BindingString(bindings)] += w
	}

	if !(normalizer > 0) {
		return nil, fmt.Errorf("%w: proof carries no weight", internalerr.ErrNoSolution)
	}
	for k, w := range filtered {
		filtered[k] = w / normalizer
	}
	return filtered, nil
}

// BindingString is the canonical encoding of a solution: var=value pairs
// in declared order joined by single spaces.
func BindingString(bindings []Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.Var + "=" + b.Value
	}
	return strings.Join(parts, " ")
}
