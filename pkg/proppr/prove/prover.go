// Package prove computes restart-biased random-walk distributions over
// proof graphs and reduces them to answer probabilities.
//
// Every strategy embeds Base, which owns the algebra shared by all of them:
// weighting edges, correcting the reset edge so the walk restarts with
// probability alpha, and normalizing a state's outgoing weight. A prover is
// not safe for concurrent use; call Copy once per concurrent query.
package prove

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cognicore/proppr/pkg/proppr/config"
	"github.com/cognicore/proppr/pkg/proppr/internalerr"
	"github.com/cognicore/proppr/pkg/proppr/weight"
)

// AlphaBuffer is added to alpha when rescaling the reset edge to absorb
// rounding error near alpha = 1.
const AlphaBuffer = 1e-16

// Prover turns a proof graph into a distribution over its states.
type Prover interface {
	// Prove returns the unfiltered distribution reached from the start state.
	Prove(pg ProofGraph) (Distribution, error)
	// Copy returns a prover that shares only read-only configuration with p.
	Copy() Prover
	// SetWeighter replaces the edge weighting. Not safe during Prove.
	SetWeighter(w EdgeWeighter)
	SolvedQueries(pg ProofGraph) (map[Query]float64, error)
	Solutions(pg ProofGraph) (map[string]float64, error)
}

// Options configures a prover.
type Options struct {
	Weighter EdgeWeighter
	APR      config.APR
	Logger   *zap.Logger
}

// New builds the strategy named by opts.APR.Prover.
func New(opts Options) (Prover, error) {
	switch opts.APR.Prover {
	case config.ProverPPR, "":
		return NewPprProver(opts), nil
	case config.ProverDFS:
		return NewDfsProver(opts), nil
	default:
		return nil, fmt.Errorf("%w: unknown prover %q", internalerr.ErrInvalidConfig, opts.APR.Prover)
	}
}

// Base holds the configuration and shared algorithms of every strategy.
// All of its fields are read-only during a proof.
type Base struct {
	weighter EdgeWeighter
	apr      config.APR
	log      *zap.Logger
}

func newBase(opts Options) Base {
	b := Base{weighter: opts.Weighter, apr: opts.APR, log: opts.Logger}
	if b.weighter == nil {
		b.weighter = weight.Uniform()
	}
	if b.apr == (config.APR{}) {
		b.apr = config.Default()
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	return b
}

func (b *Base) SetWeighter(w EdgeWeighter) {
	b.weighter = w
}

// Weighter returns the current edge weighting.
func (b *Base) Weighter() EdgeWeighter {
	return b.weighter
}

// APR returns the numeric options.
func (b *Base) APR() config.APR {
	return b.apr
}

// ComputeAlphaBooster returns the alpha-booster strength that makes the
// reset edge carry exactly alpha of the outgoing weight.
//
// With f the scheme, theta the booster coefficient and rw the reset weight:
//
//	nonBooster = f⁻¹(rw) - theta*current
//	rw'        = alpha/(1-alpha) * (z - rw)   solves rw'/(z - rw + rw') = alpha
//	booster    = (f⁻¹(rw') - nonBooster) / theta
//
// A negative booster means the reset edge already exceeds alpha; the result
// is clamped to 0. With theta == 0 no strength changes the edge and 0 is
// returned. A pre-image outside the scheme's range also yields 0.
func (b *Base) ComputeAlphaBooster(current, z, rw float64) float64 {
	theta, ok := b.weighter.Coefficient(AlphaBooster)
	if !ok {
		theta = b.weighter.DefaultWeight()
	}
	if theta == 0 {
		return 0
	}
	nonBooster := b.weighter.InverseWeight(rw) - theta*current
	alpha := b.apr.Alpha + AlphaBuffer
	alphaFraction := alpha / (1 - alpha)
	booster := (b.weighter.InverseWeight(alphaFraction*(z-rw)) - nonBooster) / theta
	if math.IsNaN(booster) || math.IsInf(booster, 0) {
		return 0
	}
	return math.Max(0, booster)
}

// RescaleResetLink rewrites the booster strength of the reset edge,
// reweighs it, and returns the total outgoing weight adjusted for the change.
func (b *Base) RescaleResetLink(reset *Outlink, z float64) float64 {
	booster := b.ComputeAlphaBooster(reset.Features[AlphaBooster], z, reset.Wt)
	z -= reset.Wt
	reset.Features[AlphaBooster] = booster
	reset.Wt = b.weighter.Weight(reset.Features)
	return z + reset.Wt
}

// NormalizedOutlinks maps each child of s to its share of s's outgoing
// weight, true-loop included. A state whose weights sum to zero returns
// internalerr.ErrNoOutlinks.
func (b *Base) NormalizedOutlinks(pg ProofGraph, s State) (Distribution, error) {
	steps, err := b.transitions(pg, s, walkPlain)
	if err != nil {
		return nil, err
	}
	return steps.distribution(), nil
}

// RestartNormalizedOutlinks is NormalizedOutlinks with the reset edge
// rescaled first, so the returned restart share equals alpha.
func (b *Base) RestartNormalizedOutlinks(pg ProofGraph, s State) (Distribution, error) {
	steps, err := b.transitions(pg, s, walkRestart)
	if err != nil {
		return nil, err
	}
	return steps.distribution(), nil
}

type walkMode int

const (
	walkPlain walkMode = iota
	walkRestart
	walkNoReset
)

type step struct {
	child State
	p     float64
}

type steps []step

func (ss steps) distribution() Distribution {
	d := make(Distribution, len(ss))
	for _, s := range ss {
		d[s.child] = s.p
	}
	return d
}

// transitions weighs the outlinks of s and normalizes them. Edges sharing a
// child are merged in order of first appearance.
func (b *Base) transitions(pg ProofGraph, s State, mode walkMode) (steps, error) {
	outlinks, err := pg.Outlinks(s, true)
	if err != nil {
		return nil, err
	}

	var (
		z     float64
		reset *Outlink
		kept  = make([]*Outlink, 0, len(outlinks))
	)
	for _, o := range outlinks {
		if mode == walkNoReset && o.IsReset() {
			continue
		}
		o.Wt = b.weighter.Weight(o.Features)
		if math.IsNaN(o.Wt) || math.IsInf(o.Wt, 0) || o.Wt < 0 {
			return nil, fmt.Errorf("%w: edge weight %g leaving %v", internalerr.ErrInvalidInput, o.Wt, s)
		}
		if reset == nil && o.IsReset() {
			reset = o
		}
		z += o.Wt
		kept = append(kept, o)
	}

	// a state whose only weighted edge is the reset edge restarts with certainty
	if mode == walkRestart && reset != nil && z > reset.Wt {
		z = b.RescaleResetLink(reset, z)
	}

	if !(z > 0) || math.IsInf(z, 0) {
		return nil, fmt.Errorf("%w: state %v (total weight %g)", internalerr.ErrNoOutlinks, s, z)
	}

	out := make(steps, 0, len(kept))
	pos := make(map[State]int, len(kept))
	for _, o := range kept {
		if i, ok := pos[o.Child]; ok {
			out[i].p += o.Wt / z
			continue
		}
		pos[o.Child] = len(out)
		out = append(out, step{child: o.Child, p: o.Wt / z})
	}
	return out, nil
}
