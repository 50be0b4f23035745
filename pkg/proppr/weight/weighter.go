package weight

import "maps"

// FeatureDict maps a feature name to its strength on one edge.
type FeatureDict map[string]float64

// Clone returns an independent copy.
func (fd FeatureDict) Clone() FeatureDict {
	return maps.Clone(fd)
}

// FeatureDictWeighter weighs an edge through a Scheme applied to the
// coefficient-weighted sum of its features. The coefficient table is
// read-only once the weighter is handed to a prover, so one weighter may
// serve any number of concurrent provers.
type FeatureDictWeighter struct {
	scheme  Scheme
	weights map[string]float64
}

// New builds a weighter over a copy of the given coefficient table.
func New(scheme Scheme, weights map[string]float64) *FeatureDictWeighter {
	w := maps.Clone(weights)
	if w == nil {
		w = make(map[string]float64)
	}
	return &FeatureDictWeighter{scheme: scheme, weights: w}
}

// Uniform weighs every feature with coefficient 1 under the linear scheme,
// so an edge's weight is the sum of its feature strengths.
func Uniform() *FeatureDictWeighter {
	return New(Linear{}, nil)
}

// Weight returns scheme(sum_f theta_f * fd[f]).
func (w *FeatureDictWeighter) Weight(fd FeatureDict) float64 {
	dflt := w.scheme.DefaultWeight()
	sum := 0.0
	for f, strength := range fd {
		theta, ok := w.weights[f]
		if !ok {
			theta = dflt
		}
		sum += theta * strength
	}
	return w.scheme.EdgeWeight(sum)
}

func (w *FeatureDictWeighter) InverseWeight(y float64) float64 {
	return w.scheme.Inverse(y)
}

func (w *FeatureDictWeighter) DefaultWeight() float64 {
	return w.scheme.DefaultWeight()
}

// Coefficient returns the learned coefficient of a feature, if any.
func (w *FeatureDictWeighter) Coefficient(feature string) (float64, bool) {
	theta, ok := w.weights[feature]
	return theta, ok
}

// Scheme returns the weighting function.
func (w *FeatureDictWeighter) Scheme() Scheme {
	return w.scheme
}

// Params returns a copy of the coefficient table.
func (w *FeatureDictWeighter) Params() map[string]float64 {
	return maps.Clone(w.weights)
}
