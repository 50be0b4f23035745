package store

import "context"

// ParamStore persists learned feature coefficients and the weighting
// scheme they were learned under.
type ParamStore interface {
	Close() error

	// Params returns the whole coefficient table.
	Params(ctx context.Context) (map[string]float64, error)
	// Param returns one coefficient and whether it is stored.
	Param(ctx context.Context, feature string) (float64, bool, error)
	UpsertParam(ctx context.Context, feature string, value float64) error
	// ReplaceParams swaps the whole table atomically.
	ReplaceParams(ctx context.Context, params map[string]float64) error

	// Scheme returns the weighting scheme name, if one was recorded.
	Scheme(ctx context.Context) (string, bool, error)
	SetScheme(ctx context.Context, name string) error
}
