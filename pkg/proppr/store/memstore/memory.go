package memstore

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
)

// Store is an in-memory store.ParamStore, used when no database is given.
type Store struct {
	mu     sync.RWMutex
	params map[string]float64
	scheme string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{params: make(map[string]float64)}
}

// Close implements store.ParamStore.
func (s *Store) Close() error { return nil }

// Params returns a copy of the coefficient table.
func (s *Store) Params(ctx context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.params), nil
}

// Param returns one coefficient.
func (s *Store) Param(ctx context.Context, feature string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.params[feature]
	return v, ok, nil
}

// UpsertParam stores one coefficient.
func (s *Store) UpsertParam(ctx context.Context, feature string, value float64) error {
	if feature == "" {
		return fmt.Errorf("%w: empty feature name", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[feature] = value
	return nil
}

// ReplaceParams swaps in a copy of params.
func (s *Store) ReplaceParams(ctx context.Context, params map[string]float64) error {
	for f := range params {
		if f == "" {
			return fmt.Errorf("%w: empty feature name", internalerr.ErrInvalidInput)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = maps.Clone(params)
	if s.params == nil {
		s.params = make(map[string]float64)
	}
	return nil
}

func (s *Store) Scheme(ctx context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheme, s.scheme != "", nil
}

func (s *Store) SetScheme(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheme = name
	return nil
}
