// Package graph is an in-memory grounded proof graph. States and their
// labelled edges are declared up front; Outlinks then adds the restart edge
// every state carries and, on request, the true-loop of completed states.
//
// A Graph is read-only once built and may be shared by concurrent provers.
package graph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
	"github.com/cognicore/proppr/pkg/proppr/prove"
	"github.com/cognicore/proppr/pkg/proppr/weight"
)

// State is a numbered derivation state.
type State struct {
	ID       int
	Goal     string // query text with the state's bindings filled in
	Done     bool
	Bindings []prove.Binding
}

// Completed implements prove.State.
func (s *State) Completed() bool { return s.Done }

func (s *State) String() string {
	if s.Done {
		return fmt.Sprintf("state %d (completed)", s.ID)
	}
	return fmt.Sprintf("state %d", s.ID)
}

// Goal is a filled query.
type Goal string

func (g Goal) String() string { return string(g) }

// Edge is a declared transition.
type Edge struct {
	From     int
	To       int
	Features weight.FeatureDict
}

// Graph is the proof graph of one query.
type Graph struct {
	name   string
	start  *State
	states map[int]*State
	edges  map[int][]Edge
}

// New creates an empty graph for the named query.
func New(name string) *Graph {
	return &Graph{
		name:   name,
		states: make(map[int]*State),
		edges:  make(map[int][]Edge),
	}
}

// Name returns the query the graph was built for.
func (g *Graph) Name() string { return g.name }

// AddState declares a state. The first state added becomes the start
// state unless SetStart is called.
func (g *Graph) AddState(s State) (*State, error) {
	if _, ok := g.states[s.ID]; ok {
		return nil, fmt.Errorf("%w: state %d declared twice", internalerr.ErrInvalidInput, s.ID)
	}
	st := &State{
		ID:       s.ID,
		Goal:     s.Goal,
		Done:     s.Done,
		Bindings: slices.Clone(s.Bindings),
	}
	g.states[s.ID] = st
	if g.start == nil {
		g.start = st
	}
	return st, nil
}

// SetStart selects the root state.
func (g *Graph) SetStart(id int) error {
	st, ok := g.states[id]
	if !ok {
		return fmt.Errorf("%w: start state %d", internalerr.ErrNotFound, id)
	}
	g.start = st
	return nil
}

// AddEdge declares a transition between two existing states.
func (g *Graph) AddEdge(from, to int, fd weight.FeatureDict) error {
	if _, ok := g.states[from]; !ok {
		return fmt.Errorf("%w: edge source %d", internalerr.ErrNotFound, from)
	}
	if _, ok := g.states[to]; !ok {
		return fmt.Errorf("%w: edge target %d", internalerr.ErrNotFound, to)
	}
	if _, ok := fd[prove.AlphaBooster]; ok {
		return fmt.Errorf("%w: feature %s is reserved", internalerr.ErrInvalidInput, prove.AlphaBooster)
	}
	g.edges[from] = append(g.edges[from], Edge{From: from, To: to, Features: fd.Clone()})
	return nil
}

// State looks up a declared state.
func (g *Graph) State(id int) (*State, bool) {
	st, ok := g.states[id]
	return st, ok
}

// States returns every state ordered by ID.
func (g *Graph) States() []*State {
	ids := slices.Sorted(maps.Keys(g.states))
	out := make([]*State, len(ids))
	for i, id := range ids {
		out[i] = g.states[id]
	}
	return out
}

func (g *Graph) Start() prove.State {
	return g.start
}

// Outlinks returns fresh outlinks of s: its declared edges, then the
// true-loop when requested and s is completed, then the restart edge.
func (g *Graph) Outlinks(s prove.State, includeTrueLoop bool) ([]*prove.Outlink, error) {
	st, err := g.lookup(s)
	if err != nil {
		return nil, err
	}

	declared := g.edges[st.ID]
	out := make([]*prove.Outlink, 0, len(declared)+2)
	for _, e := range declared {
		out = append(out, &prove.Outlink{Child: g.states[e.To], Features: e.Features.Clone()})
	}
	if includeTrueLoop && st.Done {
		out = append(out, &prove.Outlink{Child: st, Features: weight.FeatureDict{prove.TrueLoop: 1}})
	}
	out = append(out, &prove.Outlink{Child: g.start, Features: weight.FeatureDict{prove.AlphaBooster: 1}})
	return out, nil
}

// Fill returns the goal answered by a completed state.
func (g *Graph) Fill(s prove.State) (prove.Query, error) {
	st, err := g.lookup(s)
	if err != nil {
		return nil, err
	}
	if !st.Done {
		return nil, fmt.Errorf("%w: %v is not completed", internalerr.ErrLogicProgram, st)
	}
	return Goal(st.Goal), nil
}

func (g *Graph) AsDict(s prove.State) ([]prove.Binding, error) {
	st, err := g.lookup(s)
	if err != nil {
		return nil, err
	}
	return slices.Clone(st.Bindings), nil
}

func (g *Graph) lookup(s prove.State) (*State, error) {
	st, ok := s.(*State)
	if !ok || st == nil || g.states[st.ID] != st {
		return nil, fmt.Errorf("%w: %v does not belong to graph %q", internalerr.ErrLogicProgram, s, g.name)
	}
	return st, nil
}
