package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/proppr/pkg/proppr/prove"
	"github.com/cognicore/proppr/pkg/proppr/weight"
)

// File is the YAML form of a grounded proof graph:
//
//	query: samebib(a,X)
//	start: 0
//	states:
//	  - id: 0
//	  - id: 2
//	    completed: true
//	    goal: samebib(a,b)
//	    bindings: [{var: X, value: b}]
//	edges:
//	  - {from: 0, to: 2, features: {"id(r1)": 1}}
type File struct {
	Query  string      `yaml:"query"`
	Start  *int        `yaml:"start"`
	States []StateSpec `yaml:"states"`
	Edges  []EdgeSpec  `yaml:"edges"`
}

// StateSpec declares a state.
type StateSpec struct {
	ID        int           `yaml:"id"`
	Goal      string        `yaml:"goal"`
	Completed bool          `yaml:"completed"`
	Bindings  []BindingSpec `yaml:"bindings"`
}

// BindingSpec declares one variable binding.
type BindingSpec struct {
	Var   string `yaml:"var"`
	Value string `yaml:"value"`
}

// EdgeSpec declares a transition.
type EdgeSpec struct {
	From     int                `yaml:"from"`
	To       int                `yaml:"to"`
	Features map[string]float64 `yaml:"features"`
}

// Load reads a proof graph from a YAML file.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse builds a proof graph from its YAML form.
func Parse(data []byte) (*Graph, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Build()
}

// Build turns the declaration into a Graph.
func (f File) Build() (*Graph, error) {
	g := New(f.Query)

	for _, s := range f.States {
		bindings := make([]prove.Binding, len(s.Bindings))
		for i, b := range s.Bindings {
			bindings[i] = prove.Binding{Var: b.Var, Value: b.Value}
		}
		if _, err := g.AddState(State{ID: s.ID, Goal: s.Goal, Done: s.Completed, Bindings: bindings}); err != nil {
			return nil, err
		}
	}
	if len(f.States) == 0 {
		return nil, fmt.Errorf("graph %q declares no states", f.Query)
	}

	if f.Start != nil {
		if err := g.SetStart(*f.Start); err != nil {
			return nil, err
		}
	}

	for i, e := range f.Edges {
		if err := g.AddEdge(e.From, e.To, weight.FeatureDict(e.Features)); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return g, nil
}
