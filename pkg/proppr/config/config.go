package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
	"github.com/cognicore/proppr/pkg/proppr/weight"
)

// Prover strategies understood by the CLI.
const (
	ProverPPR = "ppr"
	ProverDFS = "dfs"
)

// APR holds the numeric options of approximate personalized PageRank.
// Provers treat an APR as read-only.
type APR struct {
	// Alpha is the restart probability, 0 < Alpha < 1.
	Alpha float64 `yaml:"alpha"`
	// Epsilon is the L1 change below which iteration stops.
	Epsilon float64 `yaml:"epsilon"`
	// MaxDepth bounds the number of iterations or the search depth.
	MaxDepth int `yaml:"max_depth"`

	Scheme  string `yaml:"scheme"`
	Prover  string `yaml:"prover"`
	Threads int    `yaml:"threads"`
	// Mu is the L2 regularization coefficient used when evaluating loss.
	Mu float64 `yaml:"mu"`
}

// Default returns the options used when no config file is given.
func Default() APR {
	return APR{
		Alpha:    0.1,
		Epsilon:  1e-4,
		MaxDepth: 20,
		Scheme:   weight.Linear{}.Name(),
		Prover:   ProverPPR,
		Threads:  4,
		Mu:       0.001,
	}
}

// Validate checks the ranges the provers rely on.
func (a APR) Validate() error {
	if !(a.Alpha > 0 && a.Alpha < 1) {
		return fmt.Errorf("%w: alpha must be in (0, 1), got %g", internalerr.ErrInvalidConfig, a.Alpha)
	}
	if a.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be positive, got %g", internalerr.ErrInvalidConfig, a.Epsilon)
	}
	if a.MaxDepth < 1 {
		return fmt.Errorf("%w: max_depth must be at least 1, got %d", internalerr.ErrInvalidConfig, a.MaxDepth)
	}
	if a.Threads < 1 {
		return fmt.Errorf("%w: threads must be at least 1, got %d", internalerr.ErrInvalidConfig, a.Threads)
	}
	if a.Mu < 0 {
		return fmt.Errorf("%w: mu must not be negative, got %g", internalerr.ErrInvalidConfig, a.Mu)
	}
	if _, err := weight.SchemeByName(a.Scheme); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	switch a.Prover {
	case ProverPPR, ProverDFS:
	default:
		return fmt.Errorf("%w: unknown prover %q", internalerr.ErrInvalidConfig, a.Prover)
	}
	return nil
}

// Load reads APR options from a YAML file. Keys missing from the file keep
// their Default values.
func Load(path string) (APR, error) {
	apr := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return apr, err
	}

	if err := yaml.Unmarshal(data, &apr); err != nil {
		return apr, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := apr.Validate(); err != nil {
		return apr, err
	}
	return apr, nil
}
