package main

import (
	"cmp"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/proppr/pkg/proppr/config"
	"github.com/cognicore/proppr/pkg/proppr/graph"
	"github.com/cognicore/proppr/pkg/proppr/internalerr"
	"github.com/cognicore/proppr/pkg/proppr/prove"
	"github.com/cognicore/proppr/pkg/proppr/store"
	"github.com/cognicore/proppr/pkg/proppr/store/memstore"
	"github.com/cognicore/proppr/pkg/proppr/store/sqlite"
	"github.com/cognicore/proppr/pkg/proppr/weight"
)

// proveFlags are shared by answer and eval.
type proveFlags struct {
	graphs  []string
	config  string
	params  string
	threads int
}

func (f *proveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.graphs, "graph", "g", nil, "Proof graph YAML file (repeatable)")
	cmd.Flags().StringVar(&f.config, "config", "", "APR options YAML file")
	cmd.Flags().StringVar(&f.params, "params", "", "SQLite parameter database")
	cmd.Flags().IntVar(&f.threads, "threads", 0, "Concurrent queries (overrides config)")
	_ = cmd.MarkFlagRequired("graph")
}

var answerFlags proveFlags

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Print the solutions of each proof graph",
	Long:  "Proves every graph with its own copy of the prover and prints solutions by decreasing probability.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := runProofs(cmd.Context(), answerFlags, logger)
		if err != nil {
			return err
		}
		printAnswers(cmd.OutOrStdout(), run.Answers)
		return nil
	},
}

func init() {
	answerFlags.register(answerCmd)
}

// Solution is one scored binding.
type Solution struct {
	Binding string
	P       float64
}

// Answer holds the solutions of one proof graph.
type Answer struct {
	ID        string
	Query     string
	Solutions []Solution
	raw       map[string]float64
}

// loadAPR returns the defaults when path is empty.
func loadAPR(path string) (config.APR, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openParams opens the sqlite table at path, or an empty in-memory one.
func openParams(ctx context.Context, path string) (store.ParamStore, error) {
	if path == "" {
		return memstore.New(), nil
	}
	return sqlite.OpenSQLite(ctx, path)
}

// weighterFrom builds the edge weighting recorded in st. The store's scheme
// wins over fallback.
func weighterFrom(ctx context.Context, st store.ParamStore, fallback string) (*weight.FeatureDictWeighter, error) {
	name, ok, err := st.Scheme(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	if !ok {
		name = fallback
	}
	scheme, err := weight.SchemeByName(name)
	if err != nil {
		return nil, err
	}
	params, err := st.Params(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	return weight.New(scheme, params), nil
}

// proofRun is the outcome of answering a batch of graphs.
type proofRun struct {
	Answers []Answer
	// Params is the coefficient table the answers were weighted with.
	Params map[string]float64
	APR    config.APR
}

// runProofs loads everything the flags name and answers each graph.
func runProofs(ctx context.Context, f proveFlags, log *zap.Logger) (*proofRun, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	apr, err := loadAPR(f.config)
	if err != nil {
		return nil, err
	}
	if f.threads > 0 {
		apr.Threads = f.threads
	}

	st, err := openParams(ctx, f.params)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	w, err := weighterFrom(ctx, st, apr.Scheme)
	if err != nil {
		return nil, err
	}

	graphs := make([]*graph.Graph, 0, len(f.graphs))
	for _, path := range f.graphs {
		g, err := graph.Load(path)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}

	p, err := prove.New(prove.Options{Weighter: w, APR: apr, Logger: log})
	if err != nil {
		return nil, err
	}
	log.Info("proving",
		zap.Int("graphs", len(graphs)),
		zap.String("prover", apr.Prover),
		zap.String("scheme", w.Scheme().Name()),
		zap.Int("params", len(w.Params())))

	answers, err := answerAll(ctx, p, graphs, apr.Threads, log)
	if err != nil {
		return nil, err
	}
	return &proofRun{Answers: answers, Params: w.Params(), APR: apr}, nil
}

// answerAll proves the graphs concurrently, at most threads at a time, one
// prover copy per graph. Answers keep the order of graphs.
func answerAll(ctx context.Context, p prove.Prover, graphs []*graph.Graph, threads int, log *zap.Logger) ([]Answer, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	answers := make([]Answer, len(graphs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(threads, 1))
	for i, g := range graphs {
		id := ulid.MustNew(ulid.Now(), entropy).String()
		worker := p.Copy()
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sols, err := worker.Solutions(g)
			if errors.Is(err, internalerr.ErrNoSolution) {
				log.Warn("no solution mass", zap.String("id", id), zap.String("query", g.Name()))
				sols, err = map[string]float64{}, nil
			}
			if err != nil {
				return fmt.Errorf("query %q: %w", g.Name(), err)
			}
			answers[i] = Answer{ID: id, Query: g.Name(), Solutions: sortSolutions(sols), raw: sols}
			log.Debug("query answered",
				zap.String("id", id),
				zap.String("query", g.Name()),
				zap.Int("solutions", len(sols)))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

// sortSolutions orders by decreasing probability, then binding.
func sortSolutions(sols map[string]float64) []Solution {
	out := make([]Solution, 0, len(sols))
	for b, p := range sols {
		out = append(out, Solution{Binding: b, P: p})
	}
	slices.SortFunc(out, func(a, b Solution) int {
		if c := cmp.Compare(b.P, a.P); c != 0 {
			return c
		}
		return cmp.Compare(a.Binding, b.Binding)
	})
	return out
}

func printAnswers(w io.Writer, answers []Answer) {
	for _, a := range answers {
		fmt.Fprintf(w, "# %s %s\n", a.ID, a.Query)
		if len(a.Solutions) == 0 {
			fmt.Fprintln(w, "(no solutions)")
		}
		for i, s := range a.Solutions {
			fmt.Fprintf(w, "%d\t%.6f\t%s\n", i+1, s.P, s.Binding)
		}
	}
}
