package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
	"github.com/cognicore/proppr/pkg/proppr/loss"
)

var (
	evalFlags  proveFlags
	labelsPath string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score labelled queries with log loss",
	Long: `Answers every graph, then adds -log p for each positive and -log(1-p)
for each negative solution named in the labels file, plus the L2 penalty
of the parameter table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		examples, err := loadExamples(labelsPath)
		if err != nil {
			return err
		}
		run, err := runProofs(cmd.Context(), evalFlags, logger)
		if err != nil {
			return err
		}
		data, err := evaluate(run.Answers, examples, run.Params, run.APR.Mu)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("evaluated", zap.Int("examples", len(examples)), zap.Float64("total", data.Total()))
		}
		fmt.Fprintln(cmd.OutOrStdout(), data)
		return nil
	},
}

func init() {
	evalFlags.register(evalCmd)
	evalCmd.Flags().StringVar(&labelsPath, "labels", "", "Labelled examples YAML file")
	_ = evalCmd.MarkFlagRequired("labels")
}

// loadExamples reads a YAML list of labelled queries.
func loadExamples(path string) ([]loss.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var examples []loss.Example
	if err := yaml.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return examples, nil
}

// evaluate sums the loss of every example against the answer with the same
// query. An example without an answer is an error.
func evaluate(answers []Answer, examples []loss.Example, params map[string]float64, mu float64) (*loss.Data, error) {
	byQuery := make(map[string]map[string]float64, len(answers))
	for _, a := range answers {
		byQuery[a.Query] = a.raw
	}

	data := loss.New()
	for _, ex := range examples {
		sols, ok := byQuery[ex.Query]
		if !ok {
			return nil, fmt.Errorf("%w: no graph for labelled query %q", internalerr.ErrNotFound, ex.Query)
		}
		data.Evaluate(sols, ex)
	}
	if mu > 0 {
		data.Regularize(params, mu)
	}
	return data, nil
}
