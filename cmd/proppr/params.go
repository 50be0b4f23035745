package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
	"github.com/cognicore/proppr/pkg/proppr/store"
	"github.com/cognicore/proppr/pkg/proppr/store/sqlite"
	"github.com/cognicore/proppr/pkg/proppr/weight"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Manage learned parameter tables",
}

var importFlags struct {
	db   string
	file string
}

var paramsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace a database's parameters with a YAML table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		table, err := loadParamFile(importFlags.file)
		if err != nil {
			return err
		}
		st, err := sqlite.OpenSQLite(ctx, importFlags.db)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := importParams(ctx, st, table); err != nil {
			return err
		}
		if logger != nil {
			logger.Info("imported parameters",
				zap.String("db", importFlags.db),
				zap.Int("params", len(table.Params)),
				zap.String("scheme", table.Scheme))
		}
		return nil
	},
}

var paramsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a database's scheme and parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := sqlite.OpenSQLite(ctx, importFlags.db)
		if err != nil {
			return err
		}
		defer st.Close()

		table, err := exportParams(ctx, st)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(table)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	paramsCmd.PersistentFlags().StringVar(&importFlags.db, "db", "", "SQLite parameter database")
	_ = paramsCmd.MarkPersistentFlagRequired("db")
	paramsImportCmd.Flags().StringVar(&importFlags.file, "file", "", "Parameter table YAML file")
	_ = paramsImportCmd.MarkFlagRequired("file")

	paramsCmd.AddCommand(paramsImportCmd)
	paramsCmd.AddCommand(paramsShowCmd)
}

// ParamFile is the YAML form of a learned table:
//
//	scheme: exp
//	params:
//	  id(alphaBooster): 1.2
//	  db(knows): 0.4
type ParamFile struct {
	Scheme string             `yaml:"scheme,omitempty"`
	Params map[string]float64 `yaml:"params"`
}

func loadParamFile(path string) (ParamFile, error) {
	var table ParamFile
	data, err := os.ReadFile(path)
	if err != nil {
		return table, err
	}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return table, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// importParams replaces the stored table. The scheme is recorded only when
// the file names one.
func importParams(ctx context.Context, st store.ParamStore, table ParamFile) error {
	if table.Scheme != "" {
		if _, err := weight.SchemeByName(table.Scheme); err != nil {
			return err
		}
	}
	if err := st.ReplaceParams(ctx, table.Params); err != nil {
		return fmt.Errorf("replace params: %w", err)
	}
	if table.Scheme != "" {
		if err := st.SetScheme(ctx, table.Scheme); err != nil {
			return fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func exportParams(ctx context.Context, st store.ParamStore) (ParamFile, error) {
	var table ParamFile
	name, _, err := st.Scheme(ctx)
	if err != nil {
		return table, err
	}
	params, err := st.Params(ctx)
	if err != nil {
		return table, err
	}
	table.Scheme = name
	table.Params = params
	return table, nil
}
