package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphwalk/internal/adapter"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// ImportResult holds the import command's payload.
type ImportResult struct {
	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <fixture-file>",
		Short: "Load a YAML graph fixture into a SQLite database",
		Long: `Load a YAML graph fixture into a SQLite graph database.

The database is created if it does not exist. The import replaces any
existing graph contents in a single transaction, so a failed import leaves
the previous graph intact.

Example:
  graphwalk import --db graph.db animals.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, fixturePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	graph, err := adapter.LoadGraph(fixturePath)
	if err != nil {
		_ = formatter.Error(ErrCodeGraph, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load fixture", err)
	}
	formatter.VerboseLog("Loaded %d vertices and %d edges from %s",
		len(graph.Vertices), len(graph.Edges), fixturePath)

	db, err := adapter.OpenSQLite(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeGraph, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := db.ImportGraph(ctx, graph); err != nil {
		_ = formatter.Error(ErrCodeGraph, err.Error(), nil)
		return WrapExitError(ExitFailure, "import failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ImportResult{
			Vertices: len(graph.Vertices),
			Edges:    len(graph.Edges),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ imported %d vertices and %d edges\n",
		len(graph.Vertices), len(graph.Edges))
	return nil
}
