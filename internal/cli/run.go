package cli

import (
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/graphwalk/internal/adapter"
	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/irload"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Fixture  string
	Database string
	Args     string
	Limit    int

	// TokenGenerator allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TokenGenerator RunTokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <plan-file>",
		Short: "Execute a query plan against a graph",
		Long: `Execute a compiled query plan against a graph data source.

The plan is loaded from a CUE (or JSON) file and interpreted lazily against
either a YAML graph fixture held in memory or a SQLite graph database.
Result rows stream to stdout as they are produced, one JSON object per line.

Example:
  graphwalk run --fixture animals.yaml plan.cue
  graphwalk run --db graph.db --args '{"wanted": "Scooby Doo"}' plan.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "path to YAML graph fixture")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite graph database")
	cmd.Flags().StringVar(&opts.Args, "args", "{}", "query arguments as a JSON object")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop after this many rows (0 means no limit)")
	cmd.MarkFlagsOneRequired("fixture", "db")
	cmd.MarkFlagsMutuallyExclusive("fixture", "db")

	return cmd
}

func runPlan(opts *RunOptions, planPath string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})

	tokenGen := opts.TokenGenerator
	if tokenGen == nil {
		tokenGen = UUIDv7Generator{}
	}
	runToken := tokenGen.Generate()
	logger := slog.New(handler).With("run", runToken)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	plan, err := irload.LoadPlan(planPath)
	if err != nil {
		_ = formatter.Error(ErrCodePlan, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load plan", err)
	}
	logger.Info("plan loaded", "path", planPath, "blocks", len(plan.Blocks))

	args, err := decodeArgs(opts.Args)
	if err != nil {
		_ = formatter.Error(ErrCodeArgs, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to parse arguments", err)
	}
	if err := interpreter.ValidateArguments(plan.InputMetadata, args); err != nil {
		_ = formatter.Error(ErrCodeArgs, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid arguments", err)
	}

	source, cleanup, err := openSource(opts)
	if err != nil {
		_ = formatter.Error(ErrCodeGraph, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open graph source", err)
	}
	defer cleanup()

	logger.Info("interpreting", "args", len(args), "limit", opts.Limit)
	rows := interpreter.InterpretIR(source, plan, args, interpreter.WithLogger(logger))

	count, err := emitRows(formatter, rows, opts.Limit, runToken)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to write results", err)
	}

	// A source that buffers errors reports them after the stream ends.
	if es, ok := source.(interface{ Err() error }); ok && es.Err() != nil {
		_ = formatter.Error(ErrCodeQuery, es.Err().Error(), nil)
		return WrapExitError(ExitFailure, "interpretation failed", es.Err())
	}

	logger.Info("run complete", "rows", count)
	return nil
}

// emitRows writes result rows in the configured format and returns how many
// were produced.
//
// Text output streams one JSON object per line as rows arrive; the encoder
// sorts map keys, so the byte output is deterministic. JSON output wraps the
// collected rows in the standard response envelope, which costs laziness but
// yields a single parseable document.
func emitRows(formatter *OutputFormatter, rows iter.Seq[interpreter.Row], limit int, runToken string) (int, error) {
	count := 0

	if formatter.Format == "json" {
		collected := []interpreter.Row{}
		for row := range rows {
			collected = append(collected, row)
			count++
			if limit > 0 && count >= limit {
				break
			}
		}
		err := json.NewEncoder(formatter.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   map[string]any{"count": count, "rows": collected},
			RunID:  runToken,
		})
		return count, err
	}

	encoder := json.NewEncoder(formatter.Writer)
	for row := range rows {
		if err := encoder.Encode(row); err != nil {
			return count, err
		}
		count++
		if limit > 0 && count >= limit {
			break
		}
	}
	return count, nil
}

// openSource opens the graph data source selected by the flags.
func openSource(opts *RunOptions) (interpreter.Adapter, func(), error) {
	if opts.Fixture != "" {
		graph, err := adapter.LoadGraph(opts.Fixture)
		if err != nil {
			return nil, nil, err
		}
		source, err := adapter.NewInMemory(graph)
		if err != nil {
			return nil, nil, err
		}
		return source, func() {}, nil
	}

	db, err := adapter.OpenSQLite(opts.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

// decodeArgs parses the --args JSON object. Integer values decode to int64
// rather than float64 so equality against graph properties holds.
func decodeArgs(raw string) (map[string]any, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	var args map[string]any
	if err := decoder.Decode(&args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("arguments must be a single JSON object")
	}

	for name, value := range args {
		args[name] = normalizeArg(value)
	}
	return args, nil
}

func normalizeArg(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case []any:
		for i, elem := range v {
			v[i] = normalizeArg(elem)
		}
		return v
	case map[string]any:
		for k, elem := range v {
			v[k] = normalizeArg(elem)
		}
		return v
	default:
		return value
	}
}
