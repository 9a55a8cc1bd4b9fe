package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/irload"
)

// ValidationResult holds plan validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Blocks int               `json:"blocks,omitempty"`
	Inputs int               `json:"inputs,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one problem found in a plan file.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Args string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <plan-file>",
		Short: "Validate a query plan without executing it",
		Long: `Validate a compiled query plan without touching any graph data.

Checks that the blocks parse, the block sequence is well formed, and the
location metadata is registered consistently. With --args, the supplied
arguments are also checked against the plan's expected inputs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Args, "args", "", "query arguments as a JSON object, checked against the plan's inputs")

	return cmd
}

func runValidate(opts *ValidateOptions, planPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	plan, err := irload.LoadPlan(planPath)
	if err != nil {
		var compileErr *irload.CompileError
		if errors.As(err, &compileErr) {
			return outputValidationErrors(formatter, ErrCodePlan, []ValidationError{{
				Field:   compileErr.Field,
				Message: compileErr.Message,
				Line:    lineOf(compileErr),
			}})
		}
		// Not a plan problem: the file itself could not be read.
		_ = formatter.Error(ErrCodePlan, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load plan", err)
	}

	formatter.VerboseLog("Loaded %d block(s) from %s", len(plan.Blocks), planPath)

	if opts.Args != "" {
		args, err := decodeArgs(opts.Args)
		if err != nil {
			_ = formatter.Error(ErrCodeArgs, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to parse arguments", err)
		}
		if err := interpreter.ValidateArguments(plan.InputMetadata, args); err != nil {
			return outputValidationErrors(formatter, ErrCodeArgs, argumentErrors(err))
		}
	}

	return outputValidateSuccess(formatter, plan)
}

// argumentErrors flattens the joined errors from ValidateArguments.
func argumentErrors(err error) []ValidationError {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []ValidationError{{Field: "arguments", Message: err.Error()}}
	}

	var errs []ValidationError
	for _, e := range joined.Unwrap() {
		var argErr interpreter.ArgumentError
		if errors.As(e, &argErr) {
			errs = append(errs, ValidationError{Field: "arguments." + argErr.Name, Message: argErr.Message})
		} else {
			errs = append(errs, ValidationError{Field: "arguments", Message: e.Error()})
		}
	}
	return errs
}

func lineOf(err *irload.CompileError) int {
	if err.Pos.IsValid() {
		return err.Pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, plan *interpreter.IRAndMetadata) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:  true,
			Blocks: len(plan.Blocks),
			Inputs: len(plan.InputMetadata),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ plan valid (%d blocks, %d expected inputs)\n",
		len(plan.Blocks), len(plan.InputMetadata))
	return nil
}

// outputValidationErrors outputs validation failures with exit code 1.
func outputValidationErrors(formatter *OutputFormatter, code string, errs []ValidationError) error {
	if formatter.Format == "json" {
		_ = formatter.Error(code, errs[0].Message, ValidationResult{
			Valid:  false,
			Errors: errs,
		})
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
