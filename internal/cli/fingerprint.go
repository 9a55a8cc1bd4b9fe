package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/irload"
)

// FingerprintResult holds the fingerprint command's payload.
type FingerprintResult struct {
	Fingerprint string `json:"fingerprint"`
	Blocks      int    `json:"blocks"`
}

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <plan-file>",
		Short: "Print the content hash of a query plan",
		Long: `Print the content hash of a compiled query plan.

The hash covers the plan's blocks in their canonical encoding, so two plan
files with the same blocks fingerprint identically regardless of formatting.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runFingerprint(opts *RootOptions, planPath string, cmd *cobra.Command) error {
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

	fingerprint, err := ir.Fingerprint(plan.Blocks)
	if err != nil {
		_ = formatter.Error(ErrCodePlan, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to fingerprint plan", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(FingerprintResult{
			Fingerprint: fingerprint,
			Blocks:      len(plan.Blocks),
		})
	}

	fmt.Fprintln(formatter.Writer, fingerprint)
	return nil
}
