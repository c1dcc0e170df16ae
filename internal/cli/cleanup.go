package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchtrack/benchtrack/internal/store"
	"github.com/benchtrack/benchtrack/internal/tracker"
)

// CleanupOptions holds flags for the cleanup command.
type CleanupOptions struct {
	*RootOptions
	Database string
}

// NewCleanupCommand creates the cleanup command.
func NewCleanupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Reclaim abandoned in-progress work items",
		Long: `Delete every in_progress row from the ledger so commits claimed by a
crashed or interrupted run become eligible again on the next determine.

Example:
  benchtrack cleanup --db ./ledger.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the ledger database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runCleanup(opts *CleanupOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger database", err)
	}
	defer st.Close()

	tr := tracker.New(st, nil, opts.Logger)

	reclaimed, err := tr.CleanupIncomplete(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "cleanup", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{"reclaimed": reclaimed})
	}
	return formatter.Success(fmt.Sprintf("Reclaimed %d in-progress work item(s)", reclaimed))
}
