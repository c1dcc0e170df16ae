package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchtrack/benchtrack/internal/gitrepo"
	"github.com/benchtrack/benchtrack/internal/store"
	"github.com/benchtrack/benchtrack/internal/tracker"
)

// MarkOptions holds flags for the mark command.
type MarkOptions struct {
	*RootOptions
	Database     string
	Repo         string
	Status       string
	ConfigFile   string
	Architecture string
}

// NewMarkCommand creates the mark command.
func NewMarkCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MarkOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mark <sha>...",
		Short: "Record a status for one or more commits",
		Long: `Mark commits as in_progress (claimed) or complete (result recorded) on an
architecture, under one configuration document.

The literal HEAD is resolved to a concrete commit id before storage. Marking
is idempotent: repeating a mark only advances the row's updated_at, and
marking a new status overwrites the old one in place.

Example:
  benchtrack mark --db ./ledger.db --repo ./valkey --status complete \
    --config-file ./configs/benchmark-configs.json HEAD`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMark(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the ledger database (required)")
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "path to the benchmarked project's git repository (required)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "status to record: in_progress or complete (required)")
	cmd.Flags().StringVar(&opts.ConfigFile, "config-file", "", "benchmark configuration document (JSON or YAML)")
	cmd.Flags().StringVar(&opts.Architecture, "architecture", "", "architecture tag (auto-detected if omitted)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func runMark(opts *MarkOptions, shas []string, cmd *cobra.Command) error {
	status, err := store.ParseStatus(opts.Status)
	if err != nil {
		return WrapExitError(ExitCommandError, "mark", err)
	}

	config, err := LoadConfigDocument(opts.ConfigFile)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger database", err)
	}
	defer st.Close()

	tr := tracker.New(st, gitrepo.New(opts.Repo), opts.Logger)

	arch := resolveArchitecture(opts.RootOptions, opts.Architecture)
	if err := tr.MarkCommits(cmd.Context(), shas, status, arch, config); err != nil {
		if errors.Is(err, tracker.ErrInvalidInput) {
			return WrapExitError(ExitCommandError, "mark", err)
		}
		return WrapExitError(ExitFailure, "mark", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"marked":       len(shas),
			"status":       string(status),
			"architecture": arch,
		})
	}
	return formatter.Success(fmt.Sprintf("Marked %d commit(s) as %s on %s", len(shas), status, arch))
}
