package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benchtrack/benchtrack/internal/gitrepo"
	"github.com/benchtrack/benchtrack/internal/store"
	"github.com/benchtrack/benchtrack/internal/tracker"
)

// DetermineOptions holds flags for the determine command.
type DetermineOptions struct {
	*RootOptions
	Database      string
	Repo          string
	Branch        string
	MaxCommits    int
	ConfigFile    string
	Architecture  string
	DisableSubset bool
}

// NewDetermineCommand creates the determine command.
func NewDetermineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DetermineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "determine",
		Short: "List commits that still need benchmarking",
		Long: `Determine which commits on a branch still need benchmarking with the
given configuration and architecture.

Every invocation first reclaims abandoned in_progress claims, then walks
the branch newest-first, skipping commits whose exact configuration is
already complete and - unless disabled - commits whose requested workload
is covered by a recorded superset configuration.

The resulting commit ids are printed space-separated on stdout for
consumption by the calling scheduler script. Empty output means nothing
is left to benchmark and is a normal outcome, not an error.

Example:
  benchtrack determine --db ./ledger.db --repo ./valkey --branch unstable \
    --max-commits 3 --config-file ./configs/benchmark-configs.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetermine(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the ledger database (required)")
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "path to the benchmarked project's git repository (required)")
	cmd.Flags().StringVar(&opts.Branch, "branch", "unstable", "branch to enumerate")
	cmd.Flags().IntVar(&opts.MaxCommits, "max-commits", 3, "maximum commits to return")
	cmd.Flags().StringVar(&opts.ConfigFile, "config-file", "", "benchmark configuration document (JSON or YAML)")
	cmd.Flags().StringVar(&opts.Architecture, "architecture", "", "architecture tag (auto-detected if omitted)")
	cmd.Flags().BoolVar(&opts.DisableSubset, "disable-subset-detection", false, "only skip exact configuration matches")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}

func runDetermine(opts *DetermineOptions, cmd *cobra.Command) error {
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

	commits, err := tr.DetermineCommitsToBenchmark(cmd.Context(), tracker.DetermineRequest{
		Branch:                 opts.Branch,
		MaxCommits:             opts.MaxCommits,
		Architecture:           resolveArchitecture(opts.RootOptions, opts.Architecture),
		Config:                 config,
		DisableSubsetDetection: opts.DisableSubset,
	})
	if err != nil {
		if errors.Is(err, tracker.ErrInvalidInput) {
			return WrapExitError(ExitCommandError, "determine", err)
		}
		return WrapExitError(ExitFailure, "determine", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if opts.Format == "json" {
		return formatter.Success(map[string]any{"commits": commits})
	}
	return formatter.Success(strings.Join(commits, " "))
}
