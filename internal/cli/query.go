package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/benchtrack/benchtrack/internal/conf"
	"github.com/benchtrack/benchtrack/internal/store"
	"github.com/benchtrack/benchtrack/internal/tracker"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Database     string
	ConfigFile   string
	Architecture string
	ListConfigs  bool
}

// workItemJSON is the wire form of one ledger row in JSON output.
type workItemJSON struct {
	SHA          string          `json:"sha"`
	Timestamp    string          `json:"timestamp"`
	Status       string          `json:"status"`
	Config       json.RawMessage `json:"config"`
	Architecture string          `json:"architecture"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List recorded work items",
		Long: `List the ledger rows for an architecture, newest commit first, optionally
narrowed to one exact configuration. With --list-configs, list every
distinct configuration document recorded in the ledger instead.

Example:
  benchtrack query --db ./ledger.db --architecture x86_64
  benchtrack query --db ./ledger.db --list-configs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the ledger database (required)")
	cmd.Flags().StringVar(&opts.ConfigFile, "config-file", "", "narrow to one exact configuration (JSON or YAML)")
	cmd.Flags().StringVar(&opts.Architecture, "architecture", "", "architecture tag (auto-detected if omitted)")
	cmd.Flags().BoolVar(&opts.ListConfigs, "list-configs", false, "list distinct configurations instead of work items")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger database", err)
	}
	defer st.Close()

	// query never enumerates revisions, so no revision source is wired in.
	tr := tracker.New(st, nil, opts.Logger)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.ListConfigs {
		return runListConfigs(opts, tr, formatter, cmd)
	}

	config, err := LoadConfigDocument(opts.ConfigFile)
	if err != nil {
		return err
	}

	items, err := tr.Query(cmd.Context(), resolveArchitecture(opts.RootOptions, opts.Architecture), config)
	if err != nil {
		var integrity *store.IntegrityError
		if errors.As(err, &integrity) {
			return WrapExitError(ExitFailure, "ledger integrity", err)
		}
		return WrapExitError(ExitFailure, "query", err)
	}

	if opts.Format == "json" {
		wire := make([]workItemJSON, 0, len(items))
		for _, item := range items {
			row, err := toWorkItemJSON(item)
			if err != nil {
				return WrapExitError(ExitFailure, "query", err)
			}
			wire = append(wire, row)
		}
		return formatter.Success(map[string]any{"work_items": wire})
	}

	return writeWorkItemTable(cmd, items)
}

func runListConfigs(opts *QueryOptions, tr *tracker.Tracker, formatter *OutputFormatter, cmd *cobra.Command) error {
	configs, err := tr.ListConfigs(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "list configs", err)
	}

	if opts.Format == "json" {
		wire := make([]json.RawMessage, 0, len(configs))
		for _, config := range configs {
			data, err := conf.MarshalCanonical(config)
			if err != nil {
				return WrapExitError(ExitFailure, "list configs", err)
			}
			wire = append(wire, json.RawMessage(data))
		}
		return formatter.Success(map[string]any{"configs": wire})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Unique configs used: %d\n", len(configs))
	for i, config := range configs {
		fmt.Fprintf(out, "  Config %d: %s\n", i+1, conf.Summary(config))
	}
	return nil
}

// writeWorkItemTable renders rows for operators. Bookkeeping timestamps are
// omitted; the query JSON form carries them for scripts that care.
func writeWorkItemTable(cmd *cobra.Command, items []store.WorkItem) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHA\tSTATUS\tARCHITECTURE\tTIMESTAMP\tCONFIG")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			item.SHA,
			item.Status,
			item.Architecture,
			item.Timestamp.UTC().Format(time.RFC3339),
			conf.Summary(item.Config),
		)
	}
	return w.Flush()
}

func toWorkItemJSON(item store.WorkItem) (workItemJSON, error) {
	configData, err := conf.MarshalCanonical(item.Config)
	if err != nil {
		return workItemJSON{}, fmt.Errorf("marshal config of %s: %w", item.SHA, err)
	}
	return workItemJSON{
		SHA:          item.SHA,
		Timestamp:    item.Timestamp.UTC().Format(time.RFC3339),
		Status:       string(item.Status),
		Config:       json.RawMessage(configData),
		Architecture: item.Architecture,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}
