// Package cli implements the benchtrack command surface consumed by
// scheduler scripts: determine, mark, query, cleanup, and validate.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Logger is configured in PersistentPreRunE and carries a run_id
	// attribute correlating log lines across concurrent runners.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the benchtrack CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "benchtrack",
		Short: "Benchmark work deduplication and completion ledger",
		Long: `benchtrack tracks which (commit, configuration, architecture)
combinations of the benchmarked server have already been measured, hands
schedulers the commits that still need work, and reclaims claims abandoned
by crashed runs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.Logger = newRunLogger(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewDetermineCommand(opts))
	cmd.AddCommand(NewMarkCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewCleanupCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// newRunLogger builds the per-invocation logger. Diagnostics go to stderr
// so stdout stays consumable by calling scripts; the UUIDv7 run_id is
// time-sortable, which keeps interleaved multi-runner logs readable.
func newRunLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler).With("run_id", uuid.Must(uuid.NewV7()).String())
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
