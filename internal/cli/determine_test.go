package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchtrack/benchtrack/internal/testutil"
)

// execCommand runs one subcommand the way scheduler scripts invoke it,
// capturing stdout and discarding diagnostics.
func execCommand(t *testing.T, build func(*RootOptions) *cobra.Command, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	opts := &RootOptions{Format: format, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	cmd := build(opts)
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestDetermineListsNewCommitsNewestFirst(t *testing.T) {
	repo := testutil.NewGitRepo(t)
	c1 := repo.Commit("first")
	c2 := repo.Commit("second")
	c3 := repo.Commit("third")
	db := filepath.Join(t.TempDir(), "ledger.db")

	out, err := execCommand(t, NewDetermineCommand, "text",
		"--db", db, "--repo", repo.Dir, "--branch", "main", "--architecture", "x86_64")
	require.NoError(t, err)

	assert.Equal(t, []string{c3, c2, c1}, strings.Fields(out))
}

func TestDetermineExcludesMarkedCommits(t *testing.T) {
	repo := testutil.NewGitRepo(t)
	c1 := repo.Commit("first")
	c2 := repo.Commit("second")
	c3 := repo.Commit("third")
	db := filepath.Join(t.TempDir(), "ledger.db")

	_, err := execCommand(t, NewMarkCommand, "text",
		"--db", db, "--repo", repo.Dir, "--status", "complete", "--architecture", "x86_64", c2)
	require.NoError(t, err)

	out, err := execCommand(t, NewDetermineCommand, "text",
		"--db", db, "--repo", repo.Dir, "--branch", "main", "--architecture", "x86_64")
	require.NoError(t, err)

	assert.Equal(t, []string{c3, c1}, strings.Fields(out))
}

func TestDetermineHonorsMaxCommits(t *testing.T) {
	repo := testutil.NewGitRepo(t)
	repo.Commit("first")
	repo.Commit("second")
	c3 := repo.Commit("third")
	db := filepath.Join(t.TempDir(), "ledger.db")

	out, err := execCommand(t, NewDetermineCommand, "text",
		"--db", db, "--repo", repo.Dir, "--branch", "main", "--architecture", "x86_64",
		"--max-commits", "1")
	require.NoError(t, err)

	assert.Equal(t, []string{c3}, strings.Fields(out))
}

func TestDetermineRejectsNegativeMaxCommits(t *testing.T) {
	repo := testutil.NewGitRepo(t)
	repo.Commit("first")
	db := filepath.Join(t.TempDir(), "ledger.db")

	_, err := execCommand(t, NewDetermineCommand, "text",
		"--db", db, "--repo", repo.Dir, "--branch", "main", "--architecture", "x86_64",
		"--max-commits", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDetermineJSONOutput(t *testing.T) {
	repo := testutil.NewGitRepo(t)
	c1 := repo.Commit("first")
	db := filepath.Join(t.TempDir(), "ledger.db")

	out, err := execCommand(t, NewDetermineCommand, "json",
		"--db", db, "--repo", repo.Dir, "--branch", "main", "--architecture", "x86_64")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Commits []string `json:"commits"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{c1}, resp.Data.Commits)
}

func TestDetermineUnknownBranch(t *testing.T) {
	repo := testutil.NewGitRepo(t)
	repo.Commit("first")
	db := filepath.Join(t.TempDir(), "ledger.db")

	_, err := execCommand(t, NewDetermineCommand, "text",
		"--db", db, "--repo", repo.Dir, "--branch", "no-such-branch", "--architecture", "x86_64")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
