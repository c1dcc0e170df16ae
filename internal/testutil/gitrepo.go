// Package testutil provides shared fixtures for tests that need real
// external collaborators, currently throwaway git repositories.
package testutil

import (
	"os/exec"
	"testing"
)

// GitRepo is a throwaway git repository created under t.TempDir().
type GitRepo struct {
	Dir string
	t   *testing.T
}

// NewGitRepo initializes an empty repository with committer identity
// configured, so commits work in bare CI environments. Tests that cannot
// find a git binary are skipped rather than failed.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	r := &GitRepo{Dir: dir, t: t}
	r.run("init", "--initial-branch=main")
	r.run("config", "user.name", "benchtrack-test")
	r.run("config", "user.email", "benchtrack-test@localhost")
	return r
}

// Commit creates one empty commit and returns its full sha.
func (r *GitRepo) Commit(message string) string {
	r.t.Helper()
	r.run("commit", "--allow-empty", "-m", message)
	return r.Head()
}

// Head returns the current HEAD commit id.
func (r *GitRepo) Head() string {
	r.t.Helper()
	return r.run("rev-parse", "HEAD")
}

func (r *GitRepo) run(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}

	// Trim the trailing newline git prints on plumbing output.
	s := string(out)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
