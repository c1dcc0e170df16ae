// Package gitrepo enumerates candidate revisions of the benchmarked
// project. It is a thin wrapper over the git CLI: the tracker consumes it
// through an interface and never touches version control directly.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Head is the symbolic marker callers may pass instead of a concrete
// commit id. It is always resolved before anything is stored.
const Head = "HEAD"

// Repo is a git working copy rooted at Dir.
type Repo struct {
	dir string
}

// New returns a Repo for the working copy at dir. The directory is not
// validated here; the first git invocation surfaces any problem.
func New(dir string) *Repo {
	return &Repo{dir: dir}
}

// RevList returns the commit ids reachable from branch, newest first, in
// the order git reports them. The order is preserved, never re-sorted.
func (r *Repo) RevList(ctx context.Context, branch string) ([]string, error) {
	out, err := r.git(ctx, "rev-list", branch)
	if err != nil {
		return nil, fmt.Errorf("rev-list %s: %w", branch, err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CommitTime returns the authoring timestamp of a commit.
func (r *Repo) CommitTime(ctx context.Context, sha string) (time.Time, error) {
	out, err := r.git(ctx, "show", "-s", "--format=%cI", sha)
	if err != nil {
		return time.Time{}, fmt.Errorf("commit time of %s: %w", sha, err)
	}
	t, err := time.Parse(time.RFC3339, out)
	if err != nil {
		return time.Time{}, fmt.Errorf("commit time of %s: parse %q: %w", sha, out, err)
	}
	return t, nil
}

// ResolveHead resolves the symbolic HEAD reference to a concrete commit id.
func (r *Repo) ResolveHead(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", Head)
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return out, nil
}

// git runs one git subcommand in the repository and returns its trimmed
// stdout. Failures carry git's stderr so the operator can see what git
// complained about.
func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
