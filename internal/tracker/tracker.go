// Package tracker decides which commits still need benchmarking and records
// claim/completion status in the ledger.
//
// The tracker is a stateless service layer: every operation is a blocking
// call against the shared store, usable concurrently from independent
// runner processes. Upsert atomicity comes from the store; the only known
// race is between a determine call and the subsequent in_progress mark a
// runner performs to claim a commit - two runners invoked concurrently with
// the same inputs can be handed the same commit. Deployments either
// serialize determine calls or treat the claim as a best-effort
// optimization and re-check before starting expensive work. There is no
// lease or timer on in_progress rows; they survive until the next decision
// cycle reclaims them.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/benchtrack/benchtrack/internal/conf"
	"github.com/benchtrack/benchtrack/internal/store"
)

// SymbolicHead is the marker callers may pass in place of a concrete
// commit id. It is resolved through the RevisionSource before storage;
// symbolic references are never persisted.
const SymbolicHead = "HEAD"

// ErrInvalidInput marks caller mistakes: a negative commit budget, an
// unknown status, or a symbolic revision that cannot be resolved.
var ErrInvalidInput = errors.New("invalid input")

// RevisionSource supplies candidate revisions of the benchmarked project.
// Implemented by gitrepo.Repo in production and faked in tests.
type RevisionSource interface {
	// RevList returns commit ids reachable from branch, newest first.
	RevList(ctx context.Context, branch string) ([]string, error)
	// CommitTime returns the authoring time of a commit.
	CommitTime(ctx context.Context, sha string) (time.Time, error)
	// ResolveHead resolves the symbolic HEAD reference to a commit id.
	ResolveHead(ctx context.Context) (string, error)
}

// Tracker combines the ledger store, the revision source, and the subset
// matcher into the benchmark work-deduplication service.
type Tracker struct {
	store  *store.Store
	revs   RevisionSource
	logger *slog.Logger
}

// New creates a Tracker. A nil logger falls back to slog.Default().
func New(st *store.Store, revs RevisionSource, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		store:  st,
		revs:   revs,
		logger: logger,
	}
}

// Query returns the ledger rows for an architecture, newest commit first,
// optionally narrowed to one exact configuration.
func (t *Tracker) Query(ctx context.Context, architecture string, config conf.Value) ([]store.WorkItem, error) {
	return t.store.Find(ctx, architecture, config)
}

// ListConfigs returns every distinct configuration document recorded in
// the ledger.
func (t *Tracker) ListConfigs(ctx context.Context) ([]conf.Value, error) {
	return t.store.DistinctConfigs(ctx)
}
