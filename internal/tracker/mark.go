package tracker

import (
	"context"
	"fmt"

	"github.com/benchtrack/benchtrack/internal/conf"
	"github.com/benchtrack/benchtrack/internal/store"
)

// MarkCommits records a status for each given commit id on an architecture,
// under one configuration document (nil is recorded as the empty config).
// The symbolic HEAD marker is resolved to a concrete id first; the commit's
// authoring time is looked up and stored alongside.
//
// Marking is idempotent and safe from multiple processes: each write is a
// single atomic upsert, so re-marking a triple only advances updated_at and
// marking with a new status overwrites the old one in place.
func (t *Tracker) MarkCommits(ctx context.Context, shas []string, status store.Status, architecture string, config conf.Value) error {
	for _, sha := range shas {
		if sha == SymbolicHead {
			resolved, err := t.revs.ResolveHead(ctx)
			if err != nil {
				return fmt.Errorf("%w: cannot resolve %s: %v", ErrInvalidInput, SymbolicHead, err)
			}
			sha = resolved
		}

		timestamp, err := t.revs.CommitTime(ctx, sha)
		if err != nil {
			return fmt.Errorf("commit time of %s: %w", shortSHA(sha), err)
		}

		item := store.WorkItem{
			SHA:          sha,
			Timestamp:    timestamp,
			Status:       status,
			Config:       config,
			Architecture: architecture,
		}
		if err := t.store.Upsert(ctx, item); err != nil {
			return err
		}

		t.logger.Info("marked commit",
			"sha", shortSHA(sha),
			"architecture", architecture,
			"status", string(status),
			"timestamp", timestamp,
			"config", conf.Summary(config),
		)
	}

	return nil
}

// CleanupIncomplete removes every in_progress row and returns the count.
// The decision engine does this automatically at the start of each cycle;
// this standalone entry point lets an operator reset abandoned claims
// without running a decision.
func (t *Tracker) CleanupIncomplete(ctx context.Context) (int64, error) {
	count, err := t.store.DeleteByStatus(ctx, store.StatusInProgress)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		t.logger.Info("cleaned up incomplete commits", "count", count)
	}
	return count, nil
}
