package store

import (
	"context"
	"fmt"
	"time"
)

// Upsert inserts or updates the row identified by (sha, config,
// architecture) in a single conditional write. On conflict only status and
// updated_at change; created_at and the commit timestamp keep their
// original values. Marking the same triple twice with the same status
// leaves one row with only updated_at advancing.
//
// The write MUST stay a single INSERT ... ON CONFLICT statement. Splitting
// it into an existence check plus insert/update reintroduces the
// duplicate-row race between concurrent runners.
func (s *Store) Upsert(ctx context.Context, item WorkItem) error {
	configJSON, err := marshalConfig(item.Config)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", item.SHA, err)
	}

	now := marshalTime(time.Now())

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO benchmark_commits
		(sha, timestamp, status, config, architecture, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sha, config, architecture) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`,
		item.SHA,
		marshalTime(item.Timestamp),
		string(item.Status),
		configJSON,
		item.Architecture,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", item.SHA, err)
	}

	return nil
}

// DeleteByStatus bulk-deletes every row with the given status and returns
// the number removed. The decision engine calls this with StatusInProgress
// at the start of every cycle to reclaim abandoned work.
func (s *Store) DeleteByStatus(ctx context.Context, status Status) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM benchmark_commits WHERE status = ?
	`, string(status))
	if err != nil {
		return 0, fmt.Errorf("delete by status %s: %w", status, err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete by status %s: rows affected: %w", status, err)
	}

	return count, nil
}
