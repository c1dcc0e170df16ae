package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/benchtrack/benchtrack/internal/conf"
)

// Find returns all rows for an architecture, newest commit first. A non-nil
// config narrows the result to exact (canonical) matches. All statuses are
// included; this backs the query operation.
func (s *Store) Find(ctx context.Context, architecture string, config conf.Value) ([]WorkItem, error) {
	query := `
		SELECT sha, timestamp, status, config, architecture, created_at, updated_at
		FROM benchmark_commits
		WHERE architecture = ?
		ORDER BY timestamp DESC, sha ASC
	`
	args := []any{architecture}

	if config != nil {
		configJSON, err := marshalConfig(config)
		if err != nil {
			return nil, fmt.Errorf("find: %w", err)
		}
		query = `
			SELECT sha, timestamp, status, config, architecture, created_at, updated_at
			FROM benchmark_commits
			WHERE architecture = ? AND config = ?
			ORDER BY timestamp DESC, sha ASC
		`
		args = append(args, configJSON)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query work items: %w", err)
	}
	defer rows.Close()

	var items []WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work items: %w", err)
	}

	// Return empty slice instead of nil
	if items == nil {
		items = []WorkItem{}
	}

	return items, nil
}

// CompleteSHAs returns the set of commits recorded complete on an
// architecture. A non-nil config restricts the set to exact matches; nil
// means "complete under any configuration".
func (s *Store) CompleteSHAs(ctx context.Context, architecture string, config conf.Value) (map[string]struct{}, error) {
	query := `
		SELECT DISTINCT sha FROM benchmark_commits
		WHERE status = ? AND architecture = ?
	`
	args := []any{string(StatusComplete), architecture}

	if config != nil {
		configJSON, err := marshalConfig(config)
		if err != nil {
			return nil, fmt.Errorf("complete shas: %w", err)
		}
		query = `
			SELECT DISTINCT sha FROM benchmark_commits
			WHERE status = ? AND architecture = ? AND config = ?
		`
		args = append(args, configJSON)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query complete shas: %w", err)
	}
	defer rows.Close()

	shas := make(map[string]struct{})
	for rows.Next() {
		var sha string
		if err := rows.Scan(&sha); err != nil {
			return nil, fmt.Errorf("scan sha: %w", err)
		}
		shas[sha] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complete shas: %w", err)
	}

	return shas, nil
}

// ConfigsForCommit returns every config recorded complete for one
// commit/architecture pair. The decision engine feeds these to the subset
// matcher when checking whether requested work is already covered.
func (s *Store) ConfigsForCommit(ctx context.Context, sha, architecture string) ([]conf.Value, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT config FROM benchmark_commits
		WHERE sha = ? AND status = ? AND architecture = ?
		ORDER BY id ASC
	`, sha, string(StatusComplete), architecture)
	if err != nil {
		return nil, fmt.Errorf("query configs for %s: %w", sha, err)
	}
	defer rows.Close()

	var configs []conf.Value
	for rows.Next() {
		var configJSON string
		if err := rows.Scan(&configJSON); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}

		config, err := unmarshalConfig(configJSON)
		if err != nil {
			return nil, &IntegrityError{SHA: sha, Architecture: architecture, Err: err}
		}
		configs = append(configs, config)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate configs for %s: %w", sha, err)
	}

	return configs, nil
}

// DistinctConfigs returns every distinct configuration document recorded in
// the ledger, across all commits, statuses, and architectures.
func (s *Store) DistinctConfigs(ctx context.Context) ([]conf.Value, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT config FROM benchmark_commits
		ORDER BY config ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query distinct configs: %w", err)
	}
	defer rows.Close()

	var configs []conf.Value
	for rows.Next() {
		var configJSON string
		if err := rows.Scan(&configJSON); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}

		config, err := unmarshalConfig(configJSON)
		if err != nil {
			return nil, &IntegrityError{Err: err}
		}
		configs = append(configs, config)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distinct configs: %w", err)
	}

	return configs, nil
}

// scanWorkItem reads one row from a Find result set.
func scanWorkItem(rows *sql.Rows) (WorkItem, error) {
	var (
		item       WorkItem
		timestamp  string
		status     string
		configJSON string
		createdAt  string
		updatedAt  string
	)

	if err := rows.Scan(&item.SHA, &timestamp, &status, &configJSON, &item.Architecture, &createdAt, &updatedAt); err != nil {
		return WorkItem{}, fmt.Errorf("scan work item: %w", err)
	}

	st, err := ParseStatus(status)
	if err != nil {
		return WorkItem{}, &IntegrityError{SHA: item.SHA, Architecture: item.Architecture, Err: err}
	}
	item.Status = st

	item.Config, err = unmarshalConfig(configJSON)
	if err != nil {
		return WorkItem{}, &IntegrityError{SHA: item.SHA, Architecture: item.Architecture, Err: err}
	}

	if item.Timestamp, err = unmarshalTime(timestamp); err != nil {
		return WorkItem{}, &IntegrityError{SHA: item.SHA, Architecture: item.Architecture, Err: err}
	}
	if item.CreatedAt, err = unmarshalTime(createdAt); err != nil {
		return WorkItem{}, &IntegrityError{SHA: item.SHA, Architecture: item.Architecture, Err: err}
	}
	if item.UpdatedAt, err = unmarshalTime(updatedAt); err != nil {
		return WorkItem{}, &IntegrityError{SHA: item.SHA, Architecture: item.Architecture, Err: err}
	}

	return item, nil
}
