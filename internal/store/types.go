package store

import (
	"fmt"
	"time"

	"github.com/benchtrack/benchtrack/internal/conf"
)

// Status is the lifecycle state of a work item.
type Status string

const (
	// StatusInProgress marks claimed work. Never persists across a decision
	// cycle: every decision run first deletes all in_progress rows.
	StatusInProgress Status = "in_progress"

	// StatusComplete marks a recorded result. Complete rows are permanent
	// history and are never deleted by the ledger.
	StatusComplete Status = "complete"
)

// ParseStatus validates a status string from an external surface.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInProgress, StatusComplete:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid status %q: must be %q or %q", s, StatusInProgress, StatusComplete)
	}
}

// WorkItem is one ledger row: a (commit, configuration, architecture)
// benchmarking attempt and its status.
type WorkItem struct {
	SHA          string     // full commit id, never symbolic
	Timestamp    time.Time  // the commit's authoring time, not run wall-clock
	Status       Status
	Config       conf.Value // object or array-of-objects document
	Architecture string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IntegrityError reports a stored config that cannot be deserialized, or a
// row violating an expected invariant on read. Surfaced to the caller
// rather than skipped: silently dropping a row could hide double-booked
// benchmark work.
type IntegrityError struct {
	SHA          string
	Architecture string
	Err          error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("corrupt ledger row for %s on %s: %v", e.SHA, e.Architecture, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
