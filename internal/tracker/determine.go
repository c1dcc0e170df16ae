package tracker

import (
	"context"
	"fmt"

	"github.com/benchtrack/benchtrack/internal/conf"
	"github.com/benchtrack/benchtrack/internal/store"
)

// DetermineRequest parameterizes one decision cycle.
type DetermineRequest struct {
	// Branch to enumerate candidates from.
	Branch string
	// MaxCommits caps the result. Zero returns an empty result without
	// touching the store; negative is an error.
	MaxCommits int
	// Architecture scopes the ledger lookups; rows for other architectures
	// are invisible.
	Architecture string
	// Config is the requested configuration document. Nil disables both the
	// exact-match and subset checks: any commit already complete on the
	// architecture (under any configuration) is skipped, everything else is
	// returned.
	Config conf.Value
	// DisableSubsetDetection turns off the superset search, leaving only
	// the exact-config match. Subset detection is on by default.
	DisableSubsetDetection bool
}

// DetermineCommitsToBenchmark returns up to MaxCommits candidate commit
// ids, newest first, that still need benchmarking with the requested
// configuration on the requested architecture.
//
// Every call first deletes all in_progress rows store-wide: an in_progress
// row is abandoned work from a crashed (or still-running-elsewhere) run and
// never survives a decision cycle. A commit is skipped when the exact
// config is already complete for it, or - with subset detection on - when
// any recorded complete config covers the requested one.
//
// The result may hold fewer than MaxCommits entries when the candidate
// list is exhausted; an empty result means nothing is left to benchmark.
func (t *Tracker) DetermineCommitsToBenchmark(ctx context.Context, req DetermineRequest) ([]string, error) {
	if req.MaxCommits < 0 {
		return nil, fmt.Errorf("%w: max commits must not be negative, got %d", ErrInvalidInput, req.MaxCommits)
	}
	if req.MaxCommits == 0 {
		return []string{}, nil
	}

	reclaimed, err := t.store.DeleteByStatus(ctx, store.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("reclaim abandoned work: %w", err)
	}
	t.logger.Info("reclaimed abandoned work items", "count", reclaimed)

	candidates, err := t.revs.RevList(ctx, req.Branch)
	if err != nil {
		return nil, fmt.Errorf("list commits on %s: %w", req.Branch, err)
	}

	exact, err := t.store.CompleteSHAs(ctx, req.Architecture, req.Config)
	if err != nil {
		return nil, err
	}

	commits := make([]string, 0, req.MaxCommits)
	subsetSkipped := 0

	for _, sha := range candidates {
		if _, done := exact[sha]; done {
			continue
		}

		if !req.DisableSubsetDetection && req.Config != nil {
			covered, superset, err := t.findSuperset(ctx, sha, req.Architecture, req.Config)
			if err != nil {
				return nil, err
			}
			if covered {
				subsetSkipped++
				t.logger.Info("skipping commit: requested config covered by recorded superset",
					"sha", shortSHA(sha),
					"superset", conf.Summary(superset),
					"superset_data_sizes", conf.Field(superset, "data_sizes"),
				)
				continue
			}
		}

		commits = append(commits, sha)
		if len(commits) >= req.MaxCommits {
			break
		}
	}

	if subsetSkipped > 0 {
		t.logger.Info("subset detection skipped commits with existing superset configs",
			"count", subsetSkipped)
	}

	return commits, nil
}

// findSuperset reports whether any complete config recorded for the commit
// covers the requested one, returning the first covering config found.
// Only single-superset coverage counts: no union across rows is computed,
// so two rows that each cover half of the request do not skip the commit.
func (t *Tracker) findSuperset(ctx context.Context, sha, architecture string, requested conf.Value) (bool, conf.Value, error) {
	recorded, err := t.store.ConfigsForCommit(ctx, sha, architecture)
	if err != nil {
		return false, nil, err
	}

	for _, candidate := range recorded {
		if conf.Subset(requested, candidate) {
			return true, candidate, nil
		}
	}
	return false, nil, nil
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
