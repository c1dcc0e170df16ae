package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchtrack/benchtrack/internal/conf"
)

func TestFind_OrderedNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	old := testItem(t, "old111", StatusComplete, `{"clients":[1]}`)
	old.Timestamp = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := testItem(t, "new222", StatusComplete, `{"clients":[1]}`)
	recent.Timestamp = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Upsert(ctx, old))
	require.NoError(t, s.Upsert(ctx, recent))

	items, err := s.Find(ctx, "x86_64", nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new222", items[0].SHA)
	assert.Equal(t, "old111", items[1].SHA)
}

func TestFind_ExactConfigFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testItem(t, "aaa111", StatusComplete, `{"clients":[1]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "bbb222", StatusComplete, `{"clients":[2]}`)))

	items, err := s.Find(ctx, "x86_64", testConfig(t, `{"clients":[1]}`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "aaa111", items[0].SHA)

	// Supersets are not exact matches.
	items, err = s.Find(ctx, "x86_64", testConfig(t, `{"clients":[1,2]}`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCompleteSHAs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testItem(t, "aaa111", StatusComplete, `{"clients":[1]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "bbb222", StatusInProgress, `{"clients":[1]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "ccc333", StatusComplete, `{"clients":[2]}`)))

	// Exact config: only the matching complete row.
	shas, err := s.CompleteSHAs(ctx, "x86_64", testConfig(t, `{"clients":[1]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"aaa111": {}}, shas)

	// No config: complete under any configuration.
	shas, err = s.CompleteSHAs(ctx, "x86_64", nil)
	require.NoError(t, err)
	assert.Len(t, shas, 2)
	assert.Contains(t, shas, "aaa111")
	assert.Contains(t, shas, "ccc333")

	// Other architectures see nothing.
	shas, err = s.CompleteSHAs(ctx, "arm64", nil)
	require.NoError(t, err)
	assert.Empty(t, shas)
}

func TestConfigsForCommit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testItem(t, "aaa111", StatusComplete, `{"clients":[1,2,4]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "aaa111", StatusComplete, `{"pipeline":16}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "aaa111", StatusInProgress, `{"clients":[8]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "bbb222", StatusComplete, `{"clients":[16]}`)))

	configs, err := s.ConfigsForCommit(ctx, "aaa111", "x86_64")
	require.NoError(t, err)
	require.Len(t, configs, 2, "only complete rows for the requested commit")
	assert.True(t, conf.Equal(configs[0], testConfig(t, `{"clients":[1,2,4]}`)))
	assert.True(t, conf.Equal(configs[1], testConfig(t, `{"pipeline":16}`)))
}

func TestDistinctConfigs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testItem(t, "aaa111", StatusComplete, `{"clients":[1]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "bbb222", StatusComplete, `{"clients":[1]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "ccc333", StatusInProgress, `{"clients":[2]}`)))

	configs, err := s.DistinctConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 2)
}

func TestConfigsForCommit_CorruptConfigSurfaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testItem(t, "aaa111", StatusComplete, `{"clients":[1]}`)))

	// Corrupt the stored config behind the store's back.
	_, err := s.db.ExecContext(ctx, `UPDATE benchmark_commits SET config = '{not json' WHERE sha = 'aaa111'`)
	require.NoError(t, err)

	_, err = s.ConfigsForCommit(ctx, "aaa111", "x86_64")
	require.Error(t, err)

	var integrity *IntegrityError
	require.True(t, errors.As(err, &integrity), "corrupt config must surface as IntegrityError, got %v", err)
	assert.Equal(t, "aaa111", integrity.SHA)
}
