package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchtrack/benchtrack/internal/conf"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig(t *testing.T, src string) conf.Value {
	t.Helper()
	v, err := conf.ParseJSON([]byte(src))
	require.NoError(t, err)
	return v
}

func testItem(t *testing.T, sha string, status Status, configSrc string) WorkItem {
	t.Helper()
	return WorkItem{
		SHA:          sha,
		Timestamp:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Status:       status,
		Config:       testConfig(t, configSrc),
		Architecture: "x86_64",
	}
}

func TestUpsert_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	item := testItem(t, "abc123", StatusComplete, `{"clients":[1,2]}`)

	require.NoError(t, s.Upsert(ctx, item))

	first, err := s.Find(ctx, "x86_64", nil)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, s.Upsert(ctx, item))

	second, err := s.Find(ctx, "x86_64", nil)
	require.NoError(t, err)
	require.Len(t, second, 1, "re-marking the same triple must not add a row")

	assert.Equal(t, first[0].CreatedAt, second[0].CreatedAt, "created_at must not change on conflict")
	assert.False(t, second[0].UpdatedAt.Before(first[0].UpdatedAt), "updated_at must advance")
}

func TestUpsert_StatusTransition(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testItem(t, "abc123", StatusInProgress, `{"clients":[1]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "abc123", StatusComplete, `{"clients":[1]}`)))

	items, err := s.Find(ctx, "x86_64", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusComplete, items[0].Status)
}

func TestUpsert_ConfigParticipatesInIdentity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testItem(t, "abc123", StatusComplete, `{"clients":[1]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "abc123", StatusComplete, `{"clients":[2]}`)))

	items, err := s.Find(ctx, "x86_64", nil)
	require.NoError(t, err)
	assert.Len(t, items, 2, "different configs for the same commit are distinct rows")
}

func TestUpsert_CanonicalConfigCollision(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Same document, different key order: must hit the same row.
	a := testItem(t, "abc123", StatusInProgress, `{"clients":[1,2],"tls_mode":"yes"}`)
	b := testItem(t, "abc123", StatusComplete, `{"tls_mode":"yes","clients":[1,2]}`)

	require.NoError(t, s.Upsert(ctx, a))
	require.NoError(t, s.Upsert(ctx, b))

	items, err := s.Find(ctx, "x86_64", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusComplete, items[0].Status)
}

func TestUpsert_ArchitecturesIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item := testItem(t, "abc123", StatusComplete, `{"clients":[1]}`)
	require.NoError(t, s.Upsert(ctx, item))

	item.Architecture = "arm64"
	require.NoError(t, s.Upsert(ctx, item))

	x86, err := s.Find(ctx, "x86_64", nil)
	require.NoError(t, err)
	arm, err := s.Find(ctx, "arm64", nil)
	require.NoError(t, err)
	assert.Len(t, x86, 1)
	assert.Len(t, arm, 1)
}

func TestDeleteByStatus_CleanupScope(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testItem(t, "aaa111", StatusInProgress, `{"clients":[1]}`)))
	require.NoError(t, s.Upsert(ctx, testItem(t, "bbb222", StatusComplete, `{"clients":[1]}`)))

	count, err := s.DeleteByStatus(ctx, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	items, err := s.Find(ctx, "x86_64", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bbb222", items[0].SHA)
	assert.Equal(t, StatusComplete, items[0].Status)
}

func TestDeleteByStatus_NothingToDelete(t *testing.T) {
	s := openTestStore(t)

	count, err := s.DeleteByStatus(context.Background(), StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUpsert_NilConfigStoredAsEmptyObject(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item := testItem(t, "abc123", StatusComplete, `{}`)
	item.Config = nil
	require.NoError(t, s.Upsert(ctx, item))

	items, err := s.Find(ctx, "x86_64", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, conf.Equal(conf.Object{}, items[0].Config))
}
