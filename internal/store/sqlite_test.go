package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-brief/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// --- Page cache ---

func TestSQLite_PageCache_SetAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.SetCachedPage(ctx, "https://acme.com/about", "About Acme", 1*time.Hour)
	require.NoError(t, err)

	p, err := st.GetCachedPage(ctx, "https://acme.com/about")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "About Acme", p.Text)
	assert.Equal(t, "https://acme.com/about", p.URL)
}

func TestSQLite_PageCache_Miss(t *testing.T) {
	st := newTestSQLiteStore(t)

	p, err := st.GetCachedPage(context.Background(), "https://unknown.com/x")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSQLite_PageCache_Expired(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCachedPage(ctx, "https://acme.com/old", "stale", -1*time.Hour))

	p, err := st.GetCachedPage(ctx, "https://acme.com/old")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSQLite_PageCache_Upsert(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCachedPage(ctx, "https://acme.com", "v1", 1*time.Hour))
	require.NoError(t, st.SetCachedPage(ctx, "https://acme.com", "v2", 1*time.Hour))

	p, err := st.GetCachedPage(ctx, "https://acme.com")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "v2", p.Text)
}

func TestSQLite_PrunePages_Expired(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCachedPage(ctx, "https://acme.com/a", "a", -1*time.Hour))
	require.NoError(t, st.SetCachedPage(ctx, "https://acme.com/b", "b", 1*time.Hour))

	n, err := st.PrunePages(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := st.GetCachedPage(ctx, "https://acme.com/b")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestSQLite_PrunePages_Capacity(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	// Insert three entries with distinct fetch times so eviction order is
	// deterministic (oldest first).
	for i, u := range []string{"https://a.com", "https://b.com", "https://c.com"} {
		require.NoError(t, st.SetCachedPage(ctx, u, "text", time.Duration(i+1)*time.Hour))
		time.Sleep(20 * time.Millisecond)
	}

	n, err := st.PrunePages(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	oldest, err := st.GetCachedPage(ctx, "https://a.com")
	require.NoError(t, err)
	assert.Nil(t, oldest)

	newest, err := st.GetCachedPage(ctx, "https://c.com")
	require.NoError(t, err)
	assert.NotNil(t, newest)
}

// --- Runs ---

func TestSQLite_Runs_CreateCompleteList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.ResearchRequest{CompanyName: "Acme", Website: "https://acme.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	brief := &model.Brief{CompanyName: "Acme", Goals: "Build things"}
	require.NoError(t, st.CompleteRun(ctx, run.ID, model.RunStatusComplete, brief))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	require.NotNil(t, runs[0].Brief)
	assert.Equal(t, "Build things", runs[0].Brief.Goals)
}

func TestSQLite_CompleteRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.CompleteRun(context.Background(), "nonexistent", model.RunStatusFailed, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
