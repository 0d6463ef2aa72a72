package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// TestBeginFinishRun verifies the run lifecycle round-trip
func TestBeginFinishRun(t *testing.T) {
	store := newTestStore(t)
	runID := uuid.New()
	started := time.Date(2025, time.July, 14, 6, 0, 0, 0, time.UTC)

	require.NoError(t, store.BeginRun(runID, started))

	run, err := store.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, run.Status)
	assert.True(t, run.StartedAt.Equal(started))
	assert.Nil(t, run.FinishedAt)
	assert.Nil(t, run.Error)

	finished := started.Add(5 * time.Minute)
	require.NoError(t, store.FinishRun(runID, finished, 12, 10, StatusOK, ""))

	run, err = store.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, run.Status)
	assert.Equal(t, 12, run.URLCount)
	assert.Equal(t, 10, run.SavedCount)
	require.NotNil(t, run.FinishedAt)
	assert.True(t, run.FinishedAt.Equal(finished))
	assert.Nil(t, run.Error, "successful run should have no error text")
}

// TestFinishRun_Failed verifies error text is stored for failed runs
func TestFinishRun_Failed(t *testing.T) {
	store := newTestStore(t)
	runID := uuid.New()
	require.NoError(t, store.BeginRun(runID, time.Now()))

	require.NoError(t, store.FinishRun(runID, time.Now(), 3, 0, StatusFailed, "ranking page did not render"))

	run, err := store.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, run.Status)
	require.NotNil(t, run.Error)
	assert.Equal(t, "ranking page did not render", *run.Error)
}

// TestFinishRun_Unknown verifies ErrRunNotFound for unknown IDs
func TestFinishRun_Unknown(t *testing.T) {
	store := newTestStore(t)

	err := store.FinishRun(uuid.New(), time.Now(), 0, 0, StatusOK, "")

	assert.ErrorIs(t, err, ErrRunNotFound)
}

// TestGetRun_Unknown verifies ErrRunNotFound on lookup
func TestGetRun_Unknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(uuid.New())

	assert.ErrorIs(t, err, ErrRunNotFound)
}

// TestRecordAndListArticles verifies per-run article listing in write order
func TestRecordAndListArticles(t *testing.T) {
	store := newTestStore(t)
	runID := uuid.New()
	otherRun := uuid.New()
	require.NoError(t, store.BeginRun(runID, time.Now()))
	require.NoError(t, store.BeginRun(otherRun, time.Now()))

	base := time.Date(2025, time.July, 14, 6, 30, 0, 0, time.UTC)
	_, err := store.RecordArticle(runID, "一つ目", "https://example.test/1", "outputs/20250714/1_一つ目.txt", base)
	require.NoError(t, err)
	_, err = store.RecordArticle(runID, "二つ目", "https://example.test/2", "outputs/20250714/2_二つ目.txt", base.Add(time.Minute))
	require.NoError(t, err)
	_, err = store.RecordArticle(otherRun, "別の回", "https://example.test/3", "outputs/20250715/1_別の回.txt", base)
	require.NoError(t, err)

	articles, err := store.ListArticles(runID)
	require.NoError(t, err)
	require.Len(t, articles, 2, "should only list the requested run's articles")
	assert.Equal(t, "一つ目", articles[0].Title)
	assert.Equal(t, "二つ目", articles[1].Title)
	assert.Equal(t, runID, articles[0].RunID)
}

// TestListRuns verifies newest-first ordering and the limit
func TestListRuns(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2025, time.July, 14, 6, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id := uuid.New()
		ids = append(ids, id)
		require.NoError(t, store.BeginRun(id, base.Add(time.Duration(i)*time.Hour)))
	}

	runs, err := store.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].RunID, "newest run first")
	assert.Equal(t, ids[1], runs[1].RunID)

	all, err := store.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit lists everything")
}
