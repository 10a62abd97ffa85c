package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/parchment/internal/run"
)

func newTestRepo(t *testing.T) run.Repository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.RunRepository()
}

func TestRunRepository_SaveInsertsAndSetsID(t *testing.T) {
	repo := newTestRepo(t)

	rec := &run.Record{
		RunID:       "run-1",
		StartTime:   "2024-06-01T00:00:00Z",
		PolicyCount: 3,
	}
	require.NoError(t, repo.Save(rec))
	assert.Greater(t, rec.ID, int64(0), "insert should assign an ID")
}

func TestRunRepository_SaveUpdatesExisting(t *testing.T) {
	repo := newTestRepo(t)

	rec := &run.Record{
		RunID:       "run-1",
		StartTime:   "2024-06-01T00:00:00Z",
		PolicyCount: 3,
	}
	require.NoError(t, repo.Save(rec))

	endTime := "2024-06-01T01:00:00Z"
	success := true
	rec.EndTime = &endTime
	rec.Success = &success
	require.NoError(t, repo.Save(rec))

	found, err := repo.FindByRunID("run-1")
	require.NoError(t, err)
	require.NotNil(t, found.EndTime)
	assert.Equal(t, endTime, *found.EndTime)
	require.NotNil(t, found.Success)
	assert.True(t, *found.Success)
}

func TestRunRepository_FindByRunID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByRunID("never-ran")
	require.Error(t, err)
	var notFound *run.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "never-ran", notFound.RunID)
}

func TestRunRepository_FindByRunID_NullableFields(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Save(&run.Record{
		RunID:     "run-open",
		StartTime: "2024-06-01T00:00:00Z",
	}))

	found, err := repo.FindByRunID("run-open")
	require.NoError(t, err)
	assert.Nil(t, found.EndTime, "end_time should stay NULL until finalized")
	assert.Nil(t, found.Success, "success should stay NULL until finalized")
	assert.Equal(t, 0, found.PolicyCount)
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	for _, rec := range []*run.Record{
		{RunID: "run-old", StartTime: "2024-06-01T00:00:00Z"},
		{RunID: "run-new", StartTime: "2024-06-02T00:00:00Z"},
		{RunID: "run-mid", StartTime: "2024-06-01T12:00:00Z"},
	} {
		require.NoError(t, repo.Save(rec))
	}

	records, err := repo.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "run-new", records[0].RunID)
	assert.Equal(t, "run-mid", records[1].RunID)
	assert.Equal(t, "run-old", records[2].RunID)
}

func TestRunRepository_ListEmpty(t *testing.T) {
	repo := newTestRepo(t)

	records, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordFromMetadata(t *testing.T) {
	success := true
	meta := &run.Metadata{
		RunID:       "run-1",
		StartTime:   "2024-06-01T00:00:00Z",
		EndTime:     "2024-06-01T01:00:00Z",
		PolicyCount: 2,
		Success:     &success,
	}

	rec := run.RecordFromMetadata(meta)
	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, meta.StartTime, rec.StartTime)
	require.NotNil(t, rec.EndTime)
	assert.Equal(t, meta.EndTime, *rec.EndTime)
	require.NotNil(t, rec.Success)
	assert.True(t, *rec.Success)
	assert.Equal(t, 2, rec.PolicyCount)
}
