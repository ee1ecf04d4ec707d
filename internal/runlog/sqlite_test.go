package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelforge/internal/core"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(id string) *core.RunRecord {
	return &core.RunRecord{
		ID:            id,
		Topic:         "morning routine",
		Style:         core.StyleCinematic,
		Quality:       core.QualityStandard,
		SceneCount:    3,
		EstimatedCost: 0.54,
		EstimatedTime: 540,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		Attempts: []core.ExecutionAttempt{
			{SceneNumber: 1, Tool: "flux_dev", Status: core.AttemptSuccess, AttemptNumber: 1, Duration: 2 * time.Second},
			{SceneNumber: 1, Tool: "luma_ray", Status: core.AttemptFailed, FailureKind: core.FailureTransient, Err: "connection reset", AttemptNumber: 1, Duration: 500 * time.Millisecond},
			{SceneNumber: 1, Tool: "pika_v2", Status: core.AttemptSuccess, AttemptNumber: 2, Duration: 3 * time.Second},
		},
	}
}

func TestStore_SaveAndLoadRun(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	rec := sampleRecord("run-1")
	require.NoError(t, s.SaveRun(ctx, rec))

	got, err := s.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Topic, got.Topic)
	assert.Equal(t, rec.Style, got.Style)
	assert.Equal(t, rec.Quality, got.Quality)
	assert.Equal(t, rec.SceneCount, got.SceneCount)
	assert.InDelta(t, rec.EstimatedCost, got.EstimatedCost, 0.0001)
	assert.Equal(t, rec.EstimatedTime, got.EstimatedTime)

	require.Len(t, got.Attempts, 3)
	assert.Equal(t, "flux_dev", got.Attempts[0].Tool)
	assert.Equal(t, core.AttemptSuccess, got.Attempts[0].Status)
	assert.Empty(t, got.Attempts[0].Err)
	assert.Equal(t, core.FailureTransient, got.Attempts[1].FailureKind)
	assert.Equal(t, "connection reset", got.Attempts[1].Err)
	assert.Equal(t, 500*time.Millisecond, got.Attempts[1].Duration)
	assert.Equal(t, 2, got.Attempts[2].AttemptNumber)
}

func TestStore_SaveRun_UpsertReplacesAttempts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	rec := sampleRecord("run-1")
	require.NoError(t, s.SaveRun(ctx, rec))

	rec.Topic = "evening routine"
	rec.Attempts = rec.Attempts[:1]
	require.NoError(t, s.SaveRun(ctx, rec))

	got, err := s.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "evening routine", got.Topic)
	assert.Len(t, got.Attempts, 1)
}

func TestStore_SaveRun_RequiresID(t *testing.T) {
	s := openStore(t)

	err := s.SaveRun(context.Background(), &core.RunRecord{Topic: "no id"})
	assert.True(t, core.IsKind(err, core.KindValidation))

	err = s.SaveRun(context.Background(), nil)
	assert.True(t, core.IsKind(err, core.KindValidation))
}

func TestStore_LoadRun_NotFound(t *testing.T) {
	s := openStore(t)

	_, err := s.LoadRun(context.Background(), "missing")
	assert.True(t, core.IsKind(err, core.KindNotFound))
}

func TestStore_RecentRuns_NewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		rec := sampleRecord(id)
		rec.Attempts = nil
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.SaveRun(ctx, rec))
	}

	records, err := s.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-c", records[0].ID)
	assert.Equal(t, "run-b", records[1].ID)
	assert.Empty(t, records[0].Attempts)
}

func TestStore_RecentRuns_DefaultLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	rec := sampleRecord("run-1")
	require.NoError(t, s.SaveRun(ctx, rec))

	records, err := s.RecentRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(context.Background(), sampleRecord("run-1")))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.LoadRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "morning routine", got.Topic)
}
