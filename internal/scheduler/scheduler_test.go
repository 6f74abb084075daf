package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlbstats/internal"
	"mlbstats/internal/storage"
)

type countingRunner struct {
	runs   atomic.Int32
	failAt int32
}

func (r *countingRunner) Run(context.Context) internal.RunReport {
	n := r.runs.Add(1)
	status := internal.StatusOK
	if n == r.failAt {
		status = internal.StatusFailed
	}
	return internal.RunReport{
		RunID:      fmt.Sprintf("run-%d", n),
		Categories: []internal.CategoryReport{{Category: internal.CategoryBatting, Status: status}},
	}
}

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "mlb_stats.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordMovesSuccessMarkerOnlyOnSuccess(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	runner := &countingRunner{failAt: 2}

	require.NoError(t, Record(ctx, db, runner.Run(ctx)))
	require.NoError(t, Record(ctx, db, runner.Run(ctx)))

	last, err := db.GetMetadata(MetaLastRun)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, strings.HasPrefix(*last, "run-2 "))

	ok, err := db.GetMetadata(MetaLastSucceeded)
	require.NoError(t, err)
	require.NotNil(t, ok)
	assert.True(t, strings.HasPrefix(*ok, "run-1 "))

	rs, err := db.Query(ctx, `SELECT runId, status FROM runs ORDER BY id`)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"run-1", "ok"}, {"run-2", "failed"}}, rs.Rows)
}

func TestRunRepeatsUntilCancelled(t *testing.T) {
	db := openDB(t)
	runner := &countingRunner{}
	svc := NewService(runner, db, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	svc.OnCycle(func(internal.RunReport) {
		if runner.runs.Load() >= 3 {
			cancel()
		}
	})

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(3), runner.runs.Load())
}

type brokenRecorder struct{ calls atomic.Int32 }

func (b *brokenRecorder) InsertRun(context.Context, internal.RunReport) error {
	b.calls.Add(1)
	return errors.New("disk full")
}

func (b *brokenRecorder) SetMetadata(string, string) error { return nil }

func TestRunSurvivesRecorderErrors(t *testing.T) {
	runner := &countingRunner{}
	recorder := &brokenRecorder{}
	svc := NewService(runner, recorder, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	svc.OnCycle(func(internal.RunReport) {
		if runner.runs.Load() >= 2 {
			cancel()
		}
	})
	require.NoError(t, svc.Run(ctx))
	assert.Equal(t, int32(2), recorder.calls.Load())
	assert.ErrorContains(t, svc.RunCycle(context.Background()), "disk full")
}
