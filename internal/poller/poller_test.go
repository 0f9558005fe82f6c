package poller

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videothingy/narrator/internal/studio"
	"videothingy/narrator/models"
)

type fakeRows struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]models.Video
	err   error
	calls int
}

func (f *fakeRows) Get(_ context.Context, id uuid.UUID) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.rows[id]
	if !ok {
		return nil, errors.New("not found")
	}
	c := v.Clone()
	return &c, nil
}

func (f *fakeRows) set(v models.Video) {
	f.mu.Lock()
	f.rows[v.ID] = v
	f.mu.Unlock()
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func startJob(t *testing.T, st *studio.Studio) models.Video {
	t.Helper()
	seq, err := st.BeginGeneration()
	require.NoError(t, err)
	row := models.Video{ID: uuid.New(), Status: models.StatusProcessing}
	require.True(t, st.JobCreated(seq, row))
	return row
}

func TestSyncOnce_AppliesCompletion(t *testing.T) {
	reg := studio.NewRegistry(func() string { return "en-US-1" })
	rows := &fakeRows{rows: map[uuid.UUID]models.Video{}}

	st := reg.Get("s1")
	row := startJob(t, st)
	reg.Get("idle")

	syncer := NewSynchronizer(reg, rows, time.Second, 0, quietLogger())

	rows.set(row)
	assert.Equal(t, 0, syncer.SyncOnce(context.Background()))

	done := row.Clone()
	done.Status = models.StatusCompleted
	done.VideoURL = models.StringPtr("https://cdn/v.mp4")
	rows.set(done)

	assert.Equal(t, 1, syncer.SyncOnce(context.Background()))
	assert.Equal(t, models.StatusCompleted, st.Snapshot().Current.Status)

	calls := rows.calls
	syncer.SyncOnce(context.Background())
	assert.Equal(t, calls, rows.calls, "terminal jobs are not polled")
}

func TestSyncOnce_FetchErrorKeepsState(t *testing.T) {
	reg := studio.NewRegistry(func() string { return "en-US-1" })
	st := reg.Get("s1")
	startJob(t, st)

	rows := &fakeRows{rows: map[uuid.UUID]models.Video{}, err: errors.New("timeout")}
	syncer := NewSynchronizer(reg, rows, time.Second, 0, quietLogger())

	assert.Equal(t, 0, syncer.SyncOnce(context.Background()))
	assert.Equal(t, models.StatusProcessing, st.Snapshot().Current.Status)
}

func TestRun_PollsUntilCancelled(t *testing.T) {
	reg := studio.NewRegistry(func() string { return "en-US-1" })
	st := reg.Get("s1")
	row := startJob(t, st)

	failed := row.Clone()
	failed.Status = models.StatusFailed
	rows := &fakeRows{rows: map[uuid.UUID]models.Video{row.ID: failed}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSynchronizer(reg, rows, 10*time.Millisecond, time.Hour, quietLogger()).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return st.Snapshot().Current.Status == models.StatusFailed
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("synchronizer did not stop")
	}
}
