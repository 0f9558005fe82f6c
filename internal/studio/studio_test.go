package studio

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videothingy/narrator/models"
)

func processingRow() models.Video {
	return models.Video{ID: uuid.New(), Title: "t", Script: "s", VoiceID: "en-US-1", Status: models.StatusProcessing}
}

func completed(v models.Video) models.Video {
	out := v.Clone()
	out.Status = models.StatusCompleted
	out.VideoURL = models.StringPtr("https://cdn/v.mp4")
	out.AudioURL = models.StringPtr("https://cdn/a.mp3")
	return out
}

func TestStudio_GenerationLifecycle(t *testing.T) {
	s := New("sess", "en-US-1")

	seq, err := s.BeginGeneration()
	require.NoError(t, err)
	assert.True(t, s.Snapshot().Generating)

	_, err = s.BeginGeneration()
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	row := processingRow()
	require.True(t, s.JobCreated(seq, row))
	ticket, ok := s.PollTarget()
	require.True(t, ok)
	assert.Equal(t, PollTicket{Seq: seq, VideoID: row.ID}, ticket)

	require.True(t, s.GenerationSucceeded(seq, completed(row)))
	snap := s.Snapshot()
	assert.False(t, snap.Generating)
	assert.Equal(t, models.StatusCompleted, snap.Current.Status)
	assert.Empty(t, snap.Error)

	_, ok = s.PollTarget()
	assert.False(t, ok)
}

func TestStudio_GenerationFailedMarksCurrentRow(t *testing.T) {
	s := New("sess", "en-US-1")
	seq, _ := s.BeginGeneration()
	s.JobCreated(seq, processingRow())

	require.True(t, s.GenerationFailed(seq, "Failed to generate speech"))
	snap := s.Snapshot()
	assert.False(t, snap.Generating)
	assert.Equal(t, "Failed to generate speech", snap.Error)
	assert.Equal(t, models.StatusFailed, snap.Current.Status)

	_, err := s.BeginGeneration()
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Error)
}

func TestStudio_FailureBeforeInsertKeepsPreviousJob(t *testing.T) {
	s := New("sess", "en-US-1")
	seq, _ := s.BeginGeneration()
	prev := completed(processingRow())
	s.GenerationSucceeded(seq, prev)

	seq2, _ := s.BeginGeneration()
	s.GenerationFailed(seq2, "Please sign in to generate videos")

	snap := s.Snapshot()
	assert.Equal(t, prev.ID, snap.Current.ID)
	assert.Equal(t, models.StatusCompleted, snap.Current.Status)
}

func TestStudio_StaleSequenceDropped(t *testing.T) {
	s := New("sess", "en-US-1")
	seq, _ := s.BeginGeneration()
	s.GenerationFailed(seq, "boom")

	assert.False(t, s.JobCreated(seq, processingRow()))
	assert.False(t, s.GenerationSucceeded(seq, completed(processingRow())))
	assert.False(t, s.GenerationFailed(seq+1, "x"))
}

func TestStudio_ApplyPoll(t *testing.T) {
	s := New("sess", "en-US-1")
	seq, _ := s.BeginGeneration()
	row := processingRow()
	s.JobCreated(seq, row)
	ticket, _ := s.PollTarget()

	same := row.Clone()
	assert.False(t, s.ApplyPoll(ticket, same), "unchanged status is not applied")

	assert.True(t, s.ApplyPoll(ticket, completed(row)))
	assert.Equal(t, models.StatusCompleted, s.Snapshot().Current.Status)
}

func TestStudio_ApplyPollNeverDowngrades(t *testing.T) {
	s := New("sess", "en-US-1")
	seq, _ := s.BeginGeneration()
	row := processingRow()
	s.JobCreated(seq, row)
	ticket, _ := s.PollTarget()

	// The run finishes while the poll is in flight.
	s.GenerationSucceeded(seq, completed(row))

	assert.False(t, s.ApplyPoll(ticket, row))
	assert.Equal(t, models.StatusCompleted, s.Snapshot().Current.Status)
}

func TestStudio_ApplyPollStaleTicket(t *testing.T) {
	s := New("sess", "en-US-1")
	seq, _ := s.BeginGeneration()
	first := processingRow()
	s.JobCreated(seq, first)
	oldTicket, _ := s.PollTarget()
	s.GenerationFailed(seq, "boom")

	seq2, _ := s.BeginGeneration()
	second := processingRow()
	s.JobCreated(seq2, second)

	failedFirst := first.Clone()
	failedFirst.Status = models.StatusFailed
	assert.False(t, s.ApplyPoll(oldTicket, failedFirst))

	snap := s.Snapshot()
	assert.Equal(t, second.ID, snap.Current.ID)
	assert.Equal(t, models.StatusProcessing, snap.Current.Status)
}

func TestStudio_SnapshotIsCopy(t *testing.T) {
	s := New("sess", "en-US-1")
	seq, _ := s.BeginGeneration()
	s.GenerationSucceeded(seq, completed(processingRow()))

	snap := s.Snapshot()
	*snap.Current.VideoURL = "mutated"
	assert.Equal(t, "https://cdn/v.mp4", *s.Snapshot().Current.VideoURL)
}

func TestRegistry_GetAndSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(func() string { return "en-US-1" })
	r.now = func() time.Time { return now }

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.Equal(t, "en-US-1", a.SelectedVoice())

	busy := r.Get("busy")
	_, err := busy.BeginGeneration()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, r.Sweep(time.Hour))

	_, ok := r.Lookup("a")
	assert.False(t, ok)
	_, ok = r.Lookup("busy")
	assert.True(t, ok)

	var seen []string
	r.Each(func(s *Studio) { seen = append(seen, s.ID()) })
	assert.Equal(t, []string{"busy"}, seen)
}

func TestStudio_DraftAndVoice(t *testing.T) {
	s := New("sess", "en-US-1")
	s.SaveDraft("Ocean", "Waves roll in.")
	s.SelectVoice("en-US-4")

	snap := s.Snapshot()
	assert.Equal(t, "Ocean", snap.DraftTitle)
	assert.Equal(t, "Waves roll in.", snap.DraftScript)
	assert.Equal(t, "en-US-4", snap.SelectedVoice)
}

func TestStudio_Reject(t *testing.T) {
	s := New("sess", "en-US-1")
	assert.True(t, s.Reject("Please enter a title and a script"))
	assert.Equal(t, "Please enter a title and a script", s.Snapshot().Error)

	seq, err := s.BeginGeneration()
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Error)

	assert.False(t, s.Reject("Unknown voice"))
	assert.Empty(t, s.Snapshot().Error)

	require.True(t, s.GenerationFailed(seq, "Failed to generate speech"))
	assert.Equal(t, "Failed to generate speech", s.Snapshot().Error)
}
