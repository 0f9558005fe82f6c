// Package studio keeps the per-session state of the video studio: the current
// job, the in-flight generation, the selected voice and the preview player.
// Every mutation goes through a transition method guarded by one mutex.
package studio

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"videothingy/narrator/models"
)

// ErrGenerationInFlight is returned when a session already runs a generation.
var ErrGenerationInFlight = errors.New("a generation is already in progress")

// PollTicket identifies the job a status poll was issued for.
type PollTicket struct {
	Seq     uint64
	VideoID uuid.UUID
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	SessionID     string        `json:"session_id"`
	Generating    bool          `json:"generating"`
	Current       *models.Video `json:"current_video"`
	Error         string        `json:"error,omitempty"`
	SelectedVoice string        `json:"selected_voice"`
	Preview       PreviewState  `json:"preview"`
	DraftTitle    string        `json:"draft_title"`
	DraftScript   string        `json:"draft_script"`
}

// Studio is the state of one browser session.
type Studio struct {
	mu sync.Mutex

	id          string
	seq         uint64
	generating  bool
	current     *models.Video
	currentSeq  uint64
	errMsg      string
	voiceID     string
	preview     previewPlayer
	draftTitle  string
	draftScript string
	lastSeen    time.Time

	now func() time.Time
}

// New creates a session with voiceID selected.
func New(id, voiceID string) *Studio {
	s := &Studio{id: id, voiceID: voiceID, now: time.Now}
	s.lastSeen = s.now()
	return s
}

// ID returns the session id.
func (s *Studio) ID() string { return s.id }

// BeginGeneration starts a new generation and returns its sequence number.
// It clears the previous error.
func (s *Studio) BeginGeneration() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		return 0, ErrGenerationInFlight
	}
	s.seq++
	s.generating = true
	s.errMsg = ""
	s.lastSeen = s.now()
	return s.seq, nil
}

// JobCreated makes v the current job of generation seq.
func (s *Studio) JobCreated(seq uint64, v models.Video) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq || !s.generating {
		return false
	}
	c := v.Clone()
	s.current = &c
	s.currentSeq = seq
	return true
}

// GenerationSucceeded ends generation seq with the completed row.
func (s *Studio) GenerationSucceeded(seq uint64, v models.Video) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq || !s.generating {
		return false
	}
	c := v.Clone()
	s.current = &c
	s.currentSeq = seq
	s.generating = false
	return true
}

// GenerationFailed ends generation seq with a user-facing message. If the run
// had created a row that is still processing locally, it is shown as failed.
func (s *Studio) GenerationFailed(seq uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq || !s.generating {
		return false
	}
	s.generating = false
	s.errMsg = message
	if s.current != nil && s.currentSeq == seq && s.current.Status.CanTransitionTo(models.StatusFailed) {
		s.current.Status = models.StatusFailed
	}
	return true
}

// Reject shows message for a generate request that never started. It is a
// no-op while a generation is running so the running one keeps its banner.
func (s *Studio) Reject(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		return false
	}
	s.errMsg = message
	s.lastSeen = s.now()
	return true
}

// PollTarget returns the ticket for the current job while it is processing.
func (s *Studio) PollTarget() (PollTicket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.Status != models.StatusProcessing {
		return PollTicket{}, false
	}
	return PollTicket{Seq: s.currentSeq, VideoID: s.current.ID}, true
}

// ApplyPoll replaces the current job with the polled row. Results for an older
// ticket, a job that left processing, or a backward status are dropped.
func (s *Studio) ApplyPoll(t PollTicket, v models.Video) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || t.Seq != s.currentSeq || t.VideoID != s.current.ID || v.ID != t.VideoID {
		return false
	}
	if s.current.Status != models.StatusProcessing || v.Status == s.current.Status {
		return false
	}
	if !s.current.Status.CanTransitionTo(v.Status) {
		return false
	}
	c := v.Clone()
	s.current = &c
	return true
}

// SelectVoice changes the voice used by the next generation.
func (s *Studio) SelectVoice(voiceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voiceID = voiceID
	s.lastSeen = s.now()
}

// SaveDraft keeps the last submitted title and script so the form can be refilled.
func (s *Studio) SaveDraft(title, script string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftTitle, s.draftScript = title, script
}

// SelectedVoice returns the currently selected voice id.
func (s *Studio) SelectedVoice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceID
}

// PressPreview resolves a press on voiceID's preview button. For PreviewLoad
// the returned token must be passed to PreviewLoaded or PreviewFailed.
func (s *Studio) PressPreview(voiceID string) (PreviewDecision, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.preview.press(voiceID, s.voiceID)
}

// PreviewLoaded starts playing clip, stopping whatever played before.
func (s *Studio) PreviewLoaded(token uint64, clip PreviewClip) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview.loaded(token, clip)
}

// PreviewFailed clears the loading marker of load token.
func (s *Studio) PreviewFailed(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview.failed(token)
}

// PreviewEnded records that the clip played to its end.
func (s *Studio) PreviewEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview.ended()
}

// PreviewClip returns the loaded clip, if any.
func (s *Studio) PreviewClip() (PreviewClip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview.clip == nil {
		return PreviewClip{}, false
	}
	return *s.preview.clip, true
}

// Snapshot returns a copy of the session state.
func (s *Studio) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:     s.id,
		Generating:    s.generating,
		Error:         s.errMsg,
		SelectedVoice: s.voiceID,
		Preview:       s.preview.state(),
		DraftTitle:    s.draftTitle,
		DraftScript:   s.draftScript,
	}
	if s.current != nil {
		c := s.current.Clone()
		snap.Current = &c
	}
	return snap
}

// Touch marks the session as used now.
func (s *Studio) Touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// idleSince reports whether the session is idle and was last used before cutoff.
func (s *Studio) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.generating && s.lastSeen.Before(cutoff)
}
