package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoStatus is the lifecycle state of a generation job.
type VideoStatus string

const (
	StatusPending    VideoStatus = "pending"
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusFailed     VideoStatus = "failed"
)

// Video represents the structure of a generation job row in the database.
type Video struct {
	ID        uuid.UUID   `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UserID    uuid.UUID   `json:"user_id"`
	Title     string      `json:"title"`
	Script    string      `json:"script"`
	VoiceID   string      `json:"voice_id"`
	Status    VideoStatus `json:"status"`
	VideoURL  *string     `json:"video_url"` // Nullable TEXT, set on completion
	AudioURL  *string     `json:"audio_url"` // Nullable TEXT, set on completion
}

// NewVideo holds the columns the application supplies on insert.
// id and created_at are generated by the database.
type NewVideo struct {
	UserID  uuid.UUID   `json:"user_id"`
	Title   string      `json:"title"`
	Script  string      `json:"script"`
	VoiceID string      `json:"voice_id"`
	Status  VideoStatus `json:"status"`
}

// Valid reports whether s is one of the four known states.
func (s VideoStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s VideoStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether moving from s to next goes forward along
// pending -> processing -> completed|failed. Staying in place is not a transition.
func (s VideoStatus) CanTransitionTo(next VideoStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCompleted || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Clone returns a deep copy so callers can hand rows across goroutines.
func (v Video) Clone() Video {
	out := v
	if v.VideoURL != nil {
		u := *v.VideoURL
		out.VideoURL = &u
	}
	if v.AudioURL != nil {
		u := *v.AudioURL
		out.AudioURL = &u
	}
	return out
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
