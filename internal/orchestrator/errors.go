package orchestrator

import (
	"errors"
	"fmt"

	"videothingy/narrator/internal/auth"
	"videothingy/narrator/internal/speech"
	"videothingy/narrator/internal/video"
)

// ErrPanicked wraps a panic recovered from a generation run.
var ErrPanicked = errors.New("generation panicked")

// Kind classifies why a generation run stopped.
type Kind string

const (
	KindAuth        Kind = "auth"
	KindPersistence Kind = "persistence"
	KindProvider    Kind = "provider"
	KindUnexpected  Kind = "unexpected"
)

// GenerationError is returned by Generate for every failed run.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// UserMessage is the single line of text shown to the user for this failure.
func (e *GenerationError) UserMessage() string {
	switch {
	case errors.Is(e.Err, auth.ErrNoSignedInUser):
		return "Please sign in to generate videos"
	case errors.Is(e.Err, speech.ErrSpeechFailed):
		return "Failed to generate speech"
	case errors.Is(e.Err, video.ErrVideoFailed):
		return "Failed to generate video"
	case e.Kind == KindPersistence:
		return "Failed to save video"
	default:
		return "Failed to generate video"
	}
}

func newError(kind Kind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}

// UserMessage returns the display text for any error coming out of Generate.
func UserMessage(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.UserMessage()
	}
	return "Failed to generate video"
}
