package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"videothingy/narrator/internal/auth"
	"videothingy/narrator/internal/jobs"
	"videothingy/narrator/internal/speech"
	"videothingy/narrator/internal/studio"
	"videothingy/narrator/internal/view"
	"videothingy/narrator/internal/worker"
	"videothingy/narrator/models"
	"videothingy/narrator/utils"
)

// Identity resolves the user behind an access token.
type Identity interface {
	CurrentUser(ctx context.Context, accessToken string) (*auth.User, error)
}

// VideoReader loads job rows.
type VideoReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Video, error)
}

// JobSubmitter queues background work.
type JobSubmitter interface {
	SubmitJob(job worker.Job) error
}

// PreviewSynthesizer produces voice samples.
type PreviewSynthesizer interface {
	Synthesize(ctx context.Context, text, providerVoiceID string) (*speech.Audio, error)
}

// VoiceCatalog lists and resolves voice presets.
type VoiceCatalog interface {
	List() []models.Voice
	Lookup(id string) (models.Voice, error)
}

// Deps are the collaborators handlers need.
type Deps struct {
	Logger      *logrus.Logger
	Sessions    *studio.Registry
	Voices      VoiceCatalog
	Identity    Identity
	Videos      VideoReader
	Runner      jobs.Runner
	Jobs        JobSubmitter
	Speech      PreviewSynthesizer
	PreviewText string
	Renderer    *view.Renderer
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Deps
	validate *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(deps Deps) *ApplicationHandler {
	return &ApplicationHandler{
		Deps:     deps,
		validate: utils.NewValidator(),
	}
}
