// Package orchestrator runs one narrated video generation from identity lookup
// through the final row update.
package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"videothingy/narrator/internal/auth"
	"videothingy/narrator/internal/speech"
	"videothingy/narrator/internal/voices"
	"videothingy/narrator/models"
)

// Authenticator resolves the user behind an access token.
type Authenticator interface {
	CurrentUser(ctx context.Context, accessToken string) (*auth.User, error)
}

// VideoStore persists generation job rows.
type VideoStore interface {
	Insert(ctx context.Context, v models.NewVideo) (*models.Video, error)
	Complete(ctx context.Context, id uuid.UUID, videoURL, audioURL string) error
	Fail(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Video, error)
}

// SpeechSynthesizer turns a script into narration audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, providerVoiceID string) (*speech.Audio, error)
}

// AudioUploader makes narration audio addressable by URL.
type AudioUploader interface {
	UploadAudio(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// VideoGenerator produces a video from a text prompt and returns its URL.
type VideoGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VoiceResolver maps a preset id to its provider voice.
type VoiceResolver interface {
	Lookup(id string) (models.Voice, error)
}

// Request is everything a single run needs from the caller.
type Request struct {
	AccessToken string
	Title       string
	Script      string
	VoiceID     string
}

// Hooks lets the caller observe progress. Nil fields are skipped.
type Hooks struct {
	// OnCreated fires once the row exists, before any provider call.
	OnCreated func(models.Video)
}

// Orchestrator sequences the persistence and provider calls for a run.
type Orchestrator struct {
	identity Authenticator
	store    VideoStore
	speech   SpeechSynthesizer
	uploader AudioUploader
	video    VideoGenerator
	voices   VoiceResolver
	logger   *logrus.Logger
	now      func() time.Time
}

// New creates an Orchestrator.
func New(identity Authenticator, store VideoStore, synth SpeechSynthesizer, uploader AudioUploader,
	gen VideoGenerator, voiceResolver VoiceResolver, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		identity: identity,
		store:    store,
		speech:   synth,
		uploader: uploader,
		video:    gen,
		voices:   voiceResolver,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate runs the whole sequence once. Any step failing aborts the run;
// the row created by this run, if any, is then marked failed.
func (o *Orchestrator) Generate(ctx context.Context, req Request, hooks Hooks) (*models.Video, error) {
	started := o.now()

	user, err := o.identity.CurrentUser(ctx, req.AccessToken)
	if err != nil {
		o.logger.WithError(err).Warn("Generation rejected: no signed-in user")
		return nil, newError(KindAuth, err)
	}
	if user == nil {
		return nil, newError(KindAuth, auth.ErrNoSignedInUser)
	}

	logger := o.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"voice_id": req.VoiceID,
	})

	voice, err := o.voices.Lookup(req.VoiceID)
	if err != nil {
		logger.WithError(err).Warn("Generation rejected: unknown voice")
		return nil, newError(KindUnexpected, err)
	}

	row, err := o.store.Insert(ctx, models.NewVideo{
		UserID:  user.ID,
		Title:   req.Title,
		Script:  req.Script,
		VoiceID: req.VoiceID,
		Status:  models.StatusProcessing,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to create video record")
		return nil, newError(KindPersistence, err)
	}
	logger = logger.WithField("video_id", row.ID)

	if hooks.OnCreated != nil {
		hooks.OnCreated(row.Clone())
	}

	completed, genErr := o.produceSafely(ctx, logger, user, voice, req, row)
	if genErr != nil {
		logger.WithError(genErr).WithField("kind", genErr.Kind).Error("Error generating video")
		o.markFailed(ctx, logger, row.ID)
		return nil, genErr
	}

	logger.WithField("duration", o.now().Sub(started).String()).Info("Video generation completed")
	return completed, nil
}

// produce runs the provider calls and the completion update for an existing row.
func (o *Orchestrator) produce(ctx context.Context, logger *logrus.Entry, user *auth.User, voice models.Voice,
	req Request, row *models.Video) (*models.Video, *GenerationError) {
	audio, err := o.speech.Synthesize(ctx, req.Script, voice.ProviderVoiceID)
	if err != nil {
		return nil, newError(KindProvider, err)
	}
	logger.WithField("bytes", len(audio.Data)).Debug("Speech synthesized")

	audioPath := fmt.Sprintf("%s/%s.mp3", user.ID, row.ID)
	audioURL, err := o.uploader.UploadAudio(ctx, audioPath, audio.Data, audio.ContentType)
	if err != nil {
		return nil, newError(KindPersistence, err)
	}

	videoURL, err := o.video.Generate(ctx, req.Title)
	if err != nil {
		logger.WithField("audio_path", audioPath).Warn("Narration audio kept in storage after video failure")
		return nil, newError(KindProvider, err)
	}

	if err := o.store.Complete(ctx, row.ID, videoURL, audioURL); err != nil {
		return nil, newError(KindPersistence, err)
	}

	local := row.Clone()
	local.Status = models.StatusCompleted
	local.VideoURL = models.StringPtr(videoURL)
	local.AudioURL = models.StringPtr(audioURL)

	fresh, err := o.store.Get(ctx, row.ID)
	if err != nil {
		logger.WithError(err).Warn("Failed to re-fetch completed video, using local copy")
		return &local, nil
	}
	return fresh, nil
}

// produceSafely runs produce and turns a panic into an unexpected error so
// the row still gets marked failed.
func (o *Orchestrator) produceSafely(ctx context.Context, logger *logrus.Entry, user *auth.User, voice models.Voice,
	req Request, row *models.Video) (completed *models.Video, genErr *GenerationError) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).WithField("stack", string(debug.Stack())).Error("Generation panicked")
			completed, genErr = nil, newError(KindUnexpected, fmt.Errorf("%w: %v", ErrPanicked, r))
		}
	}()
	return o.produce(ctx, logger, user, voice, req, row)
}

// markFailed runs even when ctx has already ended so the row never stays
// processing. The store's client bounds how long the update may take.
func (o *Orchestrator) markFailed(ctx context.Context, logger *logrus.Entry, id uuid.UUID) {
	if err := o.store.Fail(context.WithoutCancel(ctx), id); err != nil {
		logger.WithError(err).Error("Could not mark video record as failed")
		return
	}
	logger.Info("Marked video record as failed")
}

var _ VoiceResolver = (*voices.Catalog)(nil)
