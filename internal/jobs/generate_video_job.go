package jobs

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"videothingy/narrator/internal/orchestrator"
	"videothingy/narrator/models"
)

// Runner executes one generation.
type Runner interface {
	Generate(ctx context.Context, req orchestrator.Request, hooks orchestrator.Hooks) (*models.Video, error)
}

// Session receives the outcome of a generation it started.
type Session interface {
	ID() string
	JobCreated(seq uint64, v models.Video) bool
	GenerationSucceeded(seq uint64, v models.Video) bool
	GenerationFailed(seq uint64, message string) bool
}

// GenerateVideoJob runs a narrated video generation for a studio session and
// reports each step back to it under the generation's sequence number.
type GenerateVideoJob struct {
	JobID   string
	Seq     uint64
	Request orchestrator.Request
	session Session
	runner  Runner
	logger  *logrus.Logger
}

// NewGenerateVideoJob creates a job for generation seq of session.
func NewGenerateVideoJob(session Session, seq uint64, req orchestrator.Request, runner Runner, logger *logrus.Logger) *GenerateVideoJob {
	return &GenerateVideoJob{
		JobID:   fmt.Sprintf("%s/%d", session.ID(), seq),
		Seq:     seq,
		Request: req,
		session: session,
		runner:  runner,
		logger:  logger,
	}
}

// ID returns the unique identifier of the job.
func (j *GenerateVideoJob) ID() string {
	return j.JobID
}

// Execute runs the generation. The session always leaves the generating state,
// whether the run succeeds, fails or panics.
func (j *GenerateVideoJob) Execute(ctx context.Context) (err error) {
	entry := j.logger.WithFields(logrus.Fields{"job_id": j.JobID, "session_id": j.session.ID()})

	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("Generation job panicked")
			err = fmt.Errorf("generation %s: %w: %v", j.JobID, orchestrator.ErrPanicked, r)
			j.session.GenerationFailed(j.Seq, orchestrator.UserMessage(err))
		}
	}()

	video, err := j.runner.Generate(ctx, j.Request, orchestrator.Hooks{
		OnCreated: func(v models.Video) {
			if !j.session.JobCreated(j.Seq, v) {
				entry.WithField("video_id", v.ID).Warn("Session moved on before video record was created")
			}
		},
	})
	if err != nil {
		j.session.GenerationFailed(j.Seq, orchestrator.UserMessage(err))
		return fmt.Errorf("generation %s: %w", j.JobID, err)
	}

	if !j.session.GenerationSucceeded(j.Seq, *video) {
		entry.WithField("video_id", video.ID).Warn("Dropped completed video for a superseded generation")
	}
	return nil
}
