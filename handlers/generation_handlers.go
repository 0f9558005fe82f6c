package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"videothingy/narrator/internal/db"
	"videothingy/narrator/internal/jobs"
	"videothingy/narrator/internal/orchestrator"
	"videothingy/narrator/internal/studio"
	"videothingy/narrator/internal/view"
	"videothingy/narrator/internal/voices"
	"videothingy/narrator/internal/worker"
	"videothingy/narrator/middleware"
	"videothingy/narrator/models"
	"videothingy/narrator/utils"
)

const (
	// busyMessage is shown when the worker pool cannot take another generation.
	busyMessage = "The studio is busy, please try again in a moment"
	// incompleteFormMessage is shown when the generate form misses a title or a script.
	incompleteFormMessage = "Please enter a title and a script"
)

// CreateVideoRequest is the body of a generation request, as JSON or form.
type CreateVideoRequest struct {
	Title   string `json:"title" form:"title" validate:"required,notblank"`
	Script  string `json:"script" form:"script" validate:"required,notblank"`
	VoiceID string `json:"voice_id,omitempty" form:"voice_id"`
}

// StudioResponse is the envelope carrying the studio view model.
type StudioResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    view.Page `json:"data"`
}

// VideoResponse is the envelope carrying a single job row.
type VideoResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    models.Video `json:"data"`
}

// startGeneration validates req and queues a generation for the caller's session.
// It returns a *fiber.Error carrying the status to report on rejection.
func (h *ApplicationHandler) startGeneration(c *fiber.Ctx, req *CreateVideoRequest) (*studio.Studio, error) {
	st := h.Sessions.Get(middleware.SessionID(c))
	st.SaveDraft(req.Title, req.Script)

	if err := h.validate.Struct(req); err != nil {
		return st, err
	}

	if req.VoiceID != "" {
		if _, err := h.Voices.Lookup(req.VoiceID); err != nil {
			return st, fiber.NewError(fiber.StatusBadRequest, "Unknown voice")
		}
		st.SelectVoice(req.VoiceID)
	}

	seq, err := st.BeginGeneration()
	if err != nil {
		return st, fiber.NewError(fiber.StatusConflict, "A video is already being generated")
	}

	job := jobs.NewGenerateVideoJob(st, seq, orchestrator.Request{
		AccessToken: middleware.AccessToken(c),
		Title:       req.Title,
		Script:      req.Script,
		VoiceID:     st.SelectedVoice(),
	}, h.Runner, h.Logger)

	if err := h.Jobs.SubmitJob(job); err != nil {
		h.Logger.WithError(err).WithField("session_id", st.ID()).Warn("Could not queue video generation")
		st.GenerationFailed(seq, busyMessage)
		status := fiber.StatusServiceUnavailable
		if !errors.Is(err, worker.ErrQueueFull) && !errors.Is(err, worker.ErrStopped) {
			status = fiber.StatusInternalServerError
		}
		return st, fiber.NewError(status, busyMessage)
	}

	h.Logger.WithFields(logrus.Fields{
		"session_id": st.ID(),
		"job_id":     job.ID(),
		"voice_id":   job.Request.VoiceID,
	}).Info("Queued video generation")
	return st, nil
}

// CreateVideo godoc
// @Summary Start a video generation
// @Description Queues a narrated video generation for the caller's studio session. The result is observed through the studio endpoint.
// @Tags videos
// @Accept  json
// @Produce  json
// @Param   video body CreateVideoRequest true "Title, script and optional voice"
// @Success 202 {object} StudioResponse "Generation started"
// @Failure 400 {object} utils.ErrorResponse "Blank title or script, or unknown voice"
// @Failure 409 {object} utils.ErrorResponse "A generation is already running for this session"
// @Failure 503 {object} utils.ErrorResponse "Worker pool is full"
// @Router /videos [post]
func (h *ApplicationHandler) CreateVideo(c *fiber.Ctx) error {
	req := new(CreateVideoRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	st, err := h.startGeneration(c, req)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.RespondWithError(c, fe.Code, fe.Message)
		}
		return utils.RespondWithValidationError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(StudioResponse{
		Status:  "success",
		Message: "Video generation started",
		Data:    view.Build(st.Snapshot(), h.Voices.List()),
	})
}

// SubmitGenerateForm handles the studio page's generate form.
func (h *ApplicationHandler) SubmitGenerateForm(c *fiber.Ctx) error {
	req := new(CreateVideoRequest)
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse form")
	}

	st, err := h.startGeneration(c, req)
	if err != nil {
		h.Logger.WithError(err).WithField("session_id", st.ID()).Info("Generate form rejected")

		var fe *fiber.Error
		switch {
		case !errors.As(err, &fe):
			st.Reject(incompleteFormMessage)
		case fe.Code == fiber.StatusBadRequest:
			st.Reject(fe.Message)
		}
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// GetVideo godoc
// @Summary Get a video
// @Description Returns a generation job row owned by the signed-in user.
// @Tags videos
// @Produce  json
// @Param   id path string true "Video ID"
// @Success 200 {object} VideoResponse "The video record"
// @Failure 400 {object} utils.ErrorResponse "Invalid video ID format"
// @Failure 401 {object} utils.ErrorResponse "No signed-in user"
// @Failure 404 {object} utils.ErrorResponse "Video not found"
// @Failure 500 {object} utils.ErrorResponse "Store unavailable"
// @Router /videos/{id} [get]
func (h *ApplicationHandler) GetVideo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	user, err := h.Identity.CurrentUser(c.UserContext(), middleware.AccessToken(c))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Please sign in to view videos")
	}

	video, err := h.Videos.Get(c.UserContext(), id)
	if errors.Is(err, db.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}
	if err != nil {
		h.Logger.WithError(err).WithField("video_id", id).Error("Failed to fetch video")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not fetch video")
	}
	if video.UserID != user.ID {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}

	return c.JSON(VideoResponse{Status: "success", Message: "Video retrieved", Data: *video})
}

var _ VoiceCatalog = (*voices.Catalog)(nil)
