package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"videothingy/narrator/internal/studio"
	"videothingy/narrator/internal/view"
	"videothingy/narrator/middleware"
	"videothingy/narrator/models"
	"videothingy/narrator/utils"
)

// SelectVoiceRequest is the body of a voice selection.
type SelectVoiceRequest struct {
	VoiceID string `json:"voice_id" validate:"required,notblank"`
}

// VoiceListResponse is the envelope carrying the voice catalog.
type VoiceListResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    []models.Voice `json:"data"`
}

// PreviewResult reports how a preview press was resolved.
type PreviewResult struct {
	Decision string       `json:"decision"`
	Preview  view.Preview `json:"preview"`
	Studio   view.Page    `json:"studio"`
}

// PreviewResponse is the envelope carrying a PreviewResult.
type PreviewResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    PreviewResult `json:"data"`
}

// ListVoices godoc
// @Summary List voices
// @Description Returns the voice presets available for narration.
// @Tags voices
// @Produce  json
// @Success 200 {object} VoiceListResponse "Voice catalog"
// @Router /voices [get]
func (h *ApplicationHandler) ListVoices(c *fiber.Ctx) error {
	return c.JSON(VoiceListResponse{Status: "success", Message: "Voices retrieved", Data: h.Voices.List()})
}

// SelectVoice godoc
// @Summary Select a voice
// @Description Selects the voice used by the session's next generation.
// @Tags studio
// @Accept  json
// @Produce  json
// @Param   voice body SelectVoiceRequest true "Voice to select"
// @Success 200 {object} StudioResponse "Updated studio"
// @Failure 400 {object} utils.ErrorResponse "Missing voice id"
// @Failure 404 {object} utils.ErrorResponse "Unknown voice"
// @Router /studio/voice [put]
func (h *ApplicationHandler) SelectVoice(c *fiber.Ctx) error {
	req := new(SelectVoiceRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.RespondWithValidationError(c, err)
	}

	st := h.Sessions.Get(middleware.SessionID(c))
	if _, err := h.Voices.Lookup(req.VoiceID); err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Unknown voice")
	}
	st.SelectVoice(req.VoiceID)

	return c.JSON(StudioResponse{
		Status:  "success",
		Message: "Voice selected",
		Data:    view.Build(st.Snapshot(), h.Voices.List()),
	})
}

// SelectVoiceForm handles a voice button on the studio page.
func (h *ApplicationHandler) SelectVoiceForm(c *fiber.Ctx) error {
	voiceID := c.Params("voiceId")
	if _, err := h.Voices.Lookup(voiceID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Unknown voice")
	}
	h.Sessions.Get(middleware.SessionID(c)).SelectVoice(voiceID)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// pressPreview resolves a preview press and, when a new sample is needed,
// fetches it synchronously. Sample failures are only logged.
func (h *ApplicationHandler) pressPreview(c *fiber.Ctx) (*studio.Studio, studio.PreviewDecision, error) {
	voiceID := c.Params("voiceId")
	voice, err := h.Voices.Lookup(voiceID)
	if err != nil {
		return nil, studio.PreviewIgnore, fiber.NewError(fiber.StatusNotFound, "Unknown voice")
	}

	st := h.Sessions.Get(middleware.SessionID(c))
	decision, token := st.PressPreview(voiceID)
	if decision != studio.PreviewLoad {
		return st, decision, nil
	}

	entry := h.Logger.WithFields(logrus.Fields{"session_id": st.ID(), "voice_id": voiceID})
	audio, err := h.Speech.Synthesize(c.UserContext(), h.PreviewText, voice.ProviderVoiceID)
	if err != nil {
		entry.WithError(err).Error("Error previewing voice")
		st.PreviewFailed(token)
		return st, decision, nil
	}

	if !st.PreviewLoaded(token, studio.PreviewClip{VoiceID: voiceID, Data: audio.Data, ContentType: audio.ContentType}) {
		entry.Debug("Dropped preview superseded by a newer one")
	}
	return st, decision, nil
}

// PressPreview godoc
// @Summary Press a voice preview button
// @Description Loads a sample of the voice, or toggles playback when the selected voice's sample is already loaded. Presses while the voice is loading are ignored.
// @Tags studio
// @Produce  json
// @Param   voiceId path string true "Voice ID"
// @Success 200 {object} PreviewResponse "How the press was resolved"
// @Failure 404 {object} utils.ErrorResponse "Unknown voice"
// @Router /studio/voices/{voiceId}/preview [post]
func (h *ApplicationHandler) PressPreview(c *fiber.Ctx) error {
	st, decision, err := h.pressPreview(c)
	if err != nil {
		return err
	}
	page := view.Build(st.Snapshot(), h.Voices.List())
	return c.JSON(PreviewResponse{
		Status:  "success",
		Message: "Preview " + decision.String(),
		Data:    PreviewResult{Decision: decision.String(), Preview: page.Preview, Studio: page},
	})
}

// PressPreviewForm handles a preview button on the studio page.
func (h *ApplicationHandler) PressPreviewForm(c *fiber.Ctx) error {
	if _, _, err := h.pressPreview(c); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// PreviewAudio godoc
// @Summary Get the current preview sample
// @Description Streams the session's loaded voice sample.
// @Tags studio
// @Produce  audio/mpeg
// @Success 200 {file} binary "Audio bytes"
// @Failure 404 {object} utils.ErrorResponse "No preview loaded"
// @Router /studio/preview/audio [get]
func (h *ApplicationHandler) PreviewAudio(c *fiber.Ctx) error {
	clip, ok := h.Sessions.Get(middleware.SessionID(c)).PreviewClip()
	if !ok {
		return utils.RespondWithError(c, fiber.StatusNotFound, "No preview loaded")
	}
	c.Set(fiber.HeaderContentType, clip.ContentType)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(clip.Data)
}

// PreviewEnded godoc
// @Summary Report preview playback ended
// @Tags studio
// @Success 204 "Recorded"
// @Router /studio/preview/ended [post]
func (h *ApplicationHandler) PreviewEnded(c *fiber.Ctx) error {
	h.Sessions.Get(middleware.SessionID(c)).PreviewEnded()
	return c.SendStatus(fiber.StatusNoContent)
}
