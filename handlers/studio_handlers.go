package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"videothingy/narrator/internal/view"
	"videothingy/narrator/middleware"
	"videothingy/narrator/utils"
)

// GetStudio godoc
// @Summary Get the studio
// @Description Returns the caller's studio view: draft, generate button state, voices, preview and playback pane.
// @Tags studio
// @Produce  json
// @Success 200 {object} StudioResponse "Studio view model"
// @Router /studio [get]
func (h *ApplicationHandler) GetStudio(c *fiber.Ctx) error {
	st := h.Sessions.Get(middleware.SessionID(c))
	return c.JSON(StudioResponse{
		Status:  "success",
		Message: "Studio retrieved",
		Data:    view.Build(st.Snapshot(), h.Voices.List()),
	})
}

// StudioPage renders the studio as HTML.
func (h *ApplicationHandler) StudioPage(c *fiber.Ctx) error {
	st := h.Sessions.Get(middleware.SessionID(c))

	var buf bytes.Buffer
	if err := h.Renderer.Render(&buf, view.Build(st.Snapshot(), h.Voices.List())); err != nil {
		h.Logger.WithError(err).WithField("session_id", st.ID()).Error("Failed to render studio page")
		return fiber.NewError(fiber.StatusInternalServerError, "Could not render studio")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(buf.Bytes())
}

// Health reports liveness.
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"message": "Narrator studio is healthy",
	})
}

// ErrorHandler maps errors that escape handlers to the JSON error envelope.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
			message = fe.Message
		} else {
			logger.WithError(err).WithField("request_id", middleware.RequestID(c)).Error("Unhandled error")
		}
		return utils.RespondWithError(c, code, message)
	}
}
