package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"videothingy/narrator/middleware"
)

// RegisterRoutes mounts the health check, the studio page with its form
// actions, and the JSON API on app.
func RegisterRoutes(app *fiber.App, h *ApplicationHandler, sessionMaxAge time.Duration) {
	app.Get("/health", Health)

	app.Use(middleware.StudioSession(sessionMaxAge))

	app.Get("/", h.StudioPage)

	forms := app.Group("/studio")
	forms.Post("/generate", h.SubmitGenerateForm)
	forms.Post("/voices/:voiceId/select", h.SelectVoiceForm)
	forms.Post("/voices/:voiceId/preview", h.PressPreviewForm)

	apiV1 := app.Group("/api/v1")
	apiV1.Post("/videos", h.CreateVideo)
	apiV1.Get("/videos/:id", h.GetVideo)
	apiV1.Get("/voices", h.ListVoices)

	studioAPI := apiV1.Group("/studio")
	studioAPI.Get("", h.GetStudio)
	studioAPI.Put("/voice", h.SelectVoice)
	studioAPI.Post("/voices/:voiceId/preview", h.PressPreview)
	studioAPI.Get("/preview/audio", h.PreviewAudio)
	studioAPI.Post("/preview/ended", h.PreviewEnded)
}
