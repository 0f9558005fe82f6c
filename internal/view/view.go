// Package view turns a studio snapshot into what the studio page shows.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"videothingy/narrator/internal/studio"
	"videothingy/narrator/models"
)

// Texts shown in the playback pane and on the generate button.
const (
	PlaceholderText   = "Your video will appear here"
	ProcessingBanner  = "Processing your video... This may take a few minutes."
	FailedBanner      = "Failed to generate video. Please try again."
	GenerateLabel     = "Generate"
	GeneratingLabel   = "Generating..."
	RefreshSeconds    = 5
	previewAudioRoute = "/api/v1/studio/preview/audio"
)

//go:embed templates/*.html
var templateFS embed.FS

// VoiceOption is one entry of the voice selector.
type VoiceOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
	Loading  bool   `json:"loading"`
	Playing  bool   `json:"playing"`
}

// Playback is the state of the playback pane.
type Playback struct {
	VideoURL    string `json:"video_url,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Banner      string `json:"banner,omitempty"`
	BannerKind  string `json:"banner_kind,omitempty"`
}

// Preview describes the voice sample player.
// AudioURL is distinct per clip so the page can tell a new clip from a
// re-render of the one it is already playing.
type Preview struct {
	VoiceID  string `json:"voice_id,omitempty"`
	Clip     uint64 `json:"clip,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
	Playing  bool   `json:"playing"`
}

// Draft is the script entry the user is working on.
type Draft struct {
	Title  string `json:"title"`
	Script string `json:"script"`
}

// Page is the complete studio view model.
type Page struct {
	Error           string        `json:"error,omitempty"`
	Draft           Draft         `json:"draft"`
	Generating      bool          `json:"generating"`
	GenerateEnabled bool          `json:"generate_enabled"`
	GenerateLabel   string        `json:"generate_label"`
	Voices          []VoiceOption `json:"voices"`
	Playback        Playback      `json:"playback"`
	Preview         Preview       `json:"preview"`
	Status          string        `json:"status,omitempty"`
	AutoRefresh     bool          `json:"auto_refresh"`
	RefreshSeconds  int           `json:"refresh_seconds,omitempty"`
}

// CanGenerate reports whether the generate action is available.
func CanGenerate(title, script string, generating bool) bool {
	return strings.TrimSpace(title) != "" && strings.TrimSpace(script) != "" && !generating
}

// Build assembles the page for snap.
func Build(snap studio.Snapshot, voices []models.Voice) Page {
	draft := Draft{Title: snap.DraftTitle, Script: snap.DraftScript}
	page := Page{
		Error:           snap.Error,
		Draft:           draft,
		Generating:      snap.Generating,
		GenerateEnabled: CanGenerate(draft.Title, draft.Script, snap.Generating),
		GenerateLabel:   GenerateLabel,
		Voices:          make([]VoiceOption, 0, len(voices)),
	}
	if snap.Generating {
		page.GenerateLabel = GeneratingLabel
	}

	for _, v := range voices {
		selected := v.ID == snap.SelectedVoice
		page.Voices = append(page.Voices, VoiceOption{
			ID:       v.ID,
			Name:     v.Name,
			Selected: selected,
			Loading:  snap.Preview.LoadingVoice == v.ID,
			Playing:  selected && snap.Preview.Playing && snap.Preview.VoiceID == v.ID,
		})
	}

	if snap.Preview.VoiceID != "" {
		page.Preview = Preview{
			VoiceID:  snap.Preview.VoiceID,
			Clip:     snap.Preview.Clip,
			AudioURL: fmt.Sprintf("%s?clip=%d", previewAudioRoute, snap.Preview.Clip),
			Playing:  snap.Preview.Playing,
		}
	}

	page.Playback = buildPlayback(snap.Current)
	if snap.Current != nil {
		page.Status = string(snap.Current.Status)
	}

	processing := snap.Current != nil && snap.Current.Status == models.StatusProcessing
	if processing || snap.Generating {
		page.AutoRefresh = true
		page.RefreshSeconds = RefreshSeconds
	}
	return page
}

func buildPlayback(v *models.Video) Playback {
	var pb Playback
	if v != nil {
		if v.VideoURL != nil {
			pb.VideoURL = *v.VideoURL
		}
		if v.AudioURL != nil {
			pb.AudioURL = *v.AudioURL
		}
		switch v.Status {
		case models.StatusProcessing:
			pb.Banner, pb.BannerKind = ProcessingBanner, "info"
		case models.StatusFailed:
			pb.Banner, pb.BannerKind = FailedBanner, "error"
		}
	}
	if pb.VideoURL == "" && pb.AudioURL == "" {
		pb.Placeholder = PlaceholderText
	}
	return pb
}

// Renderer writes the studio page as HTML.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse studio templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes page to w.
func (r *Renderer) Render(w io.Writer, page Page) error {
	return r.tmpl.ExecuteTemplate(w, "studio.html", page)
}
