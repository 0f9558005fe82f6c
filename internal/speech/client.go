// Package speech talks to the ElevenLabs text-to-speech API.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrSpeechFailed is wrapped by every provider-side failure.
var ErrSpeechFailed = errors.New("failed to generate speech")

// Audio is synthesized speech as returned by the provider.
type Audio struct {
	Data        []byte
	ContentType string
}

// Settings are the fixed synthesis parameters sent with every request.
type Settings struct {
	ModelID         string
	Stability       float64
	SimilarityBoost float64
}

// Client implements speech synthesis over the ElevenLabs REST API.
type Client struct {
	baseURL  string
	apiKey   string
	settings Settings
	client   *http.Client
}

// NewClient creates a Client. A zero timeout leaves requests bounded only by ctx.
func NewClient(baseURL, apiKey string, settings Settings, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		settings: settings,
		client:   &http.Client{Timeout: timeout},
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize converts text to audio with the provider voice providerVoiceID.
func (c *Client) Synthesize(ctx context.Context, text, providerVoiceID string) (*Audio, error) {
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, url.PathEscape(providerVoiceID))

	body, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: c.settings.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       c.settings.Stability,
			SimilarityBoost: c.settings.SimilarityBoost,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpeechFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrSpeechFailed, resp.StatusCode, string(respBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading audio: %v", ErrSpeechFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty audio response", ErrSpeechFailed)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &Audio{Data: data, ContentType: contentType}, nil
}
