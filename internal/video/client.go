// Package video runs the text-to-video model on Replicate.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrVideoFailed is wrapped by every provider-side failure.
	ErrVideoFailed = errors.New("failed to generate video")
	// ErrNoOutput is returned when a prediction succeeds without a usable URL.
	ErrNoOutput = errors.New("prediction returned no video output")
)

// Prediction statuses reported by Replicate.
const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
	statusCanceled  = "canceled"
)

// Parameters are the fixed generation inputs sent alongside the prompt.
type Parameters struct {
	ModelVersion   string
	VideoLength    string
	FPS            int
	MotionBucketID int
	CondAug        float64
}

// Client implements asynchronous video generation over the Replicate REST API.
type Client struct {
	baseURL      string
	apiToken     string
	params       Parameters
	pollInterval time.Duration
	maxWait      time.Duration
	client       *http.Client
}

// NewClient creates a Client. maxWait bounds the whole create-and-poll cycle.
func NewClient(baseURL, apiToken string, params Parameters, pollInterval, maxWait time.Duration) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiToken:     apiToken,
		params:       params,
		pollInterval: pollInterval,
		maxWait:      maxWait,
		client:       &http.Client{Timeout: time.Minute},
	}
}

type predictionInput struct {
	Prompt         string  `json:"prompt"`
	VideoLength    string  `json:"video_length"`
	FPS            int     `json:"fps"`
	MotionBucketID int     `json:"motion_bucket_id"`
	CondAug        float64 `json:"cond_aug"`
}

type createPredictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
}

// Generate starts a model run for prompt and waits for it to finish,
// returning the URL of the produced video.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.maxWait)
		defer cancel()
	}

	p, err := c.createPrediction(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: failed to start prediction: %v", ErrVideoFailed, err)
	}

	p, err = c.waitForPrediction(ctx, p)
	if err != nil {
		return "", err
	}

	videoURL, err := outputURL(p.Output)
	if err != nil {
		return "", fmt.Errorf("%w: prediction %s: %v", ErrVideoFailed, p.ID, err)
	}
	return videoURL, nil
}

func (c *Client) createPrediction(ctx context.Context, prompt string) (*prediction, error) {
	body, err := json.Marshal(createPredictionRequest{
		Version: c.params.ModelVersion,
		Input: predictionInput{
			Prompt:         prompt,
			VideoLength:    c.params.VideoLength,
			FPS:            c.params.FPS,
			MotionBucketID: c.params.MotionBucketID,
			CondAug:        c.params.CondAug,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, http.StatusCreated)
}

func (c *Client) getPrediction(ctx context.Context, id string) (*prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/predictions/"+id, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, http.StatusOK)
}

func (c *Client) do(req *http.Request, wantStatus int) (*prediction, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var p prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding prediction: %w", err)
	}
	return &p, nil
}

// waitForPrediction polls until the prediction reaches a terminal status.
func (c *Client) waitForPrediction(ctx context.Context, p *prediction) (*prediction, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		switch p.Status {
		case statusSucceeded:
			return p, nil
		case statusFailed, statusCanceled:
			return nil, fmt.Errorf("%w: prediction %s %s: %s", ErrVideoFailed, p.ID, p.Status, errorText(p.Error))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for prediction %s: %v", ErrVideoFailed, p.ID, ctx.Err())
		case <-ticker.C:
		}

		next, err := c.getPrediction(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: polling prediction %s: %v", ErrVideoFailed, p.ID, err)
		}
		p = next
	}
}

// outputURL accepts either a single URL or a list of URLs, taking the last one.
func outputURL(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", ErrNoOutput
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return "", ErrNoOutput
		}
		return single, nil
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return "", fmt.Errorf("unexpected output shape: %s", string(raw))
	}
	for i := len(many) - 1; i >= 0; i-- {
		if many[i] != "" {
			return many[i], nil
		}
	}
	return "", ErrNoOutput
}

func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	if len(raw) == 0 || string(raw) == "null" {
		return "no error detail"
	}
	return string(raw)
}
