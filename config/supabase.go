package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"
	postgrest "github.com/supabase-community/postgrest-go"
)

var ErrSupabaseNotConfigured = errors.New("supabase url and service key must be set")

// NewSupabaseClient initializes the Supabase client used for auth and storage.
func NewSupabaseClient(cfg SupabaseConfig, logger *logrus.Logger) (*supa.Client, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, ErrSupabaseNotConfigured
	}

	client, err := supa.NewClient(strings.TrimRight(cfg.URL, "/"), cfg.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("error initializing Supabase client: %w", err)
	}

	logger.WithField("url", cfg.URL).Info("Supabase client initialized successfully.")
	return client, nil
}

// NewPostgrestClient builds a PostgREST client against <url>/rest/v1 authenticated
// with the service key.
func NewPostgrestClient(cfg SupabaseConfig) (*postgrest.Client, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, ErrSupabaseNotConfigured
	}

	client := postgrest.NewClient(strings.TrimRight(cfg.URL, "/")+"/rest/v1", "", map[string]string{
		"apikey":        cfg.Key,
		"Authorization": "Bearer " + cfg.Key,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("failed to initialize PostgREST client: %w", client.ClientError)
	}
	if cfg.RequestTimeout > 0 {
		client.Transport.Parent = timeoutTransport{base: http.DefaultTransport, timeout: cfg.RequestTimeout}
	}
	return client, nil
}

// timeoutTransport bounds every request, including reading its body.
// PostgREST queries take no context, so this is the only deadline they get.
type timeoutTransport struct {
	base    http.RoundTripper
	timeout time.Duration
}

func (t timeoutTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(req.Context(), t.timeout)
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
