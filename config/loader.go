package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"
)

//go:embed schema/narrator.schema.json
var schemaSource string

var (
	ErrNoVoices        = errors.New("config: at least one voice must be configured")
	ErrDuplicateVoice  = errors.New("config: duplicate voice id")
	ErrMissingSecret   = errors.New("config: required credential is not set")
	ErrInvalidInterval = errors.New("config: intervals must be positive")
	ErrInvalidWorkers  = errors.New("config: workers count and queue_size must be at least 1")
)

// LoadDotEnv loads .env style files into the process environment.
// A missing file is not an error; variables might be set manually.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load builds the configuration from defaults, the optional YAML file at path
// and environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile validates the YAML file against the embedded schema and decodes it over cfg.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: invalid YAML: %w", err)
	}

	// An empty file decodes to nil; nothing to validate or apply.
	if raw == nil {
		return nil
	}

	schema, err := jsonschema.CompileString("narrator.schema.json", schemaSource)
	if err != nil {
		return fmt.Errorf("config: failed to compile schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.HTTPAddr, EnvHTTPAddr)
	setString(&cfg.Server.GRPCAddr, EnvGRPCAddr)
	setString(&cfg.Log.Level, EnvLogLevel)
	setString(&cfg.Log.File, EnvLogFile)
	setString(&cfg.Supabase.URL, EnvSupabaseURL)
	setString(&cfg.Supabase.Key, EnvSupabaseKey)
	setString(&cfg.Speech.APIKey, EnvElevenLabsAPIKey)
	setString(&cfg.Speech.BaseURL, EnvElevenLabsBaseURL)
	setString(&cfg.Video.APIToken, EnvReplicateToken)
	setString(&cfg.Video.BaseURL, EnvReplicateBaseURL)
	setString(&cfg.Video.ModelVersion, EnvReplicateVersion)

	if v := os.Getenv(EnvPollingInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPollingInterval, err)
		}
		cfg.Polling.Interval = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks invariants the schema cannot express.
func (c *Config) Validate() error {
	if len(c.Voices) == 0 {
		return ErrNoVoices
	}

	seen := make(map[string]struct{}, len(c.Voices))
	for _, v := range c.Voices {
		if _, ok := seen[v.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateVoice, v.ID)
		}
		seen[v.ID] = struct{}{}
	}

	if c.Polling.Interval <= 0 || c.Video.PollInterval <= 0 {
		return ErrInvalidInterval
	}
	if c.Workers.Count < 1 || c.Workers.QueueSize < 1 {
		return ErrInvalidWorkers
	}
	return nil
}

// CheckCredentials reports the first provider credential missing from the environment.
func (c *Config) CheckCredentials() error {
	required := []struct {
		name  string
		value string
	}{
		{EnvSupabaseURL, c.Supabase.URL},
		{EnvSupabaseKey, c.Supabase.Key},
		{EnvElevenLabsAPIKey, c.Speech.APIKey},
		{EnvReplicateToken, c.Video.APIToken},
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingSecret, r.name)
		}
	}
	return nil
}
