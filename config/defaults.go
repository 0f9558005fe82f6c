package config

import (
	"time"

	"videothingy/narrator/models"
)

// Default returns the configuration used before any file or environment override.
func Default() *Config {
	voices := make([]models.Voice, len(models.DefaultVoices))
	copy(voices, models.DefaultVoices)

	return &Config{
		Server: ServerConfig{
			HTTPAddr: ":8080",
			GRPCAddr: ":9090",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
		Supabase: SupabaseConfig{
			VideosTable:    "videos",
			AudioBucket:    "audio",
			RequestTimeout: 15 * time.Second,
		},
		Speech: SpeechConfig{
			BaseURL:         "https://api.elevenlabs.io",
			ModelID:         "eleven_monolingual_v1",
			Stability:       0.5,
			SimilarityBoost: 0.75,
			PreviewText:     "Hello! This is a preview of how I sound.",
			Timeout:         2 * time.Minute,
		},
		Video: VideoConfig{
			BaseURL:        "https://api.replicate.com",
			ModelVersion:   "3d54740e59b41b09f8f4799aea6703c0c0acb861a11b41a0311e85e5a01e7bc8",
			VideoLength:    "14_frames_with_svd_xt",
			FPS:            6,
			MotionBucketID: 127,
			CondAug:        0.02,
			PollInterval:   2 * time.Second,
			MaxWait:        15 * time.Minute,
		},
		Polling: PollingConfig{
			Interval: 5 * time.Second,
		},
		Session: SessionConfig{
			IdleTTL: 24 * time.Hour,
		},
		Workers: WorkersConfig{
			Count:     4,
			QueueSize: 32,
		},
		Voices: voices,
	}
}
