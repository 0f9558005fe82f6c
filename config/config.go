package config

import (
	"time"

	"videothingy/narrator/models"
)

// Config holds the main configuration for the application.
type Config struct {
	Server   ServerConfig   `json:"server"   yaml:"server"`
	Log      LogConfig      `json:"log"      yaml:"log"`
	Supabase SupabaseConfig `json:"supabase" yaml:"supabase"`
	Speech   SpeechConfig   `json:"speech"   yaml:"speech"`
	Video    VideoConfig    `json:"video"    yaml:"video"`
	Polling  PollingConfig  `json:"polling"  yaml:"polling"`
	Session  SessionConfig  `json:"session"  yaml:"session"`
	Workers  WorkersConfig  `json:"workers"  yaml:"workers"`
	Voices   []models.Voice `json:"voices"   yaml:"voices"`
}

// ServerConfig holds listener addresses.
type ServerConfig struct {
	HTTPAddr string `json:"http_addr" yaml:"http_addr"`
	GRPCAddr string `json:"grpc_addr" yaml:"grpc_addr"`
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level      string `json:"level"        yaml:"level"`
	File       string `json:"file"         yaml:"file"`
	MaxSizeMB  int    `json:"max_size_mb"  yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups"  yaml:"max_backups"`
}

// SupabaseConfig holds the persistence service settings.
// Key is only ever read from the environment.
type SupabaseConfig struct {
	URL            string        `json:"url"             yaml:"url"`
	Key            string        `json:"-"               yaml:"-"`
	VideosTable    string        `json:"videos_table"    yaml:"videos_table"`
	AudioBucket    string        `json:"audio_bucket"    yaml:"audio_bucket"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// SpeechConfig holds the text-to-speech provider settings.
type SpeechConfig struct {
	BaseURL         string        `json:"base_url"         yaml:"base_url"`
	APIKey          string        `json:"-"                yaml:"-"`
	ModelID         string        `json:"model_id"         yaml:"model_id"`
	Stability       float64       `json:"stability"        yaml:"stability"`
	SimilarityBoost float64       `json:"similarity_boost" yaml:"similarity_boost"`
	PreviewText     string        `json:"preview_text"     yaml:"preview_text"`
	Timeout         time.Duration `json:"timeout"          yaml:"timeout"`
}

// VideoConfig holds the text-to-video provider settings.
type VideoConfig struct {
	BaseURL        string        `json:"base_url"         yaml:"base_url"`
	APIToken       string        `json:"-"                yaml:"-"`
	ModelVersion   string        `json:"model_version"    yaml:"model_version"`
	VideoLength    string        `json:"video_length"     yaml:"video_length"`
	FPS            int           `json:"fps"              yaml:"fps"`
	MotionBucketID int           `json:"motion_bucket_id" yaml:"motion_bucket_id"`
	CondAug        float64       `json:"cond_aug"         yaml:"cond_aug"`
	PollInterval   time.Duration `json:"poll_interval"    yaml:"poll_interval"`
	MaxWait        time.Duration `json:"max_wait"         yaml:"max_wait"`
}

// PollingConfig controls the job status synchronizer.
type PollingConfig struct {
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// SessionConfig controls studio session retention.
type SessionConfig struct {
	IdleTTL time.Duration `json:"idle_ttl" yaml:"idle_ttl"`
}

// WorkersConfig sizes the generation worker pool.
type WorkersConfig struct {
	Count     int `json:"count"      yaml:"count"`
	QueueSize int `json:"queue_size" yaml:"queue_size"`
}

// DefaultVoiceID returns the first configured voice, which the studio selects initially.
func (c *Config) DefaultVoiceID() string {
	if len(c.Voices) == 0 {
		return ""
	}
	return c.Voices[0].ID
}
