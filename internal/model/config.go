package model

import (
	"path/filepath"
	"time"
)

// Config is the process-wide configuration, resolved once at startup from
// flags, CITESCOPE_* env vars, and ~/.citescope/config.yaml
type Config struct {
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Probe    ProbeConfig    `yaml:"probe" mapstructure:"probe"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Schedule ScheduleConfig `yaml:"schedule" mapstructure:"schedule"`
	Verbose  bool           `yaml:"verbose" mapstructure:"verbose"`
}

// HTTPConfig controls document fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRedirects  int           `yaml:"max_redirects" mapstructure:"max_redirects"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls audit-result reuse for identical content hashes
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir             string        `yaml:"dir" mapstructure:"dir"`
	FreshnessWindow time.Duration `yaml:"freshness_window" mapstructure:"freshness_window"`
}

// ScoringConfig selects weight tables
type ScoringConfig struct {
	WeightVersion string `yaml:"weight_version" mapstructure:"weight_version"`
	WeightsFile   string `yaml:"weights_file" mapstructure:"weights_file"` // Optional YAML overrides
	Platform      string `yaml:"platform" mapstructure:"platform"`
}

// PlatformConfig points one answer-engine platform at an OpenAI-compatible endpoint
type PlatformConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// ProbeConfig bounds external answer-engine probing
type ProbeConfig struct {
	Platforms         map[string]PlatformConfig `yaml:"platforms" mapstructure:"platforms"`
	Workers           int                       `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64                   `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int                       `yaml:"burst" mapstructure:"burst"`
	MaxAttempts       int                       `yaml:"max_attempts" mapstructure:"max_attempts"`
	Timeout           time.Duration             `yaml:"timeout" mapstructure:"timeout"` // Hard per-probe limit
}

// StoreConfig locates the sqlite history database
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr        string   `yaml:"addr" mapstructure:"addr"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// ScheduleConfig drives recurring Q-set audits
type ScheduleConfig struct {
	Cron string `yaml:"cron" mapstructure:"cron"` // Empty disables scheduling
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       2 * time.Minute,
			UserAgent:     "CiteScope/0.3 (+https://github.com/vkuzmenko/citescope)",
			MaxBodyBytes:  2_000_000,
			MaxRedirects:  3,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:         true,
			Dir:             filepath.Join("~", ".citescope", "cache"),
			FreshnessWindow: 24 * time.Hour,
		},
		Scoring: ScoringConfig{
			WeightVersion: "v2.0",
			Platform:      "universal",
		},
		Probe: ProbeConfig{
			Platforms:         map[string]PlatformConfig{},
			Workers:           4,
			RequestsPerSecond: 0.5,
			Burst:             2,
			MaxAttempts:       3,
			Timeout:           45 * time.Second,
		},
		Store: StoreConfig{
			Path: filepath.Join("~", ".citescope", "history.db"),
		},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
	}
}
