// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package config

import (
	"time"

	"github.com/tomtom215/newsrec/internal/dataset"
	"github.com/tomtom215/newsrec/internal/logging"
	"github.com/tomtom215/newsrec/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DataConfig locates the dataset files.
type DataConfig struct {
	Dir                    string `koanf:"dir"`
	ClicksDir              string `koanf:"clicks_dir"`
	ClicksPattern          string `koanf:"clicks_pattern"`
	MaxClickFiles          int    `koanf:"max_click_files"`
	ArticlesFile           string `koanf:"articles_file"`
	EmbeddingsFile         string `koanf:"embeddings_file"`
	FallbackEmbeddingsFile string `koanf:"fallback_embeddings_file"`
}

// RecommendConfig holds recommendation engine configuration.
//
// Environment Variables:
//   - MIN_HISTORY: distinct articles required for content recommendations (default: 3)
//   - LATENT_DIMS: truncated SVD rank (default: 50)
//   - PCA_ENABLED / PCA_COMPONENTS: optional embedding reduction (default: false / 100)
//   - BUILD_ON_STARTUP: warm the models in the background at startup (default: true)
//   - BUILD_TIMEOUT: upper bound for one model build (default: 10m)
//   - BUILD_WAIT: how long a request waits for a running build (default: 30s)
type RecommendConfig struct {
	MinHistory         int           `koanf:"min_history"`
	LatentDims         int           `koanf:"latent_dims"`
	SVDOversample      int           `koanf:"svd_oversample"`
	SVDPowerIterations int           `koanf:"svd_power_iterations"`
	Seed               int64         `koanf:"seed"`
	PCAEnabled         bool          `koanf:"pca_enabled"`
	PCAComponents      int           `koanf:"pca_components"`
	BuildOnStartup     bool          `koanf:"build_on_startup"`
	BuildTimeout       time.Duration `koanf:"build_timeout"`
	BuildWait          time.Duration `koanf:"build_wait"`
	BreakerFailures    uint32        `koanf:"breaker_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
	CacheEnabled       bool          `koanf:"cache_enabled"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
	CacheSize          int           `koanf:"cache_size"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to every entry.
	Caller bool `koanf:"caller"`
}

// EngineConfig converts the recommend section to an engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	r := c.Recommend
	return &recommend.Config{
		Content: recommend.ContentConfig{
			MinHistory:    r.MinHistory,
			PCAEnabled:    r.PCAEnabled,
			PCAComponents: r.PCAComponents,
		},
		Collaborative: recommend.CollaborativeConfig{
			LatentDims:      r.LatentDims,
			Oversample:      r.SVDOversample,
			PowerIterations: r.SVDPowerIterations,
		},
		Build: recommend.BuildConfig{
			Timeout:         r.BuildTimeout,
			BreakerFailures: r.BreakerFailures,
			BreakerTimeout:  r.BreakerTimeout,
		},
		Cache: recommend.CacheConfig{
			Enabled:    r.CacheEnabled,
			TTL:        r.CacheTTL,
			MaxEntries: r.CacheSize,
		},
		Seed: r.Seed,
	}
}

// DatasetConfig converts the data section to a loader configuration.
func (c *Config) DatasetConfig() dataset.Config {
	d := c.Data
	return dataset.Config{
		Dir:                    d.Dir,
		ClicksDir:              d.ClicksDir,
		ClicksPattern:          d.ClicksPattern,
		MaxClickFiles:          d.MaxClickFiles,
		ArticlesFile:           d.ArticlesFile,
		EmbeddingsFile:         d.EmbeddingsFile,
		FallbackEmbeddingsFile: d.FallbackEmbeddingsFile,
	}
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

// Load reads configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
