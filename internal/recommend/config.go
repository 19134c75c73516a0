// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Content contains parameters for the content similarity engine.
	Content ContentConfig `json:"content"`

	// Collaborative contains parameters for the latent-factor engine.
	Collaborative CollaborativeConfig `json:"collaborative"`

	// Build contains parameters for the one-time model build.
	Build BuildConfig `json:"build"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`

	// Seed is the random seed used by the factorization.
	Seed int64 `json:"seed"`
}

// ContentConfig contains content similarity parameters.
type ContentConfig struct {
	// MinHistory is the minimum number of distinct articles a user must have
	// clicked before personalized content recommendations are produced.
	// Default: 3
	MinHistory int `json:"min_history"`

	// PCAEnabled reduces the embedding table with PCA before training.
	PCAEnabled bool `json:"pca_enabled"`

	// PCAComponents is the target dimensionality when PCAEnabled is set.
	// Default: 100
	PCAComponents int `json:"pca_components"`
}

// CollaborativeConfig contains truncated SVD parameters.
type CollaborativeConfig struct {
	// LatentDims is the factorization rank.
	// Default: 50
	LatentDims int `json:"latent_dims"`

	// Oversample is the number of extra random projections used by the range finder.
	// Zero disables oversampling.
	// Default: 10
	Oversample int `json:"oversample"`

	// PowerIterations is the number of subspace iterations. Zero disables them.
	// Default: 5
	PowerIterations int `json:"power_iterations"`
}

// BuildConfig controls the initialize-once model build.
type BuildConfig struct {
	// Timeout bounds a single build attempt.
	Timeout time.Duration `json:"timeout"`

	// BreakerFailures is the number of consecutive failures that opens the build breaker.
	BreakerFailures uint32 `json:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open before allowing a new attempt.
	BreakerTimeout time.Duration `json:"breaker_timeout"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled turns on caching of recommendation results.
	Enabled bool `json:"enabled"`

	// TTL is how long a cached result is served.
	TTL time.Duration `json:"ttl"`

	// MaxEntries caps the number of cached results.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			MinHistory:    3,
			PCAEnabled:    false,
			PCAComponents: 100,
		},
		Collaborative: CollaborativeConfig{
			LatentDims:      50,
			Oversample:      10,
			PowerIterations: 5,
		},
		Build: BuildConfig{
			Timeout:         10 * time.Minute,
			BreakerFailures: 3,
			BreakerTimeout:  30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 10000,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Content.MinHistory < 0 {
		return fmt.Errorf("content.min_history must be non-negative, got %d", c.Content.MinHistory)
	}
	if c.Content.PCAEnabled && c.Content.PCAComponents < 1 {
		return fmt.Errorf("content.pca_components must be positive, got %d", c.Content.PCAComponents)
	}

	if c.Collaborative.LatentDims < 1 {
		return fmt.Errorf("collaborative.latent_dims must be positive, got %d", c.Collaborative.LatentDims)
	}
	if c.Collaborative.Oversample < 0 {
		return fmt.Errorf("collaborative.oversample must be non-negative, got %d", c.Collaborative.Oversample)
	}
	if c.Collaborative.PowerIterations < 0 {
		return fmt.Errorf("collaborative.power_iterations must be non-negative, got %d", c.Collaborative.PowerIterations)
	}

	if c.Build.Timeout <= 0 {
		return fmt.Errorf("build.timeout must be positive, got %v", c.Build.Timeout)
	}
	if c.Build.BreakerFailures < 1 {
		return fmt.Errorf("build.breaker_failures must be positive, got %d", c.Build.BreakerFailures)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when caching is enabled, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive when caching is enabled, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// all nested structs contain only value types
	clone := *c
	return &clone
}
