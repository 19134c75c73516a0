// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateData(),
		c.validateRecommend(),
		c.validateSecurity(),
		c.validateLogging(),
	)
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateData() error {
	if strings.TrimSpace(c.Data.Dir) == "" {
		return errors.New("DATA_DIR is required")
	}
	if c.Data.ArticlesFile == "" {
		return errors.New("ARTICLES_FILE is required")
	}
	if c.Data.EmbeddingsFile == "" && c.Data.FallbackEmbeddingsFile == "" {
		return errors.New("EMBEDDINGS_FILE or FALLBACK_EMBEDDINGS_FILE is required")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	switch {
	case r.MinHistory < 0:
		return fmt.Errorf("MIN_HISTORY must be non-negative, got %d", r.MinHistory)
	case r.LatentDims < 1:
		return fmt.Errorf("LATENT_DIMS must be positive, got %d", r.LatentDims)
	case r.SVDOversample < 0:
		return fmt.Errorf("SVD_OVERSAMPLE must be non-negative, got %d", r.SVDOversample)
	case r.SVDPowerIterations < 0:
		return fmt.Errorf("SVD_POWER_ITERATIONS must be non-negative, got %d", r.SVDPowerIterations)
	case r.PCAEnabled && r.PCAComponents < 1:
		return fmt.Errorf("PCA_COMPONENTS must be positive when PCA is enabled, got %d", r.PCAComponents)
	case r.BuildTimeout <= 0:
		return fmt.Errorf("BUILD_TIMEOUT must be positive, got %v", r.BuildTimeout)
	case r.BuildWait <= 0:
		return fmt.Errorf("BUILD_WAIT must be positive, got %v", r.BuildWait)
	case r.BreakerFailures < 1:
		return fmt.Errorf("BUILD_BREAKER_FAILURES must be positive, got %d", r.BreakerFailures)
	case r.CacheEnabled && (r.CacheTTL <= 0 || r.CacheSize < 1):
		return errors.New("RECOMMEND_CACHE_TTL and RECOMMEND_CACHE_SIZE must be positive when caching is enabled")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return errors.New("CORS_ORIGINS must list at least one origin")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogFormats = map[string]bool{"json": true, "console": true}

func (c *Config) validateLogging() error {
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
