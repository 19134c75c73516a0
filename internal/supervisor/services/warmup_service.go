// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/newsrec/internal/recommend"
)

// ModelWarmer starts or joins a model build. *recommend.Resource satisfies it.
type ModelWarmer interface {
	EnsureReady(ctx context.Context) (*recommend.Engine, error)
}

// WarmupService builds the recommendation models once at startup.
//
// A failed build is returned to the supervisor, which restarts the service
// with backoff. Once the models are ready the service exits with
// suture.ErrDoNotRestart. Requests arriving meanwhile join the same build
// through the shared resource.
type WarmupService struct {
	models   ModelWarmer
	logger   zerolog.Logger
	name     string
	attempts atomic.Int32
}

// NewWarmupService creates the warm-up service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWarmupService(models ModelWarmer, logger zerolog.Logger) *WarmupService {
	return &WarmupService{
		models: models,
		logger: logger.With().Str("service", "model-warmup").Logger(),
		name:   "model-warmup",
	}
}

// Serve implements suture.Service.
func (s *WarmupService) Serve(ctx context.Context) error {
	attempt := s.attempts.Add(1)
	start := time.Now()
	s.logger.Info().Int32("attempt", attempt).Msg("warming up recommendation models")

	engine, err := s.models.EnsureReady(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn().Err(err).Int32("attempt", attempt).Msg("model warm-up failed, will retry")
		return fmt.Errorf("warm up models: %w", err)
	}

	stats := engine.Stats()
	s.logger.Info().
		Int("users", stats.Users).
		Int("articles", stats.Articles).
		Int("interactions", stats.Interactions).
		Dur("duration", time.Since(start)).
		Msg("recommendation models warm")
	return suture.ErrDoNotRestart
}

// Attempts returns how many times Serve has run.
func (s *WarmupService) Attempts() int {
	return int(s.attempts.Load())
}

// String identifies the service in supervisor logs.
func (s *WarmupService) String() string {
	return s.name
}
