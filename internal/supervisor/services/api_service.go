// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/newsrec/internal/recommend"
)

// Listener is the lifecycle subset of *http.Server used by APIService.
type Listener interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// ModelStatus reports the build state of the shared models.
// *recommend.Resource satisfies it.
type ModelStatus interface {
	State() recommend.BuildState
}

// APIServiceConfig configures an APIService.
type APIServiceConfig struct {
	// Addr is the listen address, used for logging only.
	Addr string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration

	// Models is optional; when set, lifecycle logs carry the model state.
	Models ModelStatus
}

// APIService runs the recommendation API as a supervised service.
//
// A listener failure is returned so the supervisor restarts the service.
// When the context ends, in-flight requests (including ones waiting on a
// model build) get ShutdownTimeout to complete.
type APIService struct {
	server Listener
	cfg    APIServiceConfig
	logger zerolog.Logger
	starts atomic.Int32
}

// NewAPIService wraps server.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAPIService(server Listener, cfg APIServiceConfig, logger zerolog.Logger) *APIService {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &APIService{
		server: server,
		cfg:    cfg,
		logger: logger.With().Str("service", "api-server").Str("addr", cfg.Addr).Logger(),
	}
}

func (s *APIService) modelState() string {
	if s.cfg.Models == nil {
		return "unknown"
	}
	return s.cfg.Models.State().String()
}

// Serve implements suture.Service.
func (s *APIService) Serve(ctx context.Context) error {
	start := s.starts.Add(1)
	s.logger.Info().
		Int32("start", start).
		Str("model_state", s.modelState()).
		Msg("API server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			s.logger.Info().Msg("API server closed")
			return nil
		}
		s.logger.Error().Err(err).Int32("start", start).Msg("API server failed")
		return fmt.Errorf("api server on %s: %w", s.cfg.Addr, err)

	case <-ctx.Done():
	}

	stopping := time.Now()
	s.logger.Info().Str("model_state", s.modelState()).Msg("API server stopping")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Dur("waited", time.Since(stopping)).Msg("API server shutdown incomplete")
		return fmt.Errorf("api server shutdown: %w", err)
	}
	<-errCh

	s.logger.Info().Dur("duration", time.Since(stopping)).Msg("API server stopped")
	return ctx.Err()
}

// Starts returns how many times the supervisor has started the service.
func (s *APIService) Starts() int32 {
	return s.starts.Load()
}

// String identifies the service in supervisor logs.
func (s *APIService) String() string {
	return "api-server"
}
