// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/newsrec/internal/api"
	"github.com/tomtom215/newsrec/internal/app"
	"github.com/tomtom215/newsrec/internal/config"
	"github.com/tomtom215/newsrec/internal/logging"
	"github.com/tomtom215/newsrec/internal/metrics"
	"github.com/tomtom215/newsrec/internal/supervisor"
	"github.com/tomtom215/newsrec/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logCfg := cfg.LogConfig()
	logCfg.Process = "server"
	logCfg.Version = version
	logging.Init(logCfg)

	logging.Info().
		Str("data_dir", cfg.Data.Dir).
		Int("min_history", cfg.Recommend.MinHistory).
		Int("latent_dims", cfg.Recommend.LatentDims).
		Bool("build_on_startup", cfg.Recommend.BuildOnStartup).
		Msg("Starting Newsrec with supervisor tree")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logging.Logger()
	resource := app.NewResource(cfg, logger)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.HasWildcardCORS() {
		logging.Info().Msg("CORS allows all origins (CORS_ORIGINS=*)")
	}

	middleware := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	handler := api.NewHandler(resource, api.HandlerConfig{
		Version:   version,
		BuildWait: cfg.Recommend.BuildWait,
	})
	router := api.NewRouter(handler, middleware)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Requests may wait for a model build.
		WriteTimeout: cfg.Server.Timeout + cfg.Recommend.BuildWait,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	if cfg.Recommend.BuildOnStartup {
		tree.AddModelService(services.NewWarmupService(resource, logger))
		logging.Info().Msg("Model warm-up service added")
	} else {
		logging.Info().Msg("Models will be built on first request (BUILD_ON_STARTUP=false)")
	}

	if cfg.Recommend.CacheEnabled {
		tree.AddModelService(services.NewCacheSweepService(resource, cfg.Recommend.CacheTTL, logger))
		logging.Info().Dur("interval", cfg.Recommend.CacheTTL).Msg("Cache sweep service added")
	}

	tree.AddAPIService(services.NewAPIService(server, services.APIServiceConfig{
		Addr:            server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Models:          resource,
	}, logger))
	logging.Info().Str("addr", server.Addr).Msg("API service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		select {
		case err := <-errCh:
			logSupervisorError(err)
		case <-time.After(cfg.Server.ShutdownTimeout + 5*time.Second):
			logging.Warn().Msg("Supervisor did not stop in time")
		}
	case err := <-errCh:
		logSupervisorError(err)
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

func logSupervisorError(err error) {
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}
}
