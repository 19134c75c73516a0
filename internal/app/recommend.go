// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

// Package app wires configuration, dataset loading and the recommendation
// engine together. The server and the CLI share it so both build models the
// same way.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/newsrec/internal/config"
	"github.com/tomtom215/newsrec/internal/dataset"
	"github.com/tomtom215/newsrec/internal/recommend"
	"github.com/tomtom215/newsrec/internal/recommend/algorithms"
)

// strategySet holds one instance of each algorithm. The personalized
// strategies share the popularity scorer as their fallback.
type strategySet struct {
	popularity    *algorithms.Popularity
	content       *algorithms.ContentBased
	collaborative *algorithms.Collaborative
}

func newStrategies(ecfg *recommend.Config) strategySet {
	popular := algorithms.NewPopularity(algorithms.PopularityConfig{})
	return strategySet{
		popularity: popular,
		content: algorithms.NewContentBased(algorithms.ContentBasedConfig{
			MinHistory:    ecfg.Content.MinHistory,
			PCAEnabled:    ecfg.Content.PCAEnabled,
			PCAComponents: ecfg.Content.PCAComponents,
		}, popular),
		collaborative: algorithms.NewCollaborative(algorithms.CollaborativeConfig{
			LatentDims:      ecfg.Collaborative.LatentDims,
			Oversample:      svdCount(ecfg.Collaborative.Oversample),
			PowerIterations: svdCount(ecfg.Collaborative.PowerIterations),
			Seed:            ecfg.Seed,
		}, popular),
	}
}

// svdCount passes a configured count to the collaborative engine, which
// reads zero as unset and a negative value as disabled.
func svdCount(v int) int {
	if v == 0 {
		return -1
	}
	return v
}

// NewEngine creates an engine with the popularity, content and collaborative
// strategies registered.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *config.Config, logger zerolog.Logger) (*recommend.Engine, error) {
	ecfg := cfg.EngineConfig()
	engine, err := recommend.NewEngine(ecfg, logger)
	if err != nil {
		return nil, err
	}

	set := newStrategies(ecfg)
	engine.RegisterAlgorithm(recommend.StrategyPopularity, set.popularity)
	engine.RegisterAlgorithm(recommend.StrategyContent, set.content)
	engine.RegisterAlgorithm(recommend.StrategyCollaborative, set.collaborative)

	content, collab := set.content.Config(), set.collaborative.Config()
	logger.Debug().
		Int("min_history", content.MinHistory).
		Bool("pca_enabled", content.PCAEnabled).
		Int("latent_dims", collab.LatentDims).
		Int("oversample", collab.Oversample).
		Int("power_iterations", collab.PowerIterations).
		Int64("seed", collab.Seed).
		Msg("strategies configured")

	return engine, nil
}

// NewBuildFunc returns a build function that loads the dataset and trains a
// fresh engine on every call.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuildFunc(cfg *config.Config, logger zerolog.Logger) recommend.BuildFunc {
	loader := dataset.NewLoader(cfg.DatasetConfig())
	return func(ctx context.Context) (*recommend.Engine, error) {
		start := time.Now()
		snap, err := loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		logger.Info().Dur("duration", time.Since(start)).Msg("dataset loaded")

		engine, err := NewEngine(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create engine: %w", err)
		}
		if err := engine.Build(ctx, snap); err != nil {
			return nil, fmt.Errorf("build models: %w", err)
		}
		return engine, nil
	}
}

// NewResource returns the lazily built, process-wide model resource.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResource(cfg *config.Config, logger zerolog.Logger) *recommend.Resource {
	return recommend.NewResource(NewBuildFunc(cfg, logger), cfg.EngineConfig().Build, logger)
}
