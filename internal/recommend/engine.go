// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/newsrec/internal/cache"
	"github.com/tomtom215/newsrec/internal/metrics"
)

// Engine dispatches recommendation requests to the registered strategies
// and enriches their results with catalog metadata.
// It is safe for concurrent use once Build has returned.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger

	// Registered algorithms
	algorithms map[Strategy]Algorithm
	algMu      sync.RWMutex

	// Build state
	stateMu sync.RWMutex
	built   bool
	catalog map[int]ItemMeta
	history *History
	stats   Stats

	// Result cache, nil when disabled
	cache *cache.LRU[*Recommendation]

	requestCount atomic.Int64
	coldStarts   atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		algorithms: make(map[Strategy]Algorithm),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.New[*Recommendation](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// RegisterAlgorithm binds an algorithm to a strategy, replacing any
// previous registration.
func (e *Engine) RegisterAlgorithm(strategy Strategy, alg Algorithm) {
	e.algMu.Lock()
	defer e.algMu.Unlock()

	e.algorithms[strategy] = alg
	e.logger.Info().
		Str("strategy", strategy.String()).
		Str("algorithm", alg.Name()).
		Msg("registered algorithm")
}

// Strategies returns the registered strategies in display order.
func (e *Engine) Strategies() []Strategy {
	e.algMu.RLock()
	defer e.algMu.RUnlock()

	out := make([]Strategy, 0, len(e.algorithms))
	for _, s := range Strategies {
		if _, ok := e.algorithms[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Algorithm returns the algorithm registered for the strategy.
func (e *Engine) Algorithm(strategy Strategy) (Algorithm, bool) {
	e.algMu.RLock()
	defer e.algMu.RUnlock()
	alg, ok := e.algorithms[strategy]
	return alg, ok
}

// Build trains every registered algorithm from the snapshot. The popularity
// algorithm is trained first because the personalized strategies fall back
// to it; the others are trained concurrently.
func (e *Engine) Build(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return errors.New("build: nil snapshot")
	}
	if snap.History == nil {
		snap.History = NewHistory(snap.Interactions)
	}
	start := time.Now()

	e.algMu.RLock()
	algs := make(map[Strategy]Algorithm, len(e.algorithms))
	for s, alg := range e.algorithms {
		algs[s] = alg
	}
	e.algMu.RUnlock()

	if len(algs) == 0 {
		return ErrNoAlgorithm
	}

	if pop, ok := algs[StrategyPopularity]; ok {
		if err := e.train(ctx, StrategyPopularity, pop, snap); err != nil {
			return err
		}
		delete(algs, StrategyPopularity)
	}

	g, gctx := errgroup.WithContext(ctx)
	for strategy, alg := range algs {
		g.Go(func() error {
			return e.train(gctx, strategy, alg, snap)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	catalog := make(map[int]ItemMeta, len(snap.Items))
	for _, item := range snap.Items {
		catalog[item.ID] = ItemMeta{CategoryID: item.CategoryID, WordsCount: item.WordsCount}
	}

	stats := Stats{
		Users:        snap.History.UserCount(),
		Articles:     len(snap.Items),
		Interactions: len(snap.Interactions),
		BuiltAt:      time.Now(),
	}

	e.stateMu.Lock()
	e.built = true
	e.catalog = catalog
	e.history = snap.History
	e.stats = stats
	e.stateMu.Unlock()

	if e.cache != nil {
		e.cache.Clear()
	}

	e.logger.Info().
		Int("users", stats.Users).
		Int("articles", stats.Articles).
		Int("interactions", stats.Interactions).
		Dur("duration", time.Since(start)).
		Msg("recommendation models built")

	return nil
}

func (e *Engine) train(ctx context.Context, strategy Strategy, alg Algorithm, snap *Snapshot) error {
	start := time.Now()
	if err := alg.Train(ctx, snap); err != nil {
		e.logger.Error().Err(err).Str("strategy", strategy.String()).Msg("training failed")
		return fmt.Errorf("train %s: %w", strategy, err)
	}
	e.logger.Debug().
		Str("strategy", strategy.String()).
		Dur("duration", time.Since(start)).
		Msg("algorithm trained")
	return nil
}

// IsBuilt reports whether Build has completed successfully.
func (e *Engine) IsBuilt() bool {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.built
}

// Recommend returns up to n articles for the user using the given strategy.
func (e *Engine) Recommend(ctx context.Context, strategy Strategy, userID, n int) (*Recommendation, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !e.IsBuilt() {
		return nil, ErrNotBuilt
	}
	alg, ok := e.Algorithm(strategy)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAlgorithm, strategy)
	}

	key := fmt.Sprintf("%s:%d:%d", strategy, userID, n)
	if e.cache != nil {
		if cached, hit := e.cache.Get(key); hit {
			metrics.RecordRecommendCache(true)
			rec := *cached
			rec.Cached = true
			return &rec, nil
		}
		metrics.RecordRecommendCache(false)
	}

	results, coldStart := alg.Recommend(userID, n)
	rec := &Recommendation{
		UserID:    userID,
		Strategy:  strategy,
		Results:   e.enrich(results),
		ColdStart: coldStart,
	}

	if coldStart {
		e.coldStarts.Add(1)
		reason := "unknown"
		if r, ok := alg.(ColdStartReasoner); ok {
			reason = r.ColdStartReason(userID)
		}
		e.logger.Debug().
			Int("user_id", userID).
			Str("strategy", strategy.String()).
			Str("reason", reason).
			Msg("cold start, serving popularity fallback")
	}
	if e.cache != nil {
		e.cache.Add(key, rec)
	}

	metrics.RecordRecommendation(strategy.String(), coldStart, time.Since(start))
	return rec, nil
}

// Popular returns the n most popular articles regardless of the user.
func (e *Engine) Popular(ctx context.Context, n int) ([]Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !e.IsBuilt() {
		return nil, ErrNotBuilt
	}
	alg, ok := e.Algorithm(StrategyPopularity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAlgorithm, StrategyPopularity)
	}
	ranker, ok := alg.(Ranker)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not rank globally", ErrNoAlgorithm, alg.Name())
	}
	return e.enrich(ranker.Top(n)), nil
}

// ActiveUsers returns the users with the most clicks.
func (e *Engine) ActiveUsers(limit int) ([]UserActivity, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, limit)
	}
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if !e.built {
		return nil, ErrNotBuilt
	}
	return e.history.MostActive(limit), nil
}

// HasUser reports whether the user appears in the click log.
func (e *Engine) HasUser(userID int) bool {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.history != nil && e.history.Has(userID)
}

// Stats returns the dataset statistics of the last build.
func (e *Engine) Stats() Stats {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.stats
}

// SweepCache drops expired cached results and returns how many were removed.
func (e *Engine) SweepCache() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.CleanupExpired()
}

// EmbeddingInfo describes the content strategy's embedding table.
func (e *Engine) EmbeddingInfo() (EmbeddingInfo, error) {
	alg, ok := e.Algorithm(StrategyContent)
	if !ok {
		return EmbeddingInfo{}, fmt.Errorf("%w: %s", ErrNoAlgorithm, StrategyContent)
	}
	describer, ok := alg.(EmbeddingDescriber)
	if !ok {
		return EmbeddingInfo{}, fmt.Errorf("%w: %s has no embeddings", ErrNoAlgorithm, alg.Name())
	}
	return describer.EmbeddingInfo(), nil
}

// RequestCounts returns the number of Recommend calls and how many of them
// were served by a cold-start fallback.
func (e *Engine) RequestCounts() (requests, coldStarts int64) {
	return e.requestCount.Load(), e.coldStarts.Load()
}

// enrich attaches catalog metadata and drops articles missing from the catalog.
func (e *Engine) enrich(results []Result) []Result {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()

	out := make([]Result, 0, len(results))
	for _, r := range results {
		meta, ok := e.catalog[r.ItemID]
		if !ok {
			continue
		}
		m := meta
		r.Meta = &m
		out = append(out, r)
	}
	return out
}
