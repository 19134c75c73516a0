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
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/newsrec/internal/metrics"
)

// BuildState is the lifecycle state of the shared engine.
type BuildState int

const (
	StateUninitialized BuildState = iota
	StateBuilding
	StateReady
	StateFailed
)

// String returns the state name.
func (s BuildState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BuildFunc loads the data and returns a built engine.
type BuildFunc func(ctx context.Context) (*Engine, error)

// Resource owns the process-wide engine and builds it at most once at a time.
//
// The first EnsureReady call starts the build; concurrent callers wait for
// the same build or give up when their context ends. A failed build leaves
// no engine behind and the next EnsureReady call starts a new attempt,
// unless the circuit breaker is open after repeated failures.
type Resource struct {
	build   BuildFunc
	timeout time.Duration
	logger  zerolog.Logger
	breaker *gobreaker.CircuitBreaker[*Engine]

	mu      sync.Mutex
	state   BuildState
	engine  *Engine
	lastErr error
	done    chan struct{} // closed when the current build finishes
}

const breakerName = "model-build"

// NewResource creates a resource that builds the engine with build.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResource(build BuildFunc, cfg BuildConfig, logger zerolog.Logger) *Resource {
	failures := max(cfg.BreakerFailures, 1)
	logger = logger.With().Str("component", "model-resource").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.SetModelState(float64(StateUninitialized))

	breaker := gobreaker.NewCircuitBreaker[*Engine](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("build circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Resource{
		build:   build,
		timeout: cfg.Timeout,
		logger:  logger,
		breaker: breaker,
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// EnsureReady returns the built engine, starting a build if none is running
// and none has succeeded. It blocks until the build finishes or ctx ends.
// A context that ends first yields ErrNotReady; a failed build yields
// ErrBuildFailed wrapping the cause.
func (r *Resource) EnsureReady(ctx context.Context) (*Engine, error) {
	r.mu.Lock()
	switch r.state {
	case StateReady:
		engine := r.engine
		r.mu.Unlock()
		return engine, nil
	case StateUninitialized, StateFailed:
		r.startLocked(ctx)
	}
	done := r.done
	r.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateReady {
		return r.engine, nil
	}
	if r.lastErr == nil {
		return nil, ErrNotReady
	}
	return nil, fmt.Errorf("%w: %w", ErrBuildFailed, r.lastErr)
}

// startLocked launches a build. r.mu must be held.
func (r *Resource) startLocked(ctx context.Context) {
	r.state = StateBuilding
	r.done = make(chan struct{})
	metrics.SetModelState(float64(StateBuilding))

	go r.run(context.WithoutCancel(ctx), r.done)
}

func (r *Resource) run(parent context.Context, done chan struct{}) {
	ctx := parent
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, r.timeout)
		defer cancel()
	}

	r.logger.Info().Msg("building recommendation models")
	start := time.Now()

	engine, err := r.breaker.Execute(func() (*Engine, error) {
		return r.safeBuild(ctx)
	})
	if err == nil && engine == nil {
		err = errors.New("build returned no engine")
	}
	duration := time.Since(start)

	r.mu.Lock()
	if err != nil {
		r.state = StateFailed
		r.engine = nil
		r.lastErr = err
	} else {
		r.state = StateReady
		r.engine = engine
		r.lastErr = nil
	}
	state := r.state
	close(done)
	r.mu.Unlock()

	metrics.SetModelState(float64(state))
	metrics.RecordModelBuild(duration, err == nil)

	if err != nil {
		r.logger.Error().Err(err).Dur("duration", duration).Msg("model build failed")
		return
	}
	r.logger.Info().Dur("duration", duration).Msg("recommendation models ready")
}

// safeBuild converts a panicking build into an error so waiters are released.
func (r *Resource) safeBuild(ctx context.Context) (engine *Engine, err error) {
	defer func() {
		if p := recover(); p != nil {
			engine = nil
			err = fmt.Errorf("build panicked: %v", p)
		}
	}()
	return r.build(ctx)
}

// Engine returns the engine without blocking. The boolean is false until a
// build has succeeded.
func (r *Resource) Engine() (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine, r.state == StateReady
}

// SweepCache drops expired results from the built engine's cache. It is a
// no-op until a build has succeeded.
func (r *Resource) SweepCache() int {
	engine, ok := r.Engine()
	if !ok {
		return 0
	}
	return engine.SweepCache()
}

// State returns the current lifecycle state.
func (r *Resource) State() BuildState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastError returns the cause of the last failed build, or nil.
func (r *Resource) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
