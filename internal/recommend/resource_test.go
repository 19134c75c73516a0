// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

func testBuildConfig() BuildConfig {
	return BuildConfig{
		Timeout:         5 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  time.Hour,
	}
}

func TestBuildState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state BuildState
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateBuilding, "building"},
		{StateReady, "ready"},
		{StateFailed, "failed"},
		{BuildState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("BuildState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestResource_SingleBuild(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, nil)
	var calls atomic.Int32
	res := NewResource(func(ctx context.Context) (*Engine, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return engine, nil
	}, testBuildConfig(), zerolog.Nop())

	if res.State() != StateUninitialized {
		t.Fatalf("State() = %v, want uninitialized", res.State())
	}
	if _, ok := res.Engine(); ok {
		t.Fatal("Engine() ready before any build")
	}

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := res.EnsureReady(context.Background())
			if err != nil {
				errs <- err
				return
			}
			if got != engine {
				errs <- errors.New("EnsureReady returned a different engine")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	if n := calls.Load(); n != 1 {
		t.Errorf("build ran %d times, want 1", n)
	}
	if res.State() != StateReady {
		t.Errorf("State() = %v, want ready", res.State())
	}
	if got, ok := res.Engine(); !ok || got != engine {
		t.Error("Engine() did not return the built engine")
	}

	// Ready resources never rebuild.
	if _, err := res.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady() error = %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("build ran %d times after ready, want 1", n)
	}
}

func TestResource_FailureThenRetry(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, nil)
	cause := errors.New("clicks directory missing")
	var calls atomic.Int32
	res := NewResource(func(ctx context.Context) (*Engine, error) {
		if calls.Add(1) == 1 {
			return nil, cause
		}
		return engine, nil
	}, testBuildConfig(), zerolog.Nop())

	_, err := res.EnsureReady(context.Background())
	if !errors.Is(err, ErrBuildFailed) || !errors.Is(err, cause) {
		t.Fatalf("EnsureReady() error = %v, want ErrBuildFailed wrapping cause", err)
	}
	if res.State() != StateFailed {
		t.Errorf("State() = %v, want failed", res.State())
	}
	if got, ok := res.Engine(); ok || got != nil {
		t.Error("failed build left an engine behind")
	}
	if !errors.Is(res.LastError(), cause) {
		t.Errorf("LastError() = %v, want %v", res.LastError(), cause)
	}

	got, err := res.EnsureReady(context.Background())
	if err != nil {
		t.Fatalf("retry EnsureReady() error = %v", err)
	}
	if got != engine || res.State() != StateReady || res.LastError() != nil {
		t.Error("retry did not produce a ready resource")
	}
}

func TestResource_WaiterTimeout(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, nil)
	release := make(chan struct{})
	var calls atomic.Int32
	res := NewResource(func(ctx context.Context) (*Engine, error) {
		calls.Add(1)
		<-release
		// The build must outlive the caller that started it.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return engine, nil
	}, testBuildConfig(), zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := res.EnsureReady(ctx)
	if !errors.Is(err, ErrNotReady) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("EnsureReady() error = %v, want ErrNotReady", err)
	}
	if res.State() != StateBuilding {
		t.Errorf("State() = %v, want building", res.State())
	}

	close(release)
	got, err := res.EnsureReady(context.Background())
	if err != nil || got != engine {
		t.Fatalf("EnsureReady() = %v, %v after release", got, err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("build ran %d times, want 1", n)
	}
}

func TestResource_BuildTimeout(t *testing.T) {
	t.Parallel()

	cfg := testBuildConfig()
	cfg.Timeout = 20 * time.Millisecond
	res := NewResource(func(ctx context.Context) (*Engine, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, cfg, zerolog.Nop())

	_, err := res.EnsureReady(context.Background())
	if !errors.Is(err, ErrBuildFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("EnsureReady() error = %v, want build deadline failure", err)
	}
}

func TestResource_BreakerOpens(t *testing.T) {
	t.Parallel()

	cfg := testBuildConfig()
	cfg.BreakerFailures = 1
	var calls atomic.Int32
	res := NewResource(func(ctx context.Context) (*Engine, error) {
		calls.Add(1)
		return nil, errors.New("corrupt embeddings")
	}, cfg, zerolog.Nop())

	if _, err := res.EnsureReady(context.Background()); !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("first EnsureReady() error = %v", err)
	}
	_, err := res.EnsureReady(context.Background())
	if !errors.Is(err, ErrBuildFailed) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("second EnsureReady() error = %v, want open breaker", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("build ran %d times, want 1 while breaker is open", n)
	}
}

func TestResource_BuildPanic(t *testing.T) {
	t.Parallel()

	res := NewResource(func(ctx context.Context) (*Engine, error) {
		panic("index out of range")
	}, testBuildConfig(), zerolog.Nop())

	if _, err := res.EnsureReady(context.Background()); !errors.Is(err, ErrBuildFailed) {
		t.Errorf("EnsureReady() error = %v, want ErrBuildFailed", err)
	}
	if res.State() != StateFailed {
		t.Errorf("State() = %v, want failed", res.State())
	}
}

func TestResource_NilEngine(t *testing.T) {
	t.Parallel()

	res := NewResource(func(ctx context.Context) (*Engine, error) {
		return nil, nil
	}, testBuildConfig(), zerolog.Nop())

	if _, err := res.EnsureReady(context.Background()); !errors.Is(err, ErrBuildFailed) {
		t.Errorf("EnsureReady() error = %v, want ErrBuildFailed", err)
	}
}
