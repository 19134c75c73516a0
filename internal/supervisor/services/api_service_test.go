// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/newsrec/internal/logging"
	"github.com/tomtom215/newsrec/internal/recommend"
)

// fakeListener fails its first failFirst calls, then blocks until Shutdown.
type fakeListener struct {
	failFirst   int32
	shutdownErr error

	calls     atomic.Int32
	shutdowns atomic.Int32
	started   chan struct{}
	stopOnce  sync.Once
	stopCh    chan struct{}
}

func newFakeListener() *fakeListener {
	return &fakeListener{
		started: make(chan struct{}, 8),
		stopCh:  make(chan struct{}),
	}
}

func (f *fakeListener) ListenAndServe() error {
	n := f.calls.Add(1)
	if n <= f.failFirst {
		return errors.New("bind: address already in use")
	}
	f.started <- struct{}{}
	<-f.stopCh
	return http.ErrServerClosed
}

func (f *fakeListener) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	f.stopOnce.Do(func() { close(f.stopCh) })
	return f.shutdownErr
}

type fixedState recommend.BuildState

func (s fixedState) State() recommend.BuildState { return recommend.BuildState(s) }

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ suture.Service = (*APIService)(nil)

func TestAPIService_GracefulShutdown(t *testing.T) {
	t.Parallel()

	var logs syncBuffer
	server := newFakeListener()
	svc := NewAPIService(server, APIServiceConfig{
		Addr:            "127.0.0.1:8000",
		ShutdownTimeout: time.Second,
		Models:          fixedState(recommend.StateBuilding),
	}, logging.NewTestLogger(&logs))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return")
	}
	if got := server.shutdowns.Load(); got != 1 {
		t.Errorf("Shutdown called %d times, want 1", got)
	}

	out := logs.String()
	for _, want := range []string{
		`"service":"api-server"`,
		`"addr":"127.0.0.1:8000"`,
		`"model_state":"building"`,
		`"message":"API server listening"`,
		`"message":"API server stopped"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %s:\n%s", want, out)
		}
	}
}

func TestAPIService_ListenError(t *testing.T) {
	t.Parallel()

	var logs syncBuffer
	server := newFakeListener()
	server.failFirst = 1
	svc := NewAPIService(server, APIServiceConfig{Addr: ":8000"}, logging.NewTestLogger(&logs))

	err := svc.Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "address already in use") {
		t.Fatalf("Serve() error = %v, want wrapped listen error", err)
	}
	if !strings.Contains(err.Error(), ":8000") {
		t.Errorf("error %q does not name the address", err)
	}
	if !strings.Contains(logs.String(), `"model_state":"unknown"`) {
		t.Errorf("logs missing unknown model state:\n%s", logs.String())
	}
}

func TestAPIService_ShutdownError(t *testing.T) {
	t.Parallel()

	server := newFakeListener()
	server.shutdownErr = errors.New("connections still open")
	svc := NewAPIService(server, APIServiceConfig{ShutdownTimeout: time.Second}, logging.NewTestLogger(&syncBuffer{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	<-server.started
	cancel()

	if err := <-done; !errors.Is(err, server.shutdownErr) {
		t.Errorf("Serve() error = %v, want shutdown error", err)
	}
}

func TestAPIService_RestartedBySupervisor(t *testing.T) {
	t.Parallel()

	server := newFakeListener()
	server.failFirst = 2
	svc := NewAPIService(server, APIServiceConfig{ShutdownTimeout: time.Second}, logging.NewTestLogger(&syncBuffer{}))

	sup := suture.New("test", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	select {
	case <-server.started:
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server was not restarted after listen failures")
	}
	cancel()
	<-errCh

	if got := svc.Starts(); got != 3 {
		t.Errorf("Starts() = %d, want 3", got)
	}
}

func TestAPIService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewAPIService(newFakeListener(), APIServiceConfig{}, logging.NewTestLogger(&syncBuffer{}))
	if svc.cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", svc.cfg.ShutdownTimeout)
	}
	if svc.String() != "api-server" {
		t.Errorf("String() = %q", svc.String())
	}
}
