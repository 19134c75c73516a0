// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package logging

import (
	"context"
	"strings"
	"testing"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	c1, c2 := GenerateCorrelationID(), GenerateCorrelationID()
	if len(c1) != 8 {
		t.Errorf("correlation ID length = %d, want 8", len(c1))
	}
	if c1 == c2 {
		t.Error("correlation IDs should be unique")
	}

	r := GenerateRequestID()
	if len(r) != 36 {
		t.Errorf("request ID length = %d, want 36", len(r))
	}
}

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if CorrelationIDFromContext(ctx) != "" || RequestIDFromContext(ctx) != "" {
		t.Fatal("empty context should carry no IDs")
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("request ID = %q", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-1" {
		t.Errorf("correlation ID = %q", got)
	}

	ctx = ContextWithNewCorrelationID(context.Background())
	if len(CorrelationIDFromContext(ctx)) != 8 {
		t.Errorf("generated correlation ID = %q", CorrelationIDFromContext(ctx))
	}
}

func TestCtx(t *testing.T) {
	buf := captureGlobal(t)

	ctx := ContextWithCorrelationID(ContextWithRequestID(context.Background(), "req-42"), "abcd1234")
	Ctx(ctx).Info().Msg("recommendation served")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"correlation_id":"abcd1234"`, "recommendation served"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestCtx_NoIDs(t *testing.T) {
	buf := captureGlobal(t)

	Ctx(context.Background()).Info().Msg("plain")

	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("unexpected request_id: %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureGlobal(t)

	l := WithComponent("dataset")
	l.Info().Msg("loaded")

	if !strings.Contains(buf.String(), `"component":"dataset"`) {
		t.Errorf("missing component: %s", buf.String())
	}
}
