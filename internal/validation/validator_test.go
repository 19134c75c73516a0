// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package validation

import (
	"strings"
	"sync"
	"testing"
)

type recommendRequest struct {
	UserID int    `query:"user_id" validate:"min=0"`
	Method string `query:"method" validate:"strategy"`
	N      int    `query:"n" validate:"min=1,max=10"`
}

type usersRequest struct {
	Limit int `json:"limit" validate:"gte=1,lte=50"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"valid content", &recommendRequest{UserID: 1, Method: "content", N: 5}, "", "", ""},
		{"valid collaborative", &recommendRequest{Method: "collaborative", N: 10}, "", "", ""},
		{"mixed case method", &recommendRequest{Method: "Collaborative", N: 10}, "method", "strategy", "method must be one of: content, collaborative, popularity"},
		{"n too small", &recommendRequest{Method: "content", N: 0}, "n", "min", "n must be at least 1"},
		{"n too large", &recommendRequest{Method: "content", N: 11}, "n", "max", "n must be at most 10"},
		{"bad method", &recommendRequest{Method: "hybrid", N: 5}, "method", "strategy", "method must be one of: content, collaborative, popularity"},
		{"negative user", &recommendRequest{UserID: -1, Method: "popularity", N: 5}, "user_id", "min", "user_id must be at least 0"},
		{"json tag name", &usersRequest{Limit: 51}, "limit", "lte", "limit must be less than or equal to 50"},
		{"valid users", &usersRequest{Limit: 20}, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(tt.req)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("invalid method code", func(t *testing.T) {
		t.Parallel()
		apiErr := ValidateStruct(&recommendRequest{Method: "nope", N: 5}).ToAPIError()
		if apiErr.Code != "INVALID_METHOD" {
			t.Errorf("code = %q, want INVALID_METHOD", apiErr.Code)
		}
		if apiErr.Details["field"] != "method" {
			t.Errorf("details = %v", apiErr.Details)
		}
	})

	t.Run("single field", func(t *testing.T) {
		t.Parallel()
		apiErr := ValidateStruct(&recommendRequest{Method: "content", N: 50}).ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("code = %q", apiErr.Code)
		}
		if apiErr.Details["value"] != 50 {
			t.Errorf("value = %v", apiErr.Details["value"])
		}
	})

	t.Run("multiple fields", func(t *testing.T) {
		t.Parallel()
		verr := ValidateStruct(&recommendRequest{UserID: -5, Method: "bad", N: 0})
		apiErr := verr.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("code = %q", apiErr.Code)
		}
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 3 {
			t.Fatalf("fields = %v", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "; ") {
			t.Errorf("message should join errors: %q", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message != "Validation failed" {
			t.Errorf("got %+v", apiErr)
		}
	})
}

func TestGetValidator_Concurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	seen := make(chan interface{}, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- GetValidator()
		}()
	}
	wg.Wait()
	close(seen)

	first := <-seen
	for v := range seen {
		if v != first {
			t.Fatal("GetValidator returned different instances")
		}
	}
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(42)
	if verr == nil || verr.Errors()[0].Field() != "unknown" {
		t.Errorf("got %v, want unknown-field error", verr)
	}
}
