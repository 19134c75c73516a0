// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/newsrec/internal/models"
	"github.com/tomtom215/newsrec/internal/recommend"
)

// ModelProvider gives handlers access to the lazily built engine.
// *recommend.Resource satisfies it.
type ModelProvider interface {
	// EnsureReady returns the engine, starting a build if needed.
	EnsureReady(ctx context.Context) (*recommend.Engine, error)
	// Engine returns the engine without blocking or building.
	Engine() (*recommend.Engine, bool)
	State() recommend.BuildState
	LastError() error
}

// HandlerConfig configures the HTTP handlers.
type HandlerConfig struct {
	// ServiceName is reported by GET /.
	ServiceName string

	// Version is reported by GET /.
	Version string

	// BuildWait bounds how long a request waits for a model build
	// before answering 503. Zero waits for the request context only.
	BuildWait time.Duration
}

// Handler serves the recommendation API.
type Handler struct {
	models    ModelProvider
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates the API handlers.
func NewHandler(provider ModelProvider, cfg HandlerConfig) *Handler {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "News Recommendation API"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		models:    provider,
		config:    cfg,
		startTime: time.Now(),
	}
}

// Request parameter sets, checked with the shared validator.
type (
	RecommendRequest struct {
		UserID int    `query:"user_id" validate:"min=0"`
		Method string `query:"method" validate:"strategy"`
		N      int    `query:"n" validate:"min=1,max=10"`
	}

	PopularRequest struct {
		N int `query:"n" validate:"min=1,max=20"`
	}

	UsersRequest struct {
		Limit int `query:"limit" validate:"min=1,max=50"`
	}
)

// Default query parameter values.
const (
	defaultMethod     = "content"
	defaultRecommendN = 5
	defaultPopularN   = 10
	defaultUsersLimit = 20
)

// engine waits for a built engine, bounded by BuildWait.
func (h *Handler) engine(ctx context.Context) (*recommend.Engine, error) {
	if h.config.BuildWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.BuildWait)
		defer cancel()
	}
	return h.models.EnsureReady(ctx)
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	info := models.ServiceInfo{
		Name:    h.config.ServiceName,
		Version: h.config.Version,
		Status:  "running",
		Endpoints: map[string]string{
			"recommend":  "GET /recommend/{user_id}?method=content|collaborative|popularity&n=5",
			"popular":    "GET /popular?n=10",
			"users":      "GET /users?limit=20",
			"embeddings": "GET /embeddings",
			"health":     "GET /health",
			"metrics":    "GET /metrics",
		},
	}
	if engine, ok := h.models.Engine(); ok {
		info.ModelsLoaded = true
		for _, s := range engine.Strategies() {
			info.Strategies = append(info.Strategies, s.String())
		}
	} else {
		for _, s := range recommend.Strategies {
			info.Strategies = append(info.Strategies, s.String())
		}
	}
	respondSuccess(w, info, start, false)
}

// Health handles GET /health. It reports the build state and never starts
// a build. A failed build answers 503 so orchestrators can restart the pod.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	state := h.models.State()

	status := models.HealthStatus{
		Status:     "starting",
		BuildState: state.String(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
	code := http.StatusOK

	switch state {
	case recommend.StateReady:
		status.Status = "healthy"
		if engine, ok := h.models.Engine(); ok {
			stats := engine.Stats()
			status.ModelsLoaded = true
			status.UsersCount = stats.Users
			status.ArticlesCount = stats.Articles
			status.InteractionsCount = stats.Interactions
			status.BuiltAt = stats.BuiltAt.UTC()
		}
	case recommend.StateFailed:
		status.Status = "failed"
		code = http.StatusServiceUnavailable
		if err := h.models.LastError(); err != nil {
			status.LastError = err.Error()
		}
	}

	respondJSON(w, code, &models.APIResponse{
		Status: "success",
		Data:   status,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Recommend handles GET /recommend/{userID}.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rawID := urlParam(r, "userID")
	userID, err := strconv.Atoi(rawID)
	if err != nil || userID < 0 {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", "user_id must be a non-negative integer", nil)
		return
	}

	n, apiErr := queryInt(r, "n", defaultRecommendN)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	method := r.URL.Query().Get("method")
	if method == "" {
		method = defaultMethod
	}

	req := RecommendRequest{UserID: userID, Method: method, N: n}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	strategy, err := recommend.ParseStrategy(req.Method)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	engine, err := h.engine(r.Context())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	rec, err := engine.Recommend(r.Context(), strategy, req.UserID, req.N)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, models.NewRecommendResponse(rec), start, rec.Cached)
}

// Popular handles GET /popular.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	n, apiErr := queryInt(r, "n", defaultPopularN)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	req := PopularRequest{N: n}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	engine, err := h.engine(r.Context())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	results, err := engine.Popular(r.Context(), req.N)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, models.NewPopularResponse(results), start, false)
}

// Users handles GET /users.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, apiErr := queryInt(r, "limit", defaultUsersLimit)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	req := UsersRequest{Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	engine, err := h.engine(r.Context())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	users, err := engine.ActiveUsers(req.Limit)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, models.NewUsersResponse(users), start, false)
}

// Embeddings handles GET /embeddings.
func (h *Handler) Embeddings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	engine, err := h.engine(r.Context())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	info, err := engine.EmbeddingInfo()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, models.EmbeddingsResponse{EmbeddingInfo: info}, start, false)
}

// NotFound answers unknown routes with the error envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Endpoint not found", nil)
}

// MethodNotAllowed answers unsupported methods with the error envelope.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
}
