// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package models

import (
	"time"

	"github.com/tomtom215/newsrec/internal/recommend"
)

// ServiceInfo is returned by GET /.
type ServiceInfo struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Status       string            `json:"status"`
	ModelsLoaded bool              `json:"models_loaded"`
	Strategies   []string          `json:"methods"`
	Endpoints    map[string]string `json:"endpoints"`
}

// HealthStatus is returned by GET /health.
type HealthStatus struct {
	// Status is starting, healthy or failed.
	Status            string    `json:"status"`
	ModelsLoaded      bool      `json:"models_loaded"`
	BuildState        string    `json:"build_state"`
	UsersCount        int       `json:"users_count"`
	ArticlesCount     int       `json:"articles_count"`
	InteractionsCount int       `json:"interactions_count"`
	BuiltAt           time.Time `json:"built_at,omitempty"`
	LastError         string    `json:"last_error,omitempty"`
	Uptime            string    `json:"uptime"`
}

// RecommendedArticle is one entry of a recommendation list.
type RecommendedArticle struct {
	ArticleID  int     `json:"article_id"`
	Score      float64 `json:"score"`
	CategoryID int     `json:"category_id"`
	WordsCount int     `json:"words_count"`
}

// RecommendResponse is returned by GET /recommend/{userID}.
type RecommendResponse struct {
	UserID           int                  `json:"user_id"`
	Method           string               `json:"method"`
	Recommendations  []RecommendedArticle `json:"recommendations"`
	ColdStartApplied bool                 `json:"cold_start_applied"`
}

// PopularArticle is one entry of the global popularity ranking.
type PopularArticle struct {
	ArticleID       int     `json:"article_id"`
	PopularityScore float64 `json:"popularity_score"`
	CategoryID      int     `json:"category_id"`
	WordsCount      int     `json:"words_count"`
}

// PopularResponse is returned by GET /popular.
type PopularResponse struct {
	PopularArticles []PopularArticle `json:"popular_articles"`
}

// UserSummary describes one active user.
type UserSummary struct {
	UserID         int `json:"user_id"`
	TotalClicks    int `json:"total_clicks"`
	UniqueArticles int `json:"unique_articles"`
}

// UsersResponse is returned by GET /users.
type UsersResponse struct {
	Users []UserSummary `json:"users"`
}

// EmbeddingsResponse is returned by GET /embeddings.
type EmbeddingsResponse struct {
	EmbeddingInfo recommend.EmbeddingInfo `json:"embedding_info"`
}

// NewRecommendResponse flattens an engine recommendation.
func NewRecommendResponse(rec *recommend.Recommendation) RecommendResponse {
	items := make([]RecommendedArticle, len(rec.Results))
	for i, r := range rec.Results {
		items[i] = RecommendedArticle{ArticleID: r.ItemID, Score: r.Score}
		if r.Meta != nil {
			items[i].CategoryID = r.Meta.CategoryID
			items[i].WordsCount = r.Meta.WordsCount
		}
	}
	return RecommendResponse{
		UserID:           rec.UserID,
		Method:           rec.Strategy.String(),
		Recommendations:  items,
		ColdStartApplied: rec.ColdStart,
	}
}

// NewPopularResponse flattens a popularity ranking.
func NewPopularResponse(results []recommend.Result) PopularResponse {
	items := make([]PopularArticle, len(results))
	for i, r := range results {
		items[i] = PopularArticle{ArticleID: r.ItemID, PopularityScore: r.Score}
		if r.Meta != nil {
			items[i].CategoryID = r.Meta.CategoryID
			items[i].WordsCount = r.Meta.WordsCount
		}
	}
	return PopularResponse{PopularArticles: items}
}

// NewUsersResponse converts user activity summaries.
func NewUsersResponse(users []recommend.UserActivity) UsersResponse {
	out := make([]UserSummary, len(users))
	for i, u := range users {
		out[i] = UserSummary(u)
	}
	return UsersResponse{Users: out}
}
