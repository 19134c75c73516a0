// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package recommend

import (
	"context"
	"fmt"
	"time"
)

// Interaction represents a single click of a user on an article.
// Interactions form a multiset: repeated clicks are significant and act as
// the implicit rating signal.
type Interaction struct {
	// UserID is the internal user identifier.
	UserID int `json:"user_id"`

	// ItemID is the clicked article identifier.
	ItemID int `json:"item_id"`

	// Timestamp is when the click happened.
	Timestamp time.Time `json:"timestamp"`
}

// Item represents an article in the catalog.
type Item struct {
	// ID is the unique article identifier. It doubles as the row index
	// into the embedding matrix.
	ID int `json:"article_id"`

	// CategoryID is the editorial category of the article.
	CategoryID int `json:"category_id"`

	// WordsCount is the article length in words.
	WordsCount int `json:"words_count"`

	// CreatedAt is the publication time of the article.
	CreatedAt time.Time `json:"created_at"`
}

// ItemMeta carries catalog metadata attached to a recommendation.
type ItemMeta struct {
	CategoryID int `json:"category_id"`
	WordsCount int `json:"words_count"`
}

// Result is the uniform recommendation record returned by every strategy.
type Result struct {
	// ItemID is the recommended article.
	ItemID int `json:"article_id"`

	// Score is the strategy-specific score (cosine similarity or popularity).
	Score float64 `json:"score"`

	// Meta is filled by the engine from the catalog; nil when not enriched.
	Meta *ItemMeta `json:"meta,omitempty"`
}

// Strategy selects the scoring approach for a recommendation request.
type Strategy string

const (
	// StrategyContent ranks articles by embedding similarity to the user profile.
	StrategyContent Strategy = "content"

	// StrategyCollaborative ranks articles by latent-factor similarity.
	StrategyCollaborative Strategy = "collaborative"

	// StrategyPopularity ranks articles by age-normalized popularity.
	StrategyPopularity Strategy = "popularity"
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{StrategyContent, StrategyCollaborative, StrategyPopularity}

// String returns the strategy name.
func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy converts a strategy name to a Strategy.
// Names must match exactly; anything else yields ErrUnknownStrategy.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Recommendation is the engine response for a single request.
type Recommendation struct {
	UserID    int      `json:"user_id"`
	Strategy  Strategy `json:"method"`
	Results   []Result `json:"recommendations"`
	ColdStart bool     `json:"cold_start_applied"`
	Cached    bool     `json:"-"`
}

// UserActivity summarizes the click history of one user.
type UserActivity struct {
	UserID         int `json:"user_id"`
	TotalClicks    int `json:"total_clicks"`
	UniqueArticles int `json:"unique_articles"`
}

// Stats describes the dataset a build was made from.
type Stats struct {
	Users        int       `json:"users_count"`
	Articles     int       `json:"articles_count"`
	Interactions int       `json:"interactions_count"`
	BuiltAt      time.Time `json:"built_at"`
}

// EmbeddingInfo describes the embedding table used by the content engine.
type EmbeddingInfo struct {
	// OriginalDim is the dimensionality of the loaded embeddings.
	OriginalDim int `json:"original_dim"`

	// CurrentDim is the dimensionality after optional reduction.
	CurrentDim int `json:"current_dim"`

	// Rows is the number of embedding rows (one per article).
	Rows int `json:"rows"`

	// ReductionApplied reports whether PCA was applied.
	ReductionApplied bool `json:"reduction_applied"`

	// VarianceRetainedPct is the share of variance kept by the reduction (100 if none).
	VarianceRetainedPct float64 `json:"variance_retained_pct"`

	// HasFallback reports whether a popularity fallback is configured.
	HasFallback bool `json:"has_fallback"`

	// SizeMB is the in-memory size of the current embedding table.
	SizeMB float64 `json:"size_mb"`

	// Source is the file the embeddings were read from, if known.
	Source string `json:"source,omitempty"`
}

// Algorithm defines the interface for a recommendation strategy.
// Implementations are trained once from a snapshot and are read-only afterwards.
type Algorithm interface {
	// Name returns the algorithm identifier (e.g., "popularity", "content").
	Name() string

	// Train builds the model from the snapshot.
	Train(ctx context.Context, snap *Snapshot) error

	// Recommend returns up to n results for the user and whether the
	// cold-start fallback was used to produce them.
	Recommend(userID, n int) ([]Result, bool)

	// IsTrained returns true if the model has been trained.
	IsTrained() bool
}

// Ranker is implemented by algorithms that expose a global ranking.
type Ranker interface {
	// Top returns the n highest ranked items.
	Top(n int) []Result
}

// EmbeddingDescriber is implemented by algorithms backed by an embedding table.
type EmbeddingDescriber interface {
	EmbeddingInfo() EmbeddingInfo
}

// ColdStartReasoner is implemented by algorithms that can explain why a
// user is served by the fallback.
type ColdStartReasoner interface {
	ColdStartReason(userID int) string
}
