// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package algorithms

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/newsrec/internal/recommend"
)

// ContentBased recommends articles whose embeddings are close to the
// user's reading profile.
//
// The profile is the mean embedding of every distinct article the user has
// clicked. All articles are scored by cosine similarity to the profile and
// the already-read ones are skipped:
//
//	profile = mean(embedding[a] for a in history(u))
//	score(i) = cos(profile, embedding[i])
//
// Users with fewer than MinHistory distinct articles, or whose articles have
// no embedding row, are served by the popularity fallback with read
// articles excluded.
type ContentBased struct {
	BaseAlgorithm

	// Configuration
	minHistory    int
	pcaEnabled    bool
	pcaComponents int
	fallback      *Popularity

	// Trained model
	embeddings  *mat.Dense
	norms       []float64
	originalDim int
	variancePct float64
	reduced     bool
	source      string
	history     *recommend.History
}

// ContentBasedConfig contains configuration for content-based filtering.
type ContentBasedConfig struct {
	// MinHistory is the cold-start threshold on distinct clicked articles.
	// Zero means every known user is personalized.
	MinHistory int

	// PCAEnabled reduces the embeddings before training.
	PCAEnabled bool

	// PCAComponents is the target dimensionality.
	PCAComponents int
}

// ErrNoEmbeddings is returned when the snapshot carries no embedding table.
var ErrNoEmbeddings = errors.New("content: snapshot has no embeddings")

// NewContentBased creates a content-based engine. fallback may be nil, in
// which case cold-start requests return no results.
func NewContentBased(cfg ContentBasedConfig, fallback *Popularity) *ContentBased {
	if cfg.MinHistory < 0 {
		cfg.MinHistory = 0
	}
	return &ContentBased{
		BaseAlgorithm: NewBaseAlgorithm("content"),
		minHistory:    cfg.MinHistory,
		pcaEnabled:    cfg.PCAEnabled,
		pcaComponents: cfg.PCAComponents,
		fallback:      fallback,
		variancePct:   100,
	}
}

// Train prepares the embedding table, applying PCA when configured.
func (c *ContentBased) Train(ctx context.Context, snap *recommend.Snapshot) error {
	c.acquireTrainLock()
	defer c.releaseTrainLock()

	if snap.Embeddings == nil {
		return ErrNoEmbeddings
	}

	embeddings := snap.Embeddings
	rows, cols := embeddings.Dims()
	variance := 100.0
	reduced := false

	if c.pcaEnabled && c.pcaComponents < cols {
		projected, retained, err := ReducePCA(embeddings, c.pcaComponents)
		if err != nil {
			return fmt.Errorf("reduce embeddings: %w", err)
		}
		embeddings = projected
		variance = retained
		reduced = true
	}

	norms := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if i%4096 == 0 && ContextCancelled(ctx) {
			return ctx.Err()
		}
		norms[i] = norm(embeddings.RawRowView(i))
	}

	history := snap.History
	if history == nil {
		history = recommend.NewHistory(snap.Interactions)
	}

	c.embeddings = embeddings
	c.norms = norms
	c.originalDim = cols
	c.variancePct = variance
	c.reduced = reduced
	c.source = snap.EmbeddingsSource
	c.history = history
	c.markTrained()

	return nil
}

// Recommend returns up to n unread articles most similar to the user's profile.
// The boolean reports whether the popularity fallback produced the results.
func (c *ContentBased) Recommend(userID, n int) ([]recommend.Result, bool) {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	if c.embeddings == nil || c.history == nil {
		return c.coldStart(userID, n)
	}

	read := c.history.Items(userID)
	if len(read) < c.minHistory {
		return c.coldStart(userID, n)
	}

	profile, ok := c.profile(read)
	if !ok {
		return c.coldStart(userID, n)
	}
	if n <= 0 {
		return []recommend.Result{}, false
	}

	seen := make(map[int]struct{}, len(read))
	for _, id := range read {
		seen[id] = struct{}{}
	}

	profileNorm := norm(profile)
	rows, _ := c.embeddings.Dims()
	top := newTopN(n)
	for i := 0; i < rows; i++ {
		if _, skip := seen[i]; skip {
			continue
		}
		top.offer(i, cosineWithNorms(c.embeddings.RawRowView(i), profile, c.norms[i], profileNorm))
	}

	return top.results(), false
}

// profile averages the embeddings of the given articles, skipping ids
// outside the table. It reports false when no id had an embedding.
func (c *ContentBased) profile(items []int) ([]float64, bool) {
	rows, cols := c.embeddings.Dims()
	profile := make([]float64, cols)
	valid := 0
	for _, id := range items {
		if id < 0 || id >= rows {
			continue
		}
		row := c.embeddings.RawRowView(id)
		for j, v := range row {
			profile[j] += v
		}
		valid++
	}
	if valid == 0 {
		return nil, false
	}
	for j := range profile {
		profile[j] /= float64(valid)
	}
	return profile, true
}

// coldStart serves the popularity fallback with read articles excluded.
func (c *ContentBased) coldStart(userID, n int) ([]recommend.Result, bool) {
	if c.fallback == nil {
		return []recommend.Result{}, true
	}
	return c.fallback.Rank(userID, n, true), true
}

// Cold-start reasons reported by ColdStartReason.
const (
	ReasonInsufficientHistory = "insufficient_history"
	ReasonNoValidEmbeddings   = "no_valid_embeddings"
	ReasonUnknownUser         = "unknown_user"
)

// ColdStartReason returns why a request for the user would use the
// fallback, or "" when it would be personalized.
func (c *ContentBased) ColdStartReason(userID int) string {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	if c.embeddings == nil || c.history == nil {
		return ReasonNoValidEmbeddings
	}
	read := c.history.Items(userID)
	if len(read) < c.minHistory {
		return ReasonInsufficientHistory
	}
	if _, ok := c.profile(read); !ok {
		return ReasonNoValidEmbeddings
	}
	return ""
}

// IsColdStart reports whether a request for the user would use the fallback.
func (c *ContentBased) IsColdStart(userID int) bool {
	return c.ColdStartReason(userID) != ""
}

// EmbeddingInfo describes the embedding table after training.
func (c *ContentBased) EmbeddingInfo() recommend.EmbeddingInfo {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	info := recommend.EmbeddingInfo{
		OriginalDim:         c.originalDim,
		ReductionApplied:    c.reduced,
		VarianceRetainedPct: c.variancePct,
		HasFallback:         c.fallback != nil,
		Source:              c.source,
	}
	if c.embeddings != nil {
		rows, cols := c.embeddings.Dims()
		info.Rows = rows
		info.CurrentDim = cols
		info.SizeMB = float64(rows*cols*8) / (1024 * 1024)
	}
	return info
}

// Config returns the effective configuration.
func (c *ContentBased) Config() ContentBasedConfig {
	return ContentBasedConfig{
		MinHistory:    c.minHistory,
		PCAEnabled:    c.pcaEnabled,
		PCAComponents: c.pcaComponents,
	}
}

// Fallback returns the popularity scorer used for cold-start users.
func (c *ContentBased) Fallback() *Popularity {
	return c.fallback
}

// Ensure ContentBased implements the required interfaces.
var (
	_ recommend.Algorithm          = (*ContentBased)(nil)
	_ recommend.EmbeddingDescriber = (*ContentBased)(nil)
	_ recommend.ColdStartReasoner  = (*ContentBased)(nil)
)
