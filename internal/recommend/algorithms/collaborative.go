// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package algorithms

import (
	"context"
	"errors"
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/newsrec/internal/recommend"
)

// Collaborative implements latent-factor collaborative filtering.
//
// The user×article click-count matrix is factorised with a randomized
// truncated SVD, A ≈ U Σ Vᵀ. Users are represented by the rows of U Σ and
// articles by the rows of V. A user's candidates are ranked by cosine
// similarity between the two, excluding articles the user has clicked.
//
// Users absent from the training log have no latent vector and are served
// by the popularity fallback without seen-article exclusion.
type Collaborative struct {
	BaseAlgorithm

	// Configuration
	latentDims      int
	oversample      int
	powerIterations int
	seed            int64
	fallback        *Popularity

	// Trained model
	userIndex   map[int]int
	itemIDs     []int // column index -> article ID
	userFactors *mat.Dense
	itemFactors *mat.Dense
	itemNorms   []float64
	userNorms   []float64
	matrix      *sparse.CSR
	history     *recommend.History
	rank        int
}

// CollaborativeConfig contains configuration for collaborative filtering.
type CollaborativeConfig struct {
	// LatentDims is the factorisation rank, clamped to min(users, articles).
	// Default: 50
	LatentDims int

	// Oversample is the number of extra random projections.
	// Zero selects the default; a negative value disables oversampling.
	// Default: 10
	Oversample int

	// PowerIterations sharpens the range finder for slowly decaying spectra.
	// Zero selects the default; a negative value disables power iterations.
	// Default: 5
	PowerIterations int

	// Seed makes the factorisation reproducible.
	// Default: 42
	Seed int64
}

// ErrNoInteractions is returned when the snapshot has no clicks to factorise.
var ErrNoInteractions = errors.New("collaborative: snapshot has no interactions")

// NewCollaborative creates a collaborative engine. fallback may be nil, in
// which case unknown users receive no results.
func NewCollaborative(cfg CollaborativeConfig, fallback *Popularity) *Collaborative {
	if cfg.LatentDims <= 0 {
		cfg.LatentDims = 50
	}
	switch {
	case cfg.Oversample == 0:
		cfg.Oversample = 10
	case cfg.Oversample < 0:
		cfg.Oversample = 0
	}
	switch {
	case cfg.PowerIterations == 0:
		cfg.PowerIterations = 5
	case cfg.PowerIterations < 0:
		cfg.PowerIterations = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return &Collaborative{
		BaseAlgorithm:   NewBaseAlgorithm("collaborative"),
		latentDims:      cfg.LatentDims,
		oversample:      cfg.Oversample,
		powerIterations: cfg.PowerIterations,
		seed:            cfg.Seed,
		fallback:        fallback,
	}
}

// Train builds the count matrix and factorises it.
//
//nolint:gocritic // rangeValCopy: Interaction is small
func (c *Collaborative) Train(ctx context.Context, snap *recommend.Snapshot) error {
	c.acquireTrainLock()
	defer c.releaseTrainLock()

	if len(snap.Interactions) == 0 {
		return ErrNoInteractions
	}

	history := snap.History
	if history == nil {
		history = recommend.NewHistory(snap.Interactions)
	}

	// Columns follow first appearance in the log.
	itemIndex := make(map[int]int)
	var itemIDs []int
	for _, inter := range snap.Interactions {
		if _, ok := itemIndex[inter.ItemID]; !ok {
			itemIndex[inter.ItemID] = len(itemIDs)
			itemIDs = append(itemIDs, inter.ItemID)
		}
	}

	users := history.Users()
	userIndex := make(map[int]int, len(users))
	indptr := make([]int, 1, len(users)+1)
	var indices []int
	var values []float64
	for row, userID := range users {
		userIndex[userID] = row
		for _, itemID := range history.Items(userID) {
			indices = append(indices, itemIndex[itemID])
			values = append(values, float64(history.Clicks(userID, itemID)))
		}
		indptr = append(indptr, len(indices))
	}
	matrix := sparse.NewCSR(len(users), len(itemIDs), indptr, indices, values)

	result, err := randomizedSVD(ctx, matrix, svdParams{
		rank:            c.latentDims,
		oversample:      c.oversample,
		powerIterations: c.powerIterations,
		seed:            c.seed,
	})
	if err != nil {
		return fmt.Errorf("factorize interactions: %w", err)
	}

	// User factors are U Σ.
	userFactors := mat.DenseCopyOf(result.u)
	userFactors.Apply(func(_, j int, v float64) float64 {
		return v * result.sigma[j]
	}, userFactors)

	c.userIndex = userIndex
	c.itemIDs = itemIDs
	c.userFactors = userFactors
	c.itemFactors = result.v
	c.userNorms = rowNorms(userFactors)
	c.itemNorms = rowNorms(result.v)
	c.matrix = matrix
	c.history = history
	c.rank = result.rank
	c.markTrained()

	return nil
}

func rowNorms(m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	norms := make([]float64, rows)
	for i := range norms {
		norms[i] = norm(m.RawRowView(i))
	}
	return norms
}

// Recommend returns up to n unclicked articles closest to the user's
// latent vector. The boolean reports whether the popularity fallback was used.
func (c *Collaborative) Recommend(userID, n int) ([]recommend.Result, bool) {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	row, ok := c.userIndex[userID]
	if !ok || c.userFactors == nil {
		if c.fallback == nil {
			return []recommend.Result{}, true
		}
		return c.fallback.Rank(userID, n, false), true
	}
	if n <= 0 {
		return []recommend.Result{}, false
	}

	// Clicked articles are never emitted.
	seen := c.history.Seen(userID)
	userVec := c.userFactors.RawRowView(row)
	userNorm := c.userNorms[row]
	top := newTopN(n)
	for col, itemID := range c.itemIDs {
		if _, ok := seen[itemID]; ok {
			continue
		}
		sim := cosineWithNorms(userVec, c.itemFactors.RawRowView(col), userNorm, c.itemNorms[col])
		top.offer(itemID, sim)
	}

	return top.results(), false
}

// IsColdStart reports whether the user has no latent vector.
func (c *Collaborative) IsColdStart(userID int) bool {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	_, ok := c.userIndex[userID]
	return !ok
}

// ColdStartReason returns ReasonUnknownUser for users without a latent
// vector and "" otherwise.
func (c *Collaborative) ColdStartReason(userID int) string {
	if c.IsColdStart(userID) {
		return ReasonUnknownUser
	}
	return ""
}

// LatentDims returns the effective factorisation rank after training.
func (c *Collaborative) LatentDims() int {
	c.acquirePredictLock()
	defer c.releasePredictLock()
	return c.rank
}

// Dims returns the number of users and articles in the training matrix.
func (c *Collaborative) Dims() (users, items int) {
	c.acquirePredictLock()
	defer c.releasePredictLock()
	if c.matrix == nil {
		return 0, 0
	}
	return c.matrix.Dims()
}

// Config returns the effective configuration after defaults were applied.
// A disabled oversample or power iteration count is reported as zero.
func (c *Collaborative) Config() CollaborativeConfig {
	return CollaborativeConfig{
		LatentDims:      c.latentDims,
		Oversample:      c.oversample,
		PowerIterations: c.powerIterations,
		Seed:            c.seed,
	}
}

// Fallback returns the popularity scorer used for unknown users.
func (c *Collaborative) Fallback() *Popularity {
	return c.fallback
}

// Ensure Collaborative implements the required interfaces.
var (
	_ recommend.Algorithm         = (*Collaborative)(nil)
	_ recommend.ColdStartReasoner = (*Collaborative)(nil)
)
