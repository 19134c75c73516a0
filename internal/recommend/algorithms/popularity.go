// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package algorithms

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/newsrec/internal/recommend"
)

// Popularity scoring constants.
const (
	// uniqueUserWeight and clickWeight blend reach and volume into the raw score.
	uniqueUserWeight = 0.7
	clickWeight      = 0.3

	// daysPerMonth converts whole days of age into months.
	daysPerMonth = 30.0

	// minAgeMonths floors the age so brand-new articles do not divide by zero.
	minAgeMonths = 0.1

	// Novelty boosts for articles younger than one and three days.
	freshBoost  = 1.5
	recentBoost = 1.2
)

// Popularity ranks articles by click reach normalized by article age.
// It is both a standalone strategy and the shared cold-start fallback of
// the content and collaborative engines.
//
// The score of an article is:
//
//	raw        = 0.7 * unique_users + 0.3 * total_clicks
//	age_months = max(floor(age_days) / 30, 0.1)
//	final      = raw / age_months * boost
//
// where boost is 1.5 below 24 hours of age, 1.2 below 72 hours and 1.0 otherwise.
// Age is measured against the latest click in the log.
type Popularity struct {
	BaseAlgorithm

	now func() time.Time

	// Trained model
	ranking       []recommend.Result // final score descending
	scores        map[int]float64
	history       *recommend.History
	referenceTime time.Time
	dropped       int
}

// PopularityConfig contains configuration for the popularity scorer.
type PopularityConfig struct {
	// Now supplies the reference time when the log has no clicks.
	// Default: time.Now
	Now func() time.Time
}

// NewPopularity creates a new popularity scorer.
func NewPopularity(cfg PopularityConfig) *Popularity {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Popularity{
		BaseAlgorithm: NewBaseAlgorithm("popularity"),
		now:           cfg.Now,
		scores:        make(map[int]float64),
	}
}

// RawScore blends the number of distinct readers and total clicks.
func RawScore(uniqueUsers, totalClicks int) float64 {
	return uniqueUserWeight*float64(uniqueUsers) + clickWeight*float64(totalClicks)
}

// AgeMonths returns the article age in months, counted in whole days and
// floored at 0.1 months.
func AgeMonths(created, reference time.Time) float64 {
	days := math.Floor(reference.Sub(created).Hours() / 24)
	return math.Max(days/daysPerMonth, minAgeMonths)
}

// NoveltyBoost returns the multiplier for an article of the given age.
func NoveltyBoost(age time.Duration) float64 {
	switch {
	case age < 24*time.Hour:
		return freshBoost
	case age < 72*time.Hour:
		return recentBoost
	default:
		return 1.0
	}
}

// PopularityScore computes the final score of an article.
func PopularityScore(uniqueUsers, totalClicks int, created, reference time.Time) float64 {
	base := RawScore(uniqueUsers, totalClicks) / AgeMonths(created, reference)
	return base * NoveltyBoost(reference.Sub(created))
}

// Train computes the popularity ranking.
//
//nolint:gocritic // rangeValCopy: Interaction/Item passed by value in range, acceptable for clarity
func (p *Popularity) Train(ctx context.Context, snap *recommend.Snapshot) error {
	p.acquireTrainLock()
	defer p.releaseTrainLock()

	history := snap.History
	if history == nil {
		history = recommend.NewHistory(snap.Interactions)
	}

	reference := time.Time{}
	for _, inter := range snap.Interactions {
		if inter.Timestamp.After(reference) {
			reference = inter.Timestamp
		}
	}
	if len(snap.Interactions) == 0 {
		reference = p.now()
	}

	// Per-article reach and volume, aggregated from the per-user index.
	uniqueUsers := make(map[int]int)
	totalClicks := make(map[int]int)
	for _, userID := range history.Users() {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		for _, itemID := range history.Items(userID) {
			uniqueUsers[itemID]++
			totalClicks[itemID] += history.Clicks(userID, itemID)
		}
	}

	catalog := make(map[int]time.Time, len(snap.Items))
	for _, item := range snap.Items {
		catalog[item.ID] = item.CreatedAt
	}

	ranking := make([]recommend.Result, 0, len(uniqueUsers))
	scores := make(map[int]float64, len(uniqueUsers))
	dropped := 0
	for itemID, users := range uniqueUsers {
		created, ok := catalog[itemID]
		if !ok {
			dropped++
			continue
		}
		score := PopularityScore(users, totalClicks[itemID], created, reference)
		scores[itemID] = score
		ranking = append(ranking, recommend.Result{ItemID: itemID, Score: score})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		return ranking[i].ItemID < ranking[j].ItemID
	})

	p.ranking = ranking
	p.scores = scores
	p.history = history
	p.referenceTime = reference
	p.dropped = dropped
	p.markTrained()

	return nil
}

// Recommend returns the most popular articles the user has not read.
// Popularity never applies a cold-start fallback.
func (p *Popularity) Recommend(userID, n int) ([]recommend.Result, bool) {
	return p.Rank(userID, n, true), false
}

// Rank returns the top n articles, optionally skipping those the user has read.
func (p *Popularity) Rank(userID, n int, excludeSeen bool) []recommend.Result {
	p.acquirePredictLock()
	defer p.releasePredictLock()

	if n <= 0 || len(p.ranking) == 0 {
		return []recommend.Result{}
	}

	var seen map[int]struct{}
	if excludeSeen && p.history != nil {
		seen = p.history.Seen(userID)
	}

	out := make([]recommend.Result, 0, min(n, len(p.ranking)))
	for _, r := range p.ranking {
		if _, skip := seen[r.ItemID]; skip {
			continue
		}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out
}

// Top returns the n most popular articles.
func (p *Popularity) Top(n int) []recommend.Result {
	p.acquirePredictLock()
	defer p.releasePredictLock()

	if n <= 0 {
		return []recommend.Result{}
	}
	n = min(n, len(p.ranking))
	out := make([]recommend.Result, n)
	copy(out, p.ranking[:n])
	return out
}

// Score returns the final score of an article.
func (p *Popularity) Score(itemID int) (float64, bool) {
	p.acquirePredictLock()
	defer p.releasePredictLock()

	score, ok := p.scores[itemID]
	return score, ok
}

// ReferenceTime returns the time ages were measured against.
func (p *Popularity) ReferenceTime() time.Time {
	p.acquirePredictLock()
	defer p.releasePredictLock()
	return p.referenceTime
}

// Dropped returns the number of clicked articles missing from the catalog.
func (p *Popularity) Dropped() int {
	p.acquirePredictLock()
	defer p.releasePredictLock()
	return p.dropped
}

// Ensure Popularity implements the required interfaces.
var (
	_ recommend.Algorithm = (*Popularity)(nil)
	_ recommend.Ranker    = (*Popularity)(nil)
)
