// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package recommend_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/newsrec/internal/recommend"
	"github.com/tomtom215/newsrec/internal/recommend/algorithms"
)

// buildEngine wires the three real strategies the way the server does.
func buildEngine(t *testing.T) (*recommend.Engine, *algorithms.Popularity) {
	t.Helper()

	ref := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var interactions []recommend.Interaction
	clickAt := func(user, item int) {
		interactions = append(interactions, recommend.Interaction{UserID: user, ItemID: item, Timestamp: ref})
	}
	// User 1 is a heavy reader, user 2 has only two distinct articles.
	for _, item := range []int{0, 1, 2, 3} {
		clickAt(1, item)
	}
	clickAt(2, 0)
	clickAt(2, 5)
	clickAt(2, 5)
	for _, item := range []int{4, 5, 6} {
		clickAt(3, item)
	}

	items := make([]recommend.Item, 0, 8)
	for id := 0; id < 8; id++ {
		items = append(items, recommend.Item{
			ID:         id,
			CategoryID: id % 2,
			WordsCount: 150 + id,
			CreatedAt:  ref.Add(-time.Duration(id+1) * 24 * time.Hour),
		})
	}

	data := make([]float64, 0, 8*3)
	for id := 0; id < 8; id++ {
		data = append(data, float64(id%3), float64((id+1)%3), 1)
	}
	snap := recommend.NewSnapshot(interactions, items, mat.NewDense(8, 3, data))

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	popular := algorithms.NewPopularity(algorithms.PopularityConfig{})
	engine.RegisterAlgorithm(recommend.StrategyPopularity, popular)
	engine.RegisterAlgorithm(recommend.StrategyContent,
		algorithms.NewContentBased(algorithms.ContentBasedConfig{MinHistory: 3}, popular))
	engine.RegisterAlgorithm(recommend.StrategyCollaborative,
		algorithms.NewCollaborative(algorithms.CollaborativeConfig{LatentDims: 2}, popular))

	if err := engine.Build(context.Background(), snap); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return engine, popular
}

func TestEngine_ContentFallbackMatchesPopularity(t *testing.T) {
	t.Parallel()

	engine, popular := buildEngine(t)

	rec, err := engine.Recommend(context.Background(), recommend.StrategyContent, 2, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !rec.ColdStart {
		t.Fatal("user with 2 articles should fall back")
	}

	want := popular.Rank(2, 5, true)
	if len(rec.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(rec.Results), len(want))
	}
	for i := range want {
		if rec.Results[i].ItemID != want[i].ItemID || rec.Results[i].Score != want[i].Score {
			t.Errorf("result[%d] = %+v, want %+v", i, rec.Results[i], want[i])
		}
	}
}

func TestEngine_SeenExclusion(t *testing.T) {
	t.Parallel()

	engine, _ := buildEngine(t)
	read := map[int]bool{0: true, 1: true, 2: true, 3: true}

	for _, strategy := range recommend.Strategies {
		rec, err := engine.Recommend(context.Background(), strategy, 1, 10)
		if err != nil {
			t.Fatalf("Recommend(%s) error = %v", strategy, err)
		}
		if rec.ColdStart {
			t.Errorf("%s: unexpected cold start for user 1", strategy)
		}
		for _, r := range rec.Results {
			if read[r.ItemID] {
				t.Errorf("%s recommended already read article %d", strategy, r.ItemID)
			}
			if strategy != recommend.StrategyPopularity && (r.Score < -1 || r.Score > 1) {
				t.Errorf("%s score %v outside [-1, 1]", strategy, r.Score)
			}
			if r.Meta == nil {
				t.Errorf("%s result %d not enriched", strategy, r.ItemID)
			}
		}
	}
}

func TestEngine_CollaborativeUnknownUser(t *testing.T) {
	t.Parallel()

	engine, popular := buildEngine(t)

	rec, err := engine.Recommend(context.Background(), recommend.StrategyCollaborative, 404, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !rec.ColdStart {
		t.Error("unknown user should fall back")
	}
	want := popular.Rank(404, 3, false)
	for i := range want {
		if rec.Results[i].ItemID != want[i].ItemID {
			t.Errorf("result[%d] = %d, want %d", i, rec.Results[i].ItemID, want[i].ItemID)
		}
	}

	top, err := engine.Popular(context.Background(), 20)
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Fatalf("Popular() not sorted at %d: %v > %v", i, top[i].Score, top[i-1].Score)
		}
	}
}
