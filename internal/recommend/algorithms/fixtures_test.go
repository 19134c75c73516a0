// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package algorithms

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/newsrec/internal/recommend"
)

// refTime is the latest click in the fixture log.
var refTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// click builds an interaction at the given offset before refTime.
func click(user, item int, ago time.Duration) recommend.Interaction {
	return recommend.Interaction{UserID: user, ItemID: item, Timestamp: refTime.Add(-ago)}
}

// article builds a catalog entry created the given duration before refTime.
func article(id int, age time.Duration) recommend.Item {
	return recommend.Item{ID: id, CategoryID: id % 3, WordsCount: 100 + id, CreatedAt: refTime.Add(-age)}
}

// popularitySnapshot returns a log where the expected ranking is 2, 3, 1
// and item 99 is missing from the catalog.
//
//	item 1: 2 users, 3 clicks, 100 days old -> 2.3 / (100/30)      = 0.69
//	item 2: 2 users, 2 clicks, 10 hours old -> 2.0 / 0.1 * 1.5     = 30
//	item 3: 1 user,  1 click,  5 days old   -> 1.0 / (5/30)        = 6
func popularitySnapshot() *recommend.Snapshot {
	interactions := []recommend.Interaction{
		click(1, 1, 3*time.Hour),
		click(1, 1, 2*time.Hour),
		click(1, 2, time.Hour),
		click(2, 1, time.Hour),
		click(2, 3, 0),
		click(3, 2, 30*time.Minute),
		click(3, 99, 10*time.Minute),
	}
	items := []recommend.Item{
		article(1, 100*24*time.Hour),
		article(2, 10*time.Hour),
		article(3, 5*24*time.Hour),
	}
	return recommend.NewSnapshot(interactions, items, nil)
}

// embeddingMatrix returns five 2-d article embeddings.
//
//	0: [1, 0]  1: [0.9, 0.1]  2: [0, 1]  3: [0.1, 0.9]  4: [-1, 0]
func embeddingMatrix() *mat.Dense {
	return mat.NewDense(5, 2, []float64{
		1, 0,
		0.9, 0.1,
		0, 1,
		0.1, 0.9,
		-1, 0,
	})
}

func resultIDs(results []recommend.Result) []int {
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.ItemID
	}
	return ids
}

func assertIDs(t *testing.T, got []recommend.Result, want []int) {
	t.Helper()
	ids := resultIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("item ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("item ids = %v, want %v", ids, want)
		}
	}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
