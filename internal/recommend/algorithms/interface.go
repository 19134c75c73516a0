// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package algorithms

import (
	"container/heap"
	"context"
	"math"
	"sync"
	"time"

	"github.com/tomtom215/newsrec/internal/recommend"
)

// BaseAlgorithm provides common functionality for all algorithms.
type BaseAlgorithm struct {
	name          string
	trained       bool
	lastTrainedAt time.Time
	mu            sync.RWMutex
}

// NewBaseAlgorithm creates a new base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{name: name}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsTrained returns whether the model has been trained.
func (b *BaseAlgorithm) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// LastTrainedAt returns when the model was trained.
func (b *BaseAlgorithm) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// markTrained must be called while holding the training lock.
func (b *BaseAlgorithm) markTrained() {
	b.trained = true
	b.lastTrainedAt = time.Now()
}

func (b *BaseAlgorithm) acquireTrainLock()   { b.mu.Lock() }
func (b *BaseAlgorithm) releaseTrainLock()   { b.mu.Unlock() }
func (b *BaseAlgorithm) acquirePredictLock() { b.mu.RLock() }
func (b *BaseAlgorithm) releasePredictLock() { b.mu.RUnlock() }

// ContextCancelled reports whether ctx is done without blocking.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// dot returns the inner product of two equal-length vectors.
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// norm returns the Euclidean length of v.
func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Zero vectors have similarity 0. The result is clamped to [-1, 1].
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return cosineWithNorms(a, b, norm(a), norm(b))
}

// cosineWithNorms is cosineSimilarity with precomputed norms.
func cosineWithNorms(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot(a, b) / (normA * normB)
	switch {
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	}
	return sim
}

// scored is an item with its score during top-N selection.
type scored struct {
	id    int
	score float64
}

// ranksBefore orders by score descending, then by id ascending.
func ranksBefore(a, b scored) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.id < b.id
}

// worstFirst is a heap whose root is the lowest ranked entry.
type worstFirst []scored

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return ranksBefore(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(scored)) }
func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topN keeps the n best offered items in O(log n) per offer.
type topN struct {
	n int
	h worstFirst
}

func newTopN(n int) *topN {
	if n < 0 {
		n = 0
	}
	return &topN{n: n, h: make(worstFirst, 0, n)}
}

// offer considers an item. NaN scores are ignored.
func (t *topN) offer(id int, score float64) {
	if t.n == 0 || math.IsNaN(score) {
		return
	}
	s := scored{id: id, score: score}
	if len(t.h) < t.n {
		heap.Push(&t.h, s)
		return
	}
	if ranksBefore(s, t.h[0]) {
		t.h[0] = s
		heap.Fix(&t.h, 0)
	}
}

// results drains the selection, best first.
func (t *topN) results() []recommend.Result {
	out := make([]recommend.Result, len(t.h))
	for i := len(t.h) - 1; i >= 0; i-- {
		s := heap.Pop(&t.h).(scored)
		out[i] = recommend.Result{ItemID: s.id, Score: s.score}
	}
	return out
}
