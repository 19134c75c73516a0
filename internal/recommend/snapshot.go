// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package recommend

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is the static input every algorithm is trained from.
// It is built once and never mutated afterwards.
type Snapshot struct {
	// Interactions is the click log.
	Interactions []Interaction

	// Items is the article catalog.
	Items []Item

	// Embeddings holds one row per article, indexed by article ID.
	// It may be nil when the content strategy is not used.
	Embeddings *mat.Dense

	// EmbeddingsSource is the file the embeddings came from.
	EmbeddingsSource string

	// History indexes Interactions per user.
	History *History
}

// NewSnapshot builds a snapshot and its history index.
func NewSnapshot(interactions []Interaction, items []Item, embeddings *mat.Dense) *Snapshot {
	return &Snapshot{
		Interactions: interactions,
		Items:        items,
		Embeddings:   embeddings,
		History:      NewHistory(interactions),
	}
}

// userHistory is the click history of a single user.
type userHistory struct {
	items  []int       // distinct items in first-seen order
	counts map[int]int // item -> clicks
	total  int
}

// History is a read-only per-user index over an interaction log.
type History struct {
	users map[int]*userHistory
	order []int // users in first-seen order
}

// NewHistory indexes the interactions by user.
//
//nolint:gocritic // rangeValCopy: Interaction is small
func NewHistory(interactions []Interaction) *History {
	h := &History{users: make(map[int]*userHistory)}
	for _, inter := range interactions {
		u, ok := h.users[inter.UserID]
		if !ok {
			u = &userHistory{counts: make(map[int]int)}
			h.users[inter.UserID] = u
			h.order = append(h.order, inter.UserID)
		}
		if _, seen := u.counts[inter.ItemID]; !seen {
			u.items = append(u.items, inter.ItemID)
		}
		u.counts[inter.ItemID]++
		u.total++
	}
	return h
}

// Has reports whether the user appears in the log.
func (h *History) Has(userID int) bool {
	_, ok := h.users[userID]
	return ok
}

// Items returns the distinct items clicked by the user in first-seen order.
// The returned slice must not be modified.
func (h *History) Items(userID int) []int {
	if u, ok := h.users[userID]; ok {
		return u.items
	}
	return nil
}

// Seen returns the set of items the user clicked.
func (h *History) Seen(userID int) map[int]struct{} {
	items := h.Items(userID)
	seen := make(map[int]struct{}, len(items))
	for _, id := range items {
		seen[id] = struct{}{}
	}
	return seen
}

// DistinctCount returns the number of distinct items clicked by the user.
func (h *History) DistinctCount(userID int) int {
	return len(h.Items(userID))
}

// Clicks returns how many times the user clicked the item.
func (h *History) Clicks(userID, itemID int) int {
	if u, ok := h.users[userID]; ok {
		return u.counts[itemID]
	}
	return 0
}

// UserCount returns the number of distinct users.
func (h *History) UserCount() int {
	return len(h.users)
}

// Users returns user IDs in first-seen order.
func (h *History) Users() []int {
	return h.order
}

// MostActive returns up to limit users ordered by total clicks descending,
// then by user ID ascending.
func (h *History) MostActive(limit int) []UserActivity {
	activity := make([]UserActivity, 0, len(h.users))
	for id, u := range h.users {
		activity = append(activity, UserActivity{
			UserID:         id,
			TotalClicks:    u.total,
			UniqueArticles: len(u.items),
		})
	}
	sort.Slice(activity, func(i, j int) bool {
		if activity[i].TotalClicks != activity[j].TotalClicks {
			return activity[i].TotalClicks > activity[j].TotalClicks
		}
		return activity[i].UserID < activity[j].UserID
	})
	if limit >= 0 && limit < len(activity) {
		activity = activity[:limit]
	}
	return activity
}
