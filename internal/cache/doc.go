// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

/*
Package cache provides a generic, thread-safe LRU cache with per-entry TTL.

The recommendation engine memoizes results keyed by strategy, user and
count. Models are immutable between builds, so entries leave the cache on
eviction or expiry, and all at once through Clear after a rebuild. Expired
entries are collected lazily by Get; the server also runs CleanupExpired
periodically so idle keys do not hold memory.

Usage:

	c := cache.New[*recommend.Recommendation](10000, 10*time.Minute)
	c.Add("content:42:5", rec)
	if rec, ok := c.Get("content:42:5"); ok {
	    // served from cache
	}

Hits and misses are available from Stats and are exported as Prometheus
counters by the engine.
*/
package cache
