// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

// Package services wraps server components as suture services.
//
// APIService runs the HTTP API under suture with graceful shutdown and logs
// its lifecycle together with the listen address and model build state.
// WarmupService builds the recommendation
// models in the background at startup and lets the supervisor retry with
// backoff until a build succeeds. CacheSweepService drops expired cached
// recommendations on a fixed interval.
package services
