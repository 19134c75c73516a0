// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

/*
Package middleware provides HTTP middleware shared by the API router.

  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by the chi route pattern so /recommend/{userID} is one series
  - RequestID: honours or generates X-Request-ID and seeds the logging
    context with request and correlation IDs

Both have the func(http.Handler) http.Handler shape used by chi.Router.Use.
*/
package middleware
