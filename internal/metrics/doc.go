// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limited requests (counter)

Dataset Metrics:
  - duckdb_query_duration_seconds: read_csv query time (histogram)
  - duckdb_query_errors_total: Failed queries (counter)
  - dataset_rows: Rows loaded per table (gauge)

Model Metrics:
  - model_build_duration_seconds, model_builds_total{status}
  - model_state: 0=uninitialized, 1=building, 2=ready, 3=failed
  - circuit_breaker_state{name="model-build"}: 0=closed, 1=half-open, 2=open

Recommendation Metrics:
  - recommendations_served_total{strategy}
  - recommendation_duration_seconds{strategy}
  - recommendation_cold_start_total{strategy}
  - cache_hits_total / cache_misses_total{cache_type="recommendations"}

# Usage

	start := time.Now()
	// ... handle request ...
	metrics.RecordAPIRequest("GET", "/popular", "200", time.Since(start))
*/
package metrics
