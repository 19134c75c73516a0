// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

/*
Package main is the entry point for the Newsrec server.

Newsrec serves news article recommendations over HTTP from a static click
log, an article catalog and a precomputed article embedding table. Three
strategies are available: content similarity over embeddings, latent-factor
collaborative filtering, and a recency-adjusted popularity ranking that
also serves as the cold-start fallback.

# Application Architecture

	RootSupervisor ("newsrec")
	├── ModelSupervisor ("model-layer")
	│   └── Model warm-up (BUILD_ON_STARTUP=true)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Initialization order:

 1. .env file (optional) via godotenv
 2. Configuration: koanf with defaults, config.yaml and environment variables
 3. Logging: zerolog with JSON or console output
 4. Model resource: lazy, build-once engine guarded by a circuit breaker
 5. HTTP handlers and chi router
 6. Supervisor tree and signal handling

Models are built on the first request that needs them, or eagerly by the
warm-up service. Requests that arrive during the build wait up to
BUILD_WAIT and then receive 503 with a retry hint.

# Configuration

Common environment variables:

	HTTP_PORT=8000
	DATA_DIR=./data
	MIN_HISTORY=3
	LATENT_DIMS=50
	BUILD_ON_STARTUP=true
	LOG_LEVEL=info
	LOG_FORMAT=json

See internal/config for the full list.
*/
package main
