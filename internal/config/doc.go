// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

// Package config loads Newsrec configuration.
//
// Values are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or
//     /etc/newsrec/config.yaml
//  3. Environment variables, mapped explicitly to config paths
//
// Unknown environment variables are ignored. Comma-separated values are
// accepted for list settings such as CORS_ORIGINS.
//
// # Environment Variables
//
//	HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT
//	DATA_DIR, CLICKS_DIR, CLICKS_PATTERN, MAX_CLICK_FILES,
//	ARTICLES_FILE, EMBEDDINGS_FILE, FALLBACK_EMBEDDINGS_FILE
//	MIN_HISTORY, LATENT_DIMS, SVD_OVERSAMPLE, SVD_POWER_ITERATIONS, RANDOM_SEED,
//	PCA_ENABLED, PCA_COMPONENTS, BUILD_ON_STARTUP, BUILD_TIMEOUT, BUILD_WAIT,
//	BUILD_BREAKER_FAILURES, BUILD_BREAKER_TIMEOUT,
//	RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_SIZE
//	CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// A .env file in the working directory is read by LoadDotEnv before the
// environment layer; variables already set in the process take precedence.
package config
