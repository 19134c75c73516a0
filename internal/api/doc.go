// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

/*
Package api exposes the recommendation engine over HTTP using the chi router.

Routes:

	GET /                    service information and endpoint map
	GET /health              build status and dataset counts; never starts a build
	GET /recommend/{userID}  ?method=content|collaborative|popularity&n=1..10
	GET /popular             ?n=1..20
	GET /users               ?limit=1..50, most active users
	GET /embeddings          embedding table description
	GET /metrics             Prometheus exposition

Models are built lazily: the first request needing them starts the build
through the ModelProvider and waits up to HandlerConfig.BuildWait. A request
that gives up, or finds the build failed, receives 503 MODELS_NOT_READY and
may retry. Parameter errors return 400 with VALIDATION_ERROR,
INVALID_USER_ID or INVALID_METHOD. Other engine errors return 500
RECOMMENDATION_ERROR.

All JSON responses use the models.APIResponse envelope and are encoded with
goccy/go-json.
*/
package api
