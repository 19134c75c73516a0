// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

/*
Package models defines the HTTP response structures of the Newsrec API.

Every endpoint answers with the APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "2026-01-05T12:00:00Z", "query_time_ms": 3}
	}

Error responses carry status "error" and an APIError with a machine-readable
code (VALIDATION_ERROR, INVALID_USER_ID, INVALID_METHOD, MODELS_NOT_READY,
RECOMMENDATION_ERROR).

The payload types flatten engine results into the public field names:
article_id, score / popularity_score, category_id and words_count.
*/
package models
