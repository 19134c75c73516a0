// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

// Package algorithms implements the recommendation strategies served by the engine.
//
// Each strategy implements the recommend.Algorithm interface. It is trained
// once from a recommend.Snapshot and is read-only afterwards, so a trained
// algorithm can be queried concurrently.
//
// # Strategies
//
//   - Popularity: age-normalized click reach with a novelty boost. Also the
//     shared cold-start fallback of the two personalized strategies.
//   - ContentBased: cosine similarity between an article embedding and the
//     mean embedding of the user's reading history, with optional PCA.
//   - Collaborative: cosine similarity between latent user and article
//     factors from a randomized truncated SVD of the click-count matrix.
//
// # Cold Start
//
// ContentBased falls back when a user has fewer than MinHistory distinct
// articles or none of them has an embedding; read articles stay excluded.
// Collaborative falls back when the user is absent from the training log;
// the fallback then ranks the full catalog. Both report the fallback through
// the boolean returned by Recommend.
//
// # Usage
//
//	popular := algorithms.NewPopularity(algorithms.PopularityConfig{})
//	content := algorithms.NewContentBased(algorithms.ContentBasedConfig{MinHistory: 3}, popular)
//
//	if err := popular.Train(ctx, snap); err != nil {
//	    return err
//	}
//	if err := content.Train(ctx, snap); err != nil {
//	    return err
//	}
//	results, coldStart := content.Recommend(userID, 5)
//
// # Ordering
//
// Results are sorted by score descending. Equal scores are ordered by
// ascending article ID so identical inputs always produce identical output.
package algorithms
