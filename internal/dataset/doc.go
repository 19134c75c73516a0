// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

// Package dataset loads the static news dataset into a recommend.Snapshot.
//
// The dataset directory holds three kinds of files:
//
//   - clicks/clicks_hour_*.csv: the click log, one file per hour, with the
//     columns user_id, click_article_id and click_timestamp (epoch ms)
//   - articles_metadata.csv: the catalog with article_id, category_id,
//     created_at_ts (epoch ms) and words_count
//   - articles_embeddings_pca_100D.npy or articles_embeddings.npy: a 2-D
//     float32/float64 NumPy array with one row per article id
//
// CSV files are parsed by an in-memory DuckDB instance using read_csv.
// Click files are sorted lexicographically and only the first
// Config.MaxClickFiles are read. Rows keep file order, which the
// collaborative engine relies on for its first-appearance indexing.
//
// # Usage
//
//	loader := dataset.NewLoader(dataset.Config{Dir: "data"})
//	snap, err := loader.Load(ctx)
//	if err != nil {
//	    return fmt.Errorf("load dataset: %w", err)
//	}
package dataset
