// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

// Package recommend implements the news article recommendation engine.
//
// # Architecture
//
// The engine serves three interchangeable strategies, implemented in the
// algorithms subpackage:
//
//   - content: embedding similarity to the user's reading profile
//   - collaborative: latent-factor similarity from a truncated SVD
//   - popularity: age-normalized click reach with a novelty boost
//
// The personalized strategies hold a reference to the shared popularity
// scorer and fall back to it for cold-start users. Every strategy returns
// the same Result record and the engine reports whether a fallback was used.
//
// # Lifecycle
//
// Models are built once from a static Snapshot and are read-only afterwards.
// Resource guards the build: the first caller starts it, concurrent callers
// wait for the same build, and a failed build leaves nothing behind so the
// next caller can retry.
//
//	res := recommend.NewResource(func(ctx context.Context) (*recommend.Engine, error) {
//	    snap, err := loader.Load(ctx)
//	    if err != nil {
//	        return nil, err
//	    }
//	    engine, err := recommend.NewEngine(cfg, logger)
//	    if err != nil {
//	        return nil, err
//	    }
//	    // register algorithms ...
//	    return engine, engine.Build(ctx, snap)
//	}, cfg.Build, logger)
//
//	engine, err := res.EnsureReady(ctx)
//	if errors.Is(err, recommend.ErrNotReady) {
//	    // ask the client to retry
//	}
//	rec, err := engine.Recommend(ctx, recommend.StrategyContent, userID, 5)
//
// # Thread Safety
//
// Engine and Resource are safe for concurrent use. Recommendation results
// may be cached; cached Results slices are shared and must not be modified.
package recommend
