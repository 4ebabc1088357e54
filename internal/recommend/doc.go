// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

// Package recommend implements the hybrid recommendation engine.
//
// # Architecture
//
// Two independent scoring strategies feed a deterministic blender:
//
//   - Content scorer: TF-IDF vectors over movie title/overview/genre text,
//     cosine similarity against a profile built from the user's liked movies.
//   - Neighbor scorer: user-based collaborative filtering over the full
//     rating matrix, scoring candidates by the ratings of the five most
//     similar users.
//
// Either strategy degrades to a cheap ID-proximity fallback scorer when the
// rating data is too sparse for a meaningful model, so the engine always
// returns something for a user who has rated at least one movie.
//
// # Design Principles
//
//   - Stateless: every call rebuilds its vector space and rating matrix
//     from the current rating set; there is no cached model to invalidate.
//   - Deterministic: similarity ranking breaks ties by ascending movie ID,
//     and the fallback's random fill draws from an injected seeded source.
//   - Pure with respect to inputs: the catalog is an explicit argument to
//     every call, never process-global state.
//   - Never raises for sparsity: a user with no usable signal gets an empty
//     list, not an error. Unexpected internal failures are logged, counted,
//     and converted to an empty result at the blender boundary.
//
// # Usage
//
//	engine := recommend.NewEngine(store, recommend.DefaultConfig(), logger)
//	recs := engine.Recommend(ctx, userID, 12, catalog.Movies())
//
// # Thread Safety
//
// The engine only reads shared storage and holds no mutable model state, so
// concurrent calls for different users are safe. The fallback's random
// source is the one shared resource and is guarded by a mutex.
package recommend
