// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package recommend

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"
)

// Engine produces ranked movie recommendations by blending a content
// strategy and a collaborative strategy, falling back to an ID-proximity
// heuristic when either lacks signal. It holds no model state between
// calls; every invocation rebuilds its vectors and rating matrix from
// the current store contents.
type Engine struct {
	store RatingStore
	cfg   Config
	log   zerolog.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewEngine builds an engine around the given rating store. The config
// should come from DefaultConfig, possibly adjusted; a zero Seed uses
// the default seed so fallback fill order stays reproducible.
func NewEngine(store RatingStore, cfg Config, log zerolog.Logger) *Engine {
	if cfg.Seed == 0 {
		cfg.Seed = DefaultConfig().Seed
	}
	return &Engine{
		store: store,
		cfg:   cfg,
		log:   log,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Recommend returns up to n enriched recommendations for the user drawn
// from the given catalog. Insufficient data is never an error: a user
// with no ratings, an empty candidate pool, or a failure in either
// strategy all degrade to a shorter (possibly empty) list. Failures are
// logged and otherwise swallowed.
func (e *Engine) Recommend(ctx context.Context, userID, n int, catalog []Movie) []EnrichedRecommendation {
	if n <= 0 || len(catalog) == 0 {
		return nil
	}

	rated, err := e.store.GetUserRatings(ctx, userID)
	if err != nil {
		e.log.Error().Err(err).Int("user_id", userID).Msg("recommend: loading user ratings failed")
		return nil
	}

	byID := make(map[int]Movie, len(catalog))
	pool := make([]int, 0, len(catalog))
	for _, m := range catalog {
		byID[m.ID] = m
		if _, ok := rated[m.ID]; !ok {
			pool = append(pool, m.ID)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	content, err := e.contentScore(ctx, userID, n, catalog)
	if err != nil {
		e.log.Warn().Err(err).Int("user_id", userID).Msg("recommend: content strategy failed")
		content = nil
	}
	collab, err := e.neighborScore(ctx, userID, n, pool)
	if err != nil {
		e.log.Warn().Err(err).Int("user_id", userID).Msg("recommend: collaborative strategy failed")
		collab = nil
	}

	var merged []Recommendation
	if e.cfg.Mode == BlendWeighted {
		merged = e.blendWeighted(content, collab, n)
	} else {
		merged = e.blendPriority(content, collab, n)
	}

	// Ratings written while the strategies ran must still be excluded.
	rated, err = e.store.GetUserRatings(ctx, userID)
	if err != nil {
		e.log.Error().Err(err).Int("user_id", userID).Msg("recommend: re-checking user ratings failed")
		return nil
	}

	out := make([]EnrichedRecommendation, 0, len(merged))
	for _, rec := range merged {
		if _, ok := rated[rec.MovieID]; ok {
			continue
		}
		m, ok := byID[rec.MovieID]
		if !ok {
			continue
		}
		out = append(out, EnrichedRecommendation{
			Movie:  m,
			Score:  rec.Score,
			Source: rec.Source,
		})
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// blendPriority fills a content quota of floor(ContentQuota*n) first,
// tops up from collaborative results, and offers leftover content
// entries any slots collaborative could not fill. Order is preserved
// across the merge; duplicates collapse onto their first position,
// keeping the highest score seen for that movie.
func (e *Engine) blendPriority(content, collab []Recommendation, n int) []Recommendation {
	quota := int(math.Floor(e.cfg.ContentQuota * float64(n)))
	if quota > len(content) {
		quota = len(content)
	}

	merged := make([]Recommendation, 0, n)
	seen := make(map[int]int, n)
	add := func(rec Recommendation) {
		if i, ok := seen[rec.MovieID]; ok {
			if rec.Score > merged[i].Score {
				merged[i].Score = rec.Score
			}
			return
		}
		seen[rec.MovieID] = len(merged)
		merged = append(merged, rec)
	}

	for _, rec := range content[:quota] {
		add(rec)
	}
	for _, rec := range collab {
		if len(merged) >= n {
			break
		}
		add(rec)
	}
	for _, rec := range content[quota:] {
		if len(merged) >= n {
			break
		}
		add(rec)
	}
	return merged
}

// blendWeighted combines the two strategies per movie: a movie proposed
// by both gets ContentWeight*contentScore + CollabWeight*collabScore and
// the hybrid tag, a movie proposed by one keeps its own score and tag.
// The result is re-sorted by combined score.
func (e *Engine) blendWeighted(content, collab []Recommendation, n int) []Recommendation {
	best := make(map[int]Recommendation, len(content)+len(collab))
	for _, rec := range collab {
		if cur, ok := best[rec.MovieID]; !ok || rec.Score > cur.Score {
			best[rec.MovieID] = rec
		}
	}

	merged := make([]Recommendation, 0, len(content)+len(best))
	for _, rec := range content {
		if other, ok := best[rec.MovieID]; ok {
			rec.Score = e.cfg.ContentWeight*rec.Score + e.cfg.CollabWeight*other.Score
			rec.Source = SourceHybrid
			delete(best, rec.MovieID)
		}
		merged = append(merged, rec)
	}
	for _, rec := range best {
		merged = append(merged, rec)
	}

	sortByScore(merged)
	if len(merged) > n {
		merged = merged[:n]
	}
	return merged
}
