// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package recommend

import (
	"context"
	"fmt"
	"sort"
)

// fallbackScore recommends by movie-ID proximity to the user's favorite
// movies. It is a cheap stand-in used when neither text nor neighbor
// signal is available, and it guarantees the engine always has something
// to return under cold-start conditions.
func (e *Engine) fallbackScore(ctx context.Context, userID, n int, candidates []int, tag Source) ([]Recommendation, error) {
	rated, err := e.store.GetUserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fallback: load ratings for user %d: %w", userID, err)
	}
	if len(rated) == 0 {
		return nil, nil
	}

	if len(candidates) == 0 {
		candidates = make([]int, 0, e.cfg.SyntheticPoolMax)
		for id := 1; id <= e.cfg.SyntheticPoolMax; id++ {
			candidates = append(candidates, id)
		}
	}

	pool := make([]int, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := rated[id]; !ok {
			pool = append(pool, id)
		}
	}
	sort.Ints(pool)

	liked := make([]int, 0, len(rated))
	for id, v := range rated {
		if v >= e.cfg.FallbackLikedThreshold {
			liked = append(liked, id)
		}
	}
	sort.Ints(liked)

	recs := make([]Recommendation, 0, n)
	used := make(map[int]bool, n)
	for _, likedID := range liked {
		found := 0
		for _, id := range pool {
			if found >= e.cfg.PerLikedCandidates {
				break
			}
			if used[id] {
				continue
			}
			dist := id - likedID
			if dist < 0 {
				dist = -dist
			}
			if dist > e.cfg.IDWindow {
				continue
			}
			raw := (1.0-float64(dist)/1000.0)*0.7 + float64(rated[likedID])/5.0*0.3
			recs = append(recs, Recommendation{
				MovieID: id,
				Score:   clamp(raw*4.0, 2.0, 4.0),
				Source:  tag,
			})
			used[id] = true
			found++
		}
	}

	// Pad with random unrated picks when proximity alone falls short.
	if len(recs) < n {
		remaining := make([]int, 0, len(pool))
		for _, id := range pool {
			if !used[id] {
				remaining = append(remaining, id)
			}
		}
		e.mu.Lock()
		for len(recs) < n && len(remaining) > 0 {
			i := e.rng.Intn(len(remaining))
			id := remaining[i]
			remaining[i] = remaining[len(remaining)-1]
			remaining = remaining[:len(remaining)-1]
			recs = append(recs, Recommendation{
				MovieID: id,
				Score:   2.0 + e.rng.Float64()*1.5,
				Source:  tag,
			})
		}
		e.mu.Unlock()
	}

	sortByScore(recs)
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sortByScore orders descending by score, ties broken by ascending
// movie ID so equal-scored output is stable across calls.
func sortByScore(recs []Recommendation) {
	sort.Slice(recs, func(a, b int) bool {
		if recs[a].Score != recs[b].Score {
			return recs[a].Score > recs[b].Score
		}
		return recs[a].MovieID < recs[b].MovieID
	})
}
