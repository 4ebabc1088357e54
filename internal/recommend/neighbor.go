// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// neighbor pairs a user with their cosine similarity to the target user.
type neighbor struct {
	userID     int
	similarity float64
}

// neighborScore recommends movies rated highly by the users most similar
// to the target user. Similarity is cosine over zero-filled rating rows:
// only co-rated movies contribute to the dot product while each user's
// norm covers all of their own ratings. The same movie proposed by
// several neighbors produces several candidate entries; the blender
// collapses them by movie ID keeping the highest score.
func (e *Engine) neighborScore(ctx context.Context, userID, n int, candidates []int) ([]Recommendation, error) {
	all, err := e.store.GetAllRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("neighbor: load rating set: %w", err)
	}
	if len(all) < e.cfg.MinSystemRatings {
		return e.fallbackScore(ctx, userID, n, candidates, SourceCollaborative)
	}

	rows := make(map[int]map[int]int)
	for _, r := range all {
		row, ok := rows[r.UserID]
		if !ok {
			row = make(map[int]int)
			rows[r.UserID] = row
		}
		row[r.MovieID] = r.Value
	}

	target, ok := rows[userID]
	if !ok {
		return e.fallbackScore(ctx, userID, n, candidates, SourceCollaborative)
	}

	var targetNorm float64
	for _, v := range target {
		targetNorm += float64(v) * float64(v)
	}
	targetNorm = math.Sqrt(targetNorm)

	neighbors := make([]neighbor, 0, len(rows)-1)
	for uid, row := range rows {
		if uid == userID {
			continue
		}
		var dot, norm float64
		for mid, v := range row {
			norm += float64(v) * float64(v)
			if tv, rated := target[mid]; rated {
				dot += float64(v) * float64(tv)
			}
		}
		if dot == 0 || norm == 0 || targetNorm == 0 {
			continue
		}
		sim := dot / (targetNorm * math.Sqrt(norm))
		if sim < e.cfg.MinNeighborSimilarity {
			continue
		}
		neighbors = append(neighbors, neighbor{userID: uid, similarity: sim})
	}
	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].similarity != neighbors[b].similarity {
			return neighbors[a].similarity > neighbors[b].similarity
		}
		return neighbors[a].userID < neighbors[b].userID
	})
	if len(neighbors) > e.cfg.NeighborCount {
		neighbors = neighbors[:e.cfg.NeighborCount]
	}

	allowed := map[int]bool(nil)
	if len(candidates) > 0 {
		allowed = make(map[int]bool, len(candidates))
		for _, id := range candidates {
			allowed[id] = true
		}
	}

	recs := make([]Recommendation, 0, n)
	for _, nb := range neighbors {
		row := rows[nb.userID]
		movieIDs := make([]int, 0, len(row))
		for mid := range row {
			movieIDs = append(movieIDs, mid)
		}
		sort.Ints(movieIDs)
		for _, mid := range movieIDs {
			v := row[mid]
			if v < e.cfg.NeighborRatingFloor {
				continue
			}
			if _, rated := target[mid]; rated {
				continue
			}
			if allowed != nil && !allowed[mid] {
				continue
			}
			recs = append(recs, Recommendation{
				MovieID: mid,
				Score:   2.0 + 2.0*(nb.similarity*float64(v)/5.0),
				Source:  SourceCollaborative,
			})
		}
	}

	sortByScore(recs)
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}
