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
	"strings"
)

// contentScore ranks unrated catalog movies by the cosine similarity of
// their TF-IDF text vectors to a profile built from the movies the user
// rated at or above the liked threshold.
func (e *Engine) contentScore(ctx context.Context, userID, n int, catalog []Movie) ([]Recommendation, error) {
	rated, err := e.store.GetUserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("content: load ratings for user %d: %w", userID, err)
	}
	if len(rated) == 0 {
		return nil, nil
	}

	likedSet := make(map[int]bool, len(rated))
	for id, v := range rated {
		if v >= e.cfg.LikedThreshold {
			likedSet[id] = true
		}
	}
	if len(likedSet) == 0 {
		return nil, nil
	}

	docs := make([]string, len(catalog))
	index := make(map[int]int, len(catalog))
	for i, m := range catalog {
		docs[i] = movieDocument(m)
		index[m.ID] = i
	}

	// None of the liked movies are in the catalog: no text signal to
	// build a profile from, so fall back to the ID heuristic.
	likedPresent := make([]int, 0, len(likedSet))
	for id := range likedSet {
		if _, ok := index[id]; ok {
			likedPresent = append(likedPresent, id)
		}
	}
	if len(likedPresent) == 0 {
		candidates := make([]int, 0, len(catalog))
		for _, m := range catalog {
			candidates = append(candidates, m.ID)
		}
		return e.fallbackScore(ctx, userID, n, candidates, SourceContent)
	}

	vz := newVectorizer(e.cfg.MaxVocabulary)
	vecs := vz.fit(docs)

	// The profile is the L2-normalized mean of the liked vectors. All
	// floating-point accumulation runs in sorted order so consecutive
	// calls produce identical scores and identical ordering.
	sort.Ints(likedPresent)
	profile := make(sparseVec)
	for _, id := range likedPresent {
		for idx, w := range vecs[index[id]] {
			profile[idx] += w
		}
	}
	idxs := make([]int, 0, len(profile))
	for idx := range profile {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	inv := 1.0 / float64(len(likedPresent))
	var norm float64
	for _, idx := range idxs {
		profile[idx] *= inv
		norm += profile[idx] * profile[idx]
	}
	if norm > 0 {
		norm = 1.0 / math.Sqrt(norm)
		for _, idx := range idxs {
			profile[idx] *= norm
		}
	}

	recs := make([]Recommendation, 0, len(catalog))
	for i, m := range catalog {
		if _, ok := rated[m.ID]; ok {
			continue
		}
		sim := profile.dot(vecs[i])
		recs = append(recs, Recommendation{
			MovieID: m.ID,
			Score:   2.0 + 2.0*sim,
			Source:  SourceContent,
		})
	}

	sortByScore(recs)
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}

// movieDocument joins a movie's text fields into a single document. A
// movie with no text at all still gets a placeholder so every catalog
// entry has a non-empty representation.
func movieDocument(m Movie) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{m.Title, m.Overview, m.Genre} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("movie %d", m.ID)
	}
	return strings.Join(parts, " ")
}
