// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package recommend

import "fmt"

// BlendMode selects how the blender merges the two strategies' output.
type BlendMode string

const (
	// BlendPriority is the default merge: content recommendations fill a
	// 60% quota first, collaborative ones fill the remainder, and the
	// output preserves that priority order.
	BlendPriority BlendMode = "priority"

	// BlendWeighted merges per-item with a 0.6/0.4 content/collaborative
	// weighting and re-sorts by the combined score, tagging results as
	// hybrid.
	BlendWeighted BlendMode = "weighted"
)

// Config holds all tunables for the engine and its scorers.
type Config struct {
	// ContentQuota is the fraction of the requested n reserved for the
	// content strategy in priority blend mode.
	ContentQuota float64 `koanf:"content_quota"`

	// LikedThreshold is the minimum rating for a movie to contribute to
	// the content scorer's user profile.
	LikedThreshold int `koanf:"liked_threshold"`

	// FallbackLikedThreshold is the minimum rating for a movie to anchor
	// the fallback scorer's ID-proximity search.
	FallbackLikedThreshold int `koanf:"fallback_liked_threshold"`

	// NeighborCount is how many similar users the neighbor scorer
	// considers.
	NeighborCount int `koanf:"neighbor_count"`

	// MinNeighborSimilarity discards neighbors below this cosine
	// similarity.
	MinNeighborSimilarity float64 `koanf:"min_neighbor_similarity"`

	// MinSystemRatings is the system-wide rating count below which the
	// neighbor scorer delegates to the fallback.
	MinSystemRatings int `koanf:"min_system_ratings"`

	// NeighborRatingFloor is the minimum rating a neighbor must have
	// given an item for it to become a candidate.
	NeighborRatingFloor int `koanf:"neighbor_rating_floor"`

	// MaxVocabulary caps the TF-IDF vocabulary at the most frequent terms.
	MaxVocabulary int `koanf:"max_vocabulary"`

	// IDWindow is the fallback's maximum movie-ID distance for the
	// proximity heuristic.
	IDWindow int `koanf:"id_window"`

	// PerLikedCandidates is how many proximity candidates the fallback
	// draws per liked movie.
	PerLikedCandidates int `koanf:"per_liked_candidates"`

	// SyntheticPoolMax bounds the synthetic ID pool used by the fallback
	// when no explicit candidate set is supplied.
	SyntheticPoolMax int `koanf:"synthetic_pool_max"`

	// Mode selects the blend policy.
	Mode BlendMode `koanf:"blend_mode"`

	// ContentWeight and CollabWeight apply only in weighted blend mode.
	ContentWeight float64 `koanf:"content_weight"`
	CollabWeight  float64 `koanf:"collab_weight"`

	// Seed initializes the fallback's random source for reproducible
	// fill behavior. Zero means the default seed.
	Seed int64 `koanf:"seed"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		ContentQuota:           0.6,
		LikedThreshold:         3,
		FallbackLikedThreshold: 4,
		NeighborCount:          5,
		MinNeighborSimilarity:  0.01,
		MinSystemRatings:       3,
		NeighborRatingFloor:    2,
		MaxVocabulary:          1000,
		IDWindow:               50,
		PerLikedCandidates:     3,
		SyntheticPoolMax:       9999,
		Mode:                   BlendPriority,
		ContentWeight:          0.6,
		CollabWeight:           0.4,
		Seed:                   42,
	}
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	if c.ContentQuota < 0 || c.ContentQuota > 1 {
		return fmt.Errorf("content_quota must be in [0,1], got %f", c.ContentQuota)
	}
	if c.LikedThreshold < 1 || c.LikedThreshold > 5 {
		return fmt.Errorf("liked_threshold must be in [1,5], got %d", c.LikedThreshold)
	}
	if c.FallbackLikedThreshold < 1 || c.FallbackLikedThreshold > 5 {
		return fmt.Errorf("fallback_liked_threshold must be in [1,5], got %d", c.FallbackLikedThreshold)
	}
	if c.NeighborCount <= 0 {
		return fmt.Errorf("neighbor_count must be positive, got %d", c.NeighborCount)
	}
	if c.MinSystemRatings < 0 {
		return fmt.Errorf("min_system_ratings must be non-negative, got %d", c.MinSystemRatings)
	}
	if c.MaxVocabulary <= 0 {
		return fmt.Errorf("max_vocabulary must be positive, got %d", c.MaxVocabulary)
	}
	if c.IDWindow <= 0 {
		return fmt.Errorf("id_window must be positive, got %d", c.IDWindow)
	}
	switch c.Mode {
	case BlendPriority, BlendWeighted, "":
	default:
		return fmt.Errorf("unknown blend_mode %q", c.Mode)
	}
	if c.Mode == BlendWeighted && c.ContentWeight+c.CollabWeight <= 0 {
		return fmt.Errorf("weighted blend requires positive weights")
	}
	return nil
}
