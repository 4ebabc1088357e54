// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
catalog.go - In-Memory Movie Catalog

The service keeps the full movie table in memory and persists it as a
JSON cache file between runs. On startup it loads the cache if present,
otherwise it pulls popular movie pages from TMDb, deduplicates by ID and
by title, sorts by ID, and caps the table at MaxMovies entries. With no
API key and no cache it synthesizes a deterministic sample catalog so
the rest of the system still has data to work with.
*/

package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/logging"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
)

// MaxMovies caps the catalog size.
const MaxMovies = 1000

// DefaultPages is how many popular-movie pages are fetched on a cold
// start; 50 pages of 20 movies fills the catalog cap.
const DefaultPages = 50

// catalogSeed makes the synthetic sample catalog reproducible.
const catalogSeed = 42

// Fetcher supplies pages of popular movies. *TMDB satisfies it; tests
// substitute a stub.
type Fetcher interface {
	PopularMovies(ctx context.Context, page int) ([]recommend.Movie, error)
}

// Service holds the in-memory catalog and its disk cache.
type Service struct {
	fetcher   Fetcher
	cachePath string
	pages     int

	mu     sync.RWMutex
	movies []recommend.Movie
	byID   map[int]recommend.Movie
}

// New builds a catalog service. cachePath may be empty to disable the
// disk cache; pages <= 0 uses DefaultPages.
func New(fetcher Fetcher, cachePath string, pages int) *Service {
	if pages <= 0 {
		pages = DefaultPages
	}
	return &Service{
		fetcher:   fetcher,
		cachePath: cachePath,
		pages:     pages,
		byID:      make(map[int]recommend.Movie),
	}
}

// Load populates the catalog: disk cache first, then TMDb, then the
// synthetic sample set. It never fails outright; the catalog is always
// non-empty afterwards.
func (s *Service) Load(ctx context.Context) error {
	if movies, err := s.loadCache(); err == nil && len(movies) > 0 {
		s.replace(movies)
		logging.Info().Int("movies", len(movies)).Msg("Catalog loaded from cache")
		return nil
	}

	var fetched []recommend.Movie
	for page := 1; page <= s.pages; page++ {
		movies, err := s.fetcher.PopularMovies(ctx, page)
		if err != nil {
			logging.Warn().Err(err).Int("page", page).Msg("Fetching popular movies failed")
			break
		}
		if len(movies) == 0 {
			break
		}
		fetched = append(fetched, movies...)
	}

	if len(fetched) == 0 {
		fetched = sampleCatalog()
		logging.Warn().Int("movies", len(fetched)).Msg("Catalog built from synthetic sample data")
	}

	s.replace(normalize(fetched))
	if err := s.saveCache(); err != nil {
		logging.Warn().Err(err).Msg("Writing catalog cache failed")
	}
	logging.Info().Int("movies", s.Len()).Msg("Catalog loaded")
	return nil
}

// normalize deduplicates by movie ID then by title, sorts ascending by
// ID, and applies the size cap.
func normalize(movies []recommend.Movie) []recommend.Movie {
	seenID := make(map[int]bool, len(movies))
	seenTitle := make(map[string]bool, len(movies))
	out := make([]recommend.Movie, 0, len(movies))
	for _, m := range movies {
		if seenID[m.ID] || seenTitle[m.Title] {
			continue
		}
		seenID[m.ID] = true
		seenTitle[m.Title] = true
		out = append(out, m)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	if len(out) > MaxMovies {
		out = out[:MaxMovies]
	}
	return out
}

func (s *Service) replace(movies []recommend.Movie) {
	byID := make(map[int]recommend.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	s.mu.Lock()
	s.movies = movies
	s.byID = byID
	s.mu.Unlock()
}

// Movies returns a copy of the full catalog.
func (s *Service) Movies() []recommend.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]recommend.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// Get looks up one movie by ID.
func (s *Service) Get(id int) (recommend.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	return m, ok
}

// Len returns the catalog size.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// Sample returns up to n movies drawn pseudo-randomly from the catalog
// using the provided random source, for variety on browse pages.
func (s *Service) Sample(n int, rng *rand.Rand) []recommend.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n >= len(s.movies) {
		out := make([]recommend.Movie, len(s.movies))
		copy(out, s.movies)
		return out
	}
	picks := rng.Perm(len(s.movies))[:n]
	out := make([]recommend.Movie, 0, n)
	for _, i := range picks {
		out = append(out, s.movies[i])
	}
	return out
}

// Add inserts a movie discovered outside the popular list (e.g. via the
// details endpoint) so later scoring calls can see it. Existing IDs are
// left untouched. The cache file is rewritten best-effort.
func (s *Service) Add(movie recommend.Movie) {
	s.mu.Lock()
	if _, ok := s.byID[movie.ID]; ok {
		s.mu.Unlock()
		return
	}
	s.movies = append(s.movies, movie)
	s.byID[movie.ID] = movie
	s.mu.Unlock()

	if err := s.saveCache(); err != nil {
		logging.Warn().Err(err).Msg("Writing catalog cache failed")
	}
}

func (s *Service) loadCache() ([]recommend.Movie, error) {
	if s.cachePath == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return nil, err
	}
	var movies []recommend.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("decode catalog cache: %w", err)
	}
	return movies, nil
}

func (s *Service) saveCache() error {
	if s.cachePath == "" {
		return nil
	}
	data, err := json.Marshal(s.Movies())
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	dir := filepath.Dir(s.cachePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}
	tmp := s.cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write catalog cache: %w", err)
	}
	return os.Rename(tmp, s.cachePath)
}

// sampleCatalog generates a deterministic synthetic catalog of MaxMovies
// entries for development without TMDb access. The curated SampleMovies
// titles head the list; the rest is generated from a fixed seed.
func sampleCatalog() []recommend.Movie {
	rng := rand.New(rand.NewSource(catalogSeed))
	genres := []string{
		"Action", "Drama", "Comedy", "Sci-Fi", "Thriller",
		"Romance", "Horror", "Adventure", "Fantasy", "Mystery",
	}
	movies := SampleMovies()
	for i := len(movies) + 1; i <= MaxMovies; i++ {
		movies = append(movies, recommend.Movie{
			ID:          i,
			Title:       fmt.Sprintf("Sample Movie %d", i),
			Overview:    fmt.Sprintf("This is a sample movie overview for movie %d.", i),
			Genre:       genres[(i-1)%len(genres)],
			VoteAverage: 5.0 + rng.Float64()*4.0,
			ReleaseDate: fmt.Sprintf("%d-%02d-%02d", 2010+rng.Intn(14), 1+rng.Intn(12), 1+rng.Intn(28)),
		})
	}
	return movies
}

// samplePage returns one 20-movie page of the synthetic catalog, mirroring
// TMDb's popular-list page size so offline loads fill the catalog the same
// way online loads do. Pages past the end are empty.
func samplePage(page int) []recommend.Movie {
	const pageSize = 20
	all := sampleCatalog()
	start := (page - 1) * pageSize
	if page < 1 || start >= len(all) {
		return nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
