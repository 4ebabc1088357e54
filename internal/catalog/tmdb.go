// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
tmdb.go - The Movie Database API Client

Wraps the TMDb v3 REST API behind a circuit breaker so a flapping
upstream degrades to cached or sample data instead of hammering the API
on every request. All responses are decoded with goccy/go-json.
*/

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/logging"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
)

// TMDBConfig configures the API client.
type TMDBConfig struct {
	APIKey       string        `koanf:"api_key"`
	BaseURL      string        `koanf:"base_url"`
	ImageBaseURL string        `koanf:"image_base_url"`
	Timeout      time.Duration `koanf:"timeout"`
}

// DefaultTMDBConfig returns production endpoint defaults. Posters use
// the w500 rendition.
func DefaultTMDBConfig() TMDBConfig {
	return TMDBConfig{
		BaseURL:      "https://api.themoviedb.org/3",
		ImageBaseURL: "https://image.tmdb.org/t/p/w500",
		Timeout:      10 * time.Second,
	}
}

// TMDB is a client for The Movie Database API. A zero API key puts the
// client in offline mode: every call serves sample data.
type TMDB struct {
	cfg     TMDBConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]

	genreMu sync.Mutex
	genres  map[int]string
}

// NewTMDB builds a client from config, applying endpoint defaults for
// empty fields.
func NewTMDB(cfg TMDBConfig) *TMDB {
	def := DefaultTMDBConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = def.ImageBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.APIKey == "" {
		logging.Warn().Msg("No TMDb API key configured, serving sample catalog data")
	}

	settings := gobreaker.Settings{
		Name:    "tmdb",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}
	return &TMDB{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// Offline reports whether the client has no API key and serves only
// sample data.
func (t *TMDB) Offline() bool {
	return t.cfg.APIKey == ""
}

func (t *TMDB) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if t.Offline() {
		return nil, fmt.Errorf("tmdb: no API key configured")
	}
	query.Set("api_key", t.cfg.APIKey)
	query.Set("language", "en-US")
	endpoint := t.cfg.BaseURL + path + "?" + query.Encode()

	return t.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("tmdb: build request: %w", err)
		}
		resp, err := t.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("tmdb: %s: %w", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("tmdb: %s: unexpected status %d", path, resp.StatusCode)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, fmt.Errorf("tmdb: read response: %w", err)
		}
		return body, nil
	})
}

// tmdbMovie is the wire shape of a movie in TMDb list responses.
type tmdbMovie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	GenreIDs     []int   `json:"genre_ids"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
}

type tmdbMovieList struct {
	Results []tmdbMovie `json:"results"`
}

// PopularMovies fetches one page of TMDb's popular movie list. In
// offline mode it pages through the synthetic sample catalog instead.
func (t *TMDB) PopularMovies(ctx context.Context, page int) ([]recommend.Movie, error) {
	if t.Offline() {
		return samplePage(page), nil
	}
	query := url.Values{}
	query.Set("page", fmt.Sprint(page))
	body, err := t.get(ctx, "/movie/popular", query)
	if err != nil {
		return nil, err
	}
	var list tmdbMovieList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("tmdb: decode popular movies: %w", err)
	}
	return t.toMovies(ctx, list.Results), nil
}

// SearchMovies queries TMDb by title. Offline mode returns no results.
func (t *TMDB) SearchMovies(ctx context.Context, titleQuery string) ([]recommend.Movie, error) {
	if t.Offline() {
		return nil, nil
	}
	query := url.Values{}
	query.Set("query", titleQuery)
	body, err := t.get(ctx, "/search/movie", query)
	if err != nil {
		return nil, err
	}
	var list tmdbMovieList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("tmdb: decode search results: %w", err)
	}
	return t.toMovies(ctx, list.Results), nil
}

// MovieDetails fetches a single movie by TMDb ID.
func (t *TMDB) MovieDetails(ctx context.Context, movieID int) (*recommend.Movie, error) {
	if t.Offline() {
		return nil, fmt.Errorf("tmdb: no API key configured")
	}
	body, err := t.get(ctx, fmt.Sprintf("/movie/%d", movieID), url.Values{})
	if err != nil {
		return nil, err
	}
	var detail struct {
		tmdbMovie
		Genres []struct {
			Name string `json:"name"`
		} `json:"genres"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("tmdb: decode movie details: %w", err)
	}
	names := make([]string, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return &recommend.Movie{
		ID:          detail.ID,
		Title:       detail.Title,
		Overview:    detail.Overview,
		Genre:       strings.Join(names, ", "),
		PosterURL:   t.PosterURL(detail.PosterPath),
		BackdropURL: t.BackdropURL(detail.BackdropPath),
		VoteAverage: detail.VoteAverage,
		ReleaseDate: detail.ReleaseDate,
	}, nil
}

// Genres returns the TMDb genre ID to name mapping, fetched once and
// cached for the client's lifetime. Failures fall back to the built-in
// sample mapping.
func (t *TMDB) Genres(ctx context.Context) map[int]string {
	t.genreMu.Lock()
	defer t.genreMu.Unlock()
	if t.genres != nil {
		return t.genres
	}
	if t.Offline() {
		t.genres = sampleGenres()
		return t.genres
	}

	body, err := t.get(ctx, "/genre/movie/list", url.Values{})
	if err != nil {
		logging.Warn().Err(err).Msg("Fetching genre list failed, using sample genres")
		return sampleGenres() // not cached so a later call can retry
	}
	var payload struct {
		Genres []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"genres"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		logging.Warn().Err(err).Msg("Decoding genre list failed, using sample genres")
		return sampleGenres()
	}
	genres := make(map[int]string, len(payload.Genres))
	for _, g := range payload.Genres {
		genres[g.ID] = g.Name
	}
	t.genres = genres
	return t.genres
}

// PosterURL resolves a TMDb poster path to a full image URL. An empty
// path yields an empty URL.
func (t *TMDB) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return t.cfg.ImageBaseURL + path
}

// BackdropURL resolves a TMDb backdrop path to a full image URL.
func (t *TMDB) BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return t.cfg.ImageBaseURL + path
}

func (t *TMDB) toMovies(ctx context.Context, results []tmdbMovie) []recommend.Movie {
	genres := t.Genres(ctx)
	movies := make([]recommend.Movie, 0, len(results))
	for _, m := range results {
		names := make([]string, 0, len(m.GenreIDs))
		for _, id := range m.GenreIDs {
			if name, ok := genres[id]; ok {
				names = append(names, name)
			}
		}
		movies = append(movies, recommend.Movie{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			Genre:       strings.Join(names, ", "),
			PosterURL:   t.PosterURL(m.PosterPath),
			BackdropURL: t.BackdropURL(m.BackdropPath),
			VoteAverage: m.VoteAverage,
			ReleaseDate: m.ReleaseDate,
		})
	}
	return movies
}

func sampleGenres() map[int]string {
	return map[int]string{
		28:    "Action",
		12:    "Adventure",
		16:    "Animation",
		35:    "Comedy",
		80:    "Crime",
		99:    "Documentary",
		18:    "Drama",
		10751: "Family",
		14:    "Fantasy",
		36:    "History",
		27:    "Horror",
		10402: "Music",
		9648:  "Mystery",
		10749: "Romance",
		878:   "Science Fiction",
		10770: "TV Movie",
		53:    "Thriller",
		10752: "War",
		37:    "Western",
	}
}

// SampleMovies is the curated head of the synthetic sample catalog,
// served when TMDb is unavailable and no cache exists.
func SampleMovies() []recommend.Movie {
	return []recommend.Movie{
		{
			ID:          1,
			Title:       "The Shawshank Redemption",
			Overview:    "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
			Genre:       "Drama",
			VoteAverage: 9.3,
			ReleaseDate: "1994-09-22",
		},
		{
			ID:          2,
			Title:       "The Godfather",
			Overview:    "The aging patriarch of an organized crime dynasty transfers control to his reluctant son.",
			Genre:       "Crime, Drama",
			VoteAverage: 9.2,
			ReleaseDate: "1972-03-14",
		},
		{
			ID:          3,
			Title:       "The Dark Knight",
			Overview:    "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham.",
			Genre:       "Action, Crime, Drama",
			VoteAverage: 9.0,
			ReleaseDate: "2008-07-16",
		},
	}
}
