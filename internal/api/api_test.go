// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/catalog"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/store"
)

// pageFetcher serves a fixed set of movies as a single page.
type pageFetcher struct {
	movies []recommend.Movie
}

func (f *pageFetcher) PopularMovies(_ context.Context, page int) ([]recommend.Movie, error) {
	if page > 1 {
		return nil, nil
	}
	return f.movies, nil
}

func testMovies(n int) []recommend.Movie {
	movies := make([]recommend.Movie, 0, n)
	for i := 1; i <= n; i++ {
		movies = append(movies, recommend.Movie{
			ID:          i,
			Title:       fmt.Sprintf("Test Movie %d", i),
			Overview:    fmt.Sprintf("Overview for test movie %d", i),
			Genre:       "Drama",
			VoteAverage: 7.0,
		})
	}
	return movies
}

type testServer struct {
	handler http.Handler
	db      *store.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cat := catalog.New(&pageFetcher{movies: testMovies(40)}, filepath.Join(t.TempDir(), "cache.json"), 1)
	if err := cat.Load(context.Background()); err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}

	tmdb := catalog.NewTMDB(catalog.TMDBConfig{})
	engine := recommend.NewEngine(db, recommend.DefaultConfig(), zerolog.Nop())
	h := NewHandler(db, cat, tmdb, engine, false)
	mw := NewMiddleware(&MiddlewareConfig{
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		RateLimitRequests:  1000,
		RateLimitWindow:    time.Minute,
	})
	return &testServer{handler: NewRouter(h, mw), db: db}
}

// do issues a request against the router, attaching a session cookie
// when one is given.
func (ts *testServer) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

// register creates an account and returns its session cookie.
func (ts *testServer) register(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Sturdy1234",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", username, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("register %s: no session cookie set", username)
	return nil
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "success" {
		t.Errorf("status field = %q, want success", env.Status)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "alice")

	rec := ts.do(t, http.MethodGet, "/user", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("/user status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var user store.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want alice", user.Username)
	}

	rec = ts.do(t, http.MethodPost, "/login", map[string]string{
		"username": "alice",
		"password": "wrongpass1A",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login with wrong password: status = %d, want 401", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/login", map[string]string{
		"username": "alice",
		"password": "Sturdy1234",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("login: status = %d, want 200", rec.Code)
	}
}

func TestRegisterConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "bob")

	rec := ts.do(t, http.MethodPost, "/register", map[string]string{
		"username": "bob",
		"email":    "other@example.com",
		"password": "Sturdy1234",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "USERNAME_TAKEN" {
		t.Errorf("error = %+v, want USERNAME_TAKEN", env.Error)
	}

	rec = ts.do(t, http.MethodPost, "/register", map[string]string{
		"username": "robert",
		"email":    "bob@example.com",
		"password": "Sturdy1234",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: status = %d, want 409", rec.Code)
	}
	env = decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "EMAIL_TAKEN" {
		t.Errorf("error = %+v, want EMAIL_TAKEN", env.Error)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"short password", map[string]string{"username": "carol", "email": "carol@example.com", "password": "short"}},
		{"bad email", map[string]string{"username": "carol", "email": "not-an-email", "password": "Sturdy1234"}},
		{"short username", map[string]string{"username": "c", "email": "carol@example.com", "password": "Sturdy1234"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.do(t, http.MethodPost, "/register", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/profile", "/api/recommendations", "/api/rating-history"} {
		rec := ts.do(t, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without session: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "dave")

	rec := ts.do(t, http.MethodPost, "/logout", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/user", nil, cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("/user after logout: status = %d, want 401", rec.Code)
	}
}

func TestSubmitAndRemoveRatings(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "erin")

	rec := ts.do(t, http.MethodPost, "/api/submit-ratings", map[string]interface{}{
		"ratings": []map[string]int{
			{"movie_id": 1, "rating": 5},
			{"movie_id": 2, "rating": 3},
		},
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/rating-history", nil, cookie)
	env := decodeEnvelope(t, rec)
	var history struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if history.Count != 2 {
		t.Errorf("history count = %d, want 2", history.Count)
	}

	rec = ts.do(t, http.MethodPost, "/api/remove-rating", map[string]int{"movie_id": 1}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	rec = ts.do(t, http.MethodPost, "/api/remove-rating", map[string]int{"movie_id": 1}, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("remove twice: status = %d, want 404", rec.Code)
	}
}

func TestSubmitRatingsRejectsOutOfRange(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "frank")

	rec := ts.do(t, http.MethodPost, "/api/submit-ratings", map[string]interface{}{
		"ratings": []map[string]int{{"movie_id": 1, "rating": 6}},
	}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPopularMovies(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/popular-movies", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Count != browseSampleSize {
		t.Errorf("count = %d, want %d", payload.Count, browseSampleSize)
	}
}

func TestSearchMoviesOffline(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/search-movies?q=Test+Movie+7", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var payload struct {
		Movies []recommend.Movie `json:"movies"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Movies) == 0 {
		t.Fatal("no results for catalog title")
	}
	for _, m := range payload.Movies {
		if !strings.Contains(m.Title, "Test Movie 7") {
			t.Errorf("unexpected result %q", m.Title)
		}
	}

	rec = ts.do(t, http.MethodGet, "/api/search-movies", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing q: status = %d, want 400", rec.Code)
	}
}

func TestMovieDetails(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/movie-details?movie_id=3", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var movie recommend.Movie
	if err := json.Unmarshal(env.Data, &movie); err != nil {
		t.Fatalf("decode movie: %v", err)
	}
	if movie.ID != 3 {
		t.Errorf("movie id = %d, want 3", movie.ID)
	}

	rec = ts.do(t, http.MethodGet, "/api/movie-details?movie_id=99999", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown movie offline: status = %d, want 404", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/api/movie-details?movie_id=0", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("movie_id=0: status = %d, want 400", rec.Code)
	}
}

func TestRateMoviesPagination(t *testing.T) {
	ts := newTestServer(t) // 40-movie catalog: 2 pages of 20
	cookie := ts.register(t, "grace")

	rec := ts.do(t, http.MethodGet, "/api/rate-movies?page=1", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var payload struct {
		Movies     []recommend.Movie `json:"movies"`
		Page       int               `json:"page"`
		TotalPages int               `json:"total_pages"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Movies) != ratingSheetPageSize {
		t.Errorf("page size = %d, want %d", len(payload.Movies), ratingSheetPageSize)
	}
	if payload.TotalPages != 2 {
		t.Errorf("total_pages = %d, want 2", payload.TotalPages)
	}

	// Out-of-range pages clamp to the last page instead of erroring.
	rec = ts.do(t, http.MethodGet, "/api/rate-movies?page=99", nil, cookie)
	env = decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Page != 2 {
		t.Errorf("clamped page = %d, want 2", payload.Page)
	}
}

func TestSubmitRatingsPersistsMovies(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "oscar")

	rec := ts.do(t, http.MethodPost, "/api/submit-ratings", map[string]interface{}{
		"ratings": []map[string]int{{"movie_id": 9001, "rating": 5}},
		"movies": []map[string]interface{}{
			{"movie_id": 9001, "title": "Offbeat Find", "overview": "A search result."},
		},
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/movie-details?movie_id=9001", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("details status = %d, want catalog hit", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var movie recommend.Movie
	if err := json.Unmarshal(env.Data, &movie); err != nil {
		t.Fatalf("decode movie: %v", err)
	}
	if movie.Title != "Offbeat Find" {
		t.Errorf("title = %q, want the persisted record", movie.Title)
	}
}

func TestRecommendationsExcludeRated(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "heidi")

	rec := ts.do(t, http.MethodPost, "/api/submit-ratings", map[string]interface{}{
		"ratings": []map[string]int{
			{"movie_id": 5, "rating": 5},
			{"movie_id": 6, "rating": 4},
			{"movie_id": 7, "rating": 5},
		},
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/recommendations?n=10", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var payload struct {
		Recommendations []recommend.EnrichedRecommendation `json:"recommendations"`
		Count           int                                `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Count > 10 {
		t.Errorf("count = %d, want at most 10", payload.Count)
	}
	for _, r := range payload.Recommendations {
		if r.ID == 5 || r.ID == 6 || r.ID == 7 {
			t.Errorf("recommended already rated movie %d", r.ID)
		}
		if r.Score < 2.0 || r.Score > 4.0 {
			t.Errorf("movie %d score = %v, want within [2.0, 4.0]", r.ID, r.Score)
		}
	}
}

func TestRecommendationsEmptyForNewUser(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "ivan")

	rec := ts.do(t, http.MethodGet, "/api/recommendations", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "success" {
		t.Errorf("status = %q, want success even with no history", env.Status)
	}
}

func TestChangePassword(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "judy")

	rec := ts.do(t, http.MethodPost, "/api/reset-password", map[string]string{
		"current_password": "WrongOld1",
		"new_password":     "Changed1234",
	}, cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong current password: status = %d, want 401", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/reset-password", map[string]string{
		"current_password": "Sturdy1234",
		"new_password":     "Changed1234",
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("change password: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/login", map[string]string{
		"username": "judy",
		"password": "Changed1234",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("login with new password: status = %d", rec.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "kevin")

	rec := ts.do(t, http.MethodPost, "/api/forgot-password", map[string]string{
		"username": "kevin",
		"email":    "kevin@example.com",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("forgot-password status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var payload struct {
		ResetToken string `json:"reset_token"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.ResetToken == "" {
		t.Fatal("no reset token issued")
	}

	rec = ts.do(t, http.MethodPost, "/api/forgot-password", map[string]string{
		"username": "nobody",
		"email":    "nobody@example.com",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("forgot-password unknown user: status = %d, want 200", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/forgot-password", map[string]string{
		"username": "kevin",
		"email":    "wrong@example.com",
	}, nil)
	env = decodeEnvelope(t, rec)
	var mismatch struct {
		ResetToken string `json:"reset_token"`
	}
	if err := json.Unmarshal(env.Data, &mismatch); err == nil && mismatch.ResetToken != "" {
		t.Errorf("mismatched email produced a reset token")
	}

	rec = ts.do(t, http.MethodPost, "/api/reset-password-with-token", map[string]string{
		"token":        payload.ResetToken,
		"new_password": "Reborn1234",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset-with-token status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/api/reset-password-with-token", map[string]string{
		"token":        payload.ResetToken,
		"new_password": "Again1234X",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("token reuse: status = %d, want 400", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/login", map[string]string{
		"username": "kevin",
		"password": "Reborn1234",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("login after reset: status = %d", rec.Code)
	}
}
