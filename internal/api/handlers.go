// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

// Package api exposes the HTTP surface of Cinemate: account and session
// endpoints, catalog browsing backed by TMDb, rating CRUD, and the
// recommendation endpoint, all routed through Chi.
package api

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/catalog"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/models"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/store"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// defaultRecommendCount is how many recommendations one call returns
// when the client does not ask for a specific count.
const defaultRecommendCount = 12

// Handler carries the dependencies shared by all endpoint methods.
type Handler struct {
	db           *store.DB
	catalog      *catalog.Service
	tmdb         *catalog.TMDB
	engine       *recommend.Engine
	cookieSecure bool

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewHandler wires the endpoint handler. The random source drives the
// rotating selections on browse endpoints.
func NewHandler(db *store.DB, cat *catalog.Service, tmdb *catalog.TMDB, engine *recommend.Engine, cookieSecure bool) *Handler {
	return &Handler{
		db:           db,
		catalog:      cat,
		tmdb:         tmdb,
		engine:       engine,
		cookieSecure: cookieSecure,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.Success(map[string]string{
		"status":  "healthy",
		"service": "cinemate-backend",
		"version": Version,
	}))
}
