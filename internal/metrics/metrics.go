// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

// Package metrics defines the Prometheus collectors for Cinemate:
// HTTP request instrumentation, recommendation engine counters, and
// catalog size. Collectors are registered via promauto at init.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemate_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemate_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinemate_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation engine metrics
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinemate_recommendation_duration_seconds",
			Help:    "Duration of full recommendation calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemate_recommendations_served_total",
			Help: "Total recommendations returned, by strategy source",
		},
		[]string{"source"},
	)

	// Domain counters
	RatingsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinemate_ratings_submitted_total",
			Help: "Total rating submissions accepted",
		},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinemate_catalog_movies",
			Help: "Number of movies currently in the catalog",
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		ActiveRequests.Inc()
	} else {
		ActiveRequests.Dec()
	}
}
