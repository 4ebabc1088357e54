// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// MiddlewareConfig holds CORS and rate limiting settings for the
// Chi-ecosystem middleware factories.
type MiddlewareConfig struct {
	CORSAllowedOrigins []string

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DefaultMiddlewareConfig returns conservative defaults; CORS origins
// must be configured explicitly.
func DefaultMiddlewareConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		CORSAllowedOrigins: []string{},
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
	}
}

// Middleware provides Chi-compatible middleware built from the go-chi
// ecosystem packages.
type Middleware struct {
	config *MiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewMiddleware builds the middleware factory. Credentials are allowed
// because authentication rides on a session cookie.
func NewMiddleware(config *MiddlewareConfig) *Middleware {
	if config == nil {
		config = DefaultMiddlewareConfig()
	}
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return &Middleware{config: config, cors: corsHandler}
}

// CORS returns the CORS middleware; it must be installed globally so
// OPTIONS preflights reach it.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the standard per-IP rate limiter.
func (m *Middleware) RateLimit() func(http.Handler) http.Handler {
	return httprate.LimitByIP(m.config.RateLimitRequests, m.config.RateLimitWindow)
}

// RateLimitAuth returns the stricter limiter applied to credential
// endpoints to slow brute forcing.
func (m *Middleware) RateLimitAuth() func(http.Handler) http.Handler {
	return httprate.LimitByIP(10, time.Minute)
}
