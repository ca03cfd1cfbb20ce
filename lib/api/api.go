// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"

	"github.com/voicex-foundation/voicex/bridge"
	"github.com/voicex-foundation/voicex/lib/phrase"
	"github.com/voicex-foundation/voicex/lib/telemetry"
	"github.com/voicex-foundation/voicex/lib/tunables"
	"github.com/voicex-foundation/voicex/lib/usagestats"
)

// Backend is the bridge surface the API exposes. *bridge.Bridge
// implements it.
type Backend interface {
	Config() tunables.Config
	SetConfig(ctx context.Context, update map[string]any) (bridge.SetConfigResult, error)
	RecentTelemetry(limit int) []telemetry.Sample
	TelemetrySince(seq uint64, limit int) []telemetry.Sample
	TelemetryCapacity() int
	UsageStats() (usagestats.Stats, error)
	Status() bridge.Status
	Phrases() ([]phrase.Summary, error)
	SavePhrase(definition phrase.Definition) (string, error)
	PlayPhrase(ctx context.Context, id string) error
}

// DefaultRecentLimit is the sample count /api/data returns without a
// limit parameter.
const DefaultRecentLimit = 100

// maxBodyBytes bounds request bodies. Tunables and phrase definitions
// are a few hundred bytes.
const maxBodyBytes = 1 << 20

// Config configures the handler.
type Config struct {
	// Backend serves every route. Required.
	Backend Backend

	// RecentLimit is the default /api/data sample count. Zero uses
	// DefaultRecentLimit.
	RecentLimit int

	// Logger receives request logs at Debug and failures at Error.
	// Nil discards.
	Logger *slog.Logger
}

type server struct {
	backend     Backend
	recentLimit int
	logger      *slog.Logger
}

// NewHandler returns the API router.
func NewHandler(config Config) http.Handler {
	if config.Backend == nil {
		panic("api: Backend is required")
	}
	if config.RecentLimit <= 0 {
		config.RecentLimit = DefaultRecentLimit
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	s := &server{
		backend:     config.Backend,
		recentLimit: config.RecentLimit,
		logger:      config.Logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.logRequests)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api", func(router chi.Router) {
		router.Get("/config", s.getConfig)
		router.Post("/config", s.postConfig)
		router.Get("/data", s.getData)
		router.Get("/stats", s.getStats)
		router.Get("/status", s.getStatus)
		router.Get("/phrases", s.getPhrases)
		router.Post("/phrase", s.postPhrase)
		router.Get("/play_phrase/{id}", s.playPhrase)
		router.Post("/play_phrase/{id}", s.playPhrase)
	})

	return gzhttp.GzipHandler(router)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(wrapped, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.Status(),
			"bytes", wrapped.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
