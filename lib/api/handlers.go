// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voicex-foundation/voicex/lib/link"
	"github.com/voicex-foundation/voicex/lib/phrase"
	"github.com/voicex-foundation/voicex/lib/tunables"
)

type configResponse struct {
	Status    string          `json:"status"`
	Config    tunables.Config `json:"config"`
	Ignored   []string        `json:"ignored"`
	Persisted bool            `json:"persisted"`
	Synced    bool            `json:"synced"`
}

type phraseSavedResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func (s *server) getConfig(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.backend.Config())
}

func (s *server) postConfig(w http.ResponseWriter, r *http.Request) {
	var update map[string]any
	if err := decodeBody(w, r, &update); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.backend.SetConfig(r.Context(), update)
	var validationErr *tunables.ValidationError
	if errors.As(err, &validationErr) {
		respondError(w, r, http.StatusBadRequest, validationErr.Error())
		return
	}
	if err != nil {
		s.logger.Error("updating tunables failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, r, http.StatusOK, configResponse{
		Status:    statusSuccess,
		Config:    result.Config,
		Ignored:   result.Ignored,
		Persisted: result.Persisted,
		Synced:    result.Synced,
	})
}

func (s *server) getData(w http.ResponseWriter, r *http.Request) {
	capacity := s.backend.TelemetryCapacity()
	limit := min(s.recentLimit, capacity)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, r, http.StatusBadRequest, fmt.Sprintf("limit must be a non-negative integer, got %q", raw))
			return
		}
		limit = min(parsed, capacity)
	}

	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, fmt.Sprintf("since must be a sequence number, got %q", raw))
			return
		}
		if limit == 0 {
			respond(w, r, http.StatusOK, []any{})
			return
		}
		respond(w, r, http.StatusOK, s.backend.TelemetrySince(since, limit))
		return
	}

	respond(w, r, http.StatusOK, s.backend.RecentTelemetry(limit))
}

func (s *server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.backend.UsageStats()
	if err != nil {
		s.logger.Error("computing usage stats failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, r, http.StatusOK, stats)
}

func (s *server) getStatus(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.backend.Status())
}

func (s *server) getPhrases(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.backend.Phrases()
	if err != nil {
		s.logger.Error("listing phrases failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, r, http.StatusOK, summaries)
}

func (s *server) postPhrase(w http.ResponseWriter, r *http.Request) {
	var definition phrase.Definition
	if err := decodeBody(w, r, &definition); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.backend.SavePhrase(definition)
	if errors.Is(err, phrase.ErrInvalidID) {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("saving phrase failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, r, http.StatusOK, phraseSavedResponse{Status: statusSuccess, ID: id})
}

// playPhrase reports device-side failures (unknown phrase, device not
// connected) as status:error with 200, which is what front ends poll
// for. Only a malformed id is a client error.
func (s *server) playPhrase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.backend.PlayPhrase(r.Context(), id)
	switch {
	case err == nil:
		respond(w, r, http.StatusOK, map[string]string{"status": statusSuccess})
	case errors.Is(err, phrase.ErrInvalidID):
		respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, phrase.ErrNotFound), errors.Is(err, link.ErrNotConnected):
		respondError(w, r, http.StatusOK, err.Error())
	default:
		s.logger.Error("playing phrase failed", "id", id, "error", err)
		respondError(w, r, http.StatusOK, err.Error())
	}
}
