package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/manascope/manascope/internal/recommend"
	"github.com/manascope/manascope/internal/themes"
)

// writeJSON writes a JSON response with proper headers.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"version":    s.version,
		"uptime_sec": int(time.Since(s.startTime).Seconds()),
	})
}

// handleVocabulary serves the permitted theme list.
func (s *Service) handleVocabulary(w http.ResponseWriter, r *http.Request) {
	type themeEntry struct {
		Label    string `json:"label"`
		Category string `json:"category"`
	}
	entries := make([]themeEntry, len(themes.Vocabulary))
	for i, e := range themes.Vocabulary {
		entries[i] = themeEntry{Label: e.Label, Category: string(e.Category)}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": themes.VocabularyVersion,
		"themes":  entries,
	})
}

func (s *Service) handleThemeSuggestions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	suggestions, err := s.recs.GetThemeSuggestions(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if suggestions == nil {
		suggestions = []recommend.ThemeSuggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"card_id": id,
		"themes":  suggestions,
	})
}

func (s *Service) handleSynergy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	opts := recommend.SynergyOptions{}
	if v := r.URL.Query().Get("min_score"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 100 {
			opts.MinScore = f
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}

	results, err := s.recs.GetSynergyRecommendations(r.Context(), id, opts)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"card_id": id,
		"results": results,
		"count":   len(results),
	})
}

func (s *Service) handleUpstreamRecs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	recs, err := s.recs.GetUpstreamRecommendations(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if recs == nil {
		// Total upstream failure surfaces as no data, not an error.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"card_id":         id,
			"recommendations": nil,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"card_id":         id,
		"recommendations": recs,
	})
}
