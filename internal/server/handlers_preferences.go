package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/sources"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleConnectedSources(w http.ResponseWriter, r *http.Request) {
	connected, err := s.db.ConnectedSources(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if connected == nil {
		connected = []sources.ConnectedSource{}
	}
	writeJSON(w, http.StatusOK, connected)
}

// preferencesResponse pairs the stored record with the effective source per
// category after fallback resolution.
type preferencesResponse struct {
	Preferences sources.Preferences `json:"preferences"`
	Resolved    []resolvedCategory  `json:"resolved"`
}

type resolvedCategory struct {
	Category string `json:"category"`
	Source   string `json:"source,omitempty"`
	Explicit bool   `json:"explicit"`
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	prefs, err := s.db.GetSourcePreferences(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := preferencesResponse{Preferences: prefs}
	for _, c := range metrics.Categories {
		source, explicit, err := s.resolver.Resolve(r.Context(), uid, c)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.Resolved = append(resp.Resolved, resolvedCategory{
			Category: string(c),
			Source:   source,
			Explicit: explicit,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// setPreferenceRequest is the PUT body for a preference change.
type setPreferenceRequest struct {
	Source string `json:"source"`
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	category, ok := metrics.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}

	var req setPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Source == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source is required"})
		return
	}

	uid := userIDFromContext(r)
	if err := s.resolver.SetPreferred(r.Context(), uid, category, req.Source); err != nil {
		if writeValidationError(w, err) {
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"category": string(category),
		"source":   req.Source,
	})
}
