package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/models"
	"github.com/claude/healthsync/internal/sources"
)

func (s *Server) handleSyncMetrics(w http.ResponseWriter, r *http.Request) {
	var payload models.SyncPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := userIDFromContext(r)
	started := time.Now()
	result, err := s.unified.Ingest(r.Context(), &payload, uid)
	s.logSync(uid, "unified", result, err, int(time.Since(started).Milliseconds()))
	if err != nil {
		s.log.Error("sync error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSyncHealthKit(w http.ResponseWriter, r *http.Request) {
	var payload models.HealthKitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := userIDFromContext(r)
	started := time.Now()
	result, err := s.healthkit.Ingest(r.Context(), &payload, uid)
	s.logSync(uid, models.SourceHealthKit, result, err, int(time.Since(started).Milliseconds()))
	if err != nil {
		s.log.Error("healthkit sync error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSyncWithings(w http.ResponseWriter, r *http.Request) {
	var payload models.WithingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := userIDFromContext(r)
	started := time.Now()
	result, err := s.withings.Ingest(r.Context(), &payload, uid)
	s.logSync(uid, models.SourceWithings, result, err, int(time.Since(started).Milliseconds()))
	if err != nil {
		s.log.Error("withings sync error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSyncOura(w http.ResponseWriter, r *http.Request) {
	var payload models.OuraPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := userIDFromContext(r)
	started := time.Now()
	result, err := s.oura.Ingest(r.Context(), &payload, uid)
	s.logSync(uid, models.SourceOura, result, err, int(time.Since(started).Milliseconds()))
	if err != nil {
		s.log.Error("oura sync error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSyncCSV(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	started := time.Now()
	result, err := s.csv.Ingest(r.Context(), r.Body, uid)
	s.logSync(uid, models.SourceCSV, result, err, int(time.Since(started).Milliseconds()))
	if err != nil {
		s.log.Error("csv sync error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// metricQueryResponse is the query endpoint envelope. Metrics is never null;
// no data in range is an empty list, not an error.
type metricQueryResponse struct {
	ResolvedSource string             `json:"resolved_source,omitempty"`
	PreferenceSet  bool               `json:"preference_set"`
	Metrics        []models.MetricRow `json:"metrics"`
}

// resolveQueryTypes turns the metric/category query parameters into the
// metric types to fetch and the category used for source resolution.
func resolveQueryTypes(r *http.Request) ([]string, metrics.Category, bool) {
	if name := r.URL.Query().Get("metric"); name != "" {
		if !metrics.IsKnown(name) {
			return nil, "", false
		}
		return []string{name}, metrics.CategoryOf(name), true
	}
	if cat := r.URL.Query().Get("category"); cat != "" {
		c, ok := metrics.ParseCategory(cat)
		if !ok {
			return nil, "", false
		}
		return metrics.TypesInCategory(c), c, true
	}
	return nil, "", false
}

func (s *Server) handleQueryMetrics(w http.ResponseWriter, r *http.Request) {
	types, category, ok := resolveQueryTypes(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "metric or category parameter required"})
		return
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	uid := userIDFromContext(r)
	resp := metricQueryResponse{Metrics: []models.MetricRow{}}

	source := r.URL.Query().Get("source")
	if source == "" && r.URL.Query().Get("all_sources") != "true" {
		source, resp.PreferenceSet, err = s.resolver.Resolve(r.Context(), uid, category)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}
	resp.ResolvedSource = source

	rows, err := s.db.QueryMetrics(r.Context(), uid, types, source, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rows != nil {
		resp.Metrics = rows
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLatestMetrics(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.GetLatestMetrics(r.Context(), userIDFromContext(r), r.URL.Query().Get("source"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []models.MetricRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("metric")
	if !metrics.IsKnown(name) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "metric parameter required"})
		return
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bucket := "day"
	switch r.URL.Query().Get("agg") {
	case "hourly":
		bucket = "hour"
	case "weekly":
		bucket = "week"
	}

	uid := userIDFromContext(r)
	source := r.URL.Query().Get("source")
	if source == "" && r.URL.Query().Get("all_sources") != "true" {
		source, _, err = s.resolver.Resolve(r.Context(), uid, metrics.CategoryOf(name))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	points, err := s.db.GetTimeSeries(r.Context(), uid, name, source, start, end, bucket)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// catalogEntry is one metric type in the catalog listing.
type catalogEntry struct {
	MetricType string `json:"metric_type"`
	Unit       string `json:"unit"`
	Category   string `json:"category"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := make([]catalogEntry, 0)
	for _, name := range metrics.AllTypes() {
		def, _ := metrics.Lookup(name)
		entries = append(entries, catalogEntry{
			MetricType: name,
			Unit:       def.Unit,
			Category:   string(def.Category),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeValidationError maps resolver validation failures to 400s.
func writeValidationError(w http.ResponseWriter, err error) bool {
	if errors.Is(err, sources.ErrUnknownCategory) ||
		errors.Is(err, sources.ErrNotConnected) ||
		errors.Is(err, sources.ErrWorkoutsAlias) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
