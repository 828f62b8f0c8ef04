package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/models"
	"github.com/claude/healthsync/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// goalRequest is the body for creating or updating a goal.
type goalRequest struct {
	MetricType  string  `json:"metric_type"`
	TargetValue float64 `json:"target_value"`
	Period      string  `json:"period"`
	Active      *bool   `json:"active,omitempty"`
}

func (g goalRequest) validate() string {
	if !metrics.IsKnown(g.MetricType) {
		return "unknown metric type"
	}
	if g.TargetValue <= 0 {
		return "target_value must be positive"
	}
	if g.Period != "daily" && g.Period != "weekly" {
		return "period must be \"daily\" or \"weekly\""
	}
	return ""
}

// goalWithProgress is a goal plus its progress in the current period.
type goalWithProgress struct {
	models.GoalRow
	CurrentValue float64 `json:"current_value"`
	ProgressPct  float64 `json:"progress_pct"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	goals, err := s.db.QueryGoals(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := make([]goalWithProgress, 0, len(goals))
	now := time.Now()
	for _, g := range goals {
		gp := goalWithProgress{GoalRow: g}
		if g.Active {
			value, err := s.goalProgress(r, uid, g, now)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			gp.CurrentValue = value
			gp.ProgressPct = value / g.TargetValue * 100
		}
		out = append(out, gp)
	}
	writeJSON(w, http.StatusOK, out)
}

// goalProgress computes the goal's current-period value from its resolved
// source: cumulative metrics sum over the period, point-in-time metrics use
// the latest observation.
func (s *Server) goalProgress(r *http.Request, uid int, g models.GoalRow, now time.Time) (float64, error) {
	start := now.Truncate(24 * time.Hour)
	if g.Period == "weekly" {
		start = now.AddDate(0, 0, -int(now.Weekday())).Truncate(24 * time.Hour)
	}

	category := metrics.CategoryOf(g.MetricType)
	source, _, err := s.resolver.Resolve(r.Context(), uid, category)
	if err != nil {
		return 0, err
	}

	rows, err := s.db.QueryMetrics(r.Context(), uid, []string{g.MetricType}, source, start, now.Add(time.Second))
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	switch category {
	case metrics.CategoryBodyComposition, metrics.CategoryHeartHealth:
		return rows[len(rows)-1].Value, nil
	default:
		var sum float64
		for _, row := range rows {
			sum += row.Value
		}
		return sum, nil
	}
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	goal := models.GoalRow{
		ID:          uuid.New(),
		UserID:      userIDFromContext(r),
		MetricType:  req.MetricType,
		TargetValue: req.TargetValue,
		Period:      req.Period,
		Active:      true,
	}
	if err := s.db.InsertGoal(r.Context(), goal); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid goal ID"})
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := userIDFromContext(r)
	goal, err := s.db.GetGoal(r.Context(), id, uid)
	if err != nil {
		if errors.Is(err, storage.ErrGoalNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if req.TargetValue > 0 {
		goal.TargetValue = req.TargetValue
	}
	if req.Period == "daily" || req.Period == "weekly" {
		goal.Period = req.Period
	}
	if req.Active != nil {
		goal.Active = *req.Active
	}

	if err := s.db.UpdateGoal(r.Context(), *goal); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid goal ID"})
		return
	}

	if err := s.db.DeleteGoal(r.Context(), id, userIDFromContext(r)); err != nil {
		if errors.Is(err, storage.ErrGoalNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
