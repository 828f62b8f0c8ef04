package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/healthsync/internal/ingest"
	"github.com/claude/healthsync/internal/storage"
)

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	cards, err := s.insights.Generate(r.Context(), userIDFromContext(r), time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSyncLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.db.QuerySyncLogs(r.Context(), userIDFromContext(r), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

// logSync records a sync operation's outcome to the sync_logs table.
func (s *Server) logSync(uid int, source string, result *ingest.Result, syncErr error, durationMs int) {
	if result == nil {
		result = &ingest.Result{}
	}
	status := result.Status
	var errMsg *string
	if syncErr != nil {
		status = "error"
		msg := syncErr.Error()
		errMsg = &msg
	}

	entry := storage.SyncLog{
		UserID:       uid,
		SyncID:       result.SyncID,
		Source:       source,
		Status:       status,
		Processed:    result.ProcessedCount,
		Failed:       result.FailedCount,
		Total:        result.TotalCount,
		Skipped:      result.SkippedCount,
		DurationMs:   &durationMs,
		ErrorMessage: errMsg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.db.InsertSyncLog(ctx, entry); err != nil {
		s.log.Error("failed to log sync", "source", source, "error", err)
	}
}
