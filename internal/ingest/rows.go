package ingest

import (
	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/models"
)

// Rows converts mapped unified metrics into storage rows for one user,
// stamping each with its catalog category.
func Rows(userID int, ms []models.UnifiedMetric) []models.MetricRow {
	rows := make([]models.MetricRow, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, models.MetricRow{
			RecordedAt: m.RecordedAt.Time,
			UserID:     userID,
			MetricType: m.MetricType,
			Category:   string(metrics.CategoryOf(m.MetricType)),
			Unit:       m.Unit,
			Value:      m.Value,
			SourceType: m.SourceType,
			SourceApp:  m.SourceApp,
			DeviceName: m.DeviceName,
			Metadata:   m.Metadata,
		})
	}
	return rows
}
