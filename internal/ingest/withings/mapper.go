// Package withings maps Withings Measure API payloads into unified metrics.
// Measure types not in the registry are dropped silently.
package withings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/healthsync/internal/ingest"
	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/models"
	"github.com/claude/healthsync/internal/storage"
	"github.com/google/uuid"
)

// measureTypes is the registry of recognized Withings measure type codes.
// Decoded values (Value * 10^Unit) are already in the canonical unit for
// every type listed here. Codes follow the public Measure API: 1 weight (kg),
// 6 fat ratio (%), 9/10 blood pressure (mmHg), 11 heart pulse (bpm),
// 54 SpO2 (%), 76 muscle mass (kg).
var measureTypes = map[int]string{
	1:  "body_weight",
	6:  "body_fat_percentage",
	9:  "blood_pressure_diastolic",
	10: "blood_pressure_systolic",
	11: "heart_rate",
	54: "blood_oxygen",
	76: "body_lean_mass",
}

// MapMeasureGroup converts one measure group into zero or more unified
// metrics, one per recognized measure.
func MapMeasureGroup(g models.WithingsMeasureGroup) []models.UnifiedMetric {
	if g.Date <= 0 {
		return nil
	}
	recordedAt := time.Unix(g.Date, 0).UTC()

	var out []models.UnifiedMetric
	for _, m := range g.Measures {
		metricType, ok := measureTypes[m.Type]
		if !ok {
			continue
		}
		out = append(out, models.UnifiedMetric{
			MetricType: metricType,
			Value:      m.Float(),
			Unit:       metrics.CanonicalUnit(metricType),
			SourceType: models.SourceWithings,
			RecordedAt: models.MetricTime{Time: recordedAt},
			DeviceName: g.DeviceID,
			Metadata:   map[string]string{"grpid": fmt.Sprintf("%d", g.GroupID)},
		})
	}
	return out
}

// Provider persists mapped Withings payloads.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a new Withings ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest maps a Withings payload and stores the resulting metrics.
func (p *Provider) Ingest(ctx context.Context, payload *models.WithingsPayload, userID int) (*ingest.Result, error) {
	var mapped []models.UnifiedMetric
	for _, g := range payload.MeasureGroups {
		mapped = append(mapped, MapMeasureGroup(g)...)
	}

	result := &ingest.Result{
		SyncID:     uuid.NewString(),
		TotalCount: len(payload.MeasureGroups),
	}

	if len(mapped) > 0 {
		inserted, err := p.db.InsertMetrics(ctx, ingest.Rows(userID, mapped))
		if err != nil {
			return result, fmt.Errorf("inserting withings metrics: %w", err)
		}
		result.ProcessedCount = len(mapped)
		result.SkippedCount = int64(len(mapped)) - inserted
	}

	p.log.Info("withings sync", "groups", len(payload.MeasureGroups), "metrics", len(mapped), "skipped", result.SkippedCount)

	result.Finalize()
	return result, nil
}
