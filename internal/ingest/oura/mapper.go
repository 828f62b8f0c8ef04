// Package oura maps Oura v2 API daily documents into unified metrics.
package oura

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

func metric(metricType string, value float64, recordedAt time.Time) models.UnifiedMetric {
	return models.UnifiedMetric{
		MetricType: metricType,
		Value:      value,
		Unit:       metrics.CanonicalUnit(metricType),
		SourceType: models.SourceOura,
		RecordedAt: models.MetricTime{Time: recordedAt},
	}
}

// MapDailySleep expands one sleep document into duration, in-bed, awake,
// and efficiency metrics. Oura durations are in seconds; efficiency is
// recomputed from durations when both are present, otherwise the
// API-reported value is used.
func MapDailySleep(s models.OuraDailySleep) []models.UnifiedMetric {
	day, err := time.Parse(models.DateOnlyLayout, s.Day)
	if err != nil {
		return nil
	}

	var out []models.UnifiedMetric
	if s.TotalSleepDuration > 0 {
		out = append(out, metric("sleep_duration", s.TotalSleepDuration/3600, day))
	}
	if s.TimeInBed > 0 {
		out = append(out, metric("sleep_time_in_bed", s.TimeInBed/3600, day))
	}
	if s.AwakeTime > 0 {
		out = append(out, metric("sleep_awake_time", s.AwakeTime/3600, day))
	}
	switch {
	case s.TotalSleepDuration > 0 && s.TimeInBed > 0:
		out = append(out, metric("sleep_efficiency", s.TotalSleepDuration/s.TimeInBed*100, day))
	case s.Efficiency > 0:
		out = append(out, metric("sleep_efficiency", s.Efficiency, day))
	}
	return out
}

// MapDailyActivity expands one activity document into steps, active energy,
// and distance metrics.
func MapDailyActivity(a models.OuraDailyActivity) []models.UnifiedMetric {
	day, err := time.Parse(models.DateOnlyLayout, a.Day)
	if err != nil {
		return nil
	}

	var out []models.UnifiedMetric
	if a.Steps > 0 {
		out = append(out, metric("activity_steps", a.Steps, day))
	}
	if a.ActiveCalories > 0 {
		out = append(out, metric("activity_active_energy", a.ActiveCalories, day))
	}
	if a.WalkingMeters > 0 {
		out = append(out, metric("activity_distance", a.WalkingMeters/1000, day))
	}
	return out
}

// MapHeartRate converts one heart rate reading.
func MapHeartRate(h models.OuraHeartRate) []models.UnifiedMetric {
	if h.BPM <= 0 || h.Timestamp.IsZero() {
		return nil
	}
	metricType := "heart_rate"
	if h.Source == "rest" {
		metricType = "resting_heart_rate"
	}
	m := metric(metricType, h.BPM, h.Timestamp.Time)
	if h.Source != "" {
		m.Metadata = map[string]string{"reading_source": h.Source}
	}
	return []models.UnifiedMetric{m}
}

// Provider persists mapped Oura payloads.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a new Oura ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest maps an Oura payload and stores the resulting metrics.
func (p *Provider) Ingest(ctx context.Context, payload *models.OuraPayload, userID int) (*ingest.Result, error) {
	var mapped []models.UnifiedMetric
	for _, s := range payload.Sleep {
		mapped = append(mapped, MapDailySleep(s)...)
	}
	for _, a := range payload.Activity {
		mapped = append(mapped, MapDailyActivity(a)...)
	}
	for _, h := range payload.HeartRate {
		mapped = append(mapped, MapHeartRate(h)...)
	}

	result := &ingest.Result{
		SyncID:     uuid.NewString(),
		TotalCount: len(payload.Sleep) + len(payload.Activity) + len(payload.HeartRate),
	}

	if len(mapped) > 0 {
		inserted, err := p.db.InsertMetrics(ctx, ingest.Rows(userID, mapped))
		if err != nil {
			return result, fmt.Errorf("inserting oura metrics: %w", err)
		}
		result.ProcessedCount = len(mapped)
		result.SkippedCount = int64(len(mapped)) - inserted
	}

	p.log.Info("oura sync", "documents", result.TotalCount, "metrics", len(mapped), "skipped", result.SkippedCount)

	result.Finalize()
	return result, nil
}
