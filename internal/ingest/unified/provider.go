// Package unified ingests batches of already-normalized metrics, as posted
// by clients that map provider data on-device. Each entry is validated
// independently; partial success is the normal case.
package unified

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/claude/healthsync/internal/ingest"
	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/models"
	"github.com/claude/healthsync/internal/storage"
	"github.com/google/uuid"
)

// Provider validates and persists unified metric batches.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a new unified-batch ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// validate checks one decoded metric against the catalog.
func validate(m *models.UnifiedMetric) error {
	def, ok := metrics.Lookup(m.MetricType)
	if !ok {
		return fmt.Errorf("unknown metric type %q", m.MetricType)
	}
	if m.Unit == "" {
		m.Unit = def.Unit
	} else if m.Unit != def.Unit {
		return fmt.Errorf("unit %q is not the canonical %q for %s", m.Unit, def.Unit, m.MetricType)
	}
	if m.RecordedAt.IsZero() {
		return fmt.Errorf("recorded_at is required")
	}
	if m.SourceType == "" {
		return fmt.Errorf("source_type is required")
	}
	return nil
}

// Ingest decodes, validates, and stores a batch. Entries are independent:
// a bad entry is reported under its index and does not abort the request.
func (p *Provider) Ingest(ctx context.Context, payload *models.SyncPayload, userID int) (*ingest.Result, error) {
	result := &ingest.Result{
		SyncID:     uuid.NewString(),
		TotalCount: len(payload.Metrics),
	}

	var accepted []models.UnifiedMetric
	for i, raw := range payload.Metrics {
		var m models.UnifiedMetric
		if err := json.Unmarshal(raw, &m); err != nil {
			result.AddError(i, fmt.Sprintf("invalid metric: %v", err))
			continue
		}
		if err := validate(&m); err != nil {
			result.AddError(i, err.Error())
			continue
		}
		accepted = append(accepted, m)
	}

	if len(accepted) > 0 {
		inserted, err := p.db.InsertMetrics(ctx, ingest.Rows(userID, accepted))
		if err != nil {
			return result, fmt.Errorf("inserting metrics: %w", err)
		}
		result.ProcessedCount = len(accepted)
		result.SkippedCount = int64(len(accepted)) - inserted
	}

	p.log.Info("unified sync",
		"total", result.TotalCount,
		"processed", result.ProcessedCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)

	result.Finalize()
	return result, nil
}
