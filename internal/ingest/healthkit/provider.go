package healthkit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/healthsync/internal/ingest"
	"github.com/claude/healthsync/internal/models"
	"github.com/claude/healthsync/internal/storage"
	"github.com/google/uuid"
)

// Provider persists mapped HealthKit payloads.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a new HealthKit ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest maps a HealthKit payload and stores the resulting metrics.
// Unrecognized sample types are dropped silently; duplicates of already
// stored observations are counted as skipped.
func (p *Provider) Ingest(ctx context.Context, payload *models.HealthKitPayload, userID int) (*ingest.Result, error) {
	mapped, received := MapPayload(payload)

	result := &ingest.Result{
		SyncID:     uuid.NewString(),
		TotalCount: received,
	}

	if len(mapped) > 0 {
		inserted, err := p.db.InsertMetrics(ctx, ingest.Rows(userID, mapped))
		if err != nil {
			return result, fmt.Errorf("inserting healthkit metrics: %w", err)
		}
		result.ProcessedCount = len(mapped)
		result.SkippedCount = int64(len(mapped)) - inserted
	}

	p.log.Info("healthkit sync", "records", received, "metrics", len(mapped), "skipped", result.SkippedCount)

	result.Finalize()
	return result, nil
}
