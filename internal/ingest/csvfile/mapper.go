// Package csvfile maps uploaded CSV exports into unified metrics.
//
// Expected header: metric_type,value,unit,recorded_at with optional
// source_app and device_name columns in any order. Rows that fail to map
// are reported per row; the rest of the file is still processed.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/claude/healthsync/internal/ingest"
	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/models"
	"github.com/claude/healthsync/internal/storage"
	"github.com/google/uuid"
)

// RowError reports one rejected CSV row (1-based, excluding the header).
type RowError struct {
	Row     int
	Message string
}

// Parse reads a CSV export and maps each row into a unified metric.
func Parse(r io.Reader) ([]models.UnifiedMetric, []RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"metric_type", "value", "recorded_at"} {
		if _, ok := col[required]; !ok {
			return nil, nil, fmt.Errorf("CSV header missing %q column", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var mapped []models.UnifiedMetric
	var rowErrs []RowError
	row := 0

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: row, Message: err.Error()})
			continue
		}

		metricType := field(record, "metric_type")
		def, ok := metrics.Lookup(metricType)
		if !ok {
			rowErrs = append(rowErrs, RowError{Row: row, Message: fmt.Sprintf("unknown metric type %q", metricType)})
			continue
		}

		value, err := strconv.ParseFloat(field(record, "value"), 64)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: row, Message: fmt.Sprintf("bad value: %v", err)})
			continue
		}

		if unit := field(record, "unit"); unit != "" && unit != def.Unit {
			rowErrs = append(rowErrs, RowError{Row: row, Message: fmt.Sprintf("unit %q is not the canonical %q for %s", unit, def.Unit, metricType)})
			continue
		}

		recordedAt, err := models.ParseMetricTime(field(record, "recorded_at"))
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: row, Message: fmt.Sprintf("bad recorded_at: %v", err)})
			continue
		}

		mapped = append(mapped, models.UnifiedMetric{
			MetricType: metricType,
			Value:      value,
			Unit:       def.Unit,
			SourceType: models.SourceCSV,
			RecordedAt: models.MetricTime{Time: recordedAt},
			SourceApp:  field(record, "source_app"),
			DeviceName: field(record, "device_name"),
		})
	}

	return mapped, rowErrs, nil
}

// Provider persists mapped CSV uploads.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a new CSV ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses a CSV stream and stores the rows that map cleanly. Bad rows
// are reported individually in the result; only a structural failure (e.g.
// missing header) aborts the request.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	mapped, rowErrs, err := Parse(r)
	if err != nil {
		return nil, err
	}

	result := &ingest.Result{
		SyncID:     uuid.NewString(),
		TotalCount: len(mapped) + len(rowErrs),
	}
	for _, re := range rowErrs {
		result.AddError(re.Row, re.Message)
	}

	if len(mapped) > 0 {
		inserted, err := p.db.InsertMetrics(ctx, ingest.Rows(userID, mapped))
		if err != nil {
			return result, fmt.Errorf("inserting csv metrics: %w", err)
		}
		result.ProcessedCount = len(mapped)
		result.SkippedCount = int64(len(mapped)) - inserted
	}

	p.log.Info("csv sync", "rows", result.TotalCount, "metrics", len(mapped), "rejected", len(rowErrs))

	result.Finalize()
	return result, nil
}
