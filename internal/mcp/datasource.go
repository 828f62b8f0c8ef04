package mcp

import (
	"context"
	"time"

	"github.com/claude/healthsync/internal/models"
	"github.com/claude/healthsync/internal/sources"
	"github.com/claude/healthsync/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryMetrics(ctx context.Context, userID int, metricTypes []string, sourceType string, start, end time.Time) ([]models.MetricRow, error)
	GetLatestMetrics(ctx context.Context, userID int, sourceType string) ([]models.MetricRow, error)
	GetTimeSeries(ctx context.Context, userID int, metricType, sourceType string, start, end time.Time, bucket string) ([]storage.TimeSeriesPoint, error)
	GetSourcePreferences(ctx context.Context, userID int) (sources.Preferences, error)
	ConnectedSources(ctx context.Context, userID int) ([]sources.ConnectedSource, error)
	QueryGoals(ctx context.Context, userID int) ([]models.GoalRow, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
