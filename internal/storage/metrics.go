package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/healthsync/internal/models"
	"github.com/jackc/pgx/v5"
)

// InsertMetrics batch-inserts metric rows. The table carries a unique key on
// (user_id, metric_type, source_type, recorded_at), so re-submitting the
// same observation is a no-op. Returns the number actually inserted.
func (db *DB) InsertMetrics(ctx context.Context, rows []models.MetricRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO metrics (recorded_at, user_id, metric_type, category, unit, value, source_type, source_app, device_name, metadata)
VALUES `
	args := make([]any, 0, len(rows)*10)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 10
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
		))
		args = append(args, r.RecordedAt, r.UserID, r.MetricType, r.Category, r.Unit,
			r.Value, r.SourceType, r.SourceApp, r.DeviceName, r.Metadata)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting metrics: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryMetrics retrieves metrics for a set of metric types within a time
// range, ordered by recorded_at ascending. sourceType narrows to one
// provider; empty means all sources.
func (db *DB) QueryMetrics(ctx context.Context, userID int, metricTypes []string, sourceType string, start, end time.Time) ([]models.MetricRow, error) {
	query := `SELECT recorded_at, user_id, metric_type, category, unit, value, source_type, source_app, device_name, metadata
		 FROM metrics
		 WHERE user_id = $1 AND metric_type = ANY($2) AND recorded_at >= $3 AND recorded_at < $4`
	args := []any{userID, metricTypes, start, end}
	if sourceType != "" {
		query += ` AND source_type = $5`
		args = append(args, sourceType)
	}
	query += ` ORDER BY recorded_at ASC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying metrics: %w", err)
	}
	defer rows.Close()

	return scanMetricRows(rows)
}

// GetLatestMetrics returns the most recent observation per metric type.
func (db *DB) GetLatestMetrics(ctx context.Context, userID int, sourceType string) ([]models.MetricRow, error) {
	query := `SELECT DISTINCT ON (metric_type) recorded_at, user_id, metric_type, category, unit, value, source_type, source_app, device_name, metadata
		 FROM metrics
		 WHERE user_id = $1`
	args := []any{userID}
	if sourceType != "" {
		query += ` AND source_type = $2`
		args = append(args, sourceType)
	}
	query += ` ORDER BY metric_type, recorded_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying latest metrics: %w", err)
	}
	defer rows.Close()

	return scanMetricRows(rows)
}

// TimeSeriesPoint is one aggregated bucket.
type TimeSeriesPoint struct {
	Time  time.Time `json:"time"`
	Avg   *float64  `json:"avg"`
	Min   *float64  `json:"min"`
	Max   *float64  `json:"max"`
	Sum   *float64  `json:"sum"`
	Count int64     `json:"count"`
}

// GetTimeSeries returns bucketed aggregates for one metric type.
// bucket is a date_trunc field: "hour", "day", or "week".
func (db *DB) GetTimeSeries(ctx context.Context, userID int, metricType, sourceType string, start, end time.Time, bucket string) ([]TimeSeriesPoint, error) {
	switch bucket {
	case "hour", "day", "week":
	default:
		bucket = "day"
	}

	query := `SELECT date_trunc($1, recorded_at) AS bucket,
	        AVG(value), MIN(value), MAX(value), SUM(value), COUNT(*)
	 FROM metrics
	 WHERE user_id = $2 AND metric_type = $3 AND recorded_at >= $4 AND recorded_at < $5`
	args := []any{bucket, userID, metricType, start, end}
	if sourceType != "" {
		query += ` AND source_type = $6`
		args = append(args, sourceType)
	}
	query += ` GROUP BY bucket ORDER BY bucket ASC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying time series: %w", err)
	}
	defer rows.Close()

	var result []TimeSeriesPoint
	for rows.Next() {
		var p TimeSeriesPoint
		if err := rows.Scan(&p.Time, &p.Avg, &p.Min, &p.Max, &p.Sum, &p.Count); err != nil {
			return nil, fmt.Errorf("scanning time series: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanMetricRows(rows pgx.Rows) ([]models.MetricRow, error) {
	var result []models.MetricRow
	for rows.Next() {
		var r models.MetricRow
		if err := rows.Scan(&r.RecordedAt, &r.UserID, &r.MetricType, &r.Category, &r.Unit,
			&r.Value, &r.SourceType, &r.SourceApp, &r.DeviceName, &r.Metadata); err != nil {
			return nil, fmt.Errorf("scanning metric row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
