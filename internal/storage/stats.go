package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's stored data.
type DataStats struct {
	TotalMetricRows int64           `json:"total_metric_rows"`
	EarliestData    *time.Time      `json:"earliest_data"`
	LatestData      *time.Time      `json:"latest_data"`
	ByCategory      []CategoryStat  `json:"by_category"`
}

// CategoryStat holds per-category row counts and source breadth.
type CategoryStat struct {
	Category    string `json:"category"`
	Rows        int64  `json:"rows"`
	SourceCount int64  `json:"source_count"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(recorded_at), MAX(recorded_at) FROM metrics WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalMetricRows, &stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("counting metrics: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT category, COUNT(*), COUNT(DISTINCT source_type)
		 FROM metrics
		 WHERE user_id = $1
		 GROUP BY category
		 ORDER BY category`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying category stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cs CategoryStat
		if err := rows.Scan(&cs.Category, &cs.Rows, &cs.SourceCount); err != nil {
			return nil, fmt.Errorf("scanning category stat: %w", err)
		}
		stats.ByCategory = append(stats.ByCategory, cs)
	}
	return stats, rows.Err()
}
