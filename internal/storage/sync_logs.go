package storage

import (
	"context"
	"fmt"
	"time"
)

// SyncLog records one sync operation's outcome.
type SyncLog struct {
	ID           int64     `json:"id"`
	UserID       int       `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	SyncID       string    `json:"sync_id"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	Processed    int       `json:"processed_count"`
	Failed       int       `json:"failed_count"`
	Total        int       `json:"total_count"`
	Skipped      int64     `json:"skipped_count"`
	DurationMs   *int      `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message"`
}

// InsertSyncLog creates a new sync log entry and returns its ID.
func (db *DB) InsertSyncLog(ctx context.Context, log SyncLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO sync_logs (user_id, sync_id, source, status, processed_count, failed_count, total_count, skipped_count, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING id`,
		log.UserID, log.SyncID, log.Source, log.Status, log.Processed, log.Failed,
		log.Total, log.Skipped, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting sync log: %w", err)
	}
	return id, nil
}

// QuerySyncLogs returns the most recent sync logs for a user.
func (db *DB) QuerySyncLogs(ctx context.Context, userID, limit int) ([]SyncLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, created_at, sync_id, source, status, processed_count, failed_count, total_count, skipped_count, duration_ms, error_message
		 FROM sync_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync logs: %w", err)
	}
	defer rows.Close()

	var result []SyncLog
	for rows.Next() {
		var l SyncLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.SyncID, &l.Source, &l.Status,
			&l.Processed, &l.Failed, &l.Total, &l.Skipped, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning sync log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
