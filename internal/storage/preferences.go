package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/sources"
	"github.com/jackc/pgx/v5"
)

// preferenceColumns maps categories onto their columns in the
// source_preferences table. Workouts has no column; it follows activity.
var preferenceColumns = map[metrics.Category]string{
	metrics.CategoryActivity:        "activity_source",
	metrics.CategorySleep:           "sleep_source",
	metrics.CategoryNutrition:       "nutrition_source",
	metrics.CategoryBodyComposition: "body_composition_source",
	metrics.CategoryHeartHealth:     "heart_health_source",
}

// GetSourcePreferences reads a user's preference record. A user with no
// record gets empty preferences.
func (db *DB) GetSourcePreferences(ctx context.Context, userID int) (sources.Preferences, error) {
	var p sources.Preferences
	err := db.Pool.QueryRow(ctx,
		`SELECT activity_source, sleep_source, nutrition_source, body_composition_source, heart_health_source
		 FROM source_preferences WHERE user_id = $1`,
		userID).Scan(&p.Activity, &p.Sleep, &p.Nutrition, &p.BodyComposition, &p.HeartHealth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sources.Preferences{}, nil
		}
		return sources.Preferences{}, fmt.Errorf("querying source preferences: %w", err)
	}
	return p, nil
}

// UpsertSourcePreference sets one category's preferred source.
// Last write wins; there is no optimistic locking.
func (db *DB) UpsertSourcePreference(ctx context.Context, userID int, category metrics.Category, sourceType string) error {
	col, ok := preferenceColumns[category]
	if !ok {
		return fmt.Errorf("no preference column for category %q", category)
	}

	// col comes from the fixed map above, never from input.
	query := fmt.Sprintf(
		`INSERT INTO source_preferences (user_id, %s) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET %s = $2, updated_at = NOW()`,
		col, col)
	if _, err := db.Pool.Exec(ctx, query, userID, sourceType); err != nil {
		return fmt.Errorf("upserting source preference: %w", err)
	}
	return nil
}

// ConnectedSources lists the providers a user has ingested data from, per
// category, with first/last ingest times. first_seen drives the resolver's
// most-recently-connected fallback.
func (db *DB) ConnectedSources(ctx context.Context, userID int) ([]sources.ConnectedSource, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT source_type, category, MIN(created_at), MAX(created_at), COUNT(*)
		 FROM metrics
		 WHERE user_id = $1
		 GROUP BY source_type, category
		 ORDER BY category, source_type`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying connected sources: %w", err)
	}
	defer rows.Close()

	var result []sources.ConnectedSource
	for rows.Next() {
		var cs sources.ConnectedSource
		if err := rows.Scan(&cs.SourceType, &cs.Category, &cs.FirstSeen, &cs.LastSeen, &cs.MetricCount); err != nil {
			return nil, fmt.Errorf("scanning connected source: %w", err)
		}
		result = append(result, cs)
	}
	return result, rows.Err()
}
