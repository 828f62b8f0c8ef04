package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/healthsync/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrGoalNotFound is returned when a goal does not exist for the user.
var ErrGoalNotFound = errors.New("goal not found")

// InsertGoal creates a goal.
func (db *DB) InsertGoal(ctx context.Context, g models.GoalRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO goals (id, user_id, metric_type, target_value, period, active)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		g.ID, g.UserID, g.MetricType, g.TargetValue, g.Period, g.Active)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	return nil
}

// QueryGoals lists a user's goals, active first, newest first.
func (db *DB) QueryGoals(ctx context.Context, userID int) ([]models.GoalRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, metric_type, target_value, period, created_at, active
		 FROM goals
		 WHERE user_id = $1
		 ORDER BY active DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

	var result []models.GoalRow
	for rows.Next() {
		var g models.GoalRow
		if err := rows.Scan(&g.ID, &g.UserID, &g.MetricType, &g.TargetValue, &g.Period, &g.CreatedAt, &g.Active); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// GetGoal fetches one goal owned by the user.
func (db *DB) GetGoal(ctx context.Context, id uuid.UUID, userID int) (*models.GoalRow, error) {
	var g models.GoalRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, metric_type, target_value, period, created_at, active
		 FROM goals WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&g.ID, &g.UserID, &g.MetricType, &g.TargetValue, &g.Period, &g.CreatedAt, &g.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("querying goal: %w", err)
	}
	return &g, nil
}

// UpdateGoal updates a goal's target, period, and active flag.
func (db *DB) UpdateGoal(ctx context.Context, g models.GoalRow) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE goals SET target_value = $3, period = $4, active = $5
		 WHERE id = $1 AND user_id = $2`,
		g.ID, g.UserID, g.TargetValue, g.Period, g.Active)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// DeleteGoal removes a goal owned by the user.
func (db *DB) DeleteGoal(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}
