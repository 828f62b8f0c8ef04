package models

import (
	"time"

	"github.com/google/uuid"
)

// MetricRow is a row ready for insertion into the metrics table.
type MetricRow struct {
	RecordedAt time.Time         `json:"recorded_at"`
	UserID     int               `json:"user_id"`
	MetricType string            `json:"metric_type"`
	Category   string            `json:"category"`
	Unit       string            `json:"unit"`
	Value      float64           `json:"value"`
	SourceType string            `json:"source_type"`
	SourceApp  string            `json:"source_app,omitempty"`
	DeviceName string            `json:"device_name,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// GoalRow is a row in the goals table.
type GoalRow struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"user_id"`
	MetricType  string    `json:"metric_type"`
	TargetValue float64   `json:"target_value"`
	Period      string    `json:"period"` // "daily" or "weekly"
	CreatedAt   time.Time `json:"created_at"`
	Active      bool      `json:"active"`
}
