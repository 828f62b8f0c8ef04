// Package sources decides which provider is authoritative for each health
// category: it holds the per-user preference record and the resolver that
// falls back to the most recently connected source when no preference is set.
package sources

import (
	"time"

	"github.com/claude/healthsync/internal/metrics"
)

// Preferences is one user's source preference record: one optional provider
// name per category. Workouts has no field of its own; it always follows
// the activity preference.
type Preferences struct {
	Activity        *string `json:"activity,omitempty"`
	Sleep           *string `json:"sleep,omitempty"`
	Nutrition       *string `json:"nutrition,omitempty"`
	BodyComposition *string `json:"body_composition,omitempty"`
	HeartHealth     *string `json:"heart_health,omitempty"`
}

// For returns the stored provider name for a category, or "" when unset.
func (p Preferences) For(c metrics.Category) string {
	var v *string
	switch c {
	case metrics.CategoryActivity, metrics.CategoryWorkouts:
		v = p.Activity
	case metrics.CategorySleep:
		v = p.Sleep
	case metrics.CategoryNutrition:
		v = p.Nutrition
	case metrics.CategoryBodyComposition:
		v = p.BodyComposition
	case metrics.CategoryHeartHealth:
		v = p.HeartHealth
	}
	if v == nil {
		return ""
	}
	return *v
}

// ConnectedSource is one provider a user has data from in one category,
// derived from ingested rows.
type ConnectedSource struct {
	SourceType  string    `json:"source_type"`
	Category    string    `json:"category"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	MetricCount int64     `json:"metric_count"`
}
