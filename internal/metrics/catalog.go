// Package metrics defines the fixed catalog of metric types: for every
// metric type tag, the canonical unit its values are stored in and the
// health category it belongs to.
package metrics

import "sort"

// Category is one of the coarse groupings used to scope source preferences.
type Category string

const (
	CategoryActivity        Category = "activity"
	CategorySleep           Category = "sleep"
	CategoryNutrition       Category = "nutrition"
	CategoryBodyComposition Category = "body_composition"
	CategoryHeartHealth     Category = "heart_health"
	CategoryWorkouts        Category = "workouts"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryActivity,
	CategorySleep,
	CategoryNutrition,
	CategoryBodyComposition,
	CategoryHeartHealth,
	CategoryWorkouts,
}

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Definition describes one metric type: its canonical unit and category.
type Definition struct {
	Unit     string
	Category Category
}

// catalog is the fixed enumeration of metric types. Values ingested for a
// type must already be expressed in its canonical unit.
var catalog = map[string]Definition{
	// Activity
	"activity_steps":            {Unit: "steps", Category: CategoryActivity},
	"activity_distance":         {Unit: "km", Category: CategoryActivity},
	"activity_active_energy":    {Unit: "kcal", Category: CategoryActivity},
	"activity_exercise_minutes": {Unit: "min", Category: CategoryActivity},
	"activity_flights_climbed":  {Unit: "count", Category: CategoryActivity},

	// Sleep
	"sleep_duration":     {Unit: "hours", Category: CategorySleep},
	"sleep_time_in_bed":  {Unit: "hours", Category: CategorySleep},
	"sleep_awake_time":   {Unit: "hours", Category: CategorySleep},
	"sleep_efficiency":   {Unit: "percent", Category: CategorySleep},

	// Nutrition
	"nutrition_calories":      {Unit: "kcal", Category: CategoryNutrition},
	"nutrition_protein":       {Unit: "g", Category: CategoryNutrition},
	"nutrition_carbohydrates": {Unit: "g", Category: CategoryNutrition},
	"nutrition_fat":           {Unit: "g", Category: CategoryNutrition},
	"nutrition_water":         {Unit: "ml", Category: CategoryNutrition},

	// Body composition
	"body_weight":         {Unit: "kg", Category: CategoryBodyComposition},
	"body_fat_percentage": {Unit: "percent", Category: CategoryBodyComposition},
	"body_bmi":            {Unit: "count", Category: CategoryBodyComposition},
	"body_lean_mass":      {Unit: "kg", Category: CategoryBodyComposition},

	// Heart health
	"heart_rate":               {Unit: "bpm", Category: CategoryHeartHealth},
	"resting_heart_rate":       {Unit: "bpm", Category: CategoryHeartHealth},
	"heart_rate_variability":   {Unit: "ms", Category: CategoryHeartHealth},
	"blood_pressure_systolic":  {Unit: "mmHg", Category: CategoryHeartHealth},
	"blood_pressure_diastolic": {Unit: "mmHg", Category: CategoryHeartHealth},
	"blood_oxygen":             {Unit: "percent", Category: CategoryHeartHealth},

	// Workouts
	"workout_duration": {Unit: "min", Category: CategoryWorkouts},
	"workout_calories": {Unit: "kcal", Category: CategoryWorkouts},
	"workout_distance": {Unit: "km", Category: CategoryWorkouts},
}

// Lookup returns the definition for a metric type.
func Lookup(metricType string) (Definition, bool) {
	def, ok := catalog[metricType]
	return def, ok
}

// IsKnown reports whether a metric type is in the catalog.
func IsKnown(metricType string) bool {
	_, ok := catalog[metricType]
	return ok
}

// CanonicalUnit returns the canonical unit for a metric type, or "" if unknown.
func CanonicalUnit(metricType string) string {
	return catalog[metricType].Unit
}

// CategoryOf returns the category a metric type belongs to, or "" if unknown.
func CategoryOf(metricType string) Category {
	return catalog[metricType].Category
}

// TypesInCategory returns the metric types belonging to a category, sorted.
func TypesInCategory(c Category) []string {
	var names []string
	for name, def := range catalog {
		if def.Category == c {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// AllTypes returns every metric type in the catalog, sorted.
func AllTypes() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
