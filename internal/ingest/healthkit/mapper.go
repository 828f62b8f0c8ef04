// Package healthkit maps raw HealthKit records (quantity samples, sleep
// analysis intervals, workouts) into unified metrics. Mapping functions are
// pure; unrecognized sample types and unconvertible units are skipped, never
// errors.
package healthkit

import (
	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/models"
)

// converter binds an HKQuantityTypeIdentifier to a metric type and the unit
// conversion that produces the canonical value.
type converter struct {
	metricType string
	convert    func(value float64, unit string) (float64, bool)
}

// quantityConverters is the registry of recognized quantity-sample types.
// Identifiers absent from this table are silently dropped.
var quantityConverters = map[string]converter{
	"HKQuantityTypeIdentifierStepCount":                {"activity_steps", unitCount},
	"HKQuantityTypeIdentifierDistanceWalkingRunning":   {"activity_distance", toKilometers},
	"HKQuantityTypeIdentifierActiveEnergyBurned":       {"activity_active_energy", toKilocalories},
	"HKQuantityTypeIdentifierAppleExerciseTime":        {"activity_exercise_minutes", toMinutes},
	"HKQuantityTypeIdentifierFlightsClimbed":           {"activity_flights_climbed", unitCount},
	"HKQuantityTypeIdentifierHeartRate":                {"heart_rate", toBPM},
	"HKQuantityTypeIdentifierRestingHeartRate":         {"resting_heart_rate", toBPM},
	"HKQuantityTypeIdentifierHeartRateVariabilitySDNN": {"heart_rate_variability", toMilliseconds},
	"HKQuantityTypeIdentifierOxygenSaturation":         {"blood_oxygen", toPercent},
	"HKQuantityTypeIdentifierBloodPressureSystolic":    {"blood_pressure_systolic", unitMmHg},
	"HKQuantityTypeIdentifierBloodPressureDiastolic":   {"blood_pressure_diastolic", unitMmHg},
	"HKQuantityTypeIdentifierBodyMass":                 {"body_weight", toKilograms},
	"HKQuantityTypeIdentifierBodyFatPercentage":        {"body_fat_percentage", toPercent},
	"HKQuantityTypeIdentifierBodyMassIndex":            {"body_bmi", unitCount},
	"HKQuantityTypeIdentifierLeanBodyMass":             {"body_lean_mass", toKilograms},
	"HKQuantityTypeIdentifierDietaryEnergyConsumed":    {"nutrition_calories", toKilocalories},
	"HKQuantityTypeIdentifierDietaryProtein":           {"nutrition_protein", toGrams},
	"HKQuantityTypeIdentifierDietaryCarbohydrates":     {"nutrition_carbohydrates", toGrams},
	"HKQuantityTypeIdentifierDietaryFatTotal":          {"nutrition_fat", toGrams},
	"HKQuantityTypeIdentifierDietaryWater":             {"nutrition_water", toMilliliters},
}

// MapSample converts one quantity sample into zero or one unified metrics.
func MapSample(s models.HealthKitSample) []models.UnifiedMetric {
	conv, ok := quantityConverters[s.Type]
	if !ok {
		return nil
	}
	if s.StartDate.IsZero() {
		return nil
	}
	value, ok := conv.convert(s.Value, s.Unit)
	if !ok {
		return nil
	}
	return []models.UnifiedMetric{{
		MetricType: conv.metricType,
		Value:      value,
		Unit:       metrics.CanonicalUnit(conv.metricType),
		SourceType: models.SourceHealthKit,
		RecordedAt: s.StartDate,
		SourceApp:  s.SourceApp,
		DeviceName: s.Device,
	}}
}

// MapWorkout expands one workout session into duration, calorie, and
// distance metrics. Energy and distance are emitted only when present.
func MapWorkout(w models.HealthKitWorkout) []models.UnifiedMetric {
	if w.StartDate.IsZero() || w.DurationSec <= 0 {
		return nil
	}

	meta := map[string]string{"activity_type": w.ActivityType}
	out := []models.UnifiedMetric{{
		MetricType: "workout_duration",
		Value:      w.DurationSec / 60,
		Unit:       metrics.CanonicalUnit("workout_duration"),
		SourceType: models.SourceHealthKit,
		RecordedAt: w.StartDate,
		SourceApp:  w.SourceApp,
		DeviceName: w.Device,
		Metadata:   meta,
	}}

	if w.ActiveEnergy != nil {
		if kcal, ok := toKilocalories(w.ActiveEnergy.Value, w.ActiveEnergy.Unit); ok {
			out = append(out, models.UnifiedMetric{
				MetricType: "workout_calories",
				Value:      kcal,
				Unit:       metrics.CanonicalUnit("workout_calories"),
				SourceType: models.SourceHealthKit,
				RecordedAt: w.StartDate,
				SourceApp:  w.SourceApp,
				DeviceName: w.Device,
				Metadata:   meta,
			})
		}
	}

	if w.Distance != nil {
		if km, ok := toKilometers(w.Distance.Value, w.Distance.Unit); ok {
			out = append(out, models.UnifiedMetric{
				MetricType: "workout_distance",
				Value:      km,
				Unit:       metrics.CanonicalUnit("workout_distance"),
				SourceType: models.SourceHealthKit,
				RecordedAt: w.StartDate,
				SourceApp:  w.SourceApp,
				DeviceName: w.Device,
				Metadata:   meta,
			})
		}
	}

	return out
}

// MapPayload maps everything in a HealthKit payload. received is the number
// of raw records examined, for reporting skips.
func MapPayload(p *models.HealthKitPayload) (mapped []models.UnifiedMetric, received int) {
	for _, s := range p.Samples {
		received++
		mapped = append(mapped, MapSample(s)...)
	}
	for _, w := range p.Workouts {
		received++
		mapped = append(mapped, MapWorkout(w)...)
	}
	received += len(p.Sleep)
	mapped = append(mapped, MapSleep(p.Sleep)...)
	return mapped, received
}
