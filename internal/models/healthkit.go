package models

// HealthKitPayload is the JSON body the iOS client posts after reading
// HealthKit: quantity samples, sleep analysis intervals, and workouts.
type HealthKitPayload struct {
	Samples  []HealthKitSample  `json:"samples"`
	Sleep    []HealthKitSleep   `json:"sleep"`
	Workouts []HealthKitWorkout `json:"workouts"`
}

// HealthKitSample is one HKQuantitySample. Value is in the unit the client
// read it with; the mapper converts to the canonical unit.
type HealthKitSample struct {
	Type      string     `json:"type"` // HKQuantityTypeIdentifier...
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
	StartDate MetricTime `json:"startDate"`
	EndDate   MetricTime `json:"endDate"`
	SourceApp string     `json:"sourceApp,omitempty"`
	Device    string     `json:"device,omitempty"`
}

// HealthKitSleep is one HKCategorySample sleep analysis interval.
// Value is the sub-state: "inBed", "asleep", or "awake".
type HealthKitSleep struct {
	Value     string     `json:"value"`
	StartDate MetricTime `json:"startDate"`
	EndDate   MetricTime `json:"endDate"`
	SourceApp string     `json:"sourceApp,omitempty"`
	Device    string     `json:"device,omitempty"`
}

// HealthKitWorkout is one HKWorkout session.
type HealthKitWorkout struct {
	ActivityType string      `json:"activityType"`
	StartDate    MetricTime  `json:"startDate"`
	EndDate      MetricTime  `json:"endDate"`
	DurationSec  float64     `json:"duration"`
	ActiveEnergy *HKQuantity `json:"activeEnergyBurned,omitempty"`
	Distance     *HKQuantity `json:"totalDistance,omitempty"`
	SourceApp    string      `json:"sourceApp,omitempty"`
	Device       string      `json:"device,omitempty"`
}

// HKQuantity is the {"value": N, "unit": "..."} structure.
type HKQuantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}
