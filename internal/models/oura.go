package models

// OuraPayload is the relevant slice of Oura v2 API daily documents,
// fetched by the provider-sync job.
type OuraPayload struct {
	Sleep     []OuraDailySleep    `json:"sleep"`
	Activity  []OuraDailyActivity `json:"daily_activity"`
	HeartRate []OuraHeartRate     `json:"heartrate"`
}

// OuraDailySleep is one night's sleep document. Durations are in seconds.
type OuraDailySleep struct {
	Day                string  `json:"day"` // date-only: "2024-02-06"
	TotalSleepDuration float64 `json:"total_sleep_duration"`
	TimeInBed          float64 `json:"time_in_bed"`
	AwakeTime          float64 `json:"awake_time"`
	Efficiency         float64 `json:"efficiency"` // percent, 0 when absent
}

// OuraDailyActivity is one day's activity document.
type OuraDailyActivity struct {
	Day            string  `json:"day"`
	Steps          float64 `json:"steps"`
	ActiveCalories float64 `json:"active_calories"`
	WalkingMeters  float64 `json:"equivalent_walking_distance"`
}

// OuraHeartRate is one heart rate reading.
type OuraHeartRate struct {
	BPM       float64    `json:"bpm"`
	Source    string     `json:"source,omitempty"` // awake, rest, sleep...
	Timestamp MetricTime `json:"timestamp"`
}
