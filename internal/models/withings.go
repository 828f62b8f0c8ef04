package models

// WithingsPayload is the relevant slice of a Withings Measure API response
// (body.measuregrps), fetched by the provider-sync job.
type WithingsPayload struct {
	MeasureGroups []WithingsMeasureGroup `json:"measuregrps"`
}

// WithingsMeasureGroup is one measurement session from a Withings device.
type WithingsMeasureGroup struct {
	GroupID  int64             `json:"grpid"`
	Date     int64             `json:"date"` // unix seconds
	DeviceID string            `json:"deviceid,omitempty"`
	Measures []WithingsMeasure `json:"measures"`
}

// WithingsMeasure is one value inside a measure group. The real value is
// Value * 10^Unit (Unit is a decimal exponent, usually negative).
type WithingsMeasure struct {
	Value int64 `json:"value"`
	Type  int   `json:"type"`
	Unit  int   `json:"unit"`
}

// Float returns the decoded measurement value.
func (m WithingsMeasure) Float() float64 {
	v := float64(m.Value)
	exp := m.Unit
	for exp > 0 {
		v *= 10
		exp--
	}
	for exp < 0 {
		v /= 10
		exp++
	}
	return v
}
