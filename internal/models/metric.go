package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MetricTime handles the timestamp formats clients send: RFC 3339,
// "2006-01-02 15:04:05 -0700" (HealthKit exports), and date-only "2006-01-02".
type MetricTime struct {
	time.Time
}

const (
	ExportTimeLayout = "2006-01-02 15:04:05 -0700"
	DateOnlyLayout   = "2006-01-02"
)

func (t *MetricTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.Parse(s)
}

func (t MetricTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

// Parse parses a metric timestamp, trying RFC 3339 first, then the
// HealthKit export layout, then date-only.
func (t *MetricTime) Parse(s string) error {
	parsed, err := time.Parse(time.RFC3339, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(ExportTimeLayout, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	parsed, err3 := time.Parse(DateOnlyLayout, s)
	if err3 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse metric time %q: %w", s, err)
}

// ParseMetricTime parses a metric timestamp string into a time.Time.
func ParseMetricTime(s string) (time.Time, error) {
	var t MetricTime
	if err := t.Parse(s); err != nil {
		return time.Time{}, err
	}
	return t.Time, nil
}

// UnifiedMetric is the normalized, source-agnostic representation of one
// health observation. Value is always expressed in the canonical unit for
// its MetricType; provider mappers convert before constructing one, and
// nothing downstream converts again.
type UnifiedMetric struct {
	MetricType string            `json:"metric_type"`
	Value      float64           `json:"value"`
	Unit       string            `json:"unit"`
	SourceType string            `json:"source_type"`
	RecordedAt MetricTime        `json:"recorded_at"`
	SourceApp  string            `json:"source_app,omitempty"`
	DeviceName string            `json:"device_name,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SyncPayload is the body of a unified-metric sync request.
type SyncPayload struct {
	Metrics []json.RawMessage `json:"metrics"`
}

// Known source type tags.
const (
	SourceHealthKit = "healthkit"
	SourceWithings  = "withings"
	SourceOura      = "oura"
	SourceCSV       = "csv"
)
