package healthkit

import (
	"sort"
	"strings"
	"time"

	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/models"
)

// Sleep sub-states. HealthKit's asleepCore/asleepDeep/asleepREM refinements
// all count toward asleep time.
const (
	sleepInBed  = "inbed"
	sleepAsleep = "asleep"
	sleepAwake  = "awake"
)

func normalizeSleepValue(v string) string {
	switch s := strings.ToLower(strings.ReplaceAll(v, "_", "")); s {
	case "inbed":
		return sleepInBed
	case "asleep", "asleepcore", "asleepdeep", "asleeprem", "asleepunspecified":
		return sleepAsleep
	case "awake":
		return sleepAwake
	default:
		return ""
	}
}

// dayTotals accumulates per-sub-state hours for one calendar day.
type dayTotals struct {
	day        time.Time // midnight, sample-local
	inBedHr    float64
	asleepHr   float64
	awakeHr    float64
	hasInBed   bool
	hasAsleep  bool
	hasAwake   bool
	sourceApp  string
	deviceName string
}

// MapSleep groups raw sleep intervals by the interval's local start date,
// sums durations per sub-state, and emits one metric per sub-state per day
// plus a derived sleep_efficiency when both asleep and in-bed time are
// present and in-bed time is positive. Malformed intervals (zero timestamps,
// end before start, unknown sub-state) are skipped.
func MapSleep(samples []models.HealthKitSleep) []models.UnifiedMetric {
	days := map[string]*dayTotals{}

	for _, s := range samples {
		state := normalizeSleepValue(s.Value)
		if state == "" {
			continue
		}
		if s.StartDate.IsZero() || s.EndDate.IsZero() || !s.EndDate.After(s.StartDate.Time) {
			continue
		}

		start := s.StartDate.Time
		key := start.Format("2006-01-02")
		d, ok := days[key]
		if !ok {
			d = &dayTotals{
				day:        time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
				sourceApp:  s.SourceApp,
				deviceName: s.Device,
			}
			days[key] = d
		}

		hours := s.EndDate.Sub(start).Hours()
		switch state {
		case sleepInBed:
			d.inBedHr += hours
			d.hasInBed = true
		case sleepAsleep:
			d.asleepHr += hours
			d.hasAsleep = true
		case sleepAwake:
			d.awakeHr += hours
			d.hasAwake = true
		}
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []models.UnifiedMetric
	for _, k := range keys {
		d := days[k]
		emit := func(metricType string, value float64) {
			out = append(out, models.UnifiedMetric{
				MetricType: metricType,
				Value:      value,
				Unit:       metrics.CanonicalUnit(metricType),
				SourceType: models.SourceHealthKit,
				RecordedAt: models.MetricTime{Time: d.day},
				SourceApp:  d.sourceApp,
				DeviceName: d.deviceName,
			})
		}

		if d.hasAsleep {
			emit("sleep_duration", d.asleepHr)
		}
		if d.hasInBed {
			emit("sleep_time_in_bed", d.inBedHr)
		}
		if d.hasAwake {
			emit("sleep_awake_time", d.awakeHr)
		}
		if d.hasAsleep && d.hasInBed && d.inBedHr > 0 {
			emit("sleep_efficiency", d.asleepHr/d.inBedHr*100)
		}
	}
	return out
}
