package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/claude/healthsync/internal/storage"
)

func f(v float64) *float64 { return &v }

func dailyPoint(t time.Time, avg, sum float64) storage.TimeSeriesPoint {
	return storage.TimeSeriesPoint{Time: t, Avg: f(avg), Sum: f(sum)}
}

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// TestWeekAverages verifies the split into current and previous weeks.
func TestWeekAverages(t *testing.T) {
	points := []storage.TimeSeriesPoint{
		dailyPoint(now.AddDate(0, 0, -10), 8000, 8000),
		dailyPoint(now.AddDate(0, 0, -9), 6000, 6000),
		dailyPoint(now.AddDate(0, 0, -3), 10000, 10000),
		dailyPoint(now.AddDate(0, 0, -2), 12000, 12000),
	}
	cur, prev, ok := weekAverages(points, now)
	if !ok {
		t.Fatal("expected ok")
	}
	if cur != 11000 {
		t.Errorf("current = %v, want 11000", cur)
	}
	if prev != 7000 {
		t.Errorf("previous = %v, want 7000", prev)
	}
}

// TestWeekAveragesNeedsBothWeeks verifies no averages without data in both
// halves of the window.
func TestWeekAveragesNeedsBothWeeks(t *testing.T) {
	onlyCurrent := []storage.TimeSeriesPoint{dailyPoint(now.AddDate(0, 0, -2), 10000, 10000)}
	if _, _, ok := weekAverages(onlyCurrent, now); ok {
		t.Error("one-week data should not produce averages")
	}
	if _, _, ok := weekAverages(nil, now); ok {
		t.Error("empty data should not produce averages")
	}
}

// TestTrendCardUp verifies an improving steps trend produces an encouraging
// card with the right percentage.
func TestTrendCardUp(t *testing.T) {
	tm := trendMetrics[0] // activity_steps, up is good
	points := []storage.TimeSeriesPoint{
		dailyPoint(now.AddDate(0, 0, -10), 8000, 8000),
		dailyPoint(now.AddDate(0, 0, -3), 10000, 10000),
	}
	card, ok := trendCard(tm, points, now)
	if !ok {
		t.Fatal("expected a card")
	}
	if card.Type != "trend" || card.MetricType != "activity_steps" {
		t.Errorf("card = %+v", card)
	}
	if !strings.Contains(card.Title, "up 25%") {
		t.Errorf("title = %q, want up 25%%", card.Title)
	}
	if !strings.Contains(card.Body, "Keep it going.") {
		t.Errorf("body = %q", card.Body)
	}
}

// TestTrendCardBadDirection verifies a rising resting heart rate gets the
// cautionary tone.
func TestTrendCardBadDirection(t *testing.T) {
	tm := trendMetrics[2] // resting_heart_rate, up is bad
	points := []storage.TimeSeriesPoint{
		dailyPoint(now.AddDate(0, 0, -10), 50, 50),
		dailyPoint(now.AddDate(0, 0, -3), 56, 56),
	}
	card, ok := trendCard(tm, points, now)
	if !ok {
		t.Fatal("expected a card")
	}
	if !strings.Contains(card.Body, "Worth keeping an eye on.") {
		t.Errorf("body = %q", card.Body)
	}
}

// TestTrendCardSmallChange verifies changes under 3% are not worth a card.
func TestTrendCardSmallChange(t *testing.T) {
	tm := trendMetrics[0]
	points := []storage.TimeSeriesPoint{
		dailyPoint(now.AddDate(0, 0, -10), 10000, 10000),
		dailyPoint(now.AddDate(0, 0, -3), 10100, 10100),
	}
	if _, ok := trendCard(tm, points, now); ok {
		t.Error("1% change should not produce a card")
	}
}

// TestStepStreak verifies consecutive-day counting.
func TestStepStreak(t *testing.T) {
	points := []storage.TimeSeriesPoint{
		dailyPoint(now, 5000, 5000),
		dailyPoint(now.AddDate(0, 0, -1), 6000, 6000),
		dailyPoint(now.AddDate(0, 0, -2), 7000, 7000),
		dailyPoint(now.AddDate(0, 0, -4), 8000, 8000), // gap at -3 ends the streak
	}
	if got := stepStreak(points, now); got != 3 {
		t.Errorf("streak = %d, want 3", got)
	}
}

// TestStepStreakAliveWithoutToday verifies a streak survives when today has
// no data yet.
func TestStepStreakAliveWithoutToday(t *testing.T) {
	points := []storage.TimeSeriesPoint{
		dailyPoint(now.AddDate(0, 0, -1), 6000, 6000),
		dailyPoint(now.AddDate(0, 0, -2), 7000, 7000),
	}
	if got := stepStreak(points, now); got != 2 {
		t.Errorf("streak = %d, want 2", got)
	}
}

// TestStepStreakZeroSumDays verifies days with a zero sum break the streak.
func TestStepStreakZeroSumDays(t *testing.T) {
	points := []storage.TimeSeriesPoint{
		dailyPoint(now, 5000, 5000),
		{Time: now.AddDate(0, 0, -1), Sum: f(0)},
		dailyPoint(now.AddDate(0, 0, -2), 7000, 7000),
	}
	if got := stepStreak(points, now); got != 1 {
		t.Errorf("streak = %d, want 1", got)
	}
}
