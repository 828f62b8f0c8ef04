// Package insights produces template-generated insight cards from stored
// aggregates. Generation is deterministic: the same data yields the same
// cards.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/sources"
	"github.com/claude/healthsync/internal/storage"
)

// Card is one insight shown on the client's coaching feed.
type Card struct {
	Type       string `json:"type"` // "trend", "streak"
	MetricType string `json:"metric_type"`
	Category   string `json:"category"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// trendMetric describes one metric the generator watches, with the display
// name and whether an increase is good news.
type trendMetric struct {
	metricType string
	label      string
	unit       string
	upIsGood   bool
}

var trendMetrics = []trendMetric{
	{"activity_steps", "steps", "steps", true},
	{"sleep_duration", "sleep", "hours", true},
	{"resting_heart_rate", "resting heart rate", "bpm", false},
	{"body_weight", "weight", "kg", false},
}

// Generator builds insight cards from the metric store.
type Generator struct {
	db       *storage.DB
	resolver *sources.Resolver
	log      *slog.Logger
}

// NewGenerator creates an insight generator.
func NewGenerator(db *storage.DB, resolver *sources.Resolver, log *slog.Logger) *Generator {
	return &Generator{db: db, resolver: resolver, log: log}
}

// Generate returns insight cards for the user based on the last two weeks
// of data from each metric's resolved source. Metrics with no data produce
// no cards.
func (g *Generator) Generate(ctx context.Context, userID int, now time.Time) ([]Card, error) {
	cards := []Card{}

	for _, tm := range trendMetrics {
		category := metrics.CategoryOf(tm.metricType)
		source, _, err := g.resolver.Resolve(ctx, userID, category)
		if err != nil {
			return nil, fmt.Errorf("resolving source for %s: %w", category, err)
		}
		if source == "" {
			continue
		}

		points, err := g.db.GetTimeSeries(ctx, userID, tm.metricType, source, now.AddDate(0, 0, -14), now, "day")
		if err != nil {
			return nil, fmt.Errorf("loading %s series: %w", tm.metricType, err)
		}

		if card, ok := trendCard(tm, points, now); ok {
			cards = append(cards, card)
		}
	}

	if card, ok := g.streakCard(ctx, userID, now); ok {
		cards = append(cards, card)
	}

	return cards, nil
}

// weekAverages splits daily points into the last 7 days and the 7 days
// before that, returning the average daily value of each half.
func weekAverages(points []storage.TimeSeriesPoint, now time.Time) (current, previous float64, ok bool) {
	weekAgo := now.AddDate(0, 0, -7)
	var curSum, prevSum float64
	var curN, prevN int

	for _, p := range points {
		if p.Avg == nil {
			continue
		}
		if p.Time.Before(weekAgo) {
			prevSum += *p.Avg
			prevN++
		} else {
			curSum += *p.Avg
			curN++
		}
	}
	if curN == 0 || prevN == 0 {
		return 0, 0, false
	}
	return curSum / float64(curN), prevSum / float64(prevN), true
}

// trendCard builds a week-over-week trend card, or reports false when the
// data is too thin or the change too small to mention.
func trendCard(tm trendMetric, points []storage.TimeSeriesPoint, now time.Time) (Card, bool) {
	cur, prev, ok := weekAverages(points, now)
	if !ok || prev == 0 {
		return Card{}, false
	}

	changePct := (cur - prev) / prev * 100
	if math.Abs(changePct) < 3 {
		return Card{}, false
	}

	direction := "up"
	if changePct < 0 {
		direction = "down"
	}
	tone := "Keep it going."
	if (changePct > 0) != tm.upIsGood {
		tone = "Worth keeping an eye on."
	}

	return Card{
		Type:       "trend",
		MetricType: tm.metricType,
		Category:   string(metrics.CategoryOf(tm.metricType)),
		Title:      fmt.Sprintf("Your %s is %s %.0f%%", tm.label, direction, math.Abs(changePct)),
		Body: fmt.Sprintf("You averaged %.1f %s per day this week, compared to %.1f the week before. %s",
			cur, tm.unit, prev, tone),
	}, true
}

// streakCard reports the current consecutive-day step streak.
func (g *Generator) streakCard(ctx context.Context, userID int, now time.Time) (Card, bool) {
	source, _, err := g.resolver.Resolve(ctx, userID, metrics.CategoryActivity)
	if err != nil || source == "" {
		return Card{}, false
	}

	points, err := g.db.GetTimeSeries(ctx, userID, "activity_steps", source, now.AddDate(0, 0, -30), now, "day")
	if err != nil {
		g.log.Warn("streak query failed", "error", err)
		return Card{}, false
	}

	streak := stepStreak(points, now)
	if streak < 3 {
		return Card{}, false
	}
	return Card{
		Type:       "streak",
		MetricType: "activity_steps",
		Category:   string(metrics.CategoryActivity),
		Title:      fmt.Sprintf("%d-day activity streak", streak),
		Body:       fmt.Sprintf("You have recorded steps %d days in a row.", streak),
	}, true
}

// stepStreak counts consecutive days ending today (or yesterday) with a
// positive step sum.
func stepStreak(points []storage.TimeSeriesPoint, now time.Time) int {
	days := map[string]bool{}
	for _, p := range points {
		if p.Sum != nil && *p.Sum > 0 {
			days[p.Time.Format("2006-01-02")] = true
		}
	}

	day := now
	// A streak is still alive if today has no data yet.
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
