package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/healthsync/internal/metrics"
)

// fakeStore is an in-memory Store for resolver tests.
type fakeStore struct {
	prefs     Preferences
	connected []ConnectedSource
	upserts   map[metrics.Category]string
	failWith  error
}

func (f *fakeStore) GetSourcePreferences(_ context.Context, _ int) (Preferences, error) {
	if f.failWith != nil {
		return Preferences{}, f.failWith
	}
	return f.prefs, nil
}

func (f *fakeStore) UpsertSourcePreference(_ context.Context, _ int, category metrics.Category, sourceType string) error {
	if f.upserts == nil {
		f.upserts = map[metrics.Category]string{}
	}
	f.upserts[category] = sourceType
	return nil
}

func (f *fakeStore) ConnectedSources(_ context.Context, _ int) ([]ConnectedSource, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.connected, nil
}

func strPtr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

// TestResolveExplicitPreference verifies a stored preference wins over any
// connected-source fallback.
func TestResolveExplicitPreference(t *testing.T) {
	store := &fakeStore{
		prefs: Preferences{Sleep: strPtr("oura")},
		connected: []ConnectedSource{
			{SourceType: "healthkit", Category: "sleep", FirstSeen: day(20)},
		},
	}
	r := NewResolver(store)

	source, explicit, err := r.Resolve(context.Background(), 1, metrics.CategorySleep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "oura" {
		t.Errorf("source = %q, want oura", source)
	}
	if !explicit {
		t.Error("explicit = false, want true")
	}
}

// TestResolveFallbackMostRecent verifies the fallback picks the most
// recently connected source for the category.
func TestResolveFallbackMostRecent(t *testing.T) {
	store := &fakeStore{
		connected: []ConnectedSource{
			{SourceType: "healthkit", Category: "activity", FirstSeen: day(1)},
			{SourceType: "oura", Category: "activity", FirstSeen: day(10)},
			{SourceType: "withings", Category: "body_composition", FirstSeen: day(20)},
		},
	}
	r := NewResolver(store)

	source, explicit, err := r.Resolve(context.Background(), 1, metrics.CategoryActivity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "oura" {
		t.Errorf("source = %q, want oura", source)
	}
	if explicit {
		t.Error("explicit = true for fallback, want false")
	}
}

// TestResolveFallbackTieBreak verifies the lexicographically smaller source
// name wins a first-seen tie, keeping resolution deterministic.
func TestResolveFallbackTieBreak(t *testing.T) {
	store := &fakeStore{
		connected: []ConnectedSource{
			{SourceType: "oura", Category: "sleep", FirstSeen: day(5)},
			{SourceType: "healthkit", Category: "sleep", FirstSeen: day(5)},
		},
	}
	r := NewResolver(store)

	source, _, err := r.Resolve(context.Background(), 1, metrics.CategorySleep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "healthkit" {
		t.Errorf("source = %q, want healthkit", source)
	}
}

// TestResolveNoData verifies an empty source with nil error when the user
// has no data for the category.
func TestResolveNoData(t *testing.T) {
	r := NewResolver(&fakeStore{})
	source, explicit, err := r.Resolve(context.Background(), 1, metrics.CategoryNutrition)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "" || explicit {
		t.Errorf("got %q/%v, want empty/false", source, explicit)
	}
}

// TestResolveWorkoutsFollowsActivity verifies workouts resolves through the
// activity preference.
func TestResolveWorkoutsFollowsActivity(t *testing.T) {
	store := &fakeStore{prefs: Preferences{Activity: strPtr("healthkit")}}
	r := NewResolver(store)

	source, explicit, err := r.Resolve(context.Background(), 1, metrics.CategoryWorkouts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "healthkit" || !explicit {
		t.Errorf("got %q/%v, want healthkit/true", source, explicit)
	}
}

// TestResolveWorkoutsDataFeedsActivityFallback verifies workout rows count
// as an activity connection when no preference is set.
func TestResolveWorkoutsDataFeedsActivityFallback(t *testing.T) {
	store := &fakeStore{
		connected: []ConnectedSource{
			{SourceType: "healthkit", Category: "workouts", FirstSeen: day(3)},
		},
	}
	r := NewResolver(store)

	source, _, err := r.Resolve(context.Background(), 1, metrics.CategoryActivity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "healthkit" {
		t.Errorf("source = %q, want healthkit", source)
	}
}

// TestResolveUnknownCategory verifies category validation.
func TestResolveUnknownCategory(t *testing.T) {
	r := NewResolver(&fakeStore{})
	_, _, err := r.Resolve(context.Background(), 1, metrics.Category("cardio"))
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("err = %v, want ErrUnknownCategory", err)
	}
}

// TestSetPreferredValidatesConnection verifies a preference can only point
// at a source with data in that category.
func TestSetPreferredValidatesConnection(t *testing.T) {
	store := &fakeStore{
		connected: []ConnectedSource{
			{SourceType: "withings", Category: "body_composition", FirstSeen: day(1)},
		},
	}
	r := NewResolver(store)

	if err := r.SetPreferred(context.Background(), 1, metrics.CategoryBodyComposition, "withings"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if store.upserts[metrics.CategoryBodyComposition] != "withings" {
		t.Errorf("upserts = %v", store.upserts)
	}

	err := r.SetPreferred(context.Background(), 1, metrics.CategorySleep, "withings")
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

// TestSetPreferredWorkoutsRejected verifies the workouts alias cannot hold
// its own preference.
func TestSetPreferredWorkoutsRejected(t *testing.T) {
	r := NewResolver(&fakeStore{
		connected: []ConnectedSource{
			{SourceType: "healthkit", Category: "workouts", FirstSeen: day(1)},
		},
	})
	err := r.SetPreferred(context.Background(), 1, metrics.CategoryWorkouts, "healthkit")
	if !errors.Is(err, ErrWorkoutsAlias) {
		t.Errorf("err = %v, want ErrWorkoutsAlias", err)
	}
}

// TestSetPreferredActivityAcceptsWorkoutData verifies workout-only sources
// satisfy the connection check for the activity category.
func TestSetPreferredActivityAcceptsWorkoutData(t *testing.T) {
	store := &fakeStore{
		connected: []ConnectedSource{
			{SourceType: "healthkit", Category: "workouts", FirstSeen: day(1)},
		},
	}
	r := NewResolver(store)
	if err := r.SetPreferred(context.Background(), 1, metrics.CategoryActivity, "healthkit"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestPreferencesFor verifies the per-category accessor including the
// workouts alias and the unset case.
func TestPreferencesFor(t *testing.T) {
	p := Preferences{Activity: strPtr("oura"), HeartHealth: strPtr("withings")}
	if got := p.For(metrics.CategoryActivity); got != "oura" {
		t.Errorf("activity = %q", got)
	}
	if got := p.For(metrics.CategoryWorkouts); got != "oura" {
		t.Errorf("workouts = %q, want activity's oura", got)
	}
	if got := p.For(metrics.CategorySleep); got != "" {
		t.Errorf("sleep = %q, want empty", got)
	}
}

// TestResolveStoreError verifies store failures propagate.
func TestResolveStoreError(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewResolver(&fakeStore{failWith: boom})
	_, _, err := r.Resolve(context.Background(), 1, metrics.CategorySleep)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}
