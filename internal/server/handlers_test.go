package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/healthsync/internal/metrics"
	"github.com/claude/healthsync/internal/sources"
)

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
}

// TestHandleCatalog verifies the catalog endpoint lists every metric type
// with unit and category.
func TestHandleCatalog(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()

	s.handleCatalog(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var entries []catalogEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(entries) != len(metrics.AllTypes()) {
		t.Errorf("entries = %d, want %d", len(entries), len(metrics.AllTypes()))
	}
	for _, e := range entries {
		if e.Unit == "" || e.Category == "" {
			t.Errorf("incomplete entry: %+v", e)
		}
	}
}

// TestResolveQueryTypesMetric verifies single-metric query resolution.
func TestResolveQueryTypesMetric(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics?metric=body_weight", nil)
	types, category, ok := resolveQueryTypes(req)
	if !ok {
		t.Fatal("expected ok")
	}
	if len(types) != 1 || types[0] != "body_weight" {
		t.Errorf("types = %v", types)
	}
	if category != metrics.CategoryBodyComposition {
		t.Errorf("category = %q", category)
	}
}

// TestResolveQueryTypesCategory verifies category queries expand to every
// type in the category.
func TestResolveQueryTypesCategory(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics?category=sleep", nil)
	types, category, ok := resolveQueryTypes(req)
	if !ok {
		t.Fatal("expected ok")
	}
	if len(types) != 4 {
		t.Errorf("types = %v, want the 4 sleep metrics", types)
	}
	if category != metrics.CategorySleep {
		t.Errorf("category = %q", category)
	}
}

// TestResolveQueryTypesInvalid verifies unknown metrics, unknown categories,
// and missing parameters all fail.
func TestResolveQueryTypesInvalid(t *testing.T) {
	for _, target := range []string{
		"/api/v1/metrics",
		"/api/v1/metrics?metric=vibes",
		"/api/v1/metrics?category=cardio",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if _, _, ok := resolveQueryTypes(req); ok {
			t.Errorf("%s: expected !ok", target)
		}
	}
}

// TestParseTimeRangeDefault verifies the 7-day default window.
func TestParseTimeRangeDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := end.Sub(start); d < 167*time.Hour || d > 169*time.Hour {
		t.Errorf("window = %v, want ~168h", d)
	}
}

// TestParseTimeRangeDateOnly verifies date-only end values extend to the end
// of that day.
func TestParseTimeRangeDateOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics?start=2024-03-01&end=2024-03-15", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Day() != 1 {
		t.Errorf("start = %v", start)
	}
	// End-of-day: the 15th is included, so end lands on the 16th at midnight.
	if end.Day() != 16 {
		t.Errorf("end = %v, want midnight on the 16th", end)
	}
}

// TestParseTimeRangeRFC3339 verifies full timestamps pass through unchanged.
func TestParseTimeRangeRFC3339(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics?start=2024-03-01T06:00:00Z&end=2024-03-15T18:00:00Z", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 6 || end.Hour() != 18 {
		t.Errorf("start = %v, end = %v", start, end)
	}
}

// TestParseTimeRangeInvalid verifies garbage timestamps are rejected.
func TestParseTimeRangeInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics?start=last-tuesday", nil)
	if _, _, err := parseTimeRange(req); err == nil {
		t.Error("expected error for invalid start")
	}
}

// TestWriteValidationError verifies resolver validation failures map to 400
// while other errors fall through.
func TestWriteValidationError(t *testing.T) {
	for _, err := range []error{
		sources.ErrUnknownCategory,
		sources.ErrNotConnected,
		sources.ErrWorkoutsAlias,
		fmt.Errorf("rejected: %w", sources.ErrNotConnected),
	} {
		rec := httptest.NewRecorder()
		if !writeValidationError(rec, err) {
			t.Errorf("%v: expected handled", err)
			continue
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%v: status = %d, want 400", err, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	if writeValidationError(rec, fmt.Errorf("connection refused")) {
		t.Error("infrastructure error should not be handled as validation")
	}
}

// TestGoalRequestValidate verifies goal body validation rules.
func TestGoalRequestValidate(t *testing.T) {
	good := goalRequest{MetricType: "activity_steps", TargetValue: 10000, Period: "daily"}
	if msg := good.validate(); msg != "" {
		t.Errorf("valid goal rejected: %s", msg)
	}

	cases := []goalRequest{
		{MetricType: "vibes", TargetValue: 10, Period: "daily"},
		{MetricType: "activity_steps", TargetValue: 0, Period: "daily"},
		{MetricType: "activity_steps", TargetValue: 10, Period: "monthly"},
	}
	for i, c := range cases {
		if msg := c.validate(); msg == "" {
			t.Errorf("case %d should fail validation", i)
		}
	}
}
