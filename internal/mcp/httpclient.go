package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/healthsync/internal/models"
	"github.com/claude/healthsync/internal/sources"
	"github.com/claude/healthsync/internal/storage"
)

// HTTPClient implements DataSource by calling the HealthSync REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale). Source
// preference resolution happens server-side in this mode.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// bucketToAgg maps storage bucket sizes to REST API agg parameter values.
func bucketToAgg(bucket string) string {
	switch bucket {
	case "hour":
		return "hourly"
	case "week":
		return "weekly"
	default:
		return "daily"
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) QueryMetrics(ctx context.Context, _ int, metricTypes []string, sourceType string, start, end time.Time) ([]models.MetricRow, error) {
	if len(metricTypes) == 0 {
		return nil, fmt.Errorf("httpclient: no metric types given")
	}

	params := timeParams(start, end)
	params.Set("metric", metricTypes[0])
	if sourceType != "" {
		params.Set("source", sourceType)
	}

	body, err := c.get(ctx, "/api/v1/metrics", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Metrics []models.MetricRow `json:"metrics"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode metrics: %w", err)
	}
	return resp.Metrics, nil
}

func (c *HTTPClient) GetLatestMetrics(ctx context.Context, _ int, sourceType string) ([]models.MetricRow, error) {
	params := url.Values{}
	if sourceType != "" {
		params.Set("source", sourceType)
	}

	body, err := c.get(ctx, "/api/v1/metrics/latest", params)
	if err != nil {
		return nil, err
	}

	var rows []models.MetricRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode latest metrics: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) GetTimeSeries(ctx context.Context, _ int, metricType, sourceType string, start, end time.Time, bucket string) ([]storage.TimeSeriesPoint, error) {
	params := timeParams(start, end)
	params.Set("metric", metricType)
	params.Set("agg", bucketToAgg(bucket))
	if sourceType != "" {
		params.Set("source", sourceType)
	}

	body, err := c.get(ctx, "/api/v1/timeseries", params)
	if err != nil {
		return nil, err
	}

	var points []storage.TimeSeriesPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("httpclient: decode timeseries: %w", err)
	}
	return points, nil
}

func (c *HTTPClient) GetSourcePreferences(ctx context.Context, _ int) (sources.Preferences, error) {
	body, err := c.get(ctx, "/api/v1/preferences", nil)
	if err != nil {
		return sources.Preferences{}, err
	}

	var resp struct {
		Preferences sources.Preferences `json:"preferences"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return sources.Preferences{}, fmt.Errorf("httpclient: decode preferences: %w", err)
	}
	return resp.Preferences, nil
}

func (c *HTTPClient) ConnectedSources(ctx context.Context, _ int) ([]sources.ConnectedSource, error) {
	body, err := c.get(ctx, "/api/v1/sources", nil)
	if err != nil {
		return nil, err
	}

	var connected []sources.ConnectedSource
	if err := json.Unmarshal(body, &connected); err != nil {
		return nil, fmt.Errorf("httpclient: decode connected sources: %w", err)
	}
	return connected, nil
}

func (c *HTTPClient) QueryGoals(ctx context.Context, _ int) ([]models.GoalRow, error) {
	body, err := c.get(ctx, "/api/v1/goals", nil)
	if err != nil {
		return nil, err
	}

	var goals []models.GoalRow
	if err := json.Unmarshal(body, &goals); err != nil {
		return nil, fmt.Errorf("httpclient: decode goals: %w", err)
	}
	return goals, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context, _ int) (*storage.DataStats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.DataStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}
