package mcp

import (
	"context"
	"time"

	"github.com/claude/healthsync/internal/metrics"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// resolveSource picks the source to filter by. An explicit source argument
// wins; otherwise the resolver (when present) applies the user's category
// preference, falling back to the most recently connected source.
func (h *handlers) resolveSource(ctx context.Context, uid int, explicit string, category metrics.Category) (string, error) {
	if explicit != "" || h.resolver == nil {
		return explicit, nil
	}
	source, _, err := h.resolver.Resolve(ctx, uid, category)
	return source, err
}

// --- Tool definitions ---

var toolGetMetrics = mcp.NewTool("get_metrics",
	mcp.WithDescription("Retrieve raw unified metric readings for one metric type, ordered by recording time ascending. Filtered to the category's preferred source unless a source is given."),
	mcp.WithString("metric", mcp.Required(), mcp.Description("Metric type (e.g. activity_steps, sleep_duration, body_weight, resting_heart_rate)")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("source", mcp.Description("Filter by source (healthkit, withings, oura, csv). Defaults to the preferred source for the metric's category."), mcp.Enum("healthkit", "withings", "oura", "csv")),
)

var toolGetTimeSeries = mcp.NewTool("get_timeseries",
	mcp.WithDescription("Retrieve time-bucketed aggregates (avg/min/max/sum/count) for one metric type."),
	mcp.WithString("metric", mcp.Required(), mcp.Description("Metric type")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Bucket size. Defaults to 'day'."), mcp.Enum("hour", "day", "week")),
	mcp.WithString("source", mcp.Description("Filter by source. Defaults to the preferred source."), mcp.Enum("healthkit", "withings", "oura", "csv")),
)

var toolGetLatestMetrics = mcp.NewTool("get_latest_metrics",
	mcp.WithDescription("Get the most recent reading for every metric type the user has data for."),
	mcp.WithString("source", mcp.Description("Filter by source. Defaults to all sources."), mcp.Enum("healthkit", "withings", "oura", "csv")),
)

var toolGetSourcePreferences = mcp.NewTool("get_source_preferences",
	mcp.WithDescription("Show which data source is preferred per health category (activity, sleep, nutrition, body_composition, heart_health). Workouts always follows the activity preference."),
)

var toolListConnectedSources = mcp.NewTool("list_connected_sources",
	mcp.WithDescription("List data sources that have synced metrics, per category, with first/last seen times and row counts."),
)

var toolGetGoals = mcp.NewTool("get_goals",
	mcp.WithDescription("List the user's metric goals (target value per daily or weekly period)."),
)

var toolGetDataStats = mcp.NewTool("get_data_stats",
	mcp.WithDescription("Overall data coverage: total rows, earliest and latest readings, and per-category row counts."),
)

var toolListMetricTypes = mcp.NewTool("list_metric_types",
	mcp.WithDescription("List all unified metric types with their canonical units and health categories."),
)

// --- Tool handlers ---

func (h *handlers) getMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric, err := req.RequireString("metric")
	if err != nil {
		return mcp.NewToolResultError("metric parameter is required"), nil
	}
	if !metrics.IsKnown(metric) {
		return mcp.NewToolResultError("unknown metric type: " + metric), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	source, err := h.resolveSource(ctx, uid, req.GetString("source", ""), metrics.CategoryOf(metric))
	if err != nil {
		h.log.Error("mcp get_metrics resolve", "error", err)
		return mcp.NewToolResultError("source resolution failed: " + err.Error()), nil
	}

	rows, err := h.ds.QueryMetrics(ctx, uid, []string{metric}, source, start, end)
	if err != nil {
		h.log.Error("mcp get_metrics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"source":  source,
		"metrics": rows,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTimeSeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric, err := req.RequireString("metric")
	if err != nil {
		return mcp.NewToolResultError("metric parameter is required"), nil
	}
	if !metrics.IsKnown(metric) {
		return mcp.NewToolResultError("unknown metric type: " + metric), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	bucket := req.GetString("bucket", "day")
	uid := UserIDFromContext(ctx)

	source, err := h.resolveSource(ctx, uid, req.GetString("source", ""), metrics.CategoryOf(metric))
	if err != nil {
		h.log.Error("mcp get_timeseries resolve", "error", err)
		return mcp.NewToolResultError("source resolution failed: " + err.Error()), nil
	}

	points, err := h.ds.GetTimeSeries(ctx, uid, metric, source, start, end, bucket)
	if err != nil {
		h.log.Error("mcp get_timeseries", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLatestMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	rows, err := h.ds.GetLatestMetrics(ctx, uid, req.GetString("source", ""))
	if err != nil {
		h.log.Error("mcp get_latest_metrics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSourcePreferences(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	prefs, err := h.ds.GetSourcePreferences(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_source_preferences", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(prefs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listConnectedSources(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	connected, err := h.ds.ConnectedSources(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_connected_sources", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(connected)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getGoals(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	goals, err := h.ds.QueryGoals(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_goals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(goals)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDataStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.GetDataStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_data_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listMetricTypes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(catalogEntries())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
