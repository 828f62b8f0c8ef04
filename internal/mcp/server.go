package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/healthsync/internal/sources"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
// resolver may be nil when the data source resolves preferred sources
// itself (the remote HTTP mode, where the server applies preferences).
func New(ds DataSource, resolver *sources.Resolver, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("HealthSync", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("HealthSync health data server. Query unified health metrics from HealthKit, Withings, Oura, and CSV imports. Queries default to each category's preferred source. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, resolver: resolver, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetMetrics, Handler: h.getMetrics},
		server.ServerTool{Tool: toolGetTimeSeries, Handler: h.getTimeSeries},
		server.ServerTool{Tool: toolGetLatestMetrics, Handler: h.getLatestMetrics},
		server.ServerTool{Tool: toolGetSourcePreferences, Handler: h.getSourcePreferences},
		server.ServerTool{Tool: toolListConnectedSources, Handler: h.listConnectedSources},
		server.ServerTool{Tool: toolGetGoals, Handler: h.getGoals},
		server.ServerTool{Tool: toolGetDataStats, Handler: h.getDataStats},
		server.ServerTool{Tool: toolListMetricTypes, Handler: h.listMetricTypes},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDailySummary, Handler: h.dailySummary},
		server.ServerResource{Resource: resConnectedSources, Handler: h.connectedSources},
		server.ServerResource{Resource: resMetricCatalog, Handler: h.metricCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds       DataSource
	resolver *sources.Resolver
	log      *slog.Logger
}

// --- Resource definitions ---

var resDailySummary = mcp.NewResource(
	"healthsync://daily_summary",
	"Daily Summary",
	mcp.WithResourceDescription("Latest reading per metric type plus overall data coverage"),
	mcp.WithMIMEType("application/json"),
)

var resConnectedSources = mcp.NewResource(
	"healthsync://connected_sources",
	"Connected Sources",
	mcp.WithResourceDescription("Data sources that have synced metrics, per health category, with first/last seen times"),
	mcp.WithMIMEType("application/json"),
)

var resMetricCatalog = mcp.NewResource(
	"healthsync://metric_catalog",
	"Metric Catalog",
	mcp.WithResourceDescription("All unified metric types with canonical units and health categories"),
	mcp.WithMIMEType("application/json"),
)
