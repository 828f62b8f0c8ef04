package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/healthsync/internal/metrics"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) dailySummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	latest, err := h.ds.GetLatestMetrics(ctx, uid, "")
	if err != nil {
		return nil, err
	}

	stats, err := h.ds.GetDataStats(ctx, uid)
	if err != nil {
		h.log.Warn("daily_summary: stats failed", "error", err)
	}

	summary := map[string]any{
		"date":           time.Now().Format("2006-01-02"),
		"latest_metrics": latest,
		"data_stats":     stats,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) connectedSources(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	connected, err := h.ds.ConnectedSources(ctx, uid)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(connected)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// catalogEntry is one metric type in the catalog listing.
type catalogEntry struct {
	MetricType string `json:"metric_type"`
	Unit       string `json:"unit"`
	Category   string `json:"category"`
}

func catalogEntries() []catalogEntry {
	entries := make([]catalogEntry, 0)
	for _, name := range metrics.AllTypes() {
		def, _ := metrics.Lookup(name)
		entries = append(entries, catalogEntry{
			MetricType: name,
			Unit:       def.Unit,
			Category:   string(def.Category),
		})
	}
	return entries
}

func (h *handlers) metricCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(catalogEntries())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
