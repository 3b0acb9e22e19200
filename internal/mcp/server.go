// Package mcp exposes the activity data and analytics engine to MCP
// clients, either against the local database or a remote server's REST API.
package mcp

import (
	"context"
	"log/slog"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/analytics"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/reconcile"
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
func New(ds DataSource, version string, opts analytics.Options, rc reconcile.Config, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Swastricare", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Swastricare activity server. Query walks, runs, and commutes, per-activity analytics (splits, pace, heart-rate zones), period statistics, and goal progress. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, opts: opts, reconcile: rc, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetActivities, Handler: h.getActivities},
		server.ServerTool{Tool: toolGetActivityAnalytics, Handler: h.getActivityAnalytics},
		server.ServerTool{Tool: toolGetActivityStats, Handler: h.getActivityStats},
		server.ServerTool{Tool: toolComparePeriods, Handler: h.comparePeriods},
		server.ServerTool{Tool: toolGetGoalProgress, Handler: h.getGoalProgress},
		server.ServerTool{Tool: toolGetDataStats, Handler: h.getDataStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDailySummary, Handler: h.dailySummary},
		server.ServerResource{Resource: resRecentActivities, Handler: h.recentActivities},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds        DataSource
	opts      analytics.Options
	reconcile reconcile.Config
	log       *slog.Logger
}

// --- Resource definitions ---

var resDailySummary = mcp.NewResource(
	"swastricare://daily_summary",
	"Daily Summary",
	mcp.WithResourceDescription("Today's activity totals, goal progress, and the day's activities"),
	mcp.WithMIMEType("application/json"),
)

var resRecentActivities = mcp.NewResource(
	"swastricare://recent_activities",
	"Recent Activities",
	mcp.WithResourceDescription("Activities from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
