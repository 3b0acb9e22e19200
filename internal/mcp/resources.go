package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/analytics"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) dailySummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	totals, err := h.ds.GetDailyTotals(ctx, uid, today)
	if err != nil {
		return nil, err
	}

	goal, err := h.ds.GetGoal(ctx, uid)
	if err != nil {
		h.log.Warn("daily_summary: goal query failed", "error", err)
	}
	goal.CurrentSteps = totals.Steps
	goal.CurrentDistanceKm = totals.DistanceKm
	goal.CurrentCalories = totals.Calories

	activities, err := h.ds.QueryActivities(ctx, today, tomorrow, uid, "", "")
	if err != nil {
		h.log.Warn("daily_summary: activity query failed", "error", err)
	}

	summary := map[string]any{
		"date":              today.Format("2006-01-02"),
		"totals":            totals,
		"goal":              goal,
		"progress":          analytics.EvaluateGoal(goal),
		"todays_activities": activities,
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

func (h *handlers) recentActivities(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	activities, err := h.ds.QueryActivities(ctx, start, end, uid, "", "")
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(activities)
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
