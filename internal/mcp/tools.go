package mcp

import (
	"context"
	"strconv"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/analytics"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/google/uuid"
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

// --- Tool definitions ---

var toolGetActivities = mcp.NewTool("get_activities",
	mcp.WithDescription("Query tracked activities (walks, runs, commutes) with optional source and type filters. Returns activity summaries including distance, steps, calories, and average heart rate."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("type", mcp.Description("Filter by activity type"), mcp.Enum("walk", "run", "commute")),
	mcp.WithString("source", mcp.Description("Filter by record source"), mcp.Enum("app", "health_sync")),
)

var toolGetActivityAnalytics = mcp.NewTool("get_activity_analytics",
	mcp.WithDescription("Compute full analytics for one activity: per-km splits with elevation, the pace series, heart-rate zone distribution, and best/worst splits."),
	mcp.WithString("activity_id", mcp.Required(), mcp.Description("Activity UUID")),
	mcp.WithString("max_hr", mcp.Description("Reference maximum heart rate for zone classification. Defaults to the server's configured value.")),
)

var toolGetActivityStats = mcp.NewTool("get_activity_stats",
	mcp.WithDescription("Aggregate statistics for the current week or month versus the preceding period: totals, per-day averages, and the percentage change in daily distance."),
	mcp.WithString("period", mcp.Description("Aggregation period. Defaults to week."), mcp.Enum("week", "month")),
)

var toolComparePeriods = mcp.NewTool("compare_periods",
	mcp.WithDescription("Compare activity totals between two arbitrary date ranges (e.g. this month vs the same month last year)."),
	mcp.WithString("period_a_start", mcp.Required(), mcp.Description("Period A start date")),
	mcp.WithString("period_a_end", mcp.Required(), mcp.Description("Period A end date")),
	mcp.WithString("period_b_start", mcp.Required(), mcp.Description("Period B start date")),
	mcp.WithString("period_b_end", mcp.Required(), mcp.Description("Period B end date")),
)

var toolGetGoalProgress = mcp.NewTool("get_goal_progress",
	mcp.WithDescription("Daily goal targets and progress ratios (steps, distance, calories) for a given day."),
	mcp.WithString("date", mcp.Description("Day to evaluate (YYYY-MM-DD). Defaults to today.")),
)

var toolGetDataStats = mcp.NewTool("get_data_stats",
	mcp.WithDescription("Aggregate statistics about all stored data: activity counts by type and source, route and heart-rate point counts, and the covered date range."),
)

// --- Tool handlers ---

func (h *handlers) getActivities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	activities, err := h.ds.QueryActivities(ctx, start, end, uid,
		req.GetString("source", ""), req.GetString("type", ""))
	if err != nil {
		h.log.Error("mcp get_activities", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(activities)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActivityAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("activity_id")
	if err != nil {
		return mcp.NewToolResultError("activity_id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("activity_id must be a UUID"), nil
	}

	uid := UserIDFromContext(ctx)
	activity, err := h.ds.GetActivity(ctx, id, uid)
	if err != nil {
		h.log.Error("mcp get_activity_analytics", "error", err)
		return mcp.NewToolResultError("activity not found: " + err.Error()), nil
	}

	opts := h.opts
	if v := req.GetString("max_hr", ""); v != "" {
		bpm, err := strconv.Atoi(v)
		if err != nil || bpm <= 0 {
			return mcp.NewToolResultError("max_hr must be a positive integer"), nil
		}
		opts.MaxHeartRate = bpm
	}

	computed, err := analytics.Compute(*activity, opts)
	if err != nil {
		return mcp.NewToolResultError("analytics failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(computed)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActivityStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := 7
	if req.GetString("period", "week") == "month" {
		days = 30
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	currentStart := today.AddDate(0, 0, -(days - 1))
	previousStart := currentStart.AddDate(0, 0, -days)

	uid := UserIDFromContext(ctx)
	current, err := h.ds.QueryDailyTotals(ctx, uid, currentStart, today.AddDate(0, 0, 1))
	if err != nil {
		h.log.Error("mcp get_activity_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	previous, err := h.ds.QueryDailyTotals(ctx, uid, previousStart, currentStart)
	if err != nil {
		h.log.Error("mcp get_activity_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	stats := analytics.Summarize(
		analytics.FillDays(current, currentStart, days),
		analytics.FillDays(previous, previousStart, days),
		today,
	)

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) comparePeriods(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	aStart, aEnd, err := requiredRange(req, "period_a_start", "period_a_end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bStart, bEnd, err := requiredRange(req, "period_b_start", "period_b_end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	periodA, err := h.periodTotals(ctx, uid, aStart, aEnd)
	if err != nil {
		h.log.Error("mcp compare_periods", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	periodB, err := h.periodTotals(ctx, uid, bStart, bEnd)
	if err != nil {
		h.log.Error("mcp compare_periods", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	change := 0.0
	if avgB := periodB.AverageDistancePerDay(); avgB > 0 {
		change = (periodA.AverageDistancePerDay() - avgB) / avgB * 100
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"period_a":          periodA,
		"period_b":          periodB,
		"percentage_change": change,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getGoalProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if v := req.GetString("date", ""); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return mcp.NewToolResultError("date must be YYYY-MM-DD"), nil
		}
		day = parsed
	}

	uid := UserIDFromContext(ctx)
	goal, err := h.ds.GetGoal(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_goal_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	totals, err := h.ds.GetDailyTotals(ctx, uid, day)
	if err != nil {
		h.log.Error("mcp get_goal_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	goal.CurrentSteps = totals.Steps
	goal.CurrentDistanceKm = totals.DistanceKm
	goal.CurrentCalories = totals.Calories

	result, err := mcp.NewToolResultJSON(map[string]any{
		"date":     day.Format("2006-01-02"),
		"goal":     goal,
		"progress": analytics.EvaluateGoal(goal),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDataStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

// --- helpers ---

func (h *handlers) periodTotals(ctx context.Context, uid int, start, end time.Time) (models.PeriodTotals, error) {
	start = start.UTC().Truncate(24 * time.Hour)
	days := int(end.Sub(start).Hours()/24) + 1

	totals, err := h.ds.QueryDailyTotals(ctx, uid, start, start.AddDate(0, 0, days))
	if err != nil {
		return models.PeriodTotals{}, err
	}

	filled := analytics.FillDays(totals, start, days)
	p := models.PeriodTotals{Days: days}
	for _, d := range filled {
		p.Steps += d.Steps
		p.DistanceKm += d.DistanceKm
		p.Calories += d.Calories
		p.Points += d.Points
	}
	return p, nil
}

func requiredRange(req mcp.CallToolRequest, startKey, endKey string) (time.Time, time.Time, error) {
	startStr, err := req.RequireString(startKey)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endStr, err := req.RequireString(endKey)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := parseFlexTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseFlexTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
