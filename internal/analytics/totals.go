package analytics

import (
	"sort"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// Points awarded per unit of effort: one point per 100 steps plus one per
// 10 kcal burned.
const (
	stepsPerPoint    = 100
	caloriesPerPoint = 10
)

// PointsFor computes the reward points earned by a day's totals.
func PointsFor(steps, calories int) int {
	if steps < 0 {
		steps = 0
	}
	if calories < 0 {
		calories = 0
	}
	return steps/stepsPerPoint + calories/caloriesPerPoint
}

// FoldDailyTotals buckets activities into per-day totals keyed by the UTC
// date of the activity's start time. Activities spanning midnight count
// entirely toward their start day. Callers reconcile duplicates first so a
// workout recorded by both the app and a sync provider is not counted twice.
func FoldDailyTotals(activities []models.Activity) []models.DailyTotals {
	byDay := make(map[string]*models.DailyTotals)
	for _, a := range activities {
		day := a.StartTime.UTC().Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		t, ok := byDay[key]
		if !ok {
			t = &models.DailyTotals{Date: day}
			byDay[key] = t
		}
		t.Steps += a.Steps
		t.DistanceKm += a.DistanceKm
		t.Calories += a.Calories
	}

	result := make([]models.DailyTotals, 0, len(byDay))
	for _, t := range byDay {
		t.Points = PointsFor(t.Steps, t.Calories)
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}
