package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestSummarizeWeekOverWeek verifies period sums and the percentage change
// between two equal-length periods.
func TestSummarizeWeekOverWeek(t *testing.T) {
	today := day(2025, 6, 15)
	current := FillDays([]models.DailyTotals{
		{Date: day(2025, 6, 9), Steps: 8000, DistanceKm: 6, Calories: 400, Points: 120},
		{Date: day(2025, 6, 11), Steps: 10000, DistanceKm: 8, Calories: 500, Points: 150},
		{Date: day(2025, 6, 14), Steps: 6000, DistanceKm: 4, Calories: 300, Points: 90},
	}, day(2025, 6, 9), 7)
	previous := FillDays([]models.DailyTotals{
		{Date: day(2025, 6, 3), Steps: 7000, DistanceKm: 9, Calories: 450, Points: 115},
	}, day(2025, 6, 2), 7)

	stats := Summarize(current, previous, today)

	if stats.Current.Steps != 24000 {
		t.Errorf("current steps = %d, want 24000", stats.Current.Steps)
	}
	if stats.Current.Days != 7 || stats.Previous.Days != 7 {
		t.Errorf("days = %d/%d, want 7/7", stats.Current.Days, stats.Previous.Days)
	}

	// Current avg 18/7 km/day vs previous 9/7: +100%.
	if math.Abs(stats.PercentageChange-100) > 1e-9 {
		t.Errorf("percentage change = %f, want 100", stats.PercentageChange)
	}
	if stats.YesterdayDistanceKm != 4 {
		t.Errorf("yesterday distance = %f, want 4", stats.YesterdayDistanceKm)
	}
}

// TestSummarizeZeroPreviousPeriod verifies the division-by-zero convention:
// an empty previous period reports 0% change, never Infinity or NaN.
func TestSummarizeZeroPreviousPeriod(t *testing.T) {
	today := day(2025, 6, 15)
	current := FillDays([]models.DailyTotals{
		{Date: day(2025, 6, 9), DistanceKm: 3},
	}, day(2025, 6, 9), 1)
	previous := FillDays(nil, day(2025, 6, 8), 1)

	stats := Summarize(current, previous, today)
	if stats.PercentageChange != 0 {
		t.Errorf("percentage change = %f, want 0", stats.PercentageChange)
	}
	if math.IsNaN(stats.PercentageChange) || math.IsInf(stats.PercentageChange, 0) {
		t.Error("percentage change is not finite")
	}
}

// TestSummarizeYesterdayAbsent verifies the yesterday lookup defaults to 0
// when no totals exist for that date.
func TestSummarizeYesterdayAbsent(t *testing.T) {
	today := day(2025, 6, 15)
	current := FillDays([]models.DailyTotals{
		{Date: day(2025, 6, 10), DistanceKm: 5},
	}, day(2025, 6, 9), 7)

	stats := Summarize(current, nil, today)
	if stats.YesterdayDistanceKm != 0 {
		t.Errorf("yesterday distance = %f, want 0", stats.YesterdayDistanceKm)
	}
}

// TestFillDays verifies zero-filling: the result covers exactly the
// requested span with gaps as zero-valued days.
func TestFillDays(t *testing.T) {
	got := FillDays([]models.DailyTotals{
		{Date: day(2025, 6, 10), Steps: 500},
	}, day(2025, 6, 9), 3)

	if len(got) != 3 {
		t.Fatalf("length = %d, want 3", len(got))
	}
	if got[0].Steps != 0 || got[2].Steps != 0 {
		t.Errorf("gap days = %d/%d steps, want 0/0", got[0].Steps, got[2].Steps)
	}
	if got[1].Steps != 500 {
		t.Errorf("filled day steps = %d, want 500", got[1].Steps)
	}
	if !got[2].Date.Equal(day(2025, 6, 11)) {
		t.Errorf("last date = %v, want 2025-06-11", got[2].Date)
	}
}

// TestAveragePerDayEmptyPeriod verifies the guard against dividing by a
// zero day count.
func TestAveragePerDayEmptyPeriod(t *testing.T) {
	p := models.PeriodTotals{Steps: 100, DistanceKm: 2}
	if got := p.AverageStepsPerDay(); got != 100 {
		t.Errorf("avg steps/day = %f, want 100", got)
	}
	if got := p.AverageDistancePerDay(); got != 2 {
		t.Errorf("avg distance/day = %f, want 2", got)
	}
}
