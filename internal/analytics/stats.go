package analytics

import (
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// FillDays expands sparse daily totals into one entry per day starting at
// start (midnight UTC) for the given number of days, zero-filling days with
// no data. Period averages then divide by the period length rather than by
// the number of active days.
func FillDays(totals []models.DailyTotals, start time.Time, days int) []models.DailyTotals {
	byDate := make(map[string]models.DailyTotals, len(totals))
	for _, t := range totals {
		byDate[dayKey(t.Date)] = t
	}

	out := make([]models.DailyTotals, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		if t, ok := byDate[dayKey(date)]; ok {
			out = append(out, t)
		} else {
			out = append(out, models.DailyTotals{Date: date})
		}
	}
	return out
}

// Summarize folds a period's daily totals and the immediately preceding
// period of equal length into ActivityStatistics. It holds no state between
// calls and never reports NaN or Infinity: when the previous period average
// is zero the percentage change is zero by convention.
func Summarize(current, previous []models.DailyTotals, today time.Time) models.ActivityStatistics {
	stats := models.ActivityStatistics{
		Current:  sumPeriod(current),
		Previous: sumPeriod(previous),
	}

	prevAvg := stats.Previous.AverageDistancePerDay()
	if prevAvg > 0 {
		curAvg := stats.Current.AverageDistancePerDay()
		stats.PercentageChange = (curAvg - prevAvg) / prevAvg * 100
	}

	yesterday := dayKey(today.AddDate(0, 0, -1))
	for _, d := range current {
		if dayKey(d.Date) == yesterday {
			stats.YesterdayDistanceKm = d.DistanceKm
			break
		}
	}

	return stats
}

func sumPeriod(days []models.DailyTotals) models.PeriodTotals {
	p := models.PeriodTotals{Days: len(days)}
	for _, d := range days {
		p.Steps += d.Steps
		p.DistanceKm += d.DistanceKm
		p.Calories += d.Calories
		p.Points += d.Points
	}
	return p
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
