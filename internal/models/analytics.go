package models

import (
	"time"

	"github.com/google/uuid"
)

// Split is one ~1 km segment of a tracked route. The final split of a route
// may cover less than 1000 m and is still emitted.
type Split struct {
	Index          int       `json:"index"` // 1-based, contiguous
	DistanceMeters float64   `json:"distance_meters"`
	DurationSec    int       `json:"duration_sec"`
	PaceSecPerKm   int       `json:"pace_sec_per_km"` // 0 means unavailable
	ElevationGainM float64   `json:"elevation_gain_m"`
	ElevationLossM float64   `json:"elevation_loss_m"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	AvgHeartRate   *int      `json:"avg_heart_rate,omitempty"`
}

// PaceSample is one point of the continuous pace/speed curve used for
// charting, independent of split boundaries.
type PaceSample struct {
	CumulativeDistanceKm float64   `json:"cumulative_distance_km"`
	PaceSecPerKm         int       `json:"pace_sec_per_km"` // 0 means no movement
	Time                 time.Time `json:"time"`
	SpeedKmh             float64   `json:"speed_kmh"`
}

// HeartRateZone is a banded classification of heart rate as a percentage of
// a reference maximum. Zones are ordered from lightest to hardest effort.
type HeartRateZone int

const (
	ZoneRecovery HeartRateZone = iota // <60% of max
	ZoneFatBurn                       // 60-70%
	ZoneCardio                        // 70-80%
	ZonePeak                          // 80-90%
	ZoneMaximum                       // >=90%
)

var zoneNames = [...]string{"recovery", "fat_burn", "cardio", "peak", "maximum"}

func (z HeartRateZone) String() string {
	if z < ZoneRecovery || z > ZoneMaximum {
		return "unknown"
	}
	return zoneNames[z]
}

// MarshalText lets HeartRateZone serialize as its name in JSON map keys.
func (z HeartRateZone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// ZoneCount is the number of heart-rate zones.
const ZoneCount = 5

// ZoneDistribution accumulates dwell time per heart-rate zone.
type ZoneDistribution struct {
	Time [ZoneCount]time.Duration `json:"time"`
}

// Total returns the summed dwell time across all zones.
func (d ZoneDistribution) Total() time.Duration {
	var total time.Duration
	for _, t := range d.Time {
		total += t
	}
	return total
}

// Percentage returns the share of total dwell time spent in the given zone,
// in percent. Zero when no time has been accumulated.
func (d ZoneDistribution) Percentage(z HeartRateZone) float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	return float64(d.Time[z]) / float64(total) * 100
}

// HeartRateSummary holds observed (not reference) heart-rate scalars.
type HeartRateSummary struct {
	Avg int `json:"avg"`
	Max int `json:"max"`
	Min int `json:"min"`
}

// ActivityAnalytics is the fully materialized analysis of one activity.
// It is a pure function of the activity: recomputed on demand, never stored
// as authoritative state.
type ActivityAnalytics struct {
	ActivityID uuid.UUID `json:"activity_id"`

	Splits      []Split      `json:"splits"`
	PaceSamples []PaceSample `json:"pace_samples"`

	Zones     *ZoneDistribution `json:"zones,omitempty"`
	HeartRate *HeartRateSummary `json:"heart_rate,omitempty"`

	AvgPaceSecPerKm   int `json:"avg_pace_sec_per_km"`
	BestPaceSecPerKm  int `json:"best_pace_sec_per_km"`
	WorstPaceSecPerKm int `json:"worst_pace_sec_per_km"`
	BestSplitIndex    int `json:"best_split_index"`  // 0 when no splits
	WorstSplitIndex   int `json:"worst_split_index"` // 0 when no splits
}

// DailyTotals is one day's pre-aggregated activity totals.
type DailyTotals struct {
	Date       time.Time `json:"date"` // midnight UTC
	Steps      int       `json:"steps"`
	DistanceKm float64   `json:"distance_km"`
	Calories   int       `json:"calories"`
	Points     int       `json:"points"`
}

// PeriodTotals sums daily totals over a period.
type PeriodTotals struct {
	Steps      int     `json:"steps"`
	DistanceKm float64 `json:"distance_km"`
	Calories   int     `json:"calories"`
	Points     int     `json:"points"`
	Days       int     `json:"days"`
}

// AverageStepsPerDay returns the per-day step average, treating an empty
// period as a single day to avoid dividing by zero.
func (p PeriodTotals) AverageStepsPerDay() float64 {
	return float64(p.Steps) / float64(max(p.Days, 1))
}

// AverageDistancePerDay returns the per-day distance average in km.
func (p PeriodTotals) AverageDistancePerDay() float64 {
	return p.DistanceKm / float64(max(p.Days, 1))
}

// AverageCaloriesPerDay returns the per-day calorie average.
func (p PeriodTotals) AverageCaloriesPerDay() float64 {
	return float64(p.Calories) / float64(max(p.Days, 1))
}

// ActivityStatistics is a period's totals plus the change versus the
// immediately preceding period of equal length.
type ActivityStatistics struct {
	Current  PeriodTotals `json:"current"`
	Previous PeriodTotals `json:"previous"`

	// PercentageChange compares per-day distance averages of the two
	// periods. Zero when the previous period has no data.
	PercentageChange    float64 `json:"percentage_change"`
	YesterdayDistanceKm float64 `json:"yesterday_distance_km"`
}

// ActivityGoal is the stored daily goal plus today's running totals.
// Goal fields may arrive zero or negative from the backend; the evaluator
// substitutes defaults rather than propagating a broken goal.
type ActivityGoal struct {
	DailyStepsGoal      int     `json:"daily_steps_goal"`
	DailyDistanceGoalKm float64 `json:"daily_distance_goal_km"`
	DailyCaloriesGoal   int     `json:"daily_calories_goal"`

	CurrentSteps      int     `json:"current_steps"`
	CurrentDistanceKm float64 `json:"current_distance_km"`
	CurrentCalories   int     `json:"current_calories"`
}

// GoalProgress holds per-metric progress ratios clamped to [0, 1].
type GoalProgress struct {
	Steps    float64 `json:"steps"`
	Distance float64 `json:"distance"`
	Calories float64 `json:"calories"`
}
