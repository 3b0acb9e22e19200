package analytics

import "github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"

// Built-in daily goal defaults, substituted whenever a stored goal field is
// zero or negative. A backend returning a broken goal must not make every
// progress ring show 0%.
const (
	DefaultDailyStepsGoal    = 10000
	DefaultDailyDistanceGoal = 8.0 // km
	DefaultDailyCaloriesGoal = 500
)

// SanitizeGoal returns a copy of the goal with invalid target fields
// replaced by the built-in defaults. Centralized here so every consumer
// sees identical defaulting rather than re-implementing it at call sites.
func SanitizeGoal(g models.ActivityGoal) models.ActivityGoal {
	if g.DailyStepsGoal <= 0 {
		g.DailyStepsGoal = DefaultDailyStepsGoal
	}
	if g.DailyDistanceGoalKm <= 0 {
		g.DailyDistanceGoalKm = DefaultDailyDistanceGoal
	}
	if g.DailyCaloriesGoal <= 0 {
		g.DailyCaloriesGoal = DefaultDailyCaloriesGoal
	}
	return g
}

// EvaluateGoal computes per-metric progress ratios against the (sanitized)
// daily goal, each clamped to [0, 1].
func EvaluateGoal(g models.ActivityGoal) models.GoalProgress {
	g = SanitizeGoal(g)
	return models.GoalProgress{
		Steps:    ratio(float64(g.CurrentSteps), float64(g.DailyStepsGoal)),
		Distance: ratio(g.CurrentDistanceKm, g.DailyDistanceGoalKm),
		Calories: ratio(float64(g.CurrentCalories), float64(g.DailyCaloriesGoal)),
	}
}

func ratio(current, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	r := current / goal
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
