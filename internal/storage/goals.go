package storage

import (
	"context"
	"fmt"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/analytics"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// GetGoal returns the user's stored daily goal targets, falling back to the
// built-in defaults when the user has never configured one. The Current*
// fields are left zero; callers fill them from today's totals.
func (db *DB) GetGoal(ctx context.Context, userID int) (models.ActivityGoal, error) {
	var g models.ActivityGoal
	err := db.Pool.QueryRow(ctx,
		`SELECT daily_steps, daily_distance_km, daily_calories
		 FROM goals WHERE user_id = $1`,
		userID,
	).Scan(&g.DailyStepsGoal, &g.DailyDistanceGoalKm, &g.DailyCaloriesGoal)
	if err != nil {
		if isNoRows(err) {
			return analytics.SanitizeGoal(models.ActivityGoal{}), nil
		}
		return g, fmt.Errorf("loading goal: %w", err)
	}
	return analytics.SanitizeGoal(g), nil
}

// PutGoal stores the user's daily goal targets, one row per user.
func (db *DB) PutGoal(ctx context.Context, userID int, g models.ActivityGoal) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO goals (user_id, daily_steps, daily_distance_km, daily_calories)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id) DO UPDATE SET
		 daily_steps = EXCLUDED.daily_steps,
		 daily_distance_km = EXCLUDED.daily_distance_km,
		 daily_calories = EXCLUDED.daily_calories,
		 updated_at = NOW()`,
		userID, g.DailyStepsGoal, g.DailyDistanceGoalKm, g.DailyCaloriesGoal)
	if err != nil {
		return fmt.Errorf("storing goal: %w", err)
	}
	return nil
}
