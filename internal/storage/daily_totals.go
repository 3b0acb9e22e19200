package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// ReplaceDailyTotals upserts daily totals rows. Each day is keyed by
// (user, date); a recompute after new activities overwrites the old row.
func (db *DB) ReplaceDailyTotals(ctx context.Context, userID int, totals []models.DailyTotals) error {
	for _, t := range totals {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO daily_totals (user_id, date, steps, distance_km, calories, points)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 ON CONFLICT (user_id, date) DO UPDATE SET
			 steps = EXCLUDED.steps,
			 distance_km = EXCLUDED.distance_km,
			 calories = EXCLUDED.calories,
			 points = EXCLUDED.points`,
			userID, t.Date, t.Steps, t.DistanceKm, t.Calories, t.Points)
		if err != nil {
			return fmt.Errorf("upserting daily totals for %s: %w", t.Date.Format("2006-01-02"), err)
		}
	}
	return nil
}

// QueryDailyTotals returns daily totals rows with date >= start and < end,
// ascending by date. Days without activity have no row; callers zero-fill.
func (db *DB) QueryDailyTotals(ctx context.Context, userID int, start, end time.Time) ([]models.DailyTotals, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date, steps, distance_km, calories, points
		 FROM daily_totals
		 WHERE user_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying daily totals: %w", err)
	}
	defer rows.Close()

	var result []models.DailyTotals
	for rows.Next() {
		var t models.DailyTotals
		if err := rows.Scan(&t.Date, &t.Steps, &t.DistanceKm, &t.Calories, &t.Points); err != nil {
			return nil, fmt.Errorf("scanning daily totals: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// GetDailyTotals returns the totals row for a single day, or a zero-valued
// row carrying the requested date when none exists.
func (db *DB) GetDailyTotals(ctx context.Context, userID int, day time.Time) (models.DailyTotals, error) {
	t := models.DailyTotals{Date: day}
	err := db.Pool.QueryRow(ctx,
		`SELECT date, steps, distance_km, calories, points
		 FROM daily_totals WHERE user_id = $1 AND date = $2`,
		userID, day,
	).Scan(&t.Date, &t.Steps, &t.DistanceKm, &t.Calories, &t.Points)
	if err != nil {
		if isNoRows(err) {
			return models.DailyTotals{Date: day}, nil
		}
		return t, fmt.Errorf("loading daily totals: %w", err)
	}
	return t, nil
}
