package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalActivities      int64              `json:"total_activities"`
	TotalRoutePoints     int64              `json:"total_route_points"`
	TotalHeartRatePoints int64              `json:"total_heart_rate_points"`
	TotalDays            int64              `json:"total_days"`
	EarliestData         *time.Time         `json:"earliest_data"`
	LatestData           *time.Time         `json:"latest_data"`
	ActivitiesByType     []ActivityTypeStat `json:"activities_by_type"`
	ActivitiesBySource   []SourceStat       `json:"activities_by_source"`
}

// ActivityTypeStat holds summary stats for a single activity type.
type ActivityTypeStat struct {
	Type          string  `json:"type"`
	Count         int64   `json:"count"`
	TotalDistance float64 `json:"total_distance_km"`
	TotalSteps    int64   `json:"total_steps"`
}

// SourceStat counts activities per ingest source.
type SourceStat struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE user_id = $1`, userID,
	).Scan(&stats.TotalActivities)
	if err != nil {
		return nil, fmt.Errorf("counting activities: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activity_route WHERE user_id = $1`, userID,
	).Scan(&stats.TotalRoutePoints)
	if err != nil {
		return nil, fmt.Errorf("counting route points: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activity_heart_rate WHERE user_id = $1`, userID,
	).Scan(&stats.TotalHeartRatePoints)
	if err != nil {
		return nil, fmt.Errorf("counting heart rate points: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM daily_totals WHERE user_id = $1`, userID,
	).Scan(&stats.TotalDays)
	if err != nil {
		return nil, fmt.Errorf("counting daily totals: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(start_time), MAX(end_time) FROM activities WHERE user_id = $1`, userID,
	).Scan(&stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT activity_type, COUNT(*), COALESCE(SUM(distance_km), 0), COALESCE(SUM(steps), 0)
		 FROM activities
		 WHERE user_id = $1
		 GROUP BY activity_type
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying activities by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s ActivityTypeStat
		if err := rows.Scan(&s.Type, &s.Count, &s.TotalDistance, &s.TotalSteps); err != nil {
			return nil, fmt.Errorf("scanning activity type stat: %w", err)
		}
		stats.ActivitiesByType = append(stats.ActivitiesByType, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srcRows, err := db.Pool.Query(ctx,
		`SELECT source, COUNT(*)
		 FROM activities
		 WHERE user_id = $1
		 GROUP BY source
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying activities by source: %w", err)
	}
	defer srcRows.Close()

	for srcRows.Next() {
		var s SourceStat
		if err := srcRows.Scan(&s.Source, &s.Count); err != nil {
			return nil, fmt.Errorf("scanning source stat: %w", err)
		}
		stats.ActivitiesBySource = append(stats.ActivitiesBySource, s)
	}
	return stats, srcRows.Err()
}
