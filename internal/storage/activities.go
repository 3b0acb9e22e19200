package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/google/uuid"
)

// InsertActivity inserts an activity summary row. Returns true if inserted,
// false when a record with the same identity already exists. Identity is
// the activity id, or (user, source, external id) for synced records, so
// re-sending a payload is idempotent.
func (db *DB) InsertActivity(ctx context.Context, a models.Activity, userID int) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO activities (id, user_id, external_id, source, activity_type,
		 start_time, end_time, distance_km, avg_bpm, steps, calories)
		 VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT DO NOTHING`,
		a.ID, userID, a.ExternalID, a.Source, a.Type,
		a.StartTime, a.EndTime, a.DistanceKm, a.AvgBPM, a.Steps, a.Calories)
	if err != nil {
		return false, fmt.Errorf("inserting activity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertRoutePoints batch-inserts an activity's route. Returns count inserted.
func (db *DB) InsertRoutePoints(ctx context.Context, activityID uuid.UUID, userID int, points []models.CoordinateSample) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}

	query, args := buildRouteInsert(activityID, userID, points)
	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting route points: %w", err)
	}
	return tag.RowsAffected(), nil
}

// buildRouteInsert assembles the batch insert for a route series. Each point
// carries its position as seq, so tied timestamps (GPS fixes within the same
// second) stay distinct rows instead of colliding on the unique key.
func buildRouteInsert(activityID uuid.UUID, userID int, points []models.CoordinateSample) (string, []any) {
	query := `INSERT INTO activity_route (time, seq, activity_id, user_id, latitude, longitude, altitude) VALUES `
	args := make([]any, 0, len(points)*7)
	valueStrings := make([]string, 0, len(points))

	for i, p := range points {
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, p.Time, i, activityID, userID, p.Latitude, p.Longitude, p.Altitude)
	}

	return query + strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING", args
}

// InsertHeartRatePoints batch-inserts an activity's heart-rate series.
// Returns count inserted.
func (db *DB) InsertHeartRatePoints(ctx context.Context, activityID uuid.UUID, userID int, samples []models.HeartRateSample) (int64, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	query := `INSERT INTO activity_heart_rate (time, activity_id, user_id, bpm, distance_km) VALUES `
	args := make([]any, 0, len(samples)*5)
	valueStrings := make([]string, 0, len(samples))

	for i, s := range samples {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5,
		))
		args = append(args, s.Time, activityID, userID, s.BPM, s.DistanceKm)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting heart rate points: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryActivities returns activity summaries (no route or heart-rate data)
// in a time range, optionally filtered by source and type.
func (db *DB) QueryActivities(ctx context.Context, start, end time.Time, userID int, source, activityType string) ([]models.Activity, error) {
	query := `SELECT id, external_id, source, activity_type, start_time, end_time,
	 distance_km, avg_bpm, steps, calories
	 FROM activities
	 WHERE start_time >= $1 AND start_time < $2 AND user_id = $3`
	args := []any{start, end, userID}

	if source != "" {
		args = append(args, source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}
	if activityType != "" {
		args = append(args, activityType)
		query += fmt.Sprintf(" AND activity_type = $%d", len(args))
	}
	query += " ORDER BY start_time ASC"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	var result []models.Activity
	for rows.Next() {
		var a models.Activity
		var externalID *string
		if err := rows.Scan(&a.ID, &externalID, &a.Source, &a.Type, &a.StartTime, &a.EndTime,
			&a.DistanceKm, &a.AvgBPM, &a.Steps, &a.Calories); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		if externalID != nil {
			a.ExternalID = *externalID
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// GetActivity returns one activity with its route and heart-rate series
// hydrated, ready for the analytics engine.
func (db *DB) GetActivity(ctx context.Context, id uuid.UUID, userID int) (*models.Activity, error) {
	var a models.Activity
	var externalID *string
	err := db.Pool.QueryRow(ctx,
		`SELECT id, external_id, source, activity_type, start_time, end_time,
		 distance_km, avg_bpm, steps, calories
		 FROM activities WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&a.ID, &externalID, &a.Source, &a.Type, &a.StartTime, &a.EndTime,
		&a.DistanceKm, &a.AvgBPM, &a.Steps, &a.Calories)
	if err != nil {
		return nil, fmt.Errorf("loading activity %s: %w", id, err)
	}
	if externalID != nil {
		a.ExternalID = *externalID
	}

	routeRows, err := db.Pool.Query(ctx,
		`SELECT time, latitude, longitude, altitude
		 FROM activity_route WHERE activity_id = $1 ORDER BY time ASC, seq ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("loading route: %w", err)
	}
	defer routeRows.Close()
	for routeRows.Next() {
		var p models.CoordinateSample
		if err := routeRows.Scan(&p.Time, &p.Latitude, &p.Longitude, &p.Altitude); err != nil {
			return nil, fmt.Errorf("scanning route point: %w", err)
		}
		a.Route = append(a.Route, p)
	}
	if err := routeRows.Err(); err != nil {
		return nil, err
	}

	hrRows, err := db.Pool.Query(ctx,
		`SELECT time, bpm, distance_km
		 FROM activity_heart_rate WHERE activity_id = $1 ORDER BY time ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("loading heart rate: %w", err)
	}
	defer hrRows.Close()
	for hrRows.Next() {
		var s models.HeartRateSample
		if err := hrRows.Scan(&s.Time, &s.BPM, &s.DistanceKm); err != nil {
			return nil, fmt.Errorf("scanning heart rate point: %w", err)
		}
		a.HeartRate = append(a.HeartRate, s)
	}
	return &a, hrRows.Err()
}
