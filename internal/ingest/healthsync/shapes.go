package healthsync

import (
	"log/slog"
	"strings"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/google/uuid"
)

// MapWorkoutType maps the sync source's workout type names onto our
// activity types. Unknown types are skipped rather than guessed.
func MapWorkoutType(name string) (models.ActivityType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "running", "run":
		return models.TypeRun, true
	case "walking", "walk", "hiking":
		return models.TypeWalk, true
	case "cycling", "commuting", "commute":
		return models.TypeCommute, true
	default:
		return "", false
	}
}

// distanceKm normalizes a synced distance quantity to kilometers.
func distanceKm(q *models.SyncQuantity) float64 {
	if q == nil {
		return 0
	}
	switch strings.ToLower(q.Units) {
	case "km", "":
		return q.Qty
	case "m":
		return q.Qty / 1000
	case "mi":
		return q.Qty * 1.609344
	default:
		return q.Qty
	}
}

// ConvertWorkout turns one synced workout record into an activity. The
// caller has already resolved the activity type. An end-before-start window
// is clock skew in the source; it is clamped to a zero-length session at
// the start time so the record stays in history.
func ConvertWorkout(w models.SyncWorkout, activityType models.ActivityType, log *slog.Logger) models.Activity {
	end := w.End.Time
	if end.Before(w.Start.Time) {
		log.Warn("clamping workout window", "id", w.ID, "start", w.Start.Time, "end", end)
		end = w.Start.Time
	}

	id, err := uuid.Parse(w.ID)
	if err != nil {
		// The source's id is opaque but still usable for dedup via
		// external_id, so mint our own primary key.
		id = uuid.New()
	}

	a := models.Activity{
		ID:         id,
		ExternalID: w.ID,
		Source:     models.SourceHealthSync,
		Type:       activityType,
		StartTime:  w.Start.Time,
		EndTime:    end,
		DistanceKm: distanceKm(w.Distance),
	}
	if w.ActiveEnergy != nil {
		a.Calories = int(w.ActiveEnergy.Qty)
	}
	if w.StepCount != nil {
		a.Steps = int(w.StepCount.Qty)
	}
	if w.AvgHeartRate != nil {
		a.AvgBPM = int(w.AvgHeartRate.Qty)
	}

	for _, rp := range w.Route {
		a.Route = append(a.Route, models.CoordinateSample{
			Latitude:  rp.Lat,
			Longitude: rp.Lon,
			Altitude:  rp.Altitude,
			Time:      rp.Timestamp.Time,
		})
	}
	for _, hr := range w.HeartRateData {
		a.HeartRate = append(a.HeartRate, models.HeartRateSample{
			BPM:  int(hr.Qty),
			Time: hr.Date.Time,
		})
	}
	return a
}
