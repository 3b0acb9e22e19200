// Package healthsync ingests workout exports from the external health-data
// sync. Records may be summary-only (no route, no heart-rate series) and the
// same workout can arrive repeatedly; the source's workout id keeps ingest
// idempotent.
package healthsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/ingest"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/reconcile"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
)

// Provider processes health-sync export payloads.
type Provider struct {
	db        *storage.DB
	log       *slog.Logger
	reconcile reconcile.Config
}

// NewProvider creates a new health-sync ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger, rc reconcile.Config) *Provider {
	return &Provider{db: db, log: log, reconcile: rc}
}

// Ingest stores the payload's workouts and recomputes totals for every day
// a new activity landed on.
func (p *Provider) Ingest(ctx context.Context, payload *models.SyncPayload, userID int) (*ingest.Result, error) {
	result := &ingest.Result{}
	rejectedSet := map[string]bool{}

	var earliest, latest time.Time
	for _, w := range payload.Data.Workouts {
		result.ActivitiesReceived++

		activityType, ok := MapWorkoutType(w.Type)
		if !ok {
			if !rejectedSet[w.Type] {
				result.RejectedTypes = append(result.RejectedTypes, w.Type)
				rejectedSet[w.Type] = true
			}
			result.ActivitiesSkipped++
			continue
		}

		a := ConvertWorkout(w, activityType, p.log)

		inserted, err := p.db.InsertActivity(ctx, a, userID)
		if err != nil {
			return result, fmt.Errorf("storing workout %s: %w", w.ID, err)
		}
		if !inserted {
			result.ActivitiesSkipped++
			continue
		}
		result.ActivitiesInserted++

		n, err := p.db.InsertRoutePoints(ctx, a.ID, userID, a.Route)
		if err != nil {
			return result, fmt.Errorf("storing route for %s: %w", w.ID, err)
		}
		result.RoutePoints += n

		n, err = p.db.InsertHeartRatePoints(ctx, a.ID, userID, a.HeartRate)
		if err != nil {
			return result, fmt.Errorf("storing heart rate for %s: %w", w.ID, err)
		}
		result.HeartRatePoints += n

		if earliest.IsZero() || a.StartTime.Before(earliest) {
			earliest = a.StartTime
		}
		if a.StartTime.After(latest) {
			latest = a.StartTime
		}
	}

	if len(result.RejectedTypes) > 0 {
		result.Message = fmt.Sprintf("Some workouts were skipped because their type is not tracked: %v.", result.RejectedTypes)
	}

	if result.ActivitiesInserted > 0 {
		days, err := ingest.RecomputeDailyTotals(ctx, p.db, userID, earliest, latest, p.reconcile, p.log)
		if err != nil {
			return result, fmt.Errorf("recomputing totals: %w", err)
		}
		result.DaysRecomputed = days
	}

	p.log.Info("health-sync ingested",
		"received", result.ActivitiesReceived,
		"inserted", result.ActivitiesInserted,
		"skipped", result.ActivitiesSkipped)
	return result, nil
}
