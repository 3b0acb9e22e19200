// Package tracker ingests session uploads from the in-app tracker.
package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/ingest"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/reconcile"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
	"github.com/google/uuid"
)

// Provider processes in-app tracker session payloads.
type Provider struct {
	db        *storage.DB
	log       *slog.Logger
	reconcile reconcile.Config
}

// NewProvider creates a new tracker ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger, rc reconcile.Config) *Provider {
	return &Provider{db: db, log: log, reconcile: rc}
}

// Validate checks a session payload before ingest. Tracker sessions are
// produced by our own app, so anything malformed is a client bug worth
// rejecting loudly rather than skipping.
func Validate(p *models.SessionPayload) error {
	if !models.ValidActivityType(p.Type) {
		return fmt.Errorf("unknown activity type %q", p.Type)
	}
	if p.StartTime.IsZero() || p.EndTime.IsZero() {
		return fmt.Errorf("session is missing start or end time")
	}
	if p.EndTime.Before(p.StartTime) {
		return fmt.Errorf("session ends before it starts")
	}
	return nil
}

// FromPayload builds an activity record from a validated session payload.
func FromPayload(p *models.SessionPayload) models.Activity {
	return models.Activity{
		ID:         uuid.New(),
		ExternalID: p.ExternalID,
		Source:     models.SourceApp,
		Type:       models.ActivityType(p.Type),
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		DistanceKm: p.DistanceKm,
		AvgBPM:     p.AvgBPM,
		Steps:      p.Steps,
		Calories:   p.Calories,
		Route:      p.Route,
		HeartRate:  p.HeartRate,
	}
}

// Ingest stores one tracker session and recomputes the affected day's
// totals.
func (p *Provider) Ingest(ctx context.Context, payload *models.SessionPayload, userID int) (*ingest.Result, error) {
	result := &ingest.Result{ActivitiesReceived: 1}

	if err := Validate(payload); err != nil {
		return result, err
	}

	a := FromPayload(payload)

	inserted, err := p.db.InsertActivity(ctx, a, userID)
	if err != nil {
		return result, fmt.Errorf("storing session: %w", err)
	}
	if !inserted {
		result.ActivitiesSkipped++
		return result, nil
	}
	result.ActivitiesInserted++

	n, err := p.db.InsertRoutePoints(ctx, a.ID, userID, a.Route)
	if err != nil {
		return result, fmt.Errorf("storing route: %w", err)
	}
	result.RoutePoints += n

	n, err = p.db.InsertHeartRatePoints(ctx, a.ID, userID, a.HeartRate)
	if err != nil {
		return result, fmt.Errorf("storing heart rate: %w", err)
	}
	result.HeartRatePoints += n

	days, err := ingest.RecomputeDailyTotals(ctx, p.db, userID, a.StartTime, a.StartTime, p.reconcile, p.log)
	if err != nil {
		return result, fmt.Errorf("recomputing totals: %w", err)
	}
	result.DaysRecomputed = days

	p.log.Info("session ingested",
		"type", a.Type, "distance_km", a.DistanceKm,
		"route_points", result.RoutePoints, "hr_points", result.HeartRatePoints)
	return result, nil
}
