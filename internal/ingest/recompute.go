package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/analytics"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/reconcile"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
)

// RecomputeDailyTotals rebuilds daily totals for every day in [start, end).
// Activities from both sources are reconciled first so a session recorded by
// the app and re-synced from the health store counts once. Returns the
// number of days written.
func RecomputeDailyTotals(ctx context.Context, db *storage.DB, userID int, start, end time.Time, cfg reconcile.Config, log *slog.Logger) (int, error) {
	start = start.UTC().Truncate(24 * time.Hour)
	end = end.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)

	app, err := db.QueryActivities(ctx, start, end, userID, string(models.SourceApp), "")
	if err != nil {
		return 0, fmt.Errorf("loading app activities: %w", err)
	}
	synced, err := db.QueryActivities(ctx, start, end, userID, string(models.SourceHealthSync), "")
	if err != nil {
		return 0, fmt.Errorf("loading synced activities: %w", err)
	}

	merged := reconcile.Reconcile(app, synced, cfg, log)
	flat := make([]models.Activity, len(merged))
	for i, m := range merged {
		flat[i] = m.Activity
	}

	totals := analytics.FoldDailyTotals(flat)
	if err := db.ReplaceDailyTotals(ctx, userID, totals); err != nil {
		return 0, fmt.Errorf("storing daily totals: %w", err)
	}
	return len(totals), nil
}
