// Package importer bulk-loads exported activity archives into the database.
// An archive directory holds Sessions/ (tracker session JSON files) and
// HealthSync/ (health-sync export JSON files); either may be gzipped.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/ingest"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/ingest/healthsync"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/ingest/tracker"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/reconcile"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	ActivitiesInserted   int
	ActivitiesDuplicated int
	RoutePointsInserted  int64
	HRPointsInserted     int64
	DaysRecomputed       int

	RejectedTypes []string
}

// Importer reads archive files from an export directory and inserts data
// into the DB.
type Importer struct {
	db        *storage.DB
	log       *slog.Logger
	dryRun    bool
	userID    int
	reconcile reconcile.Config
	stats     Stats

	rejectedSet map[string]bool
	earliest    time.Time
	latest      time.Time
}

// New creates a new Importer.
func New(db *storage.DB, userID int, rc reconcile.Config, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, userID: userID, reconcile: rc, log: log, dryRun: dryRun,
		rejectedSet: map[string]bool{}}
}

// Import processes all archive files under the given directory. Daily
// totals are recomputed once at the end, after both sources are loaded, so
// the reconciler sees the complete picture.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	sessionsDir := filepath.Join(dir, "Sessions")
	syncDir := filepath.Join(dir, "HealthSync")

	if _, err := os.Stat(sessionsDir); err == nil {
		if err := imp.importSessions(ctx, sessionsDir); err != nil {
			return &imp.stats, fmt.Errorf("importing sessions: %w", err)
		}
	}

	if _, err := os.Stat(syncDir); err == nil {
		if err := imp.importHealthSync(ctx, syncDir); err != nil {
			return &imp.stats, fmt.Errorf("importing health-sync exports: %w", err)
		}
	}

	if !imp.dryRun && imp.stats.ActivitiesInserted > 0 {
		days, err := ingest.RecomputeDailyTotals(ctx, imp.db, imp.userID, imp.earliest, imp.latest, imp.reconcile, imp.log)
		if err != nil {
			return &imp.stats, fmt.Errorf("recomputing daily totals: %w", err)
		}
		imp.stats.DaysRecomputed = days
	}

	return &imp.stats, nil
}

// importSessions loads every tracker session file in the directory.
func (imp *Importer) importSessions(ctx context.Context, dir string) error {
	files, err := archiveFiles(dir)
	if err != nil {
		return err
	}

	for _, f := range files {
		data, err := ReadArchiveFile(f)
		if err != nil {
			imp.log.Warn("read failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		var payload models.SessionPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			imp.log.Warn("parse failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		if err := tracker.Validate(&payload); err != nil {
			imp.log.Warn("invalid session", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		imp.stats.FilesProcessed++
		if err := imp.storeActivity(ctx, tracker.FromPayload(&payload)); err != nil {
			return fmt.Errorf("storing session from %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

// importHealthSync loads every health-sync export file in the directory.
func (imp *Importer) importHealthSync(ctx context.Context, dir string) error {
	files, err := archiveFiles(dir)
	if err != nil {
		return err
	}

	for _, f := range files {
		data, err := ReadArchiveFile(f)
		if err != nil {
			imp.log.Warn("read failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		var payload models.SyncPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			imp.log.Warn("parse failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		if len(payload.Data.Workouts) == 0 {
			imp.stats.FilesSkipped++
			continue
		}

		imp.stats.FilesProcessed++
		for _, w := range payload.Data.Workouts {
			activityType, ok := healthsync.MapWorkoutType(w.Type)
			if !ok {
				if !imp.rejectedSet[w.Type] {
					imp.stats.RejectedTypes = append(imp.stats.RejectedTypes, w.Type)
					imp.rejectedSet[w.Type] = true
				}
				continue
			}
			a := healthsync.ConvertWorkout(w, activityType, imp.log)
			if err := imp.storeActivity(ctx, a); err != nil {
				return fmt.Errorf("storing workout %s from %s: %w", w.ID, filepath.Base(f), err)
			}
		}
	}
	return nil
}

func (imp *Importer) storeActivity(ctx context.Context, a models.Activity) error {
	if imp.earliest.IsZero() || a.StartTime.Before(imp.earliest) {
		imp.earliest = a.StartTime
	}
	if a.StartTime.After(imp.latest) {
		imp.latest = a.StartTime
	}

	if imp.dryRun {
		imp.stats.ActivitiesInserted++
		imp.stats.RoutePointsInserted += int64(len(a.Route))
		imp.stats.HRPointsInserted += int64(len(a.HeartRate))
		return nil
	}

	inserted, err := imp.db.InsertActivity(ctx, a, imp.userID)
	if err != nil {
		return err
	}
	if !inserted {
		imp.stats.ActivitiesDuplicated++
		return nil
	}
	imp.stats.ActivitiesInserted++

	n, err := imp.db.InsertRoutePoints(ctx, a.ID, imp.userID, a.Route)
	if err != nil {
		return err
	}
	imp.stats.RoutePointsInserted += n

	n, err = imp.db.InsertHeartRatePoints(ctx, a.ID, imp.userID, a.HeartRate)
	if err != nil {
		return err
	}
	imp.stats.HRPointsInserted += n
	return nil
}

// archiveFiles returns the importable files in a directory, sorted by name
// so re-runs process in a stable order.
func archiveFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.json.gz"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}
