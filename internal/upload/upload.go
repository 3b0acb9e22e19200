// Package upload walks a local export directory and sends its session and
// health-sync files to a running server over the ingest API. A SQLite state
// database remembers what was already sent so re-runs only upload new or
// changed files.
package upload

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/importer"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/ingest/tracker"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SessionsSent int
	WorkoutsSent int
}

// Uploader walks an export directory and POSTs its contents to the server.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pipeline: sessions first, then health-sync
// exports, mirroring the order the server would have received them live.
func (u *Uploader) Run() (*Stats, error) {
	if !u.dryRun {
		if err := u.client.Ping(); err != nil {
			return &u.stats, err
		}
	}

	sessionsDir := filepath.Join(u.dir, "Sessions")
	if _, err := os.Stat(sessionsDir); err == nil {
		if err := u.processSessions(sessionsDir); err != nil {
			return &u.stats, fmt.Errorf("uploading sessions: %w", err)
		}
	}

	syncDir := filepath.Join(u.dir, "HealthSync")
	if _, err := os.Stat(syncDir); err == nil {
		if err := u.processHealthSync(syncDir); err != nil {
			return &u.stats, fmt.Errorf("uploading health-sync exports: %w", err)
		}
	}

	if !u.dryRun {
		if err := u.state.SetSyncState("last_upload", time.Now().UTC().Format(time.RFC3339)); err != nil {
			u.log.Warn("failed to save sync state", "error", err)
		}
	}

	return &u.stats, nil
}

// processSessions uploads every new session file in the directory.
func (u *Uploader) processSessions(dir string) error {
	return u.walkFiles(dir, func(data []byte) (int, error) {
		var payload models.SessionPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return 0, parseError{fmt.Errorf("parsing session: %w", err)}
		}
		if err := tracker.Validate(&payload); err != nil {
			return 0, parseError{fmt.Errorf("invalid session: %w", err)}
		}
		if !u.dryRun {
			if err := u.client.SendSession(payload); err != nil {
				return 0, err
			}
		}
		u.stats.SessionsSent++
		return 1, nil
	})
}

// processHealthSync uploads every new health-sync export in the directory.
func (u *Uploader) processHealthSync(dir string) error {
	return u.walkFiles(dir, func(data []byte) (int, error) {
		var payload models.SyncPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return 0, parseError{fmt.Errorf("parsing export: %w", err)}
		}
		if len(payload.Data.Workouts) == 0 {
			return 0, nil
		}
		if !u.dryRun {
			if err := u.client.SendSync(payload); err != nil {
				return 0, err
			}
		}
		u.stats.WorkoutsSent += len(payload.Data.Workouts)
		return len(payload.Data.Workouts), nil
	})
}

// parseError marks a per-file failure that should skip the file instead of
// aborting the run.
type parseError struct{ err error }

func (e parseError) Error() string { return e.err.Error() }
func (e parseError) Unwrap() error { return e.err }

func isParseError(err error) bool {
	var pe parseError
	return errors.As(err, &pe)
}

// walkFiles runs send over each file under dir that the state DB has not
// seen. Files that fail to parse are logged and counted, not fatal; a send
// failure aborts the run so nothing is marked uploaded out of order. send
// returns the number of records sent; zero with no error means the file was
// empty and is marked uploaded so it is never re-read.
func (u *Uploader) walkFiles(dir string, send func(data []byte) (int, error)) error {
	var files []string
	for _, pattern := range []string{"*.json", "*.json.gz"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}

	for _, f := range files {
		u.stats.FilesTotal++

		relPath, _ := filepath.Rel(u.dir, f)
		info, err := os.Stat(f)
		if err != nil {
			u.log.Warn("stat failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		hash, err := HashFile(f)
		if err != nil {
			u.log.Warn("hash failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
		if err != nil {
			u.log.Warn("state check failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if uploaded {
			u.stats.FilesSkipped++
			continue
		}

		data, err := importer.ReadArchiveFile(f)
		if err != nil {
			u.log.Warn("read failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		sent, err := send(data)
		if err != nil {
			if isParseError(err) {
				u.log.Warn("skipping file", "file", f, "error", err)
				u.stats.FilesErrored++
				continue
			}
			return fmt.Errorf("sending %s: %w", relPath, err)
		}

		if u.dryRun {
			u.log.Info("dry-run: would upload", "file", relPath, "records", sent)
			continue
		}

		if err := u.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
			u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
		}
		u.stats.FilesUploaded++
	}

	return nil
}
