package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/analytics"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/ingest"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/reconcile"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// startImportLog opens a "running" import_logs row for an ingest request.
// Returns 0 when the insert fails; logging must never block ingest.
func (s *Server) startImportLog(r *http.Request, uid int, source string) int64 {
	id, err := s.db.InsertImportLog(r.Context(), storage.ImportLog{
		UserID: uid,
		Source: source,
		Status: "running",
	})
	if err != nil {
		s.log.Warn("failed to create import log", "source", source, "error", err)
		return 0
	}
	return id
}

// finishImportLog closes an import_logs row with the ingest outcome.
func (s *Server) finishImportLog(r *http.Request, uid int, id int64, source string, started time.Time, result *ingest.Result, ingestErr error) {
	if id == 0 {
		return
	}
	entry := storage.ImportLog{
		UserID: uid,
		Source: source,
		Status: "success",
	}
	if result != nil {
		entry.ActivitiesReceived = result.ActivitiesReceived
		entry.ActivitiesInserted = result.ActivitiesInserted
		entry.RoutePointsInserted = result.RoutePoints
		entry.HeartRateInserted = result.HeartRatePoints
	}
	if ingestErr != nil {
		entry.Status = "error"
		msg := ingestErr.Error()
		entry.ErrorMessage = &msg
	}
	ms := int(time.Since(started).Milliseconds())
	entry.DurationMs = &ms

	if err := s.db.UpdateImportLog(r.Context(), id, entry); err != nil {
		s.log.Warn("failed to finish import log", "id", id, "error", err)
	}
}

func (s *Server) handleSessionIngest(w http.ResponseWriter, r *http.Request) {
	var payload models.SessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := s.requestUserID(r)
	started := time.Now()
	logID := s.startImportLog(r, uid, string(models.SourceApp))

	result, err := s.tracker.Ingest(r.Context(), &payload, uid)
	s.finishImportLog(r, uid, logID, string(models.SourceApp), started, result, err)
	if err != nil {
		if result != nil && result.ActivitiesInserted == 0 && result.RoutePoints == 0 {
			// Nothing was stored; treat as a client error.
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("session ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthSyncIngest(w http.ResponseWriter, r *http.Request) {
	var payload models.SyncPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := s.requestUserID(r)
	started := time.Now()
	logID := s.startImportLog(r, uid, string(models.SourceHealthSync))

	result, err := s.sync.Ingest(r.Context(), &payload, uid)
	s.finishImportLog(r, uid, logID, string(models.SourceHealthSync), started, result, err)
	if err != nil {
		s.log.Error("health-sync ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQueryActivities(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	source := r.URL.Query().Get("source")
	activityType := r.URL.Query().Get("type")
	if activityType != "" && !models.ValidActivityType(activityType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown activity type"})
		return
	}

	activities, err := s.db.QueryActivities(r.Context(), start, end, s.requestUserID(r), source, activityType)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleReconciledActivities(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	uid := s.requestUserID(r)
	app, err := s.db.QueryActivities(r.Context(), start, end, uid, string(models.SourceApp), "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	synced, err := s.db.QueryActivities(r.Context(), start, end, uid, string(models.SourceHealthSync), "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	merged := reconcile.Reconcile(app, synced, s.reconcile, s.log)
	writeJSON(w, http.StatusOK, merged)
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid activity ID"})
		return
	}

	activity, err := s.db.GetActivity(r.Context(), id, s.requestUserID(r))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "activity not found"})
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) handleActivityAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid activity ID"})
		return
	}

	activity, err := s.db.GetActivity(r.Context(), id, s.requestUserID(r))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "activity not found"})
		return
	}

	opts := s.analytics
	if v := r.URL.Query().Get("max_hr"); v != "" {
		bpm, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max_hr must be an integer"})
			return
		}
		opts.MaxHeartRate = bpm
	}

	result, err := analytics.Compute(*activity, opts)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidReference) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
