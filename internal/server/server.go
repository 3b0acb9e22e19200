// Package server exposes the HTTP API: ingest endpoints for the app tracker
// and health-sync export, and read endpoints for activities, analytics,
// period statistics, and goals.
package server

import (
	"log/slog"
	"net/http"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/analytics"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/ingest/healthsync"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/ingest/tracker"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/reconcile"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	tracker   *tracker.Provider
	sync      *healthsync.Provider
	log       *slog.Logger
	apiKey    string
	userID    int
	analytics analytics.Options
	reconcile reconcile.Config
	ts        WhoIsClient
	router    chi.Router
}

// New creates a new Server with all routes configured. userID is the
// resolved local user; multi-user identity comes from the tailnet when
// enabled.
func New(db *storage.DB, trackerProvider *tracker.Provider, syncProvider *healthsync.Provider,
	apiKey string, userID int, opts analytics.Options, rc reconcile.Config, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		tracker:   trackerProvider,
		sync:      syncProvider,
		log:       log,
		apiKey:    apiKey,
		userID:    userID,
		analytics: opts,
		reconcile: rc,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/session", s.handleSessionIngest)
		r.Post("/health-sync", s.handleHealthSyncIngest)
	})

	// Read API endpoints (no auth on a tailnet; the listener is the boundary)
	s.router.Get("/api/v1/activities", s.handleQueryActivities)
	s.router.Get("/api/v1/activities/reconciled", s.handleReconciledActivities)
	s.router.Get("/api/v1/activities/{id}", s.handleGetActivity)
	s.router.Get("/api/v1/activities/{id}/analytics", s.handleActivityAnalytics)
	s.router.Get("/api/v1/totals", s.handleDailyTotals)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/stats/data", s.handleDataStats)
	s.router.Get("/api/v1/goal", s.handleGetGoal)
	s.router.Put("/api/v1/goal", s.handlePutGoal)
	s.router.Get("/api/v1/goal/progress", s.handleGoalProgress)
	s.router.Get("/api/v1/import/logs", s.handleImportLogs)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
