package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/analytics"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// periodDays maps the stats period parameter onto a day count.
func periodDays(period string) (int, bool) {
	switch period {
	case "today":
		return 1, true
	case "", "week":
		return 7, true
	case "month":
		return 30, true
	default:
		return 0, false
	}
}

func (s *Server) handleDailyTotals(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	totals, err := s.db.QueryDailyTotals(r.Context(), s.requestUserID(r), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	days, ok := periodDays(r.URL.Query().Get("period"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "period must be today, week or month"})
		return
	}
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 366 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be between 1 and 366"})
			return
		}
		days = n
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	currentStart := today.AddDate(0, 0, -(days - 1))
	previousStart := currentStart.AddDate(0, 0, -days)

	uid := s.requestUserID(r)
	current, err := s.db.QueryDailyTotals(r.Context(), uid, currentStart, today.AddDate(0, 0, 1))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	previous, err := s.db.QueryDailyTotals(r.Context(), uid, previousStart, currentStart)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	stats := analytics.Summarize(
		analytics.FillDays(current, currentStart, days),
		analytics.FillDays(previous, previousStart, days),
		today,
	)
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDataStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context(), s.requestUserID(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.db.GetGoal(r.Context(), s.requestUserID(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handlePutGoal(w http.ResponseWriter, r *http.Request) {
	var goal models.ActivityGoal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	// Store what the client sent after defaulting broken fields, so a PUT
	// followed by a GET returns the same goal.
	goal = analytics.SanitizeGoal(goal)
	if err := s.db.PutGoal(r.Context(), s.requestUserID(r), goal); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	uid := s.requestUserID(r)
	goal, err := s.db.GetGoal(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	totals, err := s.db.GetDailyTotals(r.Context(), uid, day)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	goal.CurrentSteps = totals.Steps
	goal.CurrentDistanceKm = totals.DistanceKm
	goal.CurrentCalories = totals.Calories

	writeJSON(w, http.StatusOK, map[string]any{
		"goal":     goal,
		"progress": analytics.EvaluateGoal(goal),
	})
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	logs, err := s.db.QueryImportLogs(r.Context(), s.requestUserID(r), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
