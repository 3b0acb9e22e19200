package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestQueryActivities verifies the HTTP client sends filter params and
// parses the JSON array response.
func TestQueryActivities(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/activities": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("type"); got != "run" {
				t.Errorf("type=%q, want run", got)
			}
			if got := r.URL.Query().Get("source"); got != "app" {
				t.Errorf("source=%q, want app", got)
			}

			writeTestJSON(t, w, []models.Activity{
				{ID: uuid.New(), Type: models.TypeRun, DistanceKm: 5.2},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)

	activities, err := client.QueryActivities(context.Background(), start, end, 1, "app", "run")
	if err != nil {
		t.Fatal(err)
	}
	if len(activities) != 1 {
		t.Fatalf("got %d activities, want 1", len(activities))
	}
	if activities[0].DistanceKm != 5.2 {
		t.Errorf("distance=%v, want 5.2", activities[0].DistanceKm)
	}
}

// TestGetActivityByID verifies the activity detail path includes the uuid.
func TestGetActivityByID(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/activities/" + id.String(): func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, models.Activity{ID: id, Type: models.TypeWalk, Steps: 4200})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	a, err := client.GetActivity(context.Background(), id, 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.Steps != 4200 {
		t.Errorf("steps=%d, want 4200", a.Steps)
	}
}

// TestQueryDailyTotalsClient verifies totals parsing and time params.
func TestQueryDailyTotalsClient(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/totals": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("start") == "" || r.URL.Query().Get("end") == "" {
				t.Error("expected start and end params")
			}
			writeTestJSON(t, w, []models.DailyTotals{
				{Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Steps: 8100, Points: 95},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	totals, err := client.QueryDailyTotals(context.Background(), 1,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != 1 || totals[0].Points != 95 {
		t.Fatalf("totals=%+v, want one day with 95 points", totals)
	}
}

// TestGetDailyTotalsMissingDay verifies a day without data comes back as a
// zero row instead of an error.
func TestGetDailyTotalsMissingDay(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/totals": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.DailyTotals{})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	totals, err := client.GetDailyTotals(context.Background(), 1, day)
	if err != nil {
		t.Fatal(err)
	}
	if !totals.Date.Equal(day) || totals.Steps != 0 {
		t.Errorf("totals=%+v, want zero row for %v", totals, day)
	}
}

// TestGetGoalClient verifies goal struct parsing.
func TestGetGoalClient(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/goal": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, models.ActivityGoal{
				DailyStepsGoal:      12000,
				DailyDistanceGoalKm: 10,
				DailyCaloriesGoal:   600,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	g, err := client.GetGoal(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if g.DailyStepsGoal != 12000 {
		t.Errorf("steps goal=%d, want 12000", g.DailyStepsGoal)
	}
}

// TestGetDataStatsClient verifies data stats parsing.
func TestGetDataStatsClient(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats/data": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, storage.DataStats{
				TotalActivities: 12,
				ActivitiesByType: []storage.ActivityTypeStat{
					{Type: "run", Count: 7, TotalDistance: 41.3},
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	stats, err := client.GetDataStats(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalActivities != 12 {
		t.Errorf("total=%d, want 12", stats.TotalActivities)
	}
	if len(stats.ActivitiesByType) != 1 || stats.ActivitiesByType[0].Count != 7 {
		t.Errorf("by type=%+v, want one entry with count 7", stats.ActivitiesByType)
	}
}

// TestHTTPClientErrorStatus verifies that non-200 responses surface as errors.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/goal": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.GetGoal(context.Background(), 1); err == nil {
		t.Error("expected error for 500 response")
	}
}
