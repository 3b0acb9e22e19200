package reconcile

import (
	"testing"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/google/uuid"
)

var base = time.Date(2025, 6, 14, 7, 0, 0, 0, time.UTC)

func appActivity(externalID string, routePoints int) models.Activity {
	a := models.Activity{
		ID:         uuid.New(),
		ExternalID: externalID,
		Source:     models.SourceApp,
		Type:       models.TypeRun,
		StartTime:  base,
		EndTime:    base.Add(30 * time.Minute),
		DistanceKm: 5,
		Steps:      6000,
	}
	for i := 0; i < routePoints; i++ {
		a.Route = append(a.Route, models.CoordinateSample{
			Latitude:  12.9 + float64(i)*0.0005,
			Longitude: 77.5,
			Time:      base.Add(time.Duration(i) * 30 * time.Second),
		})
	}
	return a
}

func syncActivity(externalID string) models.Activity {
	return models.Activity{
		ID:         uuid.New(),
		ExternalID: externalID,
		Source:     models.SourceHealthSync,
		Type:       models.TypeRun,
		StartTime:  base.Add(time.Minute),
		EndTime:    base.Add(29 * time.Minute),
		DistanceKm: 4.9,
		Calories:   320,
	}
}

// TestReconcileSharedExternalID verifies the canonical scenario: an app
// session and a routeless sync record sharing an external id merge into a
// single activity that keeps the app route and both sources.
func TestReconcileSharedExternalID(t *testing.T) {
	app := appActivity("hk-123", 50)
	sync := syncActivity("hk-123")

	got := Reconcile([]models.Activity{app}, []models.Activity{sync}, Config{}, nil)
	if len(got) != 1 {
		t.Fatalf("merged count = %d, want 1", len(got))
	}
	m := got[0]
	if len(m.Route) != 50 {
		t.Errorf("route length = %d, want the app's 50 points", len(m.Route))
	}
	if len(m.Sources) != 2 {
		t.Errorf("sources = %v, want both", m.Sources)
	}
	// The app record carried no calories; the sync record's survive.
	if m.Calories != 320 {
		t.Errorf("calories = %d, want 320 backfilled from sync", m.Calories)
	}
}

// TestReconcileSymmetry verifies that swapping which list the records
// arrive in produces the same merged result.
func TestReconcileSymmetry(t *testing.T) {
	app := appActivity("hk-777", 30)
	sync := syncActivity("hk-777")

	a := Reconcile([]models.Activity{app}, []models.Activity{sync}, Config{}, nil)
	b := Reconcile([]models.Activity{sync}, []models.Activity{app}, Config{}, nil)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("merged counts = %d/%d, want 1/1", len(a), len(b))
	}
	if a[0].ID != b[0].ID || len(a[0].Route) != len(b[0].Route) {
		t.Errorf("asymmetric merge: %v vs %v", a[0].Activity.ID, b[0].Activity.ID)
	}
}

// TestReconcileTimeWindowFallback verifies that id-less records from
// different sources merge when their windows overlap beyond the threshold
// and the activity type matches.
func TestReconcileTimeWindowFallback(t *testing.T) {
	app := appActivity("", 40)
	sync := syncActivity("") // window sits inside the app's window

	got := Reconcile([]models.Activity{app}, []models.Activity{sync}, Config{}, nil)
	if len(got) != 1 {
		t.Fatalf("merged count = %d, want 1", len(got))
	}
	if len(got[0].Route) != 40 {
		t.Errorf("route length = %d, want the app's 40 points", len(got[0].Route))
	}
}

// TestReconcileNoMatchDifferentType verifies that overlapping windows do
// not merge when the activity types differ.
func TestReconcileNoMatchDifferentType(t *testing.T) {
	app := appActivity("", 40)
	sync := syncActivity("")
	sync.Type = models.TypeWalk

	got := Reconcile([]models.Activity{app}, []models.Activity{sync}, Config{}, nil)
	if len(got) != 2 {
		t.Errorf("merged count = %d, want 2 distinct activities", len(got))
	}
}

// TestReconcileInsufficientOverlap verifies that two sessions barely
// touching in time stay distinct.
func TestReconcileInsufficientOverlap(t *testing.T) {
	app := appActivity("", 40)
	sync := syncActivity("")
	sync.StartTime = base.Add(25 * time.Minute)
	sync.EndTime = base.Add(55 * time.Minute) // ~17% of the shorter window

	got := Reconcile([]models.Activity{app}, []models.Activity{sync}, Config{}, nil)
	if len(got) != 2 {
		t.Errorf("merged count = %d, want 2", len(got))
	}
}

// TestReconcileSameSourceNeverWindowMerged verifies the fallback only
// pairs records across sources: two back-to-back app sessions are real,
// separate activities even when their windows overlap.
func TestReconcileSameSourceNeverWindowMerged(t *testing.T) {
	first := appActivity("", 10)
	second := appActivity("", 12)

	got := Reconcile([]models.Activity{first, second}, nil, Config{}, nil)
	if len(got) != 2 {
		t.Errorf("merged count = %d, want 2", len(got))
	}
}

// TestReconcileKeepsMalformedTimestamps verifies that a record with end
// before start is kept (clamped), never dropped: a timestamp anomaly must
// not erase a user's session.
func TestReconcileKeepsMalformedTimestamps(t *testing.T) {
	bad := appActivity("", 5)
	bad.EndTime = bad.StartTime.Add(-10 * time.Minute)

	got := Reconcile([]models.Activity{bad}, nil, Config{}, nil)
	if len(got) != 1 {
		t.Fatalf("merged count = %d, want 1 (kept)", len(got))
	}
}

// TestReconcileBothRoutedPrefersMoreSamples verifies the richer-record
// rule when both duplicates carry routes.
func TestReconcileBothRoutedPrefersMoreSamples(t *testing.T) {
	app := appActivity("hk-55", 20)
	sync := syncActivity("hk-55")
	for i := 0; i < 35; i++ {
		sync.Route = append(sync.Route, models.CoordinateSample{
			Latitude: 12.9, Longitude: 77.5, Time: base.Add(time.Duration(i) * time.Minute),
		})
	}

	got := Reconcile([]models.Activity{app}, []models.Activity{sync}, Config{}, nil)
	if len(got) != 1 {
		t.Fatalf("merged count = %d, want 1", len(got))
	}
	if len(got[0].Route) != 35 {
		t.Errorf("route length = %d, want the denser 35-point route", len(got[0].Route))
	}
}

// TestKeyForVariants verifies the tagged key computation: external ids take
// precedence and id-less activities get a clamped time window key.
func TestKeyForVariants(t *testing.T) {
	withID := appActivity("hk-1", 0)
	if _, ok := KeyFor(withID).(ExternalIDKey); !ok {
		t.Errorf("key for id-carrying activity = %T, want ExternalIDKey", KeyFor(withID))
	}

	noID := appActivity("", 0)
	noID.EndTime = noID.StartTime.Add(-time.Hour)
	k, ok := KeyFor(noID).(TimeWindowKey)
	if !ok {
		t.Fatalf("key for id-less activity = %T, want TimeWindowKey", KeyFor(noID))
	}
	if k.End.Before(k.Start) {
		t.Errorf("window end %v before start %v, want clamped", k.End, k.Start)
	}
}
