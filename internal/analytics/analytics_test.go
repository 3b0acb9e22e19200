package analytics

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/google/uuid"
)

func testActivity() models.Activity {
	return models.Activity{
		ID:        uuid.MustParse("7b69cdcd-6f7a-44f8-9f4e-2c9f26d1a111"),
		Source:    models.SourceApp,
		Type:      models.TypeRun,
		StartTime: testStart,
		EndTime:   testStart.Add(23 * 18 * 2 * time.Second),
		Route:     straightRoute(50, 18*time.Second, 46), // 2.3 km at 6:00/km
		HeartRate: uniformHR(140, 47, 18*time.Second),
	}
}

// TestComputeIdempotent verifies the pure-function property: computing the
// same activity twice yields identical analytics.
func TestComputeIdempotent(t *testing.T) {
	a := testActivity()
	opts := Options{MaxHeartRate: 180}

	first, err := Compute(a, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compute(a, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Compute produced different results")
	}
}

// TestComputeFullResult verifies the combined result: splits, pace series,
// zone distribution, and the scalar pace summary for a steady run.
func TestComputeFullResult(t *testing.T) {
	res, err := Compute(testActivity(), Options{MaxHeartRate: 180})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Splits) != 3 {
		t.Errorf("split count = %d, want 3", len(res.Splits))
	}
	if len(res.PaceSamples) == 0 {
		t.Error("expected pace samples")
	}
	if res.Zones == nil {
		t.Fatal("expected zone distribution")
	}
	if got := res.Zones.Percentage(models.ZoneCardio); got != 100 {
		t.Errorf("cardio percentage = %f, want 100", got)
	}
	if res.HeartRate == nil || res.HeartRate.Avg != 140 {
		t.Errorf("heart rate summary = %+v, want avg 140", res.HeartRate)
	}
	if res.AvgPaceSecPerKm != 360 {
		t.Errorf("avg pace = %d, want 360", res.AvgPaceSecPerKm)
	}
	if res.BestSplitIndex == 0 || res.WorstSplitIndex == 0 {
		t.Errorf("best/worst split index = %d/%d, want set", res.BestSplitIndex, res.WorstSplitIndex)
	}
}

// TestComputeSummaryOnlyActivity verifies that a routeless sync record
// produces empty splits and pace samples without an error.
func TestComputeSummaryOnlyActivity(t *testing.T) {
	a := models.Activity{
		ID:         uuid.New(),
		Source:     models.SourceHealthSync,
		ExternalID: "hk-123",
		Type:       models.TypeWalk,
		StartTime:  testStart,
		EndTime:    testStart.Add(30 * time.Minute),
		DistanceKm: 2.1,
	}

	res, err := Compute(a, Options{MaxHeartRate: 180})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Splits) != 0 || len(res.PaceSamples) != 0 {
		t.Errorf("splits/pace = %d/%d, want 0/0", len(res.Splits), len(res.PaceSamples))
	}
	if res.Zones != nil {
		t.Error("expected no zone distribution without heart-rate samples")
	}
}

// TestComputeInvalidReferenceSurfaces verifies that a bad heart-rate
// reference is the one condition surfaced as a hard error.
func TestComputeInvalidReferenceSurfaces(t *testing.T) {
	_, err := Compute(testActivity(), Options{MaxHeartRate: 0})
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("error = %v, want ErrInvalidReference", err)
	}
}

// TestComputeBestWorstSplit verifies the best/worst pace selection across
// splits of differing speeds.
func TestComputeBestWorstSplit(t *testing.T) {
	// First km at 18 s per 50 m (6:00/km), second at 24 s per 50 m (8:00/km).
	route := straightRoute(50, 18*time.Second, 20)
	lastTime := route[len(route)-1].Time
	for i := 1; i <= 20; i++ {
		route = append(route, models.CoordinateSample{
			Latitude:  route[len(route)-1].Latitude + 50/metersPerDegreeLat,
			Longitude: 77.50,
			Time:      lastTime.Add(time.Duration(i) * 24 * time.Second),
		})
	}

	a := models.Activity{ID: uuid.New(), Route: route}
	res, err := Compute(a, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Splits) != 2 {
		t.Fatalf("split count = %d, want 2", len(res.Splits))
	}
	if res.BestSplitIndex != 1 || res.BestPaceSecPerKm != 360 {
		t.Errorf("best = split %d at %d, want split 1 at 360", res.BestSplitIndex, res.BestPaceSecPerKm)
	}
	if res.WorstSplitIndex != 2 || res.WorstPaceSecPerKm != 480 {
		t.Errorf("worst = split %d at %d, want split 2 at 480", res.WorstSplitIndex, res.WorstPaceSecPerKm)
	}
}
