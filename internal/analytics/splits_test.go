package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// metersPerDegreeLat converts a step in meters to degrees of latitude, so
// test routes can be laid out along a meridian with known segment lengths.
const metersPerDegreeLat = 111194.92664455873

var testStart = time.Date(2025, 6, 14, 7, 0, 0, 0, time.UTC)

// straightRoute builds a route of n+1 points along a meridian, each segment
// stepMeters long and stepDur apart in time.
func straightRoute(stepMeters float64, stepDur time.Duration, n int) []models.CoordinateSample {
	route := make([]models.CoordinateSample, 0, n+1)
	for i := 0; i <= n; i++ {
		route = append(route, models.CoordinateSample{
			Latitude:  12.90 + float64(i)*stepMeters/metersPerDegreeLat,
			Longitude: 77.50,
			Time:      testStart.Add(time.Duration(i) * stepDur),
		})
	}
	return route
}

// uniformHR builds a heart-rate stream of n samples at the given bpm,
// stepDur apart, starting at the route start.
func uniformHR(bpm, n int, stepDur time.Duration) []models.HeartRateSample {
	hr := make([]models.HeartRateSample, 0, n)
	for i := 0; i < n; i++ {
		hr = append(hr, models.HeartRateSample{BPM: bpm, Time: testStart.Add(time.Duration(i) * stepDur)})
	}
	return hr
}

// TestBuildSplitsConstantPaceRoute verifies the canonical scenario: a
// 2.3 km route at a constant 6 min/km produces two full 1000 m splits plus
// one 300 m partial, each at 360 sec/km, with the distances summing to the
// route's total length.
func TestBuildSplitsConstantPaceRoute(t *testing.T) {
	// 46 segments of 50 m, 18 s each: 2.3 km at 6:00/km.
	route := straightRoute(50, 18*time.Second, 46)
	hr := uniformHR(140, 47, 18*time.Second)

	splits := BuildSplits(route, hr)
	if len(splits) != 3 {
		t.Fatalf("split count = %d, want 3", len(splits))
	}

	var total float64
	for i, s := range splits {
		if s.Index != i+1 {
			t.Errorf("split %d index = %d, want %d", i, s.Index, i+1)
		}
		total += s.DistanceMeters
		if s.PaceSecPerKm != 360 {
			t.Errorf("split %d pace = %d, want 360", s.Index, s.PaceSecPerKm)
		}
		if s.AvgHeartRate == nil || *s.AvgHeartRate != 140 {
			t.Errorf("split %d avg HR = %v, want 140", s.Index, s.AvgHeartRate)
		}
	}
	if math.Abs(total-2300) > 0.5 {
		t.Errorf("total split distance = %f, want 2300", total)
	}

	for _, s := range splits[:2] {
		if math.Abs(s.DistanceMeters-1000) > 1e-6 {
			t.Errorf("full split %d distance = %f, want exactly 1000", s.Index, s.DistanceMeters)
		}
		if s.DurationSec != 360 {
			t.Errorf("full split %d duration = %d, want 360", s.Index, s.DurationSec)
		}
	}
	last := splits[2]
	if math.Abs(last.DistanceMeters-300) > 0.5 {
		t.Errorf("partial split distance = %f, want 300", last.DistanceMeters)
	}
	if last.DurationSec != 108 {
		t.Errorf("partial split duration = %d, want 108", last.DurationSec)
	}
}

// TestBuildSplitsSinglePoint verifies that a route with fewer than two
// samples yields zero splits without an error.
func TestBuildSplitsSinglePoint(t *testing.T) {
	route := []models.CoordinateSample{{Latitude: 12.9, Longitude: 77.5, Time: testStart}}
	if splits := BuildSplits(route, nil); len(splits) != 0 {
		t.Errorf("split count = %d, want 0", len(splits))
	}
	if splits := BuildSplits(nil, nil); len(splits) != 0 {
		t.Errorf("split count for nil route = %d, want 0", len(splits))
	}
}

// TestBuildSplitsLongSegmentCrossesMultipleBoundaries verifies that one
// GPS segment spanning several kilometers is divided across the boundaries
// it crosses, with time interpolated proportionally.
func TestBuildSplitsLongSegmentCrossesMultipleBoundaries(t *testing.T) {
	route := []models.CoordinateSample{
		{Latitude: 12.90, Longitude: 77.50, Time: testStart},
		{Latitude: 12.90 + 2500/metersPerDegreeLat, Longitude: 77.50, Time: testStart.Add(25 * time.Minute)},
	}

	splits := BuildSplits(route, nil)
	if len(splits) != 3 {
		t.Fatalf("split count = %d, want 3", len(splits))
	}
	if splits[0].DurationSec != 600 || splits[1].DurationSec != 600 {
		t.Errorf("full split durations = %d, %d, want 600 each",
			splits[0].DurationSec, splits[1].DurationSec)
	}
	if math.Abs(splits[2].DistanceMeters-500) > 0.5 {
		t.Errorf("partial distance = %f, want 500", splits[2].DistanceMeters)
	}
	if splits[2].DurationSec != 300 {
		t.Errorf("partial duration = %d, want 300", splits[2].DurationSec)
	}
}

// TestBuildSplitsZeroDurationPace verifies that a split whose wall-clock
// duration is zero reports pace 0, the "unavailable" sentinel, instead of
// dividing by zero.
func TestBuildSplitsZeroDurationPace(t *testing.T) {
	// All points share one timestamp (ties are permitted).
	route := straightRoute(600, 0, 2)
	splits := BuildSplits(route, nil)
	if len(splits) != 2 {
		t.Fatalf("split count = %d, want 2", len(splits))
	}
	for _, s := range splits {
		if s.PaceSecPerKm != 0 {
			t.Errorf("split %d pace = %d, want 0", s.Index, s.PaceSecPerKm)
		}
	}
}

// TestBuildSplitsOutOfOrderTimestamp verifies that a backwards timestamp
// inside the route contributes zero time rather than crashing the builder
// or producing a negative duration.
func TestBuildSplitsOutOfOrderTimestamp(t *testing.T) {
	route := straightRoute(400, time.Minute, 3)
	route[2].Time = route[1].Time.Add(-30 * time.Second)

	splits := BuildSplits(route, nil)
	if len(splits) != 2 {
		t.Fatalf("split count = %d, want 2", len(splits))
	}
	for _, s := range splits {
		if s.DurationSec < 0 {
			t.Errorf("split %d duration = %d, want >= 0", s.Index, s.DurationSec)
		}
	}
}

// TestBuildSplitsElevation verifies that positive altitude deltas
// accumulate as gain and negative deltas as loss within a split.
func TestBuildSplitsElevation(t *testing.T) {
	route := straightRoute(200, time.Minute, 4) // 800 m, one partial split
	alts := []float64{900, 910, 905, 912, 908}
	for i := range route {
		route[i].Altitude = &alts[i]
	}

	splits := BuildSplits(route, nil)
	if len(splits) != 1 {
		t.Fatalf("split count = %d, want 1", len(splits))
	}
	if math.Abs(splits[0].ElevationGainM-17) > 1e-9 {
		t.Errorf("gain = %f, want 17", splits[0].ElevationGainM)
	}
	if math.Abs(splits[0].ElevationLossM-9) > 1e-9 {
		t.Errorf("loss = %f, want 9", splits[0].ElevationLossM)
	}
}

// TestBuildSplitsHeartRateWindowing verifies that heart-rate samples are
// attributed to the split whose time window contains them, and that a
// split without samples reports no average rather than zero.
func TestBuildSplitsHeartRateWindowing(t *testing.T) {
	// 2 km in 12 minutes: split 1 covers [0, 6m), split 2 covers [6m, 12m].
	route := straightRoute(500, 3*time.Minute, 4)
	hr := []models.HeartRateSample{
		{BPM: 120, Time: testStart.Add(1 * time.Minute)},
		{BPM: 130, Time: testStart.Add(5 * time.Minute)},
		{BPM: 150, Time: testStart.Add(7 * time.Minute)},
	}

	splits := BuildSplits(route, hr)
	if len(splits) != 2 {
		t.Fatalf("split count = %d, want 2", len(splits))
	}
	if splits[0].AvgHeartRate == nil || *splits[0].AvgHeartRate != 125 {
		t.Errorf("split 1 avg HR = %v, want 125", splits[0].AvgHeartRate)
	}
	if splits[1].AvgHeartRate == nil || *splits[1].AvgHeartRate != 150 {
		t.Errorf("split 2 avg HR = %v, want 150", splits[1].AvgHeartRate)
	}

	noHR := BuildSplits(route, nil)
	if noHR[0].AvgHeartRate != nil {
		t.Errorf("avg HR without samples = %v, want nil", noHR[0].AvgHeartRate)
	}
}

// TestBuildSplitsExactMultipleRoute verifies that a route whose measured
// length lands on a split boundary (up to float rounding in the segment
// sums) does not grow a near-zero trailing split.
func TestBuildSplitsExactMultipleRoute(t *testing.T) {
	// Four 500 m segments: the haversine sums overshoot 2 km by a few
	// hundred nanometres, which must not become a third split.
	route := straightRoute(500, 3*time.Minute, 4)

	splits := BuildSplits(route, nil)
	if len(splits) != 2 {
		t.Fatalf("split count = %d, want 2", len(splits))
	}
	for _, s := range splits {
		if math.Abs(s.DistanceMeters-1000) > 1e-6 {
			t.Errorf("split %d distance = %f, want exactly 1000", s.Index, s.DistanceMeters)
		}
		if s.DurationSec != 360 {
			t.Errorf("split %d duration = %d, want 360", s.Index, s.DurationSec)
		}
	}
}
