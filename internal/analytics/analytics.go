package analytics

import (
	"math"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// Options carries the engine's reference inputs.
type Options struct {
	// MaxHeartRate is the reference maximum used for zone classification,
	// typically age-derived by the caller.
	MaxHeartRate int
	// PaceStrideMeters is the pace series sampling stride; zero means the
	// default.
	PaceStrideMeters float64
}

// Compute materializes the full analytics for one activity: splits, pace
// series, heart-rate zone distribution, and summary scalars. The result is
// a pure function of the input; computing twice yields identical output.
//
// An empty or summary-only route produces empty splits and pace samples,
// not an error. The only error condition is an invalid heart-rate reference
// while the activity carries heart-rate samples; callers are expected to
// skip zone analytics for that activity.
func Compute(a models.Activity, opts Options) (*models.ActivityAnalytics, error) {
	res := &models.ActivityAnalytics{
		ActivityID:  a.ID,
		Splits:      BuildSplits(a.Route, a.HeartRate),
		PaceSamples: BuildPaceSeries(a.Route, opts.PaceStrideMeters),
	}

	if len(a.HeartRate) > 0 {
		dist, sum, err := ClassifyZones(a.HeartRate, opts.MaxHeartRate)
		if err != nil {
			return nil, err
		}
		res.Zones = &dist
		res.HeartRate = &sum
	}

	summarizePace(res)
	return res, nil
}

// summarizePace fills the scalar pace summary from the splits. Best and
// worst consider only splits with an available pace, so a degenerate
// zero-duration split never masquerades as the fastest kilometer.
func summarizePace(res *models.ActivityAnalytics) {
	var totalDur, totalKm float64
	for _, s := range res.Splits {
		totalDur += float64(s.DurationSec)
		totalKm += s.DistanceMeters / 1000

		if s.PaceSecPerKm == 0 {
			continue
		}
		if res.BestPaceSecPerKm == 0 || s.PaceSecPerKm < res.BestPaceSecPerKm {
			res.BestPaceSecPerKm = s.PaceSecPerKm
			res.BestSplitIndex = s.Index
		}
		if s.PaceSecPerKm > res.WorstPaceSecPerKm {
			res.WorstPaceSecPerKm = s.PaceSecPerKm
			res.WorstSplitIndex = s.Index
		}
	}
	if totalKm > 0 && totalDur > 0 {
		res.AvgPaceSecPerKm = int(math.Round(totalDur / totalKm))
	}
}
