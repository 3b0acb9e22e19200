package analytics

import (
	"math"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// DefaultPaceStrideMeters is the sampling stride of the pace series.
const DefaultPaceStrideMeters = 50.0

// BuildPaceSeries produces the continuous pace/speed curve for charting,
// independent of split boundaries. Sampling is distance-based: one sample
// per strideMeters of travel (interpolated inside the crossing segment),
// plus a final sample for the leftover distance at the route's end. The
// series is finite, ordered by cumulative distance, and recomputed on
// demand rather than stored.
//
// A sample covering zero elapsed time or zero distance carries pace 0 and
// speed 0, the "no movement" sentinel, never an infinity.
func BuildPaceSeries(route []models.CoordinateSample, strideMeters float64) []models.PaceSample {
	if strideMeters <= 0 {
		strideMeters = DefaultPaceStrideMeters
	}
	if len(route) < 2 {
		return nil
	}

	var samples []models.PaceSample
	cursor := route[0].Time
	var total float64     // cumulative route distance in meters
	var dist float64      // distance since the last emitted sample
	var dur time.Duration // elapsed since the last emitted sample

	for i := 1; i < len(route); i++ {
		p, q := route[i-1], route[i]

		segDist := haversineMeters(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
		segDur := q.Time.Sub(p.Time)
		if segDur < 0 {
			segDur = 0
		}

		remDist, remDur := segDist, segDur
		for dist+remDist >= strideMeters {
			need := strideMeters - dist
			frac := 1.0
			if remDist > 0 {
				frac = need / remDist
			}
			useDur := time.Duration(float64(remDur) * frac)

			total += need
			cursor = cursor.Add(useDur)
			samples = append(samples, paceSample(total, strideMeters, dur+useDur, cursor))

			dist, dur = 0, 0
			remDist -= need
			remDur -= useDur
		}

		dist += remDist
		dur += remDur
		total += remDist
		cursor = cursor.Add(remDur)
	}

	// Same residue guard as the split builder: stride interpolation can
	// leave rounding noise behind, which is not a real trailing sample.
	if dist > 1e-6 {
		samples = append(samples, paceSample(total, dist, dur, cursor))
	}
	return samples
}

func paceSample(totalMeters, distMeters float64, elapsed time.Duration, at time.Time) models.PaceSample {
	s := models.PaceSample{
		CumulativeDistanceKm: totalMeters / 1000,
		Time:                 at,
	}
	sec := elapsed.Seconds()
	if sec > 0 && distMeters > 0 {
		s.SpeedKmh = (distMeters / 1000) / (sec / 3600)
		s.PaceSecPerKm = int(math.Round(sec / (distMeters / 1000)))
	}
	return s
}
