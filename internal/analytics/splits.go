package analytics

import (
	"math"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// SplitDistanceMeters is the fixed split length.
const SplitDistanceMeters = 1000.0

// splitAccum accumulates one in-progress split while walking the route.
type splitAccum struct {
	index int
	start time.Time
	dist  float64
	dur   time.Duration
	gain  float64
	loss  float64
}

// BuildSplits segments a route into 1 km splits. Split boundaries are placed
// by linear interpolation inside the segment that crosses them, so every
// full split covers exactly 1000 m and the distances of all splits sum to
// the route's total length. A trailing partial split is emitted with its
// true, smaller distance. Fewer than two coordinate samples yield no splits.
//
// Heart-rate samples whose timestamp falls inside a split's time window
// contribute to that split's average; a split with no samples gets nil.
func BuildSplits(route []models.CoordinateSample, hr []models.HeartRateSample) []models.Split {
	if len(route) < 2 {
		return nil
	}

	var splits []models.Split
	acc := splitAccum{index: 1, start: route[0].Time}
	cursor := route[0].Time

	for i := 1; i < len(route); i++ {
		p, q := route[i-1], route[i]

		segDist := haversineMeters(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
		segDur := q.Time.Sub(p.Time)
		if segDur < 0 {
			// Out-of-order timestamp: clamp rather than crash.
			segDur = 0
		}
		var segAlt float64
		if p.Altitude != nil && q.Altitude != nil {
			segAlt = *q.Altitude - *p.Altitude
		}

		remDist, remDur, remAlt := segDist, segDur, segAlt

		// A single long segment may cross several boundaries.
		for acc.dist+remDist >= SplitDistanceMeters {
			need := SplitDistanceMeters - acc.dist
			frac := 1.0
			if remDist > 0 {
				frac = need / remDist
			}
			useDur := time.Duration(float64(remDur) * frac)
			useAlt := remAlt * frac

			acc.dist = SplitDistanceMeters
			acc.dur += useDur
			acc.addAltitude(useAlt)
			cursor = cursor.Add(useDur)

			splits = append(splits, acc.close(cursor))
			acc = splitAccum{index: acc.index + 1, start: cursor}

			remDist -= need
			remDur -= useDur
			remAlt -= useAlt
		}

		acc.dist += remDist
		acc.dur += remDur
		acc.addAltitude(remAlt)
		cursor = cursor.Add(remDur)
	}

	// Boundary interpolation can leave sub-micrometre residue in the
	// accumulator; that is rounding noise, not a trailing partial split.
	if acc.dist > 1e-6 {
		splits = append(splits, acc.close(cursor))
	}

	attachHeartRate(splits, hr)
	return splits
}

func (a *splitAccum) addAltitude(delta float64) {
	if delta > 0 {
		a.gain += delta
	} else {
		a.loss += -delta
	}
}

func (a *splitAccum) close(end time.Time) models.Split {
	durSec := int(math.Round(a.dur.Seconds()))
	pace := 0
	if durSec > 0 && a.dist > 0 {
		pace = int(math.Round(float64(durSec) / (a.dist / 1000)))
	}
	return models.Split{
		Index:          a.index,
		DistanceMeters: a.dist,
		DurationSec:    durSec,
		PaceSecPerKm:   pace,
		ElevationGainM: a.gain,
		ElevationLossM: a.loss,
		StartTime:      a.start,
		EndTime:        end,
	}
}

// attachHeartRate fills each split's average heart rate from the samples
// inside its time window. The final split's window is end-inclusive so the
// last reading of a session is not lost.
func attachHeartRate(splits []models.Split, hr []models.HeartRateSample) {
	for i := range splits {
		last := i == len(splits)-1
		var sum, n int
		for _, s := range hr {
			if s.Time.Before(splits[i].StartTime) {
				continue
			}
			if s.Time.After(splits[i].EndTime) || (!last && s.Time.Equal(splits[i].EndTime)) {
				continue
			}
			sum += s.BPM
			n++
		}
		if n > 0 {
			avg := int(math.Round(float64(sum) / float64(n)))
			splits[i].AvgHeartRate = &avg
		}
	}
}
