package analytics

import (
	"errors"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// ErrInvalidReference is returned when the reference maximum heart rate is
// zero or negative. This is the engine's only hard error class: the caller
// must supply a valid reference, and compensates by skipping zone analytics
// rather than the engine guessing one.
var ErrInvalidReference = errors.New("reference max heart rate must be positive")

// ZoneFor classifies a heart-rate reading against the reference maximum
// using the fixed percentage boundaries: <60% recovery, 60-70% fat burn,
// 70-80% cardio, 80-90% peak, >=90% maximum.
func ZoneFor(bpm, maxHeartRate int) models.HeartRateZone {
	r := float64(bpm) / float64(maxHeartRate)
	switch {
	case r < 0.60:
		return models.ZoneRecovery
	case r < 0.70:
		return models.ZoneFatBurn
	case r < 0.80:
		return models.ZoneCardio
	case r < 0.90:
		return models.ZonePeak
	default:
		return models.ZoneMaximum
	}
}

// ClassifyZones buckets every sample into a zone and accumulates dwell time.
// Elapsed time since the previous sample is attributed entirely to the
// current sample's zone; the first sample contributes zero dwell. The
// distribution is therefore an approximation bounded by sample density;
// no interpolation between samples is performed. A single-sample stream
// yields an all-zero distribution.
//
// Out-of-order samples contribute zero dwell rather than negative time.
func ClassifyZones(samples []models.HeartRateSample, maxHeartRate int) (models.ZoneDistribution, models.HeartRateSummary, error) {
	var dist models.ZoneDistribution
	var sum models.HeartRateSummary

	if maxHeartRate <= 0 {
		return dist, sum, ErrInvalidReference
	}
	if len(samples) == 0 {
		return dist, sum, nil
	}

	sum.Min = samples[0].BPM
	var bpmTotal int
	for i, s := range samples {
		if i > 0 {
			dwell := s.Time.Sub(samples[i-1].Time)
			if dwell > 0 {
				dist.Time[ZoneFor(s.BPM, maxHeartRate)] += dwell
			}
		}
		bpmTotal += s.BPM
		if s.BPM > sum.Max {
			sum.Max = s.BPM
		}
		if s.BPM < sum.Min {
			sum.Min = s.BPM
		}
	}
	sum.Avg = bpmTotal / len(samples)

	return dist, sum, nil
}
