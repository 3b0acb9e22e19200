package models

import "time"

// SessionPayload is the in-app tracker's session upload, sent once at
// session end. Unlike health-sync records it is always fully formed:
// timestamps are RFC 3339 and the route is present for outdoor sessions.
type SessionPayload struct {
	Type       string    `json:"type"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	DistanceKm float64   `json:"distance_km"`
	Steps      int       `json:"steps"`
	Calories   int       `json:"calories"`
	AvgBPM     int       `json:"avg_bpm"`

	Route     []CoordinateSample `json:"route,omitempty"`
	HeartRate []HeartRateSample  `json:"heart_rate,omitempty"`

	// ExternalID is set when the session was also written to the device's
	// health store, so the reconciler can pair it with a later sync record.
	ExternalID string `json:"external_id,omitempty"`
}
