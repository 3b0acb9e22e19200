package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivitySource identifies which collaborator produced an activity record.
type ActivitySource string

const (
	// SourceApp is the in-app tracker, which supplies a fully formed
	// activity with a route at session end.
	SourceApp ActivitySource = "app"
	// SourceHealthSync is the external wearable/health-data sync, which may
	// supply summary-only records without a route.
	SourceHealthSync ActivitySource = "health_sync"
)

// ActivityType classifies the kind of tracked session.
type ActivityType string

const (
	TypeWalk    ActivityType = "walk"
	TypeRun     ActivityType = "run"
	TypeCommute ActivityType = "commute"
)

// ValidActivityType reports whether s names a known activity type.
func ValidActivityType(s string) bool {
	switch ActivityType(s) {
	case TypeWalk, TypeRun, TypeCommute:
		return true
	}
	return false
}

// CoordinateSample is a single GPS point in an activity route.
// Timestamps are monotonically non-decreasing within one activity; ties
// are permitted.
type CoordinateSample struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Time      time.Time `json:"time"`
	Altitude  *float64  `json:"altitude,omitempty"`
}

// HeartRateSample is a single heart-rate reading during an activity.
type HeartRateSample struct {
	BPM        int       `json:"bpm"`
	Time       time.Time `json:"time"`
	DistanceKm *float64  `json:"distance_km,omitempty"`
}

// Activity is the unit of tracking. It is immutable once built except for
// RemoteID, which the persistence layer attaches after a successful insert.
type Activity struct {
	ID         uuid.UUID      `json:"id"`
	RemoteID   *uuid.UUID     `json:"remote_id,omitempty"`
	ExternalID string         `json:"external_id,omitempty"`
	Source     ActivitySource `json:"source"`
	Type       ActivityType   `json:"type"`
	StartTime  time.Time      `json:"start_time"`
	EndTime    time.Time      `json:"end_time"`
	DistanceKm float64        `json:"distance_km"`
	AvgBPM     int            `json:"avg_bpm"`
	Steps      int            `json:"steps"`
	Calories   int            `json:"calories"`

	Route     []CoordinateSample `json:"route,omitempty"`
	HeartRate []HeartRateSample  `json:"heart_rate,omitempty"`
}

// Duration returns the wall-clock span of the activity. A malformed record
// with EndTime before StartTime yields zero rather than a negative span, so
// one bad timestamp never poisons downstream aggregation.
func (a Activity) Duration() time.Duration {
	d := a.EndTime.Sub(a.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// HasRoute reports whether the record carries GPS data. Summary-only
// records from health sync are valid and simply produce no splits.
func (a Activity) HasRoute() bool {
	return len(a.Route) > 0
}
