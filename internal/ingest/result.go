// Package ingest turns tracker and health-sync payloads into stored
// activities and keeps the derived daily totals current.
package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	ActivitiesReceived int      `json:"activities_received"`
	ActivitiesInserted int      `json:"activities_inserted"`
	ActivitiesSkipped  int      `json:"activities_skipped"`
	RoutePoints        int64    `json:"route_points"`
	HeartRatePoints    int64    `json:"heart_rate_points"`
	DaysRecomputed     int      `json:"days_recomputed"`
	RejectedTypes      []string `json:"rejected_types,omitempty"`

	Message string `json:"message,omitempty"`
}