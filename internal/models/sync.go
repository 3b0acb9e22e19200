package models

// Wire shapes for the external health-sync export. Workout records carry the
// source system's native workout UUID in "id"; the reconciler uses it as the
// dedup key. Route and heart-rate arrays are optional: a summary-only record
// is valid input and simply produces no splits or pace samples.

// SyncPayload is the top-level health-sync JSON structure.
type SyncPayload struct {
	Data SyncData `json:"data"`
}

// SyncData contains the arrays of synced records.
type SyncData struct {
	Workouts []SyncWorkout `json:"workouts"`
}

// SyncQuantity is a value with units, as the export nests quantities.
type SyncQuantity struct {
	Qty   float64 `json:"qty"`
	Units string  `json:"units"`
}

// SyncWorkout is one workout record from the external source.
type SyncWorkout struct {
	ID    string   `json:"id"`
	Type  string   `json:"type"`
	Start SyncTime `json:"start"`
	End   SyncTime `json:"end"`

	Distance     *SyncQuantity `json:"distance,omitempty"`
	ActiveEnergy *SyncQuantity `json:"activeEnergyBurned,omitempty"`
	StepCount    *SyncQuantity `json:"stepCount,omitempty"`
	AvgHeartRate *SyncQuantity `json:"avgHeartRate,omitempty"`

	Route         []SyncRoutePoint `json:"route,omitempty"`
	HeartRateData []SyncHRPoint    `json:"heartRateData,omitempty"`
}

// SyncRoutePoint is one GPS point in a synced workout route.
type SyncRoutePoint struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Timestamp SyncTime `json:"timestamp"`
}

// SyncHRPoint is one heart-rate reading in a synced workout.
type SyncHRPoint struct {
	Date SyncTime `json:"date"`
	Qty  float64  `json:"qty"`
}
