package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SyncTime handles the health-sync export date format: "2006-01-02 15:04:05 -0700".
// Also handles the date-only format "2006-01-02" used in daily summary records.
type SyncTime struct {
	time.Time
}

const (
	SyncTimeLayout     = "2006-01-02 15:04:05 -0700"
	SyncDateOnlyLayout = "2006-01-02"
)

func (t *SyncTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.Parse(s)
}

func (t SyncTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(SyncTimeLayout))
}

// Parse parses a sync time string, trying full datetime first, then date-only.
func (t *SyncTime) Parse(s string) error {
	parsed, err := time.Parse(SyncTimeLayout, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(SyncDateOnlyLayout, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse sync time %q: %w", s, err)
}

// ParseSyncTime parses a sync time string into a time.Time.
func ParseSyncTime(s string) (time.Time, error) {
	var t SyncTime
	if err := t.Parse(s); err != nil {
		return time.Time{}, err
	}
	return t.Time, nil
}
