// Package reconcile deduplicates activity records that arrive from two
// independent sources: the in-app tracker and the external health-data
// sync. Both may describe the same real-world session; before analytics or
// aggregation run, the two sets must be folded into one.
package reconcile

import (
	"log/slog"
	"sort"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
)

// DefaultOverlapThreshold is the minimum share of the shorter record's time
// window that must overlap for two id-less records to be considered the
// same session.
const DefaultOverlapThreshold = 0.80

// Config controls the time-window fallback matching.
type Config struct {
	// OverlapThreshold is the required overlap fraction of the shorter
	// window, in (0, 1]. Zero means DefaultOverlapThreshold.
	OverlapThreshold float64
}

func (c Config) threshold() float64 {
	if c.OverlapThreshold <= 0 {
		return DefaultOverlapThreshold
	}
	return c.OverlapThreshold
}

// MatchKey identifies the real-world session a record describes. Records
// sharing a key are duplicates.
type MatchKey interface {
	matchKey()
}

// ExternalIDKey matches records by the external system's native workout
// identifier. This is the primary, exact key.
type ExternalIDKey string

func (ExternalIDKey) matchKey() {}

// TimeWindowKey is the fallback identity for records without an external
// id: the session's time window plus its type. Two window keys from
// different sources match when they overlap sufficiently.
type TimeWindowKey struct {
	Start time.Time
	End   time.Time
	Type  models.ActivityType
}

func (TimeWindowKey) matchKey() {}

// KeyFor computes the match key for an activity. A malformed end-before-
// start window is clamped to a zero-length window at the start time.
func KeyFor(a models.Activity) MatchKey {
	if a.ExternalID != "" {
		return ExternalIDKey(a.ExternalID)
	}
	end := a.EndTime
	if end.Before(a.StartTime) {
		end = a.StartTime
	}
	return TimeWindowKey{Start: a.StartTime, End: end, Type: a.Type}
}

// Merged is a deduplicated activity tagged with the sources that
// contributed a record for it.
type Merged struct {
	models.Activity
	Sources []models.ActivitySource `json:"sources"`
}

// Reconcile folds the tracker's and the sync's activity lists into one
// deduplicated list. Matching is a grouping by MatchKey: exact grouping on
// shared external ids, then cross-source time-window overlap (>= the
// configured share of the shorter window, same activity type) for the rest.
// On a match the richer record wins: a non-empty route beats none, more
// route samples beat fewer, and the app record wins ties since it is the
// session of record for splits and pace.
//
// Records with timestamp anomalies are kept (logged, window clamped), never
// dropped: a user's history must not silently lose sessions. The result is
// independent of input order within each list pair.
func Reconcile(app, synced []models.Activity, cfg Config, log *slog.Logger) []Merged {
	if log == nil {
		log = slog.Default()
	}

	merged := make([]Merged, 0, len(app)+len(synced))
	byExternalID := make(map[ExternalIDKey]int)

	add := func(a models.Activity) {
		if a.EndTime.Before(a.StartTime) {
			log.Warn("activity has end before start, keeping with clamped duration",
				"id", a.ID, "source", a.Source,
				"start", a.StartTime, "end", a.EndTime)
		}
		if key, ok := KeyFor(a).(ExternalIDKey); ok {
			if i, seen := byExternalID[key]; seen {
				merged[i] = merge(merged[i], a)
				return
			}
			byExternalID[key] = len(merged)
		}
		merged = append(merged, Merged{Activity: a, Sources: []models.ActivitySource{a.Source}})
	}

	for _, a := range app {
		add(a)
	}
	for _, a := range synced {
		add(a)
	}

	merged = mergeOverlapping(merged, cfg.threshold())

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime.Before(merged[j].StartTime)
	})
	return merged
}

// mergeOverlapping applies the time-window fallback: id-less records from
// different sources whose windows overlap enough and whose types match are
// folded together.
func mergeOverlapping(in []Merged, threshold float64) []Merged {
	out := make([]Merged, 0, len(in))
	used := make([]bool, len(in))

	for i := range in {
		if used[i] {
			continue
		}
		cur := in[i]
		ki, isWindow := KeyFor(cur.Activity).(TimeWindowKey)
		if isWindow {
			for j := i + 1; j < len(in); j++ {
				if used[j] {
					continue
				}
				kj, ok := KeyFor(in[j].Activity).(TimeWindowKey)
				if !ok || kj.Type != ki.Type {
					continue
				}
				if !crossSource(cur, in[j]) {
					continue
				}
				if windowOverlap(ki, kj) >= threshold {
					cur = merge(cur, in[j].Activity)
					ki, _ = KeyFor(cur.Activity).(TimeWindowKey)
					used[j] = true
				}
			}
		}
		out = append(out, cur)
	}
	return out
}

// crossSource reports whether b's source is absent from a's contributors.
// The fallback only pairs records across sources; two app sessions close in
// time are genuinely distinct.
func crossSource(a Merged, b Merged) bool {
	for _, s := range a.Sources {
		for _, t := range b.Sources {
			if s == t {
				return false
			}
		}
	}
	return true
}

// windowOverlap returns the overlap of two windows as a fraction of the
// shorter one. A zero-length shorter window contained in the other counts
// as a full overlap.
func windowOverlap(a, b TimeWindowKey) float64 {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	overlap := end.Sub(start)
	if overlap < 0 {
		return 0
	}

	shorter := a.End.Sub(a.Start)
	if d := b.End.Sub(b.Start); d < shorter {
		shorter = d
	}
	if shorter <= 0 {
		// Degenerate window: full overlap if it sits inside the other.
		if overlap >= 0 {
			return 1
		}
		return 0
	}
	return float64(overlap) / float64(shorter)
}

// merge resolves a duplicate pair, preferring the record carrying richer
// data, and records both contributing sources.
func merge(m Merged, b models.Activity) Merged {
	winner := pickWinner(m.Activity, b)
	winner = backfill(winner, m.Activity)
	winner = backfill(winner, b)

	sources := m.Sources
	found := false
	for _, s := range sources {
		if s == b.Source {
			found = true
			break
		}
	}
	if !found {
		sources = append(sources, b.Source)
	}
	return Merged{Activity: winner, Sources: sources}
}

// backfill copies summary fields the winner lacks from the other record,
// so a summary-only sync record still contributes its totals when the app
// session wins on route richness.
func backfill(winner, other models.Activity) models.Activity {
	if winner.ExternalID == "" {
		winner.ExternalID = other.ExternalID
	}
	if winner.DistanceKm == 0 {
		winner.DistanceKm = other.DistanceKm
	}
	if winner.Steps == 0 {
		winner.Steps = other.Steps
	}
	if winner.Calories == 0 {
		winner.Calories = other.Calories
	}
	if winner.AvgBPM == 0 {
		winner.AvgBPM = other.AvgBPM
	}
	return winner
}

// pickWinner implements the resolution policy: non-empty route wins; both
// routed, more samples win; ties prefer the app record.
func pickWinner(a, b models.Activity) models.Activity {
	switch {
	case a.HasRoute() && !b.HasRoute():
		return a
	case b.HasRoute() && !a.HasRoute():
		return b
	case len(a.Route) != len(b.Route):
		if len(a.Route) > len(b.Route) {
			return a
		}
		return b
	case a.Source == models.SourceApp:
		return a
	case b.Source == models.SourceApp:
		return b
	default:
		return a
	}
}
