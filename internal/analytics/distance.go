// Package analytics turns raw activity samples into derived structures:
// per-kilometer splits, a pace time-series, heart-rate zone distributions,
// and multi-period aggregate statistics. Everything here is a pure function
// over immutable inputs; re-running after a late sample correction is simply
// a recompute, never a patch.
package analytics

import "github.com/golang/geo/s2"

const earthRadiusMeters = 6371000.0

// haversineMeters returns the great-circle distance between two coordinates
// in meters.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}
