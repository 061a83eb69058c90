// Package geo provides the geometric primitives used by the matching
// engine: great-circle distance between geocoded points and the
// normalization of a distance into a pairing score.
package geo

import (
	"math"

	"github.com/scolarite/affect/core/model"
)

const (
	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0

	// DefaultCutoffKm bounds the distance-to-score decay when a scenario
	// does not configure its own cutoff.
	DefaultCutoffKm = 50.0

	// avgSpeedKmh is the assumed average travel speed used for display
	// duration estimates only. It never enters scoring.
	avgSpeedKmh = 40.0
)

// Distance returns the great-circle distance in kilometers between two
// points, using the haversine formula. Identical points yield exactly 0.
func Distance(a, b model.GeoPoint) float64 {
	if a == b {
		return 0
	}
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Clamp guards against rounding pushing h past 1 for antipodal points.
	if h > 1 {
		h = 1
	}
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Score maps a distance to a score in [0,100], decaying linearly from
// 100 at 0 km down to 0 at cutoffKm and beyond. A non-positive cutoff
// falls back to DefaultCutoffKm.
func Score(distKm, cutoffKm float64) float64 {
	if cutoffKm <= 0 {
		cutoffKm = DefaultCutoffKm
	}
	if distKm <= 0 {
		return 100
	}
	if distKm >= cutoffKm {
		return 0
	}
	return 100 * (1 - distKm/cutoffKm)
}

// CommuneScore scores same-commune proximity. Points within about two
// kilometers are treated as the same commune.
func CommuneScore(distKm float64) float64 {
	if distKm <= 2 {
		return 100
	}
	return 0
}

// DurationMinutes estimates the travel time in minutes for a distance,
// assuming the average speed constant. Display only.
func DurationMinutes(distKm float64) float64 {
	if distKm <= 0 {
		return 0
	}
	return distKm / avgSpeedKmh * 60
}
