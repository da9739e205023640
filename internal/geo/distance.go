// Package geo holds the pure distance, ETA and delivery fee calculations.
// Nothing here returns an error: malformed input degrades to "unknown".
package geo

import (
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// UnknownETA is reported when either endpoint has no usable coordinates.
const UnknownETA = "unknown"

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether p is a finite coordinate inside the WGS84 ranges.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// PointFrom builds a point from nullable columns.
func PointFrom(lat, lon *float64) (Point, bool) {
	if lat == nil || lon == nil {
		return Point{}, false
	}
	p := Point{Lat: *lat, Lon: *lon}
	return p, p.Valid()
}

// ParsePoint parses decimal strings such as query parameters.
func ParsePoint(lat, lon string) (Point, bool) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Point{}, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Point{}, false
	}
	p := Point{Lat: la, Lon: lo}
	return p, p.Valid()
}

// DistanceKm returns the great-circle distance rounded to two decimals.
// ok is false when either point is invalid.
func DistanceKm(a, b Point) (float64, bool) {
	if !a.Valid() || !b.Valid() {
		return 0, false
	}
	const degToRad = math.Pi / 180
	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*degToRad)*math.Cos(b.Lat*degToRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return Round2(EarthRadiusKm * c), true
}

// EstimateDeliveryTime buckets a distance into a human readable window.
func EstimateDeliveryTime(km float64) string {
	switch {
	case math.IsNaN(km) || km < 0:
		return UnknownETA
	case km <= 2:
		return "15-25 min"
	case km <= 5:
		return "20-35 min"
	case km <= 10:
		return "30-50 min"
	case km <= 20:
		return "45-75 min"
	default:
		return "1-2 hours"
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
