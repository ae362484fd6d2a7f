package domain

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// Location is a geographic point. How a fix was obtained is outside the core;
// only the value is consumed here.
type Location struct {
	Lat float64
	Lng float64
}

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(a, b Location) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ValidCoordinates reports whether lat/lng fall inside the WGS84 range.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// StopKind distinguishes pickup and dropoff visiting points.
type StopKind string

const (
	StopPickup  StopKind = "PICKUP"
	StopDropoff StopKind = "DROPOFF"
)

// Stop is a derived visiting point generated from an order's current
// lifecycle state. Stops are planning data consumed by the route optimizer;
// they are never persisted.
type Stop struct {
	Kind                   StopKind
	OrderID                string
	Label                  string
	Location               Location
	DistanceFromPreviousKm float64
}
