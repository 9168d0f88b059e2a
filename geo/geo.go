package geo

import (
	"fmt"
	"math"
	"time"
)

const (
	// EarthRadiusMeters is the mean sphere radius used by the haversine
	// formula.
	EarthRadiusMeters = 6371000.0

	// DefaultCheckInRadiusMeters is how close a player must be to the game
	// location for check-in to count.
	DefaultCheckInRadiusMeters = 500.0

	// DefaultCheckInWindow is how far on either side of the scheduled start
	// check-in is accepted.
	DefaultCheckInWindow = 15 * time.Minute
)

// Point is a WGS84 coordinate pair in degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the great-circle distance between two points in meters.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// WithinRadius reports whether current is at most radiusMeters from target.
func WithinRadius(current, target Point, radiusMeters float64) bool {
	return Distance(current, target) <= radiusMeters
}

// WithinWindow reports whether now falls inside [start-window, start+window].
func WithinWindow(now, start time.Time, window time.Duration) bool {
	return !now.Before(start.Add(-window)) && !now.After(start.Add(window))
}

// TimeUntilWindowOpens returns how long until check-in opens, zero if it
// already has.
func TimeUntilWindowOpens(now, start time.Time, window time.Duration) time.Duration {
	d := start.Add(-window).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// FormatDistance renders meters for display: "523m" below a kilometer,
// otherwise kilometers to one decimal, "1.2km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
