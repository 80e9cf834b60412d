// Package geoutil holds the small pure helpers shared by the constraint
// engine, executor, and remediation pipeline: clock-string conversion,
// duration formatting, and great-circle distance.
package geoutil

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock string %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock string %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight back to "HH:MM".
// Values are clamped into a single day.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 23*60+59 {
		minutes = 23*60 + 59
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDuration renders a minute count as "2h 15m", "45m", or "2h".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// Distance returns the great-circle distance in meters between two
// lat/lng pairs.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lng1, lat1}, orb.Point{lng2, lat2})
}

const (
	walkSpeedKmh    = 4.0
	transitSpeedKmh = 25.0
	transitOverhead = 10 // minutes spent getting to and waiting for transit
	walkCutoffKm    = 2.0
)

// EstimateCommuteMinutes approximates a commute duration when no resolved
// commute record is available: walking below 2 km, transit above.
func EstimateCommuteMinutes(distanceMeters float64) int {
	km := distanceMeters / 1000
	if km <= walkCutoffKm {
		return int(km / walkSpeedKmh * 60)
	}
	return int(km/transitSpeedKmh*60) + transitOverhead
}
