package kernel

import (
	"fmt"
	"math"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Zone names a delivery area served from a fixed centroid.
type Zone string

const (
	ZoneCBD     Zone = "CBD"
	ZoneNyali   Zone = "NYALI"
	ZoneBamburi Zone = "BAMBURI"
	ZoneKisauni Zone = "KISAUNI"

	// DefaultZone is used when a caller does not name one.
	DefaultZone = ZoneCBD

	earthRadiusKm = 6371.0
)

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

var zoneCentroids = map[Zone]Coordinates{
	ZoneCBD:     {Lat: -4.0435, Lng: 39.6682},
	ZoneNyali:   {Lat: -4.0336, Lng: 39.7192},
	ZoneBamburi: {Lat: -3.9808, Lng: 39.7268},
	ZoneKisauni: {Lat: -4.0137, Lng: 39.6527},
}

// KnownZones lists the served zones in a stable order.
func KnownZones() []Zone {
	return []Zone{ZoneCBD, ZoneNyali, ZoneBamburi, ZoneKisauni}
}

// ParseZone normalizes raw input ("nyali ", "Nyali") and rejects unserved zones.
// An empty value resolves to DefaultZone.
func ParseZone(raw string) (Zone, error) {
	normalized := Zone(strings.ToUpper(strings.TrimSpace(raw)))
	if normalized == "" {
		return DefaultZone, nil
	}
	if !normalized.IsKnown() {
		return "", errs.NewValueIsInvalidErrorWithCause("zone", fmt.Errorf("%q is not a served zone", raw))
	}
	return normalized, nil
}

// IsKnown reports whether the zone has a centroid.
func (z Zone) IsKnown() bool {
	_, ok := zoneCentroids[z]
	return ok
}

// Centroid returns the zone's reference point. Unknown zones resolve to the
// DefaultZone centroid so distance estimates never fail.
func (z Zone) Centroid() Coordinates {
	if c, ok := zoneCentroids[z]; ok {
		return c
	}
	return zoneCentroids[DefaultZone]
}

// DistanceKm is the great-circle distance between the two zone centroids.
func (z Zone) DistanceKm(other Zone) float64 {
	return HaversineKm(z.Centroid(), other.Centroid())
}

func (z Zone) String() string {
	return string(z)
}

// HaversineKm computes the great-circle distance between two points.
func HaversineKm(a, b Coordinates) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Pow(math.Sin(dLng/2), 2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
