// Package geo holds the great-circle math and the coordinate value type shared by
// station ranking and alert assignment.
package geo

import (
	"math"
	"sort"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by the spherical model.
	EarthRadiusMeters = 6371000.0

	// DefaultRadiusMeters is applied when a radius query does not name one.
	DefaultRadiusMeters = 5000.0
)

// DistanceMeters returns the haversine distance between two points in meters.
// Callers are expected to pass coordinates that satisfy Location.Valid.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push a a hair outside [0,1] for antipodal points
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Distance is DistanceMeters for two Location values.
func Distance(a, b Location) float64 {
	return DistanceMeters(a.Lat, a.Lng, b.Lat, b.Lng)
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Ranked pairs an arbitrary key with its distance from a reference point.
type Ranked struct {
	Key       string
	Index     int
	DistanceM float64
}

// Rank measures every candidate against origin and returns them nearest first.
// Ties are broken by Key so the order is deterministic. Candidates whose
// location is not Valid are dropped.
func Rank(origin Location, keys []string, points []Location) []Ranked {
	out := make([]Ranked, 0, len(points))
	for i, p := range points {
		if !p.Valid() {
			continue
		}
		out = append(out, Ranked{
			Key:       keys[i],
			Index:     i,
			DistanceM: Distance(origin, p),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceM != out[j].DistanceM {
			return out[i].DistanceM < out[j].DistanceM
		}
		return out[i].Key < out[j].Key
	})

	return out
}
