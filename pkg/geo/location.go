package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrInvalidLocation = errors.New("invalid location")

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite and inside the WGS84 range.
func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsNaN(l.Lng) || math.IsInf(l.Lat, 0) || math.IsInf(l.Lng, 0) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

func (l Location) String() string {
	return fmt.Sprintf("%.6f,%.6f", l.Lat, l.Lng)
}

// rawShape covers every coordinate encoding accepted at import time:
//
//	{"lat": 1, "lng": 2}
//	{"latitude": 1, "longitude": 2}
//	{"location": {"lat": 1, "lng": 2}}
//	{"coordinates": [2, 1]}
//	{"location": {"type": "Point", "coordinates": [2, 1]}}
type rawShape struct {
	Lat         *float64  `json:"lat"`
	Lng         *float64  `json:"lng"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Coordinates []float64 `json:"coordinates"`
	Location    *rawShape `json:"location"`
}

// ParseLocation normalizes one of the accepted coordinate shapes into a Location.
func ParseLocation(raw []byte) (Location, error) {
	var shape rawShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	return shape.resolve(0)
}

func (s *rawShape) resolve(depth int) (Location, error) {
	var loc Location

	switch {
	case s.Lat != nil && s.Lng != nil:
		loc = Location{Lat: *s.Lat, Lng: *s.Lng}
	case s.Latitude != nil && s.Longitude != nil:
		loc = Location{Lat: *s.Latitude, Lng: *s.Longitude}
	case len(s.Coordinates) > 0:
		// GeoJSON order is [lng, lat]
		if len(s.Coordinates) < 2 {
			return Location{}, fmt.Errorf("%w: coordinates need [lng, lat]", ErrInvalidLocation)
		}
		loc = Location{Lat: s.Coordinates[1], Lng: s.Coordinates[0]}
	case s.Location != nil && depth == 0:
		return s.Location.resolve(depth + 1)
	default:
		return Location{}, fmt.Errorf("%w: no coordinates found", ErrInvalidLocation)
	}

	if !loc.Valid() {
		return Location{}, fmt.Errorf("%w: %s out of range", ErrInvalidLocation, loc)
	}
	return loc, nil
}
