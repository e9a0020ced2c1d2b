package domain

import (
	"time"

	"sosdesk/pkg/geo"

	"github.com/google/uuid"
)

type Station struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Area      string    `json:"area"`
	City      string    `json:"city"`
	Helpline  string    `json:"helpline"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Station) Location() geo.Location {
	return geo.Location{Lat: s.Lat, Lng: s.Lng}
}

// RankedStation is a station annotated with its distance from a query point.
type RankedStation struct {
	Station
	DistanceM float64 `json:"distance_m"`
}

type CreateStationRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Area     string   `json:"area" validate:"max=200"`
	City     string   `json:"city" validate:"max=200"`
	Helpline string   `json:"helpline" validate:"max=32"`
	Lat      *float64 `json:"lat" validate:"required,lat"`
	Lng      *float64 `json:"lng" validate:"required,lng"`
}

type UpdateStationRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Area     *string  `json:"area" validate:"omitempty,max=200"`
	City     *string  `json:"city" validate:"omitempty,max=200"`
	Helpline *string  `json:"helpline" validate:"omitempty,max=32"`
	Lat      *float64 `json:"lat" validate:"omitempty,lat"`
	Lng      *float64 `json:"lng" validate:"omitempty,lng"`
}

type NearbyStationsRequest struct {
	Lat      float64 `query:"lat" validate:"lat"`
	Lng      float64 `query:"lng" validate:"lng"`
	RadiusKM float64 `query:"radius_km" validate:"omitempty,radius_km"`
	Limit    int     `query:"limit" validate:"min=0,max=100"`
}

type ImportStationsResult struct {
	Imported []uuid.UUID `json:"imported"`
	Skipped  int         `json:"skipped"`
	Errors   []string    `json:"errors,omitempty"`
}
