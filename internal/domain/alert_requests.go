package domain

import "github.com/google/uuid"

type CreateAlertRequest struct {
	Lat *float64 `json:"lat" validate:"required,lat"`
	Lng *float64 `json:"lng" validate:"required,lng"`
}

type AssignOfficersRequest struct {
	StationID  uuid.UUID   `json:"station_id" validate:"required"`
	OfficerIDs []uuid.UUID `json:"officer_ids" validate:"omitempty,max=20,dive,required"`
}

// CreateAlertResponse is the alert itself plus delivery metadata for the trigger.
type CreateAlertResponse struct {
	*Alert
	Notification DispatchResult `json:"notification"`
}

type ActiveAlertsResponse struct {
	Alerts []*Alert `json:"alerts"`
	Total  int      `json:"total"`
}
