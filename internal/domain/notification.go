package domain

import (
	"time"

	"github.com/google/uuid"
)

type RecipientKind string

const (
	RecipientGuardian RecipientKind = "guardian"
	RecipientStation  RecipientKind = "station"
)

type Recipient struct {
	Kind  RecipientKind `json:"kind"`
	ID    uuid.UUID     `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email,omitempty"`
	Phone string        `json:"phone,omitempty"`
}

// NotificationPayload is the email-style body sent on SOS trigger.
type NotificationPayload struct {
	AlertID     uuid.UUID `json:"alert_id"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserPhone   string    `json:"user_phone"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	MapsURL     string    `json:"maps_url"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	TriggeredAt time.Time `json:"triggered_at"`
}

type NotificationJob struct {
	Recipient  Recipient           `json:"recipient"`
	Payload    NotificationPayload `json:"payload"`
	EnqueuedAt time.Time           `json:"enqueued_at"`
}

// DispatchResult is returned to the SOS caller; a degraded result never
// invalidates the alert itself.
type DispatchResult struct {
	GuardiansNotified int      `json:"guardians_notified"`
	GuardiansFailed   int      `json:"guardians_failed"`
	StationNotified   bool     `json:"station_notified"`
	Method            string   `json:"method"`
	Degraded          bool     `json:"degraded"`
	Errors            []string `json:"errors,omitempty"`
}
