package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventAlertCreated    EventType = "alert.created"
	EventAlertAssigned   EventType = "alert.assigned"
	EventAlertInProgress EventType = "alert.in_progress"
	EventAlertResolved   EventType = "alert.resolved"
	EventChatMessage     EventType = "chat.message"
)

// Event is what the realtime channel pushes to subscribers of an alert.
type Event struct {
	Type    EventType `json:"type"`
	AlertID uuid.UUID `json:"alert_id"`
	Alert   *Alert    `json:"alert,omitempty"`
	Message *Message  `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

func (e Event) IsAlertEvent() bool { return e.Alert != nil }
