package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageText     MessageType = "text"
	MessageAudio    MessageType = "audio"
	MessageLocation MessageType = "location"
)

// Message is one append-only entry of an alert's coordination thread.
// Seq is assigned by the store and is the only safe cursor.
type Message struct {
	ID         uuid.UUID       `json:"id"`
	AlertID    uuid.UUID       `json:"alert_id"`
	Seq        int64           `json:"seq"`
	SenderID   uuid.UUID       `json:"sender_id"`
	SenderRole Role            `json:"sender_role"`
	Type       MessageType     `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

type AudioPayload struct {
	Data        string  `json:"data" validate:"required,base64"`
	DurationSec float64 `json:"duration_sec" validate:"gt=0,lte=600"`
	Mime        string  `json:"mime,omitempty" validate:"omitempty,max=64"`
}

type LocationPayload struct {
	Lat     *float64 `json:"lat" validate:"required,lat"`
	Lng     *float64 `json:"lng" validate:"required,lng"`
	Address string   `json:"address,omitempty" validate:"omitempty,max=500"`
}

type PostMessageRequest struct {
	Type    MessageType     `json:"type" validate:"required,oneof=text audio location"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// ChatCursor selects messages strictly after Seq and, when set, strictly after After.
type ChatCursor struct {
	Seq   int64
	After *time.Time
}

type MessagesResponse struct {
	Messages []*Message `json:"messages"`
	// Cursor is the seq to pass as ?since= on the next poll.
	Cursor int64 `json:"cursor"`
}

type Participant struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

type SenderRef struct {
	ID   uuid.UUID
	Role Role
}
