package domain

import "github.com/google/uuid"

type Role string

const (
	RoleUser   Role = "user"
	RolePolice Role = "police"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePolice, RoleAdmin:
		return true
	}
	return false
}

// Caller is the authenticated identity attached to every request.
type Caller struct {
	UserID    uuid.UUID
	Role      Role
	StationID *uuid.UUID
	Name      string
}

// UserProfile is the read-only view of an account owned by the profile system.
type UserProfile struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	StationID *uuid.UUID `json:"station_id,omitempty"`
}
