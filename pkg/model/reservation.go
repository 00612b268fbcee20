package model

import (
	"time"
)

type ReservationType string

const (
	TypeTeam     ReservationType = "TEAM"
	TypeBlackout ReservationType = "BLACKOUT"
)

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCanceled  ReservationStatus = "CANCELED"
)

// Reservation is a time-boxed claim on a location. TEAM reservations carry a
// team ID; BLACKOUT reservations are administrative and carry none. Status is
// created CONFIRMED and only ever transitions to CANCELED.
type Reservation struct {
	ID           string            `json:"id,omitempty" bson:"_id,omitempty"`
	HackathonID  string            `json:"hackathon_id" bson:"hackathon_id" validate:"required"`
	LocationID   string            `json:"location_id" bson:"location_id" validate:"required"`
	TeamID       string            `json:"team_id,omitempty" bson:"team_id,omitempty"`
	Type         ReservationType   `json:"type" bson:"type" validate:"required,oneof=TEAM BLACKOUT"`
	StartTime    time.Time         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime      time.Time         `json:"end_time" bson:"end_time" validate:"required"`
	Status       ReservationStatus `json:"status" bson:"status" validate:"required,oneof=CONFIRMED CANCELED"`
	CreatedBy    string            `json:"created_by" bson:"created_by" validate:"required"`
	CreatedAt    time.Time         `json:"created_at" bson:"created_at"`
	CanceledAt   *time.Time        `json:"canceled_at,omitempty" bson:"canceled_at,omitempty"`
	CancelReason string            `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty"`
}

// ReservationRequest is the input for a team booking.
type ReservationRequest struct {
	HackathonID string    `json:"hackathon_id" validate:"required"`
	LocationID  string    `json:"location_id" validate:"required"`
	TeamID      string    `json:"team_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	ActorID     string    `json:"-" validate:"required"`
}

// BlackoutRequest is the input for a staff unavailability window.
type BlackoutRequest struct {
	HackathonID string    `json:"hackathon_id" validate:"required"`
	LocationID  string    `json:"location_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Reason      string    `json:"reason,omitempty" validate:"omitempty,max=500"`
	ActorID     string    `json:"-" validate:"required"`
}

// ReservationFilter narrows listing queries. Zero values mean "any".
// From/To select reservations overlapping [From, To) with the same half-open
// predicate used by conflict checks.
type ReservationFilter struct {
	HackathonID string
	LocationID  string
	TeamID      string
	Status      ReservationStatus
	Type        ReservationType
	From        *time.Time
	To          *time.Time
}
