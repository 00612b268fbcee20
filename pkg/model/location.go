package model

import "time"

// Location is a bookable physical space. Capacity counts concurrent team
// reservations; 0 means unlimited. The duration and buffer fields are
// per-location policy knobs, 0 disables each.
type Location struct {
	ID                 string `json:"id,omitempty" bson:"_id,omitempty"`
	Name               string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Capacity           int    `json:"capacity" bson:"capacity" validate:"min=0"`
	IsBookable         bool   `json:"is_bookable" bson:"is_bookable"`
	TeamCapacity       int    `json:"team_capacity" bson:"team_capacity" validate:"min=0"`
	MinReservationMins int    `json:"min_reservation_mins" bson:"min_reservation_mins" validate:"min=0"`
	MaxReservationMins int    `json:"max_reservation_mins" bson:"max_reservation_mins" validate:"min=0"`
	BufferMins         int    `json:"buffer_mins" bson:"buffer_mins" validate:"min=0"`
}

// Buffer returns the configured setup/teardown padding as a duration.
func (l *Location) Buffer() time.Duration {
	return time.Duration(l.BufferMins) * time.Minute
}
