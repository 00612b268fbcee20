package model

import "time"

// Hackathon is the event whose [StartTime, EndTime) window bounds every
// reservation. Exactly one instance is active at a time; activation is
// managed outside this service.
type Hackathon struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	StartTime time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Active    bool      `json:"active" bson:"active"`
}

// Contains reports whether [start, end) lies inside the event window.
func (h *Hackathon) Contains(start, end time.Time) bool {
	return !start.Before(h.StartTime) && !end.After(h.EndTime)
}
