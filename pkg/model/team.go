package model

const (
	MinTeamMembers = 1
	MaxTeamMembers = 5
)

// Team belongs to exactly one hackathon and holds at most one confirmed
// reservation at any instant.
type Team struct {
	ID          string   `json:"id,omitempty" bson:"_id,omitempty"`
	HackathonID string   `json:"hackathon_id" bson:"hackathon_id" validate:"required"`
	Name        string   `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Members     []string `json:"members" bson:"members" validate:"required,min=1,max=5,dive,required"`
	IsActive    bool     `json:"is_active" bson:"is_active"`
}

// HasMember reports whether userID is on the roster.
func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}
