package model

import "fmt"

// Role is an actor's privilege level. The ladder is ordered; Exec and above
// count as staff and may bypass team-membership checks.
type Role int

const (
	RoleNone Role = iota
	RoleVolunteer
	RoleTeam
	RoleExec
	RoleTech
)

// StaffThreshold is the minimum role that grants staff privileges.
const StaffThreshold = RoleExec

var roleNames = map[Role]string{
	RoleNone:      "none",
	RoleVolunteer: "volunteer",
	RoleTeam:      "team",
	RoleExec:      "exec",
	RoleTech:      "tech",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// IsStaff reports whether the role clears the staff threshold.
func (r Role) IsStaff() bool {
	return r >= StaffThreshold
}

// ParseRole maps a stored privilege name to a Role. Unknown names resolve to
// RoleNone with an error so callers can decide whether to fail closed.
func ParseRole(name string) (Role, error) {
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return RoleNone, fmt.Errorf("unknown role name: %q", name)
}
