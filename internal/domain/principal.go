package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the closed set of roles a principal may hold. Checks are exact
// match, there is no hierarchy between roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole converts a stored or submitted role string into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleUser:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the authenticated identity attached to a single request.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
