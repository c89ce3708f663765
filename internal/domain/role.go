package domain

import "fmt"

// Role is the guild-wide permission level of a user.
// Roles form a total order: MEMBER < OFFICER < ADMIN.
type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleOfficer Role = "OFFICER"
	RoleAdmin   Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleOfficer, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleOfficer || r == RoleAdmin
}

func (r Role) Level() int {
	switch r {
	case RoleMember:
		return 1
	case RoleOfficer:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r is authorized to perform an operation
// that requires at least min.
func (r Role) AtLeast(min Role) bool {
	return r.Level() >= min.Level()
}
