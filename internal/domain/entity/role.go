package entity

// Role is the position a user holds on an account. The scale is ordered:
// an Owner can do everything a Member can.
type Role int

const (
	RoleMember Role = 1
	RoleOwner  Role = 2
)

// Satisfies reports whether a holder of r meets the required level.
func (r Role) Satisfies(required Role) bool {
	return r >= required
}

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the defined levels.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleOwner
}
