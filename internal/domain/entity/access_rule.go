package entity

// AccessRule records that a user holds at least a given role on an
// account. At most one rule should govern a (user, account) pair; the
// authorization engine resolves duplicates by taking the highest role.
type AccessRule struct {
	ID        int64
	UserID    int64
	AccountID int64
	Role      Role
}
