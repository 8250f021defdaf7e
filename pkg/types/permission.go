package types

// Permission is a participant's capability level within a session.
// Levels form a total order: OWNER > ADMIN > EDIT > VIEW. A higher level
// is a strict superset of the capabilities of every lower level.
type Permission string

const (
	PermissionOwner Permission = "owner"
	PermissionAdmin Permission = "admin"
	PermissionEdit  Permission = "edit"
	PermissionView  Permission = "view"
)

// permissionRanks defines the total order. Unknown permissions rank below VIEW.
var permissionRanks = map[Permission]int{
	PermissionView:  1,
	PermissionEdit:  2,
	PermissionAdmin: 3,
	PermissionOwner: 4,
}

// Rank returns the position of p in the permission order, 0 for unknown values.
func (p Permission) Rank() int {
	return permissionRanks[p]
}

// Valid reports whether p is one of the four defined permission levels.
func (p Permission) Valid() bool {
	return p.Rank() > 0
}

// AtLeast reports whether p grants every capability that other grants.
func (p Permission) AtLeast(other Permission) bool {
	return p.Rank() >= other.Rank()
}
