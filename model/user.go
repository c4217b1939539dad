// Package model provides data models for the obsolescence backend.
package model

// Role is the access level of an authenticated caller.
type Role string

const (
	// RoleReader can read dashboards and inventories.
	RoleReader Role = "reader"
	// RoleContributor can additionally edit inventories and send notifications.
	RoleContributor Role = "contributor"
	// RoleAdmin has all permissions.
	RoleAdmin Role = "admin"
)

var roleLevel = map[Role]int{
	RoleReader:      1,
	RoleContributor: 2,
	RoleAdmin:       3,
}

// Level returns the position of the role in the hierarchy, 0 when unknown.
func (r Role) Level() int {
	return roleLevel[r]
}

// AtLeast reports whether r grants everything required grants.
// Unknown roles never satisfy a requirement.
func (r Role) AtLeast(required Role) bool {
	level := r.Level()
	if level == 0 {
		return false
	}
	return level >= required.Level()
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin returns true if caller is admin
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanWrite returns true if caller can modify inventories and send notifications
func (c Caller) CanWrite() bool {
	return c.Role.AtLeast(RoleContributor)
}
