package models

// Role is a member's permission level within a group.
type Role string

const (
	// RoleAdmin can do everything, including managing members and the group.
	RoleAdmin Role = "admin"
	// RoleUser can create and edit expenses, categories and members.
	RoleUser Role = "user"
	// RoleWatcher has read-only access and never takes part in splits.
	RoleWatcher Role = "watcher"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleWatcher:
		return true
	}
	return false
}

// CanWrite reports whether the role may mutate group data.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleUser
}

// Member is a participant of a group.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	GroupID string

	// UserID links the member to a registered user. Empty for name-only
	// members and for members who left the group.
	UserID string

	Name  string
	Color string
	Role  Role

	CreatedAt int64
}
