package models

// MaxGroupMembers is the maximum number of members a group can hold.
const MaxGroupMembers = 10

// DefaultCategoryName is the category every group is created with.
const DefaultCategoryName = "General"

// Group represents a shared ledger of expenses between its members.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	Description string

	// Color is a UI color key (e.g., "indigo").
	Color string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// GroupStats is a group together with its aggregate counters.
type GroupStats struct {
	Group
	MemberCount  int
	ExpenseCount int

	// TotalAmount is the sum of all expense amounts in cents.
	TotalAmount int64
}
