package models

// Expense is a single payment made by one member on behalf of others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	GroupID string
	Title   string

	// Amount is the total paid, in cents.
	Amount int64

	// Date is the calendar date of the expense in YYYY-MM-DD format.
	Date string

	// PaidBy is the member ID of the payer.
	PaidBy string

	// CategoryID is empty when the category was deleted.
	CategoryID string

	// CreatedBy is the user ID that recorded the expense.
	CreatedBy string

	CreatedAt int64
	UpdatedAt int64

	Splits []Split
}

// Split is one member's share of an expense.
type Split struct {
	MemberID string

	// Amount is the member's share in cents.
	Amount int64

	// IsIncluded is false when the member is excluded from the expense.
	// Excluded splits never affect balances.
	IsIncluded bool
}
