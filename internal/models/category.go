package models

// Category groups expenses within a group (e.g., "Food", "Travel").
type Category struct {
	ID      string
	GroupID string
	Name    string
	Color   string
	Icon    string

	// IsDefault marks the category created with the group. It cannot be
	// deleted and is used when an expense has no category.
	IsDefault bool

	CreatedAt int64
}

// CategoryStats is a category with its share of the group's spending.
type CategoryStats struct {
	Category

	// TotalAmount is the sum of expense amounts in this category, in cents.
	TotalAmount int64

	// Percentage of the group's total spending, 0-100.
	Percentage float64
}
