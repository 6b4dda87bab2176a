package api

type Split struct {
	MemberID   string  `json:"member_id"`
	Amount     float64 `json:"amount"`
	IsIncluded bool    `json:"is_included"`

	// Member is filled in on responses when the member still exists.
	Member *Member `json:"member,omitempty"`
}

type Expense struct {
	ID         string  `json:"id"`
	GroupID    string  `json:"group_id"`
	Title      string  `json:"title"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	PaidBy     string  `json:"paid_by"`
	CategoryID string  `json:"category_id,omitempty"`
	CreatedBy  string  `json:"created_by"`
	CreatedAt  int64   `json:"created_at"`
	UpdatedAt  int64   `json:"updated_at"`

	PaidByMember *Member   `json:"paid_by_member,omitempty"`
	Category     *Category `json:"category,omitempty"`
	Splits       []*Split  `json:"splits"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`

	// Page is zero-based.
	Page int `json:"page,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

type GetExpenseRequest struct {
	GroupID   string `json:"group_id"`
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// ExpenseInput carries the editable fields of an expense. An empty Splits
// list splits the amount equally between all non-watcher members.
type ExpenseInput struct {
	Title      string   `json:"title"`
	Amount     float64  `json:"amount"`
	Date       string   `json:"date"`
	PaidBy     string   `json:"paid_by"`
	CategoryID string   `json:"category_id,omitempty"`
	Splits     []*Split `json:"splits,omitempty"`
}

type CreateExpenseRequest struct {
	GroupID string `json:"group_id"`
	ExpenseInput
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	GroupID   string `json:"group_id"`
	ExpenseID string `json:"expense_id"`
	ExpenseInput
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	GroupID   string `json:"group_id"`
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// RecordSettlementRequest records a payment from one member to another as an
// expense paid by From and owed entirely by To.
type RecordSettlementRequest struct {
	GroupID      string  `json:"group_id"`
	FromMemberID string  `json:"from_member_id"`
	ToMemberID   string  `json:"to_member_id"`
	Amount       float64 `json:"amount"`

	// Date defaults to today.
	Date string `json:"date,omitempty"`
}

type RecordSettlementResponse struct {
	Expense *Expense `json:"expense"`
}
