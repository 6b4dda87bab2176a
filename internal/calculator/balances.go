package calculator

// Member is the minimal member information needed for balance calculations.
type Member struct {
	ID   string
	Name string
}

// Split is one member's share of an expense.
type Split struct {
	MemberID   string
	Amount     Cents
	IsIncluded bool
}

// Expense represents an expense with the minimal information needed for
// balance calculations.
type Expense struct {
	ID     string
	Amount Cents
	PaidBy string
	Splits []Split
}

// ComputeBalances derives each member's net balance from a set of expenses.
// Positive = the group owes this member, negative = this member owes the group.
//
// Algorithm:
//   - Every known member starts at exactly zero
//   - For each expense: the payer is credited the full amount
//   - For each included split: the split member is debited the split amount
//
// Excluded splits are ignored regardless of their amount. Expenses may
// reference members that are not in members (e.g. removed members with
// historical expenses); those ids get an implicit entry starting from zero.
// Malformed splits are applied arithmetically, validation happens upstream.
func ComputeBalances(members []Member, expenses []Expense) map[string]Cents {
	balances := make(map[string]Cents, len(members))
	for _, m := range members {
		balances[m.ID] = 0
	}

	for _, expense := range expenses {
		balances[expense.PaidBy] += expense.Amount

		for _, split := range expense.Splits {
			if !split.IsIncluded {
				continue
			}
			balances[split.MemberID] -= split.Amount
		}
	}

	return balances
}

// Imbalance returns the sum of all balances. It is zero whenever every
// expense's included splits add up to its amount; anything else points to
// inconsistent upstream data.
func Imbalance(balances map[string]Cents) Cents {
	var total Cents
	for _, b := range balances {
		total += b
	}
	return total
}
