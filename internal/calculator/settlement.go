package calculator

import "sort"

// Settlement is a suggested payment from a debtor to a creditor.
type Settlement struct {
	From   Member // Person who owes
	To     Member // Person who is owed
	Amount Cents
}

type position struct {
	member  Member
	balance Cents
}

// ComputeSettlements reduces net balances into a minimal list of payments
// that brings every balance to zero.
//
// Algorithm:
//   - Drop settled members (zero balance), split the rest into creditors and debtors
//   - Creditors sorted by balance descending, debtors ascending (largest debt first)
//   - Greedy: match the current largest creditor with the current largest debtor,
//     transfer min(credit, debt), advance whichever side reaches zero (or both)
//
// Settlements are returned in match order. Ties are broken by member order,
// then by id for balance entries that have no member record. The balances map
// is never modified. If credits and debits do not cancel out, the leftover is
// simply not settled.
func ComputeSettlements(members []Member, balances map[string]Cents) []Settlement {
	var creditors, debtors []position
	for _, p := range positions(members, balances) {
		switch {
		case p.balance > 0:
			creditors = append(creditors, p)
		case p.balance < 0:
			debtors = append(debtors, p)
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].balance > creditors[j].balance
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].balance < debtors[j].balance
	})

	settlements := []Settlement{}
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		creditor := &creditors[ci]
		debtor := &debtors[di]

		amount := min(creditor.balance, -debtor.balance)
		if amount > 0 {
			settlements = append(settlements, Settlement{
				From:   debtor.member,
				To:     creditor.member,
				Amount: amount,
			})
		}

		creditor.balance -= amount
		debtor.balance += amount

		if creditor.balance == 0 {
			ci++
		}
		if debtor.balance == 0 {
			di++
		}
	}

	return settlements
}

// positions returns a working copy of the balances in a deterministic order:
// members first, in the given order, then ids only present in balances.
func positions(members []Member, balances map[string]Cents) []position {
	seen := make(map[string]bool, len(members))
	out := make([]position, 0, len(balances))

	for _, m := range members {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, position{member: m, balance: balances[m.ID]})
	}

	var unknown []string
	for id := range balances {
		if !seen[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		out = append(out, position{member: Member{ID: id}, balance: balances[id]})
	}

	return out
}
