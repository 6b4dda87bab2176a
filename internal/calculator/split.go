package calculator

import (
	"errors"
	"fmt"
)

// SplitTolerance is how far the included splits may drift from the expense
// amount (one minor unit).
const SplitTolerance Cents = 1

var ErrSplitMismatch = errors.New("split amounts must equal expense amount")

// EqualSplit divides total equally among memberIDs. Amounts are floored to the
// cent and the remaining cents go one each to the first members, so the
// splits always add up to total exactly.
// Example: 10.00 among three members gives 3.34, 3.33, 3.33.
func EqualSplit(total Cents, memberIDs []string) []Split {
	if len(memberIDs) == 0 {
		return nil
	}

	count := Cents(len(memberIDs))
	base := total / count
	remainder := total - base*count

	splits := make([]Split, len(memberIDs))
	for i, id := range memberIDs {
		amount := base
		if remainder > 0 {
			amount++
			remainder--
		}
		splits[i] = Split{MemberID: id, Amount: amount, IsIncluded: true}
	}
	return splits
}

// IncludedTotal sums the amounts of included splits.
func IncludedTotal(splits []Split) Cents {
	var total Cents
	for _, s := range splits {
		if s.IsIncluded {
			total += s.Amount
		}
	}
	return total
}

// ValidateSplits checks that the included splits add up to amount within
// SplitTolerance.
func ValidateSplits(amount Cents, splits []Split) error {
	total := IncludedTotal(splits)
	if (total - amount).Abs() > SplitTolerance {
		return fmt.Errorf("%w: splits total %s, expense amount %s", ErrSplitMismatch, total, amount)
	}
	return nil
}
