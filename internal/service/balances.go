package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// ledger is a snapshot of everything needed to compute a group's balances.
type ledger struct {
	groupID  string
	members  []*models.Member
	expenses []*models.Expense
}

// loadLedger fetches the group's members and expenses concurrently.
func loadLedger(ctx context.Context, store storage.Store, groupID string) (*ledger, error) {
	l := &ledger{groupID: groupID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		members, err := store.ListMembers(gctx, groupID)
		l.members = members
		return err
	})
	g.Go(func() error {
		expenses, err := store.ListAllExpenses(gctx, groupID)
		l.expenses = expenses
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *ledger) calculatorMembers() []calculator.Member {
	out := make([]calculator.Member, len(l.members))
	for i, m := range l.members {
		out[i] = calculator.Member{ID: m.ID, Name: m.Name}
	}
	return out
}

func (l *ledger) calculatorExpenses() []calculator.Expense {
	out := make([]calculator.Expense, len(l.expenses))
	for i, e := range l.expenses {
		splits := make([]calculator.Split, len(e.Splits))
		for j, s := range e.Splits {
			splits[j] = calculator.Split{
				MemberID:   s.MemberID,
				Amount:     calculator.Cents(s.Amount),
				IsIncluded: s.IsIncluded,
			}
		}
		out[i] = calculator.Expense{
			ID:     e.ID,
			Amount: calculator.Cents(e.Amount),
			PaidBy: e.PaidBy,
			Splits: splits,
		}
	}
	return out
}

// balances runs the balance calculator. Each stored expense may leave up to
// SplitTolerance unassigned, so only a larger global imbalance indicates
// inconsistent data. It is reported and the balances are still returned.
func (l *ledger) balances() map[string]calculator.Cents {
	balances := calculator.ComputeBalances(l.calculatorMembers(), l.calculatorExpenses())
	if imbalance := calculator.Imbalance(balances); l.inconsistent(imbalance) {
		slog.Warn("Group balances do not sum to zero",
			"group_id", l.groupID,
			"imbalance", imbalance.String(),
		)
		metrics.RecordImbalance()
	}
	return balances
}

// inconsistent reports whether imbalance exceeds the split rounding that
// expense validation accepts.
func (l *ledger) inconsistent(imbalance calculator.Cents) bool {
	return imbalance.Abs() > calculator.SplitTolerance*calculator.Cents(len(l.expenses))
}

// settlements reduces balances into suggested payments.
func (l *ledger) settlements(balances map[string]calculator.Cents) []calculator.Settlement {
	settlements := calculator.ComputeSettlements(l.calculatorMembers(), balances)
	metrics.RecordSettlements(len(settlements))
	return settlements
}

func (l *ledger) totalSpent() int64 {
	var total int64
	for _, e := range l.expenses {
		total += e.Amount
	}
	return total
}
