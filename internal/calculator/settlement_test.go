package calculator

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

// applySettlements executes every payment against a copy of balances.
func applySettlements(balances map[string]Cents, settlements []Settlement) map[string]Cents {
	out := make(map[string]Cents, len(balances))
	for id, b := range balances {
		out[id] = b
	}
	for _, s := range settlements {
		out[s.From.ID] += s.Amount
		out[s.To.ID] -= s.Amount
	}
	return out
}

func nonZero(balances map[string]Cents) int {
	n := 0
	for _, b := range balances {
		if b != 0 {
			n++
		}
	}
	return n
}

func TestComputeSettlements_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		members      []Member
		expenses     []Expense
		wantBalances map[string]Cents
		want         []Settlement
	}{
		{
			name:    "A: 20.00 split evenly between two",
			members: []Member{alice, bob},
			expenses: []Expense{
				{ID: "e1", Amount: 2000, PaidBy: alice.ID, Splits: []Split{
					{MemberID: alice.ID, Amount: 1000, IsIncluded: true},
					{MemberID: bob.ID, Amount: 1000, IsIncluded: true},
				}},
			},
			wantBalances: map[string]Cents{alice.ID: 1000, bob.ID: -1000},
			want:         []Settlement{{From: bob, To: alice, Amount: 1000}},
		},
		{
			name:    "B: 30.00 split evenly between two",
			members: []Member{alice, bob},
			expenses: []Expense{
				{ID: "e1", Amount: 3000, PaidBy: alice.ID, Splits: []Split{
					{MemberID: alice.ID, Amount: 1500, IsIncluded: true},
					{MemberID: bob.ID, Amount: 1500, IsIncluded: true},
				}},
			},
			wantBalances: map[string]Cents{alice.ID: 1500, bob.ID: -1500},
			want:         []Settlement{{From: bob, To: alice, Amount: 1500}},
		},
		{
			name:         "D: no expenses - all settled up",
			members:      []Member{alice, bob, charlie},
			expenses:     nil,
			wantBalances: map[string]Cents{alice.ID: 0, bob.ID: 0, charlie.ID: 0},
			want:         []Settlement{},
		},
		{
			name:    "E: 10.00 split three ways leaves no stray cent",
			members: []Member{alice, bob, charlie},
			expenses: []Expense{
				{ID: "e1", Amount: 1000, PaidBy: alice.ID, Splits: []Split{
					{MemberID: alice.ID, Amount: 334, IsIncluded: true},
					{MemberID: bob.ID, Amount: 333, IsIncluded: true},
					{MemberID: charlie.ID, Amount: 333, IsIncluded: true},
				}},
			},
			wantBalances: map[string]Cents{alice.ID: 666, bob.ID: -333, charlie.ID: -333},
			want: []Settlement{
				{From: bob, To: alice, Amount: 333},
				{From: charlie, To: alice, Amount: 333},
			},
		},
		{
			name:    "largest creditor paired with largest debtor first",
			members: []Member{alice, bob, charlie, diana},
			expenses: []Expense{
				// Alice +50, Bob +10, Charlie -40, Diana -20
				{ID: "e1", Amount: 6000, PaidBy: alice.ID, Splits: []Split{
					{MemberID: alice.ID, Amount: 1000, IsIncluded: true},
					{MemberID: charlie.ID, Amount: 4000, IsIncluded: true},
					{MemberID: diana.ID, Amount: 1000, IsIncluded: true},
				}},
				{ID: "e2", Amount: 2000, PaidBy: bob.ID, Splits: []Split{
					{MemberID: bob.ID, Amount: 1000, IsIncluded: true},
					{MemberID: diana.ID, Amount: 1000, IsIncluded: true},
				}},
			},
			wantBalances: map[string]Cents{alice.ID: 5000, bob.ID: 1000, charlie.ID: -4000, diana.ID: -2000},
			want: []Settlement{
				{From: charlie, To: alice, Amount: 4000},
				{From: diana, To: alice, Amount: 1000},
				{From: diana, To: bob, Amount: 1000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := ComputeBalances(tt.members, tt.expenses)
			if !reflect.DeepEqual(balances, tt.wantBalances) {
				t.Fatalf("balances = %v, want %v", balances, tt.wantBalances)
			}

			got := ComputeSettlements(tt.members, balances)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComputeSettlements() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeSettlements_SevenWaySplit(t *testing.T) {
	members := []Member{alice}
	ids := []string{alice.ID}
	for i := 1; i <= 6; i++ {
		m := Member{ID: fmt.Sprintf("m-%d", i), Name: fmt.Sprintf("Member %d", i)}
		members = append(members, m)
		ids = append(ids, m.ID)
	}

	balances := ComputeBalances(members, []Expense{
		{ID: "e1", Amount: 7000, PaidBy: alice.ID, Splits: EqualSplit(7000, ids)},
	})

	if balances[alice.ID] != 6000 {
		t.Errorf("Alice balance = %v, want 60.00", balances[alice.ID])
	}

	settlements := ComputeSettlements(members, balances)
	if len(settlements) != 6 {
		t.Fatalf("expected 6 settlements, got %d", len(settlements))
	}
	for i, s := range settlements {
		if s.To.ID != alice.ID {
			t.Errorf("settlement %d: to = %s, want Alice", i, s.To.ID)
		}
		if s.From.ID != members[i+1].ID {
			t.Errorf("settlement %d: from = %s, want %s", i, s.From.ID, members[i+1].ID)
		}
		if s.Amount != 1000 {
			t.Errorf("settlement %d: amount = %v, want 10.00", i, s.Amount)
		}
	}
}

func TestComputeSettlements_WatcherNeverSettles(t *testing.T) {
	watcher := Member{ID: "m-watcher", Name: "Watcher"}
	members := []Member{alice, bob, watcher}

	balances := ComputeBalances(members, []Expense{
		{ID: "e1", Amount: 4000, PaidBy: alice.ID, Splits: []Split{
			{MemberID: alice.ID, Amount: 2000, IsIncluded: true},
			{MemberID: bob.ID, Amount: 2000, IsIncluded: true},
			{MemberID: watcher.ID, Amount: 0, IsIncluded: false},
		}},
		{ID: "e2", Amount: 1500, PaidBy: bob.ID, Splits: []Split{
			{MemberID: alice.ID, Amount: 1500, IsIncluded: true},
			{MemberID: watcher.ID, Amount: 1500, IsIncluded: false},
		}},
	})

	if balances[watcher.ID] != 0 {
		t.Errorf("watcher balance = %v, want 0", balances[watcher.ID])
	}
	for _, s := range ComputeSettlements(members, balances) {
		if s.From.ID == watcher.ID || s.To.ID == watcher.ID {
			t.Errorf("watcher appears in settlement %+v", s)
		}
	}
}

func TestComputeSettlements_UnknownMember(t *testing.T) {
	balances := map[string]Cents{alice.ID: -700, "m-gone": 700}

	got := ComputeSettlements([]Member{alice}, balances)
	want := []Settlement{{From: alice, To: Member{ID: "m-gone"}, Amount: 700}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeSettlements() = %+v, want %+v", got, want)
	}
}

func TestComputeSettlements_MemberWithoutBalance(t *testing.T) {
	balances := map[string]Cents{alice.ID: 500, bob.ID: -500}

	got := ComputeSettlements([]Member{alice, bob, charlie}, balances)
	if len(got) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(got))
	}
	if got[0].From.ID == charlie.ID || got[0].To.ID == charlie.ID {
		t.Errorf("member without balance should not settle: %+v", got[0])
	}
}

func TestComputeSettlements_DoesNotMutateInput(t *testing.T) {
	balances := map[string]Cents{alice.ID: 1500, bob.ID: -1000, charlie.ID: -500}
	snapshot := map[string]Cents{alice.ID: 1500, bob.ID: -1000, charlie.ID: -500}

	ComputeSettlements([]Member{alice, bob, charlie}, balances)

	if !reflect.DeepEqual(balances, snapshot) {
		t.Errorf("input balances modified: %v", balances)
	}
}

func TestComputeSettlements_ImbalanceLeavesRemainder(t *testing.T) {
	// Credits exceed debits by 5.00: the extra credit stays unmatched.
	balances := map[string]Cents{alice.ID: 2000, bob.ID: -1500}

	got := ComputeSettlements([]Member{alice, bob}, balances)
	want := []Settlement{{From: bob, To: alice, Amount: 1500}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeSettlements() = %+v, want %+v", got, want)
	}
}

func TestComputeSettlements_TiesFollowMemberOrder(t *testing.T) {
	members := []Member{charlie, alice, bob, diana}
	balances := map[string]Cents{alice.ID: 1000, charlie.ID: 1000, bob.ID: -1000, diana.ID: -1000}

	got := ComputeSettlements(members, balances)
	want := []Settlement{
		{From: bob, To: charlie, Amount: 1000},
		{From: diana, To: alice, Amount: 1000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeSettlements() = %+v, want %+v", got, want)
	}
}

// TestSettlementProperties checks the zero-sum, closure and minimality
// properties over randomly generated groups.
func TestSettlementProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 500; iter++ {
		n := 1 + rng.Intn(10)
		members := make([]Member, n)
		watchers := make(map[string]bool)
		var payers []string
		for i := range members {
			members[i] = Member{ID: fmt.Sprintf("m%d", i), Name: fmt.Sprintf("Member %d", i)}
			if i > 0 && rng.Intn(4) == 0 {
				watchers[members[i].ID] = true
				continue
			}
			payers = append(payers, members[i].ID)
		}

		var expenses []Expense
		count := rng.Intn(20)
		for e := 0; e < count; e++ {
			var included []string
			for _, id := range payers {
				if rng.Intn(3) != 0 {
					included = append(included, id)
				}
			}
			if len(included) == 0 {
				continue
			}
			amount := Cents(1 + rng.Intn(100000))
			splits := EqualSplit(amount, included)
			for id := range watchers {
				splits = append(splits, Split{MemberID: id, Amount: 0, IsIncluded: false})
			}
			expenses = append(expenses, Expense{
				ID:     fmt.Sprintf("e%d", e),
				Amount: amount,
				PaidBy: payers[rng.Intn(len(payers))],
				Splits: splits,
			})
		}

		balances := ComputeBalances(members, expenses)
		if got := Imbalance(balances); got != 0 {
			t.Fatalf("iteration %d: balances do not sum to zero: %v", iter, got)
		}
		if again := ComputeBalances(members, expenses); !reflect.DeepEqual(balances, again) {
			t.Fatalf("iteration %d: ComputeBalances not idempotent", iter)
		}

		settlements := ComputeSettlements(members, balances)

		if k := nonZero(balances); k > 0 && len(settlements) > k-1 {
			t.Fatalf("iteration %d: %d settlements for %d non-zero balances", iter, len(settlements), k)
		}

		for id, b := range applySettlements(balances, settlements) {
			if b != 0 {
				t.Fatalf("iteration %d: member %s left with %v after settling", iter, id, b)
			}
		}

		for _, s := range settlements {
			if s.Amount <= 0 {
				t.Fatalf("iteration %d: non-positive settlement %+v", iter, s)
			}
			if watchers[s.From.ID] || watchers[s.To.ID] {
				t.Fatalf("iteration %d: watcher in settlement %+v", iter, s)
			}
		}
	}
}
