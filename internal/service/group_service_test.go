package service

import (
	"context"
	"fmt"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/events"
	"github.com/mmynk/settleup/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")

	resp, err := ts.groups.CreateGroup(ctx, withToken(alice.AccessToken, &api.CreateGroupRequest{
		Name:        "Roommates",
		Description: "Apartment 4B",
		Members:     []*api.NewMember{{Name: "Bob"}, {Name: "Charlie", Color: "rose"}},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if resp.Msg.Group.ID == "" {
		t.Error("expected group ID to be set")
	}
	if resp.Msg.Group.Name != "Roommates" {
		t.Errorf("expected name 'Roommates', got '%s'", resp.Msg.Group.Name)
	}
	if len(resp.Msg.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(resp.Msg.Members))
	}

	creator := resp.Msg.Members[0]
	if creator.Name != "alice" || creator.Role != "admin" || creator.UserID != alice.User.ID {
		t.Errorf("unexpected creator member: %+v", creator)
	}
	for _, m := range resp.Msg.Members[1:] {
		if m.UserID != "" || m.Role != "user" {
			t.Errorf("expected name-only user member, got %+v", m)
		}
	}
	if got := memberByName(t, resp.Msg.Members, "Charlie").Color; got != "rose" {
		t.Errorf("Charlie color = %s, want rose", got)
	}

	cats, err := ts.categories.ListCategories(ctx, withToken(alice.AccessToken, &api.ListCategoriesRequest{GroupID: resp.Msg.Group.ID}))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats.Msg.Categories) != 1 || !cats.Msg.Categories[0].IsDefault || cats.Msg.Categories[0].Name != "General" {
		t.Errorf("expected only the default category, got %+v", cats.Msg.Categories)
	}
}

func TestCreateGroup_Validation(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")

	names := func(n int) []*api.NewMember {
		members := make([]*api.NewMember, n)
		for i := range members {
			members[i] = &api.NewMember{Name: fmt.Sprintf("Member %d", i+1)}
		}
		return members
	}

	tests := []struct {
		name    string
		req     *api.CreateGroupRequest
		wantErr bool
	}{
		{name: "name required", req: &api.CreateGroupRequest{Name: "   "}, wantErr: true},
		{name: "member name required", req: &api.CreateGroupRequest{Name: "Trip", Members: []*api.NewMember{{Name: ""}}}, wantErr: true},
		{name: "eleven members", req: &api.CreateGroupRequest{Name: "Trip", Members: names(10)}, wantErr: true},
		{name: "ten members", req: &api.CreateGroupRequest{Name: "Trip", Members: names(9)}},
		{name: "creator only", req: &api.CreateGroupRequest{Name: "Solo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.groups.CreateGroup(ctx, withToken(alice.AccessToken, tt.req))
			if tt.wantErr {
				assertCode(t, err, connect.CodeInvalidArgument)
				return
			}
			if err != nil {
				t.Fatalf("CreateGroup failed: %v", err)
			}
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := ts.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Trip"}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestListGroups(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")
	bob := ts.signUp(t, "bob")

	trip := ts.createGroup(t, alice.AccessToken, "Ski Trip", "Carol")
	ts.createGroup(t, alice.AccessToken, "Roommates")

	if _, err := ts.expenses.CreateExpense(ctx, withToken(alice.AccessToken, &api.CreateExpenseRequest{
		GroupID:      trip.Group.ID,
		ExpenseInput: api.ExpenseInput{Title: "Lift passes", Amount: 120.50, Date: "2026-01-10", PaidBy: trip.Members[0].ID},
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	resp, err := ts.groups.ListGroups(ctx, withToken(alice.AccessToken, &api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(resp.Msg.Groups))
	}

	var found bool
	for _, g := range resp.Msg.Groups {
		if g.ID != trip.Group.ID {
			continue
		}
		found = true
		if g.MemberCount != 2 || g.ExpenseCount != 1 || g.TotalAmount != 120.50 {
			t.Errorf("unexpected stats: %+v", g)
		}
	}
	if !found {
		t.Error("Ski Trip missing from list")
	}

	other, err := ts.groups.ListGroups(ctx, withToken(bob.AccessToken, &api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(other.Msg.Groups) != 0 {
		t.Errorf("bob should see no groups, got %d", len(other.Msg.Groups))
	}
}

func TestGetGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")
	bob := ts.signUp(t, "bob")
	group := ts.createGroup(t, alice.AccessToken, "Roommates", "Carol")

	resp, err := ts.groups.GetGroup(ctx, withToken(alice.AccessToken, &api.GetGroupRequest{GroupID: group.Group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if resp.Msg.Role != "admin" {
		t.Errorf("Role = %s, want admin", resp.Msg.Role)
	}
	if len(resp.Msg.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(resp.Msg.Members))
	}

	_, err = ts.groups.GetGroup(ctx, withToken(bob.AccessToken, &api.GetGroupRequest{GroupID: group.Group.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = ts.groups.GetGroup(ctx, withToken(alice.AccessToken, &api.GetGroupRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestUpdateGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")
	bob := ts.signUp(t, "bob")
	group := ts.createGroup(t, alice.AccessToken, "Roommates")
	ts.join(t, alice.AccessToken, group.Group.ID, bob, "user")

	name := "Flatmates"
	resp, err := ts.groups.UpdateGroup(ctx, withToken(alice.AccessToken, &api.UpdateGroupRequest{
		GroupID: group.Group.ID,
		Name:    &name,
	}))
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Flatmates" {
		t.Errorf("Name = %s, want Flatmates", resp.Msg.Group.Name)
	}
	if resp.Msg.Group.Color != group.Group.Color {
		t.Errorf("Color changed to %s", resp.Msg.Group.Color)
	}

	_, err = ts.groups.UpdateGroup(ctx, withToken(bob.AccessToken, &api.UpdateGroupRequest{
		GroupID: group.Group.ID,
		Name:    &name,
	}))
	assertCode(t, err, connect.CodePermissionDenied)

	empty := ""
	_, err = ts.groups.UpdateGroup(ctx, withToken(alice.AccessToken, &api.UpdateGroupRequest{
		GroupID: group.Group.ID,
		Name:    &empty,
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestDeleteGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")
	bob := ts.signUp(t, "bob")
	group := ts.createGroup(t, alice.AccessToken, "Roommates")
	ts.join(t, alice.AccessToken, group.Group.ID, bob, "user")

	_, err := ts.groups.DeleteGroup(ctx, withToken(bob.AccessToken, &api.DeleteGroupRequest{GroupID: group.Group.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := ts.groups.DeleteGroup(ctx, withToken(alice.AccessToken, &api.DeleteGroupRequest{GroupID: group.Group.ID})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err = ts.groups.GetGroup(ctx, withToken(alice.AccessToken, &api.GetGroupRequest{GroupID: group.Group.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	types := ts.events.Types()
	if len(types) == 0 || types[len(types)-1] != events.GroupDeleted {
		t.Errorf("expected group.deleted event, got %v", types)
	}
}

func TestGetBalances(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")
	group := ts.createGroup(t, alice.AccessToken, "Trip", "Bob", "Charlie")
	aliceID := group.Members[0].ID
	bobID := memberByName(t, group.Members, "Bob").ID
	charlieID := memberByName(t, group.Members, "Charlie").ID

	// Equal split of 30.00 across all three members.
	if _, err := ts.expenses.CreateExpense(ctx, withToken(alice.AccessToken, &api.CreateExpenseRequest{
		GroupID:      group.Group.ID,
		ExpenseInput: api.ExpenseInput{Title: "Dinner", Amount: 30, Date: "2026-03-01", PaidBy: aliceID},
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	resp := ts.balances(t, alice.AccessToken, group.Group.ID)

	want := map[string]float64{aliceID: 20, bobID: -10, charlieID: -10}
	if len(resp.MemberBalances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(resp.MemberBalances))
	}
	for _, mb := range resp.MemberBalances {
		if mb.Balance != want[mb.ID] {
			t.Errorf("%s balance = %v, want %v", mb.Name, mb.Balance, want[mb.ID])
		}
	}

	if len(resp.Settlements) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(resp.Settlements))
	}
	if s := resp.Settlements[0]; s.From.ID != bobID || s.To.ID != aliceID || s.Amount != 10 {
		t.Errorf("first settlement = %s -> %s %v", s.From.Name, s.To.Name, s.Amount)
	}
	if s := resp.Settlements[1]; s.From.ID != charlieID || s.To.ID != aliceID || s.Amount != 10 {
		t.Errorf("second settlement = %s -> %s %v", s.From.Name, s.To.Name, s.Amount)
	}
	if resp.TotalSpent != 30 {
		t.Errorf("TotalSpent = %v, want 30", resp.TotalSpent)
	}
}

func TestGetBalances_RemovedMemberStillSettles(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")
	group := ts.createGroup(t, alice.AccessToken, "Trip", "Bob")
	aliceID := group.Members[0].ID
	bobID := memberByName(t, group.Members, "Bob").ID

	if _, err := ts.expenses.CreateExpense(ctx, withToken(alice.AccessToken, &api.CreateExpenseRequest{
		GroupID:      group.Group.ID,
		ExpenseInput: api.ExpenseInput{Title: "Taxi", Amount: 20, Date: "2026-03-02", PaidBy: aliceID},
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	if _, err := ts.members.RemoveMember(ctx, withToken(alice.AccessToken, &api.RemoveMemberRequest{
		GroupID:  group.Group.ID,
		MemberID: bobID,
	})); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	resp := ts.balances(t, alice.AccessToken, group.Group.ID)
	if len(resp.MemberBalances) != 1 {
		t.Errorf("expected 1 member balance, got %d", len(resp.MemberBalances))
	}
	if len(resp.Settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(resp.Settlements))
	}
	if s := resp.Settlements[0]; s.From.ID != bobID || s.To.ID != aliceID || s.Amount != 10 {
		t.Errorf("unexpected settlement %+v -> %+v %v", s.From, s.To, s.Amount)
	}
}

func TestLeaveGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")
	bob := ts.signUp(t, "bob")

	t.Run("last member", func(t *testing.T) {
		solo := ts.createGroup(t, alice.AccessToken, "Solo")
		_, err := ts.groups.LeaveGroup(ctx, withToken(alice.AccessToken, &api.LeaveGroupRequest{GroupID: solo.Group.ID}))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	group := ts.createGroup(t, alice.AccessToken, "Trip")
	aliceID := group.Members[0].ID
	bobMember := ts.join(t, alice.AccessToken, group.Group.ID, bob, "user")

	t.Run("only admin", func(t *testing.T) {
		_, err := ts.groups.LeaveGroup(ctx, withToken(alice.AccessToken, &api.LeaveGroupRequest{GroupID: group.Group.ID}))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	if _, err := ts.expenses.CreateExpense(ctx, withToken(alice.AccessToken, &api.CreateExpenseRequest{
		GroupID:      group.Group.ID,
		ExpenseInput: api.ExpenseInput{Title: "Groceries", Amount: 50, Date: "2026-03-03", PaidBy: aliceID},
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	t.Run("outstanding balance", func(t *testing.T) {
		_, err := ts.groups.LeaveGroup(ctx, withToken(bob.AccessToken, &api.LeaveGroupRequest{GroupID: group.Group.ID}))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	if _, err := ts.expenses.RecordSettlement(ctx, withToken(bob.AccessToken, &api.RecordSettlementRequest{
		GroupID:      group.Group.ID,
		FromMemberID: bobMember.ID,
		ToMemberID:   aliceID,
		Amount:       25,
	})); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	if _, err := ts.groups.LeaveGroup(ctx, withToken(bob.AccessToken, &api.LeaveGroupRequest{GroupID: group.Group.ID})); err != nil {
		t.Fatalf("LeaveGroup failed: %v", err)
	}

	// Bob lost access, but his member row keeps the history.
	_, err := ts.groups.GetGroup(ctx, withToken(bob.AccessToken, &api.GetGroupRequest{GroupID: group.Group.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	resp, err := ts.groups.GetGroup(ctx, withToken(alice.AccessToken, &api.GetGroupRequest{GroupID: group.Group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	detached := memberByName(t, resp.Msg.Members, "bob")
	if detached.UserID != "" {
		t.Errorf("expected detached member, got user %s", detached.UserID)
	}

	types := ts.events.Types()
	if types[len(types)-1] != events.MemberLeft {
		t.Errorf("expected member.left event, got %v", types)
	}
}
