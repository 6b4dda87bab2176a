package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

func TestCategories(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")
	group := ts.createGroup(t, alice.AccessToken, "Trip", "Bob")
	groupID := group.Group.ID

	created, err := ts.categories.CreateCategory(ctx, withToken(alice.AccessToken, &api.CreateCategoryRequest{
		GroupID: groupID,
		Name:    "Food",
		Color:   "amber",
		Icon:    "utensils",
	}))
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	food := created.Msg.Category

	if _, err := ts.expenses.CreateExpense(ctx, withToken(alice.AccessToken, &api.CreateExpenseRequest{
		GroupID: groupID,
		ExpenseInput: api.ExpenseInput{
			Title: "Pizza", Amount: 30, Date: "2026-02-01", PaidBy: group.Members[0].ID, CategoryID: food.ID,
		},
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := ts.expenses.CreateExpense(ctx, withToken(alice.AccessToken, &api.CreateExpenseRequest{
		GroupID:      groupID,
		ExpenseInput: api.ExpenseInput{Title: "Tickets", Amount: 10, Date: "2026-02-02", PaidBy: group.Members[0].ID},
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	list, err := ts.categories.ListCategories(ctx, withToken(alice.AccessToken, &api.ListCategoriesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	cats := list.Msg.Categories
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if !cats[0].IsDefault {
		t.Errorf("expected default category first, got %s", cats[0].Name)
	}
	if cats[0].TotalAmount != 10 || cats[1].TotalAmount != 30 {
		t.Errorf("totals = %v, %v; want 10, 30", cats[0].TotalAmount, cats[1].TotalAmount)
	}
	if cats[1].Percentage != 75 {
		t.Errorf("Food percentage = %v, want 75", cats[1].Percentage)
	}

	t.Run("update", func(t *testing.T) {
		name := "Food & drinks"
		resp, err := ts.categories.UpdateCategory(ctx, withToken(alice.AccessToken, &api.UpdateCategoryRequest{
			GroupID:    groupID,
			CategoryID: food.ID,
			Name:       &name,
		}))
		if err != nil {
			t.Fatalf("UpdateCategory failed: %v", err)
		}
		if resp.Msg.Category.Name != name || resp.Msg.Category.Icon != "utensils" {
			t.Errorf("unexpected category: %+v", resp.Msg.Category)
		}
	})

	t.Run("default category is protected", func(t *testing.T) {
		name := "Misc"
		_, err := ts.categories.UpdateCategory(ctx, withToken(alice.AccessToken, &api.UpdateCategoryRequest{
			GroupID:    groupID,
			CategoryID: cats[0].ID,
			Name:       &name,
		}))
		assertCode(t, err, connect.CodePermissionDenied)

		_, err = ts.categories.DeleteCategory(ctx, withToken(alice.AccessToken, &api.DeleteCategoryRequest{
			GroupID:    groupID,
			CategoryID: cats[0].ID,
		}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("delete keeps expenses", func(t *testing.T) {
		if _, err := ts.categories.DeleteCategory(ctx, withToken(alice.AccessToken, &api.DeleteCategoryRequest{
			GroupID:    groupID,
			CategoryID: food.ID,
		})); err != nil {
			t.Fatalf("DeleteCategory failed: %v", err)
		}

		resp, err := ts.expenses.ListExpenses(ctx, withToken(alice.AccessToken, &api.ListExpensesRequest{GroupID: groupID}))
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if resp.Msg.Total != 2 {
			t.Errorf("expected 2 expenses, got %d", resp.Msg.Total)
		}
		for _, e := range resp.Msg.Expenses {
			if e.Title == "Pizza" && e.CategoryID != "" {
				t.Errorf("expected Pizza to lose its category, got %s", e.CategoryID)
			}
		}
	})
}

func TestCreateCategory_Watcher(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice := ts.signUp(t, "alice")
	walter := ts.signUp(t, "walter")
	group := ts.createGroup(t, alice.AccessToken, "Trip")
	ts.join(t, alice.AccessToken, group.Group.ID, walter, "watcher")

	_, err := ts.categories.CreateCategory(ctx, withToken(walter.AccessToken, &api.CreateCategoryRequest{
		GroupID: group.Group.ID,
		Name:    "Snacks",
	}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = ts.categories.CreateCategory(ctx, withToken(alice.AccessToken, &api.CreateCategoryRequest{
		GroupID: group.Group.ID,
		Name:    " ",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
