package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/events"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

// ExpensePageSize is the number of expenses returned per ListExpenses page.
const ExpensePageSize = 50

const dateLayout = "2006-01-02"

var (
	errTitleRequired   = errors.New("title is required")
	errAmountPositive  = errors.New("amount must be greater than 0")
	errInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")
	errPayerRequired   = errors.New("paid_by is required")
	errPayerNotMember  = errors.New("paid_by must be a member of this group")
	errPayerWatcher    = errors.New("watchers cannot pay for expenses")
	errSplitNotMember  = errors.New("split member is not part of this group")
	errSplitDuplicate  = errors.New("member appears in more than one split")
	errSplitWatcher    = errors.New("watchers cannot be included in splits")
	errNoSplitMembers  = errors.New("no members to split the expense between")
	errCategoryMissing = errors.New("category does not belong to this group")
	errInvalidPage     = errors.New("page must not be negative")
	errSameMember      = errors.New("a member cannot settle with themselves")
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, publisher events.Publisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// ListExpenses returns one page of the group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID, "page", req.Msg.Page)

	if _, err := requireMember(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}
	if req.Msg.Page < 0 {
		return nil, invalidArgument(errInvalidPage)
	}

	expenses, total, err := s.store.ListExpenses(ctx, req.Msg.GroupID, ExpensePageSize, req.Msg.Page*ExpensePageSize)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	refs, err := s.loadRefs(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = refs.expense(e)
	}

	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses: out,
		Total:    total,
		Page:     req.Msg.Page,
		PageSize: ExpensePageSize,
	}), nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	expense, err := s.groupExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadRefs(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: refs.expense(expense)}), nil
}

// CreateExpense validates and stores a new expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"title", req.Msg.Title,
		"splits_count", len(req.Msg.Splits),
	)

	caller, err := requireWriter(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadRefs(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	expense, err := s.buildExpense(ctx, req.Msg.GroupID, &req.Msg.ExpenseInput, refs)
	if err != nil {
		return nil, err
	}
	expense.CreatedBy = caller.UserID

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, events.New(events.ExpenseCreated, expense.GroupID, caller.UserID, expense.ID))
	slog.Info("Expense created", "group_id", expense.GroupID, "expense_id", expense.ID)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: refs.expense(expense)}), nil
}

// UpdateExpense replaces an expense's fields and splits.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	caller, err := requireWriter(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	existing, err := s.groupExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadRefs(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	expense, err := s.buildExpense(ctx, req.Msg.GroupID, &req.Msg.ExpenseInput, refs)
	if err != nil {
		return nil, err
	}
	expense.ID = existing.ID
	expense.CreatedBy = existing.CreatedBy
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, events.New(events.ExpenseUpdated, expense.GroupID, caller.UserID, expense.ID))

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: refs.expense(expense)}), nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	caller, err := requireWriter(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	expense, err := s.groupExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, events.New(events.ExpenseDeleted, expense.GroupID, caller.UserID, expense.ID))

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// RecordSettlement stores a payment between two members as an expense paid
// by the debtor and owed entirely by the creditor.
func (s *ExpenseService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"from_member_id", req.Msg.FromMemberID,
		"to_member_id", req.Msg.ToMemberID,
		"amount", req.Msg.Amount,
	)

	if req.Msg.FromMemberID == req.Msg.ToMemberID {
		return nil, invalidArgument(errSameMember)
	}

	date := req.Msg.Date
	if date == "" {
		date = time.Now().Format(dateLayout)
	}

	caller, err := requireWriter(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadRefs(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	from, to := refs.members[req.Msg.FromMemberID], refs.members[req.Msg.ToMemberID]
	title := "Settlement"
	if from != nil && to != nil {
		title = fmt.Sprintf("%s paid %s", from.Name, to.Name)
	}

	input := &api.ExpenseInput{
		Title:  title,
		Amount: req.Msg.Amount,
		Date:   date,
		PaidBy: req.Msg.FromMemberID,
		Splits: []*api.Split{{MemberID: req.Msg.ToMemberID, Amount: req.Msg.Amount, IsIncluded: true}},
	}
	expense, err := s.buildExpense(ctx, req.Msg.GroupID, input, refs)
	if err != nil {
		return nil, err
	}
	expense.CreatedBy = caller.UserID

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("RecordSettlement failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, events.New(events.ExpenseCreated, expense.GroupID, caller.UserID, expense.ID))
	slog.Info("Settlement recorded", "group_id", expense.GroupID, "expense_id", expense.ID)

	return connect.NewResponse(&api.RecordSettlementResponse{Expense: refs.expense(expense)}), nil
}

// groupExpense loads an expense and checks that it belongs to groupID.
func (s *ExpenseService) groupExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, storageError(err)
	}
	if expense.GroupID != groupID {
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}
	return expense, nil
}

// buildExpense validates input against the group's members and categories.
func (s *ExpenseService) buildExpense(ctx context.Context, groupID string, in *api.ExpenseInput, refs *expenseRefs) (*models.Expense, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalidArgument(errTitleRequired)
	}

	amount, err := calculator.FromFloat(in.Amount)
	if err != nil {
		return nil, invalidArgument(err)
	}
	if amount <= 0 {
		return nil, invalidArgument(errAmountPositive)
	}

	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return nil, invalidArgument(errInvalidDate)
	}

	if in.PaidBy == "" {
		return nil, invalidArgument(errPayerRequired)
	}
	payer, ok := refs.roles[in.PaidBy]
	if !ok {
		return nil, invalidArgument(errPayerNotMember)
	}
	if payer == models.RoleWatcher {
		return nil, invalidArgument(errPayerWatcher)
	}

	splits, err := refs.splits(amount, in.Splits)
	if err != nil {
		return nil, err
	}

	categoryID := in.CategoryID
	if categoryID == "" {
		category, err := s.store.GetDefaultCategory(ctx, groupID)
		switch {
		case err == nil:
			categoryID = category.ID
		case !errors.Is(err, storage.ErrNotFound):
			return nil, storageError(err)
		}
	} else if _, ok := refs.categories[categoryID]; !ok {
		return nil, invalidArgument(errCategoryMissing)
	}

	expense := &models.Expense{
		GroupID:    groupID,
		Title:      title,
		Amount:     int64(amount),
		Date:       in.Date,
		PaidBy:     in.PaidBy,
		CategoryID: categoryID,
		Splits:     make([]models.Split, len(splits)),
	}
	for i, sp := range splits {
		expense.Splits[i] = models.Split{
			MemberID:   sp.MemberID,
			Amount:     int64(sp.Amount),
			IsIncluded: sp.IsIncluded,
		}
	}
	return expense, nil
}

// expenseRefs holds what is needed to validate and render a group's expenses.
type expenseRefs struct {
	order      []string
	roles      map[string]models.Role
	members    map[string]*api.Member
	categories map[string]*api.Category
}

func (s *ExpenseService) loadRefs(ctx context.Context, groupID string) (*expenseRefs, error) {
	var (
		members    []*models.Member
		categories []*models.CategoryStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.store.ListMembers(gctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("Failed to load group references", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	refs := &expenseRefs{
		order:      make([]string, 0, len(members)),
		roles:      make(map[string]models.Role, len(members)),
		members:    make(map[string]*api.Member, len(members)),
		categories: make(map[string]*api.Category, len(categories)),
	}
	for _, m := range members {
		refs.order = append(refs.order, m.ID)
		refs.roles[m.ID] = m.Role
		refs.members[m.ID] = toAPIMember(m)
	}
	for _, c := range categories {
		refs.categories[c.ID] = toAPICategory(&c.Category)
	}
	return refs, nil
}

func (r *expenseRefs) expense(e *models.Expense) *api.Expense {
	return toAPIExpense(e, r.members, r.categories)
}

// splits validates the requested splits. With none given, the amount is
// split equally between every non-watcher member.
func (r *expenseRefs) splits(amount calculator.Cents, in []*api.Split) ([]calculator.Split, error) {
	if len(in) == 0 {
		var ids []string
		for _, id := range r.order {
			if r.roles[id] != models.RoleWatcher {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil, invalidArgument(errNoSplitMembers)
		}
		return calculator.EqualSplit(amount, ids), nil
	}

	seen := make(map[string]bool, len(in))
	splits := make([]calculator.Split, 0, len(in))
	for _, sp := range in {
		role, ok := r.roles[sp.MemberID]
		if !ok {
			return nil, invalidArgument(fmt.Errorf("%w: %s", errSplitNotMember, sp.MemberID))
		}
		if seen[sp.MemberID] {
			return nil, invalidArgument(fmt.Errorf("%w: %s", errSplitDuplicate, sp.MemberID))
		}
		seen[sp.MemberID] = true

		splitAmount, err := calculator.FromFloat(sp.Amount)
		if err != nil {
			return nil, invalidArgument(fmt.Errorf("split for %s: %w", sp.MemberID, err))
		}
		split := calculator.Split{
			MemberID:   sp.MemberID,
			Amount:     splitAmount,
			IsIncluded: sp.IsIncluded,
		}
		if role == models.RoleWatcher && split.IsIncluded && split.Amount != 0 {
			return nil, invalidArgument(errSplitWatcher)
		}
		splits = append(splits, split)
	}

	if err := calculator.ValidateSplits(amount, splits); err != nil {
		return nil, invalidArgument(err)
	}
	return splits, nil
}
