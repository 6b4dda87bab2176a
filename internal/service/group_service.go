package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/events"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

var (
	errNameRequired     = errors.New("name is required")
	errTooManyMembers   = fmt.Errorf("a group can have at most %d members", models.MaxGroupMembers)
	errLastMember       = errors.New("you are the last member; delete the group instead")
	errOnlyAdmin        = errors.New("you are the only admin; assign another admin before leaving")
	errUnsettledBalance = errors.New("you have an outstanding balance; settle up before leaving")
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, publisher events.Publisher) *GroupService {
	return &GroupService{store: store, publisher: publisher}
}

// CreateGroup creates a group with the caller as its admin, the given
// name-only members and the default category.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument(errNameRequired)
	}
	if len(req.Msg.Members)+1 > models.MaxGroupMembers {
		return nil, invalidArgument(errTooManyMembers)
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(req.Msg.Description),
		Color:       req.Msg.Color,
	}
	if group.Color == "" {
		group.Color = defaultGroupColor
	}

	members := []*models.Member{{
		UserID: userID,
		Name:   middleware.GetUsername(ctx),
		Color:  pickColor("", 0),
		Role:   models.RoleAdmin,
	}}
	for i, m := range req.Msg.Members {
		memberName := strings.TrimSpace(m.Name)
		if memberName == "" {
			return nil, invalidArgument(fmt.Errorf("member %d: %w", i+1, errNameRequired))
		}
		members = append(members, &models.Member{
			Name:  memberName,
			Color: pickColor(m.Color, i+1),
			Role:  models.RoleUser,
		})
	}

	category := &models.Category{
		Name:      models.DefaultCategoryName,
		Color:     "gray",
		Icon:      "tag",
		IsDefault: true,
	}

	// Save to storage (generates IDs and timestamps)
	if err := s.store.CreateGroup(ctx, group, members, category); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Group created", "group_id", group.ID, "user_id", userID)

	return connect.NewResponse(&api.CreateGroupResponse{
		Group:   toAPIGroup(group),
		Members: toAPIMembers(members),
	}), nil
}

// ListGroups returns the caller's groups with their counters.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.GroupWithStats, len(groups))
	for i, g := range groups {
		out[i] = &api.GroupWithStats{
			Group:        *toAPIGroup(&g.Group),
			MemberCount:  g.MemberCount,
			ExpenseCount: g.ExpenseCount,
			TotalAmount:  toAmount(g.TotalAmount),
		}
	}

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// GetGroup returns a group, its members and the caller's role.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	caller, err := requireMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}
	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:   toAPIGroup(group),
		Members: toAPIMembers(members),
		Role:    string(caller.Role),
	}), nil
}

// UpdateGroup applies a partial update. Admin only.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received", "group_id", req.Msg.GroupID)

	if _, err := requireAdmin(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storageError(err)
	}

	if req.Msg.Name != nil {
		name := strings.TrimSpace(*req.Msg.Name)
		if name == "" {
			return nil, invalidArgument(errNameRequired)
		}
		group.Name = name
	}
	if req.Msg.Description != nil {
		group.Description = strings.TrimSpace(*req.Msg.Description)
	}
	if req.Msg.Color != nil && *req.Msg.Color != "" {
		group.Color = *req.Msg.Color
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group with all of its data. Admin only.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	admin, err := requireAdmin(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, events.New(events.GroupDeleted, req.Msg.GroupID, admin.UserID, ""))
	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// LeaveGroup unlinks the caller from the group. The member row stays so the
// expense history remains intact.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	slog.Info("LeaveGroup request received", "group_id", req.Msg.GroupID)

	member, err := requireMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	l, err := loadLedger(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Error("LeaveGroup failed to load ledger", "group_id", req.Msg.GroupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if len(l.members) <= 1 {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errLastMember)
	}
	if member.Role == models.RoleAdmin && countAdmins(l.members) <= 1 {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errOnlyAdmin)
	}
	if balance := l.balances()[member.ID]; balance.Abs() > calculator.SplitTolerance {
		slog.Info("LeaveGroup refused with outstanding balance",
			"group_id", req.Msg.GroupID,
			"member_id", member.ID,
			"balance", balance.String(),
		)
		return nil, connect.NewError(connect.CodeFailedPrecondition, errUnsettledBalance)
	}

	if err := s.store.DetachMember(ctx, member.ID); err != nil {
		slog.Error("LeaveGroup failed", "member_id", member.ID, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, events.New(events.MemberLeft, req.Msg.GroupID, member.UserID, member.ID))
	slog.Info("Member left group", "group_id", req.Msg.GroupID, "member_id", member.ID)

	return connect.NewResponse(&api.LeaveGroupResponse{}), nil
}

// GetBalances returns every member's net balance and the suggested
// settlements that clear them.
func (s *GroupService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "group_id", req.Msg.GroupID)

	if _, err := requireMember(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	l, err := loadLedger(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	balances := l.balances()
	settlements := l.settlements(balances)

	members := make(map[string]*api.Member, len(l.members))
	memberBalances := make([]*api.MemberBalance, len(l.members))
	for i, m := range l.members {
		am := toAPIMember(m)
		members[m.ID] = am
		memberBalances[i] = &api.MemberBalance{
			Member:  *am,
			Balance: balances[m.ID].Float64(),
		}
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = &api.Settlement{
			From:   settlementMember(members, st.From, req.Msg.GroupID),
			To:     settlementMember(members, st.To, req.Msg.GroupID),
			Amount: st.Amount.Float64(),
		}
	}

	slog.Info("GetBalances successful",
		"group_id", req.Msg.GroupID,
		"settlements", len(out),
	)

	return connect.NewResponse(&api.GetBalancesResponse{
		MemberBalances: memberBalances,
		Settlements:    out,
		TotalSpent:     toAmount(l.totalSpent()),
	}), nil
}

// settlementMember resolves a settlement party. Removed members that still
// carry a balance only have their id.
func settlementMember(members map[string]*api.Member, m calculator.Member, groupID string) *api.Member {
	if am, ok := members[m.ID]; ok {
		return am
	}
	return &api.Member{ID: m.ID, GroupID: groupID, Name: m.Name}
}

func countAdmins(members []*models.Member) int {
	n := 0
	for _, m := range members {
		if m.Role == models.RoleAdmin && m.UserID != "" {
			n++
		}
	}
	return n
}
