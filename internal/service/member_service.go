package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/events"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

var (
	errInvalidRole    = errors.New("role must be admin, user or watcher")
	errLastAdmin      = errors.New("a group needs at least one admin")
	errRemoveSelf     = errors.New("use LeaveGroup to remove yourself")
	errMemberIDNeeded = errors.New("member_id is required")
)

// MemberService implements the Connect MemberService.
type MemberService struct {
	store     storage.Store
	publisher events.Publisher
}

func NewMemberService(store storage.Store, publisher events.Publisher) *MemberService {
	return &MemberService{store: store, publisher: publisher}
}

func (s *MemberService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.ListMembersResponse{Members: toAPIMembers(members)}), nil
}

// AddMember adds a name-only member to the group.
func (s *MemberService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	if _, err := requireWriter(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument(errNameRequired)
	}

	count, err := s.store.CountMembers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storageError(err)
	}
	if count >= models.MaxGroupMembers {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errTooManyMembers)
	}

	member := &models.Member{
		GroupID: req.Msg.GroupID,
		Name:    name,
		Color:   pickColor(req.Msg.Color, count),
		Role:    models.RoleUser,
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Member added", "group_id", member.GroupID, "member_id", member.ID)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// UpdateMember renames or recolors a member.
func (s *MemberService) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	if _, err := requireWriter(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}
	if req.Msg.MemberID == "" {
		return nil, invalidArgument(errMemberIDNeeded)
	}

	member, err := groupMember(ctx, s.store, req.Msg.GroupID, req.Msg.MemberID)
	if err != nil {
		return nil, err
	}

	if req.Msg.Name != nil {
		name := strings.TrimSpace(*req.Msg.Name)
		if name == "" {
			return nil, invalidArgument(errNameRequired)
		}
		member.Name = name
	}
	if req.Msg.Color != nil && *req.Msg.Color != "" {
		member.Color = *req.Msg.Color
	}

	if err := s.store.UpdateMember(ctx, member); err != nil {
		slog.Error("UpdateMember failed", "member_id", member.ID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.UpdateMemberResponse{Member: toAPIMember(member)}), nil
}

// UpdateMemberRole changes a member's role. Admin only.
func (s *MemberService) UpdateMemberRole(ctx context.Context, req *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error) {
	slog.Info("UpdateMemberRole request received",
		"group_id", req.Msg.GroupID,
		"member_id", req.Msg.MemberID,
		"role", req.Msg.Role,
	)

	if _, err := requireAdmin(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	role := models.Role(req.Msg.Role)
	if !role.Valid() {
		return nil, invalidArgument(errInvalidRole)
	}

	member, err := groupMember(ctx, s.store, req.Msg.GroupID, req.Msg.MemberID)
	if err != nil {
		return nil, err
	}
	if member.Role == role {
		return connect.NewResponse(&api.UpdateMemberRoleResponse{Member: toAPIMember(member)}), nil
	}

	if member.Role == models.RoleAdmin {
		members, err := s.store.ListMembers(ctx, req.Msg.GroupID)
		if err != nil {
			return nil, storageError(err)
		}
		if countAdmins(members) <= 1 {
			return nil, connect.NewError(connect.CodeFailedPrecondition, errLastAdmin)
		}
	}

	member.Role = role
	if err := s.store.UpdateMember(ctx, member); err != nil {
		slog.Error("UpdateMemberRole failed", "member_id", member.ID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Member role updated", "member_id", member.ID, "role", role)
	return connect.NewResponse(&api.UpdateMemberRoleResponse{Member: toAPIMember(member)}), nil
}

// RemoveMember deletes a member. Admin only. Expenses and splits that
// reference the member are kept, so balances stay consistent.
func (s *MemberService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)

	admin, err := requireAdmin(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if req.Msg.MemberID == admin.ID {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errRemoveSelf)
	}

	member, err := groupMember(ctx, s.store, req.Msg.GroupID, req.Msg.MemberID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteMember(ctx, member.ID); err != nil {
		slog.Error("RemoveMember failed", "member_id", member.ID, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, events.New(events.MemberLeft, req.Msg.GroupID, admin.UserID, member.ID))

	slog.Info("Member removed", "group_id", req.Msg.GroupID, "member_id", member.ID)
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}
