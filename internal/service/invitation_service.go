package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/events"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

var (
	errUsernameRequired  = errors.New("username is required")
	errInviteRole        = errors.New("invitation role must be user or watcher")
	errUserNotFound      = errors.New("user not found")
	errAlreadyMember     = errors.New("user is already a member of this group")
	errAlreadyInvited    = errors.New("user already has a pending invitation to this group")
	errNotYourInvitation = errors.New("invitation belongs to another user")
)

// InvitationService implements the Connect InvitationService.
type InvitationService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(store storage.Store, publisher events.Publisher) *InvitationService {
	return &InvitationService{store: store, publisher: publisher}
}

// SendInvitation invites a registered user to the group. Admin only.
func (s *InvitationService) SendInvitation(ctx context.Context, req *connect.Request[api.SendInvitationRequest]) (*connect.Response[api.SendInvitationResponse], error) {
	slog.Info("SendInvitation request received",
		"group_id", req.Msg.GroupID,
		"username", req.Msg.Username,
		"role", req.Msg.Role,
	)

	admin, err := requireAdmin(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Msg.Username)
	if username == "" {
		return nil, invalidArgument(errUsernameRequired)
	}

	role := models.RoleUser
	if req.Msg.Role != "" {
		role = models.Role(req.Msg.Role)
	}
	if role != models.RoleUser && role != models.RoleWatcher {
		return nil, invalidArgument(errInviteRole)
	}

	invitee, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, errUserNotFound)
	}
	if err != nil {
		return nil, storageError(err)
	}

	_, err = s.store.GetMemberByUser(ctx, req.Msg.GroupID, invitee.ID)
	if err == nil {
		return nil, connect.NewError(connect.CodeAlreadyExists, errAlreadyMember)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, storageError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storageError(err)
	}
	count, err := s.store.CountMembers(ctx, group.ID)
	if err != nil {
		return nil, storageError(err)
	}
	if count >= models.MaxGroupMembers {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errTooManyMembers)
	}

	invitation := &models.Invitation{
		GroupID:       group.ID,
		InvitedUserID: invitee.ID,
		InvitedBy:     admin.UserID,
		Role:          role,
	}
	if err := s.store.CreateInvitation(ctx, invitation); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, connect.NewError(connect.CodeAlreadyExists, errAlreadyInvited)
		}
		slog.Error("SendInvitation failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Invitation sent", "group_id", group.ID, "invitation_id", invitation.ID)

	return connect.NewResponse(&api.SendInvitationResponse{
		Invitation: toAPIInvitation(&models.InvitationDetails{
			Invitation:       *invitation,
			GroupName:        group.Name,
			GroupDescription: group.Description,
			GroupColor:       group.Color,
			MemberCount:      count,
			InviterUsername:  middleware.GetUsername(ctx),
			InviteeUsername:  invitee.Username,
		}),
	}), nil
}

// ListGroupInvitations returns the group's pending invitations. Admin only.
func (s *InvitationService) ListGroupInvitations(ctx context.Context, req *connect.Request[api.ListGroupInvitationsRequest]) (*connect.Response[api.ListGroupInvitationsResponse], error) {
	if _, err := requireAdmin(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	invitations, err := s.store.ListGroupInvitations(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListGroupInvitations failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.ListGroupInvitationsResponse{Invitations: toAPIInvitations(invitations)}), nil
}

// ListMyInvitations returns the caller's pending invitations.
func (s *InvitationService) ListMyInvitations(ctx context.Context, req *connect.Request[api.ListMyInvitationsRequest]) (*connect.Response[api.ListMyInvitationsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	invitations, err := s.store.ListUserInvitations(ctx, userID)
	if err != nil {
		slog.Error("ListMyInvitations failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.ListMyInvitationsResponse{Invitations: toAPIInvitations(invitations)}), nil
}

// AcceptInvitation joins the caller to the group with the invited role.
func (s *InvitationService) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	slog.Info("AcceptInvitation request received", "invitation_id", req.Msg.InvitationID)

	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	invitation, err := s.store.GetInvitation(ctx, req.Msg.InvitationID)
	if err != nil {
		return nil, storageError(err)
	}
	if invitation.InvitedUserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotYourInvitation)
	}

	count, err := s.store.CountMembers(ctx, invitation.GroupID)
	if err != nil {
		return nil, storageError(err)
	}
	if count >= models.MaxGroupMembers {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errTooManyMembers)
	}

	member := &models.Member{
		GroupID: invitation.GroupID,
		UserID:  userID,
		Name:    middleware.GetUsername(ctx),
		Color:   pickColor("", count),
		Role:    invitation.Role,
	}
	if err := s.store.AcceptInvitation(ctx, invitation, member); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, connect.NewError(connect.CodeAlreadyExists, errAlreadyMember)
		}
		slog.Error("AcceptInvitation failed", "invitation_id", invitation.ID, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, events.New(events.MemberJoined, member.GroupID, userID, member.ID))
	slog.Info("Invitation accepted", "group_id", member.GroupID, "member_id", member.ID)

	return connect.NewResponse(&api.AcceptInvitationResponse{Member: toAPIMember(member)}), nil
}

// DeclineInvitation deletes an invitation. The invitee declines it; a group
// admin may also withdraw it.
func (s *InvitationService) DeclineInvitation(ctx context.Context, req *connect.Request[api.DeclineInvitationRequest]) (*connect.Response[api.DeclineInvitationResponse], error) {
	slog.Info("DeclineInvitation request received", "invitation_id", req.Msg.InvitationID)

	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	invitation, err := s.store.GetInvitation(ctx, req.Msg.InvitationID)
	if err != nil {
		return nil, storageError(err)
	}
	if invitation.InvitedUserID != userID {
		if _, err := requireAdmin(ctx, s.store, invitation.GroupID); err != nil {
			return nil, connect.NewError(connect.CodePermissionDenied, errNotYourInvitation)
		}
	}

	if err := s.store.DeleteInvitation(ctx, invitation.ID); err != nil {
		slog.Error("DeclineInvitation failed", "invitation_id", invitation.ID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.DeclineInvitationResponse{}), nil
}
