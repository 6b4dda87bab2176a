package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

var (
	errGroupIDRequired = errors.New("group_id is required")
	errNotMember       = errors.New("not a member of this group")
	errReadOnly        = errors.New("watchers have read-only access")
	errAdminOnly       = errors.New("only group admins can do this")
)

// callerID returns the authenticated user's ID.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// requireMember returns the caller's member row in the group.
func requireMember(ctx context.Context, store storage.MemberStore, groupID string) (*models.Member, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	member, err := store.GetMemberByUser(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	if err != nil {
		slog.Error("Member lookup failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return member, nil
}

// requireWriter is requireMember for operations watchers may not perform.
func requireWriter(ctx context.Context, store storage.MemberStore, groupID string) (*models.Member, error) {
	member, err := requireMember(ctx, store, groupID)
	if err != nil {
		return nil, err
	}
	if !member.Role.CanWrite() {
		return nil, connect.NewError(connect.CodePermissionDenied, errReadOnly)
	}
	return member, nil
}

func requireAdmin(ctx context.Context, store storage.MemberStore, groupID string) (*models.Member, error) {
	member, err := requireMember(ctx, store, groupID)
	if err != nil {
		return nil, err
	}
	if member.Role != models.RoleAdmin {
		return nil, connect.NewError(connect.CodePermissionDenied, errAdminOnly)
	}
	return member, nil
}

// groupMember loads a member and checks that it belongs to groupID.
func groupMember(ctx context.Context, store storage.MemberStore, groupID, memberID string) (*models.Member, error) {
	member, err := store.GetMember(ctx, memberID)
	if err != nil {
		return nil, storageError(err)
	}
	if member.GroupID != groupID {
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}
	return member, nil
}

// storageError converts a storage error into a connect error.
func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(err error) error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}
