package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

const invitationDetailsQuery = `
	SELECT i.id, i.group_id, i.invited_user_id, i.invited_by, i.role, i.created_at,
		g.name, g.description, g.color,
		(SELECT COUNT(*) FROM members WHERE group_id = g.id),
		COALESCE(inviter.username, ''), COALESCE(invitee.username, '')
	FROM invitations i
	JOIN groups g ON g.id = i.group_id
	LEFT JOIN users inviter ON inviter.id = i.invited_by
	LEFT JOIN users invitee ON invitee.id = i.invited_user_id
`

// CreateInvitation persists a new invitation.
func (s *SQLiteStore) CreateInvitation(ctx context.Context, invitation *models.Invitation) error {
	if invitation.ID == "" {
		invitation.ID = uuid.New().String()
	}
	if invitation.CreatedAt == 0 {
		invitation.CreatedAt = now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO invitations (id, group_id, invited_user_id, invited_by, role, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		invitation.ID, invitation.GroupID, invitation.InvitedUserID, invitation.InvitedBy,
		string(invitation.Role), invitation.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("invitation for user %s: %w", invitation.InvitedUserID, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// GetInvitation retrieves an invitation by ID.
func (s *SQLiteStore) GetInvitation(ctx context.Context, id string) (*models.Invitation, error) {
	inv := &models.Invitation{}
	var role string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, invited_user_id, invited_by, role, created_at FROM invitations WHERE id = ?", id,
	).Scan(&inv.ID, &inv.GroupID, &inv.InvitedUserID, &inv.InvitedBy, &role, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("invitation", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	inv.Role = models.Role(role)
	return inv, nil
}

// ListGroupInvitations returns the pending invitations of a group.
func (s *SQLiteStore) ListGroupInvitations(ctx context.Context, groupID string) ([]*models.InvitationDetails, error) {
	return s.queryInvitations(ctx,
		invitationDetailsQuery+" WHERE i.group_id = ? ORDER BY i.created_at DESC, i.rowid DESC", groupID)
}

// ListUserInvitations returns the pending invitations addressed to a user.
func (s *SQLiteStore) ListUserInvitations(ctx context.Context, userID string) ([]*models.InvitationDetails, error) {
	return s.queryInvitations(ctx,
		invitationDetailsQuery+" WHERE i.invited_user_id = ? ORDER BY i.created_at DESC, i.rowid DESC", userID)
}

func (s *SQLiteStore) queryInvitations(ctx context.Context, query string, args ...any) ([]*models.InvitationDetails, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	invitations := []*models.InvitationDetails{}
	for rows.Next() {
		inv := &models.InvitationDetails{}
		var role string
		if err := rows.Scan(
			&inv.ID, &inv.GroupID, &inv.InvitedUserID, &inv.InvitedBy, &role, &inv.CreatedAt,
			&inv.GroupName, &inv.GroupDescription, &inv.GroupColor, &inv.MemberCount,
			&inv.InviterUsername, &inv.InviteeUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		inv.Role = models.Role(role)
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}
	return invitations, nil
}

// DeleteInvitation removes an invitation.
func (s *SQLiteStore) DeleteInvitation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM invitations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	return rowsAffected(res, "invitation", id)
}

// AcceptInvitation turns an invitation into a group membership.
func (s *SQLiteStore) AcceptInvitation(ctx context.Context, invitation *models.Invitation, member *models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	member.GroupID = invitation.GroupID
	if err := insertMember(ctx, tx, member); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM invitations WHERE id = ?", invitation.ID)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if err := rowsAffected(res, "invitation", invitation.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
