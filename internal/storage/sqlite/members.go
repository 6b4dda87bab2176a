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

const memberColumns = "id, group_id, user_id, name, color, role, created_at"

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func insertMember(ctx context.Context, db execer, m *models.Member) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt == 0 {
		m.CreatedAt = now()
	}
	if m.Role == "" {
		m.Role = models.RoleUser
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO members ("+memberColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.GroupID, nullString(m.UserID), m.Name, m.Color, string(m.Role), m.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("member for user %s: %w", m.UserID, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func scanMember(row scanner) (*models.Member, error) {
	m := &models.Member{}
	var userID sql.NullString
	var role string
	if err := row.Scan(&m.ID, &m.GroupID, &userID, &m.Name, &m.Color, &role, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.UserID = userID.String
	m.Role = models.Role(role)
	return m, nil
}

// CreateMember adds a member to a group.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	return insertMember(ctx, s.db, member)
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, id string) (*models.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("member", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// GetMemberByUser retrieves the member linked to userID in groupID.
func (s *SQLiteStore) GetMemberByUser(ctx context.Context, groupID, userID string) (*models.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE group_id = ? AND user_id = ?", groupID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("member for user", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by user: %w", err)
	}
	return m, nil
}

// ListMembers returns the group's members in creation order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE group_id = ? ORDER BY created_at, rowid", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []*models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// CountMembers returns the number of members in a group.
func (s *SQLiteStore) CountMembers(ctx context.Context, groupID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM members WHERE group_id = ?", groupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// UpdateMember updates a member's name, color and role.
func (s *SQLiteStore) UpdateMember(ctx context.Context, member *models.Member) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE members SET name = ?, color = ?, role = ? WHERE id = ?",
		member.Name, member.Color, string(member.Role), member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return rowsAffected(res, "member", member.ID)
}

// DetachMember clears the member's user link. A detached admin keeps its
// history as a plain user member.
func (s *SQLiteStore) DetachMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE members
		SET user_id = NULL,
			role = CASE role WHEN 'admin' THEN 'user' ELSE role END
		WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to detach member: %w", err)
	}
	return rowsAffected(res, "member", id)
}

// DeleteMember removes the member row.
func (s *SQLiteStore) DeleteMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return rowsAffected(res, "member", id)
}
