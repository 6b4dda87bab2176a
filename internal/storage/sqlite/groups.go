package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
)

// CreateGroup persists a new group with its initial members and default category.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, members []*models.Member, category *models.Category) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, description, color, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Description, group.Color, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, m := range members {
		m.GroupID = group.ID
		if m.CreatedAt == 0 {
			m.CreatedAt = group.CreatedAt
		}
		if err := insertMember(ctx, tx, m); err != nil {
			return err
		}
	}

	if category != nil {
		category.GroupID = group.ID
		if category.CreatedAt == 0 {
			category.CreatedAt = group.CreatedAt
		}
		if err := insertCategory(ctx, tx, category); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, color, created_at FROM groups WHERE id = ?", id,
	).Scan(&group.ID, &group.Name, &group.Description, &group.Color, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("group", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// UpdateGroup updates the group's name, description and color.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, description = ?, color = ? WHERE id = ?",
		group.Name, group.Description, group.Color, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return rowsAffected(res, "group", group.ID)
}

// DeleteGroup removes a group. Members, categories, expenses and
// invitations are removed by cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return rowsAffected(res, "group", id)
}

// ListGroupsForUser returns the user's groups with member and expense counters.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.color, g.created_at,
			(SELECT COUNT(*) FROM members WHERE group_id = g.id),
			(SELECT COUNT(*) FROM expenses WHERE group_id = g.id),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE group_id = g.id)
		FROM groups g
		JOIN members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC, g.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*models.GroupStats{}
	for rows.Next() {
		g := &models.GroupStats{}
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Description, &g.Color, &g.CreatedAt,
			&g.MemberCount, &g.ExpenseCount, &g.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}
