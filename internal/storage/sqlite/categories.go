package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
)

const categoryColumns = "id, group_id, name, color, icon, is_default, created_at"

func insertCategory(ctx context.Context, db execer, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = now()
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO categories ("+categoryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.GroupID, c.Name, c.Color, c.Icon, c.IsDefault, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func scanCategory(row scanner) (*models.Category, error) {
	c := &models.Category{}
	if err := row.Scan(&c.ID, &c.GroupID, &c.Name, &c.Color, &c.Icon, &c.IsDefault, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCategory adds a category to a group.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	return insertCategory(ctx, s.db, category)
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// GetDefaultCategory retrieves the group's default category.
func (s *SQLiteStore) GetDefaultCategory(ctx context.Context, groupID string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE group_id = ? AND is_default = 1 LIMIT 1", groupID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("default category for group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default category: %w", err)
	}
	return c, nil
}

// ListCategories returns the group's categories with their spending totals.
func (s *SQLiteStore) ListCategories(ctx context.Context, groupID string) ([]*models.CategoryStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.group_id, c.name, c.color, c.icon, c.is_default, c.created_at,
			COALESCE(SUM(e.amount_cents), 0)
		FROM categories c
		LEFT JOIN expenses e ON e.category_id = c.id
		WHERE c.group_id = ?
		GROUP BY c.id
		ORDER BY c.is_default DESC, c.name`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var grandTotal int64
	categories := []*models.CategoryStats{}
	for rows.Next() {
		c := &models.CategoryStats{}
		if err := rows.Scan(
			&c.ID, &c.GroupID, &c.Name, &c.Color, &c.Icon, &c.IsDefault, &c.CreatedAt,
			&c.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		grandTotal += c.TotalAmount
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	if grandTotal > 0 {
		for _, c := range categories {
			c.Percentage = float64(c.TotalAmount) * 100 / float64(grandTotal)
		}
	}

	return categories, nil
}

// UpdateCategory updates a category's name, color and icon.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, color = ?, icon = ? WHERE id = ?",
		category.Name, category.Color, category.Icon, category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return rowsAffected(res, "category", category.ID)
}

// DeleteCategory removes a category.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return rowsAffected(res, "category", id)
}
