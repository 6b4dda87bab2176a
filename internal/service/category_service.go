package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

var errDefaultCategory = errors.New("the default category cannot be changed or deleted")

// CategoryService implements the Connect CategoryService.
type CategoryService struct {
	store storage.Store
}

func NewCategoryService(store storage.Store) *CategoryService {
	return &CategoryService{store: store}
}

// ListCategories returns the group's categories with spending totals,
// default category first.
func (s *CategoryService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListCategories failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.CategoryWithStats, len(categories))
	for i, c := range categories {
		out[i] = &api.CategoryWithStats{
			Category:    *toAPICategory(&c.Category),
			TotalAmount: toAmount(c.TotalAmount),
			Percentage:  c.Percentage,
		}
	}

	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	slog.Info("CreateCategory request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	if _, err := requireWriter(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument(errNameRequired)
	}

	category := &models.Category{
		GroupID: req.Msg.GroupID,
		Name:    name,
		Color:   req.Msg.Color,
		Icon:    req.Msg.Icon,
	}
	if category.Color == "" {
		category.Color = "gray"
	}
	if category.Icon == "" {
		category.Icon = "tag"
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		slog.Error("CreateCategory failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.CreateCategoryResponse{Category: toAPICategory(category)}), nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, req *connect.Request[api.UpdateCategoryRequest]) (*connect.Response[api.UpdateCategoryResponse], error) {
	if _, err := requireWriter(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	category, err := s.groupCategory(ctx, req.Msg.GroupID, req.Msg.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, connect.NewError(connect.CodePermissionDenied, errDefaultCategory)
	}

	if req.Msg.Name != nil {
		name := strings.TrimSpace(*req.Msg.Name)
		if name == "" {
			return nil, invalidArgument(errNameRequired)
		}
		category.Name = name
	}
	if req.Msg.Color != nil && *req.Msg.Color != "" {
		category.Color = *req.Msg.Color
	}
	if req.Msg.Icon != nil && *req.Msg.Icon != "" {
		category.Icon = *req.Msg.Icon
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		slog.Error("UpdateCategory failed", "category_id", category.ID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.UpdateCategoryResponse{Category: toAPICategory(category)}), nil
}

// DeleteCategory removes a category. Expenses that used it are left
// uncategorized.
func (s *CategoryService) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	slog.Info("DeleteCategory request received", "group_id", req.Msg.GroupID, "category_id", req.Msg.CategoryID)

	if _, err := requireWriter(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	category, err := s.groupCategory(ctx, req.Msg.GroupID, req.Msg.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, connect.NewError(connect.CodePermissionDenied, errDefaultCategory)
	}

	if err := s.store.DeleteCategory(ctx, category.ID); err != nil {
		slog.Error("DeleteCategory failed", "category_id", category.ID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.DeleteCategoryResponse{}), nil
}

func (s *CategoryService) groupCategory(ctx context.Context, groupID, categoryID string) (*models.Category, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, storageError(err)
	}
	if category.GroupID != groupID {
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}
	return category, nil
}
