package api

type Category struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	IsDefault bool   `json:"is_default"`
	CreatedAt int64  `json:"created_at"`
}

type CategoryWithStats struct {
	Category
	TotalAmount float64 `json:"total_amount"`
	Percentage  float64 `json:"percentage"`
}

type ListCategoriesRequest struct {
	GroupID string `json:"group_id"`
}

type ListCategoriesResponse struct {
	Categories []*CategoryWithStats `json:"categories"`
}

type CreateCategoryRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
	Icon    string `json:"icon,omitempty"`
}

type CreateCategoryResponse struct {
	Category *Category `json:"category"`
}

type UpdateCategoryRequest struct {
	GroupID    string  `json:"group_id"`
	CategoryID string  `json:"category_id"`
	Name       *string `json:"name,omitempty"`
	Color      *string `json:"color,omitempty"`
	Icon       *string `json:"icon,omitempty"`
}

type UpdateCategoryResponse struct {
	Category *Category `json:"category"`
}

type DeleteCategoryRequest struct {
	GroupID    string `json:"group_id"`
	CategoryID string `json:"category_id"`
}

type DeleteCategoryResponse struct{}
