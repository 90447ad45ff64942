package dto

import (
	"time"

	dom "github.com/vishnucprasad/gotodo-server/internal/domain"
)

// CreateCategoryRequest is the JSON body for POST /category/create.
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Color string `json:"color" binding:"required,len=7"`
}

// EditCategoryRequest is the JSON body for PATCH /category/:id.
type EditCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=120"`
	Color *string `json:"color" binding:"omitempty,len=7"`
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategoryResponse maps a domain category to its public view.
func NewCategoryResponse(c dom.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewCategoryResponses maps a slice of domain categories.
func NewCategoryResponses(list []dom.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}
