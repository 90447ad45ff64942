package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "github.com/vishnucprasad/gotodo-server/internal/domain"
)

// Date parses a date field from JSON as either date-only ("2006-01-02")
// or RFC3339. Date-only is stored as start of that day in UTC.
type Date struct{ t *time.Time }

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02", // date only
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// If it was date-only (no time component), use start of day UTC
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d Date) Ptr() *time.Time { return d.t }

// ParseDate parses a query-string date in the same formats Date accepts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// CreateTodoRequest is the JSON body for POST /todo/create.
type CreateTodoRequest struct {
	CategoryID  int64  `json:"categoryId" binding:"required"`
	Task        string `json:"task" binding:"required,min=1,max=120"`
	Date        Date   `json:"date" binding:"required"`
	Description string `json:"description" binding:"max=1000"`
}

// EditTodoRequest is the JSON body for PATCH /todo/:id. Nil fields are
// left unchanged.
type EditTodoRequest struct {
	CategoryID  *int64  `json:"categoryId"`
	Task        *string `json:"task" binding:"omitempty,min=1,max=120"`
	Date        *Date   `json:"date"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// ChangeStatusRequest is the JSON body for PATCH /todo/status/:id.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TodoResponse is the public view of a todo with its category joined in.
type TodoResponse struct {
	ID          int64             `json:"id"`
	CategoryID  int64             `json:"categoryId"`
	Task        string            `json:"task"`
	Date        time.Time         `json:"date"`
	Status      string            `json:"status"`
	Description string            `json:"description"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ListTodosResponse wraps a todo listing.
type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}

// NewTodoResponse maps a domain todo to its public view.
func NewTodoResponse(t dom.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          t.ID,
		CategoryID:  t.CategoryID,
		Task:        t.Task,
		Date:        t.Date,
		Status:      string(t.Status),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Category != nil {
		c := NewCategoryResponse(*t.Category)
		resp.Category = &c
	}
	return resp
}

// NewTodoResponses maps a slice of domain todos.
func NewTodoResponses(list []dom.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(list))
	for _, t := range list {
		out = append(out, NewTodoResponse(t))
	}
	return out
}
