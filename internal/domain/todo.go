package domain

import "time"

// TodoStatus is the workflow state of a todo item.
type TodoStatus string

const (
	StatusTodo       TodoStatus = "todo"
	StatusInProgress TodoStatus = "inProgress"
	StatusDone       TodoStatus = "done"
)

// Valid reports whether s is one of the known statuses.
func (s TodoStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Todo is a dated task owned by a user and assigned to a category.
type Todo struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	Task        string
	Date        time.Time
	Status      TodoStatus
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Category is populated on reads that join the category row.
	Category *Category
}
