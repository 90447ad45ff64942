package domain

import "time"

// Category groups todos. Color is a "#rrggbb" hex string.
type Category struct {
	ID     int64
	UserID int64
	Name   string
	Color  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
