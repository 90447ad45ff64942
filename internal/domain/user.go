package domain

import "time"

// User is the domain entity for a user account.
// PasswordHash and RefreshTokenHash never leave the service layer.
// RefreshTokenHash is nil when the user has no active session.
type User struct {
	ID               int64
	Name             string
	Email            string
	PasswordHash     string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
