package domain

import "time"

type ID string

// User is the identity record. RefreshToken is the single mutable
// session slot: it holds the currently valid refresh token, or the
// "empty" sentinel when the user has no active session.
type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
