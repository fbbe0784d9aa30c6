// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. Inactive users are soft-deleted: the row stays but
// login and profile lookups treat it as missing.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}
