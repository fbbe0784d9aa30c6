package models

import "time"

// Credential is one stored login for a product, owned by a single user.
// (OwnerID, Product, Login) is unique; CreatedAt is reset on every upsert.
type Credential struct {
	ID        string
	OwnerID   string
	Product   string
	Login     string
	Password  string
	CreatedAt time.Time
}
