package models

import "time"

// User owns zero or more accounts. PasswordHash is an opaque bcrypt hash
// managed by the auth layer; the ledger never looks at it.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
}
