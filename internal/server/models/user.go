// Package models defines the data models persisted by the server.
package models

import "time"

// User is an identity record. Email is matched case-sensitively and the
// password is stored only as a one-way hex digest. Users are immutable
// after registration and never deleted.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
