// Package models defines identity-service records persisted in PostgreSQL.
package models

import "time"

// User is a registered identity. PasswordHash is argon2id over the
// password and Salt.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Salt         []byte
	Metadata     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
