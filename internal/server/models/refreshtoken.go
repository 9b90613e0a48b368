package models

import "time"

// RefreshToken is a server-side refresh session. It is deleted when
// rotated, so a token can be exchanged at most once.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// Expired reports whether the session can no longer be refreshed at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
