package models

import "time"

// RecoveryToken is a one-time password recovery code issued by
// ResetPasswordForEmail and redeemed by VerifyRecovery.
type RecoveryToken struct {
	Token     string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}

// Expired reports whether the code can no longer be redeemed at now.
func (t *RecoveryToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
