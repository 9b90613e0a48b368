package auth

import "context"

// ResetOutcome tells the caller what a password reset did.
type ResetOutcome int

const (
	// ResetPasswordUpdated means the new password is already in effect.
	ResetPasswordUpdated ResetOutcome = iota
	// ResetEmailSent means a recovery request was issued for the address.
	ResetEmailSent
)

// Provider is one auth strategy. Inputs have already been validated.
// current is the signed-in identity, or nil.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	ResetPassword(ctx context.Context, email, newPassword string, current *Identity) (ResetOutcome, error)
	SignOut(ctx context.Context) error
	// Restore returns the identity of a session that survived a restart,
	// or nil.
	Restore(ctx context.Context) (*Identity, error)
}

// Recoverer is implemented by providers that can finish a password reset
// with a recovery code issued by ResetPassword.
type Recoverer interface {
	CompleteRecovery(ctx context.Context, email, code, newPassword string) (*Identity, error)
}
