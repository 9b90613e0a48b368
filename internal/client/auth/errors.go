package auth

import "errors"

// User-facing messages.
const (
	MsgInvalidEmail       = "Please enter a valid email"
	MsgPasswordTooShort   = "Password must be at least 6 characters"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailRegistered    = "Email already registered"
	MsgEmailNotFound      = "Email not found"
	MsgServiceUnavailable = "Identity service unavailable"
	MsgInvalidRecovery    = "Invalid or expired recovery code"
	MsgRecoveryDisabled   = "Recovery codes need the hosted identity service"
)

// ErrProviderUnavailable means the configured auth provider could not be
// set up. No auth flow can run without it.
var ErrProviderUnavailable = errors.New("auth provider unavailable")

// ValidationError rejects input before any store or service call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is a rejection by the credential store or the identity service.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func invalidCredentials(cause error) error {
	return &AuthError{Message: MsgInvalidCredentials, Err: cause}
}
