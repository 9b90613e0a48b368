// Package auth implements the console's sign-in flows.
//
// A Service validates input, runs the flow through a Provider and keeps the
// Session in step with the result. LocalProvider checks the local user list
// kept by package credentials; HostedProvider talks to the identity service
// through package identity.
package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/waterbot/internal/common"
	"github.com/dmitrijs2005/waterbot/internal/logging"
)

// Service runs the sign-in flows against one Provider.
type Service struct {
	provider Provider
	session  *Session
	logger   logging.Logger
}

// NewService constructs a Service that signs session in and out.
func NewService(provider Provider, session *Session, logger logging.Logger) *Service {
	return &Service{provider: provider, session: session, logger: logger.With("module", "auth")}
}

func validateEmail(email string) error {
	if !common.IsValidEmail(email) {
		return &ValidationError{Field: "email", Message: MsgInvalidEmail}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < common.MinPasswordLength {
		return &ValidationError{Field: "password", Message: MsgPasswordTooShort}
	}
	return nil
}

func (s *Service) Session() *Session {
	return s.session
}

// Current returns the signed-in identity, if any.
func (s *Service) Current() (Identity, bool) {
	return s.session.Snapshot()
}

// Login signs in. Unknown email and wrong password fail with the same
// AuthError.
func (s *Service) Login(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	id, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.session.SignIn(*id)
	s.logger.Info(ctx, "signed in", "email", id.Email)
	return id, nil
}

func (s *Service) Signup(ctx context.Context, email, password, confirm string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, &ValidationError{Field: "confirm", Message: MsgPasswordMismatch}
	}

	id, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.session.SignIn(*id)
	s.logger.Info(ctx, "signed up", "email", id.Email)
	return id, nil
}

// ResetPassword resets the password for email. newPassword may be empty
// when the provider can send a recovery request instead.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) (ResetOutcome, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return 0, err
	}
	if newPassword != "" {
		if err := validatePassword(newPassword); err != nil {
			return 0, err
		}
	}

	var current *Identity
	if id, ok := s.session.Snapshot(); ok {
		current = &id
	}
	return s.provider.ResetPassword(ctx, common.NormalizeEmail(email), newPassword, current)
}

// CompleteRecovery sets newPassword using a recovery code and signs the
// user in. Providers without recovery codes fail with an AuthError.
func (s *Service) CompleteRecovery(ctx context.Context, email, code, newPassword string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &ValidationError{Field: "code", Message: MsgInvalidRecovery}
	}
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}

	r, ok := s.provider.(Recoverer)
	if !ok {
		return nil, &AuthError{Message: MsgRecoveryDisabled}
	}
	id, err := r.CompleteRecovery(ctx, common.NormalizeEmail(email), code, newPassword)
	if err != nil {
		return nil, err
	}
	s.session.SignIn(*id)
	s.logger.Info(ctx, "password recovered", "email", id.Email)
	return id, nil
}

// Logout always ends the local session. A provider failure is logged.
func (s *Service) Logout(ctx context.Context) {
	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Warn(ctx, "sign out failed", "error", err)
	}
	s.session.SignOut()
}

// Restore resumes a session left by a previous run, if the provider keeps
// one. Errors leave the session logged out.
func (s *Service) Restore(ctx context.Context) (Identity, bool) {
	s.session.SignOut()

	id, err := s.provider.Restore(ctx)
	if err != nil {
		s.logger.Warn(ctx, "restore session failed", "error", err)
		return Identity{}, false
	}
	if id == nil {
		return Identity{}, false
	}
	s.session.SignIn(*id)
	return *id, true
}
