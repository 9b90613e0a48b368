package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/waterbot/internal/client/credentials"
	"github.com/dmitrijs2005/waterbot/internal/client/kv"
)

// Markers is the part of the key-value store holding the login markers.
type Markers interface {
	SetJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// LocalProvider checks credentials against the local user list. Passwords
// are compared as stored.
type LocalProvider struct {
	users   *credentials.Store
	markers Markers
}

// NewLocalProvider checks users and records sign-in state in markers.
func NewLocalProvider(users *credentials.Store, markers Markers) *LocalProvider {
	return &LocalProvider{users: users, markers: markers}
}

func (p *LocalProvider) mark(ctx context.Context, email string) error {
	if err := p.markers.SetJSON(ctx, kv.KeyAuthenticated, "true"); err != nil {
		return err
	}
	return p.markers.SetJSON(ctx, kv.KeyLoggedInEmail, email)
}

func (p *LocalProvider) clear(ctx context.Context) error {
	if err := p.markers.Delete(ctx, kv.KeyAuthenticated); err != nil {
		return err
	}
	return p.markers.Delete(ctx, kv.KeyLoggedInEmail)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	u, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || u.Password != password {
		return nil, invalidCredentials(nil)
	}
	if err := p.mark(ctx, u.Email); err != nil {
		return nil, fmt.Errorf("store login markers: %w", err)
	}
	return &Identity{ID: u.Email, Email: u.Email}, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	existing, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, &AuthError{Message: MsgEmailRegistered}
	}

	u, err := p.users.Create(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := p.mark(ctx, u.Email); err != nil {
		return nil, fmt.Errorf("store login markers: %w", err)
	}
	return &Identity{ID: u.Email, Email: u.Email}, nil
}

// ResetPassword sets the new password directly; the local variant has no
// recovery channel, so a new password is required.
func (p *LocalProvider) ResetPassword(ctx context.Context, email, newPassword string, _ *Identity) (ResetOutcome, error) {
	if newPassword == "" {
		return 0, &ValidationError{Field: "password", Message: MsgPasswordTooShort}
	}
	ok, err := p.users.UpdatePassword(ctx, email, newPassword)
	if err != nil {
		return 0, fmt.Errorf("update password: %w", err)
	}
	if !ok {
		return 0, &AuthError{Message: MsgEmailNotFound}
	}
	return ResetPasswordUpdated, nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	return p.clear(ctx)
}

// Restore never resumes a session. Markers left by a previous run are
// cleared.
func (p *LocalProvider) Restore(ctx context.Context) (*Identity, error) {
	if err := p.clear(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}
