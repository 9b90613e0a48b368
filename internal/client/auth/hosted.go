package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/client/identity"
	"github.com/dmitrijs2005/waterbot/internal/client/kv"
	"github.com/dmitrijs2005/waterbot/internal/logging"
	pb "github.com/dmitrijs2005/waterbot/internal/proto"
)

// IdentityClient is the subset of identity.GRPCClient the hosted provider
// uses.
type IdentityClient interface {
	SignIn(ctx context.Context, email, password string) (*pb.User, error)
	SignUp(ctx context.Context, email, password string) (*pb.User, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*pb.User, error)
	ResetPasswordForEmail(ctx context.Context, email string) error
	VerifyRecovery(ctx context.Context, email, code string) (*pb.User, error)
	UpdateUser(ctx context.Context, password string, md map[string]string) (*pb.User, error)
	Tokens() identity.Tokens
	SetTokens(identity.Tokens)
	OnTokens(fn func(identity.Tokens))
}

// TokenStore persists the identity session between runs.
type TokenStore interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// HostedProvider delegates every flow to the identity service and keeps
// its token pair in the key-value store.
type HostedProvider struct {
	client IdentityClient
	store  TokenStore
	logger logging.Logger
	now    func() time.Time
}

// NewHostedProvider wires client to store so every token change is
// persisted.
func NewHostedProvider(client IdentityClient, store TokenStore, logger logging.Logger) *HostedProvider {
	p := &HostedProvider{
		client: client,
		store:  store,
		logger: logger.With("module", "auth.hosted"),
		now:    time.Now,
	}
	client.OnTokens(p.persist)
	return p
}

func (p *HostedProvider) persist(t identity.Tokens) {
	ctx := context.Background()
	var err error
	if t.AccessToken == "" {
		err = p.store.Delete(ctx, kv.KeyIdentitySession)
	} else {
		err = p.store.SetJSON(ctx, kv.KeyIdentitySession, t)
	}
	if err != nil {
		p.logger.Error(ctx, "failed to persist identity session", "error", err)
	}
}

func toIdentity(u *pb.User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{ID: u.ID, Email: u.Email}
}

// serviceError converts identity client errors to AuthError. Anything the
// client could not classify is returned as is.
func serviceError(err error, unauthorized string) error {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		return &AuthError{Message: unauthorized, Err: err}
	case errors.Is(err, identity.ErrAlreadyExists):
		return &AuthError{Message: MsgEmailRegistered, Err: err}
	case errors.Is(err, identity.ErrInvalidArgument):
		return &AuthError{Message: err.Error(), Err: err}
	case errors.Is(err, identity.ErrUnavailable):
		return &AuthError{Message: MsgServiceUnavailable, Err: err}
	}
	return err
}

func (p *HostedProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	u, err := p.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, serviceError(err, MsgInvalidCredentials)
	}
	return toIdentity(u), nil
}

func (p *HostedProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	u, err := p.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, serviceError(err, MsgInvalidCredentials)
	}
	return toIdentity(u), nil
}

// ResetPassword changes the password in place when the signed-in user
// resets their own address. Otherwise it asks the service to start
// recovery for the address.
func (p *HostedProvider) ResetPassword(ctx context.Context, email, newPassword string, current *Identity) (ResetOutcome, error) {
	if newPassword != "" && current != nil && current.Email == email {
		if _, err := p.client.UpdateUser(ctx, newPassword, nil); err != nil {
			return 0, serviceError(err, "Session expired, please log in again")
		}
		return ResetPasswordUpdated, nil
	}

	if err := p.client.ResetPasswordForEmail(ctx, email); err != nil {
		return 0, serviceError(err, MsgEmailNotFound)
	}
	return ResetEmailSent, nil
}

// CompleteRecovery redeems code for a session and sets newPassword on it.
func (p *HostedProvider) CompleteRecovery(ctx context.Context, email, code, newPassword string) (*Identity, error) {
	u, err := p.client.VerifyRecovery(ctx, email, code)
	if err != nil {
		return nil, serviceError(err, MsgInvalidRecovery)
	}
	if _, err := p.client.UpdateUser(ctx, newPassword, nil); err != nil {
		return nil, serviceError(err, "Session expired, please log in again")
	}
	return toIdentity(u), nil
}

func (p *HostedProvider) SignOut(ctx context.Context) error {
	if err := p.client.SignOut(ctx); err != nil {
		return serviceError(err, "Session expired")
	}
	return nil
}

// Restore resumes the stored session. A session the service rejects is
// forgotten.
func (p *HostedProvider) Restore(ctx context.Context) (*Identity, error) {
	var t identity.Tokens
	ok, err := p.store.GetJSON(ctx, kv.KeyIdentitySession, &t)
	if err != nil {
		return nil, fmt.Errorf("load identity session: %w", err)
	}
	if !ok || t.AccessToken == "" {
		return nil, nil
	}

	p.client.SetTokens(t)
	u, err := p.client.GetSession(ctx)
	if err != nil {
		if errors.Is(err, identity.ErrUnauthorized) {
			p.client.SetTokens(identity.Tokens{})
			p.persist(identity.Tokens{})
			return nil, nil
		}
		return nil, serviceError(err, MsgInvalidCredentials)
	}
	return toIdentity(u), nil
}

// Heartbeat records the current time in the profile metadata.
func (p *HostedProvider) Heartbeat(ctx context.Context) error {
	md := map[string]string{"last_seen": p.now().UTC().Format(time.RFC3339)}
	if _, err := p.client.UpdateUser(ctx, "", md); err != nil {
		return err
	}
	return nil
}

// RunHeartbeat calls Heartbeat every interval while loggedIn reports true,
// until ctx is done. Failures are logged.
func (p *HostedProvider) RunHeartbeat(ctx context.Context, interval time.Duration, loggedIn func() bool) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !loggedIn() {
				continue
			}
			if err := p.Heartbeat(ctx); err != nil {
				p.logger.Warn(ctx, "heartbeat failed", "error", err)
			}
		}
	}
}
