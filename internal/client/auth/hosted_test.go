package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/waterbot/internal/client/identity"
	"github.com/dmitrijs2005/waterbot/internal/client/kv"
	"github.com/dmitrijs2005/waterbot/internal/logging"
	pb "github.com/dmitrijs2005/waterbot/internal/proto"
)

type fakeIdentity struct {
	tokens   identity.Tokens
	onTokens func(identity.Tokens)

	signInErr  error
	sessionErr error
	updates    []*pb.UpdateUserRequest
	resets     []string
}

func (f *fakeIdentity) issue() {
	f.tokens = identity.Tokens{AccessToken: "A", RefreshToken: "R"}
	if f.onTokens != nil {
		f.onTokens(f.tokens)
	}
}

func (f *fakeIdentity) SignIn(_ context.Context, email, _ string) (*pb.User, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.issue()
	return &pb.User{ID: "u1", Email: email}, nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, _ string) (*pb.User, error) {
	f.issue()
	return &pb.User{ID: "u1", Email: email}, nil
}

func (f *fakeIdentity) SignOut(context.Context) error {
	f.tokens = identity.Tokens{}
	if f.onTokens != nil {
		f.onTokens(f.tokens)
	}
	return nil
}

func (f *fakeIdentity) GetSession(context.Context) (*pb.User, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return &pb.User{ID: "u1", Email: "pilot@example.com"}, nil
}

func (f *fakeIdentity) ResetPasswordForEmail(_ context.Context, email string) error {
	f.resets = append(f.resets, email)
	return nil
}

func (f *fakeIdentity) VerifyRecovery(_ context.Context, email, code string) (*pb.User, error) {
	if code != "code-u1" {
		return nil, fmt.Errorf("%w: invalid or expired recovery code", identity.ErrUnauthorized)
	}
	f.issue()
	return &pb.User{ID: "u1", Email: email}, nil
}

func (f *fakeIdentity) UpdateUser(_ context.Context, pw string, md map[string]string) (*pb.User, error) {
	f.updates = append(f.updates, &pb.UpdateUserRequest{Password: pw, Metadata: md})
	return &pb.User{ID: "u1"}, nil
}

func (f *fakeIdentity) Tokens() identity.Tokens { return f.tokens }

func (f *fakeIdentity) SetTokens(t identity.Tokens) { f.tokens = t }

func (f *fakeIdentity) OnTokens(fn func(identity.Tokens)) { f.onTokens = fn }

func newHosted(t *testing.T) (*HostedProvider, *fakeIdentity, *kv.Store) {
	t.Helper()
	store, err := kv.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &fakeIdentity{}
	return NewHostedProvider(f, store, logging.NewNopLogger()), f, store
}

func TestHosted_SignInPersistsTokens(t *testing.T) {
	p, _, store := newHosted(t)
	ctx := context.Background()

	id, err := p.SignIn(ctx, "pilot@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)

	var saved identity.Tokens
	ok, err := store.GetJSON(ctx, kv.KeyIdentitySession, &saved)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "R", saved.RefreshToken)

	require.NoError(t, p.SignOut(ctx))
	raw, err := store.Get(ctx, kv.KeyIdentitySession)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestHosted_ErrorMapping(t *testing.T) {
	p, f, _ := newHosted(t)
	ctx := context.Background()

	f.signInErr = fmt.Errorf("%w: invalid email or password", identity.ErrUnauthorized)
	_, err := p.SignIn(ctx, "pilot@example.com", "bad")
	requireAuthError(t, err, MsgInvalidCredentials)
	assert.ErrorIs(t, err, identity.ErrUnauthorized)

	f.signInErr = identity.ErrUnavailable
	_, err = p.SignIn(ctx, "pilot@example.com", "bad")
	requireAuthError(t, err, MsgServiceUnavailable)

	f.signInErr = fmt.Errorf("%w: email already registered", identity.ErrAlreadyExists)
	_, err = p.SignIn(ctx, "pilot@example.com", "bad")
	requireAuthError(t, err, MsgEmailRegistered)
}

func TestHosted_ResetPassword(t *testing.T) {
	p, f, _ := newHosted(t)
	ctx := context.Background()
	me := &Identity{ID: "u1", Email: "pilot@example.com"}

	out, err := p.ResetPassword(ctx, "pilot@example.com", "new-pass", me)
	require.NoError(t, err)
	assert.Equal(t, ResetPasswordUpdated, out)
	require.Len(t, f.updates, 1)
	assert.Equal(t, "new-pass", f.updates[0].Password)

	out, err = p.ResetPassword(ctx, "other@example.com", "new-pass", me)
	require.NoError(t, err)
	assert.Equal(t, ResetEmailSent, out)

	out, err = p.ResetPassword(ctx, "pilot@example.com", "", nil)
	require.NoError(t, err)
	assert.Equal(t, ResetEmailSent, out)
	assert.Equal(t, []string{"other@example.com", "pilot@example.com"}, f.resets)
}

func TestHosted_CompleteRecovery(t *testing.T) {
	p, f, store := newHosted(t)
	ctx := context.Background()

	_, err := p.CompleteRecovery(ctx, "pilot@example.com", "stale", "n3wpass")
	requireAuthError(t, err, MsgInvalidRecovery)
	assert.Empty(t, f.updates)

	id, err := p.CompleteRecovery(ctx, "pilot@example.com", "code-u1", "n3wpass")
	require.NoError(t, err)
	assert.Equal(t, &Identity{ID: "u1", Email: "pilot@example.com"}, id)
	require.Len(t, f.updates, 1)
	assert.Equal(t, "n3wpass", f.updates[0].Password)

	var saved identity.Tokens
	ok, err := store.GetJSON(ctx, kv.KeyIdentitySession, &saved)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", saved.AccessToken)
}

func TestHosted_Restore(t *testing.T) {
	p, f, store := newHosted(t)
	ctx := context.Background()

	id, err := p.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)

	require.NoError(t, store.SetJSON(ctx, kv.KeyIdentitySession, identity.Tokens{AccessToken: "A", RefreshToken: "R"}))
	id, err = p.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "pilot@example.com", id.Email)
	assert.Equal(t, "A", f.tokens.AccessToken)

	f.sessionErr = fmt.Errorf("%w: refresh token expired", identity.ErrUnauthorized)
	id, err = p.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
	raw, err := store.Get(ctx, kv.KeyIdentitySession)
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Equal(t, identity.Tokens{}, f.tokens)
}

func TestHosted_Heartbeat(t *testing.T) {
	p, f, _ := newHosted(t)
	p.now = func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) }

	require.NoError(t, p.Heartbeat(context.Background()))
	require.Len(t, f.updates, 1)
	assert.Empty(t, f.updates[0].Password)
	assert.Equal(t, "2026-05-06T07:08:09Z", f.updates[0].Metadata["last_seen"])
}

func TestHosted_RunHeartbeatSkipsWhenLoggedOut(t *testing.T) {
	p, f, _ := newHosted(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	p.RunHeartbeat(ctx, 5*time.Millisecond, func() bool { return false })
	assert.Empty(t, f.updates)

	p.RunHeartbeat(context.Background(), 0, func() bool { return true })
	assert.Empty(t, f.updates)
}
