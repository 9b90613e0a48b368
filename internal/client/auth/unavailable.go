package auth

import (
	"context"
	"fmt"
)

// UnavailableProvider stands in for a provider that could not be set up.
// Every flow fails with MsgServiceUnavailable.
type UnavailableProvider struct {
	err error
}

// NewUnavailableProvider wraps cause in ErrProviderUnavailable.
func NewUnavailableProvider(cause error) *UnavailableProvider {
	err := ErrProviderUnavailable
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrProviderUnavailable, cause)
	}
	return &UnavailableProvider{err: err}
}

func (p *UnavailableProvider) fail() error {
	return &AuthError{Message: MsgServiceUnavailable, Err: p.err}
}

func (p *UnavailableProvider) SignIn(context.Context, string, string) (*Identity, error) {
	return nil, p.fail()
}

func (p *UnavailableProvider) SignUp(context.Context, string, string) (*Identity, error) {
	return nil, p.fail()
}

func (p *UnavailableProvider) ResetPassword(context.Context, string, string, *Identity) (ResetOutcome, error) {
	return 0, p.fail()
}

func (p *UnavailableProvider) CompleteRecovery(context.Context, string, string, string) (*Identity, error) {
	return nil, p.fail()
}

func (p *UnavailableProvider) SignOut(context.Context) error {
	return nil
}

func (p *UnavailableProvider) Restore(context.Context) (*Identity, error) {
	return nil, nil
}
