package identity

import "errors"

var (
	ErrUnavailable     = errors.New("identity service unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotSignedIn     = errors.New("not signed in")
)
