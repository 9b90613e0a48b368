// Package identity is the console's client for the hosted identity service.
//
// GRPCClient manages the connection, injects the access token into every
// call through a unary interceptor, transparently refreshes an expired
// access token with the stored refresh token, and maps gRPC status codes to
// the sentinel errors below. Dial additionally retries the initial Ping
// with exponential backoff so a console started alongside the service does
// not fail on the first attempt.
//
// Errors: ErrUnavailable, ErrUnauthorized, ErrAlreadyExists,
// ErrInvalidArgument and ErrNotSignedIn; match them with errors.Is.
package identity
