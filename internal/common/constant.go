// Package common contains shared constants and sentinel errors used across
// WaterBot components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// MinPasswordLength applies to both the local and the hosted auth variants.
const MinPasswordLength = 6
