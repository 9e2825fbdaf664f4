package model

import "time"

// IdentityClaims is the decoded payload of a verified bearer token. It
// exists only for the duration of one request.
type IdentityClaims struct {
	// Subject identifies the token owner and scopes every storage key.
	Subject string
	// ExpiresAt is the token expiry instant.
	ExpiresAt time.Time
	// Email is optional and only present when the identity provider
	// includes it.
	Email string
}
