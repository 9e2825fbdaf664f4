package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clouddocs/server/internal/model"
)

// Internal failure causes. Every one of them surfaces to callers as
// model.ErrUnauthorized; they stay distinguishable for logs and tests.
var (
	ErrMalformedToken = errors.New("token is malformed")
	ErrUnknownKey     = errors.New("no key matches the token key id")
	ErrBadSignature   = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token is expired")
)

// Claims is the token payload consumed by this service.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Verifier validates bearer tokens against the identity provider's
// published keys.
type Verifier struct {
	keys KeyLookup
}

// NewVerifier creates a Verifier backed by the given key lookup.
func NewVerifier(keys KeyLookup) *Verifier {
	return &Verifier{keys: keys}
}

// Verify checks the token signature and expiry and returns the identity
// claims. The header is decoded only to learn which key to use; no claim
// is trusted before the signature validates (jwt/v5 verifies the
// signature before running claim validation).
func (v *Verifier) Verify(tokenString string) (model.IdentityClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKey
		}
		key, ok := v.keys.Lookup(kid)
		if !ok {
			return nil, ErrUnknownKey
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return model.IdentityClaims{}, unauthorized(classifyParseError(err))
	}
	if !token.Valid {
		return model.IdentityClaims{}, unauthorized(ErrBadSignature)
	}

	if claims.Subject == "" {
		return model.IdentityClaims{}, unauthorized(ErrMalformedToken)
	}

	return model.IdentityClaims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
		Email:     claims.Email,
	}, nil
}

func unauthorized(cause error) error {
	return fmt.Errorf("%w: %w", model.ErrUnauthorized, cause)
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKey):
		return ErrUnknownKey
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	default:
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
}
