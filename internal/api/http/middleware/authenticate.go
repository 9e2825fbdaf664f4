package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clouddocs/server/internal/model"
)

type ctxKey int

const identityKey ctxKey = 0

// Verifier validates a bearer token and returns the identity it carries.
type Verifier interface {
	Verify(tokenString string) (model.IdentityClaims, error)
}

// Authenticate rejects requests without a valid bearer token before any
// other work happens.
type Authenticate struct {
	verifier Verifier
}

// NewAuthenticate creates authentication middleware around a verifier.
func NewAuthenticate(verifier Verifier) *Authenticate {
	return &Authenticate{verifier: verifier}
}

// Handle extracts the Authorization header, verifies the token and puts
// the resulting identity on the request context. Missing header, missing
// Bearer prefix and every verification failure produce the same 401.
func (a *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeUnauthorized(w)
			return
		}

		claims, err := a.verifier.Verify(token)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := ContextWithIdentity(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithIdentity returns a context carrying the verified identity.
func ContextWithIdentity(ctx context.Context, claims model.IdentityClaims) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}

// IdentityFromContext returns the verified identity placed on the context
// by the authenticate middleware.
func IdentityFromContext(ctx context.Context) (model.IdentityClaims, bool) {
	claims, ok := ctx.Value(identityKey).(model.IdentityClaims)
	return claims, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": "Invalid or missing token",
	})
}
