package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clouddocs/server/internal/model"
)

// MockVerifier mocks the Verifier interface
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(tokenString string) (model.IdentityClaims, error) {
	args := m.Called(tokenString)
	return args.Get(0).(model.IdentityClaims), args.Error(1)
}

func TestAuthenticate_Handle(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Owner", claims.Subject)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token puts identity on context", func(t *testing.T) {
		verifier := &MockVerifier{}
		verifier.On("Verify", "good-token").Return(model.IdentityClaims{Subject: "user-1"}, nil)

		mw := NewAuthenticate(verifier)

		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		mw.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Header().Get("X-Owner"))
	})

	t.Run("missing header", func(t *testing.T) {
		verifier := &MockVerifier{}
		mw := NewAuthenticate(verifier)

		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		rec := httptest.NewRecorder()

		mw.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		verifier.AssertNotCalled(t, "Verify", mock.Anything)
	})

	t.Run("missing bearer prefix", func(t *testing.T) {
		verifier := &MockVerifier{}
		mw := NewAuthenticate(verifier)

		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		mw.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		verifier.AssertNotCalled(t, "Verify", mock.Anything)
	})

	t.Run("verification failure", func(t *testing.T) {
		verifier := &MockVerifier{}
		verifier.On("Verify", "bad-token").
			Return(model.IdentityClaims{}, errors.New("token is expired"))

		mw := NewAuthenticate(verifier)

		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()

		mw.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "unauthorized")
	})
}

func TestIdentityFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := IdentityFromContext(req.Context())
	assert.False(t, ok)
}
