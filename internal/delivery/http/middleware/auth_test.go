package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	userID string
	roles  []string
	err    error
}

func (f *fakeTokenVerifier) Verify(_ string) (string, []string, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.userID, f.roles, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		verifier      domain.TokenVerifier
		wantStatus    int
		wantMessage   string
		nextCalled    bool
		wantContextID string
		wantRoles     []string
	}{
		{
			name:          "valid token sets context and calls next",
			authHeader:    "Bearer valid-token",
			verifier:      &fakeTokenVerifier{userID: "user-123", roles: []string{"member"}},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "user-123",
			wantRoles:     []string{"member"},
		},
		{
			name:        "missing authorization header",
			verifier:    &fakeTokenVerifier{userID: "user-123"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "missing authorization header",
		},
		{
			name:        "wrong scheme",
			authHeader:  "Basic dXNlcjpwYXNz",
			verifier:    &fakeTokenVerifier{userID: "user-123"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid authorization format",
		},
		{
			name:        "empty bearer token",
			authHeader:  "Bearer   ",
			verifier:    &fakeTokenVerifier{userID: "user-123"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "missing token",
		},
		{
			name:        "verifier rejects token",
			authHeader:  "Bearer expired",
			verifier:    &fakeTokenVerifier{err: errors.New("token is expired")},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			var gotID string
			var gotRoles []string
			next := func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotID, _ = UserIDFromContext(r.Context())
				gotRoles = RolesFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireAuth(tt.verifier, quietLogger())(next)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.nextCalled, called)
			if tt.nextCalled {
				assert.Equal(t, tt.wantContextID, gotID)
				assert.Equal(t, tt.wantRoles, gotRoles)
				return
			}
			var resp helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, helpers.ErrCodeUnauthorized, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	verifier := &fakeTokenVerifier{userID: "user-9"}

	t.Run("anonymous request passes without identity", func(t *testing.T) {
		var id string
		var ok bool
		handler := OptionalAuth(verifier, quietLogger())(func(w http.ResponseWriter, r *http.Request) {
			id, ok = UserIDFromContext(r.Context())
		})
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/events", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, ok)
		assert.Empty(t, id)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		var id string
		handler := OptionalAuth(verifier, quietLogger())(func(w http.ResponseWriter, r *http.Request) {
			id, _ = UserIDFromContext(r.Context())
		})
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.Header.Set("Authorization", "Bearer ok")
		handler(httptest.NewRecorder(), req)

		assert.Equal(t, "user-9", id)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		called := false
		handler := OptionalAuth(&fakeTokenVerifier{err: errors.New("bad")}, quietLogger())(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUserIDFromContext_Empty(t *testing.T) {
	_, ok := UserIDFromContext(SetUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context(), ""))
	assert.False(t, ok)
}
