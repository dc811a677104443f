package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeUsers map[uuid.UUID]core.User

func (f fakeUsers) Get(_ context.Context, id uuid.UUID) (core.User, error) {
	u, ok := f[id]
	if !ok {
		return core.User{}, core.NotFound("user")
	}
	return u, nil
}

type failingUsers struct{}

func (failingUsers) Get(context.Context, uuid.UUID) (core.User, error) {
	return core.User{}, errors.New("connection refused")
}

func mint(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func newTestAuthenticator(users UserLookup) *Authenticator {
	return New(testSecret, users, log.New(log.Config{Output: io.Discard}))
}

func TestValidate(t *testing.T) {
	user := core.User{Email: "ada@example.com", Name: "Ada"}
	user.ID = uuid.New()
	a := newTestAuthenticator(fakeUsers{user.ID: user})

	valid := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:  "valid token",
			token: mint(t, jwt.SigningMethodHS256, []byte(testSecret), valid),
		},
		{
			name:    "wrong secret",
			token:   mint(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-00"), valid),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "other hmac algorithm",
			token:   mint(t, jwt.SigningMethodHS512, []byte(testSecret), valid),
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: mint(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
				Subject:   user.ID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "subject is not a uuid",
			token:   mint(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "ada"}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "unknown user",
			token:   mint(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: uuid.NewString()}),
			wantErr: ErrUnknownUser,
		},
		{
			name:    "garbage",
			token:   "not.a.token",
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Validate(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
		})
	}
}

func TestMiddleware(t *testing.T) {
	user := core.User{Email: "ada@example.com"}
	user.ID = uuid.New()
	a := newTestAuthenticator(fakeUsers{user.ID: user})

	var seen uuid.UUID
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
		assert.JSONEq(t, `{"detail":"missing bearer token"}`, rec.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "Bearer nope")
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"detail":"invalid token"}`, rec.Body.String())
	})

	t.Run("valid token", func(t *testing.T) {
		token := mint(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: user.ID.String()})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "bearer "+token)
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, user.ID, seen)
	})

	t.Run("lookup failure", func(t *testing.T) {
		broken := newTestAuthenticator(failingUsers{}).Middleware(http.NotFoundHandler())
		token := mint(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: user.ID.String()})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		broken.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
