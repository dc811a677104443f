// Package auth validates HS256 bearer tokens whose subject is a user id.
// Issuing tokens is left to an external identity service.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type ctxKey struct{}

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownUser  = errors.New("unknown user")
)

// UserLookup resolves the subject of a token.
type UserLookup interface {
	Get(ctx context.Context, id uuid.UUID) (core.User, error)
}

type Authenticator struct {
	secret []byte
	users  UserLookup
	logger *log.Logger
}

func New(secret string, users UserLookup, logger *log.Logger) *Authenticator {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Authenticator{
		secret: []byte(secret),
		users:  users,
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

// Validate parses a raw token and returns the user it belongs to.
func (a *Authenticator) Validate(ctx context.Context, raw string) (core.User, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return core.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return core.User{}, fmt.Errorf("%w: subject missing", ErrInvalidToken)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return core.User{}, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	user, err := a.users.Get(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, ErrUnknownUser
	}
	if err != nil {
		return core.User{}, err
	}
	return user, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// authenticated user id in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			unauthorized(w, ErrMissingToken.Error())
			return
		}

		user, err := a.Validate(r.Context(), raw)
		switch {
		case err == nil:
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUnknownUser):
			a.logger.WarnContext(r.Context(), "Rejected bearer token",
				log.FieldPath, r.URL.Path,
				log.FieldError, err.Error(),
				log.FieldErrorType, log.ErrorTypeAuth)
			unauthorized(w, "invalid token")
			return
		default:
			a.logger.ErrorContext(r.Context(), "Token user lookup failed",
				log.FieldError, err.Error(),
				log.FieldErrorType, log.ErrorTypeDatabase)
			writeDetail(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, user.ID)
		ctx = log.NewContext(ctx, log.FromContext(ctx).With(log.FieldUserID, user.ID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the id stored by Middleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="fintrack"`)
	writeDetail(w, http.StatusUnauthorized, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
