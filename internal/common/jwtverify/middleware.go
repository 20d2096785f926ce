// Package jwtverify gates protected routes on a valid access token and
// hands the authenticated user id to downstream handlers through the
// request context.
package jwtverify

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/todolist/backend/internal/auth/token"
	commonerrors "github.com/example/todolist/backend/internal/common/errors"
	commonhttp "github.com/example/todolist/backend/internal/common/http"
	"github.com/example/todolist/backend/internal/common/logger"
)

type contextKey string

const userIDKey contextKey = "user_id"

type AccessVerifier interface {
	VerifyAccess(tokenString string) (token.Claims, error)
}

// Middleware rejects requests without a bearer token as 401 and requests
// with an invalid or expired one as 403.
func Middleware(verifier AccessVerifier, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				commonhttp.HandleError(w, r, commonerrors.ErrMissingAuthorization, log)
				return
			}

			claims, err := verifier.VerifyAccess(strings.TrimPrefix(raw, "Bearer "))
			if err != nil {
				log.Warnf("jwt auth failed path=%s: %v", r.URL.Path, err)
				commonhttp.HandleError(w, r, err, log)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the id injected by Middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}
