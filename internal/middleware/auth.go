// Tiendat | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
)

const identityKey contextKey = "identity"

// TokenVerifier checks a bearer token and returns the caller identity.
// Implemented by the auth package; declared here to keep the dependency
// pointing inward.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (identity.Identity, error)
}

// ExtractToken pulls the bearer token from the Authorization header.
func ExtractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errors.New("authorization header must be 'Bearer <token>'")
	}

	return token, nil
}

// Authenticator verifies the bearer token and stores the resulting identity
// in the request context. Requests without a valid token never reach the
// wrapped handler.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractToken(r)
			if err != nil {
				core.JSONError(w, core.UnauthorizedError("access token required"))
				return
			}

			id, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, core.ErrTokenExpired) {
					core.JSONError(w, core.TokenExpiredError())
					return
				}
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the authenticated caller stored by Authenticator.
func GetIdentity(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(identity.Identity)
	return id, ok
}

// RequireAdmin rejects non-admin callers. Must run after Authenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentity(r.Context())
		if !ok {
			core.JSONError(w, core.UnauthorizedError(""))
			return
		}

		if err := identity.RequireAdmin(id); err != nil {
			core.JSONError(w, core.ForbiddenError("admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireOwner gates routes whose target user id rides in a path parameter.
// Admins pass for any target; users only for their own id. The normalized
// target id is stored in the context for handlers to read back.
func RequireOwner(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := GetIdentity(r.Context())
			if !ok {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			target, err := identity.ValidateUserID(chi.URLParam(r, param))
			if err != nil {
				core.JSONError(w, core.ValidationError("invalid user id"))
				return
			}

			if err := identity.Authorize(id, target); err != nil {
				core.JSONError(w, core.ForbiddenError("you can only access your own resources"))
				return
			}

			ctx := context.WithValue(r.Context(), targetUserKey, target)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

const targetUserKey contextKey = "target_user"

// GetTargetUser returns the validated target user id stored by RequireOwner.
func GetTargetUser(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(targetUserKey).(string)
	return id, ok
}
