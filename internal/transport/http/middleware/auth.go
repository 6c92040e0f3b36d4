package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"extynct-community/internal/httputil"
	"extynct-community/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// accountKey is the context key for the authenticated account
	accountKey contextKey = "account"
)

// SessionResolver maps a bearer token to its account.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.Account, error)
}

// BearerToken extracts the token from the Authorization header.
// Expected format: "Bearer <token>". Returns "" when absent.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireSession resolves the caller's bearer token and rejects the
// request when no live session backs it. The resolved account is added
// to the request context for handlers downstream.
func RequireSession(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, err := sessions.Resolve(r.Context(), BearerToken(r))
			if err != nil {
				switch {
				case errors.Is(err, model.ErrMissingToken):
					httputil.WriteUnauthorized(w, "Sign in to continue.")
				case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrSessionOrphaned):
					httputil.WriteUnauthorized(w, "Session expired. Please sign in again.")
				default:
					httputil.WriteInternalError(w, "Unable to verify the session.")
				}
				return
			}

			ctx := context.WithValue(r.Context(), accountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext extracts the authenticated account from the
// request context. Returns nil when the route was not session-guarded.
func AccountFromContext(ctx context.Context) *model.Account {
	account, _ := ctx.Value(accountKey).(*model.Account)
	return account
}
