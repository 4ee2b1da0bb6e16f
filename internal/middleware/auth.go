// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"nordicos/internal/auth"
	"nordicos/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// IdentityKey is the context key for the authenticated caller.
	IdentityKey contextKey = "identity"

	holderKey contextKey = "identity-holder"

	// rejectedKey carries the reason credentials were refused, for the
	// 401 that RequireAuth or RequireAdmin sends.
	rejectedKey contextKey = "credentials-rejected"
)

// identityHolder lets Logger, which runs outside Authenticate, see the
// resolved caller after the request completes.
type identityHolder struct {
	id *Identity
}

func withIdentityHolder(ctx context.Context, h *identityHolder) context.Context {
	return context.WithValue(ctx, holderKey, h)
}

// Identity is the caller resolved from a bearer token. Role comes from the
// user row, not from the token.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     models.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// UserLookup loads the account behind a token. (nil, nil) means the user
// no longer exists.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticate resolves an "Authorization: Bearer" header into an Identity
// stored in the request context. Requests without the header, or with a bad
// token or a deleted or deactivated user, pass through anonymously so public
// routes keep working; protected routes answer them with a 401 naming the
// reason.
func Authenticate(tokens TokenParser, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				next.ServeHTTP(w, rejected(r, "Invalid or expired token"))
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				slog.Error("load token user failed", "user_id", claims.UserID, "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if user == nil || !user.IsActive {
				next.ServeHTTP(w, rejected(r, "Invalid or inactive user"))
				return
			}

			id := &Identity{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			}
			if h, ok := r.Context().Value(holderKey).(*identityHolder); ok {
				h.id = id
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func rejected(r *http.Request, reason string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), rejectedKey, reason))
}

// unauthorizedMessage explains a 401 for an anonymous caller.
func unauthorizedMessage(ctx context.Context) string {
	if reason, ok := ctx.Value(rejectedKey).(string); ok {
		return reason
	}
	return "Access token required"
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// RequireAuth rejects anonymous requests with 401.
// Must be applied after Authenticate in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, unauthorizedMessage(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 401 for anonymous callers and 403 for non-admins.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromCtx(r.Context())
		if id == nil {
			writeError(w, http.StatusUnauthorized, unauthorizedMessage(r.Context()))
			return
		}
		if !id.IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromCtx extracts the caller from the request context.
// Returns nil if the request is anonymous.
func IdentityFromCtx(ctx context.Context) *Identity {
	id, _ := ctx.Value(IdentityKey).(*Identity)
	return id
}

// WithIdentity returns a context carrying id. Handlers' tests use it to
// skip token verification.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}
