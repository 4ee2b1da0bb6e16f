package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"nordicos/internal/auth"
	"nordicos/internal/models"
)

// stubTokens accepts only the token "good" and resolves it to id.
type stubTokens struct {
	id uuid.UUID
}

func (s stubTokens) Parse(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: s.id, Role: models.RoleAdmin}, nil
}

type stubUsers struct {
	user *models.User
	err  error
}

func (s stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.ID != id {
		return nil, nil
	}
	return s.user, nil
}

func activeUser(role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Username: "voter", Role: role, IsActive: true}
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func TestIdentityFromCtx(t *testing.T) {
	t.Run("returns identity when present", func(t *testing.T) {
		id := &Identity{UserID: uuid.New(), Role: models.RoleAdmin}
		got := IdentityFromCtx(WithIdentity(context.Background(), id))
		if got != id {
			t.Fatalf("got %+v, want %+v", got, id)
		}
		if !got.IsAdmin() {
			t.Error("IsAdmin should be true")
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := IdentityFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), IdentityKey, "not-an-identity")
		if got := IdentityFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	user := activeUser(models.RoleUser)
	inactive := activeUser(models.RoleUser)
	inactive.IsActive = false

	tests := []struct {
		name       string
		header     string
		tokens     stubTokens
		users      stubUsers
		wantStatus int
		wantIdent  bool
	}{
		{"no header is anonymous", "", stubTokens{id: user.ID}, stubUsers{user: user}, http.StatusOK, false},
		{"valid token", "Bearer good", stubTokens{id: user.ID}, stubUsers{user: user}, http.StatusOK, true},
		{"scheme is case-insensitive", "bearer good", stubTokens{id: user.ID}, stubUsers{user: user}, http.StatusOK, true},
		{"bad token is anonymous", "Bearer forged", stubTokens{id: user.ID}, stubUsers{user: user}, http.StatusOK, false},
		{"wrong scheme is anonymous", "Basic Zm9vOmJhcg==", stubTokens{id: user.ID}, stubUsers{user: user}, http.StatusOK, false},
		{"deleted user is anonymous", "Bearer good", stubTokens{id: uuid.New()}, stubUsers{user: user}, http.StatusOK, false},
		{"inactive user is anonymous", "Bearer good", stubTokens{id: inactive.ID}, stubUsers{user: inactive}, http.StatusOK, false},
		{"lookup failure", "Bearer good", stubTokens{id: user.ID}, stubUsers{err: errors.New("db down")}, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *Identity
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = IdentityFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/votes/my", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			Authenticate(tt.tokens, tt.users)(inner).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if (got != nil) != tt.wantIdent {
				t.Fatalf("identity present = %v, want %v", got != nil, tt.wantIdent)
			}
			if got != nil && (got.UserID != user.ID || got.Role != models.RoleUser) {
				t.Errorf("identity = %+v; role must come from the user row", got)
			}
			if rr.Code != http.StatusOK && !strings.Contains(rr.Body.String(), `"success":false`) {
				t.Errorf("error body = %s", rr.Body.String())
			}
		})
	}
}

func TestRejectedCredentialsOnProtectedRoutes(t *testing.T) {
	user := activeUser(models.RoleUser)
	inactive := activeUser(models.RoleUser)
	inactive.IsActive = false

	tests := []struct {
		name    string
		header  string
		tokens  stubTokens
		users   stubUsers
		wantMsg string
	}{
		{"bad token", "Bearer forged", stubTokens{id: user.ID}, stubUsers{user: user}, "Invalid or expired token"},
		{"inactive user", "Bearer good", stubTokens{id: inactive.ID}, stubUsers{user: inactive}, "Invalid or inactive user"},
		{"no header", "", stubTokens{id: user.ID}, stubUsers{user: user}, "Access token required"},
	}
	guards := map[string]func(http.Handler) http.Handler{
		"RequireAuth":  RequireAuth,
		"RequireAdmin": RequireAdmin,
	}
	for _, tt := range tests {
		for guardName, guard := range guards {
			t.Run(tt.name+"/"+guardName, func(t *testing.T) {
				inner, called := okHandler()
				req := httptest.NewRequest(http.MethodGet, "/api/votes/my", nil)
				if tt.header != "" {
					req.Header.Set("Authorization", tt.header)
				}
				rr := httptest.NewRecorder()
				Authenticate(tt.tokens, tt.users)(guard(inner)).ServeHTTP(rr, req)

				if *called {
					t.Error("protected handler ran")
				}
				if rr.Code != http.StatusUnauthorized {
					t.Fatalf("status: got %d, want 401", rr.Code)
				}
				if !strings.Contains(rr.Body.String(), tt.wantMsg) {
					t.Errorf("body = %s, want %q", rr.Body.String(), tt.wantMsg)
				}
			})
		}
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous gets 401", func(t *testing.T) {
		inner, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/votes", nil))

		if *called {
			t.Error("next handler should not be called")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})

	t.Run("authenticated passes", func(t *testing.T) {
		inner, called := okHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/votes", nil)
		req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: uuid.New(), Role: models.RoleUser}))
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, req)

		if !*called || rr.Code != http.StatusOK {
			t.Errorf("called=%v status=%d", *called, rr.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		identity   *Identity
		wantStatus int
		wantCalled bool
	}{
		{"anonymous", nil, http.StatusUnauthorized, false},
		{"user", &Identity{UserID: uuid.New(), Role: models.RoleUser}, http.StatusForbidden, false},
		{"admin", &Identity{UserID: uuid.New(), Role: models.RoleAdmin}, http.StatusOK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			req := httptest.NewRequest(http.MethodPost, "/api/media/review", nil)
			if tt.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), tt.identity))
			}
			rr := httptest.NewRecorder()
			RequireAdmin(inner).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if *called != tt.wantCalled {
				t.Errorf("called: got %v, want %v", *called, tt.wantCalled)
			}
		})
	}
}
