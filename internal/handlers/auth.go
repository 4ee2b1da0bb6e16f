package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"nordicos/internal/middleware"
	"nordicos/internal/models"
	"nordicos/internal/store"
)

// UserStore is the account persistence the auth handlers need.
type UserStore interface {
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, username, email, password string, role models.Role) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID, role models.Role) (string, time.Time, error)
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	users  UserStore
	tokens TokenIssuer
}

// NewAuth creates a new Auth handler group.
func NewAuth(users UserStore, tokens TokenIssuer) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register creates a regular user account and returns a token for it.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := a.users.Create(r.Context(), req.Username, req.Email, req.Password, models.RoleUser)
	if errors.Is(err, store.ErrUserExists) {
		writeError(w, http.StatusConflict, "Username or email already registered")
		return
	}
	if err != nil {
		slog.Error("register failed", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	a.respondWithToken(w, http.StatusCreated, user)
}

// Login exchanges a username or email plus password for a token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByLogin(r.Context(), strings.TrimSpace(req.Login))
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Same message for unknown users and wrong passwords.
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "Account is disabled")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	a.respondWithToken(w, http.StatusOK, user)
}

// Me returns the account behind the bearer token.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	user, err := a.users.FindByID(r.Context(), id.UserID)
	if err != nil {
		slog.Error("load current user failed", "user_id", id.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeData(w, http.StatusOK, user)
}

func (a *Auth) respondWithToken(w http.ResponseWriter, status int, user *models.User) {
	token, expires, err := a.tokens.Issue(user.ID, user.Role)
	if err != nil {
		slog.Error("issue token failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeData(w, status, tokenResponse{Token: token, ExpiresAt: expires, User: user})
}
