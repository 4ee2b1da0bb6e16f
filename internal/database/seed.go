package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// AdminSeed describes the bootstrap administrator account.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// EnsureAdmin creates the bootstrap administrator when no account with the
// same username or email exists. It is safe to call on every boot.
func EnsureAdmin(db *sql.DB, seed AdminSeed) error {
	var exists bool
	err := db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		seed.Username, seed.Email,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("seed check admin: %w", err)
	}

	if exists {
		slog.Debug("admin user already present, skipping", "username", seed.Username)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, 'admin', TRUE)
		ON CONFLICT DO NOTHING
	`, seed.Username, seed.Email, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("admin user created", "username", seed.Username, "email", seed.Email)
	return nil
}
