package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrVoteExists is returned when the single-vote index rejects an insert.
	ErrVoteExists = errors.New("vote already recorded for this category")

	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("username or email already registered")

	// ErrCategoryInUse is returned when a category still has active nominees.
	ErrCategoryInUse = errors.New("category has active nominees")
)

const (
	constraintVoteExclusive = "votes_exclusive_user_category"
	constraintUsername      = "users_username_key"
	constraintEmail         = "users_email_key"
)

// uniqueViolation reports whether err is a PostgreSQL unique violation and
// returns the violated constraint name.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}
