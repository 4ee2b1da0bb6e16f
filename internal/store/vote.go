package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"nordicos/internal/models"
)

// VoteStore is the vote ledger. Uniqueness of a user's vote in a
// single-vote category is enforced by the votes_exclusive_user_category
// partial index, not by application checks.
type VoteStore struct {
	db *sql.DB
}

// NewVoteStore creates a new VoteStore.
func NewVoteStore(db *sql.DB) *VoteStore {
	return &VoteStore{db: db}
}

const voteColumns = `id, user_id, category_id, nominee_id, ip_address, user_agent, created_at`

// Create records a vote. The exclusive flag is read from the category in
// the same statement, so a concurrent toggle of allow_multiple_votes cannot
// slip between check and insert. Returns ErrVoteExists when the user
// already holds a vote in a single-vote category.
func (s *VoteStore) Create(ctx context.Context, v *models.Vote) (*models.Vote, error) {
	out := &models.Vote{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO votes (user_id, category_id, nominee_id, exclusive, ip_address, user_agent)
		SELECT $1, c.id, $3, NOT c.allow_multiple_votes, $4, $5
		FROM categories c WHERE c.id = $2
		RETURNING `+voteColumns,
		v.UserID, v.CategoryID, v.NomineeID, v.IPAddress, v.UserAgent,
	).Scan(&out.ID, &out.UserID, &out.CategoryID, &out.NomineeID, &out.IPAddress, &out.UserAgent, &out.CreatedAt)
	if err != nil {
		if name, ok := uniqueViolation(err); ok && name == constraintVoteExclusive {
			return nil, ErrVoteExists
		}
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("create vote: category %s vanished", v.CategoryID)
		}
		return nil, fmt.Errorf("create vote: %w", err)
	}
	return out, nil
}

// HasVote reports whether the user holds any vote in the category.
func (s *VoteStore) HasVote(ctx context.Context, userID, categoryID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM votes WHERE user_id = $1 AND category_id = $2)
	`, userID, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existing vote: %w", err)
	}
	return exists, nil
}

// DeleteByCategory removes every vote the user cast in the category and
// returns how many were removed.
func (s *VoteStore) DeleteByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM votes WHERE user_id = $1 AND category_id = $2
	`, userID, categoryID)
	if err != nil {
		return 0, fmt.Errorf("delete votes by category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete votes by category rows: %w", err)
	}
	return n, nil
}

// DeleteByID removes a vote only if it belongs to the user. Returns false
// when nothing matched, whether the vote is missing or owned by someone else.
func (s *VoteStore) DeleteByID(ctx context.Context, userID, voteID uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM votes WHERE id = $1 AND user_id = $2`, voteID, userID)
	if err != nil {
		return false, fmt.Errorf("delete vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete vote rows: %w", err)
	}
	return n > 0, nil
}

// ListForUser returns the user's votes, newest first, with the category and
// nominee names.
func (s *VoteStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.VoteWithContext, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.user_id, v.category_id, v.nominee_id, v.ip_address, v.user_agent, v.created_at,
		       c.name, n.name, n.description
		FROM votes v
		JOIN categories c ON c.id = v.category_id
		JOIN nominees n ON n.id = v.nominee_id
		WHERE v.user_id = $1
		ORDER BY v.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list votes for user: %w", err)
	}
	defer rows.Close()

	var items []models.VoteWithContext
	for rows.Next() {
		var v models.VoteWithContext
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.CategoryID, &v.NomineeID, &v.IPAddress, &v.UserAgent, &v.CreatedAt,
			&v.CategoryName, &v.NomineeName, &v.NomineeDescription,
		); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// Tallies groups votes by (category, nominee). Only nominees with at least
// one vote appear. A non-nil categoryID restricts the result to one category.
func (s *VoteStore) Tallies(ctx context.Context, categoryID *uuid.UUID) ([]models.VoteTally, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, n.id, n.name, n.description, COUNT(v.id)
		FROM votes v
		JOIN categories c ON c.id = v.category_id
		JOIN nominees n ON n.id = v.nominee_id
		WHERE ($1::uuid IS NULL OR v.category_id = $1)
		GROUP BY c.id, n.id
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("tally votes: %w", err)
	}
	defer rows.Close()

	var items []models.VoteTally
	for rows.Next() {
		var t models.VoteTally
		if err := rows.Scan(
			&t.CategoryID, &t.CategoryName, &t.CategoryDescription,
			&t.NomineeID, &t.NomineeName, &t.NomineeDescription, &t.Count,
		); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
