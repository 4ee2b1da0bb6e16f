// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"nordicos/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `c.id, c.name, c.description, c.is_active, c.voting_enabled,
	c.allow_multiple_votes, c.max_nominees, c.display_order, c.year,
	c.created_by, u.username, c.created_at, c.updated_at`

const categoryOrder = ` ORDER BY c.display_order ASC, c.created_at ASC`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var (
		c           models.Category
		creatorID   uuid.NullUUID
		creatorName sql.NullString
	)
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.IsActive, &c.VotingEnabled,
		&c.AllowMultipleVotes, &c.MaxNominees, &c.DisplayOrder, &c.Year,
		&creatorID, &creatorName, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if creatorID.Valid && creatorName.Valid {
		c.CreatedBy = &models.UserSummary{ID: creatorID.UUID, Username: creatorName.String}
	}
	return &c, nil
}

// Create inserts a fully resolved category.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category, createdBy *uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH c AS (
			INSERT INTO categories (name, description, is_active, voting_enabled,
				allow_multiple_votes, max_nominees, display_order, year, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING *
		)
		SELECT `+categoryColumns+` FROM c LEFT JOIN users u ON u.id = c.created_by`,
		c.Name, c.Description, c.IsActive, c.VotingEnabled,
		c.AllowMultipleVotes, c.MaxNominees, c.DisplayOrder, c.Year, createdBy,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// FindByID retrieves a category by its UUID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c LEFT JOIN users u ON u.id = c.created_by
		WHERE c.id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// List returns categories in display order. A non-nil isActive filters by
// the active flag.
func (s *CategoryStore) List(ctx context.Context, isActive *bool) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c LEFT JOIN users u ON u.id = c.created_by
		WHERE ($1::boolean IS NULL OR c.is_active = $1)`+categoryOrder, isActive)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListWithNominees returns categories (optionally only active ones), each
// with its active nominees and their live vote counts.
func (s *CategoryStore) ListWithNominees(ctx context.Context, activeOnly bool) ([]models.CategoryWithNominees, error) {
	var filter *bool
	if activeOnly {
		filter = &activeOnly
	}
	categories, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []models.CategoryWithNominees{}, nil
	}

	nominees := NewNomineeStore(s.db)
	active, err := nominees.query(ctx, ` WHERE n.is_active AND ($1 = FALSE OR c.is_active)`, activeOnly)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uuid.UUID][]models.Nominee, len(categories))
	for _, n := range active {
		byCategory[n.CategoryID] = append(byCategory[n.CategoryID], n)
	}

	out := make([]models.CategoryWithNominees, 0, len(categories))
	for _, c := range categories {
		list := byCategory[c.ID]
		if list == nil {
			list = []models.Nominee{}
		}
		out = append(out, models.CategoryWithNominees{Category: c, Nominees: list})
	}
	return out, nil
}

// GetWithNominees returns one category with its active nominees. Returns
// nil if the category does not exist.
func (s *CategoryStore) GetWithNominees(ctx context.Context, id uuid.UUID) (*models.CategoryWithNominees, error) {
	c, err := s.FindByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	list, err := NewNomineeStore(s.db).query(ctx, ` WHERE n.category_id = $1 AND n.is_active`, id)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Nominee{}
	}
	return &models.CategoryWithNominees{Category: *c, Nominees: list}, nil
}

// Update applies a partial update. Nil patch fields keep their current
// value. Returns nil if the category does not exist.
func (s *CategoryStore) Update(ctx context.Context, id uuid.UUID, p models.CategoryPatch) (*models.Category, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name                 = COALESCE($2, name),
			description          = COALESCE($3, description),
			is_active            = COALESCE($4, is_active),
			voting_enabled       = COALESCE($5, voting_enabled),
			allow_multiple_votes = COALESCE($6, allow_multiple_votes),
			max_nominees         = COALESCE($7, max_nominees),
			display_order        = COALESCE($8, display_order),
			year                 = COALESCE($9, year),
			updated_at           = NOW()
		WHERE id = $1`,
		id, p.Name, p.Description, p.IsActive, p.VotingEnabled,
		p.AllowMultipleVotes, p.MaxNominees, p.DisplayOrder, p.Year,
	)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, id)
}

// Delete removes a category together with its votes and inactive nominees.
// The category row is locked first so nominees cannot be added meanwhile.
// Returns ErrCategoryInUse if an active nominee remains and false if the
// category did not exist.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	var locked uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock category: %w", err)
	}

	var active int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM nominees WHERE category_id = $1 AND is_active
	`, id).Scan(&active); err != nil {
		return false, fmt.Errorf("count active nominees: %w", err)
	}
	if active > 0 {
		return false, ErrCategoryInUse
	}

	for _, stmt := range []string{
		`DELETE FROM votes WHERE category_id = $1`,
		`DELETE FROM nominees WHERE category_id = $1`,
		`DELETE FROM categories WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return false, fmt.Errorf("delete category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete category: %w", err)
	}
	return true, nil
}
