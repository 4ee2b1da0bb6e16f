// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nordicos/internal/models"
)

// NomineeStore handles nominee persistence and the nominee read model.
type NomineeStore struct {
	db *sql.DB
}

// NewNomineeStore creates a new NomineeStore.
func NewNomineeStore(db *sql.DB) *NomineeStore {
	return &NomineeStore{db: db}
}

// nomineeSelect joins everything the nominee read model exposes. Vote
// counts come from a grouped subquery so nominees without votes report 0.
const nomineeSelect = `
	SELECT n.id, n.category_id, n.name, n.description, n.image_url, n.video_url,
	       n.media_type, n.is_active, n.display_order, n.linked_media_id,
	       mu.id, mu.filename, mu.file_path, mu.media_type,
	       n.created_by, u.username,
	       c.name, c.description,
	       COALESCE(vc.vote_count, 0),
	       n.created_at, n.updated_at
	FROM nominees n
	JOIN categories c ON c.id = n.category_id
	LEFT JOIN users u ON u.id = n.created_by
	LEFT JOIN media_uploads mu ON mu.id = n.linked_media_id
	LEFT JOIN (
		SELECT nominee_id, COUNT(*) AS vote_count FROM votes GROUP BY nominee_id
	) vc ON vc.nominee_id = n.id`

const nomineeOrder = ` ORDER BY n.display_order ASC, n.created_at ASC`

func scanNominee(scanner interface{ Scan(...any) error }) (*models.Nominee, error) {
	var (
		n           models.Nominee
		mediaID     uuid.NullUUID
		mediaFile   sql.NullString
		mediaPath   sql.NullString
		mediaType   sql.NullString
		creatorID   uuid.NullUUID
		creatorName sql.NullString
	)
	err := scanner.Scan(
		&n.ID, &n.CategoryID, &n.Name, &n.Description, &n.ImageURL, &n.VideoURL,
		&n.MediaType, &n.IsActive, &n.DisplayOrder, &n.LinkedMediaID,
		&mediaID, &mediaFile, &mediaPath, &mediaType,
		&creatorID, &creatorName,
		&n.CategoryName, &n.CategoryDescription,
		&n.VoteCount,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if mediaID.Valid {
		n.LinkedMedia = &models.LinkedMedia{
			ID:        mediaID.UUID,
			Filename:  mediaFile.String,
			FilePath:  mediaPath.String,
			MediaType: models.MediaType(mediaType.String),
		}
	}
	if creatorID.Valid && creatorName.Valid {
		n.CreatedBy = &models.UserSummary{ID: creatorID.UUID, Username: creatorName.String}
	}
	return &n, nil
}

func (s *NomineeStore) query(ctx context.Context, where string, args ...any) ([]models.Nominee, error) {
	rows, err := s.db.QueryContext(ctx, nomineeSelect+where+nomineeOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("list nominees: %w", err)
	}
	defer rows.Close()

	var items []models.Nominee
	for rows.Next() {
		n, err := scanNominee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nominee: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// Create inserts a nominee and returns it in read-model form.
func (s *NomineeStore) Create(ctx context.Context, n *models.Nominee, createdBy *uuid.UUID) (*models.Nominee, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO nominees (category_id, name, description, image_url, video_url,
			media_type, is_active, display_order, linked_media_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		n.CategoryID, n.Name, n.Description, n.ImageURL, n.VideoURL,
		n.MediaType, n.IsActive, n.DisplayOrder, n.LinkedMediaID, createdBy,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create nominee: %w", err)
	}
	return s.FindByID(ctx, id)
}

// FindByID retrieves a nominee with its category, media and vote count.
// Returns nil if not found.
func (s *NomineeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Nominee, error) {
	row := s.db.QueryRowContext(ctx, nomineeSelect+` WHERE n.id = $1`, id)
	n, err := scanNominee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find nominee by id: %w", err)
	}
	return n, nil
}

// List returns nominees matching the filter in display order.
func (s *NomineeStore) List(ctx context.Context, f models.NomineeFilter) ([]models.Nominee, error) {
	var (
		clauses []string
		args    []any
	)
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		clauses = append(clauses, fmt.Sprintf("n.category_id = $%d", len(args)))
	}
	if f.ActiveOnly {
		clauses = append(clauses, "n.is_active")
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return s.query(ctx, where, args...)
}

// CountActiveInCategory returns how many active nominees a category holds.
func (s *NomineeStore) CountActiveInCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM nominees WHERE category_id = $1 AND is_active
	`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active nominees: %w", err)
	}
	return count, nil
}

// Update overwrites every mutable column of the nominee. Returns nil if the
// nominee no longer exists.
func (s *NomineeStore) Update(ctx context.Context, n *models.Nominee) (*models.Nominee, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE nominees
		SET category_id = $2, name = $3, description = $4, image_url = $5,
		    video_url = $6, media_type = $7, is_active = $8, display_order = $9,
		    linked_media_id = $10, updated_at = NOW()
		WHERE id = $1`,
		n.ID, n.CategoryID, n.Name, n.Description, n.ImageURL,
		n.VideoURL, n.MediaType, n.IsActive, n.DisplayOrder, n.LinkedMediaID,
	)
	if err != nil {
		return nil, fmt.Errorf("update nominee: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, n.ID)
}

// Delete removes the nominee and every vote cast for it in one transaction.
// Returns false if the nominee did not exist.
func (s *NomineeStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete nominee: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE nominee_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete nominee votes: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM nominees WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete nominee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete nominee rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete nominee: %w", err)
	}
	return true, nil
}
