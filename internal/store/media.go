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

// MediaStore handles all media-upload database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries. Uploader and
// reviewer names are joined in.
const mediaColumns = `m.id, m.user_id, m.filename, m.original_filename, m.file_path,
	m.storage_key, m.media_type, m.file_size, m.description, m.status,
	m.admin_notes, m.reviewed_by, m.reviewed_at, up.username, rv.username,
	m.created_at, m.updated_at`

const mediaJoins = ` LEFT JOIN users up ON up.id = m.user_id
	LEFT JOIN users rv ON rv.id = m.reviewed_by`

// scanMedia scans a media row from the result set.
func scanMedia(scanner interface{ Scan(...any) error }) (*models.MediaUpload, error) {
	var (
		m            models.MediaUpload
		uploaderName sql.NullString
		reviewerName sql.NullString
	)
	err := scanner.Scan(
		&m.ID, &m.UserID, &m.Filename, &m.OriginalFilename, &m.FilePath,
		&m.StorageKey, &m.MediaType, &m.FileSize, &m.Description, &m.Status,
		&m.AdminNotes, &m.ReviewedBy, &m.ReviewedAt, &uploaderName, &reviewerName,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if uploaderName.Valid {
		m.Uploader = &models.UserSummary{ID: m.UserID, Username: uploaderName.String}
	}
	if m.ReviewedBy != nil && reviewerName.Valid {
		m.Reviewer = &models.UserSummary{ID: *m.ReviewedBy, Username: reviewerName.String}
	}
	return &m, nil
}

// Create inserts a new pending upload and returns it with the generated ID.
func (s *MediaStore) Create(ctx context.Context, m *models.MediaUpload) (*models.MediaUpload, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH m AS (
			INSERT INTO media_uploads (user_id, filename, original_filename, file_path,
				storage_key, media_type, file_size, description, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
			RETURNING *
		)
		SELECT `+mediaColumns+` FROM m`+mediaJoins,
		m.UserID, m.Filename, m.OriginalFilename, m.FilePath,
		m.StorageKey, m.MediaType, m.FileSize, m.Description,
	)
	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single upload by its UUID. Returns nil if not found.
func (s *MediaStore) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaUpload, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media_uploads m`+mediaJoins+` WHERE m.id = $1`, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// List returns uploads matching the filter, newest first.
func (s *MediaStore) List(ctx context.Context, f models.MediaFilter) ([]models.MediaUpload, error) {
	var (
		clauses []string
		args    []any
	)
	if f.Status != nil {
		args = append(args, *f.Status)
		clauses = append(clauses, fmt.Sprintf("m.status = $%d", len(args)))
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		clauses = append(clauses, fmt.Sprintf("m.user_id = $%d", len(args)))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+mediaColumns+` FROM media_uploads m`+mediaJoins+where+`
		ORDER BY m.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.MediaUpload
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Review records a moderation decision. Status, reviewer, review time and
// notes change together in a single statement. Returns nil if not found.
func (s *MediaStore) Review(ctx context.Context, id uuid.UUID, status models.MediaStatus, notes *string, reviewer uuid.UUID) (*models.MediaUpload, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH m AS (
			UPDATE media_uploads
			SET status = $2, admin_notes = $3, reviewed_by = $4,
			    reviewed_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+mediaColumns+` FROM m`+mediaJoins,
		id, status, notes, reviewer,
	)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("review media: %w", err)
	}
	return m, nil
}

// Delete removes an upload record and returns it so the caller can clean
// up the stored file. Returns nil if not found.
func (s *MediaStore) Delete(ctx context.Context, id uuid.UUID) (*models.MediaUpload, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH m AS (
			DELETE FROM media_uploads WHERE id = $1 RETURNING *
		)
		SELECT `+mediaColumns+` FROM m`+mediaJoins, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return m, nil
}
