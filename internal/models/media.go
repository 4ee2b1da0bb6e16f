// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaType is the kind of file a user uploaded.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// uploadTypes lists the accepted MIME types and the extension each is
// stored under. Types that browsers may render as active content (SVG,
// HTML) are absent.
var uploadTypes = map[string]struct {
	kind MediaType
	ext  string
}{
	"image/jpeg":      {MediaPhoto, ".jpg"},
	"image/png":       {MediaPhoto, ".png"},
	"image/gif":       {MediaPhoto, ".gif"},
	"image/webp":      {MediaPhoto, ".webp"},
	"image/bmp":       {MediaPhoto, ".bmp"},
	"video/mp4":       {MediaVideo, ".mp4"},
	"video/webm":      {MediaVideo, ".webm"},
	"video/quicktime": {MediaVideo, ".mov"},
	"video/avi":       {MediaVideo, ".avi"},
	"video/x-msvideo": {MediaVideo, ".avi"},
	"video/mpeg":      {MediaVideo, ".mpeg"},
}

// MediaTypeFromContentType classifies a MIME type. Only the image and
// video types in uploadTypes are accepted.
func MediaTypeFromContentType(contentType string) (MediaType, bool) {
	t, ok := uploadTypes[contentType]
	return t.kind, ok
}

// ExtensionFromContentType returns the storage extension for an accepted
// MIME type, or "" when the type is not accepted.
func ExtensionFromContentType(contentType string) string {
	return uploadTypes[contentType].ext
}

// DisplayMedia maps an upload type to the nominee display kind.
func (t MediaType) DisplayMedia() DisplayMedia {
	if t == MediaPhoto {
		return DisplayImage
	}
	return DisplayVideo
}

// MediaStatus is the moderation state of an upload.
type MediaStatus string

const (
	MediaPending  MediaStatus = "pending"
	MediaApproved MediaStatus = "approved"
	MediaRejected MediaStatus = "rejected"
)

// IsDecision reports whether s is a valid review outcome.
func (s MediaStatus) IsDecision() bool {
	return s == MediaApproved || s == MediaRejected
}

// Valid reports whether s is one of the known states.
func (s MediaStatus) Valid() bool {
	return s == MediaPending || s.IsDecision()
}

// MediaUpload is a user-submitted artifact awaiting or past moderation.
// FilePath is the public location; StorageKey addresses the object in the
// backing file store.
type MediaUpload struct {
	ID               uuid.UUID    `json:"id"`
	UserID           uuid.UUID    `json:"user_id"`
	Filename         string       `json:"filename"`
	OriginalFilename string       `json:"original_filename"`
	FilePath         string       `json:"file_path"`
	StorageKey       string       `json:"-"`
	MediaType        MediaType    `json:"media_type"`
	FileSize         int64        `json:"file_size"`
	Description      *string      `json:"description,omitempty"`
	Status           MediaStatus  `json:"status"`
	AdminNotes       *string      `json:"admin_notes,omitempty"`
	ReviewedBy       *uuid.UUID   `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time   `json:"reviewed_at,omitempty"`
	Uploader         *UserSummary `json:"uploader,omitempty"`
	Reviewer         *UserSummary `json:"reviewer,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// IsApproved returns true if the upload may be linked to a nominee.
func (m *MediaUpload) IsApproved() bool {
	return m.Status == MediaApproved
}

// MediaFilter narrows an upload listing. A nil UserID lists every uploader.
type MediaFilter struct {
	Status *MediaStatus
	UserID *uuid.UUID
}
