// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DisplayMedia is the kind of artifact a nominee shows.
type DisplayMedia string

const (
	DisplayImage DisplayMedia = "image"
	DisplayVideo DisplayMedia = "video"
	DisplayNone  DisplayMedia = "none"
)

// InferDisplayMedia picks the display kind from direct URLs: an image wins
// over a video, and neither yields none.
func InferDisplayMedia(imageURL, videoURL *string) DisplayMedia {
	switch {
	case imageURL != nil && *imageURL != "":
		return DisplayImage
	case videoURL != nil && *videoURL != "":
		return DisplayVideo
	default:
		return DisplayNone
	}
}

// Nominee is a candidate within a category.
type Nominee struct {
	ID            uuid.UUID    `json:"id"`
	CategoryID    uuid.UUID    `json:"category_id"`
	Name          string       `json:"name"`
	Description   *string      `json:"description,omitempty"`
	ImageURL      *string      `json:"image_url,omitempty"`
	VideoURL      *string      `json:"video_url,omitempty"`
	MediaType     DisplayMedia `json:"media_type"`
	IsActive      bool         `json:"is_active"`
	DisplayOrder  int          `json:"display_order"`
	LinkedMediaID *uuid.UUID   `json:"linked_media_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	// Read-model fields populated by joins.
	LinkedMedia         *LinkedMedia `json:"linked_media,omitempty"`
	CreatedBy           *UserSummary `json:"created_by,omitempty"`
	VoteCount           int          `json:"vote_count"`
	CategoryName        string       `json:"category_name,omitempty"`
	CategoryDescription *string      `json:"category_description,omitempty"`
}

// LinkedMedia summarizes the upload a nominee displays. It is absent when
// the referenced upload no longer exists.
type LinkedMedia struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	FilePath  string    `json:"file_path"`
	MediaType MediaType `json:"media_type"`
}

// NomineeFilter narrows a nominee listing.
type NomineeFilter struct {
	CategoryID *uuid.UUID
	ActiveOnly bool
}

// NomineeInput carries the fields for creating a nominee. When
// ApprovedMediaID is set the direct URLs are ignored and the display
// fields are derived from the approved upload.
type NomineeInput struct {
	CategoryID      uuid.UUID  `json:"category_id" validate:"required"`
	Name            string     `json:"name" validate:"required,min=1,max=200"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	ImageURL        *string    `json:"image_url" validate:"omitempty,max=2048"`
	VideoURL        *string    `json:"video_url" validate:"omitempty,max=2048"`
	ApprovedMediaID *uuid.UUID `json:"approved_media_id"`
	IsActive        *bool      `json:"is_active"`
	DisplayOrder    *int       `json:"display_order" validate:"omitempty,min=0"`
}

// NomineePatch carries a partial nominee update. Direct URLs are only
// applied when Media explicitly clears the link.
type NomineePatch struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	Name         *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=2000"`
	ImageURL     *string    `json:"image_url" validate:"omitempty,max=2048"`
	VideoURL     *string    `json:"video_url" validate:"omitempty,max=2048"`
	IsActive     *bool      `json:"is_active"`
	DisplayOrder *int       `json:"display_order" validate:"omitempty,min=0"`
	Media        OptionalID `json:"approved_media_id"`
}

// OptionalID distinguishes an absent JSON field from an explicit null.
// Set is true whenever the field appeared in the payload; ID is nil for null.
type OptionalID struct {
	Set bool
	ID  *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the
// key is present, which is what makes Set meaningful.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.ID = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		o.ID = nil
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	o.ID = &id
	return nil
}

// Clears reports whether the payload explicitly removed the link.
func (o OptionalID) Clears() bool {
	return o.Set && o.ID == nil
}
