// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package awards

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nordicos/internal/models"
)

// approvedMedia loads an upload that may be linked to a nominee.
func (s *Service) approvedMedia(ctx context.Context, id uuid.UUID) (*models.MediaUpload, error) {
	m, err := s.media.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound("media", id)
	}
	if !m.IsApproved() {
		return nil, fmt.Errorf("%w: media %s is %s, not approved", ErrInvalidState, id, m.Status)
	}
	return m, nil
}

// linkMedia points the nominee's display fields at an approved upload.
func linkMedia(n *models.Nominee, m *models.MediaUpload) {
	path := m.FilePath
	n.LinkedMediaID = &m.ID
	n.MediaType = m.MediaType.DisplayMedia()
	if m.MediaType == models.MediaPhoto {
		n.ImageURL, n.VideoURL = &path, nil
	} else {
		n.ImageURL, n.VideoURL = nil, &path
	}
}

// setDirectMedia uses caller-supplied URLs and drops any link.
func setDirectMedia(n *models.Nominee, imageURL, videoURL *string) {
	n.LinkedMediaID = nil
	n.ImageURL = nonEmpty(imageURL)
	n.VideoURL = nonEmpty(videoURL)
	n.MediaType = models.InferDisplayMedia(n.ImageURL, n.VideoURL)
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// CreateNominee adds a nominee to a category. The capacity check races with
// concurrent creations; the cap may be exceeded by the number of racing
// requests.
func (s *Service) CreateNominee(ctx context.Context, in models.NomineeInput, createdBy uuid.UUID) (*models.Nominee, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nominee name is required", ErrInvalid)
	}
	if in.CategoryID == uuid.Nil {
		return nil, fmt.Errorf("%w: category is required", ErrInvalid)
	}

	c, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category", in.CategoryID)
	}

	active, err := s.nominees.CountActiveInCategory(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if active >= c.MaxNominees {
		return nil, fmt.Errorf("%w: %d of %d", ErrCapacityExceeded, active, c.MaxNominees)
	}

	n := &models.Nominee{
		CategoryID:  c.ID,
		Name:        name,
		Description: in.Description,
		IsActive:    true,
	}
	if in.IsActive != nil {
		n.IsActive = *in.IsActive
	}
	if in.DisplayOrder != nil {
		n.DisplayOrder = *in.DisplayOrder
	}

	if in.ApprovedMediaID != nil {
		m, err := s.approvedMedia(ctx, *in.ApprovedMediaID)
		if err != nil {
			return nil, err
		}
		linkMedia(n, m)
	} else {
		setDirectMedia(n, in.ImageURL, in.VideoURL)
	}

	return s.nominees.Create(ctx, n, &createdBy)
}

// GetNominee returns a nominee with its category and vote count.
func (s *Service) GetNominee(ctx context.Context, id uuid.UUID) (*models.Nominee, error) {
	n, err := s.nominees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, notFound("nominee", id)
	}
	return n, nil
}

// ListNominees returns nominees matching the filter.
func (s *Service) ListNominees(ctx context.Context, f models.NomineeFilter) ([]models.Nominee, error) {
	return s.nominees.List(ctx, f)
}

// UpdateNominee applies a partial update. The media link follows the
// tri-state in p.Media: absent keeps it, an id relinks to that approved
// upload, and null clears it in favor of the direct URLs in the patch.
// The previously linked upload is left untouched.
func (s *Service) UpdateNominee(ctx context.Context, id uuid.UUID, p models.NomineePatch) (*models.Nominee, error) {
	n, err := s.nominees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, notFound("nominee", id)
	}

	if p.CategoryID != nil && *p.CategoryID != n.CategoryID {
		c, err := s.categories.FindByID(ctx, *p.CategoryID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, notFound("category", *p.CategoryID)
		}
		n.CategoryID = c.ID
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nominee name cannot be empty", ErrInvalid)
		}
		n.Name = name
	}
	if p.Description != nil {
		n.Description = p.Description
	}
	if p.IsActive != nil {
		n.IsActive = *p.IsActive
	}
	if p.DisplayOrder != nil {
		n.DisplayOrder = *p.DisplayOrder
	}

	switch {
	case p.Media.Set && p.Media.ID != nil:
		m, err := s.approvedMedia(ctx, *p.Media.ID)
		if err != nil {
			return nil, err
		}
		linkMedia(n, m)
	case p.Media.Clears():
		setDirectMedia(n, p.ImageURL, p.VideoURL)
	}

	updated, err := s.nominees.Update(ctx, n)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, notFound("nominee", id)
	}
	s.results.InvalidateAll(ctx)
	return updated, nil
}

// DeleteNominee removes a nominee and all votes cast for it.
func (s *Service) DeleteNominee(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.nominees.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("nominee", id)
	}
	s.results.InvalidateAll(ctx)
	return nil
}
