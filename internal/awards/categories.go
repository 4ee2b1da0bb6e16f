package awards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nordicos/internal/models"
	"nordicos/internal/store"
)

// CreateCategory stores a new category, filling defaults for omitted fields.
func (s *Service) CreateCategory(ctx context.Context, in models.CategoryInput, createdBy uuid.UUID) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalid)
	}

	c := &models.Category{
		Name:               name,
		Description:        in.Description,
		IsActive:           true,
		VotingEnabled:      true,
		AllowMultipleVotes: false,
		MaxNominees:        models.DefaultMaxNominees,
		DisplayOrder:       0,
		Year:               s.now().Year(),
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.VotingEnabled != nil {
		c.VotingEnabled = *in.VotingEnabled
	}
	if in.AllowMultipleVotes != nil {
		c.AllowMultipleVotes = *in.AllowMultipleVotes
	}
	if in.MaxNominees != nil {
		c.MaxNominees = *in.MaxNominees
	}
	if in.DisplayOrder != nil {
		c.DisplayOrder = *in.DisplayOrder
	}
	if in.Year != nil {
		c.Year = *in.Year
	}
	if c.MaxNominees < 1 {
		return nil, fmt.Errorf("%w: max_nominees must be at least 1", ErrInvalid)
	}

	return s.categories.Create(ctx, c, &createdBy)
}

// GetCategory returns a category or ErrNotFound.
func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category", id)
	}
	return c, nil
}

// ListCategories returns categories in display order, optionally filtered
// by the active flag.
func (s *Service) ListCategories(ctx context.Context, isActive *bool) ([]models.Category, error) {
	return s.categories.List(ctx, isActive)
}

// ListCategoriesWithNominees returns categories with their active nominees
// and live vote counts.
func (s *Service) ListCategoriesWithNominees(ctx context.Context, activeOnly bool) ([]models.CategoryWithNominees, error) {
	return s.categories.ListWithNominees(ctx, activeOnly)
}

// GetCategoryWithNominees returns one category with its active nominees.
func (s *Service) GetCategoryWithNominees(ctx context.Context, id uuid.UUID) (*models.CategoryWithNominees, error) {
	c, err := s.categories.GetWithNominees(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category", id)
	}
	return c, nil
}

// UpdateCategory applies a partial update.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, p models.CategoryPatch) (*models.Category, error) {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: category name cannot be empty", ErrInvalid)
		}
		p.Name = &trimmed
	}
	if p.MaxNominees != nil && *p.MaxNominees < 1 {
		return nil, fmt.Errorf("%w: max_nominees must be at least 1", ErrInvalid)
	}

	c, err := s.categories.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category", id)
	}
	s.results.InvalidateAll(ctx)
	return c, nil
}

// DeleteCategory removes a category that has no active nominees. Votes and
// inactive nominees of the category are removed with it.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return notFound("category", id)
	}

	active, err := s.nominees.CountActiveInCategory(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: category %s still has %d active nominees", ErrConflict, id, active)
	}

	deleted, err := s.categories.Delete(ctx, id)
	if errors.Is(err, store.ErrCategoryInUse) {
		return fmt.Errorf("%w: category %s still has active nominees", ErrConflict, id)
	}
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("category", id)
	}
	s.results.InvalidateAll(ctx)
	return nil
}
