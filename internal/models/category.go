package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxNominees is applied when a category is created without a cap.
const DefaultMaxNominees = 10

// Category groups nominees and owns the voting rules for them.
type Category struct {
	ID                 uuid.UUID    `json:"id"`
	Name               string       `json:"name"`
	Description        *string      `json:"description,omitempty"`
	IsActive           bool         `json:"is_active"`
	VotingEnabled      bool         `json:"voting_enabled"`
	AllowMultipleVotes bool         `json:"allow_multiple_votes"`
	MaxNominees        int          `json:"max_nominees"`
	DisplayOrder       int          `json:"display_order"`
	Year               int          `json:"year"`
	CreatedBy          *UserSummary `json:"created_by,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// AcceptsVotes reports whether votes may currently be cast in the category.
func (c *Category) AcceptsVotes() bool {
	return c.IsActive && c.VotingEnabled
}

// CategoryWithNominees is a category with its active nominees and their
// live vote counts.
type CategoryWithNominees struct {
	Category
	Nominees []Nominee `json:"nominees"`
}

// CategoryInput carries the fields for creating a category. Nil pointers
// take the documented defaults.
type CategoryInput struct {
	Name               string  `json:"name" validate:"required,min=1,max=200"`
	Description        *string `json:"description" validate:"omitempty,max=2000"`
	IsActive           *bool   `json:"is_active"`
	VotingEnabled      *bool   `json:"voting_enabled"`
	AllowMultipleVotes *bool   `json:"allow_multiple_votes"`
	MaxNominees        *int    `json:"max_nominees" validate:"omitempty,min=1,max=1000"`
	DisplayOrder       *int    `json:"display_order" validate:"omitempty,min=0"`
	Year               *int    `json:"year" validate:"omitempty,min=1900,max=3000"`
}

// CategoryPatch carries a partial category update. Nil fields are left unchanged.
type CategoryPatch struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description        *string `json:"description" validate:"omitempty,max=2000"`
	IsActive           *bool   `json:"is_active"`
	VotingEnabled      *bool   `json:"voting_enabled"`
	AllowMultipleVotes *bool   `json:"allow_multiple_votes"`
	MaxNominees        *int    `json:"max_nominees" validate:"omitempty,min=1,max=1000"`
	DisplayOrder       *int    `json:"display_order" validate:"omitempty,min=0"`
	Year               *int    `json:"year" validate:"omitempty,min=1900,max=3000"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.IsActive == nil &&
		p.VotingEnabled == nil && p.AllowMultipleVotes == nil &&
		p.MaxNominees == nil && p.DisplayOrder == nil && p.Year == nil
}
