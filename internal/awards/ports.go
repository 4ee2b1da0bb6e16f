// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package awards

import (
	"context"
	"io"

	"github.com/google/uuid"

	"nordicos/internal/models"
)

// CategoryRepository persists categories. Lookups return (nil, nil) when
// the row does not exist.
type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category, createdBy *uuid.UUID) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, isActive *bool) ([]models.Category, error)
	ListWithNominees(ctx context.Context, activeOnly bool) ([]models.CategoryWithNominees, error)
	GetWithNominees(ctx context.Context, id uuid.UUID) (*models.CategoryWithNominees, error)
	Update(ctx context.Context, id uuid.UUID, p models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// NomineeRepository persists nominees.
type NomineeRepository interface {
	Create(ctx context.Context, n *models.Nominee, createdBy *uuid.UUID) (*models.Nominee, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Nominee, error)
	List(ctx context.Context, f models.NomineeFilter) ([]models.Nominee, error)
	CountActiveInCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	Update(ctx context.Context, n *models.Nominee) (*models.Nominee, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// MediaRepository persists media uploads and their moderation state.
type MediaRepository interface {
	Create(ctx context.Context, m *models.MediaUpload) (*models.MediaUpload, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MediaUpload, error)
	List(ctx context.Context, f models.MediaFilter) ([]models.MediaUpload, error)
	Review(ctx context.Context, id uuid.UUID, status models.MediaStatus, notes *string, reviewer uuid.UUID) (*models.MediaUpload, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.MediaUpload, error)
}

// VoteRepository is the vote ledger. Create must return store.ErrVoteExists
// when the storage-level single-vote guarantee rejects the insert.
type VoteRepository interface {
	Create(ctx context.Context, v *models.Vote) (*models.Vote, error)
	HasVote(ctx context.Context, userID, categoryID uuid.UUID) (bool, error)
	DeleteByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error)
	DeleteByID(ctx context.Context, userID, voteID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.VoteWithContext, error)
	Tallies(ctx context.Context, categoryID *uuid.UUID) ([]models.VoteTally, error)
}

// FileStore holds uploaded files. Put returns the public path of the stored
// object.
type FileStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Remove(ctx context.Context, key string) error
}

// ResultsCache memoizes computed results. Entries are grouped by a
// generation that InvalidateAll advances, so a result computed before an
// invalidation can only be stored under a generation nobody reads any more.
// Implementations swallow their own failures; a miss simply triggers
// recomputation, and ok=false from Generation disables caching for the call.
type ResultsCache interface {
	Generation(ctx context.Context) (gen int64, ok bool)
	Get(ctx context.Context, gen int64, key string) ([]models.CategoryResult, bool)
	Set(ctx context.Context, gen int64, key string, results []models.CategoryResult)
	InvalidateAll(ctx context.Context)
}

type noopCache struct{}

func (noopCache) Generation(context.Context) (int64, bool) { return 0, false }
func (noopCache) Get(context.Context, int64, string) ([]models.CategoryResult, bool) {
	return nil, false
}
func (noopCache) Set(context.Context, int64, string, []models.CategoryResult) {}
func (noopCache) InvalidateAll(context.Context) {}
