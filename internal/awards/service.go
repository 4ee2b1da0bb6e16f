// Package awards implements the voting core: categories, nominees, media
// moderation, the vote ledger and results aggregation. It depends only on
// the repository and collaborator interfaces in ports.go.
package awards

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nordicos/internal/models"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Deps wires the service to its collaborators. Files and Results are optional.
type Deps struct {
	Categories CategoryRepository
	Nominees   NomineeRepository
	Media      MediaRepository
	Votes      VoteRepository
	Files      FileStore
	Results    ResultsCache
	Now        func() time.Time
}

// Service is the awards core. It is safe for concurrent use; all state lives
// behind the repositories.
type Service struct {
	categories CategoryRepository
	nominees   NomineeRepository
	media      MediaRepository
	votes      VoteRepository
	files      FileStore
	results    ResultsCache
	now        func() time.Time
}

// New builds a Service from its dependencies.
func New(d Deps) *Service {
	s := &Service{
		categories: d.Categories,
		nominees:   d.Nominees,
		media:      d.Media,
		votes:      d.Votes,
		files:      d.Files,
		results:    d.Results,
		now:        d.Now,
	}
	if s.results == nil {
		s.results = noopCache{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// removeFile deletes a stored object without failing the caller.
func (s *Service) removeFile(ctx context.Context, key string, mediaID uuid.UUID) {
	if s.files == nil || key == "" {
		return
	}
	if err := s.files.Remove(ctx, key); err != nil {
		slog.Warn("media file cleanup failed", "media_id", mediaID, "key", key, "error", err)
	}
}
