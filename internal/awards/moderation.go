package awards

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"nordicos/internal/metrics"
	"nordicos/internal/models"
)

// Upload is a file submitted for moderation.
type Upload struct {
	OriginalFilename string
	ContentType      string
	Size             int64
	Body             io.Reader
	Description      *string
}

// UploadMedia stores the file and records a pending upload owned by the actor.
func (s *Service) UploadMedia(ctx context.Context, owner uuid.UUID, up Upload) (*models.MediaUpload, error) {
	if s.files == nil {
		return nil, fmt.Errorf("%w: file storage is not configured", ErrInvalidState)
	}
	mediaType, ok := models.MediaTypeFromContentType(up.ContentType)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalid, up.ContentType)
	}

	// The stored extension follows the accepted content type, never the
	// client's filename, so the file is always served as that type.
	key := uuid.NewString() + models.ExtensionFromContentType(up.ContentType)
	path, err := s.files.Put(ctx, key, up.ContentType, up.Body, up.Size)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	m, err := s.media.Create(ctx, &models.MediaUpload{
		UserID:           owner,
		Filename:         key,
		OriginalFilename: filepath.Base(up.OriginalFilename),
		FilePath:         path,
		StorageKey:       key,
		MediaType:        mediaType,
		FileSize:         up.Size,
		Description:      up.Description,
	})
	if err != nil {
		s.removeFile(ctx, key, uuid.Nil)
		return nil, err
	}

	slog.Info("media uploaded", "media_id", m.ID, "user_id", owner, "type", mediaType, "size", up.Size)
	return m, nil
}

// ReviewMedia records an approve or reject decision. Rejected files are
// removed from storage on a best-effort basis. Re-reviewing an upload that
// was already decided is allowed and overwrites the earlier decision.
func (s *Service) ReviewMedia(ctx context.Context, id uuid.UUID, decision models.MediaStatus, notes *string, reviewer uuid.UUID) (*models.MediaUpload, error) {
	if !decision.IsDecision() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidDecision, decision)
	}

	current, err := s.media.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, notFound("media", id)
	}
	if current.Status != models.MediaPending {
		slog.Warn("re-reviewing decided media",
			"media_id", id, "previous", current.Status, "new", decision, "reviewer", reviewer)
	}

	m, err := s.media.Review(ctx, id, decision, notes, reviewer)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound("media", id)
	}
	metrics.MediaReviews.WithLabelValues(string(decision)).Inc()

	if decision == models.MediaRejected {
		s.removeFile(ctx, m.StorageKey, m.ID)
	}
	return m, nil
}

// ListPendingMedia returns the moderation queue, newest first.
func (s *Service) ListPendingMedia(ctx context.Context) ([]models.MediaUpload, error) {
	pending := models.MediaPending
	return s.media.List(ctx, models.MediaFilter{Status: &pending})
}

// ListMyMedia returns the actor's own uploads, newest first.
func (s *Service) ListMyMedia(ctx context.Context, owner uuid.UUID, status *models.MediaStatus) ([]models.MediaUpload, error) {
	if err := checkStatusFilter(status); err != nil {
		return nil, err
	}
	return s.media.List(ctx, models.MediaFilter{UserID: &owner, Status: status})
}

// ListMedia returns every upload for admins and the actor's own uploads
// for everyone else.
func (s *Service) ListMedia(ctx context.Context, actor Actor, status *models.MediaStatus) ([]models.MediaUpload, error) {
	if err := checkStatusFilter(status); err != nil {
		return nil, err
	}
	f := models.MediaFilter{Status: status}
	if !actor.IsAdmin() {
		f.UserID = &actor.ID
	}
	return s.media.List(ctx, f)
}

func checkStatusFilter(status *models.MediaStatus) error {
	if status != nil && !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, *status)
	}
	return nil
}

// DeleteMedia removes an upload owned by the actor, or any upload for an
// admin. Nominees that copied its URLs keep them.
func (s *Service) DeleteMedia(ctx context.Context, actor Actor, id uuid.UUID) error {
	m, err := s.media.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return notFound("media", id)
	}
	if m.UserID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("%w: media %s belongs to another user", ErrForbidden, id)
	}

	deleted, err := s.media.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return notFound("media", id)
	}
	s.removeFile(ctx, deleted.StorageKey, deleted.ID)
	return nil
}
