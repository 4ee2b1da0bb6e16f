// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"nordicos/internal/awards"
	"nordicos/internal/middleware"
	"nordicos/internal/models"
)

const (
	// maxUploadSize is the maximum allowed file upload size (50 MB).
	maxUploadSize = 50 << 20
)

type reviewRequest struct {
	MediaID    uuid.UUID `json:"media_id" validate:"required"`
	Status     string    `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes *string   `json:"admin_notes" validate:"omitempty,max=2000"`
}

// UploadMedia handles POST /api/media/upload. The file goes in the "file"
// form field; an optional "description" travels alongside it.
func (a *API) UploadMedia(w http.ResponseWriter, r *http.Request) {
	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 50 MB.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 50 MB.")
		return
	}

	contentType, err := sniffContentType(file, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	var description *string
	if d := strings.TrimSpace(r.FormValue("description")); d != "" {
		description = &d
	}

	caller := middleware.IdentityFromCtx(r.Context())
	m, err := a.svc.UploadMedia(r.Context(), caller.UserID, awards.Upload{
		OriginalFilename: header.Filename,
		ContentType:      contentType,
		Size:             header.Size,
		Body:             file,
		Description:      description,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Data:    m,
		Message: "Media uploaded successfully and is pending review",
	})
}

// sniffContentType detects the type from the first 512 bytes and rewinds
// the file. The declared part type is used only when sniffing gives up,
// which happens for containers such as QuickTime.
func sniffContentType(file io.ReadSeeker, declared string) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType, _, _ := mime.ParseMediaType(http.DetectContentType(buf[:n]))
	if contentType == "application/octet-stream" && declared != "" {
		if parsed, _, err := mime.ParseMediaType(declared); err == nil {
			return parsed, nil
		}
	}
	return contentType, nil
}

// ReviewMedia handles POST /api/media/review.
func (a *API) ReviewMedia(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	caller := middleware.IdentityFromCtx(r.Context())
	m, err := a.svc.ReviewMedia(r.Context(), req.MediaID, models.MediaStatus(req.Status), req.AdminNotes, caller.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: m, Message: "Media " + req.Status})
}

// PendingMedia handles GET /api/media/pending.
func (a *API) PendingMedia(w http.ResponseWriter, r *http.Request) {
	items, err := a.svc.ListPendingMedia(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, emptyIfNil(items))
}

// MyMedia handles GET /api/media/my.
func (a *API) MyMedia(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(w, r)
	if !ok {
		return
	}
	caller := middleware.IdentityFromCtx(r.Context())
	items, err := a.svc.ListMyMedia(r.Context(), caller.UserID, status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, emptyIfNil(items))
}

// ListMedia handles GET /api/media. Admins see every upload, other users
// only their own.
func (a *API) ListMedia(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(w, r)
	if !ok {
		return
	}
	items, err := a.svc.ListMedia(r.Context(), actor(r), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, emptyIfNil(items))
}

// DeleteMedia handles DELETE /api/media/{id}.
func (a *API) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.svc.DeleteMedia(r.Context(), actor(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Media deleted")
}

func statusFilter(w http.ResponseWriter, r *http.Request) (*models.MediaStatus, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, true
	}
	status := models.MediaStatus(raw)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "status must be one of: pending, approved, rejected")
		return nil, false
	}
	return &status, true
}
