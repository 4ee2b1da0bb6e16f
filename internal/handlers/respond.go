// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API. Every response uses the
// envelope {"success": bool, "data": ..., "message": ...}.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nordicos/internal/awards"
	"nordicos/internal/middleware"
)

// maxJSONBody caps decoded request bodies.
const maxJSONBody = 1 << 20

// envelope wraps every response. Data is not omitempty so that an empty
// list still serializes as "data": [].
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageEnvelope{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageEnvelope{Success: false, Message: message})
}

// writeServiceError maps an awards failure kind to its HTTP status. Unknown
// errors are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, awards.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, awards.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, awards.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, awards.ErrInvalid),
		errors.Is(err, awards.ErrInvalidState),
		errors.Is(err, awards.ErrCapacityExceeded),
		errors.Is(err, awards.ErrVotingClosed),
		errors.Is(err, awards.ErrNomineeInactive),
		errors.Is(err, awards.ErrCategoryMismatch),
		errors.Is(err, awards.ErrInvalidDecision):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
// It writes the 400 itself and reports false when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "Request body is required")
		default:
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
		}
		return false
	}
	if msg := validateStruct(dst); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// pathID parses a UUID route parameter, writing a 400 when malformed.
func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional UUID query parameter. The first non-empty key
// wins, so aliases can be accepted.
func queryID(r *http.Request, keys ...string) (*uuid.UUID, error) {
	for _, key := range keys {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s", key)
		}
		return &id, nil
	}
	return nil, nil
}

// queryBool reads a boolean query parameter, falling back when it is
// absent or unparseable.
func queryBool(r *http.Request, key string, fallback bool) bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

// actor converts the request identity into the service's caller type.
// Routes that call it sit behind RequireAuth.
func actor(r *http.Request) awards.Actor {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		return awards.Actor{}
	}
	return awards.Actor{ID: id.UserID, Role: id.Role}
}

// emptyIfNil keeps list responses as [] rather than null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
