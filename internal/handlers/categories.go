// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"nordicos/internal/awards"
	"nordicos/internal/middleware"
	"nordicos/internal/models"
)

// API groups the awards endpoints. All domain rules live in the service;
// handlers only translate HTTP to service calls and back.
type API struct {
	svc *awards.Service
}

// NewAPI creates the awards handler group.
func NewAPI(svc *awards.Service) *API {
	return &API{svc: svc}
}

// ListCategories returns categories with their active nominees and vote
// counts. With ?nominees=false the bare categories are returned instead.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly := queryBool(r, "active_only", false)

	if !queryBool(r, "nominees", true) {
		var filter *bool
		if activeOnly {
			filter = &activeOnly
		}
		cats, err := a.svc.ListCategories(r.Context(), filter)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, emptyIfNil(cats))
		return
	}

	cats, err := a.svc.ListCategoriesWithNominees(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, emptyIfNil(cats))
}

// GetCategory returns one category with its active nominees.
func (a *API) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := a.svc.GetCategoryWithNominees(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// CreateCategory handles POST /api/categories.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	caller := middleware.IdentityFromCtx(r.Context())
	c, err := a.svc.CreateCategory(r.Context(), in, caller.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

// UpdateCategory handles PUT /api/categories/{id}.
func (a *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var p models.CategoryPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	c, err := a.svc.UpdateCategory(r.Context(), id, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /api/categories/{id}.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.svc.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Category deleted")
}
