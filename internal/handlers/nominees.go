package handlers

import (
	"net/http"

	"nordicos/internal/middleware"
	"nordicos/internal/models"
)

// ListNominees handles GET /api/nominees. The category may be given as
// ?category or ?category_id; inactive nominees are hidden unless
// active_only=false.
func (a *API) ListNominees(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryID(r, "category", "category_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	nominees, err := a.svc.ListNominees(r.Context(), models.NomineeFilter{
		CategoryID: categoryID,
		ActiveOnly: queryBool(r, "active_only", true),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, emptyIfNil(nominees))
}

// GetNominee handles GET /api/nominees/{id}.
func (a *API) GetNominee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	n, err := a.svc.GetNominee(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, n)
}

// CreateNominee handles POST /api/nominees.
func (a *API) CreateNominee(w http.ResponseWriter, r *http.Request) {
	var in models.NomineeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	caller := middleware.IdentityFromCtx(r.Context())
	n, err := a.svc.CreateNominee(r.Context(), in, caller.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, n)
}

// UpdateNominee handles PUT /api/nominees/{id}.
func (a *API) UpdateNominee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var p models.NomineePatch
	if !decodeJSON(w, r, &p) {
		return
	}
	n, err := a.svc.UpdateNominee(r.Context(), id, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, n)
}

// DeleteNominee handles DELETE /api/nominees/{id}. The nominee's votes go
// with it.
func (a *API) DeleteNominee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.svc.DeleteNominee(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Nominee deleted")
}
