package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"nordicos/internal/middleware"
	"nordicos/internal/models"
)

type castVoteRequest struct {
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
	NomineeID  uuid.UUID `json:"nominee_id" validate:"required"`
}

// CastVote handles POST /api/votes. The client IP and user agent are kept
// with the vote for audit.
func (a *API) CastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	caller := middleware.IdentityFromCtx(r.Context())
	meta := models.ClientMeta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}

	v, err := a.svc.CastVote(r.Context(), caller.UserID, req.CategoryID, req.NomineeID, meta)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: v, Message: "Vote cast successfully"})
}

// MyVotes handles GET /api/votes/my.
func (a *API) MyVotes(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFromCtx(r.Context())
	votes, err := a.svc.ListVotesForUser(r.Context(), caller.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, emptyIfNil(votes))
}

// Results handles GET /api/votes/results, optionally narrowed by ?category.
func (a *API) Results(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryID(r, "category", "category_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	results, err := a.svc.ComputeResults(r.Context(), categoryID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, emptyIfNil(results))
}

// WithdrawVote handles DELETE /api/votes/my/{categoryId}, removing all of
// the caller's votes in that category.
func (a *API) WithdrawVote(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	caller := middleware.IdentityFromCtx(r.Context())
	if err := a.svc.WithdrawVote(r.Context(), caller.UserID, categoryID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Vote withdrawn")
}

// WithdrawVoteByID handles DELETE /api/votes/{voteId}.
func (a *API) WithdrawVoteByID(w http.ResponseWriter, r *http.Request) {
	voteID, ok := pathID(w, r, "voteId")
	if !ok {
		return
	}
	caller := middleware.IdentityFromCtx(r.Context())
	if err := a.svc.WithdrawVoteByID(r.Context(), caller.UserID, voteID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Vote withdrawn")
}
