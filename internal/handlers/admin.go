// internal/handlers/admin.go
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/registration"
	"github.com/smashclub/volley/internal/roster"
)

type paidRequest struct {
	registration.Target
	Paid bool `json:"paid"`
}

type batchRequest struct {
	Targets []registration.Target `json:"targets"`
}

type batchResponse struct {
	Registrations []models.Registration `json:"registrations"`
	Roster        roster.View           `json:"roster"`
}

type targetOp func(ctx context.Context, gameID, adminID uuid.UUID, t registration.Target) (*registration.Result, error)

// targetHandler decodes a Target body and applies op as the calling admin.
func (a *API) targetHandler(op targetOp, status int) authedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
		id, ok := a.gameID(w, r)
		if !ok {
			return
		}
		var t registration.Target
		if err := decodeBody(r, &t); err != nil || t.UserID == uuid.Nil {
			a.badRequest(w, "user_id is required")
			return
		}
		res, err := op(r.Context(), id, userID, t)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, status, res)
	}
}

func (a *API) AdminAddHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	a.targetHandler(a.Service.AdminAdd, http.StatusCreated)(w, r, userID)
}

func (a *API) AdminRemoveHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	a.targetHandler(a.Service.AdminRemove, http.StatusOK)(w, r, userID)
}

func (a *API) MoveToWaitlistHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	a.targetHandler(a.Service.MoveToWaitlist, http.StatusOK)(w, r, userID)
}

func (a *API) MoveToActiveHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	a.targetHandler(a.Service.MoveToActive, http.StatusOK)(w, r, userID)
}

func (a *API) SetPaidHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	var req paidRequest
	if err := decodeBody(r, &req); err != nil || req.UserID == uuid.Nil {
		a.badRequest(w, "user_id is required")
		return
	}
	res, err := a.Service.SetPaid(r.Context(), id, userID, req.Target, req.Paid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AdminAddBatchHandler seats a list of players at once; priority players take free slots first.
func (a *API) AdminAddBatchHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	var req batchRequest
	if err := decodeBody(r, &req); err != nil || len(req.Targets) == 0 {
		a.badRequest(w, "targets are required")
		return
	}
	regs, view, err := a.Service.AdminAddBatch(r.Context(), id, userID, req.Targets)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, batchResponse{Registrations: regs, Roster: view})
}
