package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/smashclub/volley/internal/models"
)

type blockedRequest struct {
	Blocked bool `json:"blocked"`
}

type lockRequest struct {
	TTLSeconds int `json:"ttl_seconds"`
}

func (a *API) AddAssignmentHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req models.PriorityAssignment
	if err := decodeBody(r, &req); err != nil || req.UserID == uuid.Nil {
		a.badRequest(w, "user_id is required")
		return
	}
	created, err := a.Service.AddPriorityAssignment(r.Context(), userID, req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListAssignmentsHandler lists the caller's assignments, or those of ?administrator_id=.
func (a *API) ListAssignmentsHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var owner uuid.UUID
	if v := r.URL.Query().Get("administrator_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			a.badRequest(w, "invalid administrator_id")
			return
		}
		owner = id
	}
	list, err := a.Service.ListPriorityAssignments(r.Context(), userID, owner)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.PriorityAssignment{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) RemoveAssignmentHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := pathUUID(r, "id")
	if !ok {
		a.badRequest(w, "invalid assignment id")
		return
	}
	if err := a.Service.RemovePriorityAssignment(r.Context(), userID, id); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) SetBlockedHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	target, ok := pathUUID(r, "id")
	if !ok {
		a.badRequest(w, "invalid user id")
		return
	}
	var req blockedRequest
	if err := decodeBody(r, &req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}
	u, err := a.Service.SetUserBlocked(r.Context(), userID, target, req.Blocked)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// LockRosterHandler freezes admin roster edits; ttl_seconds 0 holds until DELETE.
func (a *API) LockRosterHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	var req lockRequest
	if err := decodeBody(r, &req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}
	ttl := time.Duration(req.TTLSeconds) * time.Second
	if err := a.Service.LockRoster(r.Context(), id, userID, ttl); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) UnlockRosterHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	if err := a.Service.UnlockRoster(r.Context(), id, userID); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
