// internal/handlers/roster.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

type guestRequest struct {
	Name string `json:"name"`
}

type ballRequest struct {
	Bringing bool `json:"bringing"`
}

// RosterHandler returns both lists with positions. Public.
func (a *API) RosterHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	view, err := a.Service.View(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) JoinHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	res, err := a.Service.Join(r.Context(), id, userID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (a *API) LeaveHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	res, err := a.Service.Leave(r.Context(), id, userID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) JoinGuestHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	var req guestRequest
	if err := decodeBody(r, &req); err != nil {
		a.badRequest(w, "bad guest payload")
		return
	}
	res, err := a.Service.JoinGuest(r.Context(), id, userID, req.Name)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (a *API) LeaveGuestHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	res, err := a.Service.LeaveGuest(r.Context(), id, userID, r.PathValue("name"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) BringingBallHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	var req ballRequest
	if err := decodeBody(r, &req); err != nil {
		a.badRequest(w, "bad payload")
		return
	}
	res, err := a.Service.SetBringingBall(r.Context(), id, userID, req.Bringing)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
