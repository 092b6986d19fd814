// internal/handlers/game.go
package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/registration"
	"github.com/smashclub/volley/internal/roster"
)

// gameEditResponse is returned by PATCH /games/{id}.
type gameEditResponse struct {
	Game     *models.Game          `json:"game"`
	Promoted []models.Registration `json:"promoted,omitempty"`
	Roster   roster.View           `json:"roster"`
}

// CreateGameHandler stores a new game. Admin only.
func (a *API) CreateGameHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var g models.Game
	if err := decodeBody(r, &g); err != nil {
		a.badRequest(w, "bad game payload")
		return
	}
	created, err := a.Service.CreateGame(r.Context(), userID, g)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListGamesHandler lists upcoming games, or games from ?from=<RFC3339>.
func (a *API) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	var (
		games []models.Game
		err   error
	)
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			a.badRequest(w, "from must be RFC3339")
			return
		}
		games, err = a.Service.ListGames(r.Context(), from)
	} else {
		games, err = a.Service.UpcomingGames(r.Context())
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if games == nil {
		games = []models.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}

func (a *API) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	g, err := a.Service.GetGame(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// EditGameHandler applies a partial update. Extra capacity is filled from the waitlist.
func (a *API) EditGameHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	var patch registration.GamePatch
	if err := decodeBody(r, &patch); err != nil {
		a.badRequest(w, "bad game patch")
		return
	}
	g, res, err := a.Service.EditGame(r.Context(), id, userID, patch)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameEditResponse{Game: g, Promoted: res.Promoted, Roster: res.Roster})
}

func (a *API) DeleteGameHandler(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, ok := a.gameID(w, r)
	if !ok {
		return
	}
	if err := a.Service.DeleteGame(r.Context(), id, userID); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
