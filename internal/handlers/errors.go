package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smashclub/volley/internal/auth"
	"github.com/smashclub/volley/internal/registration"
)

// errorResponse is the JSON body of every non-2xx reply.
type errorResponse struct {
	Error      string     `json:"error"`
	OpensAt    *time.Time `json:"opens_at,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	MaxPlayers int        `json:"max_players,omitempty"`
	Active     int        `json:"active,omitempty"`
}

var errorStatus = []struct {
	err    error
	status int
}{
	{auth.ErrInvalidToken, http.StatusUnauthorized},
	{registration.ErrGameNotFound, http.StatusNotFound},
	{registration.ErrRegistrationNotFound, http.StatusNotFound},
	{registration.ErrAssignmentNotFound, http.StatusNotFound},
	{registration.ErrUserNotFound, http.StatusNotFound},
	{registration.ErrNotRegistered, http.StatusNotFound},
	{registration.ErrReadonlyGame, http.StatusForbidden},
	{registration.ErrUserBlocked, http.StatusForbidden},
	{registration.ErrRegistrationNotYetOpen, http.StatusForbidden},
	{registration.ErrUnregisterDeadlinePassed, http.StatusForbidden},
	{registration.ErrNotAdmin, http.StatusForbidden},
	{registration.ErrRosterLocked, http.StatusForbidden},
	{registration.ErrAlreadyRegistered, http.StatusConflict},
	{registration.ErrDuplicateGuestName, http.StatusConflict},
	{registration.ErrCapacityExceeded, http.StatusConflict},
	{registration.ErrInvalidGuestName, http.StatusBadRequest},
	{registration.ErrInvalidGame, http.StatusBadRequest},
	{registration.ErrInvalidAssignment, http.StatusBadRequest},
	{registration.ErrInvalidLock, http.StatusBadRequest},
	{registration.ErrNotConfigured, http.StatusNotImplemented},
}

// statusFor maps a service error to its HTTP status; unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var notYet *registration.NotYetOpenError
	var deadline *registration.DeadlinePassedError
	var capacity *registration.CapacityError
	switch {
	case errors.As(err, &notYet):
		resp.OpensAt = &notYet.OpensAt
	case errors.As(err, &deadline):
		resp.Deadline = &deadline.Deadline
	case errors.As(err, &capacity):
		resp.MaxPlayers = capacity.MaxPlayers
		resp.Active = capacity.Active
	}

	if status == http.StatusInternalServerError {
		a.Logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

func (a *API) badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
