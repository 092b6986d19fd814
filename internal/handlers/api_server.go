// internal/handlers/api_server.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smashclub/volley/internal/auth"
	"github.com/smashclub/volley/internal/feed"
	"github.com/smashclub/volley/internal/middleware"
	"github.com/smashclub/volley/internal/registration"
)

// API serves the HTTP surface over a registration.Service.
type API struct {
	Service  *registration.Service
	Sessions *auth.Sessions
	Hub      *feed.Hub
	Logger   *logrus.Logger
}

func NewAPI(svc *registration.Service, sessions *auth.Sessions, hub *feed.Hub, logger *logrus.Logger) *API {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &API{Service: svc, Sessions: sessions, Hub: hub, Logger: logger}
}

// Routes builds the request multiplexer, wrapped in request logging.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	// games
	mux.HandleFunc("POST /games", a.authed(a.CreateGameHandler))
	mux.HandleFunc("GET /games", a.ListGamesHandler)
	mux.HandleFunc("GET /games/{id}", a.GetGameHandler)
	mux.HandleFunc("PATCH /games/{id}", a.authed(a.EditGameHandler))
	mux.HandleFunc("DELETE /games/{id}", a.authed(a.DeleteGameHandler))

	// self-service roster
	mux.HandleFunc("GET /games/{id}/roster", a.RosterHandler)
	mux.HandleFunc("POST /games/{id}/join", a.authed(a.JoinHandler))
	mux.HandleFunc("POST /games/{id}/leave", a.authed(a.LeaveHandler))
	mux.HandleFunc("POST /games/{id}/guests", a.authed(a.JoinGuestHandler))
	mux.HandleFunc("DELETE /games/{id}/guests/{name}", a.authed(a.LeaveGuestHandler))
	mux.HandleFunc("PUT /games/{id}/ball", a.authed(a.BringingBallHandler))

	// admin roster
	mux.HandleFunc("POST /games/{id}/registrations", a.authed(a.AdminAddHandler))
	mux.HandleFunc("DELETE /games/{id}/registrations", a.authed(a.AdminRemoveHandler))
	mux.HandleFunc("POST /games/{id}/registrations/batch", a.authed(a.AdminAddBatchHandler))
	mux.HandleFunc("POST /games/{id}/registrations/waitlist", a.authed(a.MoveToWaitlistHandler))
	mux.HandleFunc("POST /games/{id}/registrations/active", a.authed(a.MoveToActiveHandler))
	mux.HandleFunc("POST /games/{id}/registrations/paid", a.authed(a.SetPaidHandler))

	mux.HandleFunc("POST /games/{id}/lock", a.authed(a.LockRosterHandler))
	mux.HandleFunc("DELETE /games/{id}/lock", a.authed(a.UnlockRosterHandler))

	// admin maintenance
	mux.HandleFunc("POST /priority-assignments", a.authed(a.AddAssignmentHandler))
	mux.HandleFunc("GET /priority-assignments", a.authed(a.ListAssignmentsHandler))
	mux.HandleFunc("DELETE /priority-assignments/{id}", a.authed(a.RemoveAssignmentHandler))
	mux.HandleFunc("PUT /users/{id}/blocked", a.authed(a.SetBlockedHandler))

	// live roster feed
	mux.HandleFunc("GET /games/{id}/ws", a.RosterWSHandler)

	return middleware.LogMiddleware(a.Logger)(mux)
}

// authedHandlerFunc is a handler that runs with the caller's user id.
type authedHandlerFunc func(w http.ResponseWriter, r *http.Request, userID uuid.UUID)

// authed rejects requests without a valid session token.
func (a *API) authed(h authedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing auth token"})
			return
		}
		userID, err := a.Sessions.Authenticate(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}
		h(w, r, userID)
	}
}

// gameID parses the {id} path segment, answering 400 itself on failure.
func (a *API) gameID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := pathUUID(r, "id")
	if !ok {
		a.badRequest(w, "invalid game id")
	}
	return id, ok
}
