// internal/handlers/roster_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/smashclub/volley/internal/feed"
	"github.com/smashclub/volley/internal/middleware"
)

const rosterSubprotocol = "roster"

// RosterWSHandler streams the game's roster: the current view on connect, then one
// view after every committed change. The feed is read-only; client frames are ignored.
func (a *API) RosterWSHandler(w http.ResponseWriter, r *http.Request) {
	gameID, ok := a.gameID(w, r)
	if !ok {
		return
	}
	view, err := a.Service.View(r.Context(), gameID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{rosterSubprotocol},
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		a.Logger.Warnf("websocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	if c.Subprotocol() != rosterSubprotocol {
		c.Close(BadSubprotocolError, "client must speak the roster subprotocol")
		return
	}
	userID, err := a.Sessions.Authenticate(requestToken(r))
	if err != nil {
		c.Close(InvalidAuthTokenError, "invalid auth token")
		return
	}

	middleware.LogWebSocketConnect(a.Logger, r.RemoteAddr, r.URL.Path)

	sub := a.Hub.Subscribe(gameID)
	defer a.Hub.Unsubscribe(sub)

	// CloseRead discards client frames and cancels ctx once the peer goes away.
	ctx := c.CloseRead(r.Context())

	log := a.Logger.WithFields(logrus.Fields{"game": gameID, "user": userID})
	err = writePump(ctx, c, view, sub, log)
	middleware.LogWebSocketDisconnect(a.Logger, r.RemoteAddr, r.URL.Path, err)
}

// writePump sends the initial view, then everything published to sub, pinging every 30s.
func writePump(ctx context.Context, c *websocket.Conn, initial any, sub *feed.Subscriber, log *logrus.Entry) error {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	if err := writeMessage(ctx, c, initial); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case view, ok := <-sub.OutChan:
			if !ok {
				c.Close(websocket.StatusGoingAway, "feed closed")
				return nil
			}
			if err := writeMessage(ctx, c, view); err != nil {
				log.Warnf("failed to write roster update: %v", err)
				return err
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

func writeMessage(ctx context.Context, c *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.Write(writeCtx, websocket.MessageText, data)
}
