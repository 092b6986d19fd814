// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the roster feed.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Provided auth token was invalid or expired.
	InvalidGameIDError    = 3003 // Game in the WS URL does not exist.
)
