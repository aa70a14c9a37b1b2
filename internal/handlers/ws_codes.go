// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes, more specific than the standard set.
const (
	BadSubprotocolError  = 3000 // client connected with an unsupported subprotocol
	InvalidRoomCodeError = 3001 // room code in the WS URL was malformed
)
