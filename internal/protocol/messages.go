// internal/protocol/messages.go
//
// Wire contract between clients and the room authority. The unit of
// synchronization is the entire room state: every accepted mutation pushes
// a full room-state message to all connections scoped to the room,
// including the originator. There is no delta protocol.
package protocol

import (
	"github.com/lyricloop/server/internal/lyrics"
	"github.com/lyricloop/server/internal/models"
)

// Client-to-server message types.
const (
	TypeJoinRoom     = "join-room"
	TypeAddPlayer    = "add-player"
	TypeRemovePlayer = "remove-player"
	TypeUpdateRoom   = "update-room"
	TypeSubmission   = "player-submission"
	TypeRoundTimeout = "round-timeout"
	TypeRoundSkip    = "round-skip"
)

// Server-to-client message types.
const (
	TypeRoomState        = "room-state"
	TypeSubmissionResult = "submission-result"
	TypeError            = "error"
)

// Subprotocol is the websocket subprotocol both ends must speak.
const Subprotocol = "lyricloop.v1"

// ClientMessage is the envelope for every inbound message. Unused fields
// stay zero; Type selects which ones matter.
type ClientMessage struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId,omitempty"`
	DeviceID string `json:"deviceId,omitempty"`

	PlayerName string `json:"playerName,omitempty"`
	PlayerID   string `json:"playerId,omitempty"`

	Word   string `json:"word,omitempty"`
	Song   string `json:"song,omitempty"`
	Artist string `json:"artist,omitempty"`

	// Updates is the game-master partial room patch for update-room.
	Updates map[string]interface{} `json:"updates,omitempty"`
}

// ServerMessage is the envelope for every outbound message.
type ServerMessage struct {
	Type string `json:"type"`

	// State carries the full room snapshot on room-state messages.
	State *models.Room `json:"state,omitempty"`

	// Result carries the verification verdict on submission-result
	// messages, sent only to the submitting connection.
	Result *lyrics.Result `json:"result,omitempty"`

	// Message carries the description on error messages, sent only to the
	// originating connection.
	Message string `json:"message,omitempty"`
}
