// internal/room/errors.go
package room

import "errors"

// Store errors. Authority violations and stale rounds surface here as typed
// errors; the protocol layer drops them silently (no broadcast), per the
// fail-closed error design.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrBadRoomCode   = errors.New("invalid room code")
	ErrNotGameMaster = errors.New("caller is not the game master")
	ErrNotYourPlayer = errors.New("caller does not own this player")
	ErrUnknownPlayer = errors.New("device has no roster entry")
	ErrStaleRound    = errors.New("round already resolved")
	ErrBadUpdate     = errors.New("invalid room update")
	ErrEmptyRoster   = errors.New("cannot start a game with an empty roster")
)
