// internal/models/room.go
package models

import "time"

// Phase is the lifecycle stage of a room. Rooms move forward only
// (lobby -> playing -> leaderboard), except for the explicit
// return-to-lobby action which re-seeds a fresh lobby with the same roster.
type Phase string

const (
	PhaseLobby       Phase = "lobby"
	PhasePlaying     Phase = "playing"
	PhaseLeaderboard Phase = "leaderboard"
)

// Outcome classifies how a round ended. Exactly one outcome is recorded
// per round.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeTimeout Outcome = "timeout"
	OutcomeSkipped Outcome = "skipped"
)

// Round count and timer bounds.
const (
	RoundsPerGame        = 10
	MinRoundDurationSec  = 10
	MaxRoundDurationSec  = 60
	DefaultRoundDuration = 30
)

// Player is a roster entry. Players are keyed by DeviceID so a returning
// browser resumes its existing identity instead of creating a duplicate.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DeviceID string `json:"deviceId"`
}

// RoundResult records the outcome of a completed round. Immutable once
// appended to a room's history. WinnerID, Song and Artist are only set
// for success outcomes.
type RoundResult struct {
	Word     string  `json:"word"`
	Outcome  Outcome `json:"outcome"`
	WinnerID string  `json:"winnerId,omitempty"`
	Song     string  `json:"song,omitempty"`
	Artist   string  `json:"artist,omitempty"`
}

// Room is the authoritative shared state for one game session. The room
// store owns the canonical copy; clients only ever see snapshots.
type Room struct {
	Code          string         `json:"code"`
	Players       []Player       `json:"players"`
	Phase         Phase          `json:"phase"`
	RoundDuration int            `json:"roundDuration"`
	RoundWords    []string       `json:"roundWords"`
	CurrentRound  int            `json:"currentRound"`
	Scores        map[string]int `json:"playersWithScores"`
	History       []RoundResult  `json:"history"`

	// GameMasterID is the player id with elevated authority. Empty iff the
	// roster is empty; reassigned to the first remaining player when the
	// incumbent leaves.
	GameMasterID string `json:"gameMasterId"`

	LastUpdated time.Time `json:"lastUpdated"`

	// ReshuffledRound is the last round index a reshuffle was applied to,
	// -1 when none. Server-internal, not part of the wire state.
	ReshuffledRound int `json:"-"`
}

// NewRoom returns an empty lobby-phase room for the given code.
func NewRoom(code string) *Room {
	return &Room{
		Code:            code,
		Players:         []Player{},
		Phase:           PhaseLobby,
		RoundDuration:   DefaultRoundDuration,
		RoundWords:      []string{},
		Scores:          map[string]int{},
		History:         []RoundResult{},
		LastUpdated:     time.Now(),
		ReshuffledRound: -1,
	}
}

// Clone returns a deep copy of the room, safe to hand to subscribers.
func (r *Room) Clone() *Room {
	cp := *r
	cp.Players = append([]Player(nil), r.Players...)
	cp.RoundWords = append([]string(nil), r.RoundWords...)
	cp.History = append([]RoundResult(nil), r.History...)
	cp.Scores = make(map[string]int, len(r.Scores))
	for id, score := range r.Scores {
		cp.Scores[id] = score
	}
	return &cp
}

// PlayerByDevice returns the index of the roster entry for deviceID,
// or -1 if the device has no entry.
func (r *Room) PlayerByDevice(deviceID string) int {
	for i, p := range r.Players {
		if p.DeviceID == deviceID {
			return i
		}
	}
	return -1
}

// CurrentWord returns the target word for the round in progress.
func (r *Room) CurrentWord() (string, bool) {
	if r.Phase != PhasePlaying || r.CurrentRound < 0 || r.CurrentRound >= len(r.RoundWords) {
		return "", false
	}
	return r.RoundWords[r.CurrentRound], true
}

// IsGameMaster reports whether the given device currently holds the
// game-master role.
func (r *Room) IsGameMaster(deviceID string) bool {
	i := r.PlayerByDevice(deviceID)
	return i >= 0 && r.Players[i].ID == r.GameMasterID && r.GameMasterID != ""
}
