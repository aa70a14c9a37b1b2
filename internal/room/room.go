// internal/room/room.go
//
// Mutation rules for the room state machine. Every function here runs under
// the store mutex via MemoryStore.mutate, so each handler sees a quiescent
// room and runs to completion before the next mutation is applied.
package room

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lyricloop/server/internal/models"
)

// AddPlayer registers the device under the given name. A device that already
// has a roster entry is renamed in place, never duplicated. The first player
// to join an unmastered room becomes the game master.
func (s *MemoryStore) AddPlayer(code, deviceID, name string) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if deviceID == "" || name == "" {
		return nil, ErrBadUpdate
	}
	return s.mutate(code, func(r *models.Room) error {
		if i := r.PlayerByDevice(deviceID); i >= 0 {
			r.Players[i].Name = name
			return nil
		}
		p := models.Player{
			ID:       uuid.NewString(),
			Name:     name,
			DeviceID: deviceID,
		}
		r.Players = append(r.Players, p)
		if _, ok := r.Scores[p.ID]; !ok {
			r.Scores[p.ID] = 0
		}
		if r.GameMasterID == "" {
			r.GameMasterID = p.ID
			s.log.WithFields(logrus.Fields{"room": r.Code, "player": p.ID}).
				Info("game master assigned")
		}
		return nil
	})
}

// RemovePlayer drops the roster entry for deviceID. If the departing player
// was the game master the role passes to the first remaining player, or is
// cleared when the roster empties. Unknown devices are a no-op error so
// disconnect cleanup will not broadcast for spectators.
func (s *MemoryStore) RemovePlayer(code, deviceID string) (*models.Room, error) {
	return s.mutate(code, func(r *models.Room) error {
		i := r.PlayerByDevice(deviceID)
		if i < 0 {
			return ErrUnknownPlayer
		}
		leaving := r.Players[i]
		r.Players = append(r.Players[:i], r.Players[i+1:]...)

		if r.GameMasterID == leaving.ID {
			if len(r.Players) > 0 {
				r.GameMasterID = r.Players[0].ID
				s.log.WithFields(logrus.Fields{"room": r.Code, "player": r.GameMasterID}).
					Info("game master reassigned")
			} else {
				r.GameMasterID = ""
			}
		}
		return nil
	})
}

// ApplyGameMasterUpdate merges a partial patch into the room. Rejected
// outright unless the calling device holds the game-master role. Unknown
// keys are ignored so older clients can send fields the server has dropped.
// The patch is all-or-nothing: it is applied against a scratch copy, so a
// rejection part-way through leaves the room untouched.
func (s *MemoryStore) ApplyGameMasterUpdate(code, deviceID string, updates map[string]interface{}) (*models.Room, error) {
	return s.mutate(code, func(r *models.Room) error {
		if !r.IsGameMaster(deviceID) {
			return ErrNotGameMaster
		}

		scratch := r.Clone()

		if v, ok := updates["roundDuration"]; ok {
			secs, ok := asInt(v)
			if !ok || secs < models.MinRoundDurationSec || secs > models.MaxRoundDurationSec {
				return ErrBadUpdate
			}
			if scratch.Phase != models.PhaseLobby {
				return ErrBadUpdate
			}
			scratch.RoundDuration = secs
		}

		if v, ok := updates["reshuffle"]; ok {
			if want, _ := v.(bool); want {
				if err := s.reshuffle(scratch); err != nil {
					return err
				}
			}
		}

		if v, ok := updates["phase"]; ok {
			target, _ := v.(string)
			if err := s.transition(scratch, models.Phase(target)); err != nil {
				return err
			}
		}

		*r = *scratch
		return nil
	})
}

// transition applies a game-master-requested phase change. Round advances
// never come through here; they are driven exclusively by recorded outcomes.
func (s *MemoryStore) transition(r *models.Room, target models.Phase) error {
	switch {
	case target == models.PhasePlaying &&
		(r.Phase == models.PhaseLobby || r.Phase == models.PhaseLeaderboard):
		// Game start, or replay straight from the leaderboard.
		return s.startGame(r)
	case target == models.PhaseLobby && r.Phase == models.PhaseLeaderboard:
		// Return to lobby: roster carries over, everything else re-seeds.
		r.Phase = models.PhaseLobby
		r.RoundWords = []string{}
		r.CurrentRound = 0
		r.History = []models.RoundResult{}
		r.ReshuffledRound = -1
		r.Scores = make(map[string]int, len(r.Players))
		for _, p := range r.Players {
			r.Scores[p.ID] = 0
		}
		return nil
	case target == r.Phase:
		return nil
	default:
		return ErrBadUpdate
	}
}

// startGame seeds a fresh set of round words and zeroes scores for the
// current roster.
func (s *MemoryStore) startGame(r *models.Room) error {
	if len(r.Players) == 0 {
		return ErrEmptyRoster
	}
	r.Phase = models.PhasePlaying
	r.RoundWords = s.pool.Draw(models.RoundsPerGame)
	r.CurrentRound = 0
	r.History = []models.RoundResult{}
	r.ReshuffledRound = -1
	r.Scores = make(map[string]int, len(r.Players))
	for _, p := range r.Players {
		r.Scores[p.ID] = 0
	}
	s.log.WithFields(logrus.Fields{"room": r.Code, "words": len(r.RoundWords)}).
		Info("game started")
	return nil
}

// reshuffle swaps the current round's word for an unused pool word. At most
// one reshuffle per round; no effect when every pool word has been seen.
func (s *MemoryStore) reshuffle(r *models.Room) error {
	if r.Phase != models.PhasePlaying || r.CurrentRound >= len(r.RoundWords) {
		return ErrBadUpdate
	}
	if r.ReshuffledRound == r.CurrentRound {
		return ErrBadUpdate
	}

	// Exclude everything already seen this game: history words plus the
	// whole remaining list, so a reshuffle can never introduce a word the
	// room has played or is still going to play.
	exclude := make(map[string]bool, len(r.History)+len(r.RoundWords))
	for _, h := range r.History {
		exclude[h.Word] = true
	}
	for _, w := range r.RoundWords {
		exclude[w] = true
	}

	replacement, ok := s.pool.Replacement(exclude)
	if !ok {
		// Pool exhausted; the word stands.
		return nil
	}
	r.RoundWords[r.CurrentRound] = replacement
	r.ReshuffledRound = r.CurrentRound
	return nil
}

// RecordSubmissionSuccess commits a verified winning submission. The device
// must own playerID: players can only score for themselves.
func (s *MemoryStore) RecordSubmissionSuccess(code, deviceID, playerID, word, song, artist string) (*models.Room, error) {
	return s.mutate(code, func(r *models.Room) error {
		i := r.PlayerByDevice(deviceID)
		if i < 0 || r.Players[i].ID != playerID {
			return ErrNotYourPlayer
		}
		if err := commitOutcome(r, word, models.RoundResult{
			Word:     word,
			Outcome:  models.OutcomeSuccess,
			WinnerID: playerID,
			Song:     song,
			Artist:   artist,
		}); err != nil {
			return err
		}
		r.Scores[playerID]++
		return nil
	})
}

// RecordTimeout commits a timeout for the current round. Game master only.
func (s *MemoryStore) RecordTimeout(code, deviceID, word string) (*models.Room, error) {
	return s.mutate(code, func(r *models.Room) error {
		if !r.IsGameMaster(deviceID) {
			return ErrNotGameMaster
		}
		return commitOutcome(r, word, models.RoundResult{Word: word, Outcome: models.OutcomeTimeout})
	})
}

// RecordSkip commits a skip for the current round. Game master only.
func (s *MemoryStore) RecordSkip(code, deviceID, word string) (*models.Room, error) {
	return s.mutate(code, func(r *models.Room) error {
		if !r.IsGameMaster(deviceID) {
			return ErrNotGameMaster
		}
		return commitOutcome(r, word, models.RoundResult{Word: word, Outcome: models.OutcomeSkipped})
	})
}

// commitOutcome appends the round result and advances the round, flipping
// the room to the leaderboard once the word list is exhausted. The word
// equality check is the at-most-one-commit-per-round guard: the first
// accepted outcome advances CurrentRound, so any later signal still naming
// the old word no longer matches and lands here as a stale no-op.
func commitOutcome(r *models.Room, word string, result models.RoundResult) error {
	current, ok := r.CurrentWord()
	if !ok || current != word {
		return ErrStaleRound
	}
	r.History = append(r.History, result)
	r.CurrentRound++
	if r.CurrentRound >= len(r.RoundWords) {
		r.Phase = models.PhaseLeaderboard
	}
	return nil
}

// asInt accepts the numeric types a JSON patch may carry. Fractional
// values are rejected rather than truncated.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
