// client/view_test.go
package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyricloop/server/internal/models"
)

func playingRoom(round int) *models.Room {
	r := models.NewRoom("ABC123")
	r.Phase = models.PhasePlaying
	r.RoundDuration = 20
	r.RoundWords = []string{"love", "fire", "rain"}
	r.CurrentRound = round
	return r
}

func TestReduceReplacesStateWholesale(t *testing.T) {
	v := NewView()

	state := playingRoom(0)
	state.Players = []models.Player{{ID: "p1", Name: "Alice", DeviceID: "d1"}}
	v.Reduce(state)
	assert.Equal(t, "Alice", v.Room.Players[0].Name)

	// The next broadcast wins outright, even if it says less.
	v.Reduce(playingRoom(0))
	assert.Empty(t, v.Room.Players, "local view never merges, it replaces")
}

func TestReduceSeedsCountdownOnRoundStart(t *testing.T) {
	v := NewView()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return base }

	v.Reduce(playingRoom(0))

	require.False(t, v.Scratch.Deadline.IsZero())
	assert.Equal(t, base.Add(20*time.Second), v.Scratch.Deadline)
	assert.Equal(t, base.Add(20*time.Second+GracePeriod), v.Scratch.Grace,
		"the grace deadline trails the advisory countdown")
}

func TestReduceKeepsScratchWithinARound(t *testing.T) {
	v := NewView()
	v.Reduce(playingRoom(1))

	v.Scratch.Song = "Umbrella"
	v.Scratch.Artist = "Rihanna"

	// A broadcast for the same round (e.g. a rename) keeps the drafts.
	same := playingRoom(1)
	same.Players = []models.Player{{ID: "p1", Name: "Alicia", DeviceID: "d1"}}
	v.Reduce(same)
	assert.Equal(t, "Umbrella", v.Scratch.Song)
	assert.Equal(t, "Rihanna", v.Scratch.Artist)
}

func TestReduceDiscardsScratchOnRoundChange(t *testing.T) {
	v := NewView()
	v.Reduce(playingRoom(0))
	v.Scratch.Song = "draft"

	v.Reduce(playingRoom(1))
	assert.Empty(t, v.Scratch.Song, "round advance wipes the submission form")
	assert.False(t, v.Scratch.Deadline.IsZero(), "and restarts the countdown")
}

func TestReduceDiscardsScratchOnPhaseChange(t *testing.T) {
	v := NewView()
	v.Reduce(playingRoom(2))
	v.Scratch.Song = "draft"

	done := playingRoom(2)
	done.Phase = models.PhaseLeaderboard
	v.Reduce(done)
	assert.Empty(t, v.Scratch.Song)
	assert.True(t, v.Scratch.Deadline.IsZero(), "no countdown outside of play")
}
