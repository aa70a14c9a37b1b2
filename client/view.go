// client/view.go
package client

import (
	"time"

	"github.com/lyricloop/server/internal/models"
)

// GracePeriod is the local pre-commit delay after the round timer hits
// zero, before the game master's device fires the authoritative timeout.
const GracePeriod = 3 * time.Second

// RoundScratch is per-round ephemeral state owned entirely by this client:
// the submission form drafts and the advisory countdown. It is never part
// of the room, never authoritative, and is discarded on every round change.
type RoundScratch struct {
	Song   string
	Artist string

	// Deadline is the local advisory countdown for the current round.
	// Only the game master acts on it, by sending an explicit timeout
	// mutation once Grace has also passed.
	Deadline time.Time
	Grace    time.Time
}

// View is the client's reduced picture of a room: a disposable copy of the
// last broadcast plus the local scratch.
type View struct {
	Room    models.Room
	Scratch RoundScratch

	seeded bool
	now    func() time.Time
}

// NewView returns an empty view.
func NewView() *View {
	return &View{now: time.Now}
}

// Reduce replaces the shared state wholesale with the incoming broadcast.
// Last write wins; there is no merging. The scratch survives only while
// the phase and round index are unchanged.
func (v *View) Reduce(state *models.Room) {
	roundChanged := !v.seeded ||
		state.Phase != v.Room.Phase ||
		state.CurrentRound != v.Room.CurrentRound

	v.Room = *state.Clone()
	v.seeded = true

	if roundChanged {
		v.Scratch = RoundScratch{}
		if state.Phase == models.PhasePlaying {
			deadline := v.now().Add(time.Duration(state.RoundDuration) * time.Second)
			v.Scratch.Deadline = deadline
			v.Scratch.Grace = deadline.Add(GracePeriod)
		}
	}
}
