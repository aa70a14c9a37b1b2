// internal/room/store.go
package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lyricloop/server/internal/models"
	"github.com/lyricloop/server/internal/words"
)

// Subscriber receives full-state snapshots for a room it is scoped to.
// Implementations must not block; the store calls SendState synchronously
// after each accepted mutation.
type Subscriber interface {
	SendState(state *models.Room)
}

// Store is the authoritative owner of room state. Every accepted mutation
// broadcasts the complete new state to all subscribers of that room,
// including the originator, so nobody's view is ever stale relative to
// anyone else's.
type Store interface {
	// Join returns the room for code, creating it in the lobby phase if
	// absent. It does not broadcast.
	Join(code string) (*models.Room, error)

	// Subscribe registers sub for future broadcasts of the room's state.
	// Unsubscribe removes it; both are idempotent.
	Subscribe(code string, sub Subscriber)
	Unsubscribe(code string, sub Subscriber)

	AddPlayer(code, deviceID, name string) (*models.Room, error)
	RemovePlayer(code, deviceID string) (*models.Room, error)

	// ApplyGameMasterUpdate merges a partial patch into room state. Only the
	// game master's device is accepted. Recognized keys: "phase" (drives
	// game start, replay and return-to-lobby), "roundDuration" (lobby only)
	// and "reshuffle".
	ApplyGameMasterUpdate(code, deviceID string, updates map[string]interface{}) (*models.Room, error)

	// RecordSubmissionSuccess commits a verified submission for the current
	// round. The calling device must own playerID. A word that no longer
	// matches the current round is a stale race and returns ErrStaleRound.
	RecordSubmissionSuccess(code, deviceID, playerID, word, song, artist string) (*models.Room, error)

	// RecordTimeout and RecordSkip commit game-master-only round outcomes,
	// with the same stale-round semantics as submissions.
	RecordTimeout(code, deviceID, word string) (*models.Room, error)
	RecordSkip(code, deviceID, word string) (*models.Room, error)

	// Count reports the number of live rooms, for the health endpoint.
	Count() int

	// DeleteIdle silently purges rooms whose LastUpdated is older than
	// maxIdle, returning how many were removed.
	DeleteIdle(maxIdle time.Duration) int
}

// MemoryStore is the single-process Store. One mutex serializes every
// mutation, which gives each inbound message run-to-completion semantics:
// the stale-round check-then-set below is race-free because no two
// mutations of any room ever interleave.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]*models.Room
	subs  map[string]map[Subscriber]struct{}

	pool *words.Pool
	log  *logrus.Logger

	// now is swappable for eviction tests.
	now func() time.Time
}

// NewMemoryStore returns an empty store drawing target words from pool.
func NewMemoryStore(pool *words.Pool, log *logrus.Logger) *MemoryStore {
	if log == nil {
		log = logrus.New()
	}
	return &MemoryStore{
		rooms: make(map[string]*models.Room),
		subs:  make(map[string]map[Subscriber]struct{}),
		pool:  pool,
		log:   log,
		now:   time.Now,
	}
}

func (s *MemoryStore) Join(code string) (*models.Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[code]
	if !ok {
		r = models.NewRoom(code)
		s.rooms[code] = r
		s.log.WithField("room", code).Info("room created")
	}
	r.LastUpdated = s.now()
	return r.Clone(), nil
}

func (s *MemoryStore) Subscribe(code string, sub Subscriber) {
	code, err := NormalizeCode(code)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[code] == nil {
		s.subs[code] = make(map[Subscriber]struct{})
	}
	s.subs[code][sub] = struct{}{}
}

func (s *MemoryStore) Unsubscribe(code string, sub Subscriber) {
	code, err := NormalizeCode(code)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.subs[code]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(s.subs, code)
		}
	}
}

func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// DeleteIdle purges rooms idle longer than maxIdle. No notification goes
// out; clients of an evicted room simply stop receiving updates and treat
// the missing room as a return to an empty lobby.
func (s *MemoryStore) DeleteIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for code, r := range s.rooms {
		if r.LastUpdated.Before(cutoff) {
			delete(s.rooms, code)
			delete(s.subs, code)
			removed++
			s.log.WithField("room", code).Info("evicted idle room")
		}
	}
	return removed
}

// mutate runs fn against the canonical room under the store lock, then
// broadcasts a snapshot to every subscriber. fn returning an error aborts
// the mutation with no state change and no broadcast.
//
// The fan-out happens while the lock is still held: SendState is
// non-blocking by contract, and delivering under the lock guarantees every
// subscriber observes snapshots in commit order. Without that, a second
// mutation sneaking in between unlock and send could deliver its snapshot
// first and leave the earlier, staler one as a subscriber's last word.
func (s *MemoryStore) mutate(code string, fn func(r *models.Room) error) (*models.Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	r.LastUpdated = s.now()
	snap := r.Clone()

	for sub := range s.subs[code] {
		sub.SendState(snap)
	}
	return snap, nil
}
