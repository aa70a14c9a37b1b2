// client/client.go
//
// Package client is the reconciliation layer for lyricloop room clients.
// It owns one websocket connection to the room authority, folds every
// incoming broadcast into a local View, and exposes intent methods for the
// mutations a player can request. Nothing it holds is authoritative; the
// server's next broadcast may overwrite any of it at any time.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lyricloop/server/internal/lyrics"
	"github.com/lyricloop/server/internal/models"
	"github.com/lyricloop/server/internal/protocol"
)

// ErrConnectFailed is returned when every dial attempt is exhausted.
var ErrConnectFailed = errors.New("could not connect to room server")

// Options tunes a Client.
type Options struct {
	// DeviceID is the self-persisted token identifying this browser or
	// device across reconnects. Required.
	DeviceID string

	// MaxAttempts bounds dial retries (default 5). Backoff starts at
	// BaseBackoff (default 500ms) and doubles per attempt.
	MaxAttempts int
	BaseBackoff time.Duration

	Log *logrus.Logger
}

// Client is one connection to a room.
type Client struct {
	conn     *websocket.Conn
	deviceID string
	log      *logrus.Logger

	mu   sync.Mutex
	view *View

	states  chan models.Room
	results chan lyrics.Result
	errs    chan string

	cancel context.CancelFunc
	done   chan struct{}
}

// Dial connects to a room's websocket URL (ws://host/ws/CODE), retrying
// with exponential backoff up to the bounded attempt count before giving
// up with ErrConnectFailed.
func Dial(ctx context.Context, rawURL string, opts Options) (*Client, error) {
	if opts.DeviceID == "" {
		return nil, errors.New("client: DeviceID is required")
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 500 * time.Millisecond
	}
	if opts.Log == nil {
		opts.Log = logrus.New()
	}

	var conn *websocket.Conn
	var lastErr error
	delay := opts.BaseBackoff
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		c, _, err := websocket.Dial(ctx, rawURL, &websocket.DialOptions{
			Subprotocols: []string{protocol.Subprotocol},
		})
		if err == nil {
			conn = c
			break
		}
		lastErr = err
		opts.Log.WithError(err).WithField("attempt", attempt+1).Warn("dial failed")
	}
	if conn == nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectFailed, lastErr)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	cl := &Client{
		conn:     conn,
		deviceID: opts.DeviceID,
		log:      opts.Log,
		view:     NewView(),
		states:   make(chan models.Room, 16),
		results:  make(chan lyrics.Result, 4),
		errs:     make(chan string, 4),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go cl.readLoop(loopCtx)

	if err := cl.Join(ctx); err != nil {
		cl.Close()
		return nil, err
	}
	return cl, nil
}

// States delivers each reduced room snapshot. Slow consumers lose
// intermediate snapshots, never the latest one's successors.
func (c *Client) States() <-chan models.Room { return c.states }

// Results delivers submission verdicts for this connection.
func (c *Client) Results() <-chan lyrics.Result { return c.results }

// Errors delivers protocol error messages addressed to this connection.
func (c *Client) Errors() <-chan string { return c.errs }

// Done closes when the read loop has exited (connection gone).
func (c *Client) Done() <-chan struct{} { return c.done }

// View returns a copy of the current view.
func (c *Client) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.view
}

func (c *Client) readLoop(ctx context.Context) {
	defer close(c.done)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var msg protocol.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.WithError(err).Warn("bad server message")
			continue
		}
		switch msg.Type {
		case protocol.TypeRoomState:
			if msg.State == nil {
				continue
			}
			c.mu.Lock()
			c.view.Reduce(msg.State)
			snap := c.view.Room
			c.mu.Unlock()
			select {
			case c.states <- snap:
			default:
			}
		case protocol.TypeSubmissionResult:
			if msg.Result != nil {
				select {
				case c.results <- *msg.Result:
				default:
				}
			}
		case protocol.TypeError:
			select {
			case c.errs <- msg.Message:
			default:
			}
		}
	}
}

func (c *Client) send(ctx context.Context, msg protocol.ClientMessage) error {
	msg.DeviceID = c.deviceID
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, data)
}

// Join re-announces this device and requests a fresh snapshot.
func (c *Client) Join(ctx context.Context) error {
	return c.send(ctx, protocol.ClientMessage{Type: protocol.TypeJoinRoom})
}

// AddPlayer registers (or renames) this device's player.
func (c *Client) AddPlayer(ctx context.Context, name string) error {
	return c.send(ctx, protocol.ClientMessage{Type: protocol.TypeAddPlayer, PlayerName: name})
}

// RemovePlayer withdraws this device's player from the roster.
func (c *Client) RemovePlayer(ctx context.Context) error {
	return c.send(ctx, protocol.ClientMessage{Type: protocol.TypeRemovePlayer})
}

// Submit sends a song/artist answer for the current round. The verdict
// arrives on Results; a winning submission also shows up in the next
// room-state broadcast.
func (c *Client) Submit(ctx context.Context, playerID, word, song, artist string) error {
	return c.send(ctx, protocol.ClientMessage{
		Type:     protocol.TypeSubmission,
		PlayerID: playerID,
		Word:     word,
		Song:     song,
		Artist:   artist,
	})
}

// Timeout commits a round timeout. Game master only; other devices must
// never declare timeouts from their own countdowns.
func (c *Client) Timeout(ctx context.Context, word string) error {
	return c.send(ctx, protocol.ClientMessage{Type: protocol.TypeRoundTimeout, Word: word})
}

// Skip commits a round skip. Game master only.
func (c *Client) Skip(ctx context.Context, word string) error {
	return c.send(ctx, protocol.ClientMessage{Type: protocol.TypeRoundSkip, Word: word})
}

// UpdateRoom sends a game-master partial patch (phase, roundDuration,
// reshuffle).
func (c *Client) UpdateRoom(ctx context.Context, updates map[string]interface{}) error {
	return c.send(ctx, protocol.ClientMessage{Type: protocol.TypeUpdateRoom, Updates: updates})
}

// Close tears the connection down.
func (c *Client) Close() error {
	c.cancel()
	return c.conn.Close(websocket.StatusNormalClosure, "client closed")
}
