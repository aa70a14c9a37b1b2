// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/lyricloop/server/internal/lyrics"
	"github.com/lyricloop/server/internal/models"
	"github.com/lyricloop/server/internal/protocol"
	"github.com/lyricloop/server/internal/room"
)

// wsSession is one connection's presence in a room. It implements
// room.Subscriber; SendState is non-blocking so a stalled client can never
// hold up the authority's broadcast fan-out.
type wsSession struct {
	roomCode string
	out      chan protocol.ServerMessage
	log      *logrus.Entry

	// deviceID is recorded when the connection identifies itself via
	// join-room or add-player, and drives the implicit remove-player on
	// disconnect. Written and read only from this connection's readPump
	// and post-pump cleanup.
	deviceID string
}

func (s *wsSession) SendState(state *models.Room) {
	s.send(protocol.ServerMessage{Type: protocol.TypeRoomState, State: state})
}

func (s *wsSession) send(msg protocol.ServerMessage) {
	select {
	case s.out <- msg:
	default:
		s.log.WithField("msg_type", msg.Type).Warn("outbound channel full, dropped message")
	}
}

func (s *wsSession) sendError(message string) {
	s.send(protocol.ServerMessage{Type: protocol.TypeError, Message: message})
}

// WSHandler upgrades the connection, scopes it to the room named in the
// URL, subscribes it for broadcasts, and runs the read loop until the
// client goes away. Dropped connections remove their player implicitly.
func WSHandler(logger *logrus.Logger, store room.Store, verifier *lyrics.Verifier) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		code, err := room.NormalizeCode(p.ByName("code"))
		if err != nil {
			http.Error(w, "invalid room code", http.StatusBadRequest)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{protocol.Subprotocol},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != protocol.Subprotocol {
			c.Close(BadSubprotocolError, "client must speak "+protocol.Subprotocol)
			return
		}

		state, err := store.Join(code)
		if err != nil {
			c.Close(InvalidRoomCodeError, err.Error())
			return
		}

		sess := &wsSession{
			roomCode: code,
			out:      make(chan protocol.ServerMessage, 16),
			log: logger.WithFields(logrus.Fields{
				"room":   code,
				"remote": r.RemoteAddr,
			}),
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		store.Subscribe(code, sess)
		defer store.Unsubscribe(code, sess)

		sess.log.Info("websocket connected")
		sess.SendState(state)

		go writePump(ctx, c, sess)
		readPump(ctx, c, sess, store, verifier)

		// Implicit leave: a dropped connection removes the player it
		// registered, which also hands off the game-master role if needed.
		if sess.deviceID != "" {
			if _, err := store.RemovePlayer(code, sess.deviceID); err != nil {
				sess.log.WithError(err).Debug("disconnect cleanup skipped")
			}
		}
		sess.log.Info("websocket disconnected")
	}
}

// readPump consumes inbound messages until the connection closes. Malformed
// payloads are reported back to this connection only, never broadcast, and
// never take the room down.
func readPump(ctx context.Context, c *websocket.Conn, sess *wsSession, store room.Store, verifier *lyrics.Verifier) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway &&
				!strings.Contains(err.Error(), "context canceled") {
				sess.log.WithError(err).Debug("read loop ended")
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg protocol.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.sendError("invalid JSON payload")
			continue
		}
		dispatch(ctx, sess, store, verifier, msg)
	}
}

// dispatch applies one client message against the store. Authority
// violations and stale-round races fail closed: no state change, no
// broadcast, nothing surfaced to other clients.
func dispatch(ctx context.Context, sess *wsSession, store room.Store, verifier *lyrics.Verifier, msg protocol.ClientMessage) {
	switch msg.Type {
	case protocol.TypeJoinRoom:
		if msg.DeviceID != "" {
			sess.deviceID = msg.DeviceID
		}
		state, err := store.Join(sess.roomCode)
		if err != nil {
			sess.sendError(err.Error())
			return
		}
		// Subscribe is idempotent. Re-registering here matters when the
		// room was evicted for idleness and re-created by this join: the
		// eviction dropped the subscriber set, so without this the
		// connection would never see another broadcast.
		store.Subscribe(sess.roomCode, sess)
		sess.SendState(state)

	case protocol.TypeAddPlayer:
		if _, err := store.AddPlayer(sess.roomCode, msg.DeviceID, msg.PlayerName); err != nil {
			sess.sendError("player name and device id are required")
			return
		}
		sess.deviceID = msg.DeviceID

	case protocol.TypeRemovePlayer:
		if _, err := store.RemovePlayer(sess.roomCode, msg.DeviceID); err != nil {
			sess.log.WithError(err).Debug("remove-player ignored")
		}

	case protocol.TypeUpdateRoom:
		_, err := store.ApplyGameMasterUpdate(sess.roomCode, msg.DeviceID, msg.Updates)
		switch err {
		case nil:
		case room.ErrNotGameMaster:
			sess.log.WithField("device", msg.DeviceID).Debug("update-room from non-master dropped")
		case room.ErrBadUpdate, room.ErrEmptyRoster:
			sess.sendError(err.Error())
		default:
			sess.log.WithError(err).Debug("update-room ignored")
		}

	case protocol.TypeSubmission:
		// The lyrics lookup suspends only this connection's flow; the
		// authority itself never blocks on the network. By the time the
		// verdict lands the round may have moved on, in which case the
		// commit is a benign stale no-op.
		go func(msg protocol.ClientMessage) {
			result := verifier.Verify(ctx, msg.Song, msg.Artist, msg.Word)
			sess.send(protocol.ServerMessage{Type: protocol.TypeSubmissionResult, Result: &result})
			if !result.Matched {
				return
			}
			_, err := store.RecordSubmissionSuccess(
				sess.roomCode, msg.DeviceID, msg.PlayerID, msg.Word, msg.Song, msg.Artist)
			if err != nil {
				sess.log.WithError(err).Debug("submission commit dropped")
			}
		}(msg)

	case protocol.TypeRoundTimeout:
		if _, err := store.RecordTimeout(sess.roomCode, msg.DeviceID, msg.Word); err != nil {
			sess.log.WithError(err).Debug("round-timeout dropped")
		}

	case protocol.TypeRoundSkip:
		if _, err := store.RecordSkip(sess.roomCode, msg.DeviceID, msg.Word); err != nil {
			sess.log.WithError(err).Debug("round-skip dropped")
		}

	default:
		sess.sendError("unknown message type: " + msg.Type)
	}
}

// writePump drains the session's outbound channel onto the socket.
func writePump(ctx context.Context, c *websocket.Conn, sess *wsSession) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sess.out:
			data, err := json.Marshal(msg)
			if err != nil {
				sess.log.WithError(err).Warn("failed to marshal outbound message")
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
