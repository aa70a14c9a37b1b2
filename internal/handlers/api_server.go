// internal/handlers/api_server.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/lyricloop/server/internal/lyrics"
	"github.com/lyricloop/server/internal/middleware"
	"github.com/lyricloop/server/internal/room"
)

const qrSize = 256

// APIServer bundles the HTTP surface: health probe, websocket endpoint and
// the room-invite QR code.
type APIServer struct {
	Store    room.Store
	Verifier *lyrics.Verifier
	Log      *logrus.Logger

	// PublicURL is the externally reachable base URL encoded into QR codes.
	PublicURL string
}

func NewAPIServer(store room.Store, verifier *lyrics.Verifier, publicURL string, log *logrus.Logger) *APIServer {
	if log == nil {
		log = logrus.New()
	}
	return &APIServer{Store: store, Verifier: verifier, PublicURL: publicURL, Log: log}
}

// Router builds the full handler chain.
func (s *APIServer) Router() http.Handler {
	router := httprouter.New()
	router.GET("/health", s.health)
	router.GET("/ws/:code", WSHandler(s.Log, s.Store, s.Verifier))
	router.POST("/rooms", s.createRoom)
	router.GET("/rooms/:code/qr", s.roomQR)

	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		s.Log.WithField("panic", v).Error("handler panicked")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}

	return middleware.LogMiddleware(s.Log)(router)
}

// health reports liveness and the current room count.
func (s *APIServer) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"rooms":  s.Store.Count(),
	})
}

// createRoom mints a fresh room under a generated code and returns it. The
// room also springs into existence on first websocket join, so this exists
// for hosts who want a code to share before anyone connects.
func (s *APIServer) createRoom(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	state, err := s.Store.Join(room.NewCode())
	if err != nil {
		s.Log.WithError(err).Error("room creation failed")
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"code": state.Code})
}

// roomQR serves a PNG QR code pointing at the room's join URL, for sharing
// a session across the table.
func (s *APIServer) roomQR(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	code, err := room.NormalizeCode(p.ByName("code"))
	if err != nil {
		http.Error(w, "invalid room code", http.StatusBadRequest)
		return
	}

	joinURL := s.PublicURL + "/join/" + code
	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		s.Log.WithError(err).Error("qr encoding failed")
		http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
