package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/session"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 54 * time.Second
	streamBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamMessage is either the initial snapshot or one transition.
type streamMessage struct {
	Type string `json:"type"`
	session.Transition
}

// handleStream pushes every transition of a session over a websocket until
// the session finishes or the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	log := logger.FromContext(ctx).WithField("session_id", id)

	if _, err := s.SessionService.Get(ctx, id); err != nil {
		handleError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan streamMessage, streamBuffer)
	done := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(done) }) }

	push := func(m streamMessage) {
		select {
		case send <- m:
		case <-done:
		default:
			log.Warn("stream client too slow, disconnecting")
			stop()
		}
	}

	unsubscribe, err := s.SessionService.Subscribe(ctx, id, func(t session.Transition) {
		push(streamMessage{Type: "transition", Transition: t})
	})
	if err != nil {
		log.Warn("subscribe failed: %v", err)
		return
	}
	defer unsubscribe()

	snap, err := s.SessionService.Get(ctx, id)
	if err != nil {
		return
	}
	push(streamMessage{Type: "snapshot", Transition: session.Transition{
		To:       snap.State.State,
		At:       time.Now().UTC(),
		Snapshot: snap,
	}})
	log.Debug("stream client connected")

	go func() {
		defer stop()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug("stream read error: %v", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case m := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(m); err != nil {
				log.Debug("stream write error: %v", err)
				return
			}
			if m.Snapshot.State.State == models.StateFinished {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session finished"))
				log.Debug("stream closed: session finished")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
