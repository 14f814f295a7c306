package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"debug-challenge-service/internal/app"
	"debug-challenge-service/internal/domain"
)

// WSHandler streams leaderboard snapshots to connected clients so admin and
// results pages get pushes instead of polling.
type WSHandler struct {
	service  *app.ChallengeService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ChallengeService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string             `json:"type"`
	Payload domain.Leaderboard `json:"payload"`
}

// ServeLeaderboard upgrades the connection, sends the current standings and
// then pushes a snapshot after every submission until the client goes away.
func (h *WSHandler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	snapshot, err := h.service.Leaderboard(r.Context())
	if err != nil {
		log.Printf("leaderboard snapshot failed: %v", err)
		return
	}
	if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: snapshot}); err != nil {
		return
	}

	updates, cancel := h.service.SubscribeLeaderboard()
	defer cancel()

	// Reader goroutine only detects the client closing the connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: update}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
