package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"debug-challenge-service/internal/domain"
)

func TestLeaderboardStream(t *testing.T) {
	server := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws/leaderboard"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial snapshot arrives before any submission.
	snapshot := readLeaderboard(conn, t)
	if len(snapshot.Entries) != 0 {
		t.Fatalf("expected empty initial snapshot, got %d entries", len(snapshot.Entries))
	}

	team := map[string]string{"member1": "Ada", "member2": "Grace"}
	resp := doJSON(t, http.MethodPost, server.URL+"/api/challenge/start", team, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, server.URL+"/api/challenge/submit", map[string]any{
		"member1": "Ada", "member2": "Grace",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d", resp.StatusCode)
	}

	update := readLeaderboard(conn, t)
	if len(update.Entries) != 1 {
		t.Fatalf("expected 1 entry after submit, got %d", len(update.Entries))
	}
	if update.Entries[0].Team.Member1 != "Ada" {
		t.Fatalf("unexpected entry: %+v", update.Entries[0])
	}
}

func readLeaderboard(conn *websocket.Conn, t *testing.T) domain.Leaderboard {
	t.Helper()
	var msg struct {
		Type    string             `json:"type"`
		Payload domain.Leaderboard `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected leaderboard message, got %s", msg.Type)
	}
	return msg.Payload
}
