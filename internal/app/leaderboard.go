package app

import (
	"sync"

	"debug-challenge-service/internal/domain"
)

// LeaderboardHub fans final standings out to subscribers (websocket clients,
// admin dashboards). Subscribers that fall behind lose the stale snapshot,
// never block the broadcaster.
type LeaderboardHub struct {
	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{subscribers: make(map[chan domain.Leaderboard]struct{})}
}

// Subscribe returns a channel of leaderboard snapshots. The caller must
// invoke the returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast delivers a snapshot to every subscriber, replacing a buffered
// stale snapshot when a subscriber is slow.
func (h *LeaderboardHub) Broadcast(lb domain.Leaderboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- lb:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
