package memory

import (
	"context"
	"sync"

	"debug-challenge-service/internal/domain"
)

// ProgressStore keeps per-team in-flight state in memory, keyed by the
// canonical team identity.
type ProgressStore struct {
	mu       sync.RWMutex
	progress map[string]domain.Progress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{progress: make(map[string]domain.Progress)}
}

func (s *ProgressStore) SaveProgress(_ context.Context, p domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[p.Team.Key()] = p
	return nil
}

func (s *ProgressStore) LoadProgress(_ context.Context, team domain.Team) (domain.Progress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[team.Key()]
	return p, ok, nil
}

func (s *ProgressStore) ClearProgress(_ context.Context, team domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, team.Key())
	return nil
}
