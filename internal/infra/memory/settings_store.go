package memory

import (
	"context"
	"sync"

	"debug-challenge-service/internal/domain"
)

// SettingsStore holds the singleton timer settings in memory.
type SettingsStore struct {
	mu       sync.RWMutex
	settings domain.Settings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{settings: domain.DefaultSettings()}
}

func (s *SettingsStore) GetSettings(_ context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *SettingsStore) UpdateSettings(_ context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}
