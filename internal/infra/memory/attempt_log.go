package memory

import (
	"context"
	"sync"

	"debug-challenge-service/internal/domain"
)

// AttemptLog is an in-memory append-only event log of run/check actions.
type AttemptLog struct {
	mu       sync.RWMutex
	attempts []domain.Attempt
}

func NewAttemptLog() *AttemptLog {
	return &AttemptLog{}
}

func (l *AttemptLog) AppendAttempt(_ context.Context, attempt domain.Attempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = append(l.attempts, attempt)
	return nil
}

func (l *AttemptLog) ListAttempts(_ context.Context) ([]domain.Attempt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := make([]domain.Attempt, len(l.attempts))
	copy(list, l.attempts)
	return list, nil
}
