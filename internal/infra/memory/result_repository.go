package memory

import (
	"context"
	"sync"

	"debug-challenge-service/internal/domain"
)

// ResultRepository keeps final submission records in memory, append-only.
type ResultRepository struct {
	mu      sync.RWMutex
	results []domain.Result
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{}
}

func (r *ResultRepository) SaveResult(_ context.Context, result domain.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

func (r *ResultRepository) ListResults(_ context.Context) ([]domain.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Result, len(r.results))
	copy(list, r.results)
	return list, nil
}

// TeamExists checks for a result matching the pair in either member order.
func (r *ResultRepository) TeamExists(_ context.Context, member1, member2 string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, result := range r.results {
		if result.Team.Matches(member1, member2) {
			return true, nil
		}
	}
	return false, nil
}
