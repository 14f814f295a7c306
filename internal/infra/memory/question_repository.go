package memory

import (
	"context"
	"sort"
	"sync"

	"debug-challenge-service/internal/domain"
)

// QuestionRepository is an in-memory implementation of app.QuestionRepository
// (useful for tests/demos and redis-less deployments).
type QuestionRepository struct {
	mu        sync.RWMutex
	questions map[string]domain.Question
}

// NewQuestionRepository builds a repository preloaded with the given seed set.
func NewQuestionRepository(seed []domain.Question) *QuestionRepository {
	questions := make(map[string]domain.Question, len(seed))
	for _, q := range seed {
		questions[q.ID] = q
	}
	return &QuestionRepository{questions: questions}
}

func (r *QuestionRepository) ListQuestions(_ context.Context) ([]domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Question, 0, len(r.questions))
	for _, q := range r.questions {
		list = append(list, q)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *QuestionRepository) CreateQuestion(_ context.Context, q domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[q.ID] = q
	return nil
}

func (r *QuestionRepository) UpdateQuestion(_ context.Context, q domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	r.questions[q.ID] = q
	return nil
}

func (r *QuestionRepository) DeleteQuestion(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.questions, id)
	return nil
}
