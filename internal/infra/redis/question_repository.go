package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"debug-challenge-service/internal/app"
	"debug-challenge-service/internal/domain"
)

const questionsKey = "challenge:questions"

// QuestionRepository caches the full question list as JSON in Redis and
// falls back to the inner repository on a miss. Writes go straight through
// to the inner repository and invalidate the cache.
type QuestionRepository struct {
	client *redis.Client
	inner  app.QuestionRepository
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, inner app.QuestionRepository, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := r.fromCache(ctx); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(questionsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.fromCache(ctx); ok {
			return questions, nil
		}

		questions, err := r.inner.ListQuestions(ctx)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(questions); err == nil {
			_ = r.client.Set(ctx, questionsKey, data, r.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, q domain.Question) error {
	if err := r.inner.CreateQuestion(ctx, q); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *QuestionRepository) UpdateQuestion(ctx context.Context, q domain.Question) error {
	if err := r.inner.UpdateQuestion(ctx, q); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	if err := r.inner.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *QuestionRepository) fromCache(ctx context.Context) ([]domain.Question, bool) {
	data, err := r.client.Get(ctx, questionsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		_ = r.client.Del(ctx, questionsKey).Err()
		return nil, false
	}
	return questions, true
}

func (r *QuestionRepository) invalidate(ctx context.Context) {
	_ = r.client.Del(ctx, questionsKey).Err()
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
