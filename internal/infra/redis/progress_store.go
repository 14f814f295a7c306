package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"debug-challenge-service/internal/domain"
)

// ProgressStore persists per-team in-flight state as JSON in Redis, so a
// team survives client restarts. Records expire after the TTL to avoid
// abandoned runs piling up; a TTL of zero keeps them forever.
type ProgressStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressStore(client *redis.Client, ttl time.Duration) *ProgressStore {
	return &ProgressStore{client: client, ttl: ttl}
}

func (s *ProgressStore) SaveProgress(ctx context.Context, p domain.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(p.Team), data, s.ttl).Err()
}

// LoadProgress returns ok=false when no record exists. Structurally invalid
// stored data is treated the same way and the record is cleared, never
// surfaced as an error.
func (s *ProgressStore) LoadProgress(ctx context.Context, team domain.Team) (domain.Progress, bool, error) {
	data, err := s.client.Get(ctx, s.key(team)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Progress{}, false, nil
	}
	if err != nil {
		return domain.Progress{}, false, err
	}

	var p domain.Progress
	if err := json.Unmarshal(data, &p); err != nil || p.Team.Key() != team.Key() {
		// Corrupt record: drop it and report absent.
		_ = s.client.Del(ctx, s.key(team)).Err()
		return domain.Progress{}, false, nil
	}
	return p, true, nil
}

func (s *ProgressStore) ClearProgress(ctx context.Context, team domain.Team) error {
	return s.client.Del(ctx, s.key(team)).Err()
}

func (s *ProgressStore) key(team domain.Team) string {
	return "challenge:progress:" + team.Key()
}
