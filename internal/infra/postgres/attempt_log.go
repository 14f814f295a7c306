package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"debug-challenge-service/internal/domain"
)

// AttemptLog appends run/check events. Concurrent inserts from many teams
// are fine; no cross-team ordering is required.
type AttemptLog struct {
	pool *pgxpool.Pool
}

func NewAttemptLog(pool *pgxpool.Pool) *AttemptLog {
	return &AttemptLog{pool: pool}
}

func (l *AttemptLog) AppendAttempt(ctx context.Context, a domain.Attempt) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO attempts (member1, member2, question_id, is_correct, attempted_at) VALUES ($1, $2, $3, $4, $5)`,
		a.Team.Member1, a.Team.Member2, a.QuestionID, a.IsCorrect, a.AttemptedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (l *AttemptLog) ListAttempts(ctx context.Context) ([]domain.Attempt, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT member1, member2, question_id, is_correct, attempted_at FROM attempts`)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.Attempt
	for rows.Next() {
		var a domain.Attempt
		if err := rows.Scan(&a.Team.Member1, &a.Team.Member2, &a.QuestionID, &a.IsCorrect, &a.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
