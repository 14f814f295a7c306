package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"debug-challenge-service/internal/domain"
)

// QuestionRepository stores questions as JSONB rows, ordered by position.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, `SELECT data FROM questions ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, q domain.Question) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO questions (id, data, position) VALUES ($1, $2, $3)`,
		q.ID, data, q.Order)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) UpdateQuestion(ctx context.Context, q domain.Question) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET data=$2, position=$3 WHERE id=$1`,
		q.ID, data, q.Order)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}
