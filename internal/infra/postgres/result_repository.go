package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"debug-challenge-service/internal/domain"
)

// ResultRepository persists final submission records. Rows are append-only;
// the one-result-per-team rule is an advisory pre-check in the service, not
// a database constraint.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func (r *ResultRepository) SaveResult(ctx context.Context, result domain.Result) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO results (member1, member2, score, completed_at) VALUES ($1, $2, $3, $4)`,
		result.Team.Member1, result.Team.Member2, result.Score, result.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *ResultRepository) ListResults(ctx context.Context) ([]domain.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT member1, member2, score, completed_at FROM results ORDER BY score DESC, completed_at`)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		var res domain.Result
		if err := rows.Scan(&res.Team.Member1, &res.Team.Member2, &res.Score, &res.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// TeamExists checks both member permutations, mirroring the unordered team
// identity.
func (r *ResultRepository) TeamExists(ctx context.Context, member1, member2 string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM results
			WHERE (member1=$1 AND member2=$2) OR (member1=$2 AND member2=$1)
		)`, member1, member2).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("team exists: %w", err)
	}
	return exists, nil
}
