package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"debug-challenge-service/internal/domain"
)

const settingsID = "global"

// SettingsStore keeps the singleton timer settings as a single upserted row.
// A missing row reads as the defaults.
type SettingsStore struct {
	pool *pgxpool.Pool
}

func NewSettingsStore(pool *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

func (s *SettingsStore) GetSettings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := s.pool.QueryRow(ctx,
		`SELECT timer_enabled, timer_duration_minutes FROM settings WHERE id=$1`,
		settingsID).Scan(&settings.TimerEnabled, &settings.TimerDurationMinutes)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsStore) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO settings (id, timer_enabled, timer_duration_minutes) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET timer_enabled=EXCLUDED.timer_enabled, timer_duration_minutes=EXCLUDED.timer_duration_minutes`,
		settingsID, settings.TimerEnabled, settings.TimerDurationMinutes)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
