package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"podcast_syncer/internal/domain"
)

// SettingsStore keeps the run settings in a single row.
type SettingsStore struct {
	db       *sqlx.DB
	defaults domain.RunSettings
}

func NewSettingsStore(db *sqlx.DB, defaults domain.RunSettings) *SettingsStore {
	return &SettingsStore{db: db, defaults: defaults}
}

func (s *SettingsStore) Load(ctx context.Context) (domain.RunSettings, error) {
	query := `
		SELECT enabled, time_of_day, mode, batch_size, concurrency
		FROM sync_settings
		WHERE id = 1`

	var settings domain.RunSettings
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &settings, query)
	if errors.Is(err, sql.ErrNoRows) {
		return s.defaults, nil
	}
	if err != nil {
		return domain.RunSettings{}, err
	}
	return settings, nil
}

func (s *SettingsStore) Save(ctx context.Context, settings domain.RunSettings) error {
	query := `
		INSERT INTO sync_settings (id, enabled, time_of_day, mode, batch_size, concurrency, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			time_of_day = EXCLUDED.time_of_day,
			mode = EXCLUDED.mode,
			batch_size = EXCLUDED.batch_size,
			concurrency = EXCLUDED.concurrency,
			updated_at = EXCLUDED.updated_at`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		settings.Enabled,
		settings.TimeOfDay,
		settings.Mode,
		settings.BatchSize,
		settings.Concurrency,
	)
	return err
}
