package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"podcast_syncer/internal/domain"
)

type DiscoveryStore struct {
	db *sqlx.DB
}

func NewDiscoveryStore(db *sqlx.DB) *DiscoveryStore {
	return &DiscoveryStore{db: db}
}

func (s *DiscoveryStore) Record(ctx context.Context, d *domain.Discovery) error {
	query := `
		INSERT INTO episode_discoveries (podcast_id, episode_id, external_id, title, session_id, discovered_at)
		VALUES (:podcast_id, :episode_id, :external_id, :title, CAST(NULLIF(:session_id, '') AS uuid), :discovered_at)`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, d)
	return err
}
