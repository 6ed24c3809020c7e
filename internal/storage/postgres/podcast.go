package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"podcast_syncer/internal/domain"
)

type PodcastStore struct {
	db *sqlx.DB
}

func NewPodcastStore(db *sqlx.DB) *PodcastStore {
	return &PodcastStore{db: db}
}

func (s *PodcastStore) ListEligible(ctx context.Context, ids []int64) ([]domain.Podcast, error) {
	q := sq.Select("id", "title", "playlist_id", "episode_count", "is_approved").
		From("podcasts").
		Where(sq.Eq{"is_approved": true}).
		Where(sq.NotEq{"playlist_id": nil}).
		Where(sq.NotEq{"playlist_id": ""}).
		OrderBy("id").
		PlaceholderFormat(sq.Dollar)

	if len(ids) > 0 {
		q = q.Where(sq.Eq{"id": ids})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build eligible podcasts query: %w", err)
	}

	var podcasts []domain.Podcast
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &podcasts, query, args...); err != nil {
		return nil, err
	}
	return podcasts, nil
}
