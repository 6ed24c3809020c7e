package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"podcast_syncer/internal/domain"
)

type EpisodeStore struct {
	db *sqlx.DB
}

func NewEpisodeStore(db *sqlx.DB) *EpisodeStore {
	return &EpisodeStore{db: db}
}

// Upsert inserts the episode or refreshes its counters, reporting whether the row
// was created. The slug of an existing episode is never changed.
func (s *EpisodeStore) Upsert(ctx context.Context, episode *domain.Episode) (int64, bool, error) {
	query := `
		INSERT INTO episodes (
			podcast_id, external_id, title, slug, duration_seconds,
			published_at, view_count, like_count, comment_count
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (podcast_id, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			duration_seconds = EXCLUDED.duration_seconds,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted`

	var row struct {
		ID       int64 `db:"id"`
		Inserted bool  `db:"inserted"`
	}
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query,
		episode.PodcastID,
		episode.ExternalID,
		episode.Title,
		episode.Slug,
		episode.DurationSeconds,
		episode.PublishedAt,
		episode.ViewCount,
		episode.LikeCount,
		episode.CommentCount,
	)
	if err != nil {
		return 0, false, err
	}

	episode.ID = row.ID
	return row.ID, row.Inserted, nil
}
