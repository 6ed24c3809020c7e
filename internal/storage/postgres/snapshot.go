package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"podcast_syncer/internal/domain"
)

// SnapshotStore keeps one statistics row per entity and day. Replacing a row is a
// delete followed by an insert inside one transaction.
type SnapshotStore struct {
	db *sqlx.DB
	tm *TransactionManager
}

func NewSnapshotStore(db *sqlx.DB) *SnapshotStore {
	return &SnapshotStore{db: db, tm: NewTransactionManager(db)}
}

func (s *SnapshotStore) ReplacePodcastSnapshot(ctx context.Context, snap *domain.PodcastSnapshot) error {
	day := statDate(snap.Date)

	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		ex := GetExecutor(ctx, s.db)

		if _, err := ex.ExecContext(ctx,
			"DELETE FROM podcast_daily_stats WHERE podcast_id = $1 AND stat_date = $2",
			snap.PodcastID, day,
		); err != nil {
			return fmt.Errorf("delete podcast snapshot: %w", err)
		}

		query := `
			INSERT INTO podcast_daily_stats (
				podcast_id, stat_date, total_views, total_likes, total_comments, total_shares,
				watch_time_minutes, engagement_rate, avg_duration_seconds, avg_views_per_episode,
				episode_count, new_episode_count
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
			)`

		if _, err := ex.ExecContext(ctx, query,
			snap.PodcastID,
			day,
			snap.TotalViews,
			snap.TotalLikes,
			snap.TotalComments,
			snap.TotalShares,
			snap.WatchTimeMinutes,
			snap.EngagementRate,
			snap.AvgDurationSeconds,
			snap.AvgViewsPerEpisode,
			snap.EpisodeCount,
			snap.NewEpisodeCount,
		); err != nil {
			return fmt.Errorf("insert podcast snapshot: %w", err)
		}
		return nil
	})
}

func (s *SnapshotStore) ReplaceEpisodeSnapshot(ctx context.Context, snap *domain.EpisodeSnapshot) error {
	day := statDate(snap.Date)

	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		ex := GetExecutor(ctx, s.db)

		if _, err := ex.ExecContext(ctx,
			"DELETE FROM episode_daily_stats WHERE episode_id = $1 AND stat_date = $2",
			snap.EpisodeID, day,
		); err != nil {
			return fmt.Errorf("delete episode snapshot: %w", err)
		}

		query := `
			INSERT INTO episode_daily_stats (
				episode_id, stat_date, views, likes, comments, shares,
				watch_time_minutes, avg_view_percentage, engagement_rate
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9
			)`

		if _, err := ex.ExecContext(ctx, query,
			snap.EpisodeID,
			day,
			snap.Views,
			snap.Likes,
			snap.Comments,
			snap.Shares,
			snap.WatchTimeMinutes,
			snap.AvgViewPercentage,
			snap.EngagementRate,
		); err != nil {
			return fmt.Errorf("insert episode snapshot: %w", err)
		}
		return nil
	})
}

// statDate formats the calendar date in the snapshot's own location.
func statDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
