package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/stats"
)

// WriteResult tallies the episodes of one podcast.
type WriteResult struct {
	Written int
	Failed  int
	New     int
}

// Writer persists fetched episodes and their daily snapshots.
type Writer struct {
	episodes    EpisodeStore
	snapshots   SnapshotStore
	discoveries DiscoveryStore
	txManager   TransactionManager
	publisher   Publisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewWriter(
	episodes EpisodeStore,
	snapshots SnapshotStore,
	discoveries DiscoveryStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *Writer {
	return &Writer{
		episodes:    episodes,
		snapshots:   snapshots,
		discoveries: discoveries,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger.With("component", "writer"),
		now:         time.Now,
	}
}

// UpsertEpisode inserts the episode on first sighting, deriving its slug, or
// refreshes the counters of the existing row.
func (w *Writer) UpsertEpisode(ctx context.Context, podcastID int64, detail domain.EpisodeDetail) (int64, bool, error) {
	episode := &domain.Episode{
		PodcastID:       podcastID,
		ExternalID:      detail.ExternalID,
		Title:           detail.Title,
		Slug:            Slug(detail.Title, detail.ExternalID),
		DurationSeconds: detail.DurationSeconds,
		PublishedAt:     detail.PublishedAt,
		ViewCount:       detail.Views,
		LikeCount:       detail.Likes,
		CommentCount:    detail.Comments,
	}

	id, isNew, err := w.episodes.Upsert(ctx, episode)
	if err != nil {
		return 0, false, fmt.Errorf("%w: upsert episode %s: %w", domain.ErrPersistenceWrite, detail.ExternalID, err)
	}
	return id, isNew, nil
}

// ReplacePodcastSnapshot overwrites the podcast row for the snapshot's date.
func (w *Writer) ReplacePodcastSnapshot(ctx context.Context, snapshot *domain.PodcastSnapshot) error {
	if err := w.snapshots.ReplacePodcastSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: podcast %d snapshot: %w", domain.ErrPersistenceWrite, snapshot.PodcastID, err)
	}
	return nil
}

// ReplaceEpisodeSnapshot overwrites the episode row for the snapshot's date.
func (w *Writer) ReplaceEpisodeSnapshot(ctx context.Context, snapshot *domain.EpisodeSnapshot) error {
	if err := w.snapshots.ReplaceEpisodeSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: episode %d snapshot: %w", domain.ErrPersistenceWrite, snapshot.EpisodeID, err)
	}
	return nil
}

// WritePodcast writes every episode of a podcast and then the podcast snapshot.
// Episode failures are counted and logged; only a failed podcast snapshot is
// returned as an error.
func (w *Writer) WritePodcast(
	ctx context.Context,
	sessionID string,
	podcast domain.Podcast,
	details []domain.EpisodeDetail,
	rollup stats.Rollup,
) (WriteResult, error) {
	logger := w.logger.With("podcast_id", podcast.ID, "session_id", sessionID)

	snapshots := make(map[string]domain.EpisodeSnapshot, len(rollup.Episodes))
	for _, s := range rollup.Episodes {
		snapshots[s.ExternalID] = s
	}

	var res WriteResult
	for _, detail := range details {
		isNew, err := w.writeEpisode(ctx, sessionID, podcast.ID, detail, snapshots[detail.ExternalID])
		if err != nil {
			res.Failed++
			logger.Error("failed to write episode",
				"external_id", detail.ExternalID,
				"error", err,
			)
			continue
		}

		res.Written++
		if isNew {
			res.New++
		}
	}

	snapshot := rollup.Podcast
	snapshot.NewEpisodeCount = res.New
	if err := w.ReplacePodcastSnapshot(ctx, &snapshot); err != nil {
		return res, err
	}

	logger.Debug("wrote podcast",
		"written", res.Written,
		"failed", res.Failed,
		"new", res.New,
	)

	return res, nil
}

func (w *Writer) writeEpisode(
	ctx context.Context,
	sessionID string,
	podcastID int64,
	detail domain.EpisodeDetail,
	snapshot domain.EpisodeSnapshot,
) (bool, error) {
	var discovery *domain.Discovery

	err := w.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		id, isNew, err := w.UpsertEpisode(txCtx, podcastID, detail)
		if err != nil {
			return err
		}

		snapshot.EpisodeID = id
		if err := w.ReplaceEpisodeSnapshot(txCtx, &snapshot); err != nil {
			return err
		}

		if !isNew {
			return nil
		}

		discovery = &domain.Discovery{
			PodcastID:    podcastID,
			EpisodeID:    id,
			ExternalID:   detail.ExternalID,
			Title:        detail.Title,
			SessionID:    sessionID,
			DiscoveredAt: w.now(),
		}
		if err := w.discoveries.Record(txCtx, discovery); err != nil {
			return fmt.Errorf("%w: discovery %s: %w", domain.ErrPersistenceWrite, detail.ExternalID, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if discovery != nil && w.publisher != nil {
		if err := w.publisher.PublishDiscovery(ctx, discovery); err != nil {
			w.logger.Warn("failed to publish discovery",
				"external_id", detail.ExternalID,
				"error", err,
			)
		}
	}

	return discovery != nil, nil
}
