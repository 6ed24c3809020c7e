package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"podcast_syncer/internal/credentials"
	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/youtube"
)

type PodcastStore interface {
	// ListEligible returns approved podcasts with a playlist reference. A non-empty
	// ids restricts the result to those podcasts.
	ListEligible(ctx context.Context, ids []int64) ([]domain.Podcast, error)
}

type EpisodeStore interface {
	Upsert(ctx context.Context, episode *domain.Episode) (int64, bool, error)
}

type SnapshotStore interface {
	ReplacePodcastSnapshot(ctx context.Context, snapshot *domain.PodcastSnapshot) error
	ReplaceEpisodeSnapshot(ctx context.Context, snapshot *domain.EpisodeSnapshot) error
}

type DiscoveryStore interface {
	Record(ctx context.Context, discovery *domain.Discovery) error
}

type SessionStore interface {
	Create(ctx context.Context, session *domain.SyncSession) error
	UpdateProgress(ctx context.Context, id string, stats domain.SyncStats) error
	Finalize(ctx context.Context, session *domain.SyncSession) error
	Latest(ctx context.Context) (*domain.SyncSession, error)
	// AbandonRunning fails sessions still marked running, returning how many.
	AbandonRunning(ctx context.Context, message string) (int64, error)
}

type SettingsStore interface {
	Load(ctx context.Context) (domain.RunSettings, error)
	Save(ctx context.Context, settings domain.RunSettings) error
}

type Source interface {
	ResolveEpisodes(ctx context.Context, playlistID string, charger youtube.Charger) ([]domain.EpisodeRef, error)
	FetchDetails(ctx context.Context, refs []domain.EpisodeRef, charger youtube.Charger, batchSize int) (*youtube.DetailResult, error)
}

type CredentialPool interface {
	Lease(ctx context.Context) (*credentials.Lease, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishSession(ctx context.Context, session *domain.SyncSession) error
	PublishDiscovery(ctx context.Context, discovery *domain.Discovery) error
}
