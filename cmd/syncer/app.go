package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"podcast_syncer/internal/config"
	"podcast_syncer/internal/credentials"
	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/fetch"
	"podcast_syncer/internal/publisher"
	"podcast_syncer/internal/scheduler"
	"podcast_syncer/internal/service"
	"podcast_syncer/internal/settings"
	"podcast_syncer/internal/storage/postgres"
	"podcast_syncer/internal/youtube"
)

// app holds the wired components shared by the serve and sync commands.
type app struct {
	db           *sqlx.DB
	rabbitMQ     *publisher.RabbitMQ
	fetchers     []*fetch.Client
	orchestrator *service.Orchestrator
	scheduler    *scheduler.Scheduler
	logger       *slog.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.db = db

	if err := db.PingContext(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("connected to database")

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.rabbitMQ = rabbitMQ
		pub = rabbitMQ
	}

	location, err := cfg.Sync.Location()
	if err != nil {
		a.Close()
		return nil, err
	}

	sources := make(map[domain.Mode]service.Source, 2)
	for _, mode := range []domain.Mode{domain.ModeLocal, domain.ModeRemote} {
		source, err := a.newSource(ctx, cfg, mode)
		if err != nil {
			a.Close()
			return nil, err
		}
		sources[mode] = source
	}

	var settingsStore service.SettingsStore
	switch cfg.Sync.SettingsBackend {
	case "postgres":
		settingsStore = postgres.NewSettingsStore(db, cfg.Sync.Defaults)
	default:
		settingsStore = settings.NewFileStore(cfg.Sync.SettingsFile, cfg.Sync.Defaults)
	}

	writer := service.NewWriter(
		postgres.NewEpisodeStore(db),
		postgres.NewSnapshotStore(db),
		postgres.NewDiscoveryStore(db),
		postgres.NewTransactionManager(db),
		pub,
		logger,
	)

	a.orchestrator = service.NewOrchestrator(
		postgres.NewPodcastStore(db),
		postgres.NewSessionStore(db),
		settingsStore,
		credentials.NewPool(postgres.NewCredentialStore(db), logger),
		sources,
		writer,
		pub,
		cfg.Modes,
		location,
		logger,
	)

	if err := a.orchestrator.Restore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.scheduler = scheduler.NewScheduler(a.orchestrator, settingsStore, location, logger)
	return a, nil
}

func (a *app) newSource(ctx context.Context, cfg *config.Config, mode domain.Mode) (*youtube.Client, error) {
	profile := cfg.Modes.Profile(mode)

	fetcher := fetch.New(fetch.Config{
		MaxRetries:        profile.Retry.MaxRetries,
		InitialBackoff:    profile.Retry.InitialBackoff,
		MaxBackoff:        profile.Retry.MaxBackoff,
		Timeout:           cfg.YouTube.Timeout,
		RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
		BreakerName:       "youtube-" + string(mode),
		BreakerFailures:   cfg.YouTube.CircuitBreaker.ConsecutiveFailures,
		BreakerTimeout:    cfg.YouTube.CircuitBreaker.OpenTimeout,
	}, a.logger)
	a.fetchers = append(a.fetchers, fetcher)

	source, err := youtube.New(ctx, fetcher.HTTPClient(), youtube.Config{
		BaseURL:    cfg.YouTube.BaseURL,
		PageDelay:  profile.PageDelay,
		BatchDelay: profile.BatchDelay,
	}, a.logger.With("mode", string(mode)))
	if err != nil {
		return nil, fmt.Errorf("create %s source: %w", mode, err)
	}
	return source, nil
}

func (a *app) Close() {
	for _, f := range a.fetchers {
		f.Close()
	}
	if a.rabbitMQ != nil {
		a.rabbitMQ.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
