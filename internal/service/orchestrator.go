package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"podcast_syncer/internal/config"
	"podcast_syncer/internal/credentials"
	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/metrics"
	"podcast_syncer/internal/runctl"
	"podcast_syncer/internal/stats"
)

// RunRequest describes one run.
type RunRequest struct {
	Trigger domain.TriggerKind
	// PodcastIDs limits the run to these podcasts when non-empty.
	PodcastIDs []int64
}

// Orchestrator drives sync runs. At most one run is active at a time.
type Orchestrator struct {
	podcasts  PodcastStore
	sessions  SessionStore
	settings  SettingsStore
	pool      CredentialPool
	sources   map[domain.Mode]Source
	writer    *Writer
	publisher Publisher
	modes     config.ModesConfig
	location  *time.Location
	logger    *slog.Logger
	now       func() time.Time

	state RunState
	wg    sync.WaitGroup
}

func NewOrchestrator(
	podcasts PodcastStore,
	sessions SessionStore,
	settings SettingsStore,
	pool CredentialPool,
	sources map[domain.Mode]Source,
	writer *Writer,
	publisher Publisher,
	modes config.ModesConfig,
	location *time.Location,
	logger *slog.Logger,
) *Orchestrator {
	if location == nil {
		location = time.UTC
	}
	return &Orchestrator{
		podcasts:  podcasts,
		sessions:  sessions,
		settings:  settings,
		pool:      pool,
		sources:   sources,
		writer:    writer,
		publisher: publisher,
		modes:     modes,
		location:  location,
		logger:    logger.With("component", "orchestrator"),
		now:       time.Now,
	}
}

// Restore runs at startup. Sessions a previous process left running are failed, and
// the most recent session is loaded so Status reports it.
func (o *Orchestrator) Restore(ctx context.Context) error {
	n, err := o.sessions.AbandonRunning(ctx, "interrupted by process restart")
	if err != nil {
		return fmt.Errorf("abandon running sessions: %w", err)
	}
	if n > 0 {
		o.logger.Warn("failed sessions left running by a previous process", "sessions", n)
	}

	session, err := o.sessions.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load latest session: %w", err)
	}
	if session != nil {
		o.state.restore(session)
	}
	return nil
}

// Start launches a run in the background and returns its session id. The run is
// detached from ctx cancellation; use Cancel or Shutdown to stop it.
func (o *Orchestrator) Start(ctx context.Context, req RunRequest) (string, error) {
	session, token, err := o.begin(req)
	if err != nil {
		return "", err
	}

	runCtx := context.WithoutCancel(ctx)
	if err := o.open(runCtx, session); err != nil {
		return "", err
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(runCtx, session, token, req)
	}()

	return session.ID, nil
}

// Run executes a run synchronously and returns the finalized session.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (*domain.SyncSession, error) {
	session, token, err := o.begin(req)
	if err != nil {
		return nil, err
	}

	if err := o.open(ctx, session); err != nil {
		return nil, err
	}

	o.wg.Add(1)
	defer o.wg.Done()

	// A cancelled caller context cancels the run cooperatively.
	stop := context.AfterFunc(ctx, token.Cancel)
	defer stop()

	o.run(ctx, session, token, req)
	return session, nil
}

func (o *Orchestrator) Pause() error {
	token := o.state.activeToken()
	if token == nil {
		return domain.ErrNotRunning
	}
	token.Pause()
	o.logger.Info("sync paused")
	return nil
}

func (o *Orchestrator) Resume() error {
	token := o.state.activeToken()
	if token == nil {
		return domain.ErrNotRunning
	}
	token.Resume()
	o.logger.Info("sync resumed")
	return nil
}

func (o *Orchestrator) Cancel() error {
	token := o.state.activeToken()
	if token == nil {
		return domain.ErrNotRunning
	}
	token.Cancel()
	o.logger.Info("sync cancel requested")
	return nil
}

func (o *Orchestrator) Status() Status {
	return o.state.snapshot()
}

// Shutdown cancels any active run and waits for it to finalize or for ctx to end.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	if token := o.state.activeToken(); token != nil {
		token.Cancel()
	}

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) begin(req RunRequest) (*domain.SyncSession, *runctl.Token, error) {
	if req.Trigger == "" {
		req.Trigger = domain.TriggerManual
	}

	session := &domain.SyncSession{
		ID:        uuid.NewString(),
		Trigger:   req.Trigger,
		Status:    domain.SessionRunning,
		StartedAt: o.now(),
	}
	token := runctl.NewToken()

	if err := o.state.begin(session, token); err != nil {
		return nil, nil, err
	}
	return session, token, nil
}

// open persists the session row. On failure the guard is released.
func (o *Orchestrator) open(ctx context.Context, session *domain.SyncSession) error {
	if err := o.sessions.Create(ctx, session); err != nil {
		o.state.abort()
		return fmt.Errorf("create session: %w", err)
	}

	metrics.SyncRunning.Set(1)
	metrics.SyncProgress.Set(0)
	o.publish(ctx, session)

	o.logger.Info("sync started", "session_id", session.ID, "trigger", session.Trigger)
	return nil
}

func (o *Orchestrator) run(ctx context.Context, session *domain.SyncSession, token *runctl.Token, req RunRequest) {
	ctx = runctl.WithToken(ctx, token)
	logger := o.logger.With("session_id", session.ID)

	err := o.execute(ctx, session, req, logger)
	o.finalize(ctx, session, err, logger)
}

func (o *Orchestrator) execute(ctx context.Context, session *domain.SyncSession, req RunRequest, logger *slog.Logger) error {
	settings, err := o.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load run settings: %w", err)
	}

	profile := o.modes.Profile(settings.Mode).WithSettings(settings)
	source, ok := o.sources[settings.Mode]
	if !ok {
		source = o.sources[domain.ModeLocal]
	}
	if source == nil {
		return fmt.Errorf("no source configured for mode %q", settings.Mode)
	}

	podcasts, err := o.podcasts.ListEligible(ctx, req.PodcastIDs)
	if err != nil {
		return fmt.Errorf("list eligible podcasts: %w", err)
	}
	o.state.setTotal(len(podcasts))
	o.saveProgress(ctx, session.ID, o.state.stats(), logger)

	logger.Info("processing podcasts",
		"podcasts", len(podcasts),
		"mode", settings.Mode,
		"concurrency", profile.Concurrency,
		"batch_size", profile.BatchSize,
	)

	if len(podcasts) == 0 {
		return nil
	}

	lease, err := o.pool.Lease(ctx)
	if err != nil {
		return err
	}

	// The group does not derive a context: a cancel or a failing pipeline must not
	// abort the in-flight calls of its siblings. halt stops further dispatch.
	var (
		g           errgroup.Group
		halt        atomic.Bool
		interrupted atomic.Bool
	)
	g.SetLimit(profile.Concurrency)

	var dispatchErr error
	for _, podcast := range podcasts {
		if halt.Load() {
			break
		}
		if dispatchErr = runctl.Checkpoint(ctx); dispatchErr != nil {
			break
		}

		g.Go(func() error {
			if halt.Load() {
				return nil
			}
			err := runctl.Checkpoint(ctx)
			if err == nil {
				err = o.processPodcast(ctx, session.ID, podcast, source, lease, profile, logger)
			}
			if errors.Is(err, domain.ErrCancelled) {
				interrupted.Store(true)
				return nil
			}
			if err != nil {
				halt.Store(true)
			}
			return err
		})
	}

	err = g.Wait()
	o.state.setQuota(lease.Used())
	switch {
	case err != nil:
		return err
	case dispatchErr != nil:
		return dispatchErr
	case interrupted.Load():
		return domain.ErrCancelled
	}
	return nil
}

// processPodcast runs one podcast pipeline. Only run-ending errors are returned;
// everything else is tallied as a failed podcast.
func (o *Orchestrator) processPodcast(
	ctx context.Context,
	sessionID string,
	podcast domain.Podcast,
	source Source,
	lease *credentials.Lease,
	profile config.ModeProfile,
	logger *slog.Logger,
) error {
	logger = logger.With("podcast_id", podcast.ID, "playlist_id", podcast.PlaylistID)

	episodes, res, err := o.syncPodcast(ctx, sessionID, podcast, source, lease, profile)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrQuotaExhausted):
		logger.Error("quota exhausted", "error", err)
		return err
	case errors.Is(err, domain.ErrCancelled), ctx.Err() != nil:
		logger.Info("podcast interrupted", "error", err)
		return err
	}

	ok := err == nil
	if ok {
		metrics.SyncPodcasts.WithLabelValues("success").Inc()
		logger.Info("podcast synced",
			"episodes", episodes,
			"written", res.Written,
			"new", res.New,
			"failed", res.Failed,
		)
	} else {
		metrics.SyncPodcasts.WithLabelValues("failed").Inc()
		logger.Error("podcast failed", "error", err)
	}
	metrics.SyncEpisodes.WithLabelValues("success").Add(float64(res.Written))
	metrics.SyncEpisodes.WithLabelValues("failed").Add(float64(res.Failed))
	metrics.SyncEpisodes.WithLabelValues("new").Add(float64(res.New))

	o.state.setQuota(lease.Used())
	counters, progress := o.state.recordPodcast(ok, episodes, res)
	metrics.SyncProgress.Set(progress)
	o.saveProgress(ctx, sessionID, counters, logger)

	return nil
}

func (o *Orchestrator) syncPodcast(
	ctx context.Context,
	sessionID string,
	podcast domain.Podcast,
	source Source,
	lease *credentials.Lease,
	profile config.ModeProfile,
) (int, WriteResult, error) {
	refs, err := source.ResolveEpisodes(ctx, podcast.PlaylistID, lease)
	if err != nil {
		return 0, WriteResult{}, fmt.Errorf("resolve episodes: %w", err)
	}

	details, err := source.FetchDetails(ctx, refs, lease, profile.BatchSize)
	if err != nil {
		return 0, WriteResult{}, fmt.Errorf("fetch details: %w", err)
	}

	rollup := stats.Aggregate(podcast.ID, o.now().In(o.location), details.Episodes)

	res, err := o.writer.WritePodcast(ctx, sessionID, podcast, details.Episodes, rollup)
	return len(details.Episodes), res, err
}

func (o *Orchestrator) saveProgress(ctx context.Context, sessionID string, counters domain.SyncStats, logger *slog.Logger) {
	if err := o.sessions.UpdateProgress(ctx, sessionID, counters); err != nil {
		logger.Warn("failed to save session progress", "error", err)
	}
}

func (o *Orchestrator) finalize(ctx context.Context, session *domain.SyncSession, runErr error, logger *slog.Logger) {
	ctx = context.WithoutCancel(ctx)

	endedAt := o.now()
	session.EndedAt = &endedAt
	session.SyncStats = o.state.stats()

	switch {
	case runErr == nil:
		session.Status = domain.SessionCompleted
	case errors.Is(runErr, domain.ErrCancelled), errors.Is(runErr, context.Canceled):
		session.Status = domain.SessionCancelled
	default:
		session.Status = domain.SessionFailed
		msg := runErr.Error()
		session.ErrorMessage = &msg
	}

	if err := o.sessions.Finalize(ctx, session); err != nil {
		logger.Error("failed to finalize session", "error", err)
	}
	o.state.finish(session)

	metrics.SyncRunning.Set(0)
	metrics.SyncRunsTotal.WithLabelValues(string(session.Trigger), string(session.Status)).Inc()
	metrics.SyncDuration.Observe(session.Duration().Seconds())
	if session.Status == domain.SessionCompleted {
		metrics.SyncProgress.Set(100)
		metrics.SyncLastSuccess.Set(float64(endedAt.Unix()))
	}

	o.publish(ctx, session)

	logger.Info("sync finished",
		"status", session.Status,
		"total_podcasts", session.TotalPodcasts,
		"successful_podcasts", session.SuccessfulPodcasts,
		"failed_podcasts", session.FailedPodcasts,
		"new_episodes", session.NewEpisodes,
		"quota_used", session.QuotaUsed,
		"duration", session.Duration(),
		"error", runErr,
	)
}

func (o *Orchestrator) publish(ctx context.Context, session *domain.SyncSession) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishSession(ctx, session); err != nil {
		o.logger.Warn("failed to publish session event", "session_id", session.ID, "error", err)
	}
}
