package scheduler

//go:generate mockgen -source=scheduler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/service"
)

// Syncer starts background sync runs.
type Syncer interface {
	Start(ctx context.Context, req service.RunRequest) (string, error)
}

type SettingsStore interface {
	Load(ctx context.Context) (domain.RunSettings, error)
	Save(ctx context.Context, settings domain.RunSettings) error
}

type timerFunc func(d time.Duration) (<-chan time.Time, func() bool)

// Scheduler fires one scheduled run per day at the configured wall-clock time.
type Scheduler struct {
	syncer   Syncer
	store    SettingsStore
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
	newTimer timerFunc

	update   sync.Mutex
	mu       sync.Mutex
	settings domain.RunSettings
	loaded   bool
	next     time.Time
	rearm    chan struct{}
}

func NewScheduler(syncer Syncer, store SettingsStore, location *time.Location, logger *slog.Logger) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		syncer:   syncer,
		store:    store,
		location: location,
		logger:   logger.With("component", "scheduler"),
		now:      time.Now,
		newTimer: realTimer,
		rearm:    make(chan struct{}, 1),
	}
}

func realTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// NextRun returns the first occurrence of timeOfDay ("HH:MM") in loc strictly after now.
func NextRun(now time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	hour, minute, err := domain.RunSettings{TimeOfDay: timeOfDay}.Clock()
	if err != nil {
		return time.Time{}, err
	}

	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next, nil
}

// Serve arms the daily timer and blocks until ctx is done.
func (s *Scheduler) Serve(ctx context.Context) error {
	if _, err := s.Settings(ctx); err != nil {
		return err
	}

	s.logger.Info("scheduler started", "timezone", s.location.String())

	for {
		wait, stop := s.arm()

		select {
		case <-ctx.Done():
			stop()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-s.rearm:
			stop()
		case <-wait:
			s.fire(ctx)
		}
	}
}

// Settings returns the current run settings, loading them on first use.
func (s *Scheduler) Settings(ctx context.Context) (domain.RunSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.settings, nil
	}

	settings, err := s.store.Load(ctx)
	if err != nil {
		return domain.RunSettings{}, fmt.Errorf("load run settings: %w", err)
	}
	s.settings = settings
	s.loaded = true
	return settings, nil
}

// UpdateSettings validates and persists settings, then re-arms or disarms the timer.
func (s *Scheduler) UpdateSettings(ctx context.Context, settings domain.RunSettings) (domain.RunSettings, error) {
	return s.MergeSettings(ctx, func(domain.RunSettings) domain.RunSettings { return settings })
}

// MergeSettings applies apply to the current settings and persists the result like
// UpdateSettings. Concurrent merges are serialized so none of them is lost.
func (s *Scheduler) MergeSettings(ctx context.Context, apply func(domain.RunSettings) domain.RunSettings) (domain.RunSettings, error) {
	s.update.Lock()
	defer s.update.Unlock()

	current, err := s.Settings(ctx)
	if err != nil {
		return domain.RunSettings{}, err
	}

	settings := apply(current)
	if err := settings.Validate(); err != nil {
		return domain.RunSettings{}, err
	}

	if err := s.store.Save(ctx, settings); err != nil {
		return domain.RunSettings{}, fmt.Errorf("save run settings: %w", err)
	}

	s.mu.Lock()
	s.settings = settings
	s.loaded = true
	s.mu.Unlock()

	select {
	case s.rearm <- struct{}{}:
	default:
	}

	s.logger.Info("run settings updated",
		"enabled", settings.Enabled,
		"time", settings.TimeOfDay,
		"mode", settings.Mode,
	)
	return settings, nil
}

// RunNow starts a manual run, optionally limited to the given podcasts.
func (s *Scheduler) RunNow(ctx context.Context, podcastIDs []int64) (string, error) {
	return s.syncer.Start(ctx, service.RunRequest{
		Trigger:    domain.TriggerManual,
		PodcastIDs: podcastIDs,
	})
}

// Next returns the armed fire time, or the zero time when disarmed.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

func (s *Scheduler) arm() (<-chan time.Time, func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next = time.Time{}
	if !s.settings.Enabled {
		return nil, func() bool { return false }
	}

	now := s.now()
	next, err := NextRun(now, s.settings.TimeOfDay, s.location)
	if err != nil {
		s.logger.Error("cannot arm scheduled sync", "time", s.settings.TimeOfDay, "error", err)
		return nil, func() bool { return false }
	}

	s.next = next
	s.logger.Info("next scheduled sync", "at", next)
	return s.newTimer(next.Sub(now))
}

func (s *Scheduler) fire(ctx context.Context) {
	sessionID, err := s.syncer.Start(ctx, service.RunRequest{Trigger: domain.TriggerScheduled})
	switch {
	case errors.Is(err, domain.ErrAlreadyRunning):
		s.logger.Warn("skipping scheduled sync, a run is already in progress")
	case err != nil:
		s.logger.Error("scheduled sync failed to start", "error", err)
	default:
		s.logger.Info("scheduled sync started", "session_id", sessionID)
	}
}
