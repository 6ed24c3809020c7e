package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/scheduler/mocks"
	"podcast_syncer/internal/service"
)

func TestNextRun(t *testing.T) {
	plus3 := time.FixedZone("UTC+3", 3*60*60)

	tests := []struct {
		name      string
		now       time.Time
		timeOfDay string
		loc       *time.Location
		want      time.Time
	}{
		{
			name:      "later today",
			now:       time.Date(2026, 6, 1, 1, 0, 0, 0, time.UTC),
			timeOfDay: "03:00",
			loc:       time.UTC,
			want:      time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC),
		},
		{
			name:      "already passed today",
			now:       time.Date(2026, 6, 1, 4, 0, 0, 0, time.UTC),
			timeOfDay: "03:00",
			loc:       time.UTC,
			want:      time.Date(2026, 6, 2, 3, 0, 0, 0, time.UTC),
		},
		{
			name:      "exactly now moves to tomorrow",
			now:       time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC),
			timeOfDay: "03:00",
			loc:       time.UTC,
			want:      time.Date(2026, 6, 2, 3, 0, 0, 0, time.UTC),
		},
		{
			name:      "month rollover",
			now:       time.Date(2026, 6, 30, 23, 30, 0, 0, time.UTC),
			timeOfDay: "00:15",
			loc:       time.UTC,
			want:      time.Date(2026, 7, 1, 0, 15, 0, 0, time.UTC),
		},
		{
			name:      "evaluated in the configured zone",
			now:       time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC), // 01:00 next day in UTC+3
			timeOfDay: "02:00",
			loc:       plus3,
			want:      time.Date(2026, 6, 2, 2, 0, 0, 0, plus3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(tt.now, tt.timeOfDay, tt.loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestNextRun_InvalidTime(t *testing.T) {
	_, err := NextRun(time.Now(), "7pm", time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fakeTimers reports every armed duration and fires on demand.
type fakeTimers struct {
	armed chan time.Duration
	fire  chan time.Time
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{
		armed: make(chan time.Duration, 8),
		fire:  make(chan time.Time),
	}
}

func (f *fakeTimers) newTimer(d time.Duration) (<-chan time.Time, func() bool) {
	f.armed <- d
	return f.fire, func() bool { return true }
}

type SchedulerTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	syncer *mocks.MockSyncer
	store  *mocks.MockSettingsStore
	clock  *clock
	timers *fakeTimers
	sched  *Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	done   chan error
}

func (s *SchedulerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.syncer = mocks.NewMockSyncer(s.ctrl)
	s.store = mocks.NewMockSettingsStore(s.ctrl)
	s.clock = &clock{now: time.Date(2026, 6, 1, 1, 0, 0, 0, time.UTC)}
	s.timers = newFakeTimers()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.sched = NewScheduler(s.syncer, s.store, time.UTC, logger)
	s.sched.now = s.clock.Now
	s.sched.newTimer = s.timers.newTimer

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.done = make(chan error, 1)
}

func (s *SchedulerTestSuite) TearDownTest() {
	s.cancel()
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) serve() {
	go func() {
		s.done <- s.sched.Serve(s.ctx)
	}()
}

func (s *SchedulerTestSuite) nextArmed() time.Duration {
	select {
	case d := <-s.timers.armed:
		return d
	case <-time.After(2 * time.Second):
		s.FailNow("timer was not armed")
		return 0
	}
}

func (s *SchedulerTestSuite) assertNotArmed() {
	select {
	case d := <-s.timers.armed:
		s.Failf("unexpected timer", "armed for %s", d)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *SchedulerTestSuite) stop() {
	s.cancel()
	select {
	case err := <-s.done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		s.Fail("scheduler did not stop")
	}
}

func enabledAt(timeOfDay string) domain.RunSettings {
	return domain.RunSettings{Enabled: true, TimeOfDay: timeOfDay, Mode: domain.ModeLocal}
}

func (s *SchedulerTestSuite) TestServe_FiresScheduledRunAndRearms() {
	s.store.EXPECT().Load(gomock.Any()).Return(enabledAt("03:00"), nil)

	started := make(chan service.RunRequest, 1)
	s.syncer.EXPECT().
		Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req service.RunRequest) (string, error) {
			started <- req
			return "session-1", nil
		})

	s.serve()
	s.Equal(2*time.Hour, s.nextArmed())
	s.True(s.sched.Next().Equal(time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)))

	s.clock.Set(time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC))
	s.timers.fire <- s.clock.Now()

	req := <-started
	s.Equal(domain.TriggerScheduled, req.Trigger)
	s.Empty(req.PodcastIDs)

	s.Equal(24*time.Hour, s.nextArmed())
	s.stop()
}

func (s *SchedulerTestSuite) TestServe_SkipsWhenAlreadyRunning() {
	s.store.EXPECT().Load(gomock.Any()).Return(enabledAt("03:00"), nil)
	s.syncer.EXPECT().Start(gomock.Any(), gomock.Any()).Return("", domain.ErrAlreadyRunning)

	s.serve()
	s.nextArmed()

	s.clock.Set(time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC))
	s.timers.fire <- s.clock.Now()

	s.Equal(24*time.Hour, s.nextArmed())
	s.stop()
}

func (s *SchedulerTestSuite) TestServe_DisabledDoesNotArm() {
	s.store.EXPECT().Load(gomock.Any()).Return(domain.DefaultRunSettings(), nil)

	s.serve()
	s.assertNotArmed()
	s.True(s.sched.Next().IsZero())
	s.stop()
}

func (s *SchedulerTestSuite) TestServe_LoadError() {
	s.store.EXPECT().Load(gomock.Any()).Return(domain.RunSettings{}, errors.New("disk gone"))

	err := s.sched.Serve(s.ctx)
	s.ErrorContains(err, "disk gone")
}

func (s *SchedulerTestSuite) TestUpdateSettings_ArmsImmediately() {
	s.store.EXPECT().Load(gomock.Any()).Return(domain.DefaultRunSettings(), nil)
	_, err := s.sched.Settings(s.ctx)
	s.Require().NoError(err)
	s.serve()
	s.assertNotArmed()

	want := enabledAt("05:30")
	s.store.EXPECT().Save(gomock.Any(), want).Return(nil)

	got, err := s.sched.UpdateSettings(s.ctx, want)
	s.Require().NoError(err)
	s.Equal(want, got)

	s.Equal(4*time.Hour+30*time.Minute, s.nextArmed())

	current, err := s.sched.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal(want, current)
	s.stop()
}

func (s *SchedulerTestSuite) TestUpdateSettings_DisableDisarms() {
	s.store.EXPECT().Load(gomock.Any()).Return(enabledAt("03:00"), nil)
	s.serve()
	s.nextArmed()

	disabled := enabledAt("03:00")
	disabled.Enabled = false
	s.store.EXPECT().Save(gomock.Any(), disabled).Return(nil)

	_, err := s.sched.UpdateSettings(s.ctx, disabled)
	s.Require().NoError(err)

	s.Eventually(func() bool { return s.sched.Next().IsZero() }, time.Second, 5*time.Millisecond)
	s.assertNotArmed()
	s.stop()
}

func (s *SchedulerTestSuite) TestUpdateSettings_RejectsInvalid() {
	s.store.EXPECT().Load(gomock.Any()).Return(domain.DefaultRunSettings(), nil)

	_, err := s.sched.UpdateSettings(s.ctx, domain.RunSettings{Enabled: true, TimeOfDay: "3am", Mode: domain.ModeLocal})
	s.ErrorIs(err, domain.ErrInvalidSettings)

	_, err = s.sched.UpdateSettings(s.ctx, domain.RunSettings{TimeOfDay: "03:00", Mode: "turbo"})
	s.ErrorIs(err, domain.ErrInvalidSettings)
}

func (s *SchedulerTestSuite) TestUpdateSettings_SaveError() {
	s.store.EXPECT().Load(gomock.Any()).Return(domain.DefaultRunSettings(), nil)
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("read-only"))

	_, err := s.sched.UpdateSettings(s.ctx, enabledAt("03:00"))
	s.ErrorContains(err, "read-only")
}

func (s *SchedulerTestSuite) TestMergeSettings_ConcurrentMergesAreNotLost() {
	s.store.EXPECT().Load(gomock.Any()).Return(domain.DefaultRunSettings(), nil).Times(1)
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(domain.MaxConcurrency)

	var wg sync.WaitGroup
	for range domain.MaxConcurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.sched.MergeSettings(s.ctx, func(cur domain.RunSettings) domain.RunSettings {
				cur.Concurrency++
				return cur
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.sched.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal(domain.MaxConcurrency, got.Concurrency)
}

func (s *SchedulerTestSuite) TestMergeSettings_KeepsUntouchedFields() {
	stored := enabledAt("03:00")
	stored.BatchSize = 20
	s.store.EXPECT().Load(gomock.Any()).Return(stored, nil)

	want := stored
	want.Mode = domain.ModeRemote
	s.store.EXPECT().Save(gomock.Any(), want).Return(nil)

	got, err := s.sched.MergeSettings(s.ctx, func(cur domain.RunSettings) domain.RunSettings {
		cur.Mode = domain.ModeRemote
		return cur
	})
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *SchedulerTestSuite) TestRunNow_ManualTriggerWithFilter() {
	s.syncer.EXPECT().
		Start(gomock.Any(), service.RunRequest{Trigger: domain.TriggerManual, PodcastIDs: []int64{4, 9}}).
		Return("session-2", nil)

	id, err := s.sched.RunNow(s.ctx, []int64{4, 9})
	s.Require().NoError(err)
	s.Equal("session-2", id)
}

func (s *SchedulerTestSuite) TestSettings_LoadsOnce() {
	s.store.EXPECT().Load(gomock.Any()).Return(enabledAt("03:00"), nil).Times(1)

	for range 3 {
		got, err := s.sched.Settings(s.ctx)
		s.Require().NoError(err)
		s.Equal("03:00", got.TimeOfDay)
	}
}
