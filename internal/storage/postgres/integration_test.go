//go:build integration

package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"podcast_syncer/internal/domain"
	"podcast_syncer/testdata/utils"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_credentials_and_podcasts.up.sql"),
			filepath.Join(migrationsPath, "002_create_episodes_and_stats.up.sql"),
			filepath.Join(migrationsPath, "003_create_sync_sessions.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM episode_discoveries")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM episode_daily_stats")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM podcast_daily_stats")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM episodes")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM podcasts")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM api_credentials")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM sync_sessions")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM sync_settings")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) insertCredential(name string, used, limit int64, active bool) int64 {
	var id int64
	err := s.db.GetContext(s.ctx, &id,
		"INSERT INTO api_credentials (name, api_key, quota_used, quota_limit, is_active) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		name, "key-"+name, used, limit, active,
	)
	s.Require().NoError(err)
	return id
}

func (s *PostgresIntegrationSuite) insertPodcast(title string, playlistID *string, approved bool) int64 {
	var id int64
	err := s.db.GetContext(s.ctx, &id,
		"INSERT INTO podcasts (title, playlist_id, is_approved) VALUES ($1, $2, $3) RETURNING id",
		title, playlistID, approved,
	)
	s.Require().NoError(err)
	return id
}

func (s *PostgresIntegrationSuite) TestCredentialStore_LeastUsed() {
	store := NewCredentialStore(s.db)
	s.insertCredential("busy", 500, 1000, true)
	quiet := s.insertCredential("quiet", 100, 1000, true)
	s.insertCredential("disabled", 0, 1000, false)
	s.insertCredential("spent", 1000, 1000, true)

	cred, err := store.LeastUsed(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(quiet, cred.ID)
	s.Equal("key-quiet", cred.APIKey)
}

func (s *PostgresIntegrationSuite) TestCredentialStore_LeastUsed_NoneAvailable() {
	store := NewCredentialStore(s.db)
	s.insertCredential("spent", 1000, 1000, true)
	s.insertCredential("disabled", 0, 1000, false)

	_, err := store.LeastUsed(s.ctx, 1)
	s.ErrorIs(err, domain.ErrNoCredentialAvailable)
	s.ErrorIs(err, domain.ErrQuotaExhausted)
}

func (s *PostgresIntegrationSuite) TestCredentialStore_AddUsage_ConcurrentNoLostUpdates() {
	store := NewCredentialStore(s.db)
	id := s.insertCredential("shared", 0, 10000, true)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.AddUsage(s.ctx, id, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}

	var used int64
	s.Require().NoError(s.db.GetContext(s.ctx, &used, "SELECT quota_used FROM api_credentials WHERE id = $1", id))
	s.Equal(int64(n), used)
}

func (s *PostgresIntegrationSuite) TestCredentialStore_AddUsage_NeverExceedsCeiling() {
	store := NewCredentialStore(s.db)
	id := s.insertCredential("small", 0, 30, true)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		exhausted int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AddUsage(s.ctx, id, 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrCredentialExhausted):
				exhausted++
			default:
				s.Failf("unexpected error", "%v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(30, ok)
	s.Equal(20, exhausted)

	var used int64
	s.Require().NoError(s.db.GetContext(s.ctx, &used, "SELECT quota_used FROM api_credentials WHERE id = $1", id))
	s.Equal(int64(30), used)
}

func (s *PostgresIntegrationSuite) TestPodcastStore_ListEligible() {
	store := NewPodcastStore(s.db)
	first := s.insertPodcast("First", utils.Ptr("PL1"), true)
	second := s.insertPodcast("Second", utils.Ptr("PL2"), true)
	s.insertPodcast("Unapproved", utils.Ptr("PL3"), false)
	s.insertPodcast("No playlist", nil, true)
	s.insertPodcast("Blank playlist", utils.Ptr(""), true)

	all, err := store.ListEligible(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(first, all[0].ID)
	s.Equal("PL2", all[1].PlaylistID)

	filtered, err := store.ListEligible(s.ctx, []int64{second})
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal(second, filtered[0].ID)
}

func (s *PostgresIntegrationSuite) TestEpisodeStore_Upsert() {
	store := NewEpisodeStore(s.db)
	podcastID := s.insertPodcast("Show", utils.Ptr("PL1"), true)
	published := time.Now().Add(-24 * time.Hour).Truncate(time.Microsecond)

	episode := &domain.Episode{
		PodcastID:       podcastID,
		ExternalID:      "vid1",
		Title:           "Pilot",
		Slug:            "pilot-vid1",
		DurationSeconds: 1800,
		PublishedAt:     published,
		ViewCount:       10,
	}

	id1, isNew, err := store.Upsert(s.ctx, episode)
	s.Require().NoError(err)
	s.True(isNew)
	s.Greater(id1, int64(0))

	episode.Title = "Pilot (remastered)"
	episode.Slug = "pilot-remastered-vid1"
	episode.ViewCount = 25
	id2, isNew, err := store.Upsert(s.ctx, episode)
	s.Require().NoError(err)
	s.False(isNew)
	s.Equal(id1, id2)

	var row struct {
		Title     string `db:"title"`
		Slug      string `db:"slug"`
		ViewCount int64  `db:"view_count"`
	}
	s.Require().NoError(s.db.GetContext(s.ctx, &row, "SELECT title, slug, view_count FROM episodes WHERE id = $1", id1))
	s.Equal("Pilot (remastered)", row.Title)
	s.Equal("pilot-vid1", row.Slug)
	s.Equal(int64(25), row.ViewCount)
}

func (s *PostgresIntegrationSuite) TestSnapshotStore_ReplacePodcastSnapshotIsIdempotent() {
	store := NewSnapshotStore(s.db)
	podcastID := s.insertPodcast("Show", utils.Ptr("PL1"), true)
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	s.Require().NoError(store.ReplacePodcastSnapshot(s.ctx, &domain.PodcastSnapshot{
		PodcastID: podcastID, Date: day, TotalViews: 100, EpisodeCount: 3,
	}))
	s.Require().NoError(store.ReplacePodcastSnapshot(s.ctx, &domain.PodcastSnapshot{
		PodcastID: podcastID, Date: day, TotalViews: 250, EpisodeCount: 4, EngagementRate: 0.2,
	}))

	var rows []struct {
		TotalViews     int64   `db:"total_views"`
		EpisodeCount   int     `db:"episode_count"`
		EngagementRate float64 `db:"engagement_rate"`
	}
	s.Require().NoError(s.db.SelectContext(s.ctx, &rows,
		"SELECT total_views, episode_count, engagement_rate FROM podcast_daily_stats WHERE podcast_id = $1 AND stat_date = $2",
		podcastID, "2026-06-01",
	))
	s.Require().Len(rows, 1)
	s.Equal(int64(250), rows[0].TotalViews)
	s.Equal(4, rows[0].EpisodeCount)
	s.InDelta(0.2, rows[0].EngagementRate, 1e-9)

	s.Require().NoError(store.ReplacePodcastSnapshot(s.ctx, &domain.PodcastSnapshot{
		PodcastID: podcastID, Date: day.AddDate(0, 0, 1), TotalViews: 300,
	}))
	var count int
	s.Require().NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM podcast_daily_stats WHERE podcast_id = $1", podcastID))
	s.Equal(2, count)
}

func (s *PostgresIntegrationSuite) TestSnapshotStore_ReplaceEpisodeSnapshotInsideTransaction() {
	episodes := NewEpisodeStore(s.db)
	snapshots := NewSnapshotStore(s.db)
	tm := NewTransactionManager(s.db)
	podcastID := s.insertPodcast("Show", utils.Ptr("PL1"), true)
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	episodeID, _, err := episodes.Upsert(s.ctx, &domain.Episode{
		PodcastID: podcastID, ExternalID: "vid1", Title: "Pilot", Slug: "pilot-vid1",
	})
	s.Require().NoError(err)

	for _, views := range []int64{10, 20} {
		err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
			return snapshots.ReplaceEpisodeSnapshot(ctx, &domain.EpisodeSnapshot{
				EpisodeID: episodeID, Date: day, Views: views, AvgViewPercentage: 60,
			})
		})
		s.Require().NoError(err)
	}

	var views []int64
	s.Require().NoError(s.db.SelectContext(s.ctx, &views, "SELECT views FROM episode_daily_stats WHERE episode_id = $1", episodeID))
	s.Equal([]int64{20}, views)
}

func (s *PostgresIntegrationSuite) TestTransactionManager_RollbackKeepsOldSnapshot() {
	snapshots := NewSnapshotStore(s.db)
	tm := NewTransactionManager(s.db)
	podcastID := s.insertPodcast("Show", utils.Ptr("PL1"), true)
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	s.Require().NoError(snapshots.ReplacePodcastSnapshot(s.ctx, &domain.PodcastSnapshot{PodcastID: podcastID, Date: day, TotalViews: 1}))

	boom := errors.New("boom")
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := snapshots.ReplacePodcastSnapshot(ctx, &domain.PodcastSnapshot{PodcastID: podcastID, Date: day, TotalViews: 2}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	var views int64
	s.Require().NoError(s.db.GetContext(s.ctx, &views, "SELECT total_views FROM podcast_daily_stats WHERE podcast_id = $1", podcastID))
	s.Equal(int64(1), views)
}

func (s *PostgresIntegrationSuite) TestDiscoveryStore_Record() {
	episodes := NewEpisodeStore(s.db)
	discoveries := NewDiscoveryStore(s.db)
	sessions := NewSessionStore(s.db)
	podcastID := s.insertPodcast("Show", utils.Ptr("PL1"), true)

	episodeID, _, err := episodes.Upsert(s.ctx, &domain.Episode{PodcastID: podcastID, ExternalID: "vid1", Title: "Pilot", Slug: "pilot-vid1"})
	s.Require().NoError(err)

	sessionID := "5f0b1b8e-2f5e-4d53-9d5c-2f0f7b8f6a11"
	s.Require().NoError(sessions.Create(s.ctx, &domain.SyncSession{
		ID: sessionID, Trigger: domain.TriggerManual, Status: domain.SessionRunning, StartedAt: time.Now(),
	}))

	s.NoError(discoveries.Record(s.ctx, &domain.Discovery{
		PodcastID: podcastID, EpisodeID: episodeID, ExternalID: "vid1", Title: "Pilot",
		SessionID: sessionID, DiscoveredAt: time.Now(),
	}))
	s.NoError(discoveries.Record(s.ctx, &domain.Discovery{
		PodcastID: podcastID, EpisodeID: episodeID, ExternalID: "vid1", Title: "Pilot", DiscoveredAt: time.Now(),
	}))

	var count int
	s.Require().NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM episode_discoveries WHERE session_id = $1", sessionID))
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestSessionStore_Lifecycle() {
	store := NewSessionStore(s.db)
	started := time.Now().Add(-time.Minute).Truncate(time.Microsecond)

	session := &domain.SyncSession{
		ID:        "0b6c3c1e-7c3a-4f7e-8f0e-9a1c2b3d4e5f",
		Trigger:   domain.TriggerScheduled,
		Status:    domain.SessionRunning,
		StartedAt: started,
	}
	s.Require().NoError(store.Create(s.ctx, session))

	s.Require().NoError(store.UpdateProgress(s.ctx, session.ID, domain.SyncStats{TotalPodcasts: 4, SuccessfulPodcasts: 1}))

	ended := time.Now().Truncate(time.Microsecond)
	session.Status = domain.SessionCancelled
	session.EndedAt = &ended
	session.SyncStats = domain.SyncStats{TotalPodcasts: 4, SuccessfulPodcasts: 2, QuotaUsed: 9}
	s.Require().NoError(store.Finalize(s.ctx, session))

	session.Status = domain.SessionCompleted
	s.ErrorIs(store.Finalize(s.ctx, session), domain.ErrSessionFinalized)

	s.Require().NoError(store.UpdateProgress(s.ctx, session.ID, domain.SyncStats{TotalPodcasts: 99}))

	latest, err := store.Latest(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(latest)
	s.Equal(session.ID, latest.ID)
	s.Equal(domain.SessionCancelled, latest.Status)
	s.Equal(domain.TriggerScheduled, latest.Trigger)
	s.Equal(4, latest.TotalPodcasts)
	s.Equal(2, latest.SuccessfulPodcasts)
	s.Equal(int64(9), latest.QuotaUsed)
	s.Require().NotNil(latest.EndedAt)
	s.True(ended.Equal(*latest.EndedAt))
	s.Nil(latest.ErrorMessage)
}

func (s *PostgresIntegrationSuite) TestSessionStore_LatestEmpty() {
	latest, err := NewSessionStore(s.db).Latest(s.ctx)
	s.NoError(err)
	s.Nil(latest)
}

func (s *PostgresIntegrationSuite) TestSessionStore_AbandonRunning() {
	store := NewSessionStore(s.db)
	s.Require().NoError(store.Create(s.ctx, &domain.SyncSession{
		ID: "11111111-1111-4111-8111-111111111111", Trigger: domain.TriggerManual, Status: domain.SessionRunning, StartedAt: time.Now(),
	}))

	n, err := store.AbandonRunning(s.ctx, "interrupted")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	latest, err := store.Latest(s.ctx)
	s.Require().NoError(err)
	s.Equal(domain.SessionFailed, latest.Status)
	s.Require().NotNil(latest.ErrorMessage)
	s.Equal("interrupted", *latest.ErrorMessage)
}

func (s *PostgresIntegrationSuite) TestSettingsStore() {
	defaults := domain.DefaultRunSettings()
	store := NewSettingsStore(s.db, defaults)

	loaded, err := store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(defaults, loaded)

	want := domain.RunSettings{Enabled: true, TimeOfDay: "04:15", Mode: domain.ModeRemote, BatchSize: 40, Concurrency: 4}
	s.Require().NoError(store.Save(s.ctx, want))
	want.TimeOfDay = "05:00"
	s.Require().NoError(store.Save(s.ctx, want))

	loaded, err = store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(want, loaded)
}
