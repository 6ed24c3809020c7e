package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"podcast_syncer/internal/domain"
)

const sessionColumns = `
	id, trigger_kind, status, started_at, ended_at, error_message,
	total_podcasts, successful_podcasts, failed_podcasts,
	total_episodes, successful_episodes, failed_episodes,
	new_episodes, quota_used`

type SessionStore struct {
	db *sqlx.DB
}

func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, session *domain.SyncSession) error {
	query := `
		INSERT INTO sync_sessions (id, trigger_kind, status, started_at)
		VALUES ($1, $2, $3, $4)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		session.ID,
		session.Trigger,
		session.Status,
		session.StartedAt,
	)
	return err
}

// UpdateProgress stores the running counters. A finalized session is left as is.
func (s *SessionStore) UpdateProgress(ctx context.Context, id string, stats domain.SyncStats) error {
	query := `
		UPDATE sync_sessions SET
			total_podcasts = $2,
			successful_podcasts = $3,
			failed_podcasts = $4,
			total_episodes = $5,
			successful_episodes = $6,
			failed_episodes = $7,
			new_episodes = $8,
			quota_used = $9
		WHERE id = $1 AND status = 'running'`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		id,
		stats.TotalPodcasts,
		stats.SuccessfulPodcasts,
		stats.FailedPodcasts,
		stats.TotalEpisodes,
		stats.SuccessfulEpisodes,
		stats.FailedEpisodes,
		stats.NewEpisodes,
		stats.QuotaUsed,
	)
	return err
}

// Finalize moves a running session to its terminal status. It fails with
// domain.ErrSessionFinalized if the session already left the running state.
func (s *SessionStore) Finalize(ctx context.Context, session *domain.SyncSession) error {
	if !session.Status.Terminal() {
		return fmt.Errorf("finalize session %s with status %q", session.ID, session.Status)
	}

	query := `
		UPDATE sync_sessions SET
			status = $2,
			ended_at = $3,
			error_message = $4,
			total_podcasts = $5,
			successful_podcasts = $6,
			failed_podcasts = $7,
			total_episodes = $8,
			successful_episodes = $9,
			failed_episodes = $10,
			new_episodes = $11,
			quota_used = $12
		WHERE id = $1 AND status = 'running'`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		session.ID,
		session.Status,
		session.EndedAt,
		session.ErrorMessage,
		session.TotalPodcasts,
		session.SuccessfulPodcasts,
		session.FailedPodcasts,
		session.TotalEpisodes,
		session.SuccessfulEpisodes,
		session.FailedEpisodes,
		session.NewEpisodes,
		session.QuotaUsed,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrSessionFinalized, session.ID)
	}
	return nil
}

// Latest returns the most recently started session, or nil when there is none.
func (s *SessionStore) Latest(ctx context.Context) (*domain.SyncSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM sync_sessions ORDER BY started_at DESC LIMIT 1`

	var session domain.SyncSession
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &session, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AbandonRunning fails sessions left running by a process that exited mid-run.
func (s *SessionStore) AbandonRunning(ctx context.Context, message string) (int64, error) {
	query := `
		UPDATE sync_sessions SET
			status = 'failed',
			ended_at = NOW(),
			error_message = $1
		WHERE status = 'running'`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, message)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
